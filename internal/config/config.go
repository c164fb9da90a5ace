package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv            string `mapstructure:"APP_ENV"`
	Port              string `mapstructure:"PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	RedisURL          string `mapstructure:"REDIS_URL"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	GeoEndpoint       string `mapstructure:"GEO_ENDPOINT"`
	GeoTimeoutSeconds int    `mapstructure:"GEO_TIMEOUT_SECONDS"`
	GeoCacheTTLMin    int    `mapstructure:"GEO_CACHE_TTL_MINUTES"`
	GeoIPDBPath       string `mapstructure:"GEOIP_DB_PATH"`
	EnrichWorkers     int    `mapstructure:"ENRICH_WORKERS"`
	ClickLimit        int    `mapstructure:"CLICK_LIMIT"`
}

func LoadConfig() (config Config, err error) {
	viper.SetDefault("APP_ENV", "local")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_URL", "sqlite://clicklens.db")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("GEO_ENDPOINT", "https://ipinfo.io")
	viper.SetDefault("GEOIP_DB_PATH", "")
	viper.SetDefault("GEO_TIMEOUT_SECONDS", 5)
	viper.SetDefault("GEO_CACHE_TTL_MINUTES", 30)
	viper.SetDefault("ENRICH_WORKERS", 8)
	viper.SetDefault("CLICK_LIMIT", 1000)

	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	if err != nil {
		log.Printf("unable to decode into struct, %v", err)
		return
	}

	return
}

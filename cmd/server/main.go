package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"clicklens/internal/config"
	"clicklens/internal/handlers"
	"clicklens/internal/render"
	"clicklens/internal/repository"
	"clicklens/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Setup Logger
	var handler slog.Handler
	if cfg.AppEnv == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 3. Initialize Database
	db, err := repository.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// 4. Run Migrations
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		logger.Info("Running database migrations...")
		if err := repository.RunMigrations(cfg.DatabaseURL, ""); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	// 5. Initialize Geo Provider
	var geo services.GeoProvider
	if cfg.GeoIPDBPath != "" {
		mmdb, err := services.NewMMDBGeoProvider(cfg.GeoIPDBPath, logger)
		if err != nil {
			logger.Warn("Falling back to HTTP geo lookups", "error", err)
			geo = services.NewHTTPGeoProvider(cfg, logger)
		} else {
			defer mmdb.Close()
			geo = mmdb
		}
	} else {
		geo = services.NewHTTPGeoProvider(cfg, logger)
	}

	// 6. Optional Redis Geo Cache
	if cfg.RedisURL != "" {
		rdb, err := repository.InitRedis(cfg.RedisURL, cfg.RedisPassword, 0)
		if err != nil {
			logger.Warn("Failed to connect to Redis, geo lookups go uncached", "error", err)
		} else {
			ttl := time.Duration(cfg.GeoCacheTTLMin) * time.Minute
			geo = services.NewCachedGeoProvider(geo, rdb, ttl, logger)
		}
	}

	// 7. Initialize Services
	tz := services.NewTimezoneService()
	times := services.NewClickTimeService(tz)
	enricher := services.NewEnricher(geo, times, services.ParseUserAgent, logger, cfg.EnrichWorkers)
	clicks := repository.NewClickLogRepository(db, cfg.ClickLimit)
	renderer := render.NewTableRenderer()
	rateLimiter := services.NewIPRateLimiter(5, 10, logger)

	// 8. Setup Router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := handlers.NewHandler(logger, clicks, enricher, renderer)
	r := h.SetupRouter(rateLimiter)

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	rateLimiter.StartCleanup(workerCtx, 10*time.Minute)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exiting")
	return nil
}

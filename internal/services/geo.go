package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clicklens/internal/config"
	"clicklens/internal/models"

	"github.com/redis/go-redis/v9"
)

// GeoProvider resolves an IP address to location metadata. Lookups
// degrade to an empty GeoInfo, never an error, so a dead endpoint can
// never suppress a report row.
type GeoProvider interface {
	Lookup(ctx context.Context, ip string) models.GeoInfo
}

// HTTPGeoProvider queries a JSON-over-HTTP lookup endpoint shaped like
// ipinfo.io: GET <endpoint>/<ip>/json. One request per lookup, no
// retries.
type HTTPGeoProvider struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

func NewHTTPGeoProvider(cfg config.Config, logger *slog.Logger) *HTTPGeoProvider {
	timeout := time.Duration(cfg.GeoTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPGeoProvider{
		endpoint: strings.TrimRight(cfg.GeoEndpoint, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (p *HTTPGeoProvider) Lookup(ctx context.Context, ip string) models.GeoInfo {
	if ip == "" {
		return models.GeoInfo{}
	}

	lookupURL := fmt.Sprintf("%s/%s/json", p.endpoint, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return models.GeoInfo{}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("Geo lookup request failed", "ip", ip, "error", err)
		return models.GeoInfo{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Debug("Geo lookup returned non-2xx", "ip", ip, "status", resp.StatusCode)
		return models.GeoInfo{}
	}

	var info models.GeoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		p.logger.Debug("Geo lookup returned malformed body", "ip", ip, "error", err)
		return models.GeoInfo{}
	}
	return info
}

// CachedGeoProvider is a read-through redis cache in front of another
// provider. Cache failures fall back to a direct lookup; empty results
// are not cached.
type CachedGeoProvider struct {
	next   GeoProvider
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedGeoProvider(next GeoProvider, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedGeoProvider {
	return &CachedGeoProvider{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func (p *CachedGeoProvider) Lookup(ctx context.Context, ip string) models.GeoInfo {
	if ip == "" {
		return models.GeoInfo{}
	}

	key := "geo:" + ip
	if val, err := p.rdb.Get(ctx, key).Result(); err == nil {
		var info models.GeoInfo
		if err := json.Unmarshal([]byte(val), &info); err == nil {
			return info
		}
	}

	info := p.next.Lookup(ctx, ip)
	if !info.IsZero() {
		if data, err := json.Marshal(info); err == nil {
			if err := p.rdb.Set(ctx, key, data, p.ttl).Err(); err != nil {
				p.logger.Debug("Failed to cache geo info", "ip", ip, "error", err)
			}
		}
	}
	return info
}

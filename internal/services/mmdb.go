package services

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"clicklens/internal/models"

	"github.com/oschwald/geoip2-golang"
)

// cityReader is the slice of geoip2.Reader the provider needs.
type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Close() error
}

// MMDBGeoProvider answers lookups from a local MaxMind City database
// instead of the HTTP endpoint. It satisfies the same degrade-to-empty
// contract.
type MMDBGeoProvider struct {
	logger *slog.Logger
	mu     sync.RWMutex
	reader cityReader
}

func NewMMDBGeoProvider(path string, logger *slog.Logger) (*MMDBGeoProvider, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geoip database: %w", err)
	}
	logger.Info("GeoIP: Loaded local database", "path", path)
	return &MMDBGeoProvider{
		logger: logger,
		reader: reader,
	}, nil
}

func (p *MMDBGeoProvider) Lookup(_ context.Context, ipStr string) models.GeoInfo {
	p.mu.RLock()
	reader := p.reader
	p.mu.RUnlock()

	if reader == nil {
		return models.GeoInfo{}
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return models.GeoInfo{}
	}

	record, err := reader.City(ip)
	if err != nil {
		p.logger.Debug("GeoIP: Lookup error", "ip", ipStr, "error", err)
		return models.GeoInfo{}
	}

	info := models.GeoInfo{
		IP: ipStr,
		// The HTTP endpoint reports the ISO code in its country field,
		// so the local reader does the same.
		Country:  record.Country.IsoCode,
		Timezone: record.Location.TimeZone,
	}
	if name, ok := record.City.Names["en"]; ok {
		info.City = name
	}
	if len(record.Subdivisions) > 0 {
		if name, ok := record.Subdivisions[0].Names["en"]; ok {
			info.Region = name
		}
	}
	return info
}

func (p *MMDBGeoProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.reader != nil {
		p.reader.Close()
		p.reader = nil
	}
}

package services

import (
	"bytes"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"clicklens/internal/models"

	"github.com/stretchr/testify/assert"
)

type stubGeoProvider struct {
	info  models.GeoInfo
	calls atomic.Int64
}

func (s *stubGeoProvider) Lookup(_ context.Context, ip string) models.GeoInfo {
	s.calls.Add(1)
	if ip == "" {
		return models.GeoInfo{}
	}
	return s.info
}

func newTestEnricher(geo GeoProvider) *Enricher {
	times := NewClickTimeService(NewTimezoneService())
	return NewEnricher(geo, times, ParseUserAgent, testLogger(), 4)
}

func TestEnricher_Enrich_RoundTrip(t *testing.T) {
	geo := &stubGeoProvider{info: models.GeoInfo{
		City:     "New York",
		Country:  "US",
		Timezone: "America/New_York",
	}}
	enricher := newTestEnricher(geo)

	record := models.ClickRecord{
		ShortCode:   "abc",
		IPAddress:   "203.0.113.7",
		UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		CountryCode: "US",
		ClickTime:   "2024-01-15 12:00:00",
	}

	row := enricher.Enrich(context.Background(), record, "")
	assert.Equal(t, "2024-01-15 12:00:00", row.UTCTime.Display)
	assert.Equal(t, "2024-01-15 07:00:00", row.LocalTime.Display)
	assert.Equal(t, -300, row.LocalTime.OffsetMinutes)
	assert.Equal(t, "GMT-5", row.GMTLabel)
	assert.Equal(t, "New York", row.Geo.City)
	assert.Contains(t, row.Facts.Browser(), "Chrome")
	assert.Equal(t, "desktop", row.Facts.DeviceType)
	assert.False(t, row.IsCurrentIP)
}

func TestEnricher_Enrich_Degraded(t *testing.T) {
	enricher := newTestEnricher(&stubGeoProvider{})

	t.Run("Empty IP And Malformed UA", func(t *testing.T) {
		row := enricher.Enrich(context.Background(), models.ClickRecord{
			UserAgent: "\x00\xff garbage",
		}, "")
		assert.True(t, row.Geo.IsZero())
		assert.Equal(t, 0, row.LocalTime.OffsetMinutes)
		assert.Equal(t, "GMT+0", row.GMTLabel)
		assert.WithinDuration(t, time.Now().UTC(), row.UTCTime.Instant, 2*time.Second)
	})

	t.Run("Unreachable Geo Endpoint", func(t *testing.T) {
		enricher := newTestEnricher(newHTTPProvider("http://127.0.0.1:1"))
		row := enricher.Enrich(context.Background(), models.ClickRecord{
			IPAddress: "8.8.8.8",
			ClickTime: "2024-01-15 12:00:00",
		}, "")
		assert.True(t, row.Geo.IsZero())
		assert.Equal(t, row.UTCTime.Display, row.LocalTime.Display)
	})
}

func TestEnricher_Enrich_LogsDegradedGeo(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	times := NewClickTimeService(NewTimezoneService())
	enricher := NewEnricher(&stubGeoProvider{}, times, nil, logger, 1)

	enricher.Enrich(context.Background(), models.ClickRecord{IPAddress: "203.0.113.50"}, "")
	assert.Contains(t, buf.String(), "Geo lookup returned no data")
	assert.Contains(t, buf.String(), "203.0.113.50")

	// Rows without an IP stay quiet
	buf.Reset()
	enricher.Enrich(context.Background(), models.ClickRecord{}, "")
	assert.NotContains(t, buf.String(), "Geo lookup returned no data")
}

func TestEnricher_Enrich_NilParser(t *testing.T) {
	times := NewClickTimeService(NewTimezoneService())
	enricher := NewEnricher(&stubGeoProvider{}, times, nil, testLogger(), 1)

	row := enricher.Enrich(context.Background(), models.ClickRecord{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0)",
	}, "")
	assert.Equal(t, models.UAFacts{}, row.Facts)
}

func TestEnricher_Enrich_CurrentIP(t *testing.T) {
	enricher := newTestEnricher(&stubGeoProvider{})

	row := enricher.Enrich(context.Background(), models.ClickRecord{IPAddress: "10.0.0.5"}, "10.0.0.5")
	assert.True(t, row.IsCurrentIP)

	row = enricher.Enrich(context.Background(), models.ClickRecord{IPAddress: "10.0.0.5"}, "10.0.0.6")
	assert.False(t, row.IsCurrentIP)

	// Missing requester IP never matches, even against an empty record IP
	row = enricher.Enrich(context.Background(), models.ClickRecord{IPAddress: ""}, "")
	assert.False(t, row.IsCurrentIP)
}

func TestEnricher_EnrichBatch(t *testing.T) {
	geo := &stubGeoProvider{info: models.GeoInfo{City: "Berlin", Timezone: "Europe/Berlin"}}
	enricher := newTestEnricher(geo)

	records := []models.ClickRecord{
		{IPAddress: "10.0.0.1", ClickTime: "2024-01-01 10:00:00"},
		{IPAddress: "10.0.0.2", ClickTime: "2024-01-02 10:00:00"},
		{IPAddress: "10.0.0.1", ClickTime: "2024-01-03 10:00:00"},
	}

	rows := enricher.EnrichBatch(context.Background(), records, "10.0.0.2")
	assert.Len(t, rows, 3)

	// Output order matches input order despite concurrent execution
	assert.Equal(t, "2024-01-01 10:00:00", rows[0].UTCTime.Display)
	assert.Equal(t, "2024-01-02 10:00:00", rows[1].UTCTime.Display)
	assert.Equal(t, "2024-01-03 10:00:00", rows[2].UTCTime.Display)

	assert.False(t, rows[0].IsCurrentIP)
	assert.True(t, rows[1].IsCurrentIP)

	// Repeated IPs share one lookup within the batch
	assert.Equal(t, int64(2), geo.calls.Load())
}

func TestEnricher_EnrichBatch_Empty(t *testing.T) {
	enricher := newTestEnricher(&stubGeoProvider{})
	rows := enricher.EnrichBatch(context.Background(), nil, "")
	assert.Empty(t, rows)
}

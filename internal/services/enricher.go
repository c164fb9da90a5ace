package services

import (
	"context"
	"log/slog"
	"sync"

	"clicklens/internal/models"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const defaultEnrichWorkers = 8

// Enricher turns raw click records into display rows. Every sub-lookup
// degrades to empty data; enrichment itself never fails a row.
type Enricher struct {
	geo     GeoProvider
	times   *ClickTimeService
	parser  UserAgentParser
	logger  *slog.Logger
	workers int
}

func NewEnricher(geo GeoProvider, times *ClickTimeService, parser UserAgentParser, logger *slog.Logger, workers int) *Enricher {
	if workers <= 0 {
		workers = defaultEnrichWorkers
	}
	return &Enricher{
		geo:     geo,
		times:   times,
		parser:  parser,
		logger:  logger,
		workers: workers,
	}
}

// Enrich resolves one click record against one requester IP. Step
// order is fixed: UTC time, geo lookup, local projection, GMT label,
// user-agent facts, requester match, assembly.
func (e *Enricher) Enrich(ctx context.Context, record models.ClickRecord, requesterIP string) models.EnrichedRow {
	return e.enrichWith(ctx, e.geo, record, requesterIP)
}

func (e *Enricher) enrichWith(ctx context.Context, geo GeoProvider, record models.ClickRecord, requesterIP string) models.EnrichedRow {
	utc := e.times.Resolve(record)
	info := geo.Lookup(ctx, record.IPAddress)
	if info.IsZero() && record.IPAddress != "" {
		e.logger.Debug("Geo lookup returned no data, row degrades to UTC", "ip", record.IPAddress)
	}
	local := e.times.Project(utc, info.Timezone)

	return models.EnrichedRow{
		Record:      record,
		Geo:         info,
		UTCTime:     utc,
		LocalTime:   local,
		GMTLabel:    GMTLabel(local.OffsetMinutes),
		Facts:       e.parseFacts(record.UserAgent),
		IsCurrentIP: requesterIP != "" && requesterIP == record.IPAddress,
	}
}

func (e *Enricher) parseFacts(raw string) models.UAFacts {
	if e.parser == nil {
		return models.UAFacts{}
	}
	facts := NewFacts(e.parser(raw))
	return models.UAFacts{
		BrowserName:        facts.Get("browser", "name"),
		BrowserVersion:     facts.Get("browser", "version", "value"),
		OSName:             facts.Get("os", "name"),
		OSVersion:          facts.Get("os", "version", "value"),
		DeviceModel:        facts.Get("device", "model"),
		DeviceManufacturer: facts.Get("device", "manufacturer"),
		DeviceType:         facts.Get("device", "type"),
		EngineName:         facts.Get("engine", "name"),
	}
}

// EnrichBatch enriches a record sequence concurrently while keeping
// the output in input order. Each row performs a blocking geo lookup,
// so rows run through a bounded worker pool; repeated IPs within the
// batch share one lookup.
func (e *Enricher) EnrichBatch(ctx context.Context, records []models.ClickRecord, requesterIP string) []models.EnrichedRow {
	rows := make([]models.EnrichedRow, len(records))
	memo := newGeoMemo(e.geo)

	g := new(errgroup.Group)
	g.SetLimit(e.workers)
	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			rows[i] = e.enrichWith(ctx, memo, record, requesterIP)
			return nil
		})
	}
	g.Wait()

	return rows
}

// geoMemo deduplicates lookups for repeated IPs within one batch. It
// is discarded with the batch, so nothing goes stale across render
// invocations.
type geoMemo struct {
	next  GeoProvider
	group singleflight.Group
	mu    sync.RWMutex
	seen  map[string]models.GeoInfo
}

func newGeoMemo(next GeoProvider) *geoMemo {
	return &geoMemo{
		next: next,
		seen: make(map[string]models.GeoInfo),
	}
}

func (m *geoMemo) Lookup(ctx context.Context, ip string) models.GeoInfo {
	m.mu.RLock()
	info, ok := m.seen[ip]
	m.mu.RUnlock()
	if ok {
		return info
	}

	v, _, _ := m.group.Do(ip, func() (interface{}, error) {
		info := m.next.Lookup(ctx, ip)
		m.mu.Lock()
		m.seen[ip] = info
		m.mu.Unlock()
		return info, nil
	})
	return v.(models.GeoInfo)
}

package services

import (
	"strings"
	"time"

	"clicklens/internal/models"
)

// displayLayout is the report's time format for both UTC and local
// columns.
const displayLayout = "2006-01-02 15:04:05"

// timestampLayouts are tried in order when parsing a raw click
// timestamp. Values without a zone are taken as UTC.
var timestampLayouts = []string{
	displayLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ClickTimeService normalizes raw click timestamps to UTC and projects
// them into a visitor's timezone.
type ClickTimeService struct {
	tz  *TimezoneService
	now func() time.Time
}

func NewClickTimeService(tz *TimezoneService) *ClickTimeService {
	return &ClickTimeService{
		tz:  tz,
		now: time.Now,
	}
}

// Resolve picks the first populated timestamp column of a record and
// normalizes it to UTC. A missing or unparseable value falls back to
// the current UTC instant, never to an error.
func (s *ClickTimeService) Resolve(record models.ClickRecord) models.ResolvedTime {
	var raw string
	for _, candidate := range record.TimestampCandidates() {
		if strings.TrimSpace(candidate) != "" {
			raw = candidate
			break
		}
	}

	instant := s.parseUTC(raw)
	return models.ResolvedTime{
		Instant: instant,
		Display: instant.Format(displayLayout),
	}
}

func (s *ClickTimeService) parseUTC(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.now().UTC()
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC()
		}
	}
	return s.now().UTC()
}

// Project shifts a UTC instant into the given timezone by adding its
// offset at that instant. An empty timezone keeps the instant unchanged
// with offset 0. The offset stays in minutes; the GMT label is derived
// separately.
func (s *ClickTimeService) Project(utc models.ResolvedTime, timezone string) models.LocalTime {
	if timezone == "" {
		return models.LocalTime{
			Instant:       utc.Instant,
			Display:       utc.Display,
			OffsetMinutes: 0,
		}
	}

	offset := s.tz.OffsetMinutes(timezone, utc.Instant)
	local := utc.Instant.Add(time.Duration(offset) * time.Minute)
	return models.LocalTime{
		Instant:       local,
		Display:       local.Format(displayLayout),
		OffsetMinutes: offset,
	}
}

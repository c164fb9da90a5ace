package services

import (
	"fmt"
	"time"
)

// TimezoneService resolves IANA timezone names into display offsets.
type TimezoneService struct{}

func NewTimezoneService() *TimezoneService {
	return &TimezoneService{}
}

// OffsetMinutes returns the signed UTC offset in minutes for a
// timezone name at the given instant, honoring the DST rules in effect
// then. Unknown or empty names resolve to 0.
func (s *TimezoneService) OffsetMinutes(name string, at time.Time) int {
	if name == "" {
		return 0
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return 0
	}
	_, offsetSeconds := at.In(loc).Zone()
	return offsetSeconds / 60
}

// GMTLabel formats a minute offset as the report's timezone column.
// Hours are truncated from the absolute offset, so half-hour zones lose
// their minutes (-330 renders as GMT-5). Zero takes the plus sign.
func GMTLabel(offsetMinutes int) string {
	sign := "+"
	m := offsetMinutes
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("GMT%s%d", sign, m/60)
}

package models

import (
	"strings"
	"time"
)

// GeoInfo is the location metadata derived from one IP lookup. A failed
// or malformed lookup produces the zero value, never an error. Field
// names follow the lookup endpoint's JSON response.
type GeoInfo struct {
	IP       string `json:"ip,omitempty"`
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Country  string `json:"country,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

func (g GeoInfo) IsZero() bool {
	return g == GeoInfo{}
}

// ResolvedTime is a click timestamp normalized to UTC.
type ResolvedTime struct {
	Instant time.Time
	Display string
}

// LocalTime is the click instant shifted into the visitor's timezone.
// OffsetMinutes is 0 when no timezone could be resolved.
type LocalTime struct {
	Instant       time.Time
	Display       string
	OffsetMinutes int
}

// UAFacts holds the flattened user-agent parse results. Every field is
// independently optional; absent paths are empty strings.
type UAFacts struct {
	BrowserName        string
	BrowserVersion     string
	OSName             string
	OSVersion          string
	DeviceModel        string
	DeviceManufacturer string
	DeviceType         string
	EngineName         string
}

// Browser joins name and version for display, collapsing to "" when
// both parts are empty.
func (f UAFacts) Browser() string {
	return strings.TrimSpace(f.BrowserName + " " + f.BrowserVersion)
}

func (f UAFacts) OS() string {
	return strings.TrimSpace(f.OSName + " " + f.OSVersion)
}

// EnrichedRow joins one click record with everything derived from it,
// ready for rendering. Rows are transient; nothing is persisted.
type EnrichedRow struct {
	Record      ClickRecord
	Geo         GeoInfo
	UTCTime     ResolvedTime
	LocalTime   LocalTime
	GMTLabel    string
	Facts       UAFacts
	IsCurrentIP bool
}

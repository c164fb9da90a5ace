package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClickRecord_TimestampCandidates(t *testing.T) {
	record := ClickRecord{
		ClickTime: "a",
		Timestamp: "b",
		ClickDate: "c",
		Date:      "d",
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, record.TimestampCandidates())
}

func TestClickRecord_TableName(t *testing.T) {
	assert.Equal(t, "click_log", ClickRecord{}.TableName())
}

func TestUAFacts_Browser(t *testing.T) {
	assert.Equal(t, "Chrome 91.0", UAFacts{BrowserName: "Chrome", BrowserVersion: "91.0"}.Browser())
	assert.Equal(t, "Chrome", UAFacts{BrowserName: "Chrome"}.Browser())
	assert.Equal(t, "", UAFacts{}.Browser())
}

func TestUAFacts_OS(t *testing.T) {
	assert.Equal(t, "iOS 14.0", UAFacts{OSName: "iOS", OSVersion: "14.0"}.OS())
	assert.Equal(t, "14.0", UAFacts{OSVersion: "14.0"}.OS())
}

func TestGeoInfo_IsZero(t *testing.T) {
	assert.True(t, GeoInfo{}.IsZero())
	assert.False(t, GeoInfo{City: "Berlin"}.IsZero())
}

package render

import (
	"strings"
	"testing"

	"clicklens/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleRow() models.EnrichedRow {
	return models.EnrichedRow{
		Record: models.ClickRecord{
			IPAddress:   "203.0.113.7",
			UserAgent:   "Mozilla/5.0",
			Referrer:    "https://example.com/page",
			CountryCode: "US",
		},
		Geo:      models.GeoInfo{City: "New York"},
		UTCTime:  models.ResolvedTime{Display: "2024-01-15 12:00:00"},
		LocalTime: models.LocalTime{
			Display:       "2024-01-15 07:00:00",
			OffsetMinutes: -300,
		},
		GMTLabel: "GMT-5",
		Facts: models.UAFacts{
			BrowserName:    "Chrome",
			BrowserVersion: "91.0",
			OSName:         "Windows",
			DeviceType:     "desktop",
			EngineName:     "AppleWebKit",
		},
	}
}

func TestTableRenderer_Render(t *testing.T) {
	renderer := NewTableRenderer()

	out, err := renderer.Render([]models.EnrichedRow{sampleRow()})
	assert.NoError(t, err)
	assert.Contains(t, out, "<table")
	assert.Contains(t, out, "2024-01-15 12:00:00")
	assert.Contains(t, out, "2024-01-15 07:00:00")
	assert.Contains(t, out, "GMT-5")
	assert.Contains(t, out, "New York")
	assert.Contains(t, out, "Chrome 91.0")
	assert.Contains(t, out, "who.is/whois-ip/ip-address/203.0.113.7")
	assert.NotContains(t, out, "this is your ip")
	assert.NotContains(t, out, "bgcolor")
}

func TestTableRenderer_Render_Empty(t *testing.T) {
	renderer := NewTableRenderer()

	out, err := renderer.Render(nil)
	assert.NoError(t, err)
	assert.Equal(t, "", out)

	out, err = renderer.Render([]models.EnrichedRow{})
	assert.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestTableRenderer_Render_Escaping(t *testing.T) {
	renderer := NewTableRenderer()

	row := sampleRow()
	row.Record.UserAgent = `<script>alert("xss")</script>`
	row.Record.Referrer = `"><img src=x onerror=alert(1)>`
	row.Geo.City = "<b>Bold Town</b>"

	out, err := renderer.Render([]models.EnrichedRow{row})
	assert.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<img")
	assert.NotContains(t, out, "<b>Bold Town</b>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestTableRenderer_Render_CurrentIPHighlight(t *testing.T) {
	renderer := NewTableRenderer()

	row := sampleRow()
	row.IsCurrentIP = true

	out, err := renderer.Render([]models.EnrichedRow{row})
	assert.NoError(t, err)
	assert.Contains(t, out, `bgcolor="#d4eeff"`)
	assert.Contains(t, out, "this is your ip")
}

func TestTableRenderer_Render_ColumnOrder(t *testing.T) {
	renderer := NewTableRenderer()

	out, err := renderer.Render([]models.EnrichedRow{sampleRow()})
	assert.NoError(t, err)

	header := out[:strings.Index(out, "</tr>")]
	want := []string{"Timestamp", "Local Time", "Timezone", "Country", "City", "IP Address", "User Agent", "Browser Version", "OS Version", "Device Model", "Device Vendor", "Device Type", "Engine", "Referrer"}
	pos := -1
	for _, col := range want {
		next := strings.Index(header, col)
		assert.Greater(t, next, pos, "column %q out of order", col)
		pos = next
	}
}

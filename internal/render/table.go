package render

import (
	"bytes"
	"fmt"
	"html/template"

	"clicklens/internal/models"
)

// reportTemplate emits the click table the host page embeds below its
// own stats. Column order is fixed. html/template escapes every field
// contextually, including the whois link parameter.
const reportTemplate = `<table border="1" cellpadding="5" style="margin-top:25px;">
<tr><td width="80">Timestamp</td><td>Local Time</td><td>Timezone</td><td>Country</td><td>City</td><td>IP Address</td><td>User Agent</td><td>Browser Version</td><td>OS Version</td><td>Device Model</td><td>Device Vendor</td><td>Device Type</td><td>Engine</td><td>Referrer</td></tr>
{{- range . }}
<tr{{ if .IsCurrentIP }} bgcolor="#d4eeff"{{ end }}><td>{{ .UTCTime.Display }}</td><td>{{ .LocalTime.Display }}</td><td>{{ .GMTLabel }}</td><td>{{ .Record.CountryCode }}</td><td>{{ .Geo.City }}</td><td><a href="https://who.is/whois-ip/ip-address/{{ .Record.IPAddress }}" target="_blank" rel="noopener">{{ .Record.IPAddress }}</a>{{ if .IsCurrentIP }}<br><i>this is your ip</i>{{ end }}</td><td>{{ .Record.UserAgent }}</td><td>{{ .Facts.Browser }}</td><td>{{ .Facts.OS }}</td><td>{{ .Facts.DeviceModel }}</td><td>{{ .Facts.DeviceManufacturer }}</td><td>{{ .Facts.DeviceType }}</td><td>{{ .Facts.EngineName }}</td><td>{{ .Record.Referrer }}</td></tr>
{{- end }}
</table><br>`

// TableRenderer turns enriched rows into the embeddable HTML report.
type TableRenderer struct {
	tmpl *template.Template
}

func NewTableRenderer() *TableRenderer {
	return &TableRenderer{
		tmpl: template.Must(template.New("report").Parse(reportTemplate)),
	}
}

// Render returns the escaped table for a row sequence. An empty
// sequence renders as an empty string with no table shell.
func (r *TableRenderer) Render(rows []models.EnrichedRow) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, rows); err != nil {
		return "", fmt.Errorf("failed to render report table: %w", err)
	}
	return buf.String(), nil
}

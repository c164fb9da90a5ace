package models

// ClickRecord is one raw row from the shortener's click log. The log is
// written by the hosting application's redirect path; this service only
// reads it. Older installs named the timestamp column differently, so
// every known alias is mapped and resolved in priority order.
type ClickRecord struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ShortCode   string `gorm:"size:100;index;not null" json:"short_code"`
	IPAddress   string `gorm:"size:45" json:"ip_address"`
	UserAgent   string `gorm:"size:512" json:"user_agent"`
	Referrer    string `gorm:"size:512" json:"referrer,omitempty"`
	CountryCode string `gorm:"size:2" json:"country_code,omitempty"`

	ClickTime string `gorm:"column:click_time;size:64" json:"click_time,omitempty"`
	Timestamp string `gorm:"column:timestamp;size:64" json:"timestamp,omitempty"`
	ClickDate string `gorm:"column:click_date;size:64" json:"click_date,omitempty"`
	Date      string `gorm:"column:date;size:64" json:"date,omitempty"`
}

func (ClickRecord) TableName() string {
	return "click_log"
}

// TimestampCandidates returns the raw timestamp values in resolution
// priority order. The first non-empty value wins; no merging.
func (c ClickRecord) TimestampCandidates() []string {
	return []string{c.ClickTime, c.Timestamp, c.ClickDate, c.Date}
}

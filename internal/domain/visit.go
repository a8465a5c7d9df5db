package domain

import "time"

// MaxUserAgentLength bounds the stored User-Agent string. Longer values
// are truncated before persistence.
const MaxUserAgentLength = 500

// SiteVisit is one logged page-view event. Rows are append-only: they are
// created once per qualifying request and never mutated or deleted by the
// application (retention is handled by a startup purge, see repository).
type SiteVisit struct {
	ID         int64     `gorm:"primaryKey;column:id" json:"id"`
	IPAddress  string    `gorm:"column:ip_address;size:45" json:"ip_address"`
	UserAgent  string    `gorm:"column:user_agent;size:500" json:"user_agent"`
	Page       string    `gorm:"column:page;size:500;not null;index" json:"page"`
	DeviceType *string   `gorm:"column:device_type;size:10" json:"device_type,omitempty"` // 'desktop', 'mobile', 'tablet', 'bot'
	SessionID  string    `gorm:"column:session_id;size:100" json:"session_id"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

// TableName returns the table name for GORM
func (SiteVisit) TableName() string {
	return "site_visits"
}

package domain

import "time"

// Contact message priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ContactMessage представляет сообщение из контактной формы
type ContactMessage struct {
	ID           int64      `gorm:"primaryKey;column:id" json:"id"`
	Name         string     `gorm:"column:name;size:200;not null" json:"name"`
	Email        string     `gorm:"column:email;size:254;not null" json:"email"`
	Phone        string     `gorm:"column:phone;size:20" json:"phone,omitempty"`
	Company      string     `gorm:"column:company;size:200" json:"company,omitempty"`
	Subject      string     `gorm:"column:subject;size:200;not null" json:"subject"`
	Message      string     `gorm:"column:message;type:text;not null" json:"message"`
	Priority     string     `gorm:"column:priority;size:10;not null;default:medium" json:"priority"`
	Budget       string     `gorm:"column:budget;size:100" json:"budget,omitempty"`
	Read         bool       `gorm:"column:read;not null;default:false" json:"read"`
	Replied      bool       `gorm:"column:replied;not null;default:false" json:"replied"`
	ReplyMessage string     `gorm:"column:reply_message;type:text" json:"reply_message,omitempty"`
	RepliedAt    *time.Time `gorm:"column:replied_at" json:"replied_at,omitempty"`
	ClientIP     string     `gorm:"column:client_ip;size:45" json:"client_ip,omitempty"`
	UserAgent    string     `gorm:"column:user_agent;type:text" json:"user_agent,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

// TableName returns the table name for GORM
func (ContactMessage) TableName() string {
	return "contact_messages"
}

// IsValidPriority reports whether p is a known message priority.
func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

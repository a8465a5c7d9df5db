package domain

import "time"

// Experience представляет запись об опыте работы
type Experience struct {
	ID           int64      `gorm:"primaryKey;column:id" json:"id"`
	Company      string     `gorm:"column:company;size:200;not null" json:"company"`
	Position     string     `gorm:"column:position;size:200;not null" json:"position"`
	Description  string     `gorm:"column:description;type:text" json:"description"`
	StartDate    time.Time  `gorm:"column:start_date;not null" json:"start_date"`
	EndDate      *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	Current      bool       `gorm:"column:current;not null;default:false" json:"current"`
	Location     string     `gorm:"column:location;size:200" json:"location,omitempty"`
	DisplayOrder int        `gorm:"column:display_order;not null;default:0" json:"display_order"`
}

// TableName returns the table name for GORM
func (Experience) TableName() string {
	return "experiences"
}

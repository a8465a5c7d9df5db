package domain

import "time"

// Project statuses
const (
	ProjectStatusCompleted  = "completed"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusArchived   = "archived"
)

// Project представляет проект портфолио
type Project struct {
	ID                  int64     `gorm:"primaryKey;column:id" json:"id"`
	Title               string    `gorm:"column:title;size:200;not null" json:"title"`
	Slug                string    `gorm:"column:slug;size:200;not null;uniqueIndex" json:"slug"`
	Description         string    `gorm:"column:description;type:text;not null" json:"description"`
	DetailedDescription string    `gorm:"column:detailed_description;type:text" json:"detailed_description"`
	ImagePath           string    `gorm:"column:image_path;size:500" json:"image_path,omitempty"`
	GithubURL           string    `gorm:"column:github_url;size:500" json:"github_url,omitempty"`
	DemoURL             string    `gorm:"column:demo_url;size:500" json:"demo_url,omitempty"`
	Status              string    `gorm:"column:status;size:20;not null;default:completed;index" json:"status"`
	Featured            bool      `gorm:"column:featured;not null;default:false" json:"featured"`
	DisplayOrder        int       `gorm:"column:display_order;not null;default:0" json:"display_order"`
	Views               int64     `gorm:"column:views;not null;default:0" json:"views"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Technologies []Skill `gorm:"many2many:project_technologies" json:"technologies,omitempty"`
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// IsValidProjectStatus reports whether s is a known project status.
func IsValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusCompleted, ProjectStatusInProgress, ProjectStatusArchived:
		return true
	}
	return false
}

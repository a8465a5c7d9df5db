package domain

// Skill categories
const (
	SkillCategoryBackend  = "backend"
	SkillCategoryFrontend = "frontend"
	SkillCategoryTools    = "tools"
)

// Skill представляет технологию или компетенцию
type Skill struct {
	ID           int64  `gorm:"primaryKey;column:id" json:"id"`
	Name         string `gorm:"column:name;size:100;not null" json:"name"`
	Category     string `gorm:"column:category;size:20;not null;index" json:"category"`
	Proficiency  int    `gorm:"column:proficiency;not null;default:50" json:"proficiency"` // 0-100
	Icon         string `gorm:"column:icon;size:50" json:"icon,omitempty"`
	DisplayOrder int    `gorm:"column:display_order;not null;default:0" json:"display_order"`
}

// TableName returns the table name for GORM
func (Skill) TableName() string {
	return "skills"
}

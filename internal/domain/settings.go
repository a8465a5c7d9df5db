package domain

// SiteSettings представляет настройки сайта. В базе может существовать
// только одна строка (контролируется на уровне репозитория); значение
// загружается один раз при старте и передается явно, а не читается
// глобально на каждый запрос.
type SiteSettings struct {
	ID               int64  `gorm:"primaryKey;column:id" json:"id"`
	Name             string `gorm:"column:name;size:200;not null" json:"name"`
	Tagline          string `gorm:"column:tagline;size:300" json:"tagline"`
	Bio              string `gorm:"column:bio;type:text" json:"bio"`
	Email            string `gorm:"column:email;size:254;not null" json:"email"`
	Phone            string `gorm:"column:phone;size:20" json:"phone,omitempty"`
	Location         string `gorm:"column:location;size:200" json:"location,omitempty"`
	GithubURL        string `gorm:"column:github_url;size:500" json:"github_url,omitempty"`
	LinkedinURL      string `gorm:"column:linkedin_url;size:500" json:"linkedin_url,omitempty"`
	Whatsapp         string `gorm:"column:whatsapp;size:20" json:"whatsapp,omitempty"`
	ResumePath       string `gorm:"column:resume_path;size:500" json:"-"`
	ProfileImagePath string `gorm:"column:profile_image_path;size:500" json:"profile_image_path,omitempty"`
}

// TableName returns the table name for GORM
func (SiteSettings) TableName() string {
	return "site_settings"
}

package repository

import (
	"context"
	"errors"
	"time"

	"portfolio-backend/internal/domain"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrMessageNotFound  = errors.New("message not found")
	ErrSettingsNotFound = errors.New("site settings not found")
	ErrSettingsExists   = errors.New("site settings row already exists")
	ErrUserNotFound     = errors.New("user not found")
)

// ProjectFilter carries the query parameters of the public project list.
// Zero values mean "no filter"; Page is 1-based.
type ProjectFilter struct {
	Technology string // skill name, substring match
	Status     string
	Search     string // matched against title and descriptions
	Page       int
	PerPage    int
}

// ProjectPage is one page of the filtered project list.
type ProjectPage struct {
	Projects   []*domain.Project
	Total      int64 // rows matching the filter, across all pages
	Page       int
	TotalPages int
}

// PageCount is a distinct page path with its visit count.
type PageCount struct {
	Page  string `gorm:"column:page" json:"page"`
	Count int64  `gorm:"column:count" json:"count"`
}

type Storage interface {
	// Visit methods. CreateVisit appends one row; callers on the request
	// path treat a failure as best-effort and must not propagate it.
	CreateVisit(ctx context.Context, visit *domain.SiteVisit) error
	CountVisitsOn(ctx context.Context, day time.Time) (int64, error)
	CountVisitsSince(ctx context.Context, day time.Time) (int64, error)
	PopularPages(ctx context.Context, limit int) ([]PageCount, error)
	PurgeVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Project methods
	ListProjects(ctx context.Context, filter ProjectFilter) (*ProjectPage, error)
	FeaturedProjects(ctx context.Context, limit int) ([]*domain.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*domain.Project, error)
	RelatedProjects(ctx context.Context, project *domain.Project, limit int) ([]*domain.Project, error)
	IncrementProjectViews(ctx context.Context, projectID int64) error
	TopProjects(ctx context.Context, limit int) ([]*domain.Project, error)
	CountProjects(ctx context.Context) (int64, error)

	// Contact message methods
	CreateMessage(ctx context.Context, msg *domain.ContactMessage) error
	RecentMessages(ctx context.Context, limit int) ([]*domain.ContactMessage, error)
	CountMessages(ctx context.Context) (int64, error)
	CountUnreadMessages(ctx context.Context) (int64, error)
	MarkMessageRead(ctx context.Context, messageID int64) error

	// Content methods
	ListSkills(ctx context.Context) ([]*domain.Skill, error)
	ListExperiences(ctx context.Context) ([]*domain.Experience, error)

	// Settings: a single row, created at most once and loaded at startup.
	GetSettings(ctx context.Context) (*domain.SiteSettings, error)
	CreateSettings(ctx context.Context, settings *domain.SiteSettings) error

	// Operator account methods
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	TouchUserLogin(ctx context.Context, userID int64) error
}

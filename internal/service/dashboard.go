package service

import (
	"context"
	"fmt"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository"

	"go.uber.org/zap"
)

const (
	topLimit  = 5
	chartDays = 7
)

// DashboardStats is the full aggregate snapshot shown to the operator.
// All values are recomputed from the store on every call; there is no
// cache between requests.
type DashboardStats struct {
	TotalProjects  int64                    `json:"total_projects"`
	TotalMessages  int64                    `json:"total_messages"`
	UnreadMessages int64                    `json:"unread_messages"`
	VisitsToday    int64                    `json:"visits_today"`
	VisitsWeek     int64                    `json:"visits_week"`
	VisitsMonth    int64                    `json:"visits_month"`
	TopProjects    []*domain.Project        `json:"top_projects"`
	RecentMessages []*domain.ContactMessage `json:"recent_messages"`
	PopularPages   []repository.PageCount   `json:"popular_pages"`
}

// QuickStats is the lightweight payload of GET /api/stats.
type QuickStats struct {
	VisitsToday    int64 `json:"visits_today"`
	VisitsWeek     int64 `json:"visits_week"`
	UnreadMessages int64 `json:"unread_messages"`
	TotalProjects  int64 `json:"total_projects"`
}

// ChartData is the 7-day visit series, oldest to newest.
type ChartData struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

// DashboardService computes time-windowed aggregates over visits,
// messages and projects. Pure reads; any query failure is surfaced to
// the caller since this is operator-facing.
type DashboardService struct {
	storage repository.Storage
	log     *zap.Logger
	now     func() time.Time
}

// NewDashboardService creates a dashboard aggregator.
func NewDashboardService(storage repository.Storage, log *zap.Logger) *DashboardService {
	return &DashboardService{
		storage: storage,
		log:     log,
		now:     time.Now,
	}
}

// Stats computes the full dashboard snapshot for the current moment.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	today := s.now()

	stats := &DashboardStats{}
	var err error

	if stats.TotalProjects, err = s.storage.CountProjects(ctx); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if stats.TotalMessages, err = s.storage.CountMessages(ctx); err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	if stats.UnreadMessages, err = s.storage.CountUnreadMessages(ctx); err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}

	if stats.VisitsToday, err = s.storage.CountVisitsOn(ctx, today); err != nil {
		return nil, fmt.Errorf("failed to count today's visits: %w", err)
	}
	// Trailing windows are inclusive by calendar date: [today-N, today].
	if stats.VisitsWeek, err = s.storage.CountVisitsSince(ctx, today.AddDate(0, 0, -(chartDays - 1))); err != nil {
		return nil, fmt.Errorf("failed to count weekly visits: %w", err)
	}
	if stats.VisitsMonth, err = s.storage.CountVisitsSince(ctx, today.AddDate(0, 0, -29)); err != nil {
		return nil, fmt.Errorf("failed to count monthly visits: %w", err)
	}

	if stats.TopProjects, err = s.storage.TopProjects(ctx, topLimit); err != nil {
		return nil, fmt.Errorf("failed to list top projects: %w", err)
	}
	if stats.RecentMessages, err = s.storage.RecentMessages(ctx, topLimit); err != nil {
		return nil, fmt.Errorf("failed to list recent messages: %w", err)
	}
	if stats.PopularPages, err = s.storage.PopularPages(ctx, topLimit); err != nil {
		return nil, fmt.Errorf("failed to list popular pages: %w", err)
	}

	s.log.Debug("computed dashboard stats",
		zap.Int64("visits_today", stats.VisitsToday),
		zap.Int64("visits_week", stats.VisitsWeek),
		zap.Int64("unread_messages", stats.UnreadMessages))

	return stats, nil
}

// QuickStats computes the reduced snapshot of GET /api/stats.
func (s *DashboardService) QuickStats(ctx context.Context) (*QuickStats, error) {
	today := s.now()

	stats := &QuickStats{}
	var err error

	if stats.VisitsToday, err = s.storage.CountVisitsOn(ctx, today); err != nil {
		return nil, fmt.Errorf("failed to count today's visits: %w", err)
	}
	if stats.VisitsWeek, err = s.storage.CountVisitsSince(ctx, today.AddDate(0, 0, -(chartDays - 1))); err != nil {
		return nil, fmt.Errorf("failed to count weekly visits: %w", err)
	}
	if stats.UnreadMessages, err = s.storage.CountUnreadMessages(ctx); err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}
	if stats.TotalProjects, err = s.storage.CountProjects(ctx); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	return stats, nil
}

// ChartData computes per-day visit counts for the trailing 7 calendar
// days, oldest to newest, with DD/MM labels.
func (s *DashboardService) ChartData(ctx context.Context) (*ChartData, error) {
	today := s.now()

	chart := &ChartData{
		Labels: make([]string, 0, chartDays),
		Data:   make([]int64, 0, chartDays),
	}

	for i := chartDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		count, err := s.storage.CountVisitsOn(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("failed to count visits for %s: %w", day.Format("2006-01-02"), err)
		}
		chart.Labels = append(chart.Labels, day.Format("02/01"))
		chart.Data = append(chart.Data, count)
	}

	return chart, nil
}

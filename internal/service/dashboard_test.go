package service

import (
	"context"
	"testing"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fixedNow pins the aggregator clock to a deterministic instant.
var fixedNow = time.Date(2025, time.March, 15, 14, 30, 0, 0, time.Local)

func newTestDashboard(store *memory.MemStorage) *DashboardService {
	svc := NewDashboardService(store, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func addVisitAt(t *testing.T, store *memory.MemStorage, page string, at time.Time) {
	t.Helper()
	err := store.CreateVisit(context.Background(), &domain.SiteVisit{
		Page:      page,
		CreatedAt: at,
	})
	require.NoError(t, err)
}

func TestDashboard_VisitWindows(t *testing.T) {
	store := memory.New()
	svc := newTestDashboard(store)

	today := fixedNow
	addVisitAt(t, store, "/", today)
	addVisitAt(t, store, "/", today.Add(-2*time.Hour))
	addVisitAt(t, store, "/projects", today.AddDate(0, 0, -3))
	addVisitAt(t, store, "/projects", today.AddDate(0, 0, -6))
	addVisitAt(t, store, "/about", today.AddDate(0, 0, -10)) // inside month, outside week
	addVisitAt(t, store, "/about", today.AddDate(0, 0, -40)) // outside month

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.VisitsToday)
	assert.EqualValues(t, 4, stats.VisitsWeek)
	assert.EqualValues(t, 5, stats.VisitsMonth)
}

func TestDashboard_MidnightBoundaryBelongsToNewDay(t *testing.T) {
	store := memory.New()
	svc := newTestDashboard(store)

	midnight := time.Date(fixedNow.Year(), fixedNow.Month(), fixedNow.Day(), 0, 0, 0, 0, fixedNow.Location())
	addVisitAt(t, store, "/", midnight)
	addVisitAt(t, store, "/", midnight.Add(-time.Nanosecond)) // still yesterday

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, stats.VisitsToday)
	assert.EqualValues(t, 2, stats.VisitsWeek)
}

func TestDashboard_WeekEqualsSumOfDailyCounts(t *testing.T) {
	store := memory.New()
	svc := newTestDashboard(store)

	// One visit on each of the trailing 7 calendar days
	for i := 0; i < 7; i++ {
		addVisitAt(t, store, "/", fixedNow.AddDate(0, 0, -i))
	}
	// Outside the window, must not count
	addVisitAt(t, store, "/", fixedNow.AddDate(0, 0, -7))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	chart, err := svc.ChartData(context.Background())
	require.NoError(t, err)

	var sum int64
	for _, count := range chart.Data {
		sum += count
	}
	assert.Equal(t, stats.VisitsWeek, sum)
	assert.EqualValues(t, 7, stats.VisitsWeek)
}

func TestDashboard_ChartDataOldestToNewest(t *testing.T) {
	store := memory.New()
	svc := newTestDashboard(store)

	// Two visits today, one visit three days ago
	addVisitAt(t, store, "/", fixedNow)
	addVisitAt(t, store, "/", fixedNow)
	addVisitAt(t, store, "/", fixedNow.AddDate(0, 0, -3))

	chart, err := svc.ChartData(context.Background())
	require.NoError(t, err)

	require.Len(t, chart.Labels, 7)
	require.Len(t, chart.Data, 7)

	// Newest day is last
	assert.Equal(t, fixedNow.Format("02/01"), chart.Labels[6])
	assert.Equal(t, fixedNow.AddDate(0, 0, -6).Format("02/01"), chart.Labels[0])
	assert.EqualValues(t, 2, chart.Data[6])
	assert.EqualValues(t, 1, chart.Data[3])
	assert.EqualValues(t, 0, chart.Data[0])
}

func TestDashboard_PopularPagesRankedByCount(t *testing.T) {
	store := memory.New()
	svc := newTestDashboard(store)

	addVisitAt(t, store, "/a", fixedNow)
	addVisitAt(t, store, "/a", fixedNow)
	addVisitAt(t, store, "/b", fixedNow)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.PopularPages, 2)
	assert.Equal(t, "/a", stats.PopularPages[0].Page)
	assert.EqualValues(t, 2, stats.PopularPages[0].Count)
	assert.Equal(t, "/b", stats.PopularPages[1].Page)
	assert.EqualValues(t, 1, stats.PopularPages[1].Count)
}

func TestDashboard_TopProjects(t *testing.T) {
	store := memory.New()
	svc := newTestDashboard(store)

	views := []int64{10, 5, 5, 1, 7, 3, 2}
	for i, v := range views {
		store.AddProject(&domain.Project{
			ID:     int64(i + 1),
			Title:  "p",
			Slug:   "p" + string(rune('a'+i)),
			Status: domain.ProjectStatusCompleted,
			Views:  v,
		})
	}

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.TopProjects, 5)
	got := make([]int64, 0, 5)
	for _, p := range stats.TopProjects {
		got = append(got, p.Views)
	}
	assert.Equal(t, []int64{10, 7, 5, 5, 3}, got)

	// Tied pair keeps insertion order
	assert.Less(t, stats.TopProjects[2].ID, stats.TopProjects[3].ID)
}

func TestDashboard_RecentMessagesNewestFirst(t *testing.T) {
	store := memory.New()
	svc := newTestDashboard(store)

	for i := 0; i < 7; i++ {
		err := store.CreateMessage(context.Background(), &domain.ContactMessage{
			Name:      "sender",
			Email:     "sender@example.com",
			Subject:   "s",
			Message:   "m",
			CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.RecentMessages, 5)
	for i := 1; i < len(stats.RecentMessages); i++ {
		assert.True(t, !stats.RecentMessages[i-1].CreatedAt.Before(stats.RecentMessages[i].CreatedAt))
	}
	assert.EqualValues(t, 7, stats.TotalMessages)
	assert.EqualValues(t, 7, stats.UnreadMessages)
}

func TestDashboard_QuickStats(t *testing.T) {
	store := memory.New()
	svc := newTestDashboard(store)

	addVisitAt(t, store, "/", fixedNow)
	addVisitAt(t, store, "/", fixedNow.AddDate(0, 0, -2))
	store.AddProject(&domain.Project{ID: 1, Slug: "p", Status: domain.ProjectStatusCompleted})

	stats, err := svc.QuickStats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, stats.VisitsToday)
	assert.EqualValues(t, 2, stats.VisitsWeek)
	assert.EqualValues(t, 0, stats.UnreadMessages)
	assert.EqualValues(t, 1, stats.TotalProjects)
}

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"portfolio-backend/internal/database"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB starts a throwaway postgres container and returns a
// migrated storage. Skipped with -short or when no container runtime is
// available.
func setupTestDB(t *testing.T) (*PostgresStorage, *gorm.DB) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("portfolio_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("cannot start postgres container: %v", err)
	}
	t.Cleanup(func() {
		termCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(termCtx)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	log := zap.NewNop()
	require.NoError(t, database.AutoMigrate(db, log))

	return New(db, log), db
}

func truncate(t *testing.T, db *gorm.DB, tables ...string) {
	t.Helper()
	for _, table := range tables {
		require.NoError(t, db.Exec("TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE").Error)
	}
}

func TestPostgresStorage(t *testing.T) {
	store, db := setupTestDB(t)
	ctx := context.Background()

	t.Run("visit windows and popular pages", func(t *testing.T) {
		truncate(t, db, "site_visits")

		now := time.Now()
		visits := []*domain.SiteVisit{
			{Page: "/", CreatedAt: now},
			{Page: "/", CreatedAt: now.Add(-time.Hour)},
			{Page: "/projects", CreatedAt: now.AddDate(0, 0, -3)},
			{Page: "/about", CreatedAt: now.AddDate(0, 0, -10)},
			{Page: "/about", CreatedAt: now.AddDate(0, 0, -40)},
		}
		for _, v := range visits {
			require.NoError(t, store.CreateVisit(ctx, v))
		}

		today, err := store.CountVisitsOn(ctx, now)
		require.NoError(t, err)
		assert.EqualValues(t, 2, today)

		week, err := store.CountVisitsSince(ctx, now.AddDate(0, 0, -6))
		require.NoError(t, err)
		assert.EqualValues(t, 3, week)

		month, err := store.CountVisitsSince(ctx, now.AddDate(0, 0, -29))
		require.NoError(t, err)
		assert.EqualValues(t, 4, month)

		pages, err := store.PopularPages(ctx, 5)
		require.NoError(t, err)
		require.Len(t, pages, 3)
		assert.Equal(t, "/", pages[0].Page)
		assert.EqualValues(t, 2, pages[0].Count)
	})

	t.Run("visit retention purge", func(t *testing.T) {
		truncate(t, db, "site_visits")

		now := time.Now()
		require.NoError(t, store.CreateVisit(ctx, &domain.SiteVisit{Page: "/", CreatedAt: now}))
		require.NoError(t, store.CreateVisit(ctx, &domain.SiteVisit{Page: "/", CreatedAt: now.AddDate(-1, 0, -1)}))

		purged, err := store.PurgeVisitsBefore(ctx, now.AddDate(-1, 0, 0))
		require.NoError(t, err)
		assert.EqualValues(t, 1, purged)

		remaining, err := store.CountVisitsSince(ctx, now.AddDate(-2, 0, 0))
		require.NoError(t, err)
		assert.EqualValues(t, 1, remaining)
	})

	t.Run("concurrent view increments are not lost", func(t *testing.T) {
		truncate(t, db, "projects")

		project := &domain.Project{
			Title:  "Concurrency",
			Slug:   "concurrency",
			Status: domain.ProjectStatusCompleted,
		}
		require.NoError(t, db.Create(project).Error)

		const workers = 10
		const perWorker = 5

		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()
				for j := 0; j < perWorker; j++ {
					_ = store.IncrementProjectViews(ctx, project.ID)
				}
			}()
		}
		wg.Wait()

		got, err := store.GetProjectBySlug(ctx, "concurrency")
		require.NoError(t, err)
		assert.EqualValues(t, workers*perWorker, got.Views)
	})

	t.Run("increment unknown project", func(t *testing.T) {
		err := store.IncrementProjectViews(ctx, 99999)
		assert.ErrorIs(t, err, repository.ErrProjectNotFound)
	})

	t.Run("project listing filters and order", func(t *testing.T) {
		truncate(t, db, "projects", "skills", "project_technologies")

		goSkill := &domain.Skill{Name: "Go", Category: domain.SkillCategoryBackend}
		require.NoError(t, db.Create(goSkill).Error)

		projects := []*domain.Project{
			{Title: "Archived", Slug: "archived", Status: domain.ProjectStatusArchived},
			{Title: "Shop API", Slug: "shop-api", Status: domain.ProjectStatusCompleted, Technologies: []domain.Skill{*goSkill}},
			{Title: "Blog", Slug: "blog", Status: domain.ProjectStatusInProgress},
			{Title: "Pinned", Slug: "pinned", Status: domain.ProjectStatusCompleted, Featured: true},
		}
		for _, p := range projects {
			require.NoError(t, db.Create(p).Error)
		}

		page, err := store.ListProjects(ctx, repository.ProjectFilter{Page: 1, PerPage: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 3, page.Total, "archived projects are hidden")
		assert.Equal(t, "pinned", page.Projects[0].Slug, "featured first")

		page, err = store.ListProjects(ctx, repository.ProjectFilter{Technology: "go", Page: 1, PerPage: 10})
		require.NoError(t, err)
		require.Len(t, page.Projects, 1)
		assert.Equal(t, "shop-api", page.Projects[0].Slug)

		page, err = store.ListProjects(ctx, repository.ProjectFilter{Search: "blog", Page: 1, PerPage: 10})
		require.NoError(t, err)
		require.Len(t, page.Projects, 1)
		assert.Equal(t, "blog", page.Projects[0].Slug)

		_, err = store.GetProjectBySlug(ctx, "nope")
		assert.ErrorIs(t, err, repository.ErrProjectNotFound)
	})

	t.Run("messages", func(t *testing.T) {
		truncate(t, db, "contact_messages")

		msg := &domain.ContactMessage{
			Name:     "Jane",
			Email:    "jane@example.com",
			Subject:  "Hello",
			Message:  "Hi there",
			Priority: domain.PriorityMedium,
		}
		require.NoError(t, store.CreateMessage(ctx, msg))
		require.NotZero(t, msg.ID)

		unread, err := store.CountUnreadMessages(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, unread)

		require.NoError(t, store.MarkMessageRead(ctx, msg.ID))

		unread, err = store.CountUnreadMessages(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 0, unread)

		err = store.MarkMessageRead(ctx, 99999)
		assert.ErrorIs(t, err, repository.ErrMessageNotFound)
	})

	t.Run("settings single row", func(t *testing.T) {
		truncate(t, db, "site_settings")

		_, err := store.GetSettings(ctx)
		assert.ErrorIs(t, err, repository.ErrSettingsNotFound)

		settings := &domain.SiteSettings{Name: "Jane Doe", Email: "jane@example.com"}
		require.NoError(t, store.CreateSettings(ctx, settings))

		err = store.CreateSettings(ctx, &domain.SiteSettings{Name: "Other", Email: "other@example.com"})
		assert.ErrorIs(t, err, repository.ErrSettingsExists)

		got, err := store.GetSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", got.Name)
	})

	t.Run("operator lookup", func(t *testing.T) {
		truncate(t, db, "users")

		require.NoError(t, db.Create(&domain.User{
			Email:        "admin@example.com",
			PasswordHash: "hash",
			IsActive:     true,
		}).Error)
		require.NoError(t, db.Create(&domain.User{
			Email:        "gone@example.com",
			PasswordHash: "hash",
		}).Error)
		// default:true applies on insert, deactivate explicitly
		require.NoError(t, db.Model(&domain.User{}).
			Where("email = ?", "gone@example.com").
			Update("is_active", false).Error)

		user, err := store.GetUserByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.Nil(t, user.LastLoginAt)

		require.NoError(t, store.TouchUserLogin(ctx, user.ID))
		user, err = store.GetUserByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.NotNil(t, user.LastLoginAt)

		_, err = store.GetUserByEmail(ctx, "gone@example.com")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})
}

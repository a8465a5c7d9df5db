package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresStorage реализует интерфейс Storage для PostgreSQL
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New создает новый экземпляр PostgreSQL storage
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// --- Visit Methods ---

// CreateVisit сохраняет одну запись о просмотре страницы
func (s *PostgresStorage) CreateVisit(ctx context.Context, visit *domain.SiteVisit) error {
	if err := s.db.WithContext(ctx).Create(visit).Error; err != nil {
		s.log.Error("failed to create site visit", zap.String("page", visit.Page), zap.Error(err))
		return fmt.Errorf("failed to create site visit: %w", err)
	}
	return nil
}

// CountVisitsOn считает визиты за один календарный день
func (s *PostgresStorage) CountVisitsOn(ctx context.Context, day time.Time) (int64, error) {
	start := startOfDay(day)
	end := start.AddDate(0, 0, 1)

	var count int64
	err := s.db.WithContext(ctx).Model(&domain.SiteVisit{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	if err != nil {
		s.log.Error("failed to count visits for day", zap.Time("day", start), zap.Error(err))
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}

	return count, nil
}

// CountVisitsSince считает визиты начиная с указанного календарного дня включительно
func (s *PostgresStorage) CountVisitsSince(ctx context.Context, day time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.SiteVisit{}).
		Where("created_at >= ?", startOfDay(day)).
		Count(&count).Error
	if err != nil {
		s.log.Error("failed to count visits since day", zap.Time("day", day), zap.Error(err))
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}

	return count, nil
}

// PopularPages возвращает страницы с наибольшим количеством визитов
func (s *PostgresStorage) PopularPages(ctx context.Context, limit int) ([]repository.PageCount, error) {
	var results []repository.PageCount

	err := s.db.WithContext(ctx).
		Model(&domain.SiteVisit{}).
		Select("page, count(*) as count").
		Group("page").
		Order("count DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		s.log.Error("failed to aggregate popular pages", zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate popular pages: %w", err)
	}

	return results, nil
}

// PurgeVisitsBefore удаляет записи визитов старше cutoff, возвращает количество удаленных строк
func (s *PostgresStorage) PurgeVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&domain.SiteVisit{})
	if result.Error != nil {
		s.log.Error("failed to purge old visits", zap.Time("cutoff", cutoff), zap.Error(result.Error))
		return 0, fmt.Errorf("failed to purge visits: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// --- Project Methods ---

// ListProjects возвращает страницу списка проектов с фильтрами
func (s *PostgresStorage) ListProjects(ctx context.Context, filter repository.ProjectFilter) (*repository.ProjectPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 6
	}

	query := s.db.WithContext(ctx).Model(&domain.Project{}).
		Where("projects.status IN ?", []string{domain.ProjectStatusCompleted, domain.ProjectStatusInProgress})

	if filter.Status != "" {
		query = query.Where("projects.status = ?", filter.Status)
	}

	if filter.Technology != "" {
		query = query.
			Joins("JOIN project_technologies pt ON pt.project_id = projects.id").
			Joins("JOIN skills ON skills.id = pt.skill_id").
			Where("skills.name ILIKE ?", "%"+filter.Technology+"%").
			Distinct("projects.*")
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"projects.title ILIKE ? OR projects.description ILIKE ? OR projects.detailed_description ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.log.Error("failed to count filtered projects", zap.Error(err))
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	var projects []*domain.Project
	err := query.
		Preload("Technologies").
		Order("projects.featured DESC, projects.display_order ASC, projects.created_at DESC").
		Offset((filter.Page - 1) * filter.PerPage).
		Limit(filter.PerPage).
		Find(&projects).Error
	if err != nil {
		s.log.Error("failed to list projects", zap.Error(err))
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	totalPages := int((total + int64(filter.PerPage) - 1) / int64(filter.PerPage))

	return &repository.ProjectPage{
		Projects:   projects,
		Total:      total,
		Page:       filter.Page,
		TotalPages: totalPages,
	}, nil
}

// FeaturedProjects возвращает завершенные проекты, отмеченные как featured
func (s *PostgresStorage) FeaturedProjects(ctx context.Context, limit int) ([]*domain.Project, error) {
	var projects []*domain.Project

	err := s.db.WithContext(ctx).
		Preload("Technologies").
		Where("featured = ? AND status = ?", true, domain.ProjectStatusCompleted).
		Order("display_order ASC, created_at DESC").
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		s.log.Error("failed to list featured projects", zap.Error(err))
		return nil, fmt.Errorf("failed to list featured projects: %w", err)
	}

	return projects, nil
}

// GetProjectBySlug получает проект по slug
func (s *PostgresStorage) GetProjectBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	var project domain.Project

	err := s.db.WithContext(ctx).Preload("Technologies").Where("slug = ?", slug).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrProjectNotFound
	}
	if err != nil {
		s.log.Error("failed to get project", zap.String("slug", slug), zap.Error(err))
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// RelatedProjects возвращает проекты, разделяющие хотя бы одну технологию
func (s *PostgresStorage) RelatedProjects(ctx context.Context, project *domain.Project, limit int) ([]*domain.Project, error) {
	if len(project.Technologies) == 0 {
		return nil, nil
	}

	skillIDs := make([]int64, 0, len(project.Technologies))
	for _, skill := range project.Technologies {
		skillIDs = append(skillIDs, skill.ID)
	}

	var projects []*domain.Project
	err := s.db.WithContext(ctx).
		Joins("JOIN project_technologies pt ON pt.project_id = projects.id").
		Where("pt.skill_id IN ? AND projects.id <> ?", skillIDs, project.ID).
		Distinct("projects.*").
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		s.log.Error("failed to list related projects", zap.Int64("project_id", project.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to list related projects: %w", err)
	}

	return projects, nil
}

// IncrementProjectViews атомарно увеличивает счетчик просмотров проекта.
// Один UPDATE вместо read-modify-write, чтобы параллельные просмотры не
// теряли обновления.
func (s *PostgresStorage) IncrementProjectViews(ctx context.Context, projectID int64) error {
	result := s.db.WithContext(ctx).Model(&domain.Project{}).
		Where("id = ?", projectID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		s.log.Error("failed to increment project views", zap.Int64("project_id", projectID), zap.Error(result.Error))
		return fmt.Errorf("failed to increment project views: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrProjectNotFound
	}

	return nil
}

// TopProjects возвращает проекты с наибольшим количеством просмотров
func (s *PostgresStorage) TopProjects(ctx context.Context, limit int) ([]*domain.Project, error) {
	var projects []*domain.Project

	err := s.db.WithContext(ctx).
		Order("views DESC, id ASC").
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		s.log.Error("failed to list top projects", zap.Error(err))
		return nil, fmt.Errorf("failed to list top projects: %w", err)
	}

	return projects, nil
}

// CountProjects возвращает общее количество проектов
func (s *PostgresStorage) CountProjects(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Project{}).Count(&count).Error; err != nil {
		s.log.Error("failed to count projects", zap.Error(err))
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}

	return count, nil
}

// --- Contact Message Methods ---

// CreateMessage сохраняет новое сообщение из контактной формы
func (s *PostgresStorage) CreateMessage(ctx context.Context, msg *domain.ContactMessage) error {
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		s.log.Error("failed to create contact message", zap.String("email", msg.Email), zap.Error(err))
		return fmt.Errorf("failed to create contact message: %w", err)
	}

	s.log.Info("saved contact message", zap.Int64("message_id", msg.ID), zap.String("subject", msg.Subject))
	return nil
}

// RecentMessages возвращает последние сообщения по дате создания
func (s *PostgresStorage) RecentMessages(ctx context.Context, limit int) ([]*domain.ContactMessage, error) {
	var messages []*domain.ContactMessage

	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		s.log.Error("failed to list recent messages", zap.Error(err))
		return nil, fmt.Errorf("failed to list recent messages: %w", err)
	}

	return messages, nil
}

// CountMessages возвращает общее количество сообщений
func (s *PostgresStorage) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.ContactMessage{}).Count(&count).Error; err != nil {
		s.log.Error("failed to count messages", zap.Error(err))
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}

	return count, nil
}

// CountUnreadMessages возвращает количество непрочитанных сообщений
func (s *PostgresStorage) CountUnreadMessages(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.ContactMessage{}).
		Where("read = ?", false).
		Count(&count).Error
	if err != nil {
		s.log.Error("failed to count unread messages", zap.Error(err))
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}

	return count, nil
}

// MarkMessageRead помечает сообщение как прочитанное
func (s *PostgresStorage) MarkMessageRead(ctx context.Context, messageID int64) error {
	result := s.db.WithContext(ctx).Model(&domain.ContactMessage{}).
		Where("id = ?", messageID).
		Update("read", true)
	if result.Error != nil {
		s.log.Error("failed to mark message as read", zap.Int64("message_id", messageID), zap.Error(result.Error))
		return fmt.Errorf("failed to mark message as read: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrMessageNotFound
	}

	return nil
}

// --- Content Methods ---

// ListSkills возвращает все компетенции в порядке отображения
func (s *PostgresStorage) ListSkills(ctx context.Context) ([]*domain.Skill, error) {
	var skills []*domain.Skill

	err := s.db.WithContext(ctx).Order("category ASC, display_order ASC").Find(&skills).Error
	if err != nil {
		s.log.Error("failed to list skills", zap.Error(err))
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}

	return skills, nil
}

// ListExperiences возвращает записи об опыте работы, новые первыми
func (s *PostgresStorage) ListExperiences(ctx context.Context) ([]*domain.Experience, error) {
	var experiences []*domain.Experience

	err := s.db.WithContext(ctx).Order("start_date DESC, display_order ASC").Find(&experiences).Error
	if err != nil {
		s.log.Error("failed to list experiences", zap.Error(err))
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}

	return experiences, nil
}

// --- Settings Methods ---

// GetSettings возвращает единственную строку настроек сайта
func (s *PostgresStorage) GetSettings(ctx context.Context) (*domain.SiteSettings, error) {
	var settings domain.SiteSettings

	err := s.db.WithContext(ctx).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrSettingsNotFound
	}
	if err != nil {
		s.log.Error("failed to get site settings", zap.Error(err))
		return nil, fmt.Errorf("failed to get site settings: %w", err)
	}

	return &settings, nil
}

// CreateSettings создает строку настроек. Вторая строка запрещена.
func (s *PostgresStorage) CreateSettings(ctx context.Context, settings *domain.SiteSettings) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.SiteSettings{}).Count(&count).Error; err != nil {
		s.log.Error("failed to check existing settings", zap.Error(err))
		return fmt.Errorf("failed to check existing settings: %w", err)
	}
	if count > 0 {
		return repository.ErrSettingsExists
	}

	if err := s.db.WithContext(ctx).Create(settings).Error; err != nil {
		s.log.Error("failed to create site settings", zap.Error(err))
		return fmt.Errorf("failed to create site settings: %w", err)
	}

	return nil
}

// --- User Methods ---

// GetUserByEmail получает активного оператора по email
func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User

	err := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", email, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		s.log.Error("failed to get user by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// TouchUserLogin обновляет время последнего входа оператора
func (s *PostgresStorage) TouchUserLogin(ctx context.Context, userID int64) error {
	err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("last_login_at", time.Now()).Error
	if err != nil {
		s.log.Error("failed to update last login", zap.Int64("user_id", userID), zap.Error(err))
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// startOfDay обрезает время до начала календарного дня в локальной зоне
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

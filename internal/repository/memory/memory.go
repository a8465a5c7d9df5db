package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository"
)

// MemStorage is an in-memory Storage implementation used in tests and
// local development without a database.
type MemStorage struct {
	mu             sync.RWMutex
	visits         []*domain.SiteVisit
	projects       []*domain.Project
	messages       []*domain.ContactMessage
	skills         []*domain.Skill
	experiences    []*domain.Experience
	settings       *domain.SiteSettings
	usersByEmail   map[string]*domain.User
	visitCounter   int64
	projectCounter int64
	messageCounter int64
}

func New() *MemStorage {
	return &MemStorage{
		usersByEmail: make(map[string]*domain.User),
	}
}

// --- Visit Methods ---

func (s *MemStorage) CreateVisit(_ context.Context, visit *domain.SiteVisit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.visitCounter++
	visit.ID = s.visitCounter
	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = time.Now()
	}
	s.visits = append(s.visits, visit)
	return nil
}

func (s *MemStorage) CountVisitsOn(_ context.Context, day time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := startOfDay(day)
	end := start.AddDate(0, 0, 1)

	var count int64
	for _, v := range s.visits {
		if !v.CreatedAt.Before(start) && v.CreatedAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (s *MemStorage) CountVisitsSince(_ context.Context, day time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := startOfDay(day)

	var count int64
	for _, v := range s.visits {
		if !v.CreatedAt.Before(start) {
			count++
		}
	}
	return count, nil
}

func (s *MemStorage) PopularPages(_ context.Context, limit int) ([]repository.PageCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, v := range s.visits {
		counts[v.Page]++
	}

	pages := make([]repository.PageCount, 0, len(counts))
	for page, count := range counts {
		pages = append(pages, repository.PageCount{Page: page, Count: count})
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].Count != pages[j].Count {
			return pages[i].Count > pages[j].Count
		}
		return pages[i].Page < pages[j].Page
	})

	if len(pages) > limit {
		pages = pages[:limit]
	}
	return pages, nil
}

// Visits returns a snapshot of all stored visits, oldest first. Test
// helper, not part of the Storage interface.
func (s *MemStorage) Visits() []*domain.SiteVisit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visits := make([]*domain.SiteVisit, len(s.visits))
	copy(visits, s.visits)
	return visits
}

func (s *MemStorage) PurgeVisitsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.visits[:0]
	var purged int64
	for _, v := range s.visits {
		if v.CreatedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, v)
	}
	s.visits = kept
	return purged, nil
}

// --- Project Methods ---

func (s *MemStorage) AddProject(project *domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projectCounter++
	if project.ID == 0 {
		project.ID = s.projectCounter
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}
	s.projects = append(s.projects, project)
}

func (s *MemStorage) ListProjects(_ context.Context, filter repository.ProjectFilter) (*repository.ProjectPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 6
	}

	var matched []*domain.Project
	for _, p := range s.projects {
		if p.Status != domain.ProjectStatusCompleted && p.Status != domain.ProjectStatusInProgress {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Technology != "" && !hasTechnology(p, filter.Technology) {
			continue
		}
		if filter.Search != "" && !matchesSearch(p, filter.Search) {
			continue
		}
		matched = append(matched, p)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Featured != matched[j].Featured {
			return matched[i].Featured
		}
		if matched[i].DisplayOrder != matched[j].DisplayOrder {
			return matched[i].DisplayOrder < matched[j].DisplayOrder
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	totalPages := int((total + int64(filter.PerPage) - 1) / int64(filter.PerPage))

	offset := (filter.Page - 1) * filter.PerPage
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + filter.PerPage
	if end > len(matched) {
		end = len(matched)
	}

	return &repository.ProjectPage{
		Projects:   matched[offset:end],
		Total:      total,
		Page:       filter.Page,
		TotalPages: totalPages,
	}, nil
}

func (s *MemStorage) FeaturedProjects(_ context.Context, limit int) ([]*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var featured []*domain.Project
	for _, p := range s.projects {
		if p.Featured && p.Status == domain.ProjectStatusCompleted {
			featured = append(featured, p)
		}
	}
	sort.SliceStable(featured, func(i, j int) bool {
		return featured[i].DisplayOrder < featured[j].DisplayOrder
	})

	if len(featured) > limit {
		featured = featured[:limit]
	}
	return featured, nil
}

func (s *MemStorage) GetProjectBySlug(_ context.Context, slug string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, repository.ErrProjectNotFound
}

func (s *MemStorage) RelatedProjects(_ context.Context, project *domain.Project, limit int) ([]*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skillIDs := make(map[int64]struct{}, len(project.Technologies))
	for _, skill := range project.Technologies {
		skillIDs[skill.ID] = struct{}{}
	}

	var related []*domain.Project
	for _, p := range s.projects {
		if p.ID == project.ID {
			continue
		}
		for _, skill := range p.Technologies {
			if _, ok := skillIDs[skill.ID]; ok {
				related = append(related, p)
				break
			}
		}
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

func (s *MemStorage) IncrementProjectViews(_ context.Context, projectID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.projects {
		if p.ID == projectID {
			p.Views++
			return nil
		}
	}
	return repository.ErrProjectNotFound
}

func (s *MemStorage) TopProjects(_ context.Context, limit int) ([]*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	top := make([]*domain.Project, len(s.projects))
	copy(top, s.projects)
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Views != top[j].Views {
			return top[i].Views > top[j].Views
		}
		return top[i].ID < top[j].ID
	})

	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

func (s *MemStorage) CountProjects(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.projects)), nil
}

// --- Contact Message Methods ---

func (s *MemStorage) CreateMessage(_ context.Context, msg *domain.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messageCounter++
	msg.ID = s.messageCounter
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *MemStorage) RecentMessages(_ context.Context, limit int) ([]*domain.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recent := make([]*domain.ContactMessage, len(s.messages))
	copy(recent, s.messages)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})

	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

func (s *MemStorage) CountMessages(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.messages)), nil
}

func (s *MemStorage) CountUnreadMessages(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, m := range s.messages {
		if !m.Read {
			count++
		}
	}
	return count, nil
}

func (s *MemStorage) MarkMessageRead(_ context.Context, messageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.messages {
		if m.ID == messageID {
			m.Read = true
			return nil
		}
	}
	return repository.ErrMessageNotFound
}

// --- Content Methods ---

func (s *MemStorage) AddSkill(skill *domain.Skill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skills = append(s.skills, skill)
}

func (s *MemStorage) AddExperience(exp *domain.Experience) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.experiences = append(s.experiences, exp)
}

func (s *MemStorage) ListSkills(_ context.Context) ([]*domain.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skills := make([]*domain.Skill, len(s.skills))
	copy(skills, s.skills)
	sort.SliceStable(skills, func(i, j int) bool {
		if skills[i].Category != skills[j].Category {
			return skills[i].Category < skills[j].Category
		}
		return skills[i].DisplayOrder < skills[j].DisplayOrder
	})
	return skills, nil
}

func (s *MemStorage) ListExperiences(_ context.Context) ([]*domain.Experience, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	experiences := make([]*domain.Experience, len(s.experiences))
	copy(experiences, s.experiences)
	sort.SliceStable(experiences, func(i, j int) bool {
		return experiences[i].StartDate.After(experiences[j].StartDate)
	})
	return experiences, nil
}

// --- Settings Methods ---

func (s *MemStorage) GetSettings(_ context.Context) (*domain.SiteSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, repository.ErrSettingsNotFound
	}
	return s.settings, nil
}

func (s *MemStorage) CreateSettings(_ context.Context, settings *domain.SiteSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings != nil {
		return repository.ErrSettingsExists
	}
	if settings.ID == 0 {
		settings.ID = 1
	}
	s.settings = settings
	return nil
}

// --- User Methods ---

func (s *MemStorage) AddUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersByEmail[user.Email] = user
}

func (s *MemStorage) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByEmail[email]
	if !ok || !user.IsActive {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *MemStorage) TouchUserLogin(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.usersByEmail {
		if user.ID == userID {
			now := time.Now()
			user.LastLoginAt = &now
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func hasTechnology(p *domain.Project, tech string) bool {
	needle := strings.ToLower(tech)
	for _, skill := range p.Technologies {
		if strings.Contains(strings.ToLower(skill.Name), needle) {
			return true
		}
	}
	return false
}

func matchesSearch(p *domain.Project, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.DetailedDescription), needle)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

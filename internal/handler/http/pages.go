package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository"
	"portfolio-backend/internal/service"
	"portfolio-backend/internal/tracking"

	"go.uber.org/zap"
)

const (
	projectsPerPage      = 6
	featuredProjectLimit = 3
	relatedProjectLimit  = 3
)

// PagesHandler обработчик публичных страниц. Отдает JSON payload для
// рендеринга на стороне клиента.
type PagesHandler struct {
	storage        repository.Storage
	contactService *service.ContactService
	settings       *domain.SiteSettings // загружены один раз при старте
	log            *zap.Logger
}

// NewPagesHandler создает новый обработчик публичных страниц
func NewPagesHandler(storage repository.Storage, contactService *service.ContactService, settings *domain.SiteSettings, log *zap.Logger) *PagesHandler {
	return &PagesHandler{
		storage:        storage,
		contactService: contactService,
		settings:       settings,
		log:            log,
	}
}

// HomeResponse payload главной страницы
type HomeResponse struct {
	Settings         *domain.SiteSettings `json:"settings"`
	FeaturedProjects []*domain.Project    `json:"featured_projects"`
	Skills           []*domain.Skill      `json:"skills"`
}

// ProjectListResponse payload списка проектов
type ProjectListResponse struct {
	Projects      []*domain.Project `json:"projects"`
	Total         int64             `json:"total"`
	Page          int               `json:"page"`
	TotalPages    int               `json:"total_pages"`
	Technologies  []*domain.Skill   `json:"technologies"`
	CurrentTech   string            `json:"current_tech,omitempty"`
	CurrentStatus string            `json:"current_status,omitempty"`
	CurrentSearch string            `json:"current_search,omitempty"`
}

// ProjectDetailResponse payload детальной страницы проекта
type ProjectDetailResponse struct {
	Project         *domain.Project   `json:"project"`
	RelatedProjects []*domain.Project `json:"related_projects"`
}

// AboutResponse payload страницы "обо мне"
type AboutResponse struct {
	Settings      *domain.SiteSettings `json:"settings"`
	Experiences   []*domain.Experience `json:"experiences"`
	Skills        []*domain.Skill      `json:"skills"`
	TotalProjects int64                `json:"total_projects"`
}

// Home обрабатывает GET /
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.writeError(w, "Not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	featured, err := h.storage.FeaturedProjects(r.Context(), featuredProjectLimit)
	if err != nil {
		h.log.Error("failed to load featured projects", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	skills, err := h.storage.ListSkills(r.Context())
	if err != nil {
		h.log.Error("failed to load skills", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, HomeResponse{
		Settings:         h.settings,
		FeaturedProjects: featured,
		Skills:           skills,
	}, http.StatusOK)
}

// Projects обрабатывает GET /projects с фильтрами tech, status, search и
// пагинацией через page
func (h *PagesHandler) Projects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))

	filter := repository.ProjectFilter{
		Technology: query.Get("tech"),
		Status:     query.Get("status"),
		Search:     query.Get("search"),
		Page:       page,
		PerPage:    projectsPerPage,
	}

	projectPage, err := h.storage.ListProjects(r.Context(), filter)
	if err != nil {
		h.log.Error("failed to list projects", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	technologies, err := h.storage.ListSkills(r.Context())
	if err != nil {
		h.log.Error("failed to load technologies", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, ProjectListResponse{
		Projects:      projectPage.Projects,
		Total:         projectPage.Total,
		Page:          projectPage.Page,
		TotalPages:    projectPage.TotalPages,
		Technologies:  technologies,
		CurrentTech:   filter.Technology,
		CurrentStatus: filter.Status,
		CurrentSearch: filter.Search,
	}, http.StatusOK)
}

// ProjectDetail обрабатывает GET /projects/{slug}
func (h *PagesHandler) ProjectDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	slug := strings.TrimPrefix(r.URL.Path, "/projects/")
	slug = strings.TrimSuffix(slug, "/")
	if slug == "" || strings.Contains(slug, "/") {
		h.writeError(w, "Not found", http.StatusNotFound)
		return
	}

	project, err := h.storage.GetProjectBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			h.writeError(w, "Not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to get project", zap.String("slug", slug), zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Счетчик просмотров инкрементируется атомарно; сбой не мешает отдать
	// страницу.
	if err := h.storage.IncrementProjectViews(r.Context(), project.ID); err != nil {
		h.log.Warn("failed to increment project views", zap.Int64("project_id", project.ID), zap.Error(err))
	} else {
		project.Views++
	}

	related, err := h.storage.RelatedProjects(r.Context(), project, relatedProjectLimit)
	if err != nil {
		h.log.Warn("failed to load related projects", zap.Int64("project_id", project.ID), zap.Error(err))
	}

	h.writeJSON(w, ProjectDetailResponse{
		Project:         project,
		RelatedProjects: related,
	}, http.StatusOK)
}

// About обрабатывает GET /about
func (h *PagesHandler) About(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	experiences, err := h.storage.ListExperiences(r.Context())
	if err != nil {
		h.log.Error("failed to load experiences", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	skills, err := h.storage.ListSkills(r.Context())
	if err != nil {
		h.log.Error("failed to load skills", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	totalProjects, err := h.storage.CountProjects(r.Context())
	if err != nil {
		h.log.Error("failed to count projects", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, AboutResponse{
		Settings:      h.settings,
		Experiences:   experiences,
		Skills:        skills,
		TotalProjects: totalProjects,
	}, http.StatusOK)
}

// Contact обрабатывает GET /contact (метаданные формы) и POST /contact
// (отправка сообщения)
func (h *PagesHandler) Contact(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, map[string]interface{}{
			"settings": h.settings,
			"priorities": []string{
				domain.PriorityLow, domain.PriorityMedium,
				domain.PriorityHigh, domain.PriorityUrgent,
			},
		}, http.StatusOK)

	case http.MethodPost:
		h.submitContact(w, r)

	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *PagesHandler) submitContact(w http.ResponseWriter, r *http.Request) {
	var sub service.ContactSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.log.Debug("invalid contact submission", zap.Error(err))
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	sub.ClientIP = tracking.ClientIP(r)
	sub.UserAgent = r.UserAgent()

	msg, err := h.contactService.Submit(r.Context(), &sub)
	if err != nil {
		var validationErrs service.ValidationErrors
		if errors.As(err, &validationErrs) {
			h.writeJSON(w, map[string]interface{}{
				"errors": validationErrs,
			}, http.StatusUnprocessableEntity)
			return
		}
		h.log.Error("failed to submit contact message", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"id":      msg.ID,
		"message": "Your message has been sent successfully.",
	}, http.StatusCreated)
}

func (h *PagesHandler) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}

func (h *PagesHandler) writeError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, map[string]string{"error": message}, status)
}

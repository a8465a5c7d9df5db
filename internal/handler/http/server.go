package http

import (
	"net/http"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository"
	"portfolio-backend/internal/service"
	"portfolio-backend/internal/tracking"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server HTTP сервер с обработчиками
type Server struct {
	pagesHandler     *PagesHandler
	dashboardHandler *DashboardHandler
	filesHandler     *FilesHandler
	healthHandler    *HealthHandler
	authHandlers     *auth.AuthHandlers
	authMiddleware   *auth.Middleware
	recorder         *tracking.Recorder
	log              *zap.Logger
}

// NewServer создает новый HTTP сервер
func NewServer(
	storage repository.Storage,
	db *gorm.DB,
	contactService *service.ContactService,
	dashboardService *service.DashboardService,
	jwtService *auth.JWTService,
	passwordService *auth.PasswordService,
	recorder *tracking.Recorder,
	settings *domain.SiteSettings,
	log *zap.Logger,
) *Server {
	return &Server{
		pagesHandler:     NewPagesHandler(storage, contactService, settings, log),
		dashboardHandler: NewDashboardHandler(dashboardService, storage, log),
		filesHandler:     NewFilesHandler(settings, log),
		healthHandler:    NewHealthHandler(db, log),
		authHandlers:     auth.NewAuthHandlers(storage, jwtService, passwordService, log),
		authMiddleware:   auth.NewMiddleware(jwtService, log),
		recorder:         recorder,
		log:              log,
	}
}

// SetupRoutes настраивает маршруты. Весь mux оборачивается в recorder
// middleware; административные пути исключаются внутри него.
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Health checks (без аутентификации и без трекинга)
	mux.HandleFunc("/health", s.healthHandler.Health)
	mux.HandleFunc("/ready", s.healthHandler.Ready)

	// Auth endpoint (без аутентификации)
	mux.HandleFunc("/api/auth/login", s.withCORS(s.authHandlers.Login))

	// Dashboard API (с аутентификацией)
	mux.HandleFunc("/api/stats", s.withCORS(s.authMiddleware.RequireAuth(s.dashboardHandler.APIStats)))
	mux.HandleFunc("/api/chart-data", s.withCORS(s.authMiddleware.RequireAuth(s.dashboardHandler.APIChartData)))
	mux.HandleFunc("/api/message/", s.withCORS(s.authMiddleware.RequireAuth(s.dashboardHandler.MarkMessageRead)))
	mux.HandleFunc("/dashboard", s.withCORS(s.authMiddleware.RequireAuth(s.dashboardHandler.Dashboard)))

	// Публичные страницы
	mux.HandleFunc("/projects", s.pagesHandler.Projects)
	mux.HandleFunc("/projects/", s.pagesHandler.ProjectDetail)
	mux.HandleFunc("/about", s.pagesHandler.About)
	mux.HandleFunc("/contact", s.pagesHandler.Contact)
	mux.HandleFunc("/cv", s.filesHandler.DownloadCV)

	// Главная страница — должна быть последней
	mux.HandleFunc("/", s.pagesHandler.Home)

	return s.recorder.Middleware(mux)
}

// withCORS добавляет CORS headers к обработчику
func (s *Server) withCORS(handler http.HandlerFunc) http.HandlerFunc {
	return s.authMiddleware.CORS(handler)
}

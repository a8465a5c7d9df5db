// Package main provides the entry point for the portfolio backend service.
package main

import (
	"context"
	"errors"
	"fmt"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/domain"
	httpHandler "portfolio-backend/internal/handler/http"
	"portfolio-backend/internal/mailer"
	"portfolio-backend/internal/repository"
	"portfolio-backend/internal/repository/postgres"
	"portfolio-backend/internal/service"
	"portfolio-backend/internal/tracking"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/useragent"

	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting portfolio backend", zap.String("env", cfg.Env))

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations if enabled
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	// Seed initial data if enabled
	if cfg.Database.SeedData {
		if err := database.SeedData(db, log); err != nil {
			log.Fatal("failed to seed database", zap.Error(err))
		}
	}

	passwordService := auth.NewPasswordService()

	// Bootstrap the operator account when credentials are configured
	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		hash, err := passwordService.HashPassword(cfg.Auth.AdminPassword)
		if err != nil {
			log.Fatal("failed to hash admin password", zap.Error(err))
		}
		if err := database.EnsureOperator(db, log, cfg.Auth.AdminEmail, hash); err != nil {
			log.Fatal("failed to bootstrap operator account", zap.Error(err))
		}
	}

	storage := postgres.New(db, log)

	// Site settings are loaded once and passed to handlers explicitly.
	settings, err := loadSettings(storage, log)
	if err != nil {
		log.Fatal("failed to load site settings", zap.Error(err))
	}

	// Purge visit rows beyond the retention window
	if cfg.Tracking.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -cfg.Tracking.RetentionDays)
		purged, err := storage.PurgeVisitsBefore(context.Background(), cutoff)
		if err != nil {
			log.Warn("failed to purge old visits", zap.Error(err))
		} else if purged > 0 {
			log.Info("purged old visit records", zap.Int64("purged", purged), zap.Time("cutoff", cutoff))
		}
	}

	// Initialize User-Agent parser; a nil parser falls back to keyword
	// detection inside the recorder.
	uaParser, err := useragent.NewParser(cfg.Tracking.UARegexesPath, log)
	if err != nil {
		log.Warn("failed to initialize User-Agent parser, using fallback detection", zap.Error(err))
	}

	recorder := tracking.NewRecorder(storage, uaParser, cfg.Tracking.SessionCookie, log)

	notifier := mailer.New(&cfg.SMTP, log)
	contactService := service.NewContactService(storage, notifier, settings.Name, log)
	dashboardService := service.NewDashboardService(storage, log)

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET must be set")
	}
	accessTokenTTL, err := time.ParseDuration(cfg.Auth.AccessTokenTTL)
	if err != nil {
		log.Warn("failed to parse access_token_ttl, using default 15m", zap.Error(err))
		accessTokenTTL = 15 * time.Minute
	}
	jwtService := auth.NewJWTService(&auth.JWTConfig{
		SecretKey:           []byte(cfg.Auth.JWTSecret),
		AccessTokenDuration: accessTokenTTL,
		Issuer:              cfg.Auth.Issuer,
	})

	server := httpHandler.NewServer(
		storage,
		db,
		contactService,
		dashboardService,
		jwtService,
		passwordService,
		recorder,
		settings,
		log,
	)

	readTimeout := parseDurationOr(cfg.HTTPServer.ReadTimeout, 30*time.Second)
	writeTimeout := parseDurationOr(cfg.HTTPServer.WriteTimeout, 30*time.Second)
	idleTimeout := parseDurationOr(cfg.HTTPServer.IdleTimeout, 60*time.Second)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPServer.Port),
		Handler:      server.SetupRoutes(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	log.Info("starting HTTP server", zap.String("address", httpServer.Addr))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down portfolio backend...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}
}

// loadSettings fetches the single settings row, creating a default one on
// first startup.
func loadSettings(storage repository.Storage, log *zap.Logger) (*domain.SiteSettings, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	settings, err := storage.GetSettings(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, repository.ErrSettingsNotFound) {
		return nil, err
	}

	log.Info("no site settings row found, creating default")
	settings = &domain.SiteSettings{
		Name:  "Portfolio Owner",
		Email: "owner@example.com",
	}
	if err := storage.CreateSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

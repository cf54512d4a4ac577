package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/skuehn/lernbox/internal/config"
	"github.com/skuehn/lernbox/internal/notice"
	"github.com/skuehn/lernbox/internal/platform/postgres"
	"github.com/skuehn/lernbox/internal/service"
	"github.com/skuehn/lernbox/internal/service/auth"
	"github.com/skuehn/lernbox/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (interfaces, so tests can substitute fakes)
	userStore     store.UserStore
	snapshotStore store.SnapshotStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	studyService     *service.StudyService
}

// newApplication creates an application instance with all dependencies
// initialized and background work started. The caller owns the database
// handle until newApplication returns without error; afterwards cleanup
// closes it.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost)
	app.snapshotStore = postgres.NewPostgresSnapshotStore(db)

	emitter := notice.NewInMemoryEmitter(logger)
	app.studyService = service.NewStudyService(db, app.snapshotStore, emitter, cfg.Study, logger)
	app.studyService.Start()
	logger.Info("Study service initialized",
		"session_ttl_minutes", cfg.Study.SessionTTLMinutes,
		"sweep_interval_minutes", cfg.Study.SweepIntervalMinutes)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.studyService != nil {
		app.studyService.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}

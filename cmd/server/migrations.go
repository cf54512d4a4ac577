package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/skuehn/lernbox/internal/config"
	"github.com/skuehn/lernbox/internal/platform/postgres/migrations"
)

// slogGooseLogger adapts the goose logger interface to slog. Fatalf does
// not call os.Exit; the error propagates to main, which handles the exit.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations executes a single goose command against the configured
// database using the embedded migration files, then returns.
func runMigrations(cfg *config.Config, logger *slog.Logger, command string) error {
	switch command {
	case "up", "down", "status", "version":
	default:
		return fmt.Errorf("unknown migration command %q (want up, down, status or version)", command)
	}

	logger.Info("Executing migrations",
		"command", command,
		"url", maskDatabaseURL(cfg.Database.URL))

	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	start := time.Now()
	switch command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	case "version":
		err = goose.Version(db, ".")
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	logger.Info("Migration operation completed",
		"command", command,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Package main implements the entry point for the lernbox API server,
// which manages users' Leitner-box study sessions and their archived
// snapshots.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/skuehn/lernbox/internal/config"
	"github.com/skuehn/lernbox/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status, version) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		fmt.Fprintf(os.Stderr, "lernbox-server: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration, sets up logging and either executes a
// migration command or starts the HTTP server.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_url", maskDatabaseURL(cfg.Database.URL))

	if migrateCmd != "" {
		return runMigrations(cfg, log, migrateCmd)
	}

	db, err := setupDatabase(cfg, log)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Error closing database connection", "error", closeErr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(context.Background())
}

package testutils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/skuehn/lernbox/internal/platform/postgres/migrations"
)

// migrationsRunOnce guards schema setup so migrations run only once per
// test binary, even when multiple TestMain functions call in.
var migrationsRunOnce sync.Once

// SetupTestDatabaseSchema initializes the database schema from the embedded
// migrations. It resets the schema to baseline by migrating down to version
// zero, then applies all migrations, so tests always run against the
// canonical schema. Call it once from TestMain.
func SetupTestDatabaseSchema(db *sql.DB) error {
	var setupErr error
	migrationsRunOnce.Do(func() {
		if err := goose.SetDialect("postgres"); err != nil {
			setupErr = fmt.Errorf("failed to set goose dialect: %w", err)
			return
		}

		// Keep goose quiet during tests.
		goose.SetLogger(goose.NopLogger())
		goose.SetBaseFS(migrations.FS)

		if err := goose.DownTo(db, ".", 0); err != nil {
			setupErr = fmt.Errorf("failed to reset database schema: %w", err)
			return
		}

		if err := goose.Up(db, "."); err != nil {
			setupErr = fmt.Errorf("failed to apply migrations: %w", err)
			return
		}
	})

	return setupErr
}

// WithTx runs a test function inside a transaction that is always rolled
// back, so each test sees a clean database and tests can run in parallel
// without interfering with each other.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Errorf("Failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}

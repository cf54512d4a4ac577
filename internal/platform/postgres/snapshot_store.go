package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skuehn/lernbox/internal/domain"
	"github.com/skuehn/lernbox/internal/platform/logger"
	"github.com/skuehn/lernbox/internal/store"
)

// PostgresSnapshotStore implements the store.SnapshotStore interface using
// a PostgreSQL database as the storage backend. Every lookup is scoped by
// user ID; rows belonging to other users are invisible.
type PostgresSnapshotStore struct {
	db store.DBTX
}

// NewPostgresSnapshotStore creates a new PostgreSQL implementation of the
// SnapshotStore interface. It accepts a database connection or transaction
// managed by the caller.
func NewPostgresSnapshotStore(db store.DBTX) *PostgresSnapshotStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &PostgresSnapshotStore{db: db}
}

// Ensure PostgresSnapshotStore implements store.SnapshotStore interface
var _ store.SnapshotStore = (*PostgresSnapshotStore)(nil)

// DB returns the underlying database connection or transaction.
func (s *PostgresSnapshotStore) DB() store.DBTX {
	return s.db
}

// WithTx returns a new SnapshotStore bound to the given transaction.
func (s *PostgresSnapshotStore) WithTx(tx *sql.Tx) store.SnapshotStore {
	return &PostgresSnapshotStore{db: tx}
}

// Create implements store.SnapshotStore.Create.
func (s *PostgresSnapshotStore) Create(ctx context.Context, snapshot *domain.ArchivedSnapshot) error {
	log := logger.FromContext(ctx)

	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO snapshots (id, user_id, name, source_lang, target_lang,
			compartments, card_count, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.UserID,
		snapshot.Name,
		snapshot.SourceLang,
		snapshot.TargetLang,
		snapshot.Compartments,
		snapshot.CardCount,
		snapshot.Data,
		snapshot.CreatedAt,
		snapshot.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return MapUniqueViolation(err, store.ErrSnapshotNameExists)
		}
		log.Error("failed to insert snapshot",
			"snapshot_id", snapshot.ID,
			"user_id", snapshot.UserID,
			"error", err)
		return MapError(fmt.Errorf("failed to insert snapshot: %w", err))
	}

	return nil
}

// GetByID implements store.SnapshotStore.GetByID.
func (s *PostgresSnapshotStore) GetByID(
	ctx context.Context,
	userID, id uuid.UUID,
) (*domain.ArchivedSnapshot, error) {
	query := `
		SELECT id, user_id, name, source_lang, target_lang,
			compartments, card_count, data, created_at, updated_at
		FROM snapshots
		WHERE id = $1 AND user_id = $2
	`

	snapshot, err := s.scanSnapshot(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot by ID: %w", err)
	}

	return snapshot, nil
}

// GetByName implements store.SnapshotStore.GetByName.
func (s *PostgresSnapshotStore) GetByName(
	ctx context.Context,
	userID uuid.UUID,
	name string,
) (*domain.ArchivedSnapshot, error) {
	query := `
		SELECT id, user_id, name, source_lang, target_lang,
			compartments, card_count, data, created_at, updated_at
		FROM snapshots
		WHERE user_id = $1 AND name = $2
	`

	snapshot, err := s.scanSnapshot(s.db.QueryRowContext(ctx, query, userID, name))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot by name: %w", err)
	}

	return snapshot, nil
}

// ListByUser implements store.SnapshotStore.ListByUser. The Data payload
// is left empty; listings only need the denormalized metadata.
func (s *PostgresSnapshotStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.ArchivedSnapshot, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, user_id, name, source_lang, target_lang,
			compartments, card_count, created_at, updated_at
		FROM snapshots
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list snapshots",
			"user_id", userID,
			"error", err)
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []*domain.ArchivedSnapshot
	for rows.Next() {
		var snap domain.ArchivedSnapshot
		err := rows.Scan(
			&snap.ID,
			&snap.UserID,
			&snap.Name,
			&snap.SourceLang,
			&snap.TargetLang,
			&snap.Compartments,
			&snap.CardCount,
			&snap.CreatedAt,
			&snap.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}

	return snapshots, nil
}

// Update implements store.SnapshotStore.Update. Only the data payload and
// its denormalized metadata change; the name and owner are immutable.
func (s *PostgresSnapshotStore) Update(ctx context.Context, snapshot *domain.ArchivedSnapshot) error {
	log := logger.FromContext(ctx)

	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	snapshot.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE snapshots
		SET source_lang = $3, target_lang = $4, compartments = $5,
			card_count = $6, data = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
	`

	result, err := s.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.UserID,
		snapshot.SourceLang,
		snapshot.TargetLang,
		snapshot.Compartments,
		snapshot.CardCount,
		snapshot.Data,
		snapshot.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update snapshot",
			"snapshot_id", snapshot.ID,
			"user_id", snapshot.UserID,
			"error", err)
		return MapError(fmt.Errorf("failed to update snapshot: %w", err))
	}

	if err := CheckRowsAffected(result, "snapshot"); err != nil {
		return store.ErrSnapshotNotFound
	}

	return nil
}

// Delete implements store.SnapshotStore.Delete.
func (s *PostgresSnapshotStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	query := `DELETE FROM snapshots WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete snapshot",
			"snapshot_id", id,
			"user_id", userID,
			"error", err)
		return MapError(fmt.Errorf("failed to delete snapshot: %w", err))
	}

	if err := CheckRowsAffected(result, "snapshot"); err != nil {
		return store.ErrSnapshotNotFound
	}

	return nil
}

// scanSnapshot reads one full snapshot row from a QueryRowContext result.
func (s *PostgresSnapshotStore) scanSnapshot(row *sql.Row) (*domain.ArchivedSnapshot, error) {
	var snap domain.ArchivedSnapshot
	err := row.Scan(
		&snap.ID,
		&snap.UserID,
		&snap.Name,
		&snap.SourceLang,
		&snap.TargetLang,
		&snap.Compartments,
		&snap.CardCount,
		&snap.Data,
		&snap.CreatedAt,
		&snap.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

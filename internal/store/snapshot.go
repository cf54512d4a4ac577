package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/skuehn/lernbox/internal/domain"
)

// SnapshotStore defines the interface for archived snapshot persistence.
// Snapshot names are unique per user; lookups are always scoped to the
// owning user so one user can never read another's snapshots.
type SnapshotStore interface {
	// Create saves a new archived snapshot.
	// Returns ErrSnapshotNameExists if the user already has a snapshot
	// with the same name.
	// Returns ErrInvalidEntity wrapping the domain validation error if the
	// snapshot data is invalid.
	Create(ctx context.Context, snapshot *domain.ArchivedSnapshot) error

	// GetByID retrieves a snapshot by ID, scoped to the owning user.
	// Returns ErrSnapshotNotFound if no such snapshot exists for the user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.ArchivedSnapshot, error)

	// GetByName retrieves a user's snapshot by its name.
	// Returns ErrSnapshotNotFound if no such snapshot exists for the user.
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.ArchivedSnapshot, error)

	// ListByUser returns all of a user's snapshots ordered by most
	// recently updated, without their Data payloads.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ArchivedSnapshot, error)

	// Update replaces an existing snapshot's data and denormalized counts.
	// Returns ErrSnapshotNotFound if the snapshot does not exist.
	Update(ctx context.Context, snapshot *domain.ArchivedSnapshot) error

	// Delete removes a snapshot by ID, scoped to the owning user.
	// Returns ErrSnapshotNotFound if no such snapshot exists for the user.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// WithTx returns a new SnapshotStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through RunInTransaction.
	WithTx(tx *sql.Tx) SnapshotStore
}

package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skuehn/lernbox/internal/store"
)

func pgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		ConstraintName: constraint,
		Message:        "test error",
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantNil bool
	}{
		{name: "nil error", err: nil, wantNil: true},
		{name: "no rows", err: sql.ErrNoRows, wantIs: store.ErrNotFound},
		{
			name:   "wrapped no rows",
			err:    fmt.Errorf("query: %w", sql.ErrNoRows),
			wantIs: store.ErrNotFound,
		},
		{
			name:   "unique violation",
			err:    pgError(uniqueViolationCode, "users_email_key"),
			wantIs: store.ErrDuplicate,
		},
		{
			name:   "foreign key violation",
			err:    pgError(foreignKeyViolationCode, "snapshots_user_id_fkey"),
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "check violation",
			err:    pgError(checkViolationCode, "snapshots_compartments_check"),
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "not null violation",
			err:    pgError(notNullViolationCode, ""),
			wantIs: store.ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(tt.err)
			if tt.wantNil {
				assert.NoError(t, mapped)
				return
			}
			assert.True(t, errors.Is(mapped, tt.wantIs),
				"mapped error %v should wrap %v", mapped, tt.wantIs)
		})
	}
}

func TestMapErrorPassesThroughUnknownErrors(t *testing.T) {
	t.Parallel()

	original := errors.New("connection refused")
	assert.Equal(t, original, MapError(original))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(pgError(uniqueViolationCode, "users_email_key")))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", pgError(uniqueViolationCode, ""))))
	assert.False(t, IsUniqueViolation(pgError(foreignKeyViolationCode, "")))
	assert.False(t, IsUniqueViolation(errors.New("other")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFoundError(sql.ErrNoRows))
	assert.True(t, IsNotFoundError(store.ErrUserNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("get: %w", store.ErrSnapshotNotFound)))
	assert.False(t, IsNotFoundError(store.ErrDuplicate))
	assert.False(t, IsNotFoundError(nil))
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	uniqueErr := pgError(uniqueViolationCode, "users_email_key")

	mapped := MapUniqueViolation(uniqueErr, store.ErrEmailExists)
	assert.True(t, errors.Is(mapped, store.ErrEmailExists))
	assert.True(t, errors.Is(mapped, store.ErrDuplicate))

	// Without a specific error the generic duplicate sentinel is used.
	mapped = MapUniqueViolation(uniqueErr, nil)
	assert.True(t, errors.Is(mapped, store.ErrDuplicate))

	// Non-unique errors pass through untouched.
	other := errors.New("other failure")
	assert.Equal(t, other, MapUniqueViolation(other, store.ErrEmailExists))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), "user"))
	})

	t.Run("no rows affected", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(sqlmock.NewResult(0, 0), "user")
		require.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrNotFound))
		assert.Contains(t, err.Error(), "user not found")
	})

	t.Run("no rows affected without entity name", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(sqlmock.NewResult(0, 0), "")
		assert.Equal(t, store.ErrNotFound, err)
	})

	t.Run("rows affected error", func(t *testing.T) {
		t.Parallel()
		result := sqlmock.NewErrorResult(errors.New("driver does not support RowsAffected"))
		err := CheckRowsAffected(result, "user")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get rows affected")
	})

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, CheckRowsAffected(nil, "user"))
	})
}

package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skuehn/lernbox/internal/store"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("ErrSessionNotFound", func(t *testing.T) {
		assert.Equal(t, "study session not found", ErrSessionNotFound.Error())
		assert.True(t, errors.Is(ErrSessionNotFound, ErrSessionNotFound))
	})

	t.Run("distinct from snapshot lookup misses", func(t *testing.T) {
		// Sessions live in memory while archives live in the database.
		// Callers must be able to tell the two lookup misses apart.
		assert.False(t, errors.Is(ErrSessionNotFound, store.ErrSnapshotNotFound))
		assert.False(t, errors.Is(store.ErrSnapshotNotFound, ErrSessionNotFound))
	})

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("looking up session: %w", ErrSessionNotFound)
		assert.True(t, errors.Is(wrapped, ErrSessionNotFound))
	})
}

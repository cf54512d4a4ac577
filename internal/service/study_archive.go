package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/skuehn/lernbox/internal/domain"
	"github.com/skuehn/lernbox/internal/notice"
	"github.com/skuehn/lernbox/internal/snapshot"
	"github.com/skuehn/lernbox/internal/store"
)

// SaveSnapshot archives the session's current state under the given name.
// Saving over a name the caller already used replaces that archive's data;
// the write happens in a transaction so the lookup and the write cannot
// race with a concurrent save to the same name.
func (s *StudyService) SaveSnapshot(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	name string,
) (*domain.ArchivedSnapshot, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	snap := sess.box.Snapshot()
	sess.lastUsedAt = s.timeFunc()
	sess.mu.Unlock()

	var buf bytes.Buffer
	if err := snapshot.Encode(&buf, snap); err != nil {
		return nil, fmt.Errorf("failed to encode session state: %w", err)
	}
	data := buf.String()

	var saved *domain.ArchivedSnapshot
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.snapshots.WithTx(tx)

		existing, err := txStore.GetByName(ctx, userID, name)
		switch {
		case err == nil:
			if err := existing.ReplaceData(
				snap.SourceLang, snap.TargetLang, len(snap.Tiers), snap.Cards(), data,
			); err != nil {
				return fmt.Errorf("failed to update archive: %w", err)
			}
			if err := txStore.Update(ctx, existing); err != nil {
				return fmt.Errorf("failed to update archive: %w", err)
			}
			saved = existing
			return nil

		case errors.Is(err, store.ErrSnapshotNotFound):
			arch, err := domain.NewArchivedSnapshot(
				userID, name, snap.SourceLang, snap.TargetLang, len(snap.Tiers), snap.Cards(), data,
			)
			if err != nil {
				return fmt.Errorf("failed to build archive: %w", err)
			}
			if err := txStore.Create(ctx, arch); err != nil {
				return fmt.Errorf("failed to create archive: %w", err)
			}
			saved = arch
			return nil

		default:
			return fmt.Errorf("failed to look up archive: %w", err)
		}
	})
	if err != nil {
		s.logger.Error("failed to archive session",
			"error", err,
			"session_id", sessionID,
			"user_id", userID,
			"name", name)
		return nil, err
	}

	s.logger.Info("session archived",
		"session_id", sessionID,
		"user_id", userID,
		"name", name,
		"cards", saved.CardCount)

	return saved, nil
}

// LoadSnapshot replaces the session's entire state with a named archive.
// Nothing is merged; all outstanding draws go stale. compartmentOverride
// follows the decode semantics: zero infers the count from the data, a
// larger count adds empty compartments, a smaller one fails. When the
// compartment count changes, the draw weights reset to defaults, which is
// reported through the returned notices.
func (s *StudyService) LoadSnapshot(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	name string,
	compartmentOverride int,
) ([]notice.Notice, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	arch, err := s.snapshots.GetByName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive %q: %w", name, err)
	}

	snap, err := snapshot.Decode(strings.NewReader(arch.Data), compartmentOverride)
	if err != nil {
		return nil, fmt.Errorf("failed to decode archive %q: %w", name, err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsedAt = s.timeFunc()

	before := sess.box.CompartmentCount()
	if err := sess.box.Restore(snap); err != nil {
		return nil, fmt.Errorf("failed to restore session from archive %q: %w", name, err)
	}
	sess.clearDraws()

	s.logger.Info("session restored from archive",
		"session_id", sessionID,
		"user_id", userID,
		"name", name,
		"cards", snap.Cards())

	var notices []notice.Notice
	if after := sess.box.CompartmentCount(); after != before {
		n := notice.NewWeightsReset(sessionID, before, after)
		notices = append(notices, n)
		if err := s.emitter.Emit(ctx, n); err != nil {
			s.logger.Warn("notice delivery failed",
				"error", err,
				"notice_id", n.ID,
				"session_id", sessionID)
		}
	}

	return notices, nil
}

// Export serializes the session's current state to the snapshot CSV
// format, byte-identical to what SaveSnapshot archives.
func (s *StudyService) Export(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) ([]byte, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	snap := sess.box.Snapshot()
	sess.lastUsedAt = s.timeFunc()
	sess.mu.Unlock()

	var buf bytes.Buffer
	if err := snapshot.Encode(&buf, snap); err != nil {
		return nil, fmt.Errorf("failed to encode session state: %w", err)
	}
	return buf.Bytes(), nil
}

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/skuehn/lernbox/internal/config"
	"github.com/skuehn/lernbox/internal/domain"
	"github.com/skuehn/lernbox/internal/domain/leitner"
	"github.com/skuehn/lernbox/internal/notice"
	"github.com/skuehn/lernbox/internal/snapshot"
	"github.com/skuehn/lernbox/internal/store"
)

// CreateSessionParams describes how to build a new session's box.
type CreateSessionParams struct {
	// SourceLang and TargetLang name the two sides of the deck. Required
	// unless ArchiveName is set, in which case the archive's tags win.
	SourceLang string
	TargetLang string

	// Compartments is the tier count. Zero means the default. When starting
	// from an archive it acts as the decode override: the archive must fit
	// within it, and extra compartments start empty.
	Compartments int

	// Weights are the per-tier draw weights. Nil means the defaults for the
	// compartment count. Weights are fixed once the session exists.
	Weights []float64

	// Cards seed compartment 0 of a fresh deck. Ignored with ArchiveName.
	Cards []domain.FlashCard

	// ArchiveName selects one of the caller's archived snapshots to start
	// from instead of a fresh deck.
	ArchiveName string
}

// SessionInfo is the read-only view of a live session.
type SessionInfo struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	SourceLang   string
	TargetLang   string
	Compartments int
	Cards        int
	TierSizes    []int
	CreatedAt    time.Time
	LastUsedAt   time.Time
}

// DrawResult is one drawn card plus the ID the answer must reference.
type DrawResult struct {
	DrawID uuid.UUID
	Card   domain.FlashCard
}

// AnswerResult reports what an answer did to the deck. Applied is false
// when the draw ID was unknown or already answered; the card and tier are
// only meaningful when Applied is true.
type AnswerResult struct {
	Card    domain.FlashCard
	Tier    int
	Applied bool
}

// SettingsPatch carries attempted changes to per-session settings. Every
// field of the box a patch can name is fixed after construction, so each
// non-nil field produces a rejection notice rather than a change.
type SettingsPatch struct {
	SourceLang  *string
	TargetLang  *string
	TierWeights []float64
}

// StudyService owns the registry of live study sessions and the archive
// round-trips to Postgres. Sessions live only in process memory; a janitor
// goroutine evicts sessions idle past the configured TTL.
type StudyService struct {
	db        *sql.DB
	snapshots store.SnapshotStore
	emitter   notice.Emitter
	logger    *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session

	ttl           time.Duration
	sweepInterval time.Duration
	timeFunc      func() time.Time // Injectable for testing

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewStudyService creates a StudyService. Call Start to run the janitor
// and Stop to shut it down.
func NewStudyService(
	db *sql.DB,
	snapshots store.SnapshotStore,
	emitter notice.Emitter,
	cfg config.StudyConfig,
	logger *slog.Logger,
) *StudyService {
	ctx, cancel := context.WithCancel(context.Background())

	return &StudyService{
		db:            db,
		snapshots:     snapshots,
		emitter:       emitter,
		logger:        logger.With("component", "study_service"),
		sessions:      make(map[uuid.UUID]*session),
		ttl:           time.Duration(cfg.SessionTTLMinutes) * time.Minute,
		sweepInterval: time.Duration(cfg.SweepIntervalMinutes) * time.Minute,
		timeFunc:      time.Now,
		ctx:           ctx,
		cancelFunc:    cancel,
	}
}

// Start launches the janitor goroutine.
func (s *StudyService) Start() {
	s.wg.Add(1)
	go s.janitor()
}

// Stop shuts the janitor down and waits for it to finish.
func (s *StudyService) Stop() {
	s.cancelFunc()
	s.wg.Wait()
}

// CreateSession builds a box from the given parameters and registers it
// under a fresh session ID. The box comes from an inline card list, one of
// the caller's archived snapshots, or is empty.
func (s *StudyService) CreateSession(
	ctx context.Context,
	userID uuid.UUID,
	params CreateSessionParams,
) (SessionInfo, error) {
	var (
		box *leitner.Box
		err error
	)
	if params.ArchiveName != "" {
		box, err = s.boxFromArchive(ctx, userID, params)
	} else {
		box, err = boxFromCards(params)
	}
	if err != nil {
		s.logger.Debug("failed to create session",
			"error", err,
			"user_id", userID)
		return SessionInfo{}, err
	}

	sess := newSession(userID, box, s.timeFunc())

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("study session created",
		"session_id", sess.id,
		"user_id", userID,
		"cards", box.Size(),
		"compartments", box.CompartmentCount())

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.info(), nil
}

// boxFromCards builds a fresh box with every card in compartment 0.
func boxFromCards(params CreateSessionParams) (*leitner.Box, error) {
	cards, err := domain.NewCardCollection(params.Cards...)
	if err != nil {
		return nil, fmt.Errorf("invalid card list: %w", err)
	}

	box, err := leitner.NewWithConfig(cards, params.SourceLang, params.TargetLang, leitner.Config{
		Compartments: params.Compartments,
		Weights:      params.Weights,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build box: %w", err)
	}
	return box, nil
}

// boxFromArchive rebuilds a box from one of the caller's archived
// snapshots.
func (s *StudyService) boxFromArchive(
	ctx context.Context,
	userID uuid.UUID,
	params CreateSessionParams,
) (*leitner.Box, error) {
	arch, err := s.snapshots.GetByName(ctx, userID, params.ArchiveName)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive %q: %w", params.ArchiveName, err)
	}

	snap, err := snapshot.Decode(strings.NewReader(arch.Data), params.Compartments)
	if err != nil {
		return nil, fmt.Errorf("failed to decode archive %q: %w", params.ArchiveName, err)
	}

	box, err := leitner.FromSnapshot(snap, leitner.Config{Weights: params.Weights})
	if err != nil {
		return nil, fmt.Errorf("failed to build box from archive %q: %w", params.ArchiveName, err)
	}
	return box, nil
}

// lookup resolves a session by ID for the given owner. Sessions of other
// users are reported as not found.
func (s *StudyService) lookup(userID, sessionID uuid.UUID) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok || sess.userID != userID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// GetSession returns the read-only view of one of the caller's sessions.
func (s *StudyService) GetSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (SessionInfo, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return SessionInfo{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.info(), nil
}

// ListSessions returns the caller's live sessions, oldest first.
func (s *StudyService) ListSessions(ctx context.Context, userID uuid.UUID) []SessionInfo {
	s.mu.RLock()
	own := make([]*session, 0)
	for _, sess := range s.sessions {
		if sess.userID == userID {
			own = append(own, sess)
		}
	}
	s.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(own))
	for _, sess := range own {
		sess.mu.Lock()
		infos = append(infos, sess.info())
		sess.mu.Unlock()
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// EndSession removes a session from the registry.
func (s *StudyService) EndSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	owned := ok && sess.userID == userID
	if owned {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !owned {
		return ErrSessionNotFound
	}

	s.logger.Info("study session ended",
		"session_id", sessionID,
		"user_id", userID)
	return nil
}

// Compartments returns a copy of the session's per-tier card listing for
// UI rendering.
func (s *StudyService) Compartments(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) ([][]domain.FlashCard, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsedAt = s.timeFunc()
	return sess.box.Compartments(), nil
}

// Draw selects the next card to show and records the selection under a new
// draw ID, which the matching Answer call must present. Fails with
// leitner.ErrEmptyPool when the session has nothing to draw.
func (s *StudyService) Draw(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (DrawResult, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return DrawResult{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsedAt = s.timeFunc()

	sel, err := sess.box.Draw()
	if err != nil {
		return DrawResult{}, fmt.Errorf("failed to draw: %w", err)
	}

	drawID := uuid.New()
	sess.recordDraw(drawID, sel)

	s.logger.Debug("card drawn",
		"session_id", sessionID,
		"draw_id", drawID)

	return DrawResult{DrawID: drawID, Card: sel.Card}, nil
}

// Answer grades the card of an earlier draw: promote on a correct answer,
// demote on an incorrect one. Unknown and repeated draw IDs change nothing
// and report Applied false.
func (s *StudyService) Answer(
	ctx context.Context,
	userID, sessionID, drawID uuid.UUID,
	correct bool,
) (AnswerResult, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return AnswerResult{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsedAt = s.timeFunc()

	sel, ok := sess.takeDraw(drawID)
	if !ok {
		s.logger.Debug("answer references unknown or stale draw",
			"session_id", sessionID,
			"draw_id", drawID)
		return AnswerResult{}, nil
	}

	var after leitner.Selection
	if correct {
		after = sess.box.Promote(sel)
	} else {
		after = sess.box.Demote(sel)
	}

	s.logger.Debug("answer applied",
		"session_id", sessionID,
		"draw_id", drawID,
		"correct", correct,
		"tier", after.Tier)

	return AnswerResult{Card: after.Card, Tier: after.Tier, Applied: true}, nil
}

// UpdateSettings handles attempts to change per-session settings. Language
// tags and draw weights are fixed for the life of the session, so every
// field the patch names yields a rejection notice and no state change.
func (s *StudyService) UpdateSettings(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	patch SettingsPatch,
) ([]notice.Notice, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.lastUsedAt = s.timeFunc()
	sess.mu.Unlock()

	var notices []notice.Notice
	if patch.SourceLang != nil {
		notices = append(notices, notice.NewSettingRejected(sessionID, "source_lang"))
	}
	if patch.TargetLang != nil {
		notices = append(notices, notice.NewSettingRejected(sessionID, "target_lang"))
	}
	if patch.TierWeights != nil {
		notices = append(notices, notice.NewSettingRejected(sessionID, "tier_weights"))
	}

	for _, n := range notices {
		if err := s.emitter.Emit(ctx, n); err != nil {
			s.logger.Warn("notice delivery failed",
				"error", err,
				"notice_id", n.ID,
				"session_id", sessionID)
		}
	}

	return notices, nil
}

// janitor periodically evicts sessions idle past the TTL.
func (s *StudyService) janitor() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	s.logger.Debug("janitor started",
		"ttl", s.ttl.String(),
		"interval", s.sweepInterval.String())

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debug("janitor stopped")
			return

		case <-ticker.C:
			if evicted := s.sweep(); evicted > 0 {
				s.logger.Info("evicted idle study sessions",
					"count", evicted,
					"ttl", s.ttl.String())
			}
		}
	}
}

// sweep removes every session idle past the TTL and reports how many went.
func (s *StudyService) sweep() int {
	now := s.timeFunc()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastUsedAt)
		sess.mu.Unlock()

		if idle > s.ttl {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

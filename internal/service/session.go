package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/skuehn/lernbox/internal/domain/leitner"
)

// maxPendingDraws bounds the per-session ledger of draws awaiting an
// answer. Once the ledger is full the oldest entry falls off, so a client
// that draws without ever answering cannot grow it without limit.
const maxPendingDraws = 100

// session is the in-memory state of one live study session. The box and
// the draw ledger are only touched under mu. Lock ordering: the service's
// registry lock may be held while taking mu, never the reverse.
type session struct {
	id        uuid.UUID
	userID    uuid.UUID
	createdAt time.Time

	mu         sync.Mutex
	box        *leitner.Box
	lastUsedAt time.Time
	draws      map[uuid.UUID]leitner.Selection
	drawOrder  []uuid.UUID
}

func newSession(userID uuid.UUID, box *leitner.Box, now time.Time) *session {
	return &session{
		id:         uuid.New(),
		userID:     userID,
		createdAt:  now,
		box:        box,
		lastUsedAt: now,
		draws:      make(map[uuid.UUID]leitner.Selection),
	}
}

// recordDraw stores a selection under a fresh draw ID. Caller holds mu.
func (s *session) recordDraw(drawID uuid.UUID, sel leitner.Selection) {
	s.draws[drawID] = sel
	s.drawOrder = append(s.drawOrder, drawID)
	if len(s.drawOrder) > maxPendingDraws {
		oldest := s.drawOrder[0]
		s.drawOrder = s.drawOrder[1:]
		delete(s.draws, oldest)
	}
}

// takeDraw consumes the selection recorded under drawID. Reports false for
// unknown or already-answered draw IDs. Caller holds mu.
func (s *session) takeDraw(drawID uuid.UUID) (leitner.Selection, bool) {
	sel, ok := s.draws[drawID]
	if !ok {
		return leitner.Selection{}, false
	}
	delete(s.draws, drawID)
	return sel, true
}

// clearDraws drops every outstanding draw. Used after a restore, when all
// recorded selections have gone stale at once. Caller holds mu.
func (s *session) clearDraws() {
	s.draws = make(map[uuid.UUID]leitner.Selection)
	s.drawOrder = nil
}

// info builds the read-only view of the session. Caller holds mu.
func (s *session) info() SessionInfo {
	return SessionInfo{
		ID:           s.id,
		UserID:       s.userID,
		SourceLang:   s.box.SourceLang(),
		TargetLang:   s.box.TargetLang(),
		Compartments: s.box.CompartmentCount(),
		Cards:        s.box.Size(),
		TierSizes:    s.box.TierSizes(),
		CreatedAt:    s.createdAt,
		LastUsedAt:   s.lastUsedAt,
	}
}

package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ArchivedSnapshot
var (
	ErrEmptySnapshotID     = errors.New("snapshot ID cannot be empty")
	ErrEmptySnapshotUserID = errors.New("snapshot user ID cannot be empty")
	ErrEmptySnapshotName   = errors.New("snapshot name cannot be empty")
	ErrSnapshotNameTooLong = errors.New("snapshot name cannot exceed 120 characters")
	ErrEmptySnapshotData   = errors.New("snapshot data cannot be empty")
	ErrInvalidCompartments = errors.New("snapshot compartment count must be at least 1")
	ErrNegativeCardCount   = errors.New("snapshot card count cannot be negative")
)

// maxSnapshotNameLength bounds user-supplied snapshot names.
const maxSnapshotNameLength = 120

// ArchivedSnapshot is a named, persisted copy of a study box, serialized
// as CSV text. SourceLang, TargetLang, Compartments, and CardCount are
// denormalized from the data so listings do not have to decode it.
type ArchivedSnapshot struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	SourceLang   string    `json:"source_lang"`
	TargetLang   string    `json:"target_lang"`
	Compartments int       `json:"compartments"`
	CardCount    int       `json:"card_count"`
	Data         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewArchivedSnapshot creates a new ArchivedSnapshot owned by the given user.
// It generates a new UUID for the ID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewArchivedSnapshot(
	userID uuid.UUID,
	name, sourceLang, targetLang string,
	compartments, cardCount int,
	data string,
) (*ArchivedSnapshot, error) {
	snap := &ArchivedSnapshot{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         strings.TrimSpace(name),
		SourceLang:   sourceLang,
		TargetLang:   targetLang,
		Compartments: compartments,
		CardCount:    cardCount,
		Data:         data,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}

	return snap, nil
}

// Validate checks if the ArchivedSnapshot has valid data.
// Returns an error if any field fails validation.
func (s *ArchivedSnapshot) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySnapshotID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptySnapshotUserID
	}

	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptySnapshotName
	}

	if len(s.Name) > maxSnapshotNameLength {
		return ErrSnapshotNameTooLong
	}

	if s.Data == "" {
		return ErrEmptySnapshotData
	}

	if s.Compartments < 1 {
		return ErrInvalidCompartments
	}

	if s.CardCount < 0 {
		return ErrNegativeCardCount
	}

	return nil
}

// ReplaceData swaps in a fresh serialization and its denormalized counts,
// bumping the UpdatedAt timestamp. Used when saving over an existing name.
func (s *ArchivedSnapshot) ReplaceData(
	sourceLang, targetLang string,
	compartments, cardCount int,
	data string,
) error {
	if data == "" {
		return ErrEmptySnapshotData
	}
	if compartments < 1 {
		return ErrInvalidCompartments
	}
	if cardCount < 0 {
		return ErrNegativeCardCount
	}

	s.SourceLang = sourceLang
	s.TargetLang = targetLang
	s.Compartments = compartments
	s.CardCount = cardCount
	s.Data = data
	s.UpdatedAt = time.Now().UTC()
	return nil
}

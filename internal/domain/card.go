package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Card-specific validation errors
var (
	// ErrEmptyVocabulary is returned when a card's vocabulary side is blank.
	ErrEmptyVocabulary = errors.New("card vocabulary cannot be empty")

	// ErrEmptyDefinition is returned when a card's definition side is blank.
	ErrEmptyDefinition = errors.New("card definition cannot be empty")

	// ErrDuplicateCard is returned when adding a card already present in a
	// collection.
	ErrDuplicateCard = errors.New("card already in collection")

	// ErrCardNotFound is returned when removing a card that is not present.
	ErrCardNotFound = errors.New("card not in collection")

	// ErrCardIndexOutOfRange is returned for an index outside the collection.
	ErrCardIndexOutOfRange = errors.New("card index out of range")
)

// FlashCard is a single vocabulary/definition pair. It is a value type:
// two cards are equal iff both fields match, and neither field changes
// after construction.
type FlashCard struct {
	Vocabulary string `json:"vocabulary"`
	Definition string `json:"definition"`
}

// NewFlashCard creates a FlashCard from the given pair.
// Returns an error if either side is blank.
func NewFlashCard(vocabulary, definition string) (FlashCard, error) {
	card := FlashCard{
		Vocabulary: vocabulary,
		Definition: definition,
	}

	if err := card.Validate(); err != nil {
		return FlashCard{}, err
	}

	return card, nil
}

// Validate checks if the FlashCard has valid data.
// Returns an error if any field fails validation.
func (c FlashCard) Validate() error {
	if strings.TrimSpace(c.Vocabulary) == "" {
		return ErrEmptyVocabulary
	}

	if strings.TrimSpace(c.Definition) == "" {
		return ErrEmptyDefinition
	}

	return nil
}

// IsZero reports whether the card is the zero value. Useful for callers
// that treat "no card" as a zero FlashCard rather than a pointer.
func (c FlashCard) IsZero() bool {
	return c.Vocabulary == "" && c.Definition == ""
}

// String returns the card's textual form, "vocabulary:definition".
func (c FlashCard) String() string {
	return c.Vocabulary + ":" + c.Definition
}

// CardCollection is an ordered, duplicate-free sequence of flashcards.
// The zero value is an empty, usable collection.
type CardCollection struct {
	cards []FlashCard
}

// NewCardCollection builds a collection from the given cards, preserving
// order. Returns an error if any card is invalid or appears twice.
func NewCardCollection(cards ...FlashCard) (*CardCollection, error) {
	cc := &CardCollection{cards: make([]FlashCard, 0, len(cards))}

	for _, card := range cards {
		if err := cc.Add(card); err != nil {
			return nil, err
		}
	}

	return cc, nil
}

// Add appends a card to the collection.
// Returns ErrDuplicateCard if an equal card is already present.
func (cc *CardCollection) Add(card FlashCard) error {
	if err := card.Validate(); err != nil {
		return err
	}

	if cc.Contains(card) {
		return fmt.Errorf("%w: %s", ErrDuplicateCard, card)
	}

	cc.cards = append(cc.cards, card)
	return nil
}

// Remove deletes the given card, preserving the order of the rest.
// Returns ErrCardNotFound if the card is not present.
func (cc *CardCollection) Remove(card FlashCard) error {
	for i, c := range cc.cards {
		if c == card {
			cc.cards = append(cc.cards[:i], cc.cards[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrCardNotFound, card)
}

// Card returns the card at position i.
func (cc *CardCollection) Card(i int) (FlashCard, error) {
	if i < 0 || i >= len(cc.cards) {
		return FlashCard{}, fmt.Errorf("%w: %d", ErrCardIndexOutOfRange, i)
	}

	return cc.cards[i], nil
}

// Contains reports whether an equal card is present.
func (cc *CardCollection) Contains(card FlashCard) bool {
	for _, c := range cc.cards {
		if c == card {
			return true
		}
	}

	return false
}

// Len returns the number of cards in the collection.
func (cc *CardCollection) Len() int {
	return len(cc.cards)
}

// Cards returns a copy of the collection's cards in order. Mutating the
// returned slice does not affect the collection.
func (cc *CardCollection) Cards() []FlashCard {
	out := make([]FlashCard, len(cc.cards))
	copy(out, cc.cards)
	return out
}

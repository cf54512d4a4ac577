package domain

import (
	"errors"
	"testing"
)

func TestNewFlashCard(t *testing.T) {
	t.Parallel()

	card, err := NewFlashCard("house", "Haus")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.Vocabulary != "house" {
		t.Errorf("Expected vocabulary %q, got %q", "house", card.Vocabulary)
	}

	if card.Definition != "Haus" {
		t.Errorf("Expected definition %q, got %q", "Haus", card.Definition)
	}

	// Blank vocabulary
	_, err = NewFlashCard("", "Haus")
	if err != ErrEmptyVocabulary {
		t.Errorf("Expected error %v, got %v", ErrEmptyVocabulary, err)
	}

	// Whitespace-only vocabulary
	_, err = NewFlashCard("   ", "Haus")
	if err != ErrEmptyVocabulary {
		t.Errorf("Expected error %v, got %v", ErrEmptyVocabulary, err)
	}

	// Blank definition
	_, err = NewFlashCard("house", "")
	if err != ErrEmptyDefinition {
		t.Errorf("Expected error %v, got %v", ErrEmptyDefinition, err)
	}
}

func TestFlashCardEquality(t *testing.T) {
	t.Parallel()

	a := FlashCard{Vocabulary: "house", Definition: "Haus"}
	b := FlashCard{Vocabulary: "house", Definition: "Haus"}
	c := FlashCard{Vocabulary: "house", Definition: "Maus"}

	if a != b {
		t.Error("Expected cards with equal fields to be equal")
	}

	if a == c {
		t.Error("Expected cards with different definitions to differ")
	}
}

func TestFlashCardString(t *testing.T) {
	t.Parallel()

	card := FlashCard{Vocabulary: "you", Definition: "Sie"}
	if got := card.String(); got != "you:Sie" {
		t.Errorf("Expected %q, got %q", "you:Sie", got)
	}
}

func TestFlashCardIsZero(t *testing.T) {
	t.Parallel()

	if !(FlashCard{}).IsZero() {
		t.Error("Expected zero card to report IsZero")
	}

	if (FlashCard{Vocabulary: "a", Definition: "b"}).IsZero() {
		t.Error("Expected populated card not to report IsZero")
	}
}

func TestNewCardCollection(t *testing.T) {
	t.Parallel()

	cards := []FlashCard{
		{Vocabulary: "one", Definition: "eins"},
		{Vocabulary: "two", Definition: "zwei"},
		{Vocabulary: "three", Definition: "drei"},
	}

	cc, err := NewCardCollection(cards...)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cc.Len() != 3 {
		t.Errorf("Expected 3 cards, got %d", cc.Len())
	}

	// Order preserved
	got := cc.Cards()
	for i, want := range cards {
		if got[i] != want {
			t.Errorf("Expected card %d to be %v, got %v", i, want, got[i])
		}
	}

	// Duplicate rejected
	_, err = NewCardCollection(cards[0], cards[1], cards[0])
	if !errors.Is(err, ErrDuplicateCard) {
		t.Errorf("Expected error %v, got %v", ErrDuplicateCard, err)
	}

	// Invalid card rejected
	_, err = NewCardCollection(FlashCard{Vocabulary: "x"})
	if err != ErrEmptyDefinition {
		t.Errorf("Expected error %v, got %v", ErrEmptyDefinition, err)
	}
}

func TestCardCollectionAddRemove(t *testing.T) {
	t.Parallel()

	cc := &CardCollection{}
	card := FlashCard{Vocabulary: "house", Definition: "Haus"}

	if err := cc.Add(card); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !cc.Contains(card) {
		t.Error("Expected collection to contain added card")
	}

	if err := cc.Add(card); !errors.Is(err, ErrDuplicateCard) {
		t.Errorf("Expected error %v, got %v", ErrDuplicateCard, err)
	}

	if err := cc.Remove(card); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cc.Contains(card) {
		t.Error("Expected collection not to contain removed card")
	}

	if err := cc.Remove(card); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("Expected error %v, got %v", ErrCardNotFound, err)
	}
}

func TestCardCollectionRemovePreservesOrder(t *testing.T) {
	t.Parallel()

	a := FlashCard{Vocabulary: "a", Definition: "1"}
	b := FlashCard{Vocabulary: "b", Definition: "2"}
	c := FlashCard{Vocabulary: "c", Definition: "3"}

	cc, err := NewCardCollection(a, b, c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := cc.Remove(b); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got := cc.Cards()
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("Expected [a c] after removing b, got %v", got)
	}
}

func TestCardCollectionCard(t *testing.T) {
	t.Parallel()

	a := FlashCard{Vocabulary: "a", Definition: "1"}
	cc, err := NewCardCollection(a)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := cc.Card(0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != a {
		t.Errorf("Expected card %v, got %v", a, got)
	}

	if _, err := cc.Card(1); !errors.Is(err, ErrCardIndexOutOfRange) {
		t.Errorf("Expected error %v, got %v", ErrCardIndexOutOfRange, err)
	}

	if _, err := cc.Card(-1); !errors.Is(err, ErrCardIndexOutOfRange) {
		t.Errorf("Expected error %v, got %v", ErrCardIndexOutOfRange, err)
	}
}

func TestCardCollectionCardsIsCopy(t *testing.T) {
	t.Parallel()

	a := FlashCard{Vocabulary: "a", Definition: "1"}
	cc, err := NewCardCollection(a)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cards := cc.Cards()
	cards[0] = FlashCard{Vocabulary: "mutated", Definition: "x"}

	got, _ := cc.Card(0)
	if got != a {
		t.Error("Expected mutating the returned slice to leave the collection unchanged")
	}
}

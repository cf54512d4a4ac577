package leitner

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/skuehn/lernbox/internal/domain"
)

// Config carries the optional knobs for building a Box. The zero value
// selects the defaults: four compartments, the canonical weights, a
// ten-draw anti-repeat window, and a time-seeded randomness source.
type Config struct {
	// Compartments is the number of tiers. Zero means DefaultCompartments.
	Compartments int

	// Weights are the per-tier draw weights. They must match the
	// compartment count and be non-negative with a positive sum; they need
	// not be normalized. Nil means DefaultWeights(Compartments).
	Weights []float64

	// HistorySize is the anti-repeat window length. Zero means
	// DefaultHistorySize; negative is invalid.
	HistorySize int

	// Rand is the randomness source for draws. Nil means a time-seeded
	// source. Tests inject a fixed seed here.
	Rand *rand.Rand
}

// Box is the compartment scheduler. It owns N ordered compartments of
// flashcards, where compartment 0 holds unlearned cards and higher indices
// represent stronger retention. Cards enter at compartment 0 and move one
// step at a time via Promote and Demote.
//
// Draws are two-staged: the configured weights pick which tier triggers the
// draw, but the card shown always comes uniformly from compartment 0, minus
// the cards in the anti-repeat window. The stages are coupled only through
// compartment 0; see Draw.
//
// The language tags and weights are fixed at construction. Restore is the
// only operation that replaces them, and it replaces the whole box state.
type Box struct {
	sourceLang   string
	targetLang   string
	compartments [][]domain.FlashCard
	weights      []float64
	history      []domain.FlashCard
	historySize  int
	rng          *rand.Rand
}

// New builds a Box with default configuration. All cards from the
// collection start in compartment 0; a nil or empty collection yields an
// empty box, which is valid but has nothing to draw.
func New(cards *domain.CardCollection, sourceLang, targetLang string) (*Box, error) {
	return NewWithConfig(cards, sourceLang, targetLang, Config{})
}

// NewWithConfig builds a Box with explicit configuration.
func NewWithConfig(cards *domain.CardCollection, sourceLang, targetLang string, cfg Config) (*Box, error) {
	if strings.TrimSpace(sourceLang) == "" || strings.TrimSpace(targetLang) == "" {
		return nil, ErrEmptyLanguage
	}

	n := cfg.Compartments
	if n == 0 {
		n = DefaultCompartments
	}
	if n < 1 {
		return nil, ErrCompartmentCount
	}

	weights := cfg.Weights
	if weights == nil {
		weights = DefaultWeights(n)
	}
	if err := validateWeights(weights, n); err != nil {
		return nil, err
	}

	historySize := cfg.HistorySize
	if historySize == 0 {
		historySize = DefaultHistorySize
	}
	if historySize < 0 {
		return nil, ErrHistorySize
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b := &Box{
		sourceLang:   sourceLang,
		targetLang:   targetLang,
		compartments: make([][]domain.FlashCard, n),
		weights:      append([]float64(nil), weights...),
		historySize:  historySize,
		rng:          rng,
	}

	if cards != nil {
		b.compartments[0] = cards.Cards()
	}

	return b, nil
}

// SourceLang returns the language tag of the vocabulary side.
func (b *Box) SourceLang() string { return b.sourceLang }

// TargetLang returns the language tag of the definition side.
func (b *Box) TargetLang() string { return b.targetLang }

// CompartmentCount returns the number of compartments.
func (b *Box) CompartmentCount() int { return len(b.compartments) }

// Weights returns a copy of the configured draw weights.
func (b *Box) Weights() []float64 {
	return append([]float64(nil), b.weights...)
}

// Size returns the total number of cards across all compartments.
func (b *Box) Size() int {
	total := 0
	for _, tier := range b.compartments {
		total += len(tier)
	}
	return total
}

// TierSizes returns the number of cards per compartment, index-aligned.
func (b *Box) TierSizes() []int {
	sizes := make([]int, len(b.compartments))
	for i, tier := range b.compartments {
		sizes[i] = len(tier)
	}
	return sizes
}

// Compartments returns a deep copy of all compartment contents in order,
// for inspection and UI rendering. Mutating the result does not affect
// the box.
func (b *Box) Compartments() [][]domain.FlashCard {
	out := make([][]domain.FlashCard, len(b.compartments))
	for i, tier := range b.compartments {
		out[i] = append([]domain.FlashCard(nil), tier...)
	}
	return out
}

// Draw selects one card to present to the reviewer.
//
// The configured weights first pick which tier triggers the draw, sampling
// only among non-empty tiers with positive weight. The card itself is then
// drawn uniformly from compartment 0, excluding cards in the anti-repeat
// window. Coupling the weighted gate to a compartment-0-only pool is the
// box's anti-cramming policy: a card never repeats within the window, and
// the pool under study is always the unlearned tier.
//
// Draw returns ErrEmptyPool when the box is empty, when every positively
// weighted tier is empty, or when compartment 0 has been drained by
// promotions. When every compartment-0 card is inside the anti-repeat
// window the exclusion is lifted rather than starving the draw.
func (b *Box) Draw() (Selection, error) {
	if _, ok := b.gateTier(); !ok {
		return Selection{}, ErrEmptyPool
	}

	pool := b.compartments[0]
	if len(pool) == 0 {
		return Selection{}, ErrEmptyPool
	}

	eligible := make([]domain.FlashCard, 0, len(pool))
	for _, card := range pool {
		if !b.recentlyDrawn(card) {
			eligible = append(eligible, card)
		}
	}
	if len(eligible) == 0 {
		// Every card in the pool is recent; allowing repeats beats
		// never answering.
		eligible = pool
	}

	card := eligible[b.rng.Intn(len(eligible))]
	b.remember(card)

	return Selection{Card: card, Tier: 0}, nil
}

// gateTier samples the tier that triggers a draw: one pick across the
// non-empty, positively weighted tiers, proportional to weight. This is
// equivalent to resampling the full weight vector until a non-empty tier
// comes up, without the unbounded retry. Reports false when no such tier
// exists.
func (b *Box) gateTier() (int, bool) {
	idx := make([]int, 0, len(b.compartments))
	weights := make([]float64, 0, len(b.compartments))
	for i, tier := range b.compartments {
		if len(tier) > 0 && b.weights[i] > 0 {
			idx = append(idx, i)
			weights = append(weights, b.weights[i])
		}
	}

	if len(idx) == 0 {
		return 0, false
	}

	return idx[weightedIndex(b.rng, weights)], true
}

// recentlyDrawn reports whether the card sits in the anti-repeat window.
func (b *Box) recentlyDrawn(card domain.FlashCard) bool {
	for _, c := range b.history {
		if c == card {
			return true
		}
	}
	return false
}

// remember appends the card to the anti-repeat window, evicting the
// oldest entry once the window is full.
func (b *Box) remember(card domain.FlashCard) {
	b.history = append(b.history, card)
	if len(b.history) > b.historySize {
		b.history = b.history[1:]
	}
}

// Promote moves the selected card one compartment up and returns the
// updated selection. It is a no-op returning the input unchanged when the
// selection is zero or stale (the card is no longer in the named tier) or
// the card already sits in the last compartment.
func (b *Box) Promote(sel Selection) Selection {
	pos, ok := b.locate(sel)
	if !ok || sel.Tier == len(b.compartments)-1 {
		return sel
	}

	b.move(pos, sel.Tier, sel.Tier+1)
	return Selection{Card: sel.Card, Tier: sel.Tier + 1}
}

// Demote moves the selected card one compartment down and returns the
// updated selection. It is a no-op returning the input unchanged when the
// selection is zero or stale or the card already sits in compartment 0.
func (b *Box) Demote(sel Selection) Selection {
	pos, ok := b.locate(sel)
	if !ok || sel.Tier == 0 {
		return sel
	}

	b.move(pos, sel.Tier, sel.Tier-1)
	return Selection{Card: sel.Card, Tier: sel.Tier - 1}
}

// locate finds the position of the selection's card within its named tier.
// A zero selection, an out-of-range tier, or a card that has moved since
// the selection was taken all report false.
func (b *Box) locate(sel Selection) (int, bool) {
	if sel.Card.IsZero() || sel.Tier < 0 || sel.Tier >= len(b.compartments) {
		return 0, false
	}

	for i, card := range b.compartments[sel.Tier] {
		if card == sel.Card {
			return i, true
		}
	}
	return 0, false
}

// move relocates the card at position pos from one compartment to the end
// of another. Destination order is insertion order.
func (b *Box) move(pos, from, to int) {
	card := b.compartments[from][pos]
	b.compartments[from] = append(b.compartments[from][:pos], b.compartments[from][pos+1:]...)
	b.compartments[to] = append(b.compartments[to], card)
}

// Snapshot captures the full persistable state of the box: language tags
// and per-tier card sequences in order. The result shares no memory with
// the box.
func (b *Box) Snapshot() Snapshot {
	return Snapshot{
		SourceLang: b.sourceLang,
		TargetLang: b.targetLang,
		Tiers:      b.Compartments(),
	}
}

// Restore replaces the box's entire state with the snapshot: language
// tags, compartment count, and every compartment's contents and order.
// Nothing is merged. The anti-repeat window is cleared. When the
// compartment count changes, the draw weights revert to the defaults for
// the new count so that weights and compartments stay aligned.
func (b *Box) Restore(snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	tiers := make([][]domain.FlashCard, len(snap.Tiers))
	for i, tier := range snap.Tiers {
		tiers[i] = append([]domain.FlashCard(nil), tier...)
	}

	if len(tiers) != len(b.compartments) {
		b.weights = DefaultWeights(len(tiers))
	}
	b.sourceLang = snap.SourceLang
	b.targetLang = snap.TargetLang
	b.compartments = tiers
	b.history = nil

	return nil
}

// FromSnapshot builds a Box directly from a snapshot. The compartment
// count always comes from the snapshot; cfg.Compartments is ignored.
// cfg.Weights, when set, must match the snapshot's compartment count.
func FromSnapshot(snap Snapshot, cfg Config) (*Box, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	cfg.Compartments = len(snap.Tiers)
	if cfg.Weights == nil {
		cfg.Weights = DefaultWeights(len(snap.Tiers))
	}

	b, err := NewWithConfig(nil, snap.SourceLang, snap.TargetLang, cfg)
	if err != nil {
		return nil, err
	}

	if err := b.Restore(snap); err != nil {
		return nil, err
	}
	return b, nil
}

// Snapshot is the full persistable state of a Box: the language tags and
// the per-tier card sequences. Tier order and within-tier order are
// authoritative.
type Snapshot struct {
	SourceLang string
	TargetLang string
	Tiers      [][]domain.FlashCard
}

// Validate checks structural soundness: non-blank language tags, at least
// one tier, every card valid, and no card in more than one place.
func (s Snapshot) Validate() error {
	if strings.TrimSpace(s.SourceLang) == "" || strings.TrimSpace(s.TargetLang) == "" {
		return ErrEmptyLanguage
	}

	if len(s.Tiers) < 1 {
		return ErrCompartmentCount
	}

	seen := make(map[domain.FlashCard]struct{})
	for i, tier := range s.Tiers {
		for _, card := range tier {
			if err := card.Validate(); err != nil {
				return fmt.Errorf("tier %d: %w", i, err)
			}
			if _, dup := seen[card]; dup {
				return fmt.Errorf("tier %d: %w: %s", i, domain.ErrDuplicateCard, card)
			}
			seen[card] = struct{}{}
		}
	}

	return nil
}

// Cards returns the total number of cards in the snapshot.
func (s Snapshot) Cards() int {
	total := 0
	for _, tier := range s.Tiers {
		total += len(tier)
	}
	return total
}

package leitner

import "github.com/skuehn/lernbox/internal/domain"

// Selection identifies a drawn card and the compartment that currently
// holds it. Draw returns one, and Promote/Demote take it back as the
// handle naming the card to move. There is no hidden current-card state
// on the box itself.
type Selection struct {
	Card domain.FlashCard `json:"card"`
	Tier int              `json:"tier"`
}

// IsZero reports whether the selection is the zero value, i.e. no card
// has been drawn.
func (s Selection) IsZero() bool {
	return s.Card.IsZero() && s.Tier == 0
}

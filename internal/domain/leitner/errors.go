package leitner

import "errors"

// Sentinel errors for the leitner package.
// Use errors.Is to check: errors.Is(err, leitner.ErrEmptyPool)
var (
	// ErrEmptyPool is returned by Draw when no card is available: the box is
	// empty, every weighted compartment is empty, or compartment 0 has been
	// drained by promotions.
	ErrEmptyPool = errors.New("leitner: no cards available to draw")

	// ErrCompartmentCount is returned when a box would be built with fewer
	// than one compartment.
	ErrCompartmentCount = errors.New("leitner: compartment count must be at least 1")

	// ErrWeightCount is returned when the number of draw weights does not
	// match the number of compartments.
	ErrWeightCount = errors.New("leitner: weight count must match compartment count")

	// ErrWeightValue is returned for a negative weight or an all-zero
	// weight vector.
	ErrWeightValue = errors.New("leitner: weights must be non-negative and not all zero")

	// ErrHistorySize is returned for a negative anti-repeat window size.
	ErrHistorySize = errors.New("leitner: history size must not be negative")

	// ErrEmptyLanguage is returned when a language tag is blank.
	ErrEmptyLanguage = errors.New("leitner: language tags must not be empty")
)

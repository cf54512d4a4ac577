package leitner

import "math/rand"

// Scheduling defaults. The four-compartment layout and its weights follow
// the classic paper-box setup: over half of all draws are triggered by the
// unlearned compartment, and the share halves roughly per tier.
const (
	// DefaultCompartments is the number of compartments a box starts with.
	DefaultCompartments = 4

	// DefaultHistorySize is the length of the anti-repeat window: no card
	// repeats within this many draws while enough distinct cards exist.
	DefaultHistorySize = 10
)

// canonical weights for the default four-compartment layout.
var defaultWeights4 = [DefaultCompartments]float64{0.55, 0.30, 0.10, 0.05}

// DefaultWeights returns the standard draw weights for a box with n
// compartments. The four-compartment layout gets the canonical
// [0.55 0.30 0.10 0.05]; any other size gets a halving progression,
// normalized to sum to 1. DefaultWeights panics if n < 1; callers validate
// compartment counts before asking for weights.
func DefaultWeights(n int) []float64 {
	if n < 1 {
		panic("leitner: DefaultWeights called with non-positive compartment count")
	}

	if n == DefaultCompartments {
		w := make([]float64, DefaultCompartments)
		copy(w, defaultWeights4[:])
		return w
	}

	w := make([]float64, n)
	share := 1.0
	sum := 0.0
	for i := range w {
		share /= 2
		w[i] = share
		sum += share
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// validateWeights checks a weight vector against a compartment count:
// the length must match and the values must be non-negative with a
// positive sum. Weights need not be normalized.
func validateWeights(weights []float64, compartments int) error {
	if len(weights) != compartments {
		return ErrWeightCount
	}

	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return ErrWeightValue
		}
		sum += w
	}
	if sum <= 0 {
		return ErrWeightValue
	}

	return nil
}

// weightedIndex samples one index from the weight vector, proportional to
// weight. The vector must have passed validateWeights.
func weightedIndex(rng *rand.Rand, weights []float64) int {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}

	r := rng.Float64() * sum
	for i, w := range weights {
		r -= w
		if r < 0 {
			return i
		}
	}

	// Float rounding can leave r at exactly zero after the loop; the last
	// positively weighted index is the only fair owner of that edge.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return len(weights) - 1
}

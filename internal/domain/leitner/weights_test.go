package leitner

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestDefaultWeightsCanonical(t *testing.T) {
	got := DefaultWeights(4)
	want := []float64{0.55, 0.30, 0.10, 0.05}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DefaultWeights(4)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDefaultWeightsOtherSizes(t *testing.T) {
	for _, n := range []int{1, 2, 3, 6, 10} {
		got := DefaultWeights(n)
		if len(got) != n {
			t.Fatalf("DefaultWeights(%d) length = %d", n, len(got))
		}

		sum := 0.0
		for i, w := range got {
			if w <= 0 {
				t.Errorf("DefaultWeights(%d)[%d] = %v, want positive", n, i, w)
			}
			if i > 0 && got[i] >= got[i-1] {
				t.Errorf("DefaultWeights(%d) not strictly decreasing at %d", n, i)
			}
			sum += w
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("DefaultWeights(%d) sums to %v, want 1", n, sum)
		}
	}
}

func TestDefaultWeightsSingle(t *testing.T) {
	got := DefaultWeights(1)
	if len(got) != 1 || math.Abs(got[0]-1.0) > 1e-9 {
		t.Errorf("DefaultWeights(1) = %v, want [1]", got)
	}
}

func TestValidateWeights(t *testing.T) {
	cases := []struct {
		name         string
		weights      []float64
		compartments int
		want         error
	}{
		{"valid normalized", []float64{0.55, 0.30, 0.10, 0.05}, 4, nil},
		{"valid unnormalized", []float64{3, 1}, 2, nil},
		{"length mismatch", []float64{0.5, 0.5}, 3, ErrWeightCount},
		{"negative entry", []float64{1, -0.1}, 2, ErrWeightValue},
		{"all zero", []float64{0, 0, 0}, 3, ErrWeightValue},
		{"single zero allowed", []float64{1, 0}, 2, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateWeights(tc.weights, tc.compartments)
			if tc.want == nil {
				if err != nil {
					t.Errorf("err = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestWeightedIndexDegenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 50; i++ {
		if got := weightedIndex(rng, []float64{1, 0, 0}); got != 0 {
			t.Fatalf("weightedIndex([1 0 0]) = %d, want 0", got)
		}
	}
	for i := 0; i < 50; i++ {
		if got := weightedIndex(rng, []float64{0, 0, 1}); got != 2 {
			t.Fatalf("weightedIndex([0 0 1]) = %d, want 2", got)
		}
	}
}

func TestWeightedIndexCoversAllIndices(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	weights := []float64{0.5, 0.5}

	hits := make([]int, 2)
	for i := 0; i < 200; i++ {
		hits[weightedIndex(rng, weights)]++
	}

	if hits[0] == 0 || hits[1] == 0 {
		t.Errorf("hits = %v, want both indices drawn", hits)
	}
}

func TestWeightedIndexRoughProportions(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	weights := DefaultWeights(4)

	const draws = 20000
	hits := make([]int, 4)
	for i := 0; i < draws; i++ {
		hits[weightedIndex(rng, weights)]++
	}

	// Loose tolerance; this guards gross bias, not the RNG.
	for i, w := range weights {
		got := float64(hits[i]) / draws
		if math.Abs(got-w) > 0.03 {
			t.Errorf("index %d frequency = %.3f, want about %.2f", i, got, w)
		}
	}
}

package rng_test

import (
	"testing"

	"github.com/swarmkernel/kernel/internal/rng"
)

func TestSourceDeterministicForSameSeed(t *testing.T) {
	a := rng.New(7)
	b := rng.New(7)
	for i := 0; i < 20; i++ {
		fa, fb := a.Float64(), b.Float64()
		if fa != fb {
			t.Fatalf("draw %d diverged for identical seed: %v != %v", i, fa, fb)
		}
	}
}

func TestSourceDifferentSeedsDiverge(t *testing.T) {
	a := rng.New(1)
	b := rng.New(2)
	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("two different seeds produced identical sequences")
	}
}

func TestIntRangeInclusiveBounds(t *testing.T) {
	s := rng.New(3)
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		v := s.IntRange(3, 8)
		if v < 3 || v > 8 {
			t.Fatalf("IntRange(3,8) returned out-of-range value %d", v)
		}
		seen[v] = true
	}
	for v := 3; v <= 8; v++ {
		if !seen[v] {
			t.Fatalf("IntRange(3,8) never produced %d over 500 draws", v)
		}
	}
}

func TestIntRangeSwapsInvertedBounds(t *testing.T) {
	s := rng.New(3)
	v := s.IntRange(8, 3)
	if v < 3 || v > 8 {
		t.Fatalf("IntRange(8,3) should behave as IntRange(3,8), got %d", v)
	}
}

func TestBoolRespectsProbabilityExtremes(t *testing.T) {
	s := rng.New(11)
	for i := 0; i < 50; i++ {
		if s.Bool(0) {
			t.Fatalf("Bool(0) returned true")
		}
	}
	for i := 0; i < 50; i++ {
		if !s.Bool(1) {
			t.Fatalf("Bool(1) returned false")
		}
	}
}

func TestShuffleIsPermutationAndDeterministic(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	shuffled1 := append([]string(nil), ids...)
	rng.Shuffle(rng.New(99), shuffled1)

	shuffled2 := append([]string(nil), ids...)
	rng.Shuffle(rng.New(99), shuffled2)

	for i := range shuffled1 {
		if shuffled1[i] != shuffled2[i] {
			t.Fatalf("same seed produced different shuffles: %v vs %v", shuffled1, shuffled2)
		}
	}

	seen := make(map[string]bool)
	for _, id := range shuffled1 {
		seen[id] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Fatalf("shuffle lost element %q: result %v", id, shuffled1)
		}
	}
}

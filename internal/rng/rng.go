// Package rng provides the single seeded pseudo-random source owned by
// the Orchestrator. Every stochastic decision in the kernel draws from a
// *Source passed explicitly through the call chain; there is no
// process-global randomness anywhere in this module.
package rng

import "math/rand"

// Source wraps a seeded math/rand generator. It is not safe for
// concurrent use — the core is single-threaded by contract (§5), and the
// only correct way to get determinism across an Orchestrator run is a
// single owner drawing in a fixed visitation order.
type Source struct {
	r *rand.Rand
}

// New returns a Source seeded deterministically from seed.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a pseudo-random number in [0.0, 1.0).
func (s *Source) Float64() float64 {
	return s.r.Float64()
}

// IntRange returns a pseudo-random integer in [lo, hi], inclusive.
func (s *Source) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + s.r.Intn(hi-lo+1)
}

// Bool returns true with probability p.
func (s *Source) Bool(p float64) bool {
	return s.r.Float64() < p
}

// Shuffle performs a Fisher-Yates shuffle of ids in place, using this
// Source, per §4.5's determinism requirement for the "random" scheduling
// mode.
func Shuffle(s *Source, ids []string) {
	for i := len(ids) - 1; i > 0; i-- {
		j := s.r.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}

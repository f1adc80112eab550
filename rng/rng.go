// Package rng provides the single deterministic randomness source the
// reducer and AI route every random decision through, so that a seed plus
// an identical action stream always replays to the same GameState.
package rng

import "math/rand/v2"

// Source wraps a seeded PCG generator. It is never read from package-level
// state; callers hold their own Source and thread it explicitly, which is
// what makes tick() a pure function of (state, actions, source).
type Source struct {
	r *rand.Rand
}

// New builds a Source from a 128-bit seed. Two Sources built from the same
// seed produce identical sequences.
func New(seed1, seed2 uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed1, seed2))}
}

// NewFromInt is a convenience constructor for simple integer seeds (CLI
// flags, test fixtures); it expands the seed into the PCG's two 64-bit
// halves deterministically.
func NewFromInt(seed int64) *Source {
	return New(uint64(seed), uint64(seed)^0x9E3779B97F4A7C15)
}

// IntRange returns a uniform integer in [lo, hi), panicking if hi <= lo.
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		panic("rng: IntRange requires hi > lo")
	}
	return lo + s.r.IntN(hi-lo)
}

// Float64 returns a uniform float in [0, 1).
func (s *Source) Float64() float64 { return s.r.Float64() }

// FloatRange returns a uniform float in [lo, hi).
func (s *Source) FloatRange(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

// Bool returns true with probability p.
func (s *Source) Bool(p float64) bool { return s.r.Float64() < p }

// Shuffle permutes n items via swap in place, Fisher-Yates.
func (s *Source) Shuffle(n int, swap func(i, j int)) { s.r.Shuffle(n, swap) }

// Pick returns a uniformly random index in [0, n).
func (s *Source) Pick(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.IntN(n)
}

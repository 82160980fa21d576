package riff

import (
	"math/rand/v2"
	"time"
)

// Rand is the only source of randomness the generator uses.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewRand returns a seeded source; the same seed replays the same riffs
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ClockSeed is used when no seed is configured
func ClockSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

func choice[T any](r Rand, xs []T) T {
	return xs[r.IntN(len(xs))]
}

// between returns a uniform integer in [lo, hi]
func between(r Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

func chance(r Rand, p float64) bool {
	return r.Float64() < p
}

package match

import (
	randv2 "math/rand/v2"
)

// Rand is the single source of randomness for the engine. Every draw the
// simulation makes (action occurrence, outcome choice, VAR flag, stoppage
// magnitudes, penalty resolution, player shuffles) goes through it, so tests
// can script exact sequences and a seeded match replays deterministically.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

// NewRand returns a seeded PCG-backed Rand.
func NewRand(seed uint64) Rand {
	return randv2.New(randv2.NewPCG(seed, seed))
}

// uniformBetween draws uniformly from [min, max).
func uniformBetween(r Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.Float64()*(max-min)
}

// shuffled returns a fresh uniformly random permutation of items.
func shuffled(r Rand, items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

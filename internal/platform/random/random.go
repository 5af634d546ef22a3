// Package random provides the seedable randomness used by every combat roll.
// Game code depends on the Source interface only, so tests can script rolls.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"
)

// Source is the only randomness the game engine consumes.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// Intn returns a value in [0, n). n must be > 0.
	Intn(n int) int
}

// PRNG wraps math/rand with an explicit seed.
type PRNG struct {
	seed int64
	rng  *rand.Rand
}

// NewSource creates a seeded generator. A zero seed uses the current time.
func NewSource(seed int64) *PRNG {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &PRNG{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the generator was created with.
func (p *PRNG) Seed() int64 {
	return p.seed
}

// Float64 returns a value in [0.0, 1.0).
func (p *PRNG) Float64() float64 {
	return p.rng.Float64()
}

// Intn returns a value in [0, n).
func (p *PRNG) Intn(n int) int {
	return p.rng.Intn(n)
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Uniform draws a float in [lo, hi]. The conversion keeps the product from
// being fused so scripted draws land on the same value on every platform.
func Uniform(src Source, lo, hi float64) float64 {
	return lo + float64((hi-lo)*src.Float64())
}

// Roll reports whether a draw falls under probability p.
func Roll(src Source, p float64) bool {
	return src.Float64() < p
}

// Shuffle permutes n elements in place through swap (Fisher-Yates).
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}

// Package random provides the random sources consumed by the dynamics engine.
//
// Production runs use a seeded PCG generator so that a scenario is
// reproducible from its seed. Tests substitute Fixed to remove all noise and
// event draws.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Source supplies Gaussian and uniform draws.
type Source interface {
	// Gauss returns a normally distributed value with the given mean and
	// standard deviation.
	Gauss(mean, stddev float64) float64

	// Float returns a uniform value in [0, 1).
	Float() float64
}

// Seeded is a Source backed by a PCG generator. It is not safe for
// concurrent use; give each goroutine its own Seeded.
type Seeded struct {
	rng *rand.Rand
}

// NewSeeded creates a Source from a 64-bit seed and a stream selector.
func NewSeeded(seed int64, stream uint64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewPCG(uint64(seed), stream))}
}

// Gauss implements Source.
func (s *Seeded) Gauss(mean, stddev float64) float64 {
	return mean + stddev*s.rng.NormFloat64()
}

// Float implements Source.
func (s *Seeded) Float() float64 {
	return s.rng.Float64()
}

// EventGate is implemented by sources that can switch stochastic events off
// regardless of their probability.
type EventGate interface {
	EventsDisabled() bool
}

// Fixed is a deterministic Source. Gauss always returns the mean and Float
// always returns Uniform. The zero value returns 0 for Float, which fires
// every event with positive probability. Set NoEvents, or use NoNoise, to
// suppress events entirely.
type Fixed struct {
	Uniform  float64
	NoEvents bool
}

// NoNoise returns a Fixed source with zero noise that never fires events.
func NoNoise() Fixed {
	return Fixed{NoEvents: true}
}

// EventsDisabled implements EventGate.
func (f Fixed) EventsDisabled() bool {
	return f.NoEvents
}

// Gauss implements Source.
func (Fixed) Gauss(mean, _ float64) float64 {
	return mean
}

// Float implements Source.
func (f Fixed) Float() float64 {
	return f.Uniform
}

// Factory builds the Source for one branch. Implementations must return an
// independent Source per call so branches can run concurrently.
type Factory func(branchIndex int) Source

// SeededFactory derives one PCG stream per branch from seed. Branch results
// therefore do not depend on scheduling or worker count.
func SeededFactory(seed int64) Factory {
	return func(branchIndex int) Source {
		return NewSeeded(seed, uint64(branchIndex))
	}
}

// FixedFactory returns the same deterministic source for every branch.
func FixedFactory(f Fixed) Factory {
	return func(int) Source { return f }
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1), nil
}

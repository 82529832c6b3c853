package random

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededReproducible(t *testing.T) {
	a := NewSeeded(42, 3)
	b := NewSeeded(42, 3)

	for i := 0; i < 100; i++ {
		require.Equal(t, a.Float(), b.Float(), "draw %d", i)
		require.Equal(t, a.Gauss(0, 1), b.Gauss(0, 1), "draw %d", i)
	}
}

func TestSeededStreamsDiffer(t *testing.T) {
	a := NewSeeded(42, 0)
	b := NewSeeded(42, 1)

	same := 0
	for i := 0; i < 20; i++ {
		if a.Float() == b.Float() {
			same++
		}
	}
	assert.Less(t, same, 20)
}

func TestSeededFloatRange(t *testing.T) {
	s := NewSeeded(7, 0)
	for i := 0; i < 1000; i++ {
		v := s.Float()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestSeededGaussMoments(t *testing.T) {
	s := NewSeeded(11, 0)
	const n = 20000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := s.Gauss(2.0, 0.5)
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	std := math.Sqrt(sumSq/n - mean*mean)

	assert.InDelta(t, 2.0, mean, 0.02)
	assert.InDelta(t, 0.5, std, 0.02)
}

func TestFixed(t *testing.T) {
	f := NoNoise()

	assert.Equal(t, 3.5, f.Gauss(3.5, 10))
	assert.True(t, f.EventsDisabled())

	assert.Equal(t, 0.0, Fixed{}.Float())
	assert.False(t, Fixed{}.EventsDisabled())
	assert.Equal(t, 0.25, Fixed{Uniform: 0.25}.Float())

	var _ EventGate = Fixed{}
	var src Source = NewSeeded(1, 0)
	_, gated := src.(EventGate)
	assert.False(t, gated)
}

func TestSeededFactoryIndependentPerBranch(t *testing.T) {
	factory := SeededFactory(99)

	first := factory(2).Float()
	again := factory(2).Float()
	other := factory(3).Float()

	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)
}

func TestNewSeed(t *testing.T) {
	seed, err := NewSeed()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, seed, int64(0))
}

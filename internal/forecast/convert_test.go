package forecast

import (
	"testing"

	"github.com/nvandessel/futuresim/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	states := Convert(Forecast{StartYear: 2026, Data: []Entry{
		{Year: 2026, Gini: 0.41, CivicTrust: 0.5, AnnualEmissions: 36, ResilienceScore: 0.36, AIInfluence: 0.2},
		{Year: 2027, Gini: 0.42, CivicTrust: 0.48, AnnualEmissions: 35, ResilienceScore: 0.37, AIInfluence: 0.25},
	}})
	require.Len(t, states, 2)

	want := state.State{
		Year: 2026,
		Economy: state.Economy{
			GDP:         1.0,
			Gini:        0.41,
			CivicTrust:  0.5,
			AIInfluence: 0.2,
		},
		Climate: state.Climate{
			AnnualEmissions: 36,
			ResilienceScore: 0.36,
		},
	}
	assert.Equal(t, want, states[0])
	assert.Equal(t, 2027, states[1].Year)
	assert.Zero(t, states[1].Climate.CumulativeEmissions)
	assert.Equal(t, state.Population{}, states[1].Population)
	assert.Equal(t, state.Governance{}, states[1].Governance)
}

func TestConvertClampsOutOfRange(t *testing.T) {
	states := Convert(Forecast{Data: []Entry{
		{Year: 2030, Gini: 0.95, CivicTrust: 1.4, AnnualEmissions: -2, ResilienceScore: 0, AIInfluence: -0.1},
		{Year: 2031, Gini: 0.01, CivicTrust: -1, AnnualEmissions: 80, ResilienceScore: 1.5, AIInfluence: 3},
	}})
	require.Len(t, states, 2)

	hi, lo := states[0], states[1]
	assert.Equal(t, 0.65, hi.Economy.Gini)
	assert.Equal(t, 1.0, hi.Economy.CivicTrust)
	assert.Equal(t, 3.0, hi.Climate.AnnualEmissions)
	assert.Equal(t, 0.05, hi.Climate.ResilienceScore)
	assert.Equal(t, 0.0, hi.Economy.AIInfluence)

	assert.Equal(t, 0.24, lo.Economy.Gini)
	assert.Equal(t, 0.0, lo.Economy.CivicTrust)
	assert.Equal(t, 80.0, lo.Climate.AnnualEmissions)
	assert.Equal(t, 0.92, lo.Climate.ResilienceScore)
	assert.Equal(t, 1.0, lo.Economy.AIInfluence)
}

func TestConvertEmpty(t *testing.T) {
	states := Convert(Forecast{})
	assert.NotNil(t, states)
	assert.Empty(t, states)
}

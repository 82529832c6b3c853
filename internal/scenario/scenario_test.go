package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/futuresim/internal/dynamics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseScenario = `
name: transition_pathways
start_year: 2026
horizon_years: 25
branch_factors:
  - lever: civic_dividend_rate
    options: [0.0, 0.05, 0.10]
  - lever: ai_charter
    options: [false, true]
  - lever: climate_capex_share
    options: [0.15, 0.25]
stochastic_events:
  - name: supply_chain_shock
    probability_per_year: 0.08
  - name: extreme_heat
    probability_per_year: 0.15
metrics:
  - gini
  - civic_trust
  - annual_emissions
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(baseScenario), 0644))

	sc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "transition_pathways", sc.Name)
	assert.Equal(t, 2026, sc.StartYear)
	assert.Equal(t, 25, sc.HorizonYears)
	require.Len(t, sc.Axes, 3)
	assert.Equal(t, "civic_dividend_rate", sc.Axes[0].Lever)
	assert.Equal(t, []any{0.0, 0.05, 0.10}, sc.Axes[0].Options)
	assert.Equal(t, []any{false, true}, sc.Axes[1].Options)
	assert.Equal(t, 12, sc.BranchCount())

	require.Len(t, sc.Events, 2)
	assert.Equal(t, dynamics.Event{Name: "extreme_heat", Probability: 0.15}, sc.Events[1])

	assert.Equal(t, []string{"gini", "civic_trust", "annual_emissions"}, sc.Metrics)
	assert.Empty(t, sc.Lint())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty document", "", ErrMissingName},
		{"missing name", "start_year: 2026\nhorizon_years: 5\n", ErrMissingName},
		{"missing start year", "name: x\nhorizon_years: 5\n", ErrMissingStartYear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Decode(strings.NewReader("name: [unterminated"))
	assert.Error(t, err)
}

func TestDecodeDropsIncompleteEntries(t *testing.T) {
	input := `
name: sparse
start_year: 2030
horizon_years: 3
branch_factors:
  - lever: ai_charter
  - options: [0.1, 0.2]
  - lever: civic_dividend_rate
    options: [0.1]
stochastic_events:
  - probability_per_year: 0.5
  - name: extreme_heat
    probability_per_year: 0.1
`
	sc, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, sc.Axes, 1)
	assert.Equal(t, "civic_dividend_rate", sc.Axes[0].Lever)

	// Unnamed events keep their slot in the draw sequence.
	require.Len(t, sc.Events, 2)
	assert.Equal(t, dynamics.Event{Probability: 0.5}, sc.Events[0])
	assert.Equal(t, "extreme_heat", sc.Events[1].Name)
}

func TestDecodeKeepsEmptyAxis(t *testing.T) {
	input := `
name: blocked
start_year: 2026
horizon_years: 5
branch_factors:
  - lever: civic_dividend_rate
    options: [0.0, 0.1, 0.2]
  - lever: ai_charter
    options: []
`
	sc, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, sc.Axes, 2)
	assert.Empty(t, sc.Axes[1].Options)
	assert.Equal(t, 0, sc.BranchCount())

	var messages []string
	for _, w := range sc.Lint() {
		messages = append(messages, w.Message)
	}
	assert.Contains(t, messages, `axis "ai_charter" has no options, no branches will be simulated`)
}

func TestBranchCountWithoutAxes(t *testing.T) {
	sc := &Scenario{Name: "empty", StartYear: 2026, HorizonYears: 10}
	assert.Equal(t, 0, sc.BranchCount())
}

func TestLint(t *testing.T) {
	sc := &Scenario{
		Name:         "noisy",
		StartYear:    2026,
		HorizonYears: 0,
		Axes: []LeverAxis{
			{Lever: "wealth_tax", Options: []any{0.1}},
			{Lever: "ai_charter", Options: []any{true}},
			{Lever: "ai_charter", Options: []any{false}},
		},
		Events:  []dynamics.Event{{Name: "meteor", Probability: 1.5}, {Probability: 0.2}},
		Metrics: []string{"gini", "happiness"},
	}

	var fields []string
	var messages []string
	for _, w := range sc.Lint() {
		fields = append(fields, w.Field)
		messages = append(messages, w.Message)
	}

	assert.Contains(t, fields, "horizon_years")
	assert.Contains(t, fields, "metrics")
	joined := strings.Join(messages, "\n")
	assert.Contains(t, joined, `unknown lever "wealth_tax"`)
	assert.Contains(t, joined, `lever "ai_charter" declared more than once`)
	assert.Contains(t, joined, `unknown event "meteor"`)
	assert.Contains(t, joined, "outside [0, 1]")
	assert.Contains(t, joined, "unnamed event has no effect")
	assert.Contains(t, joined, `unknown metric "happiness"`)
}

func TestBundledScenarioIsClean(t *testing.T) {
	sc, err := Load(filepath.Join("..", "..", "scenarios", "pathways.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "pathways", sc.Name)
	assert.Equal(t, 12, sc.BranchCount())
	assert.Empty(t, sc.Lint())
}

package simulation

import (
	"github.com/nvandessel/futuresim/internal/state"
)

// Run pairs a branch with its trajectory and final metrics.
type Run struct {
	Branch       Branch             `json:"branch"`
	Trajectory   []state.State      `json:"trajectory"`
	FinalMetrics map[string]float64 `json:"final_metrics"`
}

// Final returns the last state of the trajectory.
func (r Run) Final() (state.State, bool) {
	if len(r.Trajectory) == 0 {
		return state.State{}, false
	}
	return r.Trajectory[len(r.Trajectory)-1], true
}

// Output is a complete simulation result: every run in enumeration order.
type Output struct {
	Scenario string `json:"scenario"`
	Runs     []Run  `json:"runs"`
}

// NewOutput returns an Output with a non-nil, empty run list.
func NewOutput(name string) Output {
	return Output{Scenario: name, Runs: []Run{}}
}

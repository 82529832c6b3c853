package forecast

import (
	"github.com/nvandessel/futuresim/internal/dynamics"
	"github.com/nvandessel/futuresim/internal/state"
)

// Convert maps forecast entries to state snapshots. Fields a forecast does
// not carry are fixed: GDP 1.0, growth 0, cumulative emissions 0, and empty
// population and governance blocks. Forecast values are clamped to the
// bounds the dynamics engine maintains.
func Convert(f Forecast) []state.State {
	cal := dynamics.DefaultCalibration()
	states := make([]state.State, 0, len(f.Data))
	for _, e := range f.Data {
		states = append(states, state.State{
			Year: e.Year,
			Economy: state.Economy{
				GDP:         1.0,
				GDPGrowth:   0.0,
				Gini:        clamp(e.Gini, cal.GiniFloor, cal.GiniCeiling),
				CivicTrust:  clamp(e.CivicTrust, 0, 1),
				AIInfluence: clamp(e.AIInfluence, 0, 1),
			},
			Climate: state.Climate{
				AnnualEmissions:     max(e.AnnualEmissions, cal.EmissionsFloor),
				CumulativeEmissions: 0.0,
				ResilienceScore:     clamp(e.ResilienceScore, cal.ResilienceFloor, cal.ResilienceCeiling),
			},
		})
	}
	return states
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

package dynamics

import (
	"math"

	"github.com/nvandessel/futuresim/internal/random"
	"github.com/nvandessel/futuresim/internal/state"
)

// minGDP keeps the GDP index strictly positive under extreme shocks.
const minGDP = 1e-6

// Engine applies the transition operators with one calibration and one
// random source. An Engine is cheap; build one per branch.
type Engine struct {
	cal Calibration
	rng random.Source
}

// NewEngine creates an Engine. A nil source is replaced by random.NoNoise.
func NewEngine(cal Calibration, rng random.Source) *Engine {
	if rng == nil {
		rng = random.NoNoise()
	}
	return &Engine{cal: cal, rng: rng}
}

// Calibration returns the engine's calibration.
func (e *Engine) Calibration() Calibration {
	return e.cal
}

// Step advances s by one simulated year: year advance, the lever operators
// (civic dividend, AI charter, climate), economy, trust, then events.
// The order is fixed.
func (e *Engine) Step(s state.State, levers Levers, events []Event) state.State {
	s = s.AdvanceYear()
	s = e.CivicDividend(s, levers.CivicDividendRate)
	s = e.AICharter(s, levers.AICharter)
	s = e.EvolveClimate(s, levers.ClimateCapexShare)
	s = e.EvolveEconomy(s)
	s = e.EvolveTrust(s)
	s = e.ApplyEvents(s, events)
	return s
}

func (e *Engine) elapsed(s state.State) float64 {
	return float64(s.Year - e.cal.StartYear)
}

func (e *Engine) clampGini(v float64) float64 {
	return clamp(v, e.cal.GiniFloor, e.cal.GiniCeiling)
}

func (e *Engine) clampResilience(v float64) float64 {
	return clamp(v, e.cal.ResilienceFloor, e.cal.ResilienceCeiling)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

func clampUnit(v float64) float64 {
	return clamp(v, 0, 1)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// logistic is the standard logistic curve L / (1 + e^(-k(t - t0))).
func logistic(t, l, k, t0 float64) float64 {
	return l / (1.0 + math.Exp(-k*(t-t0)))
}

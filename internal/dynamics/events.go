package dynamics

import (
	"github.com/nvandessel/futuresim/internal/random"
	"github.com/nvandessel/futuresim/internal/state"
)

// Event names with a modeled effect.
const (
	EventSupplyChainShock = "supply_chain_shock"
	EventExtremeHeat      = "extreme_heat"
)

// Event is a stochastic event rolled once per simulated year.
type Event struct {
	Name        string  `json:"name" yaml:"name"`
	Probability float64 `json:"probability_per_year" yaml:"probability_per_year"`
}

// effectFunc applies a fired event. It may draw a severity from the engine's
// source.
type effectFunc func(e *Engine, s state.State) state.State

var effects = map[string]effectFunc{
	EventSupplyChainShock: supplyChainShock,
	EventExtremeHeat:      extremeHeat,
}

// KnownEvent reports whether name has a modeled effect.
func KnownEvent(name string) bool {
	_, ok := effects[name]
	return ok
}

// EventNames returns the names of all modeled events.
func EventNames() []string {
	return []string{EventSupplyChainShock, EventExtremeHeat}
}

// ApplyEvents rolls an independent Bernoulli trial for each event in order.
// A fired event with an unknown name has no effect. Nothing fires when the
// source disables events.
func (e *Engine) ApplyEvents(s state.State, events []Event) state.State {
	if gate, ok := e.rng.(random.EventGate); ok && gate.EventsDisabled() {
		return s
	}
	for _, ev := range events {
		if e.rng.Float() >= ev.Probability {
			continue
		}
		if fn, ok := effects[ev.Name]; ok {
			s = fn(e, s)
		}
	}
	return s
}

// supplyChainShock is sized to the 2021-22 chip and shipping crisis.
func supplyChainShock(e *Engine, s state.State) state.State {
	severity := 0.6 + 0.8*e.rng.Float() // 0.6x to 1.4x

	s.Economy.GDPGrowth -= 0.012 * severity
	s.Economy.Gini = e.clampGini(s.Economy.Gini + 0.004*severity)
	s.Economy.CivicTrust = clampUnit(s.Economy.CivicTrust - 0.018*severity)
	s.Climate.ResilienceScore = e.clampResilience(s.Climate.ResilienceScore - 0.012*severity)
	return s
}

// extremeHeat is sized to the 2023 and 2024 record heat seasons. The hit
// grows with cumulative warming and is absorbed partly by resilience.
func extremeHeat(e *Engine, s state.State) state.State {
	severity := 0.5 + e.rng.Float() // 0.5x to 1.5x
	amplifier := 1.0 + 0.3*(s.Climate.CumulativeEmissions/3000.0)
	eff := severity * amplifier
	buffer := 0.4 + 0.6*(1.0-s.Climate.ResilienceScore)

	s.Climate.AnnualEmissions = max(e.cal.EmissionsFloor, s.Climate.AnnualEmissions*(1+0.012*eff))
	s.Climate.ResilienceScore = e.clampResilience(s.Climate.ResilienceScore - 0.018*eff*buffer)
	s.Economy.CivicTrust = clampUnit(s.Economy.CivicTrust - 0.006*eff)
	s.Economy.GDPGrowth -= 0.003 * eff
	return s
}

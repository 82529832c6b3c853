package dynamics

import (
	"math"

	"github.com/nvandessel/futuresim/internal/state"
)

// Climate coefficients.
const (
	capexReference     = 0.25 // share treated as 1.0x investment
	decarbBase         = 0.008
	decarbSlope        = 0.030
	learningGain       = 0.5 // 1.0x to 1.5x over learningHorizon years
	learningHorizon    = 50.0
	transitionOSBonus  = 1.15
	decouplingShare    = 0.6 // emissions decoupled from growth at full maturity
	decouplingHorizon  = 30.0
	growthEmissionRate = 0.15
	emissionsNoise     = 0.003

	resilienceGain     = 0.011
	resilienceSpan     = 0.4
	warmingStressScale = 3500.0 // cumulative Gt around 2.5C of warming
	warmingStressDrag  = 0.003
	resilienceNoise    = 0.003
)

// EvolveClimate advances emissions and resilience under a capex share.
//
// Decarbonization scales with normalized capex and a technology learning
// multiplier, is boosted by Transition OS coordination and by trust, and is
// countered by GDP growth partially decoupled over time. Resilience gains
// follow a square-root curve in capex tapered near the ceiling, and lose
// quadratically with the warming fraction of cumulative emissions.
func (e *Engine) EvolveClimate(s state.State, capexShare Optional[float64]) state.State {
	t := e.elapsed(s)
	capex := clamp(capexShare.Or(DefaultClimateCapexShare), 0, e.cal.MaxCapexShare)
	cl := s.Climate

	norm := capex / capexReference
	baseDecarb := decarbBase + decarbSlope*norm
	learning := 1.0 + learningGain*(t/learningHorizon)
	bonus := 1.0
	if s.Governance.TransitionOSFunded {
		bonus = transitionOSBonus
	}
	effectiveness := 0.6 + 0.4*clampUnit(s.Economy.CivicTrust)
	decarb := baseDecarb * learning * bonus * effectiveness

	decoupling := 1.0 - decouplingShare*min(1.0, t/decouplingHorizon)
	gdpPressure := max(0.0, s.Economy.GDPGrowth) * growthEmissionRate * decoupling

	change := -decarb + gdpPressure + e.rng.Gauss(0, emissionsNoise)
	emissions := max(e.cal.EmissionsFloor, cl.AnnualEmissions*(1.0+change))
	cumulative := cl.CumulativeEmissions + emissions

	gain := resilienceGain * math.Sqrt(norm) * effectiveness
	distToCeiling := max(0.01, e.cal.ResilienceCeiling-cl.ResilienceScore)
	gain *= min(1.0, distToCeiling/resilienceSpan)
	warming := cumulative / warmingStressScale
	drag := warmingStressDrag * warming * warming
	resilience := e.clampResilience(cl.ResilienceScore + gain - drag + e.rng.Gauss(0, resilienceNoise))

	s.Climate.AnnualEmissions = max(e.cal.EmissionsFloor, round(emissions, 4))
	s.Climate.CumulativeEmissions = max(cl.CumulativeEmissions, round(cumulative, 4))
	s.Climate.ResilienceScore = e.clampResilience(round(resilience, 6))
	return s
}

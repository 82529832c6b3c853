package dynamics

import "github.com/nvandessel/futuresim/internal/state"

// Economy coefficients.
const (
	baseGrowth       = 0.028
	maturityDrag     = 0.008 // growth lost over maturityHorizon years
	maturityHorizon  = 50.0
	aiProductivity   = 0.012
	gdpWarmingScale  = 2500.0 // cumulative Gt per unit of the warming proxy
	gdpClimateDrag   = 0.003
	growthNoise      = 0.005
	charterShift     = -2.0 // charter brings the adoption inflection ~2 years forward
	charterLift      = 0.03
	transitionOSLift = 0.015
	aiBaseSpeed      = 0.25
	aiTrustSpeed     = 0.1
	aiNoise          = 0.003
)

// EvolveEconomy advances GDP growth and AI influence.
//
// Growth is a declining secular trend plus an AI productivity term, minus a
// climate drag quadratic in cumulative emissions, all scaled by a trust
// friction factor in [0.5, 1.0], plus business-cycle noise.
//
// AI influence follows a logistic adoption curve whose saturation and
// inflection shift with the charter and Transition OS funding. The state
// moves toward the curve by a trust-dependent fraction each year rather than
// jumping to it.
func (e *Engine) EvolveEconomy(s state.State) state.State {
	t := e.elapsed(s)
	eco := s.Economy
	gov := s.Governance

	trend := baseGrowth - maturityDrag*(t/maturityHorizon)
	aiBoost := aiProductivity * eco.AIInfluence
	warming := s.Climate.CumulativeEmissions / gdpWarmingScale
	climateDrag := gdpClimateDrag * warming * warming
	friction := 0.5 + 0.5*clampUnit(eco.CivicTrust)

	growth := (trend+aiBoost-climateDrag)*friction + e.rng.Gauss(0, growthNoise)
	gdp := max(minGDP, eco.GDP*(1+growth))

	saturation := e.cal.AISaturation
	inflection := e.cal.AIInflection
	if gov.AICharter {
		inflection += charterShift
		saturation += charterLift
	}
	if gov.TransitionOSFunded {
		saturation += transitionOSLift
	}
	target := logistic(t, saturation, e.cal.AIGrowthRate, inflection)

	speed := aiBaseSpeed + aiTrustSpeed*eco.CivicTrust
	ai := eco.AIInfluence + speed*(target-eco.AIInfluence) + e.rng.Gauss(0, aiNoise)

	s.Economy.GDP = gdp
	s.Economy.GDPGrowth = growth
	s.Economy.AIInfluence = clampUnit(ai)
	return s
}

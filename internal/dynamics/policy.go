package dynamics

import "github.com/nvandessel/futuresim/internal/state"

// Civic dividend coefficients.
const (
	aiInequalityBase   = 0.002
	aiInequalitySlope  = 0.004
	dividendEffectBase = 0.001
	// dividendEffectSlope is strong enough that a 10% rate outpaces AI pressure.
	dividendEffectSlope = 0.065
	giniNoise           = 0.0008

	dividendTrustBase  = 0.004
	dividendTrustSlope = 0.040
	dividendTrustSpan  = 0.5
)

// charterTrustBoost scales the transparency dividend of the AI charter.
const charterTrustBoost = 0.006

// CivicDividend applies the redistribution lever.
//
// AI-driven automation pushes GINI up in proportion to AI influence; the
// dividend pushes it down, tapering linearly as GINI nears its floor. Trust
// receives a direct boost proportional to the rate, tapered by the distance
// to full trust. The effective rate is recorded in the governance block.
func (e *Engine) CivicDividend(s state.State, rate Optional[float64]) state.State {
	r := clamp(rate.Or(s.Governance.CivicDividendRate), 0, e.cal.MaxDividendRate)
	eco := s.Economy

	pressure := aiInequalityBase + aiInequalitySlope*eco.AIInfluence
	rawEffect := dividendEffectBase + dividendEffectSlope*r
	distToFloor := max(0.001, eco.Gini-e.cal.GiniFloor) / e.cal.GiniTaperSpan
	effect := rawEffect * min(1.0, distToFloor)
	delta := pressure - effect + e.rng.Gauss(0, giniNoise)
	newGini := e.clampGini(eco.Gini + delta)

	trustBoost := dividendTrustBase + dividendTrustSlope*r
	distToCeiling := max(0.01, 1.0-eco.CivicTrust)
	trustGain := trustBoost * min(1.0, distToCeiling/dividendTrustSpan)

	s.Economy.Gini = newGini
	s.Economy.CivicTrust = clampUnit(eco.CivicTrust + trustGain)
	s.Governance.CivicDividendRate = r
	return s
}

// AICharter applies the transparency and governance lever.
//
// When the charter is off this is a no-op. When on, it funds the Transition
// OS permanently and adds a trust boost proportional to the remaining
// headroom to full trust.
func (e *Engine) AICharter(s state.State, enabled Optional[bool]) state.State {
	if !enabled.Or(s.Governance.AICharter) {
		return s
	}

	boost := charterTrustBoost * max(0.1, 1.0-s.Economy.CivicTrust)

	s.Governance.AICharter = true
	s.Governance.TransitionOSFunded = true
	s.Economy.CivicTrust = clampUnit(s.Economy.CivicTrust + boost)
	return s
}

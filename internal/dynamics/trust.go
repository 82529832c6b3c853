package dynamics

import "github.com/nvandessel/futuresim/internal/state"

// Trust coefficients.
const (
	secularDecline        = -0.003
	secularDeclineCharter = -0.002
	inequalityThreshold   = 0.35
	inequalityDrag        = -0.010
	resilienceThreshold   = 0.30
	resilienceConfidence  = 0.008
	aiBaselineInfluence   = 0.12
	aiDisruptionRate      = 0.3
	charterBuffer         = 0.6
	aiDisruption          = -0.008
	trustNoise            = 0.004
	minTrustTaper         = 0.05
)

// EvolveTrust applies trust's own secular dynamics.
//
// Trust declines slowly (more slowly under the charter), suffers once GINI
// passes a threshold, gains once resilience is visibly improving, and drops
// when AI influence grows faster than governance can absorb. Positive net
// change is tapered by headroom to 1 and negative change by distance to 0.
func (e *Engine) EvolveTrust(s state.State) state.State {
	eco := s.Economy
	charter := s.Governance.AICharter

	secular := secularDecline
	if charter {
		secular = secularDeclineCharter
	}
	ineq := inequalityDrag * max(0.0, eco.Gini-inequalityThreshold)
	confidence := resilienceConfidence * max(0.0, s.Climate.ResilienceScore-resilienceThreshold)

	disruption := 0.0
	if t := s.Year - e.cal.StartYear; t > 0 {
		// Average AI growth since the start, per decade.
		changeRate := max(0.0, eco.AIInfluence-aiBaselineInfluence) / float64(max(1, t)) * 10
		buffer := 0.0
		if charter {
			buffer = charterBuffer
		}
		disruption = aiDisruption * max(0.0, changeRate-aiDisruptionRate-buffer)
	}

	net := secular + ineq + confidence + disruption + e.rng.Gauss(0, trustNoise)
	if net > 0 {
		net *= max(minTrustTaper, 1.0-eco.CivicTrust)
	} else {
		net *= max(minTrustTaper, eco.CivicTrust)
	}

	s.Economy.CivicTrust = clampUnit(eco.CivicTrust + net)
	return s
}

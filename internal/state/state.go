// Package state defines the annual snapshot of a simulated society.
//
// A State is a plain value: copying it copies every field, so operators can
// build successors without aliasing their input. The only transition defined
// here is AdvanceYear; every other change goes through the dynamics package.
package state

// Population holds population size and age shares.
// It is carried through trajectories but has no dynamics.
type Population struct {
	Total      float64 `json:"total"`       // billions
	WorkingAge float64 `json:"working_age"` // share of total
	Youth      float64 `json:"youth"`
	Elderly    float64 `json:"elderly"`
}

// Economy holds output, inequality, trust and AI adoption.
type Economy struct {
	// GDP is a normalized index starting at 1.0. Always strictly positive.
	GDP float64 `json:"gdp"`

	// GDPGrowth is the fractional annual growth rate. May be negative.
	GDPGrowth float64 `json:"gdp_growth"`

	// Gini is the inequality index, bounded by the calibrated floor and ceiling.
	Gini float64 `json:"gini"`

	// CivicTrust is the share of the public trusting institutions, in [0, 1].
	CivicTrust float64 `json:"civic_trust"`

	// AIInfluence is the degree of AI integration in the economy, in [0, 1].
	AIInfluence float64 `json:"ai_influence"`
}

// Climate holds emissions and adaptive capacity.
type Climate struct {
	// AnnualEmissions is in Gt CO2-equivalent, never below the calibrated floor.
	AnnualEmissions float64 `json:"annual_emissions"`

	// CumulativeEmissions is the running sum of emissions. Never decreases.
	CumulativeEmissions float64 `json:"cumulative_emissions"`

	// ResilienceScore is adaptive capacity in [0.05, ceiling].
	ResilienceScore float64 `json:"resilience_score"`
}

// Governance holds lever values and derived governance flags.
type Governance struct {
	AICharter         bool    `json:"ai_charter"`
	CivicDividendRate float64 `json:"civic_dividend_rate"`

	// TransitionOSFunded becomes true once the charter is enabled and is
	// never reset within a trajectory.
	TransitionOSFunded bool `json:"transition_os_funded"`
}

// State is one simulated year.
type State struct {
	Year       int        `json:"year"`
	Population Population `json:"population"`
	Economy    Economy    `json:"economy"`
	Climate    Climate    `json:"climate"`
	Governance Governance `json:"governance"`
}

// AdvanceYear returns a copy of s with the year incremented by one.
func (s State) AdvanceYear() State {
	s.Year++
	return s
}

// Baseline returns the calibrated starting state for startYear.
//
// Values are illustrative anchors for 2026, not live data:
//   - GDP indexed to 1.0 with 2.8% growth (IMF WEO 2025 projection)
//   - GINI 0.39 (World Bank, close to the US/OECD mixed-economy average)
//   - Civic trust 0.42 (OECD Trust Survey 2024)
//   - AI influence 0.12 (early enterprise diffusion)
//   - Emissions 37.4 Gt, cumulative 1680 Gt since pre-industrial (IEA WEO 2024)
//   - Resilience 0.35 (ND-GAIN global average, normalized)
//   - Population shares from UN World Population Prospects 2024
func Baseline(startYear int) State {
	return State{
		Year: startYear,
		Population: Population{
			Total:      8.1,
			WorkingAge: 0.65,
			Youth:      0.26,
			Elderly:    0.09,
		},
		Economy: Economy{
			GDP:         1.0,
			GDPGrowth:   0.028,
			Gini:        0.39,
			CivicTrust:  0.42,
			AIInfluence: 0.12,
		},
		Climate: Climate{
			AnnualEmissions:     37.4,
			CumulativeEmissions: 1680.0,
			ResilienceScore:     0.35,
		},
		Governance: Governance{
			AICharter:          false,
			CivicDividendRate:  0.02,
			TransitionOSFunded: false,
		},
	}
}

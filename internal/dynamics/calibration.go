package dynamics

// DefaultStartYear is the calendar year the calibration is anchored to.
const DefaultStartYear = 2026

// DefaultClimateCapexShare is used when a branch does not set the climate
// capex lever.
const DefaultClimateCapexShare = 0.2

// Calibration holds the configured bounds of the model. Formula coefficients
// live next to the operators that use them.
type Calibration struct {
	// StartYear is the year elapsed time is measured from. The trajectory
	// driver sets it to the scenario start year.
	StartYear int `json:"start_year" yaml:"start_year"`

	// GiniFloor approximates high-redistribution societies (Nordics ~0.25).
	GiniFloor float64 `json:"gini_floor" yaml:"gini_floor"`
	// GiniCeiling approximates extreme inequality (~0.63).
	GiniCeiling float64 `json:"gini_ceiling" yaml:"gini_ceiling"`
	// GiniTaperSpan is the distance above GiniFloor over which the dividend
	// effect tapers linearly to zero.
	GiniTaperSpan float64 `json:"gini_taper_span" yaml:"gini_taper_span"`

	// EmissionsFloor is the heavy-industry and agriculture residual in Gt.
	EmissionsFloor float64 `json:"emissions_floor" yaml:"emissions_floor"`
	// CarbonBudget is the remaining 1.5C budget from the start year in Gt.
	CarbonBudget float64 `json:"carbon_budget" yaml:"carbon_budget"`

	// ResilienceFloor is retained even by collapsed societies.
	ResilienceFloor float64 `json:"resilience_floor" yaml:"resilience_floor"`
	// ResilienceCeiling is the technology-limited maximum.
	ResilienceCeiling float64 `json:"resilience_ceiling" yaml:"resilience_ceiling"`

	// MaxDividendRate bounds the civic dividend lever.
	MaxDividendRate float64 `json:"max_dividend_rate" yaml:"max_dividend_rate"`
	// MaxCapexShare bounds the climate capex lever.
	MaxCapexShare float64 `json:"max_capex_share" yaml:"max_capex_share"`

	// AI adoption logistic: saturation, growth rate and inflection (years
	// after StartYear).
	AISaturation float64 `json:"ai_saturation" yaml:"ai_saturation"`
	AIGrowthRate float64 `json:"ai_growth_rate" yaml:"ai_growth_rate"`
	AIInflection float64 `json:"ai_inflection" yaml:"ai_inflection"`
}

// DefaultCalibration returns the calibrated bounds.
func DefaultCalibration() Calibration {
	return Calibration{
		StartYear:         DefaultStartYear,
		GiniFloor:         0.24,
		GiniCeiling:       0.65,
		GiniTaperSpan:     0.16,
		EmissionsFloor:    3.0,
		CarbonBudget:      250.0,
		ResilienceFloor:   0.05,
		ResilienceCeiling: 0.92,
		MaxDividendRate:   0.5,
		MaxCapexShare:     1.0,
		AISaturation:      0.85,
		AIGrowthRate:      0.11,
		AIInflection:      18,
	}
}

// WithStartYear returns a copy of c anchored to year.
func (c Calibration) WithStartYear(year int) Calibration {
	c.StartYear = year
	return c
}

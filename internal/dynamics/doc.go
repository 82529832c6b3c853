// Package dynamics implements the calibrated annual transition operators.
//
// Each operator maps one State to a successor State. Operators read only the
// fields they depend on, add Gaussian noise to the change they make (never to
// the absolute value) and clamp every bounded field before returning, so no
// sequence of operators can leave a State out of range.
//
// The feedback loops are intentional:
//
//   - inequality erodes trust
//   - low trust slows decarbonization and GDP growth
//   - cumulative warming degrades resilience and output
//   - AI influence pressures inequality
//
// Calibration references (illustrative, not predictive): IEA World Energy
// Outlook 2024 and IPCC AR6 WGIII for emissions, World Bank for GINI, OECD
// Trust in Government 2024 for trust, ND-GAIN and UNEP Adaptation Gap 2024 for
// resilience, Stanford HAI AI Index 2025 for AI adoption. Shock magnitudes are
// sized to the 2008 GFC, 2020 COVID, the 2022 supply-chain crisis and recent
// extreme-weather actuarial data.
//
// The engine never logs and never returns errors.
//
// Usage:
//
//	eng := dynamics.NewEngine(dynamics.DefaultCalibration(), random.NewSeeded(42, 0))
//	s = eng.CivicDividend(s, dynamics.Some(0.10))
//	s = eng.AICharter(s, dynamics.Some(true))
//	s = eng.EvolveClimate(s, dynamics.None[float64]())
package dynamics

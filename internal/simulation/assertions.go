package simulation

import (
	"errors"
	"fmt"

	"github.com/nvandessel/futuresim/internal/dynamics"
	"github.com/nvandessel/futuresim/internal/state"
)

// CheckInvariants verifies the structural guarantees of a finished run:
// trajectory length and year sequence, bounds on every bounded field,
// non-decreasing cumulative emissions and a monotonic Transition OS flag.
// All violations are joined into one error.
func CheckInvariants(run Run, startYear, horizon int, cal dynamics.Calibration) error {
	var errs []error

	if len(run.Trajectory) != max(horizon, 0) {
		errs = append(errs, fmt.Errorf("trajectory has %d states, want %d", len(run.Trajectory), horizon))
	}

	for i, s := range run.Trajectory {
		if want := startYear + 1 + i; s.Year != want {
			errs = append(errs, fmt.Errorf("state %d: year %d, want %d", i, s.Year, want))
		}
		errs = append(errs, checkBounds(i, s, cal)...)

		if i == 0 {
			continue
		}
		prev := run.Trajectory[i-1]
		if s.Climate.CumulativeEmissions < prev.Climate.CumulativeEmissions {
			errs = append(errs, fmt.Errorf("state %d: cumulative emissions fell from %.4f to %.4f",
				i, prev.Climate.CumulativeEmissions, s.Climate.CumulativeEmissions))
		}
		if prev.Governance.TransitionOSFunded && !s.Governance.TransitionOSFunded {
			errs = append(errs, fmt.Errorf("state %d: transition OS funding was reset", i))
		}
	}

	return errors.Join(errs...)
}

func checkBounds(i int, s state.State, cal dynamics.Calibration) []error {
	var errs []error
	check := func(field string, v, lo, hi float64) {
		if v < lo || v > hi {
			errs = append(errs, fmt.Errorf("state %d: %s %.6f outside [%g, %g]", i, field, v, lo, hi))
		}
	}

	check("gini", s.Economy.Gini, cal.GiniFloor, cal.GiniCeiling)
	check("civic_trust", s.Economy.CivicTrust, 0, 1)
	check("ai_influence", s.Economy.AIInfluence, 0, 1)
	check("resilience_score", s.Climate.ResilienceScore, cal.ResilienceFloor, cal.ResilienceCeiling)
	if s.Climate.AnnualEmissions < cal.EmissionsFloor {
		errs = append(errs, fmt.Errorf("state %d: annual_emissions %.4f below floor %g", i, s.Climate.AnnualEmissions, cal.EmissionsFloor))
	}
	if s.Economy.GDP <= 0 {
		errs = append(errs, fmt.Errorf("state %d: gdp %.6f not positive", i, s.Economy.GDP))
	}
	return errs
}

package forecast

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nvandessel/futuresim/internal/logging"
	"github.com/nvandessel/futuresim/internal/metrics"
	"github.com/nvandessel/futuresim/internal/simulation"
)

// OverrideScenario names outputs produced by Override.
const OverrideScenario = "ai_override"

// Override replaces every trajectory in base with a forecast for the same
// branch. Runs are forecast in order and the first failure aborts. Final
// metrics carry every known metric of the last forecast year.
func Override(ctx context.Context, f Forecaster, base simulation.Output, req Request, logger *slog.Logger) (simulation.Output, error) {
	if !f.Available() {
		return simulation.Output{}, ErrUnavailable
	}
	if logger == nil {
		logger = logging.Discard()
	}

	out := simulation.NewOutput(OverrideScenario)
	all := metrics.Set(metrics.All())
	total := len(base.Runs)

	for i, run := range base.Runs {
		logger.Info("generating forecast", "branch", i+1, "of", total, "levers", run.Branch.String())

		r := req
		r.Levers = run.Branch.Map()
		fc, err := f.Forecast(ctx, r)
		if err != nil {
			return simulation.Output{}, fmt.Errorf("forecasting branch %d (%s): %w", i+1, run.Branch, err)
		}
		if len(fc.Data) == 0 {
			return simulation.Output{}, fmt.Errorf("forecasting branch %d (%s): %w", i+1, run.Branch, ErrEmptyForecast)
		}

		trajectory := Convert(*fc)
		out.Runs = append(out.Runs, simulation.Run{
			Branch:       run.Branch,
			Trajectory:   trajectory,
			FinalMetrics: all.Extract(trajectory[len(trajectory)-1]),
		})
		logger.Debug("forecast parsed", "branch", i+1, "years", len(trajectory))
	}
	return out, nil
}

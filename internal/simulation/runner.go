package simulation

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/nvandessel/futuresim/internal/dynamics"
	"github.com/nvandessel/futuresim/internal/logging"
	"github.com/nvandessel/futuresim/internal/metrics"
	"github.com/nvandessel/futuresim/internal/random"
	"github.com/nvandessel/futuresim/internal/scenario"
	"github.com/nvandessel/futuresim/internal/state"
	"golang.org/x/sync/errgroup"
)

// Config configures a Runner.
type Config struct {
	// Workers bounds how many branches run at once. Zero or less means
	// GOMAXPROCS.
	Workers int

	// Calibration is the model calibration. Its StartYear is replaced by the
	// scenario start year. Nil means dynamics.DefaultCalibration.
	Calibration *dynamics.Calibration

	// Random builds each branch's source. Nil means zero noise and no events.
	Random random.Factory

	// Logger receives per-branch debug lines. Nil discards.
	Logger *slog.Logger

	// Journal records one event per finished branch. Nil disables.
	Journal *logging.Journal
}

// Runner drives branches through the dynamics engine.
type Runner struct {
	workers int
	cal     dynamics.Calibration
	random  random.Factory
	logger  *slog.Logger
	journal *logging.Journal
}

// NewRunner creates a Runner from cfg, applying defaults.
func NewRunner(cfg Config) *Runner {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	cal := dynamics.DefaultCalibration()
	if cfg.Calibration != nil {
		cal = *cfg.Calibration
	}
	factory := cfg.Random
	if factory == nil {
		factory = random.FixedFactory(random.NoNoise())
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{
		workers: workers,
		cal:     cal,
		random:  factory,
		logger:  logger,
		journal: cfg.Journal,
	}
}

// Run simulates every branch of sc from baseline.
//
// A non-positive horizon or a scenario without branches produces an Output
// with no runs. The only error is ctx's, when it is cancelled before all
// branches finish.
func (r *Runner) Run(ctx context.Context, sc *scenario.Scenario, baseline state.State) (Output, error) {
	out := NewOutput(sc.Name)
	if sc.HorizonYears <= 0 {
		return out, nil
	}
	branches := Enumerate(sc.Axes)
	if len(branches) == 0 {
		return out, nil
	}

	cal := r.cal.WithStartYear(sc.StartYear)
	events := sc.Events
	set := metrics.Resolve(sc.Metrics)

	start := time.Now()
	runs := make([]Run, len(branches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, b := range branches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			eng := dynamics.NewEngine(cal, r.random(i))
			runs[i] = Simulate(eng, baseline, b, sc.HorizonYears, events, set)
			r.recordBranch(sc.Name, i, runs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	out.Runs = runs
	r.logger.Debug("scenario simulated",
		"scenario", sc.Name,
		"branches", len(runs),
		"horizon", sc.HorizonYears,
		"elapsed", time.Since(start))
	return out, nil
}

// Simulate runs one branch for horizon years and extracts the final metrics.
func Simulate(eng *dynamics.Engine, baseline state.State, b Branch, horizon int, events []dynamics.Event, set metrics.Set) Run {
	levers := b.Levers()
	trajectory := make([]state.State, 0, max(horizon, 0))

	s := baseline
	for range horizon {
		s = eng.Step(s, levers, events)
		trajectory = append(trajectory, s)
	}

	final := map[string]float64{}
	if len(trajectory) > 0 {
		final = set.Extract(trajectory[len(trajectory)-1])
	}
	return Run{Branch: b, Trajectory: trajectory, FinalMetrics: final}
}

func (r *Runner) recordBranch(name string, index int, run Run) {
	r.logger.Debug("branch simulated",
		"scenario", name,
		"index", index,
		"branch", run.Branch.String(),
		"years", len(run.Trajectory))

	if r.journal == nil {
		return
	}
	fields := map[string]any{
		"scenario": name,
		"index":    index,
		"branch":   run.Branch,
		"metrics":  run.FinalMetrics,
	}
	if final, ok := run.Final(); ok {
		fields["final_year"] = final.Year
	}
	r.journal.Record("branch_simulated", fields)
}

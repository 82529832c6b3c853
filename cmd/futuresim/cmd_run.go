package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/nvandessel/futuresim/internal/dynamics"
	"github.com/nvandessel/futuresim/internal/logging"
	"github.com/nvandessel/futuresim/internal/random"
	"github.com/nvandessel/futuresim/internal/scenario"
	"github.com/nvandessel/futuresim/internal/simulation"
	"github.com/nvandessel/futuresim/internal/state"
	"github.com/nvandessel/futuresim/internal/store"
	"github.com/spf13/cobra"
)

// latestFile is the default JSON output name inside the output directory.
const latestFile = "latest.json"

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Simulate every branch of a scenario",
		Long: `Simulate every combination of the scenario's lever options over its
horizon and write the trajectories.

Without --seed a fresh seed is drawn and reported, so any run can be
reproduced. --deterministic removes noise and stochastic events.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			applyRunFlags(cmd, env)

			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			for _, w := range sc.Lint() {
				env.logger.Warn("scenario warning", "field", w.Field, "message", w.Message)
			}

			format, err := store.ParseFormat(env.cfg.Output.Format)
			if err != nil {
				return err
			}

			seed, factory, err := randomFactory(env)
			if err != nil {
				return err
			}

			journal := logging.OpenJournal(env.cfg.Output.Dir, env.cfg.Logging.Level)
			defer journal.Close()

			runner := simulation.NewRunner(simulation.Config{
				Workers: env.cfg.Simulation.Workers,
				Random:  factory,
				Logger:  env.logger,
				Journal: journal,
			})
			env.logger.Info("simulating scenario",
				"scenario", sc.Name,
				"branches", sc.BranchCount(),
				"horizon", sc.HorizonYears,
				"seed", seed,
				"deterministic", env.cfg.Simulation.Deterministic)

			out, err := runner.Run(cmd.Context(), sc, state.Baseline(sc.StartYear))
			if err != nil {
				return fmt.Errorf("simulating scenario: %w", err)
			}

			if env.cfg.Simulation.Autocheck {
				if err := checkRuns(out, sc); err != nil {
					return err
				}
			}

			path, err := outputPath(cmd, env, format)
			if err != nil {
				return err
			}
			w, err := store.Open(format, path)
			if err != nil {
				return err
			}
			defer w.Close()

			ref, err := w.WriteOutput(cmd.Context(), out)
			if err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			if env.jsonOut {
				result := map[string]any{
					"scenario": out.Scenario,
					"runs":     len(out.Runs),
					"path":     path,
					"format":   string(format),
					"seed":     seed,
				}
				if format == store.FormatSQLite {
					result["batch"] = ref
				}
				return writeJSON(cmd, result)
			}

			if format == store.FormatSQLite {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d runs to %s (batch %s)\n", len(out.Runs), path, ref)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d runs to %s\n", len(out.Runs), path)
			}
			return nil
		},
	}

	cmd.Flags().String("output", "", "Output path (default <output dir>/latest.json, or the history database for sqlite)")
	cmd.Flags().String("format", "", "Output format: json or sqlite")
	cmd.Flags().Int64("seed", 0, "Random seed (0 draws a fresh one)")
	cmd.Flags().Bool("deterministic", false, "Disable noise and stochastic events")
	cmd.Flags().Int("workers", 0, "Concurrent branches (0 = one per CPU)")
	cmd.Flags().Bool("check", false, "Verify trajectory invariants before writing")

	return cmd
}

// applyRunFlags lets explicitly set flags override configuration.
func applyRunFlags(cmd *cobra.Command, env *cliEnv) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		env.cfg.Output.Format, _ = flags.GetString("format")
	}
	if flags.Changed("seed") {
		env.cfg.Simulation.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("deterministic") {
		env.cfg.Simulation.Deterministic, _ = flags.GetBool("deterministic")
	}
	if flags.Changed("workers") {
		env.cfg.Simulation.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("check") {
		env.cfg.Simulation.Autocheck, _ = flags.GetBool("check")
	}
}

// randomFactory picks the per-branch random sources. The returned seed is
// zero for deterministic runs.
func randomFactory(env *cliEnv) (int64, random.Factory, error) {
	if env.cfg.Simulation.Deterministic {
		return 0, random.FixedFactory(random.NoNoise()), nil
	}
	seed := env.cfg.Simulation.Seed
	if seed == 0 {
		var err error
		seed, err = random.NewSeed()
		if err != nil {
			return 0, nil, err
		}
	}
	return seed, random.SeededFactory(seed), nil
}

func outputPath(cmd *cobra.Command, env *cliEnv, format store.Format) (string, error) {
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		return path, nil
	}
	if format == store.FormatSQLite {
		return historyPath(env)
	}
	return filepath.Join(env.cfg.Output.Dir, latestFile), nil
}

func historyPath(env *cliEnv) (string, error) {
	if env.cfg.Output.History != "" {
		return env.cfg.Output.History, nil
	}
	return store.DefaultHistoryPath()
}

func checkRuns(out simulation.Output, sc *scenario.Scenario) error {
	cal := dynamics.DefaultCalibration().WithStartYear(sc.StartYear)
	var errs []error
	for i, r := range out.Runs {
		if err := simulation.CheckInvariants(r, sc.StartYear, sc.HorizonYears, cal); err != nil {
			errs = append(errs, fmt.Errorf("run %d (%s): %w", i, r.Branch, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invariant check failed: %w", err)
	}
	return nil
}

package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/nvandessel/futuresim/internal/config"
	"github.com/nvandessel/futuresim/internal/forecast"
	"github.com/nvandessel/futuresim/internal/logging"
	"github.com/nvandessel/futuresim/internal/store"
	"github.com/spf13/cobra"
)

// overrideFile is the default forecast output name inside the output directory.
const overrideFile = "ai_override.json"

// newForecaster builds the forecast source. Tests replace it.
var newForecaster = func(cfg config.LLMConfig, logger *slog.Logger, journal *logging.Journal) forecast.Forecaster {
	return forecast.NewOpenAIForecaster(forecast.Config{
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.BaseURL,
		Model:             cfg.Model,
		Timeout:           cfg.Timeout,
		MaxRetries:        cfg.MaxRetries,
		RetryDelay:        cfg.RetryDelay,
		RequestsPerMinute: cfg.RequestsPerMinute,
		Temperature:       &cfg.Temperature,
		MaxTokens:         cfg.MaxTokens,
		Logger:            logger,
		Journal:           journal,
	})
}

func newForecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast <runs.json>",
		Short: "Replace simulated trajectories with model forecasts",
		Long: `Read a previous run file and, for each branch, ask the configured
language model for yearly projections under the same lever settings.

The result has the simulator's output format under the scenario name
"ai_override". Requires llm.provider=openai and an API key (OPENAI_API_KEY).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			if !env.cfg.LLM.Enabled() {
				return fmt.Errorf("forecasting is disabled (llm.provider is empty): %w", forecast.ErrUnavailable)
			}

			startYear, _ := cmd.Flags().GetInt("start-year")
			horizon, _ := cmd.Flags().GetInt("horizon")
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = filepath.Join(env.cfg.Output.Dir, overrideFile)
			}
			if horizon <= 0 {
				return fmt.Errorf("horizon must be positive, got %d", horizon)
			}

			journal := logging.OpenJournal(env.cfg.Output.Dir, env.cfg.Logging.Level)
			defer journal.Close()

			f := newForecaster(env.cfg.LLM, env.logger, journal)
			if !f.Available() {
				return fmt.Errorf("OPENAI_API_KEY not set: %w", forecast.ErrUnavailable)
			}

			base, err := store.ReadJSON(args[0])
			if err != nil {
				return err
			}

			env.logger.Debug("forecasting", "llm", env.cfg.LLM.String(), "branches", len(base.Runs))
			out, err := forecast.Override(cmd.Context(), f, base, forecast.Request{
				StartYear: startYear,
				Horizon:   horizon,
			}, env.logger)
			if err != nil {
				return err
			}

			if err := (&store.JSONWriter{}).Write(output, out); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			if env.jsonOut {
				return writeJSON(cmd, map[string]any{
					"scenario": out.Scenario,
					"runs":     len(out.Runs),
					"path":     output,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d runs to %s\n", len(out.Runs), output)
			return nil
		},
	}

	cmd.Flags().String("output", "", "Output path (default <output dir>/ai_override.json)")
	cmd.Flags().Int("start-year", forecast.DefaultStartYear, "First forecast year")
	cmd.Flags().Int("horizon", forecast.DefaultHorizon, "Years to forecast")
	return cmd
}

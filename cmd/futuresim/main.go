package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signalContext(context.Background())
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "futuresim",
		Short: "Branching policy scenario simulator",
		Long: `futuresim projects a society year by year under every combination of
policy levers a scenario declares.

Each branch starts from the calibrated baseline and evolves economy,
inequality, civic trust, AI influence and climate state, with optional
stochastic shocks. Results are written as JSON or archived in SQLite.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newBranchesCmd(),
		newValidateCmd(),
		newForecastCmd(),
		newMetricsCmd(),
		newHistoryCmd(),
	)
	return rootCmd
}

func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool("json", false, "Output as JSON")
	cmd.PersistentFlags().String("config", "", "Config file (default ~/.futuresim/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace")
}

// signalContext returns a context cancelled on the first interrupt.
func signalContext(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	notifySignals(ch)

	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

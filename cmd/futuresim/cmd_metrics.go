package main

import (
	"fmt"

	"github.com/nvandessel/futuresim/internal/metrics"
	"github.com/spf13/cobra"
)

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List metric names a scenario may request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			names := metrics.Names()
			if jsonOut {
				return writeJSON(cmd, map[string]any{"metrics": names})
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

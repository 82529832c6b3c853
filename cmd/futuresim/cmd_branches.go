package main

import (
	"fmt"

	"github.com/nvandessel/futuresim/internal/scenario"
	"github.com/nvandessel/futuresim/internal/simulation"
	"github.com/spf13/cobra"
)

func newBranchesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branches <scenario.yaml>",
		Short: "List the branches a scenario enumerates, without simulating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			branches := simulation.Enumerate(sc.Axes)

			if jsonOut {
				if branches == nil {
					branches = []simulation.Branch{}
				}
				return writeJSON(cmd, map[string]any{
					"scenario": sc.Name,
					"count":    len(branches),
					"branches": branches,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d branches\n", sc.Name, len(branches))
			for i, b := range branches {
				fmt.Fprintf(out, "  %3d  %s\n", i, b)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/nvandessel/futuresim/internal/scenario"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Check a scenario file for problems",
		Long: `Load a scenario and report content the simulator would ignore:
unknown levers, unknown events, unknown metrics, out-of-range
probabilities and degenerate horizons.

Structural errors (malformed YAML, missing name or start_year) fail the
command. Warnings fail it only with --strict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			strict, _ := cmd.Flags().GetBool("strict")

			sc, err := scenario.Load(args[0])
			if err != nil {
				if jsonOut {
					_ = writeJSON(cmd, map[string]any{"valid": false, "error": err.Error()})
				}
				return err
			}
			warnings := sc.Lint()

			if jsonOut {
				if warnings == nil {
					warnings = []scenario.Warning{}
				}
				if err := writeJSON(cmd, map[string]any{
					"valid":    true,
					"scenario": sc.Name,
					"branches": sc.BranchCount(),
					"horizon":  sc.HorizonYears,
					"warnings": warnings,
				}); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, w := range warnings {
					fmt.Fprintf(out, "warning: %s: %s\n", w.Field, w.Message)
				}
				fmt.Fprintf(out, "%s: %d branches over %d years, %d warnings\n",
					sc.Name, sc.BranchCount(), sc.HorizonYears, len(warnings))
			}

			if strict && len(warnings) > 0 {
				return fmt.Errorf("scenario has %d warnings", len(warnings))
			}
			return nil
		},
	}
	cmd.Flags().Bool("strict", false, "Treat warnings as errors")
	return cmd
}

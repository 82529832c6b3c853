package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/nvandessel/futuresim/internal/store"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List simulation batches archived in SQLite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, jsonOut, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			batches, err := db.ListBatches(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"database": db.Path(),
					"batches":  batches,
				})
			}
			if len(batches) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No batches in %s\n", db.Path())
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BATCH\tSCENARIO\tRUNS\tCREATED")
			for _, b := range batches {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", b.ID, b.Scenario, b.Runs, b.CreatedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
	cmd.PersistentFlags().String("db", "", "History database (default ~/.futuresim/history.db)")

	cmd.AddCommand(newHistoryExportCmd(), newHistoryDeleteCmd())
	return cmd
}

func newHistoryExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <batch-id>",
		Short: "Write an archived batch as a JSON run file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, jsonOut, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			out, err := db.LoadOutput(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			path, _ := cmd.Flags().GetString("output")
			if err := (&store.JSONWriter{}).Write(path, out); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{"batch": args[0], "runs": len(out.Runs), "path": path})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d runs to %s\n", len(out.Runs), path)
			return nil
		},
	}
	cmd.Flags().String("output", "runs/export.json", "Output path")
	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <batch-id>",
		Short: "Remove an archived batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, jsonOut, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.DeleteBatch(cmd.Context(), args[0]); err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, map[string]any{"deleted": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted batch %s\n", args[0])
			return nil
		},
	}
}

// openHistory opens the archive named by --db, falling back to the configured
// history path.
func openHistory(cmd *cobra.Command) (*store.SQLiteStore, bool, error) {
	env, err := loadEnv(cmd)
	if err != nil {
		return nil, false, err
	}
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path, err = historyPath(env)
		if err != nil {
			return nil, false, err
		}
	}
	db, err := store.OpenSQLite(path)
	if err != nil {
		return nil, false, err
	}
	return db, env.jsonOut, nil
}

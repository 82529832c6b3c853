package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nvandessel/futuresim/internal/config"
	"github.com/nvandessel/futuresim/internal/logging"
	"github.com/spf13/cobra"
)

// cliEnv is the resolved configuration shared by every command.
type cliEnv struct {
	cfg     *config.Config
	logger  *slog.Logger
	jsonOut bool
}

// loadEnv loads configuration, applies the global flags and builds the
// stderr logger.
func loadEnv(cmd *cobra.Command) (*cliEnv, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPath(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	return &cliEnv{
		cfg:     cfg,
		logger:  logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()),
		jsonOut: jsonOut,
	}, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

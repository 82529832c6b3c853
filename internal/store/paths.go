package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// HistoryFile is the archive file name inside the futuresim home directory.
const HistoryFile = "history.db"

// HomePath returns the per-user futuresim directory.
// On Unix: ~/.futuresim
// On Windows: %USERPROFILE%\.futuresim
func HomePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".futuresim"), nil
}

// DefaultHistoryPath returns ~/.futuresim/history.db.
func DefaultHistoryPath() (string, error) {
	home, err := HomePath()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, HistoryFile), nil
}

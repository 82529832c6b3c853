// Package store persists simulation outputs as JSON files or in a SQLite
// archive.
package store

import (
	"context"
	"fmt"

	"github.com/nvandessel/futuresim/internal/simulation"
)

// Format names an output backend.
type Format string

const (
	// FormatJSON writes one indented JSON document per output.
	FormatJSON Format = "json"
	// FormatSQLite appends each output as a batch in a SQLite database.
	FormatSQLite Format = "sqlite"
)

// ParseFormat validates a format name. The empty string means FormatJSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatSQLite:
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: json, sqlite)", s)
	}
}

// Writer persists simulation outputs.
type Writer interface {
	// WriteOutput stores out and returns where it went: a file path or a
	// batch ID.
	WriteOutput(ctx context.Context, out simulation.Output) (string, error)

	// Close releases resources held by the writer.
	Close() error
}

// Open returns the writer for format rooted at path.
func Open(format Format, path string) (Writer, error) {
	switch format {
	case FormatSQLite:
		return OpenSQLite(path)
	default:
		return &JSONWriter{Path: path}, nil
	}
}

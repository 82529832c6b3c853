package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nvandessel/futuresim/internal/simulation"
)

// JSONWriter writes outputs as indented JSON to Path.
type JSONWriter struct {
	Path string
}

// WriteOutput implements Writer. It returns the file path.
func (w *JSONWriter) WriteOutput(ctx context.Context, out simulation.Output) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := w.Write(w.Path, out); err != nil {
		return "", err
	}
	return w.Path, nil
}

// Write serializes out to path, creating parent directories. The file is
// written to a temporary sibling and renamed into place.
func (w *JSONWriter) Write(path string, out simulation.Output) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	if out.Runs == nil {
		out.Runs = []simulation.Run{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// Close implements Writer.
func (w *JSONWriter) Close() error { return nil }

// ReadJSON loads an output previously written by JSONWriter.
func ReadJSON(path string) (simulation.Output, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return simulation.Output{}, fmt.Errorf("reading output file: %w", err)
	}

	var out simulation.Output
	if err := json.Unmarshal(data, &out); err != nil {
		return simulation.Output{}, fmt.Errorf("parsing output file %s: %w", path, err)
	}
	if out.Runs == nil {
		out.Runs = []simulation.Run{}
	}
	return out, nil
}

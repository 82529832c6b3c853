// Package logging provides leveled logging and the run journal for futuresim.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A Journal of structured JSONL events (journal.jsonl in the output dir)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug. At this level forecast
// prompts and responses are included in logs and the journal.
const LevelTrace = slog.LevelDebug - 4

// JournalFile is the journal's file name inside its directory.
const JournalFile = "journal.jsonl"

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing text to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, handlerOptions(level)))
}

// NewJSONLogger creates a leveled slog.Logger writing JSON lines to w.
func NewJSONLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, handlerOptions(level)))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func handlerOptions(level string) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
}

// Journal appends structured events to a JSONL file. It is safe for
// concurrent use. A nil Journal is valid; every method is a no-op.
type Journal struct {
	mu    sync.Mutex
	file  *os.File
	trace bool
}

// OpenJournal opens dir/journal.jsonl for append.
// At "info" level it returns nil and creates nothing. It also returns nil if
// the file cannot be opened, since the journal is diagnostic only.
func OpenJournal(dir string, level string) *Journal {
	lvl := ParseLevel(level)
	if lvl == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	f, err := os.OpenFile(filepath.Join(dir, JournalFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &Journal{file: f, trace: lvl <= LevelTrace}
}

// Tracing reports whether the journal was opened at trace level.
func (j *Journal) Tracing() bool {
	return j != nil && j.trace
}

// Record writes one event line with the given fields. "event" and "time"
// are added; the caller's map is not mutated.
func (j *Journal) Record(event string, fields map[string]any) {
	if j == nil {
		return
	}

	entry := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		entry[k] = v
	}
	entry["event"] = event
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return
	}
	_, _ = j.file.Write(data)
}

// Close closes the underlying file.
func (j *Journal) Close() {
	if j == nil {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file != nil {
		j.file.Close()
		j.file = nil
	}
}

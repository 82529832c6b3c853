package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"info", "info", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"trace", "trace", LevelTrace},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"mixed case Trace", "Trace", LevelTrace},
		{"unknown defaults to info", "verbose", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level      string
		logAtDebug bool
	}{
		{"info", false},
		{"debug", true},
		{"trace", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)

			logger.Debug("debug message")
			assert.Equal(t, tt.logAtDebug, strings.Contains(buf.String(), "debug message"))

			buf.Reset()
			logger.Info("info message")
			assert.Contains(t, buf.String(), "info message")
		})
	}
}

func TestNewLogger_TraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)

	logger.Log(t.Context(), LevelTrace, "prompt")
	assert.Contains(t, buf.String(), "level=TRACE")
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger("info", &buf).Info("branch done", "index", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "branch done", entry["msg"])
	assert.Equal(t, 3.0, entry["index"])
}

func TestOpenJournal_InfoLevel(t *testing.T) {
	dir := t.TempDir()
	j := OpenJournal(dir, "info")
	assert.Nil(t, j)

	// A nil journal is still usable.
	j.Record("branch_done", map[string]any{"index": 0})
	j.Close()
	assert.False(t, j.Tracing())

	_, err := os.Stat(filepath.Join(dir, JournalFile))
	assert.True(t, os.IsNotExist(err))
}

func TestJournal_Record(t *testing.T) {
	dir := t.TempDir()
	j := OpenJournal(dir, "debug")
	require.NotNil(t, j)
	defer j.Close()
	assert.False(t, j.Tracing())

	fields := map[string]any{"index": 2, "gini": 0.31}
	j.Record("branch_done", fields)
	j.Record("run_done", nil)

	_, mutated := fields["time"]
	assert.False(t, mutated, "caller map must not be mutated")

	data, err := os.ReadFile(filepath.Join(dir, JournalFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "branch_done", first["event"])
	assert.Equal(t, 0.31, first["gini"])
	assert.Contains(t, first, "time")
}

func TestJournal_TraceLevel(t *testing.T) {
	j := OpenJournal(t.TempDir(), "trace")
	require.NotNil(t, j)
	defer j.Close()
	assert.True(t, j.Tracing())
}

func TestJournal_ConcurrentRecord(t *testing.T) {
	dir := t.TempDir()
	j := OpenJournal(dir, "debug")
	require.NotNil(t, j)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			j.Record("branch_done", map[string]any{"index": i})
		}(i)
	}
	wg.Wait()
	j.Close()

	data, err := os.ReadFile(filepath.Join(dir, JournalFile))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 20)
}

func TestJournal_RecordAfterClose(t *testing.T) {
	j := OpenJournal(t.TempDir(), "debug")
	j.Close()
	j.Record("after_close", nil)
}

func TestOpenJournal_CreatesDir(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "runs", "nested")
	j := OpenJournal(nested, "debug")
	require.NotNil(t, j)
	defer j.Close()

	info, err := os.Stat(filepath.Join(nested, JournalFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

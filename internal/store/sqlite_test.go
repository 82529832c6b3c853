package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nvandessel/futuresim/internal/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "archive", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenSQLiteCreatesDatabase(t *testing.T) {
	s := openTestStore(t)
	_, err := os.Stat(s.Path())
	assert.NoError(t, err)

	version, err := getSchemaVersion(context.Background(), s.db)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}

func TestInitSchemaVersions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Reinitialising a current database is a no-op.
	require.NoError(t, InitSchema(ctx, s.db))
	version, err := getSchemaVersion(ctx, s.db)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`, SchemaVersion+1)
	require.NoError(t, err)
	err = InitSchema(ctx, s.db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("")
	assert.Error(t, err)
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	out := sampleOutput(t)

	id, err := s.SaveOutput(ctx, out)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	loaded, err := s.LoadOutput(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, out, loaded)
}

func TestSQLiteEmptyOutput(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.WriteOutput(ctx, simulation.NewOutput("empty"))
	require.NoError(t, err)

	loaded, err := s.LoadOutput(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, simulation.NewOutput("empty"), loaded)
}

func TestSQLiteReopenKeepsBatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	id, err := s.SaveOutput(ctx, sampleOutput(t))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	loaded, err := s.LoadOutput(ctx, id)
	require.NoError(t, err)
	assert.Len(t, loaded.Runs, 4)
}

func TestSQLiteListBatchesNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i, name := range []string{"first", "second", "third"} {
		s.now = func() time.Time { return base.Add(time.Duration(i) * 150 * time.Millisecond) }
		out := simulation.NewOutput(name)
		id, err := s.SaveOutput(ctx, out)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	batches, err := s.ListBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Equal(t, ids[2], batches[0].ID)
	assert.Equal(t, "third", batches[0].Scenario)
	assert.Equal(t, "first", batches[2].Scenario)
	assert.True(t, batches[2].CreatedAt.Equal(base))
}

func TestSQLiteListBatchesEmpty(t *testing.T) {
	s := openTestStore(t)
	batches, err := s.ListBatches(context.Background())
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestSQLiteUnknownBatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.LoadOutput(ctx, "no-such-batch")
	assert.ErrorIs(t, err, ErrBatchNotFound)

	assert.ErrorIs(t, s.DeleteBatch(ctx, "no-such-batch"), ErrBatchNotFound)
}

func TestSQLiteDeleteBatchCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SaveOutput(ctx, sampleOutput(t))
	require.NoError(t, err)
	require.NoError(t, s.DeleteBatch(ctx, id))

	for _, table := range []string{"runs", "states", "final_metrics"} {
		var n int
		require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Zero(t, n, table)
	}
	assert.NoError(t, ValidateIntegrity(ctx, s.db))
}

func TestSQLiteSaveCancelled(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.SaveOutput(ctx, sampleOutput(t))
	assert.Error(t, err)

	batches, err := s.ListBatches(context.Background())
	require.NoError(t, err)
	assert.Empty(t, batches)
}

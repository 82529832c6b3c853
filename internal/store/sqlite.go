package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nvandessel/futuresim/internal/simulation"
	"github.com/nvandessel/futuresim/internal/state"
	_ "modernc.org/sqlite" // SQLite driver
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrBatchNotFound is returned when a batch ID is not in the archive.
var ErrBatchNotFound = errors.New("batch not found")

// Batch summarizes one archived output.
type Batch struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	Runs      int       `json:"runs"`
	CreatedAt time.Time `json:"created_at"`
}

// SQLiteStore archives simulation outputs in a SQLite database. Each output
// becomes a batch identified by a UUID.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// OpenSQLite opens or creates the archive at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: path, now: time.Now}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.dbPath }

// WriteOutput implements Writer. It returns the new batch ID.
func (s *SQLiteStore) WriteOutput(ctx context.Context, out simulation.Output) (string, error) {
	return s.SaveOutput(ctx, out)
}

// SaveOutput archives out in a single transaction and returns its batch ID.
func (s *SQLiteStore) SaveOutput(ctx context.Context, out simulation.Output) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	created := s.now().UTC().Format(timeLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO batches (id, scenario, run_count, created_at) VALUES (?, ?, ?, ?)`,
		id, out.Scenario, len(out.Runs), created); err != nil {
		return "", fmt.Errorf("failed to insert batch: %w", err)
	}

	runStmt, err := tx.PrepareContext(ctx, `INSERT INTO runs (batch_id, run_index, branch) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare run insert: %w", err)
	}
	defer runStmt.Close()

	stateStmt, err := tx.PrepareContext(ctx, `INSERT INTO states (batch_id, run_index, step, year, data) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare state insert: %w", err)
	}
	defer stateStmt.Close()

	metricStmt, err := tx.PrepareContext(ctx, `INSERT INTO final_metrics (batch_id, run_index, metric, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare metric insert: %w", err)
	}
	defer metricStmt.Close()

	for i, run := range out.Runs {
		branch, err := json.Marshal(run.Branch)
		if err != nil {
			return "", fmt.Errorf("failed to encode branch %d: %w", i, err)
		}
		if _, err := runStmt.ExecContext(ctx, id, i, string(branch)); err != nil {
			return "", fmt.Errorf("failed to insert run %d: %w", i, err)
		}

		for step, st := range run.Trajectory {
			data, err := json.Marshal(st)
			if err != nil {
				return "", fmt.Errorf("failed to encode state %d of run %d: %w", step, i, err)
			}
			if _, err := stateStmt.ExecContext(ctx, id, i, step, st.Year, string(data)); err != nil {
				return "", fmt.Errorf("failed to insert state %d of run %d: %w", step, i, err)
			}
		}

		for name, value := range run.FinalMetrics {
			if _, err := metricStmt.ExecContext(ctx, id, i, name, value); err != nil {
				return "", fmt.Errorf("failed to insert metric %s of run %d: %w", name, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit batch: %w", err)
	}
	return id, nil
}

// LoadOutput reassembles an archived output.
func (s *SQLiteStore) LoadOutput(ctx context.Context, batchID string) (simulation.Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var name string
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT scenario, run_count FROM batches WHERE id = ?`, batchID).Scan(&name, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return simulation.Output{}, fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}
	if err != nil {
		return simulation.Output{}, fmt.Errorf("failed to query batch: %w", err)
	}

	out := simulation.NewOutput(name)
	out.Runs = make([]simulation.Run, count)
	for i := range out.Runs {
		out.Runs[i].Trajectory = []state.State{}
		out.Runs[i].FinalMetrics = map[string]float64{}
	}

	if err := s.loadBranches(ctx, batchID, out.Runs); err != nil {
		return simulation.Output{}, err
	}
	if err := s.loadStates(ctx, batchID, out.Runs); err != nil {
		return simulation.Output{}, err
	}
	if err := s.loadMetrics(ctx, batchID, out.Runs); err != nil {
		return simulation.Output{}, err
	}
	return out, nil
}

func (s *SQLiteStore) loadBranches(ctx context.Context, batchID string, runs []simulation.Run) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_index, branch FROM runs WHERE batch_id = ? ORDER BY run_index`, batchID)
	if err != nil {
		return fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var idx int
		var data string
		if err := rows.Scan(&idx, &data); err != nil {
			return fmt.Errorf("failed to scan run: %w", err)
		}
		if idx < 0 || idx >= len(runs) {
			return fmt.Errorf("run index %d out of range", idx)
		}
		if err := json.Unmarshal([]byte(data), &runs[idx].Branch); err != nil {
			return fmt.Errorf("failed to decode branch %d: %w", idx, err)
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) loadStates(ctx context.Context, batchID string, runs []simulation.Run) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_index, data FROM states WHERE batch_id = ? ORDER BY run_index, step`, batchID)
	if err != nil {
		return fmt.Errorf("failed to query states: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var idx int
		var data string
		if err := rows.Scan(&idx, &data); err != nil {
			return fmt.Errorf("failed to scan state: %w", err)
		}
		if idx < 0 || idx >= len(runs) {
			return fmt.Errorf("run index %d out of range", idx)
		}
		var st state.State
		if err := json.Unmarshal([]byte(data), &st); err != nil {
			return fmt.Errorf("failed to decode state of run %d: %w", idx, err)
		}
		runs[idx].Trajectory = append(runs[idx].Trajectory, st)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadMetrics(ctx context.Context, batchID string, runs []simulation.Run) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_index, metric, value FROM final_metrics WHERE batch_id = ?`, batchID)
	if err != nil {
		return fmt.Errorf("failed to query final metrics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var idx int
		var name string
		var value float64
		if err := rows.Scan(&idx, &name, &value); err != nil {
			return fmt.Errorf("failed to scan final metric: %w", err)
		}
		if idx < 0 || idx >= len(runs) {
			return fmt.Errorf("run index %d out of range", idx)
		}
		runs[idx].FinalMetrics[name] = value
	}
	return rows.Err()
}

// ListBatches returns archived batches, newest first.
func (s *SQLiteStore) ListBatches(ctx context.Context) ([]Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scenario, run_count, created_at FROM batches ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	batches := []Batch{}
	for rows.Next() {
		var b Batch
		var created string
		if err := rows.Scan(&b.ID, &b.Scenario, &b.Runs, &created); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		b.CreatedAt, err = time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("failed to parse batch time %q: %w", created, err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// DeleteBatch removes a batch and everything it owns.
func (s *SQLiteStore) DeleteBatch(ctx context.Context, batchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM batches WHERE id = ?`, batchID)
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

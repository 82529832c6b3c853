package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema for the run archive.
const schemaV1 = `
-- One row per archived simulation output
CREATE TABLE IF NOT EXISTS batches (
    id TEXT PRIMARY KEY,
    scenario TEXT NOT NULL,
    run_count INTEGER NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_batches_created ON batches(created_at);

-- Branches, in enumeration order
CREATE TABLE IF NOT EXISTS runs (
    batch_id TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
    run_index INTEGER NOT NULL,
    branch TEXT NOT NULL,  -- JSON object, key order preserved
    PRIMARY KEY (batch_id, run_index)
);

-- Yearly snapshots
CREATE TABLE IF NOT EXISTS states (
    batch_id TEXT NOT NULL,
    run_index INTEGER NOT NULL,
    step INTEGER NOT NULL,
    year INTEGER NOT NULL,
    data TEXT NOT NULL,  -- JSON state
    PRIMARY KEY (batch_id, run_index, step),
    FOREIGN KEY (batch_id, run_index) REFERENCES runs(batch_id, run_index) ON DELETE CASCADE
);

-- Requested metrics of the final state
CREATE TABLE IF NOT EXISTS final_metrics (
    batch_id TEXT NOT NULL,
    run_index INTEGER NOT NULL,
    metric TEXT NOT NULL,
    value REAL NOT NULL,
    PRIMARY KEY (batch_id, run_index, metric),
    FOREIGN KEY (batch_id, run_index) REFERENCES runs(batch_id, run_index) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_final_metrics_metric ON final_metrics(metric, value);

-- Schema version
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);
`

// InitSchema initializes the database schema.
// Existing databases are integrity-checked and must not be newer than
// SchemaVersion.
func InitSchema(ctx context.Context, db *sql.DB) error {
	currentVersion, err := getSchemaVersion(ctx, db)
	if err != nil {
		// Schema version table doesn't exist yet, create fresh schema
		if err := createSchema(ctx, db); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	}

	if err := ValidateIntegrity(ctx, db); err != nil {
		return fmt.Errorf("database integrity check failed: %w", err)
	}

	if currentVersion > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", currentVersion, SchemaVersion)
	}

	return nil
}

// getSchemaVersion returns the current schema version from the database.
// Returns 0 and an error if the schema_version table doesn't exist.
func getSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`,
		SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return tx.Commit()
}

// ValidateIntegrity runs PRAGMA integrity_check and PRAGMA foreign_key_check.
func ValidateIntegrity(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `PRAGMA integrity_check`)
	if err != nil {
		return fmt.Errorf("failed to run integrity_check: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var result string
		if err := rows.Scan(&result); err != nil {
			return fmt.Errorf("failed to scan integrity_check result: %w", err)
		}
		if result != "ok" {
			return fmt.Errorf("integrity_check failed: %s", result)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	fkRows, err := db.QueryContext(ctx, `PRAGMA foreign_key_check`)
	if err != nil {
		return fmt.Errorf("failed to run foreign_key_check: %w", err)
	}
	defer fkRows.Close()

	var fkErrors []string
	for fkRows.Next() {
		var table, rowid, parent, fkid sql.NullString
		if err := fkRows.Scan(&table, &rowid, &parent, &fkid); err != nil {
			return fmt.Errorf("failed to scan foreign_key_check result: %w", err)
		}
		fkErrors = append(fkErrors, fmt.Sprintf("table=%s rowid=%s parent=%s fkid=%s",
			table.String, rowid.String, parent.String, fkid.String))
	}

	if len(fkErrors) > 0 {
		return fmt.Errorf("foreign_key_check failed: %v", fkErrors)
	}
	return fkRows.Err()
}

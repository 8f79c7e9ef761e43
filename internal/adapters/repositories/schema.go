package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the tables used by the location and run repositories
// and the SQL output caches. The DDL is valid for both SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createLocationsQuery := `
	CREATE TABLE IF NOT EXISTS locations (
		position INTEGER PRIMARY KEY,
		location_id TEXT NOT NULL,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		demand INTEGER
	);
	`

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS solver_runs (
		run_id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		status TEXT NOT NULL,
		problem_name TEXT NOT NULL,
		problem_json TEXT NOT NULL,
		stdout TEXT NOT NULL,
		stderr TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	);
	`

	createOutputCacheQuery := `
	CREATE TABLE IF NOT EXISTS output_cache (
		cache_key TEXT PRIMARY KEY,
		stdout TEXT NOT NULL,
		stderr TEXT NOT NULL,
		expires_at BIGINT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_solver_runs_created_at
	ON solver_runs(created_at);
	`

	statements := []string{
		createLocationsQuery,
		createRunsQuery,
		createOutputCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

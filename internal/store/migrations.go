package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all schedsim tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id             TEXT PRIMARY KEY,
		workload_name  TEXT NOT NULL,
		policy         TEXT NOT NULL,
		cores          INTEGER NOT NULL,
		quantum        INTEGER NOT NULL DEFAULT 0,
		job_count      INTEGER NOT NULL,
		makespan       INTEGER NOT NULL,
		avg_wait       REAL NOT NULL,
		avg_turnaround REAL NOT NULL,
		avg_response   REAL NOT NULL,
		created_at     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS run_jobs (
		run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		job_id      INTEGER NOT NULL,
		arrival     INTEGER NOT NULL,
		service     INTEGER NOT NULL,
		priority    INTEGER NOT NULL,
		first_start INTEGER NOT NULL,
		completion  INTEGER NOT NULL,
		wait        INTEGER NOT NULL,
		turnaround  INTEGER NOT NULL,
		response    INTEGER NOT NULL,
		PRIMARY KEY (run_id, job_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_policy ON runs(policy)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
}

// migrate applies the schema statements in order.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/me/schedsim/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// CreateRun inserts a run and its per-job records in one transaction.
func (s *SQLiteStore) CreateRun(ctx context.Context, run *model.Run) error {
	s.logger.Debug("sql", "op", "insert", "table", "runs", "id", run.ID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, workload_name, policy, cores, quantum, job_count, makespan,
		 avg_wait, avg_turnaround, avg_response, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.WorkloadName, run.Policy, run.Cores, run.Quantum,
		run.JobCount, run.Makespan,
		run.AvgWait, run.AvgTurnaround, run.AvgResponse,
		run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}

	for _, j := range run.Jobs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_jobs (run_id, job_id, arrival, service, priority,
			 first_start, completion, wait, turnaround, response)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, j.JobID, j.Arrival, j.Service, j.Priority,
			j.FirstStart, j.Completion, j.Wait, j.Turnaround, j.Response,
		)
		if err != nil {
			return fmt.Errorf("insert job %d: %w", j.JobID, err)
		}
	}

	return tx.Commit()
}

// GetRun loads a run with its per-job records, or nil if the id is unknown.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	s.logger.Debug("sql", "op", "select", "table", "runs", "id", id)

	var run model.Run
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, workload_name, policy, cores, quantum, job_count, makespan,
		 avg_wait, avg_turnaround, avg_response, created_at
		 FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.WorkloadName, &run.Policy, &run.Cores, &run.Quantum,
		&run.JobCount, &run.Makespan,
		&run.AvgWait, &run.AvgTurnaround, &run.AvgResponse, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, arrival, service, priority, first_start, completion,
		 wait, turnaround, response
		 FROM run_jobs WHERE run_id = ? ORDER BY job_id`, id)
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var j model.JobRecord
		if err := rows.Scan(&j.JobID, &j.Arrival, &j.Service, &j.Priority,
			&j.FirstStart, &j.Completion, &j.Wait, &j.Turnaround, &j.Response); err != nil {
			return nil, err
		}
		run.Jobs = append(run.Jobs, j)
	}
	return &run, rows.Err()
}

// ListRuns returns runs (without per-job records) newest first, with the
// total matching count for pagination.
func (s *SQLiteStore) ListRuns(ctx context.Context, opts model.ListOptions) ([]*model.Run, int, error) {
	s.logger.Debug("sql", "op", "list", "table", "runs", "limit", opts.Limit, "offset", opts.Offset)
	opts.Clamp()

	// Build WHERE clause dynamically based on filters.
	var whereClauses []string
	var countArgs []any

	if opts.Policy != "" {
		whereClauses = append(whereClauses, "policy = ?")
		countArgs = append(countArgs, opts.Policy)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM runs` + whereSQL
	if err := s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT id, workload_name, policy, cores, quantum, job_count, makespan,
		avg_wait, avg_turnaround, avg_response, created_at
		FROM runs` + whereSQL + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	listArgs := append(countArgs, opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		var run model.Run
		var createdAt string
		if err := rows.Scan(&run.ID, &run.WorkloadName, &run.Policy, &run.Cores, &run.Quantum,
			&run.JobCount, &run.Makespan,
			&run.AvgWait, &run.AvgTurnaround, &run.AvgResponse, &createdAt); err != nil {
			return nil, 0, err
		}
		run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		runs = append(runs, &run)
	}
	return runs, total, rows.Err()
}

// DeleteRun removes a run; run_jobs rows cascade.
func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	s.logger.Debug("sql", "op", "delete", "table", "runs", "id", id)

	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

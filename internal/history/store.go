// Package history persists validation runs so reports can be regenerated,
// browsed in the TUI, and served from the dashboard without re-running the
// sweep.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/apivet/internal/db"
	"github.com/ziadkadry99/apivet/internal/engine"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = fmt.Errorf("history: run not found")

// Store provides CRUD operations for validation runs.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// SaveRun inserts a run and its per-endpoint results in one transaction.
// If run.ID is empty a UUID is generated. Returns the run id.
func (s *Store) SaveRun(ctx context.Context, run Run, results []engine.EndpointResult) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, created_at, spec_title, spec_version, spec_path, base_url,
			total, passed, failed, success_rate, avg_response_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.Format(time.RFC3339),
		run.SpecTitle,
		run.SpecVersion,
		run.SpecPath,
		run.BaseURL,
		run.Summary.Total,
		run.Summary.Passed,
		run.Summary.Failed,
		run.Summary.SuccessRate,
		run.Summary.AvgResponseMs,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for _, r := range results {
		detail, err := json.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("marshalling result detail: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_results (
				id, run_id, endpoint_id, method, path, success, error, duration_ms, detail
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(),
			run.ID,
			r.Endpoint.ID(),
			r.Endpoint.Method,
			r.Endpoint.Path,
			boolToInt(r.Success),
			r.Error,
			r.Duration.Milliseconds(),
			string(detail),
		)
		if err != nil {
			return "", fmt.Errorf("inserting result for %s: %w", r.Endpoint.ID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// GetRun retrieves a single run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, spec_title, spec_version, spec_path, base_url,
			   total, passed, failed, success_rate, avg_response_ms
		FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// LatestRun retrieves the most recent run, or ErrNotFound when none exist.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, spec_title, spec_version, spec_path, base_url,
			   total, passed, failed, success_rate, avg_response_ms
		FROM runs ORDER BY created_at DESC LIMIT 1`)
	return scanRun(row)
}

// List returns runs matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter QueryFilter) ([]Run, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.SpecTitle != "" {
		clauses = append(clauses, "spec_title = ?")
		args = append(args, filter.SpecTitle)
	}
	if filter.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.Since.Format(time.RFC3339))
	}

	query := `
		SELECT id, created_at, spec_title, spec_version, spec_path, base_url,
			   total, passed, failed, success_rate, avg_response_ms
		FROM runs`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ?"
	args = append(args, limit)
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Results returns the per-endpoint results of a run in insertion order.
func (s *Store) Results(ctx context.Context, runID string) ([]engine.EndpointResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT detail FROM run_results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []engine.EndpointResult
	for rows.Next() {
		var detail string
		if err := rows.Scan(&detail); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		var r engine.EndpointResult
		if err := json.Unmarshal([]byte(detail), &r); err != nil {
			return nil, fmt.Errorf("unmarshalling result detail: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// DeleteRun removes a run and its results.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run       Run
		createdAt string
	)
	err := row.Scan(
		&run.ID,
		&createdAt,
		&run.SpecTitle,
		&run.SpecVersion,
		&run.SpecPath,
		&run.BaseURL,
		&run.Summary.Total,
		&run.Summary.Passed,
		&run.Summary.Failed,
		&run.Summary.SuccessRate,
		&run.Summary.AvgResponseMs,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		run.CreatedAt = t
	}
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

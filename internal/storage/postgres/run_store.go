package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// RunStore implements storage.RunStore using the pipeline_runs table.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

const runSelect = `run_id, run_key, status, started_at, finished_at,
	articles, corpus_size, daily_rows, merged_rows, error`

// Insert adds a run record. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, r *storage.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO pipeline_runs (
			run_id, run_key, status, started_at, finished_at,
			articles, corpus_size, daily_rows, merged_rows, error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		r.RunID,
		r.RunKey,
		r.Status,
		r.StartedAt,
		r.FinishedAt,
		r.Articles,
		r.CorpusSize,
		r.DailyRows,
		r.MergedRows,
		r.Error,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetLast returns the most recent run for runKey. Returns ErrNotFound if none.
func (s *RunStore) GetLast(ctx context.Context, runKey string) (*storage.RunRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+runSelect+`
		FROM pipeline_runs
		WHERE run_key = $1
		ORDER BY started_at DESC, run_id DESC
		LIMIT 1
	`, runKey)

	r, err := scanRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get last run: %w", err)
	}
	return r, nil
}

// List returns all runs ordered by started_at ASC.
func (s *RunStore) List(ctx context.Context) ([]*storage.RunRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+runSelect+` FROM pipeline_runs ORDER BY started_at ASC, run_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []*storage.RunRecord{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

// scanRun scans a single row into a RunRecord.
func scanRun(row pgx.Row) (*storage.RunRecord, error) {
	var r storage.RunRecord
	err := row.Scan(
		&r.RunID,
		&r.RunKey,
		&r.Status,
		&r.StartedAt,
		&r.FinishedAt,
		&r.Articles,
		&r.CorpusSize,
		&r.DailyRows,
		&r.MergedRows,
		&r.Error,
	)
	if err != nil {
		return nil, err
	}
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()
	return &r, nil
}

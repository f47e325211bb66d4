package storage

import (
	"context"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
)

// BatchStore provides access to per-day article batches.
// Raw batches are keyed by calendar day; processed (linked and scored) batches by run key.
type BatchStore interface {
	// LoadRaw retrieves the raw batch captured on day. Returns ErrNotFound if absent.
	LoadRaw(ctx context.Context, day time.Time) ([]*domain.Article, error)

	// SaveRaw replaces the raw batch for day.
	SaveRaw(ctx context.Context, day time.Time, articles []*domain.Article) error

	// LoadProcessed retrieves a processed batch. Returns ErrNotFound if absent.
	LoadProcessed(ctx context.Context, runKey string) ([]*domain.Article, error)

	// SaveProcessed replaces the processed batch for runKey.
	SaveProcessed(ctx context.Context, runKey string, articles []*domain.Article) error
}

// CorpusStore provides access to the master article corpus.
// The corpus is only ever replaced as a whole snapshot.
type CorpusStore interface {
	// Load retrieves the full corpus in stored order. Returns ErrNotFound if no snapshot exists.
	Load(ctx context.Context) ([]*domain.Article, error)

	// Replace atomically swaps the snapshot. Readers see either the old or the new corpus.
	Replace(ctx context.Context, articles []*domain.Article) error
}

// PriceFeatureStore provides access to price_features storage.
type PriceFeatureStore interface {
	// InsertBulk adds multiple rows. Fails entire batch on duplicate (ticker, date).
	InsertBulk(ctx context.Context, rows []*domain.PriceFeatureRow) error

	// GetAll retrieves every row ordered by ticker, date ASC. Returns ErrNotFound if empty.
	GetAll(ctx context.Context) ([]*domain.PriceFeatureRow, error)

	// GetByTicker retrieves rows for a ticker ordered by date ASC.
	GetByTicker(ctx context.Context, ticker string) ([]*domain.PriceFeatureRow, error)
}

// OutputStore persists the run outputs. Each write replaces the snapshot for its run key.
type OutputStore interface {
	// WriteDailySentiment replaces the daily sentiment rows for runKey.
	WriteDailySentiment(ctx context.Context, runKey string, rows []*domain.DailySentiment) error

	// WriteFeatures replaces the merged feature rows for runKey.
	WriteFeatures(ctx context.Context, runKey string, rows []*domain.MergedFeatureRow) error

	// ReadDailySentiment retrieves daily sentiment rows for runKey. Returns ErrNotFound if absent.
	ReadDailySentiment(ctx context.Context, runKey string) ([]*domain.DailySentiment, error)

	// ReadFeatures retrieves merged feature rows for runKey. Returns ErrNotFound if absent.
	ReadFeatures(ctx context.Context, runKey string) ([]*domain.MergedFeatureRow, error)
}

// RunRecord is one completed or failed pipeline run.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	RunKey     string    `json:"run_key"`
	Status     string    `json:"status"` // RunStatusSuccess or RunStatusFailure
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Articles   int       `json:"articles"`
	CorpusSize int       `json:"corpus_size"`
	DailyRows  int       `json:"daily_rows"`
	MergedRows int       `json:"merged_rows"`
	Error      string    `json:"error,omitempty"`
}

// Run statuses.
const (
	RunStatusSuccess = "success"
	RunStatusFailure = "failure"
)

// RunStore records pipeline runs so operators can see what was processed.
type RunStore interface {
	// Insert adds a run record. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *RunRecord) error

	// GetLast returns the most recent run for runKey. Returns ErrNotFound if none.
	GetLast(ctx context.Context, runKey string) (*RunRecord, error)

	// List returns all runs ordered by started_at ASC.
	List(ctx context.Context) ([]*RunRecord, error)
}

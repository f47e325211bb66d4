package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// Batch kinds stored in article_batches.kind.
const (
	batchKindRaw       = "raw"
	batchKindProcessed = "processed"
)

// BatchStore implements storage.BatchStore using PostgreSQL.
// article_batches holds one header row per (kind, batch_key); batch_articles holds the rows.
type BatchStore struct {
	pool *Pool
}

// NewBatchStore creates a new BatchStore.
func NewBatchStore(pool *Pool) *BatchStore {
	return &BatchStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BatchStore = (*BatchStore)(nil)

// LoadRaw retrieves the raw batch captured on day.
func (s *BatchStore) LoadRaw(ctx context.Context, day time.Time) ([]*domain.Article, error) {
	return s.load(ctx, batchKindRaw, day.Format(domain.DateLayout))
}

// SaveRaw replaces the raw batch for day.
func (s *BatchStore) SaveRaw(ctx context.Context, day time.Time, articles []*domain.Article) error {
	return s.save(ctx, batchKindRaw, day.Format(domain.DateLayout), articles)
}

// LoadProcessed retrieves the processed batch for runKey.
func (s *BatchStore) LoadProcessed(ctx context.Context, runKey string) ([]*domain.Article, error) {
	return s.load(ctx, batchKindProcessed, runKey)
}

// SaveProcessed replaces the processed batch for runKey.
func (s *BatchStore) SaveProcessed(ctx context.Context, runKey string, articles []*domain.Article) error {
	if runKey == "" {
		return storage.ErrInvalidInput
	}
	return s.save(ctx, batchKindProcessed, runKey, articles)
}

func (s *BatchStore) load(ctx context.Context, kind, key string) ([]*domain.Article, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM article_batches WHERE kind = $1 AND batch_key = $2)
	`, kind, key).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("get %s batch %s: %w", kind, key, err)
	}
	if !exists {
		return nil, storage.ErrNotFound
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+articleSelect+`
		FROM batch_articles
		WHERE kind = $1 AND batch_key = $2
		ORDER BY seq ASC
	`, kind, key)
	if err != nil {
		return nil, fmt.Errorf("get %s batch articles: %w", kind, err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

func (s *BatchStore) save(ctx context.Context, kind, key string, articles []*domain.Article) error {
	err := s.pool.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM batch_articles WHERE kind = $1 AND batch_key = $2`, kind, key); err != nil {
			return fmt.Errorf("clear %s batch %s: %w", kind, key, err)
		}
		if err := copyArticles(ctx, tx, "batch_articles", []string{"kind", "batch_key"}, []any{kind, key}, articles); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO article_batches (kind, batch_key, article_count, saved_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (kind, batch_key) DO UPDATE
			SET article_count = EXCLUDED.article_count,
			    saved_at = NOW()
		`, kind, key, countArticles(articles))
		if err != nil {
			return fmt.Errorf("save %s batch header: %w", kind, err)
		}
		return nil
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("save %s batch %s: %w", kind, key, err)
	}
	return nil
}

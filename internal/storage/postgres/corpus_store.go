package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// CorpusStore implements storage.CorpusStore using PostgreSQL.
// Uses two tables:
//   - corpus_articles: one row per article, primary key article_id = SHA256(link)
//   - corpus_snapshot: single row marking that a snapshot exists
type CorpusStore struct {
	pool *Pool
}

// NewCorpusStore creates a new CorpusStore.
func NewCorpusStore(pool *Pool) *CorpusStore {
	return &CorpusStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CorpusStore = (*CorpusStore)(nil)

// Load retrieves the full corpus in snapshot order. Returns ErrNotFound if never replaced.
func (s *CorpusStore) Load(ctx context.Context) ([]*domain.Article, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT article_count FROM corpus_snapshot WHERE id = 1`).Scan(&count)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get corpus snapshot: %w", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT `+articleSelect+` FROM corpus_articles ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("get corpus articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// Replace swaps the snapshot in one transaction: readers see the old or the new corpus.
// Returns ErrDuplicateKey if two articles share a link.
func (s *CorpusStore) Replace(ctx context.Context, articles []*domain.Article) error {
	err := s.pool.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM corpus_articles`); err != nil {
			return fmt.Errorf("clear corpus: %w", err)
		}
		if err := copyArticles(ctx, tx, "corpus_articles", nil, nil, articles); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO corpus_snapshot (id, article_count, replaced_at)
			VALUES (1, $1, NOW())
			ON CONFLICT (id) DO UPDATE
			SET article_count = EXCLUDED.article_count,
			    replaced_at = NOW()
		`, countArticles(articles))
		if err != nil {
			return fmt.Errorf("mark corpus snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("replace corpus: %w", err)
	}
	return nil
}

func countArticles(articles []*domain.Article) int {
	n := 0
	for _, a := range articles {
		if a != nil {
			n++
		}
	}
	return n
}

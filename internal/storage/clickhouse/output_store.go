package clickhouse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// Output kinds recorded in output_snapshots.kind.
const (
	outputKindDaily    = "daily_sentiment"
	outputKindFeatures = "merged_features"
)

// OutputStore implements storage.OutputStore using ClickHouse.
// Every write inserts its rows under a new version, then records that version
// in output_snapshots. Reads only see the latest recorded version, so a write
// that fails midway leaves the previous snapshot visible.
type OutputStore struct {
	conn  *Conn
	clock func() time.Time

	mu   sync.Mutex
	last uint64
}

// NewOutputStore creates a new OutputStore.
func NewOutputStore(conn *Conn) *OutputStore {
	return &OutputStore{conn: conn, clock: time.Now}
}

// Compile-time interface check.
var _ storage.OutputStore = (*OutputStore)(nil)

// WriteDailySentiment replaces the daily sentiment rows for runKey.
func (s *OutputStore) WriteDailySentiment(ctx context.Context, runKey string, rows []*domain.DailySentiment) error {
	if runKey == "" {
		return storage.ErrInvalidInput
	}
	version := s.nextVersion()

	if len(rows) > 0 {
		batch, err := s.conn.PrepareBatch(ctx, `
			INSERT INTO daily_sentiment (
				run_key, version, ticker, date,
				mean_sentiment, median_sentiment, sentiment_std,
				article_count, sentiment_momentum_1d
			)
		`)
		if err != nil {
			return fmt.Errorf("prepare batch: %w", err)
		}
		for _, r := range rows {
			err = batch.Append(
				runKey, version, r.Ticker, domain.TruncateDay(r.Date),
				r.MeanSentiment, r.MedianSentiment, r.SentimentStd,
				uint32(r.ArticleCount), r.SentimentMomentum1D,
			)
			if err != nil {
				return fmt.Errorf("append to batch: %w", err)
			}
		}
		if err := batch.Send(); err != nil {
			return fmt.Errorf("send batch: %w", err)
		}
	}

	return s.commit(ctx, "daily_sentiment", outputKindDaily, runKey, version, len(rows))
}

// WriteFeatures replaces the merged feature rows for runKey.
func (s *OutputStore) WriteFeatures(ctx context.Context, runKey string, rows []*domain.MergedFeatureRow) error {
	if runKey == "" {
		return storage.ErrInvalidInput
	}
	version := s.nextVersion()

	if len(rows) > 0 {
		batch, err := s.conn.PrepareBatch(ctx, `
			INSERT INTO merged_features (
				run_key, version, ticker, date, adj_close,
				simple_return, log_return, vol_20d, ma_10, ma_50, mom_10,
				mean_sentiment, median_sentiment, sentiment_std,
				article_count, sentiment_momentum_1d
			)
		`)
		if err != nil {
			return fmt.Errorf("prepare batch: %w", err)
		}
		for _, r := range rows {
			err = batch.Append(
				runKey, version, r.Ticker, domain.TruncateDay(r.Date), r.AdjClose,
				r.Return, r.LogReturn, r.Vol20D, r.MA10, r.MA50, r.Mom10,
				r.MeanSentiment, r.MedianSentiment, r.SentimentStd,
				uint32(r.ArticleCount), r.SentimentMomentum1D,
			)
			if err != nil {
				return fmt.Errorf("append to batch: %w", err)
			}
		}
		if err := batch.Send(); err != nil {
			return fmt.Errorf("send batch: %w", err)
		}
	}

	return s.commit(ctx, "merged_features", outputKindFeatures, runKey, version, len(rows))
}

// ReadDailySentiment retrieves daily sentiment rows for runKey ordered by ticker, date.
func (s *OutputStore) ReadDailySentiment(ctx context.Context, runKey string) ([]*domain.DailySentiment, error) {
	version, err := s.currentVersion(ctx, outputKindDaily, runKey)
	if err != nil {
		return nil, err
	}

	rows, err := s.conn.Query(ctx, `
		SELECT
			ticker, date,
			mean_sentiment, median_sentiment, sentiment_std,
			article_count, sentiment_momentum_1d
		FROM daily_sentiment
		WHERE run_key = ? AND version = ?
		ORDER BY ticker ASC, date ASC
	`, runKey, version)
	if err != nil {
		return nil, fmt.Errorf("query daily sentiment: %w", err)
	}
	defer rows.Close()

	return scanDailySentiment(rows)
}

// ReadFeatures retrieves merged feature rows for runKey ordered by ticker, date.
func (s *OutputStore) ReadFeatures(ctx context.Context, runKey string) ([]*domain.MergedFeatureRow, error) {
	version, err := s.currentVersion(ctx, outputKindFeatures, runKey)
	if err != nil {
		return nil, err
	}

	rows, err := s.conn.Query(ctx, `
		SELECT
			ticker, date, adj_close,
			simple_return, log_return, vol_20d, ma_10, ma_50, mom_10,
			mean_sentiment, median_sentiment, sentiment_std,
			article_count, sentiment_momentum_1d
		FROM merged_features
		WHERE run_key = ? AND version = ?
		ORDER BY ticker ASC, date ASC
	`, runKey, version)
	if err != nil {
		return nil, fmt.Errorf("query merged features: %w", err)
	}
	defer rows.Close()

	return scanMergedFeatures(rows)
}

// nextVersion returns a version strictly greater than any issued by this store.
func (s *OutputStore) nextVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := uint64(s.clock().UnixNano())
	if v <= s.last {
		v = s.last + 1
	}
	s.last = v
	return v
}

// commit records version as current for (kind, runKey) and drops superseded rows.
func (s *OutputStore) commit(ctx context.Context, table, kind, runKey string, version uint64, count int) error {
	err := s.conn.Exec(ctx, `
		INSERT INTO output_snapshots (kind, run_key, version, row_count)
		VALUES (?, ?, ?, ?)
	`, kind, runKey, version, uint32(count))
	if err != nil {
		return fmt.Errorf("record %s snapshot: %w", kind, err)
	}

	// Mutations are asynchronous; reads already filter by version.
	err = s.conn.Exec(ctx, fmt.Sprintf(
		"ALTER TABLE %s DELETE WHERE run_key = ? AND version < ?", table,
	), runKey, version)
	if err != nil {
		return fmt.Errorf("drop superseded %s rows: %w", kind, err)
	}
	return nil
}

// currentVersion returns the latest committed version. Returns ErrNotFound if none.
func (s *OutputStore) currentVersion(ctx context.Context, kind, runKey string) (uint64, error) {
	var (
		version uint64
		count   uint64
	)
	err := s.conn.QueryRow(ctx, `
		SELECT max(version), count()
		FROM output_snapshots
		WHERE kind = ? AND run_key = ?
	`, kind, runKey).Scan(&version, &count)
	if err != nil {
		return 0, fmt.Errorf("get %s snapshot: %w", kind, err)
	}
	if count == 0 {
		return 0, storage.ErrNotFound
	}
	return version, nil
}

// scanDailySentiment scans multiple rows.
func scanDailySentiment(rows chRows) ([]*domain.DailySentiment, error) {
	result := []*domain.DailySentiment{}

	for rows.Next() {
		var (
			r     domain.DailySentiment
			count uint32
		)
		err := rows.Scan(
			&r.Ticker, &r.Date,
			&r.MeanSentiment, &r.MedianSentiment, &r.SentimentStd,
			&count, &r.SentimentMomentum1D,
		)
		if err != nil {
			return nil, fmt.Errorf("scan daily sentiment row: %w", err)
		}
		r.Date = domain.TruncateDay(r.Date)
		r.ArticleCount = int(count)
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily sentiment rows: %w", err)
	}

	return result, nil
}

// scanMergedFeatures scans multiple rows.
func scanMergedFeatures(rows chRows) ([]*domain.MergedFeatureRow, error) {
	result := []*domain.MergedFeatureRow{}

	for rows.Next() {
		var (
			r     domain.MergedFeatureRow
			count uint32
		)
		err := rows.Scan(
			&r.Ticker, &r.Date, &r.AdjClose,
			&r.Return, &r.LogReturn, &r.Vol20D, &r.MA10, &r.MA50, &r.Mom10,
			&r.MeanSentiment, &r.MedianSentiment, &r.SentimentStd,
			&count, &r.SentimentMomentum1D,
		)
		if err != nil {
			return nil, fmt.Errorf("scan merged features row: %w", err)
		}
		r.Date = domain.TruncateDay(r.Date)
		r.ArticleCount = int(count)
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate merged features rows: %w", err)
	}

	return result, nil
}

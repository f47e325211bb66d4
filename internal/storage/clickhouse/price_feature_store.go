package clickhouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// PriceFeatureStore implements storage.PriceFeatureStore using ClickHouse.
type PriceFeatureStore struct {
	conn *Conn
}

// NewPriceFeatureStore creates a new PriceFeatureStore.
func NewPriceFeatureStore(conn *Conn) *PriceFeatureStore {
	return &PriceFeatureStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceFeatureStore = (*PriceFeatureStore)(nil)

const priceFeatureSelect = `
		SELECT
			ticker, date, adj_close,
			simple_return, log_return, vol_20d, ma_10, ma_50, mom_10
		FROM price_features`

// InsertBulk adds multiple rows. Fails entire batch on duplicate (ticker, date).
func (s *PriceFeatureStore) InsertBulk(ctx context.Context, rows []*domain.PriceFeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		ticker string
		date   time.Time
	}
	seen := make(map[key]struct{})
	byTicker := make(map[string][]time.Time)
	for _, r := range rows {
		if r == nil || r.Ticker == "" {
			return storage.ErrInvalidInput
		}
		k := key{strings.ToUpper(r.Ticker), domain.TruncateDay(r.Date)}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
		byTicker[k.ticker] = append(byTicker[k.ticker], k.date)
	}

	// Check for duplicates against existing DB rows
	for ticker, dates := range byTicker {
		existing, err := s.existingDates(ctx, ticker)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		for _, d := range dates {
			if _, ok := existing[d]; ok {
				return storage.ErrDuplicateKey
			}
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_features (
			ticker, date, adj_close,
			simple_return, log_return, vol_20d, ma_10, ma_50, mom_10
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		// Pass nil values directly for Nullable columns
		err = batch.Append(
			strings.ToUpper(r.Ticker), domain.TruncateDay(r.Date), r.AdjClose,
			r.Return, r.LogReturn, r.Vol20D, r.MA10, r.MA50, r.Mom10,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetAll retrieves every row ordered by ticker, date ASC. Returns ErrNotFound if empty.
func (s *PriceFeatureStore) GetAll(ctx context.Context) ([]*domain.PriceFeatureRow, error) {
	rows, err := s.conn.Query(ctx, priceFeatureSelect+`
		ORDER BY ticker ASC, date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query price features: %w", err)
	}
	defer rows.Close()

	result, err := scanPriceFeatures(rows)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, storage.ErrNotFound
	}
	return result, nil
}

// GetByTicker retrieves rows for a ticker ordered by date ASC.
func (s *PriceFeatureStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.PriceFeatureRow, error) {
	rows, err := s.conn.Query(ctx, priceFeatureSelect+`
		WHERE ticker = ?
		ORDER BY date ASC
	`, strings.ToUpper(ticker))
	if err != nil {
		return nil, fmt.Errorf("query price features by ticker: %w", err)
	}
	defer rows.Close()

	return scanPriceFeatures(rows)
}

// existingDates returns the stored dates for a ticker.
func (s *PriceFeatureStore) existingDates(ctx context.Context, ticker string) (map[time.Time]struct{}, error) {
	rows, err := s.conn.Query(ctx, `SELECT date FROM price_features WHERE ticker = ?`, ticker)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make(map[time.Time]struct{})
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates[domain.TruncateDay(d)] = struct{}{}
	}
	return dates, rows.Err()
}

// scanPriceFeatures scans multiple rows.
func scanPriceFeatures(rows chRows) ([]*domain.PriceFeatureRow, error) {
	result := []*domain.PriceFeatureRow{}

	for rows.Next() {
		var r domain.PriceFeatureRow
		err := rows.Scan(
			&r.Ticker, &r.Date, &r.AdjClose,
			&r.Return, &r.LogReturn, &r.Vol20D, &r.MA10, &r.MA50, &r.Mom10,
		)
		if err != nil {
			return nil, fmt.Errorf("scan price features row: %w", err)
		}
		r.Date = domain.TruncateDay(r.Date)
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price features rows: %w", err)
	}

	return result, nil
}

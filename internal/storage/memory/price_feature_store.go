package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// PriceFeatureStore is an in-memory implementation of storage.PriceFeatureStore.
type PriceFeatureStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PriceFeatureRow // keyed by (ticker, date)
}

// NewPriceFeatureStore creates a new in-memory price feature store.
func NewPriceFeatureStore() *PriceFeatureStore {
	return &PriceFeatureStore{
		data: make(map[string]*domain.PriceFeatureRow),
	}
}

func featureKey(r *domain.PriceFeatureRow) string {
	return fmt.Sprintf("%s|%s", r.Ticker, r.Date.Format(domain.DateLayout))
}

// InsertBulk adds multiple rows. Fails entire batch on duplicate.
func (s *PriceFeatureStore) InsertBulk(_ context.Context, rows []*domain.PriceFeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.Ticker == "" {
			return storage.ErrInvalidInput
		}
		key := featureKey(r)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range rows {
		s.data[featureKey(r)] = clonePriceRow(r)
	}
	return nil
}

// GetAll retrieves every row ordered by ticker, date ASC.
func (s *PriceFeatureStore) GetAll(_ context.Context) ([]*domain.PriceFeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.data) == 0 {
		return nil, storage.ErrNotFound
	}

	result := make([]*domain.PriceFeatureRow, 0, len(s.data))
	for _, r := range s.data {
		result = append(result, clonePriceRow(r))
	}
	sortPriceRows(result)
	return result, nil
}

// GetByTicker retrieves rows for a ticker ordered by date ASC.
func (s *PriceFeatureStore) GetByTicker(_ context.Context, ticker string) ([]*domain.PriceFeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PriceFeatureRow
	for _, r := range s.data {
		if r.Ticker == ticker {
			result = append(result, clonePriceRow(r))
		}
	}
	sortPriceRows(result)
	return result, nil
}

func sortPriceRows(rows []*domain.PriceFeatureRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Ticker != rows[j].Ticker {
			return rows[i].Ticker < rows[j].Ticker
		}
		return rows[i].Date.Before(rows[j].Date)
	})
}

func clonePriceRow(r *domain.PriceFeatureRow) *domain.PriceFeatureRow {
	c := *r
	c.Return = cloneFloat(r.Return)
	c.LogReturn = cloneFloat(r.LogReturn)
	c.Vol20D = cloneFloat(r.Vol20D)
	c.MA10 = cloneFloat(r.MA10)
	c.MA50 = cloneFloat(r.MA50)
	c.Mom10 = cloneFloat(r.Mom10)
	return &c
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

var _ storage.PriceFeatureStore = (*PriceFeatureStore)(nil)

package memory

import (
	"context"
	"sync"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// OutputStore is an in-memory implementation of storage.OutputStore.
type OutputStore struct {
	mu       sync.RWMutex
	daily    map[string][]*domain.DailySentiment
	features map[string][]*domain.MergedFeatureRow
}

// NewOutputStore creates a new in-memory output store.
func NewOutputStore() *OutputStore {
	return &OutputStore{
		daily:    make(map[string][]*domain.DailySentiment),
		features: make(map[string][]*domain.MergedFeatureRow),
	}
}

// WriteDailySentiment replaces the daily sentiment rows for runKey.
func (s *OutputStore) WriteDailySentiment(_ context.Context, runKey string, rows []*domain.DailySentiment) error {
	if runKey == "" {
		return storage.ErrInvalidInput
	}
	copied := make([]*domain.DailySentiment, 0, len(rows))
	for _, r := range rows {
		c := *r
		c.SentimentMomentum1D = cloneFloat(r.SentimentMomentum1D)
		copied = append(copied, &c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.daily[runKey] = copied
	return nil
}

// WriteFeatures replaces the merged feature rows for runKey.
func (s *OutputStore) WriteFeatures(_ context.Context, runKey string, rows []*domain.MergedFeatureRow) error {
	if runKey == "" {
		return storage.ErrInvalidInput
	}
	copied := make([]*domain.MergedFeatureRow, 0, len(rows))
	for _, r := range rows {
		copied = append(copied, cloneMergedRow(r))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.features[runKey] = copied
	return nil
}

// ReadDailySentiment retrieves daily sentiment rows for runKey.
func (s *OutputStore) ReadDailySentiment(_ context.Context, runKey string) ([]*domain.DailySentiment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.daily[runKey]
	if !ok {
		return nil, storage.ErrNotFound
	}
	result := make([]*domain.DailySentiment, 0, len(rows))
	for _, r := range rows {
		c := *r
		c.SentimentMomentum1D = cloneFloat(r.SentimentMomentum1D)
		result = append(result, &c)
	}
	return result, nil
}

// ReadFeatures retrieves merged feature rows for runKey.
func (s *OutputStore) ReadFeatures(_ context.Context, runKey string) ([]*domain.MergedFeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.features[runKey]
	if !ok {
		return nil, storage.ErrNotFound
	}
	result := make([]*domain.MergedFeatureRow, 0, len(rows))
	for _, r := range rows {
		result = append(result, cloneMergedRow(r))
	}
	return result, nil
}

func cloneMergedRow(r *domain.MergedFeatureRow) *domain.MergedFeatureRow {
	c := *r
	c.PriceFeatureRow = *clonePriceRow(&r.PriceFeatureRow)
	return &c
}

var _ storage.OutputStore = (*OutputStore)(nil)

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// BatchStore is an in-memory implementation of storage.BatchStore.
type BatchStore struct {
	mu        sync.RWMutex
	raw       map[string][]*domain.Article // keyed by YYYY-MM-DD
	processed map[string][]*domain.Article // keyed by run key
}

// NewBatchStore creates a new in-memory batch store.
func NewBatchStore() *BatchStore {
	return &BatchStore{
		raw:       make(map[string][]*domain.Article),
		processed: make(map[string][]*domain.Article),
	}
}

// LoadRaw retrieves the raw batch for day.
func (s *BatchStore) LoadRaw(_ context.Context, day time.Time) ([]*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch, ok := s.raw[day.Format(domain.DateLayout)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return domain.CloneArticles(batch), nil
}

// SaveRaw replaces the raw batch for day.
func (s *BatchStore) SaveRaw(_ context.Context, day time.Time, articles []*domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.raw[day.Format(domain.DateLayout)] = cloneNonNil(articles)
	return nil
}

// LoadProcessed retrieves the processed batch for runKey.
func (s *BatchStore) LoadProcessed(_ context.Context, runKey string) ([]*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch, ok := s.processed[runKey]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return domain.CloneArticles(batch), nil
}

// SaveProcessed replaces the processed batch for runKey.
func (s *BatchStore) SaveProcessed(_ context.Context, runKey string, articles []*domain.Article) error {
	if runKey == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed[runKey] = cloneNonNil(articles)
	return nil
}

func cloneNonNil(articles []*domain.Article) []*domain.Article {
	out := make([]*domain.Article, 0, len(articles))
	for _, a := range articles {
		if a != nil {
			out = append(out, a.Clone())
		}
	}
	return out
}

var _ storage.BatchStore = (*BatchStore)(nil)

package memory

import (
	"context"
	"sync"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// CorpusStore is an in-memory implementation of storage.CorpusStore.
type CorpusStore struct {
	mu       sync.RWMutex
	snapshot []*domain.Article // nil until the first Replace
}

// NewCorpusStore creates a new, empty in-memory corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{}
}

// Load retrieves the full corpus.
func (s *CorpusStore) Load(_ context.Context) ([]*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, storage.ErrNotFound
	}
	return domain.CloneArticles(s.snapshot), nil
}

// Replace swaps the snapshot under the write lock.
func (s *CorpusStore) Replace(_ context.Context, articles []*domain.Article) error {
	snapshot := cloneNonNil(articles)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snapshot
	return nil
}

var _ storage.CorpusStore = (*CorpusStore)(nil)

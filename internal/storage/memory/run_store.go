package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// RunStore is an in-memory implementation of storage.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*storage.RunRecord // keyed by run_id
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]*storage.RunRecord)}
}

// Insert adds a run record.
func (s *RunStore) Insert(_ context.Context, r *storage.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}
	c := *r
	s.runs[r.RunID] = &c
	return nil
}

// GetLast returns the most recent run for runKey.
func (s *RunStore) GetLast(_ context.Context, runKey string) (*storage.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var last *storage.RunRecord
	for _, r := range s.runs {
		if r.RunKey != runKey {
			continue
		}
		if last == nil || r.StartedAt.After(last.StartedAt) {
			last = r
		}
	}
	if last == nil {
		return nil, storage.ErrNotFound
	}
	c := *last
	return &c, nil
}

// List returns all runs ordered by started_at ASC.
func (s *RunStore) List(_ context.Context) ([]*storage.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*storage.RunRecord, 0, len(s.runs))
	for _, r := range s.runs {
		c := *r
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.Before(result[j].StartedAt)
	})
	return result, nil
}

var _ storage.RunStore = (*RunStore)(nil)

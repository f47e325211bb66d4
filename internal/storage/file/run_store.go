package file

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// RunStore implements storage.RunStore as a JSON array rewritten on each insert.
type RunStore struct {
	mu   sync.Mutex
	path string
}

// NewRunStore creates a RunStore rooted at dir.
func NewRunStore(dir string) *RunStore {
	return &RunStore{path: filepath.Join(dir, "runs", "runs.json")}
}

var _ storage.RunStore = (*RunStore)(nil)

// Insert adds a run record.
func (s *RunStore) Insert(_ context.Context, r *storage.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.read()
	if err != nil {
		return err
	}
	for _, existing := range runs {
		if existing.RunID == r.RunID {
			return storage.ErrDuplicateKey
		}
	}
	c := *r
	runs = append(runs, &c)
	sortRuns(runs)
	return writeJSON(s.path, runs)
}

// GetLast returns the most recent run for runKey.
func (s *RunStore) GetLast(_ context.Context, runKey string) (*storage.RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := len(runs) - 1; i >= 0; i-- {
		if runs[i].RunKey == runKey {
			return runs[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

// List returns all runs ordered by started_at ASC.
func (s *RunStore) List(_ context.Context) ([]*storage.RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// read returns the stored runs; a missing file is an empty history.
func (s *RunStore) read() ([]*storage.RunRecord, error) {
	runs := []*storage.RunRecord{}
	err := readJSON(s.path, &runs)
	if errors.Is(err, storage.ErrNotFound) {
		return []*storage.RunRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	return runs, nil
}

func sortRuns(runs []*storage.RunRecord) {
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
}

package file

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// CorpusStore implements storage.CorpusStore as a single JSON snapshot.
type CorpusStore struct {
	mu   sync.Mutex
	path string
}

// NewCorpusStore creates a CorpusStore rooted at dir.
func NewCorpusStore(dir string) *CorpusStore {
	return &CorpusStore{path: filepath.Join(dir, "corpus", "master.json")}
}

var _ storage.CorpusStore = (*CorpusStore)(nil)

// Load retrieves the corpus in stored order.
func (s *CorpusStore) Load(_ context.Context) ([]*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadArticles(s.path)
}

// Replace swaps the snapshot with a rename.
func (s *CorpusStore) Replace(_ context.Context, articles []*domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveArticles(s.path, articles)
}

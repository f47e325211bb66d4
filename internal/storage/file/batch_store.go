package file

import (
	"context"
	"path/filepath"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// BatchStore implements storage.BatchStore with one JSON file per batch.
type BatchStore struct {
	root string
}

// NewBatchStore creates a BatchStore rooted at dir.
func NewBatchStore(dir string) *BatchStore {
	return &BatchStore{root: dir}
}

var _ storage.BatchStore = (*BatchStore)(nil)

func (s *BatchStore) rawPath(day time.Time) string {
	return filepath.Join(s.root, "raw", day.Format(domain.DateLayout)+".json")
}

// LoadRaw retrieves the raw batch captured on day.
func (s *BatchStore) LoadRaw(_ context.Context, day time.Time) ([]*domain.Article, error) {
	return loadArticles(s.rawPath(day))
}

// SaveRaw replaces the raw batch for day.
func (s *BatchStore) SaveRaw(_ context.Context, day time.Time, articles []*domain.Article) error {
	return saveArticles(s.rawPath(day), articles)
}

// LoadProcessed retrieves the processed batch for runKey.
func (s *BatchStore) LoadProcessed(_ context.Context, runKey string) ([]*domain.Article, error) {
	if err := checkKey(runKey); err != nil {
		return nil, err
	}
	return loadArticles(filepath.Join(s.root, "processed", runKey+".json"))
}

// SaveProcessed replaces the processed batch for runKey.
func (s *BatchStore) SaveProcessed(_ context.Context, runKey string, articles []*domain.Article) error {
	if err := checkKey(runKey); err != nil {
		return err
	}
	return saveArticles(filepath.Join(s.root, "processed", runKey+".json"), articles)
}

func loadArticles(path string) ([]*domain.Article, error) {
	articles := []*domain.Article{}
	if err := readJSON(path, &articles); err != nil {
		return nil, err
	}
	return dropNil(articles), nil
}

func saveArticles(path string, articles []*domain.Article) error {
	return writeJSON(path, dropNil(articles))
}

// dropNil returns articles without nil entries, never nil.
func dropNil(articles []*domain.Article) []*domain.Article {
	out := make([]*domain.Article, 0, len(articles))
	for _, a := range articles {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

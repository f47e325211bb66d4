package file

import (
	"context"
	"io"
	"path/filepath"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// OutputStore implements storage.OutputStore with CSV files per run key.
type OutputStore struct {
	root string
}

// NewOutputStore creates an OutputStore rooted at dir.
func NewOutputStore(dir string) *OutputStore {
	return &OutputStore{root: filepath.Join(dir, "outputs")}
}

var _ storage.OutputStore = (*OutputStore)(nil)

func (s *OutputStore) path(runKey, name string) (string, error) {
	if err := checkKey(runKey); err != nil {
		return "", err
	}
	return filepath.Join(s.root, runKey, name), nil
}

// DailySentimentPath returns the file WriteDailySentiment writes for runKey.
func (s *OutputStore) DailySentimentPath(runKey string) (string, error) {
	return s.path(runKey, "daily_sentiment.csv")
}

// FeaturesPath returns the file WriteFeatures writes for runKey.
func (s *OutputStore) FeaturesPath(runKey string) (string, error) {
	return s.path(runKey, "merged_features.csv")
}

// WriteDailySentiment replaces the daily sentiment file for runKey.
func (s *OutputStore) WriteDailySentiment(_ context.Context, runKey string, rows []*domain.DailySentiment) error {
	path, err := s.DailySentimentPath(runKey)
	if err != nil {
		return err
	}
	return writeAtomic(path, func(w io.Writer) error {
		return writeCSV(w, dailyHeader, len(rows), func(i int) []string {
			return dailyRecord(rows[i])
		})
	})
}

// WriteFeatures replaces the merged features file for runKey.
func (s *OutputStore) WriteFeatures(_ context.Context, runKey string, rows []*domain.MergedFeatureRow) error {
	path, err := s.FeaturesPath(runKey)
	if err != nil {
		return err
	}
	return writeAtomic(path, func(w io.Writer) error {
		return writeCSV(w, mergedHeader, len(rows), func(i int) []string {
			return mergedRecord(rows[i])
		})
	})
}

// ReadDailySentiment reads the daily sentiment file for runKey.
func (s *OutputStore) ReadDailySentiment(_ context.Context, runKey string) ([]*domain.DailySentiment, error) {
	path, err := s.DailySentimentPath(runKey)
	if err != nil {
		return nil, err
	}
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows := []*domain.DailySentiment{}
	err = readCSV(f, dailyHeader, func(c csvRecord) error {
		r, err := parseDailyRow(c)
		if err != nil {
			return err
		}
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadFeatures reads the merged features file for runKey.
func (s *OutputStore) ReadFeatures(_ context.Context, runKey string) ([]*domain.MergedFeatureRow, error) {
	path, err := s.FeaturesPath(runKey)
	if err != nil {
		return nil, err
	}
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows := []*domain.MergedFeatureRow{}
	err = readCSV(f, mergedHeader, func(c csvRecord) error {
		r, err := parseMergedRow(c)
		if err != nil {
			return err
		}
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

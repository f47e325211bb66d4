package file

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// PriceFeatureStore implements storage.PriceFeatureStore as one CSV file.
// InsertBulk rewrites the whole file, so the CSV is always sorted by ticker, date.
type PriceFeatureStore struct {
	mu   sync.Mutex
	path string
}

// NewPriceFeatureStore creates a PriceFeatureStore rooted at dir.
func NewPriceFeatureStore(dir string) *PriceFeatureStore {
	return &PriceFeatureStore{path: filepath.Join(dir, "prices", "price_features.csv")}
}

var _ storage.PriceFeatureStore = (*PriceFeatureStore)(nil)

func featureKey(ticker string, r *domain.PriceFeatureRow) string {
	return ticker + "|" + r.Date.Format(domain.DateLayout)
}

// InsertBulk adds multiple rows. Fails entire batch on duplicate (ticker, date).
func (s *PriceFeatureStore) InsertBulk(_ context.Context, rows []*domain.PriceFeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read()
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	seen := make(map[string]struct{}, len(existing)+len(rows))
	for _, r := range existing {
		seen[featureKey(r.Ticker, r)] = struct{}{}
	}

	merged := existing
	for _, r := range rows {
		if r == nil || r.Ticker == "" {
			return storage.ErrInvalidInput
		}
		c := *r
		c.Ticker = strings.ToUpper(r.Ticker)
		c.Date = domain.TruncateDay(r.Date)
		k := featureKey(c.Ticker, &c)
		if _, dup := seen[k]; dup {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
		merged = append(merged, &c)
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Ticker != merged[j].Ticker {
			return merged[i].Ticker < merged[j].Ticker
		}
		return merged[i].Date.Before(merged[j].Date)
	})

	return writeAtomic(s.path, func(w io.Writer) error {
		return writeCSV(w, priceHeader, len(merged), func(i int) []string {
			return priceRecord(merged[i])
		})
	})
}

// GetAll retrieves every row ordered by ticker, date ASC.
func (s *PriceFeatureStore) GetAll(_ context.Context) ([]*domain.PriceFeatureRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.read()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}
	return rows, nil
}

// GetByTicker retrieves rows for a ticker ordered by date ASC.
func (s *PriceFeatureStore) GetByTicker(_ context.Context, ticker string) ([]*domain.PriceFeatureRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*domain.PriceFeatureRow{}
	rows, err := s.read()
	if errors.Is(err, storage.ErrNotFound) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	ticker = strings.ToUpper(ticker)
	for _, r := range rows {
		if r.Ticker == ticker {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *PriceFeatureStore) read() ([]*domain.PriceFeatureRow, error) {
	f, err := openFile(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows := []*domain.PriceFeatureRow{}
	err = readCSV(f, priceHeader, func(c csvRecord) error {
		r, err := parsePriceRow(c)
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

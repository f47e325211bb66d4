// Package features builds the modeling dataset: price features from daily bars,
// and the left join of daily sentiment onto them.
package features

import (
	"errors"
	"fmt"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
)

// ErrDuplicateSentiment is returned when two daily sentiment rows share a (ticker, date).
var ErrDuplicateSentiment = errors.New("duplicate daily sentiment row")

type joinKey struct {
	ticker string
	day    time.Time
}

func keyOf(ticker string, t time.Time) joinKey {
	return joinKey{ticker: ticker, day: domain.TruncateDay(t)}
}

// Join left-joins daily sentiment onto price features by (ticker, calendar date).
// Every price row yields exactly one merged row, in input order. Price rows without
// sentiment get the neutral fill: zero means, std, count and momentum.
// A nil momentum on a matched row (the ticker's first sentiment day) is filled with 0.
func Join(prices []*domain.PriceFeatureRow, daily []*domain.DailySentiment) ([]*domain.MergedFeatureRow, error) {
	lookup := make(map[joinKey]*domain.DailySentiment, len(daily))
	for _, d := range daily {
		if d == nil {
			continue
		}
		k := keyOf(d.Ticker, d.Date)
		if _, dup := lookup[k]; dup {
			return nil, fmt.Errorf("%w: %s %s", ErrDuplicateSentiment, d.Ticker, k.day.Format(domain.DateLayout))
		}
		lookup[k] = d
	}

	out := make([]*domain.MergedFeatureRow, 0, len(prices))
	for _, p := range prices {
		if p == nil {
			continue
		}
		row := &domain.MergedFeatureRow{PriceFeatureRow: *p}
		if d, ok := lookup[keyOf(p.Ticker, p.Date)]; ok {
			row.MeanSentiment = d.MeanSentiment
			row.MedianSentiment = d.MedianSentiment
			row.SentimentStd = d.SentimentStd
			row.ArticleCount = d.ArticleCount
			if d.SentimentMomentum1D != nil {
				row.SentimentMomentum1D = *d.SentimentMomentum1D
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// Coverage counts merged rows that carry at least one article.
func Coverage(rows []*domain.MergedFeatureRow) int {
	n := 0
	for _, r := range rows {
		if r.ArticleCount > 0 {
			n++
		}
	}
	return n
}

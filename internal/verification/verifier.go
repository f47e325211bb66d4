// Package verification checks that stored outputs can be reproduced from the
// corpus and price features they were derived from.
package verification

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
)

// FloatTolerance is the tolerance for float64 comparisons.
const FloatTolerance = 1e-9

// FieldDivergence represents a mismatch between stored and replayed values.
type FieldDivergence struct {
	Table    string // "daily_sentiment" or "merged_features"
	Ticker   string
	Date     time.Time
	Field    string
	Expected interface{} // stored value
	Actual   interface{} // replayed value
}

func (d FieldDivergence) String() string {
	return fmt.Sprintf("%s %s %s %s: stored %v, replayed %v",
		d.Table, d.Ticker, d.Date.Format(domain.DateLayout), d.Field, d.Expected, d.Actual)
}

// TableReport compares one output table.
type TableReport struct {
	StoredRows   int
	ReplayedRows int
	Matched      int
	Missing      []string // keys replayed but not stored
	Extra        []string // keys stored but not replayed
	Divergences  []FieldDivergence
}

// Match reports whether stored and replayed rows are identical within tolerance.
func (r *TableReport) Match() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0 && len(r.Divergences) == 0
}

// Report contains results for one run key.
type Report struct {
	RunKey string
	Daily  TableReport
	Merged TableReport
}

// Match reports whether both tables reproduce.
func (r *Report) Match() bool {
	return r.Daily.Match() && r.Merged.Match()
}

type rowKey struct {
	ticker string
	date   time.Time
}

func (k rowKey) String() string {
	return k.ticker + "/" + k.date.Format(domain.DateLayout)
}

// CompareDailySentiment compares stored rows against replayed rows keyed by (ticker, date).
func CompareDailySentiment(stored, replayed []*domain.DailySentiment) TableReport {
	rep := TableReport{StoredRows: len(stored), ReplayedRows: len(replayed)}

	byKey := make(map[rowKey]*domain.DailySentiment, len(stored))
	for _, r := range stored {
		byKey[rowKey{r.Ticker, r.Date.UTC()}] = r
	}

	for _, want := range replayed {
		k := rowKey{want.Ticker, want.Date.UTC()}
		got, ok := byKey[k]
		if !ok {
			rep.Missing = append(rep.Missing, k.String())
			continue
		}
		delete(byKey, k)

		divs := compareSentimentFields("daily_sentiment", k, got, want)
		if !floatPtrEquals(got.SentimentMomentum1D, want.SentimentMomentum1D) {
			divs = append(divs, divergence("daily_sentiment", k, "SentimentMomentum1D",
				got.SentimentMomentum1D, want.SentimentMomentum1D))
		}
		if len(divs) == 0 {
			rep.Matched++
		}
		rep.Divergences = append(rep.Divergences, divs...)
	}

	rep.Extra = remainingKeys(byKey)
	return rep
}

// CompareMergedFeatures compares stored merged rows against replayed rows keyed by (ticker, date).
func CompareMergedFeatures(stored, replayed []*domain.MergedFeatureRow) TableReport {
	rep := TableReport{StoredRows: len(stored), ReplayedRows: len(replayed)}

	byKey := make(map[rowKey]*domain.MergedFeatureRow, len(stored))
	for _, r := range stored {
		byKey[rowKey{r.Ticker, r.Date.UTC()}] = r
	}

	for _, want := range replayed {
		k := rowKey{want.Ticker, want.Date.UTC()}
		got, ok := byKey[k]
		if !ok {
			rep.Missing = append(rep.Missing, k.String())
			continue
		}
		delete(byKey, k)

		var divs []FieldDivergence
		if !floatEquals(got.AdjClose, want.AdjClose) {
			divs = append(divs, divergence("merged_features", k, "AdjClose", got.AdjClose, want.AdjClose))
		}
		if !floatPtrEquals(got.Return, want.Return) {
			divs = append(divs, divergence("merged_features", k, "Return", got.Return, want.Return))
		}
		if !floatEquals(got.MeanSentiment, want.MeanSentiment) {
			divs = append(divs, divergence("merged_features", k, "MeanSentiment", got.MeanSentiment, want.MeanSentiment))
		}
		if !floatEquals(got.MedianSentiment, want.MedianSentiment) {
			divs = append(divs, divergence("merged_features", k, "MedianSentiment", got.MedianSentiment, want.MedianSentiment))
		}
		if !floatEquals(got.SentimentStd, want.SentimentStd) {
			divs = append(divs, divergence("merged_features", k, "SentimentStd", got.SentimentStd, want.SentimentStd))
		}
		if got.ArticleCount != want.ArticleCount {
			divs = append(divs, divergence("merged_features", k, "ArticleCount", got.ArticleCount, want.ArticleCount))
		}
		if !floatEquals(got.SentimentMomentum1D, want.SentimentMomentum1D) {
			divs = append(divs, divergence("merged_features", k, "SentimentMomentum1D",
				got.SentimentMomentum1D, want.SentimentMomentum1D))
		}

		if len(divs) == 0 {
			rep.Matched++
		}
		rep.Divergences = append(rep.Divergences, divs...)
	}

	rep.Extra = remainingKeys(byKey)
	return rep
}

func compareSentimentFields(table string, k rowKey, got, want *domain.DailySentiment) []FieldDivergence {
	var divs []FieldDivergence
	if !floatEquals(got.MeanSentiment, want.MeanSentiment) {
		divs = append(divs, divergence(table, k, "MeanSentiment", got.MeanSentiment, want.MeanSentiment))
	}
	if !floatEquals(got.MedianSentiment, want.MedianSentiment) {
		divs = append(divs, divergence(table, k, "MedianSentiment", got.MedianSentiment, want.MedianSentiment))
	}
	if !floatEquals(got.SentimentStd, want.SentimentStd) {
		divs = append(divs, divergence(table, k, "SentimentStd", got.SentimentStd, want.SentimentStd))
	}
	if got.ArticleCount != want.ArticleCount {
		divs = append(divs, divergence(table, k, "ArticleCount", got.ArticleCount, want.ArticleCount))
	}
	return divs
}

func divergence(table string, k rowKey, field string, expected, actual interface{}) FieldDivergence {
	return FieldDivergence{Table: table, Ticker: k.ticker, Date: k.date, Field: field, Expected: deref(expected), Actual: deref(actual)}
}

// deref prints nil pointers as <nil> and others by value.
func deref(v interface{}) interface{} {
	if p, ok := v.(*float64); ok {
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}

func remainingKeys[T any](m map[rowKey]T) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}

// floatEquals compares two float64 values within FloatTolerance.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= FloatTolerance
}

// floatPtrEquals compares two *float64 values within FloatTolerance.
// Returns true if both are nil, or both are non-nil and equal.
func floatPtrEquals(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return floatEquals(*a, *b)
}

// Package aggregation turns the linked, scored corpus into daily per-ticker sentiment rows.
package aggregation

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/stats"
)

// SignalMode selects the per-article value that is aggregated.
type SignalMode string

const (
	// SignalConfidence aggregates the raw scorer confidence.
	SignalConfidence SignalMode = "confidence"
	// SignalSigned aggregates confidence signed by label: negative -x, neutral 0, positive +x.
	SignalSigned SignalMode = "signed"
)

// ParseSignalMode validates a configured mode. Empty selects SignalConfidence.
func ParseSignalMode(s string) (SignalMode, error) {
	switch SignalMode(s) {
	case "", SignalConfidence:
		return SignalConfidence, nil
	case SignalSigned:
		return SignalSigned, nil
	default:
		return "", fmt.Errorf("unknown signal mode %q (want %q or %q)", s, SignalConfidence, SignalSigned)
	}
}

// Result holds aggregated rows plus counts of articles that could not contribute.
type Result struct {
	Rows        []*domain.DailySentiment // sorted by ticker, date
	Unparseable int                      // dropped: published date did not parse
	Unscored    int                      // dropped: no sentiment score
	Unlinked    int                      // dropped: no tickers
}

// Aggregator groups articles by (ticker, day).
type Aggregator struct {
	mode   SignalMode
	logger *slog.Logger
}

// NewAggregator creates an Aggregator. A nil logger uses slog.Default().
func NewAggregator(mode SignalMode, logger *slog.Logger) *Aggregator {
	if mode == "" {
		mode = SignalConfidence
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{mode: mode, logger: logger}
}

// Mode returns the configured signal mode.
func (a *Aggregator) Mode() SignalMode {
	return a.mode
}

type groupKey struct {
	ticker string
	day    time.Time
}

// Aggregate computes one row per (ticker, day) that has at least one scored, linked article.
// An article linked to several tickers contributes in full to each of them.
// Momentum compares against the previous row of the same ticker, across calendar gaps.
func (a *Aggregator) Aggregate(articles []*domain.Article) *Result {
	res := &Result{Rows: []*domain.DailySentiment{}}
	groups := make(map[groupKey][]float64)

	for _, art := range articles {
		if art == nil {
			continue
		}
		if len(art.Tickers) == 0 {
			res.Unlinked++
			continue
		}
		if !art.Scored() {
			res.Unscored++
			continue
		}
		day, err := ParseDate(art.Published)
		if err != nil {
			res.Unparseable++
			a.logger.Warn("dropping article with unparseable date",
				"link", art.Link, "published", art.Published)
			continue
		}

		value := a.signal(art)
		seen := make(map[string]struct{}, len(art.Tickers))
		for _, ticker := range art.Tickers {
			if _, dup := seen[ticker]; dup {
				continue
			}
			seen[ticker] = struct{}{}
			k := groupKey{ticker: ticker, day: day}
			groups[k] = append(groups[k], value)
		}
	}

	for k, values := range groups {
		mean := stats.Mean(values)
		res.Rows = append(res.Rows, &domain.DailySentiment{
			Ticker:          k.ticker,
			Date:            k.day,
			MeanSentiment:   mean,
			MedianSentiment: stats.Median(values),
			SentimentStd:    stats.PopulationStd(values, mean),
			ArticleCount:    len(values),
		})
	}

	sort.Slice(res.Rows, func(i, j int) bool {
		if res.Rows[i].Ticker != res.Rows[j].Ticker {
			return res.Rows[i].Ticker < res.Rows[j].Ticker
		}
		return res.Rows[i].Date.Before(res.Rows[j].Date)
	})
	applyMomentum(res.Rows)

	return res
}

// applyMomentum sets mean[i] - mean[i-1] within each ticker. Rows must be sorted by ticker, date.
func applyMomentum(rows []*domain.DailySentiment) {
	for i, r := range rows {
		if i == 0 || rows[i-1].Ticker != r.Ticker {
			r.SentimentMomentum1D = nil
			continue
		}
		m := r.MeanSentiment - rows[i-1].MeanSentiment
		r.SentimentMomentum1D = &m
	}
}

func (a *Aggregator) signal(art *domain.Article) float64 {
	score := *art.SentimentScore
	if a.mode == SignalSigned {
		if art.SentimentLabel == nil {
			return 0
		}
		return art.SentimentLabel.Sign() * score
	}
	return score
}

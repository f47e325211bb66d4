package reporting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/stats"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// Sufficiency thresholds.
const (
	MinMergedRows = 1
	MinCoverage   = 0.01 // share of merged rows carrying news
	TopDays       = 5
)

// Generator produces reports from stored outputs.
type Generator struct {
	outputs storage.OutputStore
	runs    storage.RunStore // optional
	now     func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. runs may be nil.
func NewGenerator(outputs storage.OutputStore, runs storage.RunStore) *Generator {
	return &Generator{
		outputs: outputs,
		runs:    runs,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the report for runKey. Returns storage.ErrNotFound if the run has no outputs.
func (g *Generator) Generate(ctx context.Context, runKey string) (*Report, error) {
	daily, err := g.outputs.ReadDailySentiment(ctx, runKey)
	if err != nil {
		return nil, fmt.Errorf("read daily sentiment: %w", err)
	}
	merged, err := g.outputs.ReadFeatures(ctx, runKey)
	if err != nil {
		return nil, fmt.Errorf("read merged features: %w", err)
	}

	var lastRun *storage.RunRecord
	if g.runs != nil {
		lastRun, err = g.runs.GetLast(ctx, runKey)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("get last run: %w", err)
		}
	}

	summary := generateDataSummary(daily, merged)
	positive, negative := generateTopDays(daily, TopDays)

	return &Report{
		GeneratedAt: g.now(),
		RunKey:      runKey,
		LastRun:     lastRun,
		DataSummary: summary,
		DataQuality: generateDataQuality(summary, lastRun),
		Tickers:     generateTickerSummary(daily),
		TopPositive: positive,
		TopNegative: negative,
	}, nil
}

func generateDataSummary(daily []*domain.DailySentiment, merged []*domain.MergedFeatureRow) DataSummary {
	s := DataSummary{DailyRows: len(daily), MergedRows: len(merged)}

	tickers := make(map[string]struct{})
	for _, r := range daily {
		tickers[r.Ticker] = struct{}{}
		s.TotalArticles += r.ArticleCount
	}
	for _, r := range merged {
		tickers[r.Ticker] = struct{}{}
		if s.DateRangeStart.IsZero() || r.Date.Before(s.DateRangeStart) {
			s.DateRangeStart = r.Date
		}
		if r.Date.After(s.DateRangeEnd) {
			s.DateRangeEnd = r.Date
		}
		if r.ArticleCount > 0 {
			s.CoveredRows++
		}
	}
	s.Tickers = len(tickers)
	if s.MergedRows > 0 {
		s.Coverage = float64(s.CoveredRows) / float64(s.MergedRows)
	}
	return s
}

func generateDataQuality(s DataSummary, lastRun *storage.RunRecord) DataQualitySection {
	checks := []SufficiencyCheckRow{
		{
			Name:      "Merged rows",
			Threshold: fmt.Sprintf(">= %d", MinMergedRows),
			Actual:    fmt.Sprintf("%d", s.MergedRows),
			Pass:      s.MergedRows >= MinMergedRows,
		},
		{
			Name:      "News coverage",
			Threshold: fmt.Sprintf(">= %.2f%%", MinCoverage*100),
			Actual:    fmt.Sprintf("%.2f%%", s.Coverage*100),
			Pass:      s.Coverage >= MinCoverage,
		},
	}
	if lastRun != nil {
		checks = append(checks, SufficiencyCheckRow{
			Name:      "Last run status",
			Threshold: storage.RunStatusSuccess,
			Actual:    lastRun.Status,
			Pass:      lastRun.Status == storage.RunStatusSuccess,
		})
	}

	all := true
	for _, c := range checks {
		all = all && c.Pass
	}
	return DataQualitySection{SufficiencyChecks: checks, AllChecksPassed: all}
}

// generateTickerSummary groups daily rows by ticker. Input rows are sorted by ticker, date.
func generateTickerSummary(daily []*domain.DailySentiment) []TickerSummaryRow {
	byTicker := make(map[string][]*domain.DailySentiment)
	for _, r := range daily {
		byTicker[r.Ticker] = append(byTicker[r.Ticker], r)
	}

	rows := make([]TickerSummaryRow, 0, len(byTicker))
	for ticker, days := range byTicker {
		sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

		means := make([]float64, len(days))
		articles := 0
		for i, d := range days {
			means[i] = d.MeanSentiment
			articles += d.ArticleCount
		}
		mean := stats.Mean(means)
		sorted := append([]float64(nil), means...)
		sort.Float64s(sorted)
		last := days[len(days)-1]

		rows = append(rows, TickerSummaryRow{
			Ticker:        ticker,
			Days:          len(days),
			Articles:      articles,
			MeanSentiment: mean,
			StdSentiment:  stats.PopulationStd(means, mean),
			P10Sentiment:  stats.Percentile(sorted, 0.10),
			P90Sentiment:  stats.Percentile(sorted, 0.90),
			LastDate:      last.Date,
			LastMean:      last.MeanSentiment,
		})
	}

	sortTickerRows(rows)
	return rows
}

// generateTopDays returns the n highest and n lowest daily means.
// Ties break on ticker then date so output is deterministic.
func generateTopDays(daily []*domain.DailySentiment, n int) (positive, negative []SentimentDayRow) {
	rows := make([]SentimentDayRow, len(daily))
	for i, r := range daily {
		rows[i] = SentimentDayRow{Ticker: r.Ticker, Date: r.Date, MeanSentiment: r.MeanSentiment, ArticleCount: r.ArticleCount}
	}
	tieBreak := func(a, b SentimentDayRow) bool {
		if a.Ticker != b.Ticker {
			return a.Ticker < b.Ticker
		}
		return a.Date.Before(b.Date)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].MeanSentiment != rows[j].MeanSentiment {
			return rows[i].MeanSentiment > rows[j].MeanSentiment
		}
		return tieBreak(rows[i], rows[j])
	})
	positive = append(positive, rows[:min(n, len(rows))]...)

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].MeanSentiment != rows[j].MeanSentiment {
			return rows[i].MeanSentiment < rows[j].MeanSentiment
		}
		return tieBreak(rows[i], rows[j])
	})
	negative = append(negative, rows[:min(n, len(rows))]...)
	return positive, negative
}

// sortTickerRows sorts by articles DESC, then ticker ASC.
func sortTickerRows(rows []TickerSummaryRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Articles != rows[j].Articles {
			return rows[i].Articles > rows[j].Articles
		}
		return rows[i].Ticker < rows[j].Ticker
	})
}

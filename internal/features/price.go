package features

import (
	"math"
	"sort"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/stats"
)

// Window sizes for the price features.
const (
	VolWindow        = 20
	ShortMAWindow    = 10
	LongMAWindow     = 50
	MomentumLookback = 10
)

// ComputePriceFeatures derives per-ticker daily features from bars.
// Bars are sorted by (ticker, date) internally so LAG and rolling windows are correct.
//
//   - return = adj[t]/adj[t-1] - 1, NULL if first row
//   - log_return = ln(adj[t]/adj[t-1]), NULL if first row
//   - vol_20d = sample std of the last 20 returns, NULL until 20 returns exist
//   - ma_10, ma_50 = rolling mean of adj close, NULL until the window is full
//   - mom_10 = adj[t]/adj[t-10] - 1, NULL for the first 10 rows
func ComputePriceFeatures(bars []*domain.PriceBar) []*domain.PriceFeatureRow {
	if len(bars) == 0 {
		return nil
	}

	sorted := make([]*domain.PriceBar, 0, len(bars))
	for _, b := range bars {
		if b != nil {
			sorted = append(sorted, b)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Ticker != sorted[j].Ticker {
			return sorted[i].Ticker < sorted[j].Ticker
		}
		return sorted[i].Date.Before(sorted[j].Date)
	})

	result := make([]*domain.PriceFeatureRow, 0, len(sorted))

	var (
		ticker  string
		closes  []float64
		returns []*float64
	)
	for _, b := range sorted {
		if b.Ticker != ticker {
			ticker = b.Ticker
			closes = closes[:0]
			returns = returns[:0]
		}

		row := &domain.PriceFeatureRow{
			Ticker:   b.Ticker,
			Date:     domain.TruncateDay(b.Date),
			AdjClose: b.AdjClose,
		}

		var ret *float64
		if n := len(closes); n > 0 {
			prev := closes[n-1]
			if prev != 0 {
				r := b.AdjClose/prev - 1
				ret = &r
				if b.AdjClose > 0 && prev > 0 {
					lr := math.Log(b.AdjClose / prev)
					row.LogReturn = &lr
				}
			}
		}
		row.Return = ret

		closes = append(closes, b.AdjClose)
		returns = append(returns, ret)

		row.Vol20D = rollingStd(returns, VolWindow)
		row.MA10 = rollingMean(closes, ShortMAWindow)
		row.MA50 = rollingMean(closes, LongMAWindow)

		if n := len(closes); n > MomentumLookback {
			base := closes[n-1-MomentumLookback]
			if base != 0 {
				m := b.AdjClose/base - 1
				row.Mom10 = &m
			}
		}

		result = append(result, row)
	}

	return result
}

// rollingMean averages the last window values, nil while fewer are available.
func rollingMean(values []float64, window int) *float64 {
	if len(values) < window {
		return nil
	}
	m := stats.Mean(values[len(values)-window:])
	return &m
}

// rollingStd is the sample std of the last window values; any NULL in the window yields NULL.
func rollingStd(values []*float64, window int) *float64 {
	if len(values) < window {
		return nil
	}
	tail := make([]float64, 0, window)
	for _, v := range values[len(values)-window:] {
		if v == nil {
			return nil
		}
		tail = append(tail, *v)
	}
	s, ok := stats.SampleStd(tail, stats.Mean(tail))
	if !ok {
		return nil
	}
	return &s
}

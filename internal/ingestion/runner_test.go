package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/observability"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage/memory"
)

func TestRunner_IngestFeedsMergesSameDay(t *testing.T) {
	srv := feedServer(t)
	batches := memory.NewBatchStore()
	metrics := observability.NewMetrics("")
	r := NewRunner(RunnerOptions{
		Fetcher: NewFetcher(FetcherOptions{UserAgent: "test-agent", Clock: fixedClock, Metrics: metrics}),
		Sources: []FeedSource{{Name: "alpha", URL: srv.URL + "/alpha"}},
		Batches: batches,
		Clock:   fixedClock,
		Metrics: metrics,
	})
	ctx := context.Background()

	first, err := r.IngestFeeds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Saved)
	assert.Equal(t, "2024-01-02", first.Day.Format(domain.DateLayout))

	second, err := r.IngestFeeds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Existing)
	assert.Equal(t, 2, second.Saved)

	stored, err := batches.LoadRaw(ctx, first.Day)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.ArticlesFetched.WithLabelValues("alpha")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RawBatchSize))
}

func TestRunner_IngestMarket(t *testing.T) {
	prices := memory.NewPriceFeatureStore()
	r := NewRunner(RunnerOptions{Prices: prices})
	csv := `date,ticker,open,high,low,close,adj_close,volume
2024-01-02,PFE,1,1,1,10,10,1
2024-01-03,PFE,1,1,1,11,11,1
2024-01-02,MRK,1,1,1,100,100,1
`
	res, err := r.IngestMarket(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, &MarketResult{Bars: 3, Rows: 3, Tickers: 2}, res)

	rows, err := prices.GetByTicker(context.Background(), "PFE")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[1].Return)
	assert.InDelta(t, 0.1, *rows[1].Return, 1e-9)

	// Loading the same bars again violates the append-only key.
	_, err = r.IngestMarket(context.Background(), strings.NewReader(csv))
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey))
}

func TestRunner_RequiresStores(t *testing.T) {
	_, err := NewRunner(RunnerOptions{}).IngestFeeds(context.Background())
	assert.Error(t, err)
	_, err = NewRunner(RunnerOptions{}).IngestMarket(context.Background(), strings.NewReader(""))
	assert.Error(t, err)
}

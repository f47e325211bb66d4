package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/corpus"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/features"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/observability"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Fetcher *Fetcher
	Sources []FeedSource // default DefaultFeeds
	Batches storage.BatchStore
	Prices  storage.PriceFeatureStore
	Clock   func() time.Time
	Logger  *slog.Logger
	Metrics *observability.Metrics // optional
}

// Runner pulls raw inputs and persists them for the batch pipeline.
type Runner struct {
	fetcher *Fetcher
	sources []FeedSource
	batches storage.BatchStore
	prices  storage.PriceFeatureStore
	clock   func() time.Time
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewRunner creates a new ingestion runner.
func NewRunner(opts RunnerOptions) *Runner {
	sources := opts.Sources
	if len(sources) == 0 {
		sources = DefaultFeeds
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		fetcher: opts.Fetcher,
		sources: sources,
		batches: opts.Batches,
		prices:  opts.Prices,
		clock:   clock,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// IngestResult describes one IngestFeeds call.
type IngestResult struct {
	Day      time.Time
	Fetched  int
	Existing int
	Saved    int
}

// IngestFeeds pulls every feed and stores the articles as the raw batch for the current UTC day.
// Repeated pulls on the same day are merged into that day's batch by link.
func (r *Runner) IngestFeeds(ctx context.Context) (*IngestResult, error) {
	if r.fetcher == nil || r.batches == nil {
		return nil, fmt.Errorf("ingest feeds: fetcher and batch store are required")
	}
	day := domain.TruncateDay(r.clock().UTC())

	fetched, err := r.fetcher.FetchAll(ctx, r.sources)
	if err != nil {
		return nil, fmt.Errorf("fetch feeds: %w", err)
	}

	existing, err := r.batches.LoadRaw(ctx, day)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load raw batch: %w", err)
	}

	batch := corpus.Append(existing, fetched)
	if err := r.batches.SaveRaw(ctx, day, batch); err != nil {
		return nil, fmt.Errorf("save raw batch: %w", err)
	}

	res := &IngestResult{Day: day, Fetched: len(fetched), Existing: len(existing), Saved: len(batch)}
	r.metrics.RecordIngestion(res.Saved, r.clock())
	r.logger.Info("raw batch saved",
		"day", day.Format(domain.DateLayout), "fetched", res.Fetched,
		"existing", res.Existing, "saved", res.Saved)
	return res, nil
}

// MarketResult describes one IngestMarket call.
type MarketResult struct {
	Bars    int
	Rows    int
	Tickers int
}

// IngestMarket reads daily bars from CSV, derives price features and appends them to the store.
func (r *Runner) IngestMarket(ctx context.Context, in io.Reader) (*MarketResult, error) {
	if r.prices == nil {
		return nil, fmt.Errorf("ingest market: price feature store is required")
	}

	bars, err := ReadPriceBarsCSV(in)
	if err != nil {
		return nil, err
	}
	rows := features.ComputePriceFeatures(bars)
	if err := r.prices.InsertBulk(ctx, rows); err != nil {
		return nil, fmt.Errorf("insert price features: %w", err)
	}

	tickers := make(map[string]struct{})
	for _, row := range rows {
		tickers[row.Ticker] = struct{}{}
	}
	res := &MarketResult{Bars: len(bars), Rows: len(rows), Tickers: len(tickers)}
	r.metrics.RecordPriceRows(res.Rows)
	r.logger.Info("price features stored", "bars", res.Bars, "rows", res.Rows, "tickers", res.Tickers)
	return res, nil
}

// Package pipeline runs the batch job: link, score, merge into the corpus,
// aggregate daily sentiment and join it onto the price features.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/aggregation"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/corpus"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/features"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/linking"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/observability"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/sentiment"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/vocabulary"
)

// ErrMissingInput is returned when an artifact the run depends on is absent.
var ErrMissingInput = errors.New("missing input")

// Run modes, used as the metrics label.
const (
	modeSingle = "single"
	modeAll    = "all"
)

// Options contains configuration for creating a Driver.
type Options struct {
	// Required stores
	Batches storage.BatchStore
	Corpus  storage.CorpusStore
	Prices  storage.PriceFeatureStore
	Outputs storage.OutputStore

	// Optional run history
	Runs storage.RunStore

	Linker     *linking.Linker         // default: linker over vocabulary.Default()
	Scorer     sentiment.Scorer        // required for single-date runs
	Aggregator *aggregation.Aggregator // default: confidence signal
	Metrics    *observability.Metrics  // optional
	Logger     *slog.Logger
	Clock      func() time.Time
}

// Driver executes pipeline runs. Runs against the same stores must not overlap.
type Driver struct {
	batches    storage.BatchStore
	prices     storage.PriceFeatureStore
	outputs    storage.OutputStore
	runs       storage.RunStore
	updater    *corpus.Updater
	linker     *linking.Linker
	scorer     sentiment.Scorer
	aggregator *aggregation.Aggregator
	metrics    *observability.Metrics
	logger     *slog.Logger
	clock      func() time.Time
}

// NewDriver creates a Driver.
func NewDriver(opts Options) (*Driver, error) {
	if opts.Batches == nil || opts.Corpus == nil || opts.Prices == nil || opts.Outputs == nil {
		return nil, fmt.Errorf("new driver: batch, corpus, price and output stores are required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	linker := opts.Linker
	if linker == nil {
		linker = linking.NewLinker(vocabulary.Default())
	}
	agg := opts.Aggregator
	if agg == nil {
		agg = aggregation.NewAggregator(aggregation.SignalConfidence, logger)
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Driver{
		batches:    opts.Batches,
		prices:     opts.Prices,
		outputs:    opts.Outputs,
		runs:       opts.Runs,
		updater:    corpus.NewUpdater(opts.Corpus, logger),
		linker:     linker,
		scorer:     opts.Scorer,
		aggregator: agg,
		metrics:    opts.Metrics,
		logger:     logger,
		clock:      clock,
	}, nil
}

// RunResult describes one completed run.
type RunResult struct {
	RunID       string
	RunKey      string
	Articles    int // articles processed: the day's batch, or the consolidated corpus
	Linked      int
	Scored      int
	CorpusSize  int
	Duplicates  int // dropped by link on merge, or by (title, published) on consolidation
	Unparseable int
	DailyRows   int
	MergedRows  int
	Covered     int // merged rows with at least one article
	Duration    time.Duration
}

// Run executes one run for a single date or, for domain.AllDates(), over the whole corpus.
// A missing raw batch, corpus or price feature set fails with ErrMissingInput
// before anything is written.
func (d *Driver) Run(ctx context.Context, rd domain.RunDate) (*RunResult, error) {
	start := d.clock()
	res := &RunResult{RunID: uuid.NewString(), RunKey: rd.Key()}
	logger := d.logger.With("run_id", res.RunID, "run_key", res.RunKey)
	logger.Info("pipeline run started")

	mode := modeSingle
	var err error
	if rd.All {
		mode = modeAll
		err = d.runAll(ctx, logger, res)
	} else {
		err = d.runDay(ctx, logger, rd.Day, res)
	}

	finished := d.clock()
	res.Duration = finished.Sub(start)

	status := storage.RunStatusSuccess
	if err != nil {
		status = storage.RunStatusFailure
	}
	d.metrics.RecordPipelineRun(mode, status, res.Duration, finished)
	recErr := d.record(ctx, res, status, start, finished, err)

	if err != nil {
		logger.Error("pipeline run failed", "error", err, "duration", res.Duration)
		if recErr != nil {
			logger.Warn("failed to record run", "error", recErr)
		}
		return nil, err
	}
	if recErr != nil {
		return nil, recErr
	}

	logger.Info("pipeline run completed",
		"articles", res.Articles, "linked", res.Linked, "scored", res.Scored,
		"corpus_size", res.CorpusSize, "daily_rows", res.DailyRows,
		"merged_rows", res.MergedRows, "duration", res.Duration)
	return res, nil
}

// runDay processes the raw batch captured on day.
func (d *Driver) runDay(ctx context.Context, logger *slog.Logger, day time.Time, res *RunResult) error {
	if d.scorer == nil {
		return fmt.Errorf("run %s: no sentiment scorer configured", res.RunKey)
	}

	batch, err := d.batches.LoadRaw(ctx, day)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: no raw batch for %s", ErrMissingInput, res.RunKey)
		}
		return fmt.Errorf("load raw batch: %w", err)
	}
	prices, err := d.loadPrices(ctx)
	if err != nil {
		return err
	}
	res.Articles = len(batch)

	for _, a := range batch {
		a.FullText = domain.BuildFullText(a.Title, a.Summary)
	}
	d.link(logger, batch, res)

	scoreStart := d.clock()
	stats, err := sentiment.ScoreBatch(ctx, d.scorer, batch)
	if err != nil {
		return fmt.Errorf("score batch: %w", err)
	}
	res.Scored = stats.Scored
	d.metrics.RecordScoring(labelCounts(stats.ByLabel), d.clock().Sub(scoreStart))
	logger.Info("batch scored", "scored", stats.Scored, "skipped", stats.Skipped)

	if err := d.batches.SaveProcessed(ctx, res.RunKey, batch); err != nil {
		return fmt.Errorf("save processed batch: %w", err)
	}

	merge, err := d.updater.Merge(ctx, batch)
	if err != nil {
		return err
	}
	res.CorpusSize = merge.After
	res.Duplicates = merge.Duplicates

	return d.emit(ctx, logger, merge.Corpus, prices, res)
}

// runAll consolidates the corpus, relinks it and rebuilds every output under the "all" key.
func (d *Driver) runAll(ctx context.Context, logger *slog.Logger, res *RunResult) error {
	prices, err := d.loadPrices(ctx)
	if err != nil {
		return err
	}

	rebuild, err := d.updater.Rebuild(ctx, func(articles []*domain.Article) error {
		for _, a := range articles {
			if a.FullText == "" {
				a.FullText = domain.BuildFullText(a.Title, a.Summary)
			}
		}
		d.link(logger, articles, res)
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: no corpus to rebuild", ErrMissingInput)
		}
		return err
	}
	res.Articles = rebuild.After
	res.CorpusSize = rebuild.After
	res.Duplicates = rebuild.Removed
	for _, a := range rebuild.Corpus {
		if a.Scored() {
			res.Scored++
		}
	}

	return d.emit(ctx, logger, rebuild.Corpus, prices, res)
}

// link tags articles with tickers. No match across the whole batch is only a warning.
func (d *Driver) link(logger *slog.Logger, articles []*domain.Article, res *RunResult) {
	stats := d.linker.LinkBatch(articles)
	res.Linked = stats.Linked
	d.metrics.RecordLinking(stats.Linked, stats.Unlinked, stats.Mentions)

	if stats.Articles > 0 && stats.Linked == 0 {
		logger.Warn("no tickers matched in batch", "articles", stats.Articles)
		return
	}
	logger.Info("batch linked", "linked", stats.Linked, "unlinked", stats.Unlinked, "mentions", stats.Mentions)
}

// emit aggregates the corpus, joins it onto prices and writes both outputs.
func (d *Driver) emit(ctx context.Context, logger *slog.Logger, articles []*domain.Article, prices []*domain.PriceFeatureRow, res *RunResult) error {
	agg := d.aggregator.Aggregate(articles)
	res.Unparseable = agg.Unparseable
	res.DailyRows = len(agg.Rows)
	if len(agg.Rows) == 0 {
		logger.Warn("no daily sentiment rows", "unscored", agg.Unscored, "unlinked", agg.Unlinked)
	}

	merged, err := features.Join(prices, agg.Rows)
	if err != nil {
		return fmt.Errorf("join features: %w", err)
	}
	res.MergedRows = len(merged)
	res.Covered = features.Coverage(merged)

	if err := d.outputs.WriteDailySentiment(ctx, res.RunKey, agg.Rows); err != nil {
		return fmt.Errorf("write daily sentiment: %w", err)
	}
	if err := d.outputs.WriteFeatures(ctx, res.RunKey, merged); err != nil {
		return fmt.Errorf("write merged features: %w", err)
	}

	d.metrics.RecordOutputs(res.CorpusSize, res.Unparseable, res.DailyRows, res.MergedRows, res.Covered)
	return nil
}

func (d *Driver) loadPrices(ctx context.Context) ([]*domain.PriceFeatureRow, error) {
	prices, err := d.prices.GetAll(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: no price features", ErrMissingInput)
		}
		return nil, fmt.Errorf("load price features: %w", err)
	}
	return prices, nil
}

// record stores the run in the run history, if one is configured.
func (d *Driver) record(ctx context.Context, res *RunResult, status string, start, finished time.Time, runErr error) error {
	if d.runs == nil {
		return nil
	}
	rec := &storage.RunRecord{
		RunID:      res.RunID,
		RunKey:     res.RunKey,
		Status:     status,
		StartedAt:  start.UTC(),
		FinishedAt: finished.UTC(),
		Articles:   res.Articles,
		CorpusSize: res.CorpusSize,
		DailyRows:  res.DailyRows,
		MergedRows: res.MergedRows,
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	// A canceled run still gets its record.
	if err := d.runs.Insert(context.WithoutCancel(ctx), rec); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func labelCounts(byLabel map[domain.SentimentLabel]int) map[string]int {
	out := make(map[string]int, len(byLabel))
	for l, n := range byLabel {
		out[l.String()] = n
	}
	return out
}

package verification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/aggregation"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/features"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// OutputVerifier replays aggregation and the feature join from the current corpus
// and price features, then compares the result with the stored outputs of a run key.
// A single-date key only reproduces while the corpus is unchanged since that run.
type OutputVerifier struct {
	corpus     storage.CorpusStore
	prices     storage.PriceFeatureStore
	outputs    storage.OutputStore
	aggregator *aggregation.Aggregator
	logger     *slog.Logger
}

// NewOutputVerifier creates a verifier. aggregator must use the signal mode the outputs were built with.
func NewOutputVerifier(
	corpus storage.CorpusStore,
	prices storage.PriceFeatureStore,
	outputs storage.OutputStore,
	aggregator *aggregation.Aggregator,
	logger *slog.Logger,
) *OutputVerifier {
	if aggregator == nil {
		aggregator = aggregation.NewAggregator(aggregation.SignalConfidence, logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OutputVerifier{
		corpus:     corpus,
		prices:     prices,
		outputs:    outputs,
		aggregator: aggregator,
		logger:     logger,
	}
}

// Verify compares stored outputs for runKey with a fresh replay.
func (v *OutputVerifier) Verify(ctx context.Context, runKey string) (*Report, error) {
	storedDaily, err := v.outputs.ReadDailySentiment(ctx, runKey)
	if err != nil {
		return nil, fmt.Errorf("read stored daily sentiment: %w", err)
	}
	storedMerged, err := v.outputs.ReadFeatures(ctx, runKey)
	if err != nil {
		return nil, fmt.Errorf("read stored merged features: %w", err)
	}

	articles, err := v.corpus.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	prices, err := v.prices.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load price features: %w", err)
	}

	agg := v.aggregator.Aggregate(articles)
	merged, err := features.Join(prices, agg.Rows)
	if err != nil {
		return nil, fmt.Errorf("join features: %w", err)
	}

	rep := &Report{
		RunKey: runKey,
		Daily:  CompareDailySentiment(storedDaily, agg.Rows),
		Merged: CompareMergedFeatures(storedMerged, merged),
	}
	v.logger.Info("outputs verified",
		"run_key", runKey, "match", rep.Match(),
		"daily_matched", rep.Daily.Matched, "daily_divergences", len(rep.Daily.Divergences),
		"merged_matched", rep.Merged.Matched, "merged_divergences", len(rep.Merged.Divergences))
	return rep, nil
}

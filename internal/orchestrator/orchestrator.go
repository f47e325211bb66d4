// Package orchestrator sequences the scheduled jobs.
// It coordinates: feed ingestion → pipeline run → metrics push
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/ingestion"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/observability"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/pipeline"
)

// Ingester pulls the day's raw batch.
type Ingester interface {
	IngestFeeds(ctx context.Context) (*ingestion.IngestResult, error)
}

// Processor runs the pipeline for one run date.
type Processor interface {
	Run(ctx context.Context, rd domain.RunDate) (*pipeline.RunResult, error)
}

// Options for creating Orchestrator.
type Options struct {
	Ingester  Ingester  // required for Daily
	Processor Processor // required

	Metrics *observability.Metrics // optional
	PushURL string                 // Pushgateway URL; empty disables pushing
	Job     string                 // Pushgateway job name, default "newsfeatures"
	Logger  *slog.Logger
}

// Orchestrator coordinates the scheduled jobs.
type Orchestrator struct {
	ingester  Ingester
	processor Processor
	metrics   *observability.Metrics
	pushURL   string
	job       string
	logger    *slog.Logger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	job := opts.Job
	if job == "" {
		job = observability.DefaultNamespace
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		ingester:  opts.Ingester,
		processor: opts.Processor,
		metrics:   opts.Metrics,
		pushURL:   opts.PushURL,
		job:       job,
		logger:    logger,
	}
}

// DailyResult contains results from one Daily call.
type DailyResult struct {
	Ingest *ingestion.IngestResult
	Run    *pipeline.RunResult
}

// Daily ingests today's feeds and runs the pipeline for the ingested day.
// Phases:
//  1. Ingest feeds into the day's raw batch
//  2. Run the pipeline for that day
//  3. Push metrics
func (o *Orchestrator) Daily(ctx context.Context) (*DailyResult, error) {
	if o.ingester == nil {
		return nil, fmt.Errorf("daily: no ingester configured")
	}
	defer o.push(ctx)

	o.logger.Info("phase 1: ingesting feeds")
	ingested, err := o.ingester.IngestFeeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("phase 1 (ingest) failed: %w", err)
	}

	o.logger.Info("phase 2: running pipeline", "day", ingested.Day.Format(domain.DateLayout))
	run, err := o.processor.Run(ctx, domain.OnDay(ingested.Day))
	if err != nil {
		return nil, fmt.Errorf("phase 2 (pipeline) failed: %w", err)
	}

	return &DailyResult{Ingest: ingested, Run: run}, nil
}

// Run runs the pipeline once for rd and pushes metrics.
func (o *Orchestrator) Run(ctx context.Context, rd domain.RunDate) (*pipeline.RunResult, error) {
	defer o.push(ctx)
	return o.processor.Run(ctx, rd)
}

// BackfillResult contains results from one Backfill call.
type BackfillResult struct {
	Processed []string // run keys that completed
	Skipped   []string // run keys without a raw batch
	Errors    []string
}

// Backfill runs every day in [from, to] in date order.
// Days without a raw batch are skipped; other failures are collected and the
// remaining days still run. Cancellation stops the backfill.
func (o *Orchestrator) Backfill(ctx context.Context, from, to time.Time) (*BackfillResult, error) {
	from, to = domain.TruncateDay(from), domain.TruncateDay(to)
	if to.Before(from) {
		return nil, fmt.Errorf("backfill: end %s before start %s",
			to.Format(domain.DateLayout), from.Format(domain.DateLayout))
	}
	defer o.push(ctx)

	result := &BackfillResult{}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rd := domain.OnDay(day)
		_, err := o.processor.Run(ctx, rd)
		switch {
		case err == nil:
			result.Processed = append(result.Processed, rd.Key())
		case errors.Is(err, pipeline.ErrMissingInput):
			// No batch for this day (or no prices at all); nothing to backfill.
			result.Skipped = append(result.Skipped, rd.Key())
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rd.Key(), err))
		}
	}

	o.logger.Info("backfill completed",
		"processed", len(result.Processed), "skipped", len(result.Skipped), "errors", len(result.Errors))
	return result, nil
}

// push sends metrics to the Pushgateway. Failures are logged, never returned.
func (o *Orchestrator) push(ctx context.Context) {
	if o.metrics == nil || o.pushURL == "" {
		return
	}
	if err := o.metrics.Push(context.WithoutCancel(ctx), o.pushURL, o.job); err != nil {
		o.logger.Warn("metrics push failed", "error", err)
	}
}

// Package observability provides Prometheus metrics for the batch jobs.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "newsfeatures"

// Metrics holds all Prometheus metrics for the application.
// All Record methods are safe on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Ingestion metrics
	ArticlesFetched  *prometheus.CounterVec
	FeedErrors       *prometheus.CounterVec
	RawBatchSize     prometheus.Gauge
	PriceRowsStored  prometheus.Counter
	LastIngestionRun prometheus.Gauge

	// Enrichment metrics
	ArticlesLinked   prometheus.Counter
	ArticlesUnlinked prometheus.Counter
	TickerMentions   prometheus.Counter
	ArticlesScored   *prometheus.CounterVec
	ScoringLatency   prometheus.Histogram

	// Aggregation metrics
	UnparseableDates prometheus.Counter
	CorpusSize       prometheus.Gauge
	DailyRows        prometheus.Gauge
	MergedRows       prometheus.Gauge
	CoveredRows      prometheus.Gauge

	// Pipeline metrics
	PipelineRunsTotal      *prometheus.CounterVec
	PipelineDuration       *prometheus.HistogramVec
	LastSuccessfulPipeline prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Ingestion metrics
		ArticlesFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "articles_fetched_total",
			Help:      "Total number of feed entries fetched by source",
		}, []string{"source"}),
		FeedErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "feed_errors_total",
			Help:      "Total number of feeds that failed to fetch or parse",
		}, []string{"source"}),
		RawBatchSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "raw_batch_articles",
			Help:      "Number of articles in the most recently saved raw batch",
		}),
		PriceRowsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "price_feature_rows_stored_total",
			Help:      "Total number of price feature rows stored",
		}),
		LastIngestionRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_ingestion_timestamp",
			Help:      "Unix timestamp of last successful feed ingestion",
		}),

		// Enrichment metrics
		ArticlesLinked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "linking",
			Name:      "articles_linked_total",
			Help:      "Total number of articles linked to at least one ticker",
		}),
		ArticlesUnlinked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "linking",
			Name:      "articles_unlinked_total",
			Help:      "Total number of articles with no ticker match",
		}),
		TickerMentions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "linking",
			Name:      "ticker_mentions_total",
			Help:      "Total number of (article, ticker) links",
		}),
		ArticlesScored: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "articles_scored_total",
			Help:      "Total number of articles scored by label",
		}, []string{"label"}),
		ScoringLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "batch_duration_seconds",
			Help:      "Time spent scoring one batch in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),

		// Aggregation metrics
		UnparseableDates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "unparseable_dates_total",
			Help:      "Total number of articles dropped from aggregation for an unparseable date",
		}),
		CorpusSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "corpus",
			Name:      "articles",
			Help:      "Number of articles in the corpus snapshot",
		}),
		DailyRows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "daily_sentiment_rows",
			Help:      "Number of daily sentiment rows written by the last run",
		}),
		MergedRows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "merged_rows",
			Help:      "Number of merged feature rows written by the last run",
		}),
		CoveredRows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "rows_with_news",
			Help:      "Number of merged feature rows with at least one article in the last run",
		}),

		// Pipeline metrics
		PipelineRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by mode and status",
		}, []string{"mode", "status"}),
		PipelineDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"mode"}),
		LastSuccessfulPipeline: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_pipeline_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Push sends every metric to a Prometheus Pushgateway under job.
// Batch jobs exit before a scrape could happen, so they push once at the end.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if m == nil || url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}

// RecordFetch records the entries fetched from one feed, or a feed failure.
func (m *Metrics) RecordFetch(source string, entries int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.FeedErrors.WithLabelValues(source).Inc()
		return
	}
	m.ArticlesFetched.WithLabelValues(source).Add(float64(entries))
}

// RecordIngestion records a saved raw batch.
func (m *Metrics) RecordIngestion(saved int, at time.Time) {
	if m == nil {
		return
	}
	m.RawBatchSize.Set(float64(saved))
	m.LastIngestionRun.Set(float64(at.Unix()))
}

// RecordPriceRows records stored price feature rows.
func (m *Metrics) RecordPriceRows(n int) {
	if m == nil {
		return
	}
	m.PriceRowsStored.Add(float64(n))
}

// RecordLinking records one linking pass.
func (m *Metrics) RecordLinking(linked, unlinked, mentions int) {
	if m == nil {
		return
	}
	m.ArticlesLinked.Add(float64(linked))
	m.ArticlesUnlinked.Add(float64(unlinked))
	m.TickerMentions.Add(float64(mentions))
}

// RecordScoring records scored articles by label and the batch duration.
func (m *Metrics) RecordScoring(byLabel map[string]int, duration time.Duration) {
	if m == nil {
		return
	}
	for label, n := range byLabel {
		m.ArticlesScored.WithLabelValues(label).Add(float64(n))
	}
	m.ScoringLatency.Observe(duration.Seconds())
}

// RecordOutputs records the sizes of one run's outputs.
func (m *Metrics) RecordOutputs(corpusSize, unparseable, daily, merged, covered int) {
	if m == nil {
		return
	}
	m.CorpusSize.Set(float64(corpusSize))
	m.UnparseableDates.Add(float64(unparseable))
	m.DailyRows.Set(float64(daily))
	m.MergedRows.Set(float64(merged))
	m.CoveredRows.Set(float64(covered))
}

// RecordPipelineRun records a pipeline run.
func (m *Metrics) RecordPipelineRun(mode, status string, duration time.Duration, finished time.Time) {
	if m == nil {
		return
	}
	m.PipelineRunsTotal.WithLabelValues(mode, status).Inc()
	m.PipelineDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if status == "success" {
		m.LastSuccessfulPipeline.Set(float64(finished.Unix()))
	}
}

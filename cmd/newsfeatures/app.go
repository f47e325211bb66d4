package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/aggregation"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/config"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/ingestion"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/linking"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/observability"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/orchestrator"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/pipeline"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/sentiment"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
	chstore "github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage/clickhouse"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage/file"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage/memory"
	pgstore "github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage/postgres"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/vocabulary"
)

// stores holds the configured store implementations.
type stores struct {
	batches storage.BatchStore
	corpus  storage.CorpusStore
	runs    storage.RunStore
	prices  storage.PriceFeatureStore
	outputs storage.OutputStore

	closers []func()
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores connects the article and feature backends selected in cfg.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	s := &stores{}

	switch cfg.Storage.Articles {
	case config.BackendFile:
		s.batches = file.NewBatchStore(cfg.Data.Dir)
		s.corpus = file.NewCorpusStore(cfg.Data.Dir)
		s.runs = file.NewRunStore(cfg.Data.Dir)
	case config.BackendMemory:
		s.batches = memory.NewBatchStore()
		s.corpus = memory.NewCorpusStore()
		s.runs = memory.NewRunStore()
	case config.BackendPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		s.batches = pgstore.NewBatchStore(pool)
		s.corpus = pgstore.NewCorpusStore(pool)
		s.runs = pgstore.NewRunStore(pool)
	default:
		return nil, fmt.Errorf("unknown articles backend %q", cfg.Storage.Articles)
	}

	switch cfg.Storage.Features {
	case config.BackendFile:
		s.prices = file.NewPriceFeatureStore(cfg.Data.Dir)
		s.outputs = file.NewOutputStore(cfg.Data.Dir)
	case config.BackendMemory:
		s.prices = memory.NewPriceFeatureStore()
		s.outputs = memory.NewOutputStore()
	case config.BackendClickhouse:
		conn, err := chstore.NewConn(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, func() { conn.Close() })
		s.prices = chstore.NewPriceFeatureStore(conn)
		s.outputs = chstore.NewOutputStore(conn)
	default:
		s.Close()
		return nil, fmt.Errorf("unknown features backend %q", cfg.Storage.Features)
	}

	return s, nil
}

// app wires configuration into pipeline components.
type app struct {
	cfg     *config.Config
	stores  *stores
	metrics *observability.Metrics
}

func newApp(ctx context.Context) (*app, error) {
	s, err := openStores(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open stores: %w", err)
	}
	return &app{
		cfg:     cfg,
		stores:  s,
		metrics: observability.NewMetrics(observability.DefaultNamespace),
	}, nil
}

func (a *app) Close() {
	a.stores.Close()
}

func (a *app) scorer() (sentiment.Scorer, error) {
	switch a.cfg.Scoring.Provider {
	case config.ProviderHTTP:
		return sentiment.NewHTTPScorer(a.cfg.Scoring.URL, a.cfg.Scoring.Timeout), nil
	case config.ProviderKeyword:
		return sentiment.NewKeywordScorer(), nil
	default:
		return nil, fmt.Errorf("unknown scoring provider %q", a.cfg.Scoring.Provider)
	}
}

func (a *app) vocabulary() (*vocabulary.Vocabulary, error) {
	if a.cfg.Vocabulary.File == "" {
		return vocabulary.Default(), nil
	}
	v, err := vocabulary.LoadFile(filepath.Clean(a.cfg.Vocabulary.File))
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	return v, nil
}

func (a *app) driver() (*pipeline.Driver, error) {
	vocab, err := a.vocabulary()
	if err != nil {
		return nil, err
	}
	scorer, err := a.scorer()
	if err != nil {
		return nil, err
	}
	mode, err := aggregation.ParseSignalMode(a.cfg.Aggregation.SignalMode)
	if err != nil {
		return nil, err
	}

	return pipeline.NewDriver(pipeline.Options{
		Batches:    a.stores.batches,
		Corpus:     a.stores.corpus,
		Prices:     a.stores.prices,
		Outputs:    a.stores.outputs,
		Runs:       a.stores.runs,
		Linker:     linking.NewLinker(vocab),
		Scorer:     scorer,
		Aggregator: aggregation.NewAggregator(mode, logger),
		Metrics:    a.metrics,
		Logger:     logger,
	})
}

func (a *app) ingester() *ingestion.Runner {
	fetcher := ingestion.NewFetcher(ingestion.FetcherOptions{
		Timeout:     a.cfg.Ingestion.Timeout,
		UserAgent:   a.cfg.Ingestion.UserAgent,
		Concurrency: a.cfg.Ingestion.Concurrency,
		Logger:      logger,
		Metrics:     a.metrics,
	})
	return ingestion.NewRunner(ingestion.RunnerOptions{
		Fetcher: fetcher,
		Sources: a.cfg.Ingestion.FeedSources(),
		Batches: a.stores.batches,
		Prices:  a.stores.prices,
		Logger:  logger,
		Metrics: a.metrics,
	})
}

func (a *app) orchestrator() (*orchestrator.Orchestrator, error) {
	d, err := a.driver()
	if err != nil {
		return nil, err
	}
	return orchestrator.New(orchestrator.Options{
		Ingester:  a.ingester(),
		Processor: d,
		Metrics:   a.metrics,
		PushURL:   a.cfg.Metrics.PushgatewayURL,
		Job:       a.cfg.Metrics.Job,
		Logger:    logger,
	}), nil
}

// push sends metrics to the Pushgateway when one is configured. Failures are logged.
func (a *app) push(ctx context.Context) {
	if a.cfg.Metrics.PushgatewayURL == "" {
		return
	}
	if err := a.metrics.Push(context.WithoutCancel(ctx), a.cfg.Metrics.PushgatewayURL, a.cfg.Metrics.Job); err != nil {
		logger.Warn("metrics push failed", "error", err)
	}
}

// Package ingestion pulls raw inputs: RSS article batches and daily price bars.
package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/observability"
)

// DefaultUserAgent is sent with feed requests; several publishers reject Go's default.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

// FetcherOptions contains configuration for creating a Fetcher.
type FetcherOptions struct {
	Timeout     time.Duration    // per feed, default 10s
	UserAgent   string           // default DefaultUserAgent
	Concurrency int              // feeds fetched at once, default 4
	Clock       func() time.Time // default time.Now
	Logger      *slog.Logger
	Metrics     *observability.Metrics // optional
}

// Fetcher pulls articles from RSS feeds.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	timeout     time.Duration
	concurrency int
	clock       func() time.Time
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts FetcherOptions) *Fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Fetcher{
		client:      &http.Client{Timeout: timeout},
		userAgent:   ua,
		timeout:     timeout,
		concurrency: concurrency,
		clock:       clock,
		logger:      logger,
		metrics:     opts.Metrics,
	}
}

// Fetch pulls one feed.
func (f *Fetcher) Fetch(ctx context.Context, src FeedSource) ([]*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	// gofeed parsers keep per-parse state, so each fetch gets its own.
	parser := gofeed.NewParser()
	parser.UserAgent = f.userAgent
	parser.Client = f.client

	feed, err := parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.Name, err)
	}

	pulledAt := f.clock().UTC()
	articles := make([]*domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		a := &domain.Article{
			Source:    src.Name,
			Title:     strings.TrimSpace(item.Title),
			Summary:   cleanHTML(item.Description),
			Published: item.Published,
			Link:      strings.TrimSpace(item.Link),
			PulledAt:  pulledAt,
		}
		if a.Published == "" {
			a.Published = item.Updated
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// FetchAll pulls every source concurrently. A failing feed is logged and skipped.
// Articles come back grouped in source order, each feed in its own entry order.
func (f *Fetcher) FetchAll(ctx context.Context, sources []FeedSource) ([]*domain.Article, error) {
	results := make([][]*domain.Article, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			articles, err := f.Fetch(gctx, src)
			f.metrics.RecordFetch(src.Name, len(articles), err)
			if err != nil {
				f.logger.Warn("feed fetch failed", "source", src.Name, "url", src.URL, "error", err)
				return nil
			}
			f.logger.Info("feed fetched", "source", src.Name, "entries", len(articles))
			results[i] = articles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch feeds: %w", err)
	}

	var all []*domain.Article
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// cleanHTML strips markup from a feed summary.
func cleanHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

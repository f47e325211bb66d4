package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func article(link string) *domain.Article {
	return &domain.Article{
		Source:    "biopharma-dive",
		Title:     "Title " + link,
		Summary:   "Summary",
		Published: "2024-01-02T09:30:00Z",
		Link:      link,
		PulledAt:  time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestBatchStore_RawAndProcessed(t *testing.T) {
	dir := t.TempDir()
	store := NewBatchStore(dir)
	ctx := context.Background()

	_, err := store.LoadRaw(ctx, day(2))
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.SaveRaw(ctx, day(2), []*domain.Article{article("a"), nil, article("b")}))
	_, err = os.Stat(filepath.Join(dir, "raw", "2024-01-02.json"))
	require.NoError(t, err)

	raw, err := store.LoadRaw(ctx, day(2))
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, "b", raw[1].Link)

	scored := article("a")
	scored.SentimentLabel = ptr(domain.SentimentNegative)
	scored.SentimentScore = ptr(0.7)
	scored.Tickers = []string{"PFE"}
	require.NoError(t, store.SaveProcessed(ctx, "2024-01-02", []*domain.Article{scored}))

	processed, err := store.LoadProcessed(ctx, "2024-01-02")
	require.NoError(t, err)
	require.Len(t, processed, 1)
	assert.Equal(t, domain.SentimentNegative, *processed[0].SentimentLabel)
	assert.Equal(t, []string{"PFE"}, processed[0].Tickers)

	assert.ErrorIs(t, store.SaveProcessed(ctx, "../escape", nil), storage.ErrInvalidInput)
}

func TestCorpusStore_Replace(t *testing.T) {
	dir := t.TempDir()
	store := NewCorpusStore(dir)
	ctx := context.Background()

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Replace(ctx, nil))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.Replace(ctx, []*domain.Article{article("z"), article("a")}))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "z", got[0].Link)

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "corpus"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPriceFeatureStore_InsertBulk(t *testing.T) {
	store := NewPriceFeatureStore(t.TempDir())
	ctx := context.Background()

	_, err := store.GetAll(ctx)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.InsertBulk(ctx, []*domain.PriceFeatureRow{
		{Ticker: "mrk", Date: day(2), AdjClose: 101.25, Return: ptr(0.0125), Vol20D: ptr(0.3)},
		{Ticker: "MRK", Date: day(1), AdjClose: 100},
	}))
	require.NoError(t, store.InsertBulk(ctx, []*domain.PriceFeatureRow{
		{Ticker: "ABBV", Date: day(1), AdjClose: 150},
	}))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "ABBV", all[0].Ticker)
	assert.True(t, day(1).Equal(all[1].Date))
	assert.Nil(t, all[1].Return)
	require.NotNil(t, all[2].Return)
	assert.Equal(t, 0.0125, *all[2].Return)
	assert.Equal(t, 0.3, *all[2].Vol20D)
	assert.Nil(t, all[2].MA50)

	err = store.InsertBulk(ctx, []*domain.PriceFeatureRow{
		{Ticker: "PFE", Date: day(1), AdjClose: 30},
		{Ticker: "MRK", Date: day(2), AdjClose: 1},
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	mrk, err := store.GetByTicker(ctx, "MRK")
	require.NoError(t, err)
	assert.Len(t, mrk, 2)
	pfe, err := store.GetByTicker(ctx, "PFE")
	require.NoError(t, err)
	assert.Empty(t, pfe)
}

func TestOutputStore_RoundTrip(t *testing.T) {
	store := NewOutputStore(t.TempDir())
	ctx := context.Background()

	_, err := store.ReadFeatures(ctx, "all")
	require.ErrorIs(t, err, storage.ErrNotFound)

	daily := []*domain.DailySentiment{
		{Ticker: "LLY", Date: day(1), MeanSentiment: 0.9, MedianSentiment: 0.9, ArticleCount: 1},
		{Ticker: "LLY", Date: day(2), MeanSentiment: -0.1, MedianSentiment: -0.2, SentimentStd: 0.05, ArticleCount: 3, SentimentMomentum1D: ptr(-1.0)},
	}
	require.NoError(t, store.WriteDailySentiment(ctx, "all", daily))

	gotDaily, err := store.ReadDailySentiment(ctx, "all")
	require.NoError(t, err)
	assert.Equal(t, daily, gotDaily)

	merged := []*domain.MergedFeatureRow{{
		PriceFeatureRow: domain.PriceFeatureRow{Ticker: "LLY", Date: day(2), AdjClose: 612.5, Return: ptr(0.01)},
		MeanSentiment:   -0.1, MedianSentiment: -0.2, SentimentStd: 0.05, ArticleCount: 3, SentimentMomentum1D: -1,
	}}
	require.NoError(t, store.WriteFeatures(ctx, "all", merged))

	gotMerged, err := store.ReadFeatures(ctx, "all")
	require.NoError(t, err)
	assert.Equal(t, merged, gotMerged)

	require.NoError(t, store.WriteFeatures(ctx, "all", nil))
	gotMerged, err = store.ReadFeatures(ctx, "all")
	require.NoError(t, err)
	assert.Empty(t, gotMerged)
}

func TestRunStore(t *testing.T) {
	store := NewRunStore(t.TempDir())
	ctx := context.Background()
	t0 := time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)

	runs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	require.NoError(t, store.Insert(ctx, &storage.RunRecord{RunID: "b", RunKey: "all", Status: storage.RunStatusSuccess, StartedAt: t0.Add(time.Hour)}))
	require.NoError(t, store.Insert(ctx, &storage.RunRecord{RunID: "a", RunKey: "all", Status: storage.RunStatusFailure, StartedAt: t0}))
	assert.ErrorIs(t, store.Insert(ctx, &storage.RunRecord{RunID: "a"}), storage.ErrDuplicateKey)

	last, err := store.GetLast(ctx, "all")
	require.NoError(t, err)
	assert.Equal(t, "b", last.RunID)

	runs, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "a", runs[0].RunID)

	_, err = store.GetLast(ctx, "2024-01-02")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

func TestOutputStore_WriteReplacesPerKey(t *testing.T) {
	store := NewOutputStore()
	ctx := context.Background()

	first := []*domain.MergedFeatureRow{
		{PriceFeatureRow: domain.PriceFeatureRow{Ticker: "PFE", Date: day(2)}, ArticleCount: 1},
		{PriceFeatureRow: domain.PriceFeatureRow{Ticker: "PFE", Date: day(3)}},
	}
	second := []*domain.MergedFeatureRow{
		{PriceFeatureRow: domain.PriceFeatureRow{Ticker: "MRK", Date: day(2)}, MeanSentiment: 0.4},
	}

	if err := store.WriteFeatures(ctx, "all", first); err != nil {
		t.Fatalf("WriteFeatures failed: %v", err)
	}
	if err := store.WriteFeatures(ctx, "all", second); err != nil {
		t.Fatalf("WriteFeatures failed: %v", err)
	}

	got, err := store.ReadFeatures(ctx, "all")
	if err != nil {
		t.Fatalf("ReadFeatures failed: %v", err)
	}
	if len(got) != 1 || got[0].Ticker != "MRK" || got[0].MeanSentiment != 0.4 {
		t.Errorf("expected second snapshot, got %+v", got)
	}

	if _, err := store.ReadFeatures(ctx, "2024-01-02"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOutputStore_DailySentiment(t *testing.T) {
	store := NewOutputStore()
	ctx := context.Background()

	mom := 0.3
	rows := []*domain.DailySentiment{
		{Ticker: "PFE", Date: day(1), MeanSentiment: 0.2, ArticleCount: 1},
		{Ticker: "PFE", Date: day(3), MeanSentiment: 0.5, ArticleCount: 2, SentimentMomentum1D: &mom},
	}
	if err := store.WriteDailySentiment(ctx, "2024-01-03", rows); err != nil {
		t.Fatalf("WriteDailySentiment failed: %v", err)
	}
	mom = 99

	got, err := store.ReadDailySentiment(ctx, "2024-01-03")
	if err != nil {
		t.Fatalf("ReadDailySentiment failed: %v", err)
	}
	if got[0].SentimentMomentum1D != nil {
		t.Errorf("expected nil momentum on first row")
	}
	if got[1].SentimentMomentum1D == nil || *got[1].SentimentMomentum1D != 0.3 {
		t.Errorf("stored momentum was not copied")
	}

	if err := store.WriteDailySentiment(ctx, "", rows); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRunStore(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	t0 := time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)

	if _, err := store.GetLast(ctx, "2024-01-02"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	runs := []*storage.RunRecord{
		{RunID: "r2", RunKey: "2024-01-02", Status: "success", StartedAt: t0.Add(time.Hour)},
		{RunID: "r1", RunKey: "2024-01-02", Status: "failure", StartedAt: t0},
		{RunID: "r3", RunKey: "all", Status: "success", StartedAt: t0.Add(2 * time.Hour)},
	}
	for _, r := range runs {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if err := store.Insert(ctx, runs[0]); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	last, err := store.GetLast(ctx, "2024-01-02")
	if err != nil {
		t.Fatalf("GetLast failed: %v", err)
	}
	if last.RunID != "r2" {
		t.Errorf("expected r2, got %s", last.RunID)
	}

	all, _ := store.List(ctx)
	if len(all) != 3 || all[0].RunID != "r1" || all[2].RunID != "r3" {
		t.Errorf("unexpected list order: %+v", all)
	}
}

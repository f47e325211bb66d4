package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

func TestBatchStore_RawRoundTrip(t *testing.T) {
	store := NewBatchStore()
	ctx := context.Background()
	day := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)

	if _, err := store.LoadRaw(ctx, day); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before save, got %v", err)
	}

	batch := []*domain.Article{{Link: "a", Title: "t1"}, nil, {Link: "b", Title: "t2"}}
	if err := store.SaveRaw(ctx, day, batch); err != nil {
		t.Fatalf("SaveRaw failed: %v", err)
	}

	got, err := store.LoadRaw(ctx, day.Add(13*time.Hour))
	if err != nil {
		t.Fatalf("LoadRaw failed: %v", err)
	}
	if len(got) != 2 || got[0].Link != "a" || got[1].Link != "b" {
		t.Errorf("unexpected batch: %+v", got)
	}

	// Mutating the result must not leak into the store.
	got[0].Title = "changed"
	again, _ := store.LoadRaw(ctx, day)
	if again[0].Title != "t1" {
		t.Errorf("store returned shared article")
	}
}

func TestBatchStore_Processed(t *testing.T) {
	store := NewBatchStore()
	ctx := context.Background()

	if err := store.SaveProcessed(ctx, "", nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty key, got %v", err)
	}
	if err := store.SaveProcessed(ctx, "all", []*domain.Article{{Link: "x"}}); err != nil {
		t.Fatalf("SaveProcessed failed: %v", err)
	}
	got, err := store.LoadProcessed(ctx, "all")
	if err != nil || len(got) != 1 {
		t.Fatalf("LoadProcessed = %v, %v", got, err)
	}
	if _, err := store.LoadProcessed(ctx, "2024-01-01"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCorpusStore_ReplaceAndLoad(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Replace(ctx, []*domain.Article{{Link: "a"}, {Link: "b"}}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if err := store.Replace(ctx, []*domain.Article{{Link: "c"}}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 || got[0].Link != "c" {
		t.Errorf("expected snapshot [c], got %+v", got)
	}
}

func TestCorpusStore_EmptySnapshotIsNotMissing(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()

	if err := store.Replace(ctx, nil); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("expected empty corpus, got error %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 articles, got %d", len(got))
	}
}

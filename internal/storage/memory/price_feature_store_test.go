package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestPriceFeatureStore_InsertBulkAndGet(t *testing.T) {
	store := NewPriceFeatureStore()
	ctx := context.Background()

	ret := 0.01
	rows := []*domain.PriceFeatureRow{
		{Ticker: "PFE", Date: day(3), AdjClose: 29.0, Return: &ret},
		{Ticker: "MRK", Date: day(2), AdjClose: 120.0},
		{Ticker: "PFE", Date: day(2), AdjClose: 28.7},
	}
	if err := store.InsertBulk(ctx, rows); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(all))
	}
	if all[0].Ticker != "MRK" || all[1].Ticker != "PFE" || !all[1].Date.Equal(day(2)) {
		t.Errorf("rows not ordered by ticker, date: %+v", all)
	}
	if all[2].Return == nil || *all[2].Return != 0.01 {
		t.Errorf("expected return 0.01 on last row")
	}

	pfe, err := store.GetByTicker(ctx, "PFE")
	if err != nil {
		t.Fatalf("GetByTicker failed: %v", err)
	}
	if len(pfe) != 2 || !pfe[0].Date.Before(pfe[1].Date) {
		t.Errorf("unexpected PFE rows: %+v", pfe)
	}
}

func TestPriceFeatureStore_EmptyIsNotFound(t *testing.T) {
	store := NewPriceFeatureStore()
	if _, err := store.GetAll(context.Background()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPriceFeatureStore_DuplicateKey(t *testing.T) {
	store := NewPriceFeatureStore()
	ctx := context.Background()

	rows := []*domain.PriceFeatureRow{{Ticker: "PFE", Date: day(2)}}
	if err := store.InsertBulk(ctx, rows); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if err := store.InsertBulk(ctx, rows); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestPriceFeatureStore_IntraBatchDuplicate(t *testing.T) {
	store := NewPriceFeatureStore()
	ctx := context.Background()

	rows := []*domain.PriceFeatureRow{
		{Ticker: "PFE", Date: day(2), AdjClose: 1},
		{Ticker: "PFE", Date: day(2), AdjClose: 2},
	}
	if err := store.InsertBulk(ctx, rows); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
	if got, _ := store.GetByTicker(ctx, "PFE"); len(got) != 0 {
		t.Errorf("expected rollback, got %d rows", len(got))
	}
}

func TestPriceFeatureStore_InvalidInput(t *testing.T) {
	store := NewPriceFeatureStore()
	err := store.InsertBulk(context.Background(), []*domain.PriceFeatureRow{{Date: day(2)}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

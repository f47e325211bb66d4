package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

func TestRunStore_InsertAndGetLast(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 3, 6, 0, 0, 0, time.UTC)

	if _, err := store.GetLast(ctx, "all"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	runs := []*storage.RunRecord{
		{RunID: "r1", RunKey: "all", Status: storage.RunStatusSuccess, StartedAt: base},
		{RunID: "r2", RunKey: "2025-03-03", Status: storage.RunStatusSuccess, StartedAt: base.Add(time.Hour)},
		{RunID: "r3", RunKey: "all", Status: storage.RunStatusFailure, StartedAt: base.Add(2 * time.Hour)},
	}
	for _, r := range runs {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert %s failed: %v", r.RunID, err)
		}
	}

	last, err := store.GetLast(ctx, "all")
	if err != nil {
		t.Fatalf("GetLast failed: %v", err)
	}
	if last.RunID != "r3" || last.Status != storage.RunStatusFailure {
		t.Errorf("GetLast = %+v, want r3", last)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 || list[0].RunID != "r1" || list[2].RunID != "r3" {
		t.Errorf("unexpected list order: %v, %v, %v", list[0].RunID, list[1].RunID, list[2].RunID)
	}
}

func TestRunStore_InsertErrors(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil record: expected ErrInvalidInput, got %v", err)
	}
	if err := store.Insert(ctx, &storage.RunRecord{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty id: expected ErrInvalidInput, got %v", err)
	}

	r := &storage.RunRecord{RunID: "r1", RunKey: "all"}
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, r); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("duplicate: expected ErrDuplicateKey, got %v", err)
	}
}

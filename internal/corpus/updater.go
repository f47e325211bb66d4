package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// MergeResult describes one Merge call.
type MergeResult struct {
	Before     int // corpus size before the merge
	Incoming   int
	After      int
	Duplicates int // incoming articles dropped by link
	Corpus     []*domain.Article
}

// RebuildResult describes one Rebuild call.
type RebuildResult struct {
	Before  int
	After   int
	Removed int // articles collapsed by (title, published)
	Corpus  []*domain.Article
}

// Updater runs read-modify-replace cycles against a CorpusStore.
// Callers must serialize Updaters that share a store.
type Updater struct {
	store  storage.CorpusStore
	logger *slog.Logger
}

// NewUpdater creates an Updater. A nil logger uses slog.Default().
func NewUpdater(store storage.CorpusStore, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{store: store, logger: logger}
}

// Merge appends batch to the stored corpus by link and replaces the snapshot.
// A missing snapshot is treated as an empty corpus.
func (u *Updater) Merge(ctx context.Context, batch []*domain.Article) (*MergeResult, error) {
	existing, err := u.store.Load(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if errors.Is(err, storage.ErrNotFound) {
		u.logger.Info("no existing corpus, starting a new one")
	}

	merged := Append(existing, batch)
	if err := u.store.Replace(ctx, merged); err != nil {
		return nil, fmt.Errorf("replace corpus: %w", err)
	}

	incoming := countNonNil(batch)
	res := &MergeResult{
		Before:     len(existing),
		Incoming:   incoming,
		After:      len(merged),
		Duplicates: incoming - (len(merged) - len(existing)),
		Corpus:     merged,
	}
	u.logger.Info("corpus merged",
		"before", res.Before, "incoming", res.Incoming,
		"after", res.After, "duplicates", res.Duplicates)
	return res, nil
}

// Rebuild consolidates the stored corpus by (title, published), applies transform
// to the survivors (nil for none) and replaces the snapshot.
// Returns storage.ErrNotFound if there is no corpus to rebuild.
func (u *Updater) Rebuild(ctx context.Context, transform func([]*domain.Article) error) (*RebuildResult, error) {
	existing, err := u.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	consolidated := Consolidate(existing)
	if transform != nil {
		if err := transform(consolidated); err != nil {
			return nil, fmt.Errorf("transform corpus: %w", err)
		}
	}
	if err := u.store.Replace(ctx, consolidated); err != nil {
		return nil, fmt.Errorf("replace corpus: %w", err)
	}

	res := &RebuildResult{
		Before:  len(existing),
		After:   len(consolidated),
		Removed: len(existing) - len(consolidated),
		Corpus:  consolidated,
	}
	u.logger.Info("corpus rebuilt", "before", res.Before, "after", res.After, "removed", res.Removed)
	return res, nil
}

func countNonNil(articles []*domain.Article) int {
	n := 0
	for _, a := range articles {
		if a != nil {
			n++
		}
	}
	return n
}

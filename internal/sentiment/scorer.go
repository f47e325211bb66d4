// Package sentiment scores article text. The model behind a Scorer is opaque:
// text in, (label, confidence) out.
package sentiment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
)

// Result is one scorer verdict. Confidence is in [0,1].
type Result struct {
	Label      domain.SentimentLabel
	Confidence float64
}

// Scorer classifies text. A nil Result with nil error means no score (blank text).
type Scorer interface {
	Score(ctx context.Context, text string) (*Result, error)
}

// ScoreStats summarizes a ScoreBatch call.
type ScoreStats struct {
	Articles int
	Scored   int
	Skipped  int // blank text
	ByLabel  map[domain.SentimentLabel]int
}

// ScoreBatch scores every article from its FullText, sequentially.
// The first scorer error aborts the batch; articles already scored keep their scores
// but callers must discard the batch.
func ScoreBatch(ctx context.Context, scorer Scorer, articles []*domain.Article) (ScoreStats, error) {
	stats := ScoreStats{ByLabel: make(map[domain.SentimentLabel]int)}
	for _, a := range articles {
		if a == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Articles++

		text := a.FullText
		if text == "" {
			text = domain.BuildFullText(a.Title, a.Summary)
		}
		if strings.TrimSpace(text) == "" {
			a.SentimentLabel, a.SentimentScore = nil, nil
			stats.Skipped++
			continue
		}

		res, err := scorer.Score(ctx, text)
		if err != nil {
			return stats, fmt.Errorf("score article %s: %w", a.Link, err)
		}
		if res == nil {
			a.SentimentLabel, a.SentimentScore = nil, nil
			stats.Skipped++
			continue
		}
		if err := res.validate(); err != nil {
			return stats, fmt.Errorf("score article %s: %w", a.Link, err)
		}

		label, conf := res.Label, res.Confidence
		a.SentimentLabel = &label
		a.SentimentScore = &conf
		stats.Scored++
		stats.ByLabel[label]++
	}
	return stats, nil
}

func (r *Result) validate() error {
	if !r.Label.IsValid() {
		return fmt.Errorf("invalid label %q", r.Label)
	}
	if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", r.Confidence)
	}
	return nil
}

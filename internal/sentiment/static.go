package sentiment

import (
	"context"
	"strings"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
)

// StaticScorer returns a fixed verdict, optionally overridden per substring.
// Intended for tests and dry runs.
type StaticScorer struct {
	Default   Result
	Overrides map[string]Result // lowercase substring -> verdict; first match in Keys order wins
	Keys      []string          // override evaluation order

	calls int
}

// NewStaticScorer creates a scorer that answers label/confidence for every text.
func NewStaticScorer(label domain.SentimentLabel, confidence float64) *StaticScorer {
	return &StaticScorer{Default: Result{Label: label, Confidence: confidence}}
}

// Override registers a verdict for texts containing substr (case-insensitive).
func (s *StaticScorer) Override(substr string, label domain.SentimentLabel, confidence float64) *StaticScorer {
	if s.Overrides == nil {
		s.Overrides = make(map[string]Result)
	}
	key := strings.ToLower(substr)
	if _, exists := s.Overrides[key]; !exists {
		s.Keys = append(s.Keys, key)
	}
	s.Overrides[key] = Result{Label: label, Confidence: confidence}
	return s
}

// Calls returns how many non-blank texts were scored.
func (s *StaticScorer) Calls() int {
	return s.calls
}

// Score implements Scorer.
func (s *StaticScorer) Score(_ context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	s.calls++

	lower := strings.ToLower(text)
	for _, k := range s.Keys {
		if strings.Contains(lower, k) {
			r := s.Overrides[k]
			return &r, nil
		}
	}
	r := s.Default
	return &r, nil
}

var _ Scorer = (*StaticScorer)(nil)

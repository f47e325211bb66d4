package sentiment

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
)

// Keyword lexicons (lowercase phrases). Weights are relative strength.
var positiveTerms = map[string]float64{
	"approval": 0.7, "approved": 0.7, "approves": 0.7, "breakthrough": 0.7,
	"beat": 0.5, "beats": 0.5, "exceeds": 0.5, "surge": 0.7, "rally": 0.6,
	"upgrade": 0.6, "outperform": 0.6, "bullish": 0.7, "record high": 0.7,
	"positive": 0.4, "growth": 0.4, "strong": 0.4, "partnership": 0.4,
	"acquire": 0.3, "met primary endpoint": 0.8, "raises guidance": 0.7,
	"fast track": 0.6, "clearance": 0.5, "profit": 0.3, "dividend": 0.4,
}

var negativeTerms = map[string]float64{
	"recall": 0.7, "lawsuit": 0.6, "rejects": 0.7, "rejected": 0.7,
	"complete response letter": 0.7, "failed": 0.7, "fails": 0.7, "halt": 0.6,
	"halted": 0.6, "downgrade": 0.6, "underperform": 0.6, "bearish": 0.7,
	"plunge": 0.7, "slump": 0.6, "decline": 0.5, "loss": 0.4, "layoffs": 0.6,
	"miss": 0.5, "misses": 0.5, "warning": 0.5, "investigation": 0.5,
	"fraud": 0.8, "cut": 0.3, "negative": 0.4, "safety concern": 0.7,
	"cuts guidance": 0.7,
}

// polarityThreshold is the minimum |net polarity| for a non-neutral label.
const polarityThreshold = 0.15

type term struct {
	phrase string
	weight float64
}

// KeywordScorer is an offline lexicon scorer. Net polarity in [-1,1] picks the label;
// confidence grows with the number of matched terms.
type KeywordScorer struct {
	positive []term
	negative []term
}

// NewKeywordScorer creates a scorer over the built-in pharma news lexicon.
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{
		positive: sortedTerms(positiveTerms),
		negative: sortedTerms(negativeTerms),
	}
}

// Score implements Scorer.
func (k *KeywordScorer) Score(_ context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	lower := strings.ToLower(text)

	pos, posHits := matchTerms(lower, k.positive)
	neg, negHits := matchTerms(lower, k.negative)
	matches := posHits + negHits

	if matches == 0 || pos+neg == 0 {
		return &Result{Label: domain.SentimentNeutral, Confidence: 0.5}, nil
	}

	net := (pos - neg) / (pos + neg)
	conf := math.Min(float64(matches)*0.15+0.2, 0.85)

	switch {
	case net >= polarityThreshold:
		return &Result{Label: domain.SentimentPositive, Confidence: conf}, nil
	case net <= -polarityThreshold:
		return &Result{Label: domain.SentimentNegative, Confidence: conf}, nil
	default:
		return &Result{Label: domain.SentimentNeutral, Confidence: 1 - math.Abs(net)}, nil
	}
}

func matchTerms(lower string, terms []term) (float64, int) {
	total, hits := 0.0, 0
	for _, t := range terms {
		if strings.Contains(lower, t.phrase) {
			total += t.weight
			hits++
		}
	}
	return total, hits
}

func sortedTerms(m map[string]float64) []term {
	out := make([]term, 0, len(m))
	for p, w := range m {
		out = append(out, term{phrase: p, weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].phrase < out[j].phrase })
	return out
}

var _ Scorer = (*KeywordScorer)(nil)

package domain

// SentimentLabel is the class assigned to an article by the sentiment scorer.
type SentimentLabel string

const (
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentPositive SentimentLabel = "positive"
)

// String returns the string representation of SentimentLabel.
func (l SentimentLabel) String() string {
	return string(l)
}

// IsValid checks if the label is one of the three known classes.
func (l SentimentLabel) IsValid() bool {
	return l == SentimentNegative || l == SentimentNeutral || l == SentimentPositive
}

// Sign returns -1, 0 or +1 for negative, neutral and positive labels.
func (l SentimentLabel) Sign() float64 {
	switch l {
	case SentimentNegative:
		return -1
	case SentimentPositive:
		return 1
	default:
		return 0
	}
}

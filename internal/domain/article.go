package domain

import (
	"strings"
	"time"
)

// Article is a single news item as it moves through the pipeline.
// Ingestion fills the raw fields; linking and scoring enrich it in place.
// Corresponds to the articles table in PostgreSQL and the JSON batch files.
type Article struct {
	Source         string          `json:"source"`
	Title          string          `json:"title"`
	Summary        string          `json:"summary"`
	FullText       string          `json:"full_text,omitempty"`
	Published      string          `json:"published"` // free-form, as the feed wrote it
	Link           string          `json:"link"`      // append dedup key
	PulledAt       time.Time       `json:"pulled_at"`
	SentimentLabel *SentimentLabel `json:"sentiment_label,omitempty"` // nil when unscored
	SentimentScore *float64        `json:"sentiment_score,omitempty"` // confidence in [0,1], nil when unscored
	Tickers        []string        `json:"tickers,omitempty"`
}

// BuildFullText joins title and summary the way the scorer and linker expect:
// "title. summary" with newlines collapsed to spaces and outer whitespace trimmed.
func BuildFullText(title, summary string) string {
	text := title + ". " + summary
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}

// Scored reports whether the article carries a sentiment score.
func (a *Article) Scored() bool {
	return a.SentimentScore != nil
}

// Clone returns a deep copy of the article.
func (a *Article) Clone() *Article {
	c := *a
	if a.SentimentLabel != nil {
		label := *a.SentimentLabel
		c.SentimentLabel = &label
	}
	if a.SentimentScore != nil {
		score := *a.SentimentScore
		c.SentimentScore = &score
	}
	if a.Tickers != nil {
		c.Tickers = append([]string(nil), a.Tickers...)
	}
	return &c
}

// CloneArticles deep-copies a slice of articles.
func CloneArticles(articles []*Article) []*Article {
	if articles == nil {
		return nil
	}
	out := make([]*Article, len(articles))
	for i, a := range articles {
		out[i] = a.Clone()
	}
	return out
}

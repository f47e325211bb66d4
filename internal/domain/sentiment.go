package domain

import "time"

// DailySentiment is the per-(ticker, date) sentiment aggregate.
// Corresponds to daily_sentiment table in ClickHouse.
type DailySentiment struct {
	Ticker              string    `json:"ticker"`
	Date                time.Time `json:"date"` // UTC midnight of the calendar day
	MeanSentiment       float64   `json:"mean_sentiment"`
	MedianSentiment     float64   `json:"median_sentiment"`
	SentimentStd        float64   `json:"sentiment_std"` // population std, 0 for a single article
	ArticleCount        int       `json:"article_count"`
	SentimentMomentum1D *float64  `json:"sentiment_momentum_1d"` // NULL for the ticker's first row
}

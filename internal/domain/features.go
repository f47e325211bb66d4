package domain

// MergedFeatureRow is a price feature row extended with the daily sentiment signal.
// Sentiment fields are never absent: days without news carry the neutral fill (0 / 0.0).
// Corresponds to merged_features table in ClickHouse.
type MergedFeatureRow struct {
	PriceFeatureRow

	MeanSentiment       float64 `json:"mean_sentiment"`
	MedianSentiment     float64 `json:"median_sentiment"`
	SentimentStd        float64 `json:"sentiment_std"`
	ArticleCount        int     `json:"article_count"`
	SentimentMomentum1D float64 `json:"sentiment_momentum_1d"`
}

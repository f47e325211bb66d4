package reporting

import (
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// Report summarizes the outputs of one run key.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunKey      string
	LastRun     *storage.RunRecord // nil if no run history is available

	// Data Summary
	DataSummary DataSummary

	// Data Quality (sufficiency checks)
	DataQuality DataQualitySection

	// Per-ticker sentiment (sorted by articles DESC, ticker ASC)
	Tickers []TickerSummaryRow

	// Strongest days by mean sentiment, both directions
	TopPositive []SentimentDayRow
	TopNegative []SentimentDayRow
}

// DataQualitySection contains data sufficiency checks.
type DataQualitySection struct {
	SufficiencyChecks []SufficiencyCheckRow
	AllChecksPassed   bool
}

// SufficiencyCheckRow represents one sufficiency criterion.
type SufficiencyCheckRow struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// DataSummary describes the output tables.
type DataSummary struct {
	Tickers        int
	DailyRows      int
	MergedRows     int
	CoveredRows    int     // merged rows with at least one article
	Coverage       float64 // CoveredRows / MergedRows, 0 when empty
	TotalArticles  int     // sum of article_count over daily rows (fan-out included)
	DateRangeStart time.Time
	DateRangeEnd   time.Time
}

// TickerSummaryRow aggregates a ticker's daily sentiment rows.
type TickerSummaryRow struct {
	Ticker        string
	Days          int
	Articles      int
	MeanSentiment float64 // mean of daily means
	StdSentiment  float64 // population std of daily means
	P10Sentiment  float64
	P90Sentiment  float64
	LastDate      time.Time
	LastMean      float64
}

// SentimentDayRow is one (ticker, date) daily sentiment row.
type SentimentDayRow struct {
	Ticker        string
	Date          time.Time
	MeanSentiment float64
	ArticleCount  int
}

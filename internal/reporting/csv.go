package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderCSV renders the per-ticker summary as CSV.
func RenderCSV(rows []TickerSummaryRow) string {
	var sb strings.Builder

	sb.WriteString("ticker,days,articles,mean_sentiment,std_sentiment,p10_sentiment,p90_sentiment,last_date,last_mean\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%.6f,%.6f,%.6f,%.6f,%s,%.6f\n",
			r.Ticker, r.Days, r.Articles, r.MeanSentiment, r.StdSentiment,
			r.P10Sentiment, r.P90Sentiment, r.LastDate.Format(time.DateOnly), r.LastMean))
	}

	return sb.String()
}

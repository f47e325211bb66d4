package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as Markdown.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# News Sentiment Feature Report\n\n")
	sb.WriteString(fmt.Sprintf("Run key: `%s`\n\n", r.RunKey))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	if r.LastRun != nil {
		sb.WriteString("## Last Run\n\n")
		sb.WriteString("| Field | Value |\n")
		sb.WriteString("|-------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Run ID | %s |\n", r.LastRun.RunID))
		sb.WriteString(fmt.Sprintf("| Status | %s |\n", r.LastRun.Status))
		sb.WriteString(fmt.Sprintf("| Started | %s |\n", r.LastRun.StartedAt.UTC().Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("| Finished | %s |\n", r.LastRun.FinishedAt.UTC().Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("| Articles | %d |\n", r.LastRun.Articles))
		sb.WriteString(fmt.Sprintf("| Corpus Size | %d |\n", r.LastRun.CorpusSize))
		if r.LastRun.Error != "" {
			sb.WriteString(fmt.Sprintf("| Error | %s |\n", escapeCell(r.LastRun.Error)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Tickers | %d |\n", r.DataSummary.Tickers))
	sb.WriteString(fmt.Sprintf("| Daily Sentiment Rows | %d |\n", r.DataSummary.DailyRows))
	sb.WriteString(fmt.Sprintf("| Merged Feature Rows | %d |\n", r.DataSummary.MergedRows))
	sb.WriteString(fmt.Sprintf("| Rows With News | %d |\n", r.DataSummary.CoveredRows))
	sb.WriteString(fmt.Sprintf("| Coverage | %.2f%% |\n", r.DataSummary.Coverage*100))
	sb.WriteString(fmt.Sprintf("| Article Mentions | %d |\n", r.DataSummary.TotalArticles))
	if !r.DataSummary.DateRangeStart.IsZero() {
		sb.WriteString(fmt.Sprintf("| Date Range | %s to %s |\n",
			r.DataSummary.DateRangeStart.Format(time.DateOnly),
			r.DataSummary.DateRangeEnd.Format(time.DateOnly)))
	}
	sb.WriteString("\n")

	sb.WriteString("## Data Quality\n\n")
	sb.WriteString("| Check | Threshold | Actual | Status |\n")
	sb.WriteString("|-------|-----------|--------|--------|\n")
	for _, c := range r.DataQuality.SufficiencyChecks {
		status := "FAIL"
		if c.Pass {
			status = "PASS"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.Name, c.Threshold, c.Actual, status))
	}
	sb.WriteString("\n")
	if r.DataQuality.AllChecksPassed {
		sb.WriteString("All checks passed.\n\n")
	} else {
		sb.WriteString("**One or more checks failed.**\n\n")
	}

	sb.WriteString("## Ticker Sentiment\n\n")
	if len(r.Tickers) == 0 {
		sb.WriteString("No daily sentiment rows.\n\n")
	} else {
		sb.WriteString("| Ticker | Days | Articles | Mean | Std | P10 | P90 | Last Date | Last Mean |\n")
		sb.WriteString("|--------|------|----------|------|-----|-----|-----|-----------|-----------|\n")
		for _, t := range r.Tickers {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.4f | %.4f | %.4f | %.4f | %s | %.4f |\n",
				t.Ticker, t.Days, t.Articles, t.MeanSentiment, t.StdSentiment,
				t.P10Sentiment, t.P90Sentiment, t.LastDate.Format(time.DateOnly), t.LastMean))
		}
		sb.WriteString("\n")
	}

	writeDayTable(&sb, "Most Positive Days", r.TopPositive)
	writeDayTable(&sb, "Most Negative Days", r.TopNegative)

	return sb.String()
}

func writeDayTable(sb *strings.Builder, title string, rows []SentimentDayRow) {
	if len(rows) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	sb.WriteString("| Ticker | Date | Mean | Articles |\n")
	sb.WriteString("|--------|------|------|----------|\n")
	for _, d := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s | %.4f | %d |\n",
			d.Ticker, d.Date.Format(time.DateOnly), d.MeanSentiment, d.ArticleCount))
	}
	sb.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

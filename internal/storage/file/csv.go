package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
)

var (
	priceHeader = []string{
		"ticker", "date", "adj_close",
		"return", "log_return", "vol_20d", "ma_10", "ma_50", "mom_10",
	}
	sentimentHeader = []string{
		"mean_sentiment", "median_sentiment", "sentiment_std",
		"article_count", "sentiment_momentum_1d",
	}
	dailyHeader  = append([]string{"ticker", "date"}, sentimentHeader...)
	mergedHeader = append(append([]string{}, priceHeader...), sentimentHeader...)
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatOptional renders nil as an empty cell.
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func priceRecord(r *domain.PriceFeatureRow) []string {
	return []string{
		r.Ticker, r.Date.Format(domain.DateLayout), formatFloat(r.AdjClose),
		formatOptional(r.Return), formatOptional(r.LogReturn), formatOptional(r.Vol20D),
		formatOptional(r.MA10), formatOptional(r.MA50), formatOptional(r.Mom10),
	}
}

func dailyRecord(r *domain.DailySentiment) []string {
	return []string{
		r.Ticker, r.Date.Format(domain.DateLayout),
		formatFloat(r.MeanSentiment), formatFloat(r.MedianSentiment), formatFloat(r.SentimentStd),
		strconv.Itoa(r.ArticleCount), formatOptional(r.SentimentMomentum1D),
	}
}

func mergedRecord(r *domain.MergedFeatureRow) []string {
	return append(priceRecord(&r.PriceFeatureRow),
		formatFloat(r.MeanSentiment), formatFloat(r.MedianSentiment), formatFloat(r.SentimentStd),
		strconv.Itoa(r.ArticleCount), formatFloat(r.SentimentMomentum1D),
	)
}

// writeCSV writes a header and one record per row.
func writeCSV(w io.Writer, header []string, n int, record func(i int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(record(i)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// csvRecord gives named access to one CSV record.
type csvRecord struct {
	rec []string
	idx map[string]int
}

func (c csvRecord) str(col string) string {
	return strings.TrimSpace(c.rec[c.idx[col]])
}

func (c csvRecord) date(col string) (time.Time, error) {
	d, err := time.Parse(domain.DateLayout, c.str(col))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", col, err)
	}
	return d, nil
}

func (c csvRecord) float(col string) (float64, error) {
	v, err := strconv.ParseFloat(c.str(col), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", col, err)
	}
	return v, nil
}

func (c csvRecord) optional(col string) (*float64, error) {
	if c.str(col) == "" {
		return nil, nil
	}
	v, err := c.float(col)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c csvRecord) integer(col string) (int, error) {
	v, err := strconv.Atoi(c.str(col))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", col, err)
	}
	return v, nil
}

// readCSV reads a header-led CSV, calling row for each record.
func readCSV(r io.Reader, header []string, row func(csvRecord) error) error {
	cr := csv.NewReader(r)

	got, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("read csv: empty input")
		}
		return fmt.Errorf("read csv header: %w", err)
	}
	idx := make(map[string]int, len(got))
	for i, h := range got {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range header {
		if _, ok := idx[col]; !ok {
			return fmt.Errorf("read csv: missing column %q", col)
		}
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read csv line %d: %w", line, err)
		}
		if err := row(csvRecord{rec: rec, idx: idx}); err != nil {
			return fmt.Errorf("read csv line %d: %w", line, err)
		}
	}
}

func parsePriceRow(c csvRecord) (*domain.PriceFeatureRow, error) {
	var (
		r   domain.PriceFeatureRow
		err error
	)
	r.Ticker = c.str("ticker")
	if r.Date, err = c.date("date"); err != nil {
		return nil, err
	}
	if r.AdjClose, err = c.float("adj_close"); err != nil {
		return nil, err
	}
	optionals := []struct {
		col string
		dst **float64
	}{
		{"return", &r.Return}, {"log_return", &r.LogReturn}, {"vol_20d", &r.Vol20D},
		{"ma_10", &r.MA10}, {"ma_50", &r.MA50}, {"mom_10", &r.Mom10},
	}
	for _, o := range optionals {
		if *o.dst, err = c.optional(o.col); err != nil {
			return nil, err
		}
	}
	return &r, nil
}

func parseDailyRow(c csvRecord) (*domain.DailySentiment, error) {
	var (
		r   domain.DailySentiment
		err error
	)
	r.Ticker = c.str("ticker")
	if r.Date, err = c.date("date"); err != nil {
		return nil, err
	}
	if r.MeanSentiment, err = c.float("mean_sentiment"); err != nil {
		return nil, err
	}
	if r.MedianSentiment, err = c.float("median_sentiment"); err != nil {
		return nil, err
	}
	if r.SentimentStd, err = c.float("sentiment_std"); err != nil {
		return nil, err
	}
	if r.ArticleCount, err = c.integer("article_count"); err != nil {
		return nil, err
	}
	if r.SentimentMomentum1D, err = c.optional("sentiment_momentum_1d"); err != nil {
		return nil, err
	}
	return &r, nil
}

func parseMergedRow(c csvRecord) (*domain.MergedFeatureRow, error) {
	price, err := parsePriceRow(c)
	if err != nil {
		return nil, err
	}
	r := domain.MergedFeatureRow{PriceFeatureRow: *price}
	if r.MeanSentiment, err = c.float("mean_sentiment"); err != nil {
		return nil, err
	}
	if r.MedianSentiment, err = c.float("median_sentiment"); err != nil {
		return nil, err
	}
	if r.SentimentStd, err = c.float("sentiment_std"); err != nil {
		return nil, err
	}
	if r.ArticleCount, err = c.integer("article_count"); err != nil {
		return nil, err
	}
	if r.SentimentMomentum1D, err = c.float("sentiment_momentum_1d"); err != nil {
		return nil, err
	}
	return &r, nil
}

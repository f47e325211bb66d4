package ingestion

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

// priceColumns is the required header of a price bar CSV. Column order is free.
var priceColumns = []string{"date", "ticker", "open", "high", "low", "close", "adj_close", "volume"}

// ReadPriceBarsCSV reads daily bars from CSV with a header row.
// Dates are YYYY-MM-DD; an empty adj_close falls back to close.
func ReadPriceBarsCSV(r io.Reader) ([]*domain.PriceBar, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read price csv: empty input")
		}
		return nil, fmt.Errorf("read price csv header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range priceColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("read price csv: missing column %q", col)
		}
	}

	var bars []*domain.PriceBar
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read price csv line %d: %w", line, err)
		}

		bar, err := parseBar(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("read price csv line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseBar(rec []string, idx map[string]int) (*domain.PriceBar, error) {
	field := func(name string) string { return strings.TrimSpace(rec[idx[name]]) }

	date, err := time.Parse(domain.DateLayout, field("date"))
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	ticker := strings.ToUpper(field("ticker"))
	if ticker == "" {
		return nil, fmt.Errorf("empty ticker")
	}

	bar := &domain.PriceBar{Ticker: ticker, Date: date}
	nums := []struct {
		col string
		dst *float64
	}{
		{"open", &bar.Open}, {"high", &bar.High}, {"low", &bar.Low},
		{"close", &bar.Close}, {"volume", &bar.Volume},
	}
	for _, n := range nums {
		v, err := strconv.ParseFloat(field(n.col), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", n.col, err)
		}
		*n.dst = v
	}

	if adj := field("adj_close"); adj == "" {
		bar.AdjClose = bar.Close
	} else {
		v, err := strconv.ParseFloat(adj, 64)
		if err != nil {
			return nil, fmt.Errorf("parse adj_close: %w", err)
		}
		bar.AdjClose = v
	}
	return bar, nil
}

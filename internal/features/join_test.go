package features

import (
	"errors"
	"testing"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
)

func d(day int) time.Time {
	return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
}

func price(ticker string, day int) *domain.PriceFeatureRow {
	return &domain.PriceFeatureRow{Ticker: ticker, Date: d(day), AdjClose: float64(day)}
}

func TestJoin_PreservesCardinalityAndOrder(t *testing.T) {
	prices := []*domain.PriceFeatureRow{price("X", 1), price("X", 2), price("X", 3), price("Y", 1)}
	mom := 0.3
	daily := []*domain.DailySentiment{
		{Ticker: "X", Date: d(1), MeanSentiment: 0.2, MedianSentiment: 0.2, ArticleCount: 1},
		{Ticker: "X", Date: d(3), MeanSentiment: 0.5, MedianSentiment: 0.5, SentimentStd: 0.1, ArticleCount: 2, SentimentMomentum1D: &mom},
		{Ticker: "Z", Date: d(1), MeanSentiment: 0.9, ArticleCount: 4}, // no price rows
	}

	merged, err := Join(prices, daily)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	if len(merged) != len(prices) {
		t.Fatalf("expected %d rows, got %d", len(prices), len(merged))
	}
	for i, m := range merged {
		if m.Ticker != prices[i].Ticker || !m.Date.Equal(prices[i].Date) {
			t.Errorf("row %d out of order: %s %v", i, m.Ticker, m.Date)
		}
	}

	if merged[0].MeanSentiment != 0.2 || merged[0].ArticleCount != 1 || merged[0].SentimentMomentum1D != 0 {
		t.Errorf("unexpected first row: %+v", merged[0])
	}
	if merged[1].MeanSentiment != 0 || merged[1].ArticleCount != 0 || merged[1].SentimentStd != 0 {
		t.Errorf("expected neutral fill on gap row, got %+v", merged[1])
	}
	if merged[2].SentimentMomentum1D != 0.3 || merged[2].ArticleCount != 2 {
		t.Errorf("unexpected third row: %+v", merged[2])
	}
	if merged[3].ArticleCount != 0 {
		t.Errorf("Y should be unmatched, got %+v", merged[3])
	}
	if Coverage(merged) != 2 {
		t.Errorf("Coverage = %d, want 2", Coverage(merged))
	}
}

func TestJoin_NoSentiment(t *testing.T) {
	prices := []*domain.PriceFeatureRow{price("X", 1), price("X", 2)}

	merged, err := Join(prices, nil)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(merged))
	}
	for _, m := range merged {
		if m.MeanSentiment != 0 || m.ArticleCount != 0 {
			t.Errorf("expected neutral row, got %+v", m)
		}
	}
}

func TestJoin_MatchesOnCalendarDay(t *testing.T) {
	p := &domain.PriceFeatureRow{Ticker: "X", Date: time.Date(2024, 3, 1, 16, 0, 0, 0, time.UTC)}
	daily := []*domain.DailySentiment{{Ticker: "X", Date: d(1), MeanSentiment: 0.7, ArticleCount: 1}}

	merged, err := Join([]*domain.PriceFeatureRow{p}, daily)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if merged[0].ArticleCount != 1 {
		t.Errorf("expected match on calendar day, got %+v", merged[0])
	}
}

func TestJoin_DuplicateSentiment(t *testing.T) {
	daily := []*domain.DailySentiment{
		{Ticker: "X", Date: d(1)},
		{Ticker: "X", Date: d(1)},
	}
	_, err := Join([]*domain.PriceFeatureRow{price("X", 1)}, daily)
	if !errors.Is(err, ErrDuplicateSentiment) {
		t.Errorf("expected ErrDuplicateSentiment, got %v", err)
	}
}

func TestJoin_DoesNotAliasInput(t *testing.T) {
	ret := 0.01
	p := price("X", 1)
	p.Return = &ret

	merged, _ := Join([]*domain.PriceFeatureRow{p}, nil)
	merged[0].AdjClose = -1

	if p.AdjClose != 1 {
		t.Errorf("Join mutated input price row")
	}
}

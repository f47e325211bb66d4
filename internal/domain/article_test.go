package domain

import "testing"

func TestBuildFullText(t *testing.T) {
	got := BuildFullText("Pfizer beats", "Quarterly\nrevenue rose\r\nsharply  ")
	want := "Pfizer beats. Quarterly revenue rose sharply"
	if got != want {
		t.Errorf("BuildFullText = %q, want %q", got, want)
	}

	if got := BuildFullText("", ""); got != "." {
		t.Errorf("BuildFullText empty = %q, want %q", got, ".")
	}
}

func TestArticleClone_IsDeep(t *testing.T) {
	label := SentimentPositive
	score := 0.9
	a := &Article{Link: "l1", SentimentLabel: &label, SentimentScore: &score, Tickers: []string{"PFE"}}

	c := a.Clone()
	*c.SentimentScore = 0.1
	*c.SentimentLabel = SentimentNegative
	c.Tickers[0] = "MRK"

	if *a.SentimentScore != 0.9 || *a.SentimentLabel != SentimentPositive || a.Tickers[0] != "PFE" {
		t.Errorf("clone shares state with original: %+v", a)
	}
}

func TestSentimentLabel(t *testing.T) {
	if !SentimentNeutral.IsValid() || SentimentLabel("bullish").IsValid() {
		t.Error("IsValid mismatch")
	}
	if SentimentNegative.Sign() != -1 || SentimentNeutral.Sign() != 0 || SentimentPositive.Sign() != 1 {
		t.Error("Sign mismatch")
	}
}

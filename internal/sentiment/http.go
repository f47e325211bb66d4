package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
)

// DefaultHTTPTimeout bounds each remote scoring call.
const DefaultHTTPTimeout = 10 * time.Second

// HTTPScorer calls a FinBERT-style inference endpoint:
// POST {"text": "..."} -> {"label": "positive", "score": 0.93}.
type HTTPScorer struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPScorer creates a remote scorer. A non-positive timeout uses DefaultHTTPTimeout.
func NewHTTPScorer(url string, timeout time.Duration) *HTTPScorer {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &HTTPScorer{
		url:     url,
		timeout: timeout,
		client:  &http.Client{},
	}
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Label string   `json:"label"`
	Score *float64 `json:"score"`
}

// Score implements Scorer. Every failure is returned; nothing is retried.
func (h *HTTPScorer) Score(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call scorer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scorer returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode scorer response: %w", err)
	}
	if out.Score == nil {
		return nil, fmt.Errorf("scorer response missing score")
	}

	r := &Result{Label: domain.SentimentLabel(strings.ToLower(out.Label)), Confidence: *out.Score}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

var _ Scorer = (*HTTPScorer)(nil)

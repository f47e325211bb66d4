package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
)

func TestHTTPScorer_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req scoreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Pfizer beats estimates", req.Text)

		_, _ = w.Write([]byte(`{"label":"Positive","score":0.93}`))
	}))
	defer srv.Close()

	res, err := NewHTTPScorer(srv.URL, time.Second).Score(context.Background(), "Pfizer beats estimates")
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentPositive, res.Label)
	assert.Equal(t, 0.93, res.Confidence)
}

func TestHTTPScorer_BlankTextSkipsCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer srv.Close()

	res, err := NewHTTPScorer(srv.URL, time.Second).Score(context.Background(), " \n")
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.False(t, called)
}

func TestHTTPScorer_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "boom"},
		{"bad json", http.StatusOK, "{not json"},
		{"unknown label", http.StatusOK, `{"label":"bullish","score":0.5}`},
		{"score out of range", http.StatusOK, `{"label":"neutral","score":1.2}`},
		{"missing score", http.StatusOK, `{"label":"neutral"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPScorer(srv.URL, time.Second).Score(context.Background(), "text")
			assert.Error(t, err)
		})
	}
}

func TestHTTPScorer_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewHTTPScorer(srv.URL, 50*time.Millisecond).Score(context.Background(), "slow")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNewHTTPScorer_DefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultHTTPTimeout, NewHTTPScorer("http://localhost", 0).timeout)
}

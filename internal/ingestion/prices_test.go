package ingestion

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPriceBarsCSV(t *testing.T) {
	in := `date,ticker,open,high,low,close,adj_close,volume
2024-01-02,pfe,28.5,29.1,28.2,28.9,28.4,31000000
2024-01-03, PFE ,28.9,29.0,28.0,28.1,,29000000
`
	bars, err := ReadPriceBarsCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, "PFE", bars[0].Ticker)
	assert.True(t, bars[0].Date.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 28.4, bars[0].AdjClose)
	assert.Equal(t, 31000000.0, bars[0].Volume)
	assert.Equal(t, "PFE", bars[1].Ticker)
	assert.Equal(t, 28.1, bars[1].AdjClose, "empty adj_close falls back to close")
}

func TestReadPriceBarsCSV_ColumnOrderIsFree(t *testing.T) {
	in := "ticker,volume,adj_close,close,low,high,open,date\nMRK,100,120,121,119,122,120.5,2024-02-01\n"

	bars, err := ReadPriceBarsCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 122.0, bars[0].High)
	assert.Equal(t, 120.0, bars[0].AdjClose)
}

func TestReadPriceBarsCSV_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"missing column": "date,ticker,close\n2024-01-02,PFE,1\n",
		"bad date":       "date,ticker,open,high,low,close,adj_close,volume\n01/02/2024,PFE,1,1,1,1,1,1\n",
		"bad number":     "date,ticker,open,high,low,close,adj_close,volume\n2024-01-02,PFE,x,1,1,1,1,1\n",
		"empty ticker":   "date,ticker,open,high,low,close,adj_close,volume\n2024-01-02,,1,1,1,1,1,1\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadPriceBarsCSV(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

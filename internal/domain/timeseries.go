package domain

import "time"

// PriceBar is one daily OHLCV bar for a ticker.
type PriceBar struct {
	Ticker   string    `json:"ticker"`
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   float64   `json:"volume"`
}

// PriceFeatureRow holds price-derived features for one (ticker, date).
// Corresponds to price_features table in ClickHouse.
type PriceFeatureRow struct {
	Ticker    string    `json:"ticker"`
	Date      time.Time `json:"date"`
	AdjClose  float64   `json:"adj_close"`
	Return    *float64  `json:"return"`     // pct change of adj close, NULL if first row
	LogReturn *float64  `json:"log_return"` // ln(adj[t]/adj[t-1]), NULL if first row
	Vol20D    *float64  `json:"vol_20d"`    // rolling 20-row sample std of return
	MA10      *float64  `json:"ma_10"`      // rolling 10-row mean of adj close
	MA50      *float64  `json:"ma_50"`      // rolling 50-row mean of adj close
	Mom10     *float64  `json:"mom_10"`     // adj[t]/adj[t-10] - 1
}

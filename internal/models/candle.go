// Package models defines the core domain entities: candles, pair snapshots, and pattern results.
package models

// Candle is one time-bucketed OHLCV summary for a trading pair.
// Timestamp is integer seconds; closed buckets align to the bucket width.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// CandleSeries is an ordered sequence of candles for one pair, oldest first.
// The trailing entry may be an in-progress bucket.
type CandleSeries []Candle

package models

// Reason explains why a series did not qualify.
type Reason string

const (
	// ReasonInsufficientCandles means the series had no closed candle to score.
	ReasonInsufficientCandles Reason = "insufficient_candles"
	// ReasonBelowVolumeFloor means the series average sat under the activity floor.
	ReasonBelowVolumeFloor Reason = "below_volume_floor"
	// ReasonVolumeNotElevated means the last closed candle did not beat the average.
	ReasonVolumeNotElevated Reason = "volume_not_elevated"
)

// PatternResult is the outcome of scoring one candle series.
// Derived purely from the series; AveragePreviousVolume carries the
// uncorrected geometric mean.
type PatternResult struct {
	Valid                 bool    `json:"valid"`
	Reason                Reason  `json:"reason,omitempty"`
	Timestamp             int64   `json:"timestamp,omitempty"`
	LastCandleVolume      float64 `json:"last_candle_volume,omitempty"`
	AveragePreviousVolume float64 `json:"average_previous_volume,omitempty"`
}

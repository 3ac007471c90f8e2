// Package detector scores candle series for the volume-spike pattern.
package detector

import (
	"math"
	"time"

	"github.com/andriusrak/onchain-alerts/internal/logger"
	"github.com/andriusrak/onchain-alerts/internal/models"
)

// Config holds the detection thresholds. The volume floor, correction cutoff,
// and thin-series factor are domain-tuned heuristics; keep them as configured
// rather than re-deriving them.
type Config struct {
	BucketSeconds    int64
	VolumeFloor      float64
	CorrectionCutoff float64
	ThinSeriesFactor float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		BucketSeconds:    300,
		VolumeFloor:      10,
		CorrectionCutoff: 999,
		ThinSeriesFactor: 7,
	}
}

// Detector evaluates whether the most recent closed candle of a series shows
// elevated volume against the geometric mean of its history.
type Detector struct {
	config Config
	now    func() time.Time
}

// New creates a detector with the given thresholds.
func New(config Config) *Detector {
	return &Detector{
		config: config,
		now:    time.Now,
	}
}

// IsCandleClosed reports whether the candle represents a fully elapsed bucket:
// its timestamp aligns to the bucket width and lies in the past. This is a
// coarse boundary test; it does not verify the series has no gaps.
func (d *Detector) IsCandleClosed(c models.Candle, now time.Time) bool {
	return c.Timestamp%d.config.BucketSeconds == 0 && c.Timestamp < now.Unix()
}

// PrepareData returns the working series for scoring: the trailing candle is
// dropped iff it is still open. A trailing candle that is unaligned rather
// than merely in-progress points at a data-quality problem upstream and is
// logged separately, but dropped all the same.
func (d *Detector) PrepareData(series models.CandleSeries) models.CandleSeries {
	if len(series) == 0 {
		return series
	}
	last := series[len(series)-1]
	if d.IsCandleClosed(last, d.now()) {
		return series
	}
	if last.Timestamp%d.config.BucketSeconds != 0 {
		logger.Warn("Misaligned candle timestamp %d (bucket width %ds)", last.Timestamp, d.config.BucketSeconds)
	}
	return series[:len(series)-1]
}

// Analyze scores a candle series. The target is the most recent closed candle
// of the prepared series; its volume is compared against the geometric mean of
// the volumes from the target back to the oldest entry. Means under the
// correction cutoff are multiplied by the thin-series factor before the
// comparison, compensating for the geometric mean collapsing toward zero when
// early volumes are near-zero.
func (d *Detector) Analyze(series models.CandleSeries) models.PatternResult {
	working := d.PrepareData(series)

	now := d.now()
	target := -1
	for i := len(working) - 1; i >= 0; i-- {
		if d.IsCandleClosed(working[i], now) {
			target = i
			break
		}
	}
	if target < 0 {
		return models.PatternResult{Valid: false, Reason: models.ReasonInsufficientCandles}
	}

	avgVolume := geometricMean(working[:target+1])
	if avgVolume < d.config.VolumeFloor {
		return models.PatternResult{Valid: false, Reason: models.ReasonBelowVolumeFloor}
	}

	lastVolume := working[target].Volume
	if lastVolume > d.effectiveAverage(avgVolume) {
		return models.PatternResult{
			Valid:                 true,
			Timestamp:             working[target].Timestamp,
			LastCandleVolume:      lastVolume,
			AveragePreviousVolume: avgVolume,
		}
	}

	return models.PatternResult{Valid: false, Reason: models.ReasonVolumeNotElevated}
}

// effectiveAverage applies the thin-series correction below the cutoff.
func (d *Detector) effectiveAverage(avg float64) float64 {
	if avg >= d.config.CorrectionCutoff {
		return avg
	}
	return avg * d.config.ThinSeriesFactor
}

// geometricMean computes (∏vᵢ)^(1/n) over candle volumes in the log domain,
// which keeps long series from overflowing the naive product. A zero volume
// anywhere collapses the mean to zero, same as the direct product.
func geometricMean(candles models.CandleSeries) float64 {
	if len(candles) == 0 {
		return 0
	}
	var logSum float64
	for _, c := range candles {
		if c.Volume == 0 {
			return 0
		}
		logSum += math.Log(c.Volume)
	}
	return math.Exp(logSum / float64(len(candles)))
}

package detector

import (
	"math"
	"testing"
	"time"

	"github.com/andriusrak/onchain-alerts/internal/models"
)

// Fixed reference time between two bucket boundaries.
var testNow = time.Unix(1_700_000_000, 0)

// Bucket-aligned timestamps in the past relative to testNow.
const (
	ts0 = int64(1_699_998_900)
	ts1 = int64(1_699_999_200)
	ts2 = int64(1_699_999_500)
	ts3 = int64(1_699_999_800)
)

func newTestDetector() *Detector {
	d := New(DefaultConfig())
	d.now = func() time.Time { return testNow }
	return d
}

func candles(volumes ...float64) models.CandleSeries {
	series := make(models.CandleSeries, 0, len(volumes))
	ts := ts3 - int64(len(volumes)-1)*300
	for _, v := range volumes {
		series = append(series, models.Candle{Timestamp: ts, Volume: v})
		ts += 300
	}
	return series
}

func TestIsCandleClosed(t *testing.T) {
	d := newTestDetector()

	tests := []struct {
		name      string
		timestamp int64
		want      bool
	}{
		{"aligned past bucket", ts3, true},
		{"unaligned timestamp", ts3 + 17, false},
		{"aligned future bucket", 1_700_000_100, false},
		{"timestamp equal to now", testNow.Unix(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := models.Candle{Timestamp: tt.timestamp}
			if got := d.IsCandleClosed(c, testNow); got != tt.want {
				t.Errorf("IsCandleClosed(ts=%d) = %v, want %v", tt.timestamp, got, tt.want)
			}
		})
	}
}

func TestPrepareData_DropsOpenTrailingCandle(t *testing.T) {
	d := newTestDetector()

	series := candles(100, 200, 300)
	// Make the trailing candle an in-progress bucket.
	series[len(series)-1].Timestamp = ts3 + 45

	working := d.PrepareData(series)
	if len(working) != 2 {
		t.Fatalf("Expected trailing open candle dropped, got %d candles", len(working))
	}
	if working[len(working)-1].Volume != 200 {
		t.Errorf("Wrong candle dropped: trailing volume = %f", working[len(working)-1].Volume)
	}
}

func TestPrepareData_KeepsClosedTrailingCandle(t *testing.T) {
	d := newTestDetector()

	series := candles(100, 200, 300)
	working := d.PrepareData(series)
	if len(working) != 3 {
		t.Errorf("Expected closed trailing candle kept, got %d candles", len(working))
	}
}

func TestPrepareData_EmptySeries(t *testing.T) {
	d := newTestDetector()
	if got := d.PrepareData(nil); len(got) != 0 {
		t.Errorf("Expected empty working series, got %d candles", len(got))
	}
}

func TestGeometricMean(t *testing.T) {
	mean := geometricMean(candles(10, 10, 10, 10))
	if math.Abs(mean-10) > 1e-9 {
		t.Errorf("Geometric mean of [10,10,10,10] = %f, want 10", mean)
	}

	mean = geometricMean(candles(1, 100))
	if math.Abs(mean-10) > 1e-9 {
		t.Errorf("Geometric mean of [1,100] = %f, want 10", mean)
	}

	if mean := geometricMean(candles(0, 50, 50)); mean != 0 {
		t.Errorf("Geometric mean with a zero volume = %f, want 0", mean)
	}
}

func TestAnalyze_NoClosedCandles(t *testing.T) {
	d := newTestDetector()

	// Single in-progress candle; prepared series ends up empty.
	series := models.CandleSeries{{Timestamp: ts3 + 61, Volume: 5000}}

	res := d.Analyze(series)
	if res.Valid {
		t.Fatal("Expected invalid result for series without closed candles")
	}
	if res.Reason != models.ReasonInsufficientCandles {
		t.Errorf("Reason = %q, want %q", res.Reason, models.ReasonInsufficientCandles)
	}
}

func TestAnalyze_BelowVolumeFloor(t *testing.T) {
	d := newTestDetector()

	res := d.Analyze(candles(1, 1, 2, 2))
	if res.Valid || res.Reason != models.ReasonBelowVolumeFloor {
		t.Errorf("Expected below_volume_floor, got valid=%v reason=%q", res.Valid, res.Reason)
	}

	// An elevated target volume must not rescue a series whose average sits
	// under the floor. Geometric mean here is 5000^(1/5) ≈ 5.5.
	res = d.Analyze(candles(1, 1, 1, 1, 5000))
	if res.Valid || res.Reason != models.ReasonBelowVolumeFloor {
		t.Errorf("Expected below_volume_floor, got valid=%v reason=%q", res.Valid, res.Reason)
	}
}

func TestAnalyze_NoCorrectionAboveCutoff(t *testing.T) {
	d := newTestDetector()

	// Geometric mean of the two volumes is 1000 (>= 999, no ×7), last is 1001.
	series := candles(1000.0*1000.0/1001.0, 1001)

	res := d.Analyze(series)
	if !res.Valid {
		t.Fatalf("Expected valid result, got reason %q", res.Reason)
	}
	if math.Abs(res.AveragePreviousVolume-1000) > 1e-6 {
		t.Errorf("AveragePreviousVolume = %f, want 1000", res.AveragePreviousVolume)
	}
	if res.LastCandleVolume != 1001 {
		t.Errorf("LastCandleVolume = %f, want 1001", res.LastCandleVolume)
	}
	if res.Timestamp != ts3 {
		t.Errorf("Timestamp = %d, want %d", res.Timestamp, ts3)
	}
}

func TestAnalyze_ThinSeriesCorrection(t *testing.T) {
	d := newTestDetector()

	// Geometric mean 100 (< 999), effective average 700.
	// Last volume 750 clears it; 650 does not.
	valid := d.Analyze(candles(100.0*100.0/750.0, 750))
	if !valid.Valid {
		t.Fatalf("Expected 750 > 700 to qualify, got reason %q", valid.Reason)
	}
	if math.Abs(valid.AveragePreviousVolume-100) > 1e-6 {
		t.Errorf("AveragePreviousVolume = %f, want uncorrected mean 100", valid.AveragePreviousVolume)
	}

	invalid := d.Analyze(candles(100.0*100.0/650.0, 650))
	if invalid.Valid {
		t.Fatal("Expected 650 <= 700 to be rejected")
	}
	if invalid.Reason != models.ReasonVolumeNotElevated {
		t.Errorf("Reason = %q, want %q", invalid.Reason, models.ReasonVolumeNotElevated)
	}
}

func TestAnalyze_SkipsUnalignedCandlesWhenPickingTarget(t *testing.T) {
	d := newTestDetector()

	// Trailing candle is open and gets dropped; the next one back is
	// unaligned, so the target scan must walk past it.
	series := candles(500, 2000, 9000, 42)
	series[3].Timestamp = ts3 + 60
	series[2].Timestamp += 7

	res := d.Analyze(series)
	if !res.Valid {
		t.Fatalf("Expected valid result, got reason %q", res.Reason)
	}
	if res.Timestamp != series[1].Timestamp {
		t.Errorf("Target timestamp = %d, want most recent closed %d", res.Timestamp, series[1].Timestamp)
	}
	if res.LastCandleVolume != 2000 {
		t.Errorf("LastCandleVolume = %f, want 2000", res.LastCandleVolume)
	}
}

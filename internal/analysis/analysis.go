// Package analysis computes compression rate and rhythm metrics.
//
// Every function is pure over a compression sequence (seconds, non-decreasing)
// and degrades to a neutral value when there is not enough data.
package analysis

import "math"

const (
	// DefaultRateWindow is the number of recent compressions used for the live rate.
	DefaultRateWindow = 10

	minRhythmIntervals = 3
	rateWeight         = 0.6
	rhythmWeight       = 0.4
)

// Intervals returns the elapsed time between consecutive compressions.
func Intervals(seq []float64) []float64 {
	if len(seq) < 2 {
		return nil
	}
	out := make([]float64, len(seq)-1)
	for i := 1; i < len(seq); i++ {
		out[i-1] = seq[i] - seq[i-1]
	}
	return out
}

// Rate returns the compression rate in BPM over the last window compressions.
func Rate(seq []float64, window int) float64 {
	if window <= 0 {
		window = DefaultRateWindow
	}
	if len(seq) > window {
		seq = seq[len(seq)-window:]
	}
	if len(seq) < 2 {
		return 0
	}
	span := seq[len(seq)-1] - seq[0]
	if span == 0 {
		return 0
	}
	return float64(len(seq)-1) / span * 60
}

// RateAccuracy scores each interval against the target interval with a
// linear penalty and returns the mean.
func RateAccuracy(seq []float64, targetRate float64) float64 {
	if len(seq) < 2 || targetRate <= 0 {
		return 0
	}
	target := 60 / targetRate
	var sum float64
	intervals := Intervals(seq)
	for _, iv := range intervals {
		sum += math.Max(0, 100-math.Abs(iv-target)/target*100)
	}
	return clampScore(sum / float64(len(intervals)))
}

// RhythmConsistency converts the coefficient of variation of the intervals
// into a 0-100 score. At least three intervals are required.
func RhythmConsistency(seq []float64) float64 {
	intervals := Intervals(seq)
	if len(intervals) < minRhythmIntervals {
		return 0
	}
	mean, std := meanStd(intervals)
	if mean == 0 {
		return 0
	}
	return clampScore(100 - std/mean*100)
}

// OverallScore weights rate accuracy and rhythm consistency 60/40.
func OverallScore(seq []float64, targetRate float64) float64 {
	if len(seq) < 2 {
		return 0
	}
	return combine(RateAccuracy(seq, targetRate), RhythmConsistency(seq))
}

func combine(rateAccuracy, rhythm float64) float64 {
	return rateWeight*rateAccuracy + rhythmWeight*rhythm
}

// meanStd returns the mean and population standard deviation.
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

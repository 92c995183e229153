package analysis

import "math"

const metronomeTolerance = 0.1

// Profile summarizes the interval distribution of a sequence.
type Profile struct {
	MeanInterval float64
	StdInterval  float64
	CV           float64
	Consistency  float64
	ActualRate   float64
	// RateAccuracy compares the mean rate, not individual beats, to the target.
	RateAccuracy float64
	TargetRate   float64
}

// ProfileRhythm describes the rhythm of a sequence with at least three compressions.
func ProfileRhythm(seq []float64, targetRate float64) (Profile, bool) {
	if len(seq) < 3 {
		return Profile{}, false
	}
	mean, std := meanStd(Intervals(seq))
	p := Profile{
		MeanInterval: mean,
		StdInterval:  std,
		TargetRate:   targetRate,
	}
	if mean == 0 {
		return p, true
	}
	p.CV = std / mean
	p.Consistency = clampScore(100 - p.CV*100)
	p.ActualRate = 60 / mean
	if targetRate > 0 {
		p.RateAccuracy = clampScore(100 - math.Abs(p.ActualRate-targetRate)/targetRate*100)
	}
	return p, true
}

// MetronomeInterval returns seconds between metronome beats.
func MetronomeInterval(targetRate float64) float64 {
	if targetRate <= 0 {
		return 0
	}
	return 60 / targetRate
}

// MetronomeBeat reports whether elapsed seconds fall within 100ms before the next beat.
func MetronomeBeat(elapsed, targetRate float64) bool {
	interval := MetronomeInterval(targetRate)
	if interval == 0 || elapsed < 0 {
		return false
	}
	next := (math.Floor(elapsed/interval) + 1) * interval
	return math.Abs(elapsed-next) < metronomeTolerance
}

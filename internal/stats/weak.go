package stats

import (
	"math"
	"sort"

	"github.com/verte-zerg/cprtrain/internal/analysis"
)

// Beat is one inter-compression interval.
type Beat struct {
	// Index is the position of the compression that closed the interval.
	Index     int
	Interval  float64
	Deviation float64
}

// IrregularBeats returns up to top intervals furthest from the target
// interval, largest deviation first.
func IrregularBeats(seq []float64, targetRate float64, top int) []Beat {
	target := analysis.MetronomeInterval(targetRate)
	intervals := analysis.Intervals(seq)
	if target == 0 || len(intervals) == 0 || top <= 0 {
		return nil
	}
	beats := make([]Beat, len(intervals))
	for i, iv := range intervals {
		beats[i] = Beat{Index: i + 1, Interval: iv, Deviation: iv - target}
	}
	sort.SliceStable(beats, func(i, j int) bool {
		return math.Abs(beats[i].Deviation) > math.Abs(beats[j].Deviation)
	})
	if top > len(beats) {
		top = len(beats)
	}
	return beats[:top]
}

package analysis

const (
	fatigueMinEvents  = 30
	fatigueSegments   = 3
	fatigueMinSegment = 5
	fatigueThreshold  = 10
)

// Fatigue reports rate accuracy per session third and the decline between
// the first and last third.
type Fatigue struct {
	Detected bool
	Decline  float64
	Segments [fatigueSegments]float64
}

// DetectFatigue splits the sequence into thirds by floor division (the
// remainder joins the last third) and flags fatigue when rate accuracy drops
// by more than ten points. ok is false when the sequence is too short.
func DetectFatigue(seq []float64, targetRate float64) (Fatigue, bool) {
	if len(seq) < fatigueMinEvents {
		return Fatigue{}, false
	}
	size := len(seq) / fatigueSegments
	segments := [fatigueSegments][]float64{
		seq[:size],
		seq[size : 2*size],
		seq[2*size:],
	}

	var out Fatigue
	for i, seg := range segments {
		if len(seg) <= fatigueMinSegment {
			return Fatigue{}, false
		}
		out.Segments[i] = RateAccuracy(seg, targetRate)
	}
	out.Decline = out.Segments[0] - out.Segments[fatigueSegments-1]
	out.Detected = out.Decline > fatigueThreshold
	return out, true
}

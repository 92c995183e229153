package analysis

import (
	"fmt"
	"math"

	"github.com/verte-zerg/cprtrain/internal/model"
)

const (
	excellentRateBand = 5
	acceptableBand    = 10
	minRhythmEvents   = 5
	excellentRhythm   = 80
	acceptableRhythm  = 60
)

// Band is one line of live feedback.
type Band struct {
	Type    model.Severity
	Message string
}

// Feedback is the live feedback for the sequence recorded so far.
type Feedback struct {
	Rate        float64
	Consistency float64
	RateBand    Band
	RhythmBand  Band
}

// LiveFeedback classifies the current rate and rhythm against the target.
func LiveFeedback(seq []float64, targetRate float64, window int) Feedback {
	fb := Feedback{}
	if len(seq) < 2 {
		fb.RateBand = Band{Type: model.SeverityInfo, Message: "Start compressions"}
	} else {
		fb.Rate = Rate(seq, window)
		fb.RateBand = rateBand(fb.Rate, targetRate)
	}

	if len(seq) < minRhythmEvents {
		fb.RhythmBand = Band{Type: model.SeverityInfo, Message: "Building rhythm pattern..."}
		return fb
	}
	fb.Consistency = RhythmConsistency(seq)
	switch {
	case fb.Consistency > excellentRhythm:
		fb.RhythmBand = Band{Type: model.SeveritySuccess, Message: "Excellent rhythm consistency!"}
	case fb.Consistency > acceptableRhythm:
		fb.RhythmBand = Band{Type: model.SeverityWarning, Message: "Good rhythm - maintain consistency"}
	default:
		fb.RhythmBand = Band{Type: model.SeverityError, Message: "Focus on maintaining steady rhythm"}
	}
	return fb
}

func rateBand(rate, target float64) Band {
	diff := math.Abs(rate - target)
	switch {
	case diff <= excellentRateBand:
		return Band{Type: model.SeveritySuccess, Message: fmt.Sprintf("Excellent rate: %.0f BPM", rate)}
	case diff <= acceptableBand:
		return Band{Type: model.SeverityWarning, Message: fmt.Sprintf("Good rate: %.0f BPM (target %.0f)", rate, target)}
	case rate < target:
		return Band{Type: model.SeverityError, Message: fmt.Sprintf("Too slow: %.0f BPM - speed up!", rate)}
	default:
		return Band{Type: model.SeverityError, Message: fmt.Sprintf("Too fast: %.0f BPM - slow down!", rate)}
	}
}

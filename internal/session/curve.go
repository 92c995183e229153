package session

import "github.com/verte-zerg/cprtrain/internal/model"

const (
	// DefaultLevelWindow is the number of recent sessions used for the skill level.
	DefaultLevelWindow = 10

	expertScore       = 90
	advancedScore     = 80
	intermediateScore = 70

	minCurveSessions = 3
	maxCurveWindow   = 5
	decliningSlope   = -1
)

// Trend classifies the learning curve slope.
type Trend string

// Trend values.
const (
	TrendImproving Trend = "Improving"
	TrendStable    Trend = "Stable"
	TrendDeclining Trend = "Declining"
)

// Curve is the learning curve over a session history.
type Curve struct {
	Slope     float64
	Trend     Trend
	Window    int
	Scores    []float64
	MovingAvg []float64
}

// ClassifyLevel maps the mean score of the last window records to a level.
func ClassifyLevel(records []model.SessionRecord, window int) model.Level {
	if len(records) == 0 {
		return model.LevelBeginner
	}
	return levelFor(meanScore(recent(records, window)))
}

func levelFor(avg float64) model.Level {
	switch {
	case avg >= expertScore:
		return model.LevelExpert
	case avg >= advancedScore:
		return model.LevelAdvanced
	case avg >= intermediateScore:
		return model.LevelIntermediate
	default:
		return model.LevelBeginner
	}
}

// LearningCurve fits a linear trend over the scores. ok is false for fewer
// than three records.
func LearningCurve(records []model.SessionRecord) (Curve, bool) {
	if len(records) < minCurveSessions {
		return Curve{}, false
	}
	scores := make([]float64, len(records))
	for i, r := range records {
		scores[i] = r.Score
	}
	window := len(scores)
	if window > maxCurveWindow {
		window = maxCurveWindow
	}
	slope := Slope(scores)
	trend := TrendStable
	switch {
	case slope > 0:
		trend = TrendImproving
	case slope < decliningSlope:
		trend = TrendDeclining
	}
	return Curve{
		Slope:     slope,
		Trend:     trend,
		Window:    window,
		Scores:    scores,
		MovingAvg: MovingAverage(scores, window),
	}, true
}

// Slope returns the least-squares slope of values against their index.
func Slope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}
	meanX := (n - 1) / 2
	var meanY float64
	for _, v := range values {
		meanY += v
	}
	meanY /= n
	var num, den float64
	for i, v := range values {
		dx := float64(i) - meanX
		num += dx * (v - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// MovingAverage computes a rolling mean over the provided window size.
// Leading points average over the values seen so far.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

func recent(records []model.SessionRecord, window int) []model.SessionRecord {
	if window <= 0 {
		window = DefaultLevelWindow
	}
	if len(records) > window {
		return records[len(records)-window:]
	}
	return records
}

func meanScore(records []model.SessionRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.Score
	}
	return sum / float64(len(records))
}

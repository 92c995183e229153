package session

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/cprtrain/internal/model"
)

const (
	recentPeriod       = 7 * 24 * time.Hour
	minRecentSessions  = 2
	basicsScore        = 60
	consistencyScore   = 80
	weakScenarioScore  = 75
	defaultSessionName = "Unlabeled"
)

// Recommend builds training suggestions from the session history.
func Recommend(records []model.SessionRecord, now time.Time, window int) []model.Recommendation {
	if len(records) == 0 {
		return []model.Recommendation{{
			Type:    model.SeverityInfo,
			Message: "Start with basic CPR training to establish baseline skills",
		}}
	}

	var recs []model.Recommendation
	if countSince(records, now.Add(-recentPeriod)) < minRecentSessions {
		recs = append(recs, model.Recommendation{
			Type:    model.SeverityWarning,
			Message: "Practice more frequently - aim for 2-3 sessions per week",
		})
	}

	avg := meanScore(recent(records, window))
	switch {
	case avg < basicsScore:
		recs = append(recs, model.Recommendation{
			Type:    model.SeverityError,
			Message: "Focus on basic technique - review educational content",
		})
	case avg < consistencyScore:
		recs = append(recs, model.Recommendation{
			Type:    model.SeverityWarning,
			Message: "Good progress! Focus on compression rate consistency",
		})
	case avg >= expertScore:
		recs = append(recs, model.Recommendation{
			Type:    model.SeveritySuccess,
			Message: "Excellent skills! Consider advanced scenarios or teaching others",
		})
	}

	if weak := WeakScenarios(records, weakScenarioScore); len(weak) > 0 {
		recs = append(recs, model.Recommendation{
			Type:    model.SeverityInfo,
			Message: fmt.Sprintf("Practice these scenarios: %s", strings.Join(weak, ", ")),
		})
	}
	return recs
}

// WeakScenarios returns scenario labels whose mean score is below threshold,
// weakest first.
func WeakScenarios(records []model.SessionRecord, threshold float64) []string {
	var out []string
	for _, b := range ByScenario(records) {
		if b.MeanScore < threshold {
			out = append(out, b.Label)
		}
	}
	return out
}

// Breakdown aggregates sessions sharing a label.
type Breakdown struct {
	Label        string
	Sessions     int
	MeanScore    float64
	BestScore    float64
	Compressions int
}

// ByScenario groups records by scenario, lowest mean score first.
func ByScenario(records []model.SessionRecord) []Breakdown {
	return groupBy(records, func(r model.SessionRecord) string { return r.Scenario })
}

// ByDifficulty groups records by difficulty, lowest mean score first.
func ByDifficulty(records []model.SessionRecord) []Breakdown {
	return groupBy(records, func(r model.SessionRecord) string { return r.Difficulty })
}

func groupBy(records []model.SessionRecord, key func(model.SessionRecord) string) []Breakdown {
	index := map[string]int{}
	var out []Breakdown
	for _, r := range records {
		label := key(r)
		if label == "" {
			label = defaultSessionName
		}
		i, ok := index[label]
		if !ok {
			i = len(out)
			index[label] = i
			out = append(out, Breakdown{Label: label})
		}
		b := &out[i]
		b.Sessions++
		b.MeanScore += r.Score
		b.Compressions += r.Compressions
		if r.Score > b.BestScore {
			b.BestScore = r.Score
		}
	}
	for i := range out {
		out[i].MeanScore /= float64(out[i].Sessions)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanScore == out[j].MeanScore {
			return out[i].Label < out[j].Label
		}
		return out[i].MeanScore < out[j].MeanScore
	})
	return out
}

func countSince(records []model.SessionRecord, cutoff time.Time) int {
	n := 0
	for _, r := range records {
		if !r.CompletedAt.Before(cutoff) {
			n++
		}
	}
	return n
}

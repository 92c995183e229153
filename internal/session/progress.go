package session

import (
	"time"

	"github.com/verte-zerg/cprtrain/internal/model"
)

// Progress summarizes the whole history.
type Progress struct {
	Sessions          int
	AverageScore      float64
	BestScore         float64
	TotalCompressions int
	WeekSessions      int
	WeekCompressions  int
	Level             model.Level
}

// Summarize computes overview metrics for a dashboard.
func Summarize(records []model.SessionRecord, now time.Time, window int) Progress {
	p := Progress{Sessions: len(records), Level: ClassifyLevel(records, window)}
	if len(records) == 0 {
		return p
	}
	cutoff := now.Add(-recentPeriod)
	for _, r := range records {
		p.TotalCompressions += r.Compressions
		if r.Score > p.BestScore {
			p.BestScore = r.Score
		}
		if !r.CompletedAt.Before(cutoff) {
			p.WeekSessions++
			p.WeekCompressions += r.Compressions
		}
	}
	p.AverageScore = meanScore(records)
	return p
}

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/cprtrain/internal/analysis"
	"github.com/verte-zerg/cprtrain/internal/model"
	"github.com/verte-zerg/cprtrain/internal/recorder"
)

// Metadata labels a finished session.
type Metadata struct {
	Difficulty string
	Scenario   string
	// StartedAt is the wall-clock start; zero means derive it from the duration.
	StartedAt time.Time
}

// Aggregator finalizes recordings into the session log.
type Aggregator struct {
	log    Log
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewAggregator returns an aggregator writing to log.
func NewAggregator(log Log, logger logrus.FieldLogger) *Aggregator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Aggregator{log: log, logger: logger, now: time.Now}
}

// SetClock replaces the wall clock used for completion timestamps.
func (a *Aggregator) SetClock(now func() time.Time) {
	a.now = now
}

// Finalize scores a stopped recording and appends it to the log.
func (a *Aggregator) Finalize(ctx context.Context, res recorder.Result, meta Metadata) (model.SessionRecord, error) {
	if !res.Started {
		return model.SessionRecord{}, recorder.ErrNoActiveSession
	}
	seq := res.Compressions
	duration := 0.0
	if len(seq) > 0 {
		duration = seq[len(seq)-1] - res.StartedAt
	}
	offsets := make([]float64, len(seq))
	for i, ts := range seq {
		offsets[i] = ts - res.StartedAt
	}

	completed := a.now()
	started := meta.StartedAt
	if started.IsZero() {
		started = completed.Add(-time.Duration(duration * float64(time.Second)))
	}
	rec := model.SessionRecord{
		UUID:              uuid.NewString(),
		StartedAt:         started,
		CompletedAt:       completed,
		DurationSec:       duration,
		TargetRate:        int(res.TargetRate),
		Compressions:      len(seq),
		ActualRate:        analysis.Rate(seq, analysis.DefaultRateWindow),
		Score:             analysis.OverallScore(seq, res.TargetRate),
		RateAccuracy:      analysis.RateAccuracy(seq, res.TargetRate),
		RhythmConsistency: analysis.RhythmConsistency(seq),
		Difficulty:        meta.Difficulty,
		Scenario:          meta.Scenario,
		Offsets:           offsets,
	}

	id, err := a.log.Append(ctx, rec)
	if err != nil {
		return model.SessionRecord{}, fmt.Errorf("failed to append session: %w", err)
	}
	rec.ID = id
	a.logger.WithFields(logrus.Fields{
		"session":      rec.ID,
		"compressions": rec.Compressions,
		"score":        fmt.Sprintf("%.1f", rec.Score),
		"scenario":     rec.Scenario,
	}).Info("session finalized")
	return rec, nil
}

// Level classifies the user from the most recent records in the log.
func (a *Aggregator) Level(ctx context.Context, window int) (model.Level, error) {
	records, err := a.log.Sessions(ctx)
	if err != nil {
		return model.LevelBeginner, err
	}
	return ClassifyLevel(records, window), nil
}

// Curve computes the learning curve over the whole log.
func (a *Aggregator) Curve(ctx context.Context) (Curve, bool, error) {
	records, err := a.log.Sessions(ctx)
	if err != nil {
		return Curve{}, false, err
	}
	curve, ok := LearningCurve(records)
	return curve, ok, nil
}

// Recommendations builds training suggestions from the log.
func (a *Aggregator) Recommendations(ctx context.Context, window int) ([]model.Recommendation, error) {
	records, err := a.log.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	return Recommend(records, a.now(), window), nil
}

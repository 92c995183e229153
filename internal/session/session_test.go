package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cprtrain/internal/model"
	"github.com/verte-zerg/cprtrain/internal/recorder"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestAggregator(t *testing.T, log Log) (*Aggregator, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	agg := NewAggregator(log, logger)
	agg.SetClock(func() time.Time { return fixedNow })
	return agg, hook
}

func recordsWithScores(scores ...float64) []model.SessionRecord {
	out := make([]model.SessionRecord, len(scores))
	for i, s := range scores {
		out[i] = model.SessionRecord{
			ID:          int64(i + 1),
			Score:       s,
			Scenario:    "Basic Adult CPR",
			CompletedAt: fixedNow.Add(-time.Hour),
		}
	}
	return out
}

func TestFinalizeAppendsRecord(t *testing.T) {
	log := NewMemoryLog()
	agg, hook := newTestAggregator(t, log)

	rec := recorder.New()
	rec.Start(100, 120)
	for i := 1; i <= 8; i++ {
		_, err := rec.Record(100 + float64(i)*0.5)
		require.NoError(t, err)
	}
	res, err := rec.Stop()
	require.NoError(t, err)

	got, err := agg.Finalize(context.Background(), res, Metadata{Difficulty: "Beginner", Scenario: "Infant CPR"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.NotEmpty(t, got.UUID)
	assert.Equal(t, 8, got.Compressions)
	assert.InDelta(t, 4.0, got.DurationSec, 1e-9)
	assert.Equal(t, 120, got.TargetRate)
	assert.InDelta(t, 100, got.RateAccuracy, 1e-9)
	assert.InDelta(t, 100, got.RhythmConsistency, 1e-9)
	assert.InDelta(t, 100, got.Score, 1e-9)
	assert.InDelta(t, 120, got.ActualRate, 1e-9)
	assert.Equal(t, fixedNow, got.CompletedAt)
	assert.Equal(t, fixedNow.Add(-4*time.Second), got.StartedAt)
	assert.InDelta(t, 0.5, got.Offsets[0], 1e-9)
	assert.Equal(t, "Infant CPR", got.Scenario)

	stored, err := log.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, got.UUID, stored[0].UUID)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "session finalized", hook.LastEntry().Message)
}

func TestFinalizeWithoutCompressions(t *testing.T) {
	log := NewMemoryLog()
	agg, _ := newTestAggregator(t, log)

	rec := recorder.New()
	rec.Start(5, 110)
	res, err := rec.Stop()
	require.NoError(t, err)

	got, err := agg.Finalize(context.Background(), res, Metadata{})
	require.NoError(t, err)
	assert.Zero(t, got.DurationSec)
	assert.Zero(t, got.Compressions)
	assert.Zero(t, got.Score)
}

func TestFinalizeIDsIncrement(t *testing.T) {
	log := NewMemoryLog()
	agg, _ := newTestAggregator(t, log)
	res := recorder.Result{Started: true, TargetRate: 110}
	for want := int64(1); want <= 3; want++ {
		got, err := agg.Finalize(context.Background(), res, Metadata{})
		require.NoError(t, err)
		assert.Equal(t, want, got.ID)
	}
	n, err := log.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFinalizeNeverStarted(t *testing.T) {
	agg, _ := newTestAggregator(t, NewMemoryLog())
	_, err := agg.Finalize(context.Background(), recorder.Result{}, Metadata{})
	require.ErrorIs(t, err, recorder.ErrNoActiveSession)
}

type failingLog struct{ MemoryLog }

func (f *failingLog) Append(context.Context, model.SessionRecord) (int64, error) {
	return 0, errors.New("disk full")
}

func TestFinalizeWrapsLogError(t *testing.T) {
	agg, _ := newTestAggregator(t, &failingLog{})
	_, err := agg.Finalize(context.Background(), recorder.Result{Started: true, TargetRate: 110}, Metadata{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestClassifyLevel(t *testing.T) {
	assert.Equal(t, model.LevelBeginner, ClassifyLevel(nil, 10))
	assert.Equal(t, model.LevelExpert, ClassifyLevel(recordsWithScores(95, 90), 10))
	assert.Equal(t, model.LevelAdvanced, ClassifyLevel(recordsWithScores(80), 10))
	assert.Equal(t, model.LevelIntermediate, ClassifyLevel(recordsWithScores(75, 65), 10))
	assert.Equal(t, model.LevelBeginner, ClassifyLevel(recordsWithScores(40), 10))
	// only the last two sessions count
	assert.Equal(t, model.LevelExpert, ClassifyLevel(recordsWithScores(10, 10, 95, 95), 2))
}

func TestLearningCurve(t *testing.T) {
	_, ok := LearningCurve(recordsWithScores(50, 60))
	assert.False(t, ok)

	curve, ok := LearningCurve(recordsWithScores(50, 60, 70))
	require.True(t, ok)
	assert.InDelta(t, 10, curve.Slope, 1e-9)
	assert.Equal(t, TrendImproving, curve.Trend)
	assert.Equal(t, 3, curve.Window)
	assert.Equal(t, []float64{50, 55, 60}, curve.MovingAvg)

	curve, ok = LearningCurve(recordsWithScores(90, 80, 70, 60, 50, 40))
	require.True(t, ok)
	assert.Equal(t, TrendDeclining, curve.Trend)
	assert.Equal(t, 5, curve.Window)
	assert.Len(t, curve.MovingAvg, 6)

	curve, ok = LearningCurve(recordsWithScores(70, 69.5, 69))
	require.True(t, ok)
	assert.Equal(t, TrendStable, curve.Trend)
}

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{1, 1.5, 2.5, 3.5}, MovingAverage([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{3, 4}, MovingAverage([]float64{3, 4}, 1))
	assert.Empty(t, MovingAverage(nil, 3))
}

func TestSlope(t *testing.T) {
	assert.Zero(t, Slope([]float64{4}))
	assert.InDelta(t, -2, Slope([]float64{10, 8, 6, 4}), 1e-9)
}

func TestRecommendEmptyLog(t *testing.T) {
	recs := Recommend(nil, fixedNow, 10)
	require.Len(t, recs, 1)
	assert.Equal(t, model.SeverityInfo, recs[0].Type)
}

func TestRecommendNamesWeakScenario(t *testing.T) {
	var records []model.SessionRecord
	for i := 0; i < 3; i++ {
		records = append(records, model.SessionRecord{Score: 60, Scenario: "Infant CPR", CompletedAt: fixedNow.Add(-time.Hour)})
	}
	for i := 0; i < 7; i++ {
		records = append(records, model.SessionRecord{Score: 85, Scenario: "Basic Adult CPR", CompletedAt: fixedNow.Add(-time.Hour)})
	}
	recs := Recommend(records, fixedNow, 10)

	assert.Contains(t, recs, model.Recommendation{
		Type:    model.SeverityInfo,
		Message: "Practice these scenarios: Infant CPR",
	})
	assert.Contains(t, recs, model.Recommendation{
		Type:    model.SeverityWarning,
		Message: "Good progress! Focus on compression rate consistency",
	})
}

func TestRecommendFrequencyAndBands(t *testing.T) {
	old := []model.SessionRecord{{Score: 95, Scenario: "Team CPR", CompletedAt: fixedNow.Add(-30 * 24 * time.Hour)}}
	recs := Recommend(old, fixedNow, 10)
	require.Len(t, recs, 2)
	assert.Equal(t, model.SeverityWarning, recs[0].Type)
	assert.Contains(t, recs[0].Message, "Practice more frequently")
	assert.Equal(t, model.SeveritySuccess, recs[1].Type)

	recs = Recommend(recordsWithScores(40, 50), fixedNow, 10)
	require.Len(t, recs, 2)
	assert.Equal(t, model.SeverityError, recs[0].Type)
	assert.Equal(t, model.SeverityInfo, recs[1].Type)

	recs = Recommend(recordsWithScores(85, 85), fixedNow, 10)
	assert.Empty(t, recs)
}

func TestByScenarioSortsWeakestFirst(t *testing.T) {
	records := []model.SessionRecord{
		{Score: 90, Scenario: "Team CPR", Compressions: 10},
		{Score: 50, Scenario: "Infant CPR", Compressions: 5},
		{Score: 70, Scenario: "Team CPR", Compressions: 20},
		{Score: 80},
	}
	got := ByScenario(records)
	require.Len(t, got, 3)
	assert.Equal(t, "Infant CPR", got[0].Label)
	assert.Equal(t, "Team CPR", got[1].Label)
	assert.InDelta(t, 80, got[1].MeanScore, 1e-9)
	assert.Equal(t, 30, got[1].Compressions)
	assert.Equal(t, 90.0, got[1].BestScore)
	assert.Equal(t, "Unlabeled", got[2].Label)
}

func TestSummarize(t *testing.T) {
	records := []model.SessionRecord{
		{Score: 60, Compressions: 100, CompletedAt: fixedNow.Add(-10 * 24 * time.Hour)},
		{Score: 90, Compressions: 120, CompletedAt: fixedNow.Add(-time.Hour)},
	}
	p := Summarize(records, fixedNow, 10)
	assert.Equal(t, 2, p.Sessions)
	assert.InDelta(t, 75, p.AverageScore, 1e-9)
	assert.Equal(t, 90.0, p.BestScore)
	assert.Equal(t, 220, p.TotalCompressions)
	assert.Equal(t, 1, p.WeekSessions)
	assert.Equal(t, 120, p.WeekCompressions)
	assert.Equal(t, model.LevelIntermediate, p.Level)

	empty := Summarize(nil, fixedNow, 10)
	assert.Equal(t, model.LevelBeginner, empty.Level)
}

func TestAggregatorReadsLog(t *testing.T) {
	log := NewMemoryLog()
	agg, _ := newTestAggregator(t, log)
	ctx := context.Background()
	for _, r := range recordsWithScores(92, 94, 96) {
		_, err := log.Append(ctx, r)
		require.NoError(t, err)
	}

	level, err := agg.Level(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, model.LevelExpert, level)

	curve, ok, err := agg.Curve(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TrendImproving, curve.Trend)

	recs, err := agg.Recommendations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, model.SeveritySuccess, recs[0].Type)
}

func TestNewAggregatorDefaultsLogger(t *testing.T) {
	agg := NewAggregator(NewMemoryLog(), nil)
	assert.Equal(t, logrus.StandardLogger(), agg.logger)
}

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cprtrain/internal/model"
	"github.com/verte-zerg/cprtrain/internal/session"
)

var _ session.Log = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "cprtrain.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testRecord(i int, scenario string) model.SessionRecord {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
	return model.SessionRecord{
		UUID:              uuid.NewString(),
		StartedAt:         start,
		CompletedAt:       start.Add(2 * time.Minute),
		DurationSec:       120,
		TargetRate:        110,
		Compressions:      3,
		ActualRate:        108.5,
		Score:             70 + float64(i),
		RateAccuracy:      80,
		RhythmConsistency: 55,
		Difficulty:        "Beginner",
		Scenario:          scenario,
		Offsets:           []float64{0.5, 1.05, 1.6},
	}
}

func TestAppendAndSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := st.Append(ctx, testRecord(i, "Basic Adult CPR"))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Less(t, ids[0], ids[1])
	assert.Less(t, ids[1], ids[2])

	n, err := st.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	sessions, err := st.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	want := testRecord(1, "Basic Adult CPR")
	got := sessions[1]
	assert.Equal(t, ids[1], got.ID)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))
	assert.True(t, want.CompletedAt.Equal(got.CompletedAt))
	assert.Equal(t, want.Score, got.Score)
	assert.Equal(t, want.ActualRate, got.ActualRate)
	assert.Equal(t, want.Scenario, got.Scenario)
	assert.Nil(t, got.Offsets)

	offsets, err := st.Offsets(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.05, 1.6}, offsets)
}

func TestAppendRejectsEmptyUUID(t *testing.T) {
	st := openTestStore(t)
	rec := testRecord(0, "Team CPR")
	rec.UUID = ""
	_, err := st.Append(context.Background(), rec)
	require.Error(t, err)
}

func TestAppendDuplicateUUIDRollsBack(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	rec := testRecord(0, "Team CPR")
	_, err := st.Append(ctx, rec)
	require.NoError(t, err)

	_, err = st.Append(ctx, rec)
	require.Error(t, err)
	n, err := st.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestListSessionsFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	scenarios := []string{"Infant CPR", "Team CPR", "Infant CPR", "Infant CPR"}
	for i, sc := range scenarios {
		_, err := st.Append(ctx, testRecord(i, sc))
		require.NoError(t, err)
	}

	infant, err := st.ListSessions(ctx, model.StatsConfig{Scenario: "Infant CPR"})
	require.NoError(t, err)
	assert.Len(t, infant, 3)

	last, err := st.ListSessions(ctx, model.StatsConfig{Scenario: "Infant CPR", Last: 2})
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, infant[1].ID, last[0].ID)

	since := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestImportSessionSkipsExisting(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	rec := testRecord(0, "Team CPR")

	added, err := st.ImportSession(ctx, rec)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = st.ImportSession(ctx, rec)
	require.NoError(t, err)
	assert.False(t, added)

	ok, err := st.HasSession(ctx, rec.UUID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestQuizResults(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	_, err := st.InsertQuizResult(ctx, model.QuizResult{Score: 80, Correct: 8, Total: 10, CompletedAt: now})
	require.NoError(t, err)
	_, err = st.InsertQuizResult(ctx, model.QuizResult{Score: 50, Correct: 5, Total: 10, CompletedAt: now.Add(time.Hour)})
	require.NoError(t, err)

	results, err := st.ListQuizResults(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 8, results[0].Correct)
	assert.True(t, now.Equal(results[0].CompletedAt))
	assert.Equal(t, 50.0, results[1].Score)
}

func TestImportQuizResultSkipsExisting(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	res := model.QuizResult{Score: 90, Correct: 9, Total: 10, CompletedAt: time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)}

	added, err := st.ImportQuizResult(ctx, res)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = st.ImportQuizResult(ctx, res)
	require.NoError(t, err)
	assert.False(t, added)

	results, err := st.ListQuizResults(ctx)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

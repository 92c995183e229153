package stats

import (
	"context"
	"time"

	"github.com/verte-zerg/cprtrain/internal/model"
	"github.com/verte-zerg/cprtrain/internal/session"
)

const bestSessionCount = 5

// Source is the history a report reads from.
type Source interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error)
	ListQuizResults(ctx context.Context) ([]model.QuizResult, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions        []model.SessionRecord
	Window          int
	Progress        session.Progress
	Curve           session.Curve
	HasCurve        bool
	Recommendations []model.Recommendation
	Scenarios       []session.Breakdown
	Difficulties    []session.Breakdown
	Best            []model.SessionRecord
	Quizzes         []model.QuizResult
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig, now time.Time) (Report, error) {
	sessions, err := src.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	quizzes, err := src.ListQuizResults(ctx)
	if err != nil {
		return Report{}, err
	}
	levelWindow := cfg.LevelWindow
	if levelWindow <= 0 {
		levelWindow = session.DefaultLevelWindow
	}
	window := cfg.CurveWindow
	curve, ok := session.LearningCurve(sessions)
	if window <= 0 {
		window = curve.Window
	}

	return Report{
		Sessions:        sessions,
		Window:          window,
		Progress:        session.Summarize(sessions, now, levelWindow),
		Curve:           curve,
		HasCurve:        ok,
		Recommendations: session.Recommend(sessions, now, levelWindow),
		Scenarios:       session.ByScenario(sessions),
		Difficulties:    session.ByDifficulty(sessions),
		Best:            TopSessions(sessions, bestSessionCount),
		Quizzes:         quizzes,
	}, nil
}

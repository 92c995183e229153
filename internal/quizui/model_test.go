package quizui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cprtrain/internal/model"
	"github.com/verte-zerg/cprtrain/internal/quiz"
)

type recordingSaver struct {
	saved []model.QuizResult
	err   error
}

func (s *recordingSaver) InsertQuizResult(_ context.Context, res model.QuizResult) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.saved = append(s.saved, res)
	return int64(len(s.saved)), nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newQuiz(t *testing.T, saver ResultSaver) (*Model, []quiz.Question, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	questions := quiz.Bank()[:3]
	m := NewModel(questions, saver, logger)
	m.now = func() time.Time { return time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC) }
	return m, questions, hook
}

func TestQuizFlowSavesResult(t *testing.T) {
	saver := &recordingSaver{}
	m, questions, hook := newQuiz(t, saver)

	// Correct by number key.
	m.Update(key(string(rune('1' + questions[0].Correct))))
	assert.True(t, m.revealed)
	assert.Contains(t, m.View(), "Correct!")
	m.Update(key("enter"))

	// Correct by moving the cursor.
	for i := 0; i < questions[1].Correct; i++ {
		m.Update(key("down"))
	}
	m.Update(key("enter"))
	m.Update(key("enter"))

	// Wrong answer.
	wrong := (questions[2].Correct + 1) % len(questions[2].Options)
	m.Update(key(string(rune('1' + wrong))))
	assert.Contains(t, m.View(), "Incorrect.")
	m.Update(key("enter"))

	res, done := m.Result()
	require.True(t, done)
	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, int64(1), res.ID)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, "quiz completed", hook.LastEntry().Message)

	view := m.View()
	assert.Contains(t, view, "Quiz Complete")
	assert.Contains(t, view, "Grade: C")

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestCursorWraps(t *testing.T) {
	m, questions, _ := newQuiz(t, nil)
	m.Update(key("up"))
	assert.Equal(t, len(questions[0].Options)-1, m.cursor)
	m.Update(key("down"))
	assert.Equal(t, 0, m.cursor)
}

func TestSaveErrorIsReported(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	m, _, hook := newQuiz(t, saver)
	for i := 0; i < 3; i++ {
		m.Update(key("1"))
		m.Update(key("enter"))
	}
	_, done := m.Result()
	require.True(t, done)
	assert.Contains(t, m.View(), "could not be saved")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestQuitMidQuizDoesNotSave(t *testing.T) {
	saver := &recordingSaver{}
	m, _, _ := newQuiz(t, saver)
	m.Update(key("1"))
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	_, done := m.Result()
	assert.False(t, done)
	assert.Empty(t, saver.saved)
}

func TestWrap(t *testing.T) {
	got := wrap("Switch compressors every 2 minutes", 12)
	assert.Equal(t, "Switch\ncompressors\nevery 2\nminutes", got)
	assert.False(t, strings.Contains(wrap("a b", 10), "\n"))
}

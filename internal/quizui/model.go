// Package quizui provides the Bubble Tea knowledge quiz.
package quizui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/cprtrain/internal/model"
	"github.com/verte-zerg/cprtrain/internal/quiz"
)

// ResultSaver persists finished quizzes.
type ResultSaver interface {
	InsertQuizResult(ctx context.Context, res model.QuizResult) (int64, error)
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(1, 2)
	severityStyles = map[model.Severity]lipgloss.Style{
		model.SeveritySuccess: correctStyle,
		model.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14")),
		model.SeverityError:   wrongStyle,
	}
)

// Model implements the quiz UI.
type Model struct {
	questions []quiz.Question
	saver     ResultSaver
	logger    logrus.FieldLogger
	now       func() time.Time

	width  int
	height int

	index    int
	cursor   int
	answers  []int
	revealed bool

	done    bool
	result  model.QuizResult
	saveErr error
}

// NewModel constructs a quiz over the given questions.
func NewModel(questions []quiz.Question, saver ResultSaver, logger logrus.FieldLogger) *Model {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Model{
		questions: questions,
		saver:     saver,
		logger:    logger,
		now:       time.Now,
	}
}

// Result returns the graded quiz once finished.
func (m *Model) Result() (model.QuizResult, bool) {
	return m.result, m.done
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.done || len(m.questions) == 0 {
			if msg.Type == tea.KeyEnter {
				return m, tea.Quit
			}
			return m, nil
		}
		m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	options := len(m.questions[m.index].Options)
	switch msg.String() {
	case "up", "k":
		if !m.revealed {
			m.cursor = (m.cursor - 1 + options) % options
		}
	case "down", "j":
		if !m.revealed {
			m.cursor = (m.cursor + 1) % options
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		choice := int(msg.String()[0] - '1')
		if !m.revealed && choice < options {
			m.cursor = choice
			m.answer()
		}
	case "enter", " ":
		if m.revealed {
			m.next()
		} else {
			m.answer()
		}
	}
}

func (m *Model) answer() {
	m.answers = append(m.answers, m.cursor)
	m.revealed = true
}

func (m *Model) next() {
	m.revealed = false
	m.cursor = 0
	m.index++
	if m.index < len(m.questions) {
		return
	}
	m.finish()
}

func (m *Model) finish() {
	m.done = true
	m.index = len(m.questions) - 1
	res, ok := quiz.Grade(m.questions, m.answers, m.now())
	if !ok {
		return
	}
	m.result = res
	if m.saver == nil {
		return
	}
	id, err := m.saver.InsertQuizResult(context.Background(), res)
	if err != nil {
		m.saveErr = err
		m.logger.WithError(err).Error("failed to save quiz result")
		return
	}
	m.result.ID = id
	m.logger.WithFields(logrus.Fields{
		"quiz":    id,
		"correct": res.Correct,
		"total":   res.Total,
	}).Info("quiz completed")
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch {
	case len(m.questions) == 0:
		body = "No questions available."
	case m.done:
		body = m.renderResults()
	default:
		body = m.renderQuestion()
	}
	box := boxStyle.Width(m.boxWidth()).Render(body)
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) boxWidth() int {
	if m.width == 0 {
		return 72
	}
	return max(40, min(m.width-4, 90))
}

func (m *Model) textWidth() int {
	return m.boxWidth() - 6
}

func (m *Model) renderQuestion() string {
	q := m.questions[m.index]
	lines := []string{
		mutedStyle.Render(fmt.Sprintf("Question %d of %d", m.index+1, len(m.questions))),
		"",
		titleStyle.Render(wrap(q.Text, m.textWidth())),
		"",
	}
	for i, opt := range q.Options {
		label := fmt.Sprintf("%d. %s", i+1, opt)
		prefix := "  "
		style := lipgloss.NewStyle()
		switch {
		case m.revealed && i == q.Correct:
			prefix, style = "✓ ", correctStyle
		case m.revealed && i == m.cursor:
			prefix, style = "✗ ", wrongStyle
		case !m.revealed && i == m.cursor:
			prefix, style = "> ", selectedStyle
		}
		lines = append(lines, style.Render(prefix+label))
	}
	lines = append(lines, "")
	if m.revealed {
		verdict := wrongStyle.Render("Incorrect.")
		if m.cursor == q.Correct {
			verdict = correctStyle.Render("Correct!")
		}
		lines = append(lines, verdict, wrap(q.Explanation, m.textWidth()), "",
			mutedStyle.Render("enter: next question  q: quit"))
	} else {
		lines = append(lines, mutedStyle.Render("up/down or 1-4: choose  enter: answer  q: quit"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderResults() string {
	r := m.result
	a := quiz.Assess(r.Score)
	style, ok := severityStyles[a.Type]
	if !ok {
		style = mutedStyle
	}
	lines := []string{
		titleStyle.Render("Quiz Complete"),
		"",
		fmt.Sprintf("Score: %.1f%%   Correct: %d/%d   Grade: %s", r.Score, r.Correct, r.Total, a.Grade),
		"",
		style.Render(wrap(a.Message, m.textWidth())),
		"",
		titleStyle.Render("Review"),
	}
	for i, ans := range m.answers {
		q := m.questions[i]
		mark := correctStyle.Render("✓")
		if ans != q.Correct {
			mark = wrongStyle.Render("✗")
		}
		text := runewidth.Truncate(q.Text, m.textWidth()-5, "...")
		lines = append(lines, fmt.Sprintf("%s %2d. %s", mark, i+1, text))
	}
	if m.saveErr != nil {
		lines = append(lines, "", wrongStyle.Render("Result could not be saved."))
	}
	lines = append(lines, "", mutedStyle.Render("enter/q: exit"))
	return strings.Join(lines, "\n")
}

// wrap word-wraps text to width display cells.
func wrap(text string, width int) string {
	words := strings.Fields(text)
	var lines []string
	var line string
	for _, word := range words {
		if line != "" && runewidth.StringWidth(line)+1+runewidth.StringWidth(word) > width {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

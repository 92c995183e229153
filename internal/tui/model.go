// Package tui provides the Bubble Tea compression trainer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/cprtrain/internal/analysis"
	"github.com/verte-zerg/cprtrain/internal/model"
	"github.com/verte-zerg/cprtrain/internal/recorder"
	"github.com/verte-zerg/cprtrain/internal/scenario"
	"github.com/verte-zerg/cprtrain/internal/session"
)

const tickInterval = 50 * time.Millisecond

type state int

const (
	stateReady state = iota
	stateRunning
	stateResults
)

type tickMsg struct {
	id int
}

// Model implements the Bubble Tea trainer UI.
type Model struct {
	config   model.Config
	scenario scenario.Scenario
	log      session.Log
	agg      *session.Aggregator
	rec      *recorder.Recorder
	logger   logrus.FieldLogger
	clock    recorder.Clock
	wall     func() time.Time

	width  int
	height int

	state     state
	tickID    int
	startedAt time.Time
	elapsed   float64
	feedback  analysis.Feedback
	beat      bool

	result         model.SessionRecord
	fatigue        analysis.Fatigue
	hasFatigue     bool
	recommendation *model.Recommendation
	saveErr        error

	hasLast   bool
	lastScore float64
	allScore  float64
	allCount  int
	level     model.Level
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	countStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	beatStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	severityText = map[model.Severity]lipgloss.Style{
		model.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5B9BD5")),
		model.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
		model.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14")),
		model.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	}
)

// NewModel constructs a trainer model that saves sessions to log.
func NewModel(cfg model.Config, sc scenario.Scenario, log session.Log, logger logrus.FieldLogger) *Model {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cfg.TargetRate <= 0 {
		cfg.TargetRate = sc.TargetRate
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = analysis.DefaultRateWindow
	}
	m := &Model{
		config:   cfg,
		scenario: sc,
		log:      log,
		agg:      session.NewAggregator(log, logger),
		rec:      recorder.New(),
		logger:   logger,
		clock:    recorder.SystemClock,
		wall:     time.Now,
	}
	m.loadFooterStats()
	return m
}

// SetClock replaces the compression clock and wall clock.
func (m *Model) SetClock(clock recorder.Clock, wall func() time.Time) {
	m.clock = clock
	m.wall = wall
	m.agg.SetClock(wall)
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
	case tickMsg:
		if msg.id != m.tickID || m.state != stateRunning {
			return m, nil
		}
		return m, m.handleTick()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.state == stateRunning {
			m.finishSession()
		}
		return tea.Quit
	case tea.KeySpace, tea.KeyEnter:
		return m.compress()
	case tea.KeyEsc:
		if m.state == stateRunning {
			m.finishSession()
		}
		return nil
	}
	switch msg.String() {
	case "q":
		if m.state != stateRunning {
			return tea.Quit
		}
	case "s":
		if m.state == stateRunning {
			m.finishSession()
		}
	case "r":
		if m.state == stateResults {
			m.state = stateReady
		}
	}
	return nil
}

func (m *Model) compress() tea.Cmd {
	var cmd tea.Cmd
	if m.state != stateRunning {
		m.startSession()
		cmd = m.scheduleTick()
	}
	now := m.clock()
	elapsed, err := m.rec.Record(now)
	if err != nil {
		m.logger.WithError(err).Warn("compression ignored")
		return cmd
	}
	m.elapsed = elapsed
	m.feedback = analysis.LiveFeedback(m.rec.Compressions(), float64(m.config.TargetRate), m.config.RateWindow)
	return cmd
}

func (m *Model) startSession() {
	m.rec.Start(m.clock(), float64(m.config.TargetRate))
	m.startedAt = m.wall()
	m.state = stateRunning
	m.elapsed = 0
	m.beat = false
	m.feedback = analysis.LiveFeedback(nil, float64(m.config.TargetRate), m.config.RateWindow)
	m.tickID++
}

func (m *Model) scheduleTick() tea.Cmd {
	id := m.tickID
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

func (m *Model) handleTick() tea.Cmd {
	m.elapsed = m.rec.Elapsed(m.clock())
	if m.config.Metronome {
		m.beat = analysis.MetronomeBeat(m.elapsed, float64(m.config.TargetRate))
	}
	if limit := m.durationLimit(); limit > 0 && m.elapsed >= limit {
		m.finishSession()
		return nil
	}
	m.feedback = analysis.LiveFeedback(m.rec.Compressions(), float64(m.config.TargetRate), m.config.RateWindow)
	return m.scheduleTick()
}

func (m *Model) durationLimit() float64 {
	return float64(m.config.DurationMin) * 60
}

func (m *Model) finishSession() {
	res, err := m.rec.Stop()
	m.state = stateResults
	m.tickID++
	m.beat = false
	if err != nil {
		m.saveErr = err
		return
	}
	m.fatigue, m.hasFatigue = analysis.DetectFatigue(res.Compressions, res.TargetRate)

	ctx := context.Background()
	rec, err := m.agg.Finalize(ctx, res, session.Metadata{
		Difficulty: m.config.Difficulty,
		Scenario:   m.scenario.Name,
		StartedAt:  m.startedAt,
	})
	m.saveErr = err
	if err != nil {
		m.logger.WithError(err).Error("failed to save session")
		return
	}
	m.result = rec
	m.hasLast = true
	m.lastScore = rec.Score
	m.allScore = (m.allScore*float64(m.allCount) + rec.Score) / float64(m.allCount+1)
	m.allCount++

	m.recommendation = nil
	if level, err := m.agg.Level(ctx, session.DefaultLevelWindow); err == nil {
		m.level = level
	}
	recs, err := m.agg.Recommendations(ctx, session.DefaultLevelWindow)
	if err != nil {
		m.logger.WithError(err).Warn("failed to build recommendations")
		return
	}
	for _, r := range recs {
		if r.Type != model.SeveritySuccess {
			m.recommendation = &r
			break
		}
	}
}

func (m *Model) loadFooterStats() {
	records, err := m.log.Sessions(context.Background())
	if err != nil {
		m.logger.WithError(err).Error("failed to load session stats")
		return
	}
	m.level = session.ClassifyLevel(records, session.DefaultLevelWindow)
	if len(records) == 0 {
		return
	}
	p := session.Summarize(records, m.wall(), session.DefaultLevelWindow)
	m.allCount = p.Sessions
	m.allScore = p.AverageScore
	m.lastScore = records[len(records)-1].Score
	m.hasLast = true
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.state {
	case stateRunning:
		body = m.renderRunning()
	case stateResults:
		body = m.renderResults()
	default:
		body = m.renderReady()
	}
	if m.width == 0 || m.height == 0 {
		return body + "\n" + m.renderFooter()
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	main := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter())
	return main + "\n" + footer
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(20, int(float64(m.width)*0.70))
}

func (m *Model) renderReady() string {
	sc := m.scenario
	lines := []string{
		titleStyle.Render(sc.Name),
		mutedStyle.Render(sc.Description),
		"",
		fmt.Sprintf("Target rate: %d BPM", m.config.TargetRate),
		fmt.Sprintf("Depth: %s", sc.Depth),
		fmt.Sprintf("Hands: %s", sc.HandPosition),
	}
	lines = append(lines, wrapText(sc.Instructions, m.contentWidth())...)
	lines = append(lines, "", "Press SPACE for each compression. The first press starts the session.")
	if limit := m.config.DurationMin; limit > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("Sessions end after %d min; press s to stop early.", limit)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRunning() string {
	count := m.rec.Len()
	timer := formatSeconds(m.elapsed)
	if limit := m.durationLimit(); limit > 0 {
		timer = fmt.Sprintf("%s / %s", timer, formatSeconds(limit))
	}
	metronome := " "
	if m.config.Metronome {
		metronome = mutedStyle.Render("○")
		if m.beat {
			metronome = beatStyle.Render("●")
		}
	}
	lines := []string{
		titleStyle.Render(m.scenario.Name),
		"",
		countStyle.Render(fmt.Sprintf("%d", count)) + " compressions  " + metronome,
		timer,
		"",
		renderBand(m.feedback.RateBand),
		renderBand(m.feedback.RhythmBand),
		"",
		mutedStyle.Render("SPACE compress · s stop · ctrl+c quit"),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderResults() string {
	if m.saveErr != nil && errors.Is(m.saveErr, recorder.ErrNoActiveSession) {
		return "No session recorded.\n\n" + mutedStyle.Render("r new session · q quit")
	}
	r := m.result
	lines := []string{
		titleStyle.Render("Session Complete"),
		"",
		fmt.Sprintf("Overall Score:      %5.1f", r.Score),
		fmt.Sprintf("Rate Accuracy:      %5.1f", r.RateAccuracy),
		fmt.Sprintf("Rhythm Consistency: %5.1f", r.RhythmConsistency),
		fmt.Sprintf("Rate:               %5.0f BPM (target %d)", r.ActualRate, r.TargetRate),
		fmt.Sprintf("Compressions:       %5d in %s", r.Compressions, formatSeconds(r.DurationSec)),
	}
	if m.hasFatigue {
		status := mutedStyle.Render("No fatigue detected")
		if m.fatigue.Detected {
			status = severityText[model.SeverityWarning].Render(
				fmt.Sprintf("Fatigue detected: rate accuracy fell %.0f points", m.fatigue.Decline))
		}
		lines = append(lines, "", status)
	}
	if m.saveErr != nil {
		lines = append(lines, "", severityText[model.SeverityError].Render("Session could not be saved."))
	}
	if m.recommendation != nil {
		lines = append(lines, "")
		for _, line := range wrapText(m.recommendation.Message, m.contentWidth()) {
			lines = append(lines, severityText[m.recommendation.Type].Render(line))
		}
	}
	lines = append(lines, "", mutedStyle.Render("r new session · q quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("Target %d BPM", m.config.TargetRate)}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f", m.lastScore))
	}
	if m.allCount > 0 {
		segments = append(segments, fmt.Sprintf("Avg %.1f over %d", m.allScore, m.allCount))
	}
	if m.level != "" {
		segments = append(segments, fmt.Sprintf("Level %s", m.level))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func renderBand(b analysis.Band) string {
	style, ok := severityText[b.Type]
	if !ok {
		return b.Message
	}
	return style.Render(b.Message)
}

func formatSeconds(sec float64) string {
	total := int(sec)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

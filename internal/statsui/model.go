// Package statsui provides the Bubble Tea progress dashboard.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cprtrain/internal/model"
	"github.com/verte-zerg/cprtrain/internal/stats"
)

const (
	tabOverview = iota
	tabSessions
	tabScenarios
	tabAdvice
	tabQuiz
)

const plotHeight = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	severityStyles  = map[model.Severity]lipgloss.Style{
		model.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5B9BD5")),
		model.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
		model.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14")),
		model.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	}
)

// Source is the history the dashboard reads.
type Source interface {
	stats.Source
	Offsets(ctx context.Context, sessionID int64) ([]float64, error)
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	src Source
	cfg model.StatsConfig
	now func() time.Time

	report stats.Report
	errMsg string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	sessionTable table.Model
	sessionIDs   []int64

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	detailMode bool
	detail     viewport.Model
}

// NewModel constructs a stats UI model.
func NewModel(src Source, cfg model.StatsConfig) *Model {
	m := &Model{
		src:  src,
		cfg:  cfg,
		now:  time.Now,
		tabs: []string{"Overview", "Sessions", "Scenarios", "Advice", "Quiz"},
	}
	m.initInputs()
	m.initSessionTable()
	m.initViewports()
	m.refreshReport()
	return m
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.detailMode {
			return m.updateDetail(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "=":
		m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
		m.refreshReport()
		return m, nil
	case "-":
		m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
		m.refreshReport()
		return m, nil
	case "/":
		return m.startFilter()
	case "enter":
		if m.activeTab == tabSessions {
			m.openDetail()
		}
		return m, nil
	case "g", "home":
		if m.activeTab == tabSessions {
			m.sessionTable.GotoTop()
		} else {
			m.viewports[m.activeTab].GotoTop()
		}
		return m, nil
	case "G", "end":
		if m.activeTab == tabSessions {
			m.sessionTable.GotoBottom()
		} else {
			m.viewports[m.activeTab].GotoBottom()
		}
		return m, nil
	}
	var cmd tea.Cmd
	if m.activeTab == tabSessions {
		m.sessionTable, cmd = m.sessionTable.Update(msg)
		return m, cmd
	}
	m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
	return m, cmd
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.detailMode = false
		return m, tea.ClearScreen
	}
	if msg.String() == "q" {
		m.detailMode = false
		return m, tea.ClearScreen
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.detail = viewport.New(0, 0)
}

func (m *Model) initSessionTable() {
	m.sessionTable = table.New(
		table.WithColumns(sessionColumns()),
		table.WithHeight(1),
	)
	m.sessionTable.SetStyles(tableStyles())
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.detail.Width = m.width
	m.detail.Height = bodyHeight
	m.sessionTable.SetWidth(m.width)
	m.sessionTable.SetHeight(max(1, bodyHeight-1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabSessions {
		m.sessionTable.Focus()
	} else {
		m.sessionTable.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.cfg, m.now())
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.applySessionRows()
	m.updateLayout()
	m.renderTabContents()
}

func (m *Model) applySessionRows() {
	sessions := m.report.Sessions
	rows := make([]table.Row, 0, len(sessions))
	m.sessionIDs = m.sessionIDs[:0]
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		rows = append(rows, table.Row{
			s.CompletedAt.Local().Format("2006-01-02 15:04"),
			s.Scenario,
			s.Difficulty,
			fmt.Sprintf("%.0f/%d", s.ActualRate, s.TargetRate),
			fmt.Sprintf("%.1f", s.RateAccuracy),
			fmt.Sprintf("%.1f", s.RhythmConsistency),
			fmt.Sprintf("%.1f", s.Score),
		})
		m.sessionIDs = append(m.sessionIDs, s.ID)
	}
	m.sessionTable.SetRows(rows)
	m.sessionTable.GotoTop()
}

func (m *Model) openDetail() {
	idx := m.sessionTable.Cursor()
	if idx < 0 || idx >= len(m.sessionIDs) {
		return
	}
	id := m.sessionIDs[idx]
	var rec model.SessionRecord
	for _, s := range m.report.Sessions {
		if s.ID == id {
			rec = s
			break
		}
	}
	content := renderDetail(context.Background(), m.src, rec, max(40, m.width))
	m.detail.SetContent(content)
	m.detail.GotoTop()
	m.detailMode = true
}

func renderDetail(ctx context.Context, src Source, rec model.SessionRecord, width int) string {
	offsets, err := src.Offsets(ctx, rec.ID)
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("Failed to load compressions: %v", err))
	}
	header := cardValueStyle.Render(fmt.Sprintf("%s · %s", rec.Scenario, rec.CompletedAt.Local().Format("2006-01-02 15:04")))
	var buf bytes.Buffer
	if err := stats.RenderAnalysis(&buf, offsets, float64(rec.TargetRate), width, true); err != nil {
		return errorStyle.Render(fmt.Sprintf("Failed to render session: %v", err))
	}
	return strings.TrimRight(header+"\n\n"+buf.String(), "\n")
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderHelp() string {
	switch {
	case m.detailMode:
		return headerStyle.Render("Scroll: up/down/pgup/pgdn  Close: esc")
	case m.activeTab == tabSessions:
		return headerStyle.Render("Nav: left/right  Select: up/down  Details: enter  Settings: /  Quit: q")
	default:
		return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q")
	}
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	switch {
	case m.filterMode:
		return fitLines(m.renderFilterForm(), m.width, height)
	case m.detailMode:
		return fitLines(m.detail.View(), m.width, height)
	case m.activeTab == tabSessions:
		if len(m.report.Sessions) == 0 {
			return fitLines("No sessions found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.sessionTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 || m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabScenarios].SetContent(renderScenarios(m.report))
	m.viewports[tabAdvice].SetContent(renderAdvice(m.report, width))
	m.viewports[tabQuiz].SetContent(renderQuiz(m.report.Quizzes))
}

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "Completed", Width: 16},
		{Title: "Scenario", Width: 18},
		{Title: "Difficulty", Width: 12},
		{Title: "Rate", Width: 8},
		{Title: "Rate Acc", Width: 8},
		{Title: "Rhythm", Width: 7},
		{Title: "Score", Width: 6},
	}
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/cprtrain/internal/model"
	"github.com/verte-zerg/cprtrain/internal/stats"
)

func renderOverview(report stats.Report, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	parts := []string{renderSummaryCards(report, width)}
	if report.HasCurve {
		scores := stats.Sparkline(report.Curve.MovingAvg)
		parts = append(parts, headerStyle.Render(fmt.Sprintf("Trend: %s (%+.2f/session)  %s",
			report.Curve.Trend, report.Curve.Slope, scores)))
	}
	parts = append(parts, renderCurves(report, width))
	return strings.TrimRight(strings.Join(parts, "\n\n"), "\n")
}

func renderSummaryCards(report stats.Report, width int) string {
	p := report.Progress
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", p.Sessions)),
		metricCard("Avg Score", fmt.Sprintf("%.1f", p.AverageScore)),
		metricCard("Best Score", fmt.Sprintf("%.1f", p.BestScore)),
		metricCard("Level", string(p.Level)),
		metricCard("This Week", fmt.Sprintf("%d sessions", p.WeekSessions)),
		metricCard("Compressions", fmt.Sprintf("%d", p.TotalCompressions)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(report stats.Report, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, report.Sessions, report.Window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderScenarios(report stats.Report) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	var buf bytes.Buffer
	if err := stats.RenderBreakdown(&buf, "Scenario", report.Scenarios); err != nil {
		return fmt.Sprintf("Failed to render scenarios: %v", err)
	}
	if err := stats.RenderBreakdown(&buf, "Difficulty", report.Difficulties); err != nil {
		return fmt.Sprintf("Failed to render difficulties: %v", err)
	}
	if err := stats.RenderSessions(&buf, "Best Sessions", report.Best); err != nil {
		return fmt.Sprintf("Failed to render best sessions: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderAdvice(report stats.Report, width int) string {
	if len(report.Recommendations) == 0 {
		return "No recommendations yet."
	}
	lines := make([]string, 0, len(report.Recommendations))
	for _, rec := range report.Recommendations {
		style, ok := severityStyles[rec.Type]
		if !ok {
			style = headerStyle
		}
		marker := adviceMarker(rec.Type)
		text := truncateLine(fmt.Sprintf("%s %s", marker, rec.Message), width)
		lines = append(lines, style.Render(text))
	}
	return strings.Join(lines, "\n")
}

func adviceMarker(sev model.Severity) string {
	switch sev {
	case model.SeveritySuccess:
		return "✓"
	case model.SeverityWarning:
		return "!"
	case model.SeverityError:
		return "✗"
	default:
		return "•"
	}
}

func renderQuiz(results []model.QuizResult) string {
	if len(results) == 0 {
		return "No quizzes taken. Run `cprtrain quiz` to test your knowledge."
	}
	var total float64
	best := 0.0
	for _, r := range results {
		total += r.Score
		best = max(best, r.Score)
	}
	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Quizzes", fmt.Sprintf("%d", len(results))),
		metricCard("Avg Score", fmt.Sprintf("%.0f%%", total/float64(len(results)))),
		metricCard("Best", fmt.Sprintf("%.0f%%", best)),
	)
	var buf bytes.Buffer
	if err := stats.RenderQuizzes(&buf, results); err != nil {
		return fmt.Sprintf("Failed to render quizzes: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

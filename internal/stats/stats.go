// Package stats renders training statistics as text.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/cprtrain/internal/model"
	"github.com/verte-zerg/cprtrain/internal/session"
)

const sparkChars = " .:-=+*#%@"

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := seriesMinMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[max(0, min(len(sparkChars)-1, idx))])
	}
	return b.String()
}

// RenderSummary prints overview metrics.
func RenderSummary(w io.Writer, p session.Progress) error {
	if p.Sessions == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d (%d this week)", p.Sessions, p.WeekSessions),
		fmt.Sprintf("Avg Score: %.1f", p.AverageScore),
		fmt.Sprintf("Best Score: %.1f", p.BestScore),
		fmt.Sprintf("Compressions: %d (%d this week)", p.TotalCompressions, p.WeekCompressions),
		fmt.Sprintf("Level: %s", p.Level),
		"",
	}
	return writeLines(w, lines)
}

// RenderTrend prints the learning-curve slope and trend.
func RenderTrend(w io.Writer, curve session.Curve, ok bool) error {
	if !ok {
		_, err := fmt.Fprint(w, "Learning curve needs at least 3 sessions.\n\n")
		return err
	}
	_, err := fmt.Fprintf(w, "Trend: %s (%+.2f points/session, %d-session average)\n\n",
		curve.Trend, curve.Slope, curve.Window)
	return err
}

// RenderCurves prints learning curves for score, rate accuracy and rhythm.
func RenderCurves(w io.Writer, records []model.SessionRecord, window int) error {
	return RenderCurvesWithSize(w, records, window, 0, 10, false)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, records []model.SessionRecord, window, totalWidth, height int, useColor bool) error {
	if len(records) == 0 {
		return nil
	}
	scores := make([]float64, len(records))
	rates := make([]float64, len(records))
	rhythms := make([]float64, len(records))
	for i, r := range records {
		scores[i] = r.Score
		rates[i] = r.RateAccuracy
		rhythms[i] = r.RhythmConsistency
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return Plot(w, "Learning Curves", []Series{
		{Name: "Score", Values: session.MovingAverage(scores, window)},
		{Name: "Rate Accuracy", Values: session.MovingAverage(rates, window)},
		{Name: "Rhythm", Values: session.MovingAverage(rhythms, window)},
	}, PlotOptions{Width: width, Height: height, Color: useColor, Range: PercentRange})
}

// RenderBreakdown prints per-group score aggregates, weakest first.
func RenderBreakdown(w io.Writer, title string, groups []session.Breakdown) error {
	if len(groups) == 0 {
		return nil
	}
	headers := []string{title, "Sessions", "Avg Score", "Best", "Compressions"}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Label,
			fmt.Sprintf("%d", g.Sessions),
			fmt.Sprintf("%.1f", g.MeanScore),
			fmt.Sprintf("%.1f", g.BestScore),
			fmt.Sprintf("%d", g.Compressions),
		})
	}
	lines := formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})
	return writeLines(w, append(lines, ""))
}

// RenderSessions prints one row per session.
func RenderSessions(w io.Writer, title string, records []model.SessionRecord) error {
	if len(records) == 0 {
		return nil
	}
	headers := []string{"Completed", "Scenario", "Rate", "Rate Acc", "Rhythm", "Score"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
			r.Scenario,
			fmt.Sprintf("%.0f/%d", r.ActualRate, r.TargetRate),
			fmt.Sprintf("%.1f", r.RateAccuracy),
			fmt.Sprintf("%.1f", r.RhythmConsistency),
			fmt.Sprintf("%.1f", r.Score),
		})
	}
	lines := append([]string{title}, formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true})...)
	return writeLines(w, append(lines, ""))
}

// RenderRecommendations prints training suggestions with their severity.
func RenderRecommendations(w io.Writer, recs []model.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	lines := []string{"Recommendations"}
	for _, rec := range recs {
		lines = append(lines, fmt.Sprintf("  [%s] %s", rec.Type, rec.Message))
	}
	return writeLines(w, append(lines, ""))
}

// RenderQuizzes prints quiz history.
func RenderQuizzes(w io.Writer, results []model.QuizResult) error {
	if len(results) == 0 {
		return nil
	}
	headers := []string{"Completed", "Correct", "Score"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d/%d", r.Correct, r.Total),
			fmt.Sprintf("%.0f%%", r.Score),
		})
	}
	lines := append([]string{"Quiz History"}, formatTable(headers, rows, map[int]bool{1: true, 2: true})...)
	return writeLines(w, append(lines, ""))
}

// RenderReport prints the full text report.
func RenderReport(w io.Writer, report Report, totalWidth int, useColor bool) error {
	if err := RenderSummary(w, report.Progress); err != nil {
		return err
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := RenderTrend(w, report.Curve, report.HasCurve); err != nil {
		return err
	}
	if err := RenderCurvesWithSize(w, report.Sessions, report.Window, totalWidth, 10, useColor); err != nil {
		return err
	}
	if err := RenderBreakdown(w, "Scenario", report.Scenarios); err != nil {
		return err
	}
	if err := RenderBreakdown(w, "Difficulty", report.Difficulties); err != nil {
		return err
	}
	if err := RenderSessions(w, "Best Sessions", report.Best); err != nil {
		return err
	}
	if err := RenderRecommendations(w, report.Recommendations); err != nil {
		return err
	}
	return RenderQuizzes(w, report.Quizzes)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/cprtrain/internal/analysis"
)

const irregularBeatCount = 5

// RenderAnalysis prints a full breakdown of a single compression sequence.
func RenderAnalysis(w io.Writer, seq []float64, targetRate float64, totalWidth int, useColor bool) error {
	if len(seq) == 0 {
		_, err := fmt.Fprintln(w, "No compressions recorded.")
		return err
	}
	duration := seq[len(seq)-1] - seq[0]
	lines := []string{
		"Session Analysis",
		fmt.Sprintf("Compressions: %d over %.1fs", len(seq), duration),
		fmt.Sprintf("Rate: %.1f BPM (target %.0f)", analysis.Rate(seq, len(seq)), targetRate),
		fmt.Sprintf("Recent Rate: %.1f BPM", analysis.Rate(seq, analysis.DefaultRateWindow)),
		fmt.Sprintf("Rate Accuracy: %.1f", analysis.RateAccuracy(seq, targetRate)),
		fmt.Sprintf("Rhythm Consistency: %.1f", analysis.RhythmConsistency(seq)),
		fmt.Sprintf("Overall Score: %.1f", analysis.OverallScore(seq, targetRate)),
		"",
	}
	if err := writeLines(w, lines); err != nil {
		return err
	}

	if p, ok := analysis.ProfileRhythm(seq, targetRate); ok {
		lines = []string{
			"Rhythm Profile",
			fmt.Sprintf("Mean Interval: %.3fs (target %.3fs)", p.MeanInterval, analysis.MetronomeInterval(targetRate)),
			fmt.Sprintf("Interval Std Dev: %.3fs", p.StdInterval),
			fmt.Sprintf("Coefficient of Variation: %.3f", p.CV),
			fmt.Sprintf("Mean-Rate Accuracy: %.1f", p.RateAccuracy),
			"",
		}
		if err := writeLines(w, lines); err != nil {
			return err
		}
	}

	if f, ok := analysis.DetectFatigue(seq, targetRate); ok {
		status := "No fatigue detected"
		if f.Detected {
			status = fmt.Sprintf("Fatigue detected: rate accuracy fell %.1f points", f.Decline)
		}
		lines = []string{
			"Fatigue",
			fmt.Sprintf("Rate Accuracy by third: %.1f / %.1f / %.1f", f.Segments[0], f.Segments[1], f.Segments[2]),
			status,
			"",
		}
		if err := writeLines(w, lines); err != nil {
			return err
		}
	}

	if beats := IrregularBeats(seq, targetRate, irregularBeatCount); len(beats) > 0 {
		rows := make([][]string, 0, len(beats))
		for _, b := range beats {
			rows = append(rows, []string{
				fmt.Sprintf("%d", b.Index),
				fmt.Sprintf("%.3f", b.Interval),
				fmt.Sprintf("%+.3f", b.Deviation),
			})
		}
		table := formatTable([]string{"Beat", "Interval (s)", "Off Target (s)"}, rows, map[int]bool{0: true, 1: true, 2: true})
		if err := writeLines(w, append(append([]string{"Most Irregular Beats"}, table...), "")); err != nil {
			return err
		}
	}

	intervals := analysis.Intervals(seq)
	if len(intervals) < 2 {
		return nil
	}
	rates := make([]float64, 0, len(intervals))
	target := make([]float64, 0, len(intervals))
	for _, iv := range intervals {
		if iv <= 0 {
			continue
		}
		rates = append(rates, 60/iv)
		target = append(target, targetRate)
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return Plot(w, "Instantaneous Rate (BPM)", []Series{
		{Name: "Rate", Values: rates},
		{Name: "Target", Values: target},
	}, PlotOptions{Width: width, Height: 8, Color: useColor})
}

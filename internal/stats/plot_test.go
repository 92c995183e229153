package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlot(t *testing.T) {
	var buf bytes.Buffer
	err := Plot(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, PlotOptions{Width: 10, Height: 4})
	if err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Test Plot", "A: min=1.0 max=3.0 last=1.0", "Legend:", "(dashed)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// title + 2 series lines + 4 rows + legend
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines of output, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[3], "  4.00 │ ") {
		t.Fatalf("expected shared scale top label, got %q", lines[3])
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for a buffer")
	}
}

func TestPlotFixedRange(t *testing.T) {
	var buf bytes.Buffer
	if err := Plot(&buf, "", []Series{{Name: "Score", Values: []float64{40, 60}}}, PlotOptions{Width: 10, Height: 3, Range: PercentRange}); err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[1], "   100 │ ") || !strings.HasPrefix(lines[2], "    50 │ ") || !strings.HasPrefix(lines[3], "  0.00 │ ") {
		t.Fatalf("unexpected axis labels:\n%s", buf.String())
	}
}

func TestPlotSkipsEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	if err := Plot(&buf, "Empty", []Series{{Name: "A"}}, PlotOptions{}); err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 80-axisLabelWidth-3 {
		t.Fatalf("unexpected width %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(12); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestResampleSeries(t *testing.T) {
	shrunk := resampleSeries([]float64{1, 3, 5, 7}, 2)
	if shrunk[0] != 2 || shrunk[1] != 6 {
		t.Fatalf("unexpected shrink: %v", shrunk)
	}
	stretched := resampleSeries([]float64{0, 10}, 3)
	if stretched[0] != 0 || stretched[1] != 5 || stretched[2] != 10 {
		t.Fatalf("unexpected stretch: %v", stretched)
	}
}

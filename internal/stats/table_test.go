package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Scenario", "Score", "Sessions"}
	rows := [][]string{
		{"Team CPR", "97.5", "12"},
		{"Infant CPR", "8.0", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Scenario   Score Sessions" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Team CPR    97.5       12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Infant CPR   8.0        3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Name", "N"}, [][]string{{"心肺", "1"}}, map[int]bool{1: true})
	if lines[0] != "Name N" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "心肺 1" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

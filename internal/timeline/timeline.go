// Package timeline loads recorded compression timestamps from files.
package timeline

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Load reads one timestamp in seconds per line. Blank lines and lines
// starting with '#' are ignored. Timestamps must not decrease.
func Load(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only timeline.
			_ = cerr
		}
	}()

	var seq []float64
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ts, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid timestamp %q", lineNo, line)
		}
		if len(seq) > 0 && ts < seq[len(seq)-1] {
			return nil, fmt.Errorf("line %d: timestamp %g is before %g", lineNo, ts, seq[len(seq)-1])
		}
		seq = append(seq, ts)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("timeline is empty")
	}
	return seq, nil
}

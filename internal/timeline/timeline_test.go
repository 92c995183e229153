package timeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timeline.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "# session 1\n0.5\n\n1.05\n  1.6  \n1.6\n")
	seq, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.05, 1.6, 1.6}, seq)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]struct {
		content string
		want    string
	}{
		"empty":      {content: "# nothing\n\n", want: "timeline is empty"},
		"bad line":   {content: "0.5\nabc\n", want: "line 2"},
		"decreasing": {content: "1.0\n2.0\n1.5\n", want: "line 3"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

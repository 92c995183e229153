package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cprtrain/internal/archive"
	"github.com/verte-zerg/cprtrain/internal/config"
	"github.com/verte-zerg/cprtrain/internal/model"
	"github.com/verte-zerg/cprtrain/internal/scenario"
)

func validConfig() model.Config {
	return model.Config{
		TargetRate:  0,
		DurationMin: 2,
		RateWindow:  10,
		Difficulty:  "Beginner",
		Scenario:    scenario.Default,
	}
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, validateConfig(validConfig()))

	cases := map[string]func(*model.Config){
		"--rate":        func(c *model.Config) { c.TargetRate = -1 },
		"--duration":    func(c *model.Config) { c.DurationMin = -5 },
		"--rate-window": func(c *model.Config) { c.RateWindow = 1 },
		"difficulty":    func(c *model.Config) { c.Difficulty = "Expert" },
		"scenario":      func(c *model.Config) { c.Scenario = "Canine CPR" },
	}
	for want, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		err := validateConfig(cfg)
		require.Error(t, err, want)
		assert.Contains(t, err.Error(), want)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var uncommented []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		body := strings.TrimPrefix(line, "# ")
		if strings.HasPrefix(line, "[") || (body != line && strings.Contains(body, " = ")) {
			uncommented = append(uncommented, body)
		}
	}

	var cfg config.FileConfig
	_, err := toml.Decode(strings.Join(uncommented, "\n"), &cfg)
	require.NoError(t, err)
	require.NotNil(t, cfg.LogLevel)
	assert.Equal(t, defaultLogLevel, *cfg.LogLevel)
	require.NotNil(t, cfg.Practice.DurationMin)
	assert.Equal(t, defaultDuration, *cfg.Practice.DurationMin)
	require.NotNil(t, cfg.Practice.Scenario)
	assert.Equal(t, scenario.Default, *cfg.Practice.Scenario)
	require.NotNil(t, cfg.Stats.CurveWindow)
	assert.Equal(t, defaultCurveWindow, *cfg.Stats.CurveWindow)
}

func TestBuildStatsConfig(t *testing.T) {
	cfg, err := buildStatsConfig("Infant CPR", "Advanced", "2024-03-01", 5, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, "Infant CPR", cfg.Scenario)
	assert.Equal(t, "Advanced", cfg.Difficulty)
	require.NotNil(t, cfg.Since)
	assert.Equal(t, 2024, cfg.Since.Year())
	assert.Equal(t, time.March, cfg.Since.Month())
	assert.Equal(t, 5, cfg.Last)

	_, err = buildStatsConfig("", "", "03/01/2024", 0, 3, 10)
	assert.Error(t, err)
	_, err = buildStatsConfig("Nope", "", "", 0, 3, 10)
	assert.Error(t, err)
	_, err = buildStatsConfig("", "Hard", "", 0, 3, 10)
	assert.Error(t, err)
	_, err = buildStatsConfig("", "", "", -1, 3, 10)
	assert.Error(t, err)
	_, err = buildStatsConfig("", "", "", 0, 0, 10)
	assert.Error(t, err)
}

func TestResolveRate(t *testing.T) {
	sc, ok := scenario.Lookup("Emergency Response")
	require.True(t, ok)

	rate, err := resolveRate(0, sc)
	require.NoError(t, err)
	assert.Equal(t, 115, rate)

	rate, err = resolveRate(100, sc)
	require.NoError(t, err)
	assert.Equal(t, 100, rate)

	_, err = resolveRate(-3, sc)
	assert.Error(t, err)
}

func TestScenariosCommand(t *testing.T) {
	cmd := newScenariosCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.RunE(cmd, nil))
	for _, name := range scenario.Names() {
		assert.Contains(t, out.String(), name)
	}
	assert.Contains(t, out.String(), "Emergency Response (115 BPM)")
}

func TestWriteAndReadArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "export.yaml")
	started := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	doc := archive.Document{
		Version:    archive.FormatVersion,
		ExportedAt: started.Add(time.Hour),
		Sessions: []model.SessionRecord{{
			UUID:         "0b4c8f8e-6f1d-4a5e-9a43-2c1f1b9d7a10",
			StartedAt:    started,
			CompletedAt:  started.Add(time.Minute),
			DurationSec:  60,
			TargetRate:   110,
			Compressions: 2,
			Scenario:     "Team CPR",
			Difficulty:   "Beginner",
			Offsets:      []float64{0.5, 1.0},
		}},
	}
	require.NoError(t, writeArchive(path, doc))

	got, err := readArchive(nil, path)
	require.NoError(t, err)
	require.Len(t, got.Sessions, 1)
	assert.Equal(t, doc.Sessions[0].UUID, got.Sessions[0].UUID)
	assert.Equal(t, []float64{0.5, 1.0}, got.Sessions[0].Offsets)

	var buf bytes.Buffer
	require.NoError(t, archive.Write(&buf, doc))
	fromStdin, err := readArchive(&buf, "-")
	require.NoError(t, err)
	assert.Len(t, fromStdin.Sessions, 1)

	_, err = readArchive(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.TargetRate)
	assert.Nil(t, cfg.LogLevel)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfigDecodesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `log-level = "debug"

[practice]
rate = 115
duration = 3
scenario = "Infant CPR"
metronome = true

[stats]
level-window = 5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.TargetRate)
	assert.Equal(t, 115, *cfg.Practice.TargetRate)
	require.NotNil(t, cfg.Practice.DurationMin)
	assert.Equal(t, 3, *cfg.Practice.DurationMin)
	require.NotNil(t, cfg.Practice.Scenario)
	assert.Equal(t, "Infant CPR", *cfg.Practice.Scenario)
	require.NotNil(t, cfg.Practice.Metronome)
	assert.True(t, *cfg.Practice.Metronome)
	assert.Nil(t, cfg.Practice.Difficulty)
	require.NotNil(t, cfg.Stats.LevelWindow)
	assert.Equal(t, 5, *cfg.Stats.LevelWindow)
	require.NotNil(t, cfg.LogLevel)
	assert.Equal(t, "debug", *cfg.LogLevel)
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	assert.Equal(t, filepath.Join("/tmp/cfg", "cprtrain", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/tmp/data", "cprtrain", "cprtrain.db"), DefaultDBPath())
}

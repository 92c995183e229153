// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Stats    StatsConfig    `toml:"stats"`
	LogLevel *string        `toml:"log-level"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	TargetRate  *int    `toml:"rate"`
	DurationMin *int    `toml:"duration"`
	RateWindow  *int    `toml:"rate-window"`
	Difficulty  *string `toml:"difficulty"`
	Scenario    *string `toml:"scenario"`
	Metronome   *bool   `toml:"metronome"`
}

// StatsConfig maps dashboard-related settings.
type StatsConfig struct {
	CurveWindow *int `toml:"curve-window"`
	LevelWindow *int `toml:"level-window"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	TargetRate  int
	DurationMin int
	RateWindow  int
	Difficulty  string
	Scenario    string
	Metronome   bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Scenario    string
	Difficulty  string
	Since       *time.Time
	Last        int
	CurveWindow int
	LevelWindow int
}

// SessionRecord captures a completed compression session.
type SessionRecord struct {
	ID                int64     `yaml:"id"`
	UUID              string    `yaml:"uuid"`
	StartedAt         time.Time `yaml:"started_at"`
	CompletedAt       time.Time `yaml:"completed_at"`
	DurationSec       float64   `yaml:"duration_sec"`
	TargetRate        int       `yaml:"target_rate"`
	Compressions      int       `yaml:"compressions"`
	ActualRate        float64   `yaml:"actual_rate"`
	Score             float64   `yaml:"score"`
	RateAccuracy      float64   `yaml:"rate_accuracy"`
	RhythmConsistency float64   `yaml:"rhythm_consistency"`
	Difficulty        string    `yaml:"difficulty"`
	Scenario          string    `yaml:"scenario"`
	// Offsets holds compression times in seconds from session start.
	Offsets []float64 `yaml:"offsets,omitempty"`
}

// QuizResult captures a completed knowledge quiz.
type QuizResult struct {
	ID          int64     `yaml:"id"`
	Score       float64   `yaml:"score"`
	Correct     int       `yaml:"correct"`
	Total       int       `yaml:"total"`
	CompletedAt time.Time `yaml:"completed_at"`
}

// Severity classifies feedback and recommendations for display.
type Severity string

// Severity values.
const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Recommendation is a single training suggestion.
type Recommendation struct {
	Type    Severity
	Message string
}

// Level is a skill classification derived from recent scores.
type Level string

// Level values, highest first.
const (
	LevelExpert       Level = "Expert"
	LevelAdvanced     Level = "Advanced"
	LevelIntermediate Level = "Intermediate"
	LevelBeginner     Level = "Beginner"
)

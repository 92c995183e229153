// Package main provides the CLI entrypoint for cprtrain.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/cprtrain/internal/analysis"
	"github.com/verte-zerg/cprtrain/internal/config"
	"github.com/verte-zerg/cprtrain/internal/model"
	"github.com/verte-zerg/cprtrain/internal/quiz"
	"github.com/verte-zerg/cprtrain/internal/quizui"
	"github.com/verte-zerg/cprtrain/internal/scenario"
	"github.com/verte-zerg/cprtrain/internal/session"
	"github.com/verte-zerg/cprtrain/internal/stats"
	"github.com/verte-zerg/cprtrain/internal/statsui"
	"github.com/verte-zerg/cprtrain/internal/store"
	"github.com/verte-zerg/cprtrain/internal/tui"
)

const (
	defaultDuration    = 2
	defaultDifficulty  = "Beginner"
	defaultCurveWindow = 5
	defaultLogLevel    = "warning"
)

var difficulties = []string{"Beginner", "Intermediate", "Advanced"}

var (
	logLevel string

	practiceRate       int
	practiceDuration   int
	practiceRateWindow int
	practiceDifficulty string
	practiceScenario   string
	practiceMetronome  bool

	statsScenario    string
	statsDifficulty  string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsLevelWindow int
	statsText        bool

	quizCount int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cprtrain",
		Short:         "TUI CPR compression trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warning, error)")

	rootCmd.Flags().IntVar(&practiceRate, "rate", 0, "target compression rate in BPM (0 uses the scenario rate)")
	rootCmd.Flags().IntVar(&practiceDuration, "duration", defaultDuration, "session length in minutes (0 for no limit)")
	rootCmd.Flags().IntVar(&practiceRateWindow, "rate-window", analysis.DefaultRateWindow, "compressions used for the live rate")
	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", defaultDifficulty, "difficulty label (Beginner, Intermediate, Advanced)")
	rootCmd.Flags().StringVar(&practiceScenario, "scenario", scenario.Default, "training scenario")
	rootCmd.Flags().BoolVar(&practiceMetronome, "metronome", false, "flash a metronome beat at the target rate")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newScenariosCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newQuizCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "rate", &practiceRate, fileCfg.Practice.TargetRate)
	applyIntConfig(cmd, "duration", &practiceDuration, fileCfg.Practice.DurationMin)
	applyIntConfig(cmd, "rate-window", &practiceRateWindow, fileCfg.Practice.RateWindow)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyStringConfig(cmd, "scenario", &practiceScenario, fileCfg.Practice.Scenario)
	applyBoolConfig(cmd, "metronome", &practiceMetronome, fileCfg.Practice.Metronome)

	logger, err := newLogger(cmd, fileCfg)
	if err != nil {
		return err
	}

	cfg := model.Config{
		TargetRate:  practiceRate,
		DurationMin: practiceDuration,
		RateWindow:  practiceRateWindow,
		Difficulty:  practiceDifficulty,
		Scenario:    practiceScenario,
		Metronome:   practiceMetronome,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	sc, _ := scenario.Lookup(cfg.Scenario)

	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	logger.WithFields(logrus.Fields{
		"scenario":   sc.Name,
		"difficulty": cfg.Difficulty,
		"rate":       cfg.TargetRate,
	}).Debug("starting trainer")

	m := tui.NewModel(cfg, sc, st, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List training scenarios",
		Args:  cobra.NoArgs,
		RunE:  runScenariosCmd,
	}
}

func runScenariosCmd(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	for i, sc := range scenario.All() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		lines := []string{
			fmt.Sprintf("%s (%d BPM)", sc.Name, sc.TargetRate),
			"  " + sc.Description,
			"  Depth: " + sc.Depth,
			"  Hands: " + sc.HandPosition,
			"  Tip:   " + sc.Instructions,
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsScenario, "scenario", "", "scenario filter")
	cmd.Flags().StringVar(&statsDifficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsLevelWindow, "level-window", session.DefaultLevelWindow, "recent sessions used for the skill level")
	cmd.Flags().BoolVar(&statsText, "text", false, "print a text report instead of the dashboard")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)
	applyIntConfig(cmd, "level-window", &statsLevelWindow, fileCfg.Stats.LevelWindow)

	logger, err := newLogger(cmd, fileCfg)
	if err != nil {
		return err
	}

	cfg, err := buildStatsConfig(statsScenario, statsDifficulty, statsSince, statsLast, statsCurveWindow, statsLevelWindow)
	if err != nil {
		return err
	}

	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	if statsText {
		report, err := stats.BuildReport(context.Background(), st, cfg, time.Now())
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return stats.RenderReport(cmd.OutOrStdout(), report, stats.TerminalWidth(), false)
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take a CPR knowledge quiz",
		Args:  cobra.NoArgs,
		RunE:  runQuizCmd,
	}
	cmd.Flags().IntVar(&quizCount, "count", quiz.DefaultCount, "number of questions")
	return cmd
}

func runQuizCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger(cmd, fileCfg)
	if err != nil {
		return err
	}
	if quizCount <= 0 {
		return fmt.Errorf("--count must be > 0")
	}

	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	questions := quiz.New().Pick(quiz.Bank(), quizCount)
	m := quizui.NewModel(questions, st, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run quiz: %w", err)
	}
	if res, ok := m.Result(); ok {
		a := quiz.Assess(res.Score)
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Quiz score: %.1f%% (%d/%d), grade %s\n", res.Score, res.Correct, res.Total, a.Grade); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func buildStatsConfig(scenarioName, difficulty, since string, last, curveWindow, levelWindow int) (model.StatsConfig, error) {
	var sinceTime *time.Time
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if scenarioName != "" {
		if _, ok := scenario.Lookup(scenarioName); !ok {
			return model.StatsConfig{}, unknownScenarioError(scenarioName)
		}
	}
	if difficulty != "" && !validDifficulty(difficulty) {
		return model.StatsConfig{}, unknownDifficultyError(difficulty)
	}
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if curveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	if levelWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--level-window must be > 0")
	}
	return model.StatsConfig{
		Scenario:    scenarioName,
		Difficulty:  difficulty,
		Since:       sinceTime,
		Last:        last,
		CurveWindow: curveWindow,
		LevelWindow: levelWindow,
	}, nil
}

func newLogger(cmd *cobra.Command, fileCfg config.FileConfig) (*logrus.Logger, error) {
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.LogLevel)
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level value: %w", err)
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(level)
	return logger, nil
}

func openStore(logger logrus.FieldLogger) (*store.Store, error) {
	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger.WithField("path", storePath).Debug("opened database")
	return st, nil
}

func closeStore(st *store.Store, logger logrus.FieldLogger) {
	if cerr := st.Close(); cerr != nil {
		logger.WithError(cerr).Error("failed to close db")
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# cprtrain configuration
# Uncomment a value to enable it. CLI flags override config values.

# log-level = %q      # debug, info, warning, error

[practice]
# rate = 110              # Target BPM (0 uses the scenario rate)
# duration = %d            # Session length in minutes (0 for no limit)
# rate-window = %d        # Compressions used for the live rate
# difficulty = %q   # One of: %s
# scenario = %q
# metronome = false       # Flash a beat at the target rate

[stats]
# curve-window = %d        # Moving average window for curves
# level-window = %d       # Recent sessions used for the skill level
`,
		defaultLogLevel,
		defaultDuration,
		analysis.DefaultRateWindow,
		defaultDifficulty,
		strings.Join(difficulties, ", "),
		scenario.Default,
		defaultCurveWindow,
		session.DefaultLevelWindow,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.TargetRate < 0 {
		return fmt.Errorf("--rate must be >= 0")
	}
	if cfg.DurationMin < 0 {
		return fmt.Errorf("--duration must be >= 0")
	}
	if cfg.RateWindow < 2 {
		return fmt.Errorf("--rate-window must be >= 2")
	}
	if !validDifficulty(cfg.Difficulty) {
		return unknownDifficultyError(cfg.Difficulty)
	}
	if _, ok := scenario.Lookup(cfg.Scenario); !ok {
		return unknownScenarioError(cfg.Scenario)
	}
	return nil
}

func validDifficulty(d string) bool {
	for _, v := range difficulties {
		if v == d {
			return true
		}
	}
	return false
}

func unknownDifficultyError(d string) error {
	return fmt.Errorf("unknown difficulty %q (available: %s)", d, strings.Join(difficulties, ", "))
}

func unknownScenarioError(name string) error {
	lines := []string{
		fmt.Sprintf("unknown scenario %q", name),
		"available: " + strings.Join(scenario.Names(), ", "),
		"Run: cprtrain scenarios",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort output to stderr.
		_ = err
	}
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cprtrain/internal/archive"
	"github.com/verte-zerg/cprtrain/internal/config"
	"github.com/verte-zerg/cprtrain/internal/scenario"
	"github.com/verte-zerg/cprtrain/internal/stats"
	"github.com/verte-zerg/cprtrain/internal/timeline"
)

var (
	analyzeRate     int
	analyzeScenario string

	exportOutput string
	exportForce  bool
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a recorded compression timeline",
		Long: "Analyze a text file with one compression timestamp (seconds) per line.\n" +
			"Blank lines and lines starting with # are ignored.",
		Args: cobra.ExactArgs(1),
		RunE: runAnalyzeCmd,
	}
	cmd.Flags().IntVar(&analyzeRate, "rate", 0, "target rate in BPM (0 uses the scenario rate)")
	cmd.Flags().StringVar(&analyzeScenario, "scenario", scenario.Default, "scenario providing the target rate")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	sc, ok := scenario.Lookup(analyzeScenario)
	if !ok {
		return unknownScenarioError(analyzeScenario)
	}
	rate, err := resolveRate(analyzeRate, sc)
	if err != nil {
		return err
	}
	seq, err := timeline.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load timeline: %w", err)
	}
	return stats.RenderAnalysis(cmd.OutOrStdout(), seq, float64(rate), stats.TerminalWidth(), false)
}

func resolveRate(rate int, sc scenario.Scenario) (int, error) {
	if rate < 0 {
		return 0, fmt.Errorf("--rate must be >= 0")
	}
	if rate == 0 {
		return sc.TargetRate, nil
	}
	return rate, nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export session history as YAML",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path or - for stdout (default: data dir export.yaml)")
	cmd.Flags().BoolVar(&exportForce, "force", false, "overwrite an existing file")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger(cmd, fileCfg)
	if err != nil {
		return err
	}

	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	doc, err := archive.Export(context.Background(), st, time.Now())
	if err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}

	out := exportOutput
	if out == "" {
		out = config.DefaultExportPath()
	}
	if out == "-" {
		return archive.Write(cmd.OutOrStdout(), doc)
	}
	if !exportForce {
		if _, err := os.Stat(out); err == nil {
			return fmt.Errorf("export already exists: %s (use --force to overwrite)", out)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat export: %w", err)
		}
	}
	if err := writeArchive(out, doc); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	logErrf("Exported %d sessions and %d quiz results to %s\n", len(doc.Sessions), len(doc.QuizResults), out)
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import session history from a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger(cmd, fileCfg)
	if err != nil {
		return err
	}

	doc, err := readArchive(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	res, err := archive.Import(context.Background(), st, doc)
	if err != nil {
		return fmt.Errorf("failed to import history: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sessions (%d already present), %d quiz results\n",
		res.Added, res.Skipped, res.Quizzes); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func readArchive(stdin io.Reader, path string) (archive.Document, error) {
	if path == "-" {
		doc, err := archive.Read(stdin)
		if err != nil {
			return archive.Document{}, fmt.Errorf("failed to read archive: %w", err)
		}
		return doc, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return archive.Document{}, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of a read-only file.
			_ = cerr
		}
	}()
	doc, err := archive.Read(bufio.NewReader(f))
	if err != nil {
		return archive.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return doc, nil
}

func writeArchive(path string, doc archive.Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "export-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := archive.Write(writer, doc); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

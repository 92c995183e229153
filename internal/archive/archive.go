// Package archive exports and imports training history as YAML.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/cprtrain/internal/model"
)

// FormatVersion is written into every exported document.
const FormatVersion = 1

// Document is the on-disk archive layout.
type Document struct {
	Version     int                   `yaml:"version"`
	ExportedAt  time.Time             `yaml:"exported_at"`
	Sessions    []model.SessionRecord `yaml:"sessions"`
	QuizResults []model.QuizResult    `yaml:"quiz_results,omitempty"`
}

// Source provides the history to export.
type Source interface {
	Sessions(ctx context.Context) ([]model.SessionRecord, error)
	Offsets(ctx context.Context, sessionID int64) ([]float64, error)
	ListQuizResults(ctx context.Context) ([]model.QuizResult, error)
}

// Sink receives imported history.
type Sink interface {
	ImportSession(ctx context.Context, rec model.SessionRecord) (bool, error)
	ImportQuizResult(ctx context.Context, res model.QuizResult) (bool, error)
}

// ImportStats reports what an import changed.
type ImportStats struct {
	Added   int
	Skipped int
	Quizzes int
}

// Write encodes doc as YAML.
func Write(w io.Writer, doc Document) error {
	if doc.Version == 0 {
		doc.Version = FormatVersion
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	return enc.Close()
}

// Read decodes and validates a YAML archive.
func Read(r io.Reader) (Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("archive is empty")
		}
		return Document{}, fmt.Errorf("decode archive: %w", err)
	}
	if doc.Version > FormatVersion {
		return Document{}, fmt.Errorf("unsupported archive version %d", doc.Version)
	}
	for i, rec := range doc.Sessions {
		if rec.UUID == "" {
			return Document{}, fmt.Errorf("session %d has no uuid", i+1)
		}
		if rec.Compressions != len(rec.Offsets) && len(rec.Offsets) > 0 {
			return Document{}, fmt.Errorf("session %s: %d compressions but %d offsets",
				rec.UUID, rec.Compressions, len(rec.Offsets))
		}
	}
	return doc, nil
}

// Export collects every session with its offsets and every quiz result.
func Export(ctx context.Context, src Source, now time.Time) (Document, error) {
	sessions, err := src.Sessions(ctx)
	if err != nil {
		return Document{}, err
	}
	for i := range sessions {
		offsets, err := src.Offsets(ctx, sessions[i].ID)
		if err != nil {
			return Document{}, fmt.Errorf("load offsets for session %d: %w", sessions[i].ID, err)
		}
		sessions[i].Offsets = offsets
	}
	quizzes, err := src.ListQuizResults(ctx)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Version:     FormatVersion,
		ExportedAt:  now,
		Sessions:    sessions,
		QuizResults: quizzes,
	}, nil
}

// Import stores doc into sink. Sessions already present by uuid and quiz
// results already present by completion time are skipped.
func Import(ctx context.Context, sink Sink, doc Document) (ImportStats, error) {
	var stats ImportStats
	for _, rec := range doc.Sessions {
		added, err := sink.ImportSession(ctx, rec)
		if err != nil {
			return stats, fmt.Errorf("import session %s: %w", rec.UUID, err)
		}
		if added {
			stats.Added++
		} else {
			stats.Skipped++
		}
	}
	for _, res := range doc.QuizResults {
		added, err := sink.ImportQuizResult(ctx, res)
		if err != nil {
			return stats, fmt.Errorf("import quiz result: %w", err)
		}
		if added {
			stats.Quizzes++
		}
	}
	return stats, nil
}

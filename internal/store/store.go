// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/cprtrain/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session and quiz data.
type Store struct {
	db *sql.DB
}

const sessionColumns = `id, uuid, started_at, completed_at, duration_sec, target_rate, compressions,
	actual_rate, score, rate_accuracy, rhythm_consistency, difficulty, scenario`

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			uuid TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			completed_at TEXT NOT NULL,
			duration_sec REAL NOT NULL,
			target_rate INTEGER NOT NULL,
			compressions INTEGER NOT NULL,
			actual_rate REAL NOT NULL,
			score REAL NOT NULL,
			rate_accuracy REAL NOT NULL,
			rhythm_consistency REAL NOT NULL,
			difficulty TEXT NOT NULL,
			scenario TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_compressions (
			session_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			offset_sec REAL NOT NULL,
			PRIMARY KEY (session_id, seq)
		);`,
		`CREATE TABLE IF NOT EXISTS quiz_results (
			id INTEGER PRIMARY KEY,
			score REAL NOT NULL,
			correct INTEGER NOT NULL,
			total INTEGER NOT NULL,
			completed_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_completed_at ON sessions(completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_scenario ON sessions(scenario);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Append stores a completed session and its compression offsets.
// It implements session.Log.
func (s *Store) Append(ctx context.Context, rec model.SessionRecord) (id int64, err error) {
	if rec.UUID == "" {
		return 0, fmt.Errorf("session uuid is empty")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (uuid, started_at, completed_at, duration_sec, target_rate, compressions,
			actual_rate, score, rate_accuracy, rhythm_consistency, difficulty, scenario)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UUID,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.CompletedAt.Format(time.RFC3339Nano),
		rec.DurationSec,
		rec.TargetRate,
		rec.Compressions,
		rec.ActualRate,
		rec.Score,
		rec.RateAccuracy,
		rec.RhythmConsistency,
		rec.Difficulty,
		rec.Scenario,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(rec.Offsets) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO session_compressions (session_id, seq, offset_sec) VALUES (?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, off := range rec.Offsets {
			if _, err := stmt.ExecContext(ctx, id, i, off); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Sessions returns every session in insertion order. It implements session.Log.
func (s *Store) Sessions(ctx context.Context) ([]model.SessionRecord, error) {
	return s.ListSessions(ctx, model.StatsConfig{})
}

// Len returns the number of stored sessions. It implements session.Log.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListSessions returns sessions filtered by stats config, oldest first.
// Compression offsets are not loaded; use Offsets.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Scenario != "" {
		clauses = append(clauses, "scenario = ?")
		args = append(args, cfg.Scenario)
	}
	if cfg.Difficulty != "" {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, cfg.Difficulty)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "completed_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT %s
		FROM sessions
		WHERE %s
		ORDER BY id ASC`, sessionColumns, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return sessions, nil
}

// Offsets returns the compression offsets recorded for a session.
func (s *Store) Offsets(ctx context.Context, sessionID int64) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT offset_sec FROM session_compressions WHERE session_id = ? ORDER BY seq ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []float64
	for rows.Next() {
		var off float64
		if err := rows.Scan(&off); err != nil {
			return nil, err
		}
		out = append(out, off)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// HasSession reports whether a session with the given uuid exists.
func (s *Store) HasSession(ctx context.Context, uuid string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE uuid = ?`, uuid).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ImportSession appends rec unless a session with the same uuid exists.
func (s *Store) ImportSession(ctx context.Context, rec model.SessionRecord) (bool, error) {
	exists, err := s.HasSession(ctx, rec.UUID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if _, err := s.Append(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

// InsertQuizResult stores a completed quiz.
func (s *Store) InsertQuizResult(ctx context.Context, res model.QuizResult) (int64, error) {
	out, err := s.db.ExecContext(ctx,
		`INSERT INTO quiz_results (score, correct, total, completed_at) VALUES (?, ?, ?, ?)`,
		res.Score, res.Correct, res.Total, res.CompletedAt.Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	return out.LastInsertId()
}

// ImportQuizResult inserts res unless a result with the same completion time exists.
func (s *Store) ImportQuizResult(ctx context.Context, res model.QuizResult) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quiz_results WHERE completed_at = ?`,
		res.CompletedAt.Format(time.RFC3339Nano)).Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.InsertQuizResult(ctx, res); err != nil {
		return false, err
	}
	return true, nil
}

// ListQuizResults returns quiz results oldest first.
func (s *Store) ListQuizResults(ctx context.Context) ([]model.QuizResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, score, correct, total, completed_at FROM quiz_results ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.QuizResult
	for rows.Next() {
		var res model.QuizResult
		var completedAt string
		if err := rows.Scan(&res.ID, &res.Score, &res.Correct, &res.Total, &completedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, completedAt)
		if err != nil {
			return nil, err
		}
		res.CompletedAt = parsed
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func scanSession(rows *sql.Rows) (model.SessionRecord, error) {
	var rec model.SessionRecord
	var startedAt, completedAt string
	if err := rows.Scan(
		&rec.ID,
		&rec.UUID,
		&startedAt,
		&completedAt,
		&rec.DurationSec,
		&rec.TargetRate,
		&rec.Compressions,
		&rec.ActualRate,
		&rec.Score,
		&rec.RateAccuracy,
		&rec.RhythmConsistency,
		&rec.Difficulty,
		&rec.Scenario,
	); err != nil {
		return model.SessionRecord{}, err
	}
	var err error
	if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return model.SessionRecord{}, err
	}
	if rec.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt); err != nil {
		return model.SessionRecord{}, err
	}
	return rec, nil
}

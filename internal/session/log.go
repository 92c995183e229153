// Package session turns finished recordings into session records and
// computes statistics across the session history.
package session

import (
	"context"
	"sync"

	"github.com/verte-zerg/cprtrain/internal/model"
)

// Log is an append-only history of session records.
type Log interface {
	// Append stores rec and returns the identifier assigned to it.
	Append(ctx context.Context, rec model.SessionRecord) (int64, error)
	// Sessions returns all records in insertion order.
	Sessions(ctx context.Context) ([]model.SessionRecord, error)
	Len(ctx context.Context) (int, error)
}

// MemoryLog keeps records for the lifetime of the process.
type MemoryLog struct {
	mu      sync.RWMutex
	records []model.SessionRecord
}

// NewMemoryLog returns an empty in-memory log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append implements Log. Identifiers start at 1.
func (l *MemoryLog) Append(_ context.Context, rec model.SessionRecord) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec.ID = int64(len(l.records) + 1)
	rec.Offsets = append([]float64(nil), rec.Offsets...)
	l.records = append(l.records, rec)
	return rec.ID, nil
}

// Sessions implements Log.
func (l *MemoryLog) Sessions(_ context.Context) ([]model.SessionRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]model.SessionRecord(nil), l.records...), nil
}

// Len implements Log.
func (l *MemoryLog) Len(_ context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records), nil
}

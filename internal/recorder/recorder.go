// Package recorder captures compression events for one active session.
package recorder

import (
	"errors"
	"sync"
	"time"
)

// ErrNoActiveSession is returned when recording or stopping outside a session.
var ErrNoActiveSession = errors.New("no active session")

// Clock returns the current time in seconds.
type Clock func() float64

// SystemClock reads the wall clock as fractional Unix seconds.
func SystemClock() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// Result is the recorder state handed to the aggregator when a session ends.
type Result struct {
	Started      bool
	StartedAt    float64
	TargetRate   float64
	Compressions []float64
}

// Recorder holds the compression sequence of a single session.
// Record and Stop are serialized so a timer may end a session while
// another goroutine is still recording.
type Recorder struct {
	mu           sync.Mutex
	compressions []float64
	startedAt    float64
	targetRate   float64
	started      bool
	active       bool
}

// New returns an idle recorder.
func New() *Recorder {
	return &Recorder{}
}

// Start clears the sequence and begins a new session at now.
func (r *Recorder) Start(now, targetRate float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.compressions = nil
	r.startedAt = now
	r.targetRate = targetRate
	r.started = true
	r.active = true
}

// Record appends a compression at now and returns the elapsed session time.
func (r *Recorder) Record(now float64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return 0, ErrNoActiveSession
	}
	r.compressions = append(r.compressions, now)
	return now - r.startedAt, nil
}

// Stop ends the session. The sequence is kept for final analysis.
func (r *Recorder) Stop() (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return Result{}, ErrNoActiveSession
	}
	r.active = false
	return r.resultLocked(), nil
}

// Snapshot returns the current state without changing it.
func (r *Recorder) Snapshot() Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resultLocked()
}

// Active reports whether compressions are being accepted.
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Compressions returns a copy of the recorded sequence.
func (r *Recorder) Compressions() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.compressions...)
}

// Len returns the number of recorded compressions.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.compressions)
}

// Elapsed returns seconds since start, or 0 before the first start.
func (r *Recorder) Elapsed(now float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return 0
	}
	return now - r.startedAt
}

func (r *Recorder) resultLocked() Result {
	return Result{
		Started:      r.started,
		StartedAt:    r.startedAt,
		TargetRate:   r.targetRate,
		Compressions: append([]float64(nil), r.compressions...),
	}
}

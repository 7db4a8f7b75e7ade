// Package scope tracks memory owned by one aggregation pass.
//
// Accumulators reserve bytes from a Scope before growing their buffers
// and never give individual reservations back one element at a time.
// Everything reserved is reclaimed in bulk by Close when the aggregation ends.
//
// A nil *Scope is valid and tracks nothing.
package scope

import (
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrMemoryLimitExceeded is returned when a reservation would exceed the limit.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

	// ErrClosed is returned by Acquire after the scope was closed.
	ErrClosed = errors.New("scope closed")
)

// Config holds scope limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for reserved memory.
	// If 0, no limit is enforced (only tracking).
	MemoryLimitBytes int64
}

// Scope accounts memory reserved by accumulators.
type Scope struct {
	cfg Config

	sem    *semaphore.Weighted // nil if unlimited
	used   atomic.Int64
	peak   atomic.Int64
	closed atomic.Bool
}

// New creates a new scope.
func New(cfg Config) *Scope {
	s := &Scope{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		s.sem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	return s
}

// Acquire reserves bytes.
// It never blocks: ErrMemoryLimitExceeded is returned at once if the limit would be exceeded.
func (s *Scope) Acquire(bytes int64) error {
	if s == nil || bytes <= 0 {
		return nil
	}

	if s.closed.Load() {
		return ErrClosed
	}

	if s.sem != nil && !s.sem.TryAcquire(bytes) {
		return ErrMemoryLimitExceeded
	}

	used := s.used.Add(bytes)

	for {
		p := s.peak.Load()
		if used <= p || s.peak.CompareAndSwap(p, used) {
			break
		}
	}

	return nil
}

// Release returns bytes to the scope.
// It is a no-op after Close, which has already reclaimed everything.
func (s *Scope) Release(bytes int64) {
	if s == nil || bytes <= 0 || s.closed.Load() {
		return
	}

	s.release(bytes)
}

func (s *Scope) release(bytes int64) {
	if s.sem != nil {
		s.sem.Release(bytes)
	}

	s.used.Add(-bytes)
}

// Close reclaims all reserved bytes at once.
// Later Acquire calls fail with ErrClosed. Close is idempotent.
func (s *Scope) Close() {
	if s == nil || !s.closed.CompareAndSwap(false, true) {
		return
	}

	if used := s.used.Load(); used > 0 {
		s.release(used)
	}
}

// Closed reports whether Close was called.
func (s *Scope) Closed() bool {
	return s != nil && s.closed.Load()
}

// Used returns the currently reserved bytes.
func (s *Scope) Used() int64 {
	if s == nil {
		return 0
	}

	return s.used.Load()
}

// Peak returns the largest reservation seen during the scope lifetime.
func (s *Scope) Peak() int64 {
	if s == nil {
		return 0
	}

	return s.peak.Load()
}

// Limit returns the configured limit in bytes (0 if unlimited).
func (s *Scope) Limit() int64 {
	if s == nil {
		return 0
	}

	return s.cfg.MemoryLimitBytes
}

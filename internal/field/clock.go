package field

import (
	"context"
	"sync"
	"time"
)

// Clock provides time operations for the field and bar loops. The
// interface exists so tests can drive the loops deterministically.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock implements Clock with the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// Sleep blocks for d or until the context is done.
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TestClock implements Clock with virtual time: Sleep advances the clock
// instead of blocking, and records each requested duration.
type TestClock struct {
	mu      sync.Mutex
	current time.Time
	slept   []time.Duration
}

// NewTestClock returns a TestClock starting at the given instant.
func NewTestClock(start time.Time) *TestClock {
	return &TestClock{current: start}
}

// Now returns the current virtual time.
func (t *TestClock) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Sleep advances virtual time by d without blocking.
func (t *TestClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = t.current.Add(d)
	t.slept = append(t.slept, d)
	return nil
}

// Slept returns the durations passed to Sleep so far.
func (t *TestClock) Slept() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]time.Duration(nil), t.slept...)
}

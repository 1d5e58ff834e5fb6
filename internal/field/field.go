// Package field implements the status bar's fields: the builtin metric
// producers backed by gopsutil, user-defined command and constant
// fields, and the per-field update loop.
package field

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Func produces one reading of a field's text.
type Func func(ctx context.Context) (string, error)

// Options configures a field's display and scheduling.
type Options struct {
	// Icon prefixes the text; TTYIcon replaces it on plain terminals.
	Icon    string
	TTYIcon string

	// Interval between updates. Zero means one second.
	Interval time.Duration

	// Threaded fields run in their own goroutine; the rest update on
	// the bar's refresh tick.
	Threaded bool

	// RunOnce fixes the content after the first update.
	RunOnce bool

	// Timely updates repaint the bar immediately instead of waiting for
	// the next refresh.
	Timely bool

	// AlignToSeconds schedules updates at the start of each interval
	// boundary, compensating for loop drift.
	AlignToSeconds bool
}

// Update is one field's new content, delivered to the bar.
type Update struct {
	Name   string
	Text   string
	Timely bool
}

// Field is one slot in the bar. Its text buffer holds the latest
// reading; the bar renders buffers, it never calls producers itself.
type Field struct {
	name string
	fn   Func
	opts Options

	mu   sync.Mutex
	text string
	next time.Time
	ran  bool
}

// New builds a field from a producer.
func New(name string, fn Func, opts Options) *Field {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	return &Field{name: name, fn: fn, opts: opts}
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Threaded reports whether the field runs its own update loop.
func (f *Field) Threaded() bool { return f.opts.Threaded }

// Timely reports whether updates should repaint the bar immediately.
func (f *Field) Timely() bool { return f.opts.Timely }

// Icon returns the display icon, preferring the TTY variant on plain
// terminals when one is set.
func (f *Field) Icon(tty bool) string {
	if tty && f.opts.TTYIcon != "" {
		return f.opts.TTYIcon
	}
	return f.opts.Icon
}

// Text returns the buffered content.
func (f *Field) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

// Render returns icon plus buffered content.
func (f *Field) Render(tty bool) string {
	return f.Icon(tty) + f.Text()
}

// Refresh runs the producer once and stores the result. A producer
// error clears the buffer so stale readings never linger; the caller
// decides whether to log it.
func (f *Field) Refresh(ctx context.Context) error {
	text, err := f.fn(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ran = true
	if err != nil {
		f.text = ""
		return err
	}
	f.text = text
	return nil
}

// Due reports whether an unthreaded field should refresh at now, and
// advances its schedule when it should. Run-once fields are due exactly
// once.
func (f *Field) Due(now time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.opts.RunOnce {
		return !f.ran
	}
	if now.Before(f.next) {
		return false
	}
	f.next = now.Add(f.opts.Interval)
	return true
}

// Run is the update loop for threaded fields: refresh, deliver, sleep.
// With AlignToSeconds the sleep is drift-compensated to the next
// interval boundary. Run returns when the context is done or after the
// first delivery for run-once fields.
func (f *Field) Run(ctx context.Context, clock Clock, updates chan<- Update, log *slog.Logger) {
	for {
		if err := f.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn("field update failed", "field", f.name, "error", err)
		}
		select {
		case updates <- Update{Name: f.name, Text: f.Text(), Timely: f.opts.Timely}:
		case <-ctx.Done():
			return
		}
		if f.opts.RunOnce {
			return
		}
		d := f.opts.Interval
		if f.opts.AlignToSeconds {
			d = alignDelay(clock.Now(), f.opts.Interval)
		}
		if err := clock.Sleep(ctx, d); err != nil {
			return
		}
	}
}

// alignDelay returns the time until the next interval boundary.
func alignDelay(now time.Time, interval time.Duration) time.Duration {
	if interval <= 0 {
		interval = time.Second
	}
	rem := interval - time.Duration(now.UnixNano())%interval
	if rem == 0 {
		return interval
	}
	return rem
}

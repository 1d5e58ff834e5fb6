// Package bar assembles fields into a status line and repaints it on a
// fixed cadence. Threaded fields push updates over a channel; the rest
// are refreshed inline on each tick.
package bar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ZebulonRouseFrantzich/zline/internal/config"
	"github.com/ZebulonRouseFrantzich/zline/internal/field"
)

const (
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
	clearLine  = "\r\x1b[K"
)

// Options carries the runtime wiring a Bar needs beyond its Spec.
type Options struct {
	Out    io.Writer
	TTY    bool
	Clock  field.Clock
	Logger *slog.Logger
}

// Bar owns a set of fields and paints them to Out until its context is
// cancelled or its paint count runs out.
type Bar struct {
	fields   []*field.Field
	byName   map[string]*field.Field
	template *Template

	separator string
	joinEmpty bool
	count     int
	refresh   time.Duration
	align     bool

	out   io.Writer
	tty   bool
	clock field.Clock
	log   *slog.Logger
}

// New builds a Bar from a validated Spec and its resolved fields.
func New(spec *config.Spec, fields []*field.Field, o Options) (*Bar, error) {
	b := &Bar{
		fields:    fields,
		byName:    make(map[string]*field.Field, len(fields)),
		separator: spec.Separator,
		joinEmpty: spec.JoinEmptyFields,
		count:     spec.Count,
		refresh:   time.Duration(spec.Refresh * float64(time.Second)),
		align:     spec.ClockAlign,
		out:       o.Out,
		tty:       o.TTY,
		clock:     o.Clock,
		log:       o.Logger,
	}
	for _, f := range fields {
		b.byName[f.Name()] = f
	}
	if spec.RunOnce {
		b.count = 1
	}
	if b.clock == nil {
		b.clock = field.RealClock{}
	}
	if b.log == nil {
		b.log = slog.Default()
	}
	if spec.Template != "" {
		tmpl, err := ParseTemplate(spec.Template)
		if err != nil {
			return nil, err
		}
		for _, name := range tmpl.Fields() {
			if _, ok := b.byName[name]; !ok {
				return nil, fmt.Errorf("template references unknown field %q", name)
			}
		}
		b.template = tmpl
	}
	return b, nil
}

// Run paints the bar until ctx is cancelled or the configured count of
// refreshes has been painted. It always returns nil on a clean stop.
func (b *Bar) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan field.Update, len(b.fields)*2+1)
	var wg sync.WaitGroup
	for _, f := range b.fields {
		if !f.Threaded() {
			continue
		}
		wg.Add(1)
		go func(f *field.Field) {
			defer wg.Done()
			f.Run(ctx, b.clock, updates, b.log)
		}(f)
	}

	if b.tty {
		fmt.Fprint(b.out, hideCursor)
		defer fmt.Fprint(b.out, showCursor+"\n")
	}

	ticks := make(chan struct{}, 1)
	go func() {
		for {
			d := b.refresh
			if b.align {
				d = alignDelay(b.clock.Now(), b.refresh)
			}
			if err := b.clock.Sleep(ctx, d); err != nil {
				return
			}
			select {
			case ticks <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	b.refreshInline(ctx)
	b.paint()
	painted := 1

	for b.count <= 0 || painted < b.count {
		select {
		case <-ctx.Done():
			cancel()
			wg.Wait()
			return nil
		case u := <-updates:
			// Threaded fields buffer their own text; only timely
			// ones force a repaint between ticks.
			if u.Timely {
				b.paint()
			}
		case <-ticks:
			b.refreshInline(ctx)
			b.paint()
			painted++
		}
	}

	cancel()
	wg.Wait()
	return nil
}

// refreshInline runs every due unthreaded field in order.
func (b *Bar) refreshInline(ctx context.Context) {
	now := b.clock.Now()
	for _, f := range b.fields {
		if f.Threaded() || !f.Due(now) {
			continue
		}
		if err := f.Refresh(ctx); err != nil {
			b.log.Warn("field refresh failed", "field", f.Name(), "error", err)
		}
	}
}

// Line renders the current bar text without painting it.
func (b *Bar) Line() string {
	if b.template != nil {
		return b.template.Render(func(name string) string {
			return b.byName[name].Render(b.tty)
		})
	}
	var parts []string
	for _, f := range b.fields {
		s := f.Render(b.tty)
		if s == "" && !b.joinEmpty {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, b.separator)
}

func (b *Bar) paint() {
	if b.tty {
		fmt.Fprint(b.out, clearLine+b.Line())
		return
	}
	fmt.Fprintln(b.out, b.Line())
}

func alignDelay(now time.Time, interval time.Duration) time.Duration {
	if interval <= 0 {
		return 0
	}
	rem := interval - time.Duration(now.UnixNano())%interval
	if rem == 0 {
		return interval
	}
	return rem
}

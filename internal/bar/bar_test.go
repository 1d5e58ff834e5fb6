package bar

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/zline/internal/config"
	"github.com/ZebulonRouseFrantzich/zline/internal/field"
)

func constantField(name, text string, opts field.Options) *field.Field {
	return field.New(name, func(context.Context) (string, error) {
		return text, nil
	}, opts)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestNew_TemplateUnknownField(t *testing.T) {
	spec := config.DefaultSpec()
	spec.Template = "{hostname} {nope}"

	fields := []*field.Field{constantField("hostname", "h", field.Options{})}
	_, err := New(spec, fields, Options{Out: &bytes.Buffer{}, Logger: discardLogger()})
	if err == nil {
		t.Fatal("New() succeeded, want error for unknown template field")
	}
	if !strings.Contains(err.Error(), `"nope"`) {
		t.Errorf("New() error = %v, want mention of %q", err, "nope")
	}
}

func TestNew_TemplateInvalid(t *testing.T) {
	spec := config.DefaultSpec()
	spec.Template = "{unclosed"

	_, err := New(spec, nil, Options{Out: &bytes.Buffer{}, Logger: discardLogger()})
	if err == nil {
		t.Fatal("New() succeeded, want template parse error")
	}
}

func TestBar_Line_SkipsEmptyFields(t *testing.T) {
	spec := config.DefaultSpec()
	spec.Separator = " | "

	fields := []*field.Field{
		constantField("a", "one", field.Options{}),
		constantField("b", "", field.Options{}),
		constantField("c", "three", field.Options{}),
	}
	b, err := New(spec, fields, Options{Out: &bytes.Buffer{}, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	for _, f := range fields {
		if err := f.Refresh(ctx); err != nil {
			t.Fatalf("Refresh(%s) error = %v", f.Name(), err)
		}
	}

	if got := b.Line(); got != "one | three" {
		t.Errorf("Line() = %q, want %q", got, "one | three")
	}
}

func TestBar_Line_JoinEmptyFields(t *testing.T) {
	spec := config.DefaultSpec()
	spec.Separator = "|"
	spec.JoinEmptyFields = true

	fields := []*field.Field{
		constantField("a", "one", field.Options{}),
		constantField("b", "", field.Options{}),
		constantField("c", "three", field.Options{}),
	}
	b, err := New(spec, fields, Options{Out: &bytes.Buffer{}, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	for _, f := range fields {
		if err := f.Refresh(ctx); err != nil {
			t.Fatalf("Refresh(%s) error = %v", f.Name(), err)
		}
	}

	if got := b.Line(); got != "one||three" {
		t.Errorf("Line() = %q, want %q", got, "one||three")
	}
}

func TestBar_Line_Template(t *testing.T) {
	spec := config.DefaultSpec()
	spec.Template = "[{a}] {b}"

	fields := []*field.Field{
		constantField("a", "left", field.Options{}),
		constantField("b", "right", field.Options{}),
	}
	b, err := New(spec, fields, Options{Out: &bytes.Buffer{}, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	for _, f := range fields {
		if err := f.Refresh(ctx); err != nil {
			t.Fatalf("Refresh(%s) error = %v", f.Name(), err)
		}
	}

	if got := b.Line(); got != "[left] right" {
		t.Errorf("Line() = %q, want %q", got, "[left] right")
	}
}

func TestBar_Line_Icons(t *testing.T) {
	spec := config.DefaultSpec()

	f := constantField("a", "42%", field.Options{Icon: "cpu ", TTYIcon: "C "})
	b, err := New(spec, []*field.Field{f}, Options{Out: &bytes.Buffer{}, TTY: true, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if got := b.Line(); got != "C 42%" {
		t.Errorf("Line() on tty = %q, want %q", got, "C 42%")
	}
}

func TestBar_Run_CountLimited(t *testing.T) {
	spec := config.DefaultSpec()
	spec.Count = 3

	var out bytes.Buffer
	clock := field.NewTestClock(time.Unix(1000, 0))
	fields := []*field.Field{constantField("a", "hi", field.Options{})}
	b, err := New(spec, fields, Options{Out: &out, Clock: clock, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := "hi\nhi\nhi\n"
	if out.String() != want {
		t.Errorf("Run() output = %q, want %q", out.String(), want)
	}
}

func TestBar_Run_Once(t *testing.T) {
	spec := config.DefaultSpec()
	spec.RunOnce = true

	var out bytes.Buffer
	clock := field.NewTestClock(time.Unix(1000, 0))
	fields := []*field.Field{constantField("a", "once", field.Options{})}
	b, err := New(spec, fields, Options{Out: &out, Clock: clock, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if out.String() != "once\n" {
		t.Errorf("Run() output = %q, want %q", out.String(), "once\n")
	}
}

func TestBar_Run_TTYControlSequences(t *testing.T) {
	spec := config.DefaultSpec()
	spec.Count = 1

	var out bytes.Buffer
	clock := field.NewTestClock(time.Unix(1000, 0))
	fields := []*field.Field{constantField("a", "hi", field.Options{})}
	b, err := New(spec, fields, Options{Out: &out, TTY: true, Clock: clock, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := hideCursor + clearLine + "hi" + showCursor + "\n"
	if out.String() != want {
		t.Errorf("Run() output = %q, want %q", out.String(), want)
	}
}

func TestBar_Run_CancelledContext(t *testing.T) {
	spec := config.DefaultSpec()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	clock := field.NewTestClock(time.Unix(1000, 0))
	fields := []*field.Field{constantField("a", "hi", field.Options{})}
	b, err := New(spec, fields, Options{Out: &out, Clock: clock, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := b.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// The initial paint happens before the loop observes cancellation.
	if !strings.HasPrefix(out.String(), "hi\n") {
		t.Errorf("Run() output = %q, want initial paint", out.String())
	}
}

func TestAlignDelay(t *testing.T) {
	base := time.Unix(100, 0)
	tests := []struct {
		name     string
		now      time.Time
		interval time.Duration
		want     time.Duration
	}{
		{"on boundary", base, time.Second, time.Second},
		{"mid interval", base.Add(300 * time.Millisecond), time.Second, 700 * time.Millisecond},
		{"close to boundary", base.Add(999 * time.Millisecond), time.Second, time.Millisecond},
		{"zero interval", base, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := alignDelay(tt.now, tt.interval); got != tt.want {
				t.Errorf("alignDelay(%v, %v) = %v, want %v", tt.now, tt.interval, got, tt.want)
			}
		})
	}
}

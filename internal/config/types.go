// Package config loads, validates, and generates zline bar
// configurations. A config arrives in one of three formats dispatched by
// file extension: the native conf language (internal/conf), JSON, or a
// sandboxed Lua program that can vary its output by platform.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Default bar settings.
const (
	DefaultSeparator = "|"
	DefaultRefresh   = 1.0
	ConfigFileName   = "zline.conf"
)

// DefaultFieldOrder lists the builtin fields shown when the user has not
// chosen any.
var DefaultFieldOrder = []string{
	"hostname",
	"uptime",
	"cpu_usage",
	"cpu_temp",
	"mem_usage",
	"disk_usage",
	"battery",
	"net_stats",
	"datetime",
}

// Spec is the full bar configuration.
type Spec struct {
	// FieldOrder names the fields to display, left to right.
	FieldOrder []string `json:"field_order,omitempty"`

	// Separator is drawn between fields. Ignored when Template is set.
	Separator string `json:"separator,omitempty"`

	// Template is a format string with {field_name} placeholders. When
	// both Template and FieldOrder are present, Template wins.
	Template string `json:"template,omitempty"`

	// Refresh is the repaint interval in seconds.
	Refresh float64 `json:"refresh,omitempty"`

	// Count stops the bar after this many repaints; 0 runs forever.
	Count int `json:"count,omitempty"`

	// ClockAlign synchronizes repaints to the start of each second.
	ClockAlign bool `json:"clock_align"`

	// JoinEmptyFields keeps separators around fields with no content.
	JoinEmptyFields bool `json:"join_empty_fields,omitempty"`

	// RunOnce paints the bar a single time and exits.
	RunOnce bool `json:"once,omitempty"`

	// Debug enables debug logging.
	Debug bool `json:"debug,omitempty"`

	// Fields holds per-field overrides and custom field definitions,
	// keyed by field name. Iteration order follows FieldOrder.
	Fields map[string]FieldSpec `json:"fields,omitempty"`
}

// FieldSpec overrides one field's behavior, or defines a custom field
// when Command or Constant is set.
type FieldSpec struct {
	// Icon prefixes the field's text. TTYIcon is used instead on plain
	// terminals without a glyph font.
	Icon    string `json:"icon,omitempty"`
	TTYIcon string `json:"tty_icon,omitempty"`

	// Interval is the update period in seconds; 0 keeps the field's
	// builtin default.
	Interval float64 `json:"interval,omitempty"`

	// Threaded runs the field in its own goroutine.
	Threaded bool `json:"threaded,omitempty"`

	// RunOnce fixes the field's content after the first update.
	RunOnce bool `json:"once,omitempty"`

	// Timely repaints the bar as soon as this field updates.
	Timely bool `json:"timely,omitempty"`

	// AlignToSeconds updates the field at the start of each second.
	AlignToSeconds bool `json:"align_to_seconds,omitempty"`

	// Format is a field-specific format string, such as an uptime or
	// datetime layout.
	Format string `json:"format,omitempty"`

	// Command defines a custom field producing the first line of the
	// command's output, run with `sh -c`.
	Command string `json:"command,omitempty"`

	// Constant defines a custom field with fixed text.
	Constant string `json:"constant,omitempty"`
}

// Custom reports whether the spec defines a field of its own rather than
// overriding a builtin.
func (f FieldSpec) Custom() bool {
	return f.Command != "" || f.Constant != ""
}

// DefaultSpec returns the configuration used when no file exists.
func DefaultSpec() *Spec {
	return &Spec{
		FieldOrder: append([]string(nil), DefaultFieldOrder...),
		Separator:  DefaultSeparator,
		Refresh:    DefaultRefresh,
		ClockAlign: true,
	}
}

// Validate checks the numeric and structural constraints the decoder
// cannot. Field-name validation against the builtin registry happens
// when the field engine is assembled.
func (s *Spec) Validate() error {
	if s.Refresh <= 0 {
		return &DecodeError{Key: "refresh", Msg: fmt.Sprintf("must be positive, got %v", s.Refresh)}
	}
	if s.Count < 0 {
		return &DecodeError{Key: "count", Msg: fmt.Sprintf("must not be negative, got %d", s.Count)}
	}
	if len(s.FieldOrder) == 0 && s.Template == "" {
		return &DecodeError{Key: "field_order", Msg: "a field order or a template is required"}
	}
	return nil
}

// Dir returns the configuration directory, honoring $ZLINE_CONFIG_DIR.
func Dir() (string, error) {
	if dir := os.Getenv("ZLINE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "zline"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

package config

import (
	"context"
	"errors"
	"io/fs"
)

// Status describes the state of a config path.
type Status int

const (
	// StatusActive means the file exists and loads cleanly.
	StatusActive Status = iota

	// StatusMissing means the file does not exist.
	StatusMissing

	// StatusInvalid means the file exists but fails to parse or validate.
	StatusInvalid
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusMissing:
		return "missing"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Symbol returns the status glyph used in listings.
func (s Status) Symbol() string {
	switch s {
	case StatusActive:
		return "✓"
	case StatusMissing:
		return "✗"
	default:
		return "?"
	}
}

// CheckPath loads the config at path and reports its status.
func CheckPath(ctx context.Context, path string) Status {
	_, err := Load(ctx, path)
	switch {
	case err == nil:
		return StatusActive
	case errors.Is(err, fs.ErrNotExist):
		return StatusMissing
	default:
		return StatusInvalid
	}
}

// Package testutil provides utilities for testing zline in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points zline's config lookup at a per-test temp
// directory so tests never touch the user's real configuration.
// Cleanup is handled by t.TempDir.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "config")

	t.Setenv("ZLINE_CONFIG_DIR", configDir)

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		t.Fatalf("failed to create test directory %s: %v", configDir, err)
	}
	return configDir
}

// WriteConfig drops a config file with the given name and contents
// into the test config dir and returns its path.
func WriteConfig(t *testing.T, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write test config %s: %v", path, err)
	}
	return path
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/zline/internal/config"
	"github.com/ZebulonRouseFrantzich/zline/internal/testutil"
)

func TestRunInit_WritesDefault(t *testing.T) {
	dir := testutil.SetupTestEnv(t)
	path := filepath.Join(dir, "zline.conf")

	if err := runInit([]string{"-c", path}); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	spec, err := config.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() after init error = %v", err)
	}
	if spec.Refresh != config.DefaultRefresh {
		t.Errorf("Refresh = %v, want %v", spec.Refresh, config.DefaultRefresh)
	}
}

func TestRunInit_DefaultPath(t *testing.T) {
	dir := testutil.SetupTestEnv(t)

	if err := runInit(nil); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Errorf("default config not written: %v", err)
	}
}

func TestRunInit_RefusesExisting(t *testing.T) {
	dir := testutil.SetupTestEnv(t)
	path := testutil.WriteConfig(t, dir, "zline.conf", "refresh = 9.0\n")

	err := runInit([]string{"-c", path})
	if err == nil {
		t.Fatal("runInit() succeeded over existing config")
	}
	if !strings.Contains(err.Error(), "--force") {
		t.Errorf("runInit() error = %v, want hint about --force", err)
	}

	contents, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("ReadFile: %v", readErr)
	}
	if string(contents) != "refresh = 9.0\n" {
		t.Errorf("existing config was modified: %q", contents)
	}
}

func TestRunInit_ForceKeepsBackup(t *testing.T) {
	dir := testutil.SetupTestEnv(t)
	path := testutil.WriteConfig(t, dir, "zline.conf", "refresh = 9.0\n")

	if err := runInit([]string{"-c", path, "--force"}); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	backups := 0
	for _, e := range entries {
		if strings.Contains(e.Name(), ".bak.") {
			backups++
		}
	}
	if backups != 1 {
		t.Errorf("backup count = %d, want 1", backups)
	}

	if _, err := config.Load(context.Background(), path); err != nil {
		t.Errorf("Load() after forced init error = %v", err)
	}
}

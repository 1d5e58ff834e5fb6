package field

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/zline/internal/config"
)

func TestConstantField(t *testing.T) {
	f := newCustom("tag", config.FieldSpec{Constant: "lab-3", Icon: "# "})

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := f.Render(false); got != "# lab-3" {
		t.Errorf("Render() = %q, want %q", got, "# lab-3")
	}
	if !f.opts.RunOnce {
		t.Error("constant field should run once")
	}
}

func TestCommandField(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	f := newCustom("echo", config.FieldSpec{Command: "echo hello"})

	if !f.Threaded() {
		t.Error("command field must be threaded")
	}
	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if f.Text() != "hello" {
		t.Errorf("Text = %q, want %q", f.Text(), "hello")
	}
}

func TestCommandField_FirstLineOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	f := newCustom("multi", config.FieldSpec{Command: "printf 'line1\\nline2\\n'"})

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if f.Text() != "line1" {
		t.Errorf("Text = %q, want first line only", f.Text())
	}
}

func TestCommandField_Failure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	f := newCustom("boom", config.FieldSpec{Command: "exit 3"})

	err := f.Refresh(context.Background())
	if err == nil {
		t.Fatal("Refresh() = nil, want error")
	}
	if f.Text() != "" {
		t.Errorf("Text after failure = %q, want empty", f.Text())
	}
}

func TestCommandField_ScrubbedEnv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	t.Setenv("ZLINE_SECRET_TOKEN", "hunter2")

	f := newCustom("env", config.FieldSpec{Command: "echo \"x${ZLINE_SECRET_TOKEN}x\""})
	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if f.Text() != "xx" {
		t.Errorf("Text = %q, process environment leaked into the command", f.Text())
	}
}

func TestScrubbedEnv(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	t.Setenv("SOME_RANDOM_VAR", "leak")

	env := scrubbedEnv()
	for _, kv := range env {
		if strings.HasPrefix(kv, "SOME_RANDOM_VAR=") {
			t.Errorf("scrubbed env contains %q", kv)
		}
	}
	found := false
	for _, kv := range env {
		if kv == "PATH=/usr/bin" {
			found = true
		}
	}
	if !found {
		t.Error("scrubbed env lost PATH")
	}
}

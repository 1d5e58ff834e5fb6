package field

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/zline/internal/config"
)

// commandTimeout bounds one run of a command field.
const commandTimeout = 10 * time.Second

// newCustom builds a user-defined field from its spec: Constant fields
// emit fixed text, Command fields run a shell command per update.
func newCustom(name string, fs config.FieldSpec) *Field {
	opts := Options{
		Icon:           fs.Icon,
		TTYIcon:        fs.TTYIcon,
		Interval:       time.Duration(fs.Interval * float64(time.Second)),
		Threaded:       fs.Threaded,
		RunOnce:        fs.RunOnce,
		Timely:         fs.Timely,
		AlignToSeconds: fs.AlignToSeconds,
	}
	if fs.Constant != "" {
		opts.RunOnce = true
		return New(name, constantFunc(fs.Constant), opts)
	}
	// Commands can hang; keep them off the bar's tick loop.
	opts.Threaded = true
	return New(name, commandFunc(fs.Command), opts)
}

func constantFunc(text string) Func {
	return func(ctx context.Context) (string, error) {
		return text, nil
	}
}

// commandFunc runs the command with `sh -c` under a deadline and a
// scrubbed environment, and returns the first line of its output.
func commandFunc(command string) Func {
	return func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Env = scrubbedEnv()
		out, err := cmd.Output()
		if err != nil {
			return "", fmt.Errorf("run %q: %w", command, err)
		}
		line, _, _ := strings.Cut(strings.TrimRight(string(out), "\n"), "\n")
		return line, nil
	}
}

// scrubbedEnv keeps only the variables a status command legitimately
// needs; nothing else from zline's environment leaks into user commands.
func scrubbedEnv() []string {
	var env []string
	for _, key := range []string{"PATH", "HOME", "USER", "SHELL", "LANG", "LC_ALL", "TERM", "TZ"} {
		if v, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+v)
		}
	}
	return env
}

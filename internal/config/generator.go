package config

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/zline/internal/conf"
)

// maxBackups is how many timestamped snapshots of a replaced config file
// are kept next to it.
const maxBackups = 3

// Generate renders the default configuration as canonical conf text with
// a comment header.
func Generate() (string, error) {
	body, err := conf.Serialize(DefaultSpec().ToMapping())
	if err != nil {
		return "", fmt.Errorf("serialize default config: %w", err)
	}
	var sb strings.Builder
	sb.WriteString("# zline configuration\n")
	sb.WriteString("# generated on " + time.Now().Format(time.RFC3339) + "\n")
	sb.WriteString("#\n")
	sb.WriteString("# run `zline check` after editing.\n\n")
	sb.WriteString(body)
	return sb.String(), nil
}

// WriteDefault writes the default config to path. An existing file is
// refused unless force is set; with force the old file is snapshotted to
// a timestamped .bak first, keeping the newest three. The write itself
// goes through a temp file, rename, and directory sync so a crash never
// leaves a half-written config.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil {
		if !force {
			return fmt.Errorf("config file %s already exists: %w", path, fs.ErrExist)
		}
		if err := snapshotFile(path); err != nil {
			return err
		}
	}

	content, err := Generate()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, []byte(content), 0o644)
}

// Approve prints prompt and reads a y/N answer from r.
func Approve(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// snapshotFile copies path to path.bak.<timestamp> and prunes old
// snapshots beyond maxBackups.
func snapshotFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config for backup: %w", err)
	}
	backup := fmt.Sprintf("%s.bak.%s", path, time.Now().UTC().Format("20060102T150405Z"))
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return pruneSnapshots(path)
}

func pruneSnapshots(path string) error {
	matches, err := filepath.Glob(path + ".bak.*")
	if err != nil {
		return err
	}
	if len(matches) <= maxBackups {
		return nil
	}
	// Timestamps sort lexically, oldest first.
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-maxBackups] {
		if err := os.Remove(old); err != nil {
			return fmt.Errorf("prune backup %s: %w", old, err)
		}
	}
	return nil
}

// writeFileAtomic writes data next to path and renames it into place,
// then syncs the directory for durability.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename config into place: %w", err)
	}

	if df, err := os.Open(dir); err == nil {
		if syncErr := df.Sync(); syncErr != nil {
			df.Close()
			return fmt.Errorf("sync directory: %w", syncErr)
		}
		df.Close()
	}
	return nil
}

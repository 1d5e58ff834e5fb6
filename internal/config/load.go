package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/ZebulonRouseFrantzich/zline/internal/conf"
)

// Load reads and decodes the config file at path. The format is chosen
// by extension: .json and .lua get their own front-ends, anything else
// is the native conf language. All three converge on the same generic
// mapping before decoding, so they share shape checks and defaults.
func Load(ctx context.Context, path string) (*Spec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(path)
	case ".lua":
		return loadLua(ctx, path)
	default:
		m, err := conf.ParseFile(path)
		if err != nil {
			return nil, err
		}
		return FromMapping(m)
	}
}

// LoadDefault loads the config from the default location. A missing file
// surfaces as fs.ErrNotExist so callers can offer to create one.
func LoadDefault(ctx context.Context) (*Spec, string, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, "", err
	}
	spec, err := Load(ctx, path)
	if err != nil {
		return nil, path, err
	}
	return spec, path, nil
}

func loadJSON(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := orderedmap.New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return FromMapping(m)
}

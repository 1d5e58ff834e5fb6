package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/iancoleman/orderedmap"
	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/zline/internal/platform"
)

// LuaError wraps a Lua front-end failure with a user-facing message and
// the raw interpreter detail.
type LuaError struct {
	Message string
	Detail  string
}

func (e *LuaError) Error() string {
	detail := e.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", e.Message, detail)
}

func loadLua(ctx context.Context, path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLua(ctx, string(data), platform.NewDetector())
}

// ParseLua runs a Lua config in a sandboxed VM and decodes the global
// `zline` table it leaves behind. When a detector is given, a read-only
// `platform` table is injected before user code runs so configs can vary
// by machine.
func ParseLua(ctx context.Context, src string, detector platform.Detector) (*Spec, error) {
	L := newSandboxedVM()
	defer L.Close()

	if detector != nil {
		info, err := detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(src); err != nil {
		return nil, &LuaError{Message: "Lua syntax error", Detail: err.Error()}
	}

	root := L.GetGlobal("zline")
	if root.Type() != lua.LTTable {
		return nil, &LuaError{
			Message: "missing or invalid 'zline' table",
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}

	m, ok := luaValue(root).(*orderedmap.OrderedMap)
	if !ok {
		return nil, &LuaError{Message: "invalid 'zline' table", Detail: "table is array-shaped"}
	}
	return FromMapping(m)
}

// newSandboxedVM creates a Lua state with everything that reaches
// outside the VM removed: no process control, no filesystem, no module
// loading, no metatable escape hatches. string, table, and math stay.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	for _, name := range []string{
		"os", "io", "require", "dofile", "loadfile", "load", "loadstring", "debug",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// luaValue converts a Lua value to the generic shapes FromMapping
// understands. Array-shaped tables become []any with nil holes dropped,
// which is what platform.when produces for a false condition; any table
// with a string key becomes a mapping.
func luaValue(v lua.LValue) any {
	switch v := v.(type) {
	case lua.LString:
		return string(v)
	case lua.LNumber:
		return float64(v)
	case lua.LBool:
		return bool(v)
	case *lua.LTable:
		if isArrayTable(v) {
			var elems []any
			n := v.MaxN()
			for i := 1; i <= n; i++ {
				e := v.RawGetInt(i)
				if e.Type() == lua.LTNil {
					continue
				}
				elems = append(elems, luaValue(e))
			}
			if elems == nil {
				elems = []any{}
			}
			return elems
		}
		m := orderedmap.New()
		v.ForEach(func(key, value lua.LValue) {
			if key.Type() != lua.LTString {
				return
			}
			m.Set(key.String(), luaValue(value))
		})
		return m
	default:
		return nil
	}
}

func isArrayTable(t *lua.LTable) bool {
	hasString := false
	t.ForEach(func(key, _ lua.LValue) {
		if key.Type() == lua.LTString {
			hasString = true
		}
	})
	return !hasString
}

package config

import (
	"sort"

	"github.com/iancoleman/orderedmap"
)

// ToMapping renders the spec as a generic mapping in canonical key
// order, ready for conf.Serialize or ordered JSON output. Keys holding
// their zero value are omitted, except the ones every config should
// state explicitly.
func (s *Spec) ToMapping() *orderedmap.OrderedMap {
	m := orderedmap.New()

	if len(s.FieldOrder) > 0 {
		order := make([]any, len(s.FieldOrder))
		for i, name := range s.FieldOrder {
			order[i] = name
		}
		m.Set("field_order", order)
	}
	if s.Template != "" {
		m.Set("template", s.Template)
	} else {
		m.Set("separator", s.Separator)
	}
	m.Set("refresh", s.Refresh)
	m.Set("clock_align", s.ClockAlign)
	if s.JoinEmptyFields {
		m.Set("join_empty_fields", true)
	}
	if s.Count > 0 {
		m.Set("count", int64(s.Count))
	}
	if s.RunOnce {
		m.Set("once", true)
	}
	if s.Debug {
		m.Set("debug", true)
	}

	if len(s.Fields) > 0 {
		fields := orderedmap.New()
		for _, name := range s.fieldNames() {
			fields.Set(name, fieldSpecMapping(s.Fields[name]))
		}
		m.Set("fields", fields)
	}
	return m
}

// fieldNames returns the keys of Fields, FieldOrder entries first, the
// rest sorted, so serialization is deterministic.
func (s *Spec) fieldNames() []string {
	seen := make(map[string]bool, len(s.Fields))
	var names []string
	for _, name := range s.FieldOrder {
		if _, ok := s.Fields[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range s.Fields {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func fieldSpecMapping(f FieldSpec) *orderedmap.OrderedMap {
	m := orderedmap.New()
	if f.Icon != "" {
		m.Set("icon", f.Icon)
	}
	if f.TTYIcon != "" {
		m.Set("tty_icon", f.TTYIcon)
	}
	if f.Interval != 0 {
		m.Set("interval", f.Interval)
	}
	if f.Threaded {
		m.Set("threaded", true)
	}
	if f.RunOnce {
		m.Set("once", true)
	}
	if f.Timely {
		m.Set("timely", true)
	}
	if f.AlignToSeconds {
		m.Set("align_to_seconds", true)
	}
	if f.Format != "" {
		m.Set("format", f.Format)
	}
	if f.Command != "" {
		m.Set("command", f.Command)
	}
	if f.Constant != "" {
		m.Set("constant", f.Constant)
	}
	return m
}

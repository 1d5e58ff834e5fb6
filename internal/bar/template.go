package bar

import (
	"fmt"
	"strings"
)

// Template is a parsed bar format string. Literal text is kept verbatim
// and {field_name} placeholders are filled at paint time.
type Template struct {
	parts []part
}

type part struct {
	literal string
	field   string // set when the part is a placeholder
}

// ParseTemplate parses a format string such as "{hostname} | {datetime}".
// Placeholder names are identifiers; an unclosed brace or an empty name
// is an error.
func ParseTemplate(s string) (*Template, error) {
	t := &Template{}
	for len(s) > 0 {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			t.parts = append(t.parts, part{literal: s})
			break
		}
		if open > 0 {
			t.parts = append(t.parts, part{literal: s[:open]})
		}
		closing := strings.IndexByte(s[open:], '}')
		if closing < 0 {
			return nil, fmt.Errorf("template: unclosed %q at offset %d", "{", open)
		}
		name := s[open+1 : open+closing]
		if !validFieldName(name) {
			return nil, fmt.Errorf("template: invalid field name %q", name)
		}
		t.parts = append(t.parts, part{field: name})
		s = s[open+closing+1:]
	}
	return t, nil
}

// Fields returns the placeholder names in order of appearance.
func (t *Template) Fields() []string {
	var names []string
	seen := make(map[string]bool)
	for _, p := range t.parts {
		if p.field != "" && !seen[p.field] {
			names = append(names, p.field)
			seen[p.field] = true
		}
	}
	return names
}

// Render fills placeholders using lookup.
func (t *Template) Render(lookup func(name string) string) string {
	var sb strings.Builder
	for _, p := range t.parts {
		if p.field != "" {
			sb.WriteString(lookup(p.field))
			continue
		}
		sb.WriteString(p.literal)
	}
	return sb.String()
}

func validFieldName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		return false
	}
	return true
}

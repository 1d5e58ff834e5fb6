package conf

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
)

const indent = "    "

// unparser turns generic mappings back into AST nodes so the emitter can
// render them with the same shapes the parser accepts.
type unparser struct{}

func (u unparser) unparse(m *orderedmap.OrderedMap) ([]Node, error) {
	nodes := make([]Node, 0, len(m.Keys()))
	for _, key := range m.Keys() {
		name, err := u.keyName(key)
		if err != nil {
			return nil, err
		}
		v, _ := m.Get(key)
		val, err := u.unparseValue(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		nodes = append(nodes, newMapping(Token{}, []*Name{name}, []Node{val}))
	}
	return nodes, nil
}

func (u unparser) unparseValue(v any) (Node, error) {
	switch v := v.(type) {
	case nil:
		return &Constant{Value: nil}, nil
	case string:
		return &Constant{Value: v}, nil
	case bool:
		return &Constant{Value: v}, nil
	case int:
		return u.unparseValue(int64(v))
	case int64:
		if v < 0 {
			return nil, fmt.Errorf("cannot serialize negative number %d: the language has no sign operator", v)
		}
		return &Constant{Value: v}, nil
	case float64:
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("cannot serialize number %v: the language has no sign operator", v)
		}
		return &Constant{Value: v}, nil
	case []any:
		list := &List{}
		for _, e := range v {
			n, err := u.unparseValue(e)
			if err != nil {
				return nil, err
			}
			list.Elems = append(list.Elems, n)
		}
		return list, nil
	case []string:
		elems := make([]any, len(v))
		for i, s := range v {
			elems[i] = s
		}
		return u.unparseValue(elems)
	case *orderedmap.OrderedMap:
		keys := make([]*Name, 0, len(v.Keys()))
		vals := make([]Node, 0, len(v.Keys()))
		for _, key := range v.Keys() {
			name, err := u.keyName(key)
			if err != nil {
				return nil, err
			}
			inner, _ := v.Get(key)
			n, err := u.unparseValue(inner)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			keys = append(keys, name)
			vals = append(vals, n)
		}
		return newMapping(Token{}, keys, vals), nil
	default:
		return nil, fmt.Errorf("cannot serialize value of type %T", v)
	}
}

// keyName validates that a mapping key is expressible as an identifier.
// Identifiers are letters and underscores, and because boolean literals
// take lexing priority a key may not begin with a boolean spelling.
func (u unparser) keyName(key string) (*Name, error) {
	if key == "" {
		return nil, fmt.Errorf("cannot serialize empty key")
	}
	for _, r := range key {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		return nil, fmt.Errorf("cannot serialize key %q: not an identifier", key)
	}
	lower := strings.ToLower(key)
	for _, b := range []string{"true", "yes", "false", "no"} {
		if strings.HasPrefix(lower, b) {
			return nil, fmt.Errorf("cannot serialize key %q: collides with boolean literal %q", key, b)
		}
	}
	return &Name{ID: key}, nil
}

// emitter renders AST nodes as canonical configuration text. It
// implements Visitor; every handler returns a string.
type emitter struct{}

// stringify renders top-level nodes joined by blank lines.
func (em emitter) stringify(nodes []Node) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s, err := em.render(n)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

func (em emitter) render(n Node) (string, error) {
	v, err := n.Accept(em)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (em emitter) VisitConstant(n *Constant) (any, error) {
	switch v := n.Value.(type) {
	case nil:
		return "", nil
	case string:
		return quoteString(v)
	case bool:
		return strconv.FormatBool(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return formatFloat(v), nil
	default:
		return "", fmt.Errorf("cannot serialize value of type %T", v)
	}
}

func (em emitter) VisitName(n *Name) (any, error) {
	return n.ID, nil
}

// VisitList renders three or fewer elements inline and longer lists one
// element per line between the brackets.
func (em emitter) VisitList(n *List) (any, error) {
	elems := make([]string, 0, len(n.Elems))
	for _, e := range n.Elems {
		s, err := em.renderInline(e)
		if err != nil {
			return "", err
		}
		elems = append(elems, s)
	}
	if len(elems) > 3 {
		return "[\n" + indent + strings.Join(elems, "\n"+indent) + "\n]", nil
	}
	return "[" + strings.Join(elems, ", ") + "]", nil
}

// VisitMapping renders the one-entry block wrapper as `key { ... }` and
// everything else as flat `key = value` assignments. Mapping values
// inside a block flatten into dotted chains, one line per leaf, which
// the parser reassembles into the same nesting.
func (em emitter) VisitMapping(n *Mapping) (any, error) {
	if n.Nested && len(n.Keys) == 1 {
		if inner, ok := n.Values[0].(*Mapping); ok {
			return em.renderBlock(n.Keys[0].ID, inner)
		}
	}
	lines, err := em.assignLines(n)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func (em emitter) renderBlock(key string, inner *Mapping) (string, error) {
	if len(inner.Keys) == 0 {
		return key + " {}", nil
	}
	lines, err := em.assignLines(inner)
	if err != nil {
		return "", err
	}
	return key + " {\n" + indent + strings.Join(lines, "\n"+indent) + "\n}", nil
}

// assignLines renders each pair of a mapping as one assignment line.
func (em emitter) assignLines(n *Mapping) ([]string, error) {
	var lines []string
	for i, key := range n.Keys {
		if vm, ok := n.Values[i].(*Mapping); ok {
			dotted, err := em.dottedLines(key.ID, vm)
			if err != nil {
				return nil, err
			}
			lines = append(lines, dotted...)
			continue
		}
		s, err := em.render(n.Values[i])
		if err != nil {
			return nil, err
		}
		lines = append(lines, assignLine(key.ID, s))
	}
	return lines, nil
}

// dottedLines flattens a mapping value into dotted-assignment lines, one
// per leaf. An empty mapping has no leaves and renders as `prefix {}`.
func (em emitter) dottedLines(prefix string, m *Mapping) ([]string, error) {
	if len(m.Keys) == 0 {
		return []string{prefix + " {}"}, nil
	}
	var lines []string
	for i, key := range m.Keys {
		if vm, ok := m.Values[i].(*Mapping); ok {
			nested, err := em.dottedLines(prefix+"."+key.ID, vm)
			if err != nil {
				return nil, err
			}
			lines = append(lines, nested...)
			continue
		}
		s, err := em.render(m.Values[i])
		if err != nil {
			return nil, err
		}
		lines = append(lines, assignLine(prefix+"."+key.ID, s))
	}
	return lines, nil
}

// renderInline renders a node for use inside a list, where mappings take
// the brace-and-comma form instead of one assignment per line.
func (em emitter) renderInline(n Node) (string, error) {
	m, ok := n.(*Mapping)
	if !ok {
		return em.render(n)
	}
	parts := make([]string, 0, len(m.Keys))
	for i, key := range m.Keys {
		s, err := em.renderInline(m.Values[i])
		if err != nil {
			return "", err
		}
		parts = append(parts, assignLine(key.ID, s))
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

func assignLine(key, value string) string {
	if value == "" {
		return key + " ="
	}
	return key + " = " + value
}

// quoteString picks the first of ", ', ` that does not occur in the
// text, falling back to triple quotes. Strings the lexer could never
// read back, such as ones containing a newline or every delimiter, are
// an error.
func quoteString(s string) (string, error) {
	if strings.Contains(s, "\n") {
		return "", fmt.Errorf("cannot serialize string containing newline: %q", s)
	}
	for _, q := range []string{`"`, `'`, "`"} {
		if !strings.Contains(s, q) {
			return q + s + q, nil
		}
	}
	if !strings.Contains(s, `"""`) && !strings.HasPrefix(s, `"`) && !strings.HasSuffix(s, `"`) {
		return `"""` + s + `"""`, nil
	}
	return "", fmt.Errorf("cannot serialize string %q: no usable quote delimiter", s)
}

// formatFloat renders a float with a decimal point and no exponent so it
// reads back as a FLOAT token.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

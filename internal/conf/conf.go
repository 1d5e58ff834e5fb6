package conf

import (
	"os"

	"github.com/iancoleman/orderedmap"
)

// ParseText parses configuration source into a generic mapping. The
// returned mapping is owned by the caller; the lexer and parser behind a
// call are discarded when it returns. On failure no partial mapping is
// returned.
func ParseText(src string) (*orderedmap.OrderedMap, error) {
	return parseNamed(src, "")
}

// ParseFile reads path and parses its contents. A missing or unreadable
// file surfaces the *fs.PathError from the read, distinct from the
// ErrSyntax class of language errors.
func ParseFile(path string) (*orderedmap.OrderedMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseNamed(string(data), path)
}

func parseNamed(src, file string) (*orderedmap.OrderedMap, error) {
	p := newParser(src, file)
	nodes, err := p.parse()
	if err != nil {
		return nil, err
	}
	in := &interp{lexer: p.lexer}
	return in.interpret(nodes)
}

// Serialize renders a generic mapping as canonical configuration text.
// Parsing the result yields a mapping structurally equal to the input,
// and serializing that parse reproduces the same text byte for byte.
func Serialize(m *orderedmap.OrderedMap) (string, error) {
	nodes, err := unparser{}.unparse(m)
	if err != nil {
		return "", err
	}
	return emitter{}.stringify(nodes)
}

package conf

// Node is the closed union of AST node kinds. Every node remembers the
// token that produced it for diagnostics.
type Node interface {
	Tok() Token
	Accept(v Visitor) (any, error)
}

// Visitor has one handler per node kind. Adding a kind breaks every
// implementation at compile time, which keeps dispatch exhaustive.
type Visitor interface {
	VisitConstant(n *Constant) (any, error)
	VisitName(n *Name) (any, error)
	VisitList(n *List) (any, error)
	VisitMapping(n *Mapping) (any, error)
}

// Constant is a scalar literal: string, int64, float64, bool, or nil for
// an empty assignment.
type Constant struct {
	token Token
	Value any
}

func (n *Constant) Tok() Token                    { return n.token }
func (n *Constant) Accept(v Visitor) (any, error) { return v.VisitConstant(n) }

// Name is a bare identifier. Outside list context identifiers only ever
// appear as assignment targets; inside a list a Name is a literal string
// element.
type Name struct {
	token Token
	ID    string
}

func (n *Name) Tok() Token                    { return n.token }
func (n *Name) Accept(v Visitor) (any, error) { return v.VisitName(n) }

// List is an ordered sequence of values.
type List struct {
	token Token
	Elems []Node
}

func (n *List) Tok() Token                    { return n.token }
func (n *List) Accept(v Visitor) (any, error) { return v.VisitList(n) }

// Mapping is one or more key/value bindings with unique keys. Nested
// records whether the construct should serialize as a brace block rather
// than flat assignments; it is computed at construction and never
// mutated, and carries no semantic weight.
type Mapping struct {
	token  Token
	Keys   []*Name
	Values []Node
	Nested bool
}

func (n *Mapping) Tok() Token                    { return n.token }
func (n *Mapping) Accept(v Visitor) (any, error) { return v.VisitMapping(n) }

// newMapping builds a mapping node, deriving Nested bottom-up: a mapping
// nests when any of its values is itself a mapping.
func newMapping(tok Token, keys []*Name, values []Node) *Mapping {
	nested := false
	for _, v := range values {
		if _, ok := v.(*Mapping); ok {
			nested = true
			break
		}
	}
	return &Mapping{token: tok, Keys: keys, Values: values, Nested: nested}
}

// indexOf returns the position of key in the mapping, or -1.
func (n *Mapping) indexOf(key string) int {
	for i, k := range n.Keys {
		if k.ID == key {
			return i
		}
	}
	return -1
}

// mergePair inserts key/value into the mapping. A repeated key whose old
// and new values are both mappings merges the new entries into the old
// value; any other repeat replaces the old value. This models writing
// the same logical block across multiple statements.
func (n *Mapping) mergePair(key *Name, value Node) {
	i := n.indexOf(key.ID)
	if i < 0 {
		n.Keys = append(n.Keys, key)
		n.Values = append(n.Values, value)
		return
	}
	old, oldOK := n.Values[i].(*Mapping)
	add, addOK := value.(*Mapping)
	if oldOK && addOK {
		for j := range add.Keys {
			old.mergePair(add.Keys[j], add.Values[j])
		}
		return
	}
	n.Values[i] = value
}

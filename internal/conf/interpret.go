package conf

import (
	"github.com/iancoleman/orderedmap"
)

// interp walks ASTs into plain data: scalars, []any, and insertion-
// ordered maps. It implements Visitor.
type interp struct {
	lexer *Lexer // for diagnostics on malformed top-level nodes
}

// interpret aggregates every top-level assignment node into one mapping.
// Later non-mapping values overwrite earlier ones under the same key;
// mapping values merge recursively.
func (in *interp) interpret(nodes []Node) (*orderedmap.OrderedMap, error) {
	result := orderedmap.New()
	for _, n := range nodes {
		m, ok := n.(*Mapping)
		if !ok {
			// Each expression must map one thing to another.
			tok := n.Tok()
			return nil, in.lexer.parseErrorf([]Token{tok},
				"Invalid syntax: %q (%s cannot be at the start of an expression.)", tok.Raw, tok.Kind)
		}
		parsed, err := in.visit(m)
		if err != nil {
			return nil, err
		}
		mergeInto(result, parsed.(*orderedmap.OrderedMap))
	}
	return result, nil
}

func (in *interp) visit(n Node) (any, error) {
	return n.Accept(in)
}

func (in *interp) VisitConstant(n *Constant) (any, error) {
	return n.Value, nil
}

func (in *interp) VisitName(n *Name) (any, error) {
	return n.ID, nil
}

func (in *interp) VisitList(n *List) (any, error) {
	elems := make([]any, 0, len(n.Elems))
	for _, e := range n.Elems {
		v, err := in.visit(e)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return elems, nil
}

// VisitMapping visits keys and values pairwise. A key repeating within
// one mapping merges mapping-into-mapping instead of overwriting; the
// parser already merges duplicates during construction, so this guards
// the same invariant one level down.
func (in *interp) VisitMapping(n *Mapping) (any, error) {
	m := orderedmap.New()
	for i := range n.Keys {
		key := n.Keys[i].ID
		v, err := in.visit(n.Values[i])
		if err != nil {
			return nil, err
		}
		if prior, ok := m.Get(key); ok {
			if po, pok := prior.(*orderedmap.OrderedMap); pok {
				if vo, vok := v.(*orderedmap.OrderedMap); vok {
					mergeInto(po, vo)
					continue
				}
			}
		}
		m.Set(key, v)
	}
	return m, nil
}

// mergeInto folds src into dst: entries whose old and new values are both
// mappings merge recursively, everything else is overwritten in place.
func mergeInto(dst, src *orderedmap.OrderedMap) {
	for _, key := range src.Keys() {
		v, _ := src.Get(key)
		if prior, ok := dst.Get(key); ok {
			if po, pok := prior.(*orderedmap.OrderedMap); pok {
				if vo, vok := v.(*orderedmap.OrderedMap); vok {
					mergeInto(po, vo)
					continue
				}
			}
		}
		dst.Set(key, v)
	}
}

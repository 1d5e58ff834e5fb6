package conf

import (
	"strconv"
	"strings"
)

// Parser turns the token sequence into assignment-shaped AST nodes.
// Parsing is one recursive function of the current token and the
// immediately preceding significant token: prev supplies just enough
// left context to disambiguate sequences that are legal in one position
// and illegal in another (two adjacent identifiers inside a list versus
// at top level, a comma in value position versus at expression start)
// without a lookahead or backtracking layer.
type Parser struct {
	lexer *Lexer
}

func newParser(src, file string) *Parser {
	return &Parser{lexer: newLexer(src, file)}
}

// parse returns one node per top-level expression.
func (p *Parser) parse() ([]Node, error) {
	var body []Node
	for {
		node, tok, err := p.parseExpr(nil)
		if err != nil {
			return nil, err
		}
		if tok != nil {
			if tok.Kind == KindEOF {
				return body, nil
			}
			// Structural tokens are consumed by the constructs that open
			// them; one escaping to top level has no valid reading.
			return nil, p.lexer.parseErrorf([]Token{*tok}, "Unexpected token: %q", tok.Text)
		}
		if node != nil {
			body = append(body, node)
		}
	}
}

// parseExpr parses one expression. It returns either a node, or the raw
// token when the expression resolves to a structural token: a closing
// bracket handed back to its opener, a NEWLINE or comma directly after
// '=' marking an empty assignment, or EOF.
func (p *Parser) parseExpr(prev *Token) (Node, *Token, error) {
	curr, err := p.lexer.next()
	if err != nil {
		return nil, nil, err
	}

	if prev == nil {
		// First token of an expression: it only supplies context, the
		// node is built once an operator or block follows.
		switch {
		case curr.Kind == KindComma:
			return nil, nil, p.lexer.parseErrorf([]Token{curr}, "Invalid syntax: Comma used outside [] or {}:")
		case curr.Kind == KindEOF:
			return nil, &curr, nil
		case isPunctuation(curr.Kind):
			return nil, nil, p.lexer.parseErrorf([]Token{curr}, "Unmatched %q", curr.Text)
		case curr.Kind == KindAssign || curr.Kind == KindAttribute:
			return nil, nil, p.lexer.parseErrorf([]Token{curr}, "Invalid syntax:")
		}
		return p.parseExpr(&curr)
	}

	switch curr.Kind {

	case KindEOF:
		if prev.Kind.isOpener() {
			return nil, nil, p.lexer.parseErrorf([]Token{*prev}, "Unterminated %q", prev.Text)
		}
		if prev.Kind == KindIdentifier {
			// A dangling identifier assigns nothing.
			return nil, nil, p.lexer.parseErrorf([]Token{*prev}, "Invalid syntax:")
		}
		return nil, &curr, nil

	case KindSpace, KindComment:
		return p.parseExpr(prev)

	case KindNewline:
		if prev.Kind == KindAssign {
			// Value position: the caller turns this into an empty assignment.
			return nil, &curr, nil
		}
		return p.parseExpr(prev)

	case KindComma:
		if prev.Kind == KindAssign || prev.Kind == KindLBracket {
			// Handed back to the caller: after '=' it marks an empty
			// assignment, in a list it separates elements so the next one
			// parses with the list context.
			return nil, &curr, nil
		}
		// Inside a block the comma carries context between assignments
		// and produces nothing.
		return p.parseExpr(&curr)

	case KindIdentifier:
		switch prev.Kind {
		case KindLBracket:
			// Consecutive identifiers are valid inside lists, as literal names.
			return &Name{token: curr, ID: curr.Text}, nil, nil
		case KindIdentifier:
			return nil, nil, p.lexer.parseErrorf([]Token{curr}, "Unexpected identifier: %q", curr.Text)
		case KindAssign:
			return nil, nil, p.lexer.parseErrorf([]Token{*prev, curr}, "Invalid assignment (cannot assign an identifier):")
		}
		return p.parseExpr(&curr)

	case KindAssign:
		if prev.Kind != KindIdentifier {
			return nil, nil, p.lexer.parseErrorf([]Token{*prev, curr}, "Invalid syntax:")
		}
		target := &Name{token: *prev, ID: prev.Text}

		val, tok, err := p.parseExpr(&curr)
		if err != nil {
			return nil, nil, err
		}
		if tok != nil {
			switch tok.Kind {
			case KindNewline, KindComma, KindEOF:
				val = &Constant{token: *tok, Value: nil}
			default:
				return nil, nil, p.lexer.parseErrorf([]Token{*prev, curr, *tok}, "Invalid syntax for assignment: %q", tok.Text)
			}
		}
		return newMapping(curr, []*Name{target}, []Node{val}), nil, nil

	case KindAttribute:
		if prev.Kind != KindIdentifier {
			return nil, nil, p.lexer.parseErrorf([]Token{curr}, "Unexpected token: %q", curr.Text)
		}
		base := &Name{token: *prev, ID: prev.Text}
		attr, tok, err := p.parseExpr(&curr)
		if err != nil {
			return nil, nil, err
		}
		if tok != nil || attr == nil {
			return nil, nil, p.lexer.parseErrorf([]Token{curr}, "Invalid syntax:")
		}
		return newMapping(curr, []*Name{base}, []Node{attr}), nil, nil

	case KindLBrace:
		block := newMapping(curr, nil, nil)
		for {
			assign, tok, err := p.parseExpr(&curr)
			if err != nil {
				return nil, nil, err
			}
			if tok != nil {
				if tok.Kind == KindRBrace {
					break
				}
				return nil, nil, p.lexer.parseErrorf([]Token{*tok}, "Unexpected token: %q", tok.Text)
			}
			m, ok := assign.(*Mapping)
			if !ok || len(m.Keys) == 0 {
				continue
			}
			// Assignments carry exactly one key and one value.
			block.mergePair(m.Keys[len(m.Keys)-1], m.Values[len(m.Values)-1])
		}
		if prev.Kind == KindIdentifier {
			// `name { ... }`: wrap the block as if assigning to name.
			return newMapping(curr, []*Name{{token: *prev, ID: prev.Text}}, []Node{block}), nil, nil
		}
		// `name = { ... }`: the block's entries are the value directly.
		return block, nil, nil

	case KindRBrace:
		if prev.Kind != KindLBrace && prev.Kind != KindComma {
			return nil, nil, p.lexer.parseErrorf([]Token{curr}, "Unexpected token: %q", curr.Text)
		}
		return nil, &curr, nil

	case KindLBracket:
		list := &List{token: curr}
		for {
			elem, tok, err := p.parseExpr(&curr)
			if err != nil {
				return nil, nil, err
			}
			if tok != nil {
				if tok.Kind == KindRBracket {
					break
				}
				if tok.Kind == KindComma {
					continue
				}
				return nil, nil, p.lexer.parseErrorf([]Token{*tok}, "Unexpected token: %q", tok.Text)
			}
			if elem != nil {
				list.Elems = append(list.Elems, elem)
			}
		}
		if prev.Kind == KindIdentifier {
			// `name [ ... ]` assigns the list to name, same as `name = [ ... ]`.
			return newMapping(curr, []*Name{{token: *prev, ID: prev.Text}}, []Node{list}), nil, nil
		}
		return list, nil, nil

	case KindRBracket:
		if prev.Kind != KindLBracket && prev.Kind != KindComma {
			return nil, nil, p.lexer.parseErrorf([]Token{curr}, "Unexpected token: %q", curr.Text)
		}
		return nil, &curr, nil

	case KindString:
		return &Constant{token: curr, Value: curr.Text}, nil, nil

	case KindInteger:
		i, err := strconv.ParseInt(curr.Text, 10, 64)
		if err != nil {
			return nil, nil, p.lexer.parseErrorf([]Token{curr}, "Invalid integer literal: %q", curr.Text)
		}
		return &Constant{token: curr, Value: i}, nil, nil

	case KindFloat:
		f, err := strconv.ParseFloat(strings.ReplaceAll(curr.Text, "_", ""), 64)
		if err != nil {
			return nil, nil, p.lexer.parseErrorf([]Token{curr}, "Invalid float literal: %q", curr.Text)
		}
		return &Constant{token: curr, Value: f}, nil, nil

	case KindTrue:
		return &Constant{token: curr, Value: true}, nil, nil

	case KindFalse:
		return &Constant{token: curr, Value: false}, nil, nil
	}

	return nil, &curr, nil
}

// isPunctuation reports whether the kind is bracket or comma punctuation,
// none of which may start an expression.
func isPunctuation(k Kind) bool {
	switch k {
	case KindComma, KindLParen, KindRParen, KindLBracket, KindRBracket, KindLBrace, KindRBrace:
		return true
	}
	return false
}

package conf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is the class sentinel for all language errors. Both LexError
// and ParseError unwrap to it, so callers can test for "the config text
// is malformed" without caring which stage rejected it.
var ErrSyntax = errors.New("syntax error")

// diag is the positional payload shared by LexError and ParseError.
type diag struct {
	File      string
	Line      int
	Col       int
	Msg       string
	Highlight string // offending source line plus caret line, pre-rendered
}

func (d diag) render() string {
	var sb strings.Builder
	if d.File != "" {
		fmt.Fprintf(&sb, "File %s, ", d.File)
	}
	fmt.Fprintf(&sb, "line %d, column %d: %s", d.Line, d.Col, d.Msg)
	if d.Highlight != "" {
		sb.WriteString("\n")
		sb.WriteString(d.Highlight)
	}
	return sb.String()
}

// LexError reports an unknown token or an unterminated quoted string.
type LexError struct {
	diag
}

func (e *LexError) Error() string { return e.render() }

func (e *LexError) Unwrap() error { return ErrSyntax }

// ParseError reports a structurally invalid token sequence.
type ParseError struct {
	diag
}

func (e *ParseError) Error() string { return e.render() }

func (e *ParseError) Unwrap() error { return ErrSyntax }

// highlight renders the source line of the first token with carets under
// the span covered by the given tokens. A single token underlines exactly
// its own text. For multiple tokens the lexer is reset and the source
// re-scanned from the start: the live token stream has already been
// consumed past the span, so the only way to recover every token between
// the first and last offending cursor offsets is a fresh pass. The caret
// run stops at the first newline.
func (l *Lexer) highlight(tokens ...Token) string {
	if len(tokens) == 0 {
		return ""
	}
	first := tokens[0]
	line := l.sourceLine(first.Line)

	// The reported line is shown with leading whitespace stripped, so the
	// caret offset shifts left by the same amount.
	stripped := strings.TrimLeft(line, " \t")
	offset := len(line) - len(stripped)
	pad := first.Col - offset - 1
	if pad < 0 {
		pad = 0
	}

	var carets strings.Builder
	carets.WriteString(strings.Repeat(" ", pad))

	if len(tokens) == 1 {
		carets.WriteString(strings.Repeat("^", max(first.span(), 1)))
	} else {
		start := tokens[0].Cursor
		end := tokens[len(tokens)-1].Cursor
		between := l.rescan(start, end)
		if len(between) == 0 {
			between = tokens
		}
		for _, t := range between {
			if t.Kind == KindNewline {
				break
			}
			carets.WriteString(strings.Repeat("^", t.span()))
		}
	}

	return strings.TrimRight(stripped, " \t\r") + "\n" + carets.String()
}

// rescan re-tokenizes the whole source and returns every token whose
// cursor lies in [start, end]. The caller's cursor state is restored
// afterwards so an in-flight parse is not disturbed; in practice errors
// are terminal and nothing resumes.
func (l *Lexer) rescan(start, end int) []Token {
	saved := *l
	defer func() { *l = saved }()

	l.reset()
	var between []Token
	for {
		tok, err := l.next()
		if err != nil || tok.Kind == KindEOF {
			break
		}
		if tok.Cursor >= start && tok.Cursor <= end {
			between = append(between, tok)
		}
	}
	return between
}

// lexErrorf builds a LexError located at the given token.
func (l *Lexer) lexErrorf(tok Token, format string, args ...any) error {
	return &LexError{diag{
		File:      l.file,
		Line:      tok.Line,
		Col:       tok.Col,
		Msg:       fmt.Sprintf(format, args...),
		Highlight: l.highlight(tok),
	}}
}

// parseErrorf builds a ParseError underlining every given token.
func (l *Lexer) parseErrorf(tokens []Token, format string, args ...any) error {
	first := Token{Line: 1, Col: 1}
	if len(tokens) > 0 {
		first = tokens[0]
	}
	return &ParseError{diag{
		File:      l.file,
		Line:      first.Line,
		Col:       first.Col,
		Msg:       fmt.Sprintf(format, args...),
		Highlight: l.highlight(tokens...),
	}}
}

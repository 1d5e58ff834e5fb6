package conf

import (
	"regexp"
	"strings"
)

// quoteMarks are the characters that may open a string literal.
const quoteMarks = "\"'`"

// A rule matches a token kind at the start of the remaining source.
// Rules are tried strictly in order and the first match wins; priority is
// rule order, not longest match, so `yesterday` lexes as TRUE("yes")
// followed by IDENTIFIER("terday").
type rule struct {
	kind  Kind
	match func(s string) (string, bool)
}

func regexpRule(kind Kind, expr string) rule {
	re := regexp.MustCompile(`\A(?:` + expr + `)`)
	return rule{kind, func(s string) (string, bool) {
		m := re.FindString(s)
		return m, m != ""
	}}
}

func charRule(kind Kind, c byte) rule {
	return rule{kind, func(s string) (string, bool) {
		if len(s) > 0 && s[0] == c {
			return s[:1], true
		}
		return "", false
	}}
}

var lexRules = []rule{
	{KindString, matchString},
	regexpRule(KindFloat, `\d*\.\d[\d_]*`),
	regexpRule(KindInteger, `\d+`),
	regexpRule(KindComment, `#[^\n]*`),
	regexpRule(KindNewline, `\n+`),
	regexpRule(KindSpace, `[ \t\r\f\v]+`),
	charRule(KindAssign, '='),
	charRule(KindAttribute, '.'),
	charRule(KindComma, ','),
	charRule(KindLParen, '('),
	charRule(KindRParen, ')'),
	charRule(KindLBracket, '['),
	charRule(KindRBracket, ']'),
	charRule(KindLBrace, '{'),
	charRule(KindRBrace, '}'),
	regexpRule(KindTrue, `(?i)true|yes`),
	regexpRule(KindFalse, `(?i)false|no`),
	regexpRule(KindIdentifier, `[a-zA-Z_]+`),
}

// matchString matches a quoted string literal: a triple or single quote
// marker, a non-greedy body that cannot cross a newline, then the same
// marker again. An unterminated opener is not a match; the error path in
// next reports it as an unmatched quote.
func matchString(s string) (string, bool) {
	if s == "" || !strings.ContainsRune(quoteMarks, rune(s[0])) {
		return "", false
	}
	q := s[0]
	marker := 1
	if len(s) >= 3 && s[1] == q && s[2] == q {
		marker = 3
	}
	seq := s[:marker]
	for i := marker; i+marker <= len(s); i++ {
		if s[i] == '\n' {
			return "", false
		}
		if s[i:i+marker] == seq {
			return s[:i+marker], true
		}
	}
	return "", false
}

// Lexer turns source text into tokens on demand. It is created per parse
// and is not safe for concurrent use.
type Lexer struct {
	src   string
	file  string
	lines []string

	cursor int // 0-based byte offset
	line   int // 1-based
	col    int // 1-based

	// buf is the one-slot replay buffer. String concatenation looks one
	// significant token ahead; when that token turns out not to be a
	// string it is parked here and returned by the next call.
	buf *Token
}

func newLexer(src, file string) *Lexer {
	return &Lexer{
		src:   src,
		file:  file,
		lines: strings.Split(src, "\n"),
		line:  1,
		col:   1,
	}
}

// reset rewinds the cursor to the start of the source so the token
// sequence can be replayed, which multi-token error highlighting needs.
func (l *Lexer) reset() {
	l.cursor = 0
	l.line = 1
	l.col = 1
	l.buf = nil
}

func (l *Lexer) sourceLine(n int) string {
	if n < 1 || n > len(l.lines) {
		return ""
	}
	return l.lines[n-1]
}

// next returns the next token. The sequence always ends in one EOF token;
// calling next past EOF keeps returning EOF.
func (l *Lexer) next() (Token, error) {
	if l.buf != nil {
		tok := *l.buf
		l.buf = nil
		return tok, nil
	}

	s := l.src[l.cursor:]
	if s == "" {
		return Token{Kind: KindEOF, Cursor: l.cursor, Line: l.line, Col: l.col}, nil
	}

	for _, r := range lexRules {
		raw, ok := r.match(s)
		if !ok {
			continue
		}

		tok := Token{
			Kind:   r.kind,
			Text:   raw,
			Raw:    raw,
			Cursor: l.cursor,
			Line:   l.line,
			Col:    l.col,
		}

		l.cursor += len(raw)
		l.col += len(raw)
		if r.kind == KindNewline {
			l.line += strings.Count(raw, "\n")
			l.col = 1
		}

		if r.kind == KindString {
			tok.Text = strings.Trim(raw, string(raw[0]))
			return l.concatStrings(tok)
		}
		return tok, nil
	}

	// Nothing matched: lexical error at the run of non-whitespace
	// characters under the cursor.
	bad := s
	if fields := strings.Fields(s); len(fields) > 0 {
		bad = fields[0]
	}
	tok := Token{Kind: KindUnknown, Text: bad, Raw: bad, Cursor: l.cursor, Line: l.line, Col: l.col}
	if strings.ContainsRune(quoteMarks, rune(bad[0])) {
		return tok, l.lexErrorf(tok, "Unmatched quote: %q", bad)
	}
	return tok, l.lexErrorf(tok, "Unexpected token: %q", bad)
}

// concatStrings implements string concatenation: look ahead past
// ignorable tokens and, if the next significant token is another string,
// append its text. The lookahead token has already concatenated its own
// neighbors, so chains of any length collapse into one token. A
// non-string lookahead goes into the replay buffer.
func (l *Lexer) concatStrings(tok Token) (Token, error) {
	for {
		ahead, err := l.next()
		if err != nil {
			return ahead, err
		}
		switch ahead.Kind {
		case KindSpace, KindComment, KindNewline:
			continue
		case KindString:
			tok.Text += ahead.Text
			return tok, nil
		default:
			l.buf = &ahead
			return tok, nil
		}
	}
}

package conf

import (
	"errors"
	"strings"
	"testing"
)

// lexAll drains the lexer, returning every token up to and including EOF.
func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := newLexer(src, "")
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			t.Fatalf("next() error = %v", err)
		}
		tokens = append(tokens, tok)
		if tok.Kind == KindEOF {
			return tokens
		}
	}
}

// significant filters out space, comment and newline tokens.
func significant(tokens []Token) []Token {
	var out []Token
	for _, tok := range tokens {
		switch tok.Kind {
		case KindSpace, KindComment, KindNewline:
			continue
		}
		out = append(out, tok)
	}
	return out
}

func TestLexer_Next_TokenKinds(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []Kind
		texts []string
	}{
		{
			name:  "assignment",
			src:   "host = 1",
			kinds: []Kind{KindIdentifier, KindAssign, KindInteger, KindEOF},
			texts: []string{"host", "=", "1", ""},
		},
		{
			name:  "float and integer",
			src:   "3.14 42 .5",
			kinds: []Kind{KindFloat, KindInteger, KindFloat, KindEOF},
			texts: []string{"3.14", "42", ".5", ""},
		},
		{
			name:  "punctuation",
			src:   "[ ] { } ( ) , .",
			kinds: []Kind{KindLBracket, KindRBracket, KindLBrace, KindRBrace, KindLParen, KindRParen, KindComma, KindAttribute, KindEOF},
			texts: []string{"[", "]", "{", "}", "(", ")", ",", ".", ""},
		},
		{
			name:  "booleans",
			src:   "true yes FALSE No",
			kinds: []Kind{KindTrue, KindTrue, KindFalse, KindFalse, KindEOF},
			texts: []string{"true", "yes", "FALSE", "No", ""},
		},
		{
			name:  "string literals",
			src:   `"a" 'b' ` + "`c`",
			kinds: []Kind{KindString, KindEOF},
			texts: []string{"abc", ""}, // adjacent strings concatenate
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := significant(lexAll(t, tt.src))
			if len(got) != len(tt.kinds) {
				t.Fatalf("token count = %d, want %d (%v)", len(got), len(tt.kinds), got)
			}
			for i, tok := range got {
				if tok.Kind != tt.kinds[i] {
					t.Errorf("token %d kind = %v, want %v", i, tok.Kind, tt.kinds[i])
				}
				if tok.Text != tt.texts[i] {
					t.Errorf("token %d text = %q, want %q", i, tok.Text, tt.texts[i])
				}
			}
		})
	}
}

func TestLexer_Next_BooleanPriority(t *testing.T) {
	// Boolean rules run before the identifier rule, so a word that merely
	// starts with a boolean spelling splits in two.
	tokens := significant(lexAll(t, "yesterday"))
	if len(tokens) != 3 {
		t.Fatalf("token count = %d, want 3", len(tokens))
	}
	if tokens[0].Kind != KindTrue || tokens[0].Text != "yes" {
		t.Errorf("tokens[0] = %v %q, want TRUE \"yes\"", tokens[0].Kind, tokens[0].Text)
	}
	if tokens[1].Kind != KindIdentifier || tokens[1].Text != "terday" {
		t.Errorf("tokens[1] = %v %q, want IDENTIFIER \"terday\"", tokens[1].Kind, tokens[1].Text)
	}

	tokens = significant(lexAll(t, "notify"))
	if tokens[0].Kind != KindFalse || tokens[0].Text != "no" {
		t.Errorf("tokens[0] = %v %q, want FALSE \"no\"", tokens[0].Kind, tokens[0].Text)
	}
}

func TestLexer_Next_StringConcatenation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"adjacent", `"foo" "bar"`, "foobar"},
		{"mixed quotes", `"foo" 'bar' ` + "`baz`", "foobarbaz"},
		{"across newline", "\"foo\"\n\"bar\"", "foobar"},
		{"across comment", "\"foo\" # glue\n\"bar\"", "foobar"},
		{"triple quoted", `"""a"b"""`, `a"b`},
		{"empty", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := significant(lexAll(t, tt.src))
			if tokens[0].Kind != KindString {
				t.Fatalf("tokens[0].Kind = %v, want STRING", tokens[0].Kind)
			}
			if tokens[0].Text != tt.want {
				t.Errorf("tokens[0].Text = %q, want %q", tokens[0].Text, tt.want)
			}
			if tokens[1].Kind != KindEOF {
				t.Errorf("tokens[1].Kind = %v, want EOF", tokens[1].Kind)
			}
		})
	}
}

func TestLexer_Next_ReplayBuffer(t *testing.T) {
	// Concatenation looks one token past a string; a non-string lookahead
	// must come back on the following call, not be swallowed.
	tokens := significant(lexAll(t, `"foo" 42`))
	if len(tokens) != 3 {
		t.Fatalf("token count = %d, want 3", len(tokens))
	}
	if tokens[0].Kind != KindString || tokens[0].Text != "foo" {
		t.Errorf("tokens[0] = %v %q", tokens[0].Kind, tokens[0].Text)
	}
	if tokens[1].Kind != KindInteger || tokens[1].Text != "42" {
		t.Errorf("tokens[1] = %v %q, want INTEGER \"42\"", tokens[1].Kind, tokens[1].Text)
	}
}

func TestLexer_Next_Positions(t *testing.T) {
	tokens := significant(lexAll(t, "a = 1\nbb = 2"))
	// a(1,1) =(1,3) 1(1,5) bb(2,1) =(2,4) 2(2,6)
	want := []struct{ line, col int }{
		{1, 1}, {1, 3}, {1, 5}, {2, 1}, {2, 4}, {2, 6},
	}
	for i, w := range want {
		if tokens[i].Line != w.line || tokens[i].Col != w.col {
			t.Errorf("token %d at %d:%d, want %d:%d", i, tokens[i].Line, tokens[i].Col, w.line, w.col)
		}
	}
}

func TestLexer_Next_UnmatchedQuote(t *testing.T) {
	l := newLexer(`name = "unfinished`, "")
	var err error
	for err == nil {
		var tok Token
		tok, err = l.next()
		if tok.Kind == KindEOF {
			t.Fatal("reached EOF without a lex error")
		}
	}
	if !strings.Contains(err.Error(), "Unmatched quote:") {
		t.Errorf("error = %q, want it to contain %q", err, "Unmatched quote:")
	}
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("errors.Is(err, ErrSyntax) = false, want true")
	}
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("error type = %T, want *LexError", err)
	}
}

func TestLexer_Next_UnexpectedToken(t *testing.T) {
	l := newLexer("a = @bad", "")
	var err error
	for err == nil {
		var tok Token
		tok, err = l.next()
		if tok.Kind == KindEOF {
			t.Fatal("reached EOF without a lex error")
		}
	}
	if !strings.Contains(err.Error(), `Unexpected token: "@bad"`) {
		t.Errorf("error = %q, want it to contain %q", err, `Unexpected token: "@bad"`)
	}
}

func TestLexer_Next_PastEOF(t *testing.T) {
	l := newLexer("", "")
	for i := 0; i < 3; i++ {
		tok, err := l.next()
		if err != nil {
			t.Fatalf("next() error = %v", err)
		}
		if tok.Kind != KindEOF {
			t.Fatalf("call %d kind = %v, want EOF", i, tok.Kind)
		}
	}
}

func TestMatchString(t *testing.T) {
	tests := []struct {
		src  string
		want string
		ok   bool
	}{
		{`"abc" rest`, `"abc"`, true},
		{`'abc'`, `'abc'`, true},
		{"`abc`", "`abc`", true},
		{`"""a"b""" rest`, `"""a"b"""`, true},
		{`"unfinished`, "", false},
		{"\"no\nnewlines\"", "", false},
		{`plain`, "", false},
	}

	for _, tt := range tests {
		got, ok := matchString(tt.src)
		if got != tt.want || ok != tt.ok {
			t.Errorf("matchString(%q) = %q, %v; want %q, %v", tt.src, got, ok, tt.want, tt.ok)
		}
	}
}

package conf

// Kind classifies a lexical unit. The set is closed: the lexer produces
// no kinds beyond the ones below.
type Kind int

const (
	// Literals
	KindString Kind = iota
	KindFloat
	KindInteger
	KindTrue
	KindFalse

	// Symbols
	KindIdentifier

	// Operators
	KindAssign    // =
	KindAttribute // .

	// Punctuation
	KindComma
	KindLParen
	KindRParen
	KindLBracket
	KindRBracket
	KindLBrace
	KindRBrace

	// Ignorable
	KindComment
	KindSpace

	// Structural
	KindNewline
	KindEOF
	KindUnknown
)

// String returns the kind name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "STRING"
	case KindFloat:
		return "FLOAT"
	case KindInteger:
		return "INTEGER"
	case KindTrue:
		return "TRUE"
	case KindFalse:
		return "FALSE"
	case KindIdentifier:
		return "IDENTIFIER"
	case KindAssign:
		return "ASSIGN"
	case KindAttribute:
		return "ATTRIBUTE"
	case KindComma:
		return "COMMA"
	case KindLParen:
		return "L_PAREN"
	case KindRParen:
		return "R_PAREN"
	case KindLBracket:
		return "L_BRACKET"
	case KindRBracket:
		return "R_BRACKET"
	case KindLBrace:
		return "L_CURLY_BRACE"
	case KindRBrace:
		return "R_CURLY_BRACE"
	case KindComment:
		return "COMMENT"
	case KindSpace:
		return "SPACE"
	case KindNewline:
		return "NEWLINE"
	case KindEOF:
		return "EOF"
	case KindUnknown:
		return "UNKNOWN"
	default:
		return "INVALID"
	}
}

// isOpener reports whether the kind opens a bracketed construct.
func (k Kind) isOpener() bool {
	return k == KindLParen || k == KindLBracket || k == KindLBrace
}

// Token is one classified lexical unit with its source position.
// Text holds the cooked value (quotes stripped, neighbors concatenated
// for strings); Raw holds the exact source match.
type Token struct {
	Kind   Kind
	Text   string
	Raw    string
	Cursor int // 0-based byte offset of the first matched byte
	Line   int // 1-based
	Col    int // 1-based
}

// span returns the width of the token's highlight in the source line.
// Strings highlight their raw match so the quote marks are included.
func (t Token) span() int {
	if t.Kind == KindString {
		return len(t.Raw)
	}
	return len(t.Text)
}

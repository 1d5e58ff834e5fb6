// Package conf implements the zline configuration language: a small
// declarative format of assignments, lists, and nested key/value blocks
// with a dotted-assignment shorthand.
//
// The package turns source text into an insertion-ordered generic mapping
// (ParseText, ParseFile) and turns such a mapping back into canonical
// configuration text (Serialize). The language has no variables,
// arithmetic, or control flow; only literal values, lists, and blocks.
//
// Lexical and syntax errors carry the offending source line with a caret
// underline and unwrap to ErrSyntax, so callers can distinguish language
// errors from I/O failures with errors.Is.
package conf

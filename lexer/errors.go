// ----------------------------------------------------------------------------
// FILE: lexer/errors.go
// PURPOSE: LexerError taxonomy (spec.md §7) — the scanning-stage counterpart to
//          semantic.Error/interp.RuntimeError/ir.Error, carrying line/column like the rest.
// ----------------------------------------------------------------------------
package lexer

import "fmt"

// Error reports a scanning failure (unterminated string, unterminated comment) with the
// position it started at.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

func unexpectedCharMessage(ch rune) string {
	return fmt.Sprintf("unexpected character %q", ch)
}

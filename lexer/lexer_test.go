// ----------------------------------------------------------------------------
// FILE: lexer/lexer_test.go
// PURPOSE: Validates that the Lexer correctly classifies every token kind
//          and keeps returning EOF on every call once the input is exhausted.
// ----------------------------------------------------------------------------
package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chif/token"
)

func TestNextToken_Symbols(t *testing.T) {
	input := `var x: int = 10;
x = x + 1 - 2 * 3 / 4 % 5;
if x == 10 && x != 20 || x <= 5 >= 1 { } else { }
&x *x !true`

	expected := []struct {
		typ     token.TokenType
		literal string
	}{
		{token.VAR, "var"}, {token.IDENT, "x"}, {token.COLON, ":"}, {token.TYPE_INT, "int"},
		{token.ASSIGN, "="}, {token.INT, "10"}, {token.SEMI, ";"},
		{token.IDENT, "x"}, {token.ASSIGN, "="}, {token.IDENT, "x"}, {token.PLUS, "+"}, {token.INT, "1"},
		{token.MINUS, "-"}, {token.INT, "2"}, {token.STAR, "*"}, {token.INT, "3"}, {token.SLASH, "/"},
		{token.INT, "4"}, {token.PERCENT, "%"}, {token.INT, "5"}, {token.SEMI, ";"},
		{token.IF, "if"}, {token.IDENT, "x"}, {token.EQ, "=="}, {token.INT, "10"}, {token.AND, "&&"},
		{token.IDENT, "x"}, {token.NOT_EQ, "!="}, {token.INT, "20"}, {token.OR, "||"},
		{token.IDENT, "x"}, {token.LT_EQ, "<="}, {token.INT, "5"}, {token.GT_EQ, ">="}, {token.INT, "1"},
		{token.LBRACE, "{"}, {token.RBRACE, "}"}, {token.ELSE, "else"}, {token.LBRACE, "{"}, {token.RBRACE, "}"},
		{token.AMP, "&"}, {token.IDENT, "x"}, {token.STAR, "*"}, {token.IDENT, "x"}, {token.BANG, "!"}, {token.BOOL, "true"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, want := range expected {
		got := l.NextToken()
		assert.Equalf(t, want.typ, got.Type, "token %d type", i)
		assert.Equalf(t, want.literal, got.Literal, "token %d literal", i)
	}
}

func TestNextToken_StringEscapes(t *testing.T) {
	l := New(`"hello\nworld\t\"quoted\""`)
	tok := l.NextToken()
	assert.Equal(t, token.STRING, tok.Type)
	assert.Equal(t, "hello\nworld\t\"quoted\"", tok.Literal)
}

func TestNextToken_FloatAndLeadingDot(t *testing.T) {
	l := New(`3.14 .5 42`)
	tok := l.NextToken()
	assert.Equal(t, token.FLOAT, tok.Type)
	assert.Equal(t, "3.14", tok.Literal)
	tok = l.NextToken()
	assert.Equal(t, token.FLOAT, tok.Type)
	assert.Equal(t, ".5", tok.Literal)
	tok = l.NextToken()
	assert.Equal(t, token.INT, tok.Type)
	assert.Equal(t, "42", tok.Literal)
}

func TestNextToken_Comments(t *testing.T) {
	l := New("// skip me\nx /* multi\nline */ is_ok")
	tok := l.NextToken()
	assert.Equal(t, token.IDENT, tok.Type)
	assert.Equal(t, "x", tok.Literal)
	tok = l.NextToken()
	assert.Equal(t, "is_ok", tok.Literal)
}

func TestNextToken_UnterminatedComment(t *testing.T) {
	l := New("/* never closes")
	tok := l.NextToken()
	assert.Equal(t, token.ILLEGAL, tok.Type)
}

func TestNextToken_LineColumnTracking(t *testing.T) {
	l := New("a\nbb")
	first := l.NextToken()
	assert.Equal(t, 1, first.Line)
	second := l.NextToken()
	assert.Equal(t, 2, second.Line)
}

func TestNextToken_EOFRepeatsAfterEnd(t *testing.T) {
	l := New("x")
	_ = l.NextToken() // IDENT x
	for i := 0; i < 3; i++ {
		tok := l.NextToken()
		assert.Equal(t, token.EOF, tok.Type)
	}
}

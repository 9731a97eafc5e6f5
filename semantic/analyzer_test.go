// ----------------------------------------------------------------------------
// FILE: semantic/analyzer_test.go
// PURPOSE: Covers the Testable Properties of spec.md §8 that land squarely in semantic
//          analysis: scope hygiene, return coverage, loop context, numeric promotion, and
//          duplicate-main detection.
// ----------------------------------------------------------------------------
package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chif/ast"
	"chif/lexer"
	"chif/parser"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	require.Empty(t, p.Errors(), "parse errors: %v", p.Errors())
	return prog
}

func TestReturnCoverageFailsOnFallThrough(t *testing.T) {
	src := `fn f() int { if true { ret 1; } } chif main() {}`
	prog := parseProgram(t, src)
	_, err := Analyze(prog, ".")
	require.Error(t, err)
	semErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, InvalidOperation, semErr.Kind)
}

func TestReturnCoveragePassesOnMatchedIfElse(t *testing.T) {
	src := `fn f() int { if true { ret 1; } else { ret 2; } } chif main() {}`
	prog := parseProgram(t, src)
	_, err := Analyze(prog, ".")
	require.NoError(t, err)
}

func TestBreakOutsideLoopFails(t *testing.T) {
	src := `chif main() { break; }`
	prog := parseProgram(t, src)
	_, err := Analyze(prog, ".")
	require.Error(t, err)
	semErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, BreakOutsideLoop, semErr.Kind)
}

func TestContinueInsideWhileOK(t *testing.T) {
	src := `chif main() { while true { continue; } }`
	prog := parseProgram(t, src)
	_, err := Analyze(prog, ".")
	require.NoError(t, err)
}

func TestNumericPromotionOnMixedArithmetic(t *testing.T) {
	src := `chif main() { var x: float = 1 + 2.0; }`
	prog := parseProgram(t, src)
	ap, err := Analyze(prog, ".")
	require.NoError(t, err)

	main := ap.MainFunc
	decl := main.Body.Statements[0]
	vd := decl.(*ast.VarDeclStatement)
	typ, ok := ap.ResolvedType(vd.Value)
	require.True(t, ok)
	assert.Equal(t, FloatType{}, typ)
}

func TestDuplicateMainIsRejected(t *testing.T) {
	src := `chif main() {} chif main() {}`
	prog := parseProgram(t, src)
	_, err := Analyze(prog, ".")
	require.Error(t, err)
	semErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, DuplicateSymbol, semErr.Kind)
}

func TestUndefinedSymbolIsRejected(t *testing.T) {
	src := `chif main() { con.out(missing); }`
	prog := parseProgram(t, src)
	_, err := Analyze(prog, ".")
	require.Error(t, err)
	semErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, UndefinedSymbol, semErr.Kind)
}

func TestScopeHygieneInnerIfDoesNotLeak(t *testing.T) {
	src := `chif main() { if true { var x: int = 1; } con.out(x); }`
	prog := parseProgram(t, src)
	_, err := Analyze(prog, ".")
	require.Error(t, err)
	semErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, UndefinedSymbol, semErr.Kind)
}

func TestImmutableLetAssignmentIsRejected(t *testing.T) {
	src := `chif main() { let x: int = 1; x = 2; }`
	prog := parseProgram(t, src)
	_, err := Analyze(prog, ".")
	require.Error(t, err)
	semErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, InvalidOperation, semErr.Kind)
}

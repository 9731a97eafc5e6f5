// ----------------------------------------------------------------------------
// FILE: parser/parser_test.go
// PURPOSE: Validates item/statement/expression grammar, precedence climbing, and the
//          struct-literal-vs-block disambiguation.
// ----------------------------------------------------------------------------
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chif/ast"
	"chif/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	prog := p.ParseProgram()
	require.Empty(t, p.Errors(), "parser errors: %v", p.Errors())
	return prog
}

func TestParseMainFunction(t *testing.T) {
	prog := parseProgram(t, `chif main() { con.out("Hello"); }`)
	require.Len(t, prog.Items, 1)
	fn, ok := prog.Items[0].(*ast.Function)
	require.True(t, ok)
	assert.True(t, fn.IsMain)
	assert.Equal(t, "main", fn.Name)
	require.Len(t, fn.Body.Statements, 1)
}

func TestParseFunctionWithParamsAndReturnType(t *testing.T) {
	prog := parseProgram(t, `fn add(a: int, b: int) int { ret a + b; }`)
	fn := prog.Items[0].(*ast.Function)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	require.IsType(t, &ast.NamedType{}, fn.ReturnType)
	assert.Equal(t, "int", fn.ReturnType.(*ast.NamedType).Name)
}

func TestParseStructDefAndImpl(t *testing.T) {
	input := `
struct P { x: int, y: int, }
fn_for P { fn shift(self, dx: int, dy: int) { self.x = self.x + dx; } }
`
	prog := parseProgram(t, input)
	require.Len(t, prog.Items, 2)
	def := prog.Items[0].(*ast.StructDef)
	assert.Equal(t, "P", def.Name)
	require.Len(t, def.Fields, 2)

	impl := prog.Items[1].(*ast.StructImpl)
	assert.Equal(t, "P", impl.StructName)
	require.Len(t, impl.Methods, 1)
	assert.True(t, impl.Methods[0].Params[0].IsSelf)
}

func TestParsePrecedence_AdditiveMultiplicative(t *testing.T) {
	prog := parseProgram(t, `chif main() int { ret 1 + 2 * 3; }`)
	fn := prog.Items[0].(*ast.Function)
	ret := fn.Body.Statements[0].(*ast.ReturnStatement)
	assert.Equal(t, "(1 + (2 * 3))", ret.Value.String())
}

func TestParsePrecedence_LogicalOperators(t *testing.T) {
	prog := parseProgram(t, `chif main() { if a == b && c { } }`)
	fn := prog.Items[0].(*ast.Function)
	ifs := fn.Body.Statements[0].(*ast.IfStatement)
	assert.Equal(t, "((a == b) && c)", ifs.Condition.String())
}

func TestParsePrecedence_FieldBindsTighterThanUnary(t *testing.T) {
	prog := parseProgram(t, `chif main() { var z: int = -a.b; }`)
	fn := prog.Items[0].(*ast.Function)
	decl := fn.Body.Statements[0].(*ast.VarDeclStatement)
	assert.Equal(t, "(-a.b)", decl.Value.String())
}

func TestParseVarAndLetDeclarations(t *testing.T) {
	prog := parseProgram(t, `chif main() { var x: int = 1; let y = 2; }`)
	fn := prog.Items[0].(*ast.Function)
	require.Len(t, fn.Body.Statements, 2)
	varDecl := fn.Body.Statements[0].(*ast.VarDeclStatement)
	assert.True(t, varDecl.Mutable)
	letDecl := fn.Body.Statements[1].(*ast.VarDeclStatement)
	assert.False(t, letDecl.Mutable)
	assert.Nil(t, letDecl.Type)
}

func TestParseAssignmentStatement(t *testing.T) {
	prog := parseProgram(t, `chif main() { var x: int = 1; x = 2; }`)
	fn := prog.Items[0].(*ast.Function)
	assign := fn.Body.Statements[1].(*ast.AssignmentStatement)
	assert.Equal(t, "x", assign.Target.String())
	assert.Equal(t, "2", assign.Value.String())
}

func TestParseIfElseIfElse(t *testing.T) {
	prog := parseProgram(t, `chif main() { if a { } else if b { } else { } }`)
	fn := prog.Items[0].(*ast.Function)
	ifs := fn.Body.Statements[0].(*ast.IfStatement)
	require.NotNil(t, ifs.Alternative)
	require.Len(t, ifs.Alternative.Statements, 1)
	nested, ok := ifs.Alternative.Statements[0].(*ast.IfStatement)
	require.True(t, ok)
	require.NotNil(t, nested.Alternative)
}

func TestParseForLoop(t *testing.T) {
	prog := parseProgram(t, `chif main() { for (var i = 0; i < 10; i = i + 1) { con.out(i); } }`)
	fn := prog.Items[0].(*ast.Function)
	forStmt := fn.Body.Statements[0].(*ast.ForStatement)
	assert.Equal(t, "i", forStmt.Init.Name)
	assert.Equal(t, "(i < 10)", forStmt.Condition.String())
	require.Len(t, forStmt.Body.Statements, 1)
}

func TestParseWhileLoop(t *testing.T) {
	prog := parseProgram(t, `chif main() { while x < 10 { x = x + 1; } }`)
	fn := prog.Items[0].(*ast.Function)
	ws := fn.Body.Statements[0].(*ast.WhileStatement)
	assert.Equal(t, "(x < 10)", ws.Condition.String())
}

func TestParseSwitchStatement(t *testing.T) {
	prog := parseProgram(t, `chif main() { switch x { case 1 { con.out(1); } case 2 { con.out(2); } default { con.out(0); } } }`)
	fn := prog.Items[0].(*ast.Function)
	sw := fn.Body.Statements[0].(*ast.SwitchStatement)
	require.Len(t, sw.Cases, 2)
	require.NotNil(t, sw.Default)
}

func TestParseBreakContinue(t *testing.T) {
	prog := parseProgram(t, `chif main() { while true { break; continue; } }`)
	fn := prog.Items[0].(*ast.Function)
	ws := fn.Body.Statements[0].(*ast.WhileStatement)
	require.Len(t, ws.Body.Statements, 2)
	assert.IsType(t, &ast.BreakStatement{}, ws.Body.Statements[0])
	assert.IsType(t, &ast.ContinueStatement{}, ws.Body.Statements[1])
}

func TestParseStructLiteralVsBlockAmbiguity(t *testing.T) {
	prog := parseProgram(t, `chif main() { var p: P = P{x = 1, y = 2}; if p { } }`)
	fn := prog.Items[0].(*ast.Function)
	decl := fn.Body.Statements[0].(*ast.VarDeclStatement)
	lit, ok := decl.Value.(*ast.StructLiteral)
	require.True(t, ok)
	assert.Equal(t, "P", lit.Name)
	require.Len(t, lit.Fields, 2)

	ifs := fn.Body.Statements[1].(*ast.IfStatement)
	_, isStructLit := ifs.Condition.(*ast.StructLiteral)
	assert.False(t, isStructLit, "condition identifier followed by block must not parse as a struct literal")
}

func TestParseMethodCallVsFieldAccess(t *testing.T) {
	prog := parseProgram(t, `chif main() { con.out(p.x); l.add(4); }`)
	fn := prog.Items[0].(*ast.Function)

	first := fn.Body.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.MethodCallExpression)
	assert.Equal(t, "con", first.Receiver.String())
	assert.Equal(t, "out", first.Method)
	_, isField := first.Arguments[0].(*ast.FieldAccessExpression)
	assert.True(t, isField)

	second := fn.Body.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.MethodCallExpression)
	assert.Equal(t, "add", second.Method)
}

func TestParseImportWithAlias(t *testing.T) {
	prog := parseProgram(t, `import "foo" as f;`)
	imp := prog.Items[0].(*ast.Import)
	assert.Equal(t, "foo", imp.Path)
	assert.Equal(t, "f", imp.Alias)
}

func TestParsePointerTypesAndExpressions(t *testing.T) {
	prog := parseProgram(t, `fn inc(x: pointer[int]) { *x = *x + 1; } chif main() { var v: int = 10; inc(&v); }`)
	fn := prog.Items[0].(*ast.Function)
	ptrType := fn.Params[0].Type.(*ast.PointerType)
	assert.Equal(t, "int", ptrType.Target.(*ast.NamedType).Name)

	assign := fn.Body.Statements[0].(*ast.AssignmentStatement)
	_, isDeref := assign.Target.(*ast.DereferenceExpression)
	assert.True(t, isDeref)

	main := prog.Items[1].(*ast.Function)
	call := main.Body.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	_, isAddr := call.Arguments[0].(*ast.AddressOfExpression)
	assert.True(t, isAddr)
}

func TestParseArrayListMapTypes(t *testing.T) {
	prog := parseProgram(t, `chif main() { var a: array[int][4] = [1,2,3,4]; var l: list[int] = [1]; var m: map[str : int] = {"a": 1}; }`)
	fn := prog.Items[0].(*ast.Function)

	arrDecl := fn.Body.Statements[0].(*ast.VarDeclStatement)
	arrType := arrDecl.Type.(*ast.ArrayType)
	assert.Equal(t, []int{4}, arrType.Sizes)

	listDecl := fn.Body.Statements[1].(*ast.VarDeclStatement)
	_, isListType := listDecl.Type.(*ast.ListType)
	assert.True(t, isListType)

	mapDecl := fn.Body.Statements[2].(*ast.VarDeclStatement)
	mapType := mapDecl.Type.(*ast.MapType)
	assert.Equal(t, "str", mapType.Key.(*ast.NamedType).Name)
}

func TestParseLegacyArrayAndListTypes(t *testing.T) {
	prog := parseProgram(t, `chif main() { var a: array int[4] = [1,2,3,4]; var l: list int[] = [1]; }`)
	fn := prog.Items[0].(*ast.Function)
	arrDecl := fn.Body.Statements[0].(*ast.VarDeclStatement)
	arrType := arrDecl.Type.(*ast.ArrayType)
	assert.Equal(t, []int{4}, arrType.Sizes)
	assert.Equal(t, "int", arrType.Element.(*ast.NamedType).Name)

	listDecl := fn.Body.Statements[1].(*ast.VarDeclStatement)
	listType := listDecl.Type.(*ast.ListType)
	assert.Equal(t, 1, listType.Dims)
}

func TestParserReportsErrorOnBadSyntax(t *testing.T) {
	l := lexer.New(`chif main( { }`)
	p := New(l)
	p.ParseProgram()
	assert.NotEmpty(t, p.Errors())
}

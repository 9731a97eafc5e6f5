// ----------------------------------------------------------------------------
// FILE: ast/ast_test.go
// PURPOSE: Confirms each node's String() reconstructs readable source text.
// ----------------------------------------------------------------------------
package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chif/token"
)

func TestProgramString(t *testing.T) {
	prog := &Program{
		Items: []Item{
			&Import{Token: token.Token{Literal: "import"}, Path: "math"},
		},
	}
	assert.Equal(t, "import \"math\";\n", prog.String())
	assert.Equal(t, "import", prog.TokenLiteral())
}

func TestImportString(t *testing.T) {
	i := &Import{Token: token.Token{Literal: "import"}, Path: "net/http"}
	assert.Equal(t, `import "net/http";`, i.String())

	aliased := &Import{Token: token.Token{Literal: "import"}, Path: "net/http", Alias: "h"}
	assert.Equal(t, `import "net/http" as h;`, aliased.String())
}

func TestFunctionString(t *testing.T) {
	fn := &Function{
		Token: token.Token{Literal: "fn"},
		Name:  "add",
		Params: []*Parameter{
			{Name: "a", Type: &NamedType{Name: "int"}},
			{Name: "b", Type: &NamedType{Name: "int"}},
		},
		ReturnType: &NamedType{Name: "int"},
		Body: &BlockStatement{
			Token: token.Token{Literal: "{"},
			Statements: []Statement{
				&ReturnStatement{
					Token: token.Token{Literal: "ret"},
					Value: &InfixExpression{
						Token:    token.Token{Literal: "+"},
						Left:     &Identifier{Value: "a"},
						Operator: "+",
						Right:    &Identifier{Value: "b"},
					},
				},
			},
		},
	}
	assert.Equal(t, "fn add(a: int, b: int) int {\nret (a + b);\n}", fn.String())
}

func TestMainFunctionString(t *testing.T) {
	fn := &Function{
		Token:  token.Token{Literal: "chif"},
		Name:   "main",
		IsMain: true,
		Body:   &BlockStatement{Token: token.Token{Literal: "{"}},
	}
	assert.Equal(t, "chif main() {\n}", fn.String())
}

func TestStructDefString(t *testing.T) {
	s := &StructDef{
		Token: token.Token{Literal: "struct"},
		Name:  "Point",
		Fields: []*StructField{
			{Name: "x", Type: &NamedType{Name: "int"}},
			{Name: "y", Type: &NamedType{Name: "int"}},
		},
	}
	assert.Equal(t, "struct Point { x: int, y: int, }", s.String())
}

func TestAssignmentAndVarDeclString(t *testing.T) {
	decl := &VarDeclStatement{
		Token:   token.Token{Literal: "var"},
		Name:    "x",
		Type:    &NamedType{Name: "int"},
		Value:   &IntegerLiteral{Token: token.Token{Literal: "10"}, Value: 10},
		Mutable: true,
	}
	assert.Equal(t, "var x: int = 10;", decl.String())

	letDecl := &VarDeclStatement{
		Token: token.Token{Literal: "let"},
		Name:  "y",
		Value: &IntegerLiteral{Token: token.Token{Literal: "5"}, Value: 5},
	}
	assert.Equal(t, "let y = 5;", letDecl.String())

	assign := &AssignmentStatement{
		Token:  token.Token{Literal: "="},
		Target: &Identifier{Value: "x"},
		Value:  &IntegerLiteral{Token: token.Token{Literal: "11"}, Value: 11},
	}
	assert.Equal(t, "x = 11;", assign.String())
}

func TestIfStatementString(t *testing.T) {
	ifs := &IfStatement{
		Token:     token.Token{Literal: "if"},
		Condition: &BooleanLiteral{Token: token.Token{Literal: "true"}, Value: true},
		Consequence: &BlockStatement{
			Token: token.Token{Literal: "{"},
		},
	}
	assert.Equal(t, "if true {\n}", ifs.String())
}

func TestForAndWhileString(t *testing.T) {
	forStmt := &ForStatement{
		Token: token.Token{Literal: "for"},
		Init: &VarDeclStatement{
			Token: token.Token{Literal: "var"}, Name: "i", Mutable: true,
			Value: &IntegerLiteral{Token: token.Token{Literal: "0"}, Value: 0},
		},
		Condition: &InfixExpression{
			Token: token.Token{Literal: "<"}, Left: &Identifier{Value: "i"},
			Operator: "<", Right: &IntegerLiteral{Token: token.Token{Literal: "10"}, Value: 10},
		},
		Update: &AssignmentStatement{
			Token: token.Token{Literal: "="}, Target: &Identifier{Value: "i"},
			Value: &InfixExpression{
				Token: token.Token{Literal: "+"}, Left: &Identifier{Value: "i"},
				Operator: "+", Right: &IntegerLiteral{Token: token.Token{Literal: "1"}, Value: 1},
			},
		},
		Body: &BlockStatement{Token: token.Token{Literal: "{"}},
	}
	assert.Contains(t, forStmt.String(), "for (var i = 0;")

	whileStmt := &WhileStatement{
		Token:     token.Token{Literal: "while"},
		Condition: &BooleanLiteral{Token: token.Token{Literal: "true"}, Value: true},
		Body:      &BlockStatement{Token: token.Token{Literal: "{"}},
	}
	assert.Equal(t, "while true {\n}", whileStmt.String())
}

func TestSwitchStatementString(t *testing.T) {
	sw := &SwitchStatement{
		Token:     token.Token{Literal: "switch"},
		Scrutinee: &Identifier{Value: "x"},
		Cases: []*SwitchCase{
			{Value: &IntegerLiteral{Token: token.Token{Literal: "1"}, Value: 1}, Body: &BlockStatement{Token: token.Token{Literal: "{"}}},
		},
		Default: &BlockStatement{Token: token.Token{Literal: "{"}},
	}
	out := sw.String()
	assert.Contains(t, out, "case 1 {")
	assert.Contains(t, out, "default {")
}

func TestBreakContinueReturnString(t *testing.T) {
	assert.Equal(t, "break;", (&BreakStatement{Token: token.Token{Literal: "break"}}).String())
	assert.Equal(t, "continue;", (&ContinueStatement{Token: token.Token{Literal: "continue"}}).String())
	assert.Equal(t, "ret;", (&ReturnStatement{Token: token.Token{Literal: "ret"}}).String())
}

func TestExpressionStrings(t *testing.T) {
	call := &CallExpression{
		Token:    token.Token{Literal: "("},
		Function: &Identifier{Value: "add"},
		Arguments: []Expression{
			&IntegerLiteral{Token: token.Token{Literal: "1"}, Value: 1},
			&IntegerLiteral{Token: token.Token{Literal: "2"}, Value: 2},
		},
	}
	assert.Equal(t, "add(1, 2)", call.String())

	method := &MethodCallExpression{
		Token:    token.Token{Literal: "."},
		Receiver: &Identifier{Value: "list"},
		Method:   "add",
		Arguments: []Expression{
			&IntegerLiteral{Token: token.Token{Literal: "1"}, Value: 1},
		},
	}
	assert.Equal(t, "list.add(1)", method.String())

	idx := &IndexExpression{
		Token: token.Token{Literal: "["},
		Left:  &Identifier{Value: "arr"},
		Index: &IntegerLiteral{Token: token.Token{Literal: "0"}, Value: 0},
	}
	assert.Equal(t, "(arr[0])", idx.String())

	field := &FieldAccessExpression{
		Token:  token.Token{Literal: "."},
		Object: &Identifier{Value: "p"},
		Field:  "x",
	}
	assert.Equal(t, "p.x", field.String())

	arr := &ArrayLiteral{
		Token: token.Token{Literal: "["},
		Elements: []Expression{
			&IntegerLiteral{Token: token.Token{Literal: "1"}, Value: 1},
			&IntegerLiteral{Token: token.Token{Literal: "2"}, Value: 2},
		},
	}
	assert.Equal(t, "[1, 2]", arr.String())

	mp := &MapLiteral{
		Token: token.Token{Literal: "{"},
		Entries: []*MapEntry{
			{Key: &StringLiteral{Value: "a"}, Value: &IntegerLiteral{Token: token.Token{Literal: "1"}, Value: 1}},
		},
	}
	assert.Equal(t, `{"a": 1}`, mp.String())

	sl := &StructLiteral{
		Token: token.Token{Literal: "Point"},
		Name:  "Point",
		Fields: []*StructFieldInit{
			{Name: "x", Value: &IntegerLiteral{Token: token.Token{Literal: "1"}, Value: 1}},
		},
	}
	assert.Equal(t, "Point { x = 1 }", sl.String())

	addr := &AddressOfExpression{Token: token.Token{Literal: "&"}, Value: &Identifier{Value: "x"}}
	assert.Equal(t, "&x", addr.String())

	deref := &DereferenceExpression{Token: token.Token{Literal: "*"}, Value: &Identifier{Value: "x"}}
	assert.Equal(t, "*x", deref.String())

	prefix := &PrefixExpression{Token: token.Token{Literal: "-"}, Operator: "-", Right: &IntegerLiteral{Token: token.Token{Literal: "5"}, Value: 5}}
	assert.Equal(t, "(-5)", prefix.String())
}

func TestTypeExprStrings(t *testing.T) {
	arrT := &ArrayType{Element: &NamedType{Name: "int"}, Sizes: []int{4}}
	assert.Equal(t, "array[int][4]", arrT.String())

	listT := &ListType{Element: &NamedType{Name: "str"}, Dims: 1}
	assert.Equal(t, "list[str][]", listT.String())

	mapT := &MapType{Key: &NamedType{Name: "str"}, Value: &NamedType{Name: "int"}}
	assert.Equal(t, "map[str : int]", mapT.String())

	ptrT := &PointerType{Target: &NamedType{Name: "int"}}
	assert.Equal(t, "pointer[int]", ptrT.String())

	bareP := &PointerType{}
	assert.Equal(t, "pointer", bareP.String())
}

// ==============================================================================================
// FILE: ast/ast.go
// ==============================================================================================
// PACKAGE: ast
// PURPOSE: Defines the abstract syntax tree chif's Parser builds and every later stage
//          (Semantic Analyzer, Interpreter, IR Generator) walks. Every node category is a
//          closed tagged union expressed as a Go interface with one struct per variant —
//          there is no node type outside the set declared in this file.
// ==============================================================================================

package ast

import (
	"bytes"
	"fmt"
	"strings"

	"chif/token"
)

// Node is the root of every AST type. TokenLiteral reports the literal text of the token
// that introduced the node (useful for diagnostics); String reconstructs a readable,
// non-canonical rendering of the node's source.
type Node interface {
	TokenLiteral() string
	String() string
}

// Item is a top-level declaration: Import, Function, StructDef, or StructImpl.
type Item interface {
	Node
	itemNode()
}

// Statement is anything that can appear in a block body.
type Statement interface {
	Node
	statementNode()
}

// Expression is anything that evaluates to a value.
type Expression interface {
	Node
	expressionNode()
}

// TypeExpr is the syntactic (pre-resolution) spelling of a type annotation, e.g. the `T` in
// `var x: T = ...`. The Semantic Analyzer resolves these into semantic.Type values; this is
// deliberately a separate, simpler representation so the grammar does not have to know about
// symbol-table lookups.
type TypeExpr interface {
	Node
	typeExprNode()
}

// ================================================================================================
// PROGRAM
// ================================================================================================

// Program is the root of every parsed file: an ordered sequence of top-level items.
type Program struct {
	Items []Item
}

func (p *Program) TokenLiteral() string {
	if len(p.Items) > 0 {
		return p.Items[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, it := range p.Items {
		out.WriteString(it.String())
		out.WriteString("\n")
	}
	return out.String()
}

// ================================================================================================
// ITEMS
// ================================================================================================

// Import is `import "path" [as alias];`.
type Import struct {
	Token token.Token
	Path  string
	Alias string // empty when no "as" clause was given
}

func (i *Import) itemNode()           {}
func (i *Import) TokenLiteral() string { return i.Token.Literal }
func (i *Import) String() string {
	if i.Alias != "" {
		return fmt.Sprintf("import %q as %s;", i.Path, i.Alias)
	}
	return fmt.Sprintf("import %q;", i.Path)
}

// Parameter is one function/method parameter: `name: Type` or, for a method receiver, the
// sentinel `self` parameter (IsSelf true, Type left nil — the Semantic Analyzer substitutes
// the enclosing struct's type).
type Parameter struct {
	Name        string
	Type        TypeExpr
	IsReference bool
	IsSelf      bool
}

func (p *Parameter) String() string {
	if p.IsSelf {
		return "self"
	}
	prefix := ""
	if p.IsReference {
		prefix = "&"
	}
	return fmt.Sprintf("%s%s: %s", prefix, p.Name, p.Type.String())
}

// Function is a top-level `fn`/`chif` declaration.
type Function struct {
	Token      token.Token // the FN or CHIF token
	Name       string
	Params     []*Parameter
	ReturnType TypeExpr // nil when the function declares no return type
	Body       *BlockStatement
	IsMain     bool
}

func (f *Function) itemNode()            {}
func (f *Function) TokenLiteral() string { return f.Token.Literal }
func (f *Function) String() string {
	var out bytes.Buffer
	if f.IsMain {
		out.WriteString("chif ")
	} else {
		out.WriteString("fn ")
	}
	out.WriteString(f.Name)
	out.WriteString("(")
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(")")
	if f.ReturnType != nil {
		out.WriteString(" ")
		out.WriteString(f.ReturnType.String())
	}
	out.WriteString(" ")
	out.WriteString(f.Body.String())
	return out.String()
}

// StructField is one `name: Type` field in a struct definition.
type StructField struct {
	Name string
	Type TypeExpr
}

// StructDef is a `struct Name { field: Type, ... }` declaration.
type StructDef struct {
	Token  token.Token
	Name   string
	Fields []*StructField
}

func (s *StructDef) itemNode()            {}
func (s *StructDef) TokenLiteral() string { return s.Token.Literal }
func (s *StructDef) String() string {
	var out bytes.Buffer
	out.WriteString("struct ")
	out.WriteString(s.Name)
	out.WriteString(" { ")
	for _, f := range s.Fields {
		out.WriteString(f.Name)
		out.WriteString(": ")
		out.WriteString(f.Type.String())
		out.WriteString(", ")
	}
	out.WriteString("}")
	return out.String()
}

// StructImpl is a `fn_for Name { method... }` method-set block.
type StructImpl struct {
	Token      token.Token
	StructName string
	Methods    []*Function
}

func (s *StructImpl) itemNode()            {}
func (s *StructImpl) TokenLiteral() string { return s.Token.Literal }
func (s *StructImpl) String() string {
	var out bytes.Buffer
	out.WriteString("fn_for ")
	out.WriteString(s.StructName)
	out.WriteString(" {\n")
	for _, m := range s.Methods {
		out.WriteString("  ")
		out.WriteString(m.String())
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// ================================================================================================
// STATEMENTS
// ================================================================================================

// BlockStatement is a `{ ... }` sequence of statements.
type BlockStatement struct {
	Token      token.Token // the '{'
	Statements []Statement
}

func (b *BlockStatement) statementNode()       {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, s := range b.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// VarDeclStatement is `let`/`var` name `: Type` `= expr` `;`. Mutable reports whether the
// binding was introduced with `var` (true) or `let` (false, immutable — see DESIGN.md).
type VarDeclStatement struct {
	Token   token.Token
	Name    string
	Type    TypeExpr // nil when the declaration omits an explicit type
	Value   Expression
	Mutable bool
}

func (v *VarDeclStatement) statementNode()       {}
func (v *VarDeclStatement) TokenLiteral() string { return v.Token.Literal }
func (v *VarDeclStatement) String() string {
	kw := "let"
	if v.Mutable {
		kw = "var"
	}
	if v.Type != nil {
		return fmt.Sprintf("%s %s: %s = %s;", kw, v.Name, v.Type.String(), v.Value.String())
	}
	return fmt.Sprintf("%s %s = %s;", kw, v.Name, v.Value.String())
}

// AssignmentStatement is `target = value;`, where target is any l-value expression:
// identifier, index, field access, or a dereference.
type AssignmentStatement struct {
	Token  token.Token
	Target Expression
	Value  Expression
}

func (a *AssignmentStatement) statementNode()       {}
func (a *AssignmentStatement) TokenLiteral() string { return a.Token.Literal }
func (a *AssignmentStatement) String() string {
	return fmt.Sprintf("%s = %s;", a.Target.String(), a.Value.String())
}

// ExpressionStatement wraps a bare expression used as a statement (e.g. a call).
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (e *ExpressionStatement) statementNode()       {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStatement) String() string {
	if e.Expression == nil {
		return ";"
	}
	return e.Expression.String() + ";"
}

// IfStatement is `if cond { ... } else { ... }`; Alternative is nil when there is no else
// arm, and may itself be a single-statement block holding another IfStatement for `else if`
// chains (the parser desugars `else if` into a nested if inside a one-statement block).
type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement
}

func (i *IfStatement) statementNode()       {}
func (i *IfStatement) TokenLiteral() string { return i.Token.Literal }
func (i *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(i.Condition.String())
	out.WriteString(" ")
	out.WriteString(i.Consequence.String())
	if i.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(i.Alternative.String())
	}
	return out.String()
}

// ForStatement is the C-style `for (init; cond; update) { ... }` loop. Init is always a
// mutable integer variable declaration per spec.md §4.2.
type ForStatement struct {
	Token     token.Token
	Init      *VarDeclStatement
	Condition Expression
	Update    Statement
	Body      *BlockStatement
}

func (f *ForStatement) statementNode()       {}
func (f *ForStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForStatement) String() string {
	return fmt.Sprintf("for (%s %s; %s) %s", f.Init.String(), f.Condition.String(), f.Update.String(), f.Body.String())
}

// WhileStatement is `while cond { ... }`.
type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      *BlockStatement
}

func (w *WhileStatement) statementNode()       {}
func (w *WhileStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WhileStatement) String() string {
	return fmt.Sprintf("while %s %s", w.Condition.String(), w.Body.String())
}

// SwitchCase is one `case value { ... }` arm, or the `default { ... }` arm when Value is nil.
type SwitchCase struct {
	Value Expression
	Body  *BlockStatement
}

// SwitchStatement is `switch scrutinee { case v1 {...} case v2 {...} default {...} }`.
type SwitchStatement struct {
	Token     token.Token
	Scrutinee Expression
	Cases     []*SwitchCase
	Default   *BlockStatement // nil when no default case is present
}

func (s *SwitchStatement) statementNode()       {}
func (s *SwitchStatement) TokenLiteral() string { return s.Token.Literal }
func (s *SwitchStatement) String() string {
	var out bytes.Buffer
	out.WriteString("switch ")
	out.WriteString(s.Scrutinee.String())
	out.WriteString(" {\n")
	for _, c := range s.Cases {
		out.WriteString("case ")
		out.WriteString(c.Value.String())
		out.WriteString(" ")
		out.WriteString(c.Body.String())
		out.WriteString("\n")
	}
	if s.Default != nil {
		out.WriteString("default ")
		out.WriteString(s.Default.String())
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// ReturnStatement is `ret [expr];`. Value is nil for a bare `ret;`.
type ReturnStatement struct {
	Token token.Token
	Value Expression
}

func (r *ReturnStatement) statementNode()       {}
func (r *ReturnStatement) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnStatement) String() string {
	if r.Value == nil {
		return "ret;"
	}
	return fmt.Sprintf("ret %s;", r.Value.String())
}

// BreakStatement is `break;`, valid only inside a for/while body (spec.md §3 invariant,
// enforced by the Semantic Analyzer, not the parser).
type BreakStatement struct {
	Token token.Token
}

func (b *BreakStatement) statementNode()       {}
func (b *BreakStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BreakStatement) String() string       { return "break;" }

// ContinueStatement is `continue;`.
type ContinueStatement struct {
	Token token.Token
}

func (c *ContinueStatement) statementNode()       {}
func (c *ContinueStatement) TokenLiteral() string { return c.Token.Literal }
func (c *ContinueStatement) String() string       { return "continue;" }

// ================================================================================================
// EXPRESSIONS
// ================================================================================================

// Identifier is a bare name reference.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// IntegerLiteral is a 64-bit signed integer constant.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (i *IntegerLiteral) expressionNode()      {}
func (i *IntegerLiteral) TokenLiteral() string { return i.Token.Literal }
func (i *IntegerLiteral) String() string       { return i.Token.Literal }

// FloatLiteral is a 64-bit IEEE-754 constant.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (f *FloatLiteral) expressionNode()      {}
func (f *FloatLiteral) TokenLiteral() string { return f.Token.Literal }
func (f *FloatLiteral) String() string       { return f.Token.Literal }

// StringLiteral is a double-quoted string constant. Interpolation placeholders inside Value
// are resolved at evaluation time (interp package), not at parse time — the parser stores the
// raw (escape-processed) text verbatim.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) String() string       { return fmt.Sprintf("%q", s.Value) }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) String() string       { return b.Token.Literal }

// NilLiteral is the unit value `nil`.
type NilLiteral struct {
	Token token.Token
}

func (n *NilLiteral) expressionNode()      {}
func (n *NilLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NilLiteral) String() string       { return "nil" }

// PrefixExpression is a unary operator applied to a right operand: `-x`, `!x`.
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (p *PrefixExpression) expressionNode()      {}
func (p *PrefixExpression) TokenLiteral() string { return p.Token.Literal }
func (p *PrefixExpression) String() string {
	return fmt.Sprintf("(%s%s)", p.Operator, p.Right.String())
}

// InfixExpression is a left-associative binary operator: `left op right`.
type InfixExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (i *InfixExpression) expressionNode()      {}
func (i *InfixExpression) TokenLiteral() string { return i.Token.Literal }
func (i *InfixExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", i.Left.String(), i.Operator, i.Right.String())
}

// AddressOfExpression is `&expr`. When Value is a bare Identifier the Interpreter produces a
// Reference; for any other expression it produces a Pointer to a materialized temporary
// (spec.md §3/§4.4).
type AddressOfExpression struct {
	Token token.Token
	Value Expression
}

func (a *AddressOfExpression) expressionNode()      {}
func (a *AddressOfExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AddressOfExpression) String() string       { return "&" + a.Value.String() }

// DereferenceExpression is `*expr`.
type DereferenceExpression struct {
	Token token.Token
	Value Expression
}

func (d *DereferenceExpression) expressionNode()      {}
func (d *DereferenceExpression) TokenLiteral() string { return d.Token.Literal }
func (d *DereferenceExpression) String() string       { return "*" + d.Value.String() }

// CallExpression is `fn(args...)`.
type CallExpression struct {
	Token     token.Token
	Function  Expression
	Arguments []Expression
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) String() string {
	parts := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Function.String(), strings.Join(parts, ", "))
}

// MethodCallExpression is `receiver.method(args...)` — kept distinct from a plain
// CallExpression over a FieldAccessExpression so the Interpreter's mutating-method
// interception (spec.md §4.4) and the IR Generator's statically-typed dispatch
// (spec.md §9) both have a single, unambiguous node to pattern-match against.
type MethodCallExpression struct {
	Token     token.Token
	Receiver  Expression
	Method    string
	Arguments []Expression
}

func (m *MethodCallExpression) expressionNode()      {}
func (m *MethodCallExpression) TokenLiteral() string { return m.Token.Literal }
func (m *MethodCallExpression) String() string {
	parts := make([]string, len(m.Arguments))
	for i, a := range m.Arguments {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s.%s(%s)", m.Receiver.String(), m.Method, strings.Join(parts, ", "))
}

// IndexExpression is `left[index]`.
type IndexExpression struct {
	Token token.Token
	Left  Expression
	Index Expression
}

func (e *IndexExpression) expressionNode()      {}
func (e *IndexExpression) TokenLiteral() string { return e.Token.Literal }
func (e *IndexExpression) String() string {
	return fmt.Sprintf("(%s[%s])", e.Left.String(), e.Index.String())
}

// FieldAccessExpression is `object.field`.
type FieldAccessExpression struct {
	Token  token.Token
	Object Expression
	Field  string
}

func (f *FieldAccessExpression) expressionNode()      {}
func (f *FieldAccessExpression) TokenLiteral() string { return f.Token.Literal }
func (f *FieldAccessExpression) String() string {
	return fmt.Sprintf("%s.%s", f.Object.String(), f.Field)
}

// ArrayLiteral is `[e1, e2, ...]`, used for both array and list literals — the declared
// target type (from a VarDeclStatement's Type, or a Parameter's Type) disambiguates which
// container kind is actually constructed.
type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (a *ArrayLiteral) expressionNode()      {}
func (a *ArrayLiteral) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapEntry is one `key: value` pair in a map literal.
type MapEntry struct {
	Key   Expression
	Value Expression
}

// MapLiteral is `{k1: v1, k2: v2}`.
type MapLiteral struct {
	Token   token.Token
	Entries []*MapEntry
}

func (m *MapLiteral) expressionNode()      {}
func (m *MapLiteral) TokenLiteral() string { return m.Token.Literal }
func (m *MapLiteral) String() string {
	parts := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		parts[i] = fmt.Sprintf("%s: %s", e.Key.String(), e.Value.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// StructFieldInit is one `field = expr` initializer in a struct literal.
type StructFieldInit struct {
	Name  string
	Value Expression
}

// StructLiteral is `Name { field = expr, ... }`.
type StructLiteral struct {
	Token  token.Token
	Name   string
	Fields []*StructFieldInit
}

func (s *StructLiteral) expressionNode()      {}
func (s *StructLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StructLiteral) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = fmt.Sprintf("%s = %s", f.Name, f.Value.String())
	}
	return fmt.Sprintf("%s { %s }", s.Name, strings.Join(parts, ", "))
}

// ================================================================================================
// TYPE EXPRESSIONS
// ================================================================================================

// NamedType is a scalar or struct type spelled by a single identifier: int, float, str, bool,
// nil, or a struct name.
type NamedType struct {
	Name string
}

func (n *NamedType) typeExprNode()    {}
func (n *NamedType) TokenLiteral() string { return n.Name }
func (n *NamedType) String() string       { return n.Name }

// ArrayType is `array[T]` with any number of trailing `[n]` size suffixes, or the legacy
// `array T[n]...` spelling (spec.md §4.2 accepts both).
type ArrayType struct {
	Element TypeExpr
	Sizes   []int
}

func (a *ArrayType) typeExprNode()    {}
func (a *ArrayType) TokenLiteral() string { return "array" }
func (a *ArrayType) String() string {
	var out bytes.Buffer
	out.WriteString("array[")
	out.WriteString(a.Element.String())
	out.WriteString("]")
	for _, n := range a.Sizes {
		fmt.Fprintf(&out, "[%d]", n)
	}
	return out.String()
}

// ListType is `list[T]`, or the legacy `list T[]` spelling.
type ListType struct {
	Element TypeExpr
	Dims    int
}

func (l *ListType) typeExprNode()    {}
func (l *ListType) TokenLiteral() string { return "list" }
func (l *ListType) String() string {
	var out bytes.Buffer
	out.WriteString("list[")
	out.WriteString(l.Element.String())
	out.WriteString("]")
	for i := 0; i < l.Dims; i++ {
		out.WriteString("[]")
	}
	return out.String()
}

// MapType is `map[K : V]`.
type MapType struct {
	Key   TypeExpr
	Value TypeExpr
}

func (m *MapType) typeExprNode()    {}
func (m *MapType) TokenLiteral() string { return "map" }
func (m *MapType) String() string       { return fmt.Sprintf("map[%s : %s]", m.Key.String(), m.Value.String()) }

// PointerType is `pointer[T]` or the bare `pointer`.
type PointerType struct {
	Target TypeExpr // nil for the bare `pointer` spelling
}

func (p *PointerType) typeExprNode()    {}
func (p *PointerType) TokenLiteral() string { return "pointer" }
func (p *PointerType) String() string {
	if p.Target == nil {
		return "pointer"
	}
	return fmt.Sprintf("pointer[%s]", p.Target.String())
}

// ==============================================================================================
// FILE: parser/parser.go
// ==============================================================================================
// PACKAGE: parser
// PURPOSE: Implements a recursive-descent parser with Pratt parsing for expressions. It turns
//          a Lexer's token stream into an AST, establishing chif's operator precedence,
//          associativity, and item/statement/expression grammar.
// ==============================================================================================

package parser

import (
	"fmt"
	"strconv"

	"chif/ast"
	"chif/lexer"
	"chif/token"
)

// Precedence constants determine the order of operations in expressions. Higher values bind
// more tightly. Mirrors spec.md §4.2: postfix > unary > multiplicative > additive >
// comparison > equality > && > ||.
const (
	_ int = iota
	LOWEST
	LOGICAL_OR
	LOGICAL_AND
	EQUALITY
	COMPARISON
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POSTFIX
)

var precedences = map[token.TokenType]int{
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALITY,
	token.NOT_EQ:   EQUALITY,
	token.LT:       COMPARISON,
	token.GT:       COMPARISON,
	token.LT_EQ:    COMPARISON,
	token.GT_EQ:    COMPARISON,
	token.PLUS:     ADDITIVE,
	token.MINUS:    ADDITIVE,
	token.STAR:     MULTIPLICATIVE,
	token.SLASH:    MULTIPLICATIVE,
	token.PERCENT:  MULTIPLICATIVE,
	token.LPAREN:   POSTFIX,
	token.LBRACKET: POSTFIX,
	token.DOT:      POSTFIX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser holds the state of the parsing process.
type Parser struct {
	l         *lexer.Lexer
	curToken  token.Token
	peekToken token.Token
	errors    []string

	// allowStructLiteral gates the `Name { field = expr }` struct-literal grammar so that
	// `if cond { ... }`, `for (...)  { ... }`, `while cond { ... }`, and `switch s { ... }`
	// can use '{' to open a block without the identifier immediately before it being
	// mistaken for a struct literal — the same ambiguity Go's own parser resolves by
	// disabling composite literals inside if/for/switch headers.
	allowStructLiteral bool

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// New initializes a new Parser instance.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:                  l,
		errors:             []string{},
		allowStructLiteral: true,
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.BOOL, p.parseBooleanLiteral)
	p.registerPrefix(token.TYPE_NIL, p.parseNilLiteral)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.AMP, p.parseAddressOfExpression)
	p.registerPrefix(token.STAR, p.parseDereferenceExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseMapLiteral)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.STAR, p.parseInfixExpression)
	p.registerInfix(token.SLASH, p.parseInfixExpression)
	p.registerInfix(token.PERCENT, p.parseInfixExpression)
	p.registerInfix(token.EQ, p.parseInfixExpression)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.GT, p.parseInfixExpression)
	p.registerInfix(token.LT_EQ, p.parseInfixExpression)
	p.registerInfix(token.GT_EQ, p.parseInfixExpression)
	p.registerInfix(token.AND, p.parseInfixExpression)
	p.registerInfix(token.OR, p.parseInfixExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseDotExpression)

	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(t token.TokenType, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.TokenType, fn infixParseFn)   { p.infixParseFns[t] = fn }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

// expectPeek asserts that the next token has the given type. On success it advances the
// parser and returns true; on failure it records an error and returns false.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	msg := fmt.Sprintf("line %d:%d - expected next token to be %s, got %s (%q) instead",
		p.peekToken.Line, p.peekToken.Column, t, p.peekToken.Type, p.peekToken.Literal)
	p.errors = append(p.errors, msg)
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf("line %d:%d - %s", p.curToken.Line, p.curToken.Column, fmt.Sprintf(format, args...)))
}

// illegalTokenError surfaces an ILLEGAL token as the lexer.Error it came from, instead of
// letting it fall through to the generic "no prefix parse function" message.
func (p *Parser) illegalTokenError() {
	err := &lexer.Error{Line: p.curToken.Line, Column: p.curToken.Column, Message: p.curToken.Literal}
	p.errors = append(p.errors, err.Error())
}

// Errors returns every syntax error accumulated while parsing.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ==============================================================================================
// PROGRAM / ITEMS
// ==============================================================================================

// ParseProgram is the entry point: it consumes the full token stream and returns the root
// Program node, accumulating syntax errors along the way rather than stopping at the first.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.curTokenIs(token.EOF) {
		item := p.parseItem()
		if item != nil {
			program.Items = append(program.Items, item)
		}
		p.nextToken()
	}
	return program
}

func (p *Parser) parseItem() ast.Item {
	switch p.curToken.Type {
	case token.IMPORT:
		return p.parseImportItem()
	case token.CHIF:
		return p.parseFunction(true)
	case token.FN:
		return p.parseFunction(false)
	case token.STRUCT:
		return p.parseStructDef()
	case token.FN_FOR:
		return p.parseStructImpl()
	default:
		p.errorf("unexpected token %s at top level", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseImportItem() *ast.Import {
	tok := p.curToken
	if !p.expectPeek(token.STRING) {
		return nil
	}
	imp := &ast.Import{Token: tok, Path: p.curToken.Literal}
	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		imp.Alias = p.curToken.Literal
	}
	if p.peekTokenIs(token.SEMI) {
		p.nextToken()
	}
	return imp
}

// parseFunction parses both `fn name(...) T? { ... }` and `chif main(...) { ... }` — the
// latter is distinguished by isMain and requires the literal name "main".
func (p *Parser) parseFunction(isMain bool) *ast.Function {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fn := &ast.Function{Token: tok, Name: p.curToken.Literal, IsMain: isMain}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	fn.Params = p.parseParameterList()

	if !p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		fn.ReturnType = p.parseType()
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockStatement()
	if !p.curTokenIs(token.RBRACE) {
		p.peekError(token.RBRACE)
		return nil
	}
	return fn
}

func (p *Parser) parseParameterList() []*ast.Parameter {
	params := []*ast.Parameter{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, p.parseParameter())
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseParameter())
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

// parseParameter parses one `name: Type`, `&name: Type`, or the bare `self` sentinel.
func (p *Parser) parseParameter() *ast.Parameter {
	isRef := false
	if p.curTokenIs(token.AMP) {
		isRef = true
		p.nextToken()
	}
	if !isRef && p.curTokenIs(token.IDENT) && p.curToken.Literal == "self" {
		return &ast.Parameter{Name: "self", IsSelf: true}
	}
	name := p.curToken.Literal
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	typ := p.parseType()
	return &ast.Parameter{Name: name, Type: typ, IsReference: isRef}
}

func (p *Parser) parseStructDef() *ast.StructDef {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	def := &ast.StructDef{Token: tok, Name: p.curToken.Literal}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return def
	}
	p.nextToken()
	for {
		fname := p.curToken.Literal
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		ftype := p.parseType()
		def.Fields = append(def.Fields, &ast.StructField{Name: fname, Type: ftype})

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RBRACE) {
				p.nextToken()
				break
			}
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.RBRACE) {
			return nil
		}
		break
	}
	return def
}

func (p *Parser) parseStructImpl() *ast.StructImpl {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	impl := &ast.StructImpl{Token: tok, StructName: p.curToken.Literal}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if !p.curTokenIs(token.FN) {
			p.errorf("expected method declaration, got %s", p.curToken.Type)
			return nil
		}
		m := p.parseFunction(false)
		if m != nil {
			impl.Methods = append(impl.Methods, m)
		}
		p.nextToken()
	}
	return impl
}

// ==============================================================================================
// TYPE GRAMMAR
// ==============================================================================================

// parseType parses a type annotation, accepting both new-style (`array[T][n]`, `list[T]`,
// `map[K : V]`, `pointer[T]`) and legacy (`array T[n]...`, `list T[]...`) spellings.
func (p *Parser) parseType() ast.TypeExpr {
	switch p.curToken.Type {
	case token.TYPE_INT, token.TYPE_FLOAT, token.TYPE_STR, token.TYPE_BOOL, token.TYPE_NIL:
		return &ast.NamedType{Name: p.curToken.Literal}
	case token.IDENT:
		return &ast.NamedType{Name: p.curToken.Literal}
	case token.ARRAY:
		return p.parseArrayType()
	case token.LIST:
		return p.parseListType()
	case token.MAP:
		return p.parseMapType()
	case token.TYPE_POINTER:
		return p.parsePointerType()
	default:
		p.errorf("expected a type, got %s", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseArrayType() *ast.ArrayType {
	if p.peekTokenIs(token.LBRACKET) {
		// new-style: array[T][n][n]...
		p.nextToken()
		p.nextToken()
		elem := p.parseType()
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		at := &ast.ArrayType{Element: elem}
		for p.peekTokenIs(token.LBRACKET) {
			p.nextToken()
			if !p.expectPeek(token.INT) {
				return nil
			}
			n, _ := strconv.Atoi(p.curToken.Literal)
			at.Sizes = append(at.Sizes, n)
			if !p.expectPeek(token.RBRACKET) {
				return nil
			}
		}
		return at
	}
	// legacy: array T[n][n]...
	p.nextToken()
	elem := p.parseType()
	at := &ast.ArrayType{Element: elem}
	for p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		if !p.expectPeek(token.INT) {
			return nil
		}
		n, _ := strconv.Atoi(p.curToken.Literal)
		at.Sizes = append(at.Sizes, n)
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
	}
	return at
}

func (p *Parser) parseListType() *ast.ListType {
	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		p.nextToken()
		elem := p.parseType()
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		lt := &ast.ListType{Element: elem}
		for p.peekTokenIs(token.LBRACKET) {
			p.nextToken()
			if !p.expectPeek(token.RBRACKET) {
				return nil
			}
			lt.Dims++
		}
		return lt
	}
	// legacy: list T[]...
	p.nextToken()
	elem := p.parseType()
	lt := &ast.ListType{Element: elem}
	for p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		lt.Dims++
	}
	return lt
}

func (p *Parser) parseMapType() *ast.MapType {
	if !p.expectPeek(token.LBRACKET) {
		return nil
	}
	p.nextToken()
	key := p.parseType()
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	val := p.parseType()
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.MapType{Key: key, Value: val}
}

func (p *Parser) parsePointerType() *ast.PointerType {
	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		p.nextToken()
		target := p.parseType()
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return &ast.PointerType{Target: target}
	}
	return &ast.PointerType{}
}

// ==============================================================================================
// STATEMENTS
// ==============================================================================================

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.VAR:
		return p.parseVarDeclStatement(true)
	case token.LET:
		return p.parseVarDeclStatement(false)
	case token.LIST:
		// `list name: T = expr;` declares a mutable binding of type list[T].
		stmt := p.parseVarDeclStatement(true)
		if stmt != nil && stmt.Type != nil {
			stmt.Type = &ast.ListType{Element: stmt.Type}
		}
		return stmt
	case token.IF:
		return p.parseIfStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.RET:
		return p.parseReturnStatement()
	case token.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken}
		if p.peekTokenIs(token.SEMI) {
			p.nextToken()
		}
		return stmt
	case token.CONTIN:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		if p.peekTokenIs(token.SEMI) {
			p.nextToken()
		}
		return stmt
	default:
		return p.parseExpressionOrAssignmentStatement()
	}
}

// parseVarDeclStatement parses `let`/`var` name [: Type] = expr ;
func (p *Parser) parseVarDeclStatement(mutable bool) *ast.VarDeclStatement {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt := &ast.VarDeclStatement{Token: tok, Name: p.curToken.Literal, Mutable: mutable}

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.Type = p.parseType()
	}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.peekTokenIs(token.SEMI) {
		p.nextToken()
	}
	return stmt
}

// parseExpressionOrAssignmentStatement parses a bare expression statement, rewriting it as an
// assignment when the expression is immediately followed by '=' (spec.md §4.2).
func (p *Parser) parseExpressionOrAssignmentStatement() ast.Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if p.peekTokenIs(token.SEMI) {
			p.nextToken()
		}
		return &ast.AssignmentStatement{Token: tok, Target: expr, Value: value}
	}
	if p.peekTokenIs(token.SEMI) {
		p.nextToken()
	}
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	tok := p.curToken
	p.nextToken()
	save := p.allowStructLiteral
	p.allowStructLiteral = false
	cond := p.parseExpression(LOWEST)
	p.allowStructLiteral = save

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	consequence := p.parseBlockStatement()
	stmt := &ast.IfStatement{Token: tok, Condition: cond, Consequence: consequence}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			nested := p.parseIfStatement()
			stmt.Alternative = &ast.BlockStatement{Token: nested.Token, Statements: []ast.Statement{nested}}
		} else {
			if !p.expectPeek(token.LBRACE) {
				return nil
			}
			stmt.Alternative = p.parseBlockStatement()
		}
	}
	return stmt
}

// parseForStatement parses the C-style `for (init; cond; update) { ... }` loop.
func (p *Parser) parseForStatement() *ast.ForStatement {
	tok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	init := p.parseVarDeclStatement(true)

	p.nextToken()
	save := p.allowStructLiteral
	p.allowStructLiteral = false
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.SEMI) {
		p.allowStructLiteral = save
		return nil
	}
	p.nextToken()
	update := p.parseStatement()
	p.allowStructLiteral = save

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return &ast.ForStatement{Token: tok, Init: init, Condition: cond, Update: update, Body: body}
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	tok := p.curToken
	p.nextToken()
	save := p.allowStructLiteral
	p.allowStructLiteral = false
	cond := p.parseExpression(LOWEST)
	p.allowStructLiteral = save

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return &ast.WhileStatement{Token: tok, Condition: cond, Body: body}
}

// parseSwitchStatement parses `switch scrutinee { case v {...} ... default {...} }`. The case
// list terminates, per spec.md §9, when the token following a case/default body is neither
// `case` nor `default`.
func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	tok := p.curToken
	p.nextToken()
	save := p.allowStructLiteral
	p.allowStructLiteral = false
	scrutinee := p.parseExpression(LOWEST)
	p.allowStructLiteral = save

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	stmt := &ast.SwitchStatement{Token: tok, Scrutinee: scrutinee}
	for p.curTokenIs(token.CASE) || p.curTokenIs(token.DEFAULT) {
		if p.curTokenIs(token.CASE) {
			p.nextToken()
			save2 := p.allowStructLiteral
			p.allowStructLiteral = false
			val := p.parseExpression(LOWEST)
			p.allowStructLiteral = save2
			if !p.expectPeek(token.LBRACE) {
				return nil
			}
			body := p.parseBlockStatement()
			stmt.Cases = append(stmt.Cases, &ast.SwitchCase{Value: val, Body: body})
		} else {
			if !p.expectPeek(token.LBRACE) {
				return nil
			}
			stmt.Default = p.parseBlockStatement()
		}
		p.nextToken()
	}
	if !p.curTokenIs(token.RBRACE) {
		p.peekError(token.RBRACE)
		return nil
	}
	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	tok := p.curToken
	if p.peekTokenIs(token.SEMI) {
		p.nextToken()
		return &ast.ReturnStatement{Token: tok}
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	if p.peekTokenIs(token.SEMI) {
		p.nextToken()
	}
	return &ast.ReturnStatement{Token: tok, Value: val}
}

// ==============================================================================================
// EXPRESSIONS
// ==============================================================================================

func (p *Parser) parseExpression(precedence int) ast.Expression {
	if p.curToken.Type == token.ILLEGAL {
		p.illegalTokenError()
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf("no prefix parse function for %s", p.curToken.Type)
		return nil
	}
	leftExp := prefix()

	for !p.peekTokenIs(token.EOF) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}
	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if p.allowStructLiteral && p.peekTokenIs(token.LBRACE) {
		return p.parseStructLiteral(ident)
	}
	return ident
}

// parseStructLiteral parses `Name { field = expr, ... }` — an identifier immediately
// followed by '{' is unambiguously a struct literal (spec.md §4.2), gated by
// allowStructLiteral so block-opening braces in if/for/while/switch headers never trigger it.
func (p *Parser) parseStructLiteral(name *ast.Identifier) ast.Expression {
	tok := name.Token
	p.nextToken() // consume '{'
	lit := &ast.StructLiteral{Token: tok, Name: name.Value}

	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return lit
	}
	p.nextToken()
	for {
		fname := p.curToken.Literal
		if !p.expectPeek(token.ASSIGN) {
			return nil
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		lit.Fields = append(lit.Fields, &ast.StructFieldInit{Name: fname, Value: val})

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RBRACE) {
				p.nextToken()
				break
			}
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.RBRACE) {
			return nil
		}
		break
	}
	return lit
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}
	val, err := strconv.ParseInt(p.curToken.Literal, 0, 64)
	if err != nil {
		p.errorf("could not parse %q as integer", p.curToken.Literal)
		return nil
	}
	lit.Value = val
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	lit := &ast.FloatLiteral{Token: p.curToken}
	val, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf("could not parse %q as float", p.curToken.Literal)
		return nil
	}
	lit.Value = val
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curToken.Literal == "true"}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	exp := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	exp.Right = p.parseExpression(UNARY)
	return exp
}

func (p *Parser) parseAddressOfExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	return &ast.AddressOfExpression{Token: tok, Value: p.parseExpression(UNARY)}
}

func (p *Parser) parseDereferenceExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	return &ast.DereferenceExpression{Token: tok, Value: p.parseExpression(UNARY)}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.curToken
	elements := p.parseExpressionList(token.RBRACKET)
	return &ast.ArrayLiteral{Token: tok, Elements: elements}
}

func (p *Parser) parseMapLiteral() ast.Expression {
	tok := p.curToken
	lit := &ast.MapLiteral{Token: tok}
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return lit
	}
	p.nextToken()
	for {
		key := p.parseExpression(LOWEST)
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		lit.Entries = append(lit.Entries, &ast.MapEntry{Key: key, Value: val})

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return lit
}

// parseExpressionList parses a comma-separated expression list terminated by `end`.
func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	list := []ast.Expression{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	exp := &ast.InfixExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
	precedence := p.curPrecedence()
	p.nextToken()
	exp.Right = p.parseExpression(precedence)
	return exp
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken, Function: fn}
	exp.Arguments = p.parseExpressionList(token.RPAREN)
	return exp
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return exp
}

// parseDotExpression parses `left.name` as either a field access or, when `name` is followed
// by '(', a method call.
func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Literal

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args := p.parseExpressionList(token.RPAREN)
		return &ast.MethodCallExpression{Token: tok, Receiver: left, Method: name, Arguments: args}
	}
	return &ast.FieldAccessExpression{Token: tok, Object: left, Field: name}
}

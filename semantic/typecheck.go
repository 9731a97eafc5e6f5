// ----------------------------------------------------------------------------
// FILE: semantic/typecheck.go
// PURPOSE: Pass 2 (scope/loop-context) and pass 3 (type checking) statement/expression
//          walk (spec.md §4.3). Every expression visited has its inferred Type recorded
//          in Analyzer.resolvedTypes, keyed by node identity — the side-table
//          SPEC_FULL.md §9 calls for so `ir` can dispatch method calls and dereferences by
//          static type instead of enumerating a fixed record-name set.
// ----------------------------------------------------------------------------
package semantic

import "chif/ast"

func (a *Analyzer) record(expr ast.Expression, t Type) Type {
	a.resolvedTypes[expr] = t
	return t
}

// ResolvedType looks up the static type Analyze recorded for expr.
func (ap *AnalyzedProgram) ResolvedType(expr ast.Expression) (Type, bool) {
	t, ok := ap.ResolvedTypes[expr]
	return t, ok
}

func (a *Analyzer) analyzeBlock(block *ast.BlockStatement) error {
	a.symbols.PushScope()
	defer a.symbols.PopScope()
	return a.analyzeStatements(block.Statements)
}

func (a *Analyzer) analyzeStatements(stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := a.analyzeStatement(s); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.VarDeclStatement:
		return a.analyzeVarDecl(s)
	case *ast.AssignmentStatement:
		return a.analyzeAssignment(s)
	case *ast.ExpressionStatement:
		if s.Expression == nil {
			return nil
		}
		_, err := a.inferExprType(s.Expression)
		return err
	case *ast.IfStatement:
		return a.analyzeIf(s)
	case *ast.ForStatement:
		return a.analyzeFor(s)
	case *ast.WhileStatement:
		return a.analyzeWhile(s)
	case *ast.SwitchStatement:
		return a.analyzeSwitch(s)
	case *ast.ReturnStatement:
		return a.analyzeReturn(s)
	case *ast.BreakStatement:
		if !a.inLoop {
			return newError(BreakOutsideLoop, s.Token.Line, s.Token.Column, "break outside a loop")
		}
		return nil
	case *ast.ContinueStatement:
		if !a.inLoop {
			return newError(ContinueOutsideLoop, s.Token.Line, s.Token.Column, "continue outside a loop")
		}
		return nil
	case *ast.BlockStatement:
		return a.analyzeBlock(s)
	default:
		return newError(InvalidOperation, 0, 0, "unsupported statement type %T", stmt)
	}
}

func (a *Analyzer) analyzeVarDecl(stmt *ast.VarDeclStatement) error {
	valType, err := a.inferExprType(stmt.Value)
	if err != nil {
		return err
	}
	declared := valType
	if stmt.Type != nil {
		declared, err = ResolveTypeExpr(stmt.Type)
		if err != nil {
			return err
		}
		if !AssignableTo(valType, declared) {
			return typeMismatch(stmt.Token.Line, stmt.Token.Column, declared, valType)
		}
	}
	return a.symbols.Define(&Symbol{
		Name: stmt.Name, Kind: SymVariable, VarType: declared, IsMutable: stmt.Mutable,
		Line: stmt.Token.Line, Column: stmt.Token.Column,
	})
}

func (a *Analyzer) analyzeAssignment(stmt *ast.AssignmentStatement) error {
	valType, err := a.inferExprType(stmt.Value)
	if err != nil {
		return err
	}
	targetType, err := a.inferExprType(stmt.Target)
	if err != nil {
		return err
	}
	if !AssignableTo(valType, targetType) {
		return typeMismatch(stmt.Token.Line, stmt.Token.Column, targetType, valType)
	}
	if id, ok := stmt.Target.(*ast.Identifier); ok {
		if sym, found := a.symbols.Lookup(id.Value); found && sym.Kind == SymVariable && !sym.IsMutable {
			return newError(InvalidOperation, stmt.Token.Line, stmt.Token.Column, "cannot assign to immutable binding %q", id.Value)
		}
	}
	return nil
}

func (a *Analyzer) analyzeIf(stmt *ast.IfStatement) error {
	condType, err := a.inferExprType(stmt.Condition)
	if err != nil {
		return err
	}
	if _, ok := condType.(BoolType); !ok {
		return typeMismatch(stmt.Token.Line, stmt.Token.Column, BoolType{}, condType)
	}
	if err := a.analyzeBlock(stmt.Consequence); err != nil {
		return err
	}
	if stmt.Alternative != nil {
		return a.analyzeBlock(stmt.Alternative)
	}
	return nil
}

func (a *Analyzer) analyzeFor(stmt *ast.ForStatement) error {
	a.symbols.PushScope()
	defer a.symbols.PopScope()

	if err := a.analyzeVarDecl(stmt.Init); err != nil {
		return err
	}
	condType, err := a.inferExprType(stmt.Condition)
	if err != nil {
		return err
	}
	if _, ok := condType.(BoolType); !ok {
		return typeMismatch(stmt.Token.Line, stmt.Token.Column, BoolType{}, condType)
	}

	savedLoop := a.inLoop
	a.inLoop = true
	err = a.analyzeStatements(stmt.Body.Statements)
	a.inLoop = savedLoop
	if err != nil {
		return err
	}
	if stmt.Update != nil {
		return a.analyzeStatement(stmt.Update)
	}
	return nil
}

func (a *Analyzer) analyzeWhile(stmt *ast.WhileStatement) error {
	condType, err := a.inferExprType(stmt.Condition)
	if err != nil {
		return err
	}
	if _, ok := condType.(BoolType); !ok {
		return typeMismatch(stmt.Token.Line, stmt.Token.Column, BoolType{}, condType)
	}
	savedLoop := a.inLoop
	a.inLoop = true
	defer func() { a.inLoop = savedLoop }()
	return a.analyzeBlock(stmt.Body)
}

func (a *Analyzer) analyzeSwitch(stmt *ast.SwitchStatement) error {
	scrutType, err := a.inferExprType(stmt.Scrutinee)
	if err != nil {
		return err
	}
	for _, c := range stmt.Cases {
		caseType, err := a.inferExprType(c.Value)
		if err != nil {
			return err
		}
		if !AssignableTo(caseType, scrutType) && !AssignableTo(scrutType, caseType) {
			return typeMismatch(stmt.Token.Line, stmt.Token.Column, scrutType, caseType)
		}
		if err := a.analyzeBlock(c.Body); err != nil {
			return err
		}
	}
	if stmt.Default != nil {
		return a.analyzeBlock(stmt.Default)
	}
	return nil
}

func (a *Analyzer) analyzeReturn(stmt *ast.ReturnStatement) error {
	if stmt.Value == nil {
		return nil
	}
	valType, err := a.inferExprType(stmt.Value)
	if err != nil {
		return err
	}
	if a.currentReturnType == nil {
		return nil
	}
	if !AssignableTo(valType, a.currentReturnType) {
		return typeMismatch(stmt.Token.Line, stmt.Token.Column, a.currentReturnType, valType)
	}
	return nil
}

// inferExprType computes expr's static type, recording it in the ResolvedTypes
// side-table along the way.
func (a *Analyzer) inferExprType(expr ast.Expression) (Type, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return a.record(e, IntType{}), nil
	case *ast.FloatLiteral:
		return a.record(e, FloatType{}), nil
	case *ast.StringLiteral:
		return a.record(e, StrType{}), nil
	case *ast.BooleanLiteral:
		return a.record(e, BoolType{}), nil
	case *ast.NilLiteral:
		return a.record(e, NilType{}), nil

	case *ast.Identifier:
		sym, ok := a.symbols.Lookup(e.Value)
		if !ok {
			return nil, newError(UndefinedSymbol, e.Token.Line, e.Token.Column, "undefined symbol %q", e.Value)
		}
		switch sym.Kind {
		case SymVariable:
			return a.record(e, sym.VarType), nil
		case SymStruct:
			return a.record(e, StructType{Name: sym.Name}), nil
		default:
			return nil, newError(InvalidOperation, e.Token.Line, e.Token.Column, "%q is not a value", e.Value)
		}

	case *ast.PrefixExpression:
		return a.inferPrefix(e)
	case *ast.InfixExpression:
		return a.inferInfix(e)
	case *ast.AddressOfExpression:
		return a.inferAddressOf(e)
	case *ast.DereferenceExpression:
		return a.inferDereference(e)
	case *ast.CallExpression:
		return a.inferCall(e)
	case *ast.MethodCallExpression:
		return a.inferMethodCall(e)
	case *ast.IndexExpression:
		return a.inferIndex(e)
	case *ast.FieldAccessExpression:
		return a.inferFieldAccess(e)
	case *ast.ArrayLiteral:
		return a.inferArrayLiteral(e)
	case *ast.MapLiteral:
		return a.inferMapLiteral(e)
	case *ast.StructLiteral:
		return a.inferStructLiteral(e)

	default:
		return nil, newError(InvalidOperation, 0, 0, "unsupported expression type %T", expr)
	}
}

func (a *Analyzer) inferPrefix(e *ast.PrefixExpression) (Type, error) {
	right, err := a.inferExprType(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "-":
		if !IsNumeric(right) {
			return nil, newError(InvalidOperation, e.Token.Line, e.Token.Column, "unary - requires Int or Float, got %s", right)
		}
		return a.record(e, right), nil
	case "!":
		if _, ok := right.(BoolType); !ok {
			return nil, typeMismatch(e.Token.Line, e.Token.Column, BoolType{}, right)
		}
		return a.record(e, BoolType{}), nil
	default:
		return nil, newError(InvalidOperation, e.Token.Line, e.Token.Column, "unknown prefix operator %q", e.Operator)
	}
}

func (a *Analyzer) inferInfix(e *ast.InfixExpression) (Type, error) {
	left, err := a.inferExprType(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := a.inferExprType(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "+":
		if _, lok := left.(StrType); lok {
			if _, rok := right.(StrType); rok {
				return a.record(e, StrType{}), nil
			}
		}
		fallthrough
	case "-", "*", "/", "%":
		t, ok := NumericPromote(left, right)
		if !ok {
			return nil, newError(InvalidOperation, e.Token.Line, e.Token.Column,
				"operator %q requires numeric operands, got %s and %s", e.Operator, left, right)
		}
		return a.record(e, t), nil
	case "<", ">", "<=", ">=":
		if _, ok := NumericPromote(left, right); !ok {
			return nil, newError(InvalidOperation, e.Token.Line, e.Token.Column,
				"operator %q requires numeric operands, got %s and %s", e.Operator, left, right)
		}
		return a.record(e, BoolType{}), nil
	case "==", "!=":
		return a.record(e, BoolType{}), nil
	case "&&", "||":
		_, lok := left.(BoolType)
		_, rok := right.(BoolType)
		if !lok || !rok {
			return nil, newError(InvalidOperation, e.Token.Line, e.Token.Column,
				"operator %q requires Bool operands, got %s and %s", e.Operator, left, right)
		}
		return a.record(e, BoolType{}), nil
	default:
		return nil, newError(InvalidOperation, e.Token.Line, e.Token.Column, "unknown infix operator %q", e.Operator)
	}
}

func (a *Analyzer) inferAddressOf(e *ast.AddressOfExpression) (Type, error) {
	inner, err := a.inferExprType(e.Value)
	if err != nil {
		return nil, err
	}
	return a.record(e, PointerType{Target: inner}), nil
}

func (a *Analyzer) inferDereference(e *ast.DereferenceExpression) (Type, error) {
	inner, err := a.inferExprType(e.Value)
	if err != nil {
		return nil, err
	}
	ptr, ok := inner.(PointerType)
	if !ok {
		return nil, newError(InvalidOperation, e.Token.Line, e.Token.Column, "cannot dereference a %s", inner)
	}
	if ptr.Target == nil {
		return a.record(e, NilType{}), nil
	}
	return a.record(e, ptr.Target), nil
}

func (a *Analyzer) inferCall(e *ast.CallExpression) (Type, error) {
	id, ok := e.Function.(*ast.Identifier)
	if !ok {
		return nil, newError(InvalidOperation, e.Token.Line, e.Token.Column, "call target must be a function name")
	}
	sym, ok := a.symbols.Lookup(id.Value)
	if !ok || sym.Kind != SymFunction {
		return nil, newError(UndefinedSymbol, e.Token.Line, e.Token.Column, "undefined function %q", id.Value)
	}
	sig := sym.Func
	if len(sig.Params) > 0 && len(e.Arguments) != len(sig.Params) {
		return nil, newError(InvalidOperation, e.Token.Line, e.Token.Column,
			"%q expects %d arguments, got %d", id.Value, len(sig.Params), len(e.Arguments))
	}
	for idx, argExpr := range e.Arguments {
		argType, err := a.inferExprType(argExpr)
		if err != nil {
			return nil, err
		}
		if idx < len(sig.Params) && !AssignableTo(argType, sig.Params[idx]) {
			return nil, typeMismatch(e.Token.Line, e.Token.Column, sig.Params[idx], argType)
		}
	}
	ret := sig.ReturnType
	if ret == nil {
		ret = NilType{}
	}
	return a.record(e, ret), nil
}

func (a *Analyzer) inferMethodCall(e *ast.MethodCallExpression) (Type, error) {
	// Module member call: con.out(...), http.get(...), or f.bar() for an imported module.
	if id, ok := e.Receiver.(*ast.Identifier); ok {
		if sym, found := a.symbols.Lookup(id.Value); found && sym.Kind == SymModule {
			sig, ok := sym.Module.Functions[e.Method]
			if !ok {
				return nil, newError(UndefinedSymbol, e.Token.Line, e.Token.Column, "%s has no member %q", id.Value, e.Method)
			}
			for _, argExpr := range e.Arguments {
				if _, err := a.inferExprType(argExpr); err != nil {
					return nil, err
				}
			}
			ret := sig.ReturnType
			if ret == nil {
				ret = NilType{}
			}
			return a.record(e, ret), nil
		}
	}

	recvType, err := a.inferExprType(e.Receiver)
	if err != nil {
		return nil, err
	}

	if lt, ok := recvType.(ListType); ok {
		if ret, ok := listIntrinsicReturn(e.Method, lt); ok {
			for _, argExpr := range e.Arguments {
				if _, err := a.inferExprType(argExpr); err != nil {
					return nil, err
				}
			}
			return a.record(e, ret), nil
		}
	}

	st, ok := recvType.(StructType)
	if !ok {
		return nil, newError(InvalidOperation, e.Token.Line, e.Token.Column, "cannot call method %q on a %s", e.Method, recvType)
	}
	si, ok := a.structs[st.Name]
	if !ok {
		return nil, newError(UndefinedSymbol, e.Token.Line, e.Token.Column, "undefined struct %q", st.Name)
	}
	sig, ok := si.Methods[e.Method]
	if !ok {
		return nil, newError(UndefinedSymbol, e.Token.Line, e.Token.Column, "%s has no method %q", st.Name, e.Method)
	}
	if len(e.Arguments) != len(sig.Params) {
		return nil, newError(InvalidOperation, e.Token.Line, e.Token.Column,
			"%s.%s expects %d arguments, got %d", st.Name, e.Method, len(sig.Params), len(e.Arguments))
	}
	for idx, argExpr := range e.Arguments {
		argType, err := a.inferExprType(argExpr)
		if err != nil {
			return nil, err
		}
		if !AssignableTo(argType, sig.Params[idx]) {
			return nil, typeMismatch(e.Token.Line, e.Token.Column, sig.Params[idx], argType)
		}
	}
	ret := sig.ReturnType
	if ret == nil {
		ret = NilType{}
	}
	return a.record(e, ret), nil
}

// listIntrinsicReturn types the built-in mutating list methods (spec.md §4.4): add/addAt
// return Nil, del returns Nil, len returns Int.
func listIntrinsicReturn(method string, lt ListType) (Type, bool) {
	switch method {
	case "add", "addAt", "del":
		return NilType{}, true
	case "len":
		return IntType{}, true
	default:
		return nil, false
	}
}

func (a *Analyzer) inferIndex(e *ast.IndexExpression) (Type, error) {
	leftType, err := a.inferExprType(e.Left)
	if err != nil {
		return nil, err
	}
	if _, err := a.inferExprType(e.Index); err != nil {
		return nil, err
	}
	switch lt := leftType.(type) {
	case ArrayType:
		if len(lt.Sizes) > 1 {
			return a.record(e, ArrayType{Element: lt.Element, Sizes: lt.Sizes[1:]}), nil
		}
		return a.record(e, lt.Element), nil
	case ListType:
		if lt.Dims > 0 {
			return a.record(e, ListType{Element: lt.Element, Dims: lt.Dims - 1}), nil
		}
		return a.record(e, lt.Element), nil
	case MapType:
		return a.record(e, lt.Value), nil
	default:
		return nil, newError(InvalidOperation, e.Token.Line, e.Token.Column, "cannot index a %s", leftType)
	}
}

func (a *Analyzer) inferFieldAccess(e *ast.FieldAccessExpression) (Type, error) {
	objType, err := a.inferExprType(e.Object)
	if err != nil {
		return nil, err
	}
	st, ok := objType.(StructType)
	if !ok {
		return nil, newError(InvalidOperation, e.Token.Line, e.Token.Column, "cannot access field %q on a %s", e.Field, objType)
	}
	si, ok := a.structs[st.Name]
	if !ok {
		return nil, newError(UndefinedSymbol, e.Token.Line, e.Token.Column, "undefined struct %q", st.Name)
	}
	ft, ok := si.FieldType(e.Field)
	if !ok {
		return nil, newError(UndefinedSymbol, e.Token.Line, e.Token.Column, "%s has no field %q", st.Name, e.Field)
	}
	return a.record(e, ft), nil
}

func (a *Analyzer) inferArrayLiteral(e *ast.ArrayLiteral) (Type, error) {
	if len(e.Elements) == 0 {
		return a.record(e, ArrayType{Element: NilType{}, Sizes: []int{0}}), nil
	}
	elemType, err := a.inferExprType(e.Elements[0])
	if err != nil {
		return nil, err
	}
	for _, el := range e.Elements[1:] {
		t, err := a.inferExprType(el)
		if err != nil {
			return nil, err
		}
		if !AssignableTo(t, elemType) {
			return nil, typeMismatch(e.Token.Line, e.Token.Column, elemType, t)
		}
	}
	return a.record(e, ArrayType{Element: elemType, Sizes: []int{len(e.Elements)}}), nil
}

func (a *Analyzer) inferMapLiteral(e *ast.MapLiteral) (Type, error) {
	if len(e.Entries) == 0 {
		return a.record(e, MapType{Key: StrType{}, Value: NilType{}}), nil
	}
	var valType Type
	for idx, entry := range e.Entries {
		keyType, err := a.inferExprType(entry.Key)
		if err != nil {
			return nil, err
		}
		if _, ok := keyType.(StrType); !ok {
			return nil, typeMismatch(e.Token.Line, e.Token.Column, StrType{}, keyType)
		}
		vt, err := a.inferExprType(entry.Value)
		if err != nil {
			return nil, err
		}
		if idx == 0 {
			valType = vt
		} else if !AssignableTo(vt, valType) {
			return nil, typeMismatch(e.Token.Line, e.Token.Column, valType, vt)
		}
	}
	return a.record(e, MapType{Key: StrType{}, Value: valType}), nil
}

func (a *Analyzer) inferStructLiteral(e *ast.StructLiteral) (Type, error) {
	si, ok := a.structs[e.Name]
	if !ok {
		return nil, newError(UndefinedSymbol, e.Token.Line, e.Token.Column, "undefined struct %q", e.Name)
	}
	for _, init := range e.Fields {
		ft, ok := si.FieldType(init.Name)
		if !ok {
			return nil, newError(UndefinedSymbol, e.Token.Line, e.Token.Column, "%s has no field %q", e.Name, init.Name)
		}
		vt, err := a.inferExprType(init.Value)
		if err != nil {
			return nil, err
		}
		if !AssignableTo(vt, ft) {
			return nil, typeMismatch(e.Token.Line, e.Token.Column, ft, vt)
		}
	}
	return a.record(e, StructType{Name: e.Name}), nil
}

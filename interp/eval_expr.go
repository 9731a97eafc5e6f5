// ----------------------------------------------------------------------------
// FILE: interp/eval_expr.go
// PURPOSE: Expression evaluation — literals, operators, calls, indexing, field access, and the
//          reference/pointer/address-of machinery of spec.md §3/§4.4.
// ----------------------------------------------------------------------------
package interp

import (
	"chif/ast"
	"chif/object"
)

func (i *Interpreter) evalExpression(expr ast.Expression) (object.Object, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return &object.Integer{Value: e.Value}, nil
	case *ast.FloatLiteral:
		return &object.Float{Value: e.Value}, nil
	case *ast.BooleanLiteral:
		return object.NativeBool(e.Value), nil
	case *ast.NilLiteral:
		return object.NIL, nil
	case *ast.StringLiteral:
		return i.evalStringLiteral(e)
	case *ast.Identifier:
		val, ok := i.lookup(e.Value)
		if !ok {
			return nil, newError(VariableNotFound, "undefined variable %q", e.Value)
		}
		return val, nil
	case *ast.PrefixExpression:
		return i.evalPrefixExpression(e)
	case *ast.InfixExpression:
		return i.evalInfixExpression(e)
	case *ast.AddressOfExpression:
		return i.evalAddressOfExpression(e)
	case *ast.DereferenceExpression:
		return i.evalDereferenceExpression(e)
	case *ast.CallExpression:
		return i.evalCallExpression(e)
	case *ast.MethodCallExpression:
		return i.evalMethodCallExpression(e)
	case *ast.IndexExpression:
		return i.evalIndexExpression(e)
	case *ast.FieldAccessExpression:
		return i.evalFieldAccessExpression(e)
	case *ast.ArrayLiteral:
		return i.evalArrayLiteral(e)
	case *ast.MapLiteral:
		return i.evalMapLiteral(e)
	case *ast.StructLiteral:
		return i.evalStructLiteral(e)
	default:
		return nil, newError(InvalidOperation, "unsupported expression type %T", expr)
	}
}

func (i *Interpreter) evalPrefixExpression(e *ast.PrefixExpression) (object.Object, error) {
	right, err := i.evalExpression(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "-":
		switch r := right.(type) {
		case *object.Integer:
			return &object.Integer{Value: -r.Value}, nil
		case *object.Float:
			return &object.Float{Value: -r.Value}, nil
		default:
			return nil, newError(TypeMismatch, "cannot negate a %s", right.Type())
		}
	case "!":
		b, err := truthy(right)
		if err != nil {
			return nil, err
		}
		return object.NativeBool(!b), nil
	default:
		return nil, newError(InvalidOperation, "unknown prefix operator %q", e.Operator)
	}
}

func (i *Interpreter) evalInfixExpression(e *ast.InfixExpression) (object.Object, error) {
	left, err := i.evalExpression(e.Left)
	if err != nil {
		return nil, err
	}

	// Short-circuit boolean operators evaluate the right side lazily.
	if e.Operator == "&&" || e.Operator == "||" {
		lb, err := truthy(left)
		if err != nil {
			return nil, err
		}
		if e.Operator == "&&" && !lb {
			return object.FALSE, nil
		}
		if e.Operator == "||" && lb {
			return object.TRUE, nil
		}
		right, err := i.evalExpression(e.Right)
		if err != nil {
			return nil, err
		}
		rb, err := truthy(right)
		if err != nil {
			return nil, err
		}
		return object.NativeBool(rb), nil
	}

	right, err := i.evalExpression(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case "==":
		return object.NativeBool(object.Equal(left, right)), nil
	case "!=":
		return object.NativeBool(!object.Equal(left, right)), nil
	}

	if e.Operator == "+" {
		if ls, ok := left.(*object.Str); ok {
			rs, ok := right.(*object.Str)
			if !ok {
				return nil, newError(TypeMismatch, "cannot add Str and %s", right.Type())
			}
			return &object.Str{Value: ls.Value + rs.Value}, nil
		}
	}

	return evalNumericInfix(e.Operator, left, right)
}

func evalNumericInfix(op string, left, right object.Object) (object.Object, error) {
	li, lIsInt := left.(*object.Integer)
	ri, rIsInt := right.(*object.Integer)
	if lIsInt && rIsInt {
		return evalIntegerInfix(op, li.Value, ri.Value)
	}

	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil, newError(TypeMismatch, "unsupported operand types %s and %s for %q", left.Type(), right.Type(), op)
	}
	return evalFloatInfix(op, lf, rf)
}

func asFloat(o object.Object) (float64, bool) {
	switch v := o.(type) {
	case *object.Integer:
		return float64(v.Value), true
	case *object.Float:
		return v.Value, true
	default:
		return 0, false
	}
}

func evalIntegerInfix(op string, l, r int64) (object.Object, error) {
	switch op {
	case "+":
		return &object.Integer{Value: l + r}, nil
	case "-":
		return &object.Integer{Value: l - r}, nil
	case "*":
		return &object.Integer{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, newError(DivisionByZero, "integer division by zero")
		}
		return &object.Integer{Value: l / r}, nil
	case "%":
		if r == 0 {
			return nil, newError(DivisionByZero, "modulo by zero")
		}
		return &object.Integer{Value: l % r}, nil
	case "<":
		return object.NativeBool(l < r), nil
	case ">":
		return object.NativeBool(l > r), nil
	case "<=":
		return object.NativeBool(l <= r), nil
	case ">=":
		return object.NativeBool(l >= r), nil
	default:
		return nil, newError(InvalidOperation, "unknown integer operator %q", op)
	}
}

func evalFloatInfix(op string, l, r float64) (object.Object, error) {
	switch op {
	case "+":
		return &object.Float{Value: l + r}, nil
	case "-":
		return &object.Float{Value: l - r}, nil
	case "*":
		return &object.Float{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, newError(DivisionByZero, "float division by zero")
		}
		return &object.Float{Value: l / r}, nil
	case "<":
		return object.NativeBool(l < r), nil
	case ">":
		return object.NativeBool(l > r), nil
	case "<=":
		return object.NativeBool(l <= r), nil
	case ">=":
		return object.NativeBool(l >= r), nil
	default:
		return nil, newError(InvalidOperation, "unknown float operator %q", op)
	}
}

// evalAddressOfExpression produces a live Reference for a bare identifier (so mutation through
// the reference is visible to the original binding) or a Pointer to a boxed temporary otherwise
// (spec.md §3).
func (i *Interpreter) evalAddressOfExpression(e *ast.AddressOfExpression) (object.Object, error) {
	if id, ok := e.Value.(*ast.Identifier); ok {
		scope := i.ownerScope(id.Value)
		if scope == nil {
			return nil, newError(VariableNotFound, "undefined variable %q", id.Value)
		}
		return &object.Reference{Name: id.Value, Scope: scope}, nil
	}
	val, err := i.evalExpression(e.Value)
	if err != nil {
		return nil, err
	}
	return &object.Pointer{Target: &val}, nil
}

func (i *Interpreter) evalDereferenceExpression(e *ast.DereferenceExpression) (object.Object, error) {
	val, err := i.evalExpression(e.Value)
	if err != nil {
		return nil, err
	}
	switch v := val.(type) {
	case *object.Reference:
		return v.Load(), nil
	case *object.Pointer:
		return *v.Target, nil
	default:
		return nil, newError(InvalidOperation, "cannot dereference a %s", val.Type())
	}
}

func (i *Interpreter) evalArrayLiteral(e *ast.ArrayLiteral) (object.Object, error) {
	elems, err := i.evalExpressionList(e.Elements)
	if err != nil {
		return nil, err
	}
	return &object.Array{Elements: elems}, nil
}

func (i *Interpreter) evalMapLiteral(e *ast.MapLiteral) (object.Object, error) {
	m := object.NewMap()
	for _, entry := range e.Entries {
		keyVal, err := i.evalExpression(entry.Key)
		if err != nil {
			return nil, err
		}
		key, ok := keyVal.(*object.Str)
		if !ok {
			return nil, newError(TypeMismatch, "map keys must be Str, got %s", keyVal.Type())
		}
		val, err := i.evalExpression(entry.Value)
		if err != nil {
			return nil, err
		}
		m.Set(key.Value, val)
	}
	return m, nil
}

func (i *Interpreter) evalStructLiteral(e *ast.StructLiteral) (object.Object, error) {
	def, ok := i.structs[e.Name]
	if !ok {
		return nil, newError(InvalidOperation, "undefined struct %q", e.Name)
	}
	fields := make(map[string]object.Object, len(def.FieldOrder))
	for _, fieldInit := range e.Fields {
		val, err := i.evalExpression(fieldInit.Value)
		if err != nil {
			return nil, err
		}
		fields[fieldInit.Name] = copyIfStruct(val)
	}
	return &object.StructInstance{Definition: def, Fields: fields}, nil
}

func (i *Interpreter) evalExpressionList(exprs []ast.Expression) ([]object.Object, error) {
	result := make([]object.Object, 0, len(exprs))
	for _, e := range exprs {
		val, err := i.evalExpression(e)
		if err != nil {
			return nil, err
		}
		result = append(result, val)
	}
	return result, nil
}

func (i *Interpreter) evalIndexExpression(e *ast.IndexExpression) (object.Object, error) {
	left, err := i.evalExpression(e.Left)
	if err != nil {
		return nil, err
	}
	idx, err := i.evalExpression(e.Index)
	if err != nil {
		return nil, err
	}
	switch c := left.(type) {
	case *object.Array:
		return indexSlice(c.Elements, idx)
	case *object.List:
		return indexSlice(c.Elements, idx)
	case *object.Map:
		key, ok := idx.(*object.Str)
		if !ok {
			return nil, newError(TypeMismatch, "map keys must be Str, got %s", idx.Type())
		}
		val, ok := c.Pairs[key.Value]
		if !ok {
			return nil, newError(InvalidOperation, "key %q not found in map", key.Value)
		}
		return val, nil
	default:
		return nil, newError(TypeMismatch, "cannot index a %s", left.Type())
	}
}

func indexSlice(elems []object.Object, idx object.Object) (object.Object, error) {
	n, ok := idx.(*object.Integer)
	if !ok {
		return nil, newError(TypeMismatch, "index must be Int, got %s", idx.Type())
	}
	if n.Value < 0 || int(n.Value) >= len(elems) {
		return nil, newError(IndexOutOfBounds, "index %d out of bounds (len %d)", n.Value, len(elems))
	}
	return elems[n.Value], nil
}

func (i *Interpreter) evalFieldAccessExpression(e *ast.FieldAccessExpression) (object.Object, error) {
	obj, err := i.evalExpression(e.Object)
	if err != nil {
		return nil, err
	}
	si, ok := obj.(*object.StructInstance)
	if !ok {
		return nil, newError(TypeMismatch, "cannot access field %q on a %s", e.Field, obj.Type())
	}
	val, ok := si.Fields[e.Field]
	if !ok {
		return nil, newError(InvalidOperation, "struct %s has no field %q", si.Definition.Name, e.Field)
	}
	return val, nil
}

func (i *Interpreter) evalCallExpression(e *ast.CallExpression) (object.Object, error) {
	args, err := i.evalCallArguments(e.Arguments)
	if err != nil {
		return nil, err
	}

	id, ok := e.Function.(*ast.Identifier)
	if !ok {
		return nil, newError(InvalidOperation, "expression is not callable")
	}
	callee, ok := i.lookup(id.Value)
	if !ok {
		return nil, newError(FunctionNotFound, "undefined function %q", id.Value)
	}
	return i.invoke(callee, args)
}

// evalCallArguments evaluates each argument expression in order. An argument written as `&name`
// already evaluates (via evalAddressOfExpression) to a live object.Reference into the caller's
// scope, which is what makes write-back to the outer variable work without a separate
// post-call copy-back step (spec.md §4.4's reference-parameter rule) — see the design note on
// object.Reference.
func (i *Interpreter) evalCallArguments(argExprs []ast.Expression) ([]object.Object, error) {
	args := make([]object.Object, 0, len(argExprs))
	for _, argExpr := range argExprs {
		val, err := i.evalExpression(argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, copyIfStruct(val))
	}
	return args, nil
}

func (i *Interpreter) invoke(callee object.Object, args []object.Object) (object.Object, error) {
	switch fn := callee.(type) {
	case *object.Function:
		return i.callFunction(fn, args)
	case *object.Builtin:
		return fn.Fn(args...)
	default:
		return nil, newError(InvalidOperation, "value of type %s is not callable", callee.Type())
	}
}

// evalMethodCallExpression dispatches receiver.method(args). List built-in methods (add/addAt/
// del/len) are intercepted here before user-defined struct methods are consulted, since chif
// lists are a primitive type with their own mutating operations (spec.md §5).
func (i *Interpreter) evalMethodCallExpression(e *ast.MethodCallExpression) (object.Object, error) {
	receiverVal, err := i.evalExpression(e.Receiver)
	if err != nil {
		return nil, err
	}
	args, err := i.evalExpressionList(e.Arguments)
	if err != nil {
		return nil, err
	}

	if mod, ok := receiverVal.(*object.Module); ok {
		member, ok := mod.Members[e.Method]
		if !ok {
			return nil, newError(FunctionNotFound, "module %q has no member %q", mod.Name, e.Method)
		}
		return i.invoke(member, args)
	}

	if list, ok := receiverVal.(*object.List); ok {
		return evalListMethod(list, e.Method, args)
	}

	si, ok := receiverVal.(*object.StructInstance)
	if !ok {
		return nil, newError(TypeMismatch, "cannot call method %q on a %s", e.Method, receiverVal.Type())
	}
	decl, ok := si.Definition.Methods[e.Method]
	if !ok {
		return nil, newError(FunctionNotFound, "struct %s has no method %q", si.Definition.Name, e.Method)
	}

	if !methodMutatesSelf(decl) {
		result, err := i.callMethod(decl, si, args)
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	// A mutating method runs against a clone, then writes the mutated fields back to the
	// receiver in place — the interpreter's write-back mechanism for self-mutation
	// (spec.md §4.4's "methods that mutate self" rule), distinct from reference-parameter
	// write-back which aliases directly via object.Reference.
	working := si.Clone()
	result, err := i.callMethod(decl, working, args)
	if err != nil {
		return nil, err
	}
	si.Fields = working.Fields
	return result, nil
}

// methodMutatesSelf reports whether decl's body reassigns any self.field, used to decide
// whether the interpreter needs to write the clone back to the receiver (spec.md §4.4).
func methodMutatesSelf(decl *ast.Function) bool {
	mutates := false
	var walkStmt func(ast.Statement)
	var walkBlock func(*ast.BlockStatement)

	walkBlock = func(b *ast.BlockStatement) {
		if b == nil {
			return
		}
		for _, s := range b.Statements {
			walkStmt(s)
		}
	}

	walkStmt = func(s ast.Statement) {
		switch st := s.(type) {
		case *ast.AssignmentStatement:
			if fa, ok := st.Target.(*ast.FieldAccessExpression); ok {
				if id, ok := fa.Object.(*ast.Identifier); ok && id.Value == "self" {
					mutates = true
				}
			}
		case *ast.IfStatement:
			walkBlock(st.Consequence)
			walkBlock(st.Alternative)
		case *ast.ForStatement:
			walkBlock(st.Body)
		case *ast.WhileStatement:
			walkBlock(st.Body)
		case *ast.SwitchStatement:
			for _, c := range st.Cases {
				walkBlock(c.Body)
			}
			walkBlock(st.Default)
		}
	}

	walkBlock(decl.Body)
	return mutates
}

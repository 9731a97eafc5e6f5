// ----------------------------------------------------------------------------
// FILE: interp/eval_stmt.go
// PURPOSE: Statement evaluation — declarations, assignment, control flow, and the
//          non-local-exit propagation rules for return/break/continue (spec.md §4.4).
// ----------------------------------------------------------------------------
package interp

import (
	"chif/ast"
	"chif/object"
)

// evalStatements runs a statement list in the CURRENT scope (no push/pop of its own), halting
// early and returning whatever Return/Break/Continue signal it encounters.
func (i *Interpreter) evalStatements(stmts []ast.Statement) (object.Object, error) {
	for _, s := range stmts {
		res, err := i.evalStatement(s)
		if err != nil {
			return nil, err
		}
		switch res.(type) {
		case *object.ReturnValue, *object.Break, *object.Continue:
			return res, nil
		}
	}
	return object.NIL, nil
}

// evalBlock is evalStatements wrapped in a fresh, discarded scope — used for if/while/switch
// bodies, which do not carry chif's for-loop merge-up behavior.
func (i *Interpreter) evalBlock(block *ast.BlockStatement) (object.Object, error) {
	i.pushScope()
	defer i.popScope()
	return i.evalStatements(block.Statements)
}

func (i *Interpreter) evalStatement(stmt ast.Statement) (object.Object, error) {
	switch s := stmt.(type) {
	case *ast.VarDeclStatement:
		return i.evalVarDeclStatement(s)
	case *ast.AssignmentStatement:
		return i.evalAssignmentStatement(s)
	case *ast.ExpressionStatement:
		if s.Expression == nil {
			return object.NIL, nil
		}
		_, err := i.evalExpression(s.Expression)
		return object.NIL, err
	case *ast.IfStatement:
		return i.evalIfStatement(s)
	case *ast.ForStatement:
		return i.evalForStatement(s)
	case *ast.WhileStatement:
		return i.evalWhileStatement(s)
	case *ast.SwitchStatement:
		return i.evalSwitchStatement(s)
	case *ast.ReturnStatement:
		if s.Value == nil {
			return &object.ReturnValue{Value: object.NIL}, nil
		}
		val, err := i.evalExpression(s.Value)
		if err != nil {
			return nil, err
		}
		return &object.ReturnValue{Value: val}, nil
	case *ast.BreakStatement:
		return &object.Break{}, nil
	case *ast.ContinueStatement:
		return &object.Continue{}, nil
	case *ast.BlockStatement:
		return i.evalBlock(s)
	default:
		return nil, newError(InvalidOperation, "unsupported statement type %T", stmt)
	}
}

func (i *Interpreter) evalVarDeclStatement(stmt *ast.VarDeclStatement) (object.Object, error) {
	val, err := i.evalExpression(stmt.Value)
	if err != nil {
		return nil, err
	}
	i.declare(stmt.Name, copyIfStruct(coerceToDeclaredContainer(stmt.Type, val)))
	return object.NIL, nil
}

// coerceToDeclaredContainer retags a `[...]`-literal result (always an Array, since the
// bracketed-literal grammar doesn't distinguish array from list) as a List when the binding's
// declared type says `list` (spec.md §3 distinguishes them by mutability, not by literal syntax).
func coerceToDeclaredContainer(declared ast.TypeExpr, val object.Object) object.Object {
	if _, ok := declared.(*ast.ListType); !ok {
		return val
	}
	if arr, ok := val.(*object.Array); ok {
		return &object.List{Elements: arr.Elements}
	}
	return val
}

func (i *Interpreter) evalAssignmentStatement(stmt *ast.AssignmentStatement) (object.Object, error) {
	switch target := stmt.Target.(type) {
	case *ast.Identifier:
		val, err := i.evalExpression(stmt.Value)
		if err != nil {
			return nil, err
		}
		i.assign(target.Value, copyIfStruct(val))
		return object.NIL, nil

	case *ast.IndexExpression:
		container, err := i.evalExpression(target.Left)
		if err != nil {
			return nil, err
		}
		idx, err := i.evalExpression(target.Index)
		if err != nil {
			return nil, err
		}
		val, err := i.evalExpression(stmt.Value)
		if err != nil {
			return nil, err
		}
		return object.NIL, i.assignIndex(container, idx, val)

	case *ast.FieldAccessExpression:
		obj, err := i.evalExpression(target.Object)
		if err != nil {
			return nil, err
		}
		val, err := i.evalExpression(stmt.Value)
		if err != nil {
			return nil, err
		}
		si, ok := obj.(*object.StructInstance)
		if !ok {
			return nil, newError(TypeMismatch, "cannot assign field %q on a %s", target.Field, obj.Type())
		}
		si.Fields[target.Field] = copyIfStruct(val)
		return object.NIL, nil

	case *ast.DereferenceExpression:
		ptrVal, err := i.evalExpression(target.Value)
		if err != nil {
			return nil, err
		}
		val, err := i.evalExpression(stmt.Value)
		if err != nil {
			return nil, err
		}
		switch pv := ptrVal.(type) {
		case *object.Reference:
			pv.Store(val)
		case *object.Pointer:
			*pv.Target = val
		default:
			return nil, newError(InvalidOperation, "cannot dereference-assign a %s", ptrVal.Type())
		}
		return object.NIL, nil

	default:
		return nil, newError(InvalidOperation, "invalid assignment target %T", stmt.Target)
	}
}

// assignIndex writes `container[index] = val` for Array, List, and Map targets.
func (i *Interpreter) assignIndex(container, index, val object.Object) error {
	switch c := container.(type) {
	case *object.Array:
		n, ok := index.(*object.Integer)
		if !ok {
			return newError(TypeMismatch, "array index must be Int, got %s", index.Type())
		}
		if n.Value < 0 || int(n.Value) >= len(c.Elements) {
			return newError(IndexOutOfBounds, "index %d out of bounds (len %d)", n.Value, len(c.Elements))
		}
		c.Elements[n.Value] = val
		return nil
	case *object.List:
		n, ok := index.(*object.Integer)
		if !ok {
			return newError(TypeMismatch, "list index must be Int, got %s", index.Type())
		}
		if n.Value < 0 || int(n.Value) >= len(c.Elements) {
			return newError(IndexOutOfBounds, "index %d out of bounds (len %d)", n.Value, len(c.Elements))
		}
		c.Elements[n.Value] = val
		return nil
	case *object.Map:
		key, ok := index.(*object.Str)
		if !ok {
			return newError(TypeMismatch, "map keys must be Str, got %s", index.Type())
		}
		c.Set(key.Value, val)
		return nil
	default:
		return newError(TypeMismatch, "cannot index-assign a %s", container.Type())
	}
}

func (i *Interpreter) evalIfStatement(stmt *ast.IfStatement) (object.Object, error) {
	cond, err := i.evalExpression(stmt.Condition)
	if err != nil {
		return nil, err
	}
	ok, err := truthy(cond)
	if err != nil {
		return nil, err
	}
	if ok {
		return i.evalBlock(stmt.Consequence)
	}
	if stmt.Alternative != nil {
		return i.evalBlock(stmt.Alternative)
	}
	return object.NIL, nil
}

// evalForStatement implements chif's C-style for loop, including the scope-merge-on-exit rule
// of spec.md §4.4: bindings made in the loop's own scope (the header variable, and anything
// the body declares) are folded into the parent scope once the loop exits, by any path.
func (i *Interpreter) evalForStatement(stmt *ast.ForStatement) (object.Object, error) {
	loopScope := i.pushScope()
	defer func() {
		i.popScope()
		i.mergeIntoCurrent(loopScope)
	}()

	initVal, err := i.evalExpression(stmt.Init.Value)
	if err != nil {
		return nil, err
	}
	loopScope[stmt.Init.Name] = initVal

	for {
		condVal, err := i.evalExpression(stmt.Condition)
		if err != nil {
			return nil, err
		}
		proceed, err := truthy(condVal)
		if err != nil {
			return nil, err
		}
		if !proceed {
			return object.NIL, nil
		}

		signal, err := i.evalStatements(stmt.Body.Statements)
		if err != nil {
			return nil, err
		}
		if signal != nil {
			switch signal.(type) {
			case *object.Break:
				return object.NIL, nil
			case *object.ReturnValue:
				return signal, nil
			}
		}

		if stmt.Update != nil {
			if _, err := i.evalStatement(stmt.Update); err != nil {
				return nil, err
			}
		}
	}
}

func (i *Interpreter) evalWhileStatement(stmt *ast.WhileStatement) (object.Object, error) {
	for {
		condVal, err := i.evalExpression(stmt.Condition)
		if err != nil {
			return nil, err
		}
		proceed, err := truthy(condVal)
		if err != nil {
			return nil, err
		}
		if !proceed {
			return object.NIL, nil
		}

		i.pushScope()
		signal, err := i.evalStatements(stmt.Body.Statements)
		i.popScope()
		if err != nil {
			return nil, err
		}
		if signal != nil {
			switch signal.(type) {
			case *object.Break:
				return object.NIL, nil
			case *object.ReturnValue:
				return signal, nil
			}
		}
	}
}

func (i *Interpreter) evalSwitchStatement(stmt *ast.SwitchStatement) (object.Object, error) {
	scrut, err := i.evalExpression(stmt.Scrutinee)
	if err != nil {
		return nil, err
	}
	for _, c := range stmt.Cases {
		caseVal, err := i.evalExpression(c.Value)
		if err != nil {
			return nil, err
		}
		if object.Equal(scrut, caseVal) {
			return i.evalBlock(c.Body)
		}
	}
	if stmt.Default != nil {
		return i.evalBlock(stmt.Default)
	}
	return object.NIL, nil
}

// mergeIntoCurrent folds scope's bindings into whatever scope is now on top of the stack (or
// globals, if the stack is empty).
func (i *Interpreter) mergeIntoCurrent(scope map[string]object.Object) {
	var dest map[string]object.Object
	if len(i.locals) > 0 {
		dest = i.locals[len(i.locals)-1]
	} else {
		dest = i.globals
	}
	for k, v := range scope {
		dest[k] = v
	}
}

func truthy(val object.Object) (bool, error) {
	b, ok := val.(*object.Bool)
	if !ok {
		return false, newError(TypeMismatch, "condition must be Bool, got %s", val.Type())
	}
	return b.Value, nil
}

// copyIfStruct preserves value semantics for records (spec.md §1 Non-goals: no heap
// allocation, records copied at their binding sites) when a StructInstance is bound to a new
// name via declaration or assignment.
func copyIfStruct(val object.Object) object.Object {
	if si, ok := val.(*object.StructInstance); ok {
		return si.Clone()
	}
	return val
}

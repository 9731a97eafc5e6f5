// ----------------------------------------------------------------------------
// FILE: semantic/returns.go
// PURPOSE: Return-coverage predicate (spec.md §4.3/§8): a block "always returns" iff one
//          of its statements always returns. A `return` always returns; an `if` with
//          both arms always returning always returns; a `switch` with a default case and
//          every case (including default) always returning always returns. Nothing else
//          satisfies the predicate.
// ----------------------------------------------------------------------------
package semantic

import "chif/ast"

// AlwaysReturns reports whether block is guaranteed to execute a `return` on every path.
func AlwaysReturns(block *ast.BlockStatement) bool {
	if block == nil {
		return false
	}
	for _, stmt := range block.Statements {
		if stmtAlwaysReturns(stmt) {
			return true
		}
	}
	return false
}

func stmtAlwaysReturns(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStatement:
		return true
	case *ast.IfStatement:
		return s.Alternative != nil && AlwaysReturns(s.Consequence) && AlwaysReturns(s.Alternative)
	case *ast.SwitchStatement:
		if s.Default == nil || !AlwaysReturns(s.Default) {
			return false
		}
		for _, c := range s.Cases {
			if !AlwaysReturns(c.Body) {
				return false
			}
		}
		return true
	case *ast.BlockStatement:
		return AlwaysReturns(s)
	default:
		return false
	}
}

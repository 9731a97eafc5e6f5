// ----------------------------------------------------------------------------
// FILE: semantic/mutability.go
// PURPOSE: Method-mutability inference (spec.md §4.3): for a method whose first
//          parameter is `self`, walk the body looking for any assignment whose target is
//          a field access based on `self`. If one exists anywhere, the method is flagged
//          mutating. This informs the interpreter's alias-write-back behavior but does
//          not gate compilation.
// ----------------------------------------------------------------------------
package semantic

import "chif/ast"

// methodMutatesSelf reports whether fn's body assigns to any `self.field`.
func methodMutatesSelf(fn *ast.Function) bool {
	if len(fn.Params) == 0 || !fn.Params[0].IsSelf {
		return false
	}
	return blockMutatesSelf(fn.Body)
}

func blockMutatesSelf(block *ast.BlockStatement) bool {
	if block == nil {
		return false
	}
	for _, stmt := range block.Statements {
		if stmtMutatesSelf(stmt) {
			return true
		}
	}
	return false
}

func stmtMutatesSelf(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.AssignmentStatement:
		return targetIsSelfField(s.Target)
	case *ast.IfStatement:
		return blockMutatesSelf(s.Consequence) || blockMutatesSelf(s.Alternative)
	case *ast.ForStatement:
		return blockMutatesSelf(s.Body)
	case *ast.WhileStatement:
		return blockMutatesSelf(s.Body)
	case *ast.SwitchStatement:
		for _, c := range s.Cases {
			if blockMutatesSelf(c.Body) {
				return true
			}
		}
		return blockMutatesSelf(s.Default)
	case *ast.BlockStatement:
		return blockMutatesSelf(s)
	default:
		return false
	}
}

// targetIsSelfField reports whether target is `self.field` (not a nested dereference or
// index — the acknowledged write-back limitation of spec.md §4.4/§9 covers only direct
// field assignment on self).
func targetIsSelfField(target ast.Expression) bool {
	fa, ok := target.(*ast.FieldAccessExpression)
	if !ok {
		return false
	}
	id, ok := fa.Object.(*ast.Identifier)
	return ok && id.Value == "self"
}

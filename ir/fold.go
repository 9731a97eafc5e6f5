// ----------------------------------------------------------------------------
// FILE: ir/fold.go
// PURPOSE: AST-level constant folding for literal-only prefix/infix expressions
//          (spec.md §4.5's only permitted local optimization; no broader optimization
//          pass is in scope). Grounded on original_source/src/ir_gen.rs's constant-fold
//          pre-pass over literal operands.
// ----------------------------------------------------------------------------
package ir

import "chif/ast"

func literalValue(e ast.Expression) (interface{}, bool) {
	switch l := e.(type) {
	case *ast.IntegerLiteral:
		return l.Value, true
	case *ast.FloatLiteral:
		return l.Value, true
	case *ast.BooleanLiteral:
		return l.Value, true
	case *ast.StringLiteral:
		return l.Value, true
	case *ast.PrefixExpression:
		return foldPrefix(l)
	case *ast.InfixExpression:
		return foldInfix(l)
	default:
		return nil, false
	}
}

// foldPrefix folds a unary operator applied to a literal operand.
func foldPrefix(e *ast.PrefixExpression) (interface{}, bool) {
	v, ok := literalValue(e.Right)
	if !ok {
		return nil, false
	}
	switch e.Operator {
	case "-":
		switch n := v.(type) {
		case int64:
			return -n, true
		case float64:
			return -n, true
		}
	case "!":
		if bv, ok := v.(bool); ok {
			return !bv, true
		}
	}
	return nil, false
}

// foldInfix folds a binary operator applied to two literal operands.
func foldInfix(e *ast.InfixExpression) (interface{}, bool) {
	lv, ok := literalValue(e.Left)
	if !ok {
		return nil, false
	}
	rv, ok := literalValue(e.Right)
	if !ok {
		return nil, false
	}

	switch e.Operator {
	case "+":
		if ls, ok := lv.(string); ok {
			if rs, ok := rv.(string); ok {
				return ls + rs, true
			}
			return nil, false
		}
	}

	lf, lIsNum := toFloat(lv)
	rf, rIsNum := toFloat(rv)
	if !lIsNum || !rIsNum {
		return foldBoolOp(e.Operator, lv, rv)
	}

	_, lIsFloat := lv.(float64)
	_, rIsFloat := rv.(float64)
	resultIsFloat := lIsFloat || rIsFloat

	switch e.Operator {
	case "+":
		return numResult(lf+rf, resultIsFloat), true
	case "-":
		return numResult(lf-rf, resultIsFloat), true
	case "*":
		return numResult(lf*rf, resultIsFloat), true
	case "/":
		if rf == 0 {
			return nil, false
		}
		return numResult(lf/rf, resultIsFloat), true
	case "<":
		return lf < rf, true
	case "<=":
		return lf <= rf, true
	case ">":
		return lf > rf, true
	case ">=":
		return lf >= rf, true
	case "==":
		return lf == rf, true
	case "!=":
		return lf != rf, true
	}
	return nil, false
}

func foldBoolOp(op string, lv, rv interface{}) (interface{}, bool) {
	switch op {
	case "&&":
		if lb, ok := lv.(bool); ok {
			if rb, ok := rv.(bool); ok {
				return lb && rb, true
			}
		}
	case "||":
		if lb, ok := lv.(bool); ok {
			if rb, ok := rv.(bool); ok {
				return lb || rb, true
			}
		}
	case "==":
		return lv == rv, true
	case "!=":
		return lv != rv, true
	}
	return nil, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func numResult(f float64, asFloat bool) interface{} {
	if asFloat {
		return f
	}
	return int64(f)
}

// ----------------------------------------------------------------------------
// FILE: semantic/typeexpr.go
// PURPOSE: Resolves the parser's syntactic ast.TypeExpr into a semantic.Type. A struct
//          name resolves to StructType{Name} without consulting the struct registry —
//          chif allows a field/parameter to name a struct before its definition is seen
//          in file order, so existence is checked lazily at the use sites that actually
//          need the full definition (struct literals, field access, method dispatch).
// ----------------------------------------------------------------------------
package semantic

import "chif/ast"

var scalarNames = map[string]Type{
	"int":   IntType{},
	"float": FloatType{},
	"str":   StrType{},
	"bool":  BoolType{},
	"nil":   NilType{},
}

// ResolveTypeExpr converts a parsed TypeExpr into its static Type.
func ResolveTypeExpr(te ast.TypeExpr) (Type, error) {
	switch t := te.(type) {
	case *ast.NamedType:
		if scalar, ok := scalarNames[t.Name]; ok {
			return scalar, nil
		}
		return StructType{Name: t.Name}, nil

	case *ast.ArrayType:
		elem, err := ResolveTypeExpr(t.Element)
		if err != nil {
			return nil, err
		}
		sizes := append([]int(nil), t.Sizes...)
		return ArrayType{Element: elem, Sizes: sizes}, nil

	case *ast.ListType:
		elem, err := ResolveTypeExpr(t.Element)
		if err != nil {
			return nil, err
		}
		return ListType{Element: elem, Dims: t.Dims}, nil

	case *ast.MapType:
		key, err := ResolveTypeExpr(t.Key)
		if err != nil {
			return nil, err
		}
		val, err := ResolveTypeExpr(t.Value)
		if err != nil {
			return nil, err
		}
		return MapType{Key: key, Value: val}, nil

	case *ast.PointerType:
		if t.Target == nil {
			return PointerType{Target: nil}, nil
		}
		target, err := ResolveTypeExpr(t.Target)
		if err != nil {
			return nil, err
		}
		return PointerType{Target: target}, nil

	default:
		return nil, newError(InvalidOperation, 0, 0, "unsupported type expression %T", te)
	}
}

// functionSignature builds a FunctionSignature from a Function's parameter/return-type
// AST. The self parameter (IsSelf) contributes no entry to Params — its type is the
// enclosing struct, supplied by the caller (semantic analysis of an impl block) rather
// than by resolving a TypeExpr (Parameter.Type is left nil for self, per ast.Parameter's
// contract).
func functionSignature(fn *ast.Function) (*FunctionSignature, error) {
	sig := &FunctionSignature{Name: fn.Name, IsMain: fn.IsMain}
	for _, p := range fn.Params {
		if p.IsSelf {
			continue
		}
		t, err := ResolveTypeExpr(p.Type)
		if err != nil {
			return nil, err
		}
		sig.Params = append(sig.Params, t)
		sig.ParamNames = append(sig.ParamNames, p.Name)
	}
	if fn.ReturnType != nil {
		rt, err := ResolveTypeExpr(fn.ReturnType)
		if err != nil {
			return nil, err
		}
		sig.ReturnType = rt
	}
	sig.IsMutating = methodMutatesSelf(fn)
	return sig, nil
}

func structInfoFromDef(def *ast.StructDef) (*StructInfo, error) {
	si := &StructInfo{Name: def.Name, Methods: make(map[string]*FunctionSignature)}
	for _, f := range def.Fields {
		t, err := ResolveTypeExpr(f.Type)
		if err != nil {
			return nil, err
		}
		si.Fields = append(si.Fields, StructFieldInfo{Name: f.Name, Type: t})
	}
	return si, nil
}

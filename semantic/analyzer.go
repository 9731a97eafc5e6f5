// ----------------------------------------------------------------------------
// FILE: semantic/analyzer.go
// PURPOSE: The three-pass Semantic Analyzer (spec.md §4.3): (1) definition collection,
//          including import resolution; (2)/(3) per-function scope/loop-context/type
//          analysis, combined into one statement walk per function body (see
//          analyzeFunction below and the statement walk in typecheck.go) — grounded on
//          other_examples/.../Zenith__semantic_analyzer.go's register-then-typecheck
//          split and on original_source/src/semantic.rs's three-pass structure.
// ----------------------------------------------------------------------------
package semantic

import (
	"chif/ast"
)

// AnalyzedProgram is everything downstream consumers (interp, ir, cmd/chif) need: the
// parsed Program, the populated SymbolTable, resolved imports, top-level definitions, and
// the per-expression ResolvedTypes side-table (SPEC_FULL.md §9's "Method dispatch in IR"
// and "Dereference type" decisions — both resolved via this table rather than by
// enumerating fixed record names).
type AnalyzedProgram struct {
	Program       *ast.Program
	Symbols       *SymbolTable
	Modules       map[string]*ResolvedModule
	Structs       map[string]*StructInfo
	Functions     map[string]*FunctionSignature
	ResolvedTypes map[ast.Expression]Type
	MainFunc      *ast.Function
}

// Analyzer carries the mutable state threaded through all three passes.
type Analyzer struct {
	symbols       *SymbolTable
	structs       map[string]*StructInfo
	functions     map[string]*FunctionSignature
	modules       map[string]*ResolvedModule
	resolvedTypes map[ast.Expression]Type
	baseDir       string
	cache         *moduleCache

	mainFunc *ast.Function

	// Per-function-walk cursor state (spec.md §4.3 pass 2): reset at the start of each
	// analyzeFunction call.
	inLoop            bool
	currentReturnType Type
	currentIsMain     bool
	currentSelf       string // enclosing struct name, "" outside a method body
}

// Analyze runs all three passes over program and returns the populated AnalyzedProgram,
// or the first error encountered (spec.md §7 propagation policy: no recovery).
func Analyze(program *ast.Program, baseDir string) (*AnalyzedProgram, error) {
	a := &Analyzer{
		symbols:       NewSymbolTable(),
		structs:       make(map[string]*StructInfo),
		functions:     make(map[string]*FunctionSignature),
		modules:       make(map[string]*ResolvedModule),
		resolvedTypes: make(map[ast.Expression]Type),
		baseDir:       baseDir,
		cache:         newModuleCache(),
	}
	a.seedBuiltins()

	if err := a.collectDefinitions(program); err != nil {
		return nil, err
	}
	if err := a.analyzeFunctionBodies(program); err != nil {
		return nil, err
	}

	return &AnalyzedProgram{
		Program:       program,
		Symbols:       a.symbols,
		Modules:       a.modules,
		Structs:       a.structs,
		Functions:     a.functions,
		ResolvedTypes: a.resolvedTypes,
		MainFunc:      a.mainFunc,
	}, nil
}

// seedBuiltins defines con, http, and the free-function builtins in the global scope
// (spec.md §4.3 "Built-in identifiers are seeded here"; signatures from SPEC_FULL.md §10).
func (a *Analyzer) seedBuiltins() {
	con := &ModuleInfo{Name: "con", Functions: map[string]*FunctionSignature{
		"out": {Name: "out", Params: []Type{NilType{}}, ReturnType: NilType{}},
		"in":  {Name: "in", ReturnType: StrType{}},
	}}
	httpMod := &ModuleInfo{Name: "http", Functions: map[string]*FunctionSignature{
		"get":    {Name: "get", Params: []Type{StrType{}}, ReturnType: StrType{}},
		"post":   {Name: "post", Params: []Type{StrType{}, StrType{}}, ReturnType: StrType{}},
		"put":    {Name: "put", Params: []Type{StrType{}, StrType{}}, ReturnType: StrType{}},
		"delete": {Name: "delete", Params: []Type{StrType{}}, ReturnType: StrType{}},
	}}
	a.symbols.DefineGlobal(&Symbol{Name: "con", Kind: SymModule, Module: con})
	a.symbols.DefineGlobal(&Symbol{Name: "http", Kind: SymModule, Module: httpMod})

	builtins := []*FunctionSignature{
		{Name: "randi", Params: []Type{IntType{}, IntType{}}, ReturnType: IntType{}},
		{Name: "randf", Params: []Type{FloatType{}, FloatType{}}, ReturnType: FloatType{}},
		{Name: "rands", Params: []Type{StrType{}, StrType{}}, ReturnType: StrType{}},
		{Name: "int", Params: nil, ReturnType: IntType{}},
		{Name: "float", Params: nil, ReturnType: FloatType{}},
		{Name: "str", Params: nil, ReturnType: StrType{}},
	}
	for _, sig := range builtins {
		a.functions[sig.Name] = sig
		a.symbols.DefineGlobal(&Symbol{Name: sig.Name, Kind: SymFunction, Func: sig})
	}
}

// collectDefinitions is pass 1: registers every top-level function, struct, and mangled
// method (Struct_method) in the global scope, and resolves every import (spec.md §4.3).
func (a *Analyzer) collectDefinitions(program *ast.Program) error {
	for _, item := range program.Items {
		def, ok := item.(*ast.StructDef)
		if !ok {
			continue
		}
		si, err := structInfoFromDef(def)
		if err != nil {
			return err
		}
		a.structs[def.Name] = si
		if err := a.symbols.DefineGlobal(&Symbol{Name: def.Name, Kind: SymStruct, Struct: si}); err != nil {
			return err
		}
	}

	for _, item := range program.Items {
		switch it := item.(type) {
		case *ast.Function:
			if err := a.defineFunction(it); err != nil {
				return err
			}
		case *ast.StructImpl:
			si, ok := a.structs[it.StructName]
			if !ok {
				return newError(UndefinedSymbol, it.Token.Line, it.Token.Column, "fn_for refers to undefined struct %q", it.StructName)
			}
			for _, m := range it.Methods {
				sig, err := functionSignature(m)
				if err != nil {
					return err
				}
				si.Methods[m.Name] = sig
				mangled := it.StructName + "_" + m.Name
				a.functions[mangled] = sig
				if err := a.symbols.DefineGlobal(&Symbol{Name: mangled, Kind: SymFunction, Func: sig, Line: m.Token.Line, Column: m.Token.Column}); err != nil {
					return err
				}
			}
		case *ast.Import:
			rm, err := a.resolveImport(it)
			if err != nil {
				return err
			}
			a.modules[rm.Alias] = rm
			if err := a.symbols.DefineGlobal(&Symbol{Name: rm.Alias, Kind: SymModule, Module: rm.Info, Line: it.Token.Line, Column: it.Token.Column}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Analyzer) defineFunction(fn *ast.Function) error {
	if fn.IsMain {
		if a.mainFunc != nil {
			return newError(DuplicateSymbol, fn.Token.Line, fn.Token.Column, "duplicate chif main() entry point")
		}
		a.mainFunc = fn
	}
	sig, err := functionSignature(fn)
	if err != nil {
		return err
	}
	a.functions[fn.Name] = sig
	return a.symbols.DefineGlobal(&Symbol{Name: fn.Name, Kind: SymFunction, Func: sig, Line: fn.Token.Line, Column: fn.Token.Column})
}

// analyzeFunctionBodies is passes 2+3: every free function and every method body is
// walked once, establishing scopes/loop-context (pass 2) and checking types (pass 3) in
// the same traversal (a common, defensible merge of the two passes described separately
// in spec.md §4.3 — see DESIGN.md).
func (a *Analyzer) analyzeFunctionBodies(program *ast.Program) error {
	for _, item := range program.Items {
		switch it := item.(type) {
		case *ast.Function:
			if err := a.analyzeFunction(it, ""); err != nil {
				return err
			}
		case *ast.StructImpl:
			for _, m := range it.Methods {
				if err := a.analyzeFunction(m, it.StructName); err != nil {
					return err
				}
			}
		}
	}
	if a.mainFunc == nil {
		return newError(UndefinedSymbol, 0, 0, "no chif main() declared")
	}
	return nil
}

// analyzeFunction pushes a fresh scope, binds parameters (reference parameters marked
// mutable per spec.md §4.3), sets the return-type/inLoop cursor, and walks the body.
func (a *Analyzer) analyzeFunction(fn *ast.Function, structName string) error {
	a.symbols.PushScope()
	defer a.symbols.PopScope()

	savedLoop, savedRet, savedMain, savedSelf := a.inLoop, a.currentReturnType, a.currentIsMain, a.currentSelf
	a.inLoop = false
	a.currentIsMain = fn.IsMain
	a.currentSelf = structName
	if fn.ReturnType != nil {
		rt, err := ResolveTypeExpr(fn.ReturnType)
		if err != nil {
			return err
		}
		a.currentReturnType = rt
	} else {
		a.currentReturnType = nil
	}
	defer func() {
		a.inLoop, a.currentReturnType, a.currentIsMain, a.currentSelf = savedLoop, savedRet, savedMain, savedSelf
	}()

	for _, p := range fn.Params {
		if p.IsSelf {
			if err := a.symbols.Define(&Symbol{Name: "self", Kind: SymVariable, VarType: StructType{Name: structName}, IsMutable: true}); err != nil {
				return err
			}
			continue
		}
		t, err := ResolveTypeExpr(p.Type)
		if err != nil {
			return err
		}
		if err := a.symbols.Define(&Symbol{Name: p.Name, Kind: SymVariable, VarType: t, IsMutable: p.IsReference}); err != nil {
			return err
		}
	}

	if err := a.analyzeBlock(fn.Body); err != nil {
		return err
	}

	if fn.ReturnType != nil && !fn.IsMain {
		if _, isNil := a.currentReturnType.(NilType); !isNil {
			if !AlwaysReturns(fn.Body) {
				return newError(InvalidOperation, fn.Token.Line, fn.Token.Column,
					"function %q does not return a value on every path", fn.Name)
			}
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// FILE: semantic/symboltable.go
// PURPOSE: Arena-of-scopes symbol table (spec.md §9 "Scope chain as arena"). Scopes are
//          stored in a flat slice, each holding a parent index rather than a back-pointer;
//          "current scope" is a single integer cursor — grounded directly on
//          original_source/src/semantic.rs's Scope/SymbolTable (push_scope/pop_scope/
//          current_scope).
// ----------------------------------------------------------------------------
package semantic

// SymbolKind distinguishes what a Symbol names.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymFunction
	SymStruct
	SymModule
)

// FunctionSignature is a callable's shape: parameter types in order (self excluded),
// declared return type (nil means Nil/void), and whether it was flagged mutating by
// method-mutability inference (spec.md §4.3).
type FunctionSignature struct {
	Name       string
	Params     []Type
	ParamNames []string
	ReturnType Type
	IsMutating bool
	IsMain     bool
}

// StructFieldInfo is one field's name and declared type, in declaration order.
type StructFieldInfo struct {
	Name string
	Type Type
}

// StructInfo is a record definition: its fields in order and its mangled method set
// (spec.md §4.5 "Method mangling": `Struct_method`).
type StructInfo struct {
	Name    string
	Fields  []StructFieldInfo
	Methods map[string]*FunctionSignature
}

func (s *StructInfo) FieldType(name string) (Type, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// ModuleInfo is a seeded or imported pseudo-record: a namespace of functions, structs,
// and (for `con`/`http`) built-in method signatures.
type ModuleInfo struct {
	Name      string
	Functions map[string]*FunctionSignature
	Structs   map[string]*StructInfo
}

// Symbol is one entry in a Scope: a name bound to a kind-specific payload, its source
// location, and (for variables) a mutability flag distinguishing `let` from `var`
// (SPEC_FULL.md §9).
type Symbol struct {
	Name      string
	Kind      SymbolKind
	VarType   Type
	Func      *FunctionSignature
	Struct    *StructInfo
	Module    *ModuleInfo
	IsMutable bool
	Line      int
	Column    int
}

type scope struct {
	symbols map[string]*Symbol
	parent  int // -1 for the root scope
}

// SymbolTable is the arena: a flat slice of scopes plus a cursor naming the scope
// currently being defined into or looked up from.
type SymbolTable struct {
	scopes  []*scope
	current int
}

// NewSymbolTable builds a table with a single root (global) scope as the current scope.
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{}
	st.scopes = append(st.scopes, &scope{symbols: make(map[string]*Symbol), parent: -1})
	st.current = 0
	return st
}

// PushScope opens a new scope whose parent is the current cursor, and makes it current.
func (st *SymbolTable) PushScope() {
	st.scopes = append(st.scopes, &scope{symbols: make(map[string]*Symbol), parent: st.current})
	st.current = len(st.scopes) - 1
}

// PopScope resets the cursor to the current scope's parent. Popping the root scope is a
// caller bug (never happens in a well-formed walk) and is a silent no-op rather than a
// panic, since the arena never actually needs to shrink.
func (st *SymbolTable) PopScope() {
	if st.scopes[st.current].parent == -1 {
		return
	}
	st.current = st.scopes[st.current].parent
}

// Define binds name in the current scope. Redefining a name already bound in the SAME
// scope is a DuplicateSymbol error; shadowing an outer scope's binding is allowed.
func (st *SymbolTable) Define(sym *Symbol) error {
	s := st.scopes[st.current]
	if _, exists := s.symbols[sym.Name]; exists {
		return newError(DuplicateSymbol, sym.Line, sym.Column, "%q is already defined in this scope", sym.Name)
	}
	s.symbols[sym.Name] = sym
	return nil
}

// DefineGlobal binds name in the root (scope 0) scope regardless of the current cursor —
// used for top-level definition collection (pass 1), which always targets the global scope.
func (st *SymbolTable) DefineGlobal(sym *Symbol) error {
	s := st.scopes[0]
	if _, exists := s.symbols[sym.Name]; exists {
		return newError(DuplicateSymbol, sym.Line, sym.Column, "%q is already defined", sym.Name)
	}
	s.symbols[sym.Name] = sym
	return nil
}

// Lookup walks from the current scope to the root, returning the first binding found.
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	idx := st.current
	for idx != -1 {
		if sym, ok := st.scopes[idx].symbols[name]; ok {
			return sym, true
		}
		idx = st.scopes[idx].parent
	}
	return nil, false
}

// LookupLocal reports whether name is bound in the current scope specifically, without
// walking to parents — used to detect shadowing-vs-redeclaration distinctions.
func (st *SymbolTable) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := st.scopes[st.current].symbols[name]
	return sym, ok
}

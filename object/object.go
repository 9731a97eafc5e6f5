// ==============================================================================================
// FILE: object/object.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: Defines chif's runtime value model — the tagged values the Interpreter produces and
//          consumes. Every value implements Object; the concrete set below is closed, matching
//          the tagged-value union of spec.md §3.
// ==============================================================================================

package object

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"chif/ast"
)

// ObjectType identifies the runtime tag of a value.
type ObjectType string

const (
	INTEGER_OBJ  ObjectType = "INTEGER"
	FLOAT_OBJ    ObjectType = "FLOAT"
	BOOL_OBJ     ObjectType = "BOOL"
	STRING_OBJ   ObjectType = "STRING"
	NIL_OBJ      ObjectType = "NIL"
	ARRAY_OBJ    ObjectType = "ARRAY"
	LIST_OBJ     ObjectType = "LIST"
	MAP_OBJ      ObjectType = "MAP"
	STRUCT_DEFINITION_OBJ ObjectType = "STRUCT_DEFINITION"
	STRUCT_INSTANCE_OBJ   ObjectType = "STRUCT_INSTANCE"
	POINTER_OBJ  ObjectType = "POINTER"
	REFERENCE_OBJ ObjectType = "REFERENCE"
	FUNCTION_OBJ ObjectType = "FUNCTION"
	BUILTIN_OBJ  ObjectType = "BUILTIN"
	MODULE_OBJ   ObjectType = "MODULE"

	// Internal non-local-exit wrappers. These are never surfaced to user code and are
	// distinguished from true runtime errors, which the interpreter threads through Go's
	// native `error` return value instead of as Objects (spec.md §7/§9).
	RETURN_VALUE_OBJ ObjectType = "RETURN_VALUE"
	BREAK_OBJ        ObjectType = "BREAK"
	CONTINUE_OBJ     ObjectType = "CONTINUE"
)

// Object is the interface every chif runtime value implements.
type Object interface {
	Type() ObjectType
	Inspect() string
}

// ==============================================================================================
// SCALARS
// ==============================================================================================

type Integer struct{ Value int64 }

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

type Float struct{ Value float64 }

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return fmt.Sprintf("%g", f.Value) }

type Bool struct{ Value bool }

func (b *Bool) Type() ObjectType { return BOOL_OBJ }
func (b *Bool) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

type Str struct{ Value string }

func (s *Str) Type() ObjectType { return STRING_OBJ }
func (s *Str) Inspect() string  { return s.Value }

type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

// Singleton instances reused for every Bool/Nil value so identity comparisons and allocation
// pressure both stay low — the pattern the teacher's evaluator uses for TRUE/FALSE/NULL.
var (
	TRUE  = &Bool{Value: true}
	FALSE = &Bool{Value: false}
	NIL   = &Nil{}
)

// NativeBool returns the shared Bool singleton for a Go bool.
func NativeBool(b bool) *Bool {
	if b {
		return TRUE
	}
	return FALSE
}

// ==============================================================================================
// CONTAINERS
// ==============================================================================================

// Array is chif's fixed-size container — its length never changes after construction.
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string  { return inspectElements(a.Elements) }

// List is chif's growable container; the interpreter's add/addAt/del list methods mutate
// Elements in place.
type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string  { return inspectElements(l.Elements) }

func inspectElements(elems []Object) string {
	var out bytes.Buffer
	parts := make([]string, len(elems))
	for i, el := range elems {
		parts[i] = el.Inspect()
	}
	out.WriteString("[")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("]")
	return out.String()
}

// Map is string-keyed only, per spec.md §3 ("keys restricted to Str at runtime") — this lets
// the runtime representation be a plain Go map instead of the teacher's FNV hash-key scheme.
type Map struct {
	Pairs map[string]Object
	// Order preserves insertion order for deterministic Inspect() output; Go map iteration
	// order is randomized and would make every test and REPL print flaky otherwise.
	Order []string
}

func NewMap() *Map {
	return &Map{Pairs: make(map[string]Object)}
}

func (m *Map) Set(key string, val Object) {
	if _, exists := m.Pairs[key]; !exists {
		m.Order = append(m.Order, key)
	}
	m.Pairs[key] = val
}

func (m *Map) Type() ObjectType { return MAP_OBJ }
func (m *Map) Inspect() string {
	var out bytes.Buffer
	parts := make([]string, 0, len(m.Order))
	for _, k := range m.Order {
		parts = append(parts, fmt.Sprintf("%q: %s", k, m.Pairs[k].Inspect()))
	}
	out.WriteString("{")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("}")
	return out.String()
}

// ==============================================================================================
// POINTERS AND REFERENCES
// ==============================================================================================

// Pointer is a materialized indirection to a boxed temporary (spec.md §3): `&expr` where expr
// is not a bare identifier.
type Pointer struct {
	Target *Object
}

func (p *Pointer) Type() ObjectType { return POINTER_OBJ }
func (p *Pointer) Inspect() string  { return "pointer(" + (*p.Target).Inspect() + ")" }

// Reference is an l-value alias produced by `&name` where name is a bare identifier: it reads
// and writes through the exact scope map that owns the binding, so mutations made through a
// Reference are visible to every other holder of the same variable (spec.md §3/§4.4).
type Reference struct {
	Name  string
	Scope map[string]Object
}

func (r *Reference) Type() ObjectType { return REFERENCE_OBJ }
func (r *Reference) Inspect() string  { return "reference(" + r.Name + ")" }

func (r *Reference) Load() Object       { return r.Scope[r.Name] }
func (r *Reference) Store(val Object) { r.Scope[r.Name] = val }

// ==============================================================================================
// RECORDS
// ==============================================================================================

// StructDefinition is the blueprint for a record: its declared field order and the method set
// attached to it via `fn_for`.
type StructDefinition struct {
	Name       string
	FieldOrder []string
	Methods    map[string]*ast.Function
}

func (sd *StructDefinition) Type() ObjectType { return STRUCT_DEFINITION_OBJ }
func (sd *StructDefinition) Inspect() string  { return "struct " + sd.Name }

// StructInstance is a concrete record value; Fields is keyed by field name, values copied by
// assignment (records are value-typed, per spec.md §1 Non-goals: no heap allocation).
type StructInstance struct {
	Definition *StructDefinition
	Fields     map[string]Object
}

func (si *StructInstance) Type() ObjectType { return STRUCT_INSTANCE_OBJ }
func (si *StructInstance) Inspect() string {
	var out bytes.Buffer
	out.WriteString(si.Definition.Name)
	out.WriteString("{")
	parts := make([]string, len(si.Definition.FieldOrder))
	for i, name := range si.Definition.FieldOrder {
		parts[i] = fmt.Sprintf("%s: %s", name, si.Fields[name].Inspect())
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("}")
	return out.String()
}

// Clone returns a field-by-field copy, used when a struct variable is passed as a mutating
// method's `self` so the method operates on an independent value (spec.md §4.4).
func (si *StructInstance) Clone() *StructInstance {
	fields := make(map[string]Object, len(si.Fields))
	for k, v := range si.Fields {
		fields[k] = v
	}
	return &StructInstance{Definition: si.Definition, Fields: fields}
}

// ==============================================================================================
// FUNCTIONS
// ==============================================================================================

// Function wraps a user-declared top-level function or method for lookup via the module
// registry / struct definition's Methods map.
type Function struct {
	Decl *ast.Function
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "fn " + f.Decl.Name + "(...)" }

// Builtin wraps a Go-implemented function exposed to chif programs (con.out, randi, ...).
type Builtin struct {
	Name string
	Fn   func(args ...Object) (Object, error)
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin " + b.Name }

// Module is the runtime value bound to an import alias; it carries the imported file's
// top-level functions and struct definitions, looked up as Module.Members["bar"].
type Module struct {
	Name    string
	Members map[string]Object
}

func (m *Module) Type() ObjectType { return MODULE_OBJ }
func (m *Module) Inspect() string  { return "module " + m.Name }

// ==============================================================================================
// NON-LOCAL EXIT WRAPPERS
// ==============================================================================================

// ReturnValue, Break, and Continue are the interpreter's distinct non-local-exit signals
// (spec.md §4.4/§9) — each block executor checks for them after evaluating a statement and
// propagates immediately rather than continuing the block, and they are never mistaken for a
// true runtime error since those travel through Go's `error` return value instead.
type ReturnValue struct{ Value Object }

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

type Break struct{}

func (b *Break) Type() ObjectType { return BREAK_OBJ }
func (b *Break) Inspect() string  { return "break" }

type Continue struct{}

func (c *Continue) Type() ObjectType { return CONTINUE_OBJ }
func (c *Continue) Inspect() string  { return "continue" }

// ==============================================================================================
// VALUE EQUALITY
// ==============================================================================================

// floatEpsilon is the machine epsilon for float64, used for float equality comparisons.
var floatEpsilon = math.Nextafter(1, 2) - 1

// Equal implements spec.md §4.4's value-equality law: same tag, same content, float
// comparison via epsilon. Reference/Pointer equality is deliberately undefined (returns false)
// since spec.md leaves it unspecified.
func Equal(a, b Object) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case *Integer:
		return av.Value == b.(*Integer).Value
	case *Float:
		return math.Abs(av.Value-b.(*Float).Value) <= floatEpsilon
	case *Bool:
		return av.Value == b.(*Bool).Value
	case *Str:
		return av.Value == b.(*Str).Value
	case *Nil:
		return true
	default:
		return false
	}
}

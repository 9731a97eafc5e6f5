// ==============================================================================================
// FILE: ir/ir.go
// ==============================================================================================
// PACKAGE: ir
// PURPOSE: The SSA-shaped module/function/basic-block/instruction data model (spec.md §3,
//          §4.5). Grounded on original_source/src/ir_gen.rs for the lowering shape, and on
//          other_examples/.../sicpu__codegen.go + .../neo-go__codegen.go for the Go-idiomatic
//          code-generator struct shape (label pools, a loopStack of break/continue targets).
// ==============================================================================================

package ir

import "chif/semantic"

// RuntimeShims is the fixed set of external symbols the IR generator may reference but does
// not define (spec.md §6) — the C runtime collaborator implements these.
var RuntimeShims = []string{
	"print_int", "print_float", "print_bool", "print_string", "print_format_int",
	"input_int", "input_float", "input_bool", "input_string",
	"rand_int", "rand_float", "rand_char_range",
	"http_get", "http_post", "http_put", "http_delete",
}

// Op enumerates the instruction opcodes this IR recognizes.
type Op string

const (
	OpConstInt   Op = "const.int"
	OpConstFloat Op = "const.float"
	OpConstBool  Op = "const.bool"
	OpConstStr   Op = "const.str"
	OpConstNil   Op = "const.nil"

	OpBinOp    Op = "binop"
	OpUnOp     Op = "unop"
	OpConvert  Op = "convert" // Imm: target scalar name ("int"/"float"/"str")
	OpAddrOf   Op = "addr.of"
	OpLoad     Op = "load"
	OpStore    Op = "store"
	OpFieldGEP Op = "field.gep" // Imm: *fieldGEP{offset,size}
	OpIndexGEP Op = "index.gep" // Imm: elemSize
	OpAllocArr Op = "alloc.arr" // Imm: elemSize*count
	OpAllocStr Op = "alloc.struct"
	OpMapNew   Op = "map.new"
	OpMapSet   Op = "map.set"

	OpListAdd   Op = "list.add"
	OpListAddAt Op = "list.addAt"
	OpListDel   Op = "list.del"
	OpListLen   Op = "list.len"

	OpCall     Op = "call"      // Imm: callee name
	OpCallShim Op = "call.shim" // Imm: shim name

	OpBr     Op = "br"     // Imm: target block ID
	OpCondBr Op = "condbr" // Imm: *condBr{Then,Else int}
	OpRet    Op = "ret"
)

// Value is an SSA value reference: a monotonically increasing ID plus its static type.
type Value struct {
	ID   int
	Type semantic.Type
}

// Instr is one SSA operation. Dest is the zero Value (ID 0 is never issued to a real
// value, so ID==0 && Type==nil signals "no destination") for ops emitted without a type,
// such as br/condbr/ret; store is emitted with the stored value's type and so has a Dest.
type Instr struct {
	Op   Op
	Dest Value
	Args []Value
	Imm  interface{}
}

// HasDest reports whether this instruction produces a usable value.
func (i *Instr) HasDest() bool { return i.Dest.Type != nil }

// BasicBlock is a straight-line instruction sequence ending in exactly one terminator
// (br/condbr/ret) once lowering completes.
type BasicBlock struct {
	ID         int
	Name       string
	Instrs     []*Instr
	Terminated bool
}

// Param is one function parameter: its name, static type, and whether it is a
// reference parameter (spec.md §4.4's write-back rule, carried into `ir` unchanged per
// spec.md §9's no-escape assumption).
type Param struct {
	Name        string
	Type        semantic.Type
	IsReference bool
}

// Function is one lowered AST function or method.
type Function struct {
	Name       string
	Params     []Param
	ReturnType semantic.Type // nil means Nil; main keeps its declared type (no 32-bit exit-status type), implicit return is Int 0
	Blocks     []*BasicBlock
	IsMain     bool
}

// FieldLayout is one struct field's offset and natural size/alignment (spec.md §4.5).
type FieldLayout struct {
	Name   string
	Type   semantic.Type
	Offset int
	Size   int
	Align  int
}

// StructLayout is a struct's full field-packing plan, computed once per struct name.
type StructLayout struct {
	Name   string
	Fields []FieldLayout
	Size   int
	Align  int
}

func (s *StructLayout) Field(name string) (FieldLayout, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldLayout{}, false
}

// Module is one compiled object module: every user function with external linkage, the
// struct layouts it uses, and the runtime shims it references with import linkage
// (spec.md §4.5 "Emits a single object module...").
type Module struct {
	BuildID   string
	Functions []*Function
	Structs   map[string]*StructLayout
	Shims     map[string]bool
	Strings   []string // every string literal constant-materialized during lowering, in order, duplicates included
}

type fieldGEP struct {
	Offset int
	Size   int
}

type condBr struct {
	Then int
	Else int
}

// ----------------------------------------------------------------------------
// FILE: ir/emit.go
// PURPOSE: Deterministic byte serialization of a Module (spec.md §4.5 "emits a single
//          object module"). Object-file/linker format is explicitly out of scope
//          (spec.md §1/§6); this is a self-describing intermediate encoding a later
//          backend could consume, not a working ELF/Mach-O writer — see DESIGN.md.
// ----------------------------------------------------------------------------
package ir

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

const magic = "CHIFIR01"

// Emit serializes m into a byte stream. Shim and struct names are written in sorted order,
// and everything else follows Module's own slice order, so two Generate() runs over the same
// source produce byte-identical output modulo m.BuildID, which is freshly random per run by
// design (see builder.go) and is the one field callers must exclude to compare two builds.
func Emit(m *Module) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(magic)
	writeString(&buf, m.BuildID)

	shimNames := make([]string, 0, len(m.Shims))
	for name := range m.Shims {
		shimNames = append(shimNames, name)
	}
	sort.Strings(shimNames)
	writeUint32(&buf, uint32(len(shimNames)))
	for _, name := range shimNames {
		writeString(&buf, name)
	}

	structNames := make([]string, 0, len(m.Structs))
	for name := range m.Structs {
		structNames = append(structNames, name)
	}
	sort.Strings(structNames)
	writeUint32(&buf, uint32(len(structNames)))
	for _, name := range structNames {
		layout := m.Structs[name]
		writeString(&buf, layout.Name)
		writeUint32(&buf, uint32(layout.Size))
		writeUint32(&buf, uint32(layout.Align))
		writeUint32(&buf, uint32(len(layout.Fields)))
		for _, f := range layout.Fields {
			writeString(&buf, f.Name)
			writeUint32(&buf, uint32(f.Offset))
			writeUint32(&buf, uint32(f.Size))
		}
	}

	writeUint32(&buf, uint32(len(m.Strings)))
	for _, s := range m.Strings {
		writeString(&buf, s)
	}

	writeUint32(&buf, uint32(len(m.Functions)))
	for _, fn := range m.Functions {
		if err := emitFunction(&buf, fn); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func emitFunction(buf *bytes.Buffer, fn *Function) error {
	writeString(buf, fn.Name)
	writeUint32(buf, boolToUint32(fn.IsMain))
	writeUint32(buf, uint32(len(fn.Params)))
	for _, p := range fn.Params {
		writeString(buf, p.Name)
		writeUint32(buf, boolToUint32(p.IsReference))
	}

	writeUint32(buf, uint32(len(fn.Blocks)))
	for _, blk := range fn.Blocks {
		if !blk.Terminated {
			return newError(Generation, "function %q block %q has no terminator", fn.Name, blk.Name)
		}
		writeString(buf, blk.Name)
		writeUint32(buf, uint32(len(blk.Instrs)))
		for _, instr := range blk.Instrs {
			writeString(buf, string(instr.Op))
			writeUint32(buf, uint32(instr.Dest.ID))
			writeUint32(buf, uint32(len(instr.Args)))
			for _, a := range instr.Args {
				writeUint32(buf, uint32(a.ID))
			}
			writeString(buf, fmt.Sprintf("%v", instr.Imm))
		}
	}
	return nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func boolToUint32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

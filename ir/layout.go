// ----------------------------------------------------------------------------
// FILE: ir/layout.go
// PURPOSE: Struct-layout computation (spec.md §4.5): fields pack in declaration order,
//          each aligned to its natural alignment; total size rounds up to the struct's
//          own alignment (the max field alignment). Scalar sizes: Int=8/8, Float=8/8,
//          Bool=1/1, Str=8/8 (pointer), Pointer=8/8, nested struct (by reference)=8/8.
//          Grounded on other_examples/.../sicpu__codegen.go's calcSize for the
//          array-total-size-by-multiplication idiom.
// ----------------------------------------------------------------------------
package ir

import "chif/semantic"

// SizeOf returns the natural (size, alignment) in bytes of t.
func SizeOf(t semantic.Type) (size, align int) {
	switch tt := t.(type) {
	case semantic.BoolType:
		return 1, 1
	case semantic.IntType, semantic.FloatType, semantic.StrType, semantic.NilType:
		return 8, 8
	case semantic.PointerType:
		return 8, 8
	case semantic.StructType:
		return 8, 8 // nested struct by reference, per spec.md §4.5
	case semantic.ListType, semantic.MapType:
		return 8, 8 // dynamic containers are reference-shaped, same as Str
	case semantic.ArrayType:
		elemSize, elemAlign := SizeOf(tt.Element)
		total := elemSize
		for _, n := range tt.Sizes {
			total *= n
		}
		return total, elemAlign
	default:
		return 8, 8
	}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	if rem := n % align; rem != 0 {
		return n + (align - rem)
	}
	return n
}

// ComputeStructLayout packs si's fields in declaration order. Nested struct fields do
// not recurse into the callee struct's own layout (they occupy a fixed 8-byte reference
// slot, per spec.md §4.5), so this function needs no struct registry beyond si itself.
func ComputeStructLayout(si *semantic.StructInfo) *StructLayout {
	layout := &StructLayout{Name: si.Name, Align: 1}
	cursor := 0
	for _, f := range si.Fields {
		size, align := SizeOf(f.Type)
		offset := roundUp(cursor, align)
		layout.Fields = append(layout.Fields, FieldLayout{Name: f.Name, Type: f.Type, Offset: offset, Size: size, Align: align})
		cursor = offset + size
		if align > layout.Align {
			layout.Align = align
		}
	}
	layout.Size = roundUp(cursor, layout.Align)
	return layout
}

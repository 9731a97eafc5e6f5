// ----------------------------------------------------------------------------
// FILE: object/object_test.go
// PURPOSE: Validates Inspect() rendering, map ordering, struct cloning, and value equality.
// ----------------------------------------------------------------------------
package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalarInspect(t *testing.T) {
	assert.Equal(t, "42", (&Integer{Value: 42}).Inspect())
	assert.Equal(t, "3.5", (&Float{Value: 3.5}).Inspect())
	assert.Equal(t, "true", TRUE.Inspect())
	assert.Equal(t, "nil", NIL.Inspect())
	assert.Equal(t, "hi", (&Str{Value: "hi"}).Inspect())
}

func TestNativeBoolSingletons(t *testing.T) {
	assert.Same(t, TRUE, NativeBool(true))
	assert.Same(t, FALSE, NativeBool(false))
}

func TestArrayAndListInspect(t *testing.T) {
	arr := &Array{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 2}}}
	assert.Equal(t, "[1, 2]", arr.Inspect())

	list := &List{Elements: []Object{&Integer{Value: 1}}}
	list.Elements = append(list.Elements, &Integer{Value: 2})
	assert.Equal(t, "[1, 2]", list.Inspect())
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("z", &Integer{Value: 1})
	m.Set("a", &Integer{Value: 2})
	assert.Equal(t, `{"z": 1, "a": 2}`, m.Inspect())

	m.Set("z", &Integer{Value: 9})
	assert.Equal(t, []string{"z", "a"}, m.Order)
	assert.Equal(t, int64(9), m.Pairs["z"].(*Integer).Value)
}

func TestReferenceLoadStore(t *testing.T) {
	scope := map[string]Object{"x": &Integer{Value: 1}}
	ref := &Reference{Name: "x", Scope: scope}
	assert.Equal(t, int64(1), ref.Load().(*Integer).Value)
	ref.Store(&Integer{Value: 2})
	assert.Equal(t, int64(2), scope["x"].(*Integer).Value)
}

func TestPointerInspect(t *testing.T) {
	var target Object = &Integer{Value: 7}
	p := &Pointer{Target: &target}
	assert.Equal(t, "pointer(7)", p.Inspect())
}

func TestStructInstanceCloneIsIndependent(t *testing.T) {
	def := &StructDefinition{Name: "P", FieldOrder: []string{"x", "y"}}
	inst := &StructInstance{Definition: def, Fields: map[string]Object{
		"x": &Integer{Value: 1}, "y": &Integer{Value: 2},
	}}
	clone := inst.Clone()
	clone.Fields["x"] = &Integer{Value: 99}
	assert.Equal(t, int64(1), inst.Fields["x"].(*Integer).Value)
	assert.Equal(t, int64(99), clone.Fields["x"].(*Integer).Value)
	assert.Equal(t, "P{x: 1, y: 2}", inst.Inspect())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(&Integer{Value: 5}, &Integer{Value: 5}))
	assert.False(t, Equal(&Integer{Value: 5}, &Integer{Value: 6}))
	assert.True(t, Equal(&Float{Value: 1.5}, &Float{Value: 1.5}))
	assert.True(t, Equal(&Str{Value: "a"}, &Str{Value: "a"}))
	assert.False(t, Equal(&Str{Value: "a"}, &Integer{Value: 1}))
	assert.True(t, Equal(NIL, NIL))
}

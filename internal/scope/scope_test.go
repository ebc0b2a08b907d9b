package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangzhangming/typeinfer/internal/types"
)

func TestWritableShadowing(t *testing.T) {
	lib := types.Standard()
	root := NewRoot()

	outer := NewWritable(root, nil)
	outer.AddProperty(types.NewValue(nil, "x", lib.IntType()))

	inner := NewWritable(outer, nil)
	assert.Equal(t, "Int", inner.Property("x").OutType.String())

	inner.AddProperty(types.NewValue(nil, "x", lib.StringType()))
	assert.Equal(t, "String", inner.Property("x").OutType.String())
	assert.Equal(t, "Int", outer.Property("x").OutType.String(), "outer scope must not see inner declarations")

	assert.Nil(t, inner.Property("y"))
	assert.NotNil(t, inner.Classifier("Int"))
}

func TestWritableThisType(t *testing.T) {
	lib := types.Standard()
	root := NewRoot()
	assert.True(t, root.ThisType().IsNothing())

	w := NewWritable(root, nil)
	assert.True(t, w.ThisType().IsNothing())

	w.SetThisType(lib.StringType())
	child := NewWritable(w, nil)
	assert.Equal(t, "String", child.ThisType().String())
}

func TestLabelsAndOwner(t *testing.T) {
	root := NewRoot()
	cls := types.NewClass(nil, "Outer", false)

	w := NewWritable(root, cls)
	w.AddLabel("Outer", cls)
	child := NewWritable(w, nil)

	require.Len(t, child.DeclarationsByLabel("Outer"), 1)
	assert.Empty(t, child.DeclarationsByLabel("Other"))
	assert.Same(t, cls, child.ContainingDeclaration())
}

func TestFunctionsInnermostGroup(t *testing.T) {
	lib := types.Standard()
	root := NewRoot()

	outer := NewWritable(root, nil)
	outer.AddFunction(types.NewFunction(nil, "f", nil, nil, lib.IntType()))
	outer.AddFunction(types.NewFunction(nil, "f", nil, []*types.ValueParameter{types.Param("a", lib.IntType())}, lib.IntType()))

	inner := NewWritable(outer, nil)
	assert.Len(t, inner.Functions("f").Functions, 2)

	inner.AddFunction(types.NewFunction(nil, "f", nil, nil, lib.StringType()))
	assert.Len(t, inner.Functions("f").Functions, 1)
	assert.True(t, inner.Functions("g").IsEmpty())
}

func TestMembersSubstituted(t *testing.T) {
	lib := types.Standard()
	tc := types.NewChecker()

	ms := Members(tc, lib.ArrayOf(lib.StringType()))
	get := ms.Functions("get")
	require.Len(t, get.Functions, 1)
	assert.Equal(t, "String", get.Functions[0].ReturnType.String())

	size := ms.Property("size")
	require.NotNil(t, size)
	assert.Equal(t, "Int", size.OutType.String())

	iter := ms.Functions("iterator")
	require.Len(t, iter.Functions, 1)
	assert.Equal(t, "Iterator<String>", iter.Functions[0].ReturnType.String())

	assert.Len(t, ms.Functions("equals").Functions, 1, "members of Any are inherited")
}

func TestMembersOfSpecialTypes(t *testing.T) {
	lib := types.Standard()
	tc := types.NewChecker()

	assert.False(t, Members(tc, lib.NullableNothingType()).Functions("equals").IsEmpty())
	assert.True(t, Members(tc, types.ErrorType("x")).Functions("equals").IsEmpty())
	assert.False(t, Members(tc, types.MakeNullable(lib.IntType())).Functions("plus").IsEmpty())

	ns := types.NewNamespace(nil, "util")
	ns.Members.AddProperty(types.NewValue(ns, "version", lib.StringType()))
	m := Members(tc, ns.NamespaceType())
	require.NotNil(t, m.Property("version"))
	assert.Nil(t, m.Property("size"))
}

func TestCompareToCandidates(t *testing.T) {
	lib := types.Standard()
	tc := types.NewChecker()

	group := Members(tc, lib.IntType()).Functions("compareTo")
	// 五个其他数值类型 + Comparable<Int>
	assert.Len(t, group.Functions, 6)
}

func TestWithReceiver(t *testing.T) {
	lib := types.Standard()
	tc := types.NewChecker()

	outer := NewWritable(NewRoot(), nil)
	outer.AddProperty(types.NewValue(nil, "local", lib.BooleanType()))
	outer.AddFunction(types.NewFunction(nil, "shout", lib.StringType(), nil, lib.StringType()))
	outer.AddFunction(types.NewFunction(nil, "twice", lib.IntType(), nil, lib.IntType()))

	sc := WithReceiver(tc, outer, lib.StringType())
	require.NotNil(t, sc.Property("length"))
	assert.NotNil(t, sc.Property("local"))

	assert.Len(t, sc.Functions("shout").Functions, 1, "extension on String applies")
	assert.True(t, sc.Functions("twice").IsEmpty(), "extension on Int does not apply")
	assert.Len(t, sc.Functions("plus").Functions, 1)
}

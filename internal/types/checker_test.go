package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSubtypeOf(t *testing.T) {
	l := Standard()
	tc := NewChecker()

	intT := l.IntType()
	strT := l.StringType()

	tests := []struct {
		name     string
		sub      *Type
		super    *Type
		expected bool
	}{
		{"reflexive", intT, intT, true},
		{"int to any", intT, l.AnyType(), true},
		{"int to nullable any", intT, l.NullableAnyType(), true},
		{"nullable int to any", MakeNullable(intT), l.AnyType(), false},
		{"nullable int to nullable int", MakeNullable(intT), MakeNullable(intT), true},
		{"nothing to int", l.NothingType(), intT, true},
		{"nullable nothing to int", l.NullableNothingType(), intT, false},
		{"nullable nothing to string?", l.NullableNothingType(), MakeNullable(strT), true},
		{"int to string", intT, strT, false},
		{"int to number", intT, l.NumberType(), true},
		{"int to comparable of int", intT, l.ComparableOf(intT), true},
		{"array of int to iterable of any?", l.ArrayOf(intT), l.IterableOf(l.NullableAnyType()), true},
		{"array of int to array of any", l.ArrayOf(intT), l.ArrayOf(l.AnyType()), false},
		{"array of int to array<out any>", l.ArrayOf(intT), NewType(l.Array.TypeConstructor(), false, NewProjection(Out, l.AnyType())), true},
		{"array<out int> to array of int", NewType(l.Array.TypeConstructor(), false, NewProjection(Out, intT)), l.ArrayOf(intT), false},
		{"int range to iterable of int", l.IntRangeType(), l.IterableOf(intT), true},
		{"comparable of any to comparable of int", l.ComparableOf(l.AnyType()), l.ComparableOf(intT), true},
		{"comparable of int to comparable of any", l.ComparableOf(intT), l.ComparableOf(l.AnyType()), false},
		{"tuple covariance", l.TupleOf(intT, strT), l.TupleOf(l.AnyType(), l.AnyType()), true},
		{"unit is tuple0", l.UnitType(), l.TupleOf(), true},
		{"error to int", ErrorType("x"), intT, true},
		{"int to error", intT, ErrorType("x"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tc.IsSubtypeOf(tt.sub, tt.super), "%s <: %s", tt.sub, tt.super)
		})
	}
}

func TestFunctionTypeSubtyping(t *testing.T) {
	l := Standard()
	tc := NewChecker()

	anyToInt := NewFunctionType(nil, []*Type{l.AnyType()}, l.IntType())
	intToAny := NewFunctionType(nil, []*Type{l.IntType()}, l.AnyType())

	assert.True(t, tc.IsSubtypeOf(anyToInt, intToAny))
	assert.False(t, tc.IsSubtypeOf(intToAny, anyToInt))
	assert.True(t, tc.IsSubtypeOf(anyToInt, l.AnyType()))

	withReceiver := NewFunctionType(l.StringType(), nil, l.IntType())
	without := NewFunctionType(nil, nil, l.IntType())
	assert.False(t, tc.IsSubtypeOf(withReceiver, without))
}

func TestNamespaceTypes(t *testing.T) {
	tc := NewChecker()
	a := NewNamespace(nil, "a")
	b := NewNamespace(nil, "b")

	assert.True(t, tc.IsSubtypeOf(a.NamespaceType(), a.NamespaceType()))
	assert.False(t, tc.IsSubtypeOf(a.NamespaceType(), b.NamespaceType()))
	assert.False(t, tc.IsSubtypeOf(a.NamespaceType(), Standard().AnyType()))

	nullable := MakeNullable(a.NamespaceType())
	assert.False(t, nullable.Nullable, "namespace types are never nullable")
}

func TestIsConvertibleTo(t *testing.T) {
	l := Standard()
	tc := NewChecker()

	assert.True(t, tc.IsConvertibleTo(l.IntType(), l.NumberType()))
	assert.True(t, tc.IsConvertibleTo(l.StringType(), l.UnitType()), "anything converts to Unit")
	assert.False(t, tc.IsConvertibleTo(l.StringType(), MakeNullable(l.UnitType())))
	assert.False(t, tc.IsConvertibleTo(l.StringType(), l.IntType()))
}

func TestCommonSupertype(t *testing.T) {
	l := Standard()
	tc := NewChecker()

	intT := l.IntType()

	tests := []struct {
		name     string
		input    []*Type
		expected *Type
	}{
		{"empty is nothing", nil, l.NothingType()},
		{"single", []*Type{intT}, intT},
		{"same", []*Type{intT, intT}, intT},
		{"nothing dropped", []*Type{intT, l.NothingType()}, intT},
		{"nullable nothing adds nullability", []*Type{intT, l.NullableNothingType()}, MakeNullable(intT)},
		{"only nothings", []*Type{l.NothingType(), l.NullableNothingType()}, l.NullableNothingType()},
		{"subtype and supertype", []*Type{intT, l.AnyType()}, l.AnyType()},
		{"numbers", []*Type{intT, l.DoubleType()}, l.NumberType()},
		{"nullable input", []*Type{MakeNullable(intT), l.LongType()}, MakeNullable(l.NumberType())},
		{"arrays of same element", []*Type{l.ArrayOf(intT), l.ArrayOf(intT)}, l.ArrayOf(intT)},
		{"int range and array of int", []*Type{l.IntRangeType(), l.ArrayOf(intT)}, l.IterableOf(intT)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tc.CommonSupertype(tt.input)
			require.NotNil(t, got)
			assert.True(t, tc.Equivalent(got, tt.expected), "expected %s, got %s", tt.expected, got)
			assert.Equal(t, tt.expected.Nullable, got.Nullable)
		})
	}
}

func TestCommonSupertypeOfUnrelatedTypes(t *testing.T) {
	l := Standard()
	tc := NewChecker()

	got := tc.CommonSupertype([]*Type{l.IntType(), l.StringType()})
	assert.True(t, tc.IsSubtypeOf(l.IntType(), got))
	assert.True(t, tc.IsSubtypeOf(l.StringType(), got))
	assert.False(t, got.Nullable)

	errT := ErrorType("broken")
	assert.Same(t, errT, tc.CommonSupertype([]*Type{l.IntType(), errT}))
}

func TestIntersect(t *testing.T) {
	l := Standard()
	tc := NewChecker()

	intT := l.IntType()
	strT := l.StringType()

	assert.Nil(t, tc.Intersect([]*Type{intT, strT}), "final unrelated classes are disjoint")
	assert.NotNil(t, tc.Intersect([]*Type{intT, l.AnyType()}))
	assert.NotNil(t, tc.Intersect([]*Type{intT, l.NumberType()}))

	got := tc.Intersect([]*Type{intT, l.NullableNothingType()})
	require.NotNil(t, got)
	assert.True(t, got.IsNothing())
	assert.False(t, got.Nullable)

	got = tc.Intersect([]*Type{MakeNullable(intT), l.NullableNothingType()})
	require.NotNil(t, got)
	assert.True(t, got.Nullable)

	// 可空性不参与判断：String? 与 Int? 仍然不相交
	assert.Nil(t, tc.Intersect([]*Type{MakeNullable(intT), MakeNullable(strT)}))

	got = tc.Intersect([]*Type{MakeNullable(intT), l.NullableAnyType()})
	require.NotNil(t, got)
	assert.Equal(t, "Int?", got.String())

	assert.Nil(t, tc.Intersect([]*Type{l.TupleOf(intT), l.TupleOf(strT)}))
	assert.NotNil(t, tc.Intersect([]*Type{l.NumberType(), l.ComparableOf(intT)}), "open types may intersect")
}

func TestSupertypeView(t *testing.T) {
	l := Standard()
	tc := NewChecker()

	view := tc.SupertypeView(l.ArrayOf(l.StringType()), l.Iterable.TypeConstructor())
	require.NotNil(t, view)
	assert.Equal(t, "Iterable<String>", view.String())

	assert.Nil(t, tc.SupertypeView(l.IntType(), l.Iterable.TypeConstructor()))
}

package types

import "fmt"

// ============================================================================
// 标准类型目录
// ============================================================================
//
// 语言内建的类与它们的成员。目录在包初始化时构建一次，之后只读，
// 所有推断过程共享同一份。
//
// ============================================================================

// MaxTupleArity 元组的最大元数
const MaxTupleArity = 22

// StandardLibrary 标准类型目录
type StandardLibrary struct {
	Any        *ClassDescriptor
	Nothing    *ClassDescriptor
	Number     *ClassDescriptor
	Comparable *ClassDescriptor
	Boolean    *ClassDescriptor
	Char       *ClassDescriptor
	Byte       *ClassDescriptor
	Short      *ClassDescriptor
	Int        *ClassDescriptor
	Long       *ClassDescriptor
	Float      *ClassDescriptor
	Double     *ClassDescriptor
	String     *ClassDescriptor
	Iterable   *ClassDescriptor
	Iterator   *ClassDescriptor
	Array      *ClassDescriptor
	IntRange   *ClassDescriptor

	tuples      []*ClassDescriptor
	classifiers *MemberTable

	anyType             *Type
	nullableAnyType     *Type
	nothingType         *Type
	nullableNothingType *Type
	unitType            *Type
}

var lib = buildStandardLibrary()

// Standard 返回标准类型目录
func Standard() *StandardLibrary { return lib }

// ----------------------------------------------------------------------------
// 常用类型
// ----------------------------------------------------------------------------

func (l *StandardLibrary) AnyType() *Type             { return l.anyType }
func (l *StandardLibrary) NullableAnyType() *Type     { return l.nullableAnyType }
func (l *StandardLibrary) NothingType() *Type         { return l.nothingType }
func (l *StandardLibrary) NullableNothingType() *Type { return l.nullableNothingType }
func (l *StandardLibrary) UnitType() *Type            { return l.unitType }
func (l *StandardLibrary) BooleanType() *Type         { return l.Boolean.DefaultType() }
func (l *StandardLibrary) CharType() *Type            { return l.Char.DefaultType() }
func (l *StandardLibrary) ByteType() *Type            { return l.Byte.DefaultType() }
func (l *StandardLibrary) ShortType() *Type           { return l.Short.DefaultType() }
func (l *StandardLibrary) IntType() *Type             { return l.Int.DefaultType() }
func (l *StandardLibrary) LongType() *Type            { return l.Long.DefaultType() }
func (l *StandardLibrary) FloatType() *Type           { return l.Float.DefaultType() }
func (l *StandardLibrary) DoubleType() *Type          { return l.Double.DefaultType() }
func (l *StandardLibrary) StringType() *Type          { return l.String.DefaultType() }
func (l *StandardLibrary) NumberType() *Type          { return l.Number.DefaultType() }
func (l *StandardLibrary) IntRangeType() *Type        { return l.IntRange.DefaultType() }

// DefaultBound 没有声明上界的类型参数的上界 (Any?)
func (l *StandardLibrary) DefaultBound() *Type { return l.nullableAnyType }

// IterableOf 返回 Iterable<T>
func (l *StandardLibrary) IterableOf(t *Type) *Type {
	return NewType(l.Iterable.TypeConstructor(), false, InvariantOf(t))
}

// IteratorOf 返回 Iterator<T>
func (l *StandardLibrary) IteratorOf(t *Type) *Type {
	return NewType(l.Iterator.TypeConstructor(), false, InvariantOf(t))
}

// ArrayOf 返回 Array<T>
func (l *StandardLibrary) ArrayOf(t *Type) *Type {
	return NewType(l.Array.TypeConstructor(), false, InvariantOf(t))
}

// ComparableOf 返回 Comparable<T>
func (l *StandardLibrary) ComparableOf(t *Type) *Type {
	return NewType(l.Comparable.TypeConstructor(), false, InvariantOf(t))
}

// TupleOf 返回元组类型；零元组即 Unit
func (l *StandardLibrary) TupleOf(elems ...*Type) *Type {
	if len(elems) > MaxTupleArity {
		return ErrorType(fmt.Sprintf("tuple of %d elements", len(elems)))
	}
	args := make([]Projection, len(elems))
	for i, e := range elems {
		args[i] = InvariantOf(e)
	}
	return NewType(l.tuples[len(elems)].TypeConstructor(), false, args...)
}

// IsBoolean 是否为不可空的 Boolean（错误类型视为 Boolean）
func (l *StandardLibrary) IsBoolean(t *Type) bool {
	if t.IsError() {
		return true
	}
	return !t.Nullable && t.Constructor == l.Boolean.TypeConstructor()
}

// Classifier 按名称查找内建类型
func (l *StandardLibrary) Classifier(name string) Classifier {
	return l.classifiers.Classifier(name)
}

// Classifiers 内建类型的成员表，用作根作用域
func (l *StandardLibrary) Classifiers() *MemberTable { return l.classifiers }

// ============================================================================
// 构建
// ============================================================================

func buildStandardLibrary() *StandardLibrary {
	l := &StandardLibrary{classifiers: NewMemberTable()}

	l.Any = NewClass(nil, "Any", false)
	l.anyType = l.Any.DefaultType()
	l.nullableAnyType = MakeNullable(l.anyType)

	l.Nothing = NewClass(nil, "Nothing", true)
	l.Nothing.TypeConstructor().Kind = KindNothing
	l.nothingType = l.Nothing.DefaultType()
	l.nullableNothingType = MakeNullable(l.nothingType)

	for n := 0; n <= MaxTupleArity; n++ {
		t := NewClass(nil, fmt.Sprintf("Tuple%d", n), true)
		t.TypeConstructor().Kind = KindTuple
		params := make([]*TypeParameterDescriptor, n)
		for i := range params {
			params[i] = NewTypeParameter(t, fmt.Sprintf("T%d", i+1), Out, nil)
		}
		t.SetTypeParameters(params...)
		t.AddSupertype(l.anyType)
		l.tuples = append(l.tuples, t)
	}
	l.unitType = l.TupleOf()

	l.Boolean = l.finalClass("Boolean")
	l.String = l.finalClass("String")

	l.Comparable = NewClass(nil, "Comparable", false)
	ct := NewTypeParameter(l.Comparable, "T", In, nil)
	l.Comparable.SetTypeParameters(ct)
	l.Comparable.AddSupertype(l.anyType)

	l.Number = NewClass(nil, "Number", false)
	l.Number.AddSupertype(l.anyType)

	l.Char = l.finalClass("Char")
	l.Byte = l.finalClass("Byte")
	l.Short = l.finalClass("Short")
	l.Int = l.finalClass("Int")
	l.Long = l.finalClass("Long")
	l.Float = l.finalClass("Float")
	l.Double = l.finalClass("Double")

	l.Iterator = NewClass(nil, "Iterator", false)
	itT := NewTypeParameter(l.Iterator, "T", Out, nil)
	l.Iterator.SetTypeParameters(itT)
	l.Iterator.AddSupertype(l.anyType)

	l.Iterable = NewClass(nil, "Iterable", false)
	iT := NewTypeParameter(l.Iterable, "T", Out, nil)
	l.Iterable.SetTypeParameters(iT)
	l.Iterable.AddSupertype(l.anyType)

	l.Array = NewClass(nil, "Array", true)
	aT := NewTypeParameter(l.Array, "T", Invariant, nil)
	l.Array.SetTypeParameters(aT)
	l.Array.AddSupertype(l.IterableOf(aT.DefaultType()))

	l.IntRange = NewClass(nil, "IntRange", true)
	l.IntRange.AddSupertype(l.IterableOf(l.IntType()))

	l.addMembers(ct, itT, iT, aT)

	for _, c := range []*ClassDescriptor{
		l.Any, l.Nothing, l.Number, l.Comparable, l.Boolean, l.Char, l.Byte, l.Short,
		l.Int, l.Long, l.Float, l.Double, l.String, l.Iterable, l.Iterator, l.Array, l.IntRange,
	} {
		l.classifiers.AddClassifier(c)
	}
	for _, t := range l.tuples {
		l.classifiers.AddClassifier(t)
	}
	l.classifiers.classifiers["Unit"] = l.tuples[0]
	return l
}

func (l *StandardLibrary) finalClass(name string) *ClassDescriptor {
	c := NewClass(nil, name, true)
	c.AddSupertype(l.anyType)
	return c
}

// fn 在类上声明成员函数
func fn(c *ClassDescriptor, name string, ret *Type, params ...*Type) {
	vps := make([]*ValueParameter, len(params))
	for i, p := range params {
		vps[i] = Param(fmt.Sprintf("p%d", i), p)
	}
	c.Members.AddFunction(NewFunction(c, name, nil, vps, ret))
}

func (l *StandardLibrary) addMembers(comparableT, iteratorT, iterableT, arrayT *TypeParameterDescriptor) {
	boolean := l.BooleanType()
	intType := l.IntType()

	fn(l.Any, "equals", boolean, l.nullableAnyType)
	fn(l.Any, "hashCode", intType)
	fn(l.Any, "toString", l.StringType())

	fn(l.Comparable, "compareTo", intType, comparableT.DefaultType())

	fn(l.Boolean, "not", boolean)
	for _, name := range []string{"and", "or", "xor"} {
		fn(l.Boolean, name, boolean, boolean)
	}

	// 数值运算：结果是两个操作数中较宽的类型，至少为 Int
	numerics := []*ClassDescriptor{l.Byte, l.Short, l.Int, l.Long, l.Float, l.Double}
	rank := func(i int) int {
		if i < 2 {
			return 2
		}
		return i
	}
	for i, n := range numerics {
		n.AddSupertype(l.NumberType())
		n.AddSupertype(l.ComparableOf(n.DefaultType()))
		self := n.DefaultType()
		for j, m := range numerics {
			wide := numerics[max(rank(i), rank(j))].DefaultType()
			for _, op := range []string{"plus", "minus", "times", "div", "mod"} {
				fn(n, op, wide, m.DefaultType())
			}
			if j != i {
				fn(n, "compareTo", intType, m.DefaultType())
			}
		}
		fn(n, "plus", self)
		fn(n, "minus", self)
		fn(n, "inc", self)
		fn(n, "dec", self)
	}
	fn(l.Int, "rangeTo", l.IntRangeType(), intType)

	char := l.CharType()
	l.Char.AddSupertype(l.ComparableOf(char))
	fn(l.Char, "plus", char, intType)
	fn(l.Char, "minus", char, intType)
	fn(l.Char, "minus", intType, char)
	fn(l.Char, "inc", char)
	fn(l.Char, "dec", char)

	str := l.StringType()
	l.String.AddSupertype(l.ComparableOf(str))
	fn(l.String, "plus", str, l.nullableAnyType)
	fn(l.String, "get", char, intType)
	l.String.Members.AddProperty(NewValue(l.String, "length", intType))

	fn(l.Iterator, "next", iteratorT.DefaultType())
	fn(l.Iterator, "hasNext", boolean)

	fn(l.Iterable, "iterator", l.IteratorOf(iterableT.DefaultType()))

	elem := arrayT.DefaultType()
	fn(l.Array, "get", elem, intType)
	fn(l.Array, "set", l.unitType, intType, elem)
	l.Array.Members.AddProperty(NewValue(l.Array, "size", intType))
	l.Array.AddConstructor(Param("size", intType))

	fn(l.IntRange, "contains", boolean, intType)
	l.IntRange.Members.AddProperty(NewValue(l.IntRange, "start", intType))
	l.IntRange.Members.AddProperty(NewValue(l.IntRange, "end", intType))
	l.IntRange.AddConstructor(Param("start", intType), Param("end", intType))
}

package types

import (
	set "github.com/hashicorp/go-set/v2"
)

// ============================================================================
// 类型检查服务
// ============================================================================

// Checker 子类型、可转换性、公共超类型与交集运算
type Checker struct {
	lib *StandardLibrary
}

// NewChecker 创建类型检查器
func NewChecker() *Checker {
	return &Checker{lib: lib}
}

// ----------------------------------------------------------------------------
// 超类型视图
// ----------------------------------------------------------------------------

// DirectSupertypes 返回 t 的直接超类型（已按 t 的实参替换）
//
// 没有声明超类型的类、元组和函数类型隐含 Any；没有上界的类型参数隐含 Any?。
func (tc *Checker) DirectSupertypes(t *Type) []*Type {
	c := t.Constructor
	switch c.Kind {
	case KindNothing, KindNamespace, KindError:
		return nil
	case KindFunction:
		return []*Type{tc.lib.anyType}
	case KindTypeParameter:
		if len(c.Supertypes) == 0 {
			return []*Type{tc.lib.nullableAnyType}
		}
	}
	if len(c.Supertypes) == 0 {
		if c == tc.lib.Any.TypeConstructor() {
			return nil
		}
		return []*Type{tc.lib.anyType}
	}
	sub := SubstitutionOf(t)
	out := make([]*Type, len(c.Supertypes))
	for i, st := range c.Supertypes {
		out[i] = sub.Apply(st, Invariant)
	}
	return out
}

// SupertypeView 返回 t 以 target 为构造器的超类型形式，不存在时返回 nil
//
// 例如 Array<Int> 在 Iterable 上的视图是 Iterable<Int>。结果的可空性与 t 相同。
func (tc *Checker) SupertypeView(t *Type, target *TypeConstructor) *Type {
	if t == nil {
		return nil
	}
	visited := set.New[*TypeConstructor](8)
	queue := []*Type{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Constructor == target {
			return MakeNullableAsSpecified(cur, t.Nullable || cur.Nullable)
		}
		if !visited.Insert(cur.Constructor) {
			continue
		}
		queue = append(queue, tc.DirectSupertypes(cur)...)
	}
	return nil
}

// SupertypeConstructors 返回 t 的全部超类型构造器（含自身），按广度优先顺序
func (tc *Checker) SupertypeConstructors(t *Type) []*TypeConstructor {
	order, _ := tc.supertypeConstructors(t)
	return order
}

func (tc *Checker) supertypeConstructors(t *Type) ([]*TypeConstructor, *set.Set[*TypeConstructor]) {
	seen := set.New[*TypeConstructor](8)
	var order []*TypeConstructor
	queue := []*Type{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if !seen.Insert(cur.Constructor) {
			continue
		}
		order = append(order, cur.Constructor)
		queue = append(queue, tc.DirectSupertypes(cur)...)
	}
	return order, seen
}

// ----------------------------------------------------------------------------
// 子类型
// ----------------------------------------------------------------------------

// IsSubtypeOf 判断 sub 是否为 super 的子类型
//
// 错误类型与一切类型兼容；Nothing 是一切类型的子类型；
// 可空类型只能是可空类型的子类型；命名空间类型只与自身兼容。
func (tc *Checker) IsSubtypeOf(sub, super *Type) bool {
	if sub == nil || super == nil {
		return false
	}
	if sub.IsError() || super.IsError() {
		return true
	}
	if sub.Nullable && !super.Nullable {
		return false
	}
	if sub.IsNothing() {
		return true
	}
	if super.IsNothing() {
		return false
	}
	if sub.IsNamespace() || super.IsNamespace() {
		return sub.Constructor == super.Constructor
	}
	if super.IsFunction() {
		return sub.IsFunction() && tc.isFunctionSubtype(sub, super)
	}
	view := tc.SupertypeView(MakeNotNullable(sub), super.Constructor)
	if view == nil {
		return false
	}
	params := super.Constructor.Parameters
	if len(view.Arguments) != len(super.Arguments) {
		return len(super.Arguments) == 0
	}
	for i, sp := range super.Arguments {
		variance := sp.Kind
		if variance == Invariant && i < len(params) {
			variance = params[i].Variance
		}
		if !tc.argumentFits(view.Arguments[i], sp, variance) {
			return false
		}
	}
	return true
}

// argumentFits 检查子类型一侧的实参 vp 能否放进超类型一侧的实参 sp
func (tc *Checker) argumentFits(vp, sp Projection, variance Variance) bool {
	switch variance {
	case Out:
		if vp.Kind == In {
			return tc.IsSubtypeOf(tc.lib.nullableAnyType, sp.Type)
		}
		return tc.IsSubtypeOf(vp.Type, sp.Type)
	case In:
		if vp.Kind == Out {
			return sp.Type.IsNothing()
		}
		return tc.IsSubtypeOf(sp.Type, vp.Type)
	}
	return vp.Kind == sp.Kind && tc.Equivalent(vp.Type, sp.Type)
}

func (tc *Checker) isFunctionSubtype(sub, super *Type) bool {
	if (sub.Receiver == nil) != (super.Receiver == nil) {
		return false
	}
	if super.Receiver != nil && !tc.IsSubtypeOf(super.Receiver, sub.Receiver) {
		return false
	}
	if len(sub.Params) != len(super.Params) {
		return false
	}
	for i := range sub.Params {
		if !tc.IsSubtypeOf(super.Params[i], sub.Params[i]) {
			return false
		}
	}
	return tc.IsSubtypeOf(sub.Return, super.Return)
}

// Equivalent 互为子类型
func (tc *Checker) Equivalent(a, b *Type) bool {
	return tc.IsSubtypeOf(a, b) && tc.IsSubtypeOf(b, a)
}

// IsConvertibleTo 判断 actual 能否用在期望 expected 的位置
//
// 子类型总是可以；任何值都可以丢弃到不可空的 Unit 位置。
func (tc *Checker) IsConvertibleTo(actual, expected *Type) bool {
	if tc.IsSubtypeOf(actual, expected) {
		return true
	}
	return expected != nil && expected.IsUnit()
}

// ----------------------------------------------------------------------------
// 公共超类型
// ----------------------------------------------------------------------------

// CommonSupertype 计算控制流汇合处的最小公共超类型
//
// 空集合的结果是 Nothing：没有任何分支产生值。Nothing 成员不影响结果，
// 只贡献可空性；任何一个输入可空则结果可空。
func (tc *Checker) CommonSupertype(ts []*Type) *Type {
	return tc.join(ts, 0)
}

// maxJoinDepth 实参递归合并的深度上限，超过后使用星投影
const maxJoinDepth = 4

func (tc *Checker) join(ts []*Type, depth int) *Type {
	nullable := false
	var candidates []*Type
	for _, t := range ts {
		if t == nil {
			continue
		}
		if t.IsError() {
			return t
		}
		nullable = nullable || t.Nullable
		if t.IsNothing() {
			continue
		}
		candidates = append(candidates, MakeNotNullable(t))
	}
	if len(candidates) == 0 {
		return MakeNullableAsSpecified(tc.lib.nothingType, nullable)
	}
	return MakeNullableAsSpecified(tc.commonSupertype(candidates, depth), nullable)
}

func (tc *Checker) commonSupertype(ts []*Type, depth int) *Type {
	// 某个输入本身就是其余输入的超类型
	for _, candidate := range ts {
		all := true
		for _, t := range ts {
			if !tc.IsSubtypeOf(t, candidate) {
				all = false
				break
			}
		}
		if all {
			return candidate
		}
	}
	for _, t := range ts {
		if t.IsNamespace() || t.IsFunction() {
			return tc.lib.anyType
		}
	}

	order, common := tc.supertypeConstructors(ts[0])
	for _, t := range ts[1:] {
		_, other := tc.supertypeConstructors(t)
		next := set.New[*TypeConstructor](common.Size())
		for _, c := range order {
			if common.Contains(c) && other.Contains(c) {
				next.Insert(c)
			}
		}
		common = next
	}

	// 只保留最具体的公共构造器：不在其他公共构造器的超类型闭包中
	var minimal []*TypeConstructor
	for _, c := range order {
		if !common.Contains(c) {
			continue
		}
		dominated := false
		for _, d := range order {
			if d == c || !common.Contains(d) {
				continue
			}
			_, closure := tc.supertypeConstructors(NewType(d, false))
			if closure.Contains(c) {
				dominated = true
				break
			}
		}
		if !dominated {
			minimal = append(minimal, c)
		}
	}
	if len(minimal) == 0 {
		return tc.lib.anyType
	}
	return tc.joinArguments(minimal[0], ts, depth)
}

// joinArguments 在构造器 c 上合并各输入的实参
func (tc *Checker) joinArguments(c *TypeConstructor, ts []*Type, depth int) *Type {
	if len(c.Parameters) == 0 {
		return NewType(c, false)
	}
	if depth >= maxJoinDepth {
		return NewType(c, false, starProjections(c)...)
	}
	args := make([]Projection, len(c.Parameters))
	for i, p := range c.Parameters {
		var projs []Projection
		for _, t := range ts {
			view := tc.SupertypeView(t, c)
			if view == nil || i >= len(view.Arguments) {
				return NewType(c, false, starProjections(c)...)
			}
			projs = append(projs, view.Arguments[i])
		}
		args[i] = tc.joinProjections(p, projs, depth+1)
	}
	return NewType(c, false, args...)
}

func (tc *Checker) joinProjections(p *TypeParameterDescriptor, projs []Projection, depth int) Projection {
	first := projs[0]
	same := true
	for _, q := range projs[1:] {
		if q.Kind != first.Kind || !tc.Equivalent(q.Type, first.Type) {
			same = false
			break
		}
	}
	if same {
		return first
	}

	ins, outs := 0, 0
	types := make([]*Type, len(projs))
	for i, q := range projs {
		types[i] = q.Type
		switch q.Kind {
		case In:
			ins++
		case Out:
			outs++
		}
	}
	// 逆变位置取交集，协变位置取并
	if p.Variance == In || (ins > 0 && outs == 0) {
		if outs > 0 {
			return NewProjection(Out, upperBoundOf(p.TypeConstructor()))
		}
		meet := tc.Intersect(types)
		if meet == nil {
			meet = tc.lib.nothingType
		}
		if p.Variance == In {
			return InvariantOf(meet)
		}
		return NewProjection(In, meet)
	}
	if ins > 0 {
		return NewProjection(Out, upperBoundOf(p.TypeConstructor()))
	}
	joined := tc.join(types, depth)
	if p.Variance == Out {
		return InvariantOf(joined)
	}
	return NewProjection(Out, joined)
}

func starProjections(c *TypeConstructor) []Projection {
	out := make([]Projection, len(c.Parameters))
	for i, p := range c.Parameters {
		out[i] = NewProjection(Out, upperBoundOf(p.TypeConstructor()))
	}
	return out
}

// ----------------------------------------------------------------------------
// 交集
// ----------------------------------------------------------------------------

// Intersect 计算类型交集，可以证明为空时返回 nil
//
// 只要有一个输入不可空，结果就不可空。含有 Nothing 时结果是 Nothing。
// 一个不可能有子类型的类型与一个既非其子类型也非其超类型的类型不相交。
// 剩余多个互不包含的类型时，返回第一个作为交集的代表。
func (tc *Checker) Intersect(ts []*Type) *Type {
	allNullable := true
	nothing := false
	var stripped []*Type
	for _, t := range ts {
		if t == nil {
			continue
		}
		if t.IsError() {
			return t
		}
		allNullable = allNullable && t.Nullable
		nothing = nothing || t.IsNothing()
		stripped = append(stripped, MakeNotNullable(t))
	}
	if len(stripped) == 0 {
		return nil
	}
	if nothing {
		return MakeNullableAsSpecified(tc.lib.nothingType, allNullable)
	}

	var result []*Type
outer:
	for _, t := range stripped {
		if !tc.canHaveSubtypes(t) {
			for _, other := range stripped {
				if !tc.IsSubtypeOf(t, other) && !tc.IsSubtypeOf(other, t) {
					return nil
				}
			}
			return MakeNullableAsSpecified(t, allNullable)
		}
		for _, other := range stripped {
			if other != t && !tc.Equivalent(other, t) && tc.IsSubtypeOf(other, t) {
				continue outer
			}
		}
		for _, r := range result {
			if tc.Equivalent(r, t) {
				continue outer
			}
		}
		result = append(result, t)
	}
	return MakeNullableAsSpecified(result[0], allNullable)
}

func (tc *Checker) canHaveSubtypes(t *Type) bool {
	c := t.Constructor
	if c.Kind == KindTypeParameter {
		return true
	}
	if !c.Final {
		return true
	}
	// 带有可变型实参的 final 类仍然有不同的实例化互为子类型
	for i, a := range t.Arguments {
		variance := a.Kind
		if variance == Invariant && i < len(c.Parameters) {
			variance = c.Parameters[i].Variance
		}
		if variance != Invariant && tc.canHaveSubtypes(a.Type) {
			return true
		}
	}
	return false
}

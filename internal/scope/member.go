package scope

import (
	"github.com/tangzhangming/typeinfer/internal/types"
)

// ============================================================================
// 类型的成员作用域
// ============================================================================

// memberScope 某个类型的成员
//
// 成员沿超类型广度优先收集，并按该超类型在接收者上的视图替换类型参数：
// Array<String> 的 get 返回 String。
type memberScope struct {
	tc       *types.Checker
	receiver *types.Type
	classes  []*types.ClassDescriptor
	views    []*types.Type
	ns       *types.NamespaceDescriptor
}

// Members 返回类型 t 的成员作用域
//
// 可空性被忽略，空安全由调用方检查。Nothing 拥有 Any 的成员；
// 命名空间类型的成员是命名空间里的声明；错误类型没有成员。
func Members(tc *types.Checker, t *types.Type) Scope {
	lib := types.Standard()
	ms := &memberScope{tc: tc, receiver: t}
	if t == nil || t.IsError() {
		return ms
	}
	if t.IsNamespace() {
		ms.ns, _ = t.Constructor.Descriptor.(*types.NamespaceDescriptor)
		return ms
	}
	base := types.MakeNotNullable(t)
	if base.IsNothing() || base.IsFunction() {
		base = lib.AnyType()
	}
	for _, c := range tc.SupertypeConstructors(base) {
		cd, ok := c.Descriptor.(*types.ClassDescriptor)
		if !ok {
			continue
		}
		view := tc.SupertypeView(base, c)
		if view == nil {
			continue
		}
		ms.classes = append(ms.classes, cd)
		ms.views = append(ms.views, view)
	}
	return ms
}

func (s *memberScope) Property(name string) *types.PropertyDescriptor {
	if s.ns != nil {
		return s.ns.Members.Property(name)
	}
	for i, cd := range s.classes {
		if p := cd.Members.Property(name); p != nil {
			return p.Substitute(types.SubstitutionOf(s.views[i]))
		}
	}
	return nil
}

func (s *memberScope) Namespace(name string) *types.NamespaceDescriptor {
	if s.ns != nil {
		return s.ns.Members.Namespace(name)
	}
	return nil
}

// Functions 收集全部层级的同名成员；子类中签名相同的声明覆盖超类中的声明
func (s *memberScope) Functions(name string) *types.FunctionGroup {
	group := &types.FunctionGroup{Name: name}
	if s.ns != nil {
		group.Functions = s.ns.Members.Functions(name)
		return group
	}
	for i, cd := range s.classes {
		sub := types.SubstitutionOf(s.views[i])
		for _, fd := range cd.Members.Functions(name) {
			fd = fd.Substitute(sub)
			if !overridden(group.Functions, fd) {
				group.Functions = append(group.Functions, fd)
			}
		}
	}
	return group
}

func overridden(existing []*types.FunctionDescriptor, fd *types.FunctionDescriptor) bool {
	for _, e := range existing {
		if len(e.Params) != len(fd.Params) {
			continue
		}
		same := true
		for i := range e.Params {
			if !types.Equal(e.Params[i].Type, fd.Params[i].Type) {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

func (s *memberScope) Classifier(name string) types.Classifier {
	if s.ns != nil {
		return s.ns.Members.Classifier(name)
	}
	return nil
}

func (s *memberScope) ThisType() *types.Type                          { return s.receiver }
func (s *memberScope) DeclarationsByLabel(string) []types.Descriptor { return nil }

func (s *memberScope) ContainingDeclaration() types.Descriptor {
	if s.ns != nil {
		return s.ns
	}
	if len(s.classes) > 0 {
		return s.classes[0]
	}
	return nil
}

// ============================================================================
// 带接收者的作用域
// ============================================================================

// receiverScope 先查接收者成员，再查外层作用域
type receiverScope struct {
	outer    Scope
	members  Scope
	receiver *types.Type
	tc       *types.Checker
}

// WithReceiver 返回以 receiver 的成员为内层、outer 为外层的作用域
//
// 用于解析限定访问的选择器 (a.b) 与带接收者的函数体。
// 函数查找在成员中找不到时，改为查找外层中接收者类型匹配的扩展函数。
func WithReceiver(tc *types.Checker, outer Scope, receiver *types.Type) Scope {
	return &receiverScope{outer: outer, members: Members(tc, receiver), receiver: receiver, tc: tc}
}

// Receiver 接收者类型
func (s *receiverScope) Receiver() *types.Type { return s.receiver }

func (s *receiverScope) Property(name string) *types.PropertyDescriptor {
	if p := s.members.Property(name); p != nil {
		return p
	}
	return s.outer.Property(name)
}

func (s *receiverScope) Namespace(name string) *types.NamespaceDescriptor {
	if ns := s.members.Namespace(name); ns != nil {
		return ns
	}
	return s.outer.Namespace(name)
}

func (s *receiverScope) Functions(name string) *types.FunctionGroup {
	if g := s.members.Functions(name); !g.IsEmpty() {
		return g
	}
	return &types.FunctionGroup{Name: name, Functions: Extensions(s.tc, s.outer, name, s.receiver)}
}

func (s *receiverScope) Classifier(name string) types.Classifier {
	if c := s.members.Classifier(name); c != nil {
		return c
	}
	return s.outer.Classifier(name)
}

func (s *receiverScope) ThisType() *types.Type { return s.outer.ThisType() }

func (s *receiverScope) DeclarationsByLabel(label string) []types.Descriptor {
	return s.outer.DeclarationsByLabel(label)
}

func (s *receiverScope) ContainingDeclaration() types.Descriptor {
	return s.outer.ContainingDeclaration()
}

// Extensions 返回 sc 中名为 name、接收者能接受 receiver 的扩展函数
func Extensions(tc *types.Checker, sc Scope, name string, receiver *types.Type) []*types.FunctionDescriptor {
	var out []*types.FunctionDescriptor
	for _, fd := range sc.Functions(name).Functions {
		if fd.Receiver != nil && tc.IsSubtypeOf(types.MakeNotNullable(receiver), fd.Receiver) {
			out = append(out, fd)
		}
	}
	return out
}

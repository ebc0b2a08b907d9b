// Package scope 提供名称查找使用的词法作用域
package scope

import (
	"github.com/tangzhangming/typeinfer/internal/types"
)

// Scope 词法作用域
//
// 查找沿父作用域链向外进行，内层声明遮蔽外层声明。
type Scope interface {
	// Property 按名称查找属性（局部变量、参数、成员属性）
	Property(name string) *types.PropertyDescriptor
	// Namespace 按名称查找命名空间
	Namespace(name string) *types.NamespaceDescriptor
	// Functions 返回最内层声明了该名称的作用域中的同名函数
	Functions(name string) *types.FunctionGroup
	// Classifier 按名称查找类或类型参数
	Classifier(name string) types.Classifier
	// ThisType 当前的 this 类型；没有 this 时为 Nothing
	ThisType() *types.Type
	// DeclarationsByLabel 按标签查找声明（this@label）
	DeclarationsByLabel(label string) []types.Descriptor
	// ContainingDeclaration 拥有该作用域的声明
	ContainingDeclaration() types.Descriptor
}

// ============================================================================
// 根作用域
// ============================================================================

// tableScope 以成员表为内容、没有父作用域的只读作用域
type tableScope struct {
	members  *types.MemberTable
	owner    types.Descriptor
	thisType *types.Type
}

// NewRoot 创建根作用域，内容是标准类型目录
func NewRoot() Scope {
	return &tableScope{
		members:  types.Standard().Classifiers(),
		thisType: types.Standard().NothingType(),
	}
}

// NewTable 以给定成员表创建作用域（命名空间、文件顶层）
func NewTable(members *types.MemberTable, owner types.Descriptor) Scope {
	return &tableScope{members: members, owner: owner, thisType: types.Standard().NothingType()}
}

func (s *tableScope) Property(name string) *types.PropertyDescriptor {
	return s.members.Property(name)
}

func (s *tableScope) Namespace(name string) *types.NamespaceDescriptor {
	return s.members.Namespace(name)
}

func (s *tableScope) Functions(name string) *types.FunctionGroup {
	return &types.FunctionGroup{Name: name, Functions: s.members.Functions(name)}
}

func (s *tableScope) Classifier(name string) types.Classifier {
	return s.members.Classifier(name)
}

func (s *tableScope) ThisType() *types.Type                          { return s.thisType }
func (s *tableScope) DeclarationsByLabel(string) []types.Descriptor { return nil }
func (s *tableScope) ContainingDeclaration() types.Descriptor        { return s.owner }

// ============================================================================
// 可写作用域
// ============================================================================

// Writable 可以追加声明的作用域
//
// 代码块、函数体和函数字面量各自拥有一个 Writable，声明按出现顺序加入，
// 只对之后的语句可见。
type Writable struct {
	parent   Scope
	owner    types.Descriptor
	members  *types.MemberTable
	labels   map[string][]types.Descriptor
	thisType *types.Type
}

// NewWritable 创建子可写作用域
func NewWritable(parent Scope, owner types.Descriptor) *Writable {
	return &Writable{
		parent:  parent,
		owner:   owner,
		members: types.NewMemberTable(),
		labels:  make(map[string][]types.Descriptor),
	}
}

// Parent 父作用域
func (w *Writable) Parent() Scope { return w.parent }

// AddProperty 声明属性
func (w *Writable) AddProperty(p *types.PropertyDescriptor) { w.members.AddProperty(p) }

// AddFunction 声明函数
func (w *Writable) AddFunction(f *types.FunctionDescriptor) { w.members.AddFunction(f) }

// AddClassifier 声明类或类型参数
func (w *Writable) AddClassifier(c types.Classifier) { w.members.AddClassifier(c) }

// AddNamespace 声明命名空间
func (w *Writable) AddNamespace(ns *types.NamespaceDescriptor) { w.members.AddNamespace(ns) }

// AddLabel 为声明登记标签
func (w *Writable) AddLabel(label string, d types.Descriptor) {
	w.labels[label] = append(w.labels[label], d)
}

// SetThisType 设置 this 类型
func (w *Writable) SetThisType(t *types.Type) { w.thisType = t }

func (w *Writable) Property(name string) *types.PropertyDescriptor {
	if p := w.members.Property(name); p != nil {
		return p
	}
	return w.parent.Property(name)
}

func (w *Writable) Namespace(name string) *types.NamespaceDescriptor {
	if ns := w.members.Namespace(name); ns != nil {
		return ns
	}
	return w.parent.Namespace(name)
}

func (w *Writable) Functions(name string) *types.FunctionGroup {
	if fs := w.members.Functions(name); len(fs) > 0 {
		return &types.FunctionGroup{Name: name, Functions: fs}
	}
	return w.parent.Functions(name)
}

func (w *Writable) Classifier(name string) types.Classifier {
	if c := w.members.Classifier(name); c != nil {
		return c
	}
	return w.parent.Classifier(name)
}

func (w *Writable) ThisType() *types.Type {
	if w.thisType != nil {
		return w.thisType
	}
	return w.parent.ThisType()
}

func (w *Writable) DeclarationsByLabel(label string) []types.Descriptor {
	if ds := w.labels[label]; len(ds) > 0 {
		return ds
	}
	return w.parent.DeclarationsByLabel(label)
}

func (w *Writable) ContainingDeclaration() types.Descriptor {
	if w.owner != nil {
		return w.owner
	}
	return w.parent.ContainingDeclaration()
}

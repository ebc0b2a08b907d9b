package types

import (
	"sort"
	"strings"
)

// ============================================================================
// 声明描述符
// ============================================================================

// Descriptor 声明描述符
//
// 推断引擎把名称、运算符和调用解析到描述符上，并记录在 trace 中。
type Descriptor interface {
	Name() string
	Container() Descriptor // 包含该声明的描述符，顶层为 nil
}

// Classifier 可以出现在类型引用中的描述符（类或类型参数）
type Classifier interface {
	Descriptor
	TypeConstructor() *TypeConstructor
	DefaultType() *Type
}

// ----------------------------------------------------------------------------
// 类型参数
// ----------------------------------------------------------------------------

// TypeParameterDescriptor 类型参数
type TypeParameterDescriptor struct {
	name        string
	container   Descriptor
	Variance    Variance // 声明处型变
	UpperBound  *Type
	constructor *TypeConstructor
}

// NewTypeParameter 创建类型参数，upperBound 为 nil 时使用 Any?
func NewTypeParameter(container Descriptor, name string, variance Variance, upperBound *Type) *TypeParameterDescriptor {
	tp := &TypeParameterDescriptor{name: name, container: container, Variance: variance, UpperBound: upperBound}
	tp.constructor = &TypeConstructor{Kind: KindTypeParameter, Name: name, Descriptor: tp}
	if upperBound != nil {
		tp.constructor.Supertypes = []*Type{upperBound}
	}
	return tp
}

func (tp *TypeParameterDescriptor) Name() string                      { return tp.name }
func (tp *TypeParameterDescriptor) Container() Descriptor             { return tp.container }
func (tp *TypeParameterDescriptor) TypeConstructor() *TypeConstructor { return tp.constructor }

// DefaultType 类型参数自身作为类型 (T)
func (tp *TypeParameterDescriptor) DefaultType() *Type {
	return NewType(tp.constructor, false)
}

// ----------------------------------------------------------------------------
// 类
// ----------------------------------------------------------------------------

// ClassDescriptor 类描述符
type ClassDescriptor struct {
	name         string
	container    Descriptor
	constructor  *TypeConstructor
	constructors []*FunctionDescriptor
	Members      *MemberTable
}

// NewClass 创建类描述符
//
// 类型参数与超类型在创建后通过 SetTypeParameters / AddSupertype 补齐，
// 这样超类型可以引用本类自己的类型参数。
func NewClass(container Descriptor, name string, final bool) *ClassDescriptor {
	c := &ClassDescriptor{name: name, container: container, Members: NewMemberTable()}
	c.constructor = &TypeConstructor{Kind: KindClass, Name: name, Final: final, Descriptor: c}
	return c
}

func (c *ClassDescriptor) Name() string                      { return c.name }
func (c *ClassDescriptor) Container() Descriptor             { return c.container }
func (c *ClassDescriptor) TypeConstructor() *TypeConstructor { return c.constructor }

// SetTypeParameters 设置类型参数
func (c *ClassDescriptor) SetTypeParameters(params ...*TypeParameterDescriptor) {
	c.constructor.Parameters = params
}

// AddSupertype 添加直接超类型
func (c *ClassDescriptor) AddSupertype(t *Type) {
	c.constructor.Supertypes = append(c.constructor.Supertypes, t)
}

// DefaultType 以自身类型参数为实参的类型 (Array<T>)
func (c *ClassDescriptor) DefaultType() *Type {
	args := make([]Projection, len(c.constructor.Parameters))
	for i, p := range c.constructor.Parameters {
		args[i] = InvariantOf(p.DefaultType())
	}
	return NewType(c.constructor, false, args...)
}

// AddConstructor 添加构造函数，返回类型为类的默认类型
func (c *ClassDescriptor) AddConstructor(params ...*ValueParameter) *FunctionDescriptor {
	fd := NewFunction(c, "<init>", nil, params, c.DefaultType())
	c.constructors = append(c.constructors, fd)
	return fd
}

// Constructors 以给定类型实参实例化的构造函数组
func (c *ClassDescriptor) Constructors(args []Projection) *FunctionGroup {
	sub := NewSubstitution(c.constructor.Parameters, args)
	group := &FunctionGroup{Name: c.name}
	for _, fd := range c.constructors {
		group.Functions = append(group.Functions, fd.Substitute(sub))
	}
	return group
}

// ----------------------------------------------------------------------------
// 函数
// ----------------------------------------------------------------------------

// ValueParameter 值参数
type ValueParameter struct {
	Name string
	Type *Type
}

// Param 创建值参数
func Param(name string, t *Type) *ValueParameter {
	return &ValueParameter{Name: name, Type: t}
}

// FunctionDescriptor 函数描述符
type FunctionDescriptor struct {
	name           string
	container      Descriptor
	TypeParameters []*TypeParameterDescriptor
	Receiver       *Type // 扩展函数的接收者类型，可为 nil
	Params         []*ValueParameter
	ReturnType     *Type
	original       *FunctionDescriptor
}

// NewFunction 创建函数描述符
func NewFunction(container Descriptor, name string, receiver *Type, params []*ValueParameter, ret *Type) *FunctionDescriptor {
	return &FunctionDescriptor{name: name, container: container, Receiver: receiver, Params: params, ReturnType: ret}
}

func (f *FunctionDescriptor) Name() string          { return f.name }
func (f *FunctionDescriptor) Container() Descriptor { return f.container }

// Original 替换前的原始声明
func (f *FunctionDescriptor) Original() *FunctionDescriptor {
	if f.original != nil {
		return f.original
	}
	return f
}

// ParamTypes 参数类型列表
func (f *FunctionDescriptor) ParamTypes() []*Type {
	out := make([]*Type, len(f.Params))
	for i, p := range f.Params {
		out[i] = p.Type
	}
	return out
}

// FunctionType 函数值的类型
func (f *FunctionDescriptor) FunctionType() *Type {
	return NewFunctionType(f.Receiver, f.ParamTypes(), f.ReturnType)
}

// Substitute 对签名中的类型参数做替换
func (f *FunctionDescriptor) Substitute(sub Substitution) *FunctionDescriptor {
	if sub.IsEmpty() {
		return f
	}
	cp := &FunctionDescriptor{
		name:           f.name,
		container:      f.container,
		TypeParameters: f.TypeParameters,
		original:       f.Original(),
	}
	if f.Receiver != nil {
		cp.Receiver = sub.Apply(f.Receiver, In)
	}
	for _, p := range f.Params {
		cp.Params = append(cp.Params, &ValueParameter{Name: p.Name, Type: sub.Apply(p.Type, In)})
	}
	cp.ReturnType = sub.Apply(f.ReturnType, Out)
	return cp
}

// String 渲染签名，用于诊断消息
func (f *FunctionDescriptor) String() string {
	var sb strings.Builder
	sb.WriteString("fun ")
	if f.Receiver != nil {
		sb.WriteString(f.Receiver.String())
		sb.WriteString(".")
	}
	sb.WriteString(f.name)
	sb.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		sb.WriteString(" : ")
		sb.WriteString(p.Type.String())
	}
	sb.WriteString(") : ")
	sb.WriteString(f.ReturnType.String())
	return sb.String()
}

// FunctionGroup 同名函数集合（重载候选）
type FunctionGroup struct {
	Name      string
	Functions []*FunctionDescriptor
}

// IsEmpty 是否没有候选
func (g *FunctionGroup) IsEmpty() bool {
	return g == nil || len(g.Functions) == 0
}

// ----------------------------------------------------------------------------
// 属性
// ----------------------------------------------------------------------------

// PropertyDescriptor 属性描述符
//
// InType 是写入类型，OutType 是读取类型；OutType 为 nil 表示只写属性。
type PropertyDescriptor struct {
	name      string
	container Descriptor
	InType    *Type
	OutType   *Type
}

// NewProperty 创建属性描述符
func NewProperty(container Descriptor, name string, inType, outType *Type) *PropertyDescriptor {
	return &PropertyDescriptor{name: name, container: container, InType: inType, OutType: outType}
}

// NewValue 创建只读属性描述符
func NewValue(container Descriptor, name string, t *Type) *PropertyDescriptor {
	return NewProperty(container, name, nil, t)
}

// NewVariable 创建可读写属性描述符
func NewVariable(container Descriptor, name string, t *Type) *PropertyDescriptor {
	return NewProperty(container, name, t, t)
}

func (p *PropertyDescriptor) Name() string          { return p.name }
func (p *PropertyDescriptor) Container() Descriptor { return p.container }

// Substitute 对属性类型做替换
func (p *PropertyDescriptor) Substitute(sub Substitution) *PropertyDescriptor {
	if sub.IsEmpty() {
		return p
	}
	cp := &PropertyDescriptor{name: p.name, container: p.container}
	if p.InType != nil {
		cp.InType = sub.Apply(p.InType, In)
	}
	if p.OutType != nil {
		cp.OutType = sub.Apply(p.OutType, Out)
	}
	return cp
}

// ----------------------------------------------------------------------------
// 命名空间
// ----------------------------------------------------------------------------

// NamespaceDescriptor 命名空间描述符
type NamespaceDescriptor struct {
	name      string
	container Descriptor
	Members   *MemberTable
	typ       *Type
}

// NewNamespace 创建命名空间
func NewNamespace(container Descriptor, name string) *NamespaceDescriptor {
	ns := &NamespaceDescriptor{name: name, container: container, Members: NewMemberTable()}
	ns.typ = NewType(&TypeConstructor{Kind: KindNamespace, Name: name, Final: true, Descriptor: ns}, false)
	return ns
}

func (n *NamespaceDescriptor) Name() string          { return n.name }
func (n *NamespaceDescriptor) Container() Descriptor { return n.container }

// NamespaceType 命名空间作为值时的类型（永远不可空）
func (n *NamespaceDescriptor) NamespaceType() *Type { return n.typ }

// ----------------------------------------------------------------------------
// 匿名函数容器
// ----------------------------------------------------------------------------

// AnonymousFunction 函数字面量的容器描述符
type AnonymousFunction struct {
	container Descriptor
}

// NewAnonymousFunction 创建函数字面量容器
func NewAnonymousFunction(container Descriptor) *AnonymousFunction {
	return &AnonymousFunction{container: container}
}

func (a *AnonymousFunction) Name() string          { return "<anonymous>" }
func (a *AnonymousFunction) Container() Descriptor { return a.container }

// ============================================================================
// 成员表
// ============================================================================

// MemberTable 类或命名空间直接声明的成员
type MemberTable struct {
	properties  map[string]*PropertyDescriptor
	functions   map[string][]*FunctionDescriptor
	classifiers map[string]Classifier
	namespaces  map[string]*NamespaceDescriptor
}

// NewMemberTable 创建空成员表
func NewMemberTable() *MemberTable {
	return &MemberTable{
		properties:  make(map[string]*PropertyDescriptor),
		functions:   make(map[string][]*FunctionDescriptor),
		classifiers: make(map[string]Classifier),
		namespaces:  make(map[string]*NamespaceDescriptor),
	}
}

// AddProperty 添加属性
func (m *MemberTable) AddProperty(p *PropertyDescriptor) { m.properties[p.Name()] = p }

// AddFunction 添加函数（同名函数构成重载）
func (m *MemberTable) AddFunction(f *FunctionDescriptor) {
	m.functions[f.Name()] = append(m.functions[f.Name()], f)
}

// AddClassifier 添加类或类型参数
func (m *MemberTable) AddClassifier(c Classifier) { m.classifiers[c.Name()] = c }

// AddNamespace 添加命名空间
func (m *MemberTable) AddNamespace(ns *NamespaceDescriptor) { m.namespaces[ns.Name()] = ns }

// Property 按名称查找属性
func (m *MemberTable) Property(name string) *PropertyDescriptor { return m.properties[name] }

// Functions 按名称查找函数
func (m *MemberTable) Functions(name string) []*FunctionDescriptor { return m.functions[name] }

// Classifier 按名称查找类型
func (m *MemberTable) Classifier(name string) Classifier { return m.classifiers[name] }

// Namespace 按名称查找命名空间
func (m *MemberTable) Namespace(name string) *NamespaceDescriptor { return m.namespaces[name] }

// ClassifierNames 按字母序排列的类型名
func (m *MemberTable) ClassifierNames() []string { return sortedKeys(m.classifiers) }

// FunctionNames 按字母序排列的函数名
func (m *MemberTable) FunctionNames() []string { return sortedKeys(m.functions) }

// PropertyNames 按字母序排列的属性名
func (m *MemberTable) PropertyNames() []string { return sortedKeys(m.properties) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

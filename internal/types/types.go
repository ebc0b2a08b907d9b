// Package types 实现表达式推断使用的类型模型
//
// 类型是不可变的值：类型构造器（按指针比较身份）、可空标记、按顺序排列的类型实参投影，
// 函数类型另外带有接收者、参数与返回类型。所有构造函数都返回新值，不修改已有类型。
package types

import (
	"fmt"
	"strings"
)

// ============================================================================
// 型变
// ============================================================================

// Variance 型变标记
type Variance int

const (
	Invariant Variance = iota // T
	In                        // in T（只写）
	Out                       // out T（只读）
)

// AllowsInPosition 是否允许出现在写入位置
func (v Variance) AllowsInPosition() bool { return v != Out }

// AllowsOutPosition 是否允许出现在读取位置
func (v Variance) AllowsOutPosition() bool { return v != In }

func (v Variance) String() string {
	switch v {
	case In:
		return "in"
	case Out:
		return "out"
	}
	return ""
}

// Projection 类型实参投影：型变 + 类型
type Projection struct {
	Kind Variance
	Type *Type
}

// NewProjection 创建投影
func NewProjection(kind Variance, t *Type) Projection {
	return Projection{Kind: kind, Type: t}
}

// InvariantOf 创建不变投影
func InvariantOf(t *Type) Projection {
	return Projection{Kind: Invariant, Type: t}
}

func (p Projection) String() string {
	if p.Kind == Invariant {
		return p.Type.String()
	}
	return p.Kind.String() + " " + p.Type.String()
}

// ============================================================================
// 类型构造器
// ============================================================================

// ConstructorKind 类型构造器种类
type ConstructorKind int

const (
	KindClass         ConstructorKind = iota // 普通类
	KindTypeParameter                        // 类型参数
	KindNamespace                            // 命名空间
	KindTuple                                // 元组（Unit 是零元组）
	KindFunction                             // 函数类型
	KindNothing                              // 底类型
	KindError                                // 错误类型
)

// TypeConstructor 类型构造器
//
// 身份即指针：两个构造器只有是同一个对象时才相等。
type TypeConstructor struct {
	Kind       ConstructorKind
	Name       string
	Parameters []*TypeParameterDescriptor
	Supertypes []*Type
	Final      bool       // 不可能有子类型
	Descriptor Descriptor // 声明描述符，可为 nil
}

func (c *TypeConstructor) String() string { return c.Name }

// ============================================================================
// 类型
// ============================================================================

// Type 类型
type Type struct {
	Constructor *TypeConstructor
	Nullable    bool
	Arguments   []Projection

	// 函数类型
	Receiver *Type
	Params   []*Type
	Return   *Type

	errMsg string
}

// NewType 创建类型
func NewType(c *TypeConstructor, nullable bool, args ...Projection) *Type {
	if c.Kind == KindNamespace {
		nullable = false
	}
	return &Type{Constructor: c, Nullable: nullable, Arguments: args}
}

var (
	errorConstructor    = &TypeConstructor{Kind: KindError, Name: "[ERROR]", Final: true}
	functionConstructor = &TypeConstructor{Kind: KindFunction, Name: "Function"}
)

// ErrorType 创建一个新的错误类型
//
// 每次调用都返回不同的值；错误类型与任何类型都兼容，用来阻止诊断级联。
func ErrorType(msg string) *Type {
	return &Type{Constructor: errorConstructor, errMsg: msg}
}

// IsError 是否为错误类型
func (t *Type) IsError() bool {
	return t != nil && t.Constructor.Kind == KindError
}

// IsNothing 是否为 Nothing 或 Nothing?
func (t *Type) IsNothing() bool {
	return t != nil && t.Constructor.Kind == KindNothing
}

// IsNamespace 是否为命名空间类型
func (t *Type) IsNamespace() bool {
	return t != nil && t.Constructor.Kind == KindNamespace
}

// IsFunction 是否为函数类型
func (t *Type) IsFunction() bool {
	return t != nil && t.Constructor.Kind == KindFunction
}

// IsUnit 是否为 Unit（不可空的零元组）
func (t *Type) IsUnit() bool {
	return t != nil && t.Constructor.Kind == KindTuple && len(t.Arguments) == 0 && !t.Nullable
}

// ErrorMessage 错误类型的说明
func (t *Type) ErrorMessage() string { return t.errMsg }

// MakeNullable 返回可空版本；命名空间类型永远不可空
func MakeNullable(t *Type) *Type {
	return MakeNullableAsSpecified(t, true)
}

// MakeNotNullable 返回不可空版本
func MakeNotNullable(t *Type) *Type {
	return MakeNullableAsSpecified(t, false)
}

// MakeNullableAsSpecified 按指定可空性返回类型
func MakeNullableAsSpecified(t *Type, nullable bool) *Type {
	if t == nil || t.IsError() || t.IsNamespace() || t.Nullable == nullable {
		return t
	}
	cp := *t
	cp.Nullable = nullable
	return &cp
}

// Equal 结构相等
//
// 错误类型只与自身相等；需要宽容比较时使用 Checker。
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Constructor != b.Constructor || a.Nullable != b.Nullable {
		return false
	}
	if a.IsError() {
		return false
	}
	if len(a.Arguments) != len(b.Arguments) {
		return false
	}
	for i := range a.Arguments {
		if a.Arguments[i].Kind != b.Arguments[i].Kind || !Equal(a.Arguments[i].Type, b.Arguments[i].Type) {
			return false
		}
	}
	if a.IsFunction() {
		if !Equal(a.Receiver, b.Receiver) || !Equal(a.Return, b.Return) || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
	}
	return true
}

// String 返回类型的源码形式
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	var sb strings.Builder
	switch t.Constructor.Kind {
	case KindError:
		return fmt.Sprintf("[ERROR : %s]", t.errMsg)
	case KindNamespace:
		return "namespace " + t.Constructor.Name
	case KindFunction:
		sb.WriteString("{")
		if t.Receiver != nil {
			sb.WriteString(t.Receiver.String())
			sb.WriteString(".")
		}
		sb.WriteString("(")
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteString(") : ")
		sb.WriteString(t.Return.String())
		sb.WriteString("}")
	case KindTuple:
		if len(t.Arguments) == 0 {
			sb.WriteString("Unit")
			break
		}
		sb.WriteString("(")
		for i, a := range t.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.Type.String())
		}
		sb.WriteString(")")
	default:
		sb.WriteString(t.Constructor.Name)
		if len(t.Arguments) > 0 {
			sb.WriteString("<")
			for i, a := range t.Arguments {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(a.String())
			}
			sb.WriteString(">")
		}
	}
	if t.Nullable {
		sb.WriteString("?")
	}
	return sb.String()
}

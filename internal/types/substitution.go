package types

// ============================================================================
// 类型替换
// ============================================================================

// Substitution 类型参数到投影的映射
type Substitution map[*TypeConstructor]Projection

// NewSubstitution 按位置把类型参数与实参配对
func NewSubstitution(params []*TypeParameterDescriptor, args []Projection) Substitution {
	if len(params) == 0 || len(args) == 0 {
		return nil
	}
	sub := make(Substitution, len(params))
	for i, p := range params {
		if i >= len(args) {
			break
		}
		sub[p.TypeConstructor()] = args[i]
	}
	return sub
}

// SubstitutionOf 以类型自身的实参构建替换上下文（Array<Int> → {T: Int}）
func SubstitutionOf(t *Type) Substitution {
	if t == nil {
		return nil
	}
	return NewSubstitution(t.Constructor.Parameters, t.Arguments)
}

// IsEmpty 是否为空替换
func (s Substitution) IsEmpty() bool { return len(s) == 0 }

// Apply 替换类型中出现的类型参数
//
// howUsed 是该类型所处的位置：从 in 投影读取得到上界，
// 向 out 投影写入得到 Nothing。
func (s Substitution) Apply(t *Type, howUsed Variance) *Type {
	if t == nil || s.IsEmpty() || t.IsError() {
		return t
	}
	c := t.Constructor
	switch c.Kind {
	case KindTypeParameter:
		proj, ok := s[c]
		if !ok {
			return t
		}
		var result *Type
		switch {
		case proj.Kind == Invariant || howUsed == Invariant || proj.Kind == howUsed:
			result = proj.Type
		case howUsed == Out:
			result = upperBoundOf(c)
		default:
			result = lib.nothingType
		}
		if t.Nullable {
			result = MakeNullable(result)
		}
		return result
	case KindFunction:
		var receiver *Type
		if t.Receiver != nil {
			receiver = s.Apply(t.Receiver, In)
		}
		params := make([]*Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = s.Apply(p, In)
		}
		return MakeNullableAsSpecified(NewFunctionType(receiver, params, s.Apply(t.Return, Out)), t.Nullable)
	}
	if len(t.Arguments) == 0 {
		return t
	}
	args := make([]Projection, len(t.Arguments))
	for i, a := range t.Arguments {
		args[i] = s.applyProjection(a)
	}
	return NewType(c, t.Nullable, args...)
}

func (s Substitution) applyProjection(p Projection) Projection {
	if p.Type.Constructor.Kind == KindTypeParameter {
		if q, ok := s[p.Type.Constructor]; ok {
			t := q.Type
			if p.Type.Nullable {
				t = MakeNullable(t)
			}
			switch {
			case p.Kind == Invariant:
				return Projection{Kind: q.Kind, Type: t}
			case q.Kind == Invariant || q.Kind == p.Kind:
				return Projection{Kind: p.Kind, Type: t}
			default:
				// in 与 out 冲突，只剩星投影
				return Projection{Kind: Out, Type: lib.nullableAnyType}
			}
		}
	}
	return Projection{Kind: p.Kind, Type: s.Apply(p.Type, Invariant)}
}

func upperBoundOf(c *TypeConstructor) *Type {
	if tp, ok := c.Descriptor.(*TypeParameterDescriptor); ok && tp.UpperBound != nil {
		return tp.UpperBound
	}
	return lib.nullableAnyType
}

// NewFunctionType 创建函数类型
func NewFunctionType(receiver *Type, params []*Type, ret *Type) *Type {
	return &Type{Constructor: functionConstructor, Receiver: receiver, Params: params, Return: ret}
}

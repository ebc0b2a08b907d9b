package resolve

import (
	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/diag"
	"github.com/tangzhangming/typeinfer/internal/i18n"
	"github.com/tangzhangming/typeinfer/internal/scope"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// ============================================================================
// 局部声明
// ============================================================================

// DescriptorResolver 由局部声明构建描述符
type DescriptorResolver struct {
	types *TypeResolver
	lib   *types.StandardLibrary
}

// NewDescriptorResolver 创建描述符解析服务
func NewDescriptorResolver(tr *TypeResolver) *DescriptorResolver {
	return &DescriptorResolver{types: tr, lib: types.Standard()}
}

// ResolveProperty 局部属性
//
// 有类型注解时使用注解，否则使用初始化表达式的类型 initType（可为 nil）。
func (r *DescriptorResolver) ResolveProperty(ctx Context, sc scope.Scope, owner types.Descriptor, prop *ast.Property, initType *types.Type) *types.PropertyDescriptor {
	var t *types.Type
	switch {
	case prop.Type != nil:
		t = r.types.ResolveType(ctx, sc, prop.Type)
	case initType != nil:
		t = initType
	default:
		msg := i18n.T(i18n.ErrPropertyNeedsType)
		ctx.Errors.GenericError(prop, diag.E0001, msg)
		t = types.ErrorType(msg)
	}

	var pd *types.PropertyDescriptor
	if prop.Var {
		pd = types.NewVariable(owner, prop.Name, t)
	} else {
		pd = types.NewValue(owner, prop.Name, t)
	}
	ctx.Trace.RecordDeclaration(prop, pd)
	return pd
}

// ResolveFunction 局部函数的签名
//
// 类型参数在签名内可见。没有声明返回类型时，代码块函数体的返回类型为 Unit，
// 表达式函数体的 ReturnType 留空，由调用方推断。
func (r *DescriptorResolver) ResolveFunction(ctx Context, sc scope.Scope, owner types.Descriptor, fn *ast.Function) *types.FunctionDescriptor {
	fd := types.NewFunction(owner, fn.Name, nil, nil, nil)

	sigScope := sc
	if len(fn.TypeParams) > 0 {
		w := scope.NewWritable(sc, fd)
		for _, name := range fn.TypeParams {
			tp := types.NewTypeParameter(fd, name, types.Invariant, nil)
			fd.TypeParameters = append(fd.TypeParameters, tp)
			w.AddClassifier(tp)
		}
		sigScope = w
	}

	if fn.Receiver != nil {
		fd.Receiver = r.types.ResolveType(ctx, sigScope, fn.Receiver)
	}
	for _, p := range fn.Params {
		fd.Params = append(fd.Params, r.ResolveValueParameter(ctx, sigScope, fd, p))
	}
	switch {
	case fn.ReturnType != nil:
		fd.ReturnType = r.types.ResolveType(ctx, sigScope, fn.ReturnType)
	case fn.BlockBody:
		fd.ReturnType = r.lib.UnitType()
	}
	ctx.Trace.RecordDeclaration(fn, fd)
	return fd
}

// ResolveValueParameter 带类型注解的值参数
func (r *DescriptorResolver) ResolveValueParameter(ctx Context, sc scope.Scope, owner types.Descriptor, p *ast.Parameter) *types.ValueParameter {
	var t *types.Type
	if p.Type != nil {
		t = r.types.ResolveType(ctx, sc, p.Type)
	} else {
		msg := i18n.T(i18n.ErrParameterNeedsType)
		ctx.Errors.GenericError(p, diag.E0001, msg)
		t = types.ErrorType(msg)
	}
	return types.Param(p.Name, t)
}

// ValueParameterWithType 已知类型的参数（循环变量、catch 参数、函数字面量参数），作为局部属性
func (r *DescriptorResolver) ValueParameterWithType(ctx Context, owner types.Descriptor, p *ast.Parameter, t *types.Type) *types.PropertyDescriptor {
	var pd *types.PropertyDescriptor
	if p.Var {
		pd = types.NewVariable(owner, p.Name, t)
	} else {
		pd = types.NewValue(owner, p.Name, t)
	}
	ctx.Trace.RecordDeclaration(p, pd)
	return pd
}

// ParameterProperties 函数的值参数在函数体内作为只读局部属性
func ParameterProperties(fd *types.FunctionDescriptor) []*types.PropertyDescriptor {
	out := make([]*types.PropertyDescriptor, len(fd.Params))
	for i, p := range fd.Params {
		out[i] = types.NewValue(fd, p.Name, p.Type)
	}
	return out
}

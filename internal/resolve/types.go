// Package resolve 把书写出来的类型引用和局部声明解析为类型与描述符
package resolve

import (
	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/diag"
	"github.com/tangzhangming/typeinfer/internal/i18n"
	"github.com/tangzhangming/typeinfer/internal/scope"
	"github.com/tangzhangming/typeinfer/internal/trace"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// Context 一次解析使用的记录与错误接收者
type Context struct {
	Trace  trace.Trace
	Errors diag.Handler
}

// ============================================================================
// 类型解析
// ============================================================================

// TypeResolver 类型引用解析服务
type TypeResolver struct {
	lib *types.StandardLibrary
}

// NewTypeResolver 创建类型解析服务
func NewTypeResolver() *TypeResolver {
	return &TypeResolver{lib: types.Standard()}
}

// ResolveType 解析类型引用
//
// 无法解析的名称上报未解析引用并得到错误类型；每次解析都记录到 trace。
func (r *TypeResolver) ResolveType(ctx Context, sc scope.Scope, ref ast.TypeElement) *types.Type {
	t := r.resolve(ctx, sc, ref)
	ctx.Trace.RecordTypeResolution(ref, t)
	return t
}

func (r *TypeResolver) resolve(ctx Context, sc scope.Scope, ref ast.TypeElement) *types.Type {
	switch n := ref.(type) {
	case *ast.UserType:
		return r.resolveUserType(ctx, sc, n)
	case *ast.NullableType:
		return types.MakeNullable(r.ResolveType(ctx, sc, n.Inner))
	case *ast.FunctionType:
		var receiver *types.Type
		if n.Receiver != nil {
			receiver = r.ResolveType(ctx, sc, n.Receiver)
		}
		params := make([]*types.Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = r.ResolveType(ctx, sc, p)
		}
		return types.NewFunctionType(receiver, params, r.ResolveType(ctx, sc, n.Return))
	case *ast.TupleType:
		if len(n.Elements) > types.MaxTupleArity {
			msg := i18n.T(i18n.ErrTupleTooLong, types.MaxTupleArity)
			ctx.Errors.GenericError(n, diag.E0001, msg)
			return types.ErrorType(msg)
		}
		elems := make([]*types.Type, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = r.ResolveType(ctx, sc, e)
		}
		return r.lib.TupleOf(elems...)
	case nil:
		return types.ErrorType("missing type")
	}
	return types.ErrorType("unknown type element " + ref.String())
}

func (r *TypeResolver) resolveUserType(ctx Context, sc scope.Scope, n *ast.UserType) *types.Type {
	classifier := r.lookup(ctx, sc, n)
	if classifier == nil {
		return types.ErrorType(n.Ref.Name)
	}
	c := classifier.TypeConstructor()
	if len(n.Args) != len(c.Parameters) {
		msg := i18n.T(i18n.ErrTypeArgumentCount, len(c.Parameters), c.Name, len(n.Args))
		ctx.Errors.GenericError(n, diag.E0001, msg)
		return types.ErrorType(msg)
	}
	args := make([]types.Projection, len(n.Args))
	for i, a := range n.Args {
		args[i] = r.projection(ctx, sc, a, c.Parameters[i])
	}
	return types.NewType(c, false, args...)
}

func (r *TypeResolver) projection(ctx Context, sc scope.Scope, a *ast.TypeProjection, p *types.TypeParameterDescriptor) types.Projection {
	switch a.Kind {
	case ast.ProjectionStar:
		bound := p.UpperBound
		if bound == nil {
			bound = r.lib.DefaultBound()
		}
		return types.NewProjection(types.Out, bound)
	case ast.ProjectionIn:
		return types.NewProjection(types.In, r.ResolveType(ctx, sc, a.Type))
	case ast.ProjectionOut:
		return types.NewProjection(types.Out, r.ResolveType(ctx, sc, a.Type))
	}
	return types.InvariantOf(r.ResolveType(ctx, sc, a.Type))
}

// ResolveClass 解析类型引用指向的类型声明，忽略类型实参
//
// 无法解析时上报未解析引用并返回 nil。
func (r *TypeResolver) ResolveClass(ctx Context, sc scope.Scope, ref ast.TypeElement) types.Classifier {
	switch n := ref.(type) {
	case *ast.UserType:
		return r.lookup(ctx, sc, n)
	case *ast.NullableType:
		return r.ResolveClass(ctx, sc, n.Inner)
	}
	return nil
}

func (r *TypeResolver) lookup(ctx Context, sc scope.Scope, n *ast.UserType) types.Classifier {
	classifier := sc.Classifier(n.Ref.Name)
	if classifier == nil {
		ctx.Errors.UnresolvedReference(n.Ref)
		return nil
	}
	ctx.Trace.RecordReferenceResolution(n.Ref, classifier)
	return classifier
}

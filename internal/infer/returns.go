package infer

import (
	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/diag"
	"github.com/tangzhangming/typeinfer/internal/i18n"
	"github.com/tangzhangming/typeinfer/internal/resolve"
	"github.com/tangzhangming/typeinfer/internal/scope"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// ============================================================================
// 返回类型
// ============================================================================

// returnSite 一个返回点及其类型
type returnSite struct {
	node ast.Node
	typ  *types.Type
	unit bool // 隐式返回 Unit 的位置
}

// functionInnerScope 函数体的作用域：参数可见，扩展函数的 this 是接收者
func (p *pass) functionInnerScope(outer scope.Scope, desc *types.FunctionDescriptor) *scope.Writable {
	w := scope.NewWritable(outer, desc)
	for _, pd := range resolve.ParameterProperties(desc) {
		w.AddProperty(pd)
	}
	if desc.Receiver != nil {
		w.SetThisType(desc.Receiver)
	}
	return w
}

// returnSites 推断函数体，再按控制流收集每个返回点的类型
func (p *pass) returnSites(outer scope.Scope, fn *ast.Function, desc *types.FunctionDescriptor) []returnSite {
	if fn.Body == nil {
		return nil
	}
	inner := p.functionInnerScope(outer, desc)
	p.newVisitor(inner, fn.BlockBody).visit(fn.Body)

	returned, unitPoints := p.flow.ReturnSites(fn)
	sites := make([]returnSite, 0, len(returned)+len(unitPoints))
	for _, expr := range returned {
		if t, ok := p.trace.Lookup(expr); ok && t != nil {
			sites = append(sites, returnSite{node: expr, typ: t})
		}
	}
	unit := p.lib.UnitType()
	for _, point := range unitPoints {
		sites = append(sites, returnSite{node: point, typ: unit, unit: true})
	}
	return sites
}

// functionReturnType 所有返回点类型的公共超类型；没有返回点时为 Nothing
func (p *pass) functionReturnType(outer scope.Scope, fn *ast.Function, desc *types.FunctionDescriptor) *types.Type {
	sites := p.returnSites(outer, fn, desc)
	ts := make([]*types.Type, len(sites))
	for i, s := range sites {
		ts[i] = s.typ
	}
	return p.tc.CommonSupertype(ts)
}

// checkFunctionReturnType 每个返回点都必须能转换为声明的返回类型
func (p *pass) checkFunctionReturnType(outer scope.Scope, fn *ast.Function, desc *types.FunctionDescriptor) {
	sites := p.returnSites(outer, fn, desc)
	expected := desc.ReturnType
	if expected == nil {
		return
	}
	for _, s := range sites {
		if p.tc.IsConvertibleTo(s.typ, expected) {
			continue
		}
		if s.unit {
			p.errors.GenericError(s.node, diag.E0001, i18n.T(i18n.ErrMustReturnValue, expected))
		} else {
			p.errors.TypeMismatch(s.node, expected, s.typ)
		}
	}
}

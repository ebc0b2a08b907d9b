package infer

import (
	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/i18n"
	"github.com/tangzhangming/typeinfer/internal/scope"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// ============================================================================
// 控制结构
// ============================================================================

// join 非 nil 类型的公共超类型；没有类型时为 Nothing
func (v *visitor) join(ts ...*types.Type) *types.Type {
	present := make([]*types.Type, 0, len(ts))
	for _, t := range ts {
		if t != nil {
			present = append(present, t)
		}
	}
	return v.tc().CommonSupertype(present)
}

// when 结果是所有叶子分支类型的公共超类型
func (v *visitor) when(e *ast.When) *types.Type {
	v.infer(v.scope, e.Subject, false)
	var branches []*types.Type
	v.collectBranches(e, &branches)
	return v.join(branches...)
}

func (v *visitor) collectBranches(e *ast.When, out *[]*types.Type) {
	for _, entry := range e.Entries {
		if entry.Sub != nil {
			v.collectBranches(entry.Sub, out)
			continue
		}
		if entry.Body != nil {
			*out = append(*out, v.infer(v.scope, entry.Body, true))
		}
	}
}

// try 有 finally 时 catch 分支不参与合并
func (v *visitor) try(e *ast.Try) *types.Type {
	var branches []*types.Type
	for _, c := range e.Catches {
		if c.Body == nil {
			continue
		}
		t := v.infer(v.catchScope(c), c.Body, true)
		if e.Finally == nil {
			branches = append(branches, t)
		}
	}
	if e.Finally != nil {
		branches = append(branches, v.infer(v.scope, e.Finally, true))
	}
	if e.Body != nil {
		branches = append(branches, v.infer(v.scope, e.Body, true))
	}
	return v.join(branches...)
}

// catchScope catch 参数在 catch 体中可见
func (v *visitor) catchScope(c *ast.CatchClause) scope.Scope {
	if c.Param == nil {
		return v.scope
	}
	p := v.p
	var t *types.Type
	if c.Param.Type != nil {
		t = p.typeRefs.ResolveType(p.ctx, v.scope, c.Param.Type)
	} else {
		t = types.ErrorType("catch parameter " + c.Param.Name)
	}
	w := scope.NewWritable(v.scope, v.scope.ContainingDeclaration())
	w.AddProperty(p.descriptors.ValueParameterWithType(p.ctx, w.ContainingDeclaration(), c.Param, t))
	return w
}

// ifExpr 没有 else 时结果为 Unit
func (v *visitor) ifExpr(e *ast.If) *types.Type {
	v.checkCondition(v.scope, e.Cond)
	thenType := v.infer(v.scope, e.Then, true)
	if e.Else == nil {
		return v.lib().UnitType()
	}
	elseType := v.infer(v.scope, e.Else, true)
	switch {
	case thenType == nil:
		return elseType
	case elseType == nil:
		return thenType
	}
	return v.join(thenType, elseType)
}

func (v *visitor) while(e *ast.While) *types.Type {
	v.checkCondition(v.scope, e.Cond)
	v.infer(v.scope, e.Body, true)
	return v.lib().UnitType()
}

// doWhile 循环体中的局部声明在条件中可见
func (v *visitor) doWhile(e *ast.DoWhile) *types.Type {
	sc := v.scope
	switch body := e.Body.(type) {
	case nil:
	case *ast.FunctionLiteral:
		if body.HasParams {
			v.infer(v.scope, body, true)
			break
		}
		w := scope.NewWritable(v.scope, v.scope.ContainingDeclaration())
		v.p.blockWithScope(w, body.Body)
		v.p.trace.RecordBlock(body)
		sc = w
	case *ast.Block:
		w := scope.NewWritable(v.scope, v.scope.ContainingDeclaration())
		if t := v.p.blockWithScope(w, body.Statements); t != nil {
			v.p.trace.RecordExpressionType(body, t)
		}
		sc = w
	default:
		w := scope.NewWritable(v.scope, v.scope.ContainingDeclaration())
		v.p.blockWithScope(w, []ast.Expression{body})
		sc = w
	}
	v.checkCondition(sc, e.Cond)
	return v.lib().UnitType()
}

// forExpr 循环变量的类型是 Iterable 元素类型的投影
func (v *visitor) forExpr(e *ast.For) *types.Type {
	p := v.p
	lib := v.lib()

	var expected *types.Type
	if e.Range != nil {
		if rangeType := v.infer(v.scope, e.Range, false); rangeType != nil {
			expected = v.elementType(e.Range, rangeType)
		}
	}

	loopScope := scope.NewWritable(v.scope, v.scope.ContainingDeclaration())
	if param := e.Param; param != nil {
		var pd *types.PropertyDescriptor
		if param.Type != nil {
			declared := p.typeRefs.ResolveType(p.ctx, v.scope, param.Type)
			if expected != nil && !v.tc().IsSubtypeOf(expected, declared) {
				v.genericError(param.Type, i18n.ErrLoopParameterType, expected, declared)
			}
			pd = p.descriptors.ValueParameterWithType(p.ctx, loopScope.ContainingDeclaration(), param, declared)
		} else {
			if expected == nil {
				expected = types.ErrorType("Error")
			}
			pd = p.descriptors.ValueParameterWithType(p.ctx, loopScope.ContainingDeclaration(), param, expected)
		}
		loopScope.AddProperty(pd)
	}

	v.infer(loopScope, e.Body, true)
	return lib.UnitType()
}

// elementType 被迭代值的元素类型；不可迭代时报错并返回 nil
func (v *visitor) elementType(rng ast.Expression, rangeType *types.Type) *types.Type {
	lib := v.lib()
	if !v.tc().IsSubtypeOf(rangeType, lib.IterableOf(lib.NullableAnyType())) {
		v.genericError(rng, i18n.ErrExpectingIterable, rangeType)
		return nil
	}
	if rangeType.IsError() {
		return rangeType
	}
	view := v.tc().SupertypeView(rangeType, lib.Iterable.TypeConstructor())
	if view == nil || len(view.Arguments) == 0 {
		return lib.DefaultBound()
	}
	proj := view.Arguments[0]
	if !proj.Kind.AllowsOutPosition() {
		return lib.DefaultBound()
	}
	return proj.Type
}

// checkCondition 条件必须是 Boolean
func (v *visitor) checkCondition(sc scope.Scope, cond ast.Expression) {
	if cond == nil {
		return
	}
	t := v.infer(sc, cond, false)
	if t != nil && !v.lib().IsBoolean(t) {
		v.genericError(cond, i18n.ErrConditionNotBoolean, t)
	}
}

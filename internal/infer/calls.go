package infer

import (
	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/diag"
	"github.com/tangzhangming/typeinfer/internal/i18n"
	"github.com/tangzhangming/typeinfer/internal/overload"
	"github.com/tangzhangming/typeinfer/internal/scope"
	"github.com/tangzhangming/typeinfer/internal/token"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// ============================================================================
// 重载解析桥
// ============================================================================

// tracedDomain 在每次解析后记录引用并报告失败
type tracedDomain struct {
	overload.Domain
	p      *pass
	refs   []ast.Node // 记录解析结果的节点，第一个用于未解析引用
	args   ast.Node   // 实参列表，可为 nil
	report bool
}

// trace 包装 d；args 为 nil 时失败报告在 ref 上
func (p *pass) traceDomain(d overload.Domain, args *ast.ArgumentList, report bool, refs ...ast.Node) *tracedDomain {
	td := &tracedDomain{Domain: d, p: p, refs: refs, report: report}
	if args != nil {
		td.args = args
	}
	return td
}

func (d *tracedDomain) ResolvePositional(typeArgs []*types.Type, argTypes []*types.Type) overload.Result {
	r := d.Domain.ResolvePositional(typeArgs, argTypes)
	if r.IsSingleCandidate() {
		for _, ref := range d.refs {
			d.p.trace.RecordReferenceResolution(ref, r.Function)
		}
	}
	if !d.report {
		return r
	}
	ref := d.refs[0]
	errs := d.p.errors
	switch r.Code {
	case overload.NameNotFound:
		errs.UnresolvedReference(ref)
	case overload.SingleCandidateArgumentMismatch:
		if d.args != nil {
			errs.GenericError(d.args, diag.E0301, i18n.T(i18n.ErrArgumentsDoNotMatch, r.Function))
		} else {
			errs.UnresolvedReference(ref)
		}
	case overload.Ambiguity:
		if anyError(argTypes) {
			break
		}
		if d.args != nil {
			errs.GenericError(d.args, diag.E0302, i18n.T(i18n.ErrOverloadAmbiguity))
		} else {
			errs.UnresolvedReference(ref)
		}
	}
	return r
}

func anyError(ts []*types.Type) bool {
	for _, t := range ts {
		if t.IsError() {
			return true
		}
	}
	return false
}

// lookupFunction 按名称在 receiverType 上解析方法调用，成功时返回被调用的函数
//
// 错误类型的接收者不做解析，直接得到返回错误类型的函数，避免级联报错。
func (v *visitor) lookupFunction(sc scope.Scope, name string, receiverType *types.Type, argTypes []*types.Type, report bool, refs ...ast.Node) *types.FunctionDescriptor {
	if receiverType.IsError() {
		return types.NewFunction(nil, name, receiverType, nil, types.ErrorType(name))
	}
	d := v.p.traceDomain(v.p.overloads.Domain(receiverType, sc, name), nil, report, refs...)
	r := d.ResolvePositional(nil, argTypes)
	if !r.IsSuccess() {
		if r.Code == overload.Ambiguity && anyError(argTypes) {
			return types.NewFunction(nil, name, receiverType, nil, types.ErrorType(name))
		}
		return nil
	}
	return r.Function
}

// calleeDomain 根据被调用者的形状构建调用域；没有候选来源时返回 nil
func (v *visitor) calleeDomain(callee ast.Expression, args *ast.ArgumentList) overload.Domain {
	p := v.p
	switch c := callee.(type) {
	case *ast.SimpleName:
		return p.traceDomain(p.overloads.Domain(nil, v.scope, c.Name), args, true, c)
	case *ast.Qualified:
		if c.Op == token.QUEST {
			notImplemented(c, "predicate callee %s", c)
		}
		receiverType := v.infer(v.scope, c.Receiver, false)
		if receiverType != nil {
			v.checkNullSafety(receiverType, c)
		}
		name, ok := c.Selector.(*ast.SimpleName)
		if !ok {
			notImplemented(c.Selector, "call on the selector %s", c.Selector)
		}
		if receiverType == nil {
			return nil
		}
		return v.receiverDomain(receiverType, name, args)
	case *ast.HashQualified:
		notImplemented(c, "call on the overload set %s", c)
	default:
		notImplemented(callee, "call on %s", callee)
	}
	return nil
}

// receiverDomain receiverType 上名为 name 的方法
func (v *visitor) receiverDomain(receiverType *types.Type, name *ast.SimpleName, args *ast.ArgumentList) overload.Domain {
	p := v.p
	if receiverType.IsError() {
		return nil
	}
	return p.traceDomain(p.overloads.Domain(receiverType, v.scope, name.Name), args, true, name)
}

// resolveOverloads 推断实参并在 d 中选择被调用的函数，返回其返回类型
func (v *visitor) resolveOverloads(d overload.Domain, typeArgs []*ast.TypeProjection, args []*ast.Argument, literals []ast.Expression) *types.Type {
	p := v.p
	for _, ta := range typeArgs {
		if ta.Kind != ast.ProjectionNone {
			v.genericError(ta, i18n.ErrMethodTypeProjections)
		}
	}
	if len(literals) > 1 {
		v.genericError(literals[1], i18n.ErrTooManyFunctionLiteral)
	}

	var typeArgTypes []*types.Type
	for _, ta := range typeArgs {
		if ta.Type != nil {
			typeArgTypes = append(typeArgTypes, p.typeRefs.ResolveType(p.ctx, v.scope, ta.Type))
		}
	}

	values := make([]ast.Expression, 0, len(args)+len(literals))
	named := false
	for _, a := range args {
		if a.IsNamed() {
			named = true
		}
		if a.Value != nil {
			values = append(values, a.Value)
		}
	}
	values = append(values, literals...)
	argTypes := make([]*types.Type, len(values))
	for i, value := range values {
		argTypes[i] = v.safeInfer(v.scope, value, false)
	}

	if d == nil {
		return nil
	}
	if named {
		if _, err := d.ResolveNamed(typeArgTypes, argTypes, nil); err != nil {
			panic(err)
		}
	}
	r := d.ResolvePositional(typeArgTypes, argTypes)
	if r.IsSuccess() {
		return r.Function.ReturnType
	}
	if r.Code == overload.Ambiguity && anyError(argTypes) {
		return types.ErrorType("ambiguous call")
	}
	return nil
}

// ============================================================================
// 调用与构造
// ============================================================================

func (v *visitor) call(e *ast.Call) *types.Type {
	d := v.calleeDomain(e.Callee, e.Args)
	return v.resolveOverloads(d, e.TypeArgs, e.Arguments(), e.FunctionLiterals)
}

// newExpr new T(args)：在 T 的构造函数中解析，失败时仍以 T 为结果
func (v *visitor) newExpr(e *ast.New) *types.Type {
	p := v.p
	ut, ok := e.Type.(*ast.UserType)
	if !ok {
		if e.Type != nil {
			v.genericError(e.Type, i18n.ErrNotAClass)
		}
		return nil
	}

	classifier := p.typeRefs.ResolveClass(p.ctx, v.scope, ut)
	if classifier == nil {
		return types.ErrorType("new " + ut.String())
	}
	cls, ok := classifier.(*types.ClassDescriptor)
	if !ok {
		v.genericError(e, i18n.ErrNotAClass)
		return nil
	}
	if len(cls.TypeConstructor().Parameters) > 0 && len(ut.Args) == 0 {
		notImplemented(e, "type argument inference for the constructor of %s", cls.Name())
	}

	receiverType := p.typeRefs.ResolveType(p.ctx, v.scope, ut)
	if receiverType.IsError() {
		return receiverType
	}

	for _, a := range ut.Args {
		if a.Kind != ast.ProjectionNone {
			v.genericError(a, i18n.ErrConstructorProjections)
		}
	}
	stripped := make([]types.Projection, len(receiverType.Arguments))
	for i, a := range receiverType.Arguments {
		stripped[i] = types.InvariantOf(a.Type)
	}

	d := p.traceDomain(p.overloads.FunctionsDomain(cls.Constructors(stripped)), e.Args, false, ut.Ref)
	if ret := v.resolveOverloads(d, nil, e.Arguments(), e.FunctionLiterals); ret != nil {
		return ret
	}
	p.trace.RecordReferenceResolution(ut.Ref, cls)
	if e.Args != nil {
		v.genericError(e.Args, i18n.ErrCannotFindOverload)
	}
	return receiverType
}

// ============================================================================
// 限定访问
// ============================================================================

// qualified a.b / a?.b / a?b
func (v *visitor) qualified(e *ast.Qualified) *types.Type {
	receiverType := v.infer(v.scope, e.Receiver, false)
	if receiverType == nil {
		return nil
	}
	v.checkNullSafety(receiverType, e)

	selectorType := v.selectorType(receiverType, e.Selector)
	result := selectorType
	if e.Op == token.QUEST {
		if selectorType != nil && !v.lib().IsBoolean(selectorType) {
			v.errors().TypeMismatch(e.Selector, v.lib().BooleanType(), selectorType)
		}
		result = types.MakeNullable(receiverType)
	}
	// 选择器以整个访问的结果登记；已经推断过的名称保留自己的记录
	if result != nil && e.Selector != nil {
		if _, seen := v.p.trace.Lookup(e.Selector); !seen {
			v.p.trace.RecordExpressionType(e.Selector, result)
		}
	}
	return result
}

// selectorType 选择器在接收者成员与外层作用域组成的作用域中推断
func (v *visitor) selectorType(receiverType *types.Type, selector ast.Expression) *types.Type {
	switch s := selector.(type) {
	case nil:
		return receiverType
	case *ast.Call:
		name, ok := s.Callee.(*ast.SimpleName)
		if !ok {
			notImplemented(s.Callee, "call on the selector %s", s.Callee)
		}
		d := v.receiverDomain(receiverType, name, s.Args)
		ret := v.resolveOverloads(d, s.TypeArgs, s.Arguments(), s.FunctionLiterals)
		if ret == nil && receiverType.IsError() {
			return receiverType
		}
		return ret
	case *ast.SimpleName:
		if receiverType.IsError() {
			return receiverType
		}
		return v.infer(scope.WithReceiver(v.tc(), v.scope, receiverType), s, false)
	}
	v.genericError(selector, i18n.ErrUnsupportedSelector, selector)
	return receiverType
}

// checkNullSafety . 要求接收者不可空；?. 用在不可空接收者上时报告
func (v *visitor) checkNullSafety(receiverType *types.Type, e *ast.Qualified) {
	if receiverType.IsError() {
		return
	}
	switch e.Op {
	case token.DOT:
		if receiverType.Nullable && !receiverType.IsNamespace() {
			v.nullSafetyError(e, i18n.ErrUnsafeCall, receiverType)
		}
	case token.SAFE_ACCESS:
		if receiverType.IsNamespace() {
			v.nullSafetyError(e, i18n.ErrSafeCallOnNamespace)
		} else if !receiverType.Nullable && v.p.opts.WarnUnnecessarySafeCall {
			v.p.errors.GenericWarning(e, diag.W0400, i18n.T(i18n.WarnUnnecessarySafe, receiverType))
		}
	}
}

func (v *visitor) nullSafetyError(node ast.Node, id string, args ...interface{}) {
	v.p.errors.GenericError(node, diag.E0400, i18n.T(id, args...))
}

// typesOf 依次推断 exprs；任一失败时返回 false
func (v *visitor) typesOf(exprs []ast.Expression) ([]*types.Type, bool) {
	out := make([]*types.Type, 0, len(exprs)+1)
	ok := true
	for _, e := range exprs {
		t := v.infer(v.scope, e, false)
		if t == nil {
			ok = false
		}
		out = append(out, t)
	}
	return out, ok
}

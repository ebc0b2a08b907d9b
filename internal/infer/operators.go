package infer

import (
	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/diag"
	"github.com/tangzhangming/typeinfer/internal/i18n"
	"github.com/tangzhangming/typeinfer/internal/token"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// ============================================================================
// 运算符表
// ============================================================================

// unaryNames 一元运算符对应的方法名
var unaryNames = map[token.TokenType]string{
	token.PLUSPLUS:   "inc",
	token.MINUSMINUS: "dec",
	token.PLUS:       "plus",
	token.MINUS:      "minus",
	token.EXCL:       "not",
}

// binaryNames 二元运算符对应的方法名
var binaryNames = map[token.TokenType]string{
	token.MUL:   "times",
	token.PLUS:  "plus",
	token.MINUS: "minus",
	token.DIV:   "div",
	token.PERC:  "mod",
	token.ARROW: "arrow",
	token.RANGE: "rangeTo",
}

// ============================================================================
// 一元运算
// ============================================================================

// unary -a 解析为 a.minus()；a++ 的类型是 a 的类型
func (v *visitor) unary(e *ast.Unary) *types.Type {
	name, ok := unaryNames[e.Op.Token]
	if !ok {
		v.genericError(e.Op, i18n.ErrUnknownUnary)
		return nil
	}
	receiverType := v.infer(v.scope, e.Operand, false)
	if receiverType == nil {
		return nil
	}
	fd := v.lookupFunction(v.scope, name, receiverType, nil, true, e.Op)
	if fd == nil {
		return nil
	}
	ret := fd.ReturnType
	if e.Op.Token != token.PLUSPLUS && e.Op.Token != token.MINUSMINUS {
		return ret
	}
	if ret != nil && !v.tc().IsSubtypeOf(ret, receiverType) {
		v.genericError(e.Op, i18n.ErrIncDecReturn, name, receiverType, ret)
	}
	return receiverType
}

// ============================================================================
// 二元运算
// ============================================================================

func (v *visitor) binary(e *ast.Binary) *types.Type {
	op := e.Op.Token
	if op == token.IDENT {
		return v.binaryOperation(e, e.Op.Name, true)
	}
	if name, ok := binaryNames[op]; ok {
		return v.binaryOperation(e, name, true)
	}
	if _, ok := assignNames[op]; ok {
		return v.compoundAssignment(e)
	}

	lib := v.lib()
	switch op {
	case token.EQ:
		return v.assignment(e)
	case token.LT, token.GT, token.LTEQ, token.GTEQ:
		return v.comparison(e)
	case token.EQEQ, token.EXCLEQ:
		v.equality(e)
		return lib.BooleanType()
	case token.EQEQEQ, token.EXCLEQEQEQ:
		leftType := v.infer(v.scope, e.Left, false)
		rightType := v.infer(v.scope, e.Right, false)
		v.ensureNonemptyIntersection(e, leftType, rightType)
		return lib.BooleanType()
	case token.IN_KEYWORD, token.NOT_IN:
		if e.Right == nil {
			v.infer(v.scope, e.Left, false)
			return types.ErrorType("No right argument")
		}
		ret := v.binaryOperationOn(e.Right, e.Op, e.Left, "contains", true)
		v.ensureBoolean(e.Op, "contains", ret)
		return lib.BooleanType()
	case token.ANDAND, token.OROR:
		boolean := lib.BooleanType()
		for _, side := range []ast.Expression{e.Left, e.Right} {
			t := v.infer(v.scope, side, false)
			if t != nil && !lib.IsBoolean(t) {
				v.errors().TypeMismatch(side, boolean, t)
			}
		}
		return boolean
	case token.ELVIS:
		return v.elvis(e)
	}
	v.genericError(e.Op, i18n.ErrUnknownOperation)
	return nil
}

// binaryOperation a op b 解析为 a.name(b)
func (v *visitor) binaryOperation(e *ast.Binary, name string, report bool) *types.Type {
	return v.binaryOperationOn(e.Left, e.Op, e.Right, name, report)
}

func (v *visitor) binaryOperationOn(left ast.Expression, op *ast.OperationRef, right ast.Expression, name string, report bool) *types.Type {
	leftType := v.infer(v.scope, left, false)
	rightType := v.infer(v.scope, right, false)
	if leftType == nil || rightType == nil {
		return nil
	}
	return v.binaryCall(left, op, right, leftType, rightType, name, report)
}

// binaryCall 以已推断的操作数类型解析 left.name(right)
//
// 可空的左操作数上的中缀调用可以解析，但需要改用 ?. 调用。
func (v *visitor) binaryCall(left ast.Expression, op *ast.OperationRef, right ast.Expression, leftType, rightType *types.Type, name string, report bool) *types.Type {
	fd := v.lookupFunction(v.scope, name, leftType, []*types.Type{rightType}, report, op)
	if fd == nil {
		return nil
	}
	if leftType.Nullable && !leftType.IsNamespace() {
		v.nullSafetyError(left, i18n.ErrUnsafeInfixCall, left, name, right, left)
	}
	return fd.ReturnType
}

// comparison a < b 解析为 a.compareTo(b)，compareTo 必须返回 Int
func (v *visitor) comparison(e *ast.Binary) *types.Type {
	ret := v.binaryOperation(e, "compareTo", true)
	if ret == nil {
		return nil
	}
	if !ret.IsError() && (ret.Nullable || ret.Constructor != v.lib().Int.TypeConstructor()) {
		v.genericError(e.Op, i18n.ErrCompareToReturn, ret)
	}
	return v.lib().BooleanType()
}

// equality a == b 需要 equals(Any?) 返回 Boolean，且两侧类型可能相交
func (v *visitor) equality(e *ast.Binary) {
	leftType := v.infer(v.scope, e.Left, false)
	if leftType == nil || e.Right == nil {
		return
	}
	rightType := v.infer(v.scope, e.Right, false)
	if rightType == nil {
		return
	}
	fd := v.lookupFunction(v.scope, "equals", leftType, []*types.Type{v.lib().NullableAnyType()}, false, e.Op)
	if fd == nil {
		v.genericError(e.Op, i18n.ErrNoEqualsMethod)
		return
	}
	if v.ensureBoolean(e.Op, "equals", fd.ReturnType) {
		v.ensureNonemptyIntersection(e, leftType, rightType)
	}
}

// ensureBoolean 运算符方法必须返回 Boolean
func (v *visitor) ensureBoolean(op *ast.OperationRef, name string, t *types.Type) bool {
	if t == nil {
		return false
	}
	if !v.lib().IsBoolean(t) {
		v.genericError(op, i18n.ErrMustReturnBoolean, name, t)
		return false
	}
	return true
}

// ensureNonemptyIntersection 两侧类型不可能相交时比较没有意义
func (v *visitor) ensureNonemptyIntersection(e *ast.Binary, leftType, rightType *types.Type) {
	if leftType == nil || rightType == nil {
		return
	}
	if v.tc().Intersect([]*types.Type{leftType, rightType}) == nil {
		v.p.errors.GenericError(e, diag.E0500,
			i18n.T(i18n.ErrEqualityNotApplicable, e.Op, leftType, rightType))
	}
}

// elvis a ?: b 的结果只在 b 可空时可空
func (v *visitor) elvis(e *ast.Binary) *types.Type {
	leftType := v.infer(v.scope, e.Left, false)
	rightType := v.infer(v.scope, e.Right, false)
	if leftType == nil {
		return nil
	}
	if !leftType.Nullable && !leftType.IsError() && v.p.opts.WarnUselessElvis {
		v.genericWarning(e.Left, i18n.WarnUselessElvis, leftType)
	}
	if rightType == nil {
		return nil
	}
	return types.MakeNullableAsSpecified(v.join(leftType, rightType), rightType.Nullable)
}

// arrayGet a[i] 解析为 a.get(i)
func (v *visitor) arrayGet(e *ast.ArrayAccess) *types.Type {
	receiverType := v.infer(v.scope, e.Array, false)
	argTypes, ok := v.typesOf(e.Indices)
	if receiverType == nil || !ok {
		return nil
	}
	fd := v.lookupFunction(v.scope, "get", receiverType, argTypes, true, e)
	if fd == nil {
		return nil
	}
	return fd.ReturnType
}

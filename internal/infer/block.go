package infer

import (
	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/i18n"
	"github.com/tangzhangming/typeinfer/internal/scope"
	"github.com/tangzhangming/typeinfer/internal/token"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// ============================================================================
// 代码块
// ============================================================================

// blockType 在 outer 之上的新可写作用域中依次推断语句，结果是最后一条语句的类型
func (v *visitor) blockType(outer scope.Scope, stmts []ast.Expression) *types.Type {
	if len(stmts) == 0 {
		return v.lib().UnitType()
	}
	w := scope.NewWritable(outer, outer.ContainingDeclaration())
	return v.p.blockWithScope(w, stmts)
}

// blockWithScope 用同一个代码块访问者推断每条语句，局部声明依次写入 w
func (p *pass) blockWithScope(w *scope.Writable, stmts []ast.Expression) *types.Type {
	if len(stmts) == 0 {
		return p.lib.UnitType()
	}
	bv := p.newBlockVisitor(w)
	var result *types.Type
	for _, stmt := range stmts {
		result = nil
		if stmt != nil {
			result = bv.visit(stmt)
		}
	}
	return result
}

// ----------------------------------------------------------------------------
// 局部声明
// ----------------------------------------------------------------------------

func (v *visitor) localProperty(prop *ast.Property) *types.Type {
	p := v.p
	if prop.Getter != nil {
		v.genericError(prop.Getter, i18n.ErrLocalGetter)
	}
	if prop.Setter != nil {
		v.genericError(prop.Setter, i18n.ErrLocalSetter)
	}

	var initType *types.Type
	if prop.Initializer != nil {
		initType = v.infer(v.scope, prop.Initializer, false)
	}
	pd := p.descriptors.ResolveProperty(p.ctx, v.scope, v.block.ContainingDeclaration(), prop, initType)
	if prop.Type != nil && initType != nil && pd.OutType != nil &&
		!v.tc().IsConvertibleTo(initType, pd.OutType) {
		v.errors().TypeMismatch(prop.Initializer, pd.OutType, initType)
	}
	v.block.AddProperty(pd)
	return nil
}

// localFunction 局部函数在函数体推断之前加入作用域，函数体可以递归调用自己
func (v *visitor) localFunction(fn *ast.Function) *types.Type {
	p := v.p
	fd := p.descriptors.ResolveFunction(p.ctx, v.scope, v.block.ContainingDeclaration(), fn)
	v.block.AddFunction(fd)
	if fn.Body == nil {
		return nil
	}
	if fd.ReturnType == nil {
		fd.ReturnType = p.functionReturnType(v.scope, fn, fd)
	} else {
		p.checkFunctionReturnType(v.scope, fn, fd)
	}
	return nil
}

// ----------------------------------------------------------------------------
// 赋值
// ----------------------------------------------------------------------------

// assignment a = b 只能作为语句
func (v *visitor) assignment(e *ast.Binary) *types.Type {
	if v.block == nil {
		v.genericError(e, i18n.ErrAssignmentNotExpression)
		return nil
	}
	if access, ok := ast.Unparen(e.Left).(*ast.ArrayAccess); ok {
		v.indexedSet(e, access)
		return nil
	}
	leftType := v.infer(v.scope, e.Left, false)
	if e.Right == nil {
		return nil
	}
	rightType := v.infer(v.scope, e.Right, false)
	if leftType != nil && rightType != nil && !v.tc().IsConvertibleTo(rightType, leftType) {
		v.errors().TypeMismatch(e.Right, leftType, rightType)
	}
	return nil
}

// indexedSet a[i] = b 解析为 a.set(i, b)
func (v *visitor) indexedSet(e *ast.Binary, access *ast.ArrayAccess) {
	argTypes, ok := v.typesOf(access.Indices)
	if !ok || e.Right == nil {
		return
	}
	rightType := v.infer(v.scope, e.Right, false)
	if rightType == nil {
		return
	}
	receiverType := v.infer(v.scope, access.Array, false)
	if receiverType == nil {
		return
	}
	if receiverType.Nullable && !receiverType.IsNamespace() {
		v.nullSafetyError(e.Op, i18n.ErrUnsafeCall, receiverType)
	}
	argTypes = append(argTypes, rightType)
	v.lookupFunction(v.scope, "set", receiverType, argTypes, true, e.Op, access)
}

// assignNames 复合赋值运算符对应的方法名与去掉赋值后的运算符
var assignNames = map[token.TokenType]struct {
	method      string
	counterpart token.TokenType
}{
	token.PLUSEQ:  {"plusAssign", token.PLUS},
	token.MINUSEQ: {"minusAssign", token.MINUS},
	token.MULTEQ:  {"timesAssign", token.MUL},
	token.DIVEQ:   {"divAssign", token.DIV},
	token.PERCEQ:  {"modAssign", token.PERC},
}

// compoundAssignment a += b 先静默尝试 plusAssign，失败后按 plus 解析并报告
func (v *visitor) compoundAssignment(e *ast.Binary) *types.Type {
	if v.block == nil {
		v.genericError(e, i18n.ErrAssignmentNotExpression)
		return nil
	}
	names := assignNames[e.Op.Token]
	leftType := v.infer(v.scope, e.Left, false)
	if e.Right == nil {
		return nil
	}
	rightType := v.infer(v.scope, e.Right, false)
	if leftType == nil || rightType == nil {
		return nil
	}
	if v.binaryCall(e.Left, e.Op, e.Right, leftType, rightType, names.method, false) != nil {
		return nil
	}
	ret := v.binaryCall(e.Left, e.Op, e.Right, leftType, rightType, binaryNames[names.counterpart], true)
	if ret != nil && !v.tc().IsConvertibleTo(ret, leftType) {
		v.errors().TypeMismatch(e, leftType, ret)
	}
	return nil
}

package infer

import (
	"fmt"
	"strings"

	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/diag"
	"github.com/tangzhangming/typeinfer/internal/i18n"
	"github.com/tangzhangming/typeinfer/internal/scope"
	"github.com/tangzhangming/typeinfer/internal/token"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// ============================================================================
// 访问者
// ============================================================================

// visitor 在一个作用域中推断表达式
//
// block 非 nil 时是代码块模式：声明与赋值作为语句处理，局部声明写入 block。
type visitor struct {
	p           *pass
	scope       scope.Scope
	preferBlock bool
	block       *scope.Writable
}

// visit 推断 expr 并记录非 nil 的结果
func (v *visitor) visit(expr ast.Expression) *types.Type {
	t := v.dispatch(expr)
	if t != nil {
		v.p.trace.RecordExpressionType(expr, t)
	}
	return t
}

// infer 在 sc 中推断 expr
//
// 作用域与代码块偏好都相同时复用当前访问者，这样代码块中 if 分支里的
// 声明和赋值仍按语句处理并写入同一个作用域。
func (v *visitor) infer(sc scope.Scope, expr ast.Expression, preferBlock bool) *types.Type {
	if expr == nil {
		return nil
	}
	if sc == v.scope && preferBlock == v.preferBlock {
		return v.visit(expr)
	}
	return v.p.newVisitor(sc, preferBlock).visit(expr)
}

// safeInfer 推断失败时返回带说明的错误类型
func (v *visitor) safeInfer(sc scope.Scope, expr ast.Expression, preferBlock bool) *types.Type {
	if t := v.infer(sc, expr, preferBlock); t != nil {
		return t
	}
	return types.ErrorType("Type for " + expr.String())
}

func (v *visitor) lib() *types.StandardLibrary { return v.p.lib }

func (v *visitor) tc() *types.Checker { return v.p.tc }

func (v *visitor) errors() diag.Handler { return v.p.errors }

func (v *visitor) genericError(node ast.Node, id string, args ...interface{}) {
	v.p.errors.GenericError(node, diag.E0001, i18n.T(id, args...))
}

func (v *visitor) genericWarning(node ast.Node, id string, args ...interface{}) {
	v.p.errors.GenericWarning(node, diag.W0001, i18n.T(id, args...))
}

// dispatch 每种表达式恰好一条规则
func (v *visitor) dispatch(expr ast.Expression) *types.Type {
	switch e := expr.(type) {
	case *ast.SimpleName:
		return v.simpleName(e)
	case *ast.Constant:
		return v.constant(e)
	case *ast.Parenthesized:
		return v.infer(v.scope, e.Inner, false)
	case *ast.Labeled:
		if e.Inner == nil {
			return nil
		}
		return v.visit(e.Inner)
	case *ast.FunctionLiteral:
		return v.functionLiteral(e)
	case *ast.Throw:
		v.infer(v.scope, e.Value, false)
		return v.lib().NothingType()
	case *ast.Return:
		v.infer(v.scope, e.Value, false)
		return v.lib().NothingType()
	case *ast.Break, *ast.Continue:
		return v.lib().NothingType()
	case *ast.Typeof:
		notImplemented(e, "typeof")
		return nil
	case *ast.BinaryWithType:
		return v.cast(e)
	case *ast.Tuple:
		return v.tuple(e)
	case *ast.This:
		return v.this(e)
	case *ast.Block:
		return v.blockType(v.scope, e.Statements)
	case *ast.When:
		return v.when(e)
	case *ast.Try:
		return v.try(e)
	case *ast.If:
		return v.ifExpr(e)
	case *ast.While:
		return v.while(e)
	case *ast.DoWhile:
		return v.doWhile(e)
	case *ast.For:
		return v.forExpr(e)
	case *ast.New:
		return v.newExpr(e)
	case *ast.HashQualified:
		notImplemented(e, "overload set reference %s", e)
		return nil
	case *ast.Qualified:
		return v.qualified(e)
	case *ast.Call:
		return v.call(e)
	case *ast.Is:
		v.infer(v.scope, e.Left, false)
		return v.lib().BooleanType()
	case *ast.Unary:
		return v.unary(e)
	case *ast.Binary:
		return v.binary(e)
	case *ast.ArrayAccess:
		return v.arrayGet(e)

	case *ast.Property:
		if v.block != nil {
			return v.localProperty(e)
		}
		return v.declarationNotAllowed(e)
	case *ast.Function:
		if v.block != nil {
			return v.localFunction(e)
		}
		return v.declarationNotAllowed(e)
	case *ast.Class, *ast.Typedef, *ast.Extension, *ast.Parameter:
		if v.block != nil {
			v.genericError(e, i18n.ErrUnsupportedInBlock)
			return nil
		}
		return v.declarationNotAllowed(e)
	}
	panic(fmt.Sprintf("infer: unexpected expression %T", expr))
}

func (v *visitor) declarationNotAllowed(d ast.Node) *types.Type {
	v.genericError(d, i18n.ErrDeclarationNotAllowed)
	return nil
}

// ============================================================================
// 名称与常量
// ============================================================================

func (v *visitor) simpleName(e *ast.SimpleName) *types.Type {
	if prop := v.scope.Property(e.Name); prop != nil {
		v.p.trace.RecordReferenceResolution(e, prop)
		if prop.OutType == nil {
			v.genericError(e, i18n.ErrWriteOnlyProperty, e.Name)
			return nil
		}
		return prop.OutType
	}
	if ns := v.scope.Namespace(e.Name); ns != nil {
		v.p.trace.RecordReferenceResolution(e, ns)
		return ns.NamespaceType()
	}
	v.errors().UnresolvedReference(e)
	return nil
}

// constant 常量的类型只取决于它的词法形式
func (v *visitor) constant(e *ast.Constant) *types.Type {
	lib := v.lib()
	switch e.Kind {
	case ast.IntegerConstant:
		return lib.IntType()
	case ast.LongConstant:
		return lib.LongType()
	case ast.FloatConstant:
		if strings.HasSuffix(e.Literal, "f") || strings.HasSuffix(e.Literal, "F") {
			return lib.FloatType()
		}
		return lib.DoubleType()
	case ast.BooleanConstant:
		return lib.BooleanType()
	case ast.CharConstant:
		return lib.CharType()
	case ast.StringConstant:
		return lib.StringType()
	case ast.NullConstant:
		return lib.NullableNothingType()
	}
	panic(fmt.Sprintf("infer: unknown constant kind %d", e.Kind))
}

// ============================================================================
// 函数字面量
// ============================================================================

func (v *visitor) functionLiteral(e *ast.FunctionLiteral) *types.Type {
	if v.preferBlock && !e.HasParams {
		v.p.trace.RecordBlock(e)
		return v.blockType(v.scope, e.Body)
	}

	p := v.p
	fd := types.NewAnonymousFunction(v.scope.ContainingDeclaration())

	var declaredReceiver *types.Type
	if e.Receiver != nil {
		declaredReceiver = p.typeRefs.ResolveType(p.ctx, v.scope, e.Receiver)
	}
	receiver := declaredReceiver
	if receiver == nil {
		receiver = v.scope.ThisType()
	}

	params := make([]*types.PropertyDescriptor, 0, len(e.Params))
	paramTypes := make([]*types.Type, 0, len(e.Params))
	for _, param := range e.Params {
		if param.Type == nil {
			notImplemented(param, "type inference for the parameter %s of a function literal", param.Name)
		}
		t := p.typeRefs.ResolveType(p.ctx, v.scope, param.Type)
		params = append(params, p.descriptors.ValueParameterWithType(p.ctx, fd, param, t))
		paramTypes = append(paramTypes, t)
	}

	var ret *types.Type
	if e.ReturnType != nil {
		ret = p.typeRefs.ResolveType(p.ctx, v.scope, e.ReturnType)
	} else {
		w := scope.NewWritable(v.scope, fd)
		for _, pd := range params {
			w.AddProperty(pd)
		}
		w.SetThisType(receiver)
		ret = v.blockType(w, e.Body)
	}
	if ret == nil {
		ret = types.ErrorType("<return type>")
	}
	return types.NewFunctionType(declaredReceiver, paramTypes, ret)
}

// ============================================================================
// 类型运算
// ============================================================================

// cast a : T 要求静态子类型关系，a as T 不检查
func (v *visitor) cast(e *ast.BinaryWithType) *types.Type {
	actual := v.infer(v.scope, e.Left, false)
	if e.Right == nil {
		return nil
	}
	target := v.p.typeRefs.ResolveType(v.p.ctx, v.scope, e.Right)
	switch e.Op.Token {
	case token.COLON:
		if actual != nil && !v.tc().IsSubtypeOf(actual, target) {
			v.errors().TypeMismatch(e.Left, target, actual)
		}
	case token.AS_KEYWORD:
	default:
		v.genericError(e.Op, i18n.ErrUnsupportedBinaryOp)
	}
	return target
}

func (v *visitor) tuple(e *ast.Tuple) *types.Type {
	elems := make([]*types.Type, len(e.Elements))
	for i, el := range e.Elements {
		elems[i] = v.safeInfer(v.scope, el, false)
	}
	if len(elems) > types.MaxTupleArity {
		v.genericError(e, i18n.ErrTupleTooLong, types.MaxTupleArity)
	}
	return v.lib().TupleOf(elems...)
}

// ============================================================================
// this
// ============================================================================

func (v *visitor) this(e *ast.This) *types.Type {
	var thisType *types.Type
	if e.Label != nil {
		decls := v.scope.DeclarationsByLabel(e.Label.Name)
		switch len(decls) {
		case 0:
			v.errors().UnresolvedReference(e.Label)
		case 1:
			cls, ok := decls[0].(*types.ClassDescriptor)
			if !ok {
				notImplemented(e, "this@%s for %T", e.Label.Name, decls[0])
			}
			v.p.trace.RecordReferenceResolution(e.Label, cls)
			thisType = cls.DefaultType()
		default:
			v.genericError(e.Label, i18n.ErrAmbiguousLabel)
		}
	} else {
		thisType = v.scope.ThisType()
	}
	if thisType == nil {
		return nil
	}
	if thisType.IsNothing() {
		v.genericError(e, i18n.ErrThisNotDefined)
		return nil
	}
	if e.Super == nil {
		return thisType
	}
	return v.superOf(e, thisType)
}

// superOf this<Super>：Super 必须是 this 类型直接声明的超类型
func (v *visitor) superOf(e *ast.This, thisType *types.Type) *types.Type {
	if _, ok := e.Super.(*ast.UserType); !ok {
		return nil
	}
	cls, ok := v.p.typeRefs.ResolveClass(v.p.ctx, v.scope, e.Super).(*types.ClassDescriptor)
	if !ok {
		return nil
	}
	sub := types.SubstitutionOf(thisType)
	for _, declared := range thisType.Constructor.Supertypes {
		if declared.Constructor == cls.TypeConstructor() {
			return sub.Apply(declared, types.Invariant)
		}
	}
	v.genericError(e.Super, i18n.ErrNotASuperclass)
	return nil
}

package ast

import (
	"strings"

	"github.com/tangzhangming/typeinfer/internal/token"
)

// ============================================================================
// AST 节点工厂函数
// ============================================================================
//
// 工厂函数用于在没有语法分析器的场景（测试、代码生成、宿主程序）中手工构造表达式树。
// 构造出的节点不带位置信息，需要位置时直接设置 Loc 字段。
//
// 使用方式：
//   sum := ast.NewBinary(ast.NewName("a"), token.PLUS, ast.NewName("b"))
//   blk := ast.NewBlock(ast.NewProperty("x", nil, sum), ast.NewName("x"))
//
// ============================================================================

// ============================================================================
// 类型节点工厂
// ============================================================================

// NewUserType 创建用户类型引用，实参均为不变投影
func NewUserType(name string, args ...TypeElement) *UserType {
	t := &UserType{Ref: NewName(name)}
	for _, a := range args {
		t.Args = append(t.Args, &TypeProjection{Kind: ProjectionNone, Type: a})
	}
	return t
}

// NewProjectedUserType 创建带投影实参的用户类型引用
func NewProjectedUserType(name string, args ...*TypeProjection) *UserType {
	return &UserType{Ref: NewName(name), Args: args}
}

// NewProjection 创建类型实参投影
func NewProjection(kind ProjectionKind, t TypeElement) *TypeProjection {
	return &TypeProjection{Kind: kind, Type: t}
}

// NewNullableType 创建可空类型 (T?)
func NewNullableType(inner TypeElement) *NullableType {
	return &NullableType{Inner: inner}
}

// NewFunctionType 创建函数类型
func NewFunctionType(receiver TypeElement, params []TypeElement, ret TypeElement) *FunctionType {
	return &FunctionType{Receiver: receiver, Params: params, Return: ret}
}

// NewTupleType 创建元组类型
func NewTupleType(elems ...TypeElement) *TupleType {
	return &TupleType{Elements: elems}
}

// ============================================================================
// 基础表达式工厂
// ============================================================================

// NewName 创建简单名称引用
func NewName(name string) *SimpleName {
	return &SimpleName{Name: name}
}

// NewConstant 创建常量
func NewConstant(kind ConstantKind, literal string) *Constant {
	return &Constant{Kind: kind, Literal: literal}
}

// NewLiteral 按词法形式创建常量
//
// 1 → Int, 1L → Long, 1.0 / 1.0f → 浮点, true/false → Boolean,
// 'c' → Char, "s" → String, null → Null。
func NewLiteral(text string) *Constant {
	switch {
	case text == "null":
		return NewConstant(NullConstant, text)
	case text == "true" || text == "false":
		return NewConstant(BooleanConstant, text)
	case strings.HasPrefix(text, "'"):
		return NewConstant(CharConstant, text)
	case strings.HasPrefix(text, `"`):
		return NewConstant(StringConstant, text)
	case strings.HasSuffix(text, "L") || strings.HasSuffix(text, "l"):
		return NewConstant(LongConstant, text)
	case strings.ContainsAny(text, ".eE") || strings.HasSuffix(text, "f") || strings.HasSuffix(text, "F"):
		return NewConstant(FloatConstant, text)
	}
	return NewConstant(IntegerConstant, text)
}

// NewParen 创建括号表达式
func NewParen(inner Expression) *Parenthesized {
	return &Parenthesized{Inner: inner}
}

// NewLabeled 创建带标签的表达式
func NewLabeled(label string, inner Expression) *Labeled {
	return &Labeled{Label: label, Inner: inner}
}

// NewTuple 创建元组字面量
func NewTuple(elems ...Expression) *Tuple {
	return &Tuple{Elements: elems}
}

// NewThis 创建 this 表达式
func NewThis() *This {
	return &This{}
}

// NewLabeledThis 创建 this@label 表达式
func NewLabeledThis(label string) *This {
	return &This{Label: NewName(label)}
}

// NewSuperThis 创建 this<Super> 表达式
func NewSuperThis(super TypeElement) *This {
	return &This{Super: super}
}

// NewTypeof 创建 typeof 表达式
func NewTypeof(operand Expression) *Typeof {
	return &Typeof{Operand: operand}
}

// NewIs 创建 is 表达式
func NewIs(left Expression, pattern TypeElement) *Is {
	return &Is{Left: left, Pattern: pattern}
}

// ============================================================================
// 运算符工厂
// ============================================================================

// NewOp 创建运算符引用
func NewOp(t token.TokenType) *OperationRef {
	return &OperationRef{Token: t, Name: t.String()}
}

// NewInfixOp 创建中缀调用的方法名引用 (a foo b)
func NewInfixOp(name string) *OperationRef {
	return &OperationRef{Token: token.IDENT, Name: name}
}

// NewBinary 创建二元表达式
func NewBinary(left Expression, op token.TokenType, right Expression) *Binary {
	return &Binary{Left: left, Op: NewOp(op), Right: right}
}

// NewInfixCall 创建中缀调用 (a foo b)
func NewInfixCall(left Expression, name string, right Expression) *Binary {
	return &Binary{Left: left, Op: NewInfixOp(name), Right: right}
}

// NewAssign 创建赋值表达式
func NewAssign(left Expression, right Expression) *Binary {
	return NewBinary(left, token.EQ, right)
}

// NewUnary 创建前缀一元表达式
func NewUnary(op token.TokenType, operand Expression) *Unary {
	return &Unary{Op: NewOp(op), Operand: operand}
}

// NewPostfix 创建后缀一元表达式 (a++)
func NewPostfix(operand Expression, op token.TokenType) *Unary {
	return &Unary{Op: NewOp(op), Operand: operand, Postfix: true}
}

// NewCast 创建 x : T 或 x as T
func NewCast(left Expression, op token.TokenType, right TypeElement) *BinaryWithType {
	return &BinaryWithType{Left: left, Op: NewOp(op), Right: right}
}

// ============================================================================
// 访问与调用工厂
// ============================================================================

// NewQualified 创建限定访问 (a.b / a?.b / a?b)
func NewQualified(receiver Expression, op token.TokenType, selector Expression) *Qualified {
	return &Qualified{Receiver: receiver, Op: op, Selector: selector}
}

// NewDot 创建 a.b
func NewDot(receiver Expression, selector Expression) *Qualified {
	return NewQualified(receiver, token.DOT, selector)
}

// NewSafeDot 创建 a?.b
func NewSafeDot(receiver Expression, selector Expression) *Qualified {
	return NewQualified(receiver, token.SAFE_ACCESS, selector)
}

// NewHashQualified 创建 a#b
func NewHashQualified(receiver Expression, selector Expression) *HashQualified {
	return &HashQualified{Receiver: receiver, Selector: selector}
}

// NewArgs 创建位置实参列表
func NewArgs(values ...Expression) *ArgumentList {
	list := &ArgumentList{}
	for _, v := range values {
		list.Args = append(list.Args, &Argument{Value: v})
	}
	return list
}

// NewNamedArg 创建命名实参
func NewNamedArg(name string, value Expression) *Argument {
	return &Argument{Name: name, Value: value}
}

// NewCall 创建调用表达式
func NewCall(callee Expression, args ...Expression) *Call {
	return &Call{Callee: callee, Args: NewArgs(args...)}
}

// NewGenericCall 创建带显式类型实参的调用
func NewGenericCall(callee Expression, typeArgs []*TypeProjection, args ...Expression) *Call {
	return &Call{Callee: callee, TypeArgs: typeArgs, Args: NewArgs(args...)}
}

// NewMethodCall 创建 receiver.name(args...)
func NewMethodCall(receiver Expression, name string, args ...Expression) *Qualified {
	return NewDot(receiver, NewCall(NewName(name), args...))
}

// NewNew 创建构造调用
func NewNew(t TypeElement, args ...Expression) *New {
	return &New{Type: t, Args: NewArgs(args...)}
}

// NewIndex 创建索引访问
func NewIndex(array Expression, indices ...Expression) *ArrayAccess {
	return &ArrayAccess{Array: array, Indices: indices}
}

// ============================================================================
// 控制流工厂
// ============================================================================

// NewBlock 创建代码块
func NewBlock(stmts ...Expression) *Block {
	return &Block{Statements: stmts}
}

// NewIf 创建 if 表达式，分支可为 nil
func NewIf(cond, then, els Expression) *If {
	return &If{Cond: cond, Then: then, Else: els}
}

// NewWhile 创建 while 循环
func NewWhile(cond, body Expression) *While {
	return &While{Cond: cond, Body: body}
}

// NewDoWhile 创建 do-while 循环
func NewDoWhile(body, cond Expression) *DoWhile {
	return &DoWhile{Body: body, Cond: cond}
}

// NewFor 创建 for 循环
func NewFor(param *Parameter, rng, body Expression) *For {
	return &For{Param: param, Range: rng, Body: body}
}

// NewWhen 创建 when 表达式
func NewWhen(subject Expression, entries ...*WhenEntry) *When {
	return &When{Subject: subject, Entries: entries}
}

// NewWhenEntry 创建 when 分支
func NewWhenEntry(body Expression, conds ...Expression) *WhenEntry {
	return &WhenEntry{Conditions: conds, Body: body}
}

// NewWhenElse 创建 when 的 else 分支
func NewWhenElse(body Expression) *WhenEntry {
	return &WhenEntry{Else: true, Body: body}
}

// NewWhenSub 创建进入嵌套 when 的分支
func NewWhenSub(sub *When, conds ...Expression) *WhenEntry {
	return &WhenEntry{Conditions: conds, Sub: sub}
}

// NewTry 创建 try 表达式
func NewTry(body *Block, finally *Block, catches ...*CatchClause) *Try {
	return &Try{Body: body, Catches: catches, Finally: finally}
}

// NewCatch 创建 catch 子句
func NewCatch(param *Parameter, body *Block) *CatchClause {
	return &CatchClause{Param: param, Body: body}
}

// NewThrow 创建 throw 表达式
func NewThrow(value Expression) *Throw {
	return &Throw{Value: value}
}

// NewReturn 创建 return 表达式，value 可为 nil
func NewReturn(value Expression) *Return {
	return &Return{Value: value}
}

// NewBreak 创建 break 表达式
func NewBreak() *Break {
	return &Break{}
}

// NewContinue 创建 continue 表达式
func NewContinue() *Continue {
	return &Continue{}
}

// NewBlockLiteral 创建无参数声明的函数字面量 ({ stmts })
func NewBlockLiteral(stmts ...Expression) *FunctionLiteral {
	return &FunctionLiteral{Body: stmts}
}

// NewFunctionLiteral 创建带参数声明的函数字面量
func NewFunctionLiteral(receiver TypeElement, params []*Parameter, ret TypeElement, body ...Expression) *FunctionLiteral {
	return &FunctionLiteral{Receiver: receiver, Params: params, HasParams: true, ReturnType: ret, Body: body}
}

// ============================================================================
// 声明工厂
// ============================================================================

// NewParam 创建参数声明，typ 可为 nil
func NewParam(name string, typ TypeElement) *Parameter {
	return &Parameter{Name: name, Type: typ}
}

// NewProperty 创建局部 val 声明
func NewProperty(name string, typ TypeElement, init Expression) *Property {
	return &Property{Name: name, Type: typ, Initializer: init}
}

// NewVar 创建局部 var 声明
func NewVar(name string, typ TypeElement, init Expression) *Property {
	return &Property{Name: name, Var: true, Type: typ, Initializer: init}
}

// NewFunction 创建块体函数声明
func NewFunction(name string, params []*Parameter, ret TypeElement, body *Block) *Function {
	return &Function{Name: name, Params: params, ReturnType: ret, Body: body, BlockBody: true}
}

// NewExprFunction 创建表达式体函数声明 (fun f() = expr)
func NewExprFunction(name string, params []*Parameter, ret TypeElement, body Expression) *Function {
	return &Function{Name: name, Params: params, ReturnType: ret, Body: body}
}

package ast

import (
	"strings"

	"github.com/tangzhangming/typeinfer/internal/token"
)

// Node 是所有 AST 节点的基接口
type Node interface {
	Pos() token.Position // 返回节点在源代码中的位置
	End() token.Position // 返回节点结束位置
	String() string      // 返回节点的字符串表示（用于诊断消息）
}

// Expression 表示一个表达式节点
//
// 表达式集合是封闭的：exprNode 未导出，只有本包中的节点类型可以实现它，
// 推断引擎据此对全部表达式种类做穷尽匹配。
type Expression interface {
	Node
	exprNode()
}

// Declaration 表示一个声明节点
//
// 声明同时也是表达式：它们可以出现在代码块中，出现在其他位置时由推断引擎报错。
type Declaration interface {
	Expression
	declNode()
}

// TypeElement 表示书写出来的类型引用
type TypeElement interface {
	Node
	typeNode()
}

func joinNodes[T Node](nodes []T, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, n.String())
	}
	return strings.Join(parts, sep)
}

func str(n Node) string {
	switch v := n.(type) {
	case nil:
		return ""
	case *Parameter:
		if v == nil {
			return ""
		}
	case *Block:
		if v == nil {
			return ""
		}
	case *When:
		if v == nil {
			return ""
		}
	}
	return n.String()
}

// ============================================================================
// 类型节点
// ============================================================================

// ProjectionKind 类型实参的投影种类
type ProjectionKind int

const (
	ProjectionNone ProjectionKind = iota // T
	ProjectionIn                         // in T
	ProjectionOut                        // out T
	ProjectionStar                       // *
)

// TypeProjection 类型实参 (Array<out T> 中的 out T)
type TypeProjection struct {
	Loc  token.Span
	Kind ProjectionKind
	Type TypeElement // Star 时为 nil
}

func (p *TypeProjection) Pos() token.Position { return p.Loc.Start }
func (p *TypeProjection) End() token.Position { return p.Loc.End }
func (p *TypeProjection) String() string {
	switch p.Kind {
	case ProjectionIn:
		return "in " + str(p.Type)
	case ProjectionOut:
		return "out " + str(p.Type)
	case ProjectionStar:
		return "*"
	}
	return str(p.Type)
}

// UserType 用户类型引用 (Foo, Array<Int>)
type UserType struct {
	Loc  token.Span
	Ref  *SimpleName        // 类型名
	Args []*TypeProjection // 类型实参
}

func (t *UserType) Pos() token.Position { return t.Loc.Start }
func (t *UserType) End() token.Position { return t.Loc.End }
func (t *UserType) String() string {
	if len(t.Args) == 0 {
		return t.Ref.Name
	}
	return t.Ref.Name + "<" + joinNodes(t.Args, ", ") + ">"
}
func (t *UserType) typeNode() {}

// NullableType 可空类型 (T?)
type NullableType struct {
	Loc   token.Span
	Inner TypeElement
}

func (t *NullableType) Pos() token.Position { return t.Loc.Start }
func (t *NullableType) End() token.Position { return t.Loc.End }
func (t *NullableType) String() string      { return str(t.Inner) + "?" }
func (t *NullableType) typeNode()           {}

// FunctionType 函数类型 ({R.(A, B) : C})
type FunctionType struct {
	Loc      token.Span
	Receiver TypeElement // 可为 nil
	Params   []TypeElement
	Return   TypeElement
}

func (t *FunctionType) Pos() token.Position { return t.Loc.Start }
func (t *FunctionType) End() token.Position { return t.Loc.End }
func (t *FunctionType) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	if t.Receiver != nil {
		sb.WriteString(t.Receiver.String())
		sb.WriteString(".")
	}
	sb.WriteString("(")
	sb.WriteString(joinNodes(t.Params, ", "))
	sb.WriteString(") : ")
	sb.WriteString(str(t.Return))
	sb.WriteString("}")
	return sb.String()
}
func (t *FunctionType) typeNode() {}

// TupleType 元组类型 ((Int, String))
type TupleType struct {
	Loc      token.Span
	Elements []TypeElement
}

func (t *TupleType) Pos() token.Position { return t.Loc.Start }
func (t *TupleType) End() token.Position { return t.Loc.End }
func (t *TupleType) String() string      { return "(" + joinNodes(t.Elements, ", ") + ")" }
func (t *TupleType) typeNode()           {}

// ============================================================================
// 辅助节点（不是表达式）
// ============================================================================

// OperationRef 运算符引用
//
// 运算符被解析为方法调用，因此运算符本身也是一个引用，解析结果记录在它上面。
// Token 为 IDENT 时 Name 是中缀调用的方法名。
type OperationRef struct {
	Loc   token.Span
	Token token.TokenType
	Name  string
}

func (o *OperationRef) Pos() token.Position { return o.Loc.Start }
func (o *OperationRef) End() token.Position { return o.Loc.End }
func (o *OperationRef) String() string {
	if o.Token == token.IDENT {
		return o.Name
	}
	return o.Token.String()
}

// Argument 调用实参
type Argument struct {
	Loc   token.Span
	Name  string // 命名实参的名字，位置实参为空
	Value Expression
}

func (a *Argument) Pos() token.Position { return a.Loc.Start }
func (a *Argument) End() token.Position { return a.Loc.End }
func (a *Argument) String() string {
	if a.Name != "" {
		return a.Name + " = " + str(a.Value)
	}
	return str(a.Value)
}

// IsNamed 是否为命名实参
func (a *Argument) IsNamed() bool { return a.Name != "" }

// ArgumentList 括号中的实参列表
type ArgumentList struct {
	Loc  token.Span
	Args []*Argument
}

func (l *ArgumentList) Pos() token.Position { return l.Loc.Start }
func (l *ArgumentList) End() token.Position { return l.Loc.End }
func (l *ArgumentList) String() string      { return "(" + joinNodes(l.Args, ", ") + ")" }

// WhenEntry when 分支
//
// Sub 非空时该分支继续进入嵌套的 when，Body 被忽略。
type WhenEntry struct {
	Loc        token.Span
	Conditions []Expression
	Else       bool
	Body       Expression
	Sub        *When
}

func (w *WhenEntry) Pos() token.Position { return w.Loc.Start }
func (w *WhenEntry) End() token.Position { return w.Loc.End }
func (w *WhenEntry) String() string {
	cond := "else"
	if !w.Else {
		cond = joinNodes(w.Conditions, ", ")
	}
	if w.Sub != nil {
		return cond + " => " + w.Sub.String()
	}
	return cond + " => " + str(w.Body)
}

// CatchClause catch 子句
type CatchClause struct {
	Loc   token.Span
	Param *Parameter
	Body  *Block
}

func (c *CatchClause) Pos() token.Position { return c.Loc.Start }
func (c *CatchClause) End() token.Position { return c.Loc.End }
func (c *CatchClause) String() string {
	return "catch (" + str(c.Param) + ") " + str(c.Body)
}

// Accessor 属性访问器 (get() / set(v))
type Accessor struct {
	Loc    token.Span
	Setter bool
	Body   Expression
}

func (a *Accessor) Pos() token.Position { return a.Loc.Start }
func (a *Accessor) End() token.Position { return a.Loc.End }
func (a *Accessor) String() string {
	if a.Setter {
		return "set"
	}
	return "get"
}

// ============================================================================
// 表达式节点
// ============================================================================

// SimpleName 简单名称引用
type SimpleName struct {
	Loc  token.Span
	Name string
}

func (e *SimpleName) Pos() token.Position { return e.Loc.Start }
func (e *SimpleName) End() token.Position { return e.Loc.End }
func (e *SimpleName) String() string      { return e.Name }
func (e *SimpleName) exprNode()           {}

// ConstantKind 常量的词法种类
type ConstantKind int

const (
	IntegerConstant ConstantKind = iota
	LongConstant
	FloatConstant // 以 f/F 结尾为 Float，否则为 Double
	BooleanConstant
	CharConstant
	StringConstant
	NullConstant
)

// Constant 字面量常量
type Constant struct {
	Loc     token.Span
	Kind    ConstantKind
	Literal string
}

func (e *Constant) Pos() token.Position { return e.Loc.Start }
func (e *Constant) End() token.Position { return e.Loc.End }
func (e *Constant) String() string      { return e.Literal }
func (e *Constant) exprNode()           {}

// Parenthesized 括号表达式
type Parenthesized struct {
	Loc   token.Span
	Inner Expression
}

func (e *Parenthesized) Pos() token.Position { return e.Loc.Start }
func (e *Parenthesized) End() token.Position { return e.Loc.End }
func (e *Parenthesized) String() string      { return "(" + str(e.Inner) + ")" }
func (e *Parenthesized) exprNode()           {}

// Labeled 带标签的表达式 (@loop while (...))
type Labeled struct {
	Loc   token.Span
	Label string
	Inner Expression
}

func (e *Labeled) Pos() token.Position { return e.Loc.Start }
func (e *Labeled) End() token.Position { return e.Loc.End }
func (e *Labeled) String() string      { return "@" + e.Label + " " + str(e.Inner) }
func (e *Labeled) exprNode()           {}

// FunctionLiteral 函数字面量 ({(a : Int) => a + 1})
//
// HasParams 为 false 时是无参数声明的字面量，可以作为内联代码块处理。
type FunctionLiteral struct {
	Loc        token.Span
	Receiver   TypeElement
	Params     []*Parameter
	HasParams  bool
	ReturnType TypeElement
	Body       []Expression
}

func (e *FunctionLiteral) Pos() token.Position { return e.Loc.Start }
func (e *FunctionLiteral) End() token.Position { return e.Loc.End }
func (e *FunctionLiteral) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	if e.HasParams {
		if e.Receiver != nil {
			sb.WriteString(e.Receiver.String())
			sb.WriteString(".")
		}
		sb.WriteString("(")
		sb.WriteString(joinNodes(e.Params, ", "))
		sb.WriteString(")")
		if e.ReturnType != nil {
			sb.WriteString(" : ")
			sb.WriteString(e.ReturnType.String())
		}
		sb.WriteString(" => ")
	}
	sb.WriteString(joinNodes(e.Body, "; "))
	sb.WriteString("}")
	return sb.String()
}
func (e *FunctionLiteral) exprNode() {}

// Throw throw 表达式
type Throw struct {
	Loc   token.Span
	Value Expression
}

func (e *Throw) Pos() token.Position { return e.Loc.Start }
func (e *Throw) End() token.Position { return e.Loc.End }
func (e *Throw) String() string      { return "throw " + str(e.Value) }
func (e *Throw) exprNode()           {}

// Return return 表达式，Value 可为 nil
type Return struct {
	Loc   token.Span
	Label string
	Value Expression
}

func (e *Return) Pos() token.Position { return e.Loc.Start }
func (e *Return) End() token.Position { return e.Loc.End }
func (e *Return) String() string {
	if e.Value == nil {
		return "return"
	}
	return "return " + e.Value.String()
}
func (e *Return) exprNode() {}

// Break break 表达式
type Break struct {
	Loc   token.Span
	Label string
}

func (e *Break) Pos() token.Position { return e.Loc.Start }
func (e *Break) End() token.Position { return e.Loc.End }
func (e *Break) String() string      { return "break" }
func (e *Break) exprNode()           {}

// Continue continue 表达式
type Continue struct {
	Loc   token.Span
	Label string
}

func (e *Continue) Pos() token.Position { return e.Loc.Start }
func (e *Continue) End() token.Position { return e.Loc.End }
func (e *Continue) String() string      { return "continue" }
func (e *Continue) exprNode()           {}

// Typeof typeof 表达式
type Typeof struct {
	Loc     token.Span
	Operand Expression
}

func (e *Typeof) Pos() token.Position { return e.Loc.Start }
func (e *Typeof) End() token.Position { return e.Loc.End }
func (e *Typeof) String() string      { return "typeof(" + str(e.Operand) + ")" }
func (e *Typeof) exprNode()           {}

// BinaryWithType 右侧为类型的二元表达式 (x : T, x as T)
type BinaryWithType struct {
	Loc   token.Span
	Left  Expression
	Op    *OperationRef // COLON 或 AS_KEYWORD
	Right TypeElement
}

func (e *BinaryWithType) Pos() token.Position { return e.Loc.Start }
func (e *BinaryWithType) End() token.Position { return e.Loc.End }
func (e *BinaryWithType) String() string {
	return str(e.Left) + " " + e.Op.String() + " " + str(e.Right)
}
func (e *BinaryWithType) exprNode() {}

// Tuple 元组字面量
type Tuple struct {
	Loc      token.Span
	Elements []Expression
}

func (e *Tuple) Pos() token.Position { return e.Loc.Start }
func (e *Tuple) End() token.Position { return e.Loc.End }
func (e *Tuple) String() string      { return "(" + joinNodes(e.Elements, ", ") + ")" }
func (e *Tuple) exprNode()           {}

// This this 表达式 (this, this@Outer, this<Super>)
type This struct {
	Loc   token.Span
	Label *SimpleName // 可为 nil
	Super TypeElement // 可为 nil
}

func (e *This) Pos() token.Position { return e.Loc.Start }
func (e *This) End() token.Position { return e.Loc.End }
func (e *This) String() string {
	s := "this"
	if e.Super != nil {
		s += "<" + e.Super.String() + ">"
	}
	if e.Label != nil {
		s += "@" + e.Label.Name
	}
	return s
}
func (e *This) exprNode() {}

// Block 代码块
type Block struct {
	Loc        token.Span
	Statements []Expression
}

func (e *Block) Pos() token.Position { return e.Loc.Start }
func (e *Block) End() token.Position { return e.Loc.End }
func (e *Block) String() string      { return "{" + joinNodes(e.Statements, "; ") + "}" }
func (e *Block) exprNode()           {}

// When when 表达式
type When struct {
	Loc     token.Span
	Subject Expression // 可为 nil
	Entries []*WhenEntry
}

func (e *When) Pos() token.Position { return e.Loc.Start }
func (e *When) End() token.Position { return e.Loc.End }
func (e *When) String() string {
	return "when (" + str(e.Subject) + ") {" + joinNodes(e.Entries, "; ") + "}"
}
func (e *When) exprNode() {}

// Try try 表达式
type Try struct {
	Loc     token.Span
	Body    *Block
	Catches []*CatchClause
	Finally *Block // 可为 nil
}

func (e *Try) Pos() token.Position { return e.Loc.Start }
func (e *Try) End() token.Position { return e.Loc.End }
func (e *Try) String() string {
	s := "try " + str(e.Body)
	if len(e.Catches) > 0 {
		s += " " + joinNodes(e.Catches, " ")
	}
	if e.Finally != nil {
		s += " finally " + e.Finally.String()
	}
	return s
}
func (e *Try) exprNode() {}

// If if 表达式，Then 与 Else 均可为 nil
type If struct {
	Loc  token.Span
	Cond Expression
	Then Expression
	Else Expression
}

func (e *If) Pos() token.Position { return e.Loc.Start }
func (e *If) End() token.Position { return e.Loc.End }
func (e *If) String() string {
	s := "if (" + str(e.Cond) + ") " + str(e.Then)
	if e.Else != nil {
		s += " else " + e.Else.String()
	}
	return s
}
func (e *If) exprNode() {}

// While while 循环
type While struct {
	Loc  token.Span
	Cond Expression
	Body Expression
}

func (e *While) Pos() token.Position { return e.Loc.Start }
func (e *While) End() token.Position { return e.Loc.End }
func (e *While) String() string      { return "while (" + str(e.Cond) + ") " + str(e.Body) }
func (e *While) exprNode()           {}

// DoWhile do-while 循环
type DoWhile struct {
	Loc  token.Span
	Body Expression
	Cond Expression
}

func (e *DoWhile) Pos() token.Position { return e.Loc.Start }
func (e *DoWhile) End() token.Position { return e.Loc.End }
func (e *DoWhile) String() string      { return "do " + str(e.Body) + " while (" + str(e.Cond) + ")" }
func (e *DoWhile) exprNode()           {}

// For for 循环 (for (x in xs) body)
type For struct {
	Loc   token.Span
	Param *Parameter
	Range Expression
	Body  Expression
}

func (e *For) Pos() token.Position { return e.Loc.Start }
func (e *For) End() token.Position { return e.Loc.End }
func (e *For) String() string {
	return "for (" + str(e.Param) + " in " + str(e.Range) + ") " + str(e.Body)
}
func (e *For) exprNode() {}

// New 构造调用 (new Foo<Int>(1, 2))
type New struct {
	Loc              token.Span
	Type             TypeElement
	Args             *ArgumentList // 可为 nil
	FunctionLiterals []Expression
}

func (e *New) Pos() token.Position { return e.Loc.Start }
func (e *New) End() token.Position { return e.Loc.End }
func (e *New) String() string {
	s := "new " + str(e.Type)
	if e.Args != nil {
		s += e.Args.String()
	}
	return s
}
func (e *New) exprNode() {}

// Arguments 返回全部实参
func (e *New) Arguments() []*Argument {
	if e.Args == nil {
		return nil
	}
	return e.Args.Args
}

// HashQualified 重载集合引用 (a#b)
type HashQualified struct {
	Loc      token.Span
	Receiver Expression
	Selector Expression
}

func (e *HashQualified) Pos() token.Position { return e.Loc.Start }
func (e *HashQualified) End() token.Position { return e.Loc.End }
func (e *HashQualified) String() string      { return str(e.Receiver) + "#" + str(e.Selector) }
func (e *HashQualified) exprNode()           {}

// Qualified 限定访问 (a.b, a?.b, a?b)
//
// Op 为 QUEST 时是类型检查形式：选择器必须是 Boolean，结果是可空的接收者类型。
type Qualified struct {
	Loc      token.Span
	Receiver Expression
	Op       token.TokenType // DOT, SAFE_ACCESS 或 QUEST
	OpLoc    token.Span
	Selector Expression
}

func (e *Qualified) Pos() token.Position { return e.Loc.Start }
func (e *Qualified) End() token.Position { return e.Loc.End }
func (e *Qualified) String() string {
	return str(e.Receiver) + e.Op.String() + str(e.Selector)
}
func (e *Qualified) exprNode() {}

// Call 函数调用 (f<T>(a, b) {x => x})
type Call struct {
	Loc              token.Span
	Callee           Expression
	TypeArgs         []*TypeProjection
	Args             *ArgumentList // 可为 nil（只有尾随函数字面量时）
	FunctionLiterals []Expression
}

func (e *Call) Pos() token.Position { return e.Loc.Start }
func (e *Call) End() token.Position { return e.Loc.End }
func (e *Call) String() string {
	s := str(e.Callee)
	if len(e.TypeArgs) > 0 {
		s += "<" + joinNodes(e.TypeArgs, ", ") + ">"
	}
	if e.Args != nil {
		s += e.Args.String()
	}
	for _, fl := range e.FunctionLiterals {
		s += " " + fl.String()
	}
	return s
}
func (e *Call) exprNode() {}

// Arguments 返回全部实参
func (e *Call) Arguments() []*Argument {
	if e.Args == nil {
		return nil
	}
	return e.Args.Args
}

// Is 类型检查表达式 (x is T)
type Is struct {
	Loc     token.Span
	Left    Expression
	Negated bool
	Pattern TypeElement
}

func (e *Is) Pos() token.Position { return e.Loc.Start }
func (e *Is) End() token.Position { return e.Loc.End }
func (e *Is) String() string {
	op := " is "
	if e.Negated {
		op = " !is "
	}
	return str(e.Left) + op + str(e.Pattern)
}
func (e *Is) exprNode() {}

// Unary 一元表达式 (-a, !a, a++)
type Unary struct {
	Loc     token.Span
	Op      *OperationRef
	Operand Expression
	Postfix bool
}

func (e *Unary) Pos() token.Position { return e.Loc.Start }
func (e *Unary) End() token.Position { return e.Loc.End }
func (e *Unary) String() string {
	if e.Postfix {
		return str(e.Operand) + e.Op.String()
	}
	return e.Op.String() + str(e.Operand)
}
func (e *Unary) exprNode() {}

// Binary 二元表达式，包括赋值与中缀调用
type Binary struct {
	Loc   token.Span
	Left  Expression
	Op    *OperationRef
	Right Expression // 可为 nil（语法错误恢复）
}

func (e *Binary) Pos() token.Position { return e.Loc.Start }
func (e *Binary) End() token.Position { return e.Loc.End }
func (e *Binary) String() string {
	return str(e.Left) + " " + e.Op.String() + " " + str(e.Right)
}
func (e *Binary) exprNode() {}

// ArrayAccess 索引访问 (a[i, j])
type ArrayAccess struct {
	Loc     token.Span
	Array   Expression
	Indices []Expression
}

func (e *ArrayAccess) Pos() token.Position { return e.Loc.Start }
func (e *ArrayAccess) End() token.Position { return e.Loc.End }
func (e *ArrayAccess) String() string {
	return str(e.Array) + "[" + joinNodes(e.Indices, ", ") + "]"
}
func (e *ArrayAccess) exprNode() {}

// ============================================================================
// 声明节点
// ============================================================================

// Parameter 参数声明（函数参数、函数字面量参数、for 循环变量、catch 参数）
type Parameter struct {
	Loc  token.Span
	Name string
	Type TypeElement // 可为 nil
	Var  bool
}

func (d *Parameter) Pos() token.Position { return d.Loc.Start }
func (d *Parameter) End() token.Position { return d.Loc.End }
func (d *Parameter) String() string {
	if d.Type == nil {
		return d.Name
	}
	return d.Name + " : " + d.Type.String()
}
func (d *Parameter) exprNode() {}
func (d *Parameter) declNode() {}

// Property 属性声明 (val x : Int = 1)
type Property struct {
	Loc         token.Span
	Name        string
	Var         bool
	Type        TypeElement // 可为 nil
	Initializer Expression  // 可为 nil
	Getter      *Accessor
	Setter      *Accessor
}

func (d *Property) Pos() token.Position { return d.Loc.Start }
func (d *Property) End() token.Position { return d.Loc.End }
func (d *Property) String() string {
	s := "val "
	if d.Var {
		s = "var "
	}
	s += d.Name
	if d.Type != nil {
		s += " : " + d.Type.String()
	}
	if d.Initializer != nil {
		s += " = " + d.Initializer.String()
	}
	return s
}
func (d *Property) exprNode() {}
func (d *Property) declNode() {}

// Function 函数声明
//
// BlockBody 为 false 时 Body 是 = 之后的单个表达式。
type Function struct {
	Loc        token.Span
	Name       string
	TypeParams []string
	Receiver   TypeElement
	Params     []*Parameter
	ReturnType TypeElement
	Body       Expression
	BlockBody  bool
}

func (d *Function) Pos() token.Position { return d.Loc.Start }
func (d *Function) End() token.Position { return d.Loc.End }
func (d *Function) String() string {
	s := "fun "
	if d.Receiver != nil {
		s += d.Receiver.String() + "."
	}
	s += d.Name + "(" + joinNodes(d.Params, ", ") + ")"
	if d.ReturnType != nil {
		s += " : " + d.ReturnType.String()
	}
	return s
}
func (d *Function) exprNode() {}
func (d *Function) declNode() {}

// Class 类声明（块内只识别，不处理）
type Class struct {
	Loc  token.Span
	Name string
}

func (d *Class) Pos() token.Position { return d.Loc.Start }
func (d *Class) End() token.Position { return d.Loc.End }
func (d *Class) String() string      { return "class " + d.Name }
func (d *Class) exprNode()           {}
func (d *Class) declNode()           {}

// Typedef 类型别名声明
type Typedef struct {
	Loc  token.Span
	Name string
	Type TypeElement
}

func (d *Typedef) Pos() token.Position { return d.Loc.Start }
func (d *Typedef) End() token.Position { return d.Loc.End }
func (d *Typedef) String() string      { return "type " + d.Name + " = " + str(d.Type) }
func (d *Typedef) exprNode()           {}
func (d *Typedef) declNode()           {}

// Extension 扩展声明
type Extension struct {
	Loc      token.Span
	Name     string
	Receiver TypeElement
}

func (d *Extension) Pos() token.Position { return d.Loc.Start }
func (d *Extension) End() token.Position { return d.Loc.End }
func (d *Extension) String() string      { return "extension " + d.Name + " for " + str(d.Receiver) }
func (d *Extension) exprNode()           {}
func (d *Extension) declNode()           {}

// ============================================================================
// 工具函数
// ============================================================================

// Unparen 去掉外层括号
func Unparen(e Expression) Expression {
	for {
		p, ok := e.(*Parenthesized)
		if !ok || p.Inner == nil {
			return e
		}
		e = p.Inner
	}
}

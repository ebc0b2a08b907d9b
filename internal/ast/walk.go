package ast

// ============================================================================
// 遍历
// ============================================================================

// Children 返回节点的直接子节点，按源码顺序
//
// 类型引用、实参列表和 when/catch 分支等辅助节点也会返回。
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if !isNil(c) {
			out = append(out, c)
		}
	}

	switch n := n.(type) {
	// 类型
	case *TypeProjection:
		add(n.Type)
	case *UserType:
		add(n.Ref)
		for _, a := range n.Args {
			add(a)
		}
	case *NullableType:
		add(n.Inner)
	case *FunctionType:
		add(n.Receiver)
		for _, p := range n.Params {
			add(p)
		}
		add(n.Return)
	case *TupleType:
		for _, e := range n.Elements {
			add(e)
		}

	// 辅助节点
	case *Argument:
		add(n.Value)
	case *ArgumentList:
		for _, a := range n.Args {
			add(a)
		}
	case *WhenEntry:
		for _, c := range n.Conditions {
			add(c)
		}
		if n.Sub != nil {
			add(n.Sub)
		} else {
			add(n.Body)
		}
	case *CatchClause:
		add(n.Param)
		if n.Body != nil {
			add(n.Body)
		}
	case *Accessor:
		add(n.Body)

	// 表达式
	case *Parenthesized:
		add(n.Inner)
	case *Labeled:
		add(n.Inner)
	case *FunctionLiteral:
		add(n.Receiver)
		for _, p := range n.Params {
			add(p)
		}
		add(n.ReturnType)
		for _, s := range n.Body {
			add(s)
		}
	case *Throw:
		add(n.Value)
	case *Return:
		add(n.Value)
	case *Typeof:
		add(n.Operand)
	case *BinaryWithType:
		add(n.Left)
		add(n.Op)
		add(n.Right)
	case *Tuple:
		for _, e := range n.Elements {
			add(e)
		}
	case *This:
		if n.Label != nil {
			add(n.Label)
		}
		add(n.Super)
	case *Block:
		for _, s := range n.Statements {
			add(s)
		}
	case *When:
		add(n.Subject)
		for _, e := range n.Entries {
			add(e)
		}
	case *Try:
		if n.Body != nil {
			add(n.Body)
		}
		for _, c := range n.Catches {
			add(c)
		}
		if n.Finally != nil {
			add(n.Finally)
		}
	case *If:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *While:
		add(n.Cond)
		add(n.Body)
	case *DoWhile:
		add(n.Body)
		add(n.Cond)
	case *For:
		add(n.Param)
		add(n.Range)
		add(n.Body)
	case *New:
		add(n.Type)
		if n.Args != nil {
			add(n.Args)
		}
		for _, fl := range n.FunctionLiterals {
			add(fl)
		}
	case *HashQualified:
		add(n.Receiver)
		add(n.Selector)
	case *Qualified:
		add(n.Receiver)
		add(n.Selector)
	case *Call:
		add(n.Callee)
		for _, a := range n.TypeArgs {
			add(a)
		}
		if n.Args != nil {
			add(n.Args)
		}
		for _, fl := range n.FunctionLiterals {
			add(fl)
		}
	case *Is:
		add(n.Left)
		add(n.Pattern)
	case *Unary:
		add(n.Op)
		add(n.Operand)
	case *Binary:
		add(n.Left)
		add(n.Op)
		add(n.Right)
	case *ArrayAccess:
		add(n.Array)
		for _, i := range n.Indices {
			add(i)
		}

	// 声明
	case *Parameter:
		add(n.Type)
	case *Property:
		add(n.Type)
		add(n.Initializer)
		if n.Getter != nil {
			add(n.Getter)
		}
		if n.Setter != nil {
			add(n.Setter)
		}
	case *Function:
		add(n.Receiver)
		for _, p := range n.Params {
			add(p)
		}
		add(n.ReturnType)
		add(n.Body)
	case *Typedef:
		add(n.Type)
	case *Extension:
		add(n.Receiver)
	}
	return out
}

// Inspect 深度优先遍历 n，f 返回 false 时不再进入该节点的子节点
func Inspect(n Node, f func(Node) bool) {
	if isNil(n) || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// isNil 识别接口中的 nil 指针
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Block:
		return v == nil
	case *SimpleName:
		return v == nil
	case *When:
		return v == nil
	case *ArgumentList:
		return v == nil
	case *Parameter:
		return v == nil
	}
	return false
}

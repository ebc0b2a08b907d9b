// Package flow 构建函数体的控制流图并从中收集返回点
package flow

import (
	"github.com/hashicorp/go-set/v2"

	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/token"
)

// BasicBlock 基本块
type BasicBlock struct {
	ID           int
	Nodes        []ast.Node
	Predecessors []*BasicBlock
	Successors   []*BasicBlock
}

// NewBasicBlock 创建新的基本块
func NewBasicBlock(id int) *BasicBlock {
	return &BasicBlock{ID: id}
}

// Add 添加节点到基本块
func (bb *BasicBlock) Add(n ast.Node) {
	bb.Nodes = append(bb.Nodes, n)
}

// AddSuccessor 添加后继块
func (bb *BasicBlock) AddSuccessor(succ *BasicBlock) {
	bb.Successors = append(bb.Successors, succ)
	succ.Predecessors = append(succ.Predecessors, bb)
}

// CFG 控制流图
//
// 只有正常执行到函数体末尾的路径连到 Exit；return 与 throw 不连到 Exit。
type CFG struct {
	Entry   *BasicBlock
	Exit    *BasicBlock
	Blocks  []*BasicBlock
	Returns []*ast.Return
	blockID int

	reachable *set.Set[*BasicBlock]
}

// NewCFG 创建新的控制流图
func NewCFG() *CFG {
	cfg := &CFG{}
	cfg.Entry = cfg.NewBlock()
	cfg.Exit = cfg.NewBlock()
	return cfg
}

// NewBlock 创建新的基本块
func (cfg *CFG) NewBlock() *BasicBlock {
	block := NewBasicBlock(cfg.blockID)
	cfg.blockID++
	cfg.Blocks = append(cfg.Blocks, block)
	return block
}

// Reachable 块是否可以从入口到达
func (cfg *CFG) Reachable(b *BasicBlock) bool {
	if cfg.reachable == nil {
		cfg.reachable = set.New[*BasicBlock](len(cfg.Blocks))
		work := []*BasicBlock{cfg.Entry}
		cfg.reachable.Insert(cfg.Entry)
		for len(work) > 0 {
			cur := work[0]
			work = work[1:]
			for _, s := range cur.Successors {
				if cfg.reachable.Insert(s) {
					work = append(work, s)
				}
			}
		}
	}
	return cfg.reachable.Contains(b)
}

// EndReachable 函数体末尾是否可达
func (cfg *CFG) EndReachable() bool {
	return cfg.Reachable(cfg.Exit)
}

// Unreachable 返回不可达块中的节点
func (cfg *CFG) Unreachable() []ast.Node {
	var out []ast.Node
	for _, b := range cfg.Blocks {
		if b != cfg.Exit && !cfg.Reachable(b) {
			out = append(out, b.Nodes...)
		}
	}
	return out
}

// ============================================================================
// 构建
// ============================================================================

// Builder CFG 构建器
type Builder struct {
	cfg          *CFG
	currentBlock *BasicBlock

	// 循环上下文（用于 break/continue）
	loopStack []*loopContext
	label     string // 下一个循环的标签
}

// loopContext 循环上下文
type loopContext struct {
	label          string
	continueTarget *BasicBlock
	breakTarget    *BasicBlock
}

// NewBuilder 创建 CFG 构建器
func NewBuilder() *Builder {
	return &Builder{}
}

// Build 构建函数体的控制流图
func (cb *Builder) Build(body ast.Expression) *CFG {
	cb.cfg = NewCFG()
	cb.currentBlock = cb.cfg.Entry
	cb.loopStack = cb.loopStack[:0]

	cb.visit(body)

	// 连接到出口
	cb.currentBlock.AddSuccessor(cb.cfg.Exit)
	return cb.cfg
}

func (cb *Builder) visit(n ast.Node) {
	if n == nil {
		return
	}
	if _, ok := n.(ast.TypeElement); ok {
		return
	}

	switch e := n.(type) {
	case *ast.If:
		cb.buildIf(e)
	case *ast.When:
		cb.buildWhen(e)
	case *ast.While:
		cb.buildWhile(e)
	case *ast.DoWhile:
		cb.buildDoWhile(e)
	case *ast.For:
		cb.buildFor(e)
	case *ast.Try:
		cb.buildTry(e)
	case *ast.Labeled:
		cb.label = e.Label
		cb.visit(e.Inner)
		cb.label = ""
	case *ast.Binary:
		cb.buildBinary(e)

	case *ast.Return:
		cb.visit(e.Value)
		cb.currentBlock.Add(e)
		cb.cfg.Returns = append(cb.cfg.Returns, e)
		// return 后创建新块（不可达代码）
		cb.currentBlock = cb.cfg.NewBlock()
	case *ast.Throw:
		cb.visit(e.Value)
		cb.currentBlock.Add(e)
		cb.currentBlock = cb.cfg.NewBlock()
	case *ast.Break:
		cb.currentBlock.Add(e)
		if ctx := cb.loop(e.Label); ctx != nil {
			cb.currentBlock.AddSuccessor(ctx.breakTarget)
		}
		cb.currentBlock = cb.cfg.NewBlock()
	case *ast.Continue:
		cb.currentBlock.Add(e)
		if ctx := cb.loop(e.Label); ctx != nil {
			cb.currentBlock.AddSuccessor(ctx.continueTarget)
		}
		cb.currentBlock = cb.cfg.NewBlock()

	case *ast.FunctionLiteral, *ast.Function, *ast.Class:
		// 内部的 return 不属于当前函数
		cb.currentBlock.Add(e)

	default:
		for _, c := range ast.Children(n) {
			cb.visit(c)
		}
		cb.currentBlock.Add(n)
	}
}

// loop 查找 break/continue 的目标循环
func (cb *Builder) loop(label string) *loopContext {
	for i := len(cb.loopStack) - 1; i >= 0; i-- {
		if label == "" || cb.loopStack[i].label == label {
			return cb.loopStack[i]
		}
	}
	return nil
}

func (cb *Builder) pushLoop(continueTarget, breakTarget *BasicBlock) {
	cb.loopStack = append(cb.loopStack, &loopContext{
		label:          cb.label,
		continueTarget: continueTarget,
		breakTarget:    breakTarget,
	})
	cb.label = ""
}

func (cb *Builder) popLoop() {
	cb.loopStack = cb.loopStack[:len(cb.loopStack)-1]
}

// branch 在当前块分出一条新路径
func (cb *Builder) branch(from *BasicBlock, n ast.Node) *BasicBlock {
	b := cb.cfg.NewBlock()
	from.AddSuccessor(b)
	cb.currentBlock = b
	cb.visit(n)
	return cb.currentBlock
}

// merge 把各路径出口连到新的合并点
func (cb *Builder) merge(exits ...*BasicBlock) {
	mergeBlock := cb.cfg.NewBlock()
	for _, e := range exits {
		e.AddSuccessor(mergeBlock)
	}
	cb.currentBlock = mergeBlock
}

func (cb *Builder) buildIf(e *ast.If) {
	cb.visit(e.Cond)
	condBlock := cb.currentBlock
	condBlock.Add(e)

	thenExit := cb.branch(condBlock, e.Then)
	elseExit := cb.branch(condBlock, e.Else)
	cb.merge(thenExit, elseExit)
}

func (cb *Builder) buildWhen(e *ast.When) {
	cb.visit(e.Subject)
	cb.currentBlock.Add(e)
	cb.buildEntries(e)
}

func (cb *Builder) buildEntries(e *ast.When) {
	var exits []*BasicBlock
	exhaustive := false
	for _, entry := range e.Entries {
		for _, c := range entry.Conditions {
			cb.visit(c)
		}
		condBlock := cb.currentBlock
		bodyBlock := cb.cfg.NewBlock()
		condBlock.AddSuccessor(bodyBlock)
		cb.currentBlock = bodyBlock
		if entry.Sub != nil {
			cb.buildWhen(entry.Sub)
		} else {
			cb.visit(entry.Body)
		}
		exits = append(exits, cb.currentBlock)

		if entry.Else {
			exhaustive = true
			break
		}
		// 下一个分支
		next := cb.cfg.NewBlock()
		condBlock.AddSuccessor(next)
		cb.currentBlock = next
	}
	if !exhaustive {
		exits = append(exits, cb.currentBlock)
	}
	cb.merge(exits...)
}

func (cb *Builder) buildWhile(e *ast.While) {
	// 循环头（条件）
	loopHead := cb.cfg.NewBlock()
	cb.currentBlock.AddSuccessor(loopHead)
	cb.currentBlock = loopHead
	cb.visit(e.Cond)
	condExit := cb.currentBlock
	condExit.Add(e)

	loopExit := cb.cfg.NewBlock()
	if !isTrue(e.Cond) {
		condExit.AddSuccessor(loopExit)
	}

	cb.pushLoop(loopHead, loopExit)
	bodyExit := cb.branch(condExit, e.Body)
	bodyExit.AddSuccessor(loopHead)
	cb.popLoop()

	cb.currentBlock = loopExit
}

func (cb *Builder) buildDoWhile(e *ast.DoWhile) {
	loopBody := cb.cfg.NewBlock()
	cb.currentBlock.AddSuccessor(loopBody)
	condBlock := cb.cfg.NewBlock()
	loopExit := cb.cfg.NewBlock()

	cb.pushLoop(condBlock, loopExit)
	cb.currentBlock = loopBody
	cb.visit(e.Body)
	cb.currentBlock.AddSuccessor(condBlock)
	cb.popLoop()

	cb.currentBlock = condBlock
	cb.visit(e.Cond)
	cb.currentBlock.Add(e)
	cb.currentBlock.AddSuccessor(loopBody) // true 回到循环体
	if !isTrue(e.Cond) {
		cb.currentBlock.AddSuccessor(loopExit)
	}
	cb.currentBlock = loopExit
}

func (cb *Builder) buildFor(e *ast.For) {
	cb.visit(e.Range)
	loopHead := cb.cfg.NewBlock()
	cb.currentBlock.AddSuccessor(loopHead)
	loopHead.Add(e)

	loopExit := cb.cfg.NewBlock()
	loopHead.AddSuccessor(loopExit)

	cb.pushLoop(loopHead, loopExit)
	bodyExit := cb.branch(loopHead, e.Body)
	bodyExit.AddSuccessor(loopHead)
	cb.popLoop()

	cb.currentBlock = loopExit
}

func (cb *Builder) buildTry(e *ast.Try) {
	tryBlock := cb.currentBlock
	tryBlock.Add(e)
	if e.Body != nil {
		cb.visit(e.Body)
	}
	exits := []*BasicBlock{cb.currentBlock}

	// try 可能跳到任何 catch
	for _, c := range e.Catches {
		var body ast.Node
		if c.Body != nil {
			body = c.Body
		}
		exits = append(exits, cb.branch(tryBlock, body))
	}

	cb.merge(exits...)
	if e.Finally != nil {
		cb.visit(e.Finally)
	}
}

// buildBinary 短路运算与 elvis 的右侧只在部分路径上求值
func (cb *Builder) buildBinary(e *ast.Binary) {
	switch e.Op.Token {
	case token.ANDAND, token.OROR, token.ELVIS:
	default:
		cb.visit(e.Left)
		cb.visit(e.Right)
		cb.currentBlock.Add(e)
		return
	}
	cb.visit(e.Left)
	condBlock := cb.currentBlock
	rightExit := cb.branch(condBlock, e.Right)
	cb.merge(condBlock, rightExit)
	cb.currentBlock.Add(e)
}

func isTrue(cond ast.Expression) bool {
	c, ok := ast.Unparen(cond).(*ast.Constant)
	return ok && c.Kind == ast.BooleanConstant && c.Literal == "true"
}

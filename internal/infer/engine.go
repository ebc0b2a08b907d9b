// Package infer 推断表达式的类型并解析其中的调用
//
// Engine 是无状态的服务集合，每次公共调用创建一个 pass：pass 持有本次推断的
// Trace 缓存与错误接收者，结束后即丢弃。遇到尚未实现的语法时，pass 以
// *diag.NotImplementedError 中止并作为 error 返回，其他问题都作为诊断上报。
package infer

import (
	"fmt"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/diag"
	"github.com/tangzhangming/typeinfer/internal/flow"
	"github.com/tangzhangming/typeinfer/internal/overload"
	"github.com/tangzhangming/typeinfer/internal/resolve"
	"github.com/tangzhangming/typeinfer/internal/scope"
	"github.com/tangzhangming/typeinfer/internal/trace"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// Options 推断行为开关
type Options struct {
	// WarnUnnecessarySafeCall 对非空接收者上的 ?. 给出警告
	WarnUnnecessarySafeCall bool
	// WarnUselessElvis 对左侧不可空的 ?: 给出警告
	WarnUselessElvis bool
}

// DefaultOptions 默认选项，所有警告开启
func DefaultOptions() Options {
	return Options{
		WarnUnnecessarySafeCall: true,
		WarnUselessElvis:        true,
	}
}

// Engine 类型推断引擎
//
// 构造后不再修改，可以在多个 goroutine 间共享；并发的推断各自使用自己的
// Trace 与 Handler（见 WithHandler）。
type Engine struct {
	lib         *types.StandardLibrary
	tc          *types.Checker
	overloads   *overload.Resolver
	typeRefs    *resolve.TypeResolver
	descriptors *resolve.DescriptorResolver
	flow        flow.Provider
	errors      diag.Handler
	log         *zap.Logger
	opts        Options

	passes *atomic.Uint64
}

// Option 配置 Engine
type Option func(*Engine)

// WithLogger 设置调试日志
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithOptions 设置推断选项
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithFlow 替换控制流信息服务
func WithFlow(p flow.Provider) Option {
	return func(e *Engine) { e.flow = p }
}

// WithChecker 替换类型检查服务
func WithChecker(tc *types.Checker) Option {
	return func(e *Engine) {
		e.tc = tc
		e.overloads = overload.NewResolver(tc)
	}
}

// New 创建推断引擎，诊断上报给 errors
func New(errors diag.Handler, opts ...Option) *Engine {
	tc := types.NewChecker()
	typeRefs := resolve.NewTypeResolver()
	e := &Engine{
		lib:         types.Standard(),
		tc:          tc,
		overloads:   overload.NewResolver(tc),
		typeRefs:    typeRefs,
		descriptors: resolve.NewDescriptorResolver(typeRefs),
		flow:        flow.NewProvider(),
		errors:      errors,
		log:         zap.NewNop(),
		opts:        DefaultOptions(),
		passes:      atomic.NewUint64(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithHandler 返回共享全部服务、但向 h 上报诊断的引擎
func (e *Engine) WithHandler(h diag.Handler) *Engine {
	c := *e
	c.errors = h
	return &c
}

// Checker 引擎使用的类型检查服务
func (e *Engine) Checker() *types.Checker { return e.tc }

// ============================================================================
// 公共入口
// ============================================================================

// Infer 推断 expr 在 sc 中的类型
//
// 无法得到类型时返回 nil；只有遇到尚未实现的语法时 error 非 nil。
func (e *Engine) Infer(tr trace.Trace, sc scope.Scope, expr ast.Expression, preferBlock bool) (t *types.Type, err error) {
	p := e.newPass(tr, expr)
	defer p.finish(&err)
	t = p.newVisitor(sc, preferBlock).visit(expr)
	p.log.Debug("inferred", typeField(t))
	return t, nil
}

// SafeInfer 与 Infer 相同，但用错误类型代替 nil
func (e *Engine) SafeInfer(tr trace.Trace, sc scope.Scope, expr ast.Expression, preferBlock bool) (*types.Type, error) {
	t, err := e.Infer(tr, sc, expr, preferBlock)
	if err != nil {
		return nil, err
	}
	if t == nil {
		t = types.ErrorType("Type for " + expr.String())
	}
	return t, nil
}

// FunctionReturnType 从函数体推断返回类型
//
// 函数体在由 desc 拥有的内部作用域中推断；所有 return 的值与隐式返回 Unit 的
// 位置共同决定结果，两者都为空时函数不会正常结束，结果为 Nothing。
func (e *Engine) FunctionReturnType(tr trace.Trace, outer scope.Scope, fn *ast.Function, desc *types.FunctionDescriptor) (t *types.Type, err error) {
	p := e.newPass(tr, fn)
	defer p.finish(&err)
	t = p.functionReturnType(outer, fn, desc)
	p.log.Debug("function return type", zap.String("function", fn.Name), typeField(t))
	return t, nil
}

// CheckFunctionReturnType 检查函数的每个返回点都能转换为声明的返回类型
func (e *Engine) CheckFunctionReturnType(tr trace.Trace, outer scope.Scope, fn *ast.Function, desc *types.FunctionDescriptor) (err error) {
	p := e.newPass(tr, fn)
	defer p.finish(&err)
	p.checkFunctionReturnType(outer, fn, desc)
	return nil
}

// ============================================================================
// pass
// ============================================================================

// pass 一次推断过程
type pass struct {
	*Engine
	id    uint64
	trace *trace.Cached
	ctx   resolve.Context
	log   *zap.Logger
}

func (e *Engine) newPass(tr trace.Trace, root ast.Node) *pass {
	cached := trace.NewCached(tr)
	id := e.passes.Inc()
	p := &pass{
		Engine: e,
		id:     id,
		trace:  cached,
		ctx:    resolve.Context{Trace: cached, Errors: e.errors},
		log:    e.log.With(zap.Uint64("pass", id)),
	}
	p.log.Debug("pass start", zap.String("node", fmt.Sprintf("%T", root)))
	return p
}

// finish 把尚未实现的语法转换为 error；其他 panic 继续向上传播
func (p *pass) finish(errp *error) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok || !diag.IsNotImplemented(err) {
			panic(r)
		}
		p.log.Debug("not implemented", zap.Error(err))
		*errp = err
		return
	}
	p.log.Debug("pass finish", zap.Int("expressions", p.trace.Len()))
}

// notImplemented 中止本次推断
func notImplemented(node ast.Node, format string, args ...interface{}) {
	panic(diag.NotImplemented(node, format, args...))
}

// newVisitor 表达式模式的访问者
func (p *pass) newVisitor(sc scope.Scope, preferBlock bool) *visitor {
	return &visitor{p: p, scope: sc, preferBlock: preferBlock}
}

// newBlockVisitor 绑定到 w 的代码块模式访问者
func (p *pass) newBlockVisitor(w *scope.Writable) *visitor {
	return &visitor{p: p, scope: w, preferBlock: true, block: w}
}

func typeField(t *types.Type) zap.Field {
	if t == nil {
		return zap.Skip()
	}
	return zap.Stringer("type", t)
}

package infer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/diag"
	"github.com/tangzhangming/typeinfer/internal/i18n"
	"github.com/tangzhangming/typeinfer/internal/scope"
	"github.com/tangzhangming/typeinfer/internal/token"
	"github.com/tangzhangming/typeinfer/internal/trace"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// ============================================================================
// 测试夹具
// ============================================================================

// fixture 一个带有常用局部变量的推断环境
//
//	c: Boolean  s: String  ns: String?  i: Int  n: Int?
//	arr: Array<String>  narr: Array<String>?  r: IntRange
//	var x: Int  var b: Boolean  var v: String
type fixture struct {
	engine *Engine
	errs   *diag.Collector
	bc     *trace.BindingContext
	scope  *scope.Writable
	lib    *types.StandardLibrary
}

func newFixture(opts ...Option) *fixture {
	lib := types.Standard()
	errs := diag.NewCollector()
	w := scope.NewWritable(scope.NewRoot(), nil)

	str := lib.StringType()
	vals := []struct {
		name string
		t    *types.Type
	}{
		{"c", lib.BooleanType()},
		{"s", str},
		{"ns", types.MakeNullable(str)},
		{"i", lib.IntType()},
		{"n", types.MakeNullable(lib.IntType())},
		{"arr", lib.ArrayOf(str)},
		{"narr", types.MakeNullable(lib.ArrayOf(str))},
		{"r", lib.IntRangeType()},
	}
	for _, val := range vals {
		w.AddProperty(types.NewValue(nil, val.name, val.t))
	}
	w.AddProperty(types.NewVariable(nil, "x", lib.IntType()))
	w.AddProperty(types.NewVariable(nil, "b", lib.BooleanType()))
	w.AddProperty(types.NewVariable(nil, "v", str))

	return &fixture{
		engine: New(errs, opts...),
		errs:   errs,
		bc:     trace.NewBindingContext(),
		scope:  w,
		lib:    lib,
	}
}

// infer 表达式模式推断
func (f *fixture) infer(t *testing.T, expr ast.Expression) *types.Type {
	t.Helper()
	got, err := f.engine.Infer(f.bc, f.scope, expr, false)
	require.NoError(t, err)
	return got
}

// inferBlock 把 stmts 作为代码块推断
func (f *fixture) inferBlock(t *testing.T, stmts ...ast.Expression) *types.Type {
	t.Helper()
	got, err := f.engine.Infer(f.bc, f.scope, ast.NewBlock(stmts...), true)
	require.NoError(t, err)
	return got
}

// kinds 已上报诊断的种类，按上报顺序
func (f *fixture) kinds() []diag.Kind {
	var out []diag.Kind
	for _, d := range f.errs.Diagnostics() {
		out = append(out, d.Kind)
	}
	return out
}

// messages 已上报诊断的消息
func (f *fixture) messages() []string {
	var out []string
	for _, d := range f.errs.Diagnostics() {
		out = append(out, d.Message)
	}
	return out
}

func assertType(t *testing.T, expected string, got *types.Type) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, expected, got.String())
}

func lit(text string) *ast.Constant { return ast.NewLiteral(text) }

func name(n string) *ast.SimpleName { return ast.NewName(n) }

func userType(n string, args ...ast.TypeElement) *ast.UserType { return ast.NewUserType(n, args...) }

// ============================================================================
// 常量与名称
// ============================================================================

func TestConstantTypes(t *testing.T) {
	tests := []struct {
		literal  string
		expected string
	}{
		{"1", "Int"},
		{"1L", "Long"},
		{"1.0f", "Float"},
		{"1.0F", "Float"},
		{"1.0", "Double"},
		{"1e3", "Double"},
		{"true", "Boolean"},
		{"false", "Boolean"},
		{"'c'", "Char"},
		{`"x"`, "String"},
		{"null", "Nothing?"},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			errs := diag.NewCollector()
			// 常量不查询作用域
			got, err := New(errs).Infer(trace.NewBindingContext(), nil, lit(tt.literal), false)
			require.NoError(t, err)
			assertType(t, tt.expected, got)
			assert.Empty(t, errs.Diagnostics())
		})
	}
}

func TestSimpleName(t *testing.T) {
	f := newFixture()
	ref := name("s")
	assertType(t, "String", f.infer(t, ref))
	require.NotNil(t, f.bc.Reference(ref))
	assert.Equal(t, "s", f.bc.Reference(ref).Name())
	assert.Empty(t, f.errs.Diagnostics())
}

func TestUnresolvedName(t *testing.T) {
	f := newFixture()
	assert.Nil(t, f.infer(t, name("nope")))
	assert.Equal(t, []diag.Kind{diag.KindUnresolvedReference}, f.kinds())
}

func TestWriteOnlyProperty(t *testing.T) {
	f := newFixture()
	f.scope.AddProperty(types.NewProperty(nil, "sink", f.lib.IntType(), nil))

	assert.Nil(t, f.infer(t, name("sink")))
	assert.Equal(t, []string{i18n.T(i18n.ErrWriteOnlyProperty, "sink")}, f.messages())
}

func TestNamespaceAccess(t *testing.T) {
	f := newFixture()
	pkg := types.NewNamespace(nil, "pkg")
	pkg.Members.AddProperty(types.NewValue(pkg, "answer", f.lib.IntType()))
	f.scope.AddNamespace(pkg)

	assertType(t, "Int", f.infer(t, ast.NewDot(name("pkg"), name("answer"))))
	assert.Empty(t, f.errs.Diagnostics())

	assertType(t, "Int", f.infer(t, ast.NewSafeDot(name("pkg"), name("answer"))))
	assert.Len(t, f.errs.OfKind(diag.KindNullSafety), 1)
	assert.Equal(t, []string{i18n.T(i18n.ErrSafeCallOnNamespace)}, f.messages())
}

// ============================================================================
// 简单表达式
// ============================================================================

func TestSimpleExpressions(t *testing.T) {
	tests := []struct {
		name     string
		expr     ast.Expression
		expected string
	}{
		{"parenthesized", ast.NewParen(lit("1")), "Int"},
		{"labeled", ast.NewLabeled("l", lit(`"s"`)), "String"},
		{"tuple", ast.NewTuple(lit("1"), lit(`"s"`)), "(Int, String)"},
		{"empty tuple", ast.NewTuple(), "Unit"},
		{"is", ast.NewIs(name("s"), userType("Int")), "Boolean"},
		{"throw", ast.NewThrow(lit("1")), "Nothing"},
		{"return", ast.NewReturn(nil), "Nothing"},
		{"break", ast.NewBreak(), "Nothing"},
		{"continue", ast.NewContinue(), "Nothing"},
		{"static cast", ast.NewCast(lit("1"), token.COLON, userType("Any")), "Any"},
		{"unchecked cast", ast.NewCast(name("s"), token.AS_KEYWORD, userType("Int")), "Int"},
		{"empty block", ast.NewBlock(), "Unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			assertType(t, tt.expected, f.infer(t, tt.expr))
			assert.Empty(t, f.errs.Diagnostics())
		})
	}
}

func TestStaticCastMismatch(t *testing.T) {
	f := newFixture()
	assertType(t, "Int", f.infer(t, ast.NewCast(lit(`"s"`), token.COLON, userType("Int"))))
	assert.Equal(t, []diag.Kind{diag.KindTypeMismatch}, f.kinds())
}

func TestNotImplemented(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expression
	}{
		{"typeof", ast.NewTypeof(name("s"))},
		{"hash qualified", ast.NewHashQualified(name("s"), name("length"))},
		{"named argument", &ast.Call{
			Callee: name("foo"),
			Args:   &ast.ArgumentList{Args: []*ast.Argument{ast.NewNamedArg("a", lit("1"))}},
		}},
		{"untyped literal parameter", ast.NewFunctionLiteral(nil, []*ast.Parameter{ast.NewParam("a", nil)}, nil, name("a"))},
		{"generic constructor without arguments", ast.NewNew(userType("Array"), lit("1"))},
		{"predicate callee", ast.NewCall(ast.NewQualified(name("s"), token.QUEST, name("isEmpty")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			got, err := f.engine.Infer(f.bc, f.scope, tt.expr, false)
			require.Error(t, err)
			assert.True(t, diag.IsNotImplemented(err))
			assert.Nil(t, got)
			assert.Empty(t, f.errs.OfKind(diag.KindUnsupported))
		})
	}
}

func TestSafeInfer(t *testing.T) {
	f := newFixture()
	got, err := f.engine.SafeInfer(f.bc, f.scope, name("nope"), false)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsError())

	got, err = f.engine.SafeInfer(f.bc, f.scope, lit("1"), false)
	require.NoError(t, err)
	assertType(t, "Int", got)
}

// ============================================================================
// 函数字面量
// ============================================================================

func TestFunctionLiteral(t *testing.T) {
	f := newFixture()
	fl := ast.NewFunctionLiteral(nil, []*ast.Parameter{ast.NewParam("a", userType("Int"))}, nil, name("a"))
	assertType(t, "{(Int) : Int}", f.infer(t, fl))

	declared := ast.NewFunctionLiteral(userType("String"), nil, userType("Any"), lit("1"))
	assertType(t, "{String.() : Any}", f.infer(t, declared))
	assert.Empty(t, f.errs.Diagnostics())
}

func TestBlockLiteral(t *testing.T) {
	f := newFixture()
	block := ast.NewBlockLiteral(ast.NewVar("y", nil, lit("1")), name("y"))
	got, err := f.engine.Infer(f.bc, f.scope, block, true)
	require.NoError(t, err)
	assertType(t, "Int", got)
	assert.True(t, f.bc.IsBlock(block))

	fn := ast.NewBlockLiteral(lit("1"))
	assertType(t, "{() : Int}", f.infer(t, fn))
	assert.False(t, f.bc.IsBlock(fn))
	assert.Empty(t, f.errs.Diagnostics())
}

// ============================================================================
// this
// ============================================================================

// hierarchy class Derived : Base<Int>，返回以 Derived 为 this 的作用域
func hierarchy(f *fixture) *scope.Writable {
	lib := f.lib
	base := types.NewClass(nil, "Base", false)
	base.SetTypeParameters(types.NewTypeParameter(base, "T", types.Invariant, nil))
	base.AddSupertype(lib.AnyType())

	derived := types.NewClass(nil, "Derived", false)
	derived.AddSupertype(types.NewType(base.TypeConstructor(), false, types.InvariantOf(lib.IntType())))

	f.scope.AddClassifier(base)
	f.scope.AddClassifier(derived)

	inner := scope.NewWritable(f.scope, derived)
	inner.SetThisType(derived.DefaultType())
	inner.AddLabel("Derived", derived)
	return inner
}

func TestThis(t *testing.T) {
	f := newFixture()
	inner := hierarchy(f)

	tests := []struct {
		name     string
		expr     *ast.This
		expected string
	}{
		{"plain", ast.NewThis(), "Derived"},
		{"labeled", ast.NewLabeledThis("Derived"), "Derived"},
		{"super", ast.NewSuperThis(userType("Base")), "Base<Int>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.engine.Infer(f.bc, inner, tt.expr, false)
			require.NoError(t, err)
			assertType(t, tt.expected, got)
			assert.Empty(t, f.errs.Diagnostics())
		})
	}
}

func TestThisErrors(t *testing.T) {
	t.Run("outside of a class", func(t *testing.T) {
		f := newFixture()
		assert.Nil(t, f.infer(t, ast.NewThis()))
		assert.Equal(t, []string{i18n.T(i18n.ErrThisNotDefined)}, f.messages())
	})

	t.Run("unknown label", func(t *testing.T) {
		f := newFixture()
		got, err := f.engine.Infer(f.bc, hierarchy(f), ast.NewLabeledThis("Nope"), false)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Equal(t, []diag.Kind{diag.KindUnresolvedReference}, f.kinds())
	})

	t.Run("not a superclass", func(t *testing.T) {
		f := newFixture()
		got, err := f.engine.Infer(f.bc, hierarchy(f), ast.NewSuperThis(userType("String")), false)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Equal(t, []string{i18n.T(i18n.ErrNotASuperclass)}, f.messages())
	})
}

// ============================================================================
// 记录
// ============================================================================

func TestEveryExpressionRecordedOnce(t *testing.T) {
	f := newFixture()
	one := lit("1")
	length := ast.NewDot(name("s"), name("length"))
	sum := ast.NewBinary(name("y"), token.PLUS, one)
	elvis := ast.NewBinary(name("n"), token.ELVIS, lit("2"))
	call := ast.NewMethodCall(name("s"), "plus", ast.NewParen(lit("'c'")))
	block := ast.NewBlock(
		ast.NewProperty("y", nil, length),
		call,
		ast.NewIf(name("c"), sum, elvis),
	)

	got, err := f.engine.Infer(f.bc, f.scope, block, true)
	require.NoError(t, err)
	assertType(t, "Int", got)
	assert.Empty(t, f.errs.Diagnostics())

	recorded := 0
	ast.Inspect(block, func(n ast.Node) bool {
		expr, ok := n.(ast.Expression)
		if !ok || f.bc.ExpressionType(expr) == nil {
			return true
		}
		recorded++
		assert.Equal(t, 1, f.bc.RecordCount(expr), "expression %s", expr)
		return true
	})
	assert.Greater(t, recorded, 10)

	for _, expr := range []ast.Expression{length, sum, elvis, call, one} {
		assert.Equal(t, 1, f.bc.RecordCount(expr), "expression %s", expr)
	}
}

// ============================================================================
// 引擎
// ============================================================================

func TestWarningOptions(t *testing.T) {
	f := newFixture(WithOptions(Options{}))
	assertType(t, "Int", f.infer(t, ast.NewSafeDot(name("s"), name("length"))))
	assertType(t, "Int", f.infer(t, ast.NewBinary(name("i"), token.ELVIS, lit("1"))))
	assert.Empty(t, f.errs.Diagnostics())
}

func TestConcurrentInference(t *testing.T) {
	engine := New(nil)
	root := scope.NewRoot()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs := diag.NewCollector()
			expr := ast.NewBinary(lit("1"), token.EQEQ, lit(`"s"`))
			got, err := engine.WithHandler(errs).Infer(trace.NewBindingContext(), root, expr, false)
			assert.NoError(t, err)
			if assert.NotNil(t, got) {
				assert.Equal(t, "Boolean", got.String())
			}
			assert.Len(t, errs.OfKind(diag.KindEmptyIntersection), 1)
		}()
	}
	wg.Wait()
}

func TestPassLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	errs := diag.NewCollector()
	engine := New(errs, WithLogger(zap.New(core)))

	got, err := engine.Infer(trace.NewBindingContext(), scope.NewRoot(), lit("1"), false)
	require.NoError(t, err)
	assertType(t, "Int", got)

	assert.Equal(t, 1, logs.FilterMessage("pass start").Len())
	assert.Equal(t, 1, logs.FilterMessage("pass finish").Len())
	inferred := logs.FilterMessage("inferred").All()
	require.Len(t, inferred, 1)
	assert.Equal(t, "Int", inferred[0].ContextMap()["type"])
	assert.EqualValues(t, 1, inferred[0].ContextMap()["pass"])

	_, err = engine.Infer(trace.NewBindingContext(), scope.NewRoot(), ast.NewTypeof(lit("1")), false)
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("not implemented").Len())
}

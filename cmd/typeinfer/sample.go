package main

import (
	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/diag"
	"github.com/tangzhangming/typeinfer/internal/infer"
	"github.com/tangzhangming/typeinfer/internal/scope"
	"github.com/tangzhangming/typeinfer/internal/token"
	"github.com/tangzhangming/typeinfer/internal/trace"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// sampleFile 示例诊断所属的虚拟文件名
const sampleFile = "sample.kt"

// sample 一个示例表达式
type sample struct {
	expr  ast.Expression
	block bool
}

// sampleResult 一个示例的推断结果
type sampleResult struct {
	expr        ast.Expression
	typ         *types.Type
	diagnostics []*diag.Diagnostic
}

// sampleScope 示例使用的局部变量
//
//	s: String  ns: String?  i: Int  n: Int?  arr: Array<String>  var x: Int
func sampleScope() *scope.Writable {
	lib := types.Standard()
	w := scope.NewWritable(scope.NewRoot(), nil)
	w.AddProperty(types.NewValue(nil, "s", lib.StringType()))
	w.AddProperty(types.NewValue(nil, "ns", types.MakeNullable(lib.StringType())))
	w.AddProperty(types.NewValue(nil, "i", lib.IntType()))
	w.AddProperty(types.NewValue(nil, "n", types.MakeNullable(lib.IntType())))
	w.AddProperty(types.NewValue(nil, "arr", lib.ArrayOf(lib.StringType())))
	w.AddProperty(types.NewVariable(nil, "x", lib.IntType()))
	return w
}

func samples() []sample {
	lit := ast.NewLiteral
	name := ast.NewName
	return []sample{
		{expr: ast.NewBinary(lit("1"), token.PLUS, lit("2L"))},
		{expr: ast.NewBinary(name("s"), token.PLUS, name("i"))},
		{expr: ast.NewSafeDot(name("ns"), name("length"))},
		{expr: ast.NewBinary(name("ns"), token.ELVIS, lit(`""`))},
		{expr: ast.NewIndex(name("arr"), lit("0"))},
		{expr: ast.NewBinary(lit("1"), token.RANGE, name("i"))},
		{expr: ast.NewIf(ast.NewBinary(name("i"), token.GT, lit("0")), lit(`"positive"`), lit("null"))},
		{expr: ast.NewNew(ast.NewUserType("Array", ast.NewUserType("Int")), lit("3"))},
		{expr: ast.NewBlock(
			ast.NewProperty("t", nil, ast.NewTuple(lit("1"), lit(`"a"`))),
			ast.NewFor(ast.NewParam("e", nil), name("arr"), ast.NewAssign(name("x"), ast.NewDot(name("e"), name("length")))),
			name("t"),
		), block: true},
		{expr: ast.NewFunctionLiteral(nil, []*ast.Parameter{ast.NewParam("a", ast.NewUserType("Int"))}, nil, ast.NewBinary(name("a"), token.MUL, lit("2")))},
		{expr: ast.NewDot(name("ns"), name("length"))},
		{expr: ast.NewSafeDot(name("s"), name("length"))},
		{expr: ast.NewBinary(lit("1"), token.EQEQ, lit(`"one"`))},
		{expr: ast.NewMethodCall(name("s"), "frobnicate")},
	}
}

// runSamples 逐个推断示例，每个示例使用独立的诊断收集器
func runSamples(engine *infer.Engine, warningsAsErrors bool) ([]sampleResult, error) {
	sc := sampleScope()
	bc := trace.NewBindingContext()

	var results []sampleResult
	for _, s := range samples() {
		errs := diag.NewCollector()
		errs.SetWarningsAsErrors(warningsAsErrors)
		t, err := engine.WithHandler(errs).Infer(bc, sc, s.expr, s.block)
		if err != nil {
			return nil, err
		}
		results = append(results, sampleResult{expr: s.expr, typ: t, diagnostics: errs.Diagnostics()})
	}
	return results, nil
}

package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/diag"
	"github.com/tangzhangming/typeinfer/internal/i18n"
	"github.com/tangzhangming/typeinfer/internal/token"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// ============================================================================
// if / when / try
// ============================================================================

func TestIf(t *testing.T) {
	tests := []struct {
		name     string
		expr     *ast.If
		expected string
	}{
		{"both branches", ast.NewIf(name("c"), lit("1"), lit("2")), "Int"},
		{"then only", ast.NewIf(name("c"), lit("1"), nil), "Unit"},
		{"no branches", ast.NewIf(name("c"), nil, nil), "Unit"},
		{"nullable branch", ast.NewIf(name("c"), lit("1"), lit("null")), "Int?"},
		{"jumping branch", ast.NewIf(name("c"), ast.NewThrow(lit("1")), name("s")), "String"},
		{"else only", ast.NewIf(name("c"), nil, lit("'c'")), "Char"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			assertType(t, tt.expected, f.infer(t, tt.expr))
			assert.Empty(t, f.errs.Diagnostics())
		})
	}
}

func TestConditionMustBeBoolean(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expression
	}{
		{"if", ast.NewIf(lit("1"), lit("1"), lit("2"))},
		{"nullable if", ast.NewIf(name("ns"), nil, nil)},
		{"while", ast.NewWhile(name("s"), ast.NewBlock())},
		{"do while", ast.NewDoWhile(ast.NewBlock(), lit("1"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			require.NotNil(t, f.infer(t, tt.expr))
			require.Len(t, f.errs.Errors(), 1)
			assert.Equal(t, diag.KindGeneric, f.errs.Errors()[0].Kind)
		})
	}
}

func TestWhen(t *testing.T) {
	tests := []struct {
		name     string
		expr     *ast.When
		expected string
	}{
		{"no entries", ast.NewWhen(nil), "Nothing"},
		{"subject only", ast.NewWhen(name("i")), "Nothing"},
		{"entries", ast.NewWhen(name("i"),
			ast.NewWhenEntry(lit("1"), lit("1")),
			ast.NewWhenElse(lit("2")),
		), "Int"},
		{"nullable entry", ast.NewWhen(nil,
			ast.NewWhenEntry(name("s"), name("c")),
			ast.NewWhenElse(lit("null")),
		), "String?"},
		{"nested", ast.NewWhen(name("i"),
			ast.NewWhenEntry(lit("1"), lit("0")),
			ast.NewWhenSub(ast.NewWhen(nil, ast.NewWhenEntry(lit("null"), name("c"))), lit("1")),
		), "Int?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			assertType(t, tt.expected, f.infer(t, tt.expr))
			assert.Empty(t, f.errs.Diagnostics())
		})
	}
}

func TestTry(t *testing.T) {
	anyCatch := func(body ...ast.Expression) *ast.CatchClause {
		return ast.NewCatch(ast.NewParam("e", userType("Any")), ast.NewBlock(body...))
	}

	tests := []struct {
		name     string
		expr     *ast.Try
		expected string
	}{
		{"body only", ast.NewTry(ast.NewBlock(lit("1")), nil), "Int"},
		{"catch joins", ast.NewTry(ast.NewBlock(lit("1")), nil, anyCatch(lit("null"))), "Int?"},
		{"catch parameter", ast.NewTry(ast.NewBlock(name("s")), nil, anyCatch(ast.NewCast(name("e"), token.AS_KEYWORD, userType("String")))), "String"},
		{"finally excludes catches", ast.NewTry(ast.NewBlock(lit("1")), ast.NewBlock(lit("null")), anyCatch(lit(`"s"`))), "Int?"},
		{"finally joins body", ast.NewTry(ast.NewBlock(lit("1")), ast.NewBlock(lit("2"))), "Int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			assertType(t, tt.expected, f.infer(t, tt.expr))
			assert.Empty(t, f.errs.Diagnostics())
		})
	}
}

func TestCatchParameterIsScoped(t *testing.T) {
	f := newFixture()
	expr := ast.NewTry(
		ast.NewBlock(name("e")),
		nil,
		ast.NewCatch(ast.NewParam("e", userType("Any")), ast.NewBlock(name("e"))),
	)
	f.infer(t, expr)
	assert.Equal(t, []diag.Kind{diag.KindUnresolvedReference}, f.kinds())
}

// ============================================================================
// 循环
// ============================================================================

func TestForLoop(t *testing.T) {
	tests := []struct {
		name    string
		rng     ast.Expression
		element string
	}{
		{"array", name("arr"), "String"},
		{"range", name("r"), "Int"},
		{"range literal", ast.NewBinary(lit("1"), token.RANGE, lit("10")), "Int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			param := ast.NewParam("e", nil)
			body := name("e")
			assertType(t, "Unit", f.infer(t, ast.NewFor(param, tt.rng, body)))
			assert.Empty(t, f.errs.Diagnostics())

			pd, ok := f.bc.Declaration(param).(*types.PropertyDescriptor)
			require.True(t, ok)
			assertType(t, tt.element, pd.OutType)
			assertType(t, tt.element, f.bc.ExpressionType(body))
		})
	}
}

func TestForLoopErrors(t *testing.T) {
	t.Run("not iterable", func(t *testing.T) {
		f := newFixture()
		f.infer(t, ast.NewFor(ast.NewParam("e", nil), lit("1"), ast.NewDot(name("e"), name("length"))))
		require.Len(t, f.errs.Diagnostics(), 1)
		assert.Equal(t, i18n.T(i18n.ErrExpectingIterable, f.lib.IntType()), f.messages()[0])
	})

	t.Run("declared parameter type", func(t *testing.T) {
		f := newFixture()
		param := ast.NewParam("e", userType("String"))
		f.infer(t, ast.NewFor(param, name("r"), ast.NewDot(name("e"), name("length"))))
		require.Len(t, f.errs.Diagnostics(), 1)
		assert.Equal(t, i18n.T(i18n.ErrLoopParameterType, f.lib.IntType(), f.lib.StringType()), f.messages()[0])

		pd := f.bc.Declaration(param).(*types.PropertyDescriptor)
		assertType(t, "String", pd.OutType)
	})

	t.Run("wider parameter type", func(t *testing.T) {
		f := newFixture()
		f.infer(t, ast.NewFor(ast.NewParam("e", ast.NewNullableType(userType("Any"))), name("arr"), ast.NewBlock()))
		assert.Empty(t, f.errs.Diagnostics())
	})
}

func TestDoWhileBodyVisibleInCondition(t *testing.T) {
	tests := []struct {
		name string
		body ast.Expression
	}{
		{"block", ast.NewBlock(ast.NewProperty("done", nil, name("c")))},
		{"block literal", ast.NewBlockLiteral(ast.NewProperty("done", nil, name("c")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			assertType(t, "Unit", f.infer(t, ast.NewDoWhile(tt.body, name("done"))))
			assert.Empty(t, f.errs.Diagnostics())
		})
	}

	t.Run("while does not leak", func(t *testing.T) {
		f := newFixture()
		f.infer(t, ast.NewWhile(name("done"), ast.NewBlock(ast.NewProperty("done", nil, name("c")))))
		assert.Equal(t, []diag.Kind{diag.KindUnresolvedReference}, f.kinds())
	})
}

// ============================================================================
// 代码块
// ============================================================================

func TestBlockResultIsLastStatement(t *testing.T) {
	f := newFixture()
	assertType(t, "String", f.inferBlock(t, lit("1"), name("s")))
	assert.Nil(t, f.inferBlock(t, lit("1"), ast.NewProperty("y", nil, lit("2"))))
	assert.Empty(t, f.errs.Diagnostics())
}

func TestLocalProperty(t *testing.T) {
	t.Run("inferred type", func(t *testing.T) {
		f := newFixture()
		assertType(t, "Int", f.inferBlock(t,
			ast.NewProperty("y", nil, ast.NewDot(name("s"), name("length"))),
			ast.NewBinary(name("y"), token.PLUS, lit("1")),
		))
		assert.Empty(t, f.errs.Diagnostics())
	})

	t.Run("declared type", func(t *testing.T) {
		f := newFixture()
		prop := ast.NewProperty("y", ast.NewNullableType(userType("Any")), lit("1"))
		assertType(t, "Any?", f.inferBlock(t, prop, name("y")))
		assert.Empty(t, f.errs.Diagnostics())
		assert.Equal(t, "y", f.bc.Declaration(prop).Name())
	})

	t.Run("initializer mismatch", func(t *testing.T) {
		f := newFixture()
		f.inferBlock(t, ast.NewProperty("y", userType("String"), lit("1")))
		assert.Equal(t, []diag.Kind{diag.KindTypeMismatch}, f.kinds())
	})

	t.Run("no type", func(t *testing.T) {
		f := newFixture()
		f.inferBlock(t, ast.NewProperty("y", nil, nil))
		assert.Equal(t, []string{i18n.T(i18n.ErrPropertyNeedsType)}, f.messages())
	})

	t.Run("accessors", func(t *testing.T) {
		f := newFixture()
		prop := ast.NewVar("y", userType("Int"), lit("1"))
		prop.Getter = &ast.Accessor{}
		prop.Setter = &ast.Accessor{Setter: true}
		f.inferBlock(t, prop)
		assert.Equal(t, []string{i18n.T(i18n.ErrLocalGetter), i18n.T(i18n.ErrLocalSetter)}, f.messages())
	})

	t.Run("not visible outside the block", func(t *testing.T) {
		f := newFixture()
		f.inferBlock(t, ast.NewBlock(ast.NewProperty("y", nil, lit("1"))), name("y"))
		assert.Equal(t, []diag.Kind{diag.KindUnresolvedReference}, f.kinds())
	})
}

func TestDeclarationsOutsideBlocks(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expression
	}{
		{"property", ast.NewProperty("y", nil, lit("1"))},
		{"function", ast.NewExprFunction("f", nil, nil, lit("1"))},
		{"class", &ast.Class{Name: "K"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			assert.Nil(t, f.infer(t, tt.expr))
			assert.Equal(t, []string{i18n.T(i18n.ErrDeclarationNotAllowed)}, f.messages())
		})
	}
}

func TestUnsupportedDeclarationsInBlock(t *testing.T) {
	for _, decl := range []ast.Expression{
		&ast.Class{Name: "K"},
		&ast.Typedef{Name: "T", Type: userType("Int")},
	} {
		f := newFixture()
		f.inferBlock(t, decl)
		assert.Equal(t, []string{i18n.T(i18n.ErrUnsupportedInBlock)}, f.messages())
	}
}

// ============================================================================
// 赋值
// ============================================================================

func TestAssignment(t *testing.T) {
	t.Run("statement", func(t *testing.T) {
		f := newFixture()
		assert.Nil(t, f.inferBlock(t, ast.NewAssign(name("x"), lit("1"))))
		assert.Empty(t, f.errs.Diagnostics())
	})

	t.Run("mismatch", func(t *testing.T) {
		f := newFixture()
		f.inferBlock(t, ast.NewAssign(name("x"), lit(`"s"`)))
		assert.Equal(t, []diag.Kind{diag.KindTypeMismatch}, f.kinds())
	})

	t.Run("expression", func(t *testing.T) {
		f := newFixture()
		assert.Nil(t, f.infer(t, ast.NewAssign(name("x"), lit("1"))))
		assert.Equal(t, []string{i18n.T(i18n.ErrAssignmentNotExpression)}, f.messages())
	})

	t.Run("branches of a statement", func(t *testing.T) {
		f := newFixture()
		f.inferBlock(t, ast.NewIf(name("c"), ast.NewAssign(name("x"), lit("1")), ast.NewAssign(name("x"), lit("2"))))
		assert.Empty(t, f.errs.Diagnostics())
	})

	t.Run("branches of an expression", func(t *testing.T) {
		f := newFixture()
		f.infer(t, ast.NewIf(name("c"), ast.NewAssign(name("x"), lit("1")), nil))
		assert.Equal(t, []string{i18n.T(i18n.ErrAssignmentNotExpression)}, f.messages())
	})
}

func TestIndexedAssignment(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		f := newFixture()
		access := ast.NewIndex(name("arr"), lit("0"))
		assign := ast.NewAssign(access, lit(`"s"`))
		f.inferBlock(t, assign)
		assert.Empty(t, f.errs.Diagnostics())

		for _, ref := range []ast.Node{assign.Op, access} {
			fd, ok := f.bc.Reference(ref).(*types.FunctionDescriptor)
			require.True(t, ok)
			assert.Equal(t, "set", fd.Name())
		}
	})

	t.Run("nullable array", func(t *testing.T) {
		f := newFixture()
		f.inferBlock(t, ast.NewAssign(ast.NewIndex(name("narr"), lit("0")), lit(`"s"`)))
		assert.Equal(t, []diag.Kind{diag.KindNullSafety}, f.kinds())
	})

	t.Run("wrong element", func(t *testing.T) {
		f := newFixture()
		f.inferBlock(t, ast.NewAssign(ast.NewIndex(name("arr"), lit("0")), lit("1")))
		assert.Len(t, f.errs.Errors(), 1)
	})
}

func TestCompoundAssignment(t *testing.T) {
	tests := []struct {
		name   string
		target string
		op     token.TokenType
		value  ast.Expression
	}{
		{"int plus", "x", token.PLUSEQ, lit("1")},
		{"int times", "x", token.MULTEQ, lit("2")},
		{"int mod", "x", token.PERCEQ, lit("2")},
		{"string plus", "v", token.PLUSEQ, lit("1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			e := ast.NewBinary(name(tt.target), tt.op, tt.value)
			assert.Nil(t, f.inferBlock(t, e))
			assert.Empty(t, f.errs.Diagnostics())
		})
	}
}

func TestCompoundAssignmentPrefersAssignOperator(t *testing.T) {
	f := newFixture()
	acc := types.NewClass(nil, "Acc", true)
	acc.AddSupertype(f.lib.AnyType())
	acc.Members.AddFunction(types.NewFunction(acc, "plusAssign", nil,
		[]*types.ValueParameter{types.Param("p", f.lib.IntType())}, f.lib.UnitType()))
	f.scope.AddProperty(types.NewValue(nil, "acc", acc.DefaultType()))

	e := ast.NewBinary(name("acc"), token.PLUSEQ, lit("1"))
	assert.Nil(t, f.inferBlock(t, e))
	assert.Empty(t, f.errs.Diagnostics())

	fd, ok := f.bc.Reference(e.Op).(*types.FunctionDescriptor)
	require.True(t, ok)
	assert.Equal(t, "plusAssign", fd.Name())
}

func TestCompoundAssignmentErrors(t *testing.T) {
	t.Run("reported once", func(t *testing.T) {
		f := newFixture()
		f.inferBlock(t, ast.NewBinary(name("b"), token.PLUSEQ, lit("1")))
		assert.Equal(t, []diag.Kind{diag.KindUnresolvedReference}, f.kinds())
	})

	t.Run("result not assignable", func(t *testing.T) {
		f := newFixture()
		f.inferBlock(t, ast.NewBinary(name("x"), token.PLUSEQ, lit("1L")))
		assert.Equal(t, []diag.Kind{diag.KindTypeMismatch}, f.kinds())
	})

	t.Run("expression", func(t *testing.T) {
		f := newFixture()
		assert.Nil(t, f.infer(t, ast.NewBinary(name("x"), token.PLUSEQ, lit("1"))))
		assert.Equal(t, []string{i18n.T(i18n.ErrAssignmentNotExpression)}, f.messages())
	})
}

package diag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.uber.org/multierr"

	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/token"
	"github.com/tangzhangming/typeinfer/internal/types"
)

func at(line, col, width int) token.Span {
	return token.SpanOf(token.Position{Filename: "main.kt", Line: line, Column: col}, width)
}

func TestCollectorKinds(t *testing.T) {
	lib := types.Standard()
	c := NewCollector()

	name := ast.NewName("foo")
	name.Loc = at(3, 5, 3)

	c.UnresolvedReference(name)
	c.TypeMismatch(name, lib.IntType(), lib.StringType())
	c.GenericError(name, E0400, "unsafe")
	c.GenericWarning(name, W0400, "needless")
	c.GenericError(name, "", "plain")

	require.Len(t, c.Diagnostics(), 5)
	assert.Len(t, c.Errors(), 4)
	assert.Len(t, c.Warnings(), 1)
	assert.Len(t, c.OfKind(KindNullSafety), 2)
	assert.Len(t, c.OfKind(KindGeneric), 1)

	first := c.Diagnostics()[0]
	assert.Equal(t, E0100, first.Code)
	assert.Equal(t, "Unresolved reference: foo", first.Message)
	assert.Equal(t, "main.kt:3:5: error: Unresolved reference: foo", first.Error())

	assert.Equal(t, "Type mismatch: inferred type is String but Int was expected", c.Diagnostics()[1].Message)
}

func TestCollectorErr(t *testing.T) {
	c := NewCollector()
	assert.NoError(t, c.Err())

	c.GenericWarning(nil, "", "w")
	assert.NoError(t, c.Err())

	c.SetWarningsAsErrors(true)
	require.Error(t, c.Err())

	c.GenericError(nil, "", "e")
	assert.Len(t, multierr.Errors(c.Err()), 2)

	c.Reset()
	assert.Empty(t, c.Diagnostics())
	assert.False(t, c.HasErrors())
}

func TestNotImplemented(t *testing.T) {
	node := ast.NewTypeof(ast.NewName("x"))
	node.Loc = at(1, 1, 9)

	err := NotImplemented(node, "typeof")
	assert.Equal(t, "main.kt:1:1: Not implemented: typeof", err.Error())

	wrapped := fmt.Errorf("infer: %w", err)
	assert.True(t, IsNotImplemented(wrapped))
	assert.False(t, IsNotImplemented(errors.New("other")))

	info, ok := LookupCode(err.Code())
	require.True(t, ok)
	assert.Equal(t, KindUnsupported, info.Kind)
	assert.Equal(t, info.Kind, err.Kind())
}

func TestToProtocol(t *testing.T) {
	name := ast.NewName("foo")
	name.Loc = at(3, 5, 3)

	d := New(name, W0400, "needless")
	p := ToProtocol(d)

	assert.Equal(t, protocol.DiagnosticSeverityWarning, p.Severity)
	assert.Equal(t, uint32(2), p.Range.Start.Line)
	assert.Equal(t, uint32(4), p.Range.Start.Character)
	assert.Equal(t, uint32(7), p.Range.End.Character)
	assert.Equal(t, Source, p.Source)

	params := PublishParams("/tmp/main.kt", 2, []*Diagnostic{d})
	assert.Equal(t, protocol.DocumentURI("file:///tmp/main.kt"), params.URI)
	assert.Len(t, params.Diagnostics, 1)
}

func TestCodes(t *testing.T) {
	all := Codes()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Code, all[i].Code)
	}

	info, ok := LookupCode(W0400)
	require.True(t, ok)
	assert.Equal(t, LevelWarning, info.Level)
	assert.Equal(t, KindNullSafety, info.Kind)

	_, ok = LookupCode("E9999")
	assert.False(t, ok)
}

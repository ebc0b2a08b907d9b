package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, PLUSEQ, Lookup("+="))
	assert.Equal(t, EQEQEQ, Lookup("==="))
	assert.Equal(t, IN_KEYWORD, Lookup("in"))
	assert.Equal(t, IDENT, Lookup("shl"))
}

func TestClassification(t *testing.T) {
	assert.True(t, IsAssignment(EQ))
	assert.True(t, IsAssignment(PLUSEQ))
	assert.False(t, IsAssignment(PLUS))
	assert.False(t, IsAssignment(EQEQ))

	assert.True(t, IsKeyword(IN_KEYWORD))
	assert.False(t, IsKeyword(PLUS))
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, "+=", PLUSEQ.String())
	assert.Equal(t, "TokenType(-1)", TokenType(-1).String())
}

func TestPosition(t *testing.T) {
	assert.False(t, Position{}.IsValid())

	p := Position{Filename: "main.kt", Line: 3, Column: 5}
	assert.True(t, p.IsValid())
	assert.Equal(t, "main.kt:3:5", p.String())
	assert.Equal(t, "3:5", Position{Line: 3, Column: 5}.String())

	s := SpanOf(p, 4)
	assert.Equal(t, 4, s.Length())
	assert.Equal(t, "main.kt:3:5-9", s.String())

	multi := NewSpan(p, Position{Filename: "main.kt", Line: 4, Column: 2})
	assert.Equal(t, 1, multi.Length())
	assert.Equal(t, "main.kt:3:5-4:2", multi.String())
}

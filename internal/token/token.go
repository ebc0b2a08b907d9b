package token

import "fmt"

// ============================================================================
// Token 类型定义
// ============================================================================
//
// 表达式树只保留推断引擎需要区分的运算符与关键字，按类别分组：
// 1. 特殊标记（ILLEGAL, IDENT）
// 2. 算术与自增运算符
// 3. 赋值运算符
// 4. 比较与相等运算符
// 5. 逻辑运算符与空安全运算符
// 6. 访问与类型运算符
// 7. 关键字运算符（in, !in, as, is）
//
// ============================================================================

// TokenType 表示 Token 的类型
type TokenType int

const (
	// ----------------------------------------------------------
	// 特殊标记
	// ----------------------------------------------------------
	ILLEGAL TokenType = iota // 非法标记
	IDENT                    // 标识符（中缀调用 a foo b）

	// ----------------------------------------------------------
	// 算术运算符
	// ----------------------------------------------------------
	PLUS       // +
	MINUS      // -
	MUL        // *
	DIV        // /
	PERC       // %
	PLUSPLUS   // ++
	MINUSMINUS // --
	EXCL       // !
	RANGE      // ..
	ARROW      // ->

	// ----------------------------------------------------------
	// 赋值运算符
	// ----------------------------------------------------------
	EQ      // =
	PLUSEQ  // +=
	MINUSEQ // -=
	MULTEQ  // *=
	DIVEQ   // /=
	PERCEQ  // %=

	// ----------------------------------------------------------
	// 比较运算符
	// ----------------------------------------------------------
	LT         // <
	GT         // >
	LTEQ       // <=
	GTEQ       // >=
	EQEQ       // ==
	EXCLEQ     // !=
	EQEQEQ     // ===
	EXCLEQEQEQ // !==

	// ----------------------------------------------------------
	// 逻辑运算符
	// ----------------------------------------------------------
	ANDAND // &&
	OROR   // ||
	ELVIS  // ?:

	// ----------------------------------------------------------
	// 访问运算符
	// ----------------------------------------------------------
	DOT         // .
	SAFE_ACCESS // ?.
	QUEST       // ?
	HASH        // #
	COLON       // :

	// ----------------------------------------------------------
	// 关键字运算符
	// ----------------------------------------------------------
	keyword_beg // 关键字起始标记（不是实际 token）
	IN_KEYWORD  // in
	NOT_IN      // !in
	AS_KEYWORD  // as
	IS_KEYWORD  // is
	NOT_IS      // !is
	keyword_end // 关键字结束标记（不是实际 token）
)

// tokenNames Token 类型名称映射
var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL",
	IDENT:   "IDENT",

	PLUS:       "+",
	MINUS:      "-",
	MUL:        "*",
	DIV:        "/",
	PERC:       "%",
	PLUSPLUS:   "++",
	MINUSMINUS: "--",
	EXCL:       "!",
	RANGE:      "..",
	ARROW:      "->",

	EQ:      "=",
	PLUSEQ:  "+=",
	MINUSEQ: "-=",
	MULTEQ:  "*=",
	DIVEQ:   "/=",
	PERCEQ:  "%=",

	LT:         "<",
	GT:         ">",
	LTEQ:       "<=",
	GTEQ:       ">=",
	EQEQ:       "==",
	EXCLEQ:     "!=",
	EQEQEQ:     "===",
	EXCLEQEQEQ: "!==",

	ANDAND: "&&",
	OROR:   "||",
	ELVIS:  "?:",

	DOT:         ".",
	SAFE_ACCESS: "?.",
	QUEST:       "?",
	HASH:        "#",
	COLON:       ":",

	IN_KEYWORD: "in",
	NOT_IN:     "!in",
	AS_KEYWORD: "as",
	IS_KEYWORD: "is",
	NOT_IS:     "!is",
}

// symbols 运算符文本到类型的反向映射
var symbols map[string]TokenType

func init() {
	symbols = make(map[string]TokenType, len(tokenNames))
	for t, name := range tokenNames {
		if t == ILLEGAL || t == IDENT {
			continue
		}
		symbols[name] = t
	}
}

// Lookup 按运算符文本查找 Token 类型
//
// 不是已知运算符的文本按标识符处理（中缀调用 a foo b）。
func Lookup(text string) TokenType {
	if t, ok := symbols[text]; ok {
		return t
	}
	return IDENT
}

// IsKeyword 检查是否为关键字运算符
func IsKeyword(t TokenType) bool {
	return t > keyword_beg && t < keyword_end
}

// IsAssignment 检查是否为赋值或复合赋值运算符
func IsAssignment(t TokenType) bool {
	return t >= EQ && t <= PERCEQ
}

// String 返回 TokenType 的字符串表示
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// ============================================================================
// Position - 源代码位置
// ============================================================================

// Position 表示源代码中的位置
type Position struct {
	Filename string // 文件名
	Line     int    // 行号 (从1开始)
	Column   int    // 列号 (从1开始)
	Offset   int    // 字节偏移量 (从0开始)
}

// String 返回位置的字符串表示，格式为 "filename:line:column"
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid 检查位置是否有效
func (p Position) IsValid() bool {
	return p.Line > 0
}

// ============================================================================
// Span - 源代码范围
// ============================================================================

// Span 表示源代码中的一个范围（开始到结束）
type Span struct {
	Start Position // 开始位置
	End   Position // 结束位置
}

// NewSpan 创建新的 Span
func NewSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

// SpanOf 创建覆盖 width 个字符的单行 Span
func SpanOf(start Position, width int) Span {
	end := start
	end.Column += width
	end.Offset += width
	return Span{Start: start, End: end}
}

// Length 返回 Span 的长度（仅在同一行有效）
func (s Span) Length() int {
	if s.Start.Line == s.End.Line {
		return s.End.Column - s.Start.Column
	}
	return 1
}

// String 返回 Span 的字符串表示
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Start.Filename, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", s.Start.Filename, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

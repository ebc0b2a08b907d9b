package diag

import (
	"fmt"

	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/i18n"
	"github.com/tangzhangming/typeinfer/internal/token"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// Diagnostic 一条诊断
type Diagnostic struct {
	Code    string
	Level   Level
	Kind    Kind
	Message string
	Node    ast.Node
	Pos     token.Position
	End     token.Position
}

// Error 实现 error 接口，格式为 file:line:col: message
func (d *Diagnostic) Error() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", d.Pos, d.Level, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Level, d.Message)
}

// IsError 是否为错误级别
func (d *Diagnostic) IsError() bool { return d.Level == LevelError }

// ============================================================================
// 错误接收者
// ============================================================================

// Handler 推断引擎的错误接收者
type Handler interface {
	// UnresolvedReference 引用无法解析
	UnresolvedReference(ref ast.Node)
	// TypeMismatch 表达式类型与期望类型不符
	TypeMismatch(expr ast.Node, expected, actual *types.Type)
	// GenericError 其他错误
	GenericError(node ast.Node, code, msg string)
	// GenericWarning 其他警告
	GenericWarning(node ast.Node, code, msg string)
}

// New 根据错误码构建诊断，级别与种类由错误码决定
func New(node ast.Node, code, msg string) *Diagnostic {
	d := &Diagnostic{
		Code:    code,
		Level:   levelOf(code),
		Kind:    kindOf(code),
		Message: msg,
		Node:    node,
	}
	if node != nil {
		d.Pos = node.Pos()
		d.End = node.End()
	}
	return d
}

// UnresolvedMessage 未解析引用的消息
func UnresolvedMessage(ref ast.Node) string {
	return i18n.T(i18n.ErrUnresolvedReference, ref.String())
}

// MismatchMessage 类型不匹配的消息
func MismatchMessage(expected, actual *types.Type) string {
	return i18n.T(i18n.ErrTypeMismatch, actual, expected)
}

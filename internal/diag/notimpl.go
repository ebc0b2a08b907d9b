package diag

import (
	"errors"
	"fmt"

	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/i18n"
	"github.com/tangzhangming/typeinfer/internal/token"
)

// NotImplementedError 推断遇到了尚未实现的语法
//
// 它不是用户错误，不经过 Handler 上报，而是作为公共入口的 error 返回。
type NotImplementedError struct {
	Construct string
	Node      ast.Node
}

// NotImplemented 创建 NotImplementedError
func NotImplemented(node ast.Node, format string, args ...interface{}) *NotImplementedError {
	return &NotImplementedError{Construct: fmt.Sprintf(format, args...), Node: node}
}

func (e *NotImplementedError) Error() string {
	msg := i18n.T(i18n.ErrNotImplemented, e.Construct)
	if e.Node != nil {
		if pos := e.Node.Pos(); pos.IsValid() {
			return pos.String() + ": " + msg
		}
	}
	return msg
}

// Code 固定为 E0900，只用于对外分类，从不进入 Collector
func (e *NotImplementedError) Code() string { return E0900 }

// Kind 固定为 KindUnsupported
func (e *NotImplementedError) Kind() Kind { return KindUnsupported }

// Pos 出错位置
func (e *NotImplementedError) Pos() token.Position {
	if e.Node == nil {
		return token.Position{}
	}
	return e.Node.Pos()
}

// IsNotImplemented 判断 err 链中是否含有 NotImplementedError
func IsNotImplemented(err error) bool {
	var ni *NotImplementedError
	return errors.As(err, &ni)
}

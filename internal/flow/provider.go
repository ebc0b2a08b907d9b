package flow

import (
	"github.com/tangzhangming/typeinfer/internal/ast"
)

// Provider 控制流信息服务
type Provider interface {
	// ReturnSites 收集函数的返回点
	//
	// returned 是所有带值 return 的操作数，表达式体函数还包括函数体本身；
	// unitPoints 是不带值的 return，以及末尾可达的代码块函数体。
	ReturnSites(fn *ast.Function) (returned []ast.Expression, unitPoints []ast.Node)
}

// CFGProvider 基于控制流图的默认实现
type CFGProvider struct{}

// NewProvider 创建默认控制流信息服务
func NewProvider() *CFGProvider {
	return &CFGProvider{}
}

// ReturnSites 实现 Provider
func (p *CFGProvider) ReturnSites(fn *ast.Function) ([]ast.Expression, []ast.Node) {
	if fn.Body == nil {
		return nil, nil
	}
	cfg := NewBuilder().Build(fn.Body)

	var returned []ast.Expression
	var unitPoints []ast.Node
	if !fn.BlockBody {
		returned = append(returned, fn.Body)
	}
	for _, r := range cfg.Returns {
		if r.Value != nil {
			returned = append(returned, r.Value)
		} else {
			unitPoints = append(unitPoints, r)
		}
	}
	if fn.BlockBody && cfg.EndReachable() {
		unitPoints = append(unitPoints, fn.Body)
	}
	return returned, unitPoints
}

// Package trace 记录推断结果，供后续阶段读取
package trace

import (
	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// Trace 推断结果的接收者
type Trace interface {
	// RecordExpressionType 记录表达式的类型
	RecordExpressionType(expr ast.Expression, t *types.Type)
	// RecordReferenceResolution 记录名称、运算符或调用解析到的声明
	RecordReferenceResolution(ref ast.Node, d types.Descriptor)
	// RecordBlock 记录被当作内联代码块处理的函数字面量
	RecordBlock(lit *ast.FunctionLiteral)
	// RecordTypeResolution 记录类型引用解析出的类型
	RecordTypeResolution(ref ast.TypeElement, t *types.Type)
	// RecordDeclaration 记录局部声明对应的描述符
	RecordDeclaration(decl ast.Declaration, d types.Descriptor)
}

// ============================================================================
// BindingContext
// ============================================================================

// BindingContext 基于 map 的默认 Trace 实现
type BindingContext struct {
	exprTypes    map[ast.Expression]*types.Type
	exprRecords  map[ast.Expression]int
	references   map[ast.Node]types.Descriptor
	blocks       map[*ast.FunctionLiteral]bool
	typeRefs     map[ast.TypeElement]*types.Type
	declarations map[ast.Declaration]types.Descriptor
}

// NewBindingContext 创建空的 BindingContext
func NewBindingContext() *BindingContext {
	return &BindingContext{
		exprTypes:    make(map[ast.Expression]*types.Type),
		exprRecords:  make(map[ast.Expression]int),
		references:   make(map[ast.Node]types.Descriptor),
		blocks:       make(map[*ast.FunctionLiteral]bool),
		typeRefs:     make(map[ast.TypeElement]*types.Type),
		declarations: make(map[ast.Declaration]types.Descriptor),
	}
}

func (b *BindingContext) RecordExpressionType(expr ast.Expression, t *types.Type) {
	b.exprTypes[expr] = t
	b.exprRecords[expr]++
}

func (b *BindingContext) RecordReferenceResolution(ref ast.Node, d types.Descriptor) {
	b.references[ref] = d
}

func (b *BindingContext) RecordBlock(lit *ast.FunctionLiteral) {
	b.blocks[lit] = true
}

func (b *BindingContext) RecordTypeResolution(ref ast.TypeElement, t *types.Type) {
	b.typeRefs[ref] = t
}

func (b *BindingContext) RecordDeclaration(decl ast.Declaration, d types.Descriptor) {
	b.declarations[decl] = d
}

// ----------------------------------------------------------------------------
// 读取
// ----------------------------------------------------------------------------

// ExpressionType 表达式的类型，未记录时为 nil
func (b *BindingContext) ExpressionType(expr ast.Expression) *types.Type {
	return b.exprTypes[expr]
}

// RecordCount 表达式类型被记录的次数
func (b *BindingContext) RecordCount(expr ast.Expression) int {
	return b.exprRecords[expr]
}

// Reference 引用解析到的声明
func (b *BindingContext) Reference(ref ast.Node) types.Descriptor {
	return b.references[ref]
}

// IsBlock 函数字面量是否被当作代码块
func (b *BindingContext) IsBlock(lit *ast.FunctionLiteral) bool {
	return b.blocks[lit]
}

// ResolvedType 类型引用解析出的类型
func (b *BindingContext) ResolvedType(ref ast.TypeElement) *types.Type {
	return b.typeRefs[ref]
}

// Declaration 局部声明的描述符
func (b *BindingContext) Declaration(decl ast.Declaration) types.Descriptor {
	return b.declarations[decl]
}

// ============================================================================
// Cached
// ============================================================================

// Cached 在转发记录的同时把表达式类型写入缓存
//
// 一次推断过程中的所有记录都经过它，缓存随过程结束而丢弃。
type Cached struct {
	Trace
	cache map[ast.Expression]*types.Type
}

// NewCached 包装 tr
func NewCached(tr Trace) *Cached {
	return &Cached{Trace: tr, cache: make(map[ast.Expression]*types.Type)}
}

func (c *Cached) RecordExpressionType(expr ast.Expression, t *types.Type) {
	c.cache[expr] = t
	c.Trace.RecordExpressionType(expr, t)
}

// Lookup 读取缓存的表达式类型
func (c *Cached) Lookup(expr ast.Expression) (*types.Type, bool) {
	t, ok := c.cache[expr]
	return t, ok
}

// Len 缓存中的表达式数量
func (c *Cached) Len() int { return len(c.cache) }

package diag

import (
	"go.uber.org/multierr"

	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// ============================================================================
// 诊断收集器
// ============================================================================

// Collector 按上报顺序收集诊断的 Handler
type Collector struct {
	diagnostics      []*Diagnostic
	warningsAsErrors bool
}

// NewCollector 创建收集器
func NewCollector() *Collector {
	return &Collector{}
}

// SetWarningsAsErrors 设置是否把警告计入 Err
func (c *Collector) SetWarningsAsErrors(enabled bool) {
	c.warningsAsErrors = enabled
}

func (c *Collector) UnresolvedReference(ref ast.Node) {
	c.Report(New(ref, E0100, UnresolvedMessage(ref)))
}

func (c *Collector) TypeMismatch(expr ast.Node, expected, actual *types.Type) {
	c.Report(New(expr, E0200, MismatchMessage(expected, actual)))
}

func (c *Collector) GenericError(node ast.Node, code, msg string) {
	if code == "" {
		code = E0001
	}
	d := New(node, code, msg)
	d.Level = LevelError
	c.Report(d)
}

func (c *Collector) GenericWarning(node ast.Node, code, msg string) {
	if code == "" {
		code = W0001
	}
	d := New(node, code, msg)
	d.Level = LevelWarning
	c.Report(d)
}

// Report 追加一条诊断
func (c *Collector) Report(d *Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics 全部诊断
func (c *Collector) Diagnostics() []*Diagnostic { return c.diagnostics }

// Errors 错误级别的诊断
func (c *Collector) Errors() []*Diagnostic {
	return c.filter(func(d *Diagnostic) bool { return d.Level == LevelError })
}

// Warnings 警告级别的诊断
func (c *Collector) Warnings() []*Diagnostic {
	return c.filter(func(d *Diagnostic) bool { return d.Level == LevelWarning })
}

// OfKind 指定种类的诊断
func (c *Collector) OfKind(k Kind) []*Diagnostic {
	return c.filter(func(d *Diagnostic) bool { return d.Kind == k })
}

// HasErrors 是否有错误
func (c *Collector) HasErrors() bool { return len(c.Errors()) > 0 }

// Reset 清空诊断
func (c *Collector) Reset() { c.diagnostics = nil }

// Err 把错误（以及开启 warnings_as_errors 时的警告）合并为一个 error，没有时返回 nil
func (c *Collector) Err() error {
	var err error
	for _, d := range c.diagnostics {
		if d.Level == LevelError || c.warningsAsErrors {
			err = multierr.Append(err, d)
		}
	}
	return err
}

func (c *Collector) filter(keep func(*Diagnostic) bool) []*Diagnostic {
	var out []*Diagnostic
	for _, d := range c.diagnostics {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

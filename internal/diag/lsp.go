package diag

import (
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// Source LSP 诊断的来源标记
const Source = "typeinfer"

// ToProtocol 将诊断转换为 LSP 诊断
func ToProtocol(d *Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if d.Level == LevelWarning {
		severity = protocol.DiagnosticSeverityWarning
	}

	start := d.Pos
	end := d.End
	if !end.IsValid() || end.Line < start.Line {
		end = start
		end.Column = start.Column + 1
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{
				Line:      lspIndex(start.Line), // LSP 行号从 0 开始
				Character: lspIndex(start.Column),
			},
			End: protocol.Position{
				Line:      lspIndex(end.Line),
				Character: lspIndex(end.Column),
			},
		},
		Severity: severity,
		Code:     d.Code,
		Source:   Source,
		Message:  d.Message,
	}
}

// PublishParams 构建 textDocument/publishDiagnostics 的参数
func PublishParams(filename string, version int, diagnostics []*Diagnostic) protocol.PublishDiagnosticsParams {
	out := make([]protocol.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		out = append(out, ToProtocol(d))
	}
	return protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(uri.File(filename)),
		Version:     uint32(version),
		Diagnostics: out,
	}
}

func lspIndex(n int) uint32 {
	if n <= 0 {
		return 0
	}
	return uint32(n - 1)
}

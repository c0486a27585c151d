// Copyright © 2024 The kip-ls authors

package lsp

import (
	"github.com/kip-lang/kip-ls/engine"
	"github.com/kip-lang/kip-ls/lint"
	"github.com/kip-lang/kip-ls/parser/token"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const (
	diagnosticSource = "kip"
	lintSource       = "kip-lint"
)

// publishFindings publishes the engine findings of doc as warnings, followed
// by the diagnostics of the configured lint checks.  Findings without a
// range are reported on the first line.
func (s *Server) publishFindings(doc *engine.Document) {
	if doc == nil {
		return
	}
	diags := []protocol.Diagnostic{}
	for _, f := range doc.Result.Findings() {
		diags = append(diags, convertFinding(f))
	}
	if len(s.linter.Analyzers) > 0 {
		found, err := s.linter.LintResult(doc.Result, doc.Text, doc.URI)
		if err != nil {
			log.Warningf("lint %s: %v", doc.URI, err)
		}
		for _, d := range found {
			diags = append(diags, convertLint(d))
		}
	}
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     uintPtr(doc.Version),
		Diagnostics: diags,
	})
}

// convertFinding converts an engine.Finding to an LSP Diagnostic.
func convertFinding(f engine.Finding) protocol.Diagnostic {
	var rng protocol.Range
	if f.HasRange() {
		rng = toLSPRange(f.Range)
	}
	return protocol.Diagnostic{
		Range:    rng,
		Severity: severity(protocol.DiagnosticSeverityWarning),
		Source:   strPtr(diagnosticSource),
		Message:  f.Message,
	}
}

// convertLint converts a lint.Diagnostic to an LSP Diagnostic.  The
// analyzer name is sent as the diagnostic code.
func convertLint(d lint.Diagnostic) protocol.Diagnostic {
	rng := token.Range{Start: &token.Location{Line: d.Pos.Line, Col: d.Pos.Col}}
	if d.End != nil {
		rng.End = &token.Location{Line: d.End.Line, Col: d.End.Col}
	}
	sev := protocol.DiagnosticSeverityWarning
	switch d.Severity {
	case lint.SeverityError:
		sev = protocol.DiagnosticSeverityError
	case lint.SeverityInfo:
		sev = protocol.DiagnosticSeverityInformation
	}
	return protocol.Diagnostic{
		Range:    toLSPRange(rng),
		Severity: severity(sev),
		Code:     &protocol.IntegerOrString{Value: d.Analyzer},
		Source:   strPtr(lintSource),
		Message:  d.Message,
	}
}

func severity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func strPtr(s string) *string {
	return &s
}

func uintPtr(n int32) *protocol.UInteger {
	u := safeUint(int(n))
	return &u
}

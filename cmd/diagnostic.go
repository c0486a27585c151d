// Copyright © 2024 The kip-ls authors

package cmd

import (
	"fmt"
	"io"

	"github.com/kip-lang/kip-ls/diagnostic"
	"github.com/kip-lang/kip-ls/engine"
	"github.com/kip-lang/kip-ls/lint"
)

func colorMode() diagnostic.ColorMode {
	mode, err := diagnostic.ParseColorMode(colorFlag)
	if err != nil {
		log.Warningf("%v; using auto", err)
	}
	return mode
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// renderFindings renders the findings of file to w as warnings, quoting
// lines from src.
func renderFindings(w io.Writer, file string, findings []engine.Finding, src []byte) error {
	diags := diagnostic.FromFindings(file, findings)
	if len(diags) == 0 {
		return nil
	}
	last := &diags[len(diags)-1]
	last.Notes = append(last.Notes, "run: kip-ls tokens "+file+" to see how the file was lexed")
	r := newRenderer()
	r.SourceReader = func(string) ([]byte, error) { return src, nil }
	return r.RenderAll(w, diags)
}

// lintDiagToDiagnostic converts a lint.Diagnostic to a diagnostic.Diagnostic.
func lintDiagToDiagnostic(ld lint.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Message:  ld.Message + " (" + ld.Analyzer + ")",
	}
	switch ld.Severity {
	case lint.SeverityError:
		d.Severity = diagnostic.SeverityError
	case lint.SeverityInfo:
		d.Severity = diagnostic.SeverityNote
	}
	if ld.Pos.Line > 0 {
		span := diagnostic.Span{
			File: ld.Pos.File,
			Line: ld.Pos.Line,
			Col:  ld.Pos.Col,
		}
		if ld.End != nil && ld.End.Line == ld.Pos.Line {
			span.EndCol = ld.End.Col - 1
		}
		d.Spans = append(d.Spans, span)
	}
	d.Notes = append(d.Notes, ld.Notes...)
	d.Notes = append(d.Notes, fmt.Sprintf("to suppress: add \"(* nolint:%s *)\" on this line", ld.Analyzer))
	return d
}

// renderLintDiagnostics renders lint diagnostics to w, quoting lines from
// sources keyed by file name.
func renderLintDiagnostics(w io.Writer, diags []lint.Diagnostic, sources map[string][]byte) error {
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, ld := range diags {
		ds = append(ds, lintDiagToDiagnostic(ld))
	}
	r := newRenderer()
	r.SourceReader = func(file string) ([]byte, error) {
		if src, ok := sources[file]; ok {
			return src, nil
		}
		return nil, fmt.Errorf("%s: source not available", file)
	}
	return r.RenderAll(w, ds)
}

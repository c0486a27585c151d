// Copyright © 2024 The kip-ls authors

package diagnostic

import "github.com/kip-lang/kip-ls/engine"

// FromFindings converts engine findings for file into warnings.  A finding
// spanning several lines is underlined on its first line only.
func FromFindings(file string, findings []engine.Finding) []Diagnostic {
	diags := make([]Diagnostic, 0, len(findings))
	for _, f := range findings {
		d := Diagnostic{Severity: SeverityWarning, Message: f.Message}
		if !f.HasRange() {
			d.Spans = []Span{{File: file}}
			diags = append(diags, d)
			continue
		}
		span := Span{File: file, Line: f.Range.Start.Line, Col: f.Range.Start.Col}
		if end := f.Range.End; end != nil && end.Line == span.Line {
			span.EndCol = end.Col - 1
		} else {
			d.Notes = append(d.Notes, "fragment continues to "+f.Range.String())
		}
		d.Spans = []Span{span}
		diags = append(diags, d)
	}
	return diags
}

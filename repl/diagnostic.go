// Copyright © 2024 The kip-ls authors

package repl

import (
	"github.com/kip-lang/kip-ls/diagnostic"
	"github.com/kip-lang/kip-ls/engine"
)

// renderFindings renders findings against the session source using the
// diagnostic renderer.
func (sh *shell) renderFindings(findings []engine.Finding) {
	diags := diagnostic.FromFindings(replFile, findings)
	if len(diags) > 0 {
		last := &diags[len(diags)-1]
		last.Notes = append(last.Notes, "use :source to review the statements entered so far")
	}
	r := &diagnostic.Renderer{
		Color: diagnostic.ColorAuto,
		SourceReader: func(string) ([]byte, error) {
			return []byte(sh.text), nil
		},
	}
	_ = r.RenderAll(sh.out, diags)
}

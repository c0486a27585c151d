// Copyright © 2024 The kip-ls authors

package engine

import (
	"fmt"

	"github.com/kip-lang/kip-ls/parser/token"
)

// Finding is a note about part of a document the engine could not fully
// handle.  Findings never stop analysis.
type Finding struct {
	Range   token.Range // zero when the finding concerns the whole document
	Message string
}

// Findings reports the fragments the parser skipped and any truncation of
// the analysis.
func (r *Result) Findings() []Finding {
	if r == nil || r.Program == nil {
		return nil
	}
	var out []Finding
	for _, rng := range r.Program.Skipped {
		out = append(out, Finding{Range: rng, Message: "unrecognized fragment skipped"})
	}
	if r.Program.Truncated {
		out = append(out, Finding{Message: "nesting too deep; part of the document was not parsed"})
	}
	if r.Tables != nil && r.Tables.Partial {
		out = append(out, Finding{
			Message: fmt.Sprintf("analysis incomplete: %d subtree(s) not visited", r.Tables.Truncated),
		})
	}
	return out
}

// HasRange reports whether f points at a span of the document.
func (f Finding) HasRange() bool {
	return f.Range.Start != nil && f.Range.Start.Line > 0
}

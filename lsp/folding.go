// Copyright © 2024 The kip-ls authors

package lsp

import (
	"github.com/kip-lang/kip-ls/astutil"
	"github.com/kip-lang/kip-ls/parser/token"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFoldingRange handles the textDocument/foldingRange request.
// It returns folding ranges for multi-line declarations, statements and
// comments.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.session.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	var ranges []protocol.FoldingRange
	region := string(protocol.FoldingRangeKindRegion)
	for _, decl := range doc.Result.Program.Decls {
		ranges = appendFold(ranges, decl.Range(), region)
	}
	for _, expr := range doc.Result.Program.Exprs {
		ranges = appendFold(ranges, expr.Range(), region)
	}
	ranges = append(ranges, commentFoldingRanges(doc.Text)...)
	return ranges, nil
}

// appendFold adds rng as a fold when it spans more than one line.
func appendFold(ranges []protocol.FoldingRange, rng token.Range, kind string) []protocol.FoldingRange {
	if rng.Start == nil || rng.End == nil || rng.End.Line <= rng.Start.Line {
		return ranges
	}
	return append(ranges, protocol.FoldingRange{
		StartLine: safeUint(rng.Start.Line - 1), // convert to 0-based
		EndLine:   safeUint(rng.End.Line - 1),
		Kind:      &kind,
	})
}

// commentFoldingRanges produces a folding range for each "(* ... *)"
// comment spanning two or more lines.
func commentFoldingRanges(content string) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	kind := string(protocol.FoldingRangeKindComment)
	for _, c := range astutil.Comments(content) {
		if c.EndLine <= c.Line {
			continue
		}
		ranges = append(ranges, protocol.FoldingRange{
			StartLine: safeUint(c.Line - 1), // convert to 0-based
			EndLine:   safeUint(c.EndLine - 1),
			Kind:      &kind,
		})
	}
	return ranges
}

// Copyright © 2024 The kip-ls authors

package lsp

import (
	"sort"
	"strings"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/engine"
	"github.com/kip-lang/kip-ls/morph"
	"github.com/kip-lang/kip-ls/parser/token"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentReferences handles the textDocument/references request.
func (s *Server) textDocumentReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	doc := s.session.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	sym, _ := symbolAt(doc, params.Position)
	if sym == nil {
		return nil, nil
	}

	var locs []protocol.Location
	for _, rng := range referenceRanges(doc, sym, params.Context.IncludeDeclaration) {
		locs = append(locs, protocol.Location{
			URI:   params.TextDocument.URI,
			Range: toLSPRange(rng),
		})
	}
	return locs, nil
}

// referenceRanges returns the ranges in doc naming sym, in source order.
// Besides the uses recorded by analysis, every word whose base resolves to
// the symbol's name counts, whatever case suffix it carries.
func referenceRanges(doc *engine.Document, sym *analysis.Symbol, includeDecl bool) []token.Range {
	byPos := make(map[int]token.Range)
	add := func(rng token.Range) {
		if rng.Start == nil {
			return
		}
		if _, ok := byPos[rng.Start.Pos]; !ok {
			byPos[rng.Start.Pos] = rng
		}
	}

	for _, ref := range doc.Result.Tables.ReferencesTo(sym.Name) {
		add(ref.Source)
	}
	if !strings.Contains(sym.Name, " ") {
		for _, tok := range doc.Result.Tokens {
			if isWord(tok) && resolvesTo(tok.Text, sym.Name) {
				add(rangeOf(tok))
			}
		}
	}

	if sym.Source.Start != nil {
		if includeDecl {
			add(sym.Source)
		} else {
			delete(byPos, sym.Source.Start.Pos)
		}
	}

	positions := make([]int, 0, len(byPos))
	for pos := range byPos {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	out := make([]token.Range, len(positions))
	for i, pos := range positions {
		out[i] = byPos[pos]
	}
	return out
}

// resolvesTo reports whether word is name, possibly carrying a case or
// conditional suffix.
func resolvesTo(word, name string) bool {
	if word == name {
		return true
	}
	is := func(base string) bool { return base == name }
	if _, ok := morph.ResolveKnown(word, is); ok {
		return true
	}
	if base, ok := morph.SplitConditional(word); ok {
		if base == name {
			return true
		}
		_, ok := morph.ResolveKnown(base, is)
		return ok
	}
	return false
}

// Copyright © 2024 The kip-ls authors

package lsp

import (
	"strings"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/engine"
	"github.com/kip-lang/kip-ls/parser/token"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// toLSPPosition converts a 1-based kip location to a 0-based LSP position.
func toLSPPosition(loc *token.Location) protocol.Position {
	if loc == nil {
		return protocol.Position{}
	}
	return protocol.Position{
		Line:      safeUint(loc.Line - 1),
		Character: safeUint(loc.Col - 1),
	}
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// toLSPRange converts a kip range to an LSP range.  A range without an end
// is empty.
func toLSPRange(rng token.Range) protocol.Range {
	start := toLSPPosition(rng.Start)
	end := start
	if rng.End != nil {
		end = toLSPPosition(rng.End)
	}
	return protocol.Range{Start: start, End: end}
}

// fromLSPRange converts a 0-based LSP range to a 1-based kip range.
func fromLSPRange(rng protocol.Range) *token.Range {
	return &token.Range{
		Start: &token.Location{Line: int(rng.Start.Line) + 1, Col: int(rng.Start.Character) + 1},
		End:   &token.Location{Line: int(rng.End.Line) + 1, Col: int(rng.End.Character) + 1},
	}
}

// tokenAt returns the word token under the 0-based LSP position.  The
// cursor may sit inside a word or just after its last character.
func tokenAt(doc *engine.Document, pos protocol.Position) *token.Token {
	if doc == nil || doc.Result == nil {
		return nil
	}
	line := int(pos.Line) + 1
	col := int(pos.Character) + 1
	var atEnd *token.Token
	for _, tok := range doc.Result.Tokens {
		if tok.Source == nil || tok.Source.Line != line || !isWord(tok) {
			continue
		}
		end := tok.End()
		switch {
		case tok.Source.Col <= col && col < end.Col:
			return tok
		case end.Col == col:
			atEnd = tok
		}
	}
	return atEnd
}

// isWord reports whether tok can name something.
func isWord(tok *token.Token) bool {
	return tok.Type == token.IDENT || tok.Type == token.KW_DOGRU || tok.Type == token.KW_YANLIS
}

// symbolAt resolves the word under pos to a declared symbol.  Recorded
// references are tried first since they hold the resolved name, then
// declarations, then a morphological lookup of the word as written.
func symbolAt(doc *engine.Document, pos protocol.Position) (*analysis.Symbol, *token.Token) {
	tok := tokenAt(doc, pos)
	if tok == nil {
		return nil, nil
	}
	tables := doc.Result.Tables
	for _, ref := range tables.References {
		if sameStart(ref.Source, tok) {
			if sym := detailFor(tables, ref.Name, ref.Kind); sym != nil {
				return sym, tok
			}
			if sym, ok := tables.Lookup(ref.Name); ok {
				return sym, tok
			}
		}
	}
	for name, rng := range tables.Ranges {
		if rng.Contains(tok.Source.Line, tok.Source.Col) {
			if sym, ok := tables.Lookup(name); ok {
				return sym, tok
			}
		}
	}
	if sym, ok := tables.Lookup(tok.Text); ok {
		return sym, tok
	}
	return nil, tok
}

func sameStart(rng token.Range, tok *token.Token) bool {
	return rng.Start != nil && rng.Start.Line == tok.Source.Line && rng.Start.Col == tok.Source.Col
}

// detailFor returns the symbol named name in the detail map matching kind.
func detailFor(tables *analysis.Tables, name string, kind analysis.SymbolKind) *analysis.Symbol {
	switch {
	case kind == analysis.SymType:
		return tables.TypeDetails[name]
	case kind.IsCallable():
		return tables.FunctionDetails[name]
	default:
		return tables.VariableDetails[name]
	}
}

// mapSymbolKind converts an analysis.SymbolKind to an LSP SymbolKind.
func mapSymbolKind(kind analysis.SymbolKind) protocol.SymbolKind {
	switch kind {
	case analysis.SymType:
		return protocol.SymbolKindClass
	case analysis.SymConstructor:
		return protocol.SymbolKindEnumMember
	case analysis.SymFunction, analysis.SymBuiltin:
		return protocol.SymbolKindFunction
	default:
		return protocol.SymbolKindVariable
	}
}

// mapCompletionItemKind converts an analysis.SymbolKind to an LSP CompletionItemKind.
func mapCompletionItemKind(kind analysis.SymbolKind) protocol.CompletionItemKind {
	switch kind {
	case analysis.SymType:
		return protocol.CompletionItemKindClass
	case analysis.SymConstructor:
		return protocol.CompletionItemKindEnumMember
	case analysis.SymFunction, analysis.SymBuiltin:
		return protocol.CompletionItemKindFunction
	default:
		return protocol.CompletionItemKindVariable
	}
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}

// rangeOf returns the range covered by tok.
func rangeOf(tok *token.Token) token.Range {
	return token.Range{Start: tok.Source, End: tok.End()}
}

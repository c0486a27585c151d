// Copyright © 2024 The kip-ls authors

package lsp

import (
	"sort"
	"strings"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/engine"
	"github.com/kip-lang/kip-ls/semantic"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCompletion handles the textDocument/completion request.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.session.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	prefix := prefixAt(doc, params.Position)
	return completions(doc.Result.Tables, prefix), nil
}

// prefixAt returns the part of the word under pos that precedes the cursor.
func prefixAt(doc *engine.Document, pos protocol.Position) string {
	tok := tokenAt(doc, pos)
	if tok == nil {
		return ""
	}
	want := int(pos.Character) + 1 - tok.Source.Col
	n := 0
	for i, c := range tok.Text {
		if n >= want {
			return tok.Text[:i]
		}
		if c >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return tok.Text
}

// completions returns every declared name and keyword matching prefix.  A
// prefix that already carries a case suffix still offers its base name.
func completions(tables *analysis.Tables, prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	seen := make(map[string]bool)
	add := func(sym *analysis.Symbol) {
		if seen[sym.Name] || !matchesPrefix(sym.Name, prefix) {
			return
		}
		seen[sym.Name] = true
		kind := mapCompletionItemKind(sym.Kind)
		item := protocol.CompletionItem{Label: sym.Name, Kind: &kind}
		if sym.Detail != "" {
			detail := sym.Detail
			item.Detail = &detail
		}
		items = append(items, item)
	}
	for _, details := range []map[string]*analysis.Symbol{
		tables.TypeDetails,
		tables.FunctionDetails,
		tables.VariableDetails,
	} {
		for _, name := range sortedKeys(details) {
			add(details[name])
		}
	}

	kwKind := protocol.CompletionItemKindKeyword
	for _, kw := range tables.Keywords.Sorted() {
		if seen[kw] || !matchesPrefix(kw, prefix) {
			continue
		}
		seen[kw] = true
		items = append(items, protocol.CompletionItem{Label: kw, Kind: &kwKind})
	}
	return items
}

func matchesPrefix(name, prefix string) bool {
	return prefix == "" || strings.HasPrefix(name, prefix) || semantic.HasSuffixOf(prefix, name)
}

func sortedKeys(m map[string]*analysis.Symbol) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Copyright © 2024 The kip-ls authors

package lsp

import (
	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/engine"
	"github.com/kip-lang/kip-ls/parser/ast"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol request.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.session.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	// Return as []DocumentSymbol (the preferred hierarchical form).
	return documentSymbols(doc), nil
}

// documentSymbols lists the declarations of doc in source order.  Types
// carry their constructors as children and functions their parameters.
func documentSymbols(doc *engine.Document) []protocol.DocumentSymbol {
	tables := doc.Result.Tables
	var symbols []protocol.DocumentSymbol
	for _, decl := range doc.Result.Program.Decls {
		switch d := decl.(type) {
		case *ast.TypeDecl:
			sym := protocol.DocumentSymbol{
				Name:           d.Name,
				Detail:         symbolDetail(tables.TypeDetails[d.Name]),
				Kind:           protocol.SymbolKindClass,
				Range:          toLSPRange(d.Source),
				SelectionRange: toLSPRange(d.NameRange),
			}
			for _, c := range d.Ctors {
				r := toLSPRange(c.Source)
				sym.Children = append(sym.Children, protocol.DocumentSymbol{
					Name:           c.Name,
					Detail:         symbolDetail(tables.FunctionDetails[c.Name]),
					Kind:           protocol.SymbolKindEnumMember,
					Range:          r,
					SelectionRange: r,
				})
			}
			symbols = append(symbols, sym)
		case *ast.FuncDef:
			sym := protocol.DocumentSymbol{
				Name:           d.Name,
				Detail:         symbolDetail(tables.FunctionDetails[d.Name]),
				Kind:           protocol.SymbolKindFunction,
				Range:          toLSPRange(d.Source),
				SelectionRange: toLSPRange(d.NameRange),
			}
			for _, p := range d.Params {
				r := toLSPRange(p.Source)
				var detail *string
				if p.Type != nil {
					detail = strPtr(p.Type.Name)
				}
				sym.Children = append(sym.Children, protocol.DocumentSymbol{
					Name:           p.Name,
					Detail:         detail,
					Kind:           protocol.SymbolKindVariable,
					Range:          r,
					SelectionRange: r,
				})
			}
			symbols = append(symbols, sym)
		case *ast.VarDef:
			for i, name := range d.Names {
				sel := d.Source
				if i < len(d.Ranges) {
					sel = d.Ranges[i]
				}
				symbols = append(symbols, protocol.DocumentSymbol{
					Name:           name,
					Detail:         symbolDetail(tables.VariableDetails[name]),
					Kind:           protocol.SymbolKindVariable,
					Range:          toLSPRange(d.Source),
					SelectionRange: toLSPRange(sel),
				})
			}
		}
	}
	return symbols
}

// symbolDetail returns the one line rendering of sym, if any.
func symbolDetail(sym *analysis.Symbol) *string {
	if sym == nil || sym.Detail == "" {
		return nil
	}
	return strPtr(sym.Detail)
}

// Copyright © 2024 The kip-ls authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/muesli/reflow/wordwrap"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const hoverWidth = 72

// textDocumentHover handles the textDocument/hover request.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.session.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	sym, tok := symbolAt(doc, params.Position)
	if sym == nil {
		return nil, nil
	}
	rng := toLSPRange(rangeOf(tok))
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: buildHoverContent(sym, doc.Result.Tables),
		},
		Range: &rng,
	}, nil
}

// buildHoverContent builds Markdown hover text for a symbol.
func buildHoverContent(sym *analysis.Symbol, tables *analysis.Tables) string {
	var sb strings.Builder

	// Header: **kind** `name`
	fmt.Fprintf(&sb, "**%s** `%s`", sym.Kind, sym.Name)

	if sym.Detail != "" {
		fmt.Fprintf(&sb, "\n\n```kip\n%s\n```", sym.Detail)
	}

	var notes []string
	switch sym.Kind {
	case analysis.SymConstructor:
		if sym.Type != "" {
			notes = append(notes, fmt.Sprintf("Constructor of `%s`.", sym.Type))
		}
	case analysis.SymParameter:
		if sym.Type != "" {
			notes = append(notes, fmt.Sprintf("Parameter of type `%s`.", sym.Type))
		}
	case analysis.SymType:
		if len(sym.Ctors) > 0 {
			notes = append(notes, "Constructors: "+quoteAll(sym.Ctors)+".")
		}
	}
	if uses := len(tables.ReferencesTo(sym.Name)); uses > 0 {
		notes = append(notes, fmt.Sprintf("Used %d time(s) in this document.", uses))
	}
	if len(notes) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(wordwrap.String(strings.Join(notes, " "), hoverWidth))
	}
	return sb.String()
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "`" + name + "`"
	}
	return strings.Join(quoted, ", ")
}

// Copyright © 2024 The kip-ls authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDefinition handles the textDocument/definition request.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.session.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	sym, _ := symbolAt(doc, params.Position)
	if sym == nil || sym.Source.Start == nil {
		return nil, nil
	}
	return protocol.Location{
		URI:   params.TextDocument.URI,
		Range: toLSPRange(sym.Source),
	}, nil
}

// Copyright © 2024 The kip-ls authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentSemanticTokensFull handles the textDocument/semanticTokens/full
// request.
func (s *Server) textDocumentSemanticTokensFull(_ *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	data, err := s.session.SemanticTokens(background(), params.TextDocument.URI, nil)
	if err != nil || data == nil {
		return nil, err
	}
	return &protocol.SemanticTokens{Data: data}, nil
}

// textDocumentSemanticTokensRange handles the
// textDocument/semanticTokens/range request.  Only tokens starting inside
// the range are returned.
func (s *Server) textDocumentSemanticTokensRange(_ *glsp.Context, params *protocol.SemanticTokensRangeParams) (any, error) {
	data, err := s.session.SemanticTokens(background(), params.TextDocument.URI, fromLSPRange(params.Range))
	if err != nil || data == nil {
		return nil, err
	}
	return &protocol.SemanticTokens{Data: data}, nil
}

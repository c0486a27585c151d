// Copyright © 2024 The kip-ls authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDidOpen handles the textDocument/didOpen notification.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc, err := s.session.Open(
		background(),
		params.TextDocument.URI,
		params.TextDocument.Version,
		params.TextDocument.Text,
	)
	if err != nil {
		return err
	}
	s.publishFindings(doc)
	return nil
}

// textDocumentDidChange handles the textDocument/didChange notification.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	var ok bool
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content, ok = c.Text, true
		case protocol.TextDocumentContentChangeEvent:
			content, ok = c.Text, true
		}
	}
	if !ok {
		return nil
	}

	doc, err := s.session.Change(
		background(),
		params.TextDocument.URI,
		params.TextDocument.Version,
		content,
	)
	if err != nil {
		return err
	}
	s.publishFindings(doc)
	return nil
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.session.Close(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

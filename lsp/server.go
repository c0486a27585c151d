// Copyright © 2024 The kip-ls authors

// Package lsp implements a Language Server Protocol server for Kip.
// It provides semantic highlighting, diagnostics, hover, go-to-definition,
// references, completion, folding and document and workspace symbols.
package lsp

import (
	"context"
	"os"
	"sync"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/engine"
	"github.com/kip-lang/kip-ls/lint"
	"github.com/kip-lang/kip-ls/semantic"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const serverName = "kip-ls"

// Version is reported to clients in the initialize response.
var Version = "0.1.0"

var log = commonlog.GetLogger("kip-ls.lsp")

// Server is the Kip language server.
type Server struct {
	handler  protocol.Handler
	glspSrv  *glspserver.Server
	session  *engine.Session
	cfg      engine.Config
	linter   *lint.Linter
	rootURI  string
	rootPath string

	// Kip files under rootPath, analyzed on first use.
	indexOnce sync.Once
	index     []*analysis.FileResult

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	// Overridable for testing.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithConfig sets the analysis configuration used for every document.
func WithConfig(cfg engine.Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithAnalyzers sets the lint checks whose findings are published with the
// engine findings.  Passing no analyzers disables linting.
func WithAnalyzers(analyzers ...*lint.Analyzer) Option {
	return func(s *Server) { s.linter.Analyzers = analyzers }
}

// New creates a new Kip LSP server.
func New(opts ...Option) *Server {
	s := &Server{
		cfg:    engine.DefaultConfig(),
		linter: &lint.Linter{Analyzers: lint.DefaultAnalyzers()},
		exitFn: os.Exit,
	}
	for _, o := range opts {
		o(s)
	}
	s.session = engine.NewSession(s.cfg)
	s.linter.Config = s.cfg

	s.handler = protocol.Handler{
		Initialize: s.initialize,
		Shutdown:   s.shutdown,
		Exit:       s.exit,
		SetTrace:   s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentSemanticTokensFull:  s.textDocumentSemanticTokensFull,
		TextDocumentSemanticTokensRange: s.textDocumentSemanticTokensRange,
		TextDocumentHover:               s.textDocumentHover,
		TextDocumentDefinition:          s.textDocumentDefinition,
		TextDocumentCompletion:          s.textDocumentCompletion,
		TextDocumentReferences:          s.textDocumentReferences,
		TextDocumentDocumentSymbol:      s.textDocumentDocumentSymbol,
		TextDocumentFoldingRange:        s.textDocumentFoldingRange,
		WorkspaceSymbol:                 s.workspaceSymbol,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// Session returns the document session backing the server.
func (s *Server) Session() *engine.Session {
	return s.session
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

// initialize handles the LSP initialize request.
func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	if params.RootURI != nil {
		s.rootURI = *params.RootURI
		s.rootPath = uriToPath(s.rootURI)
	} else if params.RootPath != nil {
		s.rootPath = *params.RootPath
		s.rootURI = pathToURI(s.rootPath)
	}
	if params.ClientInfo != nil {
		log.Infof("initializing for %s (root %q)", params.ClientInfo.Name, s.rootPath)
	}

	capabilities := s.handler.CreateServerCapabilities()

	// Override text document sync to full.
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     semantic.TokenTypes,
			TokenModifiers: semantic.TokenModifiers,
		},
		Full:  true,
		Range: true,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}

	version := Version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

// shutdown handles the LSP shutdown request.
func (s *Server) shutdown(_ *glsp.Context) error {
	for _, uri := range s.session.URIs() {
		s.session.Close(uri)
	}
	return nil
}

// exit handles the LSP exit notification by terminating the process.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// captureNotify remembers the notification function of the latest request
// so diagnostics can be published outside of a request.
func (s *Server) captureNotify(ctx *glsp.Context) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	notify := s.notify
	s.notifyMu.Unlock()
	if notify != nil {
		notify(method, params)
	}
}

// background returns the context pipeline calls run under.  glsp does not
// carry a request context.
func background() context.Context {
	return context.Background()
}

func boolPtr(b bool) *bool {
	return &b
}

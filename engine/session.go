// Copyright © 2024 The kip-ls authors

package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/parser/token"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("kip-ls.engine")

// Document is the latest known version of an open document and its
// analysis.  A Document is never modified once stored; each change stores a
// new one.
type Document struct {
	URI     string
	Version int32
	Text    string
	Result  *Result
}

// Session holds the open documents of one client.  It is safe for
// concurrent use.
type Session struct {
	cfg  Config
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewSession returns an empty session analyzing documents with cfg.  The
// File field of cfg is ignored; each document is named by its URI.
func NewSession(cfg Config) *Session {
	return &Session{
		cfg:  cfg,
		docs: make(map[string]*Document),
	}
}

// Open analyzes text and stores it as the content of uri.
func (s *Session) Open(ctx context.Context, uri string, version int32, text string) (*Document, error) {
	doc, err := s.analyze(ctx, uri, version, text)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	log.Debugf("opened %s (version %d)", uri, version)
	return doc, nil
}

// Change replaces the content of uri with text.  Versions older than the
// stored one are ignored and the stored document is returned.
func (s *Session) Change(ctx context.Context, uri string, version int32, text string) (*Document, error) {
	if cur := s.Get(uri); cur != nil && version < cur.Version {
		log.Debugf("ignoring stale version %d of %s", version, uri)
		return cur, nil
	}
	doc, err := s.analyze(ctx, uri, version, text)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.docs[uri]; cur != nil && doc.Version < cur.Version {
		return cur, nil
	}
	s.docs[uri] = doc
	return doc, nil
}

// Close forgets uri.
func (s *Session) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
	log.Debugf("closed %s", uri)
}

// Get returns the stored document for uri, or nil.
func (s *Session) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// URIs returns the URIs of all open documents in lexical order.
func (s *Session) URIs() []string {
	s.mu.RLock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.mu.RUnlock()
	sort.Strings(uris)
	return uris
}

// Tables returns the symbol tables of uri.  Unknown documents yield empty
// tables.
func (s *Session) Tables(uri string) *analysis.Tables {
	if doc := s.Get(uri); doc != nil {
		return doc.Result.Tables
	}
	return analysis.NewTables()
}

// SemanticTokens returns the encoded semantic tokens of uri.  Unknown
// documents yield nil.
func (s *Session) SemanticTokens(ctx context.Context, uri string, rng *token.Range) ([]uint32, error) {
	doc := s.Get(uri)
	if doc == nil {
		return nil, nil
	}
	return tokenize(ctx, uri, doc.Text, doc.Result.Tables, rng)
}

func (s *Session) analyze(ctx context.Context, uri string, version int32, text string) (*Document, error) {
	cfg := s.cfg
	cfg.File = uri
	res, err := Analyze(ctx, text, cfg)
	if err != nil {
		return nil, err
	}
	return &Document{URI: uri, Version: version, Text: text, Result: res}, nil
}

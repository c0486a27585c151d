// Copyright © 2024 The kip-ls authors

package lsp

import (
	"strings"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// workspaceSymbol handles the workspace/symbol request.
// It returns the types, functions and variables of every open document and
// every kip file under the workspace root that match the query string. An
// empty query returns all symbols.
func (s *Server) workspaceSymbol(_ *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	query := strings.ToLower(params.Query)
	var results []protocol.SymbolInformation

	open := make(map[string]bool)
	for _, uri := range s.session.URIs() {
		open[uri] = true
		results = appendSymbols(results, uri, s.session.Tables(uri), query)
	}

	// Files on disk that are not being edited.
	for _, fr := range s.workspaceIndex() {
		uri := pathToURI(fr.Path)
		if open[uri] {
			continue
		}
		results = appendSymbols(results, uri, fr.Tables, query)
	}
	return results, nil
}

// workspaceIndex analyzes the kip files under the workspace root once and
// returns the cached results.
func (s *Server) workspaceIndex() []*analysis.FileResult {
	s.indexOnce.Do(func() {
		if s.rootPath == "" {
			return
		}
		results, err := analysis.ScanWorkspace(s.rootPath, s.cfg.AnalysisConfig())
		if err != nil {
			log.Warningf("scanning workspace %s: %s", s.rootPath, err)
			return
		}
		log.Infof("indexed %d file(s) under %s", len(results), s.rootPath)
		s.index = results
	})
	return s.index
}

// appendSymbols adds the declarations in tables matching query.
func appendSymbols(results []protocol.SymbolInformation, uri string, tables *analysis.Tables, query string) []protocol.SymbolInformation {
	for _, details := range []map[string]*analysis.Symbol{
		tables.TypeDetails,
		tables.FunctionDetails,
		tables.VariableDetails,
	} {
		for _, name := range sortedKeys(details) {
			sym := details[name]
			if sym.Source.Start == nil || !matchesQuery(name, query) {
				continue
			}
			var container *string
			if sym.Kind == analysis.SymConstructor && sym.Type != "" {
				container = strPtr(sym.Type)
			}
			results = append(results, protocol.SymbolInformation{
				Name:          name,
				Kind:          mapSymbolKind(sym.Kind),
				Location:      protocol.Location{URI: uri, Range: toLSPRange(sym.Source)},
				ContainerName: container,
			})
		}
	}
	return results
}

// matchesQuery performs case-insensitive substring matching. An empty query
// matches everything (per LSP spec: empty string requests all symbols).
func matchesQuery(name, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), lowerQuery)
}

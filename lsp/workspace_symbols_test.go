// Copyright © 2024 The kip-ls authors

package lsp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestWorkspaceSymbol(t *testing.T) {
	dir := t.TempDir()
	onDisk := filepath.Join(dir, "sayilar.kip")
	require.NoError(t, os.WriteFile(onDisk, []byte("Bir yerleşik tam-sayı olsun.\n"), 0o600))
	hidden := filepath.Join(dir, ".cache")
	require.NoError(t, os.Mkdir(hidden, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(hidden, "x.kip"), []byte("Bir gizli olsun.\n"), 0o600))

	s := testServer()
	s.rootPath = dir
	openDoc(t, s, "file:///test/bool.kip", boolSource)

	t.Run("empty query returns all symbols", func(t *testing.T) {
		result, err := s.workspaceSymbol(mockContext(), &protocol.WorkspaceSymbolParams{Query: ""})
		require.NoError(t, err)
		names := symbolNames(result)
		assert.Contains(t, names, "doğruluk")
		assert.Contains(t, names, "tersi")
		assert.Contains(t, names, "tam-sayı")
		assert.NotContains(t, names, "gizli", "hidden directories are skipped")
	})

	t.Run("query filters by substring", func(t *testing.T) {
		result, err := s.workspaceSymbol(mockContext(), &protocol.WorkspaceSymbolParams{Query: "ters"})
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "tersi", result[0].Name)
		assert.Equal(t, protocol.SymbolKindFunction, result[0].Kind)
		assert.Equal(t, "file:///test/bool.kip", result[0].Location.URI)
	})

	t.Run("query is case-insensitive", func(t *testing.T) {
		result, err := s.workspaceSymbol(mockContext(), &protocol.WorkspaceSymbolParams{Query: "TAM"})
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, pathToURI(onDisk), result[0].Location.URI)
	})

	t.Run("constructors name their type", func(t *testing.T) {
		result, err := s.workspaceSymbol(mockContext(), &protocol.WorkspaceSymbolParams{Query: "yanlış"})
		require.NoError(t, err)
		require.Len(t, result, 1)
		require.NotNil(t, result[0].ContainerName)
		assert.Equal(t, "doğruluk", *result[0].ContainerName)
	})
}

func TestMatchesQuery(t *testing.T) {
	assert.True(t, matchesQuery("tersi", ""))
	assert.True(t, matchesQuery("tersi", "ers"))
	assert.False(t, matchesQuery("tersi", "doğ"))
}

func symbolNames(syms []protocol.SymbolInformation) []string {
	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = s.Name
	}
	return names
}

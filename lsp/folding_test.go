// Copyright © 2024 The kip-ls authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestFoldingRange(t *testing.T) {
	s := testServer()

	t.Run("single-line declaration is not folded", func(t *testing.T) {
		doc := openDoc(t, s, "file:///test/single.kip", `Bir yerleşik tam-sayı olsun.`)
		result, err := s.textDocumentFoldingRange(mockContext(), &protocol.FoldingRangeParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: doc.URI},
		})
		require.NoError(t, err)
		assert.Empty(t, filterFoldKind(result, protocol.FoldingRangeKindRegion))
	})

	t.Run("multi-line function is folded", func(t *testing.T) {
		doc := openDoc(t, s, "file:///test/multi.kip", boolSource)
		result, err := s.textDocumentFoldingRange(mockContext(), &protocol.FoldingRangeParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: doc.URI},
		})
		require.NoError(t, err)
		regions := filterFoldKind(result, protocol.FoldingRangeKindRegion)
		require.Len(t, regions, 1)
		// The definition of tersi spans lines 1-3 (0-based).
		assert.Equal(t, protocol.UInteger(1), regions[0].StartLine)
		assert.Equal(t, protocol.UInteger(3), regions[0].EndLine)
	})

	t.Run("multi-line comment produces a comment fold", func(t *testing.T) {
		src := "(* line 1\n   line 2\n   line 3 *)\nBir yerleşik tam-sayı olsun."
		doc := openDoc(t, s, "file:///test/comments.kip", src)
		result, err := s.textDocumentFoldingRange(mockContext(), &protocol.FoldingRangeParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: doc.URI},
		})
		require.NoError(t, err)
		comments := filterFoldKind(result, protocol.FoldingRangeKindComment)
		require.Len(t, comments, 1)
		assert.Equal(t, protocol.UInteger(0), comments[0].StartLine)
		assert.Equal(t, protocol.UInteger(2), comments[0].EndLine)
	})

	t.Run("nil doc returns nil", func(t *testing.T) {
		result, err := s.textDocumentFoldingRange(mockContext(), &protocol.FoldingRangeParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///missing.kip"},
		})
		require.NoError(t, err)
		assert.Nil(t, result)
	})
}

func TestCommentFoldingRanges(t *testing.T) {
	t.Run("single line comment", func(t *testing.T) {
		assert.Empty(t, commentFoldingRanges("(* a *)\nx diyelim."))
	})

	t.Run("two separate comments", func(t *testing.T) {
		ranges := commentFoldingRanges("(* a\nb *)\nx diyelim.\n(* c\nd *)")
		require.Len(t, ranges, 2)
		assert.Equal(t, protocol.UInteger(0), ranges[0].StartLine)
		assert.Equal(t, protocol.UInteger(1), ranges[0].EndLine)
		assert.Equal(t, protocol.UInteger(3), ranges[1].StartLine)
		assert.Equal(t, protocol.UInteger(4), ranges[1].EndLine)
	})

	t.Run("no comments", func(t *testing.T) {
		assert.Empty(t, commentFoldingRanges(boolSource))
	})

	t.Run("unterminated comment runs to end of file", func(t *testing.T) {
		ranges := commentFoldingRanges("x diyelim.\n(* a\nb\nc")
		require.Len(t, ranges, 1)
		assert.Equal(t, protocol.UInteger(1), ranges[0].StartLine)
		assert.Equal(t, protocol.UInteger(3), ranges[0].EndLine)
	})
}

// filterFoldKind returns only folding ranges with the given kind.
func filterFoldKind(ranges []protocol.FoldingRange, kind protocol.FoldingRangeKind) []protocol.FoldingRange {
	var result []protocol.FoldingRange
	for _, r := range ranges {
		if r.Kind != nil && *r.Kind == string(kind) {
			result = append(result, r)
		}
	}
	return result
}

// Copyright © 2024 The kip-ls authors

package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	used := make(map[string]bool)
	for tok := Type(0); tok < numTokenTypes; tok++ {
		str := tok.String()
		if str == "" {
			t.Errorf("token type %x has empty string value", tok)
			continue
		}
		// Bir and bir share a type but every type has one name.
		if used[str] {
			t.Errorf("token type string used twice: %v", tok)
		}
		used[str] = true
	}
}

func TestKeywordTableOrder(t *testing.T) {
	// A keyword must never be shadowed by an earlier entry that is one of
	// its prefixes.
	for i, kw := range Keywords {
		for _, earlier := range Keywords[:i] {
			assert.False(t, strings.HasPrefix(kw.Text, earlier.Text),
				"%q is listed after its prefix %q", kw.Text, earlier.Text)
		}
		assert.True(t, kw.Type.IsKeyword(), "%q", kw.Text)
	}
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, INT_SUFFIX.IsNumber())
	assert.True(t, FLOAT.IsLiteral())
	assert.True(t, STRING.IsLiteral())
	assert.False(t, IDENT.IsKeyword())
	assert.False(t, kwEnd.IsKeyword())
	assert.True(t, KW_DOGRUYSA.IsKeyword())
}

func TestRangeContains(t *testing.T) {
	r := Range{
		Start: &Location{Line: 2, Col: 3},
		End:   &Location{Line: 2, Col: 8},
	}
	assert.True(t, r.Contains(2, 3))
	assert.True(t, r.Contains(2, 7))
	assert.False(t, r.Contains(2, 8))
	assert.False(t, r.Contains(1, 5))
	assert.False(t, Range{}.Contains(1, 1))
}

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 8, UTF16Len("tam-sayı"))
	assert.Equal(t, 2, UTF16Len("😀"))
	assert.Equal(t, 0, UTF16Len(""))
}

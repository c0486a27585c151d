// Copyright © 2024 The kip-ls authors

package lexer

import (
	"testing"

	"github.com/kip-lang/kip-ls/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		tokens []*token.Token
	}{
		{"empty", ``, nil},
		{"integer with suffix", `5'in`, []*token.Token{
			testToken(token.INT_SUFFIX, "5'in"),
		}},
		{"float", `5.0`, []*token.Token{
			testToken(token.FLOAT, "5.0"),
		}},
		{"integer then period", `5.`, []*token.Token{
			testToken(token.INT, "5"),
			testToken(token.DOT, "."),
		}},
		{"integer then apostrophe", `5' x`, []*token.Token{
			testToken(token.INT, "5"),
			testToken(token.APOSTROPHE, "'"),
			testToken(token.IDENT, "x"),
		}},
		{"longest keyword", `doğruysa doğru yerleşiktir yerleşik`, []*token.Token{
			testToken(token.KW_DOGRUYSA, "doğruysa"),
			testToken(token.KW_DOGRU, "doğru"),
			testToken(token.KW_YERLESIKTIR, "yerleşiktir"),
			testToken(token.KW_YERLESIK, "yerleşik"),
		}},
		{"keyword prefix of identifier", `doğrusu doğruluk yanlışlık dahası`, []*token.Token{
			testToken(token.IDENT, "doğrusu"),
			testToken(token.IDENT, "doğruluk"),
			testToken(token.IDENT, "yanlışlık"),
			testToken(token.IDENT, "dahası"),
		}},
		{"primitive type", `Bir yerleşik tam-sayı olsun.`, []*token.Token{
			testToken(token.KW_BIR, "Bir"),
			testToken(token.KW_YERLESIK, "yerleşik"),
			testToken(token.IDENT, "tam-sayı"),
			testToken(token.KW_OLSUN, "olsun"),
			testToken(token.DOT, "."),
		}},
		{"comments are dropped", `(* bir yorum *) x (* kapanmamış`, []*token.Token{
			testToken(token.IDENT, "x"),
		}},
		{"call punctuation", `(bu sayı) (şu sayı) toplamı,`, []*token.Token{
			testToken(token.PAREN_L, "("),
			testToken(token.IDENT, "bu"),
			testToken(token.IDENT, "sayı"),
			testToken(token.PAREN_R, ")"),
			testToken(token.PAREN_L, "("),
			testToken(token.IDENT, "şu"),
			testToken(token.IDENT, "sayı"),
			testToken(token.PAREN_R, ")"),
			testToken(token.IDENT, "toplamı"),
			testToken(token.COMMA, ","),
		}},
		{"strings", `"merhaba" "a\"b" "açık`, []*token.Token{
			testToken(token.STRING, `"merhaba"`),
			testToken(token.STRING, `"a\"b"`),
			testToken(token.STRING, `"açık`),
		}},
		{"unknown runes are skipped", `x + y ; z`, []*token.Token{
			testToken(token.IDENT, "x"),
			testToken(token.IDENT, "y"),
			testToken(token.IDENT, "z"),
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens := Tokenize("test.kip", test.input)
			for _, tok := range tokens {
				tok.Source = nil
			}
			assert.Equal(t, test.tokens, tokens)
		})
	}
}

func TestLexerLocations(t *testing.T) {
	tokens := Tokenize("test.kip", "Bir doğruluk\n  ya doğru")
	require.Len(t, tokens, 4)
	assert.Equal(t, &token.Location{File: "test.kip", Pos: 0, Line: 1, Col: 1}, tokens[0].Source)
	assert.Equal(t, 5, tokens[1].Source.Col)
	assert.Equal(t, 2, tokens[2].Source.Line)
	assert.Equal(t, 3, tokens[2].Source.Col)
	assert.Equal(t, 6, tokens[3].Source.Col)

	// Offsets strictly increase and tokens never overlap.
	for i := 1; i < len(tokens); i++ {
		prev := tokens[i-1]
		assert.LessOrEqual(t, prev.Source.Pos+len(prev.Text), tokens[i].Source.Pos)
	}
}

func TestLexerTerminates(t *testing.T) {
	inputs := []string{"\xff\xfe", "((((", `"\`, "(*", "5'", "5..", "'''"}
	for _, input := range inputs {
		tokens := Tokenize("", input)
		assert.LessOrEqual(t, len(tokens), len(input), "input %q", input)
	}
}

func testToken(typ token.Type, text string) *token.Token {
	return &token.Token{
		Type: typ,
		Text: text,
	}
}

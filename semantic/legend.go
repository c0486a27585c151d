// Copyright © 2024 The kip-ls authors

// Package semantic produces LSP semantic tokens for kip source.
//
// Tokens are encoded relative to each other as five integers per token:
// delta line, delta start character, length, type and modifiers.  Type
// indices refer to TokenTypes; the order of the legend is fixed because
// clients decode the integers with it.
package semantic

// Token type indices.  Only the first six are ever emitted.
const (
	TypeKeyword = iota
	TypeFunction
	TypeVariable
	TypeString
	TypeNumber
	TypeType
)

// TokenTypes is the token type legend.
var TokenTypes = []string{
	"keyword",  // 0
	"function", // 1
	"variable", // 2
	"string",   // 3
	"number",   // 4
	"type",     // 5
	"namespace",
	"class",
	"enum",
	"interface",
	"struct",
	"typeParameter",
	"parameter",
	"property",
	"enumMember",
	"event",
	"method",
	"macro",
	"modifier",
	"comment",
}

// TokenModifiers is the token modifier legend.  No modifier is emitted.
var TokenModifiers = []string{
	"declaration",    // bit 0
	"definition",     // bit 1
	"readonly",       // bit 2
	"static",         // bit 3
	"deprecated",     // bit 4
	"abstract",       // bit 5
	"async",          // bit 6
	"modification",   // bit 7
	"documentation",  // bit 8
	"defaultLibrary", // bit 9
}

// TypeName returns the legend name of a token type index.
func TypeName(typ int) string {
	if typ < 0 || typ >= len(TokenTypes) {
		return "unknown"
	}
	return TokenTypes[typ]
}

// Copyright © 2024 The kip-ls authors

package token

import "fmt"

type Token struct {
	Type   Type
	Text   string
	Source *Location
}

func (tok *Token) String() string {
	if tok.Source == nil {
		return fmt.Sprintf("%v %q", tok.Type, tok.Text)
	}
	return fmt.Sprintf("%v %v %q", tok.Source, tok.Type, tok.Text)
}

// End returns the location immediately following the last rune of tok.  The
// end location is only meaningful for tokens that do not span lines.
func (tok *Token) End() *Location {
	if tok.Source == nil {
		return nil
	}
	return &Location{
		File: tok.Source.File,
		Pos:  tok.Source.Pos + len(tok.Text),
		Line: tok.Source.Line,
		Col:  tok.Source.Col + UTF16Len(tok.Text),
	}
}

type Type uint

// Type constants used for the kip lexer/parser.  Keyword types are grouped
// between kwStart and kwEnd so IsKeyword can test membership cheaply.
const (
	INVALID Type = iota
	EOF

	kwStart
	KW_BIR
	KW_YA
	KW_DA
	KW_OLABILIR
	KW_VAR
	KW_OLAMAZ
	KW_YERLESIK
	KW_YERLESIKTIR
	KW_OLSUN
	KW_DIYELIM
	KW_DOGRU
	KW_DOGRUYSA
	KW_YANLIS
	KW_YANLISSA
	KW_DEGILSE
	KW_ISE
	kwEnd

	// Atomic expressions & literals
	FLOAT
	INT_SUFFIX
	INT
	STRING
	IDENT

	// Punctuation
	DOT
	COMMA
	PAREN_L
	PAREN_R
	APOSTROPHE

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:        "invalid",
		EOF:            "EOF",
		kwStart:        "<keywords>",
		KW_BIR:         "bir",
		KW_YA:          "ya",
		KW_DA:          "da",
		KW_OLABILIR:    "olabilir",
		KW_VAR:         "var",
		KW_OLAMAZ:      "olamaz",
		KW_YERLESIK:    "yerleşik",
		KW_YERLESIKTIR: "yerleşiktir",
		KW_OLSUN:       "olsun",
		KW_DIYELIM:     "diyelim",
		KW_DOGRU:       "doğru",
		KW_DOGRUYSA:    "doğruysa",
		KW_YANLIS:      "yanlış",
		KW_YANLISSA:    "yanlışsa",
		KW_DEGILSE:     "değilse",
		KW_ISE:         "ise",
		kwEnd:          "</keywords>",
		FLOAT:          "float",
		INT_SUFFIX:     "int-suffix",
		INT:            "int",
		STRING:         "string",
		IDENT:          "ident",
		DOT:            ".",
		COMMA:          ",",
		PAREN_L:        "(",
		PAREN_R:        ")",
		APOSTROPHE:     "'",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// IsKeyword returns true if typ is one of the reserved word types.
func (typ Type) IsKeyword() bool {
	return kwStart < typ && typ < kwEnd
}

// IsNumber returns true for all numeric literal types.
func (typ Type) IsNumber() bool {
	return typ == FLOAT || typ == INT || typ == INT_SUFFIX
}

// IsLiteral returns true for numeric and string literal types.
func (typ Type) IsLiteral() bool {
	return typ.IsNumber() || typ == STRING
}

// Keyword is an entry in the reserved word table.
type Keyword struct {
	Text string
	Type Type
}

// Keywords is the reserved word table in match order.  A spelling that is a
// prefix of another spelling must come after it so the lexer can take the
// first match as the longest one.
var Keywords = []Keyword{
	{"yerleşiktir", KW_YERLESIKTIR},
	{"yerleşik", KW_YERLESIK},
	{"doğruysa", KW_DOGRUYSA},
	{"doğru", KW_DOGRU},
	{"yanlışsa", KW_YANLISSA},
	{"yanlış", KW_YANLIS},
	{"olabilir", KW_OLABILIR},
	{"olamaz", KW_OLAMAZ},
	{"diyelim", KW_DIYELIM},
	{"değilse", KW_DEGILSE},
	{"olsun", KW_OLSUN},
	{"Bir", KW_BIR},
	{"bir", KW_BIR},
	{"var", KW_VAR},
	{"ise", KW_ISE},
	{"ya", KW_YA},
	{"da", KW_DA},
}

type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset
	Line int    // line number (starting at 1)
	Col  int    // column in UTF-16 code units (starting at 1)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// Before reports whether loc precedes other in the source.
func (loc *Location) Before(other *Location) bool {
	return loc.Pos < other.Pos
}

// Range is a half-open span of source text [Start, End).
type Range struct {
	Start *Location
	End   *Location
}

// Span returns the range covering the tokens first through last.
func Span(first, last *Token) Range {
	return Range{Start: first.Source, End: last.End()}
}

// Contains reports whether the 1-based line and column fall inside r.
func (r Range) Contains(line, col int) bool {
	if r.Start == nil || r.End == nil {
		return false
	}
	if line < r.Start.Line || line > r.End.Line {
		return false
	}
	if line == r.Start.Line && col < r.Start.Col {
		return false
	}
	if line == r.End.Line && col >= r.End.Col {
		return false
	}
	return true
}

func (r Range) String() string {
	if r.Start == nil {
		return "-"
	}
	if r.End == nil {
		return r.Start.String()
	}
	return fmt.Sprintf("%s-%d:%d", r.Start, r.End.Line, r.End.Col)
}

// UTF16Len returns the length of s in UTF-16 code units, the unit used for
// editor column positions.
func UTF16Len(s string) int {
	n := 0
	for _, c := range s {
		if c >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

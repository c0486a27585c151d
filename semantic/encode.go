// Copyright © 2024 The kip-ls authors

package semantic

import "fmt"

// rawToken is an intermediate representation before delta encoding.
type rawToken struct {
	line      int // 0-based
	startChar int // 0-based, UTF-16 units
	length    int
	tokenType int
	modifiers int
}

// deltaEncode converts raw tokens, sorted by position, into the LSP
// delta-encoded format.
func deltaEncode(tokens []rawToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	prevLine := 0
	prevChar := 0
	for _, tok := range tokens {
		deltaLine := tok.line - prevLine
		deltaChar := tok.startChar
		if deltaLine == 0 {
			deltaChar = tok.startChar - prevChar
		}
		data = append(data,
			uint32(deltaLine),
			uint32(deltaChar),
			uint32(tok.length),
			uint32(tok.tokenType),
			uint32(tok.modifiers),
		)
		prevLine = tok.line
		prevChar = tok.startChar
	}
	return data
}

// Token is a decoded semantic token with absolute 0-based position.
type Token struct {
	Line      int
	StartChar int
	Length    int
	Type      int
	Modifiers int
}

// String renders t as 1-based "line:col length type".
func (t Token) String() string {
	return fmt.Sprintf("%d:%d %d %s", t.Line+1, t.StartChar+1, t.Length, TypeName(t.Type))
}

// Decode reverses the delta encoding of data.  Trailing integers that do not
// form a whole token are ignored.
func Decode(data []uint32) []Token {
	var tokens []Token
	line, char := 0, 0
	for i := 0; i+4 < len(data); i += 5 {
		if data[i] > 0 {
			line += int(data[i])
			char = int(data[i+1])
		} else {
			char += int(data[i+1])
		}
		tokens = append(tokens, Token{
			Line:      line,
			StartChar: char,
			Length:    int(data[i+2]),
			Type:      int(data[i+3]),
			Modifiers: int(data[i+4]),
		})
	}
	return tokens
}

// Copyright © 2024 The kip-ls authors

// Package lexer converts kip source text into tokens.
//
// The lexer never fails.  Comments and whitespace are dropped, and a rune
// that cannot begin any token is skipped so that every call to ReadToken
// makes progress.
package lexer

import (
	"unicode"

	"github.com/kip-lang/kip-ls/parser/token"
)

const (
	commentOpen  = "(*"
	commentClose = "*)"
)

type Lexer struct {
	scanner *token.Scanner
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// Tokenize lexes all of src and returns its tokens, excluding the final EOF
// token.
func Tokenize(file, src string) []*token.Token {
	lex := New(token.NewScanner(file, src))
	var tokens []*token.Token
	for {
		tok := lex.ReadToken()
		if tok.Type == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// ReadToken returns the next token in the input.  At the end of input it
// returns a token with type token.EOF.
func (lex *Lexer) ReadToken() *token.Token {
	for {
		lex.skipWhitespace()
		if lex.scanner.AcceptString(commentOpen) {
			lex.scanner.SkipTo(commentClose)
			lex.scanner.Ignore()
			continue
		}
		c, ok := lex.scanner.Peek()
		if !ok {
			return lex.scanner.EmitToken(token.EOF)
		}
		if tok := lex.readToken(c); tok != nil {
			return tok
		}
		// Unknown rune; drop it and try again.
		lex.scanner.ScanRune()
		lex.scanner.Ignore()
	}
}

func (lex *Lexer) readToken(c rune) *token.Token {
	switch c {
	case '(':
		return lex.charToken(token.PAREN_L)
	case ')':
		return lex.charToken(token.PAREN_R)
	case '.':
		return lex.charToken(token.DOT)
	case ',':
		return lex.charToken(token.COMMA)
	case '\'':
		return lex.charToken(token.APOSTROPHE)
	case '"':
		return lex.readString()
	}
	if isDigit(c) {
		return lex.readNumber()
	}
	if isWordStart(c) {
		if tok := lex.readKeyword(); tok != nil {
			return tok
		}
		return lex.readIdent()
	}
	return nil
}

func (lex *Lexer) charToken(typ token.Type) *token.Token {
	lex.scanner.ScanRune()
	return lex.scanner.EmitToken(typ)
}

// readKeyword matches the keyword table in order.  A keyword only matches as
// a whole word so that "doğrusu" is read as an identifier.
func (lex *Lexer) readKeyword() *token.Token {
	for _, kw := range token.Keywords {
		if !lex.scanner.HasPrefix(kw.Text) {
			continue
		}
		next, ok := lex.scanner.PeekAt(runeCount(kw.Text))
		if ok && isWord(next) {
			continue
		}
		lex.scanner.AcceptString(kw.Text)
		return lex.scanner.EmitToken(kw.Type)
	}
	return nil
}

func (lex *Lexer) readIdent() *token.Token {
	lex.scanner.AcceptSeq(isWord)
	return lex.scanner.EmitToken(token.IDENT)
}

// readNumber tries, in order, a float, an integer carrying a case suffix, and
// a plain integer.  A trailing '.' without digits is left for the DOT token
// that ends a sentence.
func (lex *Lexer) readNumber() *token.Token {
	lex.scanner.AcceptSeqDigit()
	if c, ok := lex.scanner.Peek(); ok && c == '.' {
		if d, ok := lex.scanner.PeekAt(1); ok && isDigit(d) {
			lex.scanner.ScanRune()
			lex.scanner.AcceptSeqDigit()
			return lex.scanner.EmitToken(token.FLOAT)
		}
	}
	if c, ok := lex.scanner.Peek(); ok && c == '\'' {
		if l, ok := lex.scanner.PeekAt(1); ok && unicode.IsLetter(l) {
			lex.scanner.ScanRune()
			lex.scanner.AcceptSeq(unicode.IsLetter)
			return lex.scanner.EmitToken(token.INT_SUFFIX)
		}
	}
	return lex.scanner.EmitToken(token.INT)
}

// readString reads a double quoted string.  Backslash escapes the following
// rune.  An unterminated string extends to the end of input.
func (lex *Lexer) readString() *token.Token {
	lex.scanner.ScanRune()
	for lex.scanner.ScanRune() {
		switch lex.scanner.Rune() {
		case '\\':
			lex.scanner.ScanRune()
		case '"':
			return lex.scanner.EmitToken(token.STRING)
		}
	}
	return lex.scanner.EmitToken(token.STRING)
}

func (lex *Lexer) skipWhitespace() {
	if lex.scanner.AcceptSeqSpace() > 0 {
		lex.scanner.Ignore()
	}
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func isWordStart(c rune) bool {
	return unicode.IsLetter(c)
}

// isWord reports whether c may continue an identifier.
func isWord(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_'
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

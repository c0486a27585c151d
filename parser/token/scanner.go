// Copyright © 2024 The kip-ls authors

package token

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from in-memory source text.
// Documents handled by the language server are always fully buffered so,
// unlike a stream scanner, Scanner can look ahead arbitrarily far.
type Scanner struct {
	file string
	src  string

	start     int // byte offset of the current token
	startLine int
	startCol  int

	next int // byte offset of the next unscanned rune
	line int // line of the next unscanned rune
	col  int // UTF-16 column of the next unscanned rune

	c rune // last scanned rune
}

// NewScanner initializes and returns a new Scanner over src.
func NewScanner(file string, src string) *Scanner {
	return &Scanner{
		file:      file,
		src:       src,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
	s.startLine = s.line
	s.startCol = s.col
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return s.src[s.start:s.next]
}

// Rune returns the last rune scanned.
func (s *Scanner) Rune() rune {
	return s.c
}

// Peek returns the next rune to be scanned.  At the end of input Peek returns
// a false second value.
func (s *Scanner) Peek() (rune, bool) {
	return s.PeekAt(0)
}

// PeekAt returns the rune n positions past the next rune to be scanned.
func (s *Scanner) PeekAt(n int) (rune, bool) {
	pos := s.next
	for {
		if pos >= len(s.src) {
			return 0, false
		}
		c, size := utf8.DecodeRuneInString(s.src[pos:])
		if n == 0 {
			return c, true
		}
		pos += size
		n--
	}
}

// HasPrefix reports whether the unscanned input starts with prefix.
func (s *Scanner) HasPrefix(prefix string) bool {
	return strings.HasPrefix(s.src[s.next:], prefix)
}

// ScanRune scans the next rune into the current token.  It returns false at
// the end of input.  Invalid utf-8 bytes are consumed one at a time as
// utf8.RuneError so scanning always makes progress.
func (s *Scanner) ScanRune() bool {
	if s.next >= len(s.src) {
		return false
	}
	c, size := utf8.DecodeRuneInString(s.src[s.next:])
	s.c = c
	s.next += size
	if c == '\n' {
		s.line++
		s.col = 1
	} else if c >= 0x10000 {
		s.col += 2
	} else {
		s.col++
	}
	return true
}

func (s *Scanner) EOF() bool {
	return s.next >= len(s.src)
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok || !fn(peek) {
		return false
	}
	return s.ScanRune()
}

func (s *Scanner) AcceptRune(c rune) bool {
	peek, ok := s.Peek()
	if !ok || peek != c {
		return false
	}
	return s.ScanRune()
}

func (s *Scanner) AcceptDigit() bool {
	return s.Accept(func(c rune) bool { return '0' <= c && c <= '9' })
}

func (s *Scanner) AcceptSpace() bool {
	return s.Accept(unicode.IsSpace)
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqDigit() int {
	var n int
	for s.AcceptDigit() {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqSpace() int {
	var n int
	for s.AcceptSpace() {
		n++
	}
	return n
}

// AcceptString scans literal if the unscanned input begins with it.  Unlike a
// rune-by-rune accept, nothing is consumed when literal only partially
// matches.
func (s *Scanner) AcceptString(literal string) bool {
	if literal == "" || !s.HasPrefix(literal) {
		return false
	}
	for range literal {
		s.ScanRune()
	}
	return true
}

// SkipTo scans runes until the unscanned input begins with literal, which is
// then also scanned.  If literal never occurs the remaining input is scanned
// and SkipTo returns false.
func (s *Scanner) SkipTo(literal string) bool {
	for !s.EOF() {
		if s.AcceptString(literal) {
			return true
		}
		s.ScanRune()
	}
	return false
}

// LocStart returns a Location referencing the beginning of the current token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the next unscanned rune.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.next,
		Line: s.line,
		Col:  s.col,
	}
}

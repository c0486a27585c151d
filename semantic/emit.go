// Copyright © 2024 The kip-ls authors

package semantic

import (
	"regexp"
	"strings"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/parser/token"
)

// suffixPattern is the shape accepted as a case suffix when matching a token
// against a declared name without consulting the morphology tables.
var suffixPattern = regexp.MustCompile(`^\p{L}{1,6}$`)

// HasSuffixOf reports whether word is name followed by a plausible suffix.
func HasSuffixOf(word, name string) bool {
	rest, ok := strings.CutPrefix(word, name)
	return ok && name != "" && suffixPattern.MatchString(rest)
}

// Emit classifies toks using tables and returns the encoded semantic tokens.
// When rng is non-nil only tokens starting inside it are emitted.  A nil
// tables value classifies identifiers as unknown and leaves them out.
func Emit(toks []*token.Token, tables *analysis.Tables, rng *token.Range) []uint32 {
	if tables == nil {
		tables = analysis.NewTables()
	}
	e := &emitter{
		toks:      toks,
		tables:    tables,
		rng:       rng,
		multiWord: splitTypes(tables.MultiWordTypes()),
	}
	e.run()
	return deltaEncode(e.out)
}

type emitter struct {
	toks      []*token.Token
	tables    *analysis.Tables
	rng       *token.Range
	multiWord [][]string
	out       []rawToken
}

func splitTypes(names []string) [][]string {
	words := make([][]string, len(names))
	for i, name := range names {
		words[i] = strings.Fields(name)
	}
	return words
}

func (e *emitter) run() {
	for i := 0; i < len(e.toks); {
		tok := e.toks[i]
		if tok.Type == token.IDENT && e.afterApostrophe(i) {
			i++
			continue
		}
		switch {
		case tok.Type.IsKeyword():
			e.emit(tok, TypeKeyword)
		case tok.Type == token.STRING:
			e.emit(tok, TypeString)
		case tok.Type.IsNumber():
			e.emit(tok, TypeNumber)
		case tok.Type == token.IDENT:
			if n := e.multiWordMatch(i); n > 0 {
				for _, t := range e.toks[i : i+n] {
					e.emit(t, TypeType)
				}
				i += n
				continue
			}
			if typ, ok := e.classify(tok.Text); ok {
				e.emit(tok, typ)
			}
		}
		i++
	}
}

// afterApostrophe reports whether toks[i] is a suffix attached to the
// previous token by an apostrophe, as in "x'in".  Only identifier suffixes
// are dropped; a keyword spelled as a suffix, as in "x'da", is still a
// keyword.
func (e *emitter) afterApostrophe(i int) bool {
	if i == 0 {
		return false
	}
	prev := e.toks[i-1]
	return prev.Type == token.APOSTROPHE && prev.End().Pos == e.toks[i].Source.Pos
}

// multiWordMatch returns the number of tokens starting at i that spell a
// multi-word type name, or zero.
func (e *emitter) multiWordMatch(i int) int {
	for _, n := range []int{2, 3} {
		if phrase, ok := e.phrase(i, n); ok && e.isMultiWord(phrase) {
			return n
		}
	}
	for _, words := range e.multiWord {
		if e.wordsMatch(i, words) {
			return len(words)
		}
	}
	return 0
}

// phrase joins the n identifiers starting at i.
func (e *emitter) phrase(i, n int) (string, bool) {
	if i+n > len(e.toks) {
		return "", false
	}
	parts := make([]string, n)
	for k, t := range e.toks[i : i+n] {
		if t.Type != token.IDENT {
			return "", false
		}
		parts[k] = t.Text
	}
	return strings.Join(parts, " "), true
}

func (e *emitter) isMultiWord(phrase string) bool {
	sym, ok := e.tables.TypeDetails[phrase]
	return ok && sym.Kind == analysis.SymType && strings.Contains(phrase, " ")
}

// wordsMatch reports whether the identifiers starting at i match words, each
// exactly or followed by a suffix.
func (e *emitter) wordsMatch(i int, words []string) bool {
	if i+len(words) > len(e.toks) {
		return false
	}
	for k, w := range words {
		t := e.toks[i+k]
		if t.Type != token.IDENT || (t.Text != w && !HasSuffixOf(t.Text, w)) {
			return false
		}
	}
	return true
}

// classify matches a single identifier against types, functions and
// variables, first exactly and then allowing a suffix.
func (e *emitter) classify(word string) (int, bool) {
	t := e.tables
	groups := []struct {
		typ  int
		sets []analysis.Set
	}{
		{TypeType, []analysis.Set{t.Types}},
		{TypeFunction, []analysis.Set{t.Functions}},
		{TypeVariable, []analysis.Set{t.Variables, t.VariableRefs}},
	}
	for _, g := range groups {
		for _, s := range g.sets {
			if s.Has(word) {
				return g.typ, true
			}
		}
	}
	for _, g := range groups {
		for _, s := range g.sets {
			for name := range s {
				if HasSuffixOf(word, name) {
					return g.typ, true
				}
			}
		}
	}
	return 0, false
}

func (e *emitter) emit(tok *token.Token, typ int) {
	loc := tok.Source
	if e.rng != nil && !e.rng.Contains(loc.Line, loc.Col) {
		return
	}
	text := tok.Text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i]
	}
	e.out = append(e.out, rawToken{
		line:      loc.Line - 1,
		startChar: loc.Col - 1,
		length:    token.UTF16Len(text),
		tokenType: typ,
	})
}

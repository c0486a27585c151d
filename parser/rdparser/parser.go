// Copyright © 2024 The kip-ls authors

// Package rdparser implements a recursive-descent parser for kip.
//
// The parser never fails.  At each position it tries every top-level form in
// priority order; when none applies the current token is recorded in
// ast.Program.Skipped and the parser moves on to the next one.  Editors send
// half written code, and a partial tree is far more useful than an error.
package rdparser

import (
	"github.com/kip-lang/kip-ls/morph"
	"github.com/kip-lang/kip-ls/parser/ast"
	"github.com/kip-lang/kip-ls/parser/token"
)

// DefaultMaxDepth bounds the nesting of parenthesized expressions.
const DefaultMaxDepth = 100

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth overrides DefaultMaxDepth.  Values below one are ignored.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// Parser is a kip parser over a fully lexed token slice.
type Parser struct {
	toks     []*token.Token
	pos      int
	limit    int // tokens at or past limit are invisible
	depth    int
	maxDepth int
	prog     *ast.Program

	// names declared so far, used to resolve suffixed references
	types     map[string]bool
	functions map[string]bool
	ctors     map[string]bool
	variables map[string]bool
	params    map[string]bool // parameters of the definition being parsed
}

// New initializes and returns a Parser reading toks.
func New(toks []*token.Token, opts ...Option) *Parser {
	p := &Parser{
		toks:      toks,
		limit:     len(toks),
		maxDepth:  DefaultMaxDepth,
		types:     make(map[string]bool),
		functions: make(map[string]bool),
		ctors:     make(map[string]bool),
		variables: make(map[string]bool),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ParseProgram parses every token and returns the resulting program.
func (p *Parser) ParseProgram() *ast.Program {
	p.prog = &ast.Program{}
	for p.pos < p.limit {
		start := p.pos
		if p.parseTopLevel() && p.pos > start {
			continue
		}
		p.pos = start
		p.skip()
	}
	return p.prog
}

// parseTopLevel tries each top-level form in priority order.  A failed
// attempt leaves p.pos where it found it.
func (p *Parser) parseTopLevel() bool {
	tries := []func(*Parser) bool{
		(*Parser).parsePrimitiveType,
		(*Parser).parseEmptyType,
		(*Parser).parseUnionType,
		(*Parser).parseVarDef,
		(*Parser).parseFuncDef,
		(*Parser).parseStatement,
	}
	start := p.pos
	for _, try := range tries {
		if try(p) {
			return true
		}
		p.pos = start
	}
	return false
}

// skip records the current token as unparseable and advances past it.
// Adjacent skipped tokens are merged into a single range.
func (p *Parser) skip() {
	tok := p.toks[p.pos]
	p.pos++
	n := len(p.prog.Skipped)
	if n > 0 && p.pos >= 2 && p.prog.Skipped[n-1].End.Pos == p.toks[p.pos-2].End().Pos {
		p.prog.Skipped[n-1].End = tok.End()
		return
	}
	p.prog.Skipped = append(p.prog.Skipped, token.Span(tok, tok))
}

// Peek returns the token n positions ahead, or nil past the end of input.
func (p *Parser) Peek(n int) *token.Token {
	i := p.pos + n
	if i < 0 || i >= p.limit {
		return nil
	}
	return p.toks[i]
}

// PeekType returns the type of the token n positions ahead.
func (p *Parser) PeekType(n int) token.Type {
	tok := p.Peek(n)
	if tok == nil {
		return token.EOF
	}
	return tok.Type
}

// Accept advances past the current token if it has one of the given types.
func (p *Parser) Accept(typ ...token.Type) bool {
	tok := p.Peek(0)
	if tok == nil {
		return false
	}
	for _, t := range typ {
		if tok.Type == t {
			p.pos++
			return true
		}
	}
	return false
}

// prev returns the last accepted token.
func (p *Parser) prev() *token.Token {
	if p.pos == 0 {
		return nil
	}
	return p.toks[p.pos-1]
}

// acceptEnd accepts the period ending a sentence.  The last sentence of a
// document may omit it.
func (p *Parser) acceptEnd() bool {
	return p.Accept(token.DOT) || p.Peek(0) == nil
}

// last returns the token ending a construct that started at start.
func (p *Parser) last(start int) *token.Token {
	if p.pos > start {
		return p.toks[p.pos-1]
	}
	return p.toks[start]
}

func (p *Parser) span(start int) token.Range {
	return token.Span(p.toks[start], p.last(start))
}

// withLimit runs fn with tokens at or past limit hidden.
func (p *Parser) withLimit(limit int, fn func()) {
	old := p.limit
	if limit < p.limit {
		p.limit = limit
	}
	fn()
	p.limit = old
}

// sentenceEnd returns the index of the period closing the sentence that
// starts at the current position, skipping periods nested in parentheses.
// If there is none the end of input is returned.
func (p *Parser) sentenceEnd() int {
	depth := 0
	for i := p.pos; i < p.limit; i++ {
		switch p.toks[i].Type {
		case token.PAREN_L:
			depth++
		case token.PAREN_R:
			if depth > 0 {
				depth--
			}
		case token.DOT:
			if depth == 0 {
				return i
			}
		}
	}
	return p.limit
}

func (p *Parser) isKnown(name string) bool {
	return p.types[name] || p.functions[name] || p.ctors[name] || p.variables[name] || p.params[name]
}

func (p *Parser) isCallable(name string) bool {
	return p.functions[name] || p.ctors[name]
}

// resolve maps a written name to the declared name it refers to.  Names that
// match no declaration are kept as written.
func (p *Parser) resolve(text string, known func(string) bool) string {
	if r, ok := morph.ResolveKnown(text, known); ok {
		return r.Base
	}
	return text
}

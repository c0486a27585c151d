// Copyright © 2024 The kip-ls authors

package rdparser

import (
	"github.com/kip-lang/kip-ls/morph"
	"github.com/kip-lang/kip-ls/parser/ast"
	"github.com/kip-lang/kip-ls/parser/token"
)

// defaultScrutinee is the pattern subject when a clause names no parameter.
const defaultScrutinee = "bu"

// clauseScan is how many tokens may precede the comma of a clause pattern.
const clauseScan = 8

// parseExpr parses an application optionally followed by the conditional
// tail "ise <then>, değilse <else>".
func (p *Parser) parseExpr() ast.Expression {
	if p.depth >= p.maxDepth {
		p.prog.Truncated = true
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()

	start := p.pos
	e := p.parseApplication()
	if e == nil || !p.Accept(token.KW_ISE) {
		return e
	}
	cond := &ast.Conditional{Cond: e}
	cond.Then = p.parseApplication()
	if cond.Then == nil {
		p.pos = start
		return p.parseApplication()
	}
	if p.PeekType(0) == token.COMMA && p.PeekType(1) == token.KW_DEGILSE && p.PeekType(2) != token.COMMA {
		save := p.pos
		p.pos += 2
		if cond.Else = p.parseExpr(); cond.Else == nil {
			p.pos = save
		}
	}
	cond.Source = p.span(start)
	return cond
}

// parseApplication parses a run of primaries.  Arguments come before the
// function they apply to, so each name that resolves to a declared function
// folds everything collected so far into a call: "(5'in) (3'ün) toplamı".
// An undeclared trailing name following other primaries is taken to be the
// function.
func (p *Parser) parseApplication() ast.Expression {
	start := p.pos
	var items []ast.Expression
	firstEnd := start
	bare := false // last item was a lone identifier
	for {
		if call := p.callName(items, start); call != nil {
			items = []ast.Expression{call}
			firstEnd = p.pos
			bare = false
			continue
		}
		tok := p.Peek(0)
		e, ok := p.parsePrimary()
		if !ok {
			break
		}
		items = append(items, e)
		if len(items) == 1 {
			firstEnd = p.pos
		}
		bare = tok.Type == token.IDENT
	}
	switch {
	case len(items) == 0:
		p.pos = start
		return nil
	case len(items) == 1:
		return items[0]
	case bare:
		ref := items[len(items)-1].(*ast.VarRef)
		return &ast.FuncCall{
			Name:      ref.Name,
			Text:      ref.Text,
			Args:      items[:len(items)-1],
			Source:    p.span(start),
			NameRange: ref.Source,
		}
	}
	// Unrelated primaries: keep the first and leave the rest unread.
	p.pos = firstEnd
	return items[0]
}

// callName consumes an identifier naming a declared function and returns the
// call applying it to args.  Constructors without arguments are values, not
// calls.
func (p *Parser) callName(args []ast.Expression, start int) *ast.FuncCall {
	tok := p.Peek(0)
	if tok == nil || tok.Type != token.IDENT || p.params[tok.Text] {
		return nil
	}
	r, ok := morph.ResolveKnown(tok.Text, p.isCallable)
	if !ok || (!p.functions[r.Base] && len(args) == 0) {
		return nil
	}
	p.pos++
	return &ast.FuncCall{
		Name:      r.Base,
		Text:      tok.Text,
		Args:      args,
		Source:    p.span(start),
		NameRange: token.Span(tok, tok),
	}
}

// parsePrimary parses a literal, a name or a parenthesized expression.
func (p *Parser) parsePrimary() (e ast.Expression, ok bool) {
	tok := p.Peek(0)
	if tok == nil {
		return nil, false
	}
	switch tok.Type {
	case token.PAREN_L:
		return p.parseParen()
	case token.INT, token.INT_SUFFIX, token.FLOAT:
		p.pos++
		return &ast.Literal{Kind: tok.Type, Text: tok.Text, Source: token.Span(tok, tok)}, true
	case token.STRING:
		p.pos++
		lit := &ast.Literal{Kind: tok.Type, Text: tok.Text, Source: token.Span(tok, tok)}
		if sfx := p.apostropheSuffix(); sfx != nil {
			lit.Text += "'" + sfx.Text
			lit.Source = token.Span(tok, sfx)
		}
		return lit, true
	case token.KW_DOGRU, token.KW_YANLIS:
		p.pos++
		return &ast.VarRef{Name: tok.Text, Text: tok.Text, Source: token.Span(tok, tok)}, true
	case token.IDENT:
		p.pos++
		ref := &ast.VarRef{Name: p.resolve(tok.Text, p.isKnown), Text: tok.Text, Source: token.Span(tok, tok)}
		if sfx := p.apostropheSuffix(); sfx != nil {
			ref.Name = tok.Text
			ref.Source = token.Span(tok, sfx)
		}
		return ref, true
	}
	return nil, false
}

// apostropheSuffix accepts a case suffix set off by an apostrophe, as in
// "x'in", and returns the suffix token.  Some suffixes ("ya", "da") lex as
// keywords.
func (p *Parser) apostropheSuffix() *token.Token {
	if p.PeekType(0) != token.APOSTROPHE {
		return nil
	}
	if typ := p.PeekType(1); typ != token.IDENT && !typ.IsKeyword() {
		return nil
	}
	p.pos += 2
	return p.prev()
}

// parseParen parses "( <expr> )".  Nesting beyond the depth limit is not
// parsed; the enclosing construct fails and its tokens end up skipped.
func (p *Parser) parseParen() (ast.Expression, bool) {
	start := p.pos
	if p.depth >= p.maxDepth {
		p.prog.Truncated = true
		return nil, false
	}
	p.pos++
	e := p.parseExpr()
	if e == nil || !p.Accept(token.PAREN_R) {
		p.pos = start
		return nil, false
	}
	return e, true
}

// isPatternMatch reports whether a function body begins with a clause
// pattern, that is a short run of tokens ending in a conditional word and a
// comma.
func (p *Parser) isPatternMatch() bool {
	i, ok := p.clauseComma()
	if !ok {
		return false
	}
	_, ok = p.condCtor(p.toks[i-1])
	return ok
}

// clauseComma returns the index of the comma closing the clause pattern that
// starts at the current position.
func (p *Parser) clauseComma() (int, bool) {
	depth := 0
	for i := p.pos; i < p.limit && i < p.pos+clauseScan; i++ {
		switch p.toks[i].Type {
		case token.PAREN_L:
			depth++
		case token.PAREN_R:
			depth--
		case token.DOT:
			return 0, false
		case token.COMMA:
			if depth == 0 {
				return i, i > p.pos
			}
		}
	}
	return 0, false
}

// condCtor returns the constructor a conditional word tests for.  The empty
// name stands for the catch-all "değilse".
func (p *Parser) condCtor(tok *token.Token) (string, bool) {
	switch tok.Type {
	case token.KW_DOGRUYSA:
		return "doğru", true
	case token.KW_YANLISSA:
		return "yanlış", true
	case token.KW_DEGILSE:
		return "", true
	case token.IDENT:
		base, ok := morph.SplitConditional(tok.Text)
		if !ok {
			return "", false
		}
		if r, ok := morph.ResolveKnown(base, p.isCtor); ok {
			return r.Base, true
		}
		return morph.StripPossessive(base), true
	}
	return "", false
}

func (p *Parser) isCtor(name string) bool { return p.ctors[name] }

// parsePatternMatch parses comma separated clauses ending with a period.
//
//	bu sıfırsa, şu,
//	öncülünün ardılıysa, (öncülünün) (şunun) toplamının ardılı.
func (p *Parser) parsePatternMatch(params []*ast.Param) *ast.PatternMatch {
	start := p.pos
	pm := &ast.PatternMatch{}
	for {
		clause := p.parseClause(pm, params)
		if clause == nil {
			p.pos = start
			return nil
		}
		pm.Clauses = append(pm.Clauses, clause)
		if p.Accept(token.COMMA) {
			continue
		}
		if p.acceptEnd() {
			break
		}
		p.pos = start
		return nil
	}
	if pm.Scrutinee == "" {
		pm.Scrutinee = defaultScrutinee
	}
	pm.Source = p.span(start)
	return pm
}

func (p *Parser) parseClause(pm *ast.PatternMatch, params []*ast.Param) *ast.Clause {
	start := p.pos
	comma, ok := p.clauseComma()
	if !ok {
		return nil
	}
	condTok := p.toks[comma-1]
	ctor, ok := p.condCtor(condTok)
	if !ok {
		return nil
	}
	clause := &ast.Clause{Ctor: ctor, CtorRange: token.Span(condTok, condTok)}
	var words []*token.Token
	for _, tok := range p.toks[start : comma-1] {
		if tok.Type == token.IDENT {
			words = append(words, tok)
		}
	}
	subject := -1
	for i, w := range words {
		if i >= 3 {
			break
		}
		if w.Text == defaultScrutinee || isParam(params, w.Text) {
			subject = i
			break
		}
	}
	if subject >= 0 && pm.Scrutinee == "" {
		pm.Scrutinee = words[subject].Text
	}
	for i, w := range words {
		if i == subject {
			continue
		}
		b := morph.FindBaseIdentifier(w.Text).Base
		clause.Binders = append(clause.Binders, b)
		if p.params != nil {
			p.params[b] = true
		}
	}
	p.pos = comma + 1
	clause.Result = p.parseExpr()
	if clause.Result == nil {
		p.pos = start
		return nil
	}
	clause.Source = p.span(start)
	return clause
}

func isParam(params []*ast.Param, name string) bool {
	for _, prm := range params {
		if prm.Name == name {
			return true
		}
	}
	return false
}

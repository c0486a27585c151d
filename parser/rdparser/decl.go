// Copyright © 2024 The kip-ls authors

package rdparser

import (
	"strings"

	"github.com/kip-lang/kip-ls/morph"
	"github.com/kip-lang/kip-ls/parser/ast"
	"github.com/kip-lang/kip-ls/parser/token"
)

// parsePrimitiveType parses "Bir yerleşik <name...> olsun."
func (p *Parser) parsePrimitiveType() bool {
	start := p.pos
	if !p.Accept(token.KW_BIR) || !p.Accept(token.KW_YERLESIK) {
		return false
	}
	nameStart := p.pos
	words := p.typeName()
	if len(words) == 0 || !p.Accept(token.KW_OLSUN) {
		return false
	}
	nameRange := token.Span(p.toks[nameStart], p.toks[nameStart+len(words)-1])
	if !p.acceptEnd() {
		return false
	}
	p.addType(&ast.TypeDecl{
		Name:      strings.Join(words, " "),
		NameParts: words,
		Kind:      ast.TypePrimitive,
		Source:    p.span(start),
		NameRange: nameRange,
	})
	return true
}

// parseEmptyType parses "Bir <name...> var olamaz."
func (p *Parser) parseEmptyType() bool {
	start := p.pos
	if !p.Accept(token.KW_BIR) {
		return false
	}
	nameStart := p.pos
	words := p.typeName()
	if len(words) == 0 || !p.Accept(token.KW_VAR) || !p.Accept(token.KW_OLAMAZ) {
		return false
	}
	nameRange := token.Span(p.toks[nameStart], p.toks[nameStart+len(words)-1])
	if !p.acceptEnd() {
		return false
	}
	p.addType(&ast.TypeDecl{
		Name:      strings.Join(words, " "),
		NameParts: words,
		Kind:      ast.TypeEmpty,
		Source:    p.span(start),
		NameRange: nameRange,
	})
	return true
}

// parseUnionType parses
//
//	Bir <name...> ya <ctor> [bir <type>]... [,] ya da <ctor> ... olabilir.
//
// The type name is known while its constructors are parsed so recursive
// types resolve their own argument types.
func (p *Parser) parseUnionType() bool {
	start := p.pos
	if !p.Accept(token.KW_BIR) {
		return false
	}
	nameStart := p.pos
	words := p.typeName()
	if len(words) == 0 || p.PeekType(0) != token.KW_YA {
		return false
	}
	decl := &ast.TypeDecl{
		Name:      strings.Join(words, " "),
		NameParts: words,
		Kind:      ast.TypeUnion,
		NameRange: token.Span(p.toks[nameStart], p.toks[nameStart+len(words)-1]),
	}
	declared := p.types[decl.Name]
	p.types[decl.Name] = true
	ok := p.parseCtors(decl)
	if !ok {
		p.types[decl.Name] = declared
		return false
	}
	decl.Source = p.span(start)
	p.addType(decl)
	return true
}

func (p *Parser) parseCtors(decl *ast.TypeDecl) bool {
	for {
		if len(decl.Ctors) > 0 {
			p.Accept(token.COMMA)
		}
		if !p.Accept(token.KW_YA) {
			break
		}
		p.Accept(token.KW_DA)
		ctor := p.parseCtor()
		if ctor == nil {
			return false
		}
		decl.Ctors = append(decl.Ctors, ctor)
	}
	if len(decl.Ctors) == 0 || !p.Accept(token.KW_OLABILIR) {
		return false
	}
	return p.acceptEnd()
}

// parseCtor parses one constructor segment.  Arguments are each introduced
// by "bir" and precede the constructor name, which carries a possessive
// ending when arguments are present: "bir doğal-sayının ardılı".
func (p *Parser) parseCtor() *ast.Ctor {
	start := p.pos
	var seg []*token.Token
	for {
		tok := p.Peek(0)
		if tok == nil {
			break
		}
		switch tok.Type {
		case token.COMMA, token.KW_YA, token.KW_OLABILIR, token.DOT:
		default:
			seg = append(seg, tok)
			p.pos++
			continue
		}
		break
	}
	if len(seg) == 0 {
		return nil
	}
	nameTok := seg[len(seg)-1]
	if !isCtorName(nameTok.Type) {
		return nil
	}
	ctor := &ast.Ctor{Name: nameTok.Text, Source: p.span(start)}
	args := seg[:len(seg)-1]
	if len(args) == 0 {
		return ctor
	}
	if args[0].Type != token.KW_BIR {
		return nil
	}
	var group []*token.Token
	flush := func() bool {
		if len(group) == 0 {
			return false
		}
		ctor.Params = append(ctor.Params, p.typeRef(group))
		group = nil
		return true
	}
	for _, tok := range args[1:] {
		switch tok.Type {
		case token.KW_BIR:
			if !flush() {
				return nil
			}
		case token.IDENT:
			group = append(group, tok)
		default:
			return nil
		}
	}
	if !flush() {
		return nil
	}
	ctor.Name = morph.StripPossessive(nameTok.Text)
	return ctor
}

func isCtorName(typ token.Type) bool {
	return typ == token.IDENT || typ == token.KW_DOGRU || typ == token.KW_YANLIS
}

// typeName accepts the words of a declared type name.
func (p *Parser) typeName() []string {
	var words []string
	for p.PeekType(0) == token.IDENT {
		words = append(words, p.Peek(0).Text)
		p.pos++
	}
	return words
}

// typeRef builds a reference to a type from the words naming it at a use
// site.  The case suffix on the last word is resolved against declared
// types.
func (p *Parser) typeRef(words []*token.Token) *ast.TypeRef {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	text := strings.Join(parts, " ")
	return &ast.TypeRef{
		Text:   text,
		Name:   p.resolve(text, p.isType),
		Source: token.Span(words[0], words[len(words)-1]),
	}
}

func (p *Parser) isType(name string) bool { return p.types[name] }

func (p *Parser) addType(decl *ast.TypeDecl) {
	p.types[decl.Name] = true
	for _, c := range decl.Ctors {
		p.ctors[c.Name] = true
	}
	p.prog.Decls = append(p.prog.Decls, decl)
}

// parseVarDef parses "[<value>] <name>... diyelim."  When every token before
// "diyelim" is an identifier they are all bound names.  Otherwise the
// shortest trailing run of names that leaves a fully parsed value is used.
func (p *Parser) parseVarDef() bool {
	start := p.pos
	end := p.sentenceEnd()
	kw := end - 1
	if kw <= start || p.toks[kw].Type != token.KW_DIYELIM {
		return false
	}
	run := 0
	for i := kw - 1; i >= start && p.toks[i].Type == token.IDENT; i-- {
		run++
	}
	if run == 0 {
		return false
	}
	def := &ast.VarDef{}
	namesStart := kw - run
	if namesStart > start {
		namesStart = -1
		for k := 1; k <= run; k++ {
			ns := kw - k
			var value ast.Expression
			p.pos = start
			p.withLimit(ns, func() { value = p.parseExpr() })
			if value != nil && p.pos == ns {
				def.Value = value
				namesStart = ns
				break
			}
		}
		if namesStart < 0 {
			return false
		}
	}
	for _, tok := range p.toks[namesStart:kw] {
		def.Names = append(def.Names, tok.Text)
		def.Ranges = append(def.Ranges, token.Span(tok, tok))
	}
	p.pos = kw + 1
	if !p.acceptEnd() {
		return false
	}
	def.Source = p.span(start)
	for _, name := range def.Names {
		p.variables[name] = true
	}
	p.prog.Decls = append(p.prog.Decls, def)
	return true
}

// parseFuncDef parses a function definition header followed by its body.
//
//	(<param> <type...>)... <name>, <body>.
//	<name-mak>, <body>.
//	(<param> <type...>)... <name> yerleşiktir.
//
// Once the header is read the definition is kept even if the body cannot be
// parsed; the body tokens are then left for the main loop.
func (p *Parser) parseFuncDef() bool {
	start := p.pos
	var params []*ast.Param
	for p.PeekType(0) == token.PAREN_L {
		prm := p.parseParam()
		if prm == nil {
			return false
		}
		params = append(params, prm)
	}
	nameTok := p.Peek(0)
	if nameTok == nil || nameTok.Type != token.IDENT {
		return false
	}
	gerund := morph.HasGerundSuffix(nameTok.Text)
	if len(params) == 0 && !gerund {
		return false
	}
	p.pos++
	// Calls spell a function with its possessive ending and inflect that
	// form, so the name is kept as written.
	def := &ast.FuncDef{
		Name:      nameTok.Text,
		Params:    params,
		Gerund:    gerund,
		NameRange: token.Span(nameTok, nameTok),
	}
	if gerund {
		def.Name = morph.GerundStem(nameTok.Text)
	}
	switch {
	case p.Accept(token.KW_YERLESIKTIR):
		if !p.acceptEnd() {
			return false
		}
		def.Builtin = true
	case p.Accept(token.COMMA):
	default:
		return false
	}
	p.functions[def.Name] = true
	p.prog.Decls = append(p.prog.Decls, def)
	if def.Builtin {
		def.Source = p.span(start)
		return true
	}

	p.params = make(map[string]bool, len(params))
	for _, prm := range params {
		p.params[prm.Name] = true
	}
	defer func() { p.params = nil }()

	header := p.pos
	def.Source = p.span(start)
	if p.isPatternMatch() {
		def.Body = p.parsePatternMatch(params)
		if def.Body == nil {
			p.pos = header
			return true
		}
	} else {
		def.Result = p.parseExpr()
		if def.Result == nil || !p.acceptEnd() {
			def.Result = nil
			p.pos = header
			return true
		}
	}
	def.Source = p.span(start)
	return true
}

// parseParam parses "(<name> <type words...>)".
func (p *Parser) parseParam() *ast.Param {
	start := p.pos
	if !p.Accept(token.PAREN_L) {
		return nil
	}
	nameTok := p.Peek(0)
	if nameTok == nil || nameTok.Type != token.IDENT {
		return nil
	}
	p.pos++
	var words []*token.Token
	for p.PeekType(0) == token.IDENT {
		words = append(words, p.Peek(0))
		p.pos++
	}
	if len(words) == 0 || !p.Accept(token.PAREN_R) {
		return nil
	}
	return &ast.Param{
		Name:   nameTok.Text,
		Type:   p.typeRef(words),
		Source: p.span(start),
	}
}

// parseStatement parses a bare expression ending a sentence.
func (p *Parser) parseStatement() bool {
	e := p.parseExpr()
	if e == nil || !p.acceptEnd() {
		return false
	}
	p.prog.Exprs = append(p.prog.Exprs, e)
	return true
}

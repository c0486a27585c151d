// Copyright © 2024 The kip-ls authors

// Package analysis builds the symbol tables of a kip document.
//
// Analyze walks a parsed program once.  Declarations populate the name sets
// and detail maps; expressions are visited with an explicit worklist to
// collect every referenced name.  The walk is bounded by Config and reports
// any part of the program it did not visit through Tables.Partial.
package analysis

import (
	"strings"

	"github.com/kip-lang/kip-ls/morph"
	"github.com/kip-lang/kip-ls/parser/ast"
	"github.com/kip-lang/kip-ls/parser/token"
)

// Config controls the bounds of an analysis run.
type Config struct {
	// MaxDepth is the deepest expression nesting visited.
	MaxDepth int

	// NodeBudget is the number of expression nodes visited before the walk
	// gives up.
	NodeBudget int
}

// DefaultConfig returns the bounds used when none are configured.
func DefaultConfig() Config {
	return Config{MaxDepth: 100, NodeBudget: 10000}
}

func (cfg Config) withDefaults() Config {
	def := DefaultConfig()
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.NodeBudget <= 0 {
		cfg.NodeBudget = def.NodeBudget
	}
	return cfg
}

// Analyze builds the symbol tables for prog.  It never fails; a nil program
// yields empty tables.
func Analyze(prog *ast.Program, cfg Config) *Tables {
	a := &analyzer{
		cfg:    cfg.withDefaults(),
		tables: NewTables(),
	}
	if prog == nil {
		return a.tables
	}
	if prog.Truncated {
		a.truncate(1)
	}
	for _, d := range prog.Decls {
		a.declare(d)
	}
	for _, d := range prog.Decls {
		a.walkDecl(d)
	}
	for _, e := range prog.Exprs {
		a.walk(e)
	}
	return a.tables
}

type analyzer struct {
	cfg    Config
	tables *Tables
	nodes  int
}

func (a *analyzer) truncate(n int) {
	a.tables.Partial = true
	a.tables.Truncated += n
}

// declare enters the names introduced by d.
func (a *analyzer) declare(d ast.Decl) {
	switch d := d.(type) {
	case *ast.TypeDecl:
		a.declareType(d)
	case *ast.FuncDef:
		a.declareFunc(d)
	case *ast.VarDef:
		for i, name := range d.Names {
			a.tables.define(&Symbol{
				Name:   name,
				Kind:   SymVariable,
				Source: d.Ranges[i],
				Detail: name + " diyelim.",
			})
		}
	}
}

func (a *analyzer) declareType(d *ast.TypeDecl) {
	t := a.tables
	sym := &Symbol{
		Name:   d.Name,
		Kind:   SymType,
		Source: d.NameRange,
		Detail: typeDetail(d),
	}
	for _, c := range d.Ctors {
		sym.Ctors = append(sym.Ctors, c.Name)
	}
	t.define(sym)
	t.TypePhrases[d.Name] = d.Name
	if len(d.NameParts) > 1 {
		for _, w := range d.NameParts {
			t.Types.Add(w)
			t.TypePhrases[w] = d.Name
		}
	}
	for _, c := range d.Ctors {
		ctor := &Symbol{
			Name:   c.Name,
			Kind:   SymConstructor,
			Source: c.Source,
			Type:   d.Name,
			Detail: ctorDetail(c, d.Name),
		}
		for _, prm := range c.Params {
			ctor.Params = append(ctor.Params, prm.Name)
			a.reference(prm.Name, prm.Text, SymType, prm.Source)
		}
		t.define(ctor)
		t.Constructors[c.Name] = d.Name
	}
}

func (a *analyzer) declareFunc(d *ast.FuncDef) {
	kind := SymFunction
	if d.Builtin {
		kind = SymBuiltin
	}
	sym := &Symbol{
		Name:   d.Name,
		Kind:   kind,
		Source: d.NameRange,
		Detail: funcDetail(d),
	}
	for _, prm := range d.Params {
		sym.Params = append(sym.Params, prm.Type.Name)
	}
	a.tables.define(sym)
	if d.Gerund {
		alias := *sym
		alias.Name = morph.Gerund(d.Name)
		a.tables.define(&alias)
	}
}

// walkDecl visits the parameters and expressions inside d.
func (a *analyzer) walkDecl(d ast.Decl) {
	switch d := d.(type) {
	case *ast.FuncDef:
		for _, prm := range d.Params {
			a.tables.define(&Symbol{
				Name:   prm.Name,
				Kind:   SymParameter,
				Source: prm.Source,
				Type:   prm.Type.Name,
				Detail: "(" + prm.Name + " " + prm.Type.Text + ")",
			})
			a.reference(prm.Type.Name, prm.Type.Text, SymType, prm.Type.Source)
		}
		if d.Body != nil {
			a.walk(d.Body)
		}
		if d.Result != nil {
			a.walk(d.Result)
		}
	case *ast.VarDef:
		if d.Value != nil {
			a.walk(d.Value)
		}
	}
}

type workItem struct {
	expr  ast.Expression
	depth int
}

// walk visits root and its subexpressions with an explicit stack.  Subtrees
// nested deeper than MaxDepth, and those still pending once NodeBudget is
// spent, are counted in Tables.Truncated instead of being visited.
func (a *analyzer) walk(root ast.Expression) {
	stack := []workItem{{expr: root, depth: 1}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if item.expr == nil {
			continue
		}
		if a.nodes >= a.cfg.NodeBudget {
			a.truncate(len(stack) + 1)
			return
		}
		if item.depth > a.cfg.MaxDepth {
			a.truncate(1)
			continue
		}
		a.nodes++
		a.visit(item.expr)
		children := ast.Children(item.expr)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, workItem{expr: children[i], depth: item.depth + 1})
		}
	}
}

func (a *analyzer) visit(e ast.Expression) {
	t := a.tables
	switch e := e.(type) {
	case *ast.FuncCall:
		a.reference(e.Name, e.Text, SymFunction, e.NameRange)
	case *ast.VarRef:
		t.VariableRefs.Add(e.Name)
		a.reference(e.Name, e.Text, SymVariable, e.Source)
	case *ast.PatternMatch:
		t.VariableRefs.Add(e.Scrutinee)
		for _, c := range e.Clauses {
			if c.Ctor != "" {
				a.reference(c.Ctor, c.Ctor, SymConstructor, c.CtorRange)
			}
			for _, b := range c.Binders {
				if !t.Variables.Has(b) {
					t.define(&Symbol{Name: b, Kind: SymBinder, Source: c.Source, Detail: b})
				}
			}
		}
	}
}

func (a *analyzer) reference(name, text string, kind SymbolKind, rng token.Range) {
	if name == "" {
		return
	}
	a.tables.References = append(a.tables.References, &Reference{
		Name:   name,
		Text:   text,
		Kind:   kind,
		Source: rng,
	})
}

func typeDetail(d *ast.TypeDecl) string {
	switch d.Kind {
	case ast.TypePrimitive:
		return "Bir yerleşik " + d.Name + " olsun."
	case ast.TypeEmpty:
		return "Bir " + d.Name + " var olamaz."
	}
	alts := make([]string, len(d.Ctors))
	for i, c := range d.Ctors {
		alts[i] = ctorText(c)
	}
	var b strings.Builder
	b.WriteString("Bir ")
	b.WriteString(d.Name)
	for i, alt := range alts {
		if i == len(alts)-1 && i > 0 {
			b.WriteString(" ya da ")
		} else {
			b.WriteString(" ya ")
		}
		b.WriteString(alt)
	}
	b.WriteString(" olabilir.")
	return b.String()
}

func ctorText(c *ast.Ctor) string {
	var parts []string
	for _, prm := range c.Params {
		parts = append(parts, "bir "+prm.Text)
	}
	return strings.Join(append(parts, c.Name), " ")
}

func ctorDetail(c *ast.Ctor, typ string) string {
	return ctorText(c) + " : " + typ
}

func funcDetail(d *ast.FuncDef) string {
	var parts []string
	for _, prm := range d.Params {
		parts = append(parts, "("+prm.Name+" "+prm.Type.Text+")")
	}
	name := d.Name
	if d.Gerund {
		name = morph.Gerund(d.Name)
	}
	parts = append(parts, name)
	if d.Builtin {
		parts = append(parts, "yerleşiktir")
	}
	return strings.Join(parts, " ")
}

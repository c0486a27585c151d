// Copyright © 2024 The kip-ls authors

// Package astutil provides shared walking utilities for kip syntax trees.
//
// These helpers are used by the lint and lsp packages for traversing parsed
// programs and locating comments in source text.
package astutil

import (
	"strings"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/parser/ast"
	"github.com/kip-lang/kip-ls/parser/token"
)

// Roots returns the expression trees held by decl in source order.
func Roots(decl ast.Decl) []ast.Expression {
	switch d := decl.(type) {
	case *ast.FuncDef:
		var out []ast.Expression
		if d.Body != nil {
			out = append(out, d.Body)
		}
		if d.Result != nil {
			out = append(out, d.Result)
		}
		return out
	case *ast.VarDef:
		if d.Value != nil {
			return []ast.Expression{d.Value}
		}
	}
	return nil
}

// Walk calls fn for every expression in prog, depth-first.  Declarations are
// visited before top level statements.  parent is nil for root expressions.
func Walk(prog *ast.Program, fn func(node ast.Expression, parent ast.Expression, depth int)) {
	if prog == nil {
		return
	}
	for _, decl := range prog.Decls {
		for _, root := range Roots(decl) {
			walkNode(root, nil, 0, fn)
		}
	}
	for _, e := range prog.Exprs {
		walkNode(e, nil, 0, fn)
	}
}

// WalkExpr calls fn for root and every expression below it, depth-first.
func WalkExpr(root ast.Expression, fn func(node ast.Expression, parent ast.Expression, depth int)) {
	walkNode(root, nil, 0, fn)
}

func walkNode(node ast.Expression, parent ast.Expression, depth int, fn func(ast.Expression, ast.Expression, int)) {
	if node == nil {
		return
	}
	fn(node, parent, depth)
	for _, child := range ast.Children(node) {
		walkNode(child, node, depth+1, fn)
	}
}

// WalkMatches calls fn for every pattern match in prog.
func WalkMatches(prog *ast.Program, fn func(pm *ast.PatternMatch, depth int)) {
	Walk(prog, func(node ast.Expression, _ ast.Expression, depth int) {
		if pm, ok := node.(*ast.PatternMatch); ok {
			fn(pm, depth)
		}
	})
}

// UsedNames returns the names referred to below root: variable references
// in both their resolved and written forms, called functions and pattern
// match subjects.
func UsedNames(root ast.Expression) map[string]bool {
	used := make(map[string]bool)
	WalkExpr(root, func(node ast.Expression, _ ast.Expression, _ int) {
		switch n := node.(type) {
		case *ast.VarRef:
			used[n.Name] = true
			used[n.Text] = true
		case *ast.FuncCall:
			used[n.Name] = true
		case *ast.PatternMatch:
			used[n.Scrutinee] = true
		}
	})
	return used
}

// Name is a name introduced by a declaration.
type Name struct {
	Name  string
	Kind  analysis.SymbolKind
	Range token.Range
}

// DeclaredNames returns the names decl introduces at the top level: a type
// and its constructors, a function, or the variables of a binding.
func DeclaredNames(decl ast.Decl) []Name {
	switch d := decl.(type) {
	case *ast.TypeDecl:
		out := []Name{{Name: d.Name, Kind: analysis.SymType, Range: SourceOf(d.NameRange, d.Source)}}
		for _, c := range d.Ctors {
			out = append(out, Name{Name: c.Name, Kind: analysis.SymConstructor, Range: c.Source})
		}
		return out
	case *ast.FuncDef:
		kind := analysis.SymFunction
		if d.Builtin {
			kind = analysis.SymBuiltin
		}
		return []Name{{Name: d.Name, Kind: kind, Range: SourceOf(d.NameRange, d.Source)}}
	case *ast.VarDef:
		out := make([]Name, 0, len(d.Names))
		for i, name := range d.Names {
			rng := d.Source
			if i < len(d.Ranges) {
				rng = SourceOf(d.Ranges[i], d.Source)
			}
			out = append(out, Name{Name: name, Kind: analysis.SymVariable, Range: rng})
		}
		return out
	}
	return nil
}

// SourceOf returns the best of the given ranges: the first one carrying a
// line number.
func SourceOf(ranges ...token.Range) token.Range {
	for _, r := range ranges {
		if r.Start != nil && r.Start.Line > 0 {
			return r
		}
	}
	return token.Range{}
}

// Comment is a "(* ... *)" comment found in source text.
type Comment struct {
	Text    string // contents between the delimiters, trimmed
	Line    int    // 1-based line of the opening delimiter
	EndLine int    // 1-based line of the closing delimiter
}

// Comments returns the comments of src in order.  Delimiters inside string
// literals are ignored and an unterminated comment runs to the end of src.
func Comments(src string) []Comment {
	var out []Comment
	line := 1
	inString := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '\n':
			line++
		case inString && c == '\\':
			if i+1 < len(src) && src[i+1] == '\n' {
				line++
			}
			i++
		case c == '"':
			inString = !inString
		case !inString && strings.HasPrefix(src[i:], "(*"):
			body := src[i+2:]
			end := strings.Index(body, "*)")
			if end < 0 {
				end = len(body)
			}
			text := body[:end]
			span := strings.Count(text, "\n")
			out = append(out, Comment{
				Text:    strings.TrimSpace(text),
				Line:    line,
				EndLine: line + span,
			})
			line += span
			i += 2 + end + 1 // lands on the closing ')'
		}
	}
	return out
}

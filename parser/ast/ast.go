// Copyright © 2024 The kip-ls authors

// Package ast defines the syntax tree produced by the kip parser.
//
// Decl and Expression are closed sum types.  Each is an interface with an
// unexported marker method so only the node types in this package satisfy
// it; consumers switch on the concrete type.
package ast

import "github.com/kip-lang/kip-ls/parser/token"

// Node is implemented by every syntax tree node.
type Node interface {
	Range() token.Range
}

// Program is the result of parsing one document.
type Program struct {
	Decls []Decl
	Exprs []Expression

	// Skipped lists tokens the parser could not place in any construct.
	Skipped []token.Range

	// Truncated is set when nesting deeper than the parser's depth limit was
	// skipped without being parsed.
	Truncated bool
}

// Decl is a top level declaration: *TypeDecl, *FuncDef or *VarDef.
type Decl interface {
	Node
	decl()
}

// TypeKind distinguishes the three forms of type declaration.
type TypeKind int

const (
	TypePrimitive TypeKind = iota // Bir yerleşik X olsun.
	TypeEmpty                     // Bir X var olamaz.
	TypeUnion                     // Bir X ya A ya da B olabilir.
)

func (k TypeKind) String() string {
	switch k {
	case TypePrimitive:
		return "primitive"
	case TypeEmpty:
		return "empty"
	case TypeUnion:
		return "union"
	default:
		return "unknown"
	}
}

// TypeDecl declares a possibly multi-word type name.
type TypeDecl struct {
	Name      string   // words of the name joined by a space
	NameParts []string // words composing the name, in order
	Kind      TypeKind
	Ctors     []*Ctor
	Source    token.Range
	NameRange token.Range
}

// Ctor is a constructor of a union type.
type Ctor struct {
	Name   string
	Params []*TypeRef
	Source token.Range
}

// TypeRef names a type as written at a use site along with its resolved base.
type TypeRef struct {
	Text   string
	Name   string
	Source token.Range
}

// Param is a function parameter written as "(bu tam-sayıyı)".
type Param struct {
	Name   string
	Type   *TypeRef
	Source token.Range
}

// FuncDef defines a function.  A definition written in gerund form
// ("yazdırmak,") has Gerund set and Name holds the stem.  Builtin functions
// ("... yerleşiktir.") have neither Body nor Result.
type FuncDef struct {
	Name      string
	Params    []*Param
	Gerund    bool
	Builtin   bool
	Body      *PatternMatch
	Result    Expression
	Source    token.Range
	NameRange token.Range
}

// VarDef binds names with "diyelim".
type VarDef struct {
	Names  []string
	Ranges []token.Range
	Value  Expression
	Source token.Range
}

func (d *TypeDecl) Range() token.Range { return d.Source }
func (d *FuncDef) Range() token.Range  { return d.Source }
func (d *VarDef) Range() token.Range   { return d.Source }

func (*TypeDecl) decl() {}
func (*FuncDef) decl()  {}
func (*VarDef) decl()   {}

// Expression is one of *FuncCall, *VarRef, *Literal, *Conditional or
// *PatternMatch.
type Expression interface {
	Node
	expr()
}

// FuncCall applies a function.  Arguments precede the function name in
// source: "(5'in) (3'ün) toplamı".
type FuncCall struct {
	Name      string // resolved base
	Text      string // as written
	Args      []Expression
	Source    token.Range
	NameRange token.Range
}

// VarRef refers to a name.
type VarRef struct {
	Name   string // resolved base
	Text   string // as written
	Source token.Range
}

// Literal is a number or string literal, possibly carrying a case suffix.
type Literal struct {
	Kind   token.Type
	Text   string
	Source token.Range
}

// Conditional is "<cond> ise <then>, değilse <else>".
type Conditional struct {
	Cond   Expression
	Then   Expression
	Else   Expression
	Source token.Range
}

// PatternMatch dispatches on the constructor of Scrutinee.
type PatternMatch struct {
	Scrutinee string
	Clauses   []*Clause
	Source    token.Range
}

// Clause is one "<pattern>, <result>" arm of a pattern match.  Ctor is empty
// for the catch-all "değilse" arm.
type Clause struct {
	Ctor      string
	Binders   []string
	Result    Expression
	Source    token.Range
	CtorRange token.Range
}

func (e *FuncCall) Range() token.Range     { return e.Source }
func (e *VarRef) Range() token.Range       { return e.Source }
func (e *Literal) Range() token.Range      { return e.Source }
func (e *Conditional) Range() token.Range  { return e.Source }
func (e *PatternMatch) Range() token.Range { return e.Source }

func (*FuncCall) expr()     {}
func (*VarRef) expr()       {}
func (*Literal) expr()      {}
func (*Conditional) expr()  {}
func (*PatternMatch) expr() {}

// Children returns the direct subexpressions of e in source order.
func Children(e Expression) []Expression {
	switch e := e.(type) {
	case *FuncCall:
		return e.Args
	case *Conditional:
		var out []Expression
		for _, c := range []Expression{e.Cond, e.Then, e.Else} {
			if c != nil {
				out = append(out, c)
			}
		}
		return out
	case *PatternMatch:
		var out []Expression
		for _, c := range e.Clauses {
			if c.Result != nil {
				out = append(out, c.Result)
			}
		}
		return out
	}
	return nil
}

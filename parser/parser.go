// Copyright © 2024 The kip-ls authors

// Package parser is the entry point for turning kip source text into a
// syntax tree.
package parser

import (
	"github.com/kip-lang/kip-ls/parser/ast"
	"github.com/kip-lang/kip-ls/parser/lexer"
	"github.com/kip-lang/kip-ls/parser/rdparser"
	"github.com/kip-lang/kip-ls/parser/token"
)

// Option configures parsing.
type Option = rdparser.Option

// WithMaxDepth bounds expression nesting.
func WithMaxDepth(n int) Option {
	return rdparser.WithMaxDepth(n)
}

// ParseString lexes and parses src.  The token stream is returned alongside
// the program because the semantic token emitter works from tokens.
func ParseString(file, src string, opts ...Option) ([]*token.Token, *ast.Program) {
	toks := lexer.Tokenize(file, src)
	return toks, rdparser.New(toks, opts...).ParseProgram()
}

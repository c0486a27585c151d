// Copyright © 2024 The kip-ls authors

package astutil

import (
	"testing"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/parser/ast"
	"github.com/kip-lang/kip-ls/parser/lexer"
	"github.com/kip-lang/kip-ls/parser/rdparser"
	"github.com/kip-lang/kip-ls/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog := rdparser.New(lexer.Tokenize("test.kip", src)).ParseProgram()
	require.Empty(t, prog.Skipped)
	return prog
}

const natSource = `Bir doğal-sayı ya sıfır ya da bir doğal-sayının ardılı olabilir.
(x doğal-sayının) öncülü,
  sıfırsa, sıfır,
  öncülün ardılıysa, öncül.
5'e y diyelim.
x diyelim. x ise 1, değilse 2.
`

func TestRoots(t *testing.T) {
	prog := parse(t, natSource)
	require.Len(t, prog.Decls, 4)
	assert.Empty(t, Roots(prog.Decls[0]))

	roots := Roots(prog.Decls[1])
	require.Len(t, roots, 1)
	assert.IsType(t, &ast.PatternMatch{}, roots[0])

	roots = Roots(prog.Decls[2])
	require.Len(t, roots, 1)
	assert.IsType(t, &ast.Literal{}, roots[0])

	assert.Empty(t, Roots(prog.Decls[3]))
}

func TestRoots_Builtin(t *testing.T) {
	prog := parse(t, `(bu dizgeyi) yazdırmak yerleşiktir.`)
	require.Len(t, prog.Decls, 1)
	assert.Empty(t, Roots(prog.Decls[0]))
}

func TestWalk(t *testing.T) {
	prog := parse(t, natSource)
	var kinds []string
	var roots int
	Walk(prog, func(node ast.Expression, parent ast.Expression, depth int) {
		if parent == nil {
			roots++
			assert.Equal(t, 0, depth)
		}
		switch node.(type) {
		case *ast.PatternMatch:
			kinds = append(kinds, "match")
		case *ast.Conditional:
			kinds = append(kinds, "cond")
		case *ast.VarRef:
			kinds = append(kinds, "ref")
		case *ast.Literal:
			kinds = append(kinds, "lit")
		case *ast.FuncCall:
			kinds = append(kinds, "call")
		}
	})
	assert.Equal(t, 3, roots)
	// Declarations first, then the statement; children in source order.
	assert.Equal(t, []string{"match", "ref", "ref", "lit", "cond", "ref", "lit", "lit"}, kinds)
}

func TestWalk_NilProgram(t *testing.T) {
	called := false
	Walk(nil, func(ast.Expression, ast.Expression, int) { called = true })
	assert.False(t, called)
}

func TestWalkMatches(t *testing.T) {
	prog := parse(t, natSource)
	var scrutinees []string
	WalkMatches(prog, func(pm *ast.PatternMatch, depth int) {
		scrutinees = append(scrutinees, pm.Scrutinee)
		assert.Equal(t, 0, depth)
	})
	assert.Equal(t, []string{"bu"}, scrutinees)
}

func TestUsedNames(t *testing.T) {
	prog := parse(t, `Bir yerleşik tam-sayı olsun.
(bu tam-sayının) (şu tam-sayının) toplamı yerleşiktir.
(bu tam-sayının) iki-katı, (bunun) (bunun) toplamı.`)
	fd := prog.Decls[2].(*ast.FuncDef)
	used := UsedNames(fd.Result)
	assert.True(t, used["bu"])
	assert.True(t, used["bunun"])
	assert.True(t, used["toplamı"])
	assert.False(t, used["şu"])
}

func TestDeclaredNames(t *testing.T) {
	prog := parse(t, natSource+"(bu doğal-sayıyı) yazdırmak yerleşiktir.\nx z diyelim.\n")
	require.Len(t, prog.Decls, 6)

	names := DeclaredNames(prog.Decls[0])
	require.Len(t, names, 3)
	assert.Equal(t, Name{Name: "doğal-sayı", Kind: analysis.SymType, Range: names[0].Range}, names[0])
	assert.Equal(t, 5, names[0].Range.Start.Col)
	assert.Equal(t, "sıfır", names[1].Name)
	assert.Equal(t, analysis.SymConstructor, names[1].Kind)
	assert.Equal(t, "ardıl", names[2].Name)

	names = DeclaredNames(prog.Decls[1])
	require.Len(t, names, 1)
	assert.Equal(t, "öncülü", names[0].Name)
	assert.Equal(t, analysis.SymFunction, names[0].Kind)
	assert.Equal(t, 2, names[0].Range.Start.Line)
	assert.Equal(t, 19, names[0].Range.Start.Col)

	names = DeclaredNames(prog.Decls[4])
	require.Len(t, names, 1)
	assert.Equal(t, "yazdır", names[0].Name)
	assert.Equal(t, analysis.SymBuiltin, names[0].Kind)

	names = DeclaredNames(prog.Decls[5])
	require.Len(t, names, 2)
	assert.Equal(t, "x", names[0].Name)
	assert.Equal(t, "z", names[1].Name)
	assert.Equal(t, analysis.SymVariable, names[1].Kind)
	assert.Equal(t, 3, names[1].Range.Start.Col)
}

func TestSourceOf(t *testing.T) {
	loc := &token.Location{File: "test.kip", Line: 5, Col: 2}
	other := &token.Location{File: "test.kip", Line: 9, Col: 1}
	assert.Equal(t, loc, SourceOf(token.Range{Start: loc}, token.Range{Start: other}).Start)
	assert.Equal(t, other, SourceOf(token.Range{}, token.Range{Start: other}).Start)
	assert.Nil(t, SourceOf(token.Range{Start: &token.Location{}}).Start)
	assert.Nil(t, SourceOf().Start)
}

func TestComments(t *testing.T) {
	src := `(* baş *) x diyelim.
"(* dizge *)" y'ye z diyelim.
(* çok
   satırlı *) (* nolint:unused-parameter *)
"kaçış \" (* hâlâ dizge *)"
(* bitmemiş`
	comments := Comments(src)
	require.Len(t, comments, 4)
	assert.Equal(t, Comment{Text: "baş", Line: 1, EndLine: 1}, comments[0])
	assert.Equal(t, Comment{Text: "çok\n   satırlı", Line: 3, EndLine: 4}, comments[1])
	assert.Equal(t, Comment{Text: "nolint:unused-parameter", Line: 4, EndLine: 4}, comments[2])
	assert.Equal(t, Comment{Text: "bitmemiş", Line: 6, EndLine: 6}, comments[3])
}

func TestComments_None(t *testing.T) {
	assert.Empty(t, Comments("x diyelim.\n"))
	assert.Empty(t, Comments(""))
}

// Copyright © 2024 The kip-ls authors

package rdparser

import (
	"strings"
	"testing"

	"github.com/kip-lang/kip-ls/parser/ast"
	"github.com/kip-lang/kip-ls/parser/lexer"
	"github.com/kip-lang/kip-ls/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string, opts ...Option) *ast.Program {
	t.Helper()
	prog := New(lexer.Tokenize("test.kip", src), opts...).ParseProgram()
	require.NotNil(t, prog)
	return prog
}

func typeDecl(t *testing.T, d ast.Decl) *ast.TypeDecl {
	t.Helper()
	td, ok := d.(*ast.TypeDecl)
	require.True(t, ok, "expected *ast.TypeDecl, got %T", d)
	return td
}

func funcDef(t *testing.T, d ast.Decl) *ast.FuncDef {
	t.Helper()
	fd, ok := d.(*ast.FuncDef)
	require.True(t, ok, "expected *ast.FuncDef, got %T", d)
	return fd
}

func ctorNames(td *ast.TypeDecl) []string {
	var names []string
	for _, c := range td.Ctors {
		names = append(names, c.Name)
	}
	return names
}

func TestTypeDecls(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		typ   string
		parts []string
		kind  ast.TypeKind
		ctors []string
	}{
		{"primitive", `Bir yerleşik tam-sayı olsun.`, "tam-sayı", []string{"tam-sayı"}, ast.TypePrimitive, nil},
		{"primitive multi-word", `Bir yerleşik ondalık sayı olsun.`, "ondalık sayı", []string{"ondalık", "sayı"}, ast.TypePrimitive, nil},
		{"empty", `Bir boşluk var olamaz.`, "boşluk", []string{"boşluk"}, ast.TypeEmpty, nil},
		{"union", `Bir doğruluk ya doğru ya da yanlış olabilir.`, "doğruluk", []string{"doğruluk"}, ast.TypeUnion, []string{"doğru", "yanlış"}},
		{"union with comma", `Bir renk ya kırmızı, ya yeşil, ya da mavi olabilir.`, "renk", []string{"renk"}, ast.TypeUnion, []string{"kırmızı", "yeşil", "mavi"}},
		{"missing final period", `Bir doğruluk ya doğru ya da yanlış olabilir`, "doğruluk", []string{"doğruluk"}, ast.TypeUnion, []string{"doğru", "yanlış"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			prog := parse(t, test.src)
			assert.Empty(t, prog.Skipped)
			require.Len(t, prog.Decls, 1)
			td := typeDecl(t, prog.Decls[0])
			assert.Equal(t, test.typ, td.Name)
			assert.Equal(t, test.parts, td.NameParts)
			assert.Equal(t, test.kind, td.Kind)
			assert.Equal(t, test.ctors, ctorNames(td))
		})
	}
}

func TestUnionCtorArgs(t *testing.T) {
	prog := parse(t, `Bir doğal-sayı ya sıfır ya da bir doğal-sayının ardılı olabilir.`)
	assert.Empty(t, prog.Skipped)
	require.Len(t, prog.Decls, 1)
	td := typeDecl(t, prog.Decls[0])
	require.Len(t, td.Ctors, 2)

	assert.Equal(t, "sıfır", td.Ctors[0].Name)
	assert.Empty(t, td.Ctors[0].Params)

	ardil := td.Ctors[1]
	assert.Equal(t, "ardıl", ardil.Name)
	require.Len(t, ardil.Params, 1)
	assert.Equal(t, "doğal-sayının", ardil.Params[0].Text)
	assert.Equal(t, "doğal-sayı", ardil.Params[0].Name, "recursive reference resolves to the type being declared")
}

func TestUnionMultiWordArgs(t *testing.T) {
	src := `Bir yerleşik tam-sayı olsun.
Bir öğe listesi ya boş ya da bir tam-sayının bir öğe listesinin eki olabilir.`
	prog := parse(t, src)
	assert.Empty(t, prog.Skipped)
	require.Len(t, prog.Decls, 2)
	td := typeDecl(t, prog.Decls[1])
	assert.Equal(t, "öğe listesi", td.Name)
	assert.Equal(t, []string{"öğe", "listesi"}, td.NameParts)
	assert.Equal(t, []string{"boş", "ek"}, ctorNames(td))
	ek := td.Ctors[1]
	require.Len(t, ek.Params, 2)
	assert.Equal(t, "tam-sayı", ek.Params[0].Name)
	assert.Equal(t, "öğe listesinin", ek.Params[1].Text)
	assert.Equal(t, "öğe listesi", ek.Params[1].Name)
}

func TestVarDef(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		names []string
		value bool
	}{
		{"names only", `x diyelim.`, []string{"x"}, false},
		{"several names", `x y diyelim.`, []string{"x", "y"}, false},
		{"literal value", `5'e x diyelim.`, []string{"x"}, true},
		{"string value", `"merhaba"'ya selam diyelim.`, []string{"selam"}, true},
		{"call value", `(5'in) (3'ün) toplamına x diyelim.`, []string{"x"}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			prog := parse(t, test.src)
			assert.Empty(t, prog.Skipped)
			require.Len(t, prog.Decls, 1)
			vd, ok := prog.Decls[0].(*ast.VarDef)
			require.True(t, ok)
			assert.Equal(t, test.names, vd.Names)
			assert.Len(t, vd.Ranges, len(test.names))
			assert.Equal(t, test.value, vd.Value != nil)
		})
	}
}

func TestFuncDefResult(t *testing.T) {
	src := `Bir yerleşik tam-sayı olsun.
(bu tam-sayının) (şu tam-sayının) toplamı yerleşiktir.
(bu tam-sayının) iki-katı, (bunun) (bunun) toplamı.`
	prog := parse(t, src)
	assert.Empty(t, prog.Skipped)
	require.Len(t, prog.Decls, 3)

	sum := funcDef(t, prog.Decls[1])
	assert.Equal(t, "toplamı", sum.Name)
	assert.True(t, sum.Builtin)
	require.Len(t, sum.Params, 2)
	assert.Equal(t, "bu", sum.Params[0].Name)
	assert.Equal(t, "şu", sum.Params[1].Name)
	assert.Equal(t, "tam-sayının", sum.Params[1].Type.Text)
	assert.Equal(t, "tam-sayı", sum.Params[1].Type.Name)

	double := funcDef(t, prog.Decls[2])
	assert.Equal(t, "iki-katı", double.Name)
	assert.False(t, double.Builtin)
	assert.Nil(t, double.Body)
	call, ok := double.Result.(*ast.FuncCall)
	require.True(t, ok, "got %T", double.Result)
	assert.Equal(t, "toplamı", call.Name)
	require.Len(t, call.Args, 2)
	arg, ok := call.Args[0].(*ast.VarRef)
	require.True(t, ok)
	assert.Equal(t, "bunun", arg.Text)
	assert.Equal(t, "bu", arg.Name)
}

func TestGerundDef(t *testing.T) {
	src := `(bu dizgeyi) yazdırmak yerleşiktir.
selamlamak, "merhaba"'yı yazdır.`
	prog := parse(t, src)
	assert.Empty(t, prog.Skipped)
	require.Len(t, prog.Decls, 2)

	print := funcDef(t, prog.Decls[0])
	assert.Equal(t, "yazdır", print.Name)
	assert.True(t, print.Gerund)
	assert.True(t, print.Builtin)

	greet := funcDef(t, prog.Decls[1])
	assert.Equal(t, "selamla", greet.Name)
	assert.True(t, greet.Gerund)
	assert.Empty(t, greet.Params)
	call, ok := greet.Result.(*ast.FuncCall)
	require.True(t, ok, "got %T", greet.Result)
	assert.Equal(t, "yazdır", call.Name)
	require.Len(t, call.Args, 1)
	lit, ok := call.Args[0].(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, token.STRING, lit.Kind)
	assert.Equal(t, `"merhaba"'yı`, lit.Text)
}

func TestPatternMatchBody(t *testing.T) {
	src := `Bir doğruluk ya doğru ya da yanlış olabilir.
(bu doğruluğun) tersi,
  bu doğruysa, yanlış,
  yanlışsa, doğru.`
	prog := parse(t, src)
	assert.Empty(t, prog.Skipped)
	require.Len(t, prog.Decls, 2)
	fd := funcDef(t, prog.Decls[1])
	assert.Equal(t, "tersi", fd.Name)
	require.NotNil(t, fd.Body)
	assert.Nil(t, fd.Result)
	assert.Equal(t, "bu", fd.Body.Scrutinee)
	require.Len(t, fd.Body.Clauses, 2)
	assert.Equal(t, "doğru", fd.Body.Clauses[0].Ctor)
	assert.Equal(t, "yanlış", fd.Body.Clauses[1].Ctor)
	res, ok := fd.Body.Clauses[0].Result.(*ast.VarRef)
	require.True(t, ok)
	assert.Equal(t, "yanlış", res.Name)
}

func TestPatternMatchSuffixedCtor(t *testing.T) {
	src := `Bir doğal-sayı ya sıfır ya da bir doğal-sayının ardılı olabilir.
(x doğal-sayının) öncülü,
  sıfırsa, sıfır,
  öncülün ardılıysa, öncül.`
	prog := parse(t, src)
	assert.Empty(t, prog.Skipped)
	require.Len(t, prog.Decls, 2)
	fd := funcDef(t, prog.Decls[1])
	require.NotNil(t, fd.Body)
	assert.Equal(t, "bu", fd.Body.Scrutinee, "no parameter token defaults the scrutinee")
	require.Len(t, fd.Body.Clauses, 2)
	assert.Equal(t, "sıfır", fd.Body.Clauses[0].Ctor)
	assert.Equal(t, "ardıl", fd.Body.Clauses[1].Ctor)
	assert.Equal(t, []string{"öncül"}, fd.Body.Clauses[1].Binders)
}

func TestPatternMatchScrutineeParam(t *testing.T) {
	src := `Bir doğruluk ya doğru ya da yanlış olabilir.
(x doğruluğun) değeri,
  x doğruysa, 1,
  değilse, 0.`
	prog := parse(t, src)
	assert.Empty(t, prog.Skipped)
	fd := funcDef(t, prog.Decls[1])
	require.NotNil(t, fd.Body)
	assert.Equal(t, "x", fd.Body.Scrutinee)
	require.Len(t, fd.Body.Clauses, 2)
	assert.Equal(t, "", fd.Body.Clauses[1].Ctor)
	assert.Empty(t, fd.Body.Clauses[0].Binders)
}

func TestExpressions(t *testing.T) {
	src := `(bu tam-sayının) (şu tam-sayının) toplamı yerleşiktir.
(5'in) (3'ün) toplamı.
5.0.
"dizge".
(1'in) ((2'nin) (3'ün) toplamının) toplamı.`
	prog := parse(t, src)
	assert.Empty(t, prog.Skipped)
	require.Len(t, prog.Exprs, 4)

	call, ok := prog.Exprs[0].(*ast.FuncCall)
	require.True(t, ok)
	assert.Equal(t, "toplamı", call.Name)
	require.Len(t, call.Args, 2)
	assert.Equal(t, "5'in", call.Args[0].(*ast.Literal).Text)
	assert.Equal(t, token.INT_SUFFIX, call.Args[0].(*ast.Literal).Kind)

	assert.Equal(t, token.FLOAT, prog.Exprs[1].(*ast.Literal).Kind)
	assert.Equal(t, token.STRING, prog.Exprs[2].(*ast.Literal).Kind)

	outer, ok := prog.Exprs[3].(*ast.FuncCall)
	require.True(t, ok)
	require.Len(t, outer.Args, 2)
	inner, ok := outer.Args[1].(*ast.FuncCall)
	require.True(t, ok)
	assert.Equal(t, "toplamı", inner.Name)
	assert.Equal(t, "toplamının", inner.Text)
}

func TestFuncNameKeepsPossessive(t *testing.T) {
	src := `Bir doğal-sayı ya sıfır ya da bir doğal-sayının ardılı olabilir.
(bu doğal-sayının) (şu doğal-sayının) toplamı yerleşiktir.
(1'in) ((2'nin) (3'ün) toplamının) toplamı.`
	prog := parse(t, src)
	require.Len(t, prog.Decls, 2)
	assert.Equal(t, "ardıl", prog.Decls[0].(*ast.TypeDecl).Ctors[1].Name)
	assert.Equal(t, "toplamı", prog.Decls[1].(*ast.FuncDef).Name)

	require.Len(t, prog.Exprs, 1)
	outer := prog.Exprs[0].(*ast.FuncCall)
	assert.Equal(t, "toplamı", outer.Name)
	inner := outer.Args[1].(*ast.FuncCall)
	assert.Equal(t, "toplamı", inner.Name)
}

func TestConditional(t *testing.T) {
	prog := parse(t, `x diyelim. x ise 1, değilse 2.`)
	assert.Empty(t, prog.Skipped)
	require.Len(t, prog.Exprs, 1)
	cond, ok := prog.Exprs[0].(*ast.Conditional)
	require.True(t, ok, "got %T", prog.Exprs[0])
	assert.Equal(t, "x", cond.Cond.(*ast.VarRef).Name)
	assert.Equal(t, "1", cond.Then.(*ast.Literal).Text)
	assert.Equal(t, "2", cond.Else.(*ast.Literal).Text)
}

func TestSkipAndRetry(t *testing.T) {
	src := `olabilir olsun. Bir doğruluk ya doğru ya da yanlış olabilir.`
	prog := parse(t, src)
	require.Len(t, prog.Skipped, 1, "adjacent skipped tokens merge")
	assert.Equal(t, 1, prog.Skipped[0].Start.Col)
	require.Len(t, prog.Decls, 1)
	assert.Equal(t, "doğruluk", typeDecl(t, prog.Decls[0]).Name)
}

func TestNeverFails(t *testing.T) {
	inputs := []string{
		``,
		`.`,
		`((((`,
		`))))`,
		`Bir`,
		`Bir ya`,
		`(bu) ,`,
		`diyelim.`,
		`ya da olabilir.`,
		`(x tam-sayı) f, x doğruysa,`,
	}
	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			assert.NotPanics(t, func() { parse(t, src) })
		})
	}
}

func TestDepthLimit(t *testing.T) {
	depth := 50
	src := strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + "."

	prog := parse(t, src)
	assert.False(t, prog.Truncated)
	assert.Empty(t, prog.Skipped)
	require.Len(t, prog.Exprs, 1)

	prog = parse(t, src, WithMaxDepth(10))
	assert.True(t, prog.Truncated)
	assert.NotEmpty(t, prog.Skipped)
	assert.Empty(t, prog.Exprs)
}

func TestNestedParens(t *testing.T) {
	// deeper than DefaultMaxDepth
	depth := DefaultMaxDepth * 3
	src := strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + "."
	prog := parse(t, src)
	assert.True(t, prog.Truncated)
}

// Copyright © 2024 The kip-ls authors

package repl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/engine"
	"github.com/kip-lang/kip-ls/parser/lexer"
	"github.com/kip-lang/kip-ls/semantic"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// replFile names the accumulated session source in locations.
const replFile = "<repl>"

const detailWidth = 72

var commands = []string{":help", ":quit", ":reset", ":semantic", ":source", ":symbols", ":tokens"}

// shell holds the statements accepted so far and their analysis.  Every
// accepted statement re-analyzes the whole session source.
type shell struct {
	cfg    engine.Config
	out    io.Writer
	text   string
	buf    []string
	result *engine.Result
}

func newShell(cfg engine.Config, out io.Writer) *shell {
	cfg.File = replFile
	sh := &shell{cfg: cfg, out: out}
	sh.reset()
	return sh
}

func (sh *shell) printf(format string, v ...any) {
	fmt.Fprintf(sh.out, format, v...) //nolint:errcheck // best-effort REPL output
}

// pending reports whether an unfinished statement is buffered.
func (sh *shell) pending() bool {
	return len(sh.buf) > 0
}

// discard drops the unfinished statement.
func (sh *shell) discard() {
	sh.buf = nil
}

func (sh *shell) reset() {
	sh.text = ""
	sh.buf = nil
	res, err := engine.Analyze(context.Background(), "", sh.cfg)
	if err != nil {
		res = &engine.Result{Tables: analysis.NewTables()}
	}
	sh.result = res
}

// tables returns the symbol tables of the accepted statements.
func (sh *shell) tables() *analysis.Tables {
	return sh.result.Tables
}

// feed processes one line of input.  It returns true when the user asked
// to quit.
func (sh *shell) feed(line string) bool {
	line = strings.TrimRight(line, " \t\r\n")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if !sh.pending() && strings.HasPrefix(trimmed, ":") {
		return sh.command(trimmed)
	}
	sh.buf = append(sh.buf, line)
	if !strings.HasSuffix(trimmed, ".") {
		return false
	}
	stmt := strings.Join(sh.buf, "\n")
	sh.buf = nil
	sh.accept(stmt)
	return false
}

// accept analyzes the session source extended by stmt.  Findings and
// references are reported for the lines of stmt only.
func (sh *shell) accept(stmt string) {
	firstLine := strings.Count(sh.text, "\n") + 1
	text := sh.text + stmt + "\n"
	res, err := engine.Analyze(context.Background(), text, sh.cfg)
	if err != nil {
		sh.printf("%v\n", err)
		return
	}
	prev := sh.result.Tables
	sh.text = text
	sh.result = res

	var findings []engine.Finding
	for _, f := range res.Findings() {
		if !f.HasRange() || f.Range.Start.Line >= firstLine {
			findings = append(findings, f)
		}
	}
	if len(findings) > 0 {
		sh.renderFindings(findings)
	}

	declared := newSymbols(prev, res.Tables)
	for _, sym := range declared {
		sh.printSymbol(sym)
	}
	if len(declared) > 0 {
		return
	}
	for _, ref := range res.Tables.References {
		if ref.Source.Start == nil || ref.Source.Start.Line < firstLine {
			continue
		}
		sh.printf("%s -> %s (%s)\n", ref.Text, ref.Name, ref.Kind)
	}
}

// newSymbols returns the types, constructors, functions and variables in
// next that prev does not declare.
func newSymbols(prev, next *analysis.Tables) []*analysis.Symbol {
	var added []*analysis.Symbol
	for _, pair := range [][2]map[string]*analysis.Symbol{
		{prev.TypeDetails, next.TypeDetails},
		{prev.FunctionDetails, next.FunctionDetails},
		{prev.VariableDetails, next.VariableDetails},
	} {
		for _, name := range sortedNames(pair[1]) {
			sym := pair[1][name]
			if sym.Kind == analysis.SymParameter || sym.Kind == analysis.SymBinder {
				continue
			}
			if _, ok := pair[0][name]; !ok {
				added = append(added, sym)
			}
		}
	}
	return added
}

func (sh *shell) printSymbol(sym *analysis.Symbol) {
	sh.printf("%s %s\n", sym.Kind, sym.Name)
	if sym.Detail != "" && sym.Detail != sym.Name {
		sh.printf("%s\n", indent.String(wordwrap.String(sym.Detail, detailWidth), 4))
	}
}

func (sh *shell) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case ":q", ":quit":
		return true
	case ":h", ":help":
		sh.help()
	case ":reset":
		sh.reset()
	case ":source":
		sh.printf("%s", sh.text)
	case ":symbols":
		sh.symbols()
	case ":tokens":
		sh.tokens(arg)
	case ":semantic":
		sh.semantic(arg)
	default:
		sh.printf("unknown command %s; try :help\n", name)
	}
	return false
}

func (sh *shell) help() {
	sh.printf(`Enter kip statements ending with a period.  Commands:
  :symbols         list everything declared so far
  :tokens [text]   lex text, or the session source
  :semantic [text] semantic tokens of text, or of the session source
  :source          print the session source
  :reset           forget all statements
  :quit            leave the shell
`)
}

func (sh *shell) symbols() {
	t := sh.tables()
	for _, details := range []map[string]*analysis.Symbol{t.TypeDetails, t.FunctionDetails, t.VariableDetails} {
		for _, name := range sortedNames(details) {
			sh.printSymbol(details[name])
		}
	}
	if t.Partial {
		sh.printf("(partial: %d subtree(s) not visited)\n", t.Truncated)
	}
}

func (sh *shell) source(arg string) string {
	if arg != "" {
		return arg
	}
	return sh.text
}

func (sh *shell) tokens(arg string) {
	for _, tok := range lexer.Tokenize(replFile, sh.source(arg)) {
		sh.printf("%v\n", tok)
	}
}

// semantic prints the highlighting of arg classified with the session
// tables.
func (sh *shell) semantic(arg string) {
	data, err := engine.TokenizeForHighlighting(context.Background(), sh.source(arg), sh.tables(), nil)
	if err != nil {
		sh.printf("%v\n", err)
		return
	}
	for _, tok := range semantic.Decode(data) {
		sh.printf("%v\n", tok)
	}
}

func sortedNames(m map[string]*analysis.Symbol) []string {
	set := make(analysis.Set, len(m))
	for name := range m {
		set.Add(name)
	}
	return set.Sorted()
}

// Copyright © 2024 The kip-ls authors

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/engine"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

const detailWidth = 72

// SymbolsCommand creates the "symbols" cobra command.
func SymbolsCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var excludes []string

	cmd := &cobra.Command{
		Use:   "symbols [flags] files...",
		Short: "List the types, functions and variables declared in Kip files",
		Long: `Analyze Kip files and list their symbol tables: declared types with
their constructors, functions and builtins with their parameter types, and
variables.  Each entry shows where the name is declared and the
declaration itself.

Arguments ending in "/..." expand to all .kip files below that directory.
Use "-" to read a single document from stdin.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandArgs(args, excludes)
			if err != nil {
				return err
			}
			base := cfg.resolveEngineConfig()
			for _, path := range paths {
				src, err := readSource(cmd.InOrStdin(), path)
				if err != nil {
					return err
				}
				fileCfg := base
				fileCfg.File = sourceName(path)
				res, err := engine.Analyze(cmd.Context(), string(src), fileCfg)
				if err != nil {
					return err
				}
				if err := writeSymbols(cmd.OutOrStdout(), fileCfg.File, res.Tables); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

// writeSymbols prints the tables of one file grouped by section.
func writeSymbols(w io.Writer, file string, t *analysis.Tables) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", file)
	sections := []struct {
		title   string
		details map[string]*analysis.Symbol
	}{
		{"types", t.TypeDetails},
		{"functions", t.FunctionDetails},
		{"variables", t.VariableDetails},
	}
	for _, sec := range sections {
		if len(sec.details) == 0 {
			continue
		}
		var body strings.Builder
		for _, name := range sortedNames(sec.details) {
			writeSymbol(&body, sec.details[name])
		}
		fmt.Fprintf(&b, "%s\n%s", indent.String(sec.title+":", 2), indent.String(body.String(), 4))
	}
	if t.Partial {
		fmt.Fprintf(&b, "  partial: %d subtree(s) not visited\n", t.Truncated)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeSymbol(b *strings.Builder, sym *analysis.Symbol) {
	fmt.Fprintf(b, "%s %s", sym.Kind, sym.Name)
	if start := sym.Source.Start; start != nil {
		fmt.Fprintf(b, " %d:%d", start.Line, start.Col)
	}
	b.WriteString("\n")
	if sym.Detail != "" {
		b.WriteString(indent.String(wordwrap.String(sym.Detail, detailWidth), 2))
		b.WriteString("\n")
	}
}

func sortedNames(m map[string]*analysis.Symbol) []string {
	set := make(analysis.Set, len(m))
	for name := range m {
		set.Add(name)
	}
	return set.Sorted()
}

func init() {
	rootCmd.AddCommand(SymbolsCommand())
}

// Copyright © 2024 The kip-ls authors

package cmd

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/kip-lang/kip-ls/engine"
	"github.com/kip-lang/kip-ls/parser/lexer"
	"github.com/kip-lang/kip-ls/semantic"
	"github.com/spf13/cobra"
)

// TokensCommand creates the "tokens" cobra command.
func TokensCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var semanticFlag bool

	cmd := &cobra.Command{
		Use:   "tokens [flags] file",
		Short: "Print the tokens of a Kip file",
		Long: `Print the lexical tokens of a Kip file, one per line, with their
locations.  With --semantic the file is analyzed first and the semantic
highlighting tokens an editor would receive are printed instead, decoded to
absolute 1-based positions.  Columns count UTF-16 code units.

Use "-" to read from stdin.

Examples:
  kip-ls tokens file.kip
  kip-ls tokens --semantic file.kip
  echo "Bir yerleşik tam-sayı olsun." | kip-ls tokens -`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			name := sourceName(args[0])
			out := cmd.OutOrStdout()
			if !semanticFlag {
				for _, tok := range lexer.Tokenize(name, string(src)) {
					fmt.Fprintln(out, tok) //nolint:errcheck // best-effort output
				}
				return nil
			}
			fileCfg := cfg.resolveEngineConfig()
			fileCfg.File = name
			res, err := engine.Analyze(cmd.Context(), string(src), fileCfg)
			if err != nil {
				return err
			}
			data, err := engine.TokenizeForHighlighting(cmd.Context(), string(src), res.Tables, nil)
			if err != nil {
				return err
			}
			return writeSemanticTokens(out, string(src), semantic.Decode(data))
		},
	}

	cmd.Flags().BoolVarP(&semanticFlag, "semantic", "s", false,
		"Print semantic highlighting tokens instead of lexical tokens.")
	return cmd
}

// writeSemanticTokens prints each token followed by the text it covers.
func writeSemanticTokens(w io.Writer, src string, toks []semantic.Token) error {
	lines := strings.Split(src, "\n")
	for _, t := range toks {
		var text string
		if t.Line < len(lines) {
			text = utf16Slice(lines[t.Line], t.StartChar, t.Length)
		}
		if _, err := fmt.Fprintf(w, "%v %q\n", t, text); err != nil {
			return err
		}
	}
	return nil
}

// utf16Slice returns n UTF-16 code units of s starting at unit start.
func utf16Slice(s string, start, n int) string {
	units := utf16.Encode([]rune(s))
	if start >= len(units) {
		return ""
	}
	end := start + n
	if end > len(units) {
		end = len(units)
	}
	return string(utf16.Decode(units[start:end]))
}

func init() {
	rootCmd.AddCommand(TokensCommand())
}

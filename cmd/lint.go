// Copyright © 2024 The kip-ls authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kip-lang/kip-ls/lint"
	"github.com/spf13/cobra"
)

// LintCommand creates the "lint" cobra command.
func LintCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var (
		jsonOut  bool
		checks   string
		listAll  bool
		excludes []string
	)

	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Run static checks on Kip source files",
		Long: `Run static checks on Kip source files.

The linter reports likely mistakes in Kip code, similar to "go vet" for Go.
Each check is an independent analyzer that examines the parsed program and
its symbol tables.  The linter does not type check.

With no files, reads from stdin.  With files, analyzes each file and reports
all findings to stderr.

Exit codes:
  0  No problems found
  1  One or more problems were reported, or a file could not be read

To suppress a specific diagnostic, add a comment on the same line:
  x diyelim. (* nolint:duplicate-declaration *)

To suppress all checks on a line:
  x diyelim. (* nolint *)

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `Examples:
  kip-ls lint file.kip                                  # Lint a single file
  kip-ls lint --json file.kip                           # Output diagnostics as JSON
  kip-ls lint --checks=unused-parameter file.kip        # Run only specific checks
  kip-ls lint --list                                    # List available checks
  kip-ls lint --exclude='build' ./...                   # Exclude a directory
  cat file.kip | kip-ls lint                            # Lint from stdin`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listAll {
				for _, name := range lint.AnalyzerNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name) //nolint:errcheck // best-effort output
				}
				return nil
			}

			var names []string
			if checks != "" {
				names = strings.Split(checks, ",")
			}
			analyzers, err := lint.SelectAnalyzers(names)
			if err != nil {
				return err
			}
			l := &lint.Linter{Analyzers: analyzers, Config: cfg.resolveEngineConfig()}

			if len(args) == 0 {
				args = []string{"-"}
			}
			paths, err := expandArgs(args, excludes)
			if err != nil {
				return err
			}
			diags, sources, err := lintFiles(cmd.Context(), l, cmd.InOrStdin(), paths)
			if err != nil {
				return err
			}
			if len(diags) == 0 {
				return nil
			}
			if jsonOut {
				if err := lint.FormatJSON(cmd.OutOrStdout(), diags); err != nil {
					return err
				}
			} else if err := renderLintDiagnostics(cmd.ErrOrStderr(), diags, sources); err != nil {
				return err
			}
			return fmt.Errorf("%d problem(s) found", len(diags))
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false,
		"Output diagnostics as JSON.")
	cmd.Flags().StringVar(&checks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	cmd.Flags().BoolVar(&listAll, "list", false,
		"List available checks and exit.")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

// lintFiles lints each path and returns the diagnostics together with the
// source of every file, keyed by display name.
func lintFiles(ctx context.Context, l *lint.Linter, stdin io.Reader, paths []string) ([]lint.Diagnostic, map[string][]byte, error) {
	var all []lint.Diagnostic
	sources := make(map[string][]byte, len(paths))
	for _, path := range paths {
		src, err := readSource(stdin, path)
		if err != nil {
			return nil, nil, err
		}
		name := sourceName(path)
		sources[name] = src
		diags, err := l.LintFile(ctx, src, name)
		if err != nil {
			return nil, nil, err
		}
		log.Debugf("%s: %d lint diagnostic(s)", name, len(diags))
		all = append(all, diags...)
	}
	return all, sources, nil
}

func init() {
	rootCmd.AddCommand(LintCommand())
}

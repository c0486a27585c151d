// Copyright © 2024 The kip-ls authors

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/kip-lang/kip-ls/engine"
	"github.com/spf13/cobra"
)

// CheckCommand creates the "check" cobra command.
func CheckCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var excludes []string

	cmd := &cobra.Command{
		Use:   "check [flags] files...",
		Short: "Report the parts of Kip files that could not be analyzed",
		Long: `Parse and analyze Kip files and report, as warnings, every fragment the
parser had to skip and every document whose analysis stopped early because
it nested too deeply or exceeded the node budget.

Arguments ending in "/..." expand to all .kip files below that directory.
Use "-" to read a single document from stdin.

Exit codes:
  0  Every file was analyzed completely
  1  Warnings were reported or a file could not be read

Examples:
  kip-ls check file.kip                      # Check a single file
  kip-ls check ./...                         # Check a whole tree
  kip-ls check --exclude=vendor ./...        # Skip a directory
  kip-ls check --max-depth=20 deep.kip       # Tighter nesting limit
  cat file.kip | kip-ls check -              # Check stdin`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandArgs(args, excludes)
			if err != nil {
				return err
			}
			warnings, files, err := checkFiles(cmd.Context(), cmd.InOrStdin(), cmd.ErrOrStderr(), paths, cfg.resolveEngineConfig())
			if err != nil {
				return err
			}
			if warnings > 0 {
				return fmt.Errorf("%d warning(s) in %d file(s)", warnings, files)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

// checkFiles analyzes each path and renders its findings to w.  It returns
// the number of findings and of files with findings.
func checkFiles(ctx context.Context, stdin io.Reader, w io.Writer, paths []string, cfg engine.Config) (warnings, files int, err error) {
	for _, path := range paths {
		src, err := readSource(stdin, path)
		if err != nil {
			return warnings, files, err
		}
		name := sourceName(path)
		fileCfg := cfg
		fileCfg.File = name
		res, err := engine.Analyze(ctx, string(src), fileCfg)
		if err != nil {
			return warnings, files, err
		}
		findings := res.Findings()
		log.Debugf("%s: %d finding(s)", name, len(findings))
		if len(findings) == 0 {
			continue
		}
		warnings += len(findings)
		files++
		if err := renderFindings(w, name, findings, src); err != nil {
			return warnings, files, err
		}
	}
	return warnings, files, nil
}

func init() {
	rootCmd.AddCommand(CheckCommand())
}

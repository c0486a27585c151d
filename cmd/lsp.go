// Copyright © 2024 The kip-ls authors

package cmd

import (
	"fmt"
	"os"

	"github.com/kip-lang/kip-ls/lsp"
	"github.com/spf13/cobra"
)

// LSPCommand creates the "lsp" cobra command.  Embedders can pass
// WithEngineConfig to pin the analysis limits.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)

	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the Kip Language Server Protocol server",
		Long: `Start an LSP server for Kip source files.

The language server provides semantic highlighting, diagnostics for
fragments the parser skipped, hover, go-to-definition, find references,
completion, document and workspace symbols, and folding ranges.  Lookups
tolerate Turkish case suffixes, so "doğruluğun" resolves to "doğruluk".

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  kip-ls lsp                           Start with stdio transport
  kip-ls lsp --stdio                   Same as above (explicit)
  kip-ls lsp --port 7998               Start with TCP on port 7998

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "kip-ls lsp --stdio" for .kip files.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			srv := lsp.New(lsp.WithConfig(cfg.resolveEngineConfig()))

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				log.Noticef("kip language server listening on %s", addr)
				if err := srv.RunTCP(addr); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			} else {
				if err := srv.RunStdio(); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}

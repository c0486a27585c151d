// Copyright © 2024 The kip-ls authors

package cmd

import (
	"io"

	"github.com/kip-lang/kip-ls/docs"
	"github.com/spf13/cobra"
)

// GuideCommand creates the "guide" cobra command.
func GuideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Print a quick reference to Kip syntax",
		Long: `Print a quick reference to the Kip declarations, expressions and
comments that kip-ls analyzes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), docs.LangGuide)
			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(GuideCommand())
}

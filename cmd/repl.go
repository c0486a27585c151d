// Copyright © 2024 The kip-ls authors

package cmd

import (
	"fmt"
	"os"

	"github.com/kip-lang/kip-ls/repl"
	"github.com/spf13/cobra"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Explore Kip declarations interactively",
	Long: `Start an interactive shell that analyzes Kip statements as they are
typed.  A statement may span several lines and ends with a period.  After
each statement the shell lists what it declared, or for an expression the
names it resolved.  Nothing is evaluated.

Line editing, history and completion of declared names are supported via
readline.  Use Ctrl-D or :quit to exit.

Example session:
  kip> Bir doğruluk ya doğru ya da yanlış olabilir.
  type doğruluk
      Bir doğruluk ya doğru ya da yanlış olabilir.
  constructor doğru
      doğru : doğruluk
  constructor yanlış
      yanlış : doğruluk
  kip> :tokens doğruluğun
  <repl>:1:1 ident "doğruluğun"

Commands:
  :symbols :tokens [text] :semantic [text] :source :reset :help :quit`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := repl.RunRepl("kip> ", repl.WithConfig(engineConfig()))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

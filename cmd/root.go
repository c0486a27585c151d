// Copyright © 2024 The kip-ls authors

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Configuration keys.  Each may be set in the config file, in the
// environment as KIPLS_<KEY> with dots and dashes replaced by underscores,
// or with the matching persistent flag.
const (
	keyMaxDepth   = "analysis.max-depth"
	keyNodeBudget = "analysis.node-budget"
	keyVerbosity  = "log.verbosity"
	keyLogFile    = "log.file"
)

var log = commonlog.GetLogger("kip-ls.cmd")

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kip-ls",
	Short: "kip-ls: analysis engine and language server for Kip",
	Long: `kip-ls analyzes Kip source, a programming language whose keywords and
grammar follow Turkish, and serves the results to editors over the Language
Server Protocol.

Getting started:
  kip-ls lsp --stdio            Start the language server on stdin/stdout
  kip-ls check ./...            Report fragments the parser had to skip
  kip-ls lint ./...             Run static checks
  kip-ls symbols file.kip       List the types, functions and variables
  kip-ls tokens -s file.kip     Show the semantic highlighting of a file
  kip-ls index --db k.db ./...  Record workspace symbols in SQLite
  kip-ls lookup --db k.db NAME  Find indexed declarations
  kip-ls repl                   Explore declarations interactively
  kip-ls guide                  Print a Kip quick reference

Configuration is read from $HOME/.kip-ls.yaml (or --config) and from
KIPLS_* environment variables:
  analysis.max-depth    KIPLS_ANALYSIS_MAX_DEPTH    nesting limit
  analysis.node-budget  KIPLS_ANALYSIS_NODE_BUDGET  expressions analyzed per document
  log.verbosity         KIPLS_LOG_VERBOSITY         0 notice, 1 info, 2 debug
  log.file              KIPLS_LOG_FILE              log to a file instead of stderr`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kip-ls.yaml)")
	flags.StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	flags.Int("max-depth", 0, "maximum nesting depth parsed and analyzed (default 100)")
	flags.Int("node-budget", 0, "maximum expressions analyzed per document (default 10000)")
	flags.CountP("verbose", "v", "increase log verbosity (repeatable)")
	flags.String("log-file", "", "write logs to this file instead of stderr")

	bindFlag(keyMaxDepth, "max-depth")
	bindFlag(keyNodeBudget, "node-budget")
	bindFlag(keyVerbosity, "verbose")
	bindFlag(keyLogFile, "log-file")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".kip-ls" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".kip-ls")
	}

	viper.SetEnvPrefix("KIPLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// A missing default config file is not an error.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "reading config: %v\n", err)
			os.Exit(1)
		}
	}
}

// initLogging configures the commonlog backend from the log.* keys.  The
// language server speaks on stdout, so logs always go to stderr or a file.
func initLogging() {
	var path *string
	if file := viper.GetString(keyLogFile); file != "" {
		path = &file
	}
	commonlog.Configure(viper.GetInt(keyVerbosity), path)
	if used := viper.ConfigFileUsed(); used != "" {
		log.Infof("using config file %s", used)
	}
}

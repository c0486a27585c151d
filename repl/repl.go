// Copyright © 2024 The kip-ls authors

// Package repl implements an interactive shell that analyzes kip
// statements as they are typed and reports what each one declares.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/kip-lang/kip-ls/engine"
)

type config struct {
	stdin       io.ReadCloser
	stderr      io.WriteCloser
	engine      engine.Config
	historyFile string
}

func newConfig(opts ...Option) *config {
	config := &config{
		engine:      engine.DefaultConfig(),
		historyFile: historyPath(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithConfig sets the analysis limits used for each statement.
func WithConfig(cfg engine.Config) Option {
	return func(c *config) {
		c.engine = cfg
	}
}

// WithHistoryFile overrides the readline history file.  An empty path
// disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// RunRepl reads statements until the input is exhausted or the user quits.
// A statement continues over several lines until one ends with a period.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	var out io.Writer = os.Stderr
	if cfg.stderr != nil {
		out = cfg.stderr
	}
	sh := newShell(cfg.engine, out)
	cont := strings.Repeat(" ", len([]rune(prompt)))

	ensureHistoryFilePermissions(cfg.historyFile)
	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{shell: sh},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	for {
		if sh.pending() {
			rl.SetPrompt(cont)
		} else {
			rl.SetPrompt(prompt)
		}
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			sh.discard()
			continue
		}
		if err != nil {
			// io.EOF ends the session normally.
			return nil
		}
		if sh.feed(string(line)) {
			return nil
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kip_history")
}

// ensureHistoryFilePermissions creates path if needed and restricts it to
// the current user.  History may contain source the user typed.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //nolint:gosec // path is the user's own history file
	if err != nil {
		return
	}
	f.Close() //nolint:errcheck,gosec // only created to set the mode
	_ = os.Chmod(path, 0600)
}

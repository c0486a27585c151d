// Copyright © 2024 The kip-ls authors

package repl

import (
	"sort"
	"strings"
)

// symbolCompleter implements readline.AutoCompleter by enumerating the
// names declared in the shell session, the kip keywords and the shell
// commands.
type symbolCompleter struct {
	shell *shell
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to whitespace or open paren).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == '\n' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectSymbols(prefix, start == 0)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	n := len([]rune(prefix))
	result := make([][]rune, 0, len(candidates))
	for _, name := range candidates {
		result = append(result, []rune(name)[n:])
	}
	return result, n
}

func (c *symbolCompleter) collectSymbols(prefix string, lineStart bool) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}

	if lineStart && strings.HasPrefix(prefix, ":") {
		for _, cmd := range commands {
			add(cmd)
		}
		return result
	}

	t := c.shell.tables()
	for _, set := range []map[string]bool{t.Types, t.Functions, t.Variables, t.Keywords} {
		for name := range set {
			// Words of multi-word types complete through the full name.
			if full, ok := t.TypePhrases[name]; ok && full != name {
				continue
			}
			add(name)
		}
	}

	sort.Strings(result)
	return result
}

// Copyright © 2024 The kip-ls authors

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kip-lang/kip-ls/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string) (string, error) {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	errc := make(chan error, 1)
	go func() {
		errc <- RunRepl("kip> ", WithStdin(inR), WithStderr(outW), WithHistoryFile(""))
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup

	return output.String(), <-errc
}

func testShell() (*shell, *bytes.Buffer) {
	var out bytes.Buffer
	return newShell(engine.DefaultConfig(), &out), &out
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".kip_history")

	// File does not exist yet.
	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".kip_history")

	// Create the file with overly permissive mode.
	err := os.WriteFile(histFile, []byte("some history"), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	// Verify contents are preserved.
	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	// Should not panic or error with empty path.
	ensureHistoryFilePermissions("")
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Type Declaration",
			input:    "Bir doğruluk ya doğru ya da yanlış olabilir.\n",
			expected: "type doğruluk",
		},
		{
			name:     "Skipped Fragment",
			input:    "olabilir olsun.\n",
			expected: "unrecognized fragment skipped",
		},
		{
			name:     "Unknown Command",
			input:    ":fnord\n",
			expected: "unknown command :fnord",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := runReplWithString(t, tc.input)
			require.NoError(t, err)
			require.Contains(t, got, tc.expected)
		})
	}
}

func TestShell_Declarations(t *testing.T) {
	sh, out := testShell()

	assert.False(t, sh.feed("Bir doğruluk ya doğru ya da yanlış olabilir."))
	assert.Contains(t, out.String(), "type doğruluk\n")
	assert.Contains(t, out.String(), "constructor doğru\n")
	assert.Contains(t, out.String(), "constructor yanlış\n")
	assert.True(t, sh.tables().Types.Has("doğruluk"))
}

func TestShell_MultiLineStatement(t *testing.T) {
	sh, out := testShell()
	sh.feed("Bir doğruluk ya doğru ya da yanlış olabilir.")
	out.Reset()

	sh.feed("(bu doğruluğun) tersi,")
	assert.True(t, sh.pending())
	sh.feed("  bu doğruysa, yanlış,")
	assert.True(t, sh.pending())
	assert.Empty(t, out.String())

	sh.feed("  yanlışsa, doğru.")
	assert.False(t, sh.pending())
	assert.Contains(t, out.String(), "function tersi\n")
	assert.NotContains(t, out.String(), "parameter", "parameters are not reported")
	assert.NotContains(t, out.String(), "type doğruluk", "earlier declarations are not repeated")
	assert.True(t, sh.tables().Functions.Has("tersi"))
}

func TestShell_Discard(t *testing.T) {
	sh, out := testShell()
	sh.feed("(bu doğruluğun) tersi,")
	require.True(t, sh.pending())
	sh.discard()
	assert.False(t, sh.pending())
	assert.Empty(t, sh.text)
	assert.Empty(t, out.String())
}

func TestShell_Expression(t *testing.T) {
	sh, out := testShell()
	sh.feed("(bu tam-sayının) (şu tam-sayının) toplamı yerleşiktir.")
	assert.Contains(t, out.String(), "builtin toplamı\n")
	out.Reset()

	sh.feed("(5'in) (3'ün) toplamı.")
	assert.Equal(t, "toplamı -> toplamı (function)\n", out.String())
}

func TestShell_FindingsOnlyForNewStatement(t *testing.T) {
	sh, out := testShell()
	sh.feed("olabilir olsun.")
	assert.Contains(t, out.String(), "warning")
	assert.Contains(t, out.String(), "<repl>:1:1")
	out.Reset()

	sh.feed("Bir doğruluk ya doğru ya da yanlış olabilir.")
	assert.NotContains(t, out.String(), "warning")
	assert.Contains(t, out.String(), "type doğruluk")
}

func TestShell_Commands(t *testing.T) {
	sh, out := testShell()
	sh.feed("Bir doğruluk ya doğru ya da yanlış olabilir.")

	out.Reset()
	sh.feed(":symbols")
	assert.Contains(t, out.String(), "type doğruluk\n")
	assert.Contains(t, out.String(), "    Bir doğruluk ya doğru ya da yanlış olabilir.")

	out.Reset()
	sh.feed(":tokens Bir x.")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `bir "Bir"`)
	assert.Contains(t, lines[1], `ident "x"`)

	out.Reset()
	sh.feed(":semantic doğruluk")
	assert.Equal(t, "1:1 8 type\n", out.String())

	out.Reset()
	sh.feed(":source")
	assert.Equal(t, "Bir doğruluk ya doğru ya da yanlış olabilir.\n", out.String())

	out.Reset()
	sh.feed(":help")
	assert.Contains(t, out.String(), ":symbols")

	sh.feed(":reset")
	assert.Empty(t, sh.text)
	assert.False(t, sh.tables().Types.Has("doğruluk"))

	assert.True(t, sh.feed(":quit"))
	assert.True(t, sh.feed(":q"))
}

// Copyright © 2024 The kip-ls authors

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterExcludes_ByName(t *testing.T) {
	paths := []string{
		"src/main.kip",
		"src/prelude.kip",
		"lib/utils.kip",
	}
	result := filterExcludes(paths, []string{"prelude.kip"})
	assert.Equal(t, []string{"src/main.kip", "lib/utils.kip"}, result)
}

func TestFilterExcludes_ByDirectory(t *testing.T) {
	paths := []string{
		"src/main.kip",
		"build/output.kip",
		"build/sub/deep.kip",
		"lib/utils.kip",
	}
	result := filterExcludes(paths, []string{"build"})
	assert.Equal(t, []string{"src/main.kip", "lib/utils.kip"}, result)
}

func TestFilterExcludes_GlobPattern(t *testing.T) {
	paths := []string{
		"src/main.kip",
		"src/generated_foo.kip",
		"src/generated_bar.kip",
		"lib/utils.kip",
	}
	result := filterExcludes(paths, []string{"generated_*"})
	assert.Equal(t, []string{"src/main.kip", "lib/utils.kip"}, result)
}

func TestFilterExcludes_MultiplePatterns(t *testing.T) {
	paths := []string{
		"src/main.kip",
		"build/output.kip",
		"src/prelude.kip",
		"lib/utils.kip",
	}
	result := filterExcludes(paths, []string{"build", "prelude.kip"})
	assert.Equal(t, []string{"src/main.kip", "lib/utils.kip"}, result)
}

func TestFilterExcludes_NoMatches(t *testing.T) {
	paths := []string{
		"src/main.kip",
		"lib/utils.kip",
	}
	result := filterExcludes(paths, []string{"nonexistent"})
	assert.Equal(t, []string{"src/main.kip", "lib/utils.kip"}, result)
}

func TestFilterExcludes_EmptyExcludes(t *testing.T) {
	paths := []string{"src/main.kip"}
	result := filterExcludes(paths, nil)
	assert.Equal(t, []string{"src/main.kip"}, result)
}

func TestMatchesAny_FullPath(t *testing.T) {
	// filepath.Match on the full path
	assert.True(t, matchesAny("src/main.kip", []string{"src/*.kip"}))
	assert.False(t, matchesAny("lib/main.kip", []string{"src/*.kip"}))
}

func TestMatchesAny_BaseName(t *testing.T) {
	assert.True(t, matchesAny("deep/nested/prelude.kip", []string{"prelude.kip"}))
}

func TestMatchesAny_Component(t *testing.T) {
	assert.True(t, matchesAny("project/build/output.kip", []string{"build"}))
	assert.False(t, matchesAny("project/src/output.kip", []string{"build"}))
}

func TestSplitPath(t *testing.T) {
	components := splitPath("a/b/c.kip")
	assert.Contains(t, components, "c.kip")
	assert.Contains(t, components, "b")
	assert.Contains(t, components, "a")
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib", "build"), 0o700))
	for _, name := range []string{"main.kip", "notes.txt", "lib/list.kip", "lib/build/gen.kip"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x diyelim."), 0o600))
	}

	got, err := expandArgs([]string{dir + "/...", "other.kip"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "lib", "build", "gen.kip"),
		filepath.Join(dir, "lib", "list.kip"),
		filepath.Join(dir, "main.kip"),
		"other.kip",
	}, got)

	got, err = expandArgs([]string{dir + "/..."}, []string{"build"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "lib", "list.kip"),
		filepath.Join(dir, "main.kip"),
	}, got)

	_, err = expandArgs([]string{filepath.Join(dir, "missing") + "/..."}, nil)
	assert.Error(t, err)
}

func TestReadSource(t *testing.T) {
	src, err := readSource(strings.NewReader("x diyelim."), "-")
	require.NoError(t, err)
	assert.Equal(t, "x diyelim.", string(src))
	assert.Equal(t, "<stdin>", sourceName("-"))

	_, err = readSource(nil, filepath.Join(t.TempDir(), "missing.kip"))
	assert.Error(t, err)
}

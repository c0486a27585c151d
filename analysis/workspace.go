// Copyright © 2024 The kip-ls authors

package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/kip-lang/kip-ls/parser"
	"github.com/kip-lang/kip-ls/parser/ast"
)

// FileExt is the extension of kip source files.
const FileExt = ".kip"

// FileResult is the analysis of one file found by ScanWorkspace.
type FileResult struct {
	Path    string
	Hash    string // hex sha256 of the file contents
	Program *ast.Program
	Tables  *Tables
}

// AnalyzeFile parses and analyzes a single file's contents.
func AnalyzeFile(source []byte, filename string, cfg Config) *FileResult {
	_, prog := parser.ParseString(filename, string(source), parser.WithMaxDepth(cfg.withDefaults().MaxDepth))
	return &FileResult{
		Path:    filename,
		Hash:    HashSource(source),
		Program: prog,
		Tables:  Analyze(prog, cfg),
	}
}

// HashSource returns the hex sha256 of a file's contents, the value
// recorded in FileResult.Hash.
func HashSource(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// ScanWorkspace walks a directory tree analyzing every kip file.  Hidden
// directories and node_modules are skipped, as are unreadable files.
func ScanWorkspace(root string, cfg Config) ([]*FileResult, error) {
	var results []*FileResult
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && shouldSkipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != FileExt {
			return nil
		}
		src, readErr := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
		if readErr != nil {
			return nil
		}
		results = append(results, AnalyzeFile(src, path, cfg))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// shouldSkipDir returns true for directories that should not be walked.
func shouldSkipDir(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	if len(name) > 0 && name[0] == '.' {
		return true
	}
	return name == "node_modules"
}

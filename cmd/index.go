// Copyright © 2024 The kip-ls authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/engine"
	"github.com/kip-lang/kip-ls/store"
	"github.com/spf13/cobra"
)

// indexStats counts the outcome of an index run.
type indexStats struct {
	Indexed   int
	Unchanged int
	Pruned    int
}

// IndexCommand creates the "index" cobra command.
func IndexCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var (
		dbPath   string
		prune    bool
		excludes []string
	)

	cmd := &cobra.Command{
		Use:   "index --db PATH [flags] files...",
		Short: "Record the symbols of Kip files in a SQLite database",
		Long: `Analyze Kip files and store their symbol tables in a SQLite database:
declared names with their kind, position and declaration, the constructors
of each type, the parameter types of each function and every recorded use
of a name.  Query the database with "kip-ls lookup".

A file whose contents hash is unchanged since it was last indexed is
skipped.  With --prune, files in the database that no longer exist on disk
are removed.

Arguments ending in "/..." expand to all .kip files below that directory.

Examples:
  kip-ls index --db kip.db ./...
  kip-ls index --db kip.db --prune --exclude=testdata ./...`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandArgs(args, excludes)
			if err != nil {
				return err
			}
			st, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck // best-effort cleanup

			stats, err := indexFiles(cmd.Context(), st, paths, cfg.resolveEngineConfig())
			if err != nil {
				return err
			}
			if prune {
				if stats.Pruned, err = pruneFiles(st); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d file(s), %d unchanged, %d pruned\n", //nolint:errcheck // best-effort output
				stats.Indexed, stats.Unchanged, stats.Pruned)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to write (created if missing)")
	cmd.Flags().BoolVar(&prune, "prune", false, "Remove files that no longer exist from the database.")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func openStore(dbPath string) (*store.Store, error) {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(); err != nil {
		st.Close() //nolint:errcheck,gosec // already failing
		return nil, err
	}
	return st, nil
}

// indexFiles analyzes and stores each path whose contents changed since it
// was last indexed.  Paths are stored in absolute form.
func indexFiles(ctx context.Context, st *store.Store, paths []string, cfg engine.Config) (indexStats, error) {
	var stats indexStats
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return stats, fmt.Errorf("%s: %w", path, err)
		}
		src, err := os.ReadFile(abs) //nolint:gosec // CLI tool reads user-specified files
		if err != nil {
			return stats, fmt.Errorf("%s: %w", path, err)
		}
		hash := analysis.HashSource(src)
		prev, err := st.FileByPath(abs)
		if err != nil {
			return stats, err
		}
		if prev != nil && prev.Hash == hash {
			stats.Unchanged++
			continue
		}
		fileCfg := cfg
		fileCfg.File = abs
		res, err := engine.Analyze(ctx, string(src), fileCfg)
		if err != nil {
			return stats, err
		}
		if _, err := st.IndexFile(abs, hash, res.Tables); err != nil {
			return stats, err
		}
		log.Infof("indexed %s", abs)
		stats.Indexed++
	}
	return stats, nil
}

// pruneFiles deletes the stored files missing from disk.
func pruneFiles(st *store.Store) (int, error) {
	files, err := st.Files()
	if err != nil {
		return 0, err
	}
	pruned := 0
	for _, f := range files {
		if _, err := os.Stat(f.Path); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := st.DeleteFile(f.Path); err != nil {
			return pruned, err
		}
		log.Infof("pruned %s", f.Path)
		pruned++
	}
	return pruned, nil
}

// LookupCommand creates the "lookup" cobra command.
func LookupCommand() *cobra.Command {
	var (
		dbPath string
		refs   bool
	)

	cmd := &cobra.Command{
		Use:   "lookup --db PATH [flags] name...",
		Short: "Find where names are declared in an indexed workspace",
		Long: `Look up names in a database written by "kip-ls index".  For each
declaration the file and position are printed together with the
constructors of a type or the parameter types of a function.  With --refs
every recorded use of the name is listed as well.

Names are matched exactly in their dictionary form: look up "doğruluk",
not "doğruluğun".`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck // best-effort cleanup
			found, err := lookupNames(cmd.OutOrStdout(), st, args, refs)
			if err != nil {
				return err
			}
			if found == 0 {
				return fmt.Errorf("no declarations found")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database written by kip-ls index")
	cmd.Flags().BoolVar(&refs, "refs", false, "Also list every recorded use of each name.")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

// lookupNames prints the declarations of names and returns how many were
// found.
func lookupNames(w io.Writer, st *store.Store, names []string, refs bool) (int, error) {
	files, err := st.Files()
	if err != nil {
		return 0, err
	}
	paths := make(map[int64]string, len(files))
	for _, f := range files {
		paths[f.ID] = f.Path
	}

	found := 0
	for _, name := range names {
		syms, err := st.SymbolsByName(name)
		if err != nil {
			return found, err
		}
		for _, sym := range syms {
			found++
			fmt.Fprintf(w, "%s %s %s:%d:%d\n", sym.Kind, sym.Name, paths[sym.FileID], sym.StartLine, sym.StartCol) //nolint:errcheck // best-effort output
			if err := writeSymbolParts(w, st, sym); err != nil {
				return found, err
			}
		}
		if !refs {
			continue
		}
		uses, err := st.ReferencesByName(name)
		if err != nil {
			return found, err
		}
		for _, ref := range uses {
			fmt.Fprintf(w, "  use %q %s:%d:%d\n", ref.Text, paths[ref.FileID], ref.StartLine, ref.StartCol) //nolint:errcheck // best-effort output
		}
	}
	return found, nil
}

func writeSymbolParts(w io.Writer, st *store.Store, sym *store.Symbol) error {
	switch sym.Kind {
	case analysis.SymType.String():
		ctors, err := st.Constructors(sym.ID)
		if err != nil {
			return err
		}
		for _, c := range ctors {
			fmt.Fprintf(w, "  constructor %s\n", c.Name) //nolint:errcheck // best-effort output
		}
	case analysis.SymFunction.String(), analysis.SymBuiltin.String(), analysis.SymConstructor.String():
		params, err := st.Parameters(sym.ID)
		if err != nil {
			return err
		}
		for _, p := range params {
			fmt.Fprintf(w, "  parameter %d %s\n", p.Ordinal+1, p.TypeName) //nolint:errcheck // best-effort output
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(IndexCommand())
	rootCmd.AddCommand(LookupCommand())
}

// Copyright © 2024 The kip-ls authors

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/parser/token"
)

// IndexFile replaces everything stored for path with the contents of
// tables.  The replacement happens in a single transaction.
func (s *Store) IndexFile(path, hash string, tables *analysis.Tables) (*File, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("index %s: begin: %w", path, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	// Dependent rows go with the file through ON DELETE CASCADE.
	if _, err := tx.Exec("DELETE FROM files WHERE path = ?", path); err != nil {
		return nil, fmt.Errorf("index %s: delete: %w", path, err)
	}

	f := &File{Path: path, Hash: hash, Partial: tables.Partial, LastIndexed: time.Now().UTC().Truncate(time.Second)}
	res, err := tx.Exec(
		"INSERT INTO files (path, hash, partial, last_indexed) VALUES (?, ?, ?, ?)",
		f.Path, f.Hash, f.Partial, f.LastIndexed,
	)
	if err != nil {
		return nil, fmt.Errorf("index %s: insert file: %w", path, err)
	}
	if f.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("index %s: last insert id: %w", path, err)
	}

	for _, details := range []map[string]*analysis.Symbol{
		tables.TypeDetails,
		tables.FunctionDetails,
		tables.VariableDetails,
	} {
		for _, name := range sortedNames(details) {
			if err := insertSymbolTx(tx, f.ID, details[name]); err != nil {
				return nil, fmt.Errorf("index %s: symbol %q: %w", path, name, err)
			}
		}
	}

	for _, ref := range tables.References {
		if err := insertReferenceTx(tx, f.ID, ref); err != nil {
			return nil, fmt.Errorf("index %s: reference %q: %w", path, ref.Text, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("index %s: commit: %w", path, err)
	}
	return f, nil
}

func insertSymbolTx(tx *sql.Tx, fileID int64, sym *analysis.Symbol) error {
	sl, sc, el, ec := rangeCols(sym.Source)
	res, err := tx.Exec(
		`INSERT INTO symbols (file_id, name, kind, type_name, detail, start_line, start_col, end_line, end_col)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fileID, sym.Name, sym.Kind.String(), sym.Type, sym.Detail, sl, sc, el, ec,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i, ctor := range sym.Ctors {
		if _, err := tx.Exec(
			"INSERT INTO constructors (type_symbol_id, name, ordinal) VALUES (?, ?, ?)",
			id, ctor, i,
		); err != nil {
			return err
		}
	}
	for i, typ := range sym.Params {
		if _, err := tx.Exec(
			"INSERT INTO parameters (symbol_id, ordinal, type_name) VALUES (?, ?, ?)",
			id, i, typ,
		); err != nil {
			return err
		}
	}
	return nil
}

func insertReferenceTx(tx *sql.Tx, fileID int64, ref *analysis.Reference) error {
	sl, sc, el, ec := rangeCols(ref.Source)
	_, err := tx.Exec(
		`INSERT INTO references_ (file_id, name, text, kind, start_line, start_col, end_line, end_col)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fileID, ref.Name, ref.Text, ref.Kind.String(), sl, sc, el, ec,
	)
	return err
}

func rangeCols(rng token.Range) (startLine, startCol, endLine, endCol int) {
	if rng.Start != nil {
		startLine, startCol = rng.Start.Line, rng.Start.Col
	}
	if rng.End != nil {
		endLine, endCol = rng.End.Line, rng.End.Col
	}
	return
}

// --- Queries ---

const fileCols = "id, path, hash, partial, last_indexed"

func scanFile(scanner interface{ Scan(...any) error }) (*File, error) {
	f := &File{}
	if err := scanner.Scan(&f.ID, &f.Path, &f.Hash, &f.Partial, &f.LastIndexed); err != nil {
		return nil, err
	}
	return f, nil
}

// FileByPath returns the indexed file at path, or nil when it is not
// indexed.
func (s *Store) FileByPath(path string) (*File, error) {
	f, err := scanFile(s.db.QueryRow("SELECT "+fileCols+" FROM files WHERE path = ?", path))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// Files returns every indexed file ordered by path.
func (s *Store) Files() ([]*File, error) {
	rows, err := s.db.Query("SELECT " + fileCols + " FROM files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteFile removes path and everything indexed for it.
func (s *Store) DeleteFile(path string) error {
	if _, err := s.db.Exec("DELETE FROM files WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

const symbolCols = `id, file_id, name, kind, type_name, detail,
	start_line, start_col, end_line, end_col`

func (s *Store) querySymbols(query string, args ...any) ([]*Symbol, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var symbols []*Symbol
	for rows.Next() {
		sym := &Symbol{}
		var typeName, detail sql.NullString
		if err := rows.Scan(
			&sym.ID, &sym.FileID, &sym.Name, &sym.Kind, &typeName, &detail,
			&sym.StartLine, &sym.StartCol, &sym.EndLine, &sym.EndCol,
		); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		sym.TypeName = typeName.String
		sym.Detail = detail.String
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// SymbolsByName returns the symbols declared as name in any file.
func (s *Store) SymbolsByName(name string) ([]*Symbol, error) {
	return s.querySymbols("SELECT "+symbolCols+" FROM symbols WHERE name = ? ORDER BY file_id, id", name)
}

// SymbolsByFile returns the symbols declared in a file.
func (s *Store) SymbolsByFile(fileID int64) ([]*Symbol, error) {
	return s.querySymbols("SELECT "+symbolCols+" FROM symbols WHERE file_id = ? ORDER BY id", fileID)
}

// Constructors returns the constructors of a type symbol in declaration
// order.
func (s *Store) Constructors(typeSymbolID int64) ([]*Constructor, error) {
	rows, err := s.db.Query(
		"SELECT id, type_symbol_id, name, ordinal FROM constructors WHERE type_symbol_id = ? ORDER BY ordinal",
		typeSymbolID,
	)
	if err != nil {
		return nil, fmt.Errorf("constructors: %w", err)
	}
	defer rows.Close()
	var ctors []*Constructor
	for rows.Next() {
		c := &Constructor{}
		if err := rows.Scan(&c.ID, &c.TypeSymbolID, &c.Name, &c.Ordinal); err != nil {
			return nil, fmt.Errorf("scan constructor: %w", err)
		}
		ctors = append(ctors, c)
	}
	return ctors, rows.Err()
}

// Parameters returns the parameter types of a callable symbol in order.
func (s *Store) Parameters(symbolID int64) ([]*Parameter, error) {
	rows, err := s.db.Query(
		"SELECT id, symbol_id, ordinal, type_name FROM parameters WHERE symbol_id = ? ORDER BY ordinal",
		symbolID,
	)
	if err != nil {
		return nil, fmt.Errorf("parameters: %w", err)
	}
	defer rows.Close()
	var params []*Parameter
	for rows.Next() {
		p := &Parameter{}
		if err := rows.Scan(&p.ID, &p.SymbolID, &p.Ordinal, &p.TypeName); err != nil {
			return nil, fmt.Errorf("scan parameter: %w", err)
		}
		params = append(params, p)
	}
	return params, rows.Err()
}

// ReferencesByName returns the recorded uses of name in any file.
func (s *Store) ReferencesByName(name string) ([]*Reference, error) {
	rows, err := s.db.Query(
		`SELECT id, file_id, name, text, kind, start_line, start_col, end_line, end_col
		 FROM references_ WHERE name = ? ORDER BY file_id, id`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("references by name: %w", err)
	}
	defer rows.Close()
	var refs []*Reference
	for rows.Next() {
		r := &Reference{}
		if err := rows.Scan(
			&r.ID, &r.FileID, &r.Name, &r.Text, &r.Kind,
			&r.StartLine, &r.StartCol, &r.EndLine, &r.EndCol,
		); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

func sortedNames(m map[string]*analysis.Symbol) []string {
	set := make(analysis.Set, len(m))
	for name := range m {
		set.Add(name)
	}
	return set.Sorted()
}

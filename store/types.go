// Copyright © 2024 The kip-ls authors

package store

import "time"

type File struct {
	ID          int64
	Path        string
	Hash        string
	Partial     bool
	LastIndexed time.Time
}

type Symbol struct {
	ID        int64
	FileID    int64
	Name      string
	Kind      string
	TypeName  string // owning type of a constructor, declared type of a parameter
	Detail    string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

type Constructor struct {
	ID           int64
	TypeSymbolID int64
	Name         string
	Ordinal      int
}

type Parameter struct {
	ID       int64
	SymbolID int64
	Ordinal  int
	TypeName string
}

type Reference struct {
	ID        int64
	FileID    int64
	Name      string
	Text      string
	Kind      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Copyright © 2024 The kip-ls authors

package analysis

import "github.com/kip-lang/kip-ls/parser/token"

// SymbolKind classifies a declared name.
type SymbolKind int

const (
	SymType        SymbolKind = iota // Bir ... olsun/olamaz/olabilir
	SymConstructor                   // union alternative
	SymFunction                      // function definition
	SymBuiltin                       // ... yerleşiktir
	SymVariable                      // diyelim
	SymParameter                     // function parameter
	SymBinder                        // name bound by a pattern clause
)

func (k SymbolKind) String() string {
	switch k {
	case SymType:
		return "type"
	case SymConstructor:
		return "constructor"
	case SymFunction:
		return "function"
	case SymBuiltin:
		return "builtin"
	case SymVariable:
		return "variable"
	case SymParameter:
		return "parameter"
	case SymBinder:
		return "binder"
	default:
		return "unknown"
	}
}

// IsCallable reports whether symbols of kind k are entered in the function
// set.
func (k SymbolKind) IsCallable() bool {
	return k == SymConstructor || k == SymFunction || k == SymBuiltin
}

// Symbol describes a declared name.
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Source token.Range // the name at its declaration

	// Detail is a one line rendering of the declaration, such as a function
	// signature.
	Detail string

	// Type is the owning type of a constructor or the declared type of a
	// parameter.
	Type string

	// Params lists parameter types of callables, in order.
	Params []string

	// Ctors lists the constructors of a union type.
	Ctors []string
}

// Reference records a use of a name.
type Reference struct {
	Name   string // resolved name
	Text   string // as written
	Kind   SymbolKind
	Source token.Range
}

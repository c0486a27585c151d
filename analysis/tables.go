// Copyright © 2024 The kip-ls authors

package analysis

import (
	"sort"
	"strings"

	"github.com/kip-lang/kip-ls/morph"
	"github.com/kip-lang/kip-ls/parser/token"
)

// Set is a set of names.
type Set map[string]bool

// Add inserts name into s.
func (s Set) Add(name string) { s[name] = true }

// Has reports whether name is in s.
func (s Set) Has(name string) bool { return s[name] }

// Sorted returns the members of s in lexical order.
func (s Set) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tables holds the symbol tables of one document.  A Tables value is built
// once per document version and not modified afterwards.
type Tables struct {
	Functions    Set // functions, gerund spellings and constructors
	Types        Set // type names and the words of multi-word type names
	Variables    Set // variables, parameters and pattern binders
	VariableRefs Set // names referenced as values
	Keywords     Set

	// TypePhrases maps a type name, and each word of a multi-word name, to
	// the full name.
	TypePhrases map[string]string

	FunctionDetails map[string]*Symbol
	TypeDetails     map[string]*Symbol
	VariableDetails map[string]*Symbol

	// Constructors maps a constructor to the type declaring it.
	Constructors map[string]string

	// Ranges maps each declared name to the range of its declaration.
	Ranges map[string]token.Range

	// References lists every use of a name in source order of discovery.
	References []*Reference

	// Partial is set when part of the program was not visited.  Truncated
	// counts the subtrees left out.
	Partial   bool
	Truncated int
}

// NewTables returns empty tables.  The keyword set is always populated.
func NewTables() *Tables {
	t := &Tables{
		Functions:       make(Set),
		Types:           make(Set),
		Variables:       make(Set),
		VariableRefs:    make(Set),
		Keywords:        make(Set),
		TypePhrases:     make(map[string]string),
		FunctionDetails: make(map[string]*Symbol),
		TypeDetails:     make(map[string]*Symbol),
		VariableDetails: make(map[string]*Symbol),
		Constructors:    make(map[string]string),
		Ranges:          make(map[string]token.Range),
	}
	for _, kw := range token.Keywords {
		t.Keywords.Add(kw.Text)
	}
	return t
}

// define enters sym in the set and detail map for its kind.  The first
// declaration of a name keeps its range.
func (t *Tables) define(sym *Symbol) {
	switch {
	case sym.Kind == SymType:
		t.Types.Add(sym.Name)
		t.TypeDetails[sym.Name] = sym
	case sym.Kind.IsCallable():
		t.Functions.Add(sym.Name)
		t.FunctionDetails[sym.Name] = sym
	default:
		t.Variables.Add(sym.Name)
		t.VariableDetails[sym.Name] = sym
	}
	if _, ok := t.Ranges[sym.Name]; !ok {
		t.Ranges[sym.Name] = sym.Source
	}
}

// MultiWordTypes returns the declared type names containing a space, in
// lexical order.
func (t *Tables) MultiWordTypes() []string {
	var names []string
	for name := range t.TypeDetails {
		if strings.Contains(name, " ") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is declared or referenced in any table.
func (t *Tables) Known(name string) bool {
	return t.Types.Has(name) || t.Functions.Has(name) || t.Variables.Has(name) || t.VariableRefs.Has(name)
}

// Lookup resolves a word as written, possibly carrying a case suffix, to a
// declared symbol.  Types are tried first, then functions, then variables.
func (t *Tables) Lookup(word string) (*Symbol, bool) {
	if full, ok := t.TypePhrases[word]; ok {
		return t.TypeDetails[full], true
	}
	tries := []struct {
		set     Set
		details map[string]*Symbol
	}{
		{t.Types, t.TypeDetails},
		{t.Functions, t.FunctionDetails},
		{t.Variables, t.VariableDetails},
	}
	for _, try := range tries {
		r, ok := morph.ResolveKnown(word, try.set.Has)
		if !ok {
			continue
		}
		if sym := try.details[r.Base]; sym != nil {
			return sym, true
		}
		if full, ok := t.TypePhrases[r.Base]; ok {
			return t.TypeDetails[full], true
		}
	}
	return nil, false
}

// ReferencesTo returns the recorded uses of name.
func (t *Tables) ReferencesTo(name string) []*Reference {
	var refs []*Reference
	for _, ref := range t.References {
		if ref.Name == name {
			refs = append(refs, ref)
		}
	}
	return refs
}

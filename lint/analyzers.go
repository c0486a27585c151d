// Copyright © 2024 The kip-ls authors

package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/astutil"
	"github.com/kip-lang/kip-ls/parser/ast"
)

// AnalyzerDuplicateDeclaration warns when a name is declared twice in a file.
var AnalyzerDuplicateDeclaration = &Analyzer{
	Name:     "duplicate-declaration",
	Severity: SeverityWarning,
	Doc:      "Warn when a type, constructor, function or variable is declared more than once.\n\nTypes, callables (functions and constructors) and variables each form one namespace. Functions may share a name when their parameter types differ, as overloads do, so a function only clashes with another of the same name and parameter types.",
	Run: func(pass *Pass) error {
		seen := make(map[string]astutil.Name)
		for _, decl := range pass.Program.Decls {
			for _, n := range astutil.DeclaredNames(decl) {
				key := declKey(decl, n)
				prev, ok := seen[key]
				if !ok {
					seen[key] = n
					continue
				}
				d := At(n.Range, "%s %s already declared", n.Kind, n.Name)
				if start := prev.Range.Start; start != nil {
					pass.ReportWithNotes(d, fmt.Sprintf("previous declaration at %d:%d", start.Line, start.Col))
				} else {
					pass.Report(d)
				}
			}
		}
		return nil
	},
}

// declKey returns the namespace key under which n clashes with other names.
func declKey(decl ast.Decl, n astutil.Name) string {
	switch n.Kind {
	case analysis.SymType:
		return "type " + n.Name
	case analysis.SymVariable:
		return "variable " + n.Name
	case analysis.SymFunction, analysis.SymBuiltin:
		fd := decl.(*ast.FuncDef)
		types := make([]string, len(fd.Params))
		for i, prm := range fd.Params {
			if prm.Type != nil {
				types[i] = prm.Type.Name
			}
		}
		return "callable " + n.Name + "(" + strings.Join(types, ",") + ")"
	default:
		return "callable " + n.Name + "()"
	}
}

// AnalyzerUnreachableClause warns about pattern clauses that can never be
// selected.
var AnalyzerUnreachableClause = &Analyzer{
	Name:     "unreachable-clause",
	Severity: SeverityWarning,
	Doc:      "Warn about pattern clauses that can never match.\n\nClauses are tried in order, so a clause after the catch-all `değilse` clause, or one testing a constructor an earlier clause already tests, is never selected.",
	Run: func(pass *Pass) error {
		astutil.WalkMatches(pass.Program, func(pm *ast.PatternMatch, _ int) {
			matched := make(map[string]bool)
			catchAll := false
			for _, c := range pm.Clauses {
				rng := astutil.SourceOf(c.CtorRange, c.Source)
				switch {
				case catchAll:
					pass.Reportf(rng, "clause follows the catch-all clause and is never selected")
				case c.Ctor == "":
					catchAll = true
				case matched[c.Ctor]:
					pass.Reportf(rng, "constructor %s is already matched by an earlier clause", c.Ctor)
				default:
					matched[c.Ctor] = true
				}
			}
		})
		return nil
	},
}

// AnalyzerNonExhaustiveMatch warns about pattern matches that leave
// constructors of the matched type unhandled.
var AnalyzerNonExhaustiveMatch = &Analyzer{
	Name:     "non-exhaustive-match",
	Severity: SeverityWarning,
	Doc:      "Warn when a pattern match misses constructors of the matched type.\n\nWhen every clause tests a constructor of the same declared type and there is no catch-all `değilse` clause, each constructor of that type must have a clause.",
	Run: func(pass *Pass) error {
		if pass.Tables == nil {
			return nil
		}
		astutil.WalkMatches(pass.Program, func(pm *ast.PatternMatch, _ int) {
			typ, covered, ok := matchedType(pass.Tables, pm)
			if !ok {
				return
			}
			sym := pass.Tables.TypeDetails[typ]
			if sym == nil {
				return
			}
			var missing []string
			for _, ctor := range sym.Ctors {
				if !covered[ctor] {
					missing = append(missing, ctor)
				}
			}
			if len(missing) == 0 {
				return
			}
			pass.ReportWithNotes(
				At(pm.Source, "match on %s does not handle %s", pm.Scrutinee, strings.Join(missing, ", ")),
				"add a clause for each missing constructor or end with a değilse clause")
		})
		return nil
	},
}

// matchedType returns the type whose constructors every clause of pm tests,
// along with the constructors covered.  It fails for matches with a
// catch-all clause or constructors of more than one type.
func matchedType(t *analysis.Tables, pm *ast.PatternMatch) (string, map[string]bool, bool) {
	typ := ""
	covered := make(map[string]bool)
	for _, c := range pm.Clauses {
		if c.Ctor == "" {
			return "", nil, false
		}
		owner, ok := t.Constructors[c.Ctor]
		if !ok || (typ != "" && owner != typ) {
			return "", nil, false
		}
		typ = owner
		covered[c.Ctor] = true
	}
	return typ, covered, typ != ""
}

// AnalyzerUnusedParameter reports function parameters the body never reads.
var AnalyzerUnusedParameter = &Analyzer{
	Name:     "unused-parameter",
	Severity: SeverityInfo,
	Doc:      "Report function parameters that are never used.\n\nA parameter counts as used when the body refers to it in any inflected form or matches on it. Builtin declarations and definitions whose body could not be parsed are not checked.",
	Run: func(pass *Pass) error {
		for _, decl := range pass.Program.Decls {
			fd, ok := decl.(*ast.FuncDef)
			if !ok || fd.Builtin || len(fd.Params) == 0 {
				continue
			}
			roots := astutil.Roots(fd)
			if len(roots) == 0 {
				continue
			}
			used := make(map[string]bool)
			for _, root := range roots {
				for name := range astutil.UsedNames(root) {
					used[name] = true
				}
			}
			if fd.Body != nil && !isParamName(fd.Params, fd.Body.Scrutinee) {
				// A match naming no parameter tests the first one.
				used[fd.Params[0].Name] = true
			}
			for _, prm := range fd.Params {
				if used[prm.Name] {
					continue
				}
				pass.Reportf(prm.Source, "parameter %s of %s is never used", prm.Name, fd.Name)
			}
		}
		return nil
	},
}

func isParamName(params []*ast.Param, name string) bool {
	for _, prm := range params {
		if prm.Name == name {
			return true
		}
	}
	return false
}

// AnalyzerConstantCondition reports conditionals testing a literal truth
// value.
var AnalyzerConstantCondition = &Analyzer{
	Name:     "constant-condition",
	Severity: SeverityInfo,
	Doc:      "Report conditionals whose condition is a literal `doğru` or `yanlış`.\n\nOne branch of such a conditional is always taken and the other is dead code.",
	Run: func(pass *Pass) error {
		astutil.Walk(pass.Program, func(node ast.Expression, _ ast.Expression, _ int) {
			cond, ok := node.(*ast.Conditional)
			if !ok {
				return
			}
			ref, ok := cond.Cond.(*ast.VarRef)
			if !ok || !isTruthLiteral(ref) {
				return
			}
			pass.Reportf(ref.Source, "condition is always %s", ref.Name)
		})
		return nil
	},
}

func isTruthLiteral(ref *ast.VarRef) bool {
	return (ref.Name == "doğru" || ref.Name == "yanlış") && ref.Text == ref.Name
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerDuplicateDeclaration,
		AnalyzerUnreachableClause,
		AnalyzerNonExhaustiveMatch,
		AnalyzerUnusedParameter,
		AnalyzerConstantCondition,
	}
}

// SelectAnalyzers returns the default analyzers named in names, in default
// order.  An empty list selects all of them.
func SelectAnalyzers(names []string) ([]*Analyzer, error) {
	analyzers := DefaultAnalyzers()
	if len(names) == 0 {
		return analyzers, nil
	}
	selected := make(map[string]bool, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			selected[name] = true
		}
	}
	var out []*Analyzer
	for _, a := range analyzers {
		if selected[a.Name] {
			out = append(out, a)
			delete(selected, a.Name)
		}
	}
	if len(selected) > 0 {
		unknown := make([]string, 0, len(selected))
		for name := range selected {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown check: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

// AnalyzerNames returns a sorted list of all default analyzer names.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns a formatted documentation string for all analyzers.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s\n", a.Name)
		lines := strings.Split(a.Doc, "\n")
		fmt.Fprintf(&b, "    %s\n\n", lines[0])
	}
	return b.String()
}

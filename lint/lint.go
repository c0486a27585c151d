// Copyright © 2024 The kip-ls authors

// Package lint provides static checks for kip source files.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that receives a parsed program and its symbol tables and reports
// diagnostics.  The framework handles analysis, running analyzers,
// collecting results and formatting output.
//
// Checks look for likely mistakes visible without type checking: names
// declared twice, pattern matches that miss or repeat constructors,
// parameters a function never reads.  Embedders can define custom checks
// alongside the built-in set.
package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kip-lang/kip-ls/analysis"
	"github.com/kip-lang/kip-ls/astutil"
	"github.com/kip-lang/kip-ls/engine"
	"github.com/kip-lang/kip-ls/parser/ast"
	"github.com/kip-lang/kip-ls/parser/token"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "unused-parameter").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the source file being analyzed.
	Filename string

	// Program is the parsed document.
	Program *ast.Program

	// Tables holds the symbol tables built from Program.
	Tables *analysis.Tables

	// diagnostics collects reported findings.
	diagnostics []Diagnostic
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ReportWithNotes records a diagnostic with additional hint text.
func (p *Pass) ReportWithNotes(d Diagnostic, notes ...string) {
	d.Notes = append(d.Notes, notes...)
	p.Report(d)
}

// Reportf is a convenience for reporting a diagnostic over a range.
func (p *Pass) Reportf(rng token.Range, format string, args ...interface{}) {
	p.Report(At(rng, format, args...))
}

// At returns a diagnostic over rng with a formatted message.
func At(rng token.Range, format string, args ...interface{}) Diagnostic {
	d := Diagnostic{
		Message: fmt.Sprintf(format, args...),
	}
	if rng.Start != nil {
		d.Pos = Position{File: rng.Start.File, Line: rng.Start.Line, Col: rng.Start.Col}
	}
	if rng.End != nil {
		d.End = &Position{File: rng.End.File, Line: rng.End.Line, Col: rng.End.Col}
	}
	return d
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Pos is the source location of the problem.
	Pos Position `json:"pos"`

	// End is the exclusive end of the problem span, when known.
	End *Position `json:"end,omitempty"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`

	// Notes are optional hint text lines for the user.
	Notes []string `json:"notes,omitempty"`
}

// Position identifies a location in source code.  Col counts UTF-16 code
// units.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

// String returns the position in file:line:col format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style: file:line:col: message
// (analyzer) with optional note lines appended.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Analyzer)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	return s
}

// Linter runs a set of analyzers over source files.
type Linter struct {
	Analyzers []*Analyzer

	// Config bounds the analysis of each file.  The zero value uses
	// engine.DefaultConfig.
	Config engine.Config
}

// LintFile analyzes a single source file and returns all diagnostics.
func (l *Linter) LintFile(ctx context.Context, source []byte, filename string) ([]Diagnostic, error) {
	cfg := l.Config
	if cfg.MaxDepth == 0 && cfg.NodeBudget == 0 {
		cfg = engine.DefaultConfig()
	}
	cfg.File = filename
	res, err := engine.Analyze(ctx, string(source), cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return l.LintResult(res, string(source), filename)
}

// LintResult runs the analyzers over an existing analysis of source.
func (l *Linter) LintResult(res *engine.Result, source, filename string) ([]Diagnostic, error) {
	var all []Diagnostic
	for _, analyzer := range l.Analyzers {
		pass := &Pass{
			Analyzer: analyzer,
			Filename: filename,
			Program:  res.Program,
			Tables:   res.Tables,
		}
		if err := analyzer.Run(pass); err != nil {
			return nil, fmt.Errorf("%s: analyzer %s: %w", filename, analyzer.Name, err)
		}
		all = append(all, pass.diagnostics...)
	}

	nolint := suppressionsIn(source)
	kept := all[:0]
	for _, d := range all {
		if d.Pos.File == "" {
			d.Pos.File = filename
		}
		if !nolint.covers(d) {
			kept = append(kept, d)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Pos.before(kept[j].Pos) })
	return kept, nil
}

func (p Position) before(q Position) bool {
	if p.File != q.File {
		return p.File < q.File
	}
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// suppressions maps a line to the checks silenced on it.  A nil set
// silences every check.
type suppressions map[int]map[string]bool

// suppressionsIn collects the (* nolint *) and (* nolint:a,b *) comments of
// source.  A comment spanning lines applies to its first and last line.
func suppressionsIn(source string) suppressions {
	s := make(suppressions)
	for _, c := range astutil.Comments(source) {
		checks, ok := parseNolint(c.Text)
		if !ok {
			continue
		}
		s[c.Line] = checks
		s[c.EndLine] = checks
	}
	return s
}

func (s suppressions) covers(d Diagnostic) bool {
	checks, ok := s[d.Pos.Line]
	if !ok {
		return false
	}
	return checks == nil || checks[d.Analyzer]
}

// parseNolint reads a nolint directive from comment text, returning the
// named checks or nil when the directive names none.
func parseNolint(text string) (map[string]bool, bool) {
	rest, ok := strings.CutPrefix(text, "nolint")
	if !ok {
		return nil, false
	}
	if rest == "" {
		return nil, true
	}
	list, ok := strings.CutPrefix(rest, ":")
	if !ok {
		return nil, false
	}
	checks := make(map[string]bool)
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			checks[name] = true
		}
	}
	if len(checks) == 0 {
		return nil, true
	}
	return checks, true
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// Copyright © 2024 The kip-ls authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// tabWidth is the number of columns a tab occupies in quoted source.
const tabWidth = 4

// Renderer formats diagnostics as Rust-style annotated source snippets.
// Columns are counted in UTF-16 code units, the unit of token locations.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	bw := bufio.NewWriter(w)
	out := &snippetWriter{w: bw, p: choosePalette(r.Color, w)}

	out.header(d)
	for _, span := range d.Spans {
		out.span(span, r.sourceLine(span.File, span.Line))
	}
	for _, note := range d.Notes {
		out.printf("   %s=%s note: %s\n", out.p.note, out.p.reset, note)
	}
	if out.err != nil {
		return out.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// sourceLine returns line of file, or "" when the file cannot be read or
// is shorter.
func (r *Renderer) sourceLine(file string, line int) string {
	if line <= 0 || file == "" {
		return ""
	}
	read := r.SourceReader
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(file)
	if err != nil {
		return ""
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; sc.Scan(); n++ {
		if n == line {
			return sc.Text()
		}
	}
	return ""
}

// snippetWriter writes one diagnostic and keeps the first write error.
type snippetWriter struct {
	w   io.Writer
	p   palette
	err error
}

func (s *snippetWriter) printf(format string, a ...interface{}) {
	if s.err == nil {
		_, s.err = fmt.Fprintf(s.w, format, a...)
	}
}

func (s *snippetWriter) header(d Diagnostic) {
	s.printf("%s%s%s: %s%s%s\n",
		s.p.sev(d.Severity), d.Severity, s.p.reset,
		s.p.emphasis, d.Message, s.p.reset)
}

// span writes the location of span and, when source is known, the quoted
// line with the span underlined.
func (s *snippetWriter) span(span Span, source string) {
	s.printf("  %s-->%s %s\n", s.p.gutter, s.p.reset, span.location())
	if source == "" {
		s.printf("   %s|%s\n", s.p.gutter, s.p.reset)
		return
	}

	num := strconv.Itoa(span.Line)
	blank := strings.Repeat(" ", len(num))
	gutter := func(label string) string {
		return " " + s.p.gutter + label + " |" + s.p.reset
	}

	runes := []rune(source)
	start, end := span.runeRange(runes)
	pad := displayWidth(runes[:start])
	width := displayWidth(runes[start:end])
	if width < 1 {
		width = 1
	}

	s.printf("%s\n", gutter(blank))
	s.printf("%s  %s\n", gutter(num), strings.ReplaceAll(source, "\t", strings.Repeat(" ", tabWidth)))
	s.printf("%s  %s%s%s%s", gutter(blank), strings.Repeat(" ", pad), s.p.marker, strings.Repeat("^", width), s.p.reset)
	if span.Label != "" {
		s.printf(" %s%s%s", s.p.marker, span.Label, s.p.reset)
	}
	s.printf("\n%s\n", gutter(blank))
}

// location formats the span as file, file:line or file:line:col.
func (span Span) location() string {
	switch {
	case span.Line <= 0:
		return span.File
	case span.Col <= 0:
		return fmt.Sprintf("%s:%d", span.File, span.Line)
	}
	return fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
}

// runeRange converts the UTF-16 columns of span to a half-open rune range
// of line.  A missing end column extends the range to the end of the word
// at the start column.
func (span Span) runeRange(line []rune) (int, int) {
	col := span.Col
	if col <= 0 {
		col = 1
	}
	start := runeAt(line, col)
	if span.EndCol <= 0 {
		end := start
		for end < len(line) && !isWordEnd(line[end]) {
			end++
		}
		return start, end
	}
	end := runeAt(line, span.EndCol+1)
	if end < start {
		end = start
	}
	return start, end
}

// runeAt returns the index of the rune at 1-based UTF-16 column col,
// clamped to len(line).
func runeAt(line []rune, col int) int {
	units := 0
	for i, ch := range line {
		if units >= col-1 {
			return i
		}
		units++
		if ch >= 0x10000 {
			units++
		}
	}
	return len(line)
}

func isWordEnd(ch rune) bool {
	return strings.ContainsRune(" \t(),.'\"", ch)
}

// displayWidth returns the terminal width of runes, expanding tabs.
func displayWidth(runes []rune) int {
	w := 0
	for _, ch := range runes {
		if ch == '\t' {
			w += tabWidth
			continue
		}
		w += runewidth.RuneWidth(ch)
	}
	return w
}

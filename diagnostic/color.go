// Copyright © 2024 The kip-ls authors

package diagnostic

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when writing to a terminal and NO_COLOR is unset
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// ParseColorMode parses the value of a --color flag.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

// palette maps the parts of a rendered diagnostic to escape sequences.  The
// zero palette renders plain text.
type palette struct {
	severity [3]string // indexed by Severity
	gutter   string
	marker   string
	emphasis string
	note     string
	reset    string
}

var ansiPalette = palette{
	severity: [3]string{
		SeverityError:   "\033[1;31m",
		SeverityWarning: "\033[1;33m",
		SeverityNote:    "\033[1;36m",
	},
	gutter:   "\033[1;34m",
	marker:   "\033[1;31m",
	emphasis: "\033[1m",
	note:     "\033[1;36m",
	reset:    "\033[0m",
}

// sev returns the header color for s.
func (p palette) sev(s Severity) string {
	if s < 0 || int(s) >= len(p.severity) {
		return p.emphasis
	}
	return p.severity[s]
}

// choosePalette selects the palette for mode when writing to w.
func choosePalette(mode ColorMode, w io.Writer) palette {
	switch mode {
	case ColorAlways:
		return ansiPalette
	case ColorNever:
		return palette{}
	}
	if os.Getenv("NO_COLOR") != "" || !isTerminal(w) {
		return palette{}
	}
	return ansiPalette
}

// isTerminal reports whether w is a file connected to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Copyright © 2024 The kip-ls authors

// Package morph resolves kip words into a base identifier and a grammatical
// case.  Kip marks the role of an argument with Turkish case suffixes
// ("evin", "eve", "evi", ...), so a reference to a declared name rarely
// matches the declaration letter for letter.
//
// All functions in the package are pure.
package morph

import (
	"strings"
	"unicode/utf8"
)

// Case is a grammatical case recognized by the resolver.
type Case int

const (
	Nom  Case = iota // nominative, no suffix
	Gen              // genitive, -in
	Dat              // dative, -e
	Acc              // accusative, -i
	Ins              // instrumental, -le
	Loc              // locative, -de
	Abl              // ablative, -den
	Cond             // conditional, -se
	P3s              // third person possessive, -si
)

func (c Case) String() string {
	switch c {
	case Nom:
		return "nominative"
	case Gen:
		return "genitive"
	case Dat:
		return "dative"
	case Acc:
		return "accusative"
	case Ins:
		return "instrumental"
	case Loc:
		return "locative"
	case Abl:
		return "ablative"
	case Cond:
		return "conditional"
	case P3s:
		return "possessive"
	default:
		return "unknown"
	}
}

// Result is one reading of a word.
type Result struct {
	Base   string
	Case   Case
	Suffix string
}

type suffix struct {
	text string
	c    Case
}

// suffixes is ordered longest first.  Buffer consonant variants (y, n, s)
// come before the bare vowel forms they extend.  The n-buffered accusative
// and dative follow a possessive: "toplamını", "toplamına".
var suffixes = []suffix{
	{"nın", Gen}, {"nin", Gen}, {"nun", Gen}, {"nün", Gen},
	{"yla", Ins}, {"yle", Ins},
	{"dan", Abl}, {"den", Abl}, {"tan", Abl}, {"ten", Abl},
	{"ysa", Cond}, {"yse", Cond},

	{"ın", Gen}, {"in", Gen}, {"un", Gen}, {"ün", Gen},
	{"ya", Dat}, {"ye", Dat},
	{"yı", Acc}, {"yi", Acc}, {"yu", Acc}, {"yü", Acc},
	{"la", Ins}, {"le", Ins},
	{"da", Loc}, {"de", Loc}, {"ta", Loc}, {"te", Loc},
	{"sa", Cond}, {"se", Cond},
	{"sı", P3s}, {"si", P3s}, {"su", P3s}, {"sü", P3s},
	{"nı", Acc}, {"ni", Acc}, {"nu", Acc}, {"nü", Acc},
	{"na", Dat}, {"ne", Dat},

	{"a", Dat}, {"e", Dat},
	{"ı", Acc}, {"i", Acc}, {"u", Acc}, {"ü", Acc},
}

// minBase is the shortest base, in runes, a suffix may leave behind.
const minBase = 2

// Analyze returns every reading of word.  The nominative identity reading is
// always first, followed by one reading per matching suffix, longest suffix
// first.
func Analyze(word string) []Result {
	results := []Result{{Base: word, Case: Nom}}
	for _, sfx := range suffixes {
		base, ok := strings.CutSuffix(word, sfx.text)
		if !ok || utf8.RuneCountInString(base) < minBase {
			continue
		}
		results = append(results, Result{Base: base, Case: sfx.c, Suffix: sfx.text})
	}
	return results
}

// FindBaseIdentifier picks the most likely reading of word without knowing
// which names are declared.  The longest matching suffix wins since it is the
// most specific reading; a word with no matching suffix is its own base.
func FindBaseIdentifier(word string) Result {
	results := Analyze(word)
	if len(results) > 1 {
		return results[1]
	}
	return results[0]
}

// ResolveKnown picks the reading of word whose base satisfies known.  Among
// the matches the nominative reading is preferred, then the shortest suffix.
// Bases ending in a softened consonant (kitabı -> kitap) are also tried in
// their hard form.
func ResolveKnown(word string, known func(string) bool) (Result, bool) {
	if known == nil {
		return Result{Base: word, Case: Nom}, false
	}
	var best Result
	found := false
	for _, r := range Analyze(word) {
		base, ok := knownBase(r.Base, known)
		if !ok {
			continue
		}
		r.Base = base
		if !found || better(r, best) {
			best = r
			found = true
		}
	}
	return best, found
}

func better(a, b Result) bool {
	if (a.Case == Nom) != (b.Case == Nom) {
		return a.Case == Nom
	}
	return len(a.Suffix) < len(b.Suffix)
}

var softened = map[rune]rune{
	'ğ': 'k',
	'b': 'p',
	'c': 'ç',
	'd': 't',
}

func knownBase(base string, known func(string) bool) (string, bool) {
	if known(base) {
		return base, true
	}
	last, size := utf8.DecodeLastRuneInString(base)
	if hard, ok := softened[last]; ok {
		hardBase := base[:len(base)-size] + string(hard)
		if known(hardBase) {
			return hardBase, true
		}
	}
	return "", false
}

// SplitConditional returns the base of a word carrying a conditional suffix
// ("boşsa" -> "boş").
func SplitConditional(word string) (string, bool) {
	for _, r := range Analyze(word) {
		if r.Case == Cond {
			return r.Base, true
		}
	}
	return word, false
}

// StripPossessive removes a third person possessive ending from word
// ("ardılı" -> "ardıl", "eklemesi" -> "ekleme").  After a consonant the
// possessive is a bare vowel, which the suffix table reads as accusative.
func StripPossessive(word string) string {
	for _, r := range Analyze(word) {
		switch r.Case {
		case P3s:
			return r.Base
		case Acc:
			if !strings.HasPrefix(r.Suffix, "y") && !isVowelEnd(r.Base) {
				return r.Base
			}
		}
	}
	return word
}

// HasGerundSuffix reports whether word is a verbal noun ending in -mak/-mek.
func HasGerundSuffix(word string) bool {
	return utf8.RuneCountInString(word) > 3 &&
		(strings.HasSuffix(word, "mak") || strings.HasSuffix(word, "mek"))
}

// GerundStem returns word without its -mak/-mek ending.
func GerundStem(word string) string {
	if !HasGerundSuffix(word) {
		return word
	}
	return word[:len(word)-len("mak")]
}

// Gerund builds the -mak/-mek form of stem following vowel harmony.
func Gerund(stem string) string {
	if HasGerundSuffix(stem) {
		return stem
	}
	for _, c := range reverse(stem) {
		switch c {
		case 'a', 'ı', 'o', 'u':
			return stem + "mak"
		case 'e', 'i', 'ö', 'ü':
			return stem + "mek"
		}
	}
	return stem + "mek"
}

func reverse(s string) []rune {
	rs := []rune(s)
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	return rs
}

func isVowelEnd(s string) bool {
	c, _ := utf8.DecodeLastRuneInString(s)
	return strings.ContainsRune("aeıioöuü", c)
}

// Package normalize holds the pure string transforms shared by every later
// stage: identifier sanitization for field labels (whitespace- and
// diacritic-agnostic) and the two display-text formatters.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Decompose → remove nonspacing marks (accents) → recompose.
var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Key sanitizes a field label into an identifier:
//
//  1. trim leading/trailing whitespace
//  2. strip accents (NFD → remove Mn → NFC)
//  3. collapse runs of whitespace, '-' and '_' to a single underscore
//  4. drop every remaining character outside [A-Za-z0-9_]
//
// Key never fails, maps "" to "", and is idempotent.
func Key(label string) string {
	s := strings.TrimSpace(label)
	if s == "" {
		return ""
	}
	if ascii, _, err := transform.String(stripMarks, s); err == nil {
		s = ascii
	}

	var b strings.Builder
	prevSep := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevSep = false
		case unicode.IsSpace(r), r == '-', r == '_':
			if !prevSep {
				b.WriteByte('_')
				prevSep = true
			}
		default:
			// drop anything else
		}
	}
	return b.String()
}

// TitleSegment formats one category path segment: each whitespace-separated
// token gets an upper-cased first letter and lower-cased remainder, and
// internal runs of spaces collapse to a single separator.
func TitleSegment(text string) string {
	toks := strings.Fields(text)
	for i, tok := range toks {
		toks[i] = capitalize(tok)
	}
	return strings.Join(toks, " ")
}

// CamelFromUpper turns an ALL-CAPS source description into a readable name
// by lower-casing the whole string and re-capitalizing each token's first
// letter. Empty input is returned unchanged.
func CamelFromUpper(text string) string {
	if text == "" {
		return text
	}
	return TitleSegment(strings.ToLower(text))
}

func capitalize(tok string) string {
	r := []rune(tok)
	out := make([]rune, 0, len(r))
	out = append(out, unicode.ToUpper(r[0]))
	for _, c := range r[1:] {
		out = append(out, unicode.ToLower(c))
	}
	return string(out)
}

package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// RemoveAccents strips combining diacritical marks ("função" -> "funcao").
func RemoveAccents(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeName lowers, trims and de-accents a person or header name and
// collapses internal whitespace runs into single spaces. Spreadsheet cells
// frequently carry double spaces and non-breaking spaces from manual edits.
func NormalizeName(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = RemoveAccents(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(strings.Fields(s), " ")
}

// Digits returns only the decimal digits of s, in order.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

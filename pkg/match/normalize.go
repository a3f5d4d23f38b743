// Package match provides fuzzy name matching for user-facing lookups, such
// as suggesting a download location when the typed name has no exact match.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize prepares a name for comparison: lowercase, accents stripped,
// punctuation collapsed to spaces, whitespace folded.
func Normalize(s string) string {
	s = strings.ToLower(s)

	// Strip diacritics (café -> cafe).
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

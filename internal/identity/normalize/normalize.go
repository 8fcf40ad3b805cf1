// Package normalize canonicalizes registrant text for comparison. The
// original values are never modified; normalized forms exist only while a
// resolution is in flight and are never persisted or returned to callers.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks, and recomposes, so
// "Élodie" and "Elodie" compare equal.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Name canonicalizes a person's name for comparison: canonical decomposition,
// diacritic stripping, lower-casing, and whitespace trimming, in that order.
// Total for any input including the empty string, and idempotent.
func Name(s string) string {
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the raw
		// string so normalization stays total.
		stripped = s
	}
	return strings.TrimSpace(strings.ToLower(stripped))
}

// Email canonicalizes an email for exact matching: lower-case and trim only.
// Diacritics are preserved; email identity is byte-exact after folding.
func Email(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

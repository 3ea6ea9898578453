package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var strokeReplacer = strings.NewReplacer("đ", "d", "Đ", "D")

// Fold lowercases s and strips combining marks so "Hà Nội" and "ha noi"
// compare equal.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strokeReplacer.Replace(out))
}

// normalize lowercases s; folded also strips diacritics via Fold.
func normalize(s string, folded bool) string {
	if folded {
		return Fold(s)
	}
	return strings.ToLower(s)
}

// containsNormalized reports whether the already normalized haystack
// contains q. An empty q matches everything.
func containsNormalized(haystack, q string) bool {
	return q == "" || strings.Contains(haystack, q)
}

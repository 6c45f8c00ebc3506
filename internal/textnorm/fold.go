package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9\s-]`)
	hyphenRun     = regexp.MustCompile(`-+`)
)

// Fold applies compatibility decomposition and drops combining marks, so
// "Leilão" becomes "Leilao". Case is preserved.
func Fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CollapseSpace trims s and reduces every whitespace run to a single space.
func CollapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// Slug folds diacritics, lowercases, drops everything except letters, digits,
// whitespace and hyphens, then joins words with single hyphens.
func Slug(s string) string {
	s = strings.ToLower(Fold(s))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = whitespaceRun.ReplaceAllString(s, "-")
	return hyphenRun.ReplaceAllString(s, "-")
}

// JoinKey is the sole identity used to merge songs across runs.
func JoinKey(title, artist string) string {
	return Slug(title) + "|" + Slug(artist)
}

// MakeID derives a record id from seed. Callers assign it once at creation.
func MakeID(seed string) string {
	return Slug(seed)
}

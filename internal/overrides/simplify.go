package overrides

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"setlist/internal/textnorm"
)

var (
	featToken       = regexp.MustCompile(`\b(feat\.?|ft\.?)\b`)
	versionSuffix   = regexp.MustCompile(`\bv\d+\b`)
	connectorToken  = regexp.MustCompile(`\b(feat\.?|ft\.?|with|com|and|&|e)\b`)
	qualifierToken  = regexp.MustCompile(`\b(versao|version|ao vivo|live|acoustic)\b`)
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)
)

// artistAliases fixes misspellings that keep showing up in hand-typed
// entries. Applied to simplified strings.
var artistAliases = []struct{ from, to string }{
	{"menotte", "menotti"},
	{"chitazinho", "chitaozinho"},
	{"melin", "melim"},
}

func fold(s string) string {
	return strings.ToLower(textnorm.Fold(s))
}

// SimplifyTitle reduces a title to lowercase ASCII alphanumerics without
// featuring credits.
func SimplifyTitle(s string) string {
	s = featToken.ReplaceAllString(fold(s), "")
	return nonAlphanumeric.ReplaceAllString(s, "")
}

// SimplifyArtist reduces an artist to lowercase ASCII alphanumerics without
// version suffixes (v2), connector words or live/acoustic qualifiers, then
// applies known alias corrections.
func SimplifyArtist(s string) string {
	s = fold(s)
	s = versionSuffix.ReplaceAllString(s, "")
	s = connectorToken.ReplaceAllString(s, "")
	s = qualifierToken.ReplaceAllString(s, "")
	s = nonAlphanumeric.ReplaceAllString(s, "")
	for _, a := range artistAliases {
		s = strings.ReplaceAll(s, a.from, a.to)
	}
	return s
}

func mutualContains(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// ArtistDistance is the edit distance between two simplified artists, one
// less when either contains the other, never below zero.
func ArtistDistance(a, b string) int {
	d := levenshtein.ComputeDistance(a, b)
	if a != "" && b != "" && mutualContains(a, b) {
		d--
	}
	return max(d, 0)
}

// globalScore combines title and artist distance. Each field whose
// simplified forms contain one another earns a one point bonus.
func globalScore(wantTitle, wantArtist, haveTitle, haveArtist string) int {
	score := levenshtein.ComputeDistance(wantTitle, haveTitle) + ArtistDistance(wantArtist, haveArtist)
	if mutualContains(haveTitle, wantTitle) {
		score--
	}
	if mutualContains(haveArtist, wantArtist) {
		score--
	}
	return score
}

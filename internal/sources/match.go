package sources

import (
	"regexp"
	"strings"

	"setlist/internal/textnorm"
)

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize is the comparison key for candidate scoring: diacritics folded,
// lowercased, every run of non-alphanumerics replaced by one space.
func Normalize(s string) string {
	s = strings.ToLower(textnorm.Fold(s))
	return strings.TrimSpace(nonAlnumRun.ReplaceAllString(s, " "))
}

func fieldScore(candidate, want string) int {
	switch {
	case candidate == want:
		return 3
	case strings.Contains(candidate, want), strings.Contains(want, candidate):
		return 2
	default:
		return 0
	}
}

// MatchScore rates a candidate against the wanted title and artist. Title and
// artist are scored independently: 3 for equality, 2 when either contains the
// other, 0 otherwise.
func MatchScore(candTitle, candArtist, title, artist string) int {
	return fieldScore(Normalize(candTitle), Normalize(title)) +
		fieldScore(Normalize(candArtist), Normalize(artist))
}

// PickBest returns the highest scoring item. Ties keep the earliest item.
// ok is false only when items is empty.
func PickBest[T any](items []T, title, artist string, fields func(T) (string, string)) (best T, score int, ok bool) {
	score = -1
	for _, item := range items {
		t, a := fields(item)
		if s := MatchScore(t, a, title, artist); s > score {
			best, score, ok = item, s, true
		}
	}
	return best, score, ok
}

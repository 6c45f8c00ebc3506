package overrides

import (
	"strings"

	"setlist/internal/catalog"
	"setlist/internal/textnorm"
)

// Acceptance thresholds. A same-title candidate is accepted when its artist
// distance is at most SameTitleMaxArtistDistance; a global candidate when its
// combined score is at most GlobalMaxScore.
const (
	SameTitleMaxArtistDistance = 4
	GlobalMaxScore             = 7
)

// Stage names the matching rule that resolved an entry.
type Stage string

const (
	StageExact           Stage = "exact"
	StageSameTitle       Stage = "same-title"
	StageSameTitleArtist Stage = "same-title-artist"
	StageGlobal          Stage = "global"
)

// Entry is one hand-written correction.
type Entry struct {
	Title  string   `toml:"title"`
	Artist string   `toml:"artist"`
	Genres []string `toml:"genres"`
}

// Match is a resolved entry. Index points into the dataset the Matcher was
// built over; Score is the distance that won for the fuzzy stages.
type Match struct {
	Index int
	Stage Stage
	Score int
}

// Matcher resolves entries against a dataset.
type Matcher struct {
	songs   []catalog.Song
	byKey   map[string]int
	byTitle map[string][]int
}

// NewMatcher indexes songs by join key and by title slug. The dataset must
// not be reordered while the matcher is in use.
func NewMatcher(songs []catalog.Song) *Matcher {
	m := &Matcher{
		songs:   songs,
		byKey:   make(map[string]int, len(songs)),
		byTitle: make(map[string][]int, len(songs)),
	}
	for i := range songs {
		m.byKey[songs[i].Key()] = i
		slug := textnorm.Slug(songs[i].Title)
		m.byTitle[slug] = append(m.byTitle[slug], i)
	}
	return m
}

// Match finds the song an entry refers to. ok is false when no stage
// produced an acceptable candidate.
func (m *Matcher) Match(e Entry) (Match, bool) {
	if i, ok := m.byKey[textnorm.JoinKey(e.Title, e.Artist)]; ok {
		return Match{Index: i, Stage: StageExact}, true
	}

	candidates := m.byTitle[textnorm.Slug(e.Title)]
	if len(candidates) == 0 && strings.Contains(e.Title, "-") {
		left, _, _ := strings.Cut(e.Title, "-")
		candidates = m.byTitle[textnorm.Slug(strings.TrimSpace(left))]
	}

	switch len(candidates) {
	case 0:
		return m.matchGlobal(e)
	case 1:
		return Match{Index: candidates[0], Stage: StageSameTitle}, true
	}

	want := SimplifyArtist(e.Artist)
	best, bestScore := -1, 0
	for _, i := range candidates {
		d := ArtistDistance(want, SimplifyArtist(m.songs[i].Artist))
		if best < 0 || d < bestScore {
			best, bestScore = i, d
		}
	}
	if bestScore <= SameTitleMaxArtistDistance {
		return Match{Index: best, Stage: StageSameTitleArtist, Score: bestScore}, true
	}
	return Match{Index: best, Stage: StageSameTitleArtist, Score: bestScore}, false
}

func (m *Matcher) matchGlobal(e Entry) (Match, bool) {
	if len(m.songs) == 0 {
		return Match{Index: -1}, false
	}
	wantTitle, wantArtist := SimplifyTitle(e.Title), SimplifyArtist(e.Artist)
	best, bestScore := -1, 0
	for i := range m.songs {
		s := globalScore(wantTitle, wantArtist, SimplifyTitle(m.songs[i].Title), SimplifyArtist(m.songs[i].Artist))
		if best < 0 || s < bestScore {
			best, bestScore = i, s
		}
	}
	return Match{Index: best, Stage: StageGlobal, Score: bestScore}, bestScore <= GlobalMaxScore
}

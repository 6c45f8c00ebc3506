package overrides

import (
	"log/slog"
	"strings"

	"setlist/internal/catalog"
	"setlist/internal/genre"
	"setlist/internal/logging"
	"setlist/internal/textnorm"
)

// originTokens are pseudo-genres that hand-written lists use to say where a
// song comes from. They are never genres.
var originTokens = map[string]struct{}{
	"brazilian":     {},
	"international": {},
}

// UnmatchedHeader is the column order of the unmatched review file.
var UnmatchedHeader = []string{"Title", "Artist (you wrote)", "Genres (you chose)"}

// IgnoredOrigin records an origin token dropped from an entry's genre list.
type IgnoredOrigin struct {
	Title  string
	Artist string
	Token  string
}

// Report summarizes one Apply call.
type Report struct {
	Updated   int
	Unmatched []Entry
	// NoGenres counts entries skipped because nothing in their list maps to
	// the taxonomy.
	NoGenres       int
	IgnoredOrigins []IgnoredOrigin
	Matches        map[Stage]int
}

// SplitGenres separates origin tokens from an entry's raw genre list and
// folds the rest through the taxonomy.
func SplitGenres(raw []string) (genres, origins []string) {
	kept := make([]string, 0, len(raw))
	for _, g := range raw {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, ok := originTokens[strings.ToLower(g)]; ok {
			origins = append(origins, strings.ToLower(g))
			continue
		}
		kept = append(kept, g)
	}
	return genre.Normalize(kept), origins
}

// Apply resolves every entry with the fuzzy matcher and unions its genres
// into the matched song, crediting manual provenance. songs is modified in
// place.
func Apply(songs []catalog.Song, entries []Entry, logger *slog.Logger) Report {
	logger = logging.NewComponentLogger(logger, "overrides")
	matcher := NewMatcher(songs)
	report := Report{Matches: make(map[Stage]int)}

	for _, e := range entries {
		genres, origins := SplitGenres(e.Genres)
		for _, token := range origins {
			report.IgnoredOrigins = append(report.IgnoredOrigins, IgnoredOrigin{Title: e.Title, Artist: e.Artist, Token: token})
			logger.Info("origin token ignored in override genres",
				logging.String(logging.FieldEventType, "override_origin_ignored"),
				logging.String("title", e.Title),
				logging.String("artist", e.Artist),
				logging.String("token", token))
		}
		if len(genres) == 0 {
			report.NoGenres++
			logger.Debug("override has no taxonomy genres",
				logging.String("title", e.Title),
				logging.String("artist", e.Artist))
			continue
		}

		m, ok := matcher.Match(e)
		if !ok {
			report.Unmatched = append(report.Unmatched, e)
			logger.Info("override unmatched",
				logging.String(logging.FieldEventType, "override_unmatched"),
				logging.String("title", e.Title),
				logging.String("artist", e.Artist),
				logging.String("stage", string(m.Stage)),
				logging.Int("best_score", m.Score))
			continue
		}
		song := &songs[m.Index]
		song.AddGenres(genres)
		song.CreditManual()
		report.Updated++
		report.Matches[m.Stage]++
		logger.Debug("override applied",
			logging.String(logging.FieldSongKey, song.Key()),
			logging.String("stage", string(m.Stage)),
			logging.Int("score", m.Score))
	}

	logger.Info("overrides applied",
		logging.String(logging.FieldEventType, "overrides_applied"),
		logging.Int("updated", report.Updated),
		logging.Int("unmatched", len(report.Unmatched)))
	return report
}

// ApplyExact unions genres from trusted entries into songs whose join key
// matches exactly. A later entry for the same key replaces an earlier one.
// It returns the number of songs updated.
func ApplyExact(songs []catalog.Song, entries []Entry) int {
	byKey := make(map[string][]string, len(entries))
	for _, e := range entries {
		genres, _ := SplitGenres(e.Genres)
		byKey[textnorm.JoinKey(e.Title, e.Artist)] = genres
	}
	updated := 0
	for i := range songs {
		genres := byKey[songs[i].Key()]
		if len(genres) == 0 {
			continue
		}
		songs[i].AddGenres(genres)
		songs[i].CreditManual()
		updated++
	}
	return updated
}

// UnmatchedRows renders unmatched entries for review, header first.
func UnmatchedRows(unmatched []Entry) [][]string {
	rows := make([][]string, 0, len(unmatched)+1)
	rows = append(rows, UnmatchedHeader)
	for _, e := range unmatched {
		rows = append(rows, []string{e.Title, e.Artist, strings.Join(e.Genres, "; ")})
	}
	return rows
}

package catalog

import (
	"strings"
)

// ReviewHeader is the column order of the review export.
var ReviewHeader = []string{"Title", "Artist", "Voice", "Origin", "Year", "Genres", "Epoch", "MBID", "WikiUrl"}

// ReviewRows renders the review export, header first. Lists are joined with
// semicolons.
func ReviewRows(songs []Song) [][]string {
	rows := make([][]string, 0, len(songs)+1)
	rows = append(rows, ReviewHeader)
	for _, s := range songs {
		rows = append(rows, []string{
			s.Title,
			s.Artist,
			string(s.Tags.Voice),
			string(s.Tags.Origin),
			s.Year,
			strings.Join(s.Tags.Genre, ";"),
			strings.Join(s.Tags.Epoch, ";"),
			s.MBID,
			s.WikiURL,
		})
	}
	return rows
}

// Filter returns the songs whose title or artist contains query,
// case-insensitively. A blank query matches everything.
func Filter(songs []Song, query string) []Song {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return songs
	}
	var out []Song
	for _, s := range songs {
		if strings.Contains(strings.ToLower(s.Title), q) || strings.Contains(strings.ToLower(s.Artist), q) {
			out = append(out, s)
		}
	}
	return out
}

// RemoveGenreAll drops label from every song and returns how many songs
// changed.
func RemoveGenreAll(songs []Song, label string) int {
	affected := 0
	for i := range songs {
		if songs[i].RemoveGenre(label) {
			affected++
		}
	}
	return affected
}

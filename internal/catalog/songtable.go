package catalog

import (
	"fmt"

	"setlist/internal/textnorm"
)

// Manual is the hand-curated part of a song: what the band filled in the
// song table. Empty fields mean the row did not say.
type Manual struct {
	Voice  Voice
	Origin Origin
}

// ParseSongTable reads the song table CSV (columns Title, Artist, Voice,
// Origin in any order) into a map keyed by join key. Rows without a title or
// artist are ignored; unrecognised voice or origin values are left empty.
func ParseSongTable(data []byte) (map[string]Manual, error) {
	t, err := ReadTable(data, "title", "artist", "voice", "origin")
	if err != nil {
		return nil, fmt.Errorf("song table: %w", err)
	}
	out := make(map[string]Manual, len(t.Rows))
	for _, row := range t.Rows {
		title, artist := t.Get(row, "title"), t.Get(row, "artist")
		if title == "" || artist == "" {
			continue
		}
		var m Manual
		m.Voice, _ = ParseVoice(t.Get(row, "voice"))
		m.Origin, _ = ParseOrigin(t.Get(row, "origin"))
		out[textnorm.JoinKey(title, artist)] = m
	}
	return out, nil
}

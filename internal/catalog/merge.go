package catalog

import (
	"strings"

	"setlist/internal/enrich"
)

// ApplyEnrichment folds one enrichment result into song. Identifier and
// canonical name fields fill only when empty, the year fills only when empty
// (its epoch label is appended), genres are unioned, the URL fills only when
// empty and provenance takes the result's source. It reports whether the
// record changed.
func ApplyEnrichment(song *Song, res *enrich.Result) bool {
	if song == nil || res == nil {
		return false
	}
	changed := false
	fill := func(dst *string, v string) {
		if *dst == "" && strings.TrimSpace(v) != "" {
			*dst = v
			changed = true
		}
	}
	fill(&song.MBID, res.MBID)
	fill(&song.MBCanonicalTitle, res.MBTitle)
	fill(&song.MBCanonicalArtist, res.MBArtist)
	if song.SetYear(res.Year) {
		changed = true
	} else if song.Year != "" {
		before := len(song.Tags.Epoch)
		song.addEpoch()
		changed = changed || len(song.Tags.Epoch) != before
	}
	if song.AddGenres(res.Genres) > 0 {
		changed = true
	}
	fill(&song.WikiURL, res.WikiURL)
	if res.Source != "" && res.Source != song.Source {
		song.Source = res.Source
		changed = true
	}
	return changed
}

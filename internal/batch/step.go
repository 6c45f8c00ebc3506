package batch

import (
	"context"
	"slices"

	"setlist/internal/catalog"
	"setlist/internal/enrich"
)

// EnrichFunc enriches one song. A nil result means nothing was learned.
type EnrichFunc func(ctx context.Context, song catalog.Song) *enrich.Result

// StepResult describes one batch step.
type StepResult struct {
	Songs []catalog.Song
	// Start and End bound the slice processed, End exclusive. Cursor is the
	// offset to persist.
	Start    int
	End      int
	Cursor   int
	Total    int
	Enriched int
	Skipped  int
	Complete bool
	// Interrupted is set when ctx ended mid-slice. Cursor then points at the
	// first song not processed.
	Interrupted bool
}

// Step processes songs[cursor:cursor+size]. Songs that already have genres
// are skipped; every other song is passed to fn and any result is merged.
// The cursor advances past the slice whether or not individual songs were
// enriched. A song whose enrichment is cut off by ctx keeps its old data and
// the cursor stays on it, so the next step retries it. Songs is never
// modified; the returned dataset is a copy.
func Step(ctx context.Context, songs []catalog.Song, cursor, size int, fn EnrichFunc) StepResult {
	total := len(songs)
	if size < 1 {
		size = 1
	}
	start := min(max(cursor, 0), total)
	res := StepResult{Songs: songs, Start: start, End: start, Cursor: start, Total: total}
	if start >= total {
		res.Complete = true
		return res
	}

	out := slices.Clone(songs)
	end := min(start+size, total)
	i := start
	for ; i < end; i++ {
		if ctx.Err() != nil {
			res.Interrupted = true
			break
		}
		if out[i].HasGenres() {
			res.Skipped++
			continue
		}
		song := cloneSong(out[i])
		result := fn(ctx, song)
		if ctx.Err() != nil {
			res.Interrupted = true
			break
		}
		if result != nil {
			if catalog.ApplyEnrichment(&song, result) {
				res.Enriched++
			}
			out[i] = song
		}
	}

	res.Songs = out
	res.End = i
	res.Cursor = i
	res.Complete = i >= total
	return res
}

func cloneSong(s catalog.Song) catalog.Song {
	s.Tags.Genre = slices.Clone(s.Tags.Genre)
	s.Tags.Epoch = slices.Clone(s.Tags.Epoch)
	return s
}

package catalog

import (
	"log/slog"

	"setlist/internal/logging"
	"setlist/internal/storage"
	"setlist/internal/textnorm"
)

// ScanResult is the outcome of rebuilding the working dataset.
type ScanResult struct {
	Songs []Song
	// Preserved counts songs whose enrichment was carried over from the
	// prior snapshot.
	Preserved int
	// Skipped lists file names that could not be parsed or duplicated an
	// earlier song.
	Skipped []string
}

// Scan builds a working dataset from presentation files. Enrichment fields
// of songs present in prior (matched by join key) are kept; voice and origin
// come from the song table first, then prior, then the defaults.
func Scan(files []storage.Object, table map[string]Manual, prior []Song, logger *slog.Logger) ScanResult {
	logger = logging.NewComponentLogger(logger, "scan")
	priorIdx := Index(prior)
	seen := make(map[string]struct{}, len(files))
	res := ScanResult{Songs: make([]Song, 0, len(files))}

	for _, f := range files {
		title, artist, ok := textnorm.ParseFilename(f.Name)
		if !ok {
			logging.WarnWithContext(logger, "skipping file without title-artist separator", "skip_no_dash",
				logging.String("filename", f.Name),
				logging.String(logging.FieldErrorHint, "rename the file to Title-Artist.ext"),
				logging.String(logging.FieldImpact, "song missing from the catalogue"))
			res.Skipped = append(res.Skipped, f.Name)
			continue
		}
		key := textnorm.JoinKey(title, artist)
		if _, dup := seen[key]; dup {
			logging.WarnWithContext(logger, "skipping duplicate song", "skip_duplicate",
				logging.String("filename", f.Name),
				logging.String(logging.FieldSongKey, key),
				logging.String(logging.FieldImpact, "only the first file for this song is catalogued"))
			res.Skipped = append(res.Skipped, f.Name)
			continue
		}
		seen[key] = struct{}{}

		song := Song{
			Filename: f.Name,
			DriveURL: f.URL,
			Title:    title,
			Artist:   artist,
			Source:   ManualSource,
		}
		if i, ok := priorIdx[key]; ok {
			carryOver(&song, prior[i])
			res.Preserved++
		}
		if song.ID == "" {
			song.ID = textnorm.MakeID(title + "-" + artist)
		}
		manual := table[key]
		switch {
		case manual.Origin != "":
			song.Tags.Origin = manual.Origin
		case song.Tags.Origin == "":
			song.Tags.Origin = OriginInternational
		}
		switch {
		case manual.Voice != "":
			song.Tags.Voice = manual.Voice
		case song.Tags.Voice == "":
			song.Tags.Voice = VoiceMale
		}
		if song.Tags.Genre == nil {
			song.Tags.Genre = []string{}
		}
		if song.Tags.Epoch == nil {
			song.Tags.Epoch = []string{}
		}
		res.Songs = append(res.Songs, song)
	}

	logger.Info("working dataset built",
		logging.String(logging.FieldEventType, "wip_built"),
		logging.Int("count", len(res.Songs)),
		logging.Int("preserved", res.Preserved),
		logging.Int("skipped", len(res.Skipped)))
	return res
}

func carryOver(dst *Song, prev Song) {
	dst.ID = prev.ID
	if prev.Filename != "" {
		dst.Filename = prev.Filename
	}
	if prev.DriveURL != "" {
		dst.DriveURL = prev.DriveURL
	}
	dst.Year = prev.Year
	dst.Tags.Genre = dedupeLower(prev.Tags.Genre)
	dst.Tags.Epoch = dedupeLower(prev.Tags.Epoch)
	dst.Tags.Origin = prev.Tags.Origin
	dst.Tags.Voice = prev.Tags.Voice
	dst.MBID = prev.MBID
	dst.MBCanonicalTitle = prev.MBCanonicalTitle
	dst.MBCanonicalArtist = prev.MBCanonicalArtist
	dst.WikiURL = prev.WikiURL
	if prev.Source != "" {
		dst.Source = prev.Source
	}
}

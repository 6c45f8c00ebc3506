package textnorm

import (
	"path/filepath"
	"strings"
)

// ParseFilename splits a presentation file name of the form
// "Title_Words-Artist_Words.ext" at its last hyphen and returns the display
// title and artist. ok is false when the name has no usable hyphen.
func ParseFilename(name string) (title, artist string, ok bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	idx := strings.LastIndex(base, "-")
	if idx <= 0 {
		return "", "", false
	}
	rawTitle := CollapseSpace(strings.ReplaceAll(base[:idx], "_", " "))
	rawArtist := CollapseSpace(strings.ReplaceAll(base[idx+1:], "_", " "))
	if rawTitle == "" || rawArtist == "" {
		return "", "", false
	}
	return SentenceTitle(rawTitle), SmartArtistCase(rawArtist), true
}

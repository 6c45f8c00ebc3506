package catalog

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"setlist/internal/genre"
	"setlist/internal/textnorm"
)

// ManualSource is the provenance of hand-curated data.
const ManualSource = "manual"

// Origin says whether a song is Brazilian repertoire or not.
type Origin string

const (
	OriginNational      Origin = "national"
	OriginInternational Origin = "international"
)

// Voice is the lead vocal part.
type Voice string

const (
	VoiceMale   Voice = "male"
	VoiceFemale Voice = "female"
	VoiceDuet   Voice = "duet"
)

// ParseOrigin accepts the English and Portuguese spellings used in the song
// table. ok is false for anything else.
func ParseOrigin(s string) (Origin, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "national", "nacional", "br", "brazil", "brasil":
		return OriginNational, true
	case "international", "internacional", "int":
		return OriginInternational, true
	}
	return "", false
}

// ParseVoice accepts the English and Portuguese spellings used in the song
// table. ok is false for anything else.
func ParseVoice(s string) (Voice, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "masculina", "m":
		return VoiceMale, true
	case "female", "feminina", "f":
		return VoiceFemale, true
	case "duet", "dueto", "d":
		return VoiceDuet, true
	}
	return "", false
}

// Tags groups the filterable attributes of a song.
type Tags struct {
	Genre  []string `json:"genre"`
	Epoch  []string `json:"epoch"`
	Origin Origin   `json:"origin"`
	Voice  Voice    `json:"voice"`
}

// Song is one catalogue entry. JSON field names are read by the web page and
// must not change.
type Song struct {
	ID                string `json:"id"`
	Filename          string `json:"filename"`
	DriveURL          string `json:"driveUrl"`
	Title             string `json:"title"`
	Artist            string `json:"artist"`
	Year              string `json:"year"`
	Tags              Tags   `json:"tags"`
	MBID              string `json:"mbid"`
	MBCanonicalTitle  string `json:"mbCanonicalTitle"`
	MBCanonicalArtist string `json:"mbCanonicalArtist"`
	WikiURL           string `json:"wikiUrl"`
	Source            string `json:"source"`
}

// UnmarshalJSON accepts a numeric year as well as a string.
func (s *Song) UnmarshalJSON(data []byte) error {
	type plain Song
	aux := struct {
		*plain
		Year any `json:"year"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch y := aux.Year.(type) {
	case string:
		s.Year = strings.TrimSpace(y)
	case float64:
		s.Year = strconv.FormatFloat(y, 'f', -1, 64)
	default:
		s.Year = ""
	}
	return nil
}

// Key is the join key identifying the song across runs.
func (s *Song) Key() string {
	return textnorm.JoinKey(s.Title, s.Artist)
}

// HasGenres reports whether enrichment already produced at least one genre.
func (s *Song) HasGenres() bool {
	return len(s.Tags.Genre) > 0
}

// sanitize repairs records written by older or hand-edited files: lists are
// deduplicated in lowercase and unknown enum values fall back to defaults.
func (s *Song) sanitize() {
	s.Tags.Genre = dedupeLower(s.Tags.Genre)
	s.Tags.Epoch = dedupeLower(s.Tags.Epoch)
	if o, ok := ParseOrigin(string(s.Tags.Origin)); ok {
		s.Tags.Origin = o
	} else {
		s.Tags.Origin = OriginInternational
	}
	if v, ok := ParseVoice(string(s.Tags.Voice)); ok {
		s.Tags.Voice = v
	} else {
		s.Tags.Voice = VoiceMale
	}
	if s.ID == "" && (s.Title != "" || s.Artist != "") {
		s.ID = textnorm.MakeID(s.Title + "-" + s.Artist)
	}
	if s.Source == "" {
		s.Source = ManualSource
	}
}

// AddGenres unions labels into the genre set. It reports how many labels
// were new.
func (s *Song) AddGenres(labels []string) int {
	before := len(s.Tags.Genre)
	s.Tags.Genre = dedupeLower(append(slices.Clone(s.Tags.Genre), labels...))
	return len(s.Tags.Genre) - before
}

// RemoveGenre drops label from the genre set, case-insensitively. It
// reports whether anything was removed.
func (s *Song) RemoveGenre(label string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return false
	}
	kept := make([]string, 0, len(s.Tags.Genre))
	for _, g := range s.Tags.Genre {
		if strings.ToLower(strings.TrimSpace(g)) != label {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(s.Tags.Genre) {
		return false
	}
	s.Tags.Genre = dedupeLower(kept)
	return true
}

// SetYear fills the year when it is still empty and appends the derived
// epoch label. A year already set is never replaced.
func (s *Song) SetYear(year string) bool {
	year = strings.TrimSpace(year)
	if s.Year != "" || year == "" {
		return false
	}
	s.Year = year
	s.addEpoch()
	return true
}

func (s *Song) addEpoch() {
	if ep := genre.Epoch(s.Year); ep != "" && !slices.Contains(s.Tags.Epoch, ep) {
		s.Tags.Epoch = append(s.Tags.Epoch, ep)
	}
}

// CreditManual records a hand-applied correction in the provenance string.
func (s *Song) CreditManual() {
	if s.Source != "" && s.Source != ManualSource {
		s.Source += "+" + ManualSource
		return
	}
	s.Source = ManualSource
}

func dedupeLower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

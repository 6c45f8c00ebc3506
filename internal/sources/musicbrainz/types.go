package musicbrainz

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// score tolerates both numeric and string encodings.
type score int

func (s *score) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		var f float64
		if ferr := json.Unmarshal(data, &f); ferr != nil {
			return err
		}
		n = int(f)
	}
	*s = score(n)
	return nil
}

type named struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type artistCredit struct {
	Name   string `json:"name"`
	Artist named  `json:"artist"`
}

type release struct {
	ID           string `json:"id"`
	ReleaseGroup *named `json:"release-group"`
}

// Recording is the subset of a MusicBrainz recording the pipeline reads.
type Recording struct {
	ID               string         `json:"id"`
	Score            score          `json:"score"`
	Title            string         `json:"title"`
	FirstReleaseDate string         `json:"first-release-date"`
	ArtistCredit     []artistCredit `json:"artist-credit"`
	Artists          []named        `json:"artists"`
	Releases         []release      `json:"releases"`
	Genres           []named        `json:"genres"`
	Tags             []named        `json:"tags"`
}

// Entity is a release group or artist with its genre and tag lists.
type Entity struct {
	ID               string  `json:"id"`
	FirstReleaseDate string  `json:"first-release-date"`
	Genres           []named `json:"genres"`
	Tags             []named `json:"tags"`
}

type searchResponse struct {
	Recordings []Recording `json:"recordings"`
}

// Year returns the first four characters of the first release date.
func (r Recording) Year() string {
	return yearOf(r.FirstReleaseDate)
}

// CreditedArtist is the name of the first artist credit.
func (r Recording) CreditedArtist() string {
	if len(r.ArtistCredit) > 0 && r.ArtistCredit[0].Name != "" {
		return r.ArtistCredit[0].Name
	}
	if len(r.Artists) > 0 {
		return r.Artists[0].Name
	}
	return ""
}

// FirstArtistID is the id of the first credited artist.
func (r Recording) FirstArtistID() string {
	if len(r.ArtistCredit) > 0 && r.ArtistCredit[0].Artist.ID != "" {
		return r.ArtistCredit[0].Artist.ID
	}
	if len(r.Artists) > 0 {
		return r.Artists[0].ID
	}
	return ""
}

// ReleaseGroupID is the first release group reachable from the recording's releases.
func (r Recording) ReleaseGroupID() string {
	for _, rel := range r.Releases {
		if rel.ReleaseGroup != nil && rel.ReleaseGroup.ID != "" {
			return rel.ReleaseGroup.ID
		}
	}
	return ""
}

func yearOf(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// labels merges genre and tag names, lowercased and deduplicated, genres first.
func labels(genres, tags []named) []string {
	seen := make(map[string]struct{}, len(genres)+len(tags))
	var out []string
	for _, list := range [][]named{genres, tags} {
		for _, n := range list {
			name := strings.ToLower(strings.TrimSpace(n.Name))
			if name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

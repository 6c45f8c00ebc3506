package overrides

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"setlist/internal/catalog"
)

// builtIn is the list of corrections typed in by hand during review.
var builtIn = []Entry{
	{Title: "Leilao", Artist: "Cesar Menotte e Fabiano V2", Genres: []string{"Sertanejo", "Brazilian"}},
	{Title: "Pagina de amigos", Artist: "Chitazinho e Xororo", Genres: []string{"Sertanejo", "Brazilian"}},
	{Title: "Segredos", Artist: "Frejat", Genres: []string{"Pop", "Rock", "Brazilian"}},
	{Title: "Convite de casamento", Artist: "Gian e Giovani", Genres: []string{"Sertanejo", "Brazilian"}},
	{Title: "Amei te ver-tiago", Artist: "Iork", Genres: []string{"MPB", "Pop", "Brazilian"}},
	{Title: "Stitting waiting wishing", Artist: "Jack Johnson", Genres: []string{"Pop", "International", "Acoustic"}},
	{Title: "Uma arlinda mulher", Artist: "Mamonas Assassinas", Genres: []string{"Rock", "Brazilian"}},
	{Title: "Ouvi dizer", Artist: "Melin", Genres: []string{"MPB", "Pop", "", "Brazilian"}},
	{Title: "Pagode pout pourri", Artist: "Raca Negra", Genres: []string{"Pagode", "Brazilian"}},
	{Title: "Your love", Artist: "The Outfield", Genres: []string{"Pop", "Rock", "International"}},
	{Title: "Morena", Artist: "Vitor Kley", Genres: []string{"MPB", "Pop", "Brazilian"}},
	{Title: "O sol", Artist: "Vitor Kley", Genres: []string{"MPB", "Pop", "Brazilian"}},
}

// BuiltIn returns a copy of the in-code correction list.
func BuiltIn() []Entry {
	out := make([]Entry, len(builtIn))
	for i, e := range builtIn {
		e.Genres = append([]string(nil), e.Genres...)
		out[i] = e
	}
	return out
}

type entryFile struct {
	Override []Entry `toml:"override"`
}

// ParseEntries reads a TOML file of [[override]] tables.
func ParseEntries(data []byte) ([]Entry, error) {
	var f entryFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse override entries: %w", err)
	}
	out := make([]Entry, 0, len(f.Override))
	for i, e := range f.Override {
		e.Title, e.Artist = strings.TrimSpace(e.Title), strings.TrimSpace(e.Artist)
		if e.Title == "" || e.Artist == "" {
			return nil, fmt.Errorf("override #%d: title and artist are required", i+1)
		}
		out = append(out, e)
	}
	return out, nil
}

// ParseGenreCSV reads genre_overrides.csv (columns Title, Artist, Genres;
// genres separated by semicolons). Rows missing any field are ignored.
func ParseGenreCSV(data []byte) ([]Entry, error) {
	t, err := catalog.ReadTable(data, "title", "artist", "genres")
	if err != nil {
		return nil, fmt.Errorf("genre overrides: %w", err)
	}
	var out []Entry
	for _, row := range t.Rows {
		e := Entry{Title: t.Get(row, "title"), Artist: t.Get(row, "artist")}
		for _, g := range strings.Split(t.Get(row, "genres"), ";") {
			if g = strings.TrimSpace(g); g != "" {
				e.Genres = append(e.Genres, g)
			}
		}
		if e.Title == "" || e.Artist == "" || len(e.Genres) == 0 {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

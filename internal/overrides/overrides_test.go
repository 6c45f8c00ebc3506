package overrides

import (
	"slices"
	"strings"
	"testing"

	"setlist/internal/catalog"
	"setlist/internal/storage"
)

func TestSimplify(t *testing.T) {
	artists := map[string]string{
		"Cesar Menotte e Fabiano V2":    "cesarmenottifabiano",
		"Chitãozinho & Xororó":          "chitaozinhoxororo",
		"Melin (Ao Vivo)":               "melim",
		"Jack Johnson feat. Ben Harper": "jackjohnsonbenharper",
		"Vitor Kley - Versão Acústica":  "vitorkleyacustica",
		"Banda com Convidados live":     "bandaconvidados",
	}
	for in, want := range artists {
		if got := SimplifyArtist(in); got != want {
			t.Errorf("SimplifyArtist(%q) = %q, want %q", in, got, want)
		}
	}
	if got := SimplifyTitle("Ai Se Eu Te Pego (feat. X)"); got != "aiseeutepegox" {
		t.Errorf("SimplifyTitle = %q", got)
	}
}

func TestArtistDistance(t *testing.T) {
	if d := ArtistDistance("vitorkley", "vitorkley"); d != 0 {
		t.Fatalf("identical = %d", d)
	}
	if d := ArtistDistance("frejat", "frejatoficial"); d != 6 {
		t.Fatalf("containment bonus expected 7-1=6, got %d", d)
	}
	if d := ArtistDistance("a", "ab"); d != 0 {
		t.Fatalf("floor at zero expected, got %d", d)
	}
}

func songs(pairs ...string) []catalog.Song {
	out := make([]catalog.Song, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, catalog.Song{Title: pairs[i], Artist: pairs[i+1], Source: catalog.ManualSource})
	}
	return out
}

func TestMatchStages(t *testing.T) {
	data := songs(
		"Leilao", "Cesar Menotte e Fabiano V2",
		"Amei te ver", "Tiago Iorc",
		"Morena", "Abcdefgh",
		"Morena", "Zzzzzzzzzz",
		"O sol", "Vitor Kley",
	)
	m := NewMatcher(data)
	tests := []struct {
		name  string
		entry Entry
		index int
		stage Stage
		ok    bool
	}{
		{"exact", Entry{Title: "LEILÃO", Artist: "cesar  menotte e fabiano v2"}, 0, StageExact, true},
		{"hyphen leak", Entry{Title: "Amei te ver-tiago", Artist: "Iork"}, 1, StageSameTitle, true},
		{"single same title", Entry{Title: "O sol", Artist: "Someone Else"}, 4, StageSameTitle, true},
		{"artist distance 4 accepted", Entry{Title: "Morena", Artist: "Abcdwxyz"}, 2, StageSameTitleArtist, true},
		{"artist distance 5 rejected", Entry{Title: "Morena", Artist: "Abcvwxyz"}, 2, StageSameTitleArtist, false},
	}
	for _, tt := range tests {
		got, ok := m.Match(tt.entry)
		if ok != tt.ok || got.Stage != tt.stage || got.Index != tt.index {
			t.Errorf("%s: Match = %+v, %v", tt.name, got, ok)
		}
	}
}

func TestMatchGlobalThreshold(t *testing.T) {
	m := NewMatcher(songs("Qwerty", "Asdfgh"))

	got, ok := m.Match(Entry{Title: "Qwxrty", Artist: "Zxcvbn"})
	if !ok || got.Stage != StageGlobal || got.Score != 7 {
		t.Fatalf("score 7 must be accepted, got %+v %v", got, ok)
	}
	got, ok = m.Match(Entry{Title: "Qwxrty", Artist: "Zxcvbnm"})
	if ok || got.Score != 8 {
		t.Fatalf("score 8 must be rejected, got %+v %v", got, ok)
	}
	if _, ok := NewMatcher(nil).Match(Entry{Title: "x", Artist: "y"}); ok {
		t.Fatal("empty dataset cannot match")
	}
}

func TestApplyScenarioDropsOriginToken(t *testing.T) {
	res := catalog.Scan([]storage.Object{{Name: "Leilao-Cesar_Menotte_e_Fabiano_V2.ppsx"}}, nil, nil, nil)
	data := res.Songs
	report := Apply(data, []Entry{{Title: "Leilao", Artist: "Cesar Menotte e Fabiano V2", Genres: []string{"Sertanejo", "Brazilian"}}}, nil)
	if report.Updated != 1 || len(report.Unmatched) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if !slices.Equal(data[0].Tags.Genre, []string{"sertanejo"}) || data[0].Source != "manual" {
		t.Fatalf("unexpected song %+v", data[0])
	}
	if len(report.IgnoredOrigins) != 1 || report.IgnoredOrigins[0].Token != "brazilian" {
		t.Fatalf("origin token not reported: %+v", report.IgnoredOrigins)
	}
}

func TestApplyCollectsUnmatchedAndCreditsProvenance(t *testing.T) {
	data := songs("Your love", "The Outfield")
	data[0].Source = "musicbrainz"
	data[0].Tags.Genre = []string{"pop"}
	entries := []Entry{
		{Title: "Your love", Artist: "Outfield", Genres: []string{"Rock", "International"}},
		{Title: "Completely Different Song", Artist: "Nobody Known Here", Genres: []string{"Jazz"}},
		{Title: "Only origin", Artist: "x", Genres: []string{"International", ""}},
	}
	report := Apply(data, entries, nil)
	if report.Updated != 1 || len(report.Unmatched) != 1 || report.NoGenres != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if data[0].Source != "musicbrainz+manual" || !slices.Equal(data[0].Tags.Genre, []string{"pop", "rock"}) {
		t.Fatalf("unexpected song %+v", data[0])
	}

	csv, err := catalog.EncodeCSV(UnmatchedRows(report.Unmatched))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(csv)), "\n")
	if lines[0] != "Title,Artist (you wrote),Genres (you chose)" || lines[1] != "Completely Different Song,Nobody Known Here,Jazz" {
		t.Fatalf("unexpected unmatched csv %q", csv)
	}
}

func TestBuiltInResolvesAgainstCatalogue(t *testing.T) {
	data := songs(
		"Leilao", "Cesar Menotti e Fabiano",
		"Pagina de amigos", "Chitãozinho e Xororó",
		"Ouvi dizer", "Melim",
		"Sitting waiting wishing", "Jack Johnson",
	)
	report := Apply(data, BuiltIn(), nil)
	for i, s := range data {
		if !s.HasGenres() {
			t.Errorf("song %d (%s) received no genres", i, s.Title)
		}
	}
	if report.Updated < 4 {
		t.Fatalf("expected at least 4 updates, got %+v", report)
	}
	if !slices.Equal(data[3].Tags.Genre, []string{"acoustic", "pop"}) {
		t.Fatalf("unexpected genres for typo'd title: %v", data[3].Tags.Genre)
	}
}

func TestParseEntries(t *testing.T) {
	entries, err := ParseEntries([]byte(`
[[override]]
title = "Morena"
artist = "Vitor Kley"
genres = ["MPB", "Pop"]
`))
	if err != nil || len(entries) != 1 || entries[0].Artist != "Vitor Kley" || len(entries[0].Genres) != 2 {
		t.Fatalf("ParseEntries = %+v, %v", entries, err)
	}
	if _, err := ParseEntries([]byte("[[override]]\ntitle = \"x\"\n")); err == nil {
		t.Fatal("expected error for entry without artist")
	}
}

func TestGenreCSVExactOnly(t *testing.T) {
	entries, err := ParseGenreCSV([]byte("Title,Artist,Genres\nMorena,Vitor Kley,MPB; Pop\nO sol,Vitor Kley,\nMorena,Vitor Kely,Rock\n"))
	if err != nil || len(entries) != 2 {
		t.Fatalf("ParseGenreCSV = %+v, %v", entries, err)
	}
	data := songs("Morena", "Vitor Kley")
	if n := ApplyExact(data, entries); n != 1 {
		t.Fatalf("expected one exact update, got %d", n)
	}
	if !slices.Equal(data[0].Tags.Genre, []string{"mpb", "pop"}) || data[0].Source != "manual" {
		t.Fatalf("unexpected song %+v", data[0])
	}
	if _, err := ParseGenreCSV([]byte("Title,Artist\nx,y\n")); err == nil {
		t.Fatal("expected header error")
	}
}

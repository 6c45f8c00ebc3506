package catalog

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"setlist/internal/enrich"
	"setlist/internal/storage"
)

func TestScanBuildsDefaultedRecord(t *testing.T) {
	files := []storage.Object{
		{Name: "Leilao-Cesar_Menotte_e_Fabiano_V2.ppsx", URL: "mem://Leilao-Cesar_Menotte_e_Fabiano_V2.ppsx"},
		{Name: "NoSeparator.ppsx"},
		{Name: "-Leading.ppsx"},
	}
	res := Scan(files, nil, nil, nil)
	if len(res.Songs) != 1 {
		t.Fatalf("expected one song, got %d", len(res.Songs))
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("expected two skipped files, got %v", res.Skipped)
	}
	s := res.Songs[0]
	if s.Title != "Leilao" || s.Artist != "Cesar Menotte e Fabiano V2" {
		t.Fatalf("unexpected names %q / %q", s.Title, s.Artist)
	}
	if s.Tags.Origin != OriginInternational || s.Tags.Voice != VoiceMale {
		t.Fatalf("unexpected defaults %+v", s.Tags)
	}
	if s.HasGenres() || s.Source != ManualSource || s.ID != "leilao-cesar-menotte-e-fabiano-v2" {
		t.Fatalf("unexpected record %+v", s)
	}
}

func TestScanPreservesPriorEnrichmentAndAppliesTable(t *testing.T) {
	prior := []Song{{
		ID: "keep-me", Title: "Morena", Artist: "Vitor Kley", Year: "2018",
		Tags: Tags{Genre: []string{"MPB", "pop"}, Epoch: []string{"10s"}, Origin: OriginNational, Voice: VoiceMale},
		MBID: "mb", WikiURL: "w", Source: "musicbrainz",
	}}
	table := map[string]Manual{
		"morena|vitor-kley": {Voice: VoiceDuet},
	}
	files := []storage.Object{
		{Name: "Morena-Vitor_Kley.ppsx"},
		{Name: "morena-VITOR_KLEY.PPSX"},
		{Name: "O_sol-Vitor_Kley.ppsx"},
	}
	res := Scan(files, table, prior, nil)
	if len(res.Songs) != 2 || res.Preserved != 1 || len(res.Skipped) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	s := res.Songs[0]
	if s.ID != "keep-me" || s.Year != "2018" || s.MBID != "mb" || s.Source != "musicbrainz" {
		t.Fatalf("enrichment not preserved: %+v", s)
	}
	if !slices.Equal(s.Tags.Genre, []string{"mpb", "pop"}) {
		t.Fatalf("unexpected genres %v", s.Tags.Genre)
	}
	if s.Tags.Voice != VoiceDuet || s.Tags.Origin != OriginNational {
		t.Fatalf("table voice must win and prior origin must be kept: %+v", s.Tags)
	}
	if fresh := res.Songs[1]; fresh.HasGenres() || fresh.MBID != "" {
		t.Fatalf("new song must start empty: %+v", fresh)
	}
}

func TestParseSongTable(t *testing.T) {
	data := []byte("\ufeffOrigin, title ,Artist,Voice\nnacional,Leilão,César Menotte,dueto\nint,Your love,The Outfield,x\n,,,\n")
	m, err := ParseSongTable(data)
	if err != nil {
		t.Fatalf("ParseSongTable: %v", err)
	}
	if got := m["leilao|cesar-menotte"]; got.Voice != VoiceDuet || got.Origin != OriginNational {
		t.Fatalf("unexpected manual row %+v", got)
	}
	if got := m["your-love|the-outfield"]; got.Voice != "" || got.Origin != OriginInternational {
		t.Fatalf("unexpected manual row %+v", got)
	}
	if len(m) != 2 {
		t.Fatalf("expected two rows, got %d", len(m))
	}
}

func TestParseSongTableErrors(t *testing.T) {
	if _, err := ParseSongTable([]byte("Title,Artist,Voice\nx,y,m\n")); !errors.Is(err, ErrBadHeader) {
		t.Fatalf("expected ErrBadHeader, got %v", err)
	}
	if _, err := ParseSongTable([]byte("Title,Artist,Voice,Origin\n")); !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestDecodeIsTolerant(t *testing.T) {
	songs, err := Decode([]byte(`[{"title":"Segredos","artist":"Frejat","year":1999,
		"tags":{"genre":["Rock","rock",""],"origin":"weird"}}]`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	s := songs[0]
	if s.Year != "1999" || !slices.Equal(s.Tags.Genre, []string{"rock"}) {
		t.Fatalf("unexpected song %+v", s)
	}
	if s.Tags.Origin != OriginInternational || s.Tags.Voice != VoiceMale || s.Source != ManualSource {
		t.Fatalf("defaults not applied: %+v", s)
	}
	if s.ID != "segredos-frejat" {
		t.Fatalf("unexpected id %q", s.ID)
	}
	if empty, err := Decode([]byte("  ")); err != nil || empty != nil {
		t.Fatalf("expected empty dataset, got %v %v", empty, err)
	}
	if _, err := Decode([]byte("{")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyEnrichmentRespectsPrecedence(t *testing.T) {
	s := Song{Title: "x", Artist: "y", Year: "1987", MBID: "old", Tags: Tags{Genre: []string{"rock"}}}
	changed := ApplyEnrichment(&s, &enrich.Result{
		Source: "musicbrainz+wikipedia", MBID: "new", MBTitle: "X", Genres: []string{"pop", "rock"},
		Year: "1990", WikiURL: "u",
	})
	if !changed {
		t.Fatal("expected change")
	}
	if s.Year != "1987" || s.MBID != "old" {
		t.Fatalf("existing year and id must not change: %+v", s)
	}
	if !slices.Equal(s.Tags.Genre, []string{"rock", "pop"}) || !slices.Equal(s.Tags.Epoch, []string{"80s"}) {
		t.Fatalf("unexpected tags %+v", s.Tags)
	}
	if s.MBCanonicalTitle != "X" || s.WikiURL != "u" || s.Source != "musicbrainz+wikipedia" {
		t.Fatalf("unexpected song %+v", s)
	}
	if ApplyEnrichment(&s, nil) {
		t.Fatal("nil result must not change the song")
	}
}

func TestSetYearEpochBounds(t *testing.T) {
	for year, epoch := range map[string]string{"1987": "80s", "2003": "00s", "1899": "", "2101": ""} {
		s := Song{}
		s.SetYear(year)
		if epoch == "" && len(s.Tags.Epoch) != 0 {
			t.Errorf("year %s: expected no epoch, got %v", year, s.Tags.Epoch)
		}
		if epoch != "" && !slices.Equal(s.Tags.Epoch, []string{epoch}) {
			t.Errorf("year %s: expected %s, got %v", year, epoch, s.Tags.Epoch)
		}
	}
}

func TestCreditManual(t *testing.T) {
	for in, want := range map[string]string{"": "manual", "manual": "manual", "itunes": "itunes+manual"} {
		s := Song{Source: in}
		s.CreditManual()
		if s.Source != want {
			t.Errorf("CreditManual(%q) = %q, want %q", in, s.Source, want)
		}
	}
}

func TestFinalizeVersions(t *testing.T) {
	store := storage.NewMemory()
	songs := []Song{{Title: "a", Artist: "b"}}
	if _, err := Finalize(store, "song_full_list.json", nil); err == nil {
		t.Fatal("expected error for empty dataset")
	}
	for _, want := range []string{"song_full_list.json", "song_full_list_v2.json", "song_full_list_v3.json"} {
		name, err := Finalize(store, "song_full_list.json", songs)
		if err != nil || name != want {
			t.Fatalf("Finalize = %q, %v; want %q", name, err, want)
		}
	}
	latest, name, err := LoadLatest(store, "song_full_list.json")
	if err != nil || name != "song_full_list_v3.json" || len(latest) != 1 {
		t.Fatalf("LoadLatest = %v %q %v", latest, name, err)
	}
}

func TestLoadMissingAndSaveRoundTrip(t *testing.T) {
	store := storage.NewMemory()
	songs, found, err := Load(store, "wip.json")
	if err != nil || found || songs != nil {
		t.Fatalf("Load missing = %v %v %v", songs, found, err)
	}
	if err := Save(store, "wip.json", nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := store.Read("wip.json")
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("nil dataset must encode as [], got %s", data)
	}
}

func TestReviewRowsAndCSVQuoting(t *testing.T) {
	rows := ReviewRows([]Song{{
		Title: `Say "Hi", friend`, Artist: "Band",
		Tags: Tags{Genre: []string{"rock", "pop"}, Epoch: []string{"80s"}, Voice: VoiceMale, Origin: OriginNational},
	}})
	data, err := EncodeCSV(rows)
	if err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "Title,Artist,Voice,Origin,Year,Genres,Epoch,MBID,WikiUrl" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != `"Say ""Hi"", friend",Band,male,national,,rock;pop,80s,,` {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestFilterAndRemoveGenre(t *testing.T) {
	songs := []Song{
		{Title: "Morena", Artist: "Vitor Kley", Tags: Tags{Genre: []string{"brazilian", "mpb"}}},
		{Title: "Your love", Artist: "The Outfield", Tags: Tags{Genre: []string{"rock"}}},
	}
	if got := Filter(songs, "  KLEY "); len(got) != 1 || got[0].Title != "Morena" {
		t.Fatalf("unexpected filter result %v", got)
	}
	if got := Filter(songs, ""); len(got) != 2 {
		t.Fatalf("blank query must match all, got %d", len(got))
	}
	if n := RemoveGenreAll(songs, "Brazilian"); n != 1 {
		t.Fatalf("expected one affected song, got %d", n)
	}
	if !slices.Equal(songs[0].Tags.Genre, []string{"mpb"}) {
		t.Fatalf("unexpected genres %v", songs[0].Tags.Genre)
	}
}

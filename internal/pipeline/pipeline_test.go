package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"setlist/internal/catalog"
	"setlist/internal/config"
	"setlist/internal/fetch"
	"setlist/internal/overrides"
	"setlist/internal/services"
	"setlist/internal/storage"
	"setlist/internal/testsupport"
	"setlist/internal/textnorm"
)

const itunesHit = `{"resultCount":1,"results":[{"trackId":7,"trackName":"Evidencias","artistName":"Chitaozinho e Xororo","primaryGenreName":"Sertanejo"}]}`

// itunesOnly answers every iTunes search: one hit for Evidencias, nothing
// for anything else.
func itunesOnly(calls *[]string) fetch.Fetcher {
	return fetch.Func(func(_ context.Context, url string, _ map[string]string) fetch.Response {
		*calls = append(*calls, url)
		if strings.Contains(url, "Evidencias") {
			return fetch.Response{Status: 200, Body: []byte(itunesHit)}
		}
		return fetch.Response{Status: 200, Body: []byte(`{"resultCount":0,"results":[]}`)}
	})
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return testsupport.NewConfig(t, testsupport.WithSources("http://itunes.test", "itunes"))
}

func seedFolder(t *testing.T, store storage.Store) {
	t.Helper()
	testsupport.SeedCatalog(t, store,
		"Title,Artist,Voice,Origin\nEvidencias,Chitaozinho e Xororo,dueto,nacional\n",
		"Evidencias-Chitaozinho e Xororo", "Sozinho-Caetano Veloso", "NoSeparator")
	testsupport.WriteBlobs(t, store, map[string]string{"notes.txt": "ignored"})
}

func newTestPipeline(t *testing.T, cfg *config.Config, store storage.Store, f fetch.Fetcher) *Pipeline {
	t.Helper()
	p, err := New(cfg, WithStore(store), WithFetcher(f), WithState(testsupport.MustOpenState(t, cfg)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestScanEnrichFinalizeFlow(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	store := storage.NewMemory()
	seedFolder(t, store)
	var calls []string
	p := newTestPipeline(t, cfg, store, itunesOnly(&calls))

	if got := p.Sources(); !slices.Equal(got, []string{"itunes"}) {
		t.Fatalf("sources = %v", got)
	}

	scan, err := p.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(scan.Songs) != 2 || len(scan.Skipped) != 1 || scan.Prior != "" {
		t.Fatalf("scan = %+v", scan)
	}

	res, err := p.EnrichBatch(ctx)
	if err != nil {
		t.Fatalf("EnrichBatch: %v", err)
	}
	if !res.Complete || res.Enriched != 1 || res.Cursor != 2 {
		t.Fatalf("step = %+v", res)
	}
	if len(calls) == 0 {
		t.Fatal("expected the source to be queried")
	}

	wip, _, err := catalog.Load(store, cfg.Catalog.WIPJSON)
	if err != nil {
		t.Fatal(err)
	}
	idx := catalog.Index(wip)
	ev := wip[idx[textnorm.JoinKey("Evidencias", "Chitaozinho e Xororo")]]
	if !slices.Equal(ev.Tags.Genre, []string{"sertanejo"}) || ev.Source != "itunes" {
		t.Fatalf("enriched song = %+v", ev)
	}
	if ev.Tags.Voice != catalog.VoiceDuet || ev.Tags.Origin != catalog.OriginNational {
		t.Fatalf("manual tags not applied: %+v", ev.Tags)
	}

	name, n, err := p.Finalize(ctx)
	if err != nil || name != cfg.Catalog.BaseJSON || n != 2 {
		t.Fatalf("Finalize = %q, %d, %v", name, n, err)
	}
	name, _, err = p.Finalize(ctx)
	if err != nil || name != "song_full_list_v2.json" {
		t.Fatalf("second Finalize = %q, %v", name, err)
	}

	st, err := p.Status(ctx, 5)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Cursor != 2 || st.Total != 2 || st.LatestSnapshot != "song_full_list_v2.json" || len(st.Runs) != 1 {
		t.Fatalf("status = %+v", st)
	}

	log, err := store.Read(cfg.Catalog.EventLog)
	if err != nil {
		t.Fatalf("event log: %v", err)
	}
	for _, want := range []string{`"scan_complete"`, `"batch_step"`, `"run_id":"` + p.RunID() + `"`} {
		if !strings.Contains(string(log), want) {
			t.Errorf("event log missing %s", want)
		}
	}
}

func TestRescanCarriesEnrichmentFromLatestSnapshot(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	store := storage.NewMemory()
	seedFolder(t, store)
	var calls []string
	p := newTestPipeline(t, cfg, store, itunesOnly(&calls))

	if _, err := p.Scan(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := p.EnrichBatch(ctx); err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.Finalize(ctx); err != nil {
		t.Fatal(err)
	}

	scan, err := p.Scan(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if scan.Prior != cfg.Catalog.BaseJSON || scan.Preserved == 0 {
		t.Fatalf("rescan = %+v", scan)
	}
	if cursor, _ := p.state.Cursor(ctx); cursor != 0 {
		t.Fatalf("cursor after scan = %d", cursor)
	}
}

func TestScanWithoutSongTableIsConfigurationError(t *testing.T) {
	cfg := testConfig(t)
	store := storage.NewMemory()
	var calls []string
	p := newTestPipeline(t, cfg, store, itunesOnly(&calls))

	_, err := p.Scan(context.Background())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
	if services.ExitCode(err) != 2 {
		t.Fatalf("exit code = %d", services.ExitCode(err))
	}
}

func TestOperationsRequireWorkingDataset(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	var calls []string
	p := newTestPipeline(t, cfg, storage.NewMemory(), itunesOnly(&calls))

	if _, err := p.EnrichBatch(ctx); !errors.Is(err, services.ErrConfiguration) {
		t.Errorf("EnrichBatch err = %v", err)
	}
	if _, _, err := p.Finalize(ctx); !errors.Is(err, services.ErrConfiguration) {
		t.Errorf("Finalize err = %v", err)
	}
	if _, _, err := p.ExportReview(ctx); !errors.Is(err, services.ErrConfiguration) {
		t.Errorf("ExportReview err = %v", err)
	}
	if _, err := p.CleanGenre(ctx, "", TargetLatest); !errors.Is(err, services.ErrConfiguration) {
		t.Errorf("CleanGenre latest err = %v", err)
	}
	if _, _, err := p.List(ctx, "", TargetLatest); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("List latest err = %v", err)
	}
}

func seedWIP(t *testing.T, cfg *config.Config, store storage.Store, songs ...catalog.Song) {
	t.Helper()
	if err := catalog.Save(store, cfg.Catalog.WIPJSON, songs); err != nil {
		t.Fatal(err)
	}
}

func song(title, artist string, genres ...string) catalog.Song {
	s := catalog.Song{Title: title, Artist: artist, Source: "manual"}
	s.Tags.Genre = genres
	s.Tags.Voice = catalog.VoiceMale
	s.Tags.Origin = catalog.OriginNational
	return s
}

func TestCleanGenreTargets(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	store := storage.NewMemory()
	var calls []string
	p := newTestPipeline(t, cfg, store, itunesOnly(&calls))
	seedWIP(t, cfg, store,
		song("Ai se eu te pego", "Michel Telo", "brazilian", "sertanejo"),
		song("Sozinho", "Caetano Veloso", "mpb"))

	report, err := p.CleanGenre(ctx, "", TargetWIP)
	if err != nil || report.Affected != 1 || report.Written != cfg.Catalog.WIPJSON {
		t.Fatalf("CleanGenre wip = %+v, %v", report, err)
	}
	wip, _, _ := catalog.Load(store, cfg.Catalog.WIPJSON)
	if slices.Contains(wip[0].Tags.Genre, "brazilian") {
		t.Fatalf("label not removed: %v", wip[0].Tags.Genre)
	}

	if _, _, err := p.Finalize(ctx); err != nil {
		t.Fatal(err)
	}
	report, err = p.CleanGenre(ctx, "MPB", TargetLatest)
	if err != nil || report.Affected != 1 || report.Written != "song_full_list_v2.json" {
		t.Fatalf("CleanGenre latest = %+v, %v", report, err)
	}
	report, err = p.CleanGenre(ctx, "jazz", TargetLatest)
	if err != nil || report.Affected != 0 || report.Written != "" {
		t.Fatalf("no-op CleanGenre = %+v, %v", report, err)
	}
}

func TestApplyOverridesWritesUnmatched(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	entryFile := filepath.Join(cfg.Paths.CatalogDir, "overrides.toml")
	err := os.WriteFile(entryFile, []byte(`
[[override]]
title = "Sozinho"
artist = "Caetano"
genres = ["MPB", "Brazilian"]

[[override]]
title = "Unknown Song"
artist = "Nobody"
genres = ["Rock"]
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Catalog.OverridesFile = entryFile
	store := storage.NewMemory()
	var calls []string
	p := newTestPipeline(t, cfg, store, itunesOnly(&calls))
	seedWIP(t, cfg, store, song("Sozinho", "Caetano Veloso"))

	report, err := p.ApplyOverrides(ctx, false)
	if err != nil {
		t.Fatalf("ApplyOverrides: %v", err)
	}
	if report.Entries != 2 || report.Updated != 1 || len(report.Unmatched) != 1 || len(report.IgnoredOrigins) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if report.Matches[overrides.StageSameTitle] != 1 {
		t.Fatalf("matches = %v", report.Matches)
	}
	wip, _, _ := catalog.Load(store, cfg.Catalog.WIPJSON)
	if !slices.Equal(wip[0].Tags.Genre, []string{"mpb"}) || wip[0].Source != "manual" {
		t.Fatalf("song = %+v", wip[0])
	}
	unmatched, err := store.Read(cfg.Catalog.UnmatchedCSV)
	if err != nil {
		t.Fatal(err)
	}
	want := "Title,Artist (you wrote),Genres (you chose)\nUnknown Song,Nobody,Rock\n"
	if string(unmatched) != want {
		t.Fatalf("unmatched csv = %q", unmatched)
	}
}

func TestApplyOverridesMissingEntryFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.OverridesFile = filepath.Join(cfg.Paths.CatalogDir, "absent.toml")
	store := storage.NewMemory()
	var calls []string
	p := newTestPipeline(t, cfg, store, itunesOnly(&calls))
	seedWIP(t, cfg, store, song("Sozinho", "Caetano Veloso"))

	if _, err := p.ApplyOverrides(context.Background(), true); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v", err)
	}
}

func TestApplyGenreCSVAndExport(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	store := storage.NewMemory()
	var calls []string
	p := newTestPipeline(t, cfg, store, itunesOnly(&calls))
	seedWIP(t, cfg, store, song("Sozinho", "Caetano Veloso"), song("Evidencias", "Chitaozinho e Xororo"))

	if _, err := p.ApplyGenreCSV(ctx); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("missing csv err = %v", err)
	}
	csv := "Title,Artist,Genres\nSozinho,Caetano Veloso,MPB; Bossa Nova\nSozinho,Caetano,Rock\n"
	if err := store.Write(cfg.Catalog.GenreOverridesCSV, []byte(csv)); err != nil {
		t.Fatal(err)
	}
	updated, err := p.ApplyGenreCSV(ctx)
	if err != nil || updated != 1 {
		t.Fatalf("ApplyGenreCSV = %d, %v", updated, err)
	}

	name, n, err := p.ExportReview(ctx)
	if err != nil || name != cfg.Catalog.ReviewCSV || n != 2 {
		t.Fatalf("ExportReview = %q, %d, %v", name, n, err)
	}
	data, _ := store.Read(name)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "Title,Artist,Voice,Origin,Year,Genres,Epoch,MBID,WikiUrl" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Sozinho,Caetano Veloso,male,national,,bossa nova;mpb,") {
		t.Fatalf("row = %q", lines[1])
	}

	songs, from, err := p.List(ctx, "CAETANO", TargetWIP)
	if err != nil || from != cfg.Catalog.WIPJSON || len(songs) != 1 {
		t.Fatalf("List = %v, %q, %v", songs, from, err)
	}
}

func TestParseTarget(t *testing.T) {
	for in, want := range map[string]Target{"": TargetWIP, "WIP": TargetWIP, "final": TargetLatest, "latest": TargetLatest} {
		got, err := ParseTarget(in)
		if err != nil || got != want {
			t.Errorf("ParseTarget(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseTarget("draft"); !errors.Is(err, services.ErrValidation) {
		t.Errorf("err = %v", err)
	}
}

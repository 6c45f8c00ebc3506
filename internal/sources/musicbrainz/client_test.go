package musicbrainz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"setlist/internal/fetch"
	"setlist/internal/sources"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(fetch.New("setlist-test/1.0"), WithBaseURL(server.URL), WithInterval(0))
}

func TestSearchQueriesLadder(t *testing.T) {
	got := searchQueries(`Evidências "Live"`, "Chitãozinho & Xororó")
	want := []string{
		`artist:"Chitãozinho & Xororó" AND recording:"Evidências \"Live\""`,
		`artist:"Chitãozinho & Xororó" AND recording:"Evidências\"Live\""`,
		`artist:"Chitãozinho & Xororó" AND "Evidências" AND "\"Live\""`,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d queries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("query %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLookupUsesRecordingGenres(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/recording/":
			_, _ = w.Write([]byte(`{"recordings":[
				{"id":"low","score":40,"title":"Evidencias"},
				{"id":"rec-1","score":"100","title":"Evidências","first-release-date":"1990-05-01",
				 "artist-credit":[{"name":"Chitãozinho & Xororó","artist":{"id":"art-1"}}]}]}`))
		case r.URL.Path == "/recording/rec-1":
			if !strings.Contains(r.URL.RawQuery, "inc="+recordingInc) {
				t.Errorf("unexpected query %q", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`{"id":"rec-1","title":"Evidências",
				"genres":[{"name":"Sertanejo"}],"tags":[{"name":"sertanejo"},{"name":"romantic"}]}`))
		default:
			t.Errorf("unexpected request %s", r.URL.String())
			w.WriteHeader(http.StatusNotFound)
		}
	})

	out := client.Lookup(context.Background(), sources.Query{Title: "Evidências", Artist: "Chitãozinho & Xororó"})
	if out.Status != sources.StatusFound {
		t.Fatalf("expected found, got %s (%s)", out.Status, out.Reason)
	}
	if out.ID != "rec-1" || out.Year != "1990" {
		t.Fatalf("unexpected id/year %q %q", out.ID, out.Year)
	}
	if out.Artist != "Chitãozinho & Xororó" || out.Title != "Evidências" {
		t.Fatalf("unexpected canonical names %q / %q", out.Title, out.Artist)
	}
	if strings.Join(out.Genres, ",") != "sertanejo,romantic" {
		t.Fatalf("unexpected genres %v", out.Genres)
	}
}

func TestLookupFallsBackThroughQueriesAndCascade(t *testing.T) {
	var searches atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/recording/":
			n := searches.Add(1)
			if n < 3 {
				_, _ = w.Write([]byte(`{"recordings":[]}`))
				return
			}
			if q := r.URL.Query().Get("query"); !strings.Contains(q, `"Ai" AND "Se"`) {
				t.Errorf("third query should require each word, got %q", q)
			}
			_, _ = w.Write([]byte(`{"recordings":[{"id":"rec-2","score":90,"title":"Ai Se Eu Te Pego"}]}`))
		case r.URL.Path == "/recording/rec-2":
			_, _ = w.Write([]byte(`{"id":"rec-2","releases":[{"id":"rel"},{"id":"rel2","release-group":{"id":"rg-1"}}],
				"artists":[{"id":"art-2","name":"Michel Teló"}]}`))
		case r.URL.Path == "/release-group/rg-1":
			_, _ = w.Write([]byte(`{"id":"rg-1","first-release-date":"2011","genres":[],"tags":[]}`))
		case r.URL.Path == "/artist/art-2":
			_, _ = w.Write([]byte(`{"id":"art-2","tags":[{"name":"Sertanejo Universitário"}]}`))
		default:
			t.Errorf("unexpected request %s", r.URL.String())
		}
	})

	out := client.Lookup(context.Background(), sources.Query{Title: "Ai Se Eu Te Pego", Artist: "Michel Teló"})
	if searches.Load() != 3 {
		t.Fatalf("expected 3 searches, got %d", searches.Load())
	}
	if out.Status != sources.StatusFound || out.Year != "2011" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(out.Genres) != 1 || out.Genres[0] != "sertanejo universitário" {
		t.Fatalf("expected artist tags, got %v", out.Genres)
	}
	if out.Artist != "Michel Teló" {
		t.Fatalf("expected artist from artists list, got %q", out.Artist)
	}
}

func TestLookupWithKnownIDSkipsSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recording/known" {
			t.Errorf("unexpected request %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"known","first-release-date":"1977-01-01","genres":[{"name":"MPB"}]}`))
	})
	out := client.Lookup(context.Background(), sources.Query{Title: "x", Artist: "y", ID: "known"})
	if out.Status != sources.StatusFound || out.ID != "known" || out.Year != "1977" {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestLookupBelowMinScoreIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"recordings":[{"id":"r","score":69}]}`))
	})
	out := client.Lookup(context.Background(), sources.Query{Title: "Song", Artist: "Band"})
	if out.Status != sources.StatusEmpty {
		t.Fatalf("expected empty, got %+v", out)
	}
}

func TestLookupAllQueriesFailing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	out := client.Lookup(context.Background(), sources.Query{Title: "Song", Artist: "Band"})
	if out.Status != sources.StatusFailed {
		t.Fatalf("expected failed, got %+v", out)
	}
}

func TestLookupMalformedJSONFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})
	out := client.Lookup(context.Background(), sources.Query{Title: "Song", Artist: "Band"})
	if out.Status != sources.StatusFailed {
		t.Fatalf("expected failed, got %+v", out)
	}
}

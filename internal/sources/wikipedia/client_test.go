package wikipedia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"setlist/internal/fetch"
	"setlist/internal/sources"
)

func TestFirstYear(t *testing.T) {
	tests := map[string]string{
		"Released in 1987 and again in 2003.": "1987",
		"In 1899 nothing; 2101 neither; 2100!": "2100",
		"Catalogue number 12345 and 20001":     "",
		"":                                     "",
		"(2019)":                               "2019",
	}
	for in, want := range tests {
		if got := FirstYear(in); got != want {
			t.Errorf("FirstYear(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLookupReturnsURLAndYear(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/w/api.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch {
		case q.Get("list") == "search":
			if q.Get("srsearch") != "Ainda Bem Marisa Monte song" {
				t.Errorf("unexpected search %q", q.Get("srsearch"))
			}
			_, _ = w.Write([]byte(`{"query":{"search":[{"title":"Ainda Bem (song)","pageid":5}]}}`))
		case q.Get("prop") == "extracts":
			if q.Get("titles") != "Ainda Bem (song)" {
				t.Errorf("unexpected titles %q", q.Get("titles"))
			}
			_, _ = w.Write([]byte(`{"query":{"pages":{"5":{"title":"Ainda Bem (song)","extract":"A song released in 2011 on the album O Que Você Quer Saber de Verdade."}}}}`))
		}
	}))
	t.Cleanup(server.Close)

	client := New(fetch.New("test"), WithBaseURL(server.URL))
	out := client.Lookup(context.Background(), sources.Query{Title: "Ainda Bem", Artist: "Marisa Monte"})
	if out.Status != sources.StatusFound {
		t.Fatalf("expected found, got %+v", out)
	}
	if out.URL != server.URL+"/wiki/Ainda_Bem_%28song%29" {
		t.Fatalf("unexpected url %q", out.URL)
	}
	if out.Year != "2011" {
		t.Fatalf("unexpected year %q", out.Year)
	}
}

func TestLookupNoHit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"search":[]}}`))
	}))
	t.Cleanup(server.Close)

	out := New(fetch.New("test"), WithBaseURL(server.URL)).Lookup(context.Background(), sources.Query{Title: "x", Artist: "y"})
	if out.Status != sources.StatusEmpty || out.Contributed() {
		t.Fatalf("expected empty, got %+v", out)
	}
}

func TestLookupExtractFailureKeepsURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("list") == "search" {
			_, _ = w.Write([]byte(`{"query":{"search":[{"title":"Song"}]}}`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	out := New(fetch.New("test"), WithBaseURL(server.URL)).Lookup(context.Background(), sources.Query{Title: "x", Artist: "y"})
	if out.Status != sources.StatusFound || out.URL == "" || out.Year != "" {
		t.Fatalf("expected URL without year, got %+v", out)
	}
}

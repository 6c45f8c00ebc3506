package deezer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"setlist/internal/fetch"
	"setlist/internal/sources"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(fetch.New("test"), WithBaseURL(server.URL))
}

func TestLookupFetchesArtistGenres(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			if q := r.URL.Query().Get("q"); q != `track:"Velha Infância" artist:"Tribalistas"` {
				t.Errorf("unexpected query %q", q)
			}
			if r.URL.Query().Get("limit") != "3" {
				t.Errorf("unexpected limit %q", r.URL.Query().Get("limit"))
			}
			_, _ = w.Write([]byte(`{"data":[
				{"id":10,"title":"Velha Infancia (Ao Vivo)","artist":{"id":1,"name":"Outro"}},
				{"id":11,"title":"Velha Infância","artist":{"id":77,"name":"Tribalistas"}}]}`))
		case "/artist/77":
			_, _ = w.Write([]byte(`{"id":77,"genres":{"data":[{"name":"MPB"},{"name":"Pop"}]}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	out := client.Lookup(context.Background(), sources.Query{Title: "Velha Infância", Artist: "Tribalistas"})
	if out.Status != sources.StatusFound || out.ID != "11" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if strings.Join(out.Genres, ",") != "mpb,pop" {
		t.Fatalf("unexpected genres %v", out.Genres)
	}
}

func TestLookupNoCandidates(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[],"total":0}`))
	})
	out := client.Lookup(context.Background(), sources.Query{Title: "x", Artist: "y"})
	if out.Status != sources.StatusEmpty {
		t.Fatalf("expected empty, got %+v", out)
	}
}

func TestLookupBodyErrorIsFailure(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"type":"Exception","message":"Quota limit exceeded","code":4}}`))
	})
	out := client.Lookup(context.Background(), sources.Query{Title: "x", Artist: "y"})
	if out.Status != sources.StatusFailed || !strings.Contains(out.Reason, "Quota") {
		t.Fatalf("expected quota failure, got %+v", out)
	}
}

func TestLookupArtistRequestFails(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			_, _ = w.Write([]byte(`{"data":[{"id":1,"title":"x","artist":{"id":2,"name":"y"}}]}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})
	out := client.Lookup(context.Background(), sources.Query{Title: "x", Artist: "y"})
	if out.Status != sources.StatusFailed || out.ID != "1" {
		t.Fatalf("expected failed outcome carrying the track id, got %+v", out)
	}
}

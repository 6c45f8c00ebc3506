package deezer

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"setlist/internal/fetch"
	"setlist/internal/logging"
	"setlist/internal/sources"
)

// Name is the provenance label of this source.
const Name = "deezer"

const (
	defaultBaseURL = "https://api.deezer.com"
	defaultLimit   = 3
)

// apiError is the error object Deezer embeds in a 200 response.
type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Track is one search hit.
type Track struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Artist struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"artist"`
}

type searchResponse struct {
	Data  []Track   `json:"data"`
	Error *apiError `json:"error"`
}

type artistResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Genres struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	} `json:"genres"`
	Error *apiError `json:"error"`
}

// Client queries the Deezer API.
type Client struct {
	fetcher fetch.Fetcher
	baseURL string
	limit   int
	logger  *slog.Logger
}

var _ sources.Source = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithLimit caps the number of candidates requested.
func WithLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Deezer client.
func New(fetcher fetch.Fetcher, opts ...Option) *Client {
	c := &Client{
		fetcher: fetcher,
		baseURL: defaultBaseURL,
		limit:   defaultLimit,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, Name)
	return c
}

func (c *Client) Name() string { return Name }

func quote(s string) string {
	return `"` + strings.ReplaceAll(strings.TrimSpace(s), `"`, "") + `"`
}

func decode(resp fetch.Response, v any, apiErr func() *apiError) error {
	if err := resp.DecodeJSON(v); err != nil {
		return err
	}
	if e := apiErr(); e != nil {
		return fmt.Errorf("api error %d: %s %s", e.Code, e.Type, e.Message)
	}
	return nil
}

// SearchBest returns the best scoring track for the pair.
func (c *Client) SearchBest(ctx context.Context, title, artist string) (Track, bool, error) {
	params := url.Values{}
	params.Set("q", "track:"+quote(title)+" artist:"+quote(artist))
	params.Set("limit", strconv.Itoa(c.limit))
	var payload searchResponse
	resp := c.fetcher.Fetch(ctx, c.baseURL+"/search?"+params.Encode(), nil)
	if err := decode(resp, &payload, func() *apiError { return payload.Error }); err != nil {
		return Track{}, false, err
	}
	best, _, ok := sources.PickBest(payload.Data, title, artist, func(t Track) (string, string) {
		return t.Title, t.Artist.Name
	})
	return best, ok, nil
}

// ArtistGenres lists the genre names Deezer attaches to an artist.
func (c *Client) ArtistGenres(ctx context.Context, artistID int64) ([]string, error) {
	var payload artistResponse
	resp := c.fetcher.Fetch(ctx, fmt.Sprintf("%s/artist/%d", c.baseURL, artistID), nil)
	if err := decode(resp, &payload, func() *apiError { return payload.Error }); err != nil {
		return nil, err
	}
	var genres []string
	for _, g := range payload.Genres.Data {
		if name := strings.ToLower(strings.TrimSpace(g.Name)); name != "" {
			genres = append(genres, name)
		}
	}
	return genres, nil
}

// Lookup searches for the pair and reports the matched artist's genres.
func (c *Client) Lookup(ctx context.Context, q sources.Query) sources.Outcome {
	best, ok, err := c.SearchBest(ctx, q.Title, q.Artist)
	if err != nil {
		return sources.Failed(Name, "search: %v", err)
	}
	if !ok {
		return sources.Empty(Name, "no results")
	}
	out := sources.Outcome{
		Source: Name,
		ID:     strconv.FormatInt(best.ID, 10),
		Title:  best.Title,
		Artist: best.Artist.Name,
	}
	if best.Artist.ID == 0 {
		out.Status = sources.StatusEmpty
		out.Reason = "matched track has no artist id"
		return out
	}
	genres, err := c.ArtistGenres(ctx, best.Artist.ID)
	if err != nil {
		out.Status = sources.StatusFailed
		out.Reason = "artist genres: " + err.Error()
		return out
	}
	out.Genres = genres
	if len(genres) == 0 {
		out.Status = sources.StatusEmpty
		out.Reason = "artist has no genres"
		return out
	}
	out.Status = sources.StatusFound
	return out
}


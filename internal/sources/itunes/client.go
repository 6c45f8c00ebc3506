package itunes

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
const Name = "itunes"

const (
	defaultBaseURL         = "https://itunes.apple.com"
	defaultCountry         = "BR"
	defaultFallbackCountry = "US"
	defaultLimit           = 5
)

// Track is one search hit.
type Track struct {
	TrackID          int64  `json:"trackId"`
	TrackName        string `json:"trackName"`
	ArtistName       string `json:"artistName"`
	PrimaryGenreName string `json:"primaryGenreName"`
	ReleaseDate      string `json:"releaseDate"`
	TrackViewURL     string `json:"trackViewUrl"`
}

type searchResponse struct {
	ResultCount int     `json:"resultCount"`
	Results     []Track `json:"results"`
}

// Client queries the iTunes Search API.
type Client struct {
	fetcher         fetch.Fetcher
	baseURL         string
	country         string
	fallbackCountry string
	limit           int
	logger          *slog.Logger
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

// WithCountries sets the storefront queried first and the one retried when
// the first request fails. An empty fallback disables the retry.
func WithCountries(primary, fallback string) Option {
	return func(c *Client) {
		if primary = strings.TrimSpace(primary); primary != "" {
			c.country = strings.ToUpper(primary)
		}
		c.fallbackCountry = strings.ToUpper(strings.TrimSpace(fallback))
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

// New creates an iTunes client.
func New(fetcher fetch.Fetcher, opts ...Option) *Client {
	c := &Client{
		fetcher:         fetcher,
		baseURL:         defaultBaseURL,
		country:         defaultCountry,
		fallbackCountry: defaultFallbackCountry,
		limit:           defaultLimit,
		logger:          logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, Name)
	return c
}

func (c *Client) Name() string { return Name }

func (c *Client) searchURL(title, artist, country string) string {
	params := url.Values{}
	params.Set("term", strings.TrimSpace(title+" "+artist))
	params.Set("entity", "song")
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("country", country)
	return c.baseURL + "/search?" + params.Encode()
}

func (c *Client) search(ctx context.Context, title, artist, country string) ([]Track, error) {
	resp := c.fetcher.Fetch(ctx, c.searchURL(title, artist, country), nil)
	var payload searchResponse
	if err := resp.DecodeJSON(&payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// SearchBest returns the best scoring track for the pair. The fallback
// storefront is tried once when the primary request fails; an empty but
// successful answer is final.
func (c *Client) SearchBest(ctx context.Context, title, artist string) (Track, bool, error) {
	tracks, err := c.search(ctx, title, artist, c.country)
	if err != nil && c.fallbackCountry != "" && c.fallbackCountry != c.country && ctx.Err() == nil {
		c.logger.Debug("itunes primary storefront failed, retrying fallback",
			logging.String("country", c.country),
			logging.String("fallback_country", c.fallbackCountry),
			logging.Error(err))
		tracks, err = c.search(ctx, title, artist, c.fallbackCountry)
	}
	if err != nil {
		return Track{}, false, err
	}
	best, _, ok := sources.PickBest(tracks, title, artist, func(t Track) (string, string) {
		return t.TrackName, t.ArtistName
	})
	return best, ok, nil
}

// Lookup searches for the pair and reports the matched track's genre.
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
		Title:  best.TrackName,
		Artist: best.ArtistName,
	}
	if best.TrackID != 0 {
		out.ID = strconv.FormatInt(best.TrackID, 10)
	}
	if genre := strings.TrimSpace(best.PrimaryGenreName); genre != "" {
		out.Genres = []string{strings.ToLower(genre)}
	}
	if out.Genres == nil {
		out.Status = sources.StatusEmpty
		out.Reason = fmt.Sprintf("matched %q without a genre", best.TrackName)
		return out
	}
	out.Status = sources.StatusFound
	return out
}

package musicbrainz

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"setlist/internal/fetch"
	"setlist/internal/logging"
	"setlist/internal/sources"
)

// Name is the provenance label of this source.
const Name = "musicbrainz"

const (
	defaultBaseURL  = "https://musicbrainz.org/ws/2"
	defaultMinScore = 70
	defaultInterval = 1100 * time.Millisecond

	recordingInc = "genres+tags+releases+artist-credits+artists"
	entityInc    = "genres+tags"
)

var whitespace = regexp.MustCompile(`\s+`)

// Client queries the MusicBrainz web service.
type Client struct {
	fetcher  fetch.Fetcher
	baseURL  string
	minScore int
	limiter  *rate.Limiter
	logger   *slog.Logger
}

var _ sources.Source = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the web service root.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithMinScore sets the lowest search score accepted as a match.
func WithMinScore(n int) Option {
	return func(c *Client) { c.minScore = n }
}

// WithInterval sets the minimum spacing between two requests. Zero disables
// spacing, which only tests should do.
func WithInterval(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
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

// New creates a MusicBrainz client. The fetcher must send a descriptive
// User-Agent; MusicBrainz rejects anonymous clients.
func New(fetcher fetch.Fetcher, opts ...Option) *Client {
	c := &Client{
		fetcher:  fetcher,
		baseURL:  defaultBaseURL,
		minScore: defaultMinScore,
		limiter:  rate.NewLimiter(rate.Every(defaultInterval), 1),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, Name)
	return c
}

func (c *Client) Name() string { return Name }

func (c *Client) get(ctx context.Context, endpoint string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	resp := c.fetcher.Fetch(ctx, endpoint, nil)
	if err := resp.DecodeJSON(v); err != nil {
		c.logger.Debug("musicbrainz request failed",
			logging.String("url", endpoint),
			logging.Int("status", resp.Status),
			logging.Error(err))
		return err
	}
	return nil
}

func luceneQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// searchQueries builds the ladder tried in order: exact phrase, title with
// spaces removed, then every title word required on its own.
func searchQueries(title, artist string) []string {
	artistClause := "artist:" + luceneQuote(artist)
	words := strings.Fields(title)
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = luceneQuote(w)
	}
	return []string{
		artistClause + " AND recording:" + luceneQuote(title),
		artistClause + " AND recording:" + luceneQuote(whitespace.ReplaceAllString(title, "")),
		artistClause + " AND " + strings.Join(quoted, " AND "),
	}
}

// SearchBest runs the query ladder and returns the first hit whose score
// reaches the minimum. ok is false when no query produced an acceptable hit;
// failed reports whether every query failed outright.
func (c *Client) SearchBest(ctx context.Context, title, artist string) (best Recording, ok bool, failed bool) {
	failures := 0
	queries := searchQueries(title, artist)
	for _, q := range queries {
		endpoint := c.baseURL + "/recording/?fmt=json&query=" + url.QueryEscape(q)
		var payload searchResponse
		if err := c.get(ctx, endpoint, &payload); err != nil {
			failures++
			if ctx.Err() != nil {
				return Recording{}, false, true
			}
			continue
		}
		if len(payload.Recordings) == 0 {
			continue
		}
		hits := append([]Recording(nil), payload.Recordings...)
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
		if int(hits[0].Score) >= c.minScore {
			return hits[0], true, false
		}
	}
	return Recording{}, false, failures == len(queries)
}

// Recording fetches full recording details by id.
func (c *Client) Recording(ctx context.Context, id string) (*Recording, error) {
	var rec Recording
	endpoint := fmt.Sprintf("%s/recording/%s?fmt=json&inc=%s", c.baseURL, url.PathEscape(id), recordingInc)
	if err := c.get(ctx, endpoint, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ReleaseGroup fetches genres and tags of a release group.
func (c *Client) ReleaseGroup(ctx context.Context, id string) (*Entity, error) {
	var e Entity
	endpoint := fmt.Sprintf("%s/release-group/%s?fmt=json&inc=%s", c.baseURL, url.PathEscape(id), entityInc)
	if err := c.get(ctx, endpoint, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Artist fetches genres and tags of an artist.
func (c *Client) Artist(ctx context.Context, id string) (*Entity, error) {
	var e Entity
	endpoint := fmt.Sprintf("%s/artist/%s?fmt=json&inc=%s", c.baseURL, url.PathEscape(id), entityInc)
	if err := c.get(ctx, endpoint, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Lookup resolves a recording (directly by id when known, otherwise by
// search) and folds its genre, tag and year signals, widening to the release
// group and then the artist while no genres have been found.
func (c *Client) Lookup(ctx context.Context, q sources.Query) sources.Outcome {
	out := sources.Outcome{Source: Name}
	id := strings.TrimSpace(q.ID)

	if id == "" {
		best, ok, failed := c.SearchBest(ctx, q.Title, q.Artist)
		if !ok {
			if failed {
				return sources.Failed(Name, "all search queries failed")
			}
			return sources.Empty(Name, fmt.Sprintf("no recording scored >= %d", c.minScore))
		}
		id = best.ID
		out.Year = best.Year()
		out.Title = best.Title
		out.Artist = best.CreditedArtist()
	}
	out.ID = id

	rec, err := c.Recording(ctx, id)
	if err != nil {
		out.Reason = "recording details: " + err.Error()
		if out.Year == "" {
			out.Status = sources.StatusFailed
			return out
		}
		out.Status = sources.StatusFound
		return out
	}
	if rec.Title != "" {
		out.Title = rec.Title
	}
	if name := rec.CreditedArtist(); name != "" {
		out.Artist = name
	}
	out.Genres = labels(rec.Genres, rec.Tags)
	if out.Year == "" {
		out.Year = rec.Year()
	}

	if len(out.Genres) == 0 {
		if rgID := rec.ReleaseGroupID(); rgID != "" {
			if rg, err := c.ReleaseGroup(ctx, rgID); err == nil {
				out.Genres = labels(rg.Genres, rg.Tags)
				if out.Year == "" {
					out.Year = yearOf(rg.FirstReleaseDate)
				}
			}
		}
	}
	if len(out.Genres) == 0 {
		if artistID := rec.FirstArtistID(); artistID != "" {
			if art, err := c.Artist(ctx, artistID); err == nil {
				out.Genres = labels(art.Genres, art.Tags)
			}
		}
	}

	if out.Contributed() {
		out.Status = sources.StatusFound
	} else {
		out.Status = sources.StatusEmpty
		out.Reason = "recording has no genres, tags or release date"
	}
	return out
}

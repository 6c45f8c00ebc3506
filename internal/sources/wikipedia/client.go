package wikipedia

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"setlist/internal/fetch"
	"setlist/internal/logging"
	"setlist/internal/sources"
)

// Name is the provenance label of this source.
const Name = "wikipedia"

const defaultBaseURL = "https://en.wikipedia.org"

var yearPattern = regexp.MustCompile(`\b(?:19\d{2}|20\d{2}|2100)\b`)

type searchResponse struct {
	Query struct {
		Search []struct {
			Title  string `json:"title"`
			PageID int64  `json:"pageid"`
		} `json:"search"`
	} `json:"query"`
}

type extractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// Client queries the MediaWiki action API.
type Client struct {
	fetcher fetch.Fetcher
	baseURL string
	logger  *slog.Logger
}

var _ sources.Source = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the wiki root (scheme and host).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.baseURL = strings.TrimRight(base, "/")
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

// New creates a Wikipedia client.
func New(fetcher fetch.Fetcher, opts ...Option) *Client {
	c := &Client{
		fetcher: fetcher,
		baseURL: defaultBaseURL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, Name)
	return c
}

func (c *Client) Name() string { return Name }

// PageURL is the canonical article URL for a page title.
func (c *Client) PageURL(pageTitle string) string {
	return c.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(pageTitle, " ", "_"))
}

// SearchTitle returns the title of the top full-text hit for the query.
func (c *Client) SearchTitle(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("format", "json")
	params.Set("srlimit", "1")
	params.Set("srprop", "snippet")
	params.Set("srsearch", query)
	var payload searchResponse
	if err := c.fetcher.Fetch(ctx, c.baseURL+"/w/api.php?"+params.Encode(), nil).DecodeJSON(&payload); err != nil {
		return "", err
	}
	if len(payload.Query.Search) == 0 {
		return "", nil
	}
	return strings.TrimSpace(payload.Query.Search[0].Title), nil
}

// Extract returns the plain-text introduction of a page.
func (c *Client) Extract(ctx context.Context, pageTitle string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("format", "json")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("titles", pageTitle)
	var payload extractResponse
	if err := c.fetcher.Fetch(ctx, c.baseURL+"/w/api.php?"+params.Encode(), nil).DecodeJSON(&payload); err != nil {
		return "", err
	}
	keys := make([]string, 0, len(payload.Query.Pages))
	for k := range payload.Query.Pages {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "", nil
	}
	sort.Strings(keys)
	return payload.Query.Pages[keys[0]].Extract, nil
}

// FirstYear returns the first four-digit year between 1900 and 2100 in text.
func FirstYear(text string) string {
	return yearPattern.FindString(text)
}

// Lookup finds the article for the pair. A missing extract still yields the
// URL.
func (c *Client) Lookup(ctx context.Context, q sources.Query) sources.Outcome {
	pageTitle, err := c.SearchTitle(ctx, strings.TrimSpace(q.Title+" "+q.Artist)+" song")
	if err != nil {
		return sources.Failed(Name, "search: %v", err)
	}
	if pageTitle == "" {
		return sources.Empty(Name, "no search hit")
	}
	out := sources.Outcome{
		Source: Name,
		Status: sources.StatusFound,
		Title:  pageTitle,
		URL:    c.PageURL(pageTitle),
	}
	extract, err := c.Extract(ctx, pageTitle)
	if err != nil {
		c.logger.Debug("wikipedia extract unavailable",
			logging.String("page", pageTitle),
			logging.Error(err))
		out.Reason = "extract: " + err.Error()
		return out
	}
	out.Year = FirstYear(extract)
	return out
}

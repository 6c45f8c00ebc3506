package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"strings"

	"setlist/internal/genre"
	"setlist/internal/logging"
	"setlist/internal/services"
	"setlist/internal/sources"
	"setlist/internal/textnorm"
)

// ManualSource is the provenance of a record no source contributed to.
const ManualSource = "manual"

// Policy decides when a stage is consulted.
type Policy int

const (
	// UntilGenres stages run only while the genre set is still empty.
	UntilGenres Policy = iota
	// Always stages run on every song.
	Always
)

func (p Policy) String() string {
	if p == Always {
		return "always"
	}
	return "until_genres"
}

// Stage is one source in the chain. The Primary stage receives the stored
// identifier and supplies the canonical id, title and artist of the result.
type Stage struct {
	Source  sources.Source
	Policy  Policy
	Primary bool
}

// Existing carries what the record already knows that can shortcut lookups.
type Existing struct {
	ID string
}

// Result is what one enrichment pass learned about a song.
type Result struct {
	Source   string
	MBID     string
	MBTitle  string
	MBArtist string
	Genres   []string
	Year     string
	WikiURL  string

	// Outcomes records every stage consulted, in order.
	Outcomes []sources.Outcome
}

// Orchestrator drives the stages for one song at a time.
type Orchestrator struct {
	stages []Stage
	logger *slog.Logger
}

// New builds an orchestrator over stages in priority order.
func New(logger *slog.Logger, stages ...Stage) *Orchestrator {
	return &Orchestrator{
		stages: slices.Clone(stages),
		logger: logging.NewComponentLogger(logger, "enrich"),
	}
}

// Stages returns the names of the configured stages.
func (o *Orchestrator) Stages() []string {
	names := make([]string, 0, len(o.stages))
	for _, s := range o.stages {
		names = append(names, s.Source.Name())
	}
	return names
}

// Enrich runs the chain for one song. It returns nil when nothing was learned
// or when the chain broke; a failure never escapes to the caller.
func (o *Orchestrator) Enrich(ctx context.Context, title, artist string, existing Existing) (result *Result) {
	key := textnorm.JoinKey(title, artist)
	ctx = services.WithSongKey(ctx, key)
	logger := logging.WithContext(ctx, o.logger)

	defer func() {
		if r := recover(); r != nil {
			logging.ErrorWithContext(logger, "enrichment aborted", "enrich_error",
				logging.String("title", title),
				logging.String("artist", artist),
				logging.String("error", fmt.Sprint(r)),
				logging.String("stack", string(debug.Stack())),
				logging.String(logging.FieldErrorHint, "song left unenriched; it will not be retried this pass"))
			result = nil
		}
	}()

	res := &Result{}
	var credited []string
	for _, stage := range o.stages {
		if ctx.Err() != nil {
			logger.Debug("enrichment interrupted", logging.Error(ctx.Err()))
			break
		}
		if stage.Policy == UntilGenres && len(res.Genres) > 0 {
			continue
		}
		q := sources.Query{Title: title, Artist: artist}
		if stage.Primary {
			q.ID = strings.TrimSpace(existing.ID)
		}
		out := stage.Source.Lookup(ctx, q)
		if out.Source == "" {
			out.Source = stage.Source.Name()
		}
		res.Outcomes = append(res.Outcomes, out)
		o.logOutcome(logger, out)

		if stage.Primary {
			if out.ID != "" {
				res.MBID = out.ID
			} else if q.ID != "" {
				res.MBID = q.ID
			}
			res.MBTitle = firstNonEmpty(res.MBTitle, out.Title)
			res.MBArtist = firstNonEmpty(res.MBArtist, out.Artist)
		}

		contributed := false
		if canon := genre.Normalize(out.Genres); len(canon) > 0 {
			res.Genres = union(res.Genres, canon)
			contributed = true
		}
		if res.Year == "" && validYear(out.Year) {
			res.Year = out.Year
			contributed = true
		}
		if res.WikiURL == "" && out.URL != "" {
			res.WikiURL = out.URL
			contributed = true
		}
		if contributed {
			credited = append(credited, out.Source)
		}
	}

	if len(credited) == 0 {
		res.Source = ManualSource
	} else {
		res.Source = strings.Join(credited, "+")
	}
	if len(res.Genres) == 0 && res.Year == "" && res.MBID == "" && res.WikiURL == "" {
		logger.Debug("nothing learned",
			logging.String("title", title),
			logging.String("artist", artist))
		return nil
	}
	return res
}

func (o *Orchestrator) logOutcome(logger *slog.Logger, out sources.Outcome) {
	attrs := []logging.Attr{
		logging.String(logging.FieldSource, out.Source),
		logging.String("status", out.Status.String()),
	}
	if out.Reason != "" {
		attrs = append(attrs, logging.String("reason", out.Reason))
	}
	if out.Status == sources.StatusFailed {
		logging.WarnWithContext(logger, "source lookup failed", "source_failed",
			append(attrs, logging.String(logging.FieldImpact, "source skipped for this song"))...)
		return
	}
	logger.Debug("source lookup", logging.Args(append(attrs,
		logging.Int("raw_genres", len(out.Genres)),
		logging.String("year", out.Year))...)...)
}

func validYear(y string) bool {
	if len(y) != 4 {
		return false
	}
	for _, r := range y {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// union merges b into a case-insensitively and keeps the result sorted.
func union(a, b []string) []string {
	out := slices.Clone(a)
	for _, g := range b {
		g = strings.ToLower(strings.TrimSpace(g))
		if g != "" && !slices.Contains(out, g) {
			out = append(out, g)
		}
	}
	slices.Sort(out)
	return out
}

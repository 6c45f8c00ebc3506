package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"setlist/internal/batch"
	"setlist/internal/catalog"
	"setlist/internal/config"
	"setlist/internal/enrich"
	"setlist/internal/fetch"
	"setlist/internal/logging"
	"setlist/internal/scheduler"
	"setlist/internal/services"
	"setlist/internal/sources/deezer"
	"setlist/internal/sources/itunes"
	"setlist/internal/sources/musicbrainz"
	"setlist/internal/sources/wikipedia"
	"setlist/internal/state"
	"setlist/internal/storage"
)

// Pipeline owns every long-lived resource one CLI invocation needs.
type Pipeline struct {
	cfg          *config.Config
	store        storage.Store
	state        *state.Store
	ownsState    bool
	fetcher      fetch.Fetcher
	orchestrator *enrich.Orchestrator
	runner       *batch.Runner
	logger       *slog.Logger
	runID        string
	eventLog     io.Closer
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithStore replaces the catalogue folder.
func WithStore(store storage.Store) Option {
	return func(p *Pipeline) {
		if store != nil {
			p.store = store
		}
	}
}

// WithFetcher replaces the HTTP fetcher shared by all sources.
func WithFetcher(f fetch.Fetcher) Option {
	return func(p *Pipeline) {
		if f != nil {
			p.fetcher = f
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithState reuses an already open state store. The caller keeps ownership.
func WithState(st *state.Store) Option {
	return func(p *Pipeline) {
		if st != nil {
			p.state = st
		}
	}
}

// New wires a Pipeline from cfg.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "config is required", nil)
	}
	p := &Pipeline{
		cfg:    cfg,
		runID:  uuid.NewString(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.store == nil {
		p.store = storage.NewDir(cfg.Paths.CatalogDir)
	}
	if p.fetcher == nil {
		timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
		p.fetcher = fetch.New(cfg.RequestUserAgent(), fetch.WithTimeout(timeout))
	}

	logger := p.logger
	if name := cfg.Catalog.EventLog; name != "" {
		w, err := p.store.Append(name)
		if err != nil {
			logging.WarnWithContext(logger, "event log unavailable", "event_log_open_failed",
				logging.String("event_log", name),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check write access to the catalogue folder"))
		} else {
			p.eventLog = w
			logger = logging.TeeLogger(logger, logging.NewEventLogHandler(w, slog.LevelInfo))
		}
	}
	p.logger = logging.WithRunID(logger, p.runID)

	if p.state == nil {
		st, err := state.Open(cfg.StateDBPath())
		if err != nil {
			p.closeEventLog()
			return nil, services.Wrap(services.ErrConfiguration, "pipeline", "open state", cfg.StateDBPath(), err)
		}
		p.state = st
		p.ownsState = true
	}

	p.orchestrator = enrich.New(p.logger, p.stages()...)
	runner, err := batch.NewRunner(batch.Options{
		Store:     p.store,
		State:     p.state,
		WIPName:   cfg.Catalog.WIPJSON,
		BatchSize: cfg.Catalog.BatchSize,
		Enrich:    p.enrichSong,
		LockPath:  p.lockPath(),
		Logger:    p.logger,
	})
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	p.runner = runner
	return p, nil
}

// stages builds the enrichment cascade from the enabled sources. MusicBrainz
// leads and owns the recording identifier; Wikipedia always runs last.
func (p *Pipeline) stages() []enrich.Stage {
	cfg := p.cfg
	var out []enrich.Stage
	if cfg.MusicBrainz.Enabled {
		mb := musicbrainz.New(p.fetcher,
			musicbrainz.WithBaseURL(cfg.MusicBrainz.BaseURL),
			musicbrainz.WithMinScore(cfg.MusicBrainz.MinScore),
			musicbrainz.WithInterval(time.Duration(cfg.MusicBrainz.RequestIntervalMS)*time.Millisecond),
			musicbrainz.WithLogger(p.logger))
		out = append(out, enrich.Stage{Source: mb, Policy: enrich.UntilGenres, Primary: true})
	}
	if cfg.ITunes.Enabled {
		it := itunes.New(p.fetcher,
			itunes.WithBaseURL(cfg.ITunes.BaseURL),
			itunes.WithCountries(cfg.ITunes.Country, cfg.ITunes.FallbackCountry),
			itunes.WithLimit(cfg.ITunes.Limit),
			itunes.WithLogger(p.logger))
		out = append(out, enrich.Stage{Source: it, Policy: enrich.UntilGenres})
	}
	if cfg.Deezer.Enabled {
		dz := deezer.New(p.fetcher,
			deezer.WithBaseURL(cfg.Deezer.BaseURL),
			deezer.WithLimit(cfg.Deezer.Limit),
			deezer.WithLogger(p.logger))
		out = append(out, enrich.Stage{Source: dz, Policy: enrich.UntilGenres})
	}
	if cfg.Wikipedia.Enabled {
		wp := wikipedia.New(p.fetcher,
			wikipedia.WithBaseURL(cfg.Wikipedia.BaseURL),
			wikipedia.WithLogger(p.logger))
		out = append(out, enrich.Stage{Source: wp, Policy: enrich.Always})
	}
	return out
}

// lockPath is empty when the store is not the on-disk folder, which keeps
// in-memory runs free of filesystem locks.
func (p *Pipeline) lockPath() string {
	if _, ok := p.store.(*storage.Dir); !ok {
		return ""
	}
	if p.cfg.Paths.StateDir == "" {
		return ""
	}
	if err := os.MkdirAll(p.cfg.Paths.StateDir, 0o755); err != nil {
		p.logger.Warn("state directory unavailable; batch lock disabled", logging.Error(err))
		return ""
	}
	return p.cfg.LockPath()
}

func (p *Pipeline) enrichSong(ctx context.Context, song catalog.Song) *enrich.Result {
	return p.orchestrator.Enrich(ctx, song.Title, song.Artist, enrich.Existing{ID: song.MBID})
}

// RunID identifies this invocation in every log record.
func (p *Pipeline) RunID() string { return p.runID }

// Logger returns the run-scoped logger.
func (p *Pipeline) Logger() *slog.Logger { return p.logger }

// Sources lists the enabled enrichment sources in cascade order.
func (p *Pipeline) Sources() []string { return p.orchestrator.Stages() }

// Close releases the state database and the event log.
func (p *Pipeline) Close() error {
	var errs []error
	if p.ownsState && p.state != nil {
		errs = append(errs, p.state.Close())
		p.state = nil
	}
	errs = append(errs, p.closeEventLog())
	return errors.Join(errs...)
}

func (p *Pipeline) closeEventLog() error {
	if p.eventLog == nil {
		return nil
	}
	err := p.eventLog.Close()
	p.eventLog = nil
	return err
}

// loadWIP reads the working dataset. A missing or empty dataset is a
// configuration error for operations that need one.
func (p *Pipeline) loadWIP(op string) ([]catalog.Song, error) {
	songs, _, err := catalog.Load(p.store, p.cfg.Catalog.WIPJSON)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", op, "read working dataset", err)
	}
	if len(songs) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", op, batch.ErrEmptyDataset.Error(), nil)
	}
	return songs, nil
}

// readRequired reads a blob that must exist.
func (p *Pipeline) readRequired(op, name string) ([]byte, error) {
	data, err := p.store.Read(name)
	if errors.Is(err, storage.ErrNotExist) {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", op, fmt.Sprintf("%s not found in catalogue folder", name), nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", op, "read "+name, err)
	}
	return data, nil
}

// Scheduler returns a scheduler driving this pipeline's batch runner.
func (p *Pipeline) Scheduler() *scheduler.Scheduler {
	interval := time.Duration(p.cfg.Scheduler.IntervalSeconds) * time.Second
	return scheduler.New(p.runner, p.state, interval, p.logger)
}

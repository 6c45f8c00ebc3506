package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"setlist/internal/batch"
	"setlist/internal/catalog"
	"setlist/internal/logging"
	"setlist/internal/overrides"
	"setlist/internal/services"
	"setlist/internal/state"
)

// Target selects which dataset an operation reads or rewrites.
type Target string

const (
	// TargetWIP is the working dataset.
	TargetWIP Target = "wip"
	// TargetLatest is the newest finalized snapshot.
	TargetLatest Target = "latest"
)

// ParseTarget accepts "wip" or "latest" (alias "final").
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wip":
		return TargetWIP, nil
	case "latest", "final":
		return TargetLatest, nil
	default:
		return "", services.Wrap(services.ErrValidation, "catalog", "target", fmt.Sprintf("unknown dataset %q (want wip or latest)", s), nil)
	}
}

// DefaultCleanLabel is the label CleanGenre removes when none is given.
const DefaultCleanLabel = "brazilian"

// ScanReport is the outcome of Scan.
type ScanReport struct {
	catalog.ScanResult
	// Prior names the snapshot enrichment was carried over from.
	Prior string
}

// Scan rebuilds the working dataset from the presentation files in the
// catalogue folder and rewinds the cursor.
func (p *Pipeline) Scan(ctx context.Context) (ScanReport, error) {
	logger := logging.NewComponentLogger(p.logger, "scan")
	data, err := p.readRequired("scan", p.cfg.Catalog.SongTable)
	if err != nil {
		return ScanReport{}, err
	}
	table, err := catalog.ParseSongTable(data)
	if err != nil {
		return ScanReport{}, services.Wrap(services.ErrConfiguration, "catalog", "scan", p.cfg.Catalog.SongTable, err)
	}
	files, err := p.store.List(p.cfg.Catalog.FilePattern)
	if err != nil {
		return ScanReport{}, services.Wrap(services.ErrExternal, "catalog", "scan", "list presentation files", err)
	}

	prior, priorName, err := catalog.LoadLatest(p.store, p.cfg.Catalog.BaseJSON)
	if err != nil {
		logging.WarnWithContext(logger, "prior snapshot unreadable; starting fresh", "prior_snapshot_unreadable",
			logging.String("snapshot", priorName),
			logging.Error(err),
			logging.String(logging.FieldImpact, "enrichment from the previous catalogue is not carried over"))
		prior, priorName = nil, ""
	}

	res := catalog.Scan(files, table, prior, p.logger)
	if err := catalog.Save(p.store, p.cfg.Catalog.WIPJSON, res.Songs); err != nil {
		return ScanReport{}, services.Wrap(services.ErrExternal, "catalog", "scan", "write working dataset", err)
	}
	if err := p.runner.Reset(context.WithoutCancel(ctx)); err != nil {
		return ScanReport{}, fmt.Errorf("reset cursor: %w", err)
	}

	logger.Info("working dataset rebuilt",
		logging.String(logging.FieldEventType, "scan_complete"),
		logging.Int("files", len(files)),
		logging.Int("songs", len(res.Songs)),
		logging.Int("preserved", res.Preserved),
		logging.Int("skipped", len(res.Skipped)),
		logging.String("prior", priorName))
	return ScanReport{ScanResult: res, Prior: priorName}, nil
}

// EnrichBatch runs one batch step.
func (p *Pipeline) EnrichBatch(ctx context.Context) (batch.StepResult, error) {
	res, err := p.runner.RunOnce(ctx)
	switch {
	case errors.Is(err, batch.ErrBusy):
		return res, services.Wrap(services.ErrTransient, "batch", "enrich", "", err)
	}
	return res, err
}

// ResetCursor rewinds enrichment to the first song.
func (p *Pipeline) ResetCursor(ctx context.Context) error {
	if err := p.runner.Reset(ctx); err != nil {
		return err
	}
	p.logger.Info("cursor reset", logging.String(logging.FieldEventType, "cursor_reset"))
	return nil
}

// Status describes enrichment progress.
type Status struct {
	Cursor          int
	Total           int
	Sources         []string
	SchedulerActive bool
	LatestSnapshot  string
	Runs            []state.Run
}

// Status reports the cursor, the dataset size and recent batch runs.
func (p *Pipeline) Status(ctx context.Context, runs int) (Status, error) {
	st := Status{Sources: p.Sources()}
	var err error
	if st.Cursor, err = p.state.Cursor(ctx); err != nil {
		return st, err
	}
	if st.SchedulerActive, err = p.state.SchedulerActive(ctx); err != nil {
		return st, err
	}
	songs, _, err := catalog.Load(p.store, p.cfg.Catalog.WIPJSON)
	if err != nil {
		return st, err
	}
	st.Total = len(songs)
	if _, st.LatestSnapshot, err = p.latestName(); err != nil {
		return st, err
	}
	if st.Runs, err = p.state.RecentRuns(ctx, runs); err != nil {
		return st, err
	}
	return st, nil
}

func (p *Pipeline) latestName() ([]catalog.Song, string, error) {
	return catalog.LoadLatest(p.store, p.cfg.Catalog.BaseJSON)
}

// Finalize writes the working dataset as the next versioned snapshot.
func (p *Pipeline) Finalize(ctx context.Context) (string, int, error) {
	songs, err := p.loadWIP("finalize")
	if err != nil {
		return "", 0, err
	}
	name, err := catalog.Finalize(p.store, p.cfg.Catalog.BaseJSON, songs)
	if err != nil {
		return "", 0, services.Wrap(services.ErrExternal, "catalog", "finalize", "", err)
	}
	p.logger.Info("snapshot written",
		logging.String(logging.FieldEventType, "finalize"),
		logging.String("snapshot", name),
		logging.Int("songs", len(songs)))
	return name, len(songs), nil
}

// ExportReview writes the review CSV for the working dataset and returns its
// name and the number of songs exported.
func (p *Pipeline) ExportReview(ctx context.Context) (string, int, error) {
	songs, err := p.loadWIP("export review")
	if err != nil {
		return "", 0, err
	}
	name := p.cfg.Catalog.ReviewCSV
	if err := p.writeCSV(name, catalog.ReviewRows(songs)); err != nil {
		return "", 0, err
	}
	p.logger.Info("review exported",
		logging.String(logging.FieldEventType, "review_exported"),
		logging.String("file", name),
		logging.Int("songs", len(songs)))
	return name, len(songs), nil
}

func (p *Pipeline) writeCSV(name string, rows [][]string) error {
	data, err := catalog.EncodeCSV(rows)
	if err != nil {
		return err
	}
	if err := p.store.Write(name, data); err != nil {
		return services.Wrap(services.ErrExternal, "catalog", "write csv", name, err)
	}
	return nil
}

// CleanReport is the outcome of CleanGenre.
type CleanReport struct {
	Label    string
	Target   Target
	Affected int
	// Written names the dataset that was rewritten; empty when nothing
	// changed.
	Written string
}

// CleanGenre removes label from every song of the chosen dataset. Cleaning
// the latest snapshot writes a new version rather than editing it.
func (p *Pipeline) CleanGenre(ctx context.Context, label string, target Target) (CleanReport, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		label = DefaultCleanLabel
	}
	report := CleanReport{Label: label, Target: target}

	var (
		songs []catalog.Song
		err   error
	)
	switch target {
	case TargetWIP:
		songs, err = p.loadWIP("clean genre")
	case TargetLatest:
		var name string
		songs, name, err = p.latestName()
		if err == nil && name == "" {
			err = services.Wrap(services.ErrConfiguration, "catalog", "clean genre", "no finalized snapshot exists", nil)
		}
	default:
		err = services.Wrap(services.ErrValidation, "catalog", "clean genre", fmt.Sprintf("unknown dataset %q", target), nil)
	}
	if err != nil {
		return report, err
	}

	report.Affected = catalog.RemoveGenreAll(songs, label)
	if report.Affected > 0 {
		if target == TargetWIP {
			report.Written = p.cfg.Catalog.WIPJSON
			err = catalog.Save(p.store, report.Written, songs)
		} else {
			report.Written, err = catalog.Finalize(p.store, p.cfg.Catalog.BaseJSON, songs)
		}
		if err != nil {
			return report, services.Wrap(services.ErrExternal, "catalog", "clean genre", "", err)
		}
	}
	p.logger.Info("genre removed",
		logging.String(logging.FieldEventType, "genre_cleaned"),
		logging.String("label", label),
		logging.String("target", string(target)),
		logging.Int("affected", report.Affected),
		logging.String("written", report.Written))
	return report, nil
}

// OverrideReport is the outcome of ApplyOverrides.
type OverrideReport struct {
	overrides.Report
	Entries int
	// UnmatchedFile is written only when some entries did not match.
	UnmatchedFile string
}

// ApplyOverrides resolves the hand-maintained genre corrections against the
// working dataset with the fuzzy matcher. Built-in entries come first, then
// the optional entry file, so later entries win when both touch a song.
func (p *Pipeline) ApplyOverrides(ctx context.Context, includeBuiltIn bool) (OverrideReport, error) {
	songs, err := p.loadWIP("apply overrides")
	if err != nil {
		return OverrideReport{}, err
	}
	var entries []overrides.Entry
	if includeBuiltIn {
		entries = append(entries, overrides.BuiltIn()...)
	}
	if path := p.cfg.OverridesFilePath(); path != "" {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return OverrideReport{}, services.Wrap(services.ErrConfiguration, "overrides", "load", path+" not found", nil)
		}
		if err != nil {
			return OverrideReport{}, services.Wrap(services.ErrConfiguration, "overrides", "load", path, err)
		}
		fromFile, err := overrides.ParseEntries(data)
		if err != nil {
			return OverrideReport{}, services.Wrap(services.ErrConfiguration, "overrides", "load", path, err)
		}
		entries = append(entries, fromFile...)
	}

	report := OverrideReport{Entries: len(entries)}
	report.Report = overrides.Apply(songs, entries, p.logger)
	if report.Updated > 0 {
		if err := catalog.Save(p.store, p.cfg.Catalog.WIPJSON, songs); err != nil {
			return report, services.Wrap(services.ErrExternal, "overrides", "apply", "write working dataset", err)
		}
	}
	if len(report.Unmatched) > 0 {
		report.UnmatchedFile = p.cfg.Catalog.UnmatchedCSV
		if err := p.writeCSV(report.UnmatchedFile, overrides.UnmatchedRows(report.Unmatched)); err != nil {
			return report, err
		}
	}
	return report, nil
}

// ApplyGenreCSV unions the genres listed in genre_overrides.csv into songs
// whose join key matches exactly, and returns how many songs changed.
func (p *Pipeline) ApplyGenreCSV(ctx context.Context) (int, error) {
	name := p.cfg.Catalog.GenreOverridesCSV
	data, err := p.readRequired("apply genre csv", name)
	if err != nil {
		return 0, err
	}
	entries, err := overrides.ParseGenreCSV(data)
	if err != nil {
		return 0, services.Wrap(services.ErrConfiguration, "overrides", "apply genre csv", name, err)
	}
	songs, err := p.loadWIP("apply genre csv")
	if err != nil {
		return 0, err
	}
	updated := overrides.ApplyExact(songs, entries)
	if updated > 0 {
		if err := catalog.Save(p.store, p.cfg.Catalog.WIPJSON, songs); err != nil {
			return updated, services.Wrap(services.ErrExternal, "overrides", "apply genre csv", "write working dataset", err)
		}
	}
	p.logger.Info("genre csv applied",
		logging.String(logging.FieldEventType, "genre_csv_applied"),
		logging.String("file", name),
		logging.Int("entries", len(entries)),
		logging.Int("updated", updated))
	return updated, nil
}

// List returns the songs of the chosen dataset whose title or artist
// contains query, along with the dataset name.
func (p *Pipeline) List(ctx context.Context, query string, target Target) ([]catalog.Song, string, error) {
	switch target {
	case TargetLatest:
		songs, name, err := p.latestName()
		if err != nil {
			return nil, name, err
		}
		if name == "" {
			return nil, "", services.Wrap(services.ErrNotFound, "catalog", "list", "no finalized snapshot exists; run finalize first", nil)
		}
		return catalog.Filter(songs, query), name, nil
	default:
		songs, err := p.loadWIP("list")
		if err != nil {
			return nil, "", err
		}
		return catalog.Filter(songs, query), p.cfg.Catalog.WIPJSON, nil
	}
}

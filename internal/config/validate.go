package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.HTTP.TimeoutSeconds < 0 {
		return errors.New("http.timeout_seconds must be positive")
	}
	if c.Scheduler.IntervalSeconds < 1 {
		return errors.New("scheduler.interval_seconds must be at least 1")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.BatchSize < 1 {
		return errors.New("catalog.batch_size must be at least 1")
	}
	if _, err := filepath.Match(c.Catalog.FilePattern, "probe"); err != nil {
		return fmt.Errorf("catalog.file_pattern: %w", err)
	}
	names := map[string]string{
		"catalog.song_table":          c.Catalog.SongTable,
		"catalog.base_json":           c.Catalog.BaseJSON,
		"catalog.wip_json":            c.Catalog.WIPJSON,
		"catalog.event_log":           c.Catalog.EventLog,
		"catalog.review_csv":          c.Catalog.ReviewCSV,
		"catalog.unmatched_csv":       c.Catalog.UnmatchedCSV,
		"catalog.genre_overrides_csv": c.Catalog.GenreOverridesCSV,
	}
	for key, name := range names {
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%s must be a bare file name, got %q", key, name)
		}
	}
	if !strings.HasSuffix(strings.ToLower(c.Catalog.BaseJSON), ".json") {
		return errors.New("catalog.base_json must end in .json")
	}
	if c.Catalog.BaseJSON == c.Catalog.WIPJSON {
		return errors.New("catalog.wip_json must differ from catalog.base_json")
	}
	return nil
}

func (c *Config) validateSources() error {
	if c.MusicBrainz.MinScore < 0 || c.MusicBrainz.MinScore > 100 {
		return errors.New("musicbrainz.min_score must be between 0 and 100")
	}
	if c.MusicBrainz.RequestIntervalMS < 0 {
		return errors.New("musicbrainz.request_interval_ms must not be negative")
	}
	if c.ITunes.Limit < 1 || c.ITunes.Limit > 200 {
		return errors.New("itunes.limit must be between 1 and 200")
	}
	if c.Deezer.Limit < 1 {
		return errors.New("deezer.limit must be at least 1")
	}
	for key, url := range map[string]string{
		"musicbrainz.base_url": c.MusicBrainz.BaseURL,
		"itunes.base_url":      c.ITunes.BaseURL,
		"deezer.base_url":      c.Deezer.BaseURL,
		"wikipedia.base_url":   c.Wikipedia.BaseURL,
	} {
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", key, url)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

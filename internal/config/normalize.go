package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeSources()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.CatalogDir) == "" {
		if value, ok := os.LookupEnv("SETLIST_CATALOG_DIR"); ok {
			c.Paths.CatalogDir = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.CatalogDir) == "" {
		c.Paths.CatalogDir = defaultCatalogDir
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.CatalogDir, err = expandPath(c.Paths.CatalogDir); err != nil {
		return fmt.Errorf("paths.catalog_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	defaults := Default().Catalog
	trimOr(&c.Catalog.SongTable, defaults.SongTable)
	trimOr(&c.Catalog.BaseJSON, defaults.BaseJSON)
	trimOr(&c.Catalog.WIPJSON, defaults.WIPJSON)
	trimOr(&c.Catalog.FilePattern, defaults.FilePattern)
	trimOr(&c.Catalog.EventLog, defaults.EventLog)
	trimOr(&c.Catalog.ReviewCSV, defaults.ReviewCSV)
	trimOr(&c.Catalog.UnmatchedCSV, defaults.UnmatchedCSV)
	trimOr(&c.Catalog.GenreOverridesCSV, defaults.GenreOverridesCSV)
	c.Catalog.OverridesFile = strings.TrimSpace(c.Catalog.OverridesFile)
	if c.Catalog.BatchSize == 0 {
		c.Catalog.BatchSize = defaultBatchSize
	}
}

func (c *Config) normalizeSources() {
	c.MusicBrainz.ContactEmail = strings.TrimSpace(c.MusicBrainz.ContactEmail)
	if c.MusicBrainz.ContactEmail == "" {
		if value, ok := os.LookupEnv("SETLIST_CONTACT_EMAIL"); ok {
			c.MusicBrainz.ContactEmail = strings.TrimSpace(value)
		}
	}
	c.MusicBrainz.UserAgent = strings.TrimSpace(c.MusicBrainz.UserAgent)
	trimURL(&c.MusicBrainz.BaseURL, defaultMusicBrainzBaseURL)
	trimURL(&c.ITunes.BaseURL, defaultITunesBaseURL)
	trimURL(&c.Deezer.BaseURL, defaultDeezerBaseURL)
	trimURL(&c.Wikipedia.BaseURL, defaultWikipediaBaseURL)

	c.ITunes.Country = strings.ToUpper(strings.TrimSpace(c.ITunes.Country))
	if c.ITunes.Country == "" {
		c.ITunes.Country = defaultITunesCountry
	}
	c.ITunes.FallbackCountry = strings.ToUpper(strings.TrimSpace(c.ITunes.FallbackCountry))
	if c.ITunes.Limit == 0 {
		c.ITunes.Limit = defaultITunesLimit
	}
	if c.Deezer.Limit == 0 {
		c.Deezer.Limit = defaultDeezerLimit
	}
	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = defaultHTTPTimeoutSeconds
	}
	if c.Scheduler.IntervalSeconds == 0 {
		c.Scheduler.IntervalSeconds = defaultSchedulerIntervalSecond
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimOr(value *string, fallback string) {
	*value = strings.TrimSpace(*value)
	if *value == "" {
		*value = fallback
	}
}

func trimURL(value *string, fallback string) {
	trimOr(value, fallback)
	*value = strings.TrimRight(*value, "/")
}

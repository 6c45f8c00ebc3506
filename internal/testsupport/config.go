package testsupport

import (
	"path/filepath"
	"testing"

	"setlist/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Every metadata source starts disabled so nothing reaches the network
// unless a test opts in with WithSources.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CatalogDir = filepath.Join(base, "catalog")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.MusicBrainz.Enabled = false
	cfgVal.ITunes.Enabled = false
	cfgVal.Deezer.Enabled = false
	cfgVal.Wikipedia.Enabled = false
	cfgVal.MusicBrainz.RequestIntervalMS = 0
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithSources enables the named sources ("musicbrainz", "itunes", "deezer",
// "wikipedia") and points each at baseURL.
func WithSources(baseURL string, names ...string) ConfigOption {
	return func(b *configBuilder) {
		for _, name := range names {
			switch name {
			case "musicbrainz":
				b.cfg.MusicBrainz.Enabled = true
				b.cfg.MusicBrainz.BaseURL = baseURL
			case "itunes":
				b.cfg.ITunes.Enabled = true
				b.cfg.ITunes.BaseURL = baseURL
			case "deezer":
				b.cfg.Deezer.Enabled = true
				b.cfg.Deezer.BaseURL = baseURL
			case "wikipedia":
				b.cfg.Wikipedia.Enabled = true
				b.cfg.Wikipedia.BaseURL = baseURL
			default:
				b.t.Fatalf("unknown source %q", name)
			}
		}
	}
}

// WithBatchSize overrides catalog.batch_size.
func WithBatchSize(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.BatchSize = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CatalogDir)
}

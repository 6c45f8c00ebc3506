package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"setlist/internal/config"
)

func TestLoadDefaultConfigExpandsPathsAndUsesEnv(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SETLIST_CONTACT_EMAIL", "band@example.com")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantCatalog := filepath.Join(tempHome, "setlist", "catalog")
	if cfg.Paths.CatalogDir != wantCatalog {
		t.Fatalf("unexpected catalog dir: got %q want %q", cfg.Paths.CatalogDir, wantCatalog)
	}
	if cfg.MusicBrainz.ContactEmail != "band@example.com" {
		t.Fatalf("expected contact email from env, got %q", cfg.MusicBrainz.ContactEmail)
	}
	if got := cfg.RequestUserAgent(); got != "setlist/1.0 (band@example.com)" {
		t.Fatalf("unexpected user agent %q", got)
	}
	if cfg.Catalog.BatchSize != 30 {
		t.Fatalf("expected batch size 30, got %d", cfg.Catalog.BatchSize)
	}
	if cfg.MusicBrainz.MinScore != 70 || cfg.MusicBrainz.RequestIntervalMS != 1100 {
		t.Fatalf("unexpected musicbrainz defaults: %+v", cfg.MusicBrainz)
	}
	if cfg.ITunes.Country != "BR" || cfg.ITunes.FallbackCountry != "US" {
		t.Fatalf("unexpected itunes countries: %+v", cfg.ITunes)
	}
	if !cfg.Wikipedia.Enabled || !cfg.Deezer.Enabled || !cfg.ITunes.Enabled {
		t.Fatal("expected all sources enabled by default")
	}
	if cfg.StateDBPath() != filepath.Join(tempHome, ".local", "share", "setlist", "state.db") {
		t.Fatalf("unexpected state db path %q", cfg.StateDBPath())
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(tempHome, "config.toml")
	payload := map[string]any{
		"paths": map[string]any{
			"catalog_dir": "~/band/catalog",
		},
		"catalog": map[string]any{
			"batch_size":     10,
			"overrides_file": "fixes.toml",
		},
		"itunes": map[string]any{
			"enabled": false,
			"country": "pt",
		},
		"deezer": map[string]any{
			"base_url": "https://deezer.test/",
		},
		"logging": map[string]any{
			"format": "JSON",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.CatalogDir != filepath.Join(tempHome, "band", "catalog") {
		t.Fatalf("unexpected catalog dir %q", cfg.Paths.CatalogDir)
	}
	if cfg.Catalog.BatchSize != 10 {
		t.Fatalf("expected batch size 10, got %d", cfg.Catalog.BatchSize)
	}
	if cfg.ITunes.Enabled {
		t.Fatal("expected itunes disabled")
	}
	if cfg.ITunes.Country != "PT" {
		t.Fatalf("expected upper-cased country, got %q", cfg.ITunes.Country)
	}
	if cfg.Deezer.BaseURL != "https://deezer.test" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Deezer.BaseURL)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
	if got := cfg.OverridesFilePath(); got != filepath.Join(cfg.Paths.CatalogDir, "fixes.toml") {
		t.Fatalf("unexpected overrides path %q", got)
	}
	if cfg.Catalog.WIPJSON != "song_full_list_wip.json" {
		t.Fatalf("expected default wip name, got %q", cfg.Catalog.WIPJSON)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"batch size", func(c *config.Config) { c.Catalog.BatchSize = -1 }, "catalog.batch_size"},
		{"min score", func(c *config.Config) { c.MusicBrainz.MinScore = 101 }, "musicbrainz.min_score"},
		{"nested name", func(c *config.Config) { c.Catalog.WIPJSON = "dir/wip.json" }, "catalog.wip_json"},
		{"same json", func(c *config.Config) { c.Catalog.WIPJSON = c.Catalog.BaseJSON }, "must differ"},
		{"bad url", func(c *config.Config) { c.Deezer.BaseURL = "api.deezer.com" }, "deezer.base_url"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"pattern", func(c *config.Config) { c.Catalog.FilePattern = "[" }, "catalog.file_pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected %q in error, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	path := filepath.Join(tempHome, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Catalog.SongTable != "song_table.csv" {
		t.Fatalf("unexpected song table %q", cfg.Catalog.SongTable)
	}
}

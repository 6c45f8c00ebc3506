package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CatalogDir string `toml:"catalog_dir"`
	StateDir   string `toml:"state_dir"`
	LogDir     string `toml:"log_dir"`
}

// Catalog names the artifacts kept inside the catalogue folder.
type Catalog struct {
	SongTable         string `toml:"song_table"`
	BaseJSON          string `toml:"base_json"`
	WIPJSON           string `toml:"wip_json"`
	FilePattern       string `toml:"file_pattern"`
	BatchSize         int    `toml:"batch_size"`
	EventLog          string `toml:"event_log"`
	ReviewCSV         string `toml:"review_csv"`
	UnmatchedCSV      string `toml:"unmatched_csv"`
	GenreOverridesCSV string `toml:"genre_overrides_csv"`
	// OverridesFile is an optional TOML file of fuzzy override entries. Relative
	// paths resolve against the catalogue folder.
	OverridesFile string `toml:"overrides_file"`
}

// MusicBrainz contains configuration for the primary metadata source.
type MusicBrainz struct {
	Enabled           bool   `toml:"enabled"`
	BaseURL           string `toml:"base_url"`
	ContactEmail      string `toml:"contact_email"`
	UserAgent         string `toml:"user_agent"`
	MinScore          int    `toml:"min_score"`
	RequestIntervalMS int    `toml:"request_interval_ms"`
}

// ITunes contains configuration for the iTunes Search catalogue.
type ITunes struct {
	Enabled         bool   `toml:"enabled"`
	BaseURL         string `toml:"base_url"`
	Country         string `toml:"country"`
	FallbackCountry string `toml:"fallback_country"`
	Limit           int    `toml:"limit"`
}

// Deezer contains configuration for the Deezer catalogue.
type Deezer struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	Limit   int    `toml:"limit"`
}

// Wikipedia contains configuration for the encyclopedia fallback.
type Wikipedia struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
}

// HTTP contains shared client settings.
type HTTP struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Scheduler controls the recurring batch trigger.
type Scheduler struct {
	IntervalSeconds int `toml:"interval_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for setlist.
//
// Configuration sections by subsystem:
//   - Paths: catalogue folder, state and log directories
//   - Catalog: artifact names and batch size
//   - MusicBrainz, ITunes, Deezer, Wikipedia: metadata sources
//   - HTTP: shared client timeout
//   - Scheduler: recurring enrichment trigger
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Catalog     Catalog     `toml:"catalog"`
	MusicBrainz MusicBrainz `toml:"musicbrainz"`
	ITunes      ITunes      `toml:"itunes"`
	Deezer      Deezer      `toml:"deezer"`
	Wikipedia   Wikipedia   `toml:"wikipedia"`
	HTTP        HTTP        `toml:"http"`
	Scheduler   Scheduler   `toml:"scheduler"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("setlist.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CatalogDir, c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StateDBPath is the SQLite file holding process-wide properties such as the cursor.
func (c *Config) StateDBPath() string {
	return filepath.Join(c.Paths.StateDir, "state.db")
}

// LockPath is the lock file that serializes batch runs across processes.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "enrich.lock")
}

// OverridesFilePath resolves catalog.overrides_file, returning "" when unset.
func (c *Config) OverridesFilePath() string {
	p := strings.TrimSpace(c.Catalog.OverridesFile)
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Paths.CatalogDir, p)
}

// RequestUserAgent returns the User-Agent sent to metadata services.
func (c *Config) RequestUserAgent() string {
	if ua := strings.TrimSpace(c.MusicBrainz.UserAgent); ua != "" {
		return ua
	}
	contact := strings.TrimSpace(c.MusicBrainz.ContactEmail)
	if contact == "" {
		return defaultUserAgentProduct
	}
	return fmt.Sprintf("%s (%s)", defaultUserAgentProduct, contact)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

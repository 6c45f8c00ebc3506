package config

const (
	defaultConfigPath              = "~/.config/setlist/config.toml"
	defaultCatalogDir              = "~/setlist/catalog"
	defaultStateDir                = "~/.local/share/setlist"
	defaultLogDir                  = "~/.local/share/setlist/logs"
	defaultSongTable               = "song_table.csv"
	defaultBaseJSON                = "song_full_list.json"
	defaultWIPJSON                 = "song_full_list_wip.json"
	defaultFilePattern             = "*.ppsx"
	defaultBatchSize               = 30
	defaultEventLog                = "songs_log.jsonl"
	defaultReviewCSV               = "song_catalogue_wip_review.csv"
	defaultUnmatchedCSV            = "manual_genre_unmatched.csv"
	defaultGenreOverridesCSV       = "genre_overrides.csv"
	defaultMusicBrainzBaseURL      = "https://musicbrainz.org/ws/2"
	defaultMusicBrainzMinScore     = 70
	defaultMusicBrainzIntervalMS   = 1100
	defaultUserAgentProduct        = "setlist/1.0"
	defaultITunesBaseURL           = "https://itunes.apple.com"
	defaultITunesCountry           = "BR"
	defaultITunesFallbackCountry   = "US"
	defaultITunesLimit             = 5
	defaultDeezerBaseURL           = "https://api.deezer.com"
	defaultDeezerLimit             = 3
	defaultWikipediaBaseURL        = "https://en.wikipedia.org"
	defaultHTTPTimeoutSeconds      = 20
	defaultSchedulerIntervalSecond = 60
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogDir: defaultCatalogDir,
			StateDir:   defaultStateDir,
			LogDir:     defaultLogDir,
		},
		Catalog: Catalog{
			SongTable:         defaultSongTable,
			BaseJSON:          defaultBaseJSON,
			WIPJSON:           defaultWIPJSON,
			FilePattern:       defaultFilePattern,
			BatchSize:         defaultBatchSize,
			EventLog:          defaultEventLog,
			ReviewCSV:         defaultReviewCSV,
			UnmatchedCSV:      defaultUnmatchedCSV,
			GenreOverridesCSV: defaultGenreOverridesCSV,
		},
		MusicBrainz: MusicBrainz{
			Enabled:           true,
			BaseURL:           defaultMusicBrainzBaseURL,
			MinScore:          defaultMusicBrainzMinScore,
			RequestIntervalMS: defaultMusicBrainzIntervalMS,
		},
		ITunes: ITunes{
			Enabled:         true,
			BaseURL:         defaultITunesBaseURL,
			Country:         defaultITunesCountry,
			FallbackCountry: defaultITunesFallbackCountry,
			Limit:           defaultITunesLimit,
		},
		Deezer: Deezer{
			Enabled: true,
			BaseURL: defaultDeezerBaseURL,
			Limit:   defaultDeezerLimit,
		},
		Wikipedia: Wikipedia{
			Enabled: true,
			BaseURL: defaultWikipediaBaseURL,
		},
		HTTP: HTTP{
			TimeoutSeconds: defaultHTTPTimeoutSeconds,
		},
		Scheduler: Scheduler{
			IntervalSeconds: defaultSchedulerIntervalSecond,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

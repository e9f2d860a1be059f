package config

const (
	defaultSourceDir        = "~/incoming"
	defaultLibraryDir       = "~/library"
	defaultLogDir           = "~/.local/share/carousel/logs"
	defaultMoviesDir        = "movies"
	defaultTVDir            = "tv"
	defaultTMDBLanguage     = "en-US"
	defaultTMDBBaseURL      = "https://api.themoviedb.org/3"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 60

	// PlaceholderAPIKey ships in the sample config; a credential equal to it
	// is treated the same as a missing one.
	PlaceholderAPIKey = "your-tmdb-api-key"
)

func defaultVideoExtensions() []string {
	return []string{".mkv", ".mp4", ".avi", ".mov"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir:  defaultSourceDir,
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		Library: Library{
			MoviesDir: defaultMoviesDir,
			TVDir:     defaultTVDir,
		},
		Watcher: Watcher{
			VideoExtensions: defaultVideoExtensions(),
			SettleInterval:  1,
			SettleTimeout:   120,
			ScanOnStart:     false,
		},
		Workflow: Workflow{
			QueuePollInterval:  5,
			ErrorRetryInterval: 10,
		},
		Notifications: Notifications{
			RequestTimeout: 10,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

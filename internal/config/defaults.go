package config

const (
	defaultConfigPath        = "~/.config/taiga/config.toml"
	defaultDataDir           = "~/.local/share/taiga"
	defaultRemoteLocation    = "https://raw.githubusercontent.com/erengy/anime-seasons/master/data/"
	defaultEarliestSeason    = "Winter 2011"
	defaultLatestSeason      = "Spring 2018"
	defaultActiveService     = "myanimelist"
	defaultRefreshThreshold  = 20
	defaultTransferTimeout   = 30
	defaultRequestsPerSecond = 1.0
	defaultRetryAttempts     = 3
	defaultUserAgent         = "Taiga-Go/0.1.0"
	defaultNotifyTimeout     = 10
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults. The season,
// log, and library paths stay empty so normalization derives them from the
// data directory.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Seasons: Seasons{
			RemoteLocation: defaultRemoteLocation,
			Earliest:       defaultEarliestSeason,
			Latest:         defaultLatestSeason,
		},
		Sync: Sync{
			ActiveService: defaultActiveService,
		},
		Discover: Discover{
			HideNSFW:         true,
			RefreshThreshold: defaultRefreshThreshold,
		},
		Transfer: Transfer{
			TimeoutSeconds:    defaultTransferTimeout,
			RequestsPerSecond: defaultRequestsPerSecond,
			RetryAttempts:     defaultRetryAttempts,
			UserAgent:         defaultUserAgent,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

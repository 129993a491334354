package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSeasons()
	c.normalizeSync()
	c.normalizeDiscover()
	c.normalizeTransfer()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SeasonDir) == "" {
		c.Paths.SeasonDir = filepath.Join(c.Paths.DataDir, "db", "season")
	}
	if c.Paths.SeasonDir, err = expandPath(c.Paths.SeasonDir); err != nil {
		return fmt.Errorf("paths.season_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LibraryDB) == "" {
		c.Paths.LibraryDB = filepath.Join(c.Paths.DataDir, "db", "library.db")
	}
	if c.Paths.LibraryDB, err = expandPath(c.Paths.LibraryDB); err != nil {
		return fmt.Errorf("paths.library_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeSeasons() {
	c.Seasons.RemoteLocation = strings.TrimSpace(c.Seasons.RemoteLocation)
	if c.Seasons.RemoteLocation != "" && !strings.HasSuffix(c.Seasons.RemoteLocation, "/") {
		c.Seasons.RemoteLocation += "/"
	}
	c.Seasons.Earliest = strings.TrimSpace(c.Seasons.Earliest)
	if c.Seasons.Earliest == "" {
		c.Seasons.Earliest = defaultEarliestSeason
	}
	c.Seasons.Latest = strings.TrimSpace(c.Seasons.Latest)
	if c.Seasons.Latest == "" {
		c.Seasons.Latest = defaultLatestSeason
	}
}

func (c *Config) normalizeSync() {
	if value, ok := os.LookupEnv("TAIGA_ACTIVE_SERVICE"); ok && strings.TrimSpace(value) != "" {
		c.Sync.ActiveService = value
	}
	c.Sync.ActiveService = strings.ToLower(strings.TrimSpace(c.Sync.ActiveService))
	if c.Sync.ActiveService == "" {
		c.Sync.ActiveService = defaultActiveService
	}
}

func (c *Config) normalizeDiscover() {
	if c.Discover.RefreshThreshold <= 0 {
		c.Discover.RefreshThreshold = defaultRefreshThreshold
	}
}

func (c *Config) normalizeTransfer() {
	if c.Transfer.TimeoutSeconds <= 0 {
		c.Transfer.TimeoutSeconds = defaultTransferTimeout
	}
	if c.Transfer.RequestsPerSecond <= 0 {
		c.Transfer.RequestsPerSecond = defaultRequestsPerSecond
	}
	if c.Transfer.RetryAttempts <= 0 {
		c.Transfer.RetryAttempts = defaultRetryAttempts
	}
	c.Transfer.UserAgent = strings.TrimSpace(c.Transfer.UserAgent)
	if c.Transfer.UserAgent == "" {
		c.Transfer.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("TAIGA_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

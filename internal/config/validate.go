package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/Venipa/taiga/internal/anime"
	"github.com/Venipa/taiga/internal/service"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSeasons(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSeasons() error {
	if c.Seasons.RemoteLocation != "" {
		parsed, err := url.Parse(c.Seasons.RemoteLocation)
		if err != nil {
			return fmt.Errorf("seasons.remote_location: %w", err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("seasons.remote_location: unsupported scheme %q", parsed.Scheme)
		}
	}
	earliest, latest, err := c.SeasonBounds()
	if err != nil {
		return err
	}
	if latest.Before(earliest) {
		return fmt.Errorf("seasons: latest %s precedes earliest %s", latest, earliest)
	}
	return nil
}

func (c *Config) validateSync() error {
	if _, err := service.NewRegistry(c.Sync.ActiveService); err != nil {
		return fmt.Errorf("sync.active_service: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return errors.New("logging.level must be one of debug, info, warn, error")
	}
}

// SeasonBounds parses the configured earliest and latest seasons.
func (c *Config) SeasonBounds() (anime.Season, anime.Season, error) {
	earliest, err := anime.ParseSeason(c.Seasons.Earliest)
	if err != nil {
		return anime.Season{}, anime.Season{}, fmt.Errorf("seasons.earliest: %w", err)
	}
	latest, err := anime.ParseSeason(c.Seasons.Latest)
	if err != nil {
		return anime.Season{}, anime.Season{}, fmt.Errorf("seasons.latest: %w", err)
	}
	return earliest, latest, nil
}

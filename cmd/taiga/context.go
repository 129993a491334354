package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/Venipa/taiga/internal/anime"
	"github.com/Venipa/taiga/internal/config"
	"github.com/Venipa/taiga/internal/discover"
	"github.com/Venipa/taiga/internal/library"
	"github.com/Venipa/taiga/internal/logging"
	"github.com/Venipa/taiga/internal/notifications"
	"github.com/Venipa/taiga/internal/service"
	"github.com/Venipa/taiga/internal/transfer"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if exists {
			c.configPath = resolved
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// session bundles the collaborators one command run needs.
type session struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *library.Store
	registry   *service.Registry
	dispatcher *transfer.Dispatcher
	seasons    *discover.SeasonDatabase
	lock       *flock.Flock
}

// openSession wires the library, season database, and download dispatcher.
// Exclusive sessions hold the library lock until Close.
func (c *commandContext) openSession(exclusive bool) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	s := &session{cfg: cfg, logger: logger}
	if exclusive {
		s.lock = flock.New(cfg.LockPath())
		ok, err := s.lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire library lock: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("another taiga process is using the library (lock %s)", cfg.LockPath())
		}
	}

	s.registry, err = service.NewRegistry(cfg.Sync.ActiveService)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.store, err = library.Open(cfg)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open library: %w", err)
	}

	earliest, latest, err := cfg.SeasonBounds()
	if err != nil {
		s.Close()
		return nil, err
	}
	s.dispatcher = transfer.NewFromConfig(cfg, logger)
	s.seasons, err = discover.New(discover.Options{
		Library:          s.store,
		Source:           discover.DirSource{Dir: cfg.Paths.SeasonDir},
		Dispatcher:       s.dispatcher,
		Services:         s.registry,
		Notifier:         notifications.NewSink(logger, notifications.NewService(cfg)),
		Logger:           logger,
		RemoteLocation:   cfg.Seasons.RemoteLocation,
		RefreshThreshold: cfg.Discover.RefreshThreshold,
		HideNSFW:         cfg.Discover.HideNSFW,
		Earliest:         earliest,
		Latest:           latest,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close drains pending downloads, then releases the library and the lock.
func (s *session) Close() {
	if s.dispatcher != nil {
		_ = s.dispatcher.Close()
	}
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.lock != nil {
		_ = s.lock.Unlock()
	}
}

func (c *commandContext) withSession(exclusive bool, fn func(*session) error) error {
	s, err := c.openSession(exclusive)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func parseSeasonArg(value string) (anime.Season, error) {
	season, err := anime.ParseSeason(value)
	if err != nil {
		return anime.Season{}, fmt.Errorf("%w (expected e.g. \"Winter 2018\" or 2018_winter)", err)
	}
	return season, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func isNotReady(err error) bool {
	return errors.Is(err, discover.ErrNotReady)
}

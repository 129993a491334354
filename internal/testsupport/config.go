package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/Venipa/taiga/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Downloads are disabled unless WithRemoteLocation is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = base
	cfgVal.Paths.SeasonDir = filepath.Join(base, "db", "season")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LibraryDB = filepath.Join(base, "db", "library.db")
	cfgVal.Seasons.RemoteLocation = ""
	cfgVal.Transfer.RequestsPerSecond = 100
	cfgVal.Transfer.RetryAttempts = 1

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

// WithRemoteLocation sets the base URL season files are downloaded from.
func WithRemoteLocation(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Seasons.RemoteLocation = url
	}
}

// WithActiveService overrides the active tracking service name.
func WithActiveService(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sync.ActiveService = name
	}
}

// WithSeasonRange overrides the available season range.
func WithSeasonRange(earliest, latest string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Seasons.Earliest = earliest
		b.cfg.Seasons.Latest = latest
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.DataDir
}

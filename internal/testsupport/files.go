package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Venipa/taiga/internal/config"
)

// WriteSeasonFile writes raw season data into the configured season
// directory and returns its path.
func WriteSeasonFile(t testing.TB, cfg *config.Config, fileName, content string) string {
	t.Helper()

	path := cfg.SeasonPath(fileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

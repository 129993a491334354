package preflight

import (
	"context"

	"github.com/Venipa/taiga/internal/anime"
	"github.com/Venipa/taiga/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Season directory", cfg.Paths.SeasonDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if cfg.Seasons.RemoteLocation != "" {
		_, latest, err := cfg.SeasonBounds()
		if err != nil {
			results = append(results, Result{Name: "Season source", Detail: err.Error()})
		} else {
			results = append(results, CheckSeasonSource(ctx, cfg.Seasons.RemoteLocation, latest, cfg.Transfer.UserAgent))
		}
	}

	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// seasonURL joins the remote location with the season's file name.
func seasonURL(remote string, season anime.Season) string {
	return remote + season.FileName()
}

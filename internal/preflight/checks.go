package preflight

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/Venipa/taiga/internal/anime"
)

// CheckSeasonSource verifies that the remote location serves the file of the
// given season. It uses a 10-second timeout and a single attempt.
func CheckSeasonSource(ctx context.Context, remote string, season anime.Season, userAgent string) Result {
	const name = "Season source"

	if strings.TrimSpace(remote) == "" {
		return Result{Name: name, Detail: "downloads disabled"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	target := seasonURL(remote, season)
	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, target, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("invalid location (%v)", err)}
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unreachable (%v)", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable", target)}
	case resp.StatusCode == http.StatusNotFound:
		return Result{Name: name, Detail: fmt.Sprintf("%s not found (check seasons.latest)", target)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("%s returned %d", target, resp.StatusCode)}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

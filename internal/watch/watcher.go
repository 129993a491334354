package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Venipa/taiga/internal/logging"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher invokes a callback when matching files in a directory are created
// or written.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	// Match selects file base names to report. Nil matches every file.
	Match  func(name string) bool
	Logger *slog.Logger
}

// MatchName returns a matcher for a single file base name.
func MatchName(name string) func(string) bool {
	return func(candidate string) bool { return candidate == name }
}

// Run watches until ctx is cancelled, calling onChange with the path of each
// changed file. Callbacks for one path never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	if onChange == nil {
		return errors.New("watch: onChange is nil")
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("create watch directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}

	logger := logging.NewComponentLogger(w.Logger, "watch")
	logger.Info("watching season directory",
		logging.String(logging.FieldEventType, "watcher_started"),
		logging.String("path", w.Dir),
	)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	var (
		mu      sync.Mutex
		timers  = make(map[string]*time.Timer)
		running sync.WaitGroup
		fire    sync.Map
	)
	defer func() {
		mu.Lock()
		for _, timer := range timers {
			if timer.Stop() {
				running.Done()
			}
		}
		mu.Unlock()
		running.Wait()
	}()

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if timer, ok := timers[path]; ok && timer.Stop() {
			running.Done()
		}
		running.Add(1)
		var timer *time.Timer
		timer = time.AfterFunc(debounce, func() {
			defer running.Done()
			mu.Lock()
			current := timers[path] == timer
			if current {
				delete(timers, path)
			}
			mu.Unlock()
			if !current || ctx.Err() != nil {
				return
			}
			lock, _ := fire.LoadOrStore(path, &sync.Mutex{})
			lock.(*sync.Mutex).Lock()
			defer lock.(*sync.Mutex).Unlock()
			onChange(path)
		})
		timers[path] = timer
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("season watcher stopped", logging.String(logging.FieldEventType, "watcher_stopped"))
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if w.Match != nil && !w.Match(name) {
				continue
			}
			logger.Debug("season file changed",
				logging.String("path", event.Name),
				logging.String("op", event.Op.String()),
			)
			schedule(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(logger, "season watcher error", "watcher_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "a season file change may be missed"),
			)
		}
	}
}

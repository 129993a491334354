package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Venipa/taiga/internal/logging"
	"github.com/Venipa/taiga/internal/watch"
)

func TestRunReportsMatchingFileOnce(t *testing.T) {
	dir := t.TempDir()
	var (
		mu    sync.Mutex
		paths []string
	)
	changed := make(chan struct{}, 4)
	w := &watch.Watcher{
		Dir:      dir,
		Debounce: 50 * time.Millisecond,
		Match:    watch.MatchName("2018_winter.xml"),
		Logger:   logging.NewNop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(path string) {
			mu.Lock()
			paths = append(paths, path)
			mu.Unlock()
			changed <- struct{}{}
		})
	}()
	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "2018_spring.xml"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write unrelated file: %v", err)
	}
	target := filepath.Join(dir, "2018_winter.xml")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte("<season/>"), 0o644); err != nil {
			t.Fatalf("write season file: %v", err)
		}
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}
	time.Sleep(200 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 1 || paths[0] != target {
		t.Fatalf("expected one callback for %s, got %v", target, paths)
	}
}

func TestRunRequiresCallback(t *testing.T) {
	w := &watch.Watcher{Dir: t.TempDir()}
	if err := w.Run(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil callback")
	}
}

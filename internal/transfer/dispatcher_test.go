package transfer_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Venipa/taiga/internal/logging"
	"github.com/Venipa/taiga/internal/transfer"
)

func newDispatcher(t *testing.T, dir string, attempts int) (*transfer.Dispatcher, chan transfer.Result) {
	t.Helper()
	results := make(chan transfer.Result, 8)
	d := transfer.New(transfer.Options{
		Dir:           dir,
		UserAgent:     "taiga-test",
		RetryAttempts: attempts,
		RetryBackoff:  time.Millisecond,
		Logger:        logging.NewNop(),
		OnComplete: func(r transfer.Result) {
			results <- r
		},
	})
	t.Cleanup(func() { _ = d.Close() })
	return d, results
}

func waitResult(t *testing.T, results chan transfer.Result) transfer.Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for download")
		return transfer.Result{}
	}
}

func TestEnqueueWritesFileAndReportsCompletion(t *testing.T) {
	var userAgent, requestID atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent.Store(r.Header.Get("User-Agent"))
		requestID.Store(r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte("<season></season>"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "season")
	d, results := newDispatcher(t, dir, 1)
	d.Enqueue(server.URL + "/data/2018_winter.xml")

	result := waitResult(t, results)
	if result.Err != nil {
		t.Fatalf("download failed: %v", result.Err)
	}
	want := filepath.Join(dir, "2018_winter.xml")
	if result.Path != want {
		t.Fatalf("Path = %q, want %q", result.Path, want)
	}
	data, err := os.ReadFile(want)
	if err != nil || string(data) != "<season></season>" {
		t.Fatalf("unexpected file content %q, %v", data, err)
	}
	if userAgent.Load() != "taiga-test" {
		t.Fatalf("unexpected user agent %v", userAgent.Load())
	}
	if id, _ := requestID.Load().(string); len(id) != 36 || id != result.RequestID {
		t.Fatalf("expected request id header to match result, got %q vs %q", id, result.RequestID)
	}
}

func TestEnqueueRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	d, results := newDispatcher(t, t.TempDir(), 3)
	d.Enqueue(server.URL + "/2018_spring.xml")

	if result := waitResult(t, results); result.Err != nil {
		t.Fatalf("expected success after retries, got %v", result.Err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestEnqueueDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	dir := t.TempDir()
	d, results := newDispatcher(t, dir, 3)
	d.Enqueue(server.URL + "/2030_fall.xml")

	if result := waitResult(t, results); result.Err == nil {
		t.Fatal("expected error for missing season file")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "2030_fall.xml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no file written, got %v", err)
	}
}

func TestEnqueueCollapsesIdenticalRequests(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	d, results := newDispatcher(t, t.TempDir(), 1)
	url := server.URL + "/2018_summer.xml"
	d.Enqueue(url)
	d.Enqueue(url)
	time.Sleep(100 * time.Millisecond)
	close(release)

	if result := waitResult(t, results); result.Err != nil {
		t.Fatalf("download failed: %v", result.Err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one request for duplicate enqueues, got %d", got)
	}
	if len(results) != 0 {
		t.Fatalf("expected a single completion, got %d extra", len(results))
	}
}

func TestEnqueueAfterCloseReportsClosed(t *testing.T) {
	d, results := newDispatcher(t, t.TempDir(), 1)
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	d.Enqueue("https://example.invalid/2018_winter.xml")
	if result := waitResult(t, results); !errors.Is(result.Err, transfer.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", result.Err)
	}
}

func TestEnqueueRejectsURLWithoutFileName(t *testing.T) {
	d, results := newDispatcher(t, t.TempDir(), 1)
	d.Enqueue("ftp://example.invalid/")
	if result := waitResult(t, results); result.Err == nil {
		t.Fatal("expected rejection for unsupported url")
	}
}

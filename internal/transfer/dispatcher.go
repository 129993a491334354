package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/Venipa/taiga/internal/config"
	"github.com/Venipa/taiga/internal/logging"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultRetryBackoff = time.Second
	maxRetryBackoff     = 30 * time.Second
	maxBodyBytes        = 32 << 20
)

// ErrClosed is returned through the completion hook for requests enqueued
// after Close.
var ErrClosed = errors.New("transfer dispatcher closed")

// Result describes one finished download.
type Result struct {
	RequestID string
	URL       string
	Path      string
	Bytes     int
	Err       error
}

// Options configures a Dispatcher.
type Options struct {
	// Dir receives downloaded files, named after the last URL path segment.
	Dir               string
	Client            *http.Client
	UserAgent         string
	RequestsPerSecond float64
	RetryAttempts     int
	RetryBackoff      time.Duration
	Logger            *slog.Logger
	OnComplete        func(Result)
}

// Dispatcher runs fire-and-forget downloads.
type Dispatcher struct {
	dir          string
	client       *http.Client
	userAgent    string
	limiter      *rate.Limiter
	attempts     int
	retryBackoff time.Duration
	logger       *slog.Logger
	group        singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	closed     bool
	onComplete func(Result)
}

// New constructs a Dispatcher from opts.
func New(opts Options) *Dispatcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	attempts := opts.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		dir:          opts.Dir,
		client:       client,
		userAgent:    opts.UserAgent,
		limiter:      rate.NewLimiter(limit, 1),
		attempts:     attempts,
		retryBackoff: backoff,
		logger:       logging.NewComponentLogger(opts.Logger, "transfer"),
		ctx:          ctx,
		cancel:       cancel,
		onComplete:   opts.OnComplete,
	}
}

// NewFromConfig builds a Dispatcher writing into the configured season directory.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Dispatcher {
	return New(Options{
		Dir:               cfg.Paths.SeasonDir,
		Client:            &http.Client{Timeout: time.Duration(cfg.Transfer.TimeoutSeconds) * time.Second},
		UserAgent:         cfg.Transfer.UserAgent,
		RequestsPerSecond: cfg.Transfer.RequestsPerSecond,
		RetryAttempts:     cfg.Transfer.RetryAttempts,
		Logger:            logger,
	})
}

// SetOnComplete replaces the completion hook.
func (d *Dispatcher) SetOnComplete(fn func(Result)) {
	d.mu.Lock()
	d.onComplete = fn
	d.mu.Unlock()
}

// Enqueue schedules a download of rawURL and returns immediately.
func (d *Dispatcher) Enqueue(rawURL string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.complete(Result{URL: rawURL, Err: ErrClosed})
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		d.run(rawURL)
	}()
}

// Close stops accepting requests and waits for in-flight downloads.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
	d.cancel()
	return nil
}

// Abort cancels in-flight downloads and waits for them to return.
func (d *Dispatcher) Abort() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.cancel()
	d.wg.Wait()
}

func (d *Dispatcher) run(rawURL string) {
	_, _, _ = d.group.Do(rawURL, func() (any, error) {
		ctx := logging.WithRequestID(d.ctx, "")
		requestID, _ := logging.RequestIDFromContext(ctx)
		result := Result{RequestID: requestID, URL: rawURL}
		result.Path, result.Bytes, result.Err = d.download(ctx, rawURL)
		d.complete(result)
		return nil, result.Err
	})
}

func (d *Dispatcher) complete(result Result) {
	d.mu.Lock()
	hook := d.onComplete
	d.mu.Unlock()
	if hook != nil {
		hook(result)
	}
}

func (d *Dispatcher) download(ctx context.Context, rawURL string) (string, int, error) {
	logger := logging.WithContext(ctx, d.logger)
	target, err := d.targetPath(rawURL)
	if err != nil {
		logging.WarnWithContext(logger, "season download rejected", "download_rejected",
			logging.String("url", rawURL),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check seasons.remote_location"),
			logging.String(logging.FieldImpact, "season data not downloaded"),
		)
		return "", 0, err
	}

	started := time.Now()
	backoff := d.retryBackoff
	var lastErr error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		if err := d.limiter.Wait(ctx); err != nil {
			return "", 0, err
		}
		logger.Debug("downloading season data",
			logging.String("url", rawURL),
			logging.Int("attempt", attempt),
		)
		data, retryable, err := d.fetch(ctx, rawURL)
		if err == nil {
			if err := os.MkdirAll(d.dir, 0o755); err != nil {
				return "", 0, fmt.Errorf("create season directory: %w", err)
			}
			if err := renameio.WriteFile(target, data, 0o644); err != nil {
				return "", 0, fmt.Errorf("write %s: %w", target, err)
			}
			logger.Info("season data downloaded",
				logging.String(logging.FieldEventType, "download_complete"),
				logging.String("path", target),
				logging.Int("bytes", len(data)),
				logging.Duration("elapsed", time.Since(started)),
			)
			return target, len(data), nil
		}
		lastErr = err
		if !retryable || attempt == d.attempts {
			break
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return "", 0, ctx.Err()
		}
		backoff = min(backoff*2, maxRetryBackoff)
	}

	logging.WarnWithContext(logger, "season download failed", "download_failed",
		logging.String("url", rawURL),
		logging.Error(lastErr),
		logging.String(logging.FieldErrorHint, "check network access or seasons.remote_location"),
		logging.String(logging.FieldImpact, "season stays unavailable until the next load"),
	)
	return "", 0, lastErr
}

func (d *Dispatcher) fetch(ctx context.Context, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	if id, ok := logging.RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("download %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, fmt.Errorf("download %s: %w", rawURL, err)
	}
	if len(data) == 0 {
		return nil, false, fmt.Errorf("download %s: empty response", rawURL)
	}
	return data, false, nil
}

func (d *Dispatcher) targetPath(rawURL string) (string, error) {
	if strings.TrimSpace(d.dir) == "" {
		return "", errors.New("no destination directory configured")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", parsed.Scheme)
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("url %q has no file name", rawURL)
	}
	return filepath.Join(d.dir, name), nil
}

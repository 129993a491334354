package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Venipa/taiga/internal/config"
)

const userAgent = "Taiga-Go/0.1.0"

// Service defines the notification surface exposed to season components.
type Service interface {
	NotifyStatus(ctx context.Context, message string) error
	NotifyError(ctx context.Context, message, detail string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyStatus(ctx context.Context, message string) error {
	data := payload{
		title:   "Taiga - Season",
		message: strings.TrimSpace(message),
		tags:    []string{"taiga", "season", "status"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, message, detail string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if message = strings.TrimSpace(message); message != "" {
		builder.WriteString(": ")
		builder.WriteString(message)
	}
	if detail = strings.TrimSpace(detail); detail != "" {
		builder.WriteString("\n")
		builder.WriteString(detail)
	}

	data := payload{
		title:    "Taiga - Error",
		message:  builder.String(),
		tags:     []string{"taiga", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Taiga - Test",
		message:  "Notification system test",
		tags:     []string{"taiga", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyStatus(context.Context, string) error         { return nil }
func (noopService) NotifyError(context.Context, string, string) error { return nil }
func (noopService) TestNotification(context.Context) error            { return nil }

// Package notifications pushes workflow events to an ntfy topic when one is
// configured; otherwise every call is a cheap no-op.
package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"carousel/internal/config"
)

const userAgent = "Carousel/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyDaemonStarted(ctx context.Context) error
	NotifyDaemonStopped(ctx context.Context) error
	NotifyFileOrganized(ctx context.Context, title, finalFile string) error
	NotifyFileNeedsReview(ctx context.Context, sourcePath, reason string) error
	NotifyFileFailed(ctx context.Context, sourcePath string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
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

func (n *ntfyService) NotifyDaemonStarted(ctx context.Context) error {
	return n.send(ctx, payload{
		title:   "Carousel - Started",
		message: "Watching for new media files",
		tags:    []string{"carousel", "daemon", "started"},
	})
}

func (n *ntfyService) NotifyDaemonStopped(ctx context.Context) error {
	return n.send(ctx, payload{
		title:   "Carousel - Stopped",
		message: "Daemon shut down",
		tags:    []string{"carousel", "daemon", "stopped"},
	})
}

func (n *ntfyService) NotifyFileOrganized(ctx context.Context, title, finalFile string) error {
	title = strings.TrimSpace(title)
	finalFile = strings.TrimSpace(finalFile)
	message := fmt.Sprintf("Added to library: %s", title)
	if finalFile != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, finalFile)
	}
	return n.send(ctx, payload{
		title:    "Carousel - Organized",
		message:  message,
		tags:     []string{"carousel", "organize", "completed"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyFileNeedsReview(ctx context.Context, sourcePath, reason string) error {
	sourcePath = strings.TrimSpace(sourcePath)
	reason = strings.TrimSpace(reason)
	message := fmt.Sprintf("Could not identify: %s\nManual review required", sourcePath)
	if reason != "" {
		message = fmt.Sprintf("%s (%s)", message, reason)
	}
	return n.send(ctx, payload{
		title:   "Carousel - Needs Review",
		message: message,
		tags:    []string{"carousel", "review"},
	})
}

func (n *ntfyService) NotifyFileFailed(ctx context.Context, sourcePath string, err error) error {
	var builder strings.Builder
	builder.WriteString("Failed to organize")
	if sourcePath = strings.TrimSpace(sourcePath); sourcePath != "" {
		builder.WriteString(": ")
		builder.WriteString(sourcePath)
	}
	if err != nil {
		builder.WriteString("\n")
		builder.WriteString(strings.TrimSpace(err.Error()))
	}
	return n.send(ctx, payload{
		title:    "Carousel - Error",
		message:  builder.String(),
		tags:     []string{"carousel", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "Carousel - Test",
		message:  "Notification system test",
		tags:     []string{"carousel", "test"},
		priority: "low",
	})
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

func (noopService) NotifyDaemonStarted(context.Context) error                   { return nil }
func (noopService) NotifyDaemonStopped(context.Context) error                   { return nil }
func (noopService) NotifyFileOrganized(context.Context, string, string) error   { return nil }
func (noopService) NotifyFileNeedsReview(context.Context, string, string) error { return nil }
func (noopService) NotifyFileFailed(context.Context, string, error) error       { return nil }
func (noopService) TestNotification(context.Context) error                      { return nil }

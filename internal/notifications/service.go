package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"brancoder/internal/config"
)

const userAgent = "Brancoder/0.1.0"

// Service is the notification surface used around conversions.
type Service interface {
	NotifyConversionCompleted(ctx context.Context, outputPath string, sizeBytes int64) error
	NotifyConversionFailed(ctx context.Context, inputPath, detail string) error
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
		endpoint:   topic,
		client:     &http.Client{Timeout: timeout},
		completion: cfg.Notifications.Completion,
		errors:     cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	completion bool
	errors     bool
}

func (n *ntfyService) NotifyConversionCompleted(ctx context.Context, outputPath string, sizeBytes int64) error {
	if !n.completion {
		return nil
	}
	message := fmt.Sprintf("Conversion complete: %s", strings.TrimSpace(outputPath))
	if sizeBytes > 0 {
		message = fmt.Sprintf("%s (%.1f MiB)", message, float64(sizeBytes)/(1024*1024))
	}
	return n.send(ctx, payload{
		title:   "Brancoder - Complete",
		message: message,
		tags:    []string{"brancoder", "convert", "completed"},
	})
}

func (n *ntfyService) NotifyConversionFailed(ctx context.Context, inputPath, detail string) error {
	if !n.errors {
		return nil
	}
	message := fmt.Sprintf("Conversion failed: %s", strings.TrimSpace(inputPath))
	if detail = strings.TrimSpace(detail); detail != "" {
		message = fmt.Sprintf("%s\n%s", message, detail)
	}
	return n.send(ctx, payload{
		title:    "Brancoder - Failed",
		message:  message,
		tags:     []string{"brancoder", "convert", "failed"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "Brancoder - Test",
		message:  "Notification system test",
		tags:     []string{"brancoder", "test"},
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

func (noopService) NotifyConversionCompleted(context.Context, string, int64) error { return nil }
func (noopService) NotifyConversionFailed(context.Context, string, string) error   { return nil }
func (noopService) TestNotification(context.Context) error                         { return nil }

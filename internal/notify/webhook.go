package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"menubot/internal/domain"
)

// WebhookClient delivers announcements to the chat platform's incoming
// webhook. One JSON POST per trigger, bounded timeout, no retries.
type WebhookClient struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

func NewWebhookClient(url string, timeout time.Duration, logger *slog.Logger) *WebhookClient {
	return &WebhookClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Send posts one message. A non-2xx response is a delivery failure.
func (w *WebhookClient) Send(ctx context.Context, msg *domain.OutboundMessage) error {
	if w.url == "" {
		return fmt.Errorf("webhook url is not configured")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

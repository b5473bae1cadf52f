package notifiers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/webspin/spiderden/internal/spider"
)

// WebhookNotifier delivers game events via HTTP POST to an external URL,
// e.g. a marketplace indexer or analytics collector.
type WebhookNotifier struct {
	id      string
	url     string
	client  *http.Client
	headers map[string]string
}

// NewWebhookNotifier creates a webhook notifier for the given URL.
func NewWebhookNotifier(id, url string) *WebhookNotifier {
	return &WebhookNotifier{
		id:      id,
		url:     url,
		client:  &http.Client{Timeout: 5 * time.Second},
		headers: make(map[string]string),
	}
}

// SetHeader adds a custom header to every webhook request.
func (n *WebhookNotifier) SetHeader(key, value string) {
	if n.headers == nil {
		n.headers = make(map[string]string)
	}
	n.headers[key] = value
}

// ID returns the notifier ID.
func (n *WebhookNotifier) ID() string {
	return n.id
}

// Type returns the notifier type.
func (n *WebhookNotifier) Type() string {
	return "webhook"
}

// Notify POSTs the event to the webhook URL.
func (n *WebhookNotifier) Notify(ctx context.Context, event spider.GameEvent) error {
	jsonData, err := event.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range n.headers {
		req.Header.Set(key, value)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// Close closes the notifier (no-op for webhook).
func (n *WebhookNotifier) Close() error {
	return nil
}

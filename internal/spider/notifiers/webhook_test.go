package notifiers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/webspin/spiderden/internal/spider"
)

func testEvent() spider.GameEvent {
	return spider.GameEvent{
		Kind:      spider.EventPlayerUpdate,
		Wallet:    "0x1",
		Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestWebhookNotifier_Identity(t *testing.T) {
	notifier := NewWebhookNotifier("test-webhook", "http://localhost:9999/webhook")

	if notifier.ID() != "test-webhook" {
		t.Errorf("Expected ID 'test-webhook', got '%s'", notifier.ID())
	}
	if notifier.Type() != "webhook" {
		t.Errorf("Expected type 'webhook', got '%s'", notifier.Type())
	}
	if err := notifier.Close(); err != nil {
		t.Errorf("Close should not return error: %v", err)
	}
}

func TestWebhookNotifier_Notify(t *testing.T) {
	var received spider.GameEvent
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Api-Key")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier("hook", srv.URL)
	notifier.SetHeader("X-Api-Key", "secret")

	if err := notifier.Notify(context.Background(), testEvent()); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if received.Kind != spider.EventPlayerUpdate || received.Wallet != "0x1" {
		t.Errorf("Unexpected event payload: %+v", received)
	}
	if gotHeader != "secret" {
		t.Errorf("Expected custom header forwarded, got %q", gotHeader)
	}
}

func TestWebhookNotifier_NotifyErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier("hook", srv.URL)
	if err := notifier.Notify(context.Background(), testEvent()); err == nil {
		t.Error("Expected error for non-2xx response")
	}
}

func TestWebhookNotifier_NotifyUnreachable(t *testing.T) {
	notifier := NewWebhookNotifier("hook", "http://127.0.0.1:1/unreachable")
	if err := notifier.Notify(context.Background(), testEvent()); err == nil {
		t.Error("Expected error for unreachable endpoint")
	}
}

package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foxseedlab/koebako/internal/notifier"
	"github.com/foxseedlab/koebako/internal/repository"
)

func sampleNotification() notifier.Notification {
	return notifier.Notification{
		MemberID:    "111",
		MemberName:  "Alice",
		Action:      repository.ActionLeft,
		Color:       notifier.ColorLeft,
		Description: ":x: **<@111>** left **General** (Stayed: 30s)",
		Line:        "[2026-03-01 12:00:30] Alice left General (Stayed: 30s)",
		At:          time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC),
	}
}

func TestHTTPWebhookNotifier_EmptyWebhookURL(t *testing.T) {
	sender := NewHTTPWebhookNotifier("")
	if err := sender.Notify(context.Background(), sampleNotification()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestHTTPWebhookNotifier_Success(t *testing.T) {
	var got webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sender := NewHTTPWebhookNotifier(server.URL)
	if err := sender.Notify(context.Background(), sampleNotification()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.SchemaVersion != WebhookSchemaVersion || got.MemberID != "111" || got.Action != "Left" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.OccurredAt != "2026-03-01T12:00:30Z" || got.Color != notifier.ColorLeft {
		t.Fatalf("unexpected payload time/color: %+v", got)
	}
}

func TestHTTPWebhookNotifier_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sender := NewHTTPWebhookNotifier(server.URL)
	if err := sender.Notify(context.Background(), sampleNotification()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

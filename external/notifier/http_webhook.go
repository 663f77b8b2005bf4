package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/foxseedlab/koebako/internal/notifier"
)

const WebhookSchemaVersion = "2026-10-01"

type webhookPayload struct {
	SchemaVersion string `json:"schema_version"`
	MemberID      string `json:"member_id"`
	MemberName    string `json:"member_name"`
	Action        string `json:"action"`
	Color         int    `json:"color"`
	Description   string `json:"description"`
	Line          string `json:"line"`
	OccurredAt    string `json:"occurred_at"`
}

type HTTPWebhookNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewHTTPWebhookNotifier(webhookURL string) *HTTPWebhookNotifier {
	return &HTTPWebhookNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPWebhookNotifier) Notify(ctx context.Context, msg notifier.Notification) error {
	if s.webhookURL == "" {
		return nil
	}

	b, err := json.Marshal(webhookPayload{
		SchemaVersion: WebhookSchemaVersion,
		MemberID:      string(msg.MemberID),
		MemberName:    msg.MemberName,
		Action:        string(msg.Action),
		Color:         msg.Color,
		Description:   msg.Description,
		Line:          msg.Line,
		OccurredAt:    msg.At.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

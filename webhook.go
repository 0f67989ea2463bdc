package casefolio

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

// WebhookNotifier pings an outbound automation webhook when a case record
// is created or updated. Notifications are fire-and-forget: failures are
// logged and never surfaced to the caller, and no retries are attempted.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger Logger
}

// NewWebhookNotifier creates a notifier for the given webhook URL.
func NewWebhookNotifier(url string, logger Logger) *WebhookNotifier {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type webhookEvent struct {
	Event string      `json:"event"`
	Case  *CaseRecord `json:"case"`
}

// CaseSaved notifies the webhook that a record was created or updated,
// carrying the full normalized body. Returns immediately.
func (n *WebhookNotifier) CaseSaved(rec *CaseRecord) {
	if n == nil || n.url == "" {
		return
	}
	body, err := json.Marshal(webhookEvent{Event: "case.createdOrUpdated", Case: rec})
	if err != nil {
		n.logger.Warn("webhook payload marshal failed", "slug", rec.Slug, "error", err)
		return
	}
	go func() {
		resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
		if err != nil {
			n.logger.Debug("webhook ping failed", "slug", rec.Slug, "error", err)
			return
		}
		_ = resp.Body.Close() //nolint:errcheck // Fire-and-forget
	}()
}

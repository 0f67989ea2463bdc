package casefolio

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWebhookNotifier_CaseSaved(t *testing.T) {
	received := make(chan webhookEvent, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt webhookEvent
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		received <- evt
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, nil)
	n.CaseSaved(&CaseRecord{Slug: "calm-hotel", Title: "Calm Hotel"})

	select {
	case evt := <-received:
		if evt.Event != "case.createdOrUpdated" {
			t.Errorf("event = %q", evt.Event)
		}
		if evt.Case == nil || evt.Case.Slug != "calm-hotel" {
			t.Errorf("case payload = %+v", evt.Case)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was never called")
	}
}

func TestWebhookNotifier_NilSafe(t *testing.T) {
	var n *WebhookNotifier
	n.CaseSaved(&CaseRecord{Slug: "calm-hotel"})

	empty := NewWebhookNotifier("", nil)
	empty.CaseSaved(&CaseRecord{Slug: "calm-hotel"})
}

package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/reload-agent-demo/internal/errors"
	"github.com/jrsteele09/reload-agent-demo/webhooks"
)

type webhookAck struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message"`
	Event     webhooks.EventType `json:"event"`
	Timestamp string             `json:"timestamp"`
}

type webhookStatus struct {
	Message      string           `json:"message"`
	Methods      []string         `json:"methods"`
	Timestamp    string           `json:"timestamp"`
	RecentEvents []webhooks.Event `json:"recentEvents"`
}

func (s *Server) WebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC().Format(time.RFC3339)

		switch r.Method {
		case http.MethodPost:
			body, err := readBody(w, r)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
				return
			}

			ev, err := s.webhooks.Receive(body, r.Header.Get(webhooks.SignatureHeader))
			switch {
			case errors.Is(err, errors.ErrInvalidSignature):
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid webhook signature"})
				return
			case err != nil:
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
				return
			}

			writeJSON(w, http.StatusOK, webhookAck{
				Success:   true,
				Message:   "Webhook received and processed",
				Event:     ev.Type,
				Timestamp: now,
			})

		case http.MethodGet, http.MethodHead:
			writeJSON(w, http.StatusOK, webhookStatus{
				Message:      "Webhook endpoint is active",
				Methods:      []string{http.MethodPost},
				Timestamp:    now,
				RecentEvents: s.webhooks.Recent(),
			})

		default:
			w.Header().Set("Allow", "GET, POST")
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		}
	}
}

// Package webhooks receives the event notifications Reload posts when a user
// connects, disconnects or is charged.
package webhooks

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/reload-agent-demo/internal/errors"
	"github.com/tidwall/gjson"
)

type EventType string

const (
	EventUserConnected    EventType = "user.connected"
	EventUserDisconnected EventType = "user.disconnected"
	EventPaymentSuccess   EventType = "payment.success"
	EventPaymentFailed    EventType = "payment.failed"
)

// Known reports whether the event type is one Reload documents.
func (t EventType) Known() bool {
	switch t {
	case EventUserConnected, EventUserDisconnected, EventPaymentSuccess, EventPaymentFailed:
		return true
	}
	return false
}

// Event is a received notification. ID and ReceivedAt are assigned locally.
type Event struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"event"`
	Timestamp  string          `json:"timestamp,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

// ParseEvent decodes a webhook body. Anything that is not a JSON object is
// rejected with ErrInvalidPayload.
func ParseEvent(body []byte, receivedAt time.Time) (*Event, error) {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, errors.ErrInvalidPayload
	}

	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidPayload, "[ParseEvent] %v", err)
	}
	ev.ID = uuid.NewString()
	ev.ReceivedAt = receivedAt.UTC()
	return &ev, nil
}

// Field reads a value from the event data, e.g. "user.email".
func (e Event) Field(path string) gjson.Result {
	return gjson.GetBytes(e.Data, path)
}

package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Moderation event types delivered to the affected user.
const (
	EventStrikeReceived  = "strike_received"
	EventAccountBanned   = "account_banned"
	EventAccountUnbanned = "account_unbanned"
	EventReportResolved  = "report_resolved"
)

// Event is the JSON envelope pushed over pub/sub and the websocket.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType string, payload map[string]interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// Encode renders the event as a JSON string.
func (e Event) Encode() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

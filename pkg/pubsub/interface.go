package pubsub

import (
	"context"
	"encoding/json"
	"time"
)

// Event represents a message published to the event bus.
type Event struct {
	Type      string          `json:"type"`
	RoomID    string          `json:"room_id"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent creates a new event with the current timestamp.
func NewEvent(eventType, roomID string, payload interface{}) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		RoomID:    roomID,
		Payload:   data,
		Timestamp: time.Now().UTC(),
	}, nil
}

// UnmarshalPayload unmarshals the event payload into the given struct.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// Publisher publishes events to the event bus and releases its
// connections on Close.
type Publisher interface {
	Publish(ctx context.Context, channel string, event *Event) error
	Close() error
}

// NopPublisher discards every event. It backs the "none" driver.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, *Event) error { return nil }
func (NopPublisher) Close() error                                  { return nil }

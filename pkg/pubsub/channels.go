package pubsub

import (
	"fmt"
	"strings"
)

// ChannelRoomEvents is the per-room channel carrying collaboration
// lifecycle events for consumers outside this process.
const ChannelRoomEvents = "collab:room:%s:events"

// Event types for room lifecycle.
const (
	EventRoomCreated       = "room_created"
	EventRoomClosed        = "room_closed"
	EventParticipantJoined = "participant_joined"
	EventParticipantLeft   = "participant_left"
	EventHostChanged       = "host_changed"
	EventMessagePosted     = "message_posted"
)

// RoomEventsChannel returns the channel name for a room's events.
func RoomEventsChannel(roomID string) string {
	return fmt.Sprintf(ChannelRoomEvents, roomID)
}

// RoomIDFromChannel extracts the room id from a room events channel.
//
//	"collab:room:room_1a2b3c4d:events" → "room_1a2b3c4d"
func RoomIDFromChannel(channel string) (string, error) {
	parts := strings.Split(channel, ":")
	if len(parts) != 4 || parts[0] != "collab" || parts[1] != "room" || parts[3] != "events" {
		return "", fmt.Errorf("invalid channel format: %s", channel)
	}
	return parts[2], nil
}

// RoomPayload describes a room created or closed.
type RoomPayload struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name,omitempty"`
	HostID string `json:"host_id,omitempty"`
}

// ParticipantPayload describes a membership change.
type ParticipantPayload struct {
	RoomID   string `json:"room_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Reason   string `json:"reason,omitempty"` // "leave", "disconnect"
}

// HostChangedPayload is published when the host leaves and a successor
// is promoted.
type HostChangedPayload struct {
	RoomID     string `json:"room_id"`
	PreviousID string `json:"previous_host_id"`
	HostID     string `json:"host_id"`
}

// MessagePayload mirrors a chat message appended to a room log.
type MessagePayload struct {
	RoomID    string `json:"room_id"`
	MessageID string `json:"message_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Message   string `json:"message"`
	Type      string `json:"type"`
}

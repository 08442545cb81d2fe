package domain

import "time"

// Message types.
const (
	MessageTypeText   = "text"
	MessageTypeSystem = "system"
	MessageTypeFile   = "file"
)

// System message author.
const (
	SystemUserID   = "system"
	SystemUserName = "System"
)

// ChatMessage is an immutable entry of a room's message log.
type ChatMessage struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
}

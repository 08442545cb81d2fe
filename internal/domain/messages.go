package domain

import (
	"encoding/json"
	"time"
)

// WebSocket events from client.
const (
	EventJoinUser           = "join_user"
	EventCreateRoom         = "create_room"
	EventJoinRoom           = "join_room"
	EventLeaveRoom          = "leave_room"
	EventSendMessage        = "send_message"
	EventWebRTCOffer        = "webrtc_offer"
	EventWebRTCAnswer       = "webrtc_answer"
	EventWebRTCICECandidate = "webrtc_ice_candidate"
	EventToggleVideo        = "toggle_video"
	EventToggleAudio        = "toggle_audio"
	EventStartScreenShare   = "start_screen_share"
	EventStopScreenShare    = "stop_screen_share"
	EventGetRoomInfo        = "get_room_info"
	EventPing               = "ping"
)

// WebSocket events to client.
const (
	EventConnected              = "connected"
	EventUserRegistered         = "user_registered"
	EventRoomCreated            = "room_created"
	EventRoomJoined             = "room_joined"
	EventRoomLeft               = "room_left"
	EventParticipantJoined      = "participant_joined"
	EventParticipantLeft        = "participant_left"
	EventParticipantsUpdated    = "participants_updated"
	EventHostChanged            = "host_changed"
	EventChatHistory            = "chat_history"
	EventNewMessage             = "new_message"
	EventParticipantVideoToggle = "participant_video_toggled"
	EventParticipantAudioToggle = "participant_audio_toggled"
	EventScreenShareStarted     = "screen_share_started"
	EventScreenShareStopped     = "screen_share_stopped"
	EventRoomInfo               = "room_info"
	EventPong                   = "pong"
	EventError                  = "error"
)

const StatusSuccess = "success"

// Envelope is the frame shape for every message in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Frame is an outbound event before encoding.
type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// NewFrame creates an outbound frame.
func NewFrame(eventType string, data interface{}) *Frame {
	return &Frame{Type: eventType, Data: data}
}

// Client -> Server payloads

type JoinUserRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
	Name   string `json:"name" validate:"required,max=128"`
	Email  string `json:"email" validate:"omitempty,max=254"`
	Token  string `json:"token"`
}

type CreateRoomRequest = RoomConfig

type JoinRoomRequest struct {
	RoomID string `json:"room_id" validate:"required"`
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type OfferRequest struct {
	TargetUserID string          `json:"target_user_id" validate:"required"`
	Offer        json.RawMessage `json:"offer" validate:"required"`
}

type AnswerRequest struct {
	TargetUserID string          `json:"target_user_id" validate:"required"`
	Answer       json.RawMessage `json:"answer" validate:"required"`
}

type ICECandidateRequest struct {
	TargetUserID string          `json:"target_user_id" validate:"required"`
	Candidate    json.RawMessage `json:"candidate" validate:"required"`
}

type ToggleMediaRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type GetRoomInfoRequest struct {
	RoomID string `json:"room_id" validate:"required"`
}

// Server -> Client payloads

type StatusPayload struct {
	Status string `json:"status"`
}

type UserRegisteredPayload struct {
	Status string `json:"status"`
	UserID string `json:"user_id"`
}

type RoomPayload struct {
	Room   *Room  `json:"room"`
	Status string `json:"status"`
}

type RoomLeftPayload struct {
	Status string `json:"status"`
	RoomID string `json:"room_id"`
}

type ParticipantJoinedPayload struct {
	User   Participant `json:"user"`
	RoomID string      `json:"room_id"`
}

type ParticipantLeftPayload struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	RoomID   string `json:"room_id"`
}

type ParticipantsUpdatedPayload struct {
	RoomID       string        `json:"room_id"`
	Participants []Participant `json:"participants"`
}

type HostChangedPayload struct {
	RoomID   string `json:"room_id"`
	HostID   string `json:"host_id"`
	HostName string `json:"host_name"`
}

type ChatHistoryPayload struct {
	Messages []ChatMessage `json:"messages"`
}

type OfferPayload struct {
	FromUserID string          `json:"from_user_id"`
	Offer      json.RawMessage `json:"offer"`
}

type AnswerPayload struct {
	FromUserID string          `json:"from_user_id"`
	Answer     json.RawMessage `json:"answer"`
}

type ICECandidatePayload struct {
	FromUserID string          `json:"from_user_id"`
	Candidate  json.RawMessage `json:"candidate"`
}

type MediaToggledPayload struct {
	UserID  string `json:"user_id"`
	Enabled bool   `json:"enabled"`
}

type ScreenSharePayload struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

type PongPayload struct {
	Timestamp time.Time `json:"timestamp"`
}

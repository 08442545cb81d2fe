package domain

import "time"

const (
	DefaultMaxParticipants = 10
	DefaultRoomNamePrefix  = "Room "
)

// RoomSettings are per-room feature switches.
type RoomSettings struct {
	AllowScreenShare bool `json:"allow_screen_share"`
	AllowChat        bool `json:"allow_chat"`
	RequireApproval  bool `json:"require_approval"`
	IsLocked         bool `json:"is_locked"`
}

// DefaultRoomSettings allows chat and screen share, no approval, unlocked.
func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		AllowScreenShare: true,
		AllowChat:        true,
	}
}

// RoomSettingsPatch is a client supplied settings object. Omitted fields
// keep their current value.
type RoomSettingsPatch struct {
	AllowScreenShare *bool `json:"allow_screen_share,omitempty"`
	AllowChat        *bool `json:"allow_chat,omitempty"`
	RequireApproval  *bool `json:"require_approval,omitempty"`
	IsLocked         *bool `json:"is_locked,omitempty"`
}

// Apply returns base with the supplied fields overwritten.
func (p *RoomSettingsPatch) Apply(base RoomSettings) RoomSettings {
	if p == nil {
		return base
	}
	if p.AllowScreenShare != nil {
		base.AllowScreenShare = *p.AllowScreenShare
	}
	if p.AllowChat != nil {
		base.AllowChat = *p.AllowChat
	}
	if p.RequireApproval != nil {
		base.RequireApproval = *p.RequireApproval
	}
	if p.IsLocked != nil {
		base.IsLocked = *p.IsLocked
	}
	return base
}

// RoomConfig is the client supplied configuration for create_room.
// Nil fields fall back to defaults.
type RoomConfig struct {
	Name            *string            `json:"name,omitempty" validate:"omitempty,max=120"`
	Description     *string            `json:"description,omitempty" validate:"omitempty,max=1000"`
	MaxParticipants *int               `json:"max_participants,omitempty" validate:"omitempty,max=100"`
	Settings        *RoomSettingsPatch `json:"settings,omitempty"`
}

// Room is a bounded collaboration session. Participants are kept in join
// order; the host is first at creation time.
type Room struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	HostID          string        `json:"host_id"`
	Participants    []Participant `json:"participants"`
	CreatedAt       time.Time     `json:"created_at"`
	MaxParticipants int           `json:"max_participants"`
	Settings        RoomSettings  `json:"settings"`
	IsRecording     bool          `json:"is_recording"`
}

// RoomSummary is a row of the room listing.
type RoomSummary struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	ParticipantCount int          `json:"participant_count"`
	MaxParticipants  int          `json:"max_participants"`
	HostName         string       `json:"host_name"`
	CreatedAt        time.Time    `json:"created_at"`
	Settings         RoomSettings `json:"settings"`
}

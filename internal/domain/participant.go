package domain

import "time"

// Participant roles.
const (
	RoleHost        = "host"
	RoleParticipant = "participant"
	RoleViewer      = "viewer"
)

// Participant is a registered user bound to one live connection.
// ConnID references the hub client; the hub owns the connection.
type Participant struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ConnID       string    `json:"-"`
	RoomID       string    `json:"room_id,omitempty"`
	VideoEnabled bool      `json:"is_video_enabled"`
	AudioEnabled bool      `json:"is_audio_enabled"`
	JoinedAt     time.Time `json:"joined_at"`
	Role         string    `json:"role"`
}

// NewParticipant creates a participant with media enabled and no room.
func NewParticipant(connID, userID, name, email string) *Participant {
	now := time.Now().UTC()
	return &Participant{
		UserID:       userID,
		Name:         name,
		Email:        email,
		ConnID:       connID,
		VideoEnabled: true,
		AudioEnabled: true,
		JoinedAt:     now,
		Role:         RoleParticipant,
	}
}

// InRoom reports whether the participant is currently a room member.
func (p *Participant) InRoom() bool {
	return p.RoomID != ""
}

// Clone returns a copy safe to hand outside the manager.
func (p *Participant) Clone() Participant {
	return *p
}

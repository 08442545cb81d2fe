package manager

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/weiawesome/wes-io-live/collab-service/internal/domain"
)

const (
	DefaultLogCapacity = 500
	roomIDPrefix       = "room_"
)

// MediaKind selects the media flag updated by SetMedia.
type MediaKind int

const (
	MediaVideo MediaKind = iota
	MediaAudio
)

// Config holds manager limits.
type Config struct {
	DefaultMaxParticipants int
	LogCapacity            int
}

// DefaultConfig returns the default limits.
func DefaultConfig() Config {
	return Config{
		DefaultMaxParticipants: domain.DefaultMaxParticipants,
		LogCapacity:            DefaultLogCapacity,
	}
}

// JoinResult describes a successful join.
type JoinResult struct {
	Room        *domain.Room
	Participant domain.Participant
	Notice      domain.ChatMessage
}

// LeaveResult describes a participant removed from a room. When Closed is
// true the room and its log no longer exist.
type LeaveResult struct {
	RoomID       string
	Participant  domain.Participant
	Closed       bool
	NewHost      *domain.Participant
	Notice       *domain.ChatMessage
	Participants []domain.Participant
}

type session struct {
	participant *domain.Participant
	seq         uint64
}

type room struct {
	id              string
	name            string
	description     string
	hostID          string
	members         []*domain.Participant
	createdAt       time.Time
	maxParticipants int
	settings        domain.RoomSettings
	recording       bool
	log             *messageLog
}

// Manager owns the session registry, the room store and every room's
// message log. All three are only mutated through its methods, and each
// method checks all preconditions before its first write.
type Manager struct {
	cfg Config

	mu       sync.RWMutex
	sessions map[string]*session // connID -> session
	users    map[string]string   // userID -> connID of the latest registration
	rooms    map[string]*room
	seq      uint64

	newRoomID func() string
	now       func() time.Time
}

// New creates an empty Manager.
func New(cfg Config) *Manager {
	if cfg.DefaultMaxParticipants < 1 {
		cfg.DefaultMaxParticipants = domain.DefaultMaxParticipants
	}
	if cfg.LogCapacity < 1 {
		cfg.LogCapacity = DefaultLogCapacity
	}
	return &Manager{
		cfg:       cfg,
		sessions:  make(map[string]*session),
		users:     make(map[string]string),
		rooms:     make(map[string]*room),
		newRoomID: generateRoomID,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func generateRoomID() string {
	return roomIDPrefix + uuid.New().String()[:8]
}

// Register binds an identity to a connection. A connection that is in a
// room cannot change identity.
func (m *Manager) Register(connID, userID, name, email string) (domain.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[connID]; ok {
		if s.participant.InRoom() {
			return domain.Participant{}, ErrAlreadyInRoom
		}
		m.dropUserIndex(connID, s.participant.UserID)
	}

	p := domain.NewParticipant(connID, userID, name, email)
	p.JoinedAt = m.now()
	m.seq++
	m.sessions[connID] = &session{participant: p, seq: m.seq}
	m.users[userID] = connID

	return p.Clone(), nil
}

// CreateRoom creates a room hosted by the connection's participant.
func (m *Manager) CreateRoom(connID string, cfg domain.RoomConfig) (*domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[connID]
	if !ok {
		return nil, ErrNotRegistered
	}
	host := s.participant
	if host.InRoom() {
		return nil, ErrAlreadyInRoom
	}

	id := m.newRoomID()
	for m.rooms[id] != nil {
		id = m.newRoomID()
	}

	r := &room{
		id:              id,
		name:            fmt.Sprintf("%s%s", domain.DefaultRoomNamePrefix, id),
		hostID:          host.UserID,
		createdAt:       m.now(),
		maxParticipants: m.cfg.DefaultMaxParticipants,
		settings:        domain.DefaultRoomSettings(),
		log:             newMessageLog(m.cfg.LogCapacity),
	}
	if cfg.Name != nil && *cfg.Name != "" {
		r.name = *cfg.Name
	}
	if cfg.Description != nil {
		r.description = *cfg.Description
	}
	if cfg.MaxParticipants != nil && *cfg.MaxParticipants > 0 {
		r.maxParticipants = *cfg.MaxParticipants
	}
	r.settings = cfg.Settings.Apply(r.settings)

	host.Role = domain.RoleHost
	host.RoomID = id
	host.JoinedAt = r.createdAt
	r.members = []*domain.Participant{host}
	m.rooms[id] = r

	return r.snapshot(), nil
}

// JoinRoom adds the connection's participant to a room. Guards run in
// order: room exists, room has capacity, user not already a member.
func (m *Manager) JoinRoom(roomID, connID string) (*JoinResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[connID]
	if !ok {
		return nil, ErrNotRegistered
	}
	p := s.participant

	r, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if len(r.members) >= r.maxParticipants {
		return nil, ErrRoomFull
	}
	if r.indexOfUser(p.UserID) >= 0 {
		return nil, ErrAlreadyMember
	}
	if p.InRoom() {
		return nil, ErrAlreadyInRoom
	}

	p.RoomID = roomID
	p.Role = domain.RoleParticipant
	p.JoinedAt = m.now()
	r.members = append(r.members, p)

	notice := m.systemMessage(r, fmt.Sprintf("%s joined", p.Name))

	return &JoinResult{
		Room:        r.snapshot(),
		Participant: p.Clone(),
		Notice:      notice,
	}, nil
}

// LeaveRoom removes the connection's participant from its room. It
// returns false when the connection is not in a room.
func (m *Manager) LeaveRoom(connID string) (*LeaveResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.leave(connID)
}

// Unregister is the disconnect path: leave-room semantics run first with
// the participant record still present, then the session is removed.
// Calling it for an unknown connection is a no-op.
func (m *Manager) Unregister(connID string) (*LeaveResult, domain.Participant, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[connID]
	if !ok {
		return nil, domain.Participant{}, false
	}

	res, _ := m.leave(connID)
	p := s.participant.Clone()
	delete(m.sessions, connID)
	m.dropUserIndex(connID, p.UserID)

	return res, p, true
}

func (m *Manager) leave(connID string) (*LeaveResult, bool) {
	s, ok := m.sessions[connID]
	if !ok || !s.participant.InRoom() {
		return nil, false
	}
	p := s.participant

	r, ok := m.rooms[p.RoomID]
	if !ok {
		p.RoomID = ""
		return nil, false
	}

	idx := r.indexOfConn(connID)
	if idx >= 0 {
		r.members = append(r.members[:idx], r.members[idx+1:]...)
	}

	p.RoomID = ""
	p.Role = domain.RoleParticipant
	res := &LeaveResult{
		RoomID:      r.id,
		Participant: p.Clone(),
	}

	if len(r.members) == 0 {
		delete(m.rooms, r.id)
		res.Closed = true
		return res, true
	}

	if r.hostID == p.UserID {
		next := r.members[0]
		next.Role = domain.RoleHost
		r.hostID = next.UserID
		host := next.Clone()
		res.NewHost = &host
	}

	notice := m.systemMessage(r, fmt.Sprintf("%s left", p.Name))
	res.Notice = &notice
	res.Participants = r.participants()

	return res, true
}

// AddMessage appends a text message from a registered user to a room log.
// The author is the user's member record in that room when there is one,
// otherwise its latest registration.
func (m *Manager) AddMessage(roomID, userID, text string) (*domain.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	var author *domain.Participant
	if idx := r.indexOfUser(userID); idx >= 0 {
		author = r.members[idx]
	} else {
		connID, ok := m.users[userID]
		if !ok {
			return nil, ErrNotRegistered
		}
		author = m.sessions[connID].participant
	}

	msg := domain.ChatMessage{
		ID:        ulid.Make().String(),
		RoomID:    roomID,
		UserID:    userID,
		UserName:  author.Name,
		Message:   text,
		Timestamp: m.now(),
		Type:      domain.MessageTypeText,
	}
	r.log.append(msg)

	return &msg, nil
}

// SetMedia updates the video or audio flag of a participant in a room.
func (m *Manager) SetMedia(connID string, kind MediaKind, enabled bool) (domain.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[connID]
	if !ok {
		return domain.Participant{}, ErrNotRegistered
	}
	p := s.participant
	if !p.InRoom() {
		return domain.Participant{}, ErrNotInRoom
	}

	switch kind {
	case MediaVideo:
		p.VideoEnabled = enabled
	case MediaAudio:
		p.AudioEnabled = enabled
	}
	return p.Clone(), nil
}

// Participant returns a copy of the connection's participant.
func (m *Manager) Participant(connID string) (domain.Participant, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[connID]
	if !ok {
		return domain.Participant{}, false
	}
	return s.participant.Clone(), true
}

// PeerConn resolves the connection a signaling message for userID should
// reach: the user's connection in roomID when it is a member, otherwise
// the latest registration.
func (m *Manager) PeerConn(roomID, userID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if r, ok := m.rooms[roomID]; ok {
		if idx := r.indexOfUser(userID); idx >= 0 {
			return r.members[idx].ConnID, true
		}
	}
	connID, ok := m.users[userID]
	return connID, ok
}

// MemberConns returns the connection ids of a room's members in join order.
func (m *Manager) MemberConns(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return nil
	}
	conns := make([]string, len(r.members))
	for i, p := range r.members {
		conns[i] = p.ConnID
	}
	return conns
}

// Room returns a point-in-time copy of a room.
func (m *Manager) Room(roomID string) (*domain.Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return nil, false
	}
	return r.snapshot(), true
}

// RoomSettings returns the settings of a room.
func (m *Manager) RoomSettings(roomID string) (domain.RoomSettings, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return domain.RoomSettings{}, false
	}
	return r.settings, true
}

// ListRooms returns summaries of all active rooms, oldest first.
func (m *Manager) ListRooms() []domain.RoomSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.RoomSummary, 0, len(m.rooms))
	for _, r := range m.rooms {
		s := domain.RoomSummary{
			ID:               r.id,
			Name:             r.name,
			Description:      r.description,
			ParticipantCount: len(r.members),
			MaxParticipants:  r.maxParticipants,
			CreatedAt:        r.createdAt,
			Settings:         r.settings,
		}
		if idx := r.indexOfUser(r.hostID); idx >= 0 {
			s.HostName = r.members[idx].Name
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Messages returns up to limit of the most recent messages of a room in
// append order, plus the number of messages retained. limit <= 0 returns
// the whole log.
func (m *Manager) Messages(roomID string, limit int) ([]domain.ChatMessage, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return nil, 0, ErrRoomNotFound
	}
	return r.log.last(limit), r.log.len(), nil
}

func (m *Manager) systemMessage(r *room, text string) domain.ChatMessage {
	msg := domain.ChatMessage{
		ID:        ulid.Make().String(),
		RoomID:    r.id,
		UserID:    domain.SystemUserID,
		UserName:  domain.SystemUserName,
		Message:   text,
		Timestamp: m.now(),
		Type:      domain.MessageTypeSystem,
	}
	r.log.append(msg)
	return msg
}

// dropUserIndex removes connID from the user index, falling back to the
// newest other live connection of the same user.
func (m *Manager) dropUserIndex(connID, userID string) {
	if m.users[userID] != connID {
		return
	}
	delete(m.users, userID)

	var best *session
	for id, s := range m.sessions {
		if id == connID || s.participant.UserID != userID {
			continue
		}
		if best == nil || s.seq > best.seq {
			best = s
		}
	}
	if best != nil {
		m.users[userID] = best.participant.ConnID
	}
}

func (r *room) indexOfUser(userID string) int {
	for i, p := range r.members {
		if p.UserID == userID {
			return i
		}
	}
	return -1
}

func (r *room) indexOfConn(connID string) int {
	for i, p := range r.members {
		if p.ConnID == connID {
			return i
		}
	}
	return -1
}

func (r *room) participants() []domain.Participant {
	out := make([]domain.Participant, len(r.members))
	for i, p := range r.members {
		out[i] = p.Clone()
	}
	return out
}

func (r *room) snapshot() *domain.Room {
	return &domain.Room{
		ID:              r.id,
		Name:            r.name,
		Description:     r.description,
		HostID:          r.hostID,
		Participants:    r.participants(),
		CreatedAt:       r.createdAt,
		MaxParticipants: r.maxParticipants,
		Settings:        r.settings,
		IsRecording:     r.recording,
	}
}

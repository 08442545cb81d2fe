package service

import (
	"context"
	"errors"
	"time"

	"github.com/weiawesome/wes-io-live/collab-service/internal/audit"
	"github.com/weiawesome/wes-io-live/collab-service/internal/domain"
	"github.com/weiawesome/wes-io-live/collab-service/internal/manager"
	pkglog "github.com/weiawesome/wes-io-live/collab-service/pkg/log"
	"github.com/weiawesome/wes-io-live/collab-service/pkg/pubsub"
)

const (
	DefaultHistoryReplay = 50

	reasonLeave      = "leave"
	reasonDisconnect = "disconnect"
)

var (
	ErrTokenRequired    = errors.New("identity token required")
	ErrIdentityMismatch = errors.New("token identity does not match user_id")
	ErrChatDisabled     = errors.New("chat is disabled in this room")
	ErrScreenShareOff   = errors.New("screen sharing is disabled in this room")
)

// Options tunes the service.
type Options struct {
	// HistoryReplay is the number of log entries sent to a joiner.
	HistoryReplay int
	// RequireToken rejects join_user without an identity token.
	RequireToken bool
}

type collabService struct {
	manager  *manager.Manager
	sender   Sender
	emitter  Emitter
	verifier TokenVerifier
	opts     Options
	now      func() time.Time
}

type nopEmitter struct{}

func (nopEmitter) Emit(string, string, interface{}) {}

// NewCollabService creates a new CollabService. emitter and verifier may be
// nil.
func NewCollabService(
	mgr *manager.Manager,
	sender Sender,
	emitter Emitter,
	verifier TokenVerifier,
	opts Options,
) CollabService {
	if emitter == nil {
		emitter = nopEmitter{}
	}
	if opts.HistoryReplay < 1 {
		opts.HistoryReplay = DefaultHistoryReplay
	}
	return &collabService{
		manager:  mgr,
		sender:   sender,
		emitter:  emitter,
		verifier: verifier,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *collabService) HandleConnect(ctx context.Context, connID string) error {
	s.sender.Send(connID, domain.NewFrame(domain.EventConnected, &domain.StatusPayload{
		Status: domain.StatusSuccess,
	}))
	return nil
}

func (s *collabService) HandleJoinUser(ctx context.Context, connID string, req *domain.JoinUserRequest) error {
	if err := s.verifyIdentity(req); err != nil {
		audit.LogWithDetail(ctx, audit.ActionAuthFailed, req.UserID, err.Error(), "identity token rejected")
		s.SendError(connID, domain.ErrCodeUnauthorized, "Invalid identity token")
		return err
	}

	p, err := s.manager.Register(connID, req.UserID, req.Name, req.Email)
	if err != nil {
		return s.reject(connID, err)
	}

	audit.Log(ctx, audit.ActionRegister, p.UserID, "user registered")

	s.sender.Send(connID, domain.NewFrame(domain.EventUserRegistered, &domain.UserRegisteredPayload{
		Status: domain.StatusSuccess,
		UserID: p.UserID,
	}))
	return nil
}

func (s *collabService) verifyIdentity(req *domain.JoinUserRequest) error {
	if req.Token == "" {
		if s.opts.RequireToken {
			return ErrTokenRequired
		}
		return nil
	}
	if s.verifier == nil {
		return nil
	}

	claims, err := s.verifier.ValidateToken(req.Token)
	if err != nil {
		return err
	}
	if claims.UserID != "" && claims.UserID != req.UserID {
		return ErrIdentityMismatch
	}
	return nil
}

func (s *collabService) HandleCreateRoom(ctx context.Context, connID string, req *domain.CreateRoomRequest) error {
	var cfg domain.RoomConfig
	if req != nil {
		cfg = *req
	}

	room, err := s.manager.CreateRoom(connID, cfg)
	if err != nil {
		return s.reject(connID, err)
	}

	audit.LogRoom(ctx, audit.ActionCreateRoom, room.HostID, room.ID, "room created")

	s.sender.Send(connID, domain.NewFrame(domain.EventRoomCreated, &domain.RoomPayload{
		Room:   room,
		Status: domain.StatusSuccess,
	}))

	s.emitter.Emit(pubsub.EventRoomCreated, room.ID, &pubsub.RoomPayload{
		RoomID: room.ID,
		Name:   room.Name,
		HostID: room.HostID,
	})
	return nil
}

func (s *collabService) HandleJoinRoom(ctx context.Context, connID string, req *domain.JoinRoomRequest) error {
	res, err := s.manager.JoinRoom(req.RoomID, connID)
	if err != nil {
		return s.reject(connID, err)
	}
	roomID := res.Room.ID

	audit.LogRoom(ctx, audit.ActionJoinRoom, res.Participant.UserID, roomID, "joined room")

	s.sender.Send(connID, domain.NewFrame(domain.EventRoomJoined, &domain.RoomPayload{
		Room:   res.Room,
		Status: domain.StatusSuccess,
	}))

	s.broadcastRoom(roomID, domain.EventParticipantJoined, &domain.ParticipantJoinedPayload{
		User:   res.Participant,
		RoomID: roomID,
	}, connID)
	s.broadcastRoom(roomID, domain.EventNewMessage, &res.Notice, connID)
	s.broadcastRoom(roomID, domain.EventParticipantsUpdated, &domain.ParticipantsUpdatedPayload{
		RoomID:       roomID,
		Participants: res.Room.Participants,
	}, "")

	history, _, err := s.manager.Messages(roomID, s.opts.HistoryReplay)
	if err == nil {
		s.sender.Send(connID, domain.NewFrame(domain.EventChatHistory, &domain.ChatHistoryPayload{
			Messages: history,
		}))
	}

	s.emitter.Emit(pubsub.EventParticipantJoined, roomID, &pubsub.ParticipantPayload{
		RoomID:   roomID,
		UserID:   res.Participant.UserID,
		UserName: res.Participant.Name,
	})
	return nil
}

func (s *collabService) HandleLeaveRoom(ctx context.Context, connID string) error {
	res, ok := s.manager.LeaveRoom(connID)
	if !ok {
		if _, registered := s.manager.Participant(connID); !registered {
			return s.reject(connID, manager.ErrNotRegistered)
		}
		return s.reject(connID, manager.ErrNotInRoom)
	}

	audit.LogRoom(ctx, audit.ActionLeaveRoom, res.Participant.UserID, res.RoomID, "left room")

	s.sender.Send(connID, domain.NewFrame(domain.EventRoomLeft, &domain.RoomLeftPayload{
		Status: domain.StatusSuccess,
		RoomID: res.RoomID,
	}))

	s.announceDeparture(ctx, res, reasonLeave)
	return nil
}

func (s *collabService) HandleSendMessage(ctx context.Context, connID string, req *domain.SendMessageRequest) error {
	p, ok := s.manager.Participant(connID)
	if !ok {
		return s.reject(connID, manager.ErrNotRegistered)
	}
	if !p.InRoom() {
		return s.reject(connID, manager.ErrNotInRoom)
	}

	settings, ok := s.manager.RoomSettings(p.RoomID)
	if !ok {
		return s.reject(connID, manager.ErrRoomNotFound)
	}
	if !settings.AllowChat {
		return s.reject(connID, ErrChatDisabled)
	}

	msg, err := s.manager.AddMessage(p.RoomID, p.UserID, req.Message)
	if err != nil {
		return s.reject(connID, err)
	}

	audit.LogRoom(ctx, audit.ActionSendMessage, p.UserID, p.RoomID, "message sent")

	s.broadcastRoom(p.RoomID, domain.EventNewMessage, msg, "")

	s.emitter.Emit(pubsub.EventMessagePosted, p.RoomID, &pubsub.MessagePayload{
		RoomID:    msg.RoomID,
		MessageID: msg.ID,
		UserID:    msg.UserID,
		UserName:  msg.UserName,
		Message:   msg.Message,
		Type:      msg.Type,
	})
	return nil
}

func (s *collabService) HandleOffer(ctx context.Context, connID string, req *domain.OfferRequest) error {
	return s.routeToPeer(ctx, connID, domain.EventWebRTCOffer, req.TargetUserID, func(from string) interface{} {
		return &domain.OfferPayload{FromUserID: from, Offer: req.Offer}
	})
}

func (s *collabService) HandleAnswer(ctx context.Context, connID string, req *domain.AnswerRequest) error {
	return s.routeToPeer(ctx, connID, domain.EventWebRTCAnswer, req.TargetUserID, func(from string) interface{} {
		return &domain.AnswerPayload{FromUserID: from, Answer: req.Answer}
	})
}

func (s *collabService) HandleICECandidate(ctx context.Context, connID string, req *domain.ICECandidateRequest) error {
	return s.routeToPeer(ctx, connID, domain.EventWebRTCICECandidate, req.TargetUserID, func(from string) interface{} {
		return &domain.ICECandidatePayload{FromUserID: from, Candidate: req.Candidate}
	})
}

func (s *collabService) HandleToggleMedia(ctx context.Context, connID string, kind manager.MediaKind, enabled bool) error {
	p, err := s.manager.SetMedia(connID, kind, enabled)
	if err != nil {
		// Toggles outside a room are ignored.
		return nil
	}

	event := domain.EventParticipantVideoToggle
	if kind == manager.MediaAudio {
		event = domain.EventParticipantAudioToggle
	}
	s.broadcastRoom(p.RoomID, event, &domain.MediaToggledPayload{
		UserID:  p.UserID,
		Enabled: enabled,
	}, connID)
	return nil
}

func (s *collabService) HandleScreenShare(ctx context.Context, connID string, started bool) error {
	p, ok := s.manager.Participant(connID)
	if !ok || !p.InRoom() {
		return nil
	}

	event := domain.EventScreenShareStopped
	if started {
		settings, ok := s.manager.RoomSettings(p.RoomID)
		if !ok {
			return nil
		}
		if !settings.AllowScreenShare {
			return s.reject(connID, ErrScreenShareOff)
		}
		event = domain.EventScreenShareStarted
	}

	s.broadcastRoom(p.RoomID, event, &domain.ScreenSharePayload{
		UserID:   p.UserID,
		UserName: p.Name,
	}, connID)
	return nil
}

func (s *collabService) HandleGetRoomInfo(ctx context.Context, connID string, req *domain.GetRoomInfoRequest) error {
	room, ok := s.manager.Room(req.RoomID)
	if !ok {
		return s.reject(connID, manager.ErrRoomNotFound)
	}
	s.sender.Send(connID, domain.NewFrame(domain.EventRoomInfo, room))
	return nil
}

func (s *collabService) HandlePing(ctx context.Context, connID string) error {
	s.sender.Send(connID, domain.NewFrame(domain.EventPong, &domain.PongPayload{
		Timestamp: s.now(),
	}))
	return nil
}

func (s *collabService) HandleDisconnect(ctx context.Context, connID string) error {
	res, p, ok := s.manager.Unregister(connID)
	if !ok {
		return nil
	}

	audit.Log(ctx, audit.ActionDisconnect, p.UserID, "connection closed")

	if res != nil {
		s.announceDeparture(ctx, res, reasonDisconnect)
	}
	return nil
}

func (s *collabService) SendError(connID, code, message string) {
	s.sender.Send(connID, domain.NewErrorFrame(code, message))
}

// announceDeparture tells the remaining members who left, who hosts now and
// who is still in the room. A closed room has nobody left to tell.
func (s *collabService) announceDeparture(ctx context.Context, res *manager.LeaveResult, reason string) {
	s.emitter.Emit(pubsub.EventParticipantLeft, res.RoomID, &pubsub.ParticipantPayload{
		RoomID:   res.RoomID,
		UserID:   res.Participant.UserID,
		UserName: res.Participant.Name,
		Reason:   reason,
	})

	if res.Closed {
		audit.LogRoom(ctx, audit.ActionRoomClosed, res.Participant.UserID, res.RoomID, "room closed")
		s.emitter.Emit(pubsub.EventRoomClosed, res.RoomID, &pubsub.RoomPayload{RoomID: res.RoomID})
		return
	}

	s.broadcastRoom(res.RoomID, domain.EventParticipantLeft, &domain.ParticipantLeftPayload{
		UserID:   res.Participant.UserID,
		UserName: res.Participant.Name,
		RoomID:   res.RoomID,
	}, "")

	if res.NewHost != nil {
		audit.LogRoom(ctx, audit.ActionHostChanged, res.NewHost.UserID, res.RoomID, "host reassigned")
		s.broadcastRoom(res.RoomID, domain.EventHostChanged, &domain.HostChangedPayload{
			RoomID:   res.RoomID,
			HostID:   res.NewHost.UserID,
			HostName: res.NewHost.Name,
		}, "")
		s.emitter.Emit(pubsub.EventHostChanged, res.RoomID, &pubsub.HostChangedPayload{
			RoomID:     res.RoomID,
			PreviousID: res.Participant.UserID,
			HostID:     res.NewHost.UserID,
		})
	}

	if res.Notice != nil {
		s.broadcastRoom(res.RoomID, domain.EventNewMessage, res.Notice, "")
	}

	s.broadcastRoom(res.RoomID, domain.EventParticipantsUpdated, &domain.ParticipantsUpdatedPayload{
		RoomID:       res.RoomID,
		Participants: res.Participants,
	}, "")
}

// reject sends the error frame matching err to the connection and returns
// err.
func (s *collabService) reject(connID string, err error) error {
	code, message := errorCode(err)
	s.SendError(connID, code, message)
	return err
}

func errorCode(err error) (string, string) {
	switch {
	case errors.Is(err, manager.ErrNotRegistered):
		return domain.ErrCodeNotRegistered, "User not registered"
	case errors.Is(err, manager.ErrRoomNotFound):
		return domain.ErrCodeRoomNotFound, "Room not found"
	case errors.Is(err, manager.ErrRoomFull):
		return domain.ErrCodeRoomFull, "Failed to join room"
	case errors.Is(err, manager.ErrAlreadyMember):
		return domain.ErrCodeAlreadyMember, "Failed to join room"
	case errors.Is(err, manager.ErrAlreadyInRoom):
		return domain.ErrCodeAlreadyInRoom, "Already in a room"
	case errors.Is(err, manager.ErrNotInRoom):
		return domain.ErrCodeNotInRoom, "Not in a room"
	case errors.Is(err, ErrChatDisabled):
		return domain.ErrCodeChatDisabled, "Chat is disabled in this room"
	case errors.Is(err, ErrScreenShareOff):
		return domain.ErrCodeScreenShareDisabled, "Screen sharing is disabled in this room"
	default:
		l := pkglog.L()
		l.Error().Err(err).Msg("unexpected collaboration error")
		return domain.ErrCodeInternalError, "Internal server error"
	}
}

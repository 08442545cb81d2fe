package service

import (
	"context"

	"github.com/weiawesome/wes-io-live/collab-service/internal/domain"
	"github.com/weiawesome/wes-io-live/collab-service/internal/manager"
	"github.com/weiawesome/wes-io-live/collab-service/pkg/jwt"
)

// Sender delivers an encoded frame to one connection without blocking.
type Sender interface {
	Send(connID string, v interface{}) bool
}

// Emitter receives room lifecycle events for consumers outside the process.
type Emitter interface {
	Emit(eventType, roomID string, payload interface{})
}

// TokenVerifier validates identity tokens presented on join_user.
type TokenVerifier interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// CollabService handles collaboration events for one connection at a time.
// Rejections are reported to the originating connection as error frames and
// returned to the caller for logging.
type CollabService interface {
	// HandleConnect greets a newly accepted connection.
	HandleConnect(ctx context.Context, connID string) error

	// HandleJoinUser binds an identity to the connection.
	HandleJoinUser(ctx context.Context, connID string, req *domain.JoinUserRequest) error

	// HandleCreateRoom creates a room hosted by the connection's user.
	HandleCreateRoom(ctx context.Context, connID string, req *domain.CreateRoomRequest) error

	// HandleJoinRoom adds the connection's user to an existing room.
	HandleJoinRoom(ctx context.Context, connID string, req *domain.JoinRoomRequest) error

	// HandleLeaveRoom removes the connection's user from its room.
	HandleLeaveRoom(ctx context.Context, connID string) error

	// HandleSendMessage appends a chat message and broadcasts it.
	HandleSendMessage(ctx context.Context, connID string, req *domain.SendMessageRequest) error

	// HandleOffer relays a WebRTC offer to the addressed peer.
	HandleOffer(ctx context.Context, connID string, req *domain.OfferRequest) error

	// HandleAnswer relays a WebRTC answer to the addressed peer.
	HandleAnswer(ctx context.Context, connID string, req *domain.AnswerRequest) error

	// HandleICECandidate relays an ICE candidate to the addressed peer.
	HandleICECandidate(ctx context.Context, connID string, req *domain.ICECandidateRequest) error

	// HandleToggleMedia updates the video or audio flag and notifies the room.
	HandleToggleMedia(ctx context.Context, connID string, kind manager.MediaKind, enabled bool) error

	// HandleScreenShare announces a screen share start or stop to the room.
	HandleScreenShare(ctx context.Context, connID string, started bool) error

	// HandleGetRoomInfo returns a room snapshot to the connection.
	HandleGetRoomInfo(ctx context.Context, connID string, req *domain.GetRoomInfoRequest) error

	// HandlePing answers a keepalive.
	HandlePing(ctx context.Context, connID string) error

	// HandleDisconnect runs leave semantics and drops the session. It is
	// safe to call more than once.
	HandleDisconnect(ctx context.Context, connID string) error

	// SendError reports a failure to one connection.
	SendError(connID, code, message string)
}

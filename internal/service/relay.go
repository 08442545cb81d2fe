package service

import (
	"context"

	"github.com/weiawesome/wes-io-live/collab-service/internal/domain"
	"github.com/weiawesome/wes-io-live/collab-service/internal/manager"
	pkglog "github.com/weiawesome/wes-io-live/collab-service/pkg/log"
)

// routeToPeer delivers a signaling payload to targetUserID, preferring its
// connection in the sender's room. An unknown target is not an error: nothing is sent and
// the sender's client times the attempt out.
func (s *collabService) routeToPeer(
	ctx context.Context,
	connID, event, targetUserID string,
	build func(fromUserID string) interface{},
) error {
	from, ok := s.manager.Participant(connID)
	if !ok {
		return s.reject(connID, manager.ErrNotRegistered)
	}

	target, ok := s.manager.PeerConn(from.RoomID, targetUserID)
	if !ok {
		l := pkglog.Ctx(ctx)
		l.Debug().
			Str(pkglog.FieldEvent, event).
			Str("target_user_id", targetUserID).
			Msg("relay target not connected, dropping")
		return nil
	}

	s.sender.Send(target, domain.NewFrame(event, build(from.UserID)))
	return nil
}

// broadcastRoom sends one event to every current member of a room except
// excludeConnID. Recipients are read from the room store at send time.
func (s *collabService) broadcastRoom(roomID, event string, payload interface{}, excludeConnID string) {
	frame := domain.NewFrame(event, payload)
	for _, connID := range s.manager.MemberConns(roomID) {
		if connID == excludeConnID {
			continue
		}
		s.sender.Send(connID, frame)
	}
}

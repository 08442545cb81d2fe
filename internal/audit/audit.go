package audit

import (
	"context"

	"github.com/weiawesome/wes-io-live/collab-service/pkg/log"
)

// Audit actions for collab-service.
const (
	ActionRegister    = "collab.register"
	ActionAuthFailed  = "collab.auth_failed"
	ActionCreateRoom  = "collab.create_room"
	ActionJoinRoom    = "collab.join_room"
	ActionLeaveRoom   = "collab.leave_room"
	ActionSendMessage = "collab.send_message"
	ActionDisconnect  = "collab.disconnect"
	ActionHostChanged = "collab.host_changed"
	ActionRoomClosed  = "collab.room_closed"
)

// Field constants for audit entries.
const (
	FieldAction   = "action"
	FieldTargetID = "target_id"
	FieldDetail   = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, userID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Msg(msg)
}

// LogRoom emits an audit entry scoped to a room.
func LogRoom(ctx context.Context, action, userID, roomID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(FieldTargetID, roomID).
		Msg(msg)
}

// LogWithDetail emits an audit log with extra detail field.
func LogWithDetail(ctx context.Context, action, userID, detail, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(FieldDetail, detail).
		Msg(msg)
}

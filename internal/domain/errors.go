package domain

// Error codes sent alongside the human readable message.
const (
	ErrCodeNotRegistered       = "NOT_REGISTERED"
	ErrCodeRoomNotFound        = "ROOM_NOT_FOUND"
	ErrCodeRoomFull            = "ROOM_FULL"
	ErrCodeAlreadyMember       = "ALREADY_MEMBER"
	ErrCodeAlreadyInRoom       = "ALREADY_IN_ROOM"
	ErrCodeNotInRoom           = "NOT_IN_ROOM"
	ErrCodeChatDisabled        = "CHAT_DISABLED"
	ErrCodeScreenShareDisabled = "SCREEN_SHARE_DISABLED"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnknownEvent        = "UNKNOWN_EVENT"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// ErrorPayload is the data of an error event.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorFrame creates an error event.
func NewErrorFrame(code, message string) *Frame {
	return NewFrame(EventError, &ErrorPayload{
		Code:    code,
		Message: message,
	})
}

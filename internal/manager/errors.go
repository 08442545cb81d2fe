package manager

import "errors"

var (
	ErrNotRegistered = errors.New("user not registered")
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyMember = errors.New("user is already a member of the room")
	ErrAlreadyInRoom = errors.New("connection is already in a room")
	ErrNotInRoom     = errors.New("not in a room")
)

package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrUnknownParticipant = errors.New("participant is not a member of this room")

	// Choice errors
	ErrInvalidChoice = errors.New("choice must be rock, paper or scissors")
)

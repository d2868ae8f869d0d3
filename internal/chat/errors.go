package chat

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain failures an action can produce. Callers match
// with errors.Is; the client-facing text travels on the wrapping domainError.
var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrAlreadyMember      = errors.New("already in room")
	ErrNotInRoom          = errors.New("not in a room")
	ErrCodeSpaceExhausted = errors.New("room code space exhausted")
)

// domainError pairs a sentinel with the exact text sent to the initiating
// connection as an error event. Domain errors are terminal for the single
// action only and never mutate state.
type domainError struct {
	cause error
	text  string
}

func (e *domainError) Error() string { return e.text }
func (e *domainError) Unwrap() error { return e.cause }

func roomNotFound(code string) error {
	return &domainError{
		cause: ErrRoomNotFound,
		text:  fmt.Sprintf("Room with code '%s' does not exist.", code),
	}
}

func alreadyMember(code string) error {
	return &domainError{
		cause: ErrAlreadyMember,
		text:  fmt.Sprintf("You are already in the room '%s'.", code),
	}
}

func notInRoom() error {
	return &domainError{
		cause: ErrNotInRoom,
		text:  "You are not in a room. Join or create a room first.",
	}
}

func codeSpaceExhausted() error {
	return &domainError{
		cause: ErrCodeSpaceExhausted,
		text:  "Unable to allocate a room code. Please try again.",
	}
}

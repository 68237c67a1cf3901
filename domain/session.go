package domain

import "chat-rooms/errors"

// State is the protocol position of one connection.
//
// Transitions:
//
//	unauthenticated → authenticated → in_room
//	in_room → authenticated (explicit leave or room switch)
//	any → closed (disconnect)
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
	StateInRoom          State = "in_room"
	StateClosed          State = "closed"
)

// Session is the mutable protocol context of a single connection.
// It is owned exclusively by that connection's goroutine and is never
// shared, so it carries no synchronization.
type Session struct {
	ConnID      string
	DisplayName string
	CurrentRoom string
	state       State
}

func NewSession(connID string) *Session {
	return &Session{ConnID: connID, state: StateUnauthenticated}
}

func (s *Session) State() State {
	return s.state
}

// Authenticate records the display name chosen by the client.
// Only a fresh session may authenticate: a second connect on the same
// connection is a protocol violation, not a rename.
func (s *Session) Authenticate(name string) error {
	switch s.state {
	case StateClosed:
		return errors.ErrSessionClosed
	case StateUnauthenticated:
		s.DisplayName = name
		s.state = StateAuthenticated
		return nil
	default:
		return errors.ErrAlreadyConnected
	}
}

// EnterRoom moves the session into a room. Allowed from authenticated and
// from in_room (room switch); the caller is responsible for the leave side
// effects of the previous room.
func (s *Session) EnterRoom(room string) error {
	switch s.state {
	case StateClosed:
		return errors.ErrSessionClosed
	case StateUnauthenticated:
		return errors.ErrNotConnected
	default:
		s.CurrentRoom = room
		s.state = StateInRoom
		return nil
	}
}

// LeaveRoom returns the session to the authenticated state.
func (s *Session) LeaveRoom() error {
	if s.state != StateInRoom {
		return errors.ErrNotInRoom
	}
	s.CurrentRoom = ""
	s.state = StateAuthenticated
	return nil
}

// Close marks the session terminated. Closing twice is harmless.
func (s *Session) Close() {
	s.CurrentRoom = ""
	s.state = StateClosed
}

func (s *Session) Authenticated() bool {
	return s.state == StateAuthenticated || s.state == StateInRoom
}

func (s *Session) InRoom() bool {
	return s.state == StateInRoom
}

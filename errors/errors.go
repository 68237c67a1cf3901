package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrRoomExists       = fmt.Errorf("room already exists")
	ErrNotConnected     = fmt.Errorf("not connected")
	ErrAlreadyConnected = fmt.Errorf("already connected")
	ErrNotInRoom        = fmt.Errorf("not in a room")
	ErrEmptyName        = fmt.Errorf("empty name")
	ErrSessionClosed    = fmt.Errorf("session closed")
	ErrUnknownType      = fmt.Errorf("unknown message type")
	ErrMalformedPayload = fmt.Errorf("malformed payload")
	ErrSlowConsumer     = fmt.Errorf("outbound buffer full")
)

// Package protocol defines the wire messages exchanged with clients.
// Every frame is one JSON object carrying a mandatory "type" discriminator;
// the remaining fields depend on the type.
package protocol

import (
	"encoding/json"

	"chat-rooms/errors"
)

// Client → server message types.
const (
	TypeConnect    = "connect"
	TypeCreateRoom = "create_room"
	TypeJoinRoom   = "join_room"
	TypeMessage    = "message"
	TypeLeave      = "leave"
	TypeListRooms  = "list_rooms"
)

// Envelope carries only the discriminator. Dispatch reads it first, then
// the matched handler decodes the full payload for its type.
type Envelope struct {
	Type string `json:"type"`
}

// DecodeEnvelope extracts the type discriminator from a raw frame.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, errors.ErrMalformedPayload
	}
	return env, nil
}

type ConnectRequest struct {
	Type     string `json:"type"`
	Username string `json:"username" validate:"required"`
}

type CreateRoomRequest struct {
	Type     string `json:"type"`
	RoomName string `json:"roomName" validate:"required"`
}

type JoinRoomRequest struct {
	Type     string `json:"type"`
	RoomName string `json:"roomName" validate:"required"`
}

type MessageRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// DecodePayload unmarshals a raw frame into the typed request for its
// discriminator, mapping JSON failures to the protocol error.
func DecodePayload(raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.ErrMalformedPayload
	}
	return nil
}

package protocol

import (
	"fmt"
	"time"

	"chat-rooms/domain"
)

// Server → client message types.
const (
	TypeConnected  = "connected"
	TypeRooms      = "rooms"
	TypeJoined     = "joined"
	TypeChat       = "chat"
	TypeUserJoined = "user_joined"
	TypeUserLeft   = "user_left"
	TypeError      = "error"
)

// Outbound is the closed set of server-to-client messages. Every variant
// serializes to a flat JSON object whose "type" field identifies it.
type Outbound interface {
	MessageType() string
}

type Connected struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type RoomList struct {
	Type  string            `json:"type"`
	Rooms []domain.RoomInfo `json:"rooms"`
}

type Joined struct {
	Type    string   `json:"type"`
	Room    string   `json:"room"`
	Members []string `json:"members"`
}

type Chat struct {
	Type      string `json:"type"`
	Room      string `json:"room"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type UserJoined struct {
	Type      string   `json:"type"`
	Name      string   `json:"name"`
	Timestamp string   `json:"timestamp"`
	Members   []string `json:"members"`
}

type UserLeft struct {
	Type      string   `json:"type"`
	Name      string   `json:"name"`
	Timestamp string   `json:"timestamp"`
	Members   []string `json:"members"`
}

type ErrorReply struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (m Connected) MessageType() string  { return m.Type }
func (m RoomList) MessageType() string   { return m.Type }
func (m Joined) MessageType() string     { return m.Type }
func (m Chat) MessageType() string       { return m.Type }
func (m UserJoined) MessageType() string { return m.Type }
func (m UserLeft) MessageType() string   { return m.Type }
func (m ErrorReply) MessageType() string { return m.Type }

// Now is the textual timestamp stamped on chat and presence messages.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func NewConnected(name string) Connected {
	return Connected{Type: TypeConnected, Message: fmt.Sprintf("Welcome, %s!", name)}
}

func NewRoomList(rooms []domain.RoomInfo) RoomList {
	if rooms == nil {
		rooms = []domain.RoomInfo{}
	}
	return RoomList{Type: TypeRooms, Rooms: rooms}
}

func NewJoined(room string, members []string) Joined {
	return Joined{Type: TypeJoined, Room: room, Members: members}
}

func NewChat(room, sender, content string) Chat {
	return Chat{Type: TypeChat, Room: room, Sender: sender, Content: content, Timestamp: Now()}
}

func NewUserJoined(name string, members []string) UserJoined {
	return UserJoined{Type: TypeUserJoined, Name: name, Timestamp: Now(), Members: members}
}

func NewUserLeft(name string, members []string) UserLeft {
	return UserLeft{Type: TypeUserLeft, Name: name, Timestamp: Now(), Members: members}
}

func NewError(reason string) ErrorReply {
	return ErrorReply{Type: TypeError, Message: reason}
}

package runtime

import (
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/errors"
	"chat-rooms/protocol"
)

// Handlers holds the per-message-type logic of the chat protocol. Each
// handler validates the session state and the payload, mutates the
// registry, and emits the replies and broadcasts its message type calls
// for. Validation failures are answered to the sender and never mutate
// any state.
type Handlers struct {
	log       *slog.Logger
	registry  contract.IRegistry
	broadcast *Broadcaster
	validate  *validator.Validate
}

func NewHandlers(log *slog.Logger, registry contract.IRegistry, broadcast *Broadcaster) *Handlers {
	return &Handlers{
		log:       log,
		registry:  registry,
		broadcast: broadcast,
		validate:  validator.New(),
	}
}

// NewChatDispatcher builds the routing table for every inbound message
// type, with unmatched types falling through to HandleUnknown.
func NewChatDispatcher(log *slog.Logger, h *Handlers) *Dispatcher {
	return NewDispatcher(log, h.HandleUnknown).
		Register(protocol.TypeConnect, h.HandleConnect).
		Register(protocol.TypeCreateRoom, h.HandleCreateRoom).
		Register(protocol.TypeJoinRoom, h.HandleJoinRoom).
		Register(protocol.TypeMessage, h.HandleMessage).
		Register(protocol.TypeLeave, h.HandleLeave).
		Register(protocol.TypeListRooms, h.HandleListRooms)
}

// HandleConnect authenticates a fresh connection with its display name and
// answers with the welcome message and the current room list.
func (h *Handlers) HandleConnect(sess *domain.Session, sink contract.EventSink, raw []byte) error {
	if sess.State() != domain.StateUnauthenticated {
		h.reply(sink, protocol.NewError("already connected"))
		return errors.ErrAlreadyConnected
	}

	var req protocol.ConnectRequest
	if err := protocol.DecodePayload(raw, &req); err != nil {
		h.reply(sink, protocol.NewError("invalid JSON"))
		return err
	}
	if err := h.validate.Struct(req); err != nil {
		h.reply(sink, protocol.NewError("empty username"))
		return errors.ErrEmptyName
	}
	name := domain.SanitizeName(req.Username)
	if name == "" {
		h.reply(sink, protocol.NewError("empty username"))
		return errors.ErrEmptyName
	}

	h.registry.Connect(sess.ConnID, name, sink)
	if err := sess.Authenticate(name); err != nil {
		return err
	}

	h.log.Info("User connected", "conn_id", sess.ConnID, "name", name)
	h.reply(sink, protocol.NewConnected(name))
	h.reply(sink, protocol.NewRoomList(h.registry.ListRooms()))
	return nil
}

// HandleCreateRoom creates a room and, on success, moves the creator into
// it. Creating an existing room is answered with an error and changes
// nothing.
func (h *Handlers) HandleCreateRoom(sess *domain.Session, sink contract.EventSink, raw []byte) error {
	if !sess.Authenticated() {
		h.reply(sink, protocol.NewError("not connected"))
		return errors.ErrNotConnected
	}

	var req protocol.CreateRoomRequest
	if err := protocol.DecodePayload(raw, &req); err != nil {
		h.reply(sink, protocol.NewError("invalid JSON"))
		return err
	}
	if err := h.validate.Struct(req); err != nil {
		h.reply(sink, protocol.NewError("empty room name"))
		return errors.ErrEmptyName
	}
	roomName := domain.SanitizeName(req.RoomName)
	if roomName == "" {
		h.reply(sink, protocol.NewError("empty room name"))
		return errors.ErrEmptyName
	}

	if !h.registry.CreateRoom(roomName) {
		h.reply(sink, protocol.NewError("room already exists"))
		return errors.ErrRoomExists
	}

	h.log.Info("Room created", "room", roomName, "by", sess.DisplayName)
	return h.moveToRoom(sess, sink, roomName)
}

// HandleJoinRoom moves the connection into a room, creating it on first
// join. Switching rooms performs the leave side effects for the previous
// room first.
func (h *Handlers) HandleJoinRoom(sess *domain.Session, sink contract.EventSink, raw []byte) error {
	if !sess.Authenticated() {
		h.reply(sink, protocol.NewError("not connected"))
		return errors.ErrNotConnected
	}

	var req protocol.JoinRoomRequest
	if err := protocol.DecodePayload(raw, &req); err != nil {
		h.reply(sink, protocol.NewError("invalid JSON"))
		return err
	}
	if err := h.validate.Struct(req); err != nil {
		h.reply(sink, protocol.NewError("empty room name"))
		return errors.ErrEmptyName
	}
	roomName := domain.SanitizeName(req.RoomName)
	if roomName == "" {
		h.reply(sink, protocol.NewError("empty room name"))
		return errors.ErrEmptyName
	}

	return h.moveToRoom(sess, sink, roomName)
}

// HandleMessage fans a chat line out to the sender's current room,
// including the sender. Blank content is dropped without a reply.
func (h *Handlers) HandleMessage(sess *domain.Session, sink contract.EventSink, raw []byte) error {
	if !sess.InRoom() {
		h.reply(sink, protocol.NewError("not in a room"))
		return errors.ErrNotInRoom
	}

	var req protocol.MessageRequest
	if err := protocol.DecodePayload(raw, &req); err != nil {
		h.reply(sink, protocol.NewError("invalid JSON"))
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil
	}

	h.broadcast.ToRoom(sess.CurrentRoom, protocol.NewChat(sess.CurrentRoom, sess.DisplayName, content))
	return nil
}

// HandleLeave takes the connection out of its room and back to the
// authenticated state.
func (h *Handlers) HandleLeave(sess *domain.Session, sink contract.EventSink, _ []byte) error {
	if !sess.InRoom() {
		h.reply(sink, protocol.NewError("not in a room"))
		return errors.ErrNotInRoom
	}
	h.leaveSideEffects(sess)
	return nil
}

// HandleListRooms answers the sender, and only the sender, with the
// current room list.
func (h *Handlers) HandleListRooms(sess *domain.Session, sink contract.EventSink, _ []byte) error {
	if !sess.Authenticated() {
		h.reply(sink, protocol.NewError("not connected"))
		return errors.ErrNotConnected
	}
	h.reply(sink, protocol.NewRoomList(h.registry.ListRooms()))
	return nil
}

// HandleUnknown is the default branch of the dispatch table.
func (h *Handlers) HandleUnknown(_ *domain.Session, sink contract.EventSink, _ []byte) error {
	h.reply(sink, protocol.NewError("unknown message type"))
	return errors.ErrUnknownType
}

// HandleDisconnect runs the cleanup for a lost connection: registry
// removal plus, when the connection was in a room, the same presence
// broadcasts an explicit leave would have produced. The transport layer
// guarantees it runs at most once per connection.
func (h *Handlers) HandleDisconnect(sess *domain.Session) {
	name := sess.DisplayName
	roomName, left := h.registry.Disconnect(sess.ConnID)
	sess.Close()

	if !left {
		return
	}
	h.log.Info("User disconnected", "conn_id", sess.ConnID, "name", name, "room", roomName)
	h.broadcast.ToRoom(roomName, protocol.NewUserLeft(name, h.registry.MemberNames(roomName)))
	h.broadcast.ToAll(protocol.NewRoomList(h.registry.ListRooms()))
}

// moveToRoom performs the join choreography shared by join_room and a
// successful create_room: leave side effects for the previous room, the
// registry move, the joined reply, and the presence and room-list
// broadcasts.
func (h *Handlers) moveToRoom(sess *domain.Session, sink contract.EventSink, roomName string) error {
	if sess.InRoom() && sess.CurrentRoom == roomName {
		// Re-joining the current room: membership is untouched.
		h.reply(sink, protocol.NewJoined(roomName, h.registry.MemberNames(roomName)))
		return nil
	}
	if sess.InRoom() {
		h.leaveSideEffects(sess)
	}

	h.registry.Join(sess.ConnID, sess.DisplayName, roomName)
	if err := sess.EnterRoom(roomName); err != nil {
		return err
	}

	members := h.registry.MemberNames(roomName)
	h.log.Info("User joined room", "room", roomName, "name", sess.DisplayName, "members", len(members))
	h.reply(sink, protocol.NewJoined(roomName, members))
	h.broadcast.ToRoom(roomName, protocol.NewUserJoined(sess.DisplayName, members))
	h.broadcast.ToAll(protocol.NewRoomList(h.registry.ListRooms()))
	return nil
}

// leaveSideEffects removes the connection from its current room and emits
// the user_left broadcast to the remaining members plus the global
// room-list refresh.
func (h *Handlers) leaveSideEffects(sess *domain.Session) {
	roomName, left := h.registry.Leave(sess.ConnID)
	if !left {
		return
	}
	if err := sess.LeaveRoom(); err != nil {
		h.log.Warn("Session out of sync with registry", "conn_id", sess.ConnID, "error", err)
	}

	h.log.Info("User left room", "room", roomName, "name", sess.DisplayName)
	h.broadcast.ToRoom(roomName, protocol.NewUserLeft(sess.DisplayName, h.registry.MemberNames(roomName)))
	h.broadcast.ToAll(protocol.NewRoomList(h.registry.ListRooms()))
}

func (h *Handlers) reply(sink contract.EventSink, msg protocol.Outbound) {
	if err := sink.Consume(msg); err != nil {
		h.log.Debug("Failed to reply to sender", "type", msg.MessageType(), "error", err)
	}
}

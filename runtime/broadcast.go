package runtime

import (
	"log/slog"

	"chat-rooms/contract"
	"chat-rooms/protocol"
)

// Broadcaster implements the two fan-out strategies: room-scoped and
// global. Delivery is best-effort per recipient: a sink that refuses the
// message is logged and skipped, and the rest of the recipients still get
// their copy. No delivery failure ever reaches the caller.
type Broadcaster struct {
	log      *slog.Logger
	registry contract.IRegistry
}

func NewBroadcaster(log *slog.Logger, registry contract.IRegistry) *Broadcaster {
	return &Broadcaster{log: log, registry: registry}
}

// ToRoom delivers msg to every current member of roomName. The member list
// is snapshotted before iterating, so concurrent joins and leaves cannot
// disturb the recipient set.
func (b *Broadcaster) ToRoom(roomName string, msg protocol.Outbound) {
	b.deliver(b.registry.SinksForRoom(roomName), msg)
}

// ToAll delivers msg to every identified connection, in or out of a room.
func (b *Broadcaster) ToAll(msg protocol.Outbound) {
	b.deliver(b.registry.AllSinks(), msg)
}

func (b *Broadcaster) deliver(sinks []contract.EventSink, msg protocol.Outbound) {
	for _, sink := range sinks {
		if err := sink.Consume(msg); err != nil {
			b.log.Debug("Dropping message for one recipient",
				"type", msg.MessageType(), "error", err)
		}
	}
}

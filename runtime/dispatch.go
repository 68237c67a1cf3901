package runtime

import (
	"log/slog"

	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/protocol"
)

// HandlerFunc processes one inbound frame for one connection. sess is the
// connection's mutable protocol context and sink its reply channel; raw is
// the full frame, which the handler decodes into its own payload type.
type HandlerFunc func(sess *domain.Session, sink contract.EventSink, raw []byte) error

// Dispatcher routes an inbound frame to the handler registered for its
// type discriminator. Exactly one handler runs per frame: the match is an
// exact type lookup, and anything unmatched falls to the default handler.
type Dispatcher struct {
	log      *slog.Logger
	handlers map[string]HandlerFunc
	fallback HandlerFunc
}

func NewDispatcher(log *slog.Logger, fallback HandlerFunc) *Dispatcher {
	return &Dispatcher{
		log:      log,
		handlers: make(map[string]HandlerFunc),
		fallback: fallback,
	}
}

// Register binds a message type to its handler. Re-registering a type
// replaces the previous handler.
func (d *Dispatcher) Register(msgType string, h HandlerFunc) *Dispatcher {
	d.handlers[msgType] = h
	return d
}

// Dispatch decodes the frame's discriminator and runs the matching
// handler. A frame that is not a JSON object, or whose type is unknown,
// goes to the fallback. Handler errors are reported to the sender by the
// handlers themselves; Dispatch only logs them.
func (d *Dispatcher) Dispatch(sess *domain.Session, sink contract.EventSink, raw []byte) {
	env, err := protocol.DecodeEnvelope(raw)
	if err != nil {
		d.reply(sink, protocol.NewError("invalid JSON"))
		return
	}

	handler, ok := d.handlers[env.Type]
	if !ok {
		handler = d.fallback
	}
	if err := handler(sess, sink, raw); err != nil {
		d.log.Debug("Handler rejected message",
			"type", env.Type, "conn_id", sess.ConnID, "error", err)
	}
}

func (d *Dispatcher) reply(sink contract.EventSink, msg protocol.Outbound) {
	if err := sink.Consume(msg); err != nil {
		d.log.Debug("Failed to reply to sender", "error", err)
	}
}

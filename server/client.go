package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"chat-rooms/domain"
	"chat-rooms/errors"
	"chat-rooms/protocol"
	"chat-rooms/runtime"
)

// Client binds one websocket connection to its session. The read loop
// dispatches inbound frames sequentially, so the effects of messages from
// one connection are always observed in submission order; writes go
// through a buffered channel drained by a single writer goroutine.
type Client struct {
	id         string
	sess       *domain.Session
	conn       *websocket.Conn
	log        *slog.Logger
	dispatcher *runtime.Dispatcher
	handlers   *runtime.Handlers

	out  chan protocol.Outbound
	done chan struct{}

	closeOnce   sync.Once
	cleanupOnce sync.Once
}

func NewClient(id string, conn *websocket.Conn, log *slog.Logger,
	dispatcher *runtime.Dispatcher, handlers *runtime.Handlers, bufferSize int) *Client {
	return &Client{
		id:         id,
		sess:       domain.NewSession(id),
		conn:       conn,
		log:        log,
		dispatcher: dispatcher,
		handlers:   handlers,
		out:        make(chan protocol.Outbound, bufferSize),
		done:       make(chan struct{}),
	}
}

// Consume is called by broadcasts and replies. It only queues: the write
// pump owns the socket. A full buffer means the client cannot keep up, and
// the message is dropped for this recipient only.
func (c *Client) Consume(msg protocol.Outbound) error {
	select {
	case c.out <- msg:
		return nil
	default:
		return fmt.Errorf("%w: conn %s", errors.ErrSlowConsumer, c.id)
	}
}

// ReadLoop decodes one frame at a time and hands it to the dispatcher with
// this connection's session. It blocks until the connection is lost, then
// runs the disconnect cleanup. The cleanup is guarded so that a write-side
// failure racing with the read-side exit still triggers it exactly once,
// and always on this goroutine, which owns the session.
func (c *Client) ReadLoop() {
	defer func() {
		c.close()
		c.cleanupOnce.Do(func() {
			c.handlers.HandleDisconnect(c.sess)
		})
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("Connection read failed", "conn_id", c.id, "error", err)
			}
			return
		}
		c.dispatcher.Dispatch(c.sess, c, raw)
	}
}

// WritePump serializes queued messages onto the socket. A write failure
// closes the connection, which in turn makes the read loop exit and clean
// up.
func (c *Client) WritePump() {
	defer c.close()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.out:
			data, err := json.Marshal(msg)
			if err != nil {
				c.log.Error("Failed to encode outbound message",
					"conn_id", c.id, "type", msg.MessageType(), "error", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Debug("Connection write failed", "conn_id", c.id, "error", err)
				return
			}
		}
	}
}

// close tears the transport down once; safe from either pump.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

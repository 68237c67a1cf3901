//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-rooms/domain"
	"chat-rooms/protocol"
)

// EventSink is the delivery side of one connection: Consume hands an
// outbound message to the connection for transmission. Implementations
// must be safe for concurrent use and must not block the caller; a sink
// that cannot accept the message reports an error and the broadcast
// moves on.
type EventSink interface {
	Consume(msg protocol.Outbound) error
}

// IRegistry is the process-wide authority on rooms, membership and
// connection identity. All operations are atomic with respect to each
// other.
type IRegistry interface {
	// CreateRoom registers an empty room, failing if the name is taken.
	CreateRoom(name string) bool
	// Connect records a connection's display name and delivery sink.
	Connect(connID, name string, sink EventSink)
	// Join adds the connection to a room, creating the room on first
	// join and moving the connection out of any previous room.
	Join(connID, name, roomName string)
	// Leave removes the connection from its current room and reports
	// which room was left, if any. An empty room is deleted.
	Leave(connID string) (string, bool)
	// Disconnect is Leave plus removal of identity and sink. Calling it
	// again for the same connection is a no-op.
	Disconnect(connID string) (string, bool)
	RoomOf(connID string) (string, bool)
	// MembersOf returns the connection IDs of a room in join order.
	MembersOf(roomName string) []string
	// MemberNames returns the display names of a room in join order.
	MemberNames(roomName string) []string
	// SinksForRoom snapshots the delivery sinks of a room's members.
	SinksForRoom(roomName string) []EventSink
	// AllSinks snapshots the delivery sinks of every identified connection.
	AllSinks() []EventSink
	ListRooms() []domain.RoomInfo
	// Counts reports active rooms and identified connections.
	Counts() (rooms int, users int)
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

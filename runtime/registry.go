// Package runtime hosts the session/room engine: the registry of rooms and
// connections, message dispatch, and the broadcast strategies. It carries
// no transport or UI logic.
package runtime

import (
	"sync"

	"github.com/samber/lo"

	"chat-rooms/contract"
	"chat-rooms/domain"
)

// Registry is the single source of truth for membership. One instance is
// constructed at process start and passed explicitly to everything that
// needs it; there is no package-level state.
//
// A single RWMutex guards all four maps, so every mutation and every
// broadcast snapshot observes a consistent membership set.
type Registry struct {
	mu        sync.RWMutex
	rooms     map[string]*domain.Room
	roomOrder []string                      // creation order, for ListRooms
	sinks     map[string]contract.EventSink // connID -> delivery sink
	names     map[string]string             // connID -> display name
	connRoom  map[string]string             // connID -> current room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:    make(map[string]*domain.Room),
		sinks:    make(map[string]contract.EventSink),
		names:    make(map[string]string),
		connRoom: make(map[string]string),
	}
}

// CreateRoom registers an empty room under name. It reports false without
// touching anything when the name is already taken.
func (r *Registry) CreateRoom(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[name]; ok {
		return false
	}
	r.rooms[name] = domain.NewRoom(name)
	r.roomOrder = append(r.roomOrder, name)
	return true
}

// Connect records the identity and delivery sink of a connection. It is
// called once per connection, before any join is accepted.
func (r *Registry) Connect(connID, name string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.names[connID] = name
	r.sinks[connID] = sink
}

// Join places the connection in roomName, creating the room if it does not
// exist yet. A connection still registered in another room is moved out of
// it first, so no connection is ever a member of two rooms. Re-joining the
// current room leaves membership untouched but refreshes the identity.
func (r *Registry) Join(connID, name, roomName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.connRoom[connID]; ok && current != roomName {
		r.leaveLocked(connID)
	}

	room, ok := r.rooms[roomName]
	if !ok {
		room = domain.NewRoom(roomName)
		r.rooms[roomName] = room
		r.roomOrder = append(r.roomOrder, roomName)
	}
	room.AddMember(connID)
	r.connRoom[connID] = roomName
	r.names[connID] = name
}

// Leave removes the connection from its current room and reports which
// room was left. The room is deleted once its last member is gone.
func (r *Registry) Leave(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(connID)
}

func (r *Registry) leaveLocked(connID string) (string, bool) {
	roomName, ok := r.connRoom[connID]
	if !ok {
		return "", false
	}
	delete(r.connRoom, connID)

	room, ok := r.rooms[roomName]
	if !ok {
		return roomName, true
	}
	room.RemoveMember(connID)
	if room.Empty() {
		delete(r.rooms, roomName)
		r.roomOrder = lo.Without(r.roomOrder, roomName)
	}
	return roomName, true
}

// Disconnect combines Leave with removal of the identity and sink entries.
// Subsequent calls for the same connection are no-ops.
func (r *Registry) Disconnect(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomName, left := r.leaveLocked(connID)
	delete(r.names, connID)
	delete(r.sinks, connID)
	return roomName, left
}

func (r *Registry) RoomOf(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomName, ok := r.connRoom[connID]
	return roomName, ok
}

// MembersOf returns the connection IDs of a room in join order, empty when
// the room does not exist.
func (r *Registry) MembersOf(roomName string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomName]
	if !ok {
		return nil
	}
	return room.Members()
}

// MemberNames resolves a room's members to their display names, in join
// order.
func (r *Registry) MemberNames(roomName string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomName]
	if !ok {
		return nil
	}
	return lo.Map(room.Members(), func(connID string, _ int) string {
		return r.names[connID]
	})
}

// SinksForRoom snapshots the delivery sinks of a room's current members.
// The snapshot is taken under the lock, so a join or leave racing with the
// broadcast can neither be skipped nor visited twice.
func (r *Registry) SinksForRoom(roomName string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomName]
	if !ok {
		return nil
	}
	var active []contract.EventSink
	for _, connID := range room.Members() {
		if sink, ok := r.sinks[connID]; ok {
			active = append(active, sink)
		}
	}
	return active
}

// AllSinks snapshots the delivery sinks of every connection that has
// completed connect, whether or not it is in a room.
func (r *Registry) AllSinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []contract.EventSink
	for connID := range r.names {
		if sink, ok := r.sinks[connID]; ok {
			active = append(active, sink)
		}
	}
	return active
}

// ListRooms summarizes every live room in creation order.
func (r *Registry) ListRooms() []domain.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.FilterMap(r.roomOrder, func(name string, _ int) (domain.RoomInfo, bool) {
		room, ok := r.rooms[name]
		if !ok {
			return domain.RoomInfo{}, false
		}
		return room.Info(), true
	})
}

// Counts reports active rooms and identified connections, for the health
// endpoint and the stats worker.
func (r *Registry) Counts() (int, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms), len(r.names)
}

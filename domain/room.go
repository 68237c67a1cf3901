// Package domain contains core concepts of the chat system.
// This file defines Room entities and membership rules.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// Room is a named group of connections. Members are kept in join order and
// never duplicated. A Room carries no lock of its own: the registry owning
// it serializes every mutation.
type Room struct {
	Name      string
	CreatedAt time.Time
	members   []string // connection IDs, insertion order
}

// RoomInfo is the wire-facing summary of a room.
type RoomInfo struct {
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
	CreatedAt   string `json:"createdAt"`
}

func NewRoom(name string) *Room {
	return &Room{
		Name:      name,
		CreatedAt: time.Now().UTC(),
		members:   nil,
	}
}

// AddMember appends a connection to the member list.
// Adding a connection that is already a member is a no-op.
func (r *Room) AddMember(connID string) {
	for _, id := range r.members {
		if id == connID {
			return
		}
	}
	r.members = append(r.members, connID)
}

// RemoveMember deletes a connection from the member list, preserving the
// join order of the remaining members. Unknown connections are ignored.
func (r *Room) RemoveMember(connID string) {
	for i, id := range r.members {
		if id == connID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return
		}
	}
}

// Members returns a copy of the member list in join order.
func (r *Room) Members() []string {
	out := make([]string, len(r.members))
	copy(out, r.members)
	return out
}

func (r *Room) Size() int {
	return len(r.members)
}

func (r *Room) Empty() bool {
	return len(r.members) == 0
}

func (r *Room) Info() RoomInfo {
	return RoomInfo{
		Name:        r.Name,
		MemberCount: len(r.members),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}

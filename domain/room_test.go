package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRoom_AddMember_Deduplicates(t *testing.T) {
	req := require.New(t)
	room := NewRoom("general")

	// When the same connection joins twice
	room.AddMember("conn-1")
	room.AddMember("conn-2")
	room.AddMember("conn-1")

	// Then it appears once, in join order
	req.Equal([]string{"conn-1", "conn-2"}, room.Members())
	req.Equal(2, room.Size())
}

func TestRoom_RemoveMember_KeepsOrder(t *testing.T) {
	req := require.New(t)
	room := NewRoom("general")
	room.AddMember("conn-1")
	room.AddMember("conn-2")
	room.AddMember("conn-3")

	// When the middle member leaves
	room.RemoveMember("conn-2")

	// Then the others keep their join order
	req.Equal([]string{"conn-1", "conn-3"}, room.Members())

	// And removing an unknown connection changes nothing
	room.RemoveMember("conn-42")
	req.Equal(2, room.Size())
}

func TestRoom_Empty(t *testing.T) {
	req := require.New(t)
	room := NewRoom("general")
	req.True(room.Empty())

	room.AddMember("conn-1")
	req.False(room.Empty())

	room.RemoveMember("conn-1")
	req.True(room.Empty())
}

func TestRoom_Members_ReturnsCopy(t *testing.T) {
	req := require.New(t)
	room := NewRoom("general")
	room.AddMember("conn-1")

	members := room.Members()
	members[0] = "mutated"

	req.Equal([]string{"conn-1"}, room.Members())
}

func TestRoom_Info(t *testing.T) {
	req := require.New(t)
	room := NewRoom("general")
	room.AddMember("conn-1")
	room.AddMember("conn-2")

	info := room.Info()

	req.Equal("general", info.Name)
	req.Equal(2, info.MemberCount)

	// Timestamp must be valid RFC 3339
	_, err := time.Parse(time.RFC3339, info.CreatedAt)
	req.NoError(err)
}

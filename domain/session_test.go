package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chat-rooms/errors"
)

func TestSession_Authenticate(t *testing.T) {
	req := require.New(t)
	sess := NewSession(uuid.NewString())

	// Given a fresh session
	req.Equal(StateUnauthenticated, sess.State())
	req.False(sess.Authenticated())

	// When the client identifies
	err := sess.Authenticate("alice")

	// Then the session holds the name
	req.NoError(err)
	req.Equal("alice", sess.DisplayName)
	req.True(sess.Authenticated())

	// And a second connect is rejected without renaming
	err = sess.Authenticate("mallory")
	req.ErrorIs(err, errors.ErrAlreadyConnected)
	req.Equal("alice", sess.DisplayName)
}

func TestSession_EnterRoom_RequiresIdentity(t *testing.T) {
	req := require.New(t)
	sess := NewSession(uuid.NewString())

	// When joining before identifying
	err := sess.EnterRoom("general")

	req.ErrorIs(err, errors.ErrNotConnected)
	req.False(sess.InRoom())
}

func TestSession_RoomSwitch(t *testing.T) {
	req := require.New(t)
	sess := NewSession(uuid.NewString())
	req.NoError(sess.Authenticate("alice"))

	// When entering a room, then switching to another
	req.NoError(sess.EnterRoom("general"))
	req.Equal("general", sess.CurrentRoom)

	req.NoError(sess.EnterRoom("random"))

	// Then the session tracks only the latest room
	req.Equal("random", sess.CurrentRoom)
	req.Equal(StateInRoom, sess.State())
}

func TestSession_LeaveRoom(t *testing.T) {
	req := require.New(t)
	sess := NewSession(uuid.NewString())
	req.NoError(sess.Authenticate("alice"))

	// Leaving while not in a room is a violation
	req.ErrorIs(sess.LeaveRoom(), errors.ErrNotInRoom)

	req.NoError(sess.EnterRoom("general"))
	req.NoError(sess.LeaveRoom())

	// Back to the authenticated state, still identified
	req.Equal(StateAuthenticated, sess.State())
	req.Empty(sess.CurrentRoom)
	req.Equal("alice", sess.DisplayName)
}

func TestSession_Close(t *testing.T) {
	req := require.New(t)
	sess := NewSession(uuid.NewString())
	req.NoError(sess.Authenticate("alice"))
	req.NoError(sess.EnterRoom("general"))

	sess.Close()
	sess.Close() // idempotent

	req.Equal(StateClosed, sess.State())
	req.ErrorIs(sess.Authenticate("bob"), errors.ErrSessionClosed)
	req.ErrorIs(sess.EnterRoom("general"), errors.ErrSessionClosed)
}

func TestSanitizeName(t *testing.T) {
	req := require.New(t)

	req.Equal("alice", SanitizeName("  alice  "))
	req.Equal("team-1_dev room", SanitizeName("team-1_dev room"))
	req.Equal("alice", SanitizeName("alice!?"))
	req.Equal("ab", SanitizeName("a\"b"))
	req.Equal("", SanitizeName("!!!"))
	req.Equal("", SanitizeName("   "))
	req.Equal("héllo", SanitizeName("héllo"))
}

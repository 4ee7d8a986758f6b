package inmemory

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharetube/watchparty/internal/domain"
	"github.com/sharetube/watchparty/internal/repository/session"
)

type peer struct {
	userID  string
	roomID  string
	updates int
}

func (p *peer) UserID() string                     { return p.userID }
func (p *peer) Username() string                   { return "user " + p.userID }
func (p *peer) RoomID() string                     { return p.roomID }
func (p *peer) SetRoomID(id string)                { p.roomID = id }
func (p *peer) Update(domain.Snapshot)             { p.updates++ }
func (p *peer) SendVideoState(domain.VideoState)   {}
func (p *peer) SendChatMessage(domain.ChatMessage) {}
func (p *peer) SendParticipantJoined(domain.Member) {}
func (p *peer) SendParticipantLeft(domain.Member)   {}
func (p *peer) SendHostChanged(domain.Member)       {}
func (p *peer) SendKicked(string)                   {}
func (p *peer) SendPartyEnded(string)               {}
func (p *peer) SendError(error)                     {}

func TestRegisterIsLastWriteWins(t *testing.T) {
	r := NewRepo(slog.Default())
	first, second := &peer{userID: "a"}, &peer{userID: "a"}

	assert.Nil(t, r.Register("a", first))
	assert.Nil(t, r.Register("a", first), "registering the same connection twice is idempotent")
	assert.Same(t, first, r.Register("a", second))

	got, err := r.GetConn("a")
	require.NoError(t, err)
	assert.Same(t, second, got)

	r.Unregister("a")
	r.Unregister("a")
	_, err = r.GetConn("a")
	assert.ErrorIs(t, err, session.ErrConnNotFound)
}

func TestCreateRoom(t *testing.T) {
	r := NewRepo(slog.Default())
	creator := &peer{userID: "a"}

	room, err := r.CreateRoom(creator, &session.CreateRoomParams{Name: "Movie Night", MovieID: "42"})
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID())
	assert.Equal(t, "a", room.HostID())
	assert.Equal(t, 1, creator.updates)

	got, err := r.GetRoom(room.ID())
	require.NoError(t, err)
	assert.Same(t, room, got)

	_, err = r.CreateRoom(&peer{userID: "b"}, &session.CreateRoomParams{RoomID: room.ID()})
	assert.ErrorIs(t, err, session.ErrRoomAlreadyExists)

	r.DeleteRoom(room.ID())
	_, err = r.GetRoom(room.ID())
	assert.ErrorIs(t, err, session.ErrRoomNotFound)
}

func TestCreateRoomWithRecordedHost(t *testing.T) {
	r := NewRepo(slog.Default())

	room, err := r.CreateRoom(&peer{userID: "b"}, &session.CreateRoomParams{
		RoomID:       "party-1",
		HostID:       "a",
		HostUsername: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "a", room.HostID())
	assert.False(t, room.IsHost("b"))

	members := room.Members()
	require.Len(t, members, 2)
	assert.False(t, members[0].IsOnline)
	assert.True(t, members[1].IsOnline)

	host, err := r.CreateRoom(&peer{userID: "a"}, &session.CreateRoomParams{RoomID: "party-2", HostID: "a"})
	require.NoError(t, err)
	assert.Len(t, host.Members(), 1)
	assert.True(t, host.IsHost("a"))
	assert.Equal(t, session.Stats{Connections: 0, Rooms: 2}, r.Stats())
}

package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sharetube/watchparty/internal/apperr"
	"github.com/sharetube/watchparty/internal/domain"
	chatrepo "github.com/sharetube/watchparty/internal/repository/chat"
	"github.com/sharetube/watchparty/internal/repository/session"
	"github.com/sharetube/watchparty/internal/repository/session/inmemory"
	svc "github.com/sharetube/watchparty/internal/service"
)

type MockChatRepo struct {
	mock.Mock
}

func (m *MockChatRepo) SaveMessage(ctx context.Context, params *chatrepo.SaveMessageParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockChatRepo) GetHistory(ctx context.Context, roomID string, limit int) ([]chatrepo.Message, error) {
	args := m.Called(ctx, roomID, limit)
	return args.Get(0).([]chatrepo.Message), args.Error(1)
}

type peer struct {
	userID   string
	roomID   string
	messages []domain.ChatMessage
}

func (p *peer) UserID() string                      { return p.userID }
func (p *peer) Username() string                    { return "user " + p.userID }
func (p *peer) RoomID() string                      { return p.roomID }
func (p *peer) SetRoomID(id string)                 { p.roomID = id }
func (p *peer) Update(domain.Snapshot)              {}
func (p *peer) SendVideoState(domain.VideoState)    {}
func (p *peer) SendParticipantJoined(domain.Member) {}
func (p *peer) SendParticipantLeft(domain.Member)   {}
func (p *peer) SendHostChanged(domain.Member)       {}
func (p *peer) SendKicked(string)                   {}
func (p *peer) SendPartyEnded(string)               {}
func (p *peer) SendError(error)                     {}
func (p *peer) SendChatMessage(m domain.ChatMessage) {
	p.messages = append(p.messages, m)
}

var now = time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, peers ...*peer) (*service, *MockChatRepo) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := inmemory.NewRepo(logger)
	chatRepo := &MockChatRepo{}

	room, err := registry.CreateRoom(peers[0], &session.CreateRoomParams{RoomID: "room-1", Name: "Movie Night", MovieID: "42", MembersLimit: 10})
	require.NoError(t, err)
	for _, p := range peers[1:] {
		require.NoError(t, room.AddMember(p))
	}
	for _, p := range peers {
		p.roomID = room.ID()
		registry.Register(p.userID, p)
	}

	s := NewService(registry, chatRepo, &Config{HistoryLimit: 100}, logger)
	s.now = func() time.Time { return now }
	return s, chatRepo
}

func TestSendMessageDeliversToAllMembers(t *testing.T) {
	a, b := &peer{userID: "a"}, &peer{userID: "b"}
	s, chatRepo := newTestService(t, a, b)
	content := strings.Repeat("x", 500)

	chatRepo.On("SaveMessage", mock.Anything, mock.MatchedBy(func(p *chatrepo.SaveMessageParams) bool {
		return p.RoomID == "room-1" && p.UserID == "b" && p.Content == content && p.CreatedAt.Equal(now)
	})).Return(nil).Once()

	msg, err := s.SendMessage(context.Background(), &SendMessageParams{Peer: b, Content: content})
	require.NoError(t, err)
	assert.Len(t, msg.ID, 26)
	assert.Equal(t, "user b", msg.Username)

	for _, p := range []*peer{a, b} {
		require.Len(t, p.messages, 1)
		assert.Equal(t, content, p.messages[0].Content)
		assert.Equal(t, msg.ID, p.messages[0].ID)
	}
	chatRepo.AssertExpectations(t)
}

func TestSendMessageValidation(t *testing.T) {
	a, b := &peer{userID: "a"}, &peer{userID: "b"}
	s, chatRepo := newTestService(t, a, b)
	ctx := context.Background()

	tests := []struct {
		content string
		message string
	}{
		{strings.Repeat("x", 501), "Message too long"},
		{strings.Repeat("x", 600), "Message too long"},
		{strings.Repeat("x", 500) + " ", "Message too long"},
		{"  " + strings.Repeat("x", 499) + "  ", "Message too long"},
		{"", "Message cannot be empty"},
		{"   \n\t", "Message cannot be empty"},
	}
	for _, tt := range tests {
		_, err := s.SendMessage(ctx, &SendMessageParams{Peer: a, Content: tt.content})
		e, ok := apperr.From(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindValidation, e.Kind)
		assert.Equal(t, tt.message, e.Message)
	}

	assert.Empty(t, a.messages)
	assert.Empty(t, b.messages)
	chatRepo.AssertNotCalled(t, "SaveMessage", mock.Anything, mock.Anything)
}

func TestSendMessageKeepsContentVerbatim(t *testing.T) {
	a, b := &peer{userID: "a"}, &peer{userID: "b"}
	s, chatRepo := newTestService(t, a, b)
	chatRepo.On("SaveMessage", mock.Anything, mock.MatchedBy(func(p *chatrepo.SaveMessageParams) bool {
		return p.Content == "  hello  "
	})).Return(nil).Once()

	msg, err := s.SendMessage(context.Background(), &SendMessageParams{Peer: a, Content: "  hello  "})
	require.NoError(t, err)
	assert.Equal(t, "  hello  ", msg.Content)

	require.Len(t, b.messages, 1)
	assert.Equal(t, "  hello  ", b.messages[0].Content)
	chatRepo.AssertExpectations(t)
}

func TestSendMessagePersistFailure(t *testing.T) {
	a, b := &peer{userID: "a"}, &peer{userID: "b"}
	s, chatRepo := newTestService(t, a, b)
	chatRepo.On("SaveMessage", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := s.SendMessage(context.Background(), &SendMessageParams{Peer: a, Content: "hi"})
	e, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindInternal, e.Kind)
	assert.Equal(t, "Failed to send message", e.Message)
	assert.Empty(t, b.messages)
}

func TestSendMessageSkipsMembersWithoutLiveConnection(t *testing.T) {
	a, b, c := &peer{userID: "a"}, &peer{userID: "b"}, &peer{userID: "c"}
	s, chatRepo := newTestService(t, a, b, c)
	chatRepo.On("SaveMessage", mock.Anything, mock.Anything).Return(nil)

	// c reconnected on a connection that has not joined yet
	s.registry.(interface {
		Register(string, domain.Peer) domain.Peer
	}).Register("c", &peer{userID: "c"})
	s.registry.(interface{ Unregister(string) }).Unregister("b")

	_, err := s.SendMessage(context.Background(), &SendMessageParams{Peer: a, Content: "hi"})
	require.NoError(t, err)
	assert.Len(t, a.messages, 1)
	assert.Empty(t, b.messages)
	assert.Empty(t, c.messages)
}

func TestSendMessageOutsideParty(t *testing.T) {
	a := &peer{userID: "a"}
	s, _ := newTestService(t, a)

	_, err := s.SendMessage(context.Background(), &SendMessageParams{Peer: &peer{userID: "z"}, Content: "hi"})
	assert.ErrorIs(t, err, svc.ErrNotInParty)
}

func TestGetHistory(t *testing.T) {
	a := &peer{userID: "a"}
	s, chatRepo := newTestService(t, a)
	chatRepo.On("GetHistory", mock.Anything, "room-1", 100).Return([]chatrepo.Message{
		{ID: "1", RoomID: "room-1", UserID: "a", Username: "Alice", Content: "first", CreatedAt: now},
		{ID: "2", RoomID: "room-1", UserID: "b", Username: "Bob", Content: "second", CreatedAt: now.Add(time.Second)},
	}, nil)

	history, err := s.GetHistory(context.Background(), "room-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "Bob", history[1].Username)
}

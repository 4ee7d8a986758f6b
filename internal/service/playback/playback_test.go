package playback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sharetube/watchparty/internal/apperr"
	"github.com/sharetube/watchparty/internal/domain"
	partyrepo "github.com/sharetube/watchparty/internal/repository/party"
	"github.com/sharetube/watchparty/internal/repository/session"
	"github.com/sharetube/watchparty/internal/repository/session/inmemory"
	svc "github.com/sharetube/watchparty/internal/service"
)

type MockPartyRepo struct {
	mock.Mock
}

func (m *MockPartyRepo) UpdateParty(ctx context.Context, params *partyrepo.UpdatePartyParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

type MockMovieRepo struct {
	mock.Mock
}

func (m *MockMovieRepo) MovieExists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type peer struct {
	userID string
	roomID string
	states []domain.VideoState
}

func (p *peer) UserID() string                      { return p.userID }
func (p *peer) Username() string                    { return "user " + p.userID }
func (p *peer) RoomID() string                      { return p.roomID }
func (p *peer) SetRoomID(id string)                 { p.roomID = id }
func (p *peer) Update(s domain.Snapshot)            { p.states = append(p.states, s.VideoState) }
func (p *peer) SendVideoState(domain.VideoState)    {}
func (p *peer) SendChatMessage(domain.ChatMessage)  {}
func (p *peer) SendParticipantJoined(domain.Member) {}
func (p *peer) SendParticipantLeft(domain.Member)   {}
func (p *peer) SendHostChanged(domain.Member)       {}
func (p *peer) SendKicked(string)                   {}
func (p *peer) SendPartyEnded(string)               {}
func (p *peer) SendError(error)                     {}

func (p *peer) last() domain.VideoState {
	return p.states[len(p.states)-1]
}

type fixture struct {
	service   *service
	partyRepo *MockPartyRepo
	movieRepo *MockMovieRepo
	host      *peer
	guest     *peer
}

// newFixture builds a room for movie 42 with host a and guest b.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := inmemory.NewRepo(logger)
	partyRepo := &MockPartyRepo{}
	movieRepo := &MockMovieRepo{}

	host, guest := &peer{userID: "a"}, &peer{userID: "b"}
	room, err := registry.CreateRoom(host, &session.CreateRoomParams{Name: "Movie Night", MovieID: "42", MembersLimit: 10})
	require.NoError(t, err)
	require.NoError(t, room.AddMember(guest))
	host.roomID, guest.roomID = room.ID(), room.ID()

	return &fixture{
		service:   NewService(registry, partyRepo, movieRepo, logger),
		partyRepo: partyRepo,
		movieRepo: movieRepo,
		host:      host,
		guest:     guest,
	}
}

func TestPlayOnlyHost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	guestUpdates := len(f.guest.states)

	err := f.service.Play(ctx, &PlayParams{Peer: f.guest, CurrentTime: lo.ToPtr(120.0)})
	assert.ErrorIs(t, err, svc.ErrOnlyHost)
	assert.Equal(t, "Only host can control video", err.Error())
	assert.Len(t, f.guest.states, guestUpdates, "rejected command broadcasts nothing")

	require.NoError(t, f.service.Play(ctx, &PlayParams{Peer: f.host, CurrentTime: lo.ToPtr(120.0)}))
	for _, p := range []*peer{f.host, f.guest} {
		state := p.last()
		assert.True(t, state.IsPlaying)
		assert.Equal(t, 120.0, state.CurrentTime)
		assert.NotZero(t, state.LastUpdate)
	}
}

func TestPlayPauseKeepTimeWhenAbsent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.Seek(ctx, &SeekParams{Peer: f.host, CurrentTime: lo.ToPtr(30.5)}))
	require.NoError(t, f.service.Play(ctx, &PlayParams{Peer: f.host}))
	assert.Equal(t, 30.5, f.guest.last().CurrentTime)
	assert.True(t, f.guest.last().IsPlaying)

	require.NoError(t, f.service.Pause(ctx, &PauseParams{Peer: f.host}))
	assert.Equal(t, 30.5, f.guest.last().CurrentTime)
	assert.False(t, f.guest.last().IsPlaying)

	require.NoError(t, f.service.Pause(ctx, &PauseParams{Peer: f.host, CurrentTime: lo.ToPtr(0.0)}))
	assert.Equal(t, 0.0, f.guest.last().CurrentTime)
}

func TestSeekValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.service.Seek(ctx, &SeekParams{Peer: f.host}), ErrSeekTimeRequired)

	err := f.service.Seek(ctx, &SeekParams{Peer: f.host, CurrentTime: lo.ToPtr(-1.0)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestChangeSpeed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, speed := range []float64{0, -1, 4.5} {
		err := f.service.ChangeSpeed(ctx, &ChangeSpeedParams{Peer: f.host, Speed: speed})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "speed %v", speed)
	}

	require.NoError(t, f.service.ChangeSpeed(ctx, &ChangeSpeedParams{Peer: f.host, Speed: 4}))
	assert.Equal(t, 4.0, f.guest.last().PlaybackSpeed)

	assert.ErrorIs(t, f.service.ChangeSpeed(ctx, &ChangeSpeedParams{Peer: f.guest, Speed: 2}), svc.ErrOnlyHost)
}

func TestChangeMovie(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.service.Play(ctx, &PlayParams{Peer: f.host, CurrentTime: lo.ToPtr(50.0)}))

	f.movieRepo.On("MovieExists", mock.Anything, "7").Return(true, nil)
	f.partyRepo.On("UpdateParty", mock.Anything, mock.MatchedBy(func(p *partyrepo.UpdatePartyParams) bool {
		return p.MovieID != nil && *p.MovieID == "7" && p.HostID == nil
	})).Return(nil).Once()

	require.NoError(t, f.service.ChangeMovie(ctx, &ChangeMovieParams{Peer: f.host, MovieID: "7"}))

	state := f.guest.last()
	assert.Equal(t, "7", state.MovieID)
	assert.Equal(t, 0.0, state.CurrentTime)
	assert.False(t, state.IsPlaying)
	f.partyRepo.AssertExpectations(t)
}

func TestChangeMovieErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.movieRepo.On("MovieExists", mock.Anything, "404").Return(false, nil)
	f.movieRepo.On("MovieExists", mock.Anything, "500").Return(false, errors.New("db down"))

	assert.ErrorIs(t, f.service.ChangeMovie(ctx, &ChangeMovieParams{Peer: f.host, MovieID: "404"}), svc.ErrMovieNotFound)
	assert.Error(t, f.service.ChangeMovie(ctx, &ChangeMovieParams{Peer: f.host, MovieID: "500"}))
	assert.ErrorIs(t, f.service.ChangeMovie(ctx, &ChangeMovieParams{Peer: f.guest, MovieID: "404"}), svc.ErrOnlyHost)

	err := f.service.ChangeMovie(ctx, &ChangeMovieParams{Peer: f.host})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.Equal(t, "42", f.guest.last().MovieID)
	f.partyRepo.AssertNotCalled(t, "UpdateParty", mock.Anything, mock.Anything)
}

func TestCommandsOutsideParty(t *testing.T) {
	f := newFixture(t)
	outsider := &peer{userID: "z"}

	err := f.service.Play(context.Background(), &PlayParams{Peer: outsider})
	assert.ErrorIs(t, err, svc.ErrNotInParty)

	outsider.roomID = "gone"
	err = f.service.Pause(context.Background(), &PauseParams{Peer: outsider})
	assert.ErrorIs(t, err, svc.ErrNotInParty)
}

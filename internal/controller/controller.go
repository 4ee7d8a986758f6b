package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"github.com/sharetube/watchparty/internal/domain"
	"github.com/sharetube/watchparty/internal/repository/session"
	"github.com/sharetube/watchparty/internal/service/auth"
	"github.com/sharetube/watchparty/internal/service/chat"
	"github.com/sharetube/watchparty/internal/service/party"
	"github.com/sharetube/watchparty/internal/service/playback"
	"github.com/sharetube/watchparty/pkg/validator"
	"github.com/sharetube/watchparty/pkg/wsrouter"
)

const eventsBuffer = 256

type iPartyService interface {
	CreateParty(context.Context, *party.CreatePartyParams) (party.CreatePartyResponse, error)
	JoinParty(context.Context, *party.JoinPartyParams) (party.JoinPartyResponse, error)
	LeaveParty(context.Context, *party.LeavePartyParams) error
	KickUser(context.Context, *party.KickUserParams) error
	EndParty(context.Context, *party.EndPartyParams) error
	Disconnect(context.Context, *party.DisconnectParams) error
	GetPartySummary(context.Context, string) (party.PartySummary, error)
	IsPartyMember(ctx context.Context, partyID, userID string) (bool, error)
}

type iPlaybackService interface {
	Play(context.Context, *playback.PlayParams) error
	Pause(context.Context, *playback.PauseParams) error
	Seek(context.Context, *playback.SeekParams) error
	ChangeSpeed(context.Context, *playback.ChangeSpeedParams) error
	ChangeMovie(context.Context, *playback.ChangeMovieParams) error
}

type iChatService interface {
	SendMessage(context.Context, *chat.SendMessageParams) (domain.ChatMessage, error)
	GetHistory(ctx context.Context, roomID string) ([]domain.ChatMessage, error)
}

type iAuthService interface {
	Verify(token string) (auth.Identity, error)
}

type iRegistry interface {
	Register(userID string, peer domain.Peer) domain.Peer
	Unregister(userID string)
	GetConn(userID string) (domain.Peer, error)
	Stats() session.Stats
}

type Config struct {
	AllowedOrigins []string
	SendBuffer     int
}

type controller struct {
	partyService    iPartyService
	playbackService iPlaybackService
	chatService     iChatService
	authService     iAuthService
	registry        iRegistry
	upgrader        websocket.Upgrader
	validate        *validator.Validator
	wsRouter        *wsrouter.WSRouter[*client]
	events          chan event
	done            chan struct{}
	sendBuffer      int
	allowedOrigins  []string
	logger          *slog.Logger
}

func NewController(
	partyService iPartyService,
	playbackService iPlaybackService,
	chatService iChatService,
	authService iAuthService,
	registry iRegistry,
	cfg *Config,
	logger *slog.Logger,
) *controller {
	c := &controller{
		partyService:    partyService,
		playbackService: playbackService,
		chatService:     chatService,
		authService:     authService,
		registry:        registry,
		validate:        validator.NewValidator(),
		events:          make(chan event, eventsBuffer),
		done:            make(chan struct{}),
		sendBuffer:      cfg.SendBuffer,
		allowedOrigins:  cfg.AllowedOrigins,
		logger:          logger,
	}
	c.upgrader = websocket.Upgrader{
		CheckOrigin: c.checkOrigin,
	}
	c.wsRouter = c.getWSRouter()

	return c
}

func (c controller) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(c.allowedOrigins) == 0 || lo.Contains(c.allowedOrigins, "*") {
		return true
	}

	return lo.Contains(c.allowedOrigins, origin)
}

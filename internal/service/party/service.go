package party

import (
	"context"
	"log/slog"
	"time"

	"github.com/sharetube/watchparty/internal/apperr"
	"github.com/sharetube/watchparty/internal/domain"
	partyrepo "github.com/sharetube/watchparty/internal/repository/party"
	"github.com/sharetube/watchparty/internal/repository/session"
	"github.com/sharetube/watchparty/pkg/randstr"
)

const maxInviteCodeAttempts = 10

var (
	ErrAlreadyInParty    = apperr.Conflict("Already in a party")
	ErrAlreadyMember     = apperr.Conflict("Already a member of this party")
	ErrPartyFull         = apperr.Conflict("Party is full")
	ErrInvalidInviteCode = apperr.Validation("Invalid invite code")
	ErrJoinTargetMissing = apperr.Validation("Invite code or party id is required")
	ErrKickForbidden     = apperr.Authorization("Cannot kick user - insufficient permissions")
	ErrCannotKickSelf    = apperr.Validation("Cannot kick yourself")
	ErrUserNotInParty    = apperr.NotFound("User not in party")
	ErrEndForbidden      = apperr.Authorization("Only host can end the party")
)

type iRegistry interface {
	GetConn(userID string) (domain.Peer, error)
	CreateRoom(creator domain.Peer, params *session.CreateRoomParams) (*domain.Room, error)
	GetRoom(roomID string) (*domain.Room, error)
	DeleteRoom(roomID string)
}

type iPartyRepo interface {
	CreateParty(context.Context, *partyrepo.CreatePartyParams) error
	IsInviteCodeTaken(context.Context, string) (bool, error)
	GetParty(context.Context, string) (partyrepo.Party, error)
	GetPartyByInviteCode(context.Context, string) (partyrepo.Party, error)
	UpdateParty(context.Context, *partyrepo.UpdatePartyParams) error
	DeactivateParty(context.Context, string) error
	AddMember(context.Context, *partyrepo.AddMemberParams) error
	RemoveMember(context.Context, *partyrepo.RemoveMemberParams) error
	GetMemberIds(context.Context, string) ([]string, error)
}

type iMovieRepo interface {
	MovieExists(context.Context, string) (bool, error)
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type Config struct {
	MembersLimit int
}

type service struct {
	registry     iRegistry
	partyRepo    iPartyRepo
	movieRepo    iMovieRepo
	generator    iGenerator
	membersLimit int
	now          func() time.Time
	logger       *slog.Logger
}

func NewService(registry iRegistry, partyRepo iPartyRepo, movieRepo iMovieRepo, cfg *Config, logger *slog.Logger) *service {
	return &service{
		registry:     registry,
		partyRepo:    partyRepo,
		movieRepo:    movieRepo,
		generator:    randstr.New(randstr.UppercaseAlphanumeric),
		membersLimit: cfg.MembersLimit,
		now:          time.Now,
		logger:       logger,
	}
}

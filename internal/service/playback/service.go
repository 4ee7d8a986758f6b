package playback

import (
	"context"
	"log/slog"

	"github.com/sharetube/watchparty/internal/domain"
	partyrepo "github.com/sharetube/watchparty/internal/repository/party"
)

type iRegistry interface {
	GetRoom(roomID string) (*domain.Room, error)
}

type iPartyRepo interface {
	UpdateParty(context.Context, *partyrepo.UpdatePartyParams) error
}

type iMovieRepo interface {
	MovieExists(context.Context, string) (bool, error)
}

type service struct {
	registry  iRegistry
	partyRepo iPartyRepo
	movieRepo iMovieRepo
	logger    *slog.Logger
}

func NewService(registry iRegistry, partyRepo iPartyRepo, movieRepo iMovieRepo, logger *slog.Logger) *service {
	return &service{
		registry:  registry,
		partyRepo: partyRepo,
		movieRepo: movieRepo,
		logger:    logger,
	}
}

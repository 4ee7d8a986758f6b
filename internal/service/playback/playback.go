package playback

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"

	"github.com/sharetube/watchparty/internal/apperr"
	"github.com/sharetube/watchparty/internal/domain"
	partyrepo "github.com/sharetube/watchparty/internal/repository/party"
	svc "github.com/sharetube/watchparty/internal/service"
)

var ErrSeekTimeRequired = apperr.Validation("Current time is required")

func (s service) Play(ctx context.Context, params *PlayParams) error {
	if err := validateTime(params.CurrentTime); err != nil {
		return err
	}

	return s.update(ctx, params.Peer, domain.VideoStateUpdate{
		IsPlaying:   lo.ToPtr(true),
		CurrentTime: params.CurrentTime,
	})
}

func (s service) Pause(ctx context.Context, params *PauseParams) error {
	if err := validateTime(params.CurrentTime); err != nil {
		return err
	}

	return s.update(ctx, params.Peer, domain.VideoStateUpdate{
		IsPlaying:   lo.ToPtr(false),
		CurrentTime: params.CurrentTime,
	})
}

func (s service) Seek(ctx context.Context, params *SeekParams) error {
	if params.CurrentTime == nil {
		return ErrSeekTimeRequired
	}
	if err := validateTime(params.CurrentTime); err != nil {
		return err
	}

	return s.update(ctx, params.Peer, domain.VideoStateUpdate{
		CurrentTime: params.CurrentTime,
	})
}

func (s service) ChangeSpeed(ctx context.Context, params *ChangeSpeedParams) error {
	if err := validation.Validate(params.Speed, svc.PlaybackSpeedRule...); err != nil {
		return apperr.Validation(err.Error())
	}

	return s.update(ctx, params.Peer, domain.VideoStateUpdate{
		PlaybackSpeed: &params.Speed,
	})
}

// ChangeMovie switches the room to another catalog entry, paused at the start.
func (s service) ChangeMovie(ctx context.Context, params *ChangeMovieParams) error {
	if err := validation.Validate(params.MovieID, svc.MovieIdRule...); err != nil {
		return apperr.Validation(err.Error())
	}

	room, err := s.hostRoom(params.Peer)
	if err != nil {
		return err
	}

	exists, err := s.movieRepo.MovieExists(ctx, params.MovieID)
	if err != nil {
		return fmt.Errorf("failed to check movie: %w", err)
	}
	if !exists {
		return svc.ErrMovieNotFound
	}

	if !room.UpdateVideoState(params.Peer.UserID(), domain.VideoStateUpdate{
		MovieID:     &params.MovieID,
		IsPlaying:   lo.ToPtr(false),
		CurrentTime: lo.ToPtr(0.0),
	}) {
		return svc.ErrOnlyHost
	}

	if err := s.partyRepo.UpdateParty(ctx, &partyrepo.UpdatePartyParams{
		PartyID: room.ID(),
		MovieID: &params.MovieID,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist movie change", "party_id", room.ID(), "error", err)
	}

	s.logger.InfoContext(ctx, "movie changed", "party_id", room.ID(), "movie_id", params.MovieID)
	return nil
}

func (s service) update(ctx context.Context, peer domain.Peer, upd domain.VideoStateUpdate) error {
	room, err := s.hostRoom(peer)
	if err != nil {
		return err
	}

	if !room.UpdateVideoState(peer.UserID(), upd) {
		return svc.ErrOnlyHost
	}

	s.logger.DebugContext(ctx, "video state updated", "party_id", room.ID(), "state", room.VideoState())
	return nil
}

// hostRoom returns the peer's room, failing unless the peer is its host.
func (s service) hostRoom(peer domain.Peer) (*domain.Room, error) {
	if peer.RoomID() == "" {
		return nil, svc.ErrNotInParty
	}

	room, err := s.registry.GetRoom(peer.RoomID())
	if err != nil {
		return nil, svc.ErrNotInParty
	}

	if !room.IsHost(peer.UserID()) {
		return nil, svc.ErrOnlyHost
	}

	return room, nil
}

func validateTime(t *float64) error {
	if t == nil {
		return nil
	}

	if err := validation.Validate(*t, svc.CurrentTimeRule...); err != nil {
		return apperr.Validation(err.Error())
	}

	return nil
}

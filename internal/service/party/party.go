package party

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/sharetube/watchparty/internal/apperr"
	"github.com/sharetube/watchparty/internal/domain"
	partyrepo "github.com/sharetube/watchparty/internal/repository/party"
	"github.com/sharetube/watchparty/internal/repository/session"
	svc "github.com/sharetube/watchparty/internal/service"
)

// CreateParty persists the party record before the live room exists, so the invite code
// survives a restart.
func (s service) CreateParty(ctx context.Context, params *CreatePartyParams) (CreatePartyResponse, error) {
	peer := params.Peer
	if peer.RoomID() != "" {
		return CreatePartyResponse{}, ErrAlreadyInParty
	}

	roomName := strings.TrimSpace(params.RoomName)
	if err := validation.Validate(roomName, svc.RoomNameRule...); err != nil {
		return CreatePartyResponse{}, apperr.Validation(err.Error())
	}
	if err := validation.Validate(params.MovieID, svc.MovieIdRule...); err != nil {
		return CreatePartyResponse{}, apperr.Validation(err.Error())
	}

	if err := s.checkMovieExists(ctx, params.MovieID); err != nil {
		return CreatePartyResponse{}, err
	}

	partyID := uuid.NewString()
	inviteCode, err := s.createPartyRecord(ctx, &partyrepo.CreatePartyParams{
		PartyID:      partyID,
		Name:         roomName,
		HostID:       peer.UserID(),
		HostUsername: peer.Username(),
		MovieID:      params.MovieID,
		CreatedAt:    s.now().UnixMilli(),
	})
	if err != nil {
		return CreatePartyResponse{}, apperr.Wrap(apperr.KindInternal, "Failed to create party", err)
	}

	s.addMemberRecord(ctx, partyID, peer.UserID())

	room, err := s.registry.CreateRoom(peer, &session.CreateRoomParams{
		RoomID:       partyID,
		Name:         roomName,
		InviteCode:   inviteCode,
		MovieID:      params.MovieID,
		HostID:       peer.UserID(),
		HostUsername: peer.Username(),
		MembersLimit: s.membersLimit,
	})
	if err != nil {
		return CreatePartyResponse{}, apperr.Wrap(apperr.KindInternal, "Failed to create party", err)
	}
	peer.SetRoomID(room.ID())

	s.logger.InfoContext(ctx, "party created", "party_id", partyID, "invite_code", inviteCode)
	return CreatePartyResponse{Room: room.Snapshot()}, nil
}

func (s service) createPartyRecord(ctx context.Context, params *partyrepo.CreatePartyParams) (string, error) {
	for range maxInviteCodeAttempts {
		inviteCode := s.generator.GenerateRandomString(svc.InviteCodeLength)

		taken, err := s.partyRepo.IsInviteCodeTaken(ctx, inviteCode)
		if err != nil {
			return "", fmt.Errorf("failed to check invite code: %w", err)
		}
		if taken {
			continue
		}

		params.InviteCode = inviteCode
		if err := s.partyRepo.CreateParty(ctx, params); err != nil {
			if errors.Is(err, partyrepo.ErrInviteCodeTaken) {
				continue
			}

			return "", fmt.Errorf("failed to create party record: %w", err)
		}

		return inviteCode, nil
	}

	return "", fmt.Errorf("failed to generate unique invite code after %d attempts", maxInviteCodeAttempts)
}

// JoinParty adds the peer to a party found by invite code or id. A party without a live room
// is rebuilt from its record, keeping the recorded host.
func (s service) JoinParty(ctx context.Context, params *JoinPartyParams) (JoinPartyResponse, error) {
	peer := params.Peer
	if peer.RoomID() != "" {
		return JoinPartyResponse{}, ErrAlreadyInParty
	}

	record, err := s.findParty(ctx, params.InviteCode, params.PartyID)
	if err != nil {
		return JoinPartyResponse{}, err
	}

	room, err := s.registry.GetRoom(record.ID)
	switch {
	case errors.Is(err, session.ErrRoomNotFound):
		room, err = s.registry.CreateRoom(peer, &session.CreateRoomParams{
			RoomID:       record.ID,
			Name:         record.Name,
			InviteCode:   record.InviteCode,
			MovieID:      record.MovieID,
			HostID:       record.HostID,
			HostUsername: record.HostUsername,
			MembersLimit: s.membersLimit,
		})
		if err != nil {
			return JoinPartyResponse{}, s.mapMemberErr(err)
		}
		s.logger.InfoContext(ctx, "room restored from record", "party_id", record.ID)
	case err != nil:
		return JoinPartyResponse{}, fmt.Errorf("failed to get room: %w", err)
	default:
		if err := room.AddMember(peer); err != nil {
			return JoinPartyResponse{}, s.mapMemberErr(err)
		}
	}

	s.addMemberRecord(ctx, room.ID(), peer.UserID())
	peer.SetRoomID(room.ID())

	if member, err := room.Member(peer.UserID()); err == nil {
		for _, o := range room.Observers() {
			if o.UserID() != member.UserID {
				o.SendParticipantJoined(member)
			}
		}
	}

	return JoinPartyResponse{
		Room:   room.Snapshot(),
		IsHost: room.IsHost(peer.UserID()),
	}, nil
}

func (s service) findParty(ctx context.Context, inviteCode, partyID string) (partyrepo.Party, error) {
	var (
		record partyrepo.Party
		err    error
	)

	inviteCode = strings.ToUpper(strings.TrimSpace(inviteCode))
	switch {
	case inviteCode != "":
		if err := validation.Validate(inviteCode, svc.InviteCodeRule...); err != nil {
			return partyrepo.Party{}, ErrInvalidInviteCode
		}
		record, err = s.partyRepo.GetPartyByInviteCode(ctx, inviteCode)
	case partyID != "":
		if err := validation.Validate(partyID, svc.PartyIdRule...); err != nil {
			return partyrepo.Party{}, svc.ErrPartyNotFound
		}
		record, err = s.partyRepo.GetParty(ctx, partyID)
	default:
		return partyrepo.Party{}, ErrJoinTargetMissing
	}

	if err != nil {
		if errors.Is(err, partyrepo.ErrPartyNotFound) {
			return partyrepo.Party{}, svc.ErrPartyNotFound
		}

		return partyrepo.Party{}, fmt.Errorf("failed to find party: %w", err)
	}

	if !record.IsActive {
		return partyrepo.Party{}, svc.ErrPartyNotFound
	}

	return record, nil
}

func (s service) LeaveParty(ctx context.Context, params *LeavePartyParams) error {
	peer := params.Peer
	room, err := s.getPeerRoom(peer)
	if err != nil {
		return err
	}

	s.removeMemberRecord(ctx, room.ID(), peer.UserID())
	s.removeFromRoom(ctx, room, peer)

	return nil
}

// EndParty closes the party for every member and marks its record inactive.
func (s service) EndParty(ctx context.Context, params *EndPartyParams) error {
	peer := params.Peer
	room, err := s.getPeerRoom(peer)
	if err != nil {
		return err
	}

	memberIDs := room.OnlineMemberIDs()
	if !room.EndParty(peer.UserID()) {
		return ErrEndForbidden
	}

	if err := s.partyRepo.DeactivateParty(ctx, room.ID()); err != nil {
		s.logger.ErrorContext(ctx, "failed to deactivate party", "party_id", room.ID(), "error", err)
	}

	for _, id := range memberIDs {
		s.clearPeerRoom(id, room.ID())
	}
	s.registry.DeleteRoom(room.ID())

	s.logger.InfoContext(ctx, "party ended", "party_id", room.ID())
	return nil
}

func (s service) GetPartySummary(ctx context.Context, inviteCode string) (PartySummary, error) {
	record, err := s.findParty(ctx, inviteCode, "")
	if err != nil {
		return PartySummary{}, err
	}

	memberIds, err := s.partyRepo.GetMemberIds(ctx, record.ID)
	if err != nil {
		return PartySummary{}, fmt.Errorf("failed to get member ids: %w", err)
	}

	return PartySummary{
		PartyID:      record.ID,
		RoomName:     record.Name,
		InviteCode:   record.InviteCode,
		MovieID:      record.MovieID,
		HostID:       record.HostID,
		HostUsername: record.HostUsername,
		MembersCount: len(memberIds),
		CreatedAt:    record.CreatedAt,
	}, nil
}

// IsPartyMember reports whether userID is recorded as a member or the host of partyID.
func (s service) IsPartyMember(ctx context.Context, partyID, userID string) (bool, error) {
	record, err := s.findParty(ctx, "", partyID)
	if err != nil {
		return false, err
	}
	if record.HostID == userID {
		return true, nil
	}

	memberIds, err := s.partyRepo.GetMemberIds(ctx, partyID)
	if err != nil {
		return false, fmt.Errorf("failed to get member ids: %w", err)
	}

	for _, id := range memberIds {
		if id == userID {
			return true, nil
		}
	}

	return false, nil
}

func (s service) checkMovieExists(ctx context.Context, movieID string) error {
	exists, err := s.movieRepo.MovieExists(ctx, movieID)
	if err != nil {
		return fmt.Errorf("failed to check movie: %w", err)
	}
	if !exists {
		return svc.ErrMovieNotFound
	}

	return nil
}

func (s service) mapMemberErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrMemberAlreadyExists):
		return ErrAlreadyMember
	case errors.Is(err, domain.ErrMembersLimitReached):
		return ErrPartyFull
	case errors.Is(err, domain.ErrRoomEnded):
		return svc.ErrPartyNotFound
	case errors.Is(err, domain.ErrMissingIdentity):
		return apperr.Authentication("Not authenticated")
	default:
		return fmt.Errorf("failed to add member: %w", err)
	}
}

package party

import (
	"context"

	"github.com/sharetube/watchparty/internal/domain"
	partyrepo "github.com/sharetube/watchparty/internal/repository/party"
	svc "github.com/sharetube/watchparty/internal/service"
)

func (s service) KickUser(ctx context.Context, params *KickUserParams) error {
	peer := params.Peer
	room, err := s.getPeerRoom(peer)
	if err != nil {
		return err
	}

	requesterID := peer.UserID()
	switch {
	case !room.IsHost(requesterID):
		return ErrKickForbidden
	case params.TargetUserID == requesterID:
		return ErrCannotKickSelf
	}

	target, err := room.Member(params.TargetUserID)
	if err != nil {
		return ErrUserNotInParty
	}

	if !room.KickMember(requesterID, target.UserID) {
		return ErrKickForbidden
	}

	s.removeMemberRecord(ctx, room.ID(), target.UserID)
	s.clearPeerRoom(target.UserID, room.ID())

	for _, o := range room.Observers() {
		o.SendParticipantLeft(target)
	}

	s.logger.InfoContext(ctx, "member kicked", "party_id", room.ID(), "target_id", target.UserID)
	return nil
}

// Disconnect removes a closed connection from its room. A connection that was already
// replaced by a newer one for the same user leaves the membership alone.
func (s service) Disconnect(ctx context.Context, params *DisconnectParams) error {
	peer := params.Peer
	room, err := s.getPeerRoom(peer)
	if err != nil {
		return nil
	}

	if !room.IsAttached(peer) {
		peer.SetRoomID("")
		return nil
	}

	s.removeMemberRecord(ctx, room.ID(), peer.UserID())
	s.removeFromRoom(ctx, room, peer)

	return nil
}

func (s service) getPeerRoom(peer domain.Peer) (*domain.Room, error) {
	roomID := peer.RoomID()
	if roomID == "" {
		return nil, svc.ErrNotInParty
	}

	room, err := s.registry.GetRoom(roomID)
	if err != nil {
		peer.SetRoomID("")
		return nil, svc.ErrNotInParty
	}

	return room, nil
}

func (s service) removeFromRoom(ctx context.Context, room *domain.Room, peer domain.Peer) {
	peer.SetRoomID("")

	removed, newHost, err := room.RemoveMember(peer.UserID())
	if err != nil {
		s.logger.WarnContext(ctx, "member already removed", "party_id", room.ID(), "error", err)
		return
	}

	for _, o := range room.Observers() {
		o.SendParticipantLeft(removed)
	}

	if newHost != nil {
		s.logger.InfoContext(ctx, "host changed", "party_id", room.ID(), "host_id", newHost.UserID)
		if err := s.partyRepo.UpdateParty(ctx, &partyrepo.UpdatePartyParams{
			PartyID:      room.ID(),
			HostID:       &newHost.UserID,
			HostUsername: &newHost.Username,
		}); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist host change", "party_id", room.ID(), "error", err)
		}
	}

	if room.OnlineCount() == 0 {
		s.registry.DeleteRoom(room.ID())
		s.logger.InfoContext(ctx, "room reclaimed", "party_id", room.ID())
	}
}

func (s service) clearPeerRoom(userID, roomID string) {
	peer, err := s.registry.GetConn(userID)
	if err != nil {
		return
	}

	if peer.RoomID() == roomID {
		peer.SetRoomID("")
	}
}

func (s service) addMemberRecord(ctx context.Context, partyID, userID string) {
	if err := s.partyRepo.AddMember(ctx, &partyrepo.AddMemberParams{
		PartyID: partyID,
		UserID:  userID,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist membership", "party_id", partyID, "user_id", userID, "error", err)
	}
}

func (s service) removeMemberRecord(ctx context.Context, partyID, userID string) {
	if err := s.partyRepo.RemoveMember(ctx, &partyrepo.RemoveMemberParams{
		PartyID: partyID,
		UserID:  userID,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist membership removal", "party_id", partyID, "user_id", userID, "error", err)
	}
}

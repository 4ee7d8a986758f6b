package controller

import (
	"context"

	"github.com/samber/lo"

	"github.com/sharetube/watchparty/internal/domain"
	"github.com/sharetube/watchparty/internal/protocol"
	"github.com/sharetube/watchparty/internal/service/party"
)

func (c controller) handleAuth(ctx context.Context, cl *client, input protocol.AuthInput) error {
	if cl.authenticated {
		return errAlreadyAuthenticated
	}

	identity, err := c.authService.Verify(input.Token)
	if err != nil {
		c.logger.InfoContext(ctx, "authentication failed", "error", err)
		cl.enqueue(protocol.TypeAuthError, protocol.MessageOutput{Message: invalidTokenMessage})
		cl.close()
		return nil
	}

	cl.authenticate(identity)
	if replaced := c.registry.Register(identity.UserID, cl); replaced != nil {
		if old, ok := replaced.(*client); ok {
			c.dropReplaced(ctx, old)
		}
	}

	c.logger.InfoContext(ctx, "authenticated", "user_id", identity.UserID)
	cl.enqueue(protocol.TypeAuthSuccess, protocol.AuthSuccessOutput{
		UserID:   identity.UserID,
		Username: identity.Username,
	})
	return nil
}

func (c controller) handlePing(_ context.Context, cl *client, _ protocol.EmptyInput) error {
	cl.enqueue(protocol.TypePong, nil)
	return nil
}

func (c controller) handleCreateParty(ctx context.Context, cl *client, input protocol.CreatePartyInput) error {
	resp, err := c.partyService.CreateParty(ctx, &party.CreatePartyParams{
		Peer:     cl,
		RoomName: input.RoomName,
		MovieID:  input.MovieID,
	})
	if err != nil {
		return err
	}

	cl.enqueue(protocol.TypePartyCreated, protocol.PartyOutput{
		Snapshot: resp.Room,
		IsHost:   true,
	})
	return nil
}

func (c controller) handleJoinParty(ctx context.Context, cl *client, input protocol.JoinPartyInput) error {
	resp, err := c.partyService.JoinParty(ctx, &party.JoinPartyParams{
		Peer:       cl,
		InviteCode: input.InviteCode,
		PartyID:    input.PartyID,
	})
	if err != nil {
		return err
	}

	cl.enqueue(protocol.TypePartyJoined, protocol.PartyOutput{
		Snapshot: resp.Room,
		IsHost:   resp.IsHost,
	})
	c.sendChatHistory(ctx, cl, resp.Room.ID)
	return nil
}

// sendChatHistory is best effort, a failed lookup does not undo the join.
func (c controller) sendChatHistory(ctx context.Context, cl *client, roomID string) {
	history, err := c.chatService.GetHistory(ctx, roomID)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to load chat history", "party_id", roomID, "error", err)
		return
	}

	cl.enqueue(protocol.TypeChatHistory, protocol.ChatHistoryOutput{
		Messages: lo.Map(history, func(m domain.ChatMessage, _ int) protocol.ChatMessageOutput {
			return protocol.NewChatMessageOutput(m)
		}),
	})
}

func (c controller) handleLeaveParty(ctx context.Context, cl *client, _ protocol.EmptyInput) error {
	if err := c.partyService.LeaveParty(ctx, &party.LeavePartyParams{Peer: cl}); err != nil {
		return err
	}

	cl.enqueue(protocol.TypePartyLeft, protocol.MessageOutput{Message: partyLeftMessage})
	return nil
}

func (c controller) handleKickUser(ctx context.Context, cl *client, input protocol.KickUserInput) error {
	return c.partyService.KickUser(ctx, &party.KickUserParams{
		Peer:         cl,
		TargetUserID: input.UserID,
	})
}

func (c controller) handleEndParty(ctx context.Context, cl *client, _ protocol.EmptyInput) error {
	return c.partyService.EndParty(ctx, &party.EndPartyParams{Peer: cl})
}

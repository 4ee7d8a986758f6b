package redis

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/sharetube/watchparty/internal/repository/party"
	omitnilpointers "github.com/sharetube/watchparty/pkg/omit-nil-pointers"
)

func (r repo) getPartyKey(partyID string) string {
	return "party:" + partyID
}

func (r repo) getInviteCodeKey(inviteCode string) string {
	return "invite-code:" + strings.ToUpper(inviteCode)
}

func (r repo) getMemberListKey(partyID string) string {
	return "party:" + partyID + ":memberlist"
}

// CreateParty stores a new active party. The invite code is claimed with SETNX first so two
// parties can never share one.
func (r repo) CreateParty(ctx context.Context, params *party.CreatePartyParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)

	inviteCodeKey := r.getInviteCodeKey(params.InviteCode)
	claimed, err := r.rc.SetNX(ctx, inviteCodeKey, params.PartyID, r.expireDuration).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}
	if !claimed {
		r.logger.DebugContext(ctx, "returned", "error", party.ErrInviteCodeTaken)
		return party.ErrInviteCodeTaken
	}

	pipe := r.rc.TxPipeline()

	partyKey := r.getPartyKey(params.PartyID)
	r.hSetStruct(ctx, pipe, partyKey, party.Party{
		Name:         params.Name,
		InviteCode:   strings.ToUpper(params.InviteCode),
		HostID:       params.HostID,
		HostUsername: params.HostUsername,
		MovieID:      params.MovieID,
		IsActive:     true,
		CreatedAt:    params.CreatedAt,
	})
	pipe.Expire(ctx, partyKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.rc.Del(ctx, inviteCodeKey)
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) IsInviteCodeTaken(ctx context.Context, inviteCode string) (bool, error) {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"invite_code": inviteCode,
	})
	exists, err := r.rc.Exists(ctx, r.getInviteCodeKey(inviteCode)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return false, err
	}

	return exists > 0, nil
}

func (r repo) GetParty(ctx context.Context, partyID string) (party.Party, error) {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"party_id": partyID,
	})
	cmd := r.rc.HGetAll(ctx, r.getPartyKey(partyID))
	if err := cmd.Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return party.Party{}, err
	}

	if len(cmd.Val()) == 0 {
		r.logger.DebugContext(ctx, "returned", "error", party.ErrPartyNotFound)
		return party.Party{}, party.ErrPartyNotFound
	}

	var p party.Party
	if err := cmd.Scan(&p); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return party.Party{}, err
	}
	p.ID = partyID

	return p, nil
}

func (r repo) GetPartyByInviteCode(ctx context.Context, inviteCode string) (party.Party, error) {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"invite_code": inviteCode,
	})
	partyID, err := r.rc.Get(ctx, r.getInviteCodeKey(inviteCode)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.DebugContext(ctx, "returned", "error", party.ErrPartyNotFound)
			return party.Party{}, party.ErrPartyNotFound
		}

		r.logger.DebugContext(ctx, "returned", "error", err)
		return party.Party{}, err
	}

	return r.GetParty(ctx, partyID)
}

func (r repo) UpdateParty(ctx context.Context, params *party.UpdatePartyParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	fields := omitnilpointers.OmitNilPointers(map[string]any{
		"host_id":       params.HostID,
		"host_username": params.HostUsername,
		"movie_id":      params.MovieID,
	})
	if len(fields) == 0 {
		return nil
	}

	partyKey := r.getPartyKey(params.PartyID)
	exists, err := r.rc.Exists(ctx, partyKey).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}
	if exists == 0 {
		r.logger.DebugContext(ctx, "returned", "error", party.ErrPartyNotFound)
		return party.ErrPartyNotFound
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, partyKey, fields)
	pipe.Expire(ctx, partyKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

// DeactivateParty marks the party inactive and releases its invite code.
func (r repo) DeactivateParty(ctx context.Context, partyID string) error {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"party_id": partyID,
	})
	p, err := r.GetParty(ctx, partyID)
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, r.getPartyKey(partyID), "is_active", false)
	pipe.Del(ctx, r.getInviteCodeKey(p.InviteCode), r.getMemberListKey(partyID))

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

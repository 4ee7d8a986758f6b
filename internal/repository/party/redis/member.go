package redis

import (
	"context"

	"github.com/sharetube/watchparty/internal/repository/party"
)

func (r repo) AddMember(ctx context.Context, params *party.AddMemberParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	pipe := r.rc.TxPipeline()

	memberListKey := r.getMemberListKey(params.PartyID)
	r.addWithIncrement(ctx, pipe, memberListKey, params.UserID)
	pipe.Expire(ctx, memberListKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) RemoveMember(ctx context.Context, params *party.RemoveMemberParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	if err := r.rc.ZRem(ctx, r.getMemberListKey(params.PartyID), params.UserID).Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

// GetMemberIds returns member ids in join order.
func (r repo) GetMemberIds(ctx context.Context, partyID string) ([]string, error) {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"party_id": partyID,
	})
	memberIds, err := r.rc.ZRange(ctx, r.getMemberListKey(partyID), 0, -1).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return nil, err
	}

	return memberIds, nil
}

package controller

import (
	"context"

	"github.com/sharetube/watchparty/internal/service/auth"
)

type contextKey int

const (
	identityCtxKey contextKey = iota
)

func (c controller) getIdentityFromCtx(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey).(auth.Identity)
	return identity, ok
}

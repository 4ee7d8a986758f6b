package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sharetube/watchparty/pkg/ctxlogger"
	"github.com/sharetube/watchparty/pkg/rest"
)

func (c controller) requestIdMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = ctxlogger.AppendCtx(ctx, slog.String("request_id", c.generateTimeBasedId()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c controller) requestLoggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
		)
		next.ServeHTTP(w, r)
	})
}

func (c controller) bearerAuthMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := c.getBearerToken(r)
		if err != nil {
			rest.WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}

		identity, err := c.authService.Verify(token)
		if err != nil {
			c.logger.DebugContext(r.Context(), "failed to verify token", "error", err)
			rest.WriteError(w, http.StatusUnauthorized, invalidTokenMessage)
			return
		}

		ctx := context.WithValue(r.Context(), identityCtxKey, identity)
		ctx = ctxlogger.AppendCtx(ctx, slog.String("user_id", identity.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/sharetube/watchparty/pkg/ctxlogger"
	"github.com/sharetube/watchparty/pkg/wsrouter"
)

func (c controller) wsRequestIdWSMw() wsrouter.Middleware[*client] {
	return func(next wsrouter.HandlerFunc[*client, json.RawMessage]) wsrouter.HandlerFunc[*client, json.RawMessage] {
		return func(ctx context.Context, cl *client, payload json.RawMessage) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("ws_request_id", c.generateTimeBasedId()))
			if cl.authenticated {
				ctx = ctxlogger.AppendCtx(ctx, slog.String("user_id", cl.UserID()))
			}
			return next(ctx, cl, payload)
		}
	}
}

func (c controller) loggerWSMw() wsrouter.Middleware[*client] {
	return func(next wsrouter.HandlerFunc[*client, json.RawMessage]) wsrouter.HandlerFunc[*client, json.RawMessage] {
		return func(ctx context.Context, cl *client, payload json.RawMessage) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("message_type", wsrouter.GetMessageTypeFromCtx(ctx)))
			c.logger.InfoContext(ctx, "websocket message received")

			start := time.Now()

			err := next(ctx, cl, payload)

			c.logger.InfoContext(ctx, "websocket message handled",
				"processing_time_us", time.Since(start).Microseconds(),
				"goroutines", runtime.NumGoroutine(),
			)

			return err
		}
	}
}

// recoverWSMw turns a panicking handler into an error reply for that message only.
func (c controller) recoverWSMw() wsrouter.Middleware[*client] {
	return func(next wsrouter.HandlerFunc[*client, json.RawMessage]) wsrouter.HandlerFunc[*client, json.RawMessage] {
		return func(ctx context.Context, cl *client, payload json.RawMessage) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					buf := make([]byte, 4096)
					buf = buf[:runtime.Stack(buf, false)]
					c.logger.ErrorContext(ctx, "panic in websocket handler", "panic", rec, "stack", string(buf))
					err = fmt.Errorf("handler panicked: %v", rec)
				}
			}()

			return next(ctx, cl, payload)
		}
	}
}

func (c controller) requireAuthWSMw() wsrouter.Middleware[*client] {
	return func(next wsrouter.HandlerFunc[*client, json.RawMessage]) wsrouter.HandlerFunc[*client, json.RawMessage] {
		return func(ctx context.Context, cl *client, payload json.RawMessage) error {
			if !cl.authenticated {
				return errNotAuthenticated
			}

			return next(ctx, cl, payload)
		}
	}
}

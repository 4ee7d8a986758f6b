package controller

import (
	"context"
	"errors"

	"github.com/sharetube/watchparty/internal/apperr"
	"github.com/sharetube/watchparty/internal/domain"
	"github.com/sharetube/watchparty/internal/service/party"
	"github.com/sharetube/watchparty/pkg/wsrouter"
)

type eventKind int

const (
	eventMessage eventKind = iota
	eventClosed
)

type event struct {
	kind   eventKind
	ctx    context.Context
	client *client
	data   []byte
}

// Run processes connection events one at a time until ctx is done. Every room and registry
// mutation happens on this goroutine.
func (c controller) Run(ctx context.Context) {
	defer close(c.done)

	c.logger.InfoContext(ctx, "event loop started")
	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "event loop stopped")
			return
		case ev := <-c.events:
			switch ev.kind {
			case eventMessage:
				c.handleMessage(ev.ctx, ev.client, ev.data)
			case eventClosed:
				c.handleClosed(ev.ctx, ev.client)
			}
		}
	}
}

// dispatch hands an event to the loop. It returns false once the loop has stopped.
func (c controller) dispatch(ev event) bool {
	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}

func (c controller) handleMessage(ctx context.Context, cl *client, data []byte) {
	if err := c.wsRouter.Serve(ctx, cl, data); err != nil {
		c.handleWSError(ctx, cl, err)
	}
}

func (c controller) handleWSError(ctx context.Context, cl *client, err error) {
	switch {
	case errors.Is(err, wsrouter.ErrInvalidMessage):
		c.logger.DebugContext(ctx, "invalid message", "error", err)
		cl.SendError(errInvalidMessage)
	case errors.Is(err, wsrouter.ErrUnknownMessageType):
		cl.SendError(errUnknownMessageType)
	default:
		e, ok := apperr.From(err)
		if !ok || e.Kind == apperr.KindInternal {
			c.logger.ErrorContext(ctx, "failed to handle message", "error", err)
		} else {
			c.logger.InfoContext(ctx, "message rejected", "error", err)
		}
		cl.SendError(err)
	}
}

// handleClosed releases everything a closed connection holds. A connection that was replaced
// by a newer one for the same user leaves the registry entry alone.
func (c controller) handleClosed(ctx context.Context, cl *client) {
	defer cl.close()

	if !cl.authenticated {
		return
	}

	if conn, err := c.registry.GetConn(cl.UserID()); err == nil && conn == domain.Peer(cl) {
		c.registry.Unregister(cl.UserID())
	}

	if err := c.partyService.Disconnect(ctx, &party.DisconnectParams{Peer: cl}); err != nil {
		c.logger.ErrorContext(ctx, "failed to disconnect", "error", err)
	}

	c.logger.InfoContext(ctx, "connection closed")
}

// dropReplaced detaches a connection superseded by a newer one for the same user and closes it.
func (c controller) dropReplaced(ctx context.Context, old *client) {
	if err := c.partyService.Disconnect(ctx, &party.DisconnectParams{Peer: old}); err != nil {
		c.logger.ErrorContext(ctx, "failed to disconnect replaced connection", "error", err)
	}
	old.close()

	c.logger.InfoContext(ctx, "replaced previous connection")
}

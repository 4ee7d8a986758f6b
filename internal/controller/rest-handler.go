package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/sharetube/watchparty/internal/apperr"
	"github.com/sharetube/watchparty/internal/domain"
	"github.com/sharetube/watchparty/internal/protocol"
	"github.com/sharetube/watchparty/pkg/rest"
)

func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	// the connection outlives the handshake request
	ctx := context.WithoutCancel(r.Context())
	cl := c.newClient(conn)
	cl.enqueue(protocol.TypeAuthError, protocol.MessageOutput{Message: authRequiredMessage})

	c.logger.InfoContext(ctx, "connection opened", "remote_addr", r.RemoteAddr)
	go c.writePump(ctx, cl)
	c.readPump(ctx, cl)
}

func (c controller) getStats(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.registry.Stats()})
}

func (c controller) getPartySummary(w http.ResponseWriter, r *http.Request) {
	inviteCode := chi.URLParam(r, "invite-code")

	summary, err := c.partyService.GetPartySummary(r.Context(), inviteCode)
	if err != nil {
		c.writeRESTError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": summary})
}

func (c controller) getPartyMessages(w http.ResponseWriter, r *http.Request) {
	partyID := chi.URLParam(r, "party-id")
	identity, ok := c.getIdentityFromCtx(r.Context())
	if !ok {
		c.writeRESTError(w, r, errNotAuthenticated)
		return
	}

	isMember, err := c.partyService.IsPartyMember(r.Context(), partyID, identity.UserID)
	if err != nil {
		c.writeRESTError(w, r, err)
		return
	}
	if !isMember {
		c.writeRESTError(w, r, errNotPartyMember)
		return
	}

	history, err := c.chatService.GetHistory(r.Context(), partyID)
	if err != nil {
		c.writeRESTError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": protocol.ChatHistoryOutput{
		Messages: lo.Map(history, func(m domain.ChatMessage, _ int) protocol.ChatMessageOutput {
			return protocol.NewChatMessageOutput(m)
		}),
	}})
}

func (c controller) writeRESTError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		c.logger.ErrorContext(r.Context(), "request failed", "error", err)
		rest.WriteError(w, status, errInternal.Message)
		return
	}

	e, _ := apperr.From(err)
	rest.WriteError(w, status, e.Message)
}

package controller

import (
	"github.com/sharetube/watchparty/internal/apperr"
	"github.com/sharetube/watchparty/internal/protocol"
	"github.com/sharetube/watchparty/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter[*client] {
	mux := wsrouter.New[*client](c.validatePayload)
	mux.Use(c.wsRequestIdWSMw(), c.loggerWSMw(), c.recoverWSMw())

	authed := c.requireAuthWSMw()
	mux.NotFound(authed)

	// connection
	wsrouter.Handle(mux, protocol.TypeAuth, c.handleAuth)
	wsrouter.Handle(mux, protocol.TypePing, c.handlePing)

	// party
	wsrouter.Handle(mux, protocol.TypeCreateParty, c.handleCreateParty, authed)
	wsrouter.Handle(mux, protocol.TypeJoinParty, c.handleJoinParty, authed)
	wsrouter.Handle(mux, protocol.TypeLeaveParty, c.handleLeaveParty, authed)
	wsrouter.Handle(mux, protocol.TypeKickUser, c.handleKickUser, authed)
	wsrouter.Handle(mux, protocol.TypeEndParty, c.handleEndParty, authed)

	// playback
	wsrouter.Handle(mux, protocol.TypePlay, c.handlePlay, authed)
	wsrouter.Handle(mux, protocol.TypePause, c.handlePause, authed)
	wsrouter.Handle(mux, protocol.TypeSeek, c.handleSeek, authed)
	wsrouter.Handle(mux, protocol.TypeChangeSpeed, c.handleChangeSpeed, authed)
	wsrouter.Handle(mux, protocol.TypeChangeMovie, c.handleChangeMovie, authed)

	// chat
	wsrouter.Handle(mux, protocol.TypeChatMessage, c.handleChatMessage, authed)

	return mux
}

func (c controller) validatePayload(payload any) error {
	if validationErrors, ok := c.validate.Validate(payload); !ok {
		return apperr.Validation(validationErrors[0].Message)
	}

	return nil
}

package controller

import (
	"github.com/sharetube/watchparty/internal/apperr"
	"github.com/sharetube/watchparty/internal/domain"
	"github.com/sharetube/watchparty/internal/protocol"
)

func (cl *client) UserID() string      { return cl.identity.UserID }
func (cl *client) Username() string    { return cl.identity.Username }
func (cl *client) RoomID() string      { return cl.roomID }
func (cl *client) SetRoomID(id string) { cl.roomID = id }

func (cl *client) Update(s domain.Snapshot) {
	cl.SendVideoState(s.VideoState)
	cl.enqueue(protocol.TypeUserListUpdate, protocol.UserListOutput{Users: s.Members})
}

func (cl *client) SendVideoState(state domain.VideoState) {
	cl.enqueue(protocol.TypeVideoStateUpdate, state)
}

func (cl *client) SendChatMessage(m domain.ChatMessage) {
	cl.enqueue(protocol.TypeChatMessage, protocol.NewChatMessageOutput(m))
}

func (cl *client) SendParticipantJoined(m domain.Member) {
	cl.enqueue(protocol.TypeParticipantJoined, protocol.MemberOutput{User: m})
}

func (cl *client) SendParticipantLeft(m domain.Member) {
	cl.enqueue(protocol.TypeParticipantLeft, protocol.MemberOutput{User: m})
}

func (cl *client) SendHostChanged(m domain.Member) {
	cl.enqueue(protocol.TypeHostChanged, protocol.MemberOutput{User: m})
}

func (cl *client) SendKicked(reason string) {
	cl.enqueue(protocol.TypeUserKicked, protocol.KickedOutput{Reason: reason})
}

func (cl *client) SendPartyEnded(message string) {
	cl.enqueue(protocol.TypePartyEnded, protocol.MessageOutput{Message: message})
}

// SendError reports err to the client. Only client-facing errors keep their message.
func (cl *client) SendError(err error) {
	e, ok := apperr.From(err)
	if !ok {
		e = errInternal
	}

	cl.enqueue(protocol.TypeError, protocol.ErrorOutput{
		Message: e.Message,
		Code:    e.Kind.String(),
	})
}

package domain

// Observer delivers room notifications to exactly one client connection.
// Implementations must not block and must skip delivery on a closed connection.
type Observer interface {
	UserID() string
	Username() string
	Update(Snapshot)
	SendVideoState(VideoState)
	SendChatMessage(ChatMessage)
	SendParticipantJoined(Member)
	SendParticipantLeft(Member)
	SendHostChanged(Member)
	SendKicked(reason string)
	SendPartyEnded(message string)
	SendError(err error)
}

// Peer is an authenticated connection that can be a member of at most one room.
type Peer interface {
	Observer
	RoomID() string
	SetRoomID(roomID string)
}

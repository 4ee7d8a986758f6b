// Package protocol defines the websocket message types and payloads exchanged between
// party clients and the server.
package protocol

import (
	"github.com/sharetube/watchparty/internal/domain"
)

// Client to server.
const (
	TypeAuth        = "auth"
	TypePing        = "ping"
	TypeCreateParty = "create_party"
	TypeJoinParty   = "join_party"
	TypeLeaveParty  = "leave_party"
	TypeKickUser    = "kick_user"
	TypeEndParty    = "end_party"
	TypePlay        = "play"
	TypePause       = "pause"
	TypeSeek        = "seek"
	TypeChangeSpeed = "change_speed"
	TypeChangeMovie = "change_movie"
	TypeChatMessage = "chat_message"
)

// Server to client. TypeChatMessage is used in both directions.
const (
	TypeAuthSuccess       = "auth_success"
	TypeAuthError         = "auth_error"
	TypePong              = "pong"
	TypePartyCreated      = "party_created"
	TypePartyJoined       = "party_joined"
	TypePartyLeft         = "party_left"
	TypePartyEnded        = "party_ended"
	TypeUserKicked        = "user_kicked"
	TypeHostChanged       = "host_changed"
	TypeVideoStateUpdate  = "video_state_update"
	TypeUserListUpdate    = "user_list_update"
	TypeParticipantJoined = "participant_joined"
	TypeParticipantLeft   = "participant_left"
	TypeChatHistory       = "chat_history"
	TypeError             = "error"
)

type Input struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Output is the envelope of every server message. Timestamp is unix milliseconds.
type Output struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type EmptyInput struct{}

type AuthInput struct {
	Token string `json:"token"`
}

type CreatePartyInput struct {
	RoomName string `json:"roomName" validate:"required,max=100"`
	MovieID  string `json:"movieId" validate:"required,max=64"`
}

type JoinPartyInput struct {
	InviteCode string `json:"inviteCode" validate:"required_without=PartyID"`
	PartyID    string `json:"partyId" validate:"required_without=InviteCode"`
}

type KickUserInput struct {
	UserID string `json:"userId" validate:"required"`
}

// TimeInput carries an optional playback position in seconds.
type TimeInput struct {
	CurrentTime *float64 `json:"currentTime" validate:"omitempty,gte=0"`
}

type SeekInput struct {
	CurrentTime *float64 `json:"currentTime" validate:"required,gte=0"`
}

type ChangeSpeedInput struct {
	Speed float64 `json:"speed" validate:"gt=0,lte=4"`
}

type ChangeMovieInput struct {
	MovieID string `json:"movieId" validate:"required,max=64"`
}

type ChatMessageInput struct {
	Content string `json:"content"`
}

type AuthSuccessOutput struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type MessageOutput struct {
	Message string `json:"message"`
}

type ErrorOutput struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type PartyOutput struct {
	domain.Snapshot
	IsHost bool `json:"isHost"`
}

type UserListOutput struct {
	Users []domain.Member `json:"users"`
}

type MemberOutput struct {
	User domain.Member `json:"user"`
}

type KickedOutput struct {
	Reason string `json:"reason"`
}

type ChatMessageOutput struct {
	ID        string `json:"id"`
	PartyID   string `json:"partyId"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

type ChatHistoryOutput struct {
	Messages []ChatMessageOutput `json:"messages"`
}

func NewChatMessageOutput(m domain.ChatMessage) ChatMessageOutput {
	return ChatMessageOutput{
		ID:        m.ID,
		PartyID:   m.RoomID,
		UserID:    m.UserID,
		Username:  m.Username,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UnixMilli(),
	}
}

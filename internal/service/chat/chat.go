package chat

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"

	"github.com/sharetube/watchparty/internal/apperr"
	"github.com/sharetube/watchparty/internal/domain"
	chatrepo "github.com/sharetube/watchparty/internal/repository/chat"
	svc "github.com/sharetube/watchparty/internal/service"
)

type SendMessageParams struct {
	Peer    domain.Peer
	Content string
}

// SendMessage persists a message and then delivers it to every member of the sender's room
// that still has a live connection in that room.
func (s service) SendMessage(ctx context.Context, params *SendMessageParams) (domain.ChatMessage, error) {
	peer := params.Peer
	if peer.RoomID() == "" {
		return domain.ChatMessage{}, svc.ErrNotInParty
	}

	room, err := s.registry.GetRoom(peer.RoomID())
	if err != nil || !room.HasMember(peer.UserID()) {
		return domain.ChatMessage{}, svc.ErrNotInParty
	}

	content := params.Content
	if err := validation.Validate(strings.TrimSpace(content), svc.ChatContentRule...); err != nil {
		return domain.ChatMessage{}, apperr.Validation(err.Error())
	}
	if err := validation.Validate(content, svc.ChatLengthRule...); err != nil {
		return domain.ChatMessage{}, apperr.Validation(err.Error())
	}

	createdAt := s.now().UTC()
	msg := domain.ChatMessage{
		ID:        ulid.MustNew(ulid.Timestamp(createdAt), ulid.DefaultEntropy()).String(),
		RoomID:    room.ID(),
		UserID:    peer.UserID(),
		Username:  peer.Username(),
		Content:   content,
		CreatedAt: createdAt,
	}

	if err := s.chatRepo.SaveMessage(ctx, &chatrepo.SaveMessageParams{
		MessageID: msg.ID,
		RoomID:    msg.RoomID,
		UserID:    msg.UserID,
		Username:  msg.Username,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}); err != nil {
		return domain.ChatMessage{}, apperr.Wrap(apperr.KindInternal, "Failed to send message", err)
	}

	recipients := lo.FilterMap(room.Members(), func(m domain.Member, _ int) (domain.Peer, bool) {
		conn, err := s.registry.GetConn(m.UserID)
		if err != nil || conn.RoomID() != room.ID() {
			return nil, false
		}
		return conn, true
	})
	for _, conn := range recipients {
		conn.SendChatMessage(msg)
	}

	s.logger.DebugContext(ctx, "chat message delivered", "party_id", room.ID(), "recipients", len(recipients))
	return msg, nil
}

// GetHistory returns the most recent messages of a room, oldest first.
func (s service) GetHistory(ctx context.Context, roomID string) ([]domain.ChatMessage, error) {
	messages, err := s.chatRepo.GetHistory(ctx, roomID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}

	return lo.Map(messages, func(m chatrepo.Message, _ int) domain.ChatMessage {
		return domain.ChatMessage{
			ID:        m.ID,
			RoomID:    m.RoomID,
			UserID:    m.UserID,
			Username:  m.Username,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}), nil
}

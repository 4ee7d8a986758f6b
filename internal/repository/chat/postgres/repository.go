package postgres

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/sharetube/watchparty/internal/repository/chat"
)

type repo struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepo(db *gorm.DB, logger *slog.Logger) *repo {
	return &repo{
		db:     db,
		logger: logger,
	}
}

func (r repo) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&chat.Message{})
}

func (r repo) SaveMessage(ctx context.Context, params *chat.SaveMessageParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	msg := chat.Message{
		ID:        params.MessageID,
		RoomID:    params.RoomID,
		UserID:    params.UserID,
		Username:  params.Username,
		Content:   params.Content,
		CreatedAt: params.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

// GetHistory returns the most recent limit messages of a room in chronological order.
func (r repo) GetHistory(ctx context.Context, roomID string, limit int) ([]chat.Message, error) {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"room_id": roomID,
		"limit":   limit,
	})

	var messages []chat.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return nil, err
	}

	return lo.Reverse(messages), nil
}

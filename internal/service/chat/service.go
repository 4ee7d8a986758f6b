package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/sharetube/watchparty/internal/domain"
	chatrepo "github.com/sharetube/watchparty/internal/repository/chat"
)

type iRegistry interface {
	GetConn(userID string) (domain.Peer, error)
	GetRoom(roomID string) (*domain.Room, error)
}

type iChatRepo interface {
	SaveMessage(context.Context, *chatrepo.SaveMessageParams) error
	GetHistory(ctx context.Context, roomID string, limit int) ([]chatrepo.Message, error)
}

type Config struct {
	HistoryLimit int
}

type service struct {
	registry     iRegistry
	chatRepo     iChatRepo
	historyLimit int
	now          func() time.Time
	logger       *slog.Logger
}

func NewService(registry iRegistry, chatRepo iChatRepo, cfg *Config, logger *slog.Logger) *service {
	return &service{
		registry:     registry,
		chatRepo:     chatRepo,
		historyLimit: cfg.HistoryLimit,
		now:          time.Now,
		logger:       logger,
	}
}

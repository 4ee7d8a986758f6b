package domain

import "time"

type ChatMessage struct {
	ID        string
	RoomID    string
	UserID    string
	Username  string
	Content   string
	CreatedAt time.Time
}

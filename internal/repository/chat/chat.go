package chat

import "time"

// Message is a persisted chat message.
type Message struct {
	ID        string    `gorm:"primaryKey;type:varchar(26)"`
	RoomID    string    `gorm:"type:varchar(64);not null;index:idx_chat_room_created,priority:1"`
	UserID    string    `gorm:"type:varchar(64);not null"`
	Username  string    `gorm:"type:text;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_chat_room_created,priority:2"`
}

func (Message) TableName() string {
	return "chat_messages"
}

type SaveMessageParams struct {
	MessageID string
	RoomID    string
	UserID    string
	Username  string
	Content   string
	CreatedAt time.Time
}

package domain

import "time"

// Idempotency remembers the outcome of a chat turn submitted with an
// Idempotency-Key, so a retried POST returns the same assistant reply instead
// of calling the completion and image services again.
//
// Records are unique per (user_id, chat_id, key) and expire at ExpiresAt.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_chat_key,priority:1"`
	ChatID    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_chat_key,priority:2"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_chat_key,priority:3"`
	MessageID string    `gorm:"type:TEXT NOT NULL"` // assistant message produced by the turn
	ImageURL  *string   `gorm:"type:TEXT"`          // generated or caller-supplied image
	TryOnURL  *string   `gorm:"type:TEXT"`          // virtual try-on image, if any
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "turn_replays" }

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

// CreateMessage inserts a new message row. imageURL is only set on assistant
// replies that come with a picture.
func CreateMessage(ctx context.Context, db *gorm.DB, chatID, role, content string, imageURL *string) (*domain.Message, error) {
	m := &domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// RecentMessages returns the last limit messages of a chat, oldest first.
func RecentMessages(ctx context.Context, db *gorm.DB, chatID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		return []domain.Message{}, nil
	}
	var out []domain.Message
	err := db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(ctx context.Context, db *gorm.DB, chatID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM fashion_messages WHERE chat_id = ?", chatID).
		Scan(&total).Error
	return total, err
}

// ListMessagesPage returns a paginated slice ordered (CreatedAt ASC, ID ASC).
func ListMessagesPage(ctx context.Context, db *gorm.DB, chatID string, offset, limit int) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetMessage fetches a message by ID.
func GetMessage(ctx context.Context, db *gorm.DB, id string) (*domain.Message, error) {
	var m domain.Message
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

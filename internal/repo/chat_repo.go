// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Chat model.
//
// All functions are context-aware and accept a *gorm.DB handle, so they work
// inside transactions. They only compose queries; ownership rules and title
// normalization live in the services package.
//
// When a chat is not found (or not owned by the caller), functions return
// ErrNotFound. Other database errors are propagated unchanged.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateChat inserts a new, active chat owned by userID.
func CreateChat(ctx context.Context, db *gorm.DB, userID, title string) (*domain.Chat, error) {
	now := time.Now().UTC()
	c := &domain.Chat{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// FindChat fetches a chat by ID regardless of owner. The chat turn uses it
// when the caller identity is not known.
func FindChat(ctx context.Context, db *gorm.DB, id string) (*domain.Chat, error) {
	var c domain.Chat
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetChat fetches a single chat by its ID and owner.
func GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	var c domain.Chat
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CountChats returns how many active (or archived) chats userID owns.
func CountChats(ctx context.Context, db *gorm.DB, userID string, archived bool) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("user_id = ? AND archived = ?", userID, archived).
		Count(&total).Error
	return total, err
}

// ListChatsPage returns a page of userID's chats. Active chats are ordered by
// most recent activity, archived chats by when they were archived.
func ListChatsPage(ctx context.Context, db *gorm.DB, userID string, archived bool, offset, limit int) ([]domain.Chat, error) {
	order := "updated_at DESC, id ASC"
	if archived {
		order = "archived_at DESC, id ASC"
	}
	var out []domain.Chat
	err := db.WithContext(ctx).
		Where("user_id = ? AND archived = ?", userID, archived).
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateChatTitle renames a chat owned by userID.
func UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	res := db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetChatArchived archives (archived=true, archived_at=at) or restores
// (archived=false, archived_at=NULL) a chat owned by userID.
func SetChatArchived(ctx context.Context, db *gorm.DB, id, userID string, archived bool, at time.Time) error {
	var archivedAt *time.Time
	if archived {
		t := at.UTC()
		archivedAt = &t
	}
	res := db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"archived": archived, "archived_at": archivedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchChat sets updated_at so the chat sorts first among active chats.
func TouchChat(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", at.UTC()).Error
}

// DeleteChat permanently removes a chat owned by userID. Messages (and the
// feedback and replay records hanging off them) are removed first, then the
// chat row, all in one transaction.
func DeleteChat(ctx context.Context, db *gorm.DB, id, userID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := GetChat(ctx, tx, id, userID); err != nil {
			return err
		}
		msgIDs := tx.Model(&domain.Message{}).Select("id").Where("chat_id = ?", id)
		if err := tx.Where("message_id IN (?)", msgIDs).Delete(&domain.Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ? AND user_id = ?", id, userID).Delete(&domain.Idempotency{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Chat{}).Error
	})
}

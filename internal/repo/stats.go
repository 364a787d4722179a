// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries the HTTP layer
// turns into weak ETags.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

// ChatsStats returns how many active (or archived) chats userID owns and the
// latest updated_at among them. maxUpdatedAt is nil when there are none.
func ChatsStats(ctx context.Context, db *gorm.DB, userID string, archived bool) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Chat{}).Where("user_id = ? AND archived = ?", userID, archived)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// avoid MAX() -> TEXT in SQLite
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// MessagesStats returns the number of messages in a chat and the newest
// created_at. Messages are immutable, so the pair changes exactly when a
// message is appended.
func MessagesStats(ctx context.Context, db *gorm.DB, chatID string) (count int64, maxCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Message{}).Where("chat_id = ?", chatID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}

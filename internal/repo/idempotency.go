package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

// TurnRecord is what gets remembered about a completed chat turn.
type TurnRecord struct {
	MessageID string
	ImageURL  *string
	TryOnURL  *string
}

// GetIdempotency returns a non-expired record or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, userID, chatID, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(chatID) == "" || strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("user_id = ? AND chat_id = ? AND key = ? AND expires_at > ?", userID, chatID, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency stores the outcome of a turn for ttl. It returns
// ErrDuplicate when the key was already used by this user in this chat.
func CreateIdempotency(ctx context.Context, db *gorm.DB, userID, chatID, key string, turn TurnRecord, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	rec := &domain.Idempotency{
		ID:        uuid.NewString(),
		UserID:    userID,
		ChatID:    chatID,
		Key:       key,
		MessageID: turn.MessageID,
		ImageURL:  turn.ImageURL,
		TryOnURL:  turn.TryOnURL,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// PurgeExpiredIdempotency deletes records that expired before now and
// reports how many were removed.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Feedback model.
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

// ErrDuplicate indicates a unique index rejected the insert.
var ErrDuplicate = errors.New("duplicate")

// CreateFeedback inserts a feedback row for the given message and user.
// A second rating of the same message by the same user yields ErrDuplicate.
func CreateFeedback(ctx context.Context, db *gorm.DB, messageID, userID string, value int) (*domain.Feedback, error) {
	fb := &domain.Feedback{
		ID:        uuid.NewString(),
		MessageID: messageID,
		UserID:    userID,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(fb).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return fb, nil
}

// isUniqueViolation recognizes unique-index failures. glebarez/sqlite often
// returns plain-text errors that do not map to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}

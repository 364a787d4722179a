// Package services – FeedbackService
//
// This file implements the FeedbackService, which governs how users rate
// assistant replies (-1 or +1). It enforces message existence, chat
// ownership, the assistant-only restriction and one rating per user per
// message, inside a single transaction.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-stylist-backend/internal/domain"
	"github.com/tbourn/go-stylist-backend/internal/repo"
)

// FeedbackService implements the use-cases around message feedback.
type FeedbackService struct {
	// DB is the database handle used for all feedback operations.
	DB *gorm.DB
}

// Leave records a feedback value for messageID on behalf of userID.
//
//   - value must be exactly -1 or 1; otherwise ErrInvalidFeedback.
//   - messageID must exist; otherwise ErrMessageNotFound.
//   - The message must be an assistant reply in a chat owned by userID;
//     otherwise ErrForbiddenFeedback.
//   - A second rating of the same message yields ErrDuplicateFeedback.
//
// Other database errors are returned unchanged.
func (s *FeedbackService) Leave(ctx context.Context, userID, messageID string, value int) error {
	if value != -1 && value != 1 {
		return ErrInvalidFeedback
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		msg, err := repo.GetMessage(ctx, tx, messageID)
		if err != nil {
			if isNotFound(err) {
				return ErrMessageNotFound
			}
			return err
		}

		if _, err := repo.GetChat(ctx, tx, msg.ChatID, userID); err != nil {
			if isNotFound(err) {
				return ErrForbiddenFeedback
			}
			return err
		}
		if msg.Role != domain.RoleAssistant {
			return ErrForbiddenFeedback
		}

		if _, err := repo.CreateFeedback(ctx, tx, messageID, userID, value); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrDuplicateFeedback
			}
			return err
		}
		return nil
	})
}

// isNotFound reports whether err is the repository's not-found sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

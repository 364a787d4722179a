package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

// profileColumns are overwritten on upsert. id, user_id and created_at stay.
var profileColumns = []string{
	"full_name", "height", "weight", "body_type", "skin_tone", "skin_type",
	"scalp_type", "hair_texture", "location", "bio", "avatar_url",
	"birth_date", "style_confidence_level", "updated_at",
}

// GetProfile returns the profile of userID or ErrNotFound.
func GetProfile(ctx context.Context, db *gorm.DB, userID string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile inserts p or, when userID already has a profile, replaces its
// editable columns. The stored row is returned.
func UpsertProfile(ctx context.Context, db *gorm.DB, p *domain.UserProfile) (*domain.UserProfile, error) {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(profileColumns),
	}).Create(p).Error
	if err != nil {
		return nil, err
	}
	return GetProfile(ctx, db, p.UserID)
}

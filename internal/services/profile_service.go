// Package services – ProfileService
//
// This file implements reading and saving the user's style profile, the data
// behind the profile wizard. The chat turn reads the same rows through the
// repository; it never writes them.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-stylist-backend/internal/domain"
	"github.com/tbourn/go-stylist-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Plausible bounds for body measurements.
const (
	minHeightCM, maxHeightCM = 50.0, 272.0
	minWeightKG, maxWeightKG = 20.0, 400.0
)

// ProfileService reads and upserts style profiles.
type ProfileService struct {
	DB *gorm.DB
}

// Get returns the profile of userID, or ErrProfileNotFound.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	ctx, span := otel.Tracer("services/ProfileService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	p, err := repo.GetProfile(ctx, s.DB, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// Save validates p and stores it as the profile of userID, replacing any
// earlier one. Text fields are trimmed.
func (s *ProfileService) Save(ctx context.Context, userID string, p domain.UserProfile) (*domain.UserProfile, error) {
	ctx, span := otel.Tracer("services/ProfileService").Start(ctx, "Save",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	p.ID = ""
	p.UserID = userID
	p.FullName = strings.TrimSpace(p.FullName)
	p.BodyType = strings.TrimSpace(p.BodyType)
	p.SkinTone = strings.TrimSpace(p.SkinTone)
	p.SkinType = strings.TrimSpace(p.SkinType)
	p.ScalpType = strings.TrimSpace(p.ScalpType)
	p.HairTexture = strings.TrimSpace(p.HairTexture)
	p.Location = strings.TrimSpace(p.Location)
	p.Bio = strings.TrimSpace(p.Bio)
	p.AvatarURL = strings.TrimSpace(p.AvatarURL)

	if err := validateProfile(&p); err != nil {
		return nil, err
	}
	return repo.UpsertProfile(ctx, s.DB, &p)
}

func validateProfile(p *domain.UserProfile) error {
	if p.Height != nil && (*p.Height < minHeightCM || *p.Height > maxHeightCM) {
		return fmt.Errorf("%w: height must be between %g and %g cm", ErrInvalidProfile, minHeightCM, maxHeightCM)
	}
	if p.Weight != nil && (*p.Weight < minWeightKG || *p.Weight > maxWeightKG) {
		return fmt.Errorf("%w: weight must be between %g and %g kg", ErrInvalidProfile, minWeightKG, maxWeightKG)
	}
	if p.StyleConfidenceLevel != nil && (*p.StyleConfidenceLevel < 1 || *p.StyleConfidenceLevel > 10) {
		return fmt.Errorf("%w: style confidence level must be between 1 and 10", ErrInvalidProfile)
	}
	if p.BirthDate != nil && p.BirthDate.After(time.Now()) {
		return fmt.Errorf("%w: birth date is in the future", ErrInvalidProfile)
	}
	if len([]rune(p.FullName)) > 255 {
		return fmt.Errorf("%w: full name too long", ErrInvalidProfile)
	}
	return nil
}

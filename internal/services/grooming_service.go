package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-stylist-backend/internal/grooming"
	"github.com/tbourn/go-stylist-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GroomingQuery holds the optional filters of a grooming lookup. An empty
// field is filled from the caller's profile.
type GroomingQuery struct {
	SkinType  string
	ScalpType string
}

// GroomingAdvice is the product selection for one skin and scalp type.
type GroomingAdvice struct {
	SkinType     string             `json:"skin_type"`
	ScalpType    string             `json:"scalp_type"`
	FromProfile  bool               `json:"from_profile"`
	Skincare     []grooming.Product `json:"skincare"`
	Haircare     []grooming.Product `json:"haircare"`
	SkinRoutines []grooming.Routine `json:"skin_routines"`
	HairRoutines []grooming.Routine `json:"hair_routines"`
}

// GroomingService recommends grooming products. DB is optional; without it
// omitted filters mean "all".
type GroomingService struct {
	DB    *gorm.DB
	Table *grooming.Table
}

// Recommend filters the product table. Explicit filters must be known types.
// Omitted filters take the profile's skin_type / scalp_type when those are
// known types, else "all".
func (s *GroomingService) Recommend(ctx context.Context, userID string, q GroomingQuery) (*GroomingAdvice, error) {
	ctx, span := otel.Tracer("services/GroomingService").Start(ctx, "Recommend",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("grooming.skin_type", q.SkinType),
			attribute.String("grooming.scalp_type", q.ScalpType),
		))
	defer span.End()

	t := s.Table
	if t == nil {
		t = grooming.Default()
	}

	skin, scalp := strings.TrimSpace(q.SkinType), strings.TrimSpace(q.ScalpType)
	if skin != "" && !t.KnownSkinType(skin) {
		return nil, fmt.Errorf("%w: unknown skin_type %q", ErrInvalidGroomingFilter, skin)
	}
	if scalp != "" && !t.KnownScalpType(scalp) {
		return nil, fmt.Errorf("%w: unknown scalp_type %q", ErrInvalidGroomingFilter, scalp)
	}

	fromProfile := false
	if (skin == "" || scalp == "") && s.DB != nil && userID != "" {
		p, err := repo.GetProfile(ctx, s.DB, userID)
		switch {
		case err == nil:
			if skin == "" && p.SkinType != "" && t.KnownSkinType(p.SkinType) {
				skin, fromProfile = p.SkinType, true
			}
			if scalp == "" && p.ScalpType != "" && t.KnownScalpType(p.ScalpType) {
				scalp, fromProfile = p.ScalpType, true
			}
		case !isNotFound(err):
			span.RecordError(err)
			return nil, fmt.Errorf("load profile: %w", err)
		}
	}

	skin, scalp = grooming.Normalize(skin), grooming.Normalize(scalp)
	return &GroomingAdvice{
		SkinType:     skin,
		ScalpType:    scalp,
		FromProfile:  fromProfile,
		Skincare:     t.Skincare(skin),
		Haircare:     t.Haircare(scalp),
		SkinRoutines: t.SkinRoutines(),
		HairRoutines: t.HairRoutines(),
	}, nil
}

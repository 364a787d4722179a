package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gorm.io/gorm"

	"github.com/tbourn/go-stylist-backend/internal/domain"
	"github.com/tbourn/go-stylist-backend/internal/grooming"
)

func productIDs(ps []grooming.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestGroomingService_ExplicitFilters(t *testing.T) {
	s := &GroomingService{}
	got, err := s.Recommend(context.Background(), "u1", GroomingQuery{SkinType: " Oily ", ScalpType: "flaky"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if got.SkinType != "oily" || got.ScalpType != "flaky" || got.FromProfile {
		t.Fatalf("advice = %+v", got)
	}
	if diff := cmp.Diff([]string{"skin-1", "skin-3", "skin-4"}, productIDs(got.Skincare)); diff != "" {
		t.Fatalf("skincare (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"hair-3", "hair-4"}, productIDs(got.Haircare)); diff != "" {
		t.Fatalf("haircare (-want +got):\n%s", diff)
	}
	if len(got.SkinRoutines) == 0 || len(got.HairRoutines) == 0 {
		t.Fatal("routines missing")
	}
}

func TestGroomingService_UnknownFilter(t *testing.T) {
	s := &GroomingService{}
	for _, q := range []GroomingQuery{{SkinType: "scaly"}, {ScalpType: "acne-prone"}} {
		if _, err := s.Recommend(context.Background(), "u1", q); !errors.Is(err, ErrInvalidGroomingFilter) {
			t.Errorf("%+v: want ErrInvalidGroomingFilter, got %v", q, err)
		}
	}
}

func TestGroomingService_DefaultsFromProfile(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&domain.UserProfile{ID: "p1", UserID: "u1", SkinType: "Dry", ScalpType: "oily"}).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	s := &GroomingService{DB: db, Table: grooming.Default()}

	got, err := s.Recommend(context.Background(), "u1", GroomingQuery{})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if got.SkinType != "dry" || got.ScalpType != "oily" || !got.FromProfile {
		t.Fatalf("advice = %+v", got)
	}
	if diff := cmp.Diff([]string{"skin-2", "skin-3"}, productIDs(got.Skincare)); diff != "" {
		t.Fatalf("skincare (-want +got):\n%s", diff)
	}

	// An explicit filter wins over the profile; the other still defaults.
	got, err = s.Recommend(context.Background(), "u1", GroomingQuery{SkinType: "all"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if got.SkinType != "all" || got.ScalpType != "oily" || len(got.Skincare) != 4 {
		t.Fatalf("advice = %+v", got)
	}
}

func TestGroomingService_NoProfileOrUnknownProfileTypeMeansAll(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&domain.UserProfile{ID: "p2", UserID: "u2", SkinType: "leathery"}).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	s := &GroomingService{DB: db}

	for _, uid := range []string{"nobody", "u2"} {
		got, err := s.Recommend(context.Background(), uid, GroomingQuery{})
		if err != nil {
			t.Fatalf("%s: %v", uid, err)
		}
		if got.SkinType != grooming.Any || got.ScalpType != grooming.Any || got.FromProfile {
			t.Fatalf("%s: advice = %+v", uid, got)
		}
	}
}

func TestGroomingService_ProfileLookupError(t *testing.T) {
	db := newTestDB(t)
	if err := db.Callback().Query().Before("gorm:query").Register("fail_profiles", func(tx *gorm.DB) {
		if strings.Contains(tx.Statement.Table, "profiles") {
			tx.AddError(errors.New("database is locked"))
		}
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}
	s := &GroomingService{DB: db}

	if _, err := s.Recommend(context.Background(), "u1", GroomingQuery{}); err == nil {
		t.Fatal("want lookup error")
	}
	// Both filters given: the profile is never read.
	if _, err := s.Recommend(context.Background(), "u1", GroomingQuery{SkinType: "oily", ScalpType: "dry"}); err != nil {
		t.Fatalf("explicit filters: %v", err)
	}
}

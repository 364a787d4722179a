package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }

func TestProfile_Get_NotFound(t *testing.T) {
	svc := &ProfileService{DB: newTestDB(t)}
	if _, err := svc.Get(context.Background(), "nobody"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("want ErrProfileNotFound, got %v", err)
	}
}

func TestProfile_SaveThenGet(t *testing.T) {
	svc := &ProfileService{DB: newTestDB(t)}
	ctx := context.Background()

	saved, err := svc.Save(ctx, "u1", domain.UserProfile{
		UserID:               "someone-else",
		FullName:             "  Alex  ",
		Height:               fptr(180),
		BodyType:             "athletic",
		StyleConfidenceLevel: iptr(7),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.UserID != "u1" || saved.FullName != "Alex" || *saved.Height != 180 {
		t.Fatalf("unexpected saved profile: %+v", saved)
	}

	// Second save replaces editable fields, keeps one row.
	again, err := svc.Save(ctx, "u1", domain.UserProfile{FullName: "Alex K", SkinTone: "olive"})
	if err != nil {
		t.Fatalf("Save again: %v", err)
	}
	if again.ID != saved.ID {
		t.Fatalf("upsert created a new row: %s != %s", again.ID, saved.ID)
	}
	got, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FullName != "Alex K" || got.SkinTone != "olive" || got.Height != nil || got.BodyType != "" {
		t.Fatalf("unexpected profile after replace: %+v", got)
	}
}

func TestProfile_Save_Validation(t *testing.T) {
	svc := &ProfileService{DB: newTestDB(t)}
	future := time.Now().Add(48 * time.Hour)

	cases := map[string]domain.UserProfile{
		"height":     {Height: fptr(20)},
		"weight":     {Weight: fptr(999)},
		"confidence": {StyleConfidenceLevel: iptr(11)},
		"birth date": {BirthDate: &future},
	}
	for name, p := range cases {
		if _, err := svc.Save(context.Background(), "u1", p); !errors.Is(err, ErrInvalidProfile) {
			t.Errorf("%s: want ErrInvalidProfile, got %v", name, err)
		}
	}
}

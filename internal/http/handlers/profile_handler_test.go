package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

func TestProfile_GetPutGet(t *testing.T) {
	f := newFixture(t, "unused")

	w := send(f.r, http.MethodGet, "/profile", "u1", nil)
	mustStatus(t, w, http.StatusNotFound)
	if got := decode[ErrorResponse](t, w); got.Message != "profile not found" {
		t.Fatalf("body = %+v", got)
	}

	height, conf := 182.0, 6
	w = send(f.r, http.MethodPut, "/profile", "u1", ProfileRequest{
		FullName:             "  Sam Carter ",
		Height:               &height,
		BodyType:             "athletic",
		SkinTone:             "olive",
		StyleConfidenceLevel: &conf,
	})
	mustStatus(t, w, http.StatusOK)
	saved := decode[domain.UserProfile](t, w)
	if saved.UserID != "u1" || saved.FullName != "Sam Carter" || saved.ID == "" {
		t.Fatalf("saved = %+v", saved)
	}

	w = send(f.r, http.MethodGet, "/profile", "u1", nil)
	mustStatus(t, w, http.StatusOK)
	got := decode[domain.UserProfile](t, w)
	if got.Height == nil || *got.Height != 182 || got.BodyType != "athletic" || got.Weight != nil {
		t.Fatalf("profile = %+v", got)
	}

	// Saving again replaces the row in place.
	mustStatus(t, send(f.r, http.MethodPut, "/profile", "u1", ProfileRequest{FullName: "Sam"}), http.StatusOK)
	var n int64
	f.db.Model(&domain.UserProfile{}).Where("user_id = ?", "u1").Count(&n)
	if n != 1 {
		t.Fatalf("profiles = %d; want 1", n)
	}

	mustStatus(t, send(f.r, http.MethodGet, "/profile", "u2", nil), http.StatusNotFound)
}

func TestProfile_Invalid(t *testing.T) {
	f := newFixture(t, "unused")

	tall := 400.0
	w := send(f.r, http.MethodPut, "/profile", "u1", ProfileRequest{Height: &tall})
	mustStatus(t, w, http.StatusBadRequest)
	if got := decode[ErrorResponse](t, w); !strings.Contains(got.Message, "height") {
		t.Fatalf("message = %q", got.Message)
	}

	mustStatus(t, send(f.r, http.MethodPut, "/profile", "u1", `{"height":"tall"}`), http.StatusBadRequest)
}

package style

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

func TestSystemPrompt_NoProfile(t *testing.T) {
	got := SystemPrompt(nil)
	if !strings.HasPrefix(got, "You are an expert AI men's fashion stylist") {
		t.Fatalf("unexpected persona start: %q", got[:40])
	}
	if strings.Contains(got, "User Profile Information") {
		t.Fatalf("profile block without a profile")
	}
	if got != strings.TrimSpace(got) {
		t.Fatalf("persona not trimmed")
	}
}

func TestSystemPrompt_WithProfile(t *testing.T) {
	h := 182.5
	w := 0.0
	p := &domain.UserProfile{FullName: "Sam", Height: &h, Weight: &w, BodyType: "  ", SkinTone: "olive"}

	got := SystemPrompt(p)
	want := strings.TrimSpace(persona) + "\n\nUser Profile Information:\n" +
		"- Name: Sam\n" +
		"- Height: 182.5 cm\n" +
		"- Weight: Not provided kg\n" +
		"- Body Type: Not provided\n" +
		"- Skin Tone: olive"
	if got != want {
		t.Fatalf("tail mismatch:\n%s", got[len(got)-120:])
	}
}

func TestProfileLines_Empty(t *testing.T) {
	got := ProfileLines(&domain.UserProfile{})
	want := []string{
		"- Name: Not provided",
		"- Height: Not provided cm",
		"- Weight: Not provided kg",
		"- Body Type: Not provided",
		"- Skin Tone: Not provided",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

package repo

import (
	"errors"
	"testing"
	"time"
)

func TestIdempotency_CreateGetDuplicateExpiry(t *testing.T) {
	db := newRepoDB(t, true)
	img := "https://img.example/gen.png"
	turn := TurnRecord{MessageID: "m1", ImageURL: &img}

	rec, err := CreateIdempotency(bg, db, "u1", "c1", "key-1", turn, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.MessageID != "m1" || rec.ImageURL == nil || rec.TryOnURL != nil {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(bg, db, "u1", "c1", "key-1", time.Now().UTC())
	if err != nil || got.MessageID != "m1" || *got.ImageURL != img {
		t.Fatalf("GetIdempotency: got=%+v err=%v", got, err)
	}

	if _, err := CreateIdempotency(bg, db, "u1", "c1", "key-1", turn, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate err = %v; want ErrDuplicate", err)
	}

	// different user, same key: independent
	if _, err := GetIdempotency(bg, db, "u2", "c1", "key-1", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user err = %v; want ErrNotFound", err)
	}

	// after expiry it disappears, and purge removes it
	later := time.Now().UTC().Add(2 * time.Hour)
	if _, err := GetIdempotency(bg, db, "u1", "c1", "key-1", later); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired err = %v; want ErrNotFound", err)
	}
	n, err := PurgeExpiredIdempotency(bg, db, later)
	if err != nil || n != 1 {
		t.Fatalf("PurgeExpiredIdempotency = %d, %v; want 1", n, err)
	}
}

func TestGetIdempotency_BlankInputs(t *testing.T) {
	db := newRepoDB(t, true)
	if _, err := GetIdempotency(bg, db, "u1", " ", "k", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank chat err = %v", err)
	}
	if _, err := GetIdempotency(bg, db, "u1", "c1", "", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank key err = %v", err)
	}
}

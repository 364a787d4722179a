package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/tbourn/go-stylist-backend/internal/domain"
	"github.com/tbourn/go-stylist-backend/internal/http/middleware"
	"github.com/tbourn/go-stylist-backend/internal/services"
)

func TestPostMessage_StoresTrimmedContentVerbatim(t *testing.T) {
	f := newFixture(t, "Noted.")
	ch := createChat(t, f, "u1", "")

	raw := "  line one\r\n\r\n\r\n\r\nline two\n\t"
	w := send(f.r, http.MethodPost, "/chats/"+ch.ID+"/messages", "u1", PostMessageRequest{Content: raw})
	mustStatus(t, w, http.StatusOK)

	var m domain.Message
	if err := f.db.Where("chat_id = ? AND role = ?", ch.ID, domain.RoleUser).First(&m).Error; err != nil {
		t.Fatalf("user message: %v", err)
	}
	if want := strings.TrimSpace(raw); m.Content != want {
		t.Fatalf("stored = %q; want %q", m.Content, want)
	}
}

func TestPostMessage_RunsTurn(t *testing.T) {
	f := newFixture(t, "Outfit 1: navy blazer, grey trousers, white shirt.")
	ch := createChat(t, f, "u1", "")

	w := send(f.r, http.MethodPost, "/chats/"+ch.ID+"/messages", "u1",
		PostMessageRequest{Content: "What should I wear to a business dinner?", ImageURL: "https://cdn.example.com/me.jpg"})
	mustStatus(t, w, http.StatusOK)

	got := decode[TurnResponse](t, w)
	if !got.Persisted || got.Message == nil || got.Message.ID == "" {
		t.Fatalf("response = %+v", got)
	}
	if got.Message.Role != domain.RoleAssistant || !strings.HasPrefix(got.Message.Content, "Outfit 1") {
		t.Fatalf("assistant message = %+v", got.Message)
	}
	if got.ImageURL == nil || *got.ImageURL != "https://cdn.example.com/me.jpg" {
		t.Fatalf("image_url = %v", got.ImageURL)
	}
	if got.VirtualTryOnURL != nil {
		t.Fatalf("virtual_try_on_url = %v", *got.VirtualTryOnURL)
	}
	if w.Header().Get("Idempotency-Replayed") != "" {
		t.Fatal("first turn must not be marked as replayed")
	}

	var n int64
	f.db.Model(&domain.Message{}).Where("chat_id = ?", ch.ID).Count(&n)
	if n != 2 {
		t.Fatalf("stored messages = %d; want 2", n)
	}
}

func TestPostMessage_ValidationAndOwnership(t *testing.T) {
	f := newFixture(t, "advice")
	ch := createChat(t, f, "u1", "")
	path := "/chats/" + ch.ID + "/messages"

	mustStatus(t, send(f.r, http.MethodPost, path, "u1", "{}"), http.StatusBadRequest)
	mustStatus(t, send(f.r, http.MethodPost, path, "u1", PostMessageRequest{Content: " \r\n "}), http.StatusBadRequest)
	mustStatus(t, send(f.r, http.MethodPost, "/chats/nope/messages", "u1", PostMessageRequest{Content: "hi"}), http.StatusBadRequest)

	w := send(f.r, http.MethodPost, path, "intruder", PostMessageRequest{Content: "hi"})
	mustStatus(t, w, http.StatusNotFound)
	if got := decode[ErrorResponse](t, w); got.Code != ErrCodeNotFound {
		t.Fatalf("body = %+v", got)
	}
	if f.completer.count() != 0 {
		t.Fatalf("completer called %d times on rejected requests", f.completer.count())
	}
}

func TestPostMessage_IdempotentReplay(t *testing.T) {
	f := newFixture(t, "Try a camel overcoat.")
	ch := createChat(t, f, "u1", "")
	path := "/chats/" + ch.ID + "/messages"
	body := PostMessageRequest{Content: "Winter coat ideas?"}

	first := send(f.r, http.MethodPost, path, "u1", body, middleware.HeaderIdempotencyKey, "turn-1")
	mustStatus(t, first, http.StatusOK)
	second := send(f.r, http.MethodPost, path, "u1", body, middleware.HeaderIdempotencyKey, "turn-1")
	mustStatus(t, second, http.StatusOK)

	if second.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatal("second call should be a replay")
	}
	if f.completer.count() != 1 {
		t.Fatalf("completer calls = %d; want 1", f.completer.count())
	}
	a, b := decode[TurnResponse](t, first), decode[TurnResponse](t, second)
	if a.Message.ID != b.Message.ID || b.Message.Content != "Try a camel overcoat." || !b.Persisted {
		t.Fatalf("replay = %+v; first = %+v", b.Message, a.Message)
	}

	// Same key from another user is not a replay; the chat is not theirs.
	mustStatus(t, send(f.r, http.MethodPost, path, "u2", body, middleware.HeaderIdempotencyKey, "turn-1"), http.StatusNotFound)

	// A fresh key runs a new turn.
	mustStatus(t, send(f.r, http.MethodPost, path, "u1", body, middleware.HeaderIdempotencyKey, "turn-2"), http.StatusOK)
	if f.completer.count() != 2 {
		t.Fatalf("completer calls = %d; want 2", f.completer.count())
	}

	mustStatus(t, send(f.r, http.MethodPost, path, "u1", body, middleware.HeaderIdempotencyKey, "bad key!"), http.StatusBadRequest)
}

func TestPostMessage_UnsavedTurnIsNotRecorded(t *testing.T) {
	db := newDB(t)
	stub := &stubTurns{reply: func(req services.TurnRequest) (*services.TurnResult, error) {
		return &services.TurnResult{
			ChatID:    req.ChatID,
			Assistant: &domain.Message{ChatID: req.ChatID, Role: domain.RoleAssistant, Content: "unsaved"},
			Reply:     "unsaved",
		}, nil
	}}
	h := New(Deps{Messages: stub, DB: db})
	r := newRouter(h, db)
	path := "/chats/" + "141add05-4415-4938-b5a1-17e0d3171aff" + "/messages"

	for i := 0; i < 2; i++ {
		w := send(r, http.MethodPost, path, "u1", PostMessageRequest{Content: "hi"}, middleware.HeaderIdempotencyKey, "k")
		mustStatus(t, w, http.StatusOK)
		if got := decode[TurnResponse](t, w); got.Persisted || got.Message.ID != "" {
			t.Fatalf("response = %+v", got)
		}
	}
	if len(stub.got) != 2 {
		t.Fatalf("turns = %d; want 2", len(stub.got))
	}
	if stub.got[0].UserID != "u1" {
		t.Fatalf("UserID = %q", stub.got[0].UserID)
	}
}

func TestPostMessage_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: boom", services.ErrCompletionUnavailable), http.StatusServiceUnavailable, ErrCodeUpstreamUnavailable},
		{services.ErrMisconfigured, http.StatusInternalServerError, ErrCodeMisconfigured},
		{fmt.Errorf("%w: locked", services.ErrPersistUserMessage), http.StatusInternalServerError, ErrCodePersistFailed},
		{services.ErrChatNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrEmptyPrompt, http.StatusBadRequest, ErrCodeBadRequest},
	}
	for _, tc := range cases {
		err := tc.err
		h := New(Deps{Messages: &stubTurns{reply: func(services.TurnRequest) (*services.TurnResult, error) { return nil, err }}})
		w := send(newRouter(h, nil), http.MethodPost, "/chats/141add05-4415-4938-b5a1-17e0d3171aff/messages", "u1", PostMessageRequest{Content: "hi"})
		mustStatus(t, w, tc.status)
		if got := decode[ErrorResponse](t, w); got.Code != tc.code {
			t.Errorf("%v: code = %q; want %q", tc.err, got.Code, tc.code)
		}
	}
}

func TestListMessages_OwnershipAndETag(t *testing.T) {
	f := newFixture(t, "Go with loafers.")
	ch := createChat(t, f, "u1", "")
	path := "/chats/" + ch.ID + "/messages"
	mustStatus(t, send(f.r, http.MethodPost, path, "u1", PostMessageRequest{Content: "Shoes for chinos?"}), http.StatusOK)

	w := send(f.r, http.MethodGet, path, "u1", nil)
	mustStatus(t, w, http.StatusOK)
	got := decode[ListMessagesResponse](t, w)
	if len(got.Messages) != 2 || got.Pagination.Total != 2 {
		t.Fatalf("messages = %+v", got)
	}
	if got.Messages[0].Role != domain.RoleUser || got.Messages[1].Role != domain.RoleAssistant {
		t.Fatalf("order = %s, %s", got.Messages[0].Role, got.Messages[1].Role)
	}

	etag := w.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"messages:`+ch.ID) {
		t.Fatalf("ETag = %q", etag)
	}
	mustStatus(t, send(f.r, http.MethodGet, path, "u1", nil, "If-None-Match", etag), http.StatusNotModified)

	w = send(f.r, http.MethodGet, path, "u2", nil, "If-None-Match", etag)
	mustStatus(t, w, http.StatusNotFound)
	if w.Header().Get("ETag") != "" {
		t.Fatal("ETag leaked for a foreign chat")
	}

	mustStatus(t, send(f.r, http.MethodGet, "/chats/x/messages", "u1", nil), http.StatusBadRequest)
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

// ----- Fake repo -----

type fakeChatRepo struct {
	// capture args
	createUserID string
	createTitle  string

	getID     string
	getUserID string
	getChat   *domain.Chat
	getErr    error

	updateID     string
	updateUserID string
	updateTitle  string
	updateErr    error

	countUserID   string
	countArchived bool
	countTotal    int64
	countErr      error

	pageUserID   string
	pageArchived bool
	pageOffset   int
	pageLimit    int
	pageItems    []domain.Chat
	pageErr      error

	archiveCalls []bool
	archiveAt    time.Time
	archiveErr   error

	deleteID  string
	deleteErr error
}

func (r *fakeChatRepo) CreateChat(ctx context.Context, db *gorm.DB, userID, title string) (*domain.Chat, error) {
	r.createUserID = userID
	r.createTitle = title
	return &domain.Chat{ID: "c1", UserID: userID, Title: title}, nil
}

func (r *fakeChatRepo) GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	r.getID, r.getUserID = id, userID
	return r.getChat, r.getErr
}

func (r *fakeChatRepo) UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	r.updateID, r.updateUserID, r.updateTitle = id, userID, title
	return r.updateErr
}

func (r *fakeChatRepo) CountChats(ctx context.Context, db *gorm.DB, userID string, archived bool) (int64, error) {
	r.countUserID, r.countArchived = userID, archived
	return r.countTotal, r.countErr
}

func (r *fakeChatRepo) ListChatsPage(ctx context.Context, db *gorm.DB, userID string, archived bool, offset, limit int) ([]domain.Chat, error) {
	r.pageUserID, r.pageArchived, r.pageOffset, r.pageLimit = userID, archived, offset, limit
	return r.pageItems, r.pageErr
}

func (r *fakeChatRepo) SetChatArchived(ctx context.Context, db *gorm.DB, id, userID string, archived bool, at time.Time) error {
	r.archiveCalls = append(r.archiveCalls, archived)
	r.archiveAt = at
	return r.archiveErr
}

func (r *fakeChatRepo) DeleteChat(ctx context.Context, db *gorm.DB, id, userID string) error {
	r.deleteID = id
	return r.deleteErr
}

// ----- Tests -----

func TestNewChatService_Defaults(t *testing.T) {
	r := &fakeChatRepo{}
	s := NewChatService(nil, r)

	if s.DB != nil {
		t.Fatalf("expected nil DB, got %v", s.DB)
	}
	if s.Repo != r {
		t.Fatalf("repo not set")
	}
	if s.TitleMaxLen != 60 {
		t.Fatalf("TitleMaxLen default = 60, got %d", s.TitleMaxLen)
	}
	if s.Now == nil {
		t.Fatalf("clock not set")
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := map[string]string{
		"":                      "",
		"   leading   ":         "leading",
		"multi   spaces":        "multi spaces",
		"tabs\tand\nnewlines  ": "tabs and newlines",
		"\t  \n":                "",
		"  a   b   c  ":         "a b c",
	}
	for in, want := range cases {
		if got := normalizeTitle(in); got != want {
			t.Errorf("normalizeTitle(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestClip_UsesRunesNotBytes(t *testing.T) {
	s := NewChatService(nil, &fakeChatRepo{})
	s.TitleMaxLen = 5

	got := s.clip("☃☃☃☃☃☃☃")
	if utf8.RuneCountInString(got) != 5 {
		t.Fatalf("clip should keep 5 runes, got %d (%q)", utf8.RuneCountInString(got), got)
	}
	if s.clip("hi") != "hi" {
		t.Fatalf("expected passthrough for short input")
	}
}

func TestCreate_DefaultTitleWhenBlank(t *testing.T) {
	r := &fakeChatRepo{}
	s := NewChatService(nil, r)

	chat, err := s.Create(context.Background(), "u1", "    ")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if chat.UserID != "u1" {
		t.Fatalf("chat.UserID = %q", chat.UserID)
	}
	if r.createTitle != "Fashion Chat" {
		t.Fatalf("repo got title %q; want %q", r.createTitle, "Fashion Chat")
	}
}

func TestCreate_NormalizesAndClips(t *testing.T) {
	r := &fakeChatRepo{}
	s := NewChatService(nil, r)
	s.TitleMaxLen = 3

	if _, err := s.Create(context.Background(), "user-x", "  A   B  "); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if r.createTitle != "A B" {
		t.Fatalf("expected normalized/clipped title %q, got %q", "A B", r.createTitle)
	}
}

func TestGet_MapsNotFound(t *testing.T) {
	s := NewChatService(nil, &fakeChatRepo{getErr: gorm.ErrRecordNotFound})
	if _, err := s.Get(context.Background(), "u1", "c1"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("want ErrChatNotFound, got %v", err)
	}
}

func TestListPage_DefaultsAndTotalZero(t *testing.T) {
	r := &fakeChatRepo{countTotal: 0}
	s := NewChatService(nil, r)

	items, total, err := s.ListPage(context.Background(), "u3", true, 0, 0)
	if err != nil {
		t.Fatalf("ListPage error: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Fatalf("expected empty results when total=0; got total=%d len=%d", total, len(items))
	}
	if r.countUserID != "u3" || !r.countArchived {
		t.Fatalf("CountChats called with (%q, %v)", r.countUserID, r.countArchived)
	}
}

func TestListPage_CountError(t *testing.T) {
	sentinel := errors.New("boom")
	s := NewChatService(nil, &fakeChatRepo{countErr: sentinel})

	if _, _, err := s.ListPage(context.Background(), "u4", false, 1, 10); !errors.Is(err, sentinel) {
		t.Fatalf("expected count error to propagate, got %v", err)
	}
}

func TestListPage_OffsetLimitAndItems(t *testing.T) {
	sentinel := errors.New("items-fail")
	r := &fakeChatRepo{countTotal: 42, pageErr: sentinel}
	s := NewChatService(nil, r)

	_, total, err := s.ListPage(context.Background(), "u5", false, 3, 10)
	if total != 42 {
		t.Fatalf("total = %d; want 42", total)
	}
	if r.pageOffset != 20 || r.pageLimit != 10 || r.pageArchived {
		t.Fatalf("offset/limit/archived = %d/%d/%v", r.pageOffset, r.pageLimit, r.pageArchived)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected items error to propagate")
	}

	r2 := &fakeChatRepo{countTotal: 42, pageItems: []domain.Chat{{ID: "x1"}, {ID: "x2"}}}
	s2 := NewChatService(nil, r2)
	items, total2, err2 := s2.ListPage(context.Background(), "u6", true, -10, -5)
	if err2 != nil {
		t.Fatalf("ListPage success error: %v", err2)
	}
	if total2 != 42 || len(items) != 2 {
		t.Fatalf("expected 2 items and total 42; got %d/%d", len(items), total2)
	}
	if r2.pageOffset != 0 || r2.pageLimit != 20 || !r2.pageArchived {
		t.Fatalf("expected defaults 0/20 on archived list; got %d/%d/%v", r2.pageOffset, r2.pageLimit, r2.pageArchived)
	}
}

func TestUpdateTitle_NotFoundMapsToErrChatNotFound(t *testing.T) {
	s := NewChatService(nil, &fakeChatRepo{getErr: gorm.ErrRecordNotFound})

	if err := s.UpdateTitle(context.Background(), "u1", "chat-1", "ignored"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound mapping, got %v", err)
	}
}

func TestUpdateTitle_RepoGetOtherError(t *testing.T) {
	sentinel := errors.New("db down")
	s := NewChatService(nil, &fakeChatRepo{getErr: sentinel})

	if err := s.UpdateTitle(context.Background(), "u1", "chat-1", "ok"); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}

func TestUpdateTitle_BlankBecomesDefault(t *testing.T) {
	r := &fakeChatRepo{getChat: &domain.Chat{ID: "chat-1", UserID: "u1"}}
	s := NewChatService(nil, r)
	s.TitleMaxLen = 7

	if err := s.UpdateTitle(context.Background(), "u1", "chat-1", "   \t  "); err != nil {
		t.Fatalf("UpdateTitle error: %v", err)
	}
	if r.updateTitle != "Fashion" {
		t.Fatalf("expected clipped default title, got %q", r.updateTitle)
	}
}

func TestArchiveAndRestore(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r := &fakeChatRepo{}
	s := NewChatService(nil, r)
	s.Now = func() time.Time { return at }

	if err := s.Archive(context.Background(), "u1", "c1"); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if err := s.Restore(context.Background(), "u1", "c1"); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(r.archiveCalls) != 2 || !r.archiveCalls[0] || r.archiveCalls[1] {
		t.Fatalf("archive calls = %v; want [true false]", r.archiveCalls)
	}
	if !r.archiveAt.Equal(at) {
		t.Fatalf("archive time = %v; want %v", r.archiveAt, at)
	}

	r.archiveErr = gorm.ErrRecordNotFound
	if err := s.Archive(context.Background(), "u1", "missing"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("want ErrChatNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	r := &fakeChatRepo{}
	s := NewChatService(nil, r)
	if err := s.Delete(context.Background(), "u1", "c9"); err != nil || r.deleteID != "c9" {
		t.Fatalf("Delete: err=%v id=%q", err, r.deleteID)
	}

	r.deleteErr = gorm.ErrRecordNotFound
	if err := s.Delete(context.Background(), "u1", "c9"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("want ErrChatNotFound, got %v", err)
	}
}

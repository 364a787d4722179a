// Package services – ChatService
//
// This file implements the ChatService, which manages the lifecycle of chats:
// create, list (active or archived, paginated), rename, archive, restore and
// permanent delete. Titles are normalized and clipped here; automatic titles
// are derived in MessageService on the first turn.
//
// Service-level errors (e.g., ErrChatNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

// ChatRepo defines the repository contract required by ChatService.
type ChatRepo interface {
	CreateChat(ctx context.Context, db *gorm.DB, userID, title string) (*domain.Chat, error)
	GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error)
	UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error
	CountChats(ctx context.Context, db *gorm.DB, userID string, archived bool) (int64, error)
	ListChatsPage(ctx context.Context, db *gorm.DB, userID string, archived bool, offset, limit int) ([]domain.Chat, error)
	SetChatArchived(ctx context.Context, db *gorm.DB, id, userID string, archived bool, at time.Time) error
	DeleteChat(ctx context.Context, db *gorm.DB, id, userID string) error
}

// ChatService provides chat-level operations and enforces ownership.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the chat repository used by this service.
	Repo ChatRepo

	// TitleMaxLen caps stored titles by rune length.
	TitleMaxLen int
	// Now is the clock used for archive timestamps.
	Now func() time.Time
}

// NewChatService constructs a ChatService with default title handling.
func NewChatService(db *gorm.DB, r ChatRepo) *ChatService {
	return &ChatService{
		DB:          db,
		Repo:        r,
		TitleMaxLen: 60,
		Now:         time.Now,
	}
}

// Create inserts a new chat owned by userID. A blank title becomes
// "Fashion Chat".
func (s *ChatService) Create(ctx context.Context, userID, title string) (*domain.Chat, error) {
	title = normalizeTitle(title)
	if title == "" {
		title = domain.DefaultChatTitle
	}
	return s.Repo.CreateChat(ctx, s.DB, userID, s.clip(title))
}

// Get returns one chat owned by userID.
func (s *ChatService) Get(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	c, err := s.Repo.GetChat(ctx, s.DB, chatID, userID)
	if err != nil {
		return nil, mapChatErr(err)
	}
	return c, nil
}

// ListPage returns a page of the user's active chats (most recently updated
// first) or archived chats (most recently archived first), with the total.
func (s *ChatService) ListPage(ctx context.Context, userID string, archived bool, page, pageSize int) ([]domain.Chat, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountChats(ctx, s.DB, userID, archived)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Chat{}, 0, nil
	}

	items, err := s.Repo.ListChatsPage(ctx, s.DB, userID, archived, offset, pageSize)
	return items, total, err
}

// UpdateTitle renames a chat owned by userID. A blank title resets it to
// the default.
func (s *ChatService) UpdateTitle(ctx context.Context, userID, chatID, title string) error {
	title = normalizeTitle(title)
	if title == "" {
		title = domain.DefaultChatTitle
	}
	if _, err := s.Repo.GetChat(ctx, s.DB, chatID, userID); err != nil {
		return mapChatErr(err)
	}
	return mapChatErr(s.Repo.UpdateChatTitle(ctx, s.DB, chatID, userID, s.clip(title)))
}

// Archive soft-deletes a chat. Its messages are kept and it can be restored.
func (s *ChatService) Archive(ctx context.Context, userID, chatID string) error {
	return mapChatErr(s.Repo.SetChatArchived(ctx, s.DB, chatID, userID, true, s.now()))
}

// Restore moves an archived chat back to the active list.
func (s *ChatService) Restore(ctx context.Context, userID, chatID string) error {
	return mapChatErr(s.Repo.SetChatArchived(ctx, s.DB, chatID, userID, false, s.now()))
}

// Delete permanently removes a chat and its messages.
func (s *ChatService) Delete(ctx context.Context, userID, chatID string) error {
	return mapChatErr(s.Repo.DeleteChat(ctx, s.DB, chatID, userID))
}

func (s *ChatService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// clip truncates a chat title to the configured maximum rune length.
func (s *ChatService) clip(title string) string {
	if s.TitleMaxLen > 0 && utf8.RuneCountInString(title) > s.TitleMaxLen {
		return string([]rune(title)[:s.TitleMaxLen])
	}
	return title
}

// mapChatErr turns a repository not-found into ErrChatNotFound.
func mapChatErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrChatNotFound
	}
	return err
}

// normalizeTitle trims whitespace and collapses multiple spaces to one.
func normalizeTitle(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)

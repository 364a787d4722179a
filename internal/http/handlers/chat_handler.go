// Package handlers implements the HTTP endpoints of the stylist API.
//
// Handlers stay thin: they bind and validate input, call a service, and turn
// the result or sentinel error into JSON (see errors.go). The
// fashion-ai-chat endpoint keeps its own {success, ...} envelope; every other
// route answers with plain resources and ErrorResponse bodies.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-stylist-backend/internal/catalog"
	"github.com/tbourn/go-stylist-backend/internal/domain"
	"github.com/tbourn/go-stylist-backend/internal/http/middleware"
	"github.com/tbourn/go-stylist-backend/internal/repo"
	"github.com/tbourn/go-stylist-backend/internal/services"
	"github.com/tbourn/go-stylist-backend/internal/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ChatService manages the caller's chats.
type ChatService interface {
	Create(ctx context.Context, userID, title string) (*domain.Chat, error)
	Get(ctx context.Context, userID, chatID string) (*domain.Chat, error)
	ListPage(ctx context.Context, userID string, archived bool, page, pageSize int) ([]domain.Chat, int64, error)
	UpdateTitle(ctx context.Context, userID, chatID, title string) error
	Archive(ctx context.Context, userID, chatID string) error
	Restore(ctx context.Context, userID, chatID string) error
	Delete(ctx context.Context, userID, chatID string) error
}

// MessageService runs chat turns and pages through history.
type MessageService interface {
	Reply(ctx context.Context, req services.TurnRequest) (*services.TurnResult, error)
	ListPage(ctx context.Context, userID, chatID string, page, pageSize int) ([]domain.Message, int64, error)
}

// ProfileService reads and saves style profiles.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	Save(ctx context.Context, userID string, p domain.UserProfile) (*domain.UserProfile, error)
}

// FeedbackService records thumbs up/down on assistant replies.
type FeedbackService interface {
	Leave(ctx context.Context, userID, messageID string, value int) error
}

// Deps are the collaborators of Handlers. DB is optional: without it list
// endpoints skip ETags and POST /chats/{id}/messages ignores
// Idempotency-Key.
type Deps struct {
	Chats    ChatService
	Messages MessageService
	Profiles ProfileService
	Feedback FeedbackService
	Grooming GroomingService
	Styles   catalog.Searcher

	DB             *gorm.DB
	IdempotencyTTL time.Duration
}

// Handlers groups every endpoint of the API.
type Handlers struct {
	chats    ChatService
	msgs     MessageService
	profiles ProfileService
	feedback FeedbackService
	grooming GroomingService
	styles   catalog.Searcher

	db      *gorm.DB
	idemTTL time.Duration
}

// New builds Handlers. A zero IdempotencyTTL means 24h.
func New(d Deps) *Handlers {
	ttl := d.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Handlers{
		chats:    d.Chats,
		msgs:     d.Messages,
		profiles: d.Profiles,
		feedback: d.Feedback,
		grooming: d.Grooming,
		styles:   d.Styles,
		db:       d.DB,
		idemTTL:  ttl,
	}
}

// userID is the caller: the Identity middleware's value, else the X-User-ID
// header, else "demo-user".
func userID(c *gin.Context) string {
	if uid := middleware.UserID(c); uid != "demo-user" {
		return uid
	}
	if c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader(middleware.HeaderUserID)); h != "" {
			return h
		}
	}
	return "demo-user"
}

// chatIDParam reads :id and rejects non-UUIDs with 400.
func chatIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be a UUID")
		return "", false
	}
	return id, true
}

// Pagination is the paging block of list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func pagination(page, size int, total int64) Pagination {
	pages := utils.TotalPages(total, size)
	return Pagination{Page: page, PageSize: size, Total: total, TotalPages: pages, HasNext: page < pages}
}

func pageParams(c *gin.Context) (int, int) {
	return utils.ParsePage(c.Query("page"), c.Query("page_size"), defaultPageSize, maxPageSize)
}

// CreateChatRequest is the body of POST /chats.
type CreateChatRequest struct {
	// Empty means "Fashion Chat".
	Title string `json:"title" example:"Wedding guest looks"`
}

// UpdateChatTitleRequest is the body of PUT /chats/{id}/title.
type UpdateChatTitleRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255" example:"Smart casual Fridays"`
}

// ListChatsResponse is a page of chats.
type ListChatsResponse struct {
	Chats      []domain.Chat `json:"chats"`
	Pagination Pagination    `json:"pagination"`
}

// CreateChat godoc
// @ID          createChat
// @Summary     Create a chat
// @Tags        Chats
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       body       body    handlers.CreateChatRequest  true  "Chat"
// @Success     201  {object}  domain.Chat
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /chats [post]
func (h *Handlers) CreateChat(c *gin.Context) {
	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	ch, err := h.chats.Create(c.Request.Context(), userID(c), req.Title)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, ch)
}

// ListChats godoc
// @ID          listChats
// @Summary     List chats
// @Description Active chats by recency, or archived chats with ?archived=true. Weak ETag.
// @Tags        Chats
// @Produce     json
// @Param       X-User-ID      header  string  false  "User ID"  example(user123)
// @Param       If-None-Match  header  string  false  "ETag from a previous call"
// @Param       archived       query   bool    false  "List archived chats"
// @Param       page           query   int     false  "Page"            minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListChatsResponse
// @Success     304  {string}  string  "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /chats [get]
func (h *Handlers) ListChats(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	archived := false
	if v := c.Query("archived"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "archived must be a boolean")
			return
		}
		archived = b
	}
	page, size := pageParams(c)

	if h.db != nil {
		if count, last, err := repo.ChatsStats(ctx, h.db, uid, archived); err == nil {
			tag := fmt.Sprintf(`W/"chats:%s:%t:%d:%d:%d:%d"`, uid, archived, page, size, count, unixNano(last))
			if weakETag(c, tag) {
				return
			}
		}
	}

	items, total, err := h.chats.ListPage(ctx, uid, archived, page, size)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListChatsResponse{Chats: items, Pagination: pagination(page, size, total)})
}

// UpdateChatTitle godoc
// @ID          updateChatTitle
// @Summary     Rename a chat
// @Tags        Chats
// @Accept      json
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       id         path    string  true   "Chat ID"  format(uuid)
// @Param       body       body    handlers.UpdateChatTitleRequest  true  "New title"
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /chats/{id}/title [put]
func (h *Handlers) UpdateChatTitle(c *gin.Context) {
	chatID, valid := chatIDParam(c)
	if !valid {
		return
	}
	var req UpdateChatTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1-255 chars)")
		return
	}
	if err := h.chats.UpdateTitle(c.Request.Context(), userID(c), chatID, req.Title); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// ArchiveChat godoc
// @ID          archiveChat
// @Summary     Archive a chat
// @Description Soft delete. The chat leaves the active list and can be restored.
// @Tags        Chats
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       id         path    string  true   "Chat ID"  format(uuid)
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /chats/{id}/archive [post]
func (h *Handlers) ArchiveChat(c *gin.Context) {
	h.chatAction(c, h.chats.Archive)
}

// RestoreChat godoc
// @ID          restoreChat
// @Summary     Restore an archived chat
// @Tags        Chats
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       id         path    string  true   "Chat ID"  format(uuid)
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /chats/{id}/restore [post]
func (h *Handlers) RestoreChat(c *gin.Context) {
	h.chatAction(c, h.chats.Restore)
}

// DeleteChat godoc
// @ID          deleteChat
// @Summary     Delete a chat permanently
// @Description Removes the chat with its messages and their feedback.
// @Tags        Chats
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       id         path    string  true   "Chat ID"  format(uuid)
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /chats/{id} [delete]
func (h *Handlers) DeleteChat(c *gin.Context) {
	h.chatAction(c, h.chats.Delete)
}

func (h *Handlers) chatAction(c *gin.Context, fn func(ctx context.Context, userID, chatID string) error) {
	chatID, valid := chatIDParam(c)
	if !valid {
		return
	}
	if err := fn(c.Request.Context(), userID(c), chatID); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

func unixNano(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixNano()
}

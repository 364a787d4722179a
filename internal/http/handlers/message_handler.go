package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-stylist-backend/internal/domain"
	"github.com/tbourn/go-stylist-backend/internal/http/middleware"
	"github.com/tbourn/go-stylist-backend/internal/repo"
	"github.com/tbourn/go-stylist-backend/internal/services"
)

// PostMessageRequest is the body of POST /chats/{id}/messages.
type PostMessageRequest struct {
	Content        string `json:"content" binding:"required" example:"What should I wear to a business dinner?"`
	ImageURL       string `json:"image_url,omitempty" example:"https://cdn.example.com/me.jpg"`
	GenerateImage  bool   `json:"generate_image,omitempty"`
	VirtualTryOn   bool   `json:"virtual_try_on,omitempty"`
	UserPhotoURL   string `json:"user_photo_url,omitempty"`
	OutfitPhotoURL string `json:"outfit_photo_url,omitempty"`
}

// TurnResponse is the result of a chat turn on the REST route.
type TurnResponse struct {
	// Message is the assistant reply. Its id is empty when Persisted is false.
	Message         *domain.Message `json:"message"`
	ImageURL        *string         `json:"image_url"`
	VirtualTryOnURL *string         `json:"virtual_try_on_url"`
	Persisted       bool            `json:"persisted"`
}

// ListMessagesResponse is a page of a chat's history.
type ListMessagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

// PostMessage godoc
// @ID          postMessage
// @Summary     Send a message to the stylist
// @Description Runs one chat turn in a chat owned by the caller. The same Idempotency-Key in the same chat replays the stored reply.
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       X-User-ID        header  string  true   "User ID"  example(user123)
// @Param       Idempotency-Key  header  string  false  "Retry key"
// @Param       id               path    string  true   "Chat ID"  format(uuid)
// @Param       body             body    handlers.PostMessageRequest  true  "Message"
// @Success     200  {object}  handlers.TurnResponse
// @Header      200  {string}  Idempotency-Replayed  "true when served from a previous turn"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /chats/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	chatID, valid := chatIDParam(c)
	if !valid {
		return
	}
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	ctx := c.Request.Context()
	uid := userID(c)
	key, _ := middleware.IdempotencyKey(c)

	if key != "" && h.db != nil {
		if resp, found := h.replay(c, uid, chatID, key); found {
			c.Header("Idempotency-Replayed", "true")
			ok(c, http.StatusOK, resp)
			return
		}
	}

	res, err := h.msgs.Reply(ctx, services.TurnRequest{
		UserID:         uid,
		ChatID:         chatID,
		Message:        content,
		ImageURL:       strings.TrimSpace(req.ImageURL),
		GenerateImage:  req.GenerateImage,
		VirtualTryOn:   req.VirtualTryOn,
		UserPhotoURL:   strings.TrimSpace(req.UserPhotoURL),
		OutfitPhotoURL: strings.TrimSpace(req.OutfitPhotoURL),
	})
	if err != nil {
		failErr(c, err)
		return
	}

	if key != "" && h.db != nil && res.Persisted {
		turn := repo.TurnRecord{MessageID: res.Assistant.ID, ImageURL: res.ImageURL, TryOnURL: res.TryOnURL}
		if _, err := repo.CreateIdempotency(ctx, h.db, uid, chatID, key, turn, h.idemTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not stored")
		}
	}

	ok(c, http.StatusOK, TurnResponse{
		Message:         res.Assistant,
		ImageURL:        res.ImageURL,
		VirtualTryOnURL: res.TryOnURL,
		Persisted:       res.Persisted,
	})
}

// replay rebuilds the response of an earlier turn stored under key.
func (h *Handlers) replay(c *gin.Context, uid, chatID, key string) (TurnResponse, bool) {
	ctx := c.Request.Context()
	rec, err := repo.GetIdempotency(ctx, h.db, uid, chatID, key, time.Now().UTC())
	if err != nil {
		return TurnResponse{}, false
	}
	msg, err := repo.GetMessage(ctx, h.db, rec.MessageID)
	if err != nil {
		return TurnResponse{}, false
	}
	return TurnResponse{Message: msg, ImageURL: rec.ImageURL, VirtualTryOnURL: rec.TryOnURL, Persisted: true}, true
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List messages in a chat
// @Description Oldest first. Weak ETag.
// @Tags        Messages
// @Produce     json
// @Param       X-User-ID      header  string  false  "User ID"  example(user123)
// @Param       If-None-Match  header  string  false  "ETag from a previous call"
// @Param       id             path    string  true   "Chat ID"  format(uuid)
// @Param       page           query   int     false  "Page"            minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListMessagesResponse
// @Success     304  {string}  string  "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /chats/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	chatID, valid := chatIDParam(c)
	if !valid {
		return
	}
	ctx := c.Request.Context()
	uid := userID(c)
	page, size := pageParams(c)

	if h.db != nil {
		// Ownership first, so the ETag never describes someone else's chat.
		if _, err := h.chats.Get(ctx, uid, chatID); err != nil {
			failErr(c, err)
			return
		}
		if count, last, err := repo.MessagesStats(ctx, h.db, chatID); err == nil {
			tag := fmt.Sprintf(`W/"messages:%s:%d:%d:%d:%d"`, chatID, page, size, count, unixNano(last))
			if weakETag(c, tag) {
				return
			}
		}
	}

	items, total, err := h.msgs.ListPage(ctx, uid, chatID, page, size)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListMessagesResponse{Messages: items, Pagination: pagination(page, size, total)})
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-stylist-backend/internal/http/middleware"
	"github.com/tbourn/go-stylist-backend/internal/services"
)

// FashionChatRequest is the body of POST /fashion-ai-chat. The try-on runs
// only when virtualTryOn is set and both photo URLs are present.
type FashionChatRequest struct {
	Message        string `json:"message" example:"What should I wear to a business dinner?"`
	ChatID         string `json:"chatId" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	ImageURL       string `json:"imageUrl,omitempty"`
	GenerateImage  bool   `json:"generateImage,omitempty"`
	VirtualTryOn   bool   `json:"virtualTryOn,omitempty"`
	UserPhotoURL   string `json:"userPhotoUrl,omitempty"`
	OutfitPhotoURL string `json:"outfitPhotoUrl,omitempty"`
}

// FashionChatResponse is the success envelope. Image fields are null when
// there is nothing to show.
type FashionChatResponse struct {
	Success         bool    `json:"success" example:"true"`
	Message         string  `json:"message"`
	ImageURL        *string `json:"imageUrl"`
	VirtualTryOnURL *string `json:"virtualTryOnUrl"`
	// Persisted is false when the reply could not be saved to the chat.
	Persisted bool `json:"persisted"`
}

// FashionChatError is the failure envelope.
type FashionChatError struct {
	Success   bool   `json:"success" example:"false"`
	Error     string `json:"error" example:"Chat not found"`
	Code      string `json:"code,omitempty" example:"not_found"`
	RequestID string `json:"request_id,omitempty"`
}

// FashionChat godoc
// @ID          fashionAIChat
// @Summary     Stylist chat turn
// @Description Stores the message, asks the stylist model for advice and optionally renders an outfit image and a virtual try-on. Image failures never fail the turn.
// @Tags        Stylist
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.FashionChatRequest  true  "Turn"
// @Success     200  {object}  handlers.FashionChatResponse
// @Failure     400  {object}  handlers.FashionChatError
// @Failure     404  {object}  handlers.FashionChatError
// @Failure     500  {object}  handlers.FashionChatError
// @Failure     503  {object}  handlers.FashionChatError
// @Router      /fashion-ai-chat [post]
func (h *Handlers) FashionChat(c *gin.Context) {
	var req FashionChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.chatFail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body")
		return
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		h.chatFail(c, http.StatusBadRequest, ErrCodeBadRequest, "Message is required")
		return
	}
	if strings.TrimSpace(req.ChatID) == "" {
		h.chatFail(c, http.StatusBadRequest, ErrCodeBadRequest, "Valid chatId is required")
		return
	}

	res, err := h.msgs.Reply(c.Request.Context(), services.TurnRequest{
		ChatID:         strings.TrimSpace(req.ChatID),
		Message:        msg,
		ImageURL:       strings.TrimSpace(req.ImageURL),
		GenerateImage:  req.GenerateImage,
		VirtualTryOn:   req.VirtualTryOn,
		UserPhotoURL:   strings.TrimSpace(req.UserPhotoURL),
		OutfitPhotoURL: strings.TrimSpace(req.OutfitPhotoURL),
	})
	if err != nil {
		e := classify(err)
		h.chatFail(c, e.status, e.code, chatErrorText(err))
		return
	}

	ok(c, http.StatusOK, FashionChatResponse{
		Success:         true,
		Message:         res.Reply,
		ImageURL:        res.ImageURL,
		VirtualTryOnURL: res.TryOnURL,
		Persisted:       res.Persisted,
	})
}

func (h *Handlers) chatFail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().Int("status", status).Str("code", code).Msg("fashion chat failed")
	}
	c.AbortWithStatusJSON(status, FashionChatError{
		Error:     msg,
		Code:      code,
		RequestID: middleware.RequestIDFrom(c),
	})
}

// chatErrorText is the wording the web client shows as is.
func chatErrorText(err error) string {
	switch {
	case errors.Is(err, services.ErrEmptyPrompt):
		return "Message is required"
	case errors.Is(err, services.ErrInvalidChatID):
		return "Valid chatId is required"
	case errors.Is(err, services.ErrChatNotFound):
		return "Chat not found"
	case errors.Is(err, services.ErrMisconfigured):
		return "AI service configuration error"
	case errors.Is(err, services.ErrPersistUserMessage):
		return "Failed to save message"
	case errors.Is(err, services.ErrCompletionUnavailable):
		return services.ErrCompletionUnavailable.Error()
	}
	return "Internal server error"
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LeaveFeedbackRequest is the body of POST /messages/{id}/feedback.
type LeaveFeedbackRequest struct {
	// +1 thumbs up, -1 thumbs down.
	Value int `json:"value" binding:"required,oneof=-1 1" example:"1"`
}

// LeaveFeedback godoc
// @ID          leaveFeedback
// @Summary     Rate a stylist reply
// @Description One rating per user and message, on assistant replies in the caller's chats.
// @Tags        Feedback
// @Accept      json
// @Param       X-User-ID  header  string  false  "User ID"     example(user123)
// @Param       id         path    string  true   "Message ID"  format(uuid)
// @Param       body       body    handlers.LeaveFeedbackRequest  true  "Rating"
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse
// @Router      /messages/{id}/feedback [post]
func (h *Handlers) LeaveFeedback(c *gin.Context) {
	var req LeaveFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "value must be -1 or 1")
		return
	}
	if err := h.feedback.Leave(c.Request.Context(), userID(c), c.Param("id"), req.Value); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

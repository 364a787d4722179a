package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-stylist-backend/internal/services"
)

// GroomingService recommends skincare and haircare products.
type GroomingService interface {
	Recommend(ctx context.Context, userID string, q services.GroomingQuery) (*services.GroomingAdvice, error)
}

// GetGrooming godoc
// @ID          getGrooming
// @Summary     Grooming product recommendations
// @Description Skincare and haircare products for a skin and scalp type, with care routines. An omitted filter falls back to the caller's profile, then to "all".
// @Tags        Grooming
// @Produce     json
// @Param       X-User-ID   header  string  false  "User ID"  example(user123)
// @Param       skin_type   query   string  false  "oily, dry, combination, normal, sensitive, acne-prone or all"
// @Param       scalp_type  query   string  false  "oily, dry, normal, flaky, sensitive or all"
// @Success     200  {object}  services.GroomingAdvice
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /grooming [get]
func (h *Handlers) GetGrooming(c *gin.Context) {
	if h.grooming == nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "grooming advisor unavailable")
		return
	}
	advice, err := h.grooming.Recommend(c.Request.Context(), userID(c), services.GroomingQuery{
		SkinType:  c.Query("skin_type"),
		ScalpType: c.Query("scalp_type"),
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, advice)
}

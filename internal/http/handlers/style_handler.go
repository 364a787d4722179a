package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-stylist-backend/internal/catalog"
	"github.com/tbourn/go-stylist-backend/internal/utils"
)

const maxStyleResults = 20

// StyleListResponse is the full catalog.
type StyleListResponse struct {
	Styles []catalog.Style `json:"styles"`
}

// StyleSearchResponse is a ranked search.
type StyleSearchResponse struct {
	Query   string           `json:"query"`
	Results []catalog.Result `json:"results"`
}

// ListStyles godoc
// @ID          listStyles
// @Summary     Browse or search the style catalog
// @Description Without q, every style in catalog order. With q, up to k best matches (default 3, max 20).
// @Tags        Styles
// @Produce     json
// @Param       q  query  string  false  "Search text"  example(rugged denim layers)
// @Param       k  query  int     false  "Max results"  minimum(1) maximum(20) default(3)
// @Success     200  {object}  handlers.StyleSearchResponse  "with q"
// @Success     200  {object}  handlers.StyleListResponse    "without q"
// @Router      /styles [get]
func (h *Handlers) ListStyles(c *gin.Context) {
	if h.styles == nil {
		ok(c, http.StatusOK, StyleListResponse{Styles: []catalog.Style{}})
		return
	}
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		ok(c, http.StatusOK, StyleListResponse{Styles: h.styles.All()})
		return
	}
	k := utils.AtoiDefault(c.Query("k"), 3)
	if k < 1 {
		k = 1
	}
	if k > maxStyleResults {
		k = maxStyleResults
	}
	res := h.styles.TopK(q, k)
	if res == nil {
		res = []catalog.Result{}
	}
	ok(c, http.StatusOK, StyleSearchResponse{Query: q, Results: res})
}

// GetStyle godoc
// @ID          getStyle
// @Summary     Get one catalog style
// @Tags        Styles
// @Produce     json
// @Param       slug  path  string  true  "Style slug"  example(smart-casual)
// @Success     200  {object}  catalog.Style
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /styles/{slug} [get]
func (h *Handlers) GetStyle(c *gin.Context) {
	if h.styles != nil {
		if s, found := h.styles.Get(c.Param("slug")); found {
			ok(c, http.StatusOK, s)
			return
		}
	}
	fail(c, http.StatusNotFound, ErrCodeNotFound, "style not found")
}

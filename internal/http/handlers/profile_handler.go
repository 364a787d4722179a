package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

// ProfileRequest is the body of PUT /profile. Omitted numbers stay unset.
type ProfileRequest struct {
	FullName             string     `json:"full_name" example:"Sam Carter"`
	Height               *float64   `json:"height,omitempty" example:"182"`
	Weight               *float64   `json:"weight,omitempty" example:"78.5"`
	BodyType             string     `json:"body_type" example:"athletic"`
	SkinTone             string     `json:"skin_tone" example:"olive"`
	SkinType             string     `json:"skin_type"`
	ScalpType            string     `json:"scalp_type"`
	HairTexture          string     `json:"hair_texture"`
	Location             string     `json:"location"`
	Bio                  string     `json:"bio"`
	AvatarURL            string     `json:"avatar_url"`
	BirthDate            *time.Time `json:"birth_date,omitempty"`
	StyleConfidenceLevel *int       `json:"style_confidence_level,omitempty" example:"6"`
}

func (r ProfileRequest) profile() domain.UserProfile {
	return domain.UserProfile{
		FullName:             r.FullName,
		Height:               r.Height,
		Weight:               r.Weight,
		BodyType:             r.BodyType,
		SkinTone:             r.SkinTone,
		SkinType:             r.SkinType,
		ScalpType:            r.ScalpType,
		HairTexture:          r.HairTexture,
		Location:             r.Location,
		Bio:                  r.Bio,
		AvatarURL:            r.AvatarURL,
		BirthDate:            r.BirthDate,
		StyleConfidenceLevel: r.StyleConfidenceLevel,
	}
}

// GetProfile godoc
// @ID          getProfile
// @Summary     Get the caller's style profile
// @Tags        Profile
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Success     200  {object}  domain.UserProfile
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /profile [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// PutProfile godoc
// @ID          putProfile
// @Summary     Create or replace the caller's style profile
// @Tags        Profile
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       body       body    handlers.ProfileRequest  true  "Profile"
// @Success     200  {object}  domain.UserProfile
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /profile [put]
func (h *Handlers) PutProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	p, err := h.profiles.Save(c.Request.Context(), userID(c), req.profile())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

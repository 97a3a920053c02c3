package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"userhub/internal/app"
	"userhub/internal/transport/http/middleware"
	"userhub/internal/transport/http/response"
)

// Same envelope the auth gate emits; a stale token for a deleted user must
// not read differently from an invalid one.
const unauthorizedMsg = "authentication required"

type ProfileHandler struct {
	profileService *app.ProfileService
}

type UpdateProfileRequest struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	DOB   *string `json:"dob"`
}

func NewProfileHandler(profileService *app.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Fetch(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, unauthorizedMsg)
		return
	}

	profile, err := h.profileService.Fetch(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, app.ErrUserGone) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, unauthorizedMsg)
			return
		}
		log.Printf("fetch profile failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch profile failed")
		return
	}

	response.OK(c, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, unauthorizedMsg)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	err := h.profileService.Update(c.Request.Context(), userID, app.UpdateProfileInput{
		Email: req.Email,
		Phone: req.Phone,
		DOB:   req.DOB,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrEmailExists):
			response.Error(c, http.StatusConflict, response.CodeEmailExists, err.Error())
		case errors.Is(err, app.ErrUserGone):
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, unauthorizedMsg)
		default:
			log.Printf("update profile failed: %v", err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update profile failed")
		}
		return
	}

	response.OK(c, gin.H{"updated": true})
}

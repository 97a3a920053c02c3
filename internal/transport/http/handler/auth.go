package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"userhub/internal/app"
	"userhub/internal/transport/http/response"
)

type AuthHandler struct {
	authService  *app.AuthService
	cookieName   string
	cookieMaxAge int
	cookieSecure bool
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=64"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Email    string `json:"email" binding:"required,max=128"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=128"`
}

func NewAuthHandler(authService *app.AuthService, cookieName string, cookieTTL time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieName:   cookieName,
		cookieMaxAge: int(cookieTTL.Seconds()),
		cookieSecure: cookieSecure,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrUsernameExists):
			response.Error(c, http.StatusConflict, response.CodeUsernameExists, err.Error())
		case errors.Is(err, app.ErrEmailExists):
			response.Error(c, http.StatusConflict, response.CodeEmailExists, err.Error())
		default:
			log.Printf("register failed: %v", err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "register failed")
		}
		return
	}

	h.setAuthCookie(c, result.Token)
	response.OK(c, gin.H{
		"token": result.Token,
		"user": gin.H{
			"id":       result.User.ID.Hex(),
			"username": result.User.Username,
			"email":    result.User.Email,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, err.Error())
		default:
			log.Printf("login failed: %v", err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "login failed")
		}
		return
	}

	h.setAuthCookie(c, result.Token)
	response.OK(c, gin.H{
		"token": result.Token,
		"user": gin.H{
			"id":       result.User.ID.Hex(),
			"username": result.User.Username,
			"email":    result.User.Email,
		},
	})
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookieName, token, h.cookieMaxAge, "/", "", h.cookieSecure, true)
}

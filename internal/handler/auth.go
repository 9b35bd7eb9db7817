package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gogo-study/backend/internal/apperr"
	"github.com/gogo-study/backend/internal/model"
	"github.com/gogo-study/backend/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register godoc
// @Summary Register a new local account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Email, password and display name"
// @Success 201 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.InvalidPayload("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		writeError(c, apperr.InvalidPayload("email, password and name are required"))
		return
	}

	res, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.InvalidPayload("invalid request body"))
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SocialLogin godoc
// @Summary Login with an external provider token
// @Description Provider is one of google, kakao, firebase.
// @Tags auth
// @Accept json
// @Produce json
// @Param provider path string true "Identity provider"
// @Param request body model.SocialLoginRequest true "Provider token"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /api/auth/social/{provider} [post]
func (h *AuthHandler) SocialLogin(c *gin.Context) {
	provider := strings.ToUpper(c.Param("provider"))
	if !model.ValidSocialProvider(provider) {
		writeError(c, apperr.InvalidPayload("unsupported provider"))
		return
	}

	var req model.SocialLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		writeError(c, apperr.InvalidPayload("token is required"))
		return
	}

	res, err := h.svc.SocialLogin(c.Request.Context(), model.Provider(provider), req.Token)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Refresh godoc
// @Summary Rotate a refresh token into a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RefreshRequest true "Refresh token"
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		writeError(c, apperr.InvalidPayload("refreshToken is required"))
		return
	}

	res, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Logout godoc
// @Summary Logout
// @Description Deletes the refresh session and blacklists the presented tokens.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LogoutRequest true "Refresh token and optional access token"
// @Success 200 {object} model.LogoutResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req model.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		writeError(c, apperr.InvalidPayload("refreshToken is required"))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req.RefreshToken, req.AccessToken); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.LogoutResponse{Success: true})
}

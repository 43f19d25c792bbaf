package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"psi/internal/domain/auth"
	"psi/internal/infrastructure/http/v1/dto"
)

// AuthService signs users in and resolves the current one.
type AuthService interface {
	Login(ctx context.Context, creds auth.Credentials) (*auth.Token, *auth.User, error)
	Me(ctx context.Context) (*auth.User, error)
}

// AuthHandler serves /auth.
type AuthHandler struct {
	*BaseHandler
	service AuthService
}

func NewAuthHandler(base *BaseHandler, service AuthService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts login on public and the profile on protected.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/login", h.Login)
	protected.GET("/me", h.Me)
}

// Login exchanges a login and password for an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.LoginResponse{Token: dto.FromToken(token), User: dto.FromUser(user)})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromUser(user))
}

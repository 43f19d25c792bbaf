package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"psi/internal/core/apperror"
	appctx "psi/internal/core/context"
)

// TokenValidator resolves a bearer token to the calling user.
type TokenValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// Auth puts the bearer token's user into the request context. Repositories
// scope every query to that user's organization.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			deny(c, err)
			return
		}

		user, err := validator.ValidateToken(token)
		if err != nil {
			deny(c, apperror.NewUnauthorized("invalid token"))
			return
		}

		c.Request = c.Request.WithContext(appctx.WithUser(c.Request.Context(), user))
		c.Set("user_id", user.UserID)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperror.NewUnauthorized("missing authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", apperror.NewUnauthorized("invalid authorization header format")
	}
	return strings.TrimSpace(token), nil
}

// RequireRole admits users holding any of roles. Admins always pass.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if appctx.GetUser(ctx) == nil {
			deny(c, apperror.NewUnauthorized("authentication required"))
			return
		}
		for _, role := range roles {
			if appctx.HasRole(ctx, role) {
				c.Next()
				return
			}
		}
		deny(c, apperror.NewForbidden("insufficient permissions").WithDetail("required_roles", roles))
	}
}

func deny(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

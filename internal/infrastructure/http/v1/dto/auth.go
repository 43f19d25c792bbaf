// Package dto provides data transfer objects for HTTP API.
package dto

import (
	"time"

	"psi/internal/domain/auth"
)

// --- Request DTOs ---

// LoginRequest for user login.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials converts to domain credentials.
func (r *LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{
		Login:    r.Login,
		Password: r.Password,
	}
}

// --- Response DTOs ---

// TokenResponse represents an access token.
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}

// FromToken creates response from domain token.
func FromToken(t *auth.Token) *TokenResponse {
	return &TokenResponse{
		AccessToken: t.AccessToken,
		ExpiresAt:   t.ExpiresAt,
		TokenType:   t.TokenType,
	}
}

// UserResponse represents user in API response.
type UserResponse struct {
	ID             string     `json:"id"`
	Login          string     `json:"login"`
	OrganizationID string     `json:"organizationId"`
	Roles          []string   `json:"roles"`
	IsAdmin        bool       `json:"isAdmin"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
}

// FromUser creates response from domain user.
func FromUser(u *auth.User) *UserResponse {
	return &UserResponse{
		ID:             u.ID.String(),
		Login:          u.Login,
		OrganizationID: u.OrganizationID.String(),
		Roles:          u.Roles,
		IsAdmin:        u.IsAdmin,
		LastLoginAt:    u.LastLoginAt,
	}
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token *TokenResponse `json:"token"`
	User  *UserResponse  `json:"user"`
}

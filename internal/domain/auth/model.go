// Package auth provides authentication and authorization domain logic.
package auth

import (
	"context"
	"slices"
	"strings"
	"time"

	"psi/internal/core/apperror"
	"psi/internal/core/id"
)

// User represents a system user. Every user works in one organization.
type User struct {
	ID                  id.ID      `db:"id" json:"id"`
	Login               string     `db:"login" json:"login"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	OrganizationID      id.ID      `db:"organization_id" json:"organizationId"`
	Roles               []string   `db:"roles" json:"roles"`
	IsActive            bool       `db:"is_active" json:"isActive"`
	IsAdmin             bool       `db:"is_admin" json:"isAdmin"`
	LastLoginAt         *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
}

// NewUser creates an active user of organizationID.
func NewUser(login, passwordHash string, organizationID id.ID) *User {
	return &User{
		ID:             id.New(),
		Login:          strings.TrimSpace(login),
		PasswordHash:   passwordHash,
		OrganizationID: organizationID,
		Roles:          make([]string, 0),
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	if u.Login == "" {
		return apperror.NewValidation("login is required").WithDetail("field", "login")
	}
	if id.IsNil(u.OrganizationID) {
		return apperror.NewValidation("organization is required").WithDetail("field", "organizationId")
	}
	return nil
}

// IsLocked returns true if account is locked.
func (u *User) IsLocked() bool {
	if u.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*u.LockedUntil)
}

// CanLogin checks if user can login.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	if u.IsLocked() {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments the failed login counter and locks the
// account once maxAttempts is reached.
func (u *User) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		u.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets failed login counter.
func (u *User) RecordSuccessfulLogin() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	now := time.Now().UTC()
	u.LastLoginAt = &now
}

// HasRole reports whether the user holds role. Admins hold every role.
func (u *User) HasRole(role string) bool {
	return u.IsAdmin || slices.Contains(u.Roles, role)
}

// Credentials is a login request.
type Credentials struct {
	Login    string
	Password string
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}

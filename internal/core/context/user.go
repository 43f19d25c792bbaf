// Package context provides request-scoped values extraction.
package context

import (
	"context"
	"slices"

	"psi/internal/core/id"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID         string
	Login          string
	OrganizationID id.ID // organization the user works in; rows of other organizations are invisible
	Roles          []string
	IsAdmin        bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// GetOrganizationID returns the user's organization or id.Nil().
func GetOrganizationID(ctx context.Context) id.ID {
	if u := GetUser(ctx); u != nil {
		return u.OrganizationID
	}
	return id.Nil()
}

// HasRole checks if user has specific role. Admins have every role.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	return u.IsAdmin || slices.Contains(u.Roles, role)
}

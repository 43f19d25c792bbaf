package auth

import (
	"context"

	"psi/internal/core/id"
)

// UserRepository defines user storage operations.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves user by ID, or NotFound.
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByLogin retrieves user by login, or NotFound.
	GetByLogin(ctx context.Context, login string) (*User, error)

	// UpdateLoginState stores the login counters of user.
	UpdateLoginState(ctx context.Context, user *User) error

	// Exists checks if login is taken.
	Exists(ctx context.Context, login string) (bool, error)
}

// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"psi/internal/core/apperror"
	"psi/internal/core/id"
	"psi/internal/domain/auth"
	"psi/internal/infrastructure/storage/postgres"
)

const usersTable = "users"

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	db      postgres.DB
	builder squirrel.StatementBuilderType
	cols    []string
}

var _ auth.UserRepository = (*UserRepo)(nil)

// NewUserRepo creates a new user repository.
func NewUserRepo(db postgres.DB) *UserRepo {
	return &UserRepo{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		cols:    postgres.ExtractDBColumns[auth.User](),
	}
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	cols, vals := postgres.StructToColumns(user)
	sql, args, err := r.builder.Insert(usersTable).Columns(cols...).Values(vals...).ToSql()
	if err != nil {
		return fmt.Errorf("build user insert: %w", err)
	}
	if _, err := r.db.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("user", "login", user.Login).WithCause(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) getBy(ctx context.Context, column string, value any, key string) (*auth.User, error) {
	sql, args, err := r.builder.Select(r.cols...).From(usersTable).Where(squirrel.Eq{column: value}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	var user auth.User
	if err := pgxscan.Get(ctx, r.db.GetQuerier(ctx), &user, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", key)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// GetByID retrieves user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	return r.getBy(ctx, "id", userID, userID.String())
}

// GetByLogin retrieves user by login.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*auth.User, error) {
	return r.getBy(ctx, "login", login, login)
}

// UpdateLoginState stores the login counters of user.
func (r *UserRepo) UpdateLoginState(ctx context.Context, user *auth.User) error {
	sql, args, err := r.builder.Update(usersTable).
		Set("last_login_at", user.LastLoginAt).
		Set("failed_login_attempts", user.FailedLoginAttempts).
		Set("locked_until", user.LockedUntil).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build user update: %w", err)
	}
	tag, err := r.db.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", user.ID.String())
	}
	return nil
}

// Exists checks if login is taken.
func (r *UserRepo) Exists(ctx context.Context, login string) (bool, error) {
	sql, args, err := r.builder.Select("1").From(usersTable).Where(squirrel.Eq{"login": login}).
		Prefix("SELECT EXISTS(").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("build user exists: %w", err)
	}
	var exists bool
	if err := r.db.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

// Package dbutil holds generic data-access helpers shared by every table:
// next-code generation, lookups by unique field, transactional save and
// delete, and organization-scoped listing.
package dbutil

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"psi/internal/core/apperror"
	appctx "psi/internal/core/context"
	"psi/internal/core/entity"
	"psi/internal/core/id"
	"psi/internal/core/numerator"
	"psi/internal/infrastructure/storage/postgres"
)

// numericCode matches codes made of digits only; other codes are ignored
// when computing the next one.
const numericCode = "^[0-9]+$"

// Store executes the helpers against a database.
type Store struct {
	db    postgres.DB
	codes numerator.Config
}

var _ numerator.Generator = (*Store)(nil)

// New creates a Store with 6-digit codes.
func New(db postgres.DB) *Store {
	return &Store{db: db, codes: numerator.DefaultConfig()}
}

// DB returns the underlying database.
func (s *Store) DB() postgres.DB {
	return s.db
}

func builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// ScopeFromContext returns the organization of the authenticated user.
func ScopeFromContext(ctx context.Context) entity.Scope {
	return entity.Scope{OrganizationID: appctx.GetOrganizationID(ctx)}
}

// Scoped adds the organization filter for scoped tables. A scoped table
// queried without an organization is refused rather than read unfiltered.
func Scoped(q sq.SelectBuilder, meta entity.Meta, scope entity.Scope) (sq.SelectBuilder, error) {
	if !meta.OrgScoped {
		return q, nil
	}
	if !scope.HasOrganization() {
		return q, apperror.NewForbidden("organization is required").
			WithDetail("table", meta.Table)
	}
	return q.Where(sq.Eq{"organization_id": scope.OrganizationID}), nil
}

// nextCodeQuery builds the max(code) lookup.
func nextCodeQuery(meta entity.Meta, scope entity.Scope) (sq.SelectBuilder, error) {
	q := builder().
		Select("COALESCE(MAX(CAST(code AS BIGINT)), 0)").
		From(meta.Table).
		Where(sq.Expr("code ~ ?", numericCode))
	return Scoped(q, meta, scope)
}

// GetNextCode returns max(code)+1 zero-padded to 6 digits ("000001" for an
// empty table). Scoped tables only consider the organization's rows.
func (s *Store) GetNextCode(ctx context.Context, meta entity.Meta, scope entity.Scope) (string, error) {
	q, err := nextCodeQuery(meta, scope)
	if err != nil {
		return "", err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return "", fmt.Errorf("build next code query: %w", err)
	}

	var last int64
	if err := s.db.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&last); err != nil {
		return "", fmt.Errorf("next code of %s: %w", meta.Table, err)
	}
	return s.codes.Format(last + 1), nil
}

// NextCode implements numerator.Generator.
func (s *Store) NextCode(ctx context.Context, meta entity.Meta, scope entity.Scope) (string, error) {
	return s.GetNextCode(ctx, meta, scope)
}

func firstByQuery[T any](meta entity.Meta, column string, value any, scope entity.Scope) (sq.SelectBuilder, error) {
	q := builder().
		Select(postgres.ExtractDBColumns[T]()...).
		From(meta.Table).
		Where(sq.Eq{column: value}).
		Limit(1)
	return Scoped(q, meta, scope)
}

func first[T any](ctx context.Context, s *Store, meta entity.Meta, column string, value any, scope entity.Scope) (*T, error) {
	q, err := firstByQuery[T](meta, column, value, scope)
	if err != nil {
		return nil, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s lookup: %w", meta.Table, err)
	}

	var row T
	if err := pgxscan.Get(ctx, s.db.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s by %s: %w", meta.Table, column, err)
	}
	return &row, nil
}

// GetByExternalID returns the first row with the given external_id, or nil.
func GetByExternalID[T any](ctx context.Context, s *Store, meta entity.Meta, externalID string, scope entity.Scope) (*T, error) {
	return first[T](ctx, s, meta, "external_id", externalID, scope)
}

// GetByName returns the first row with the given name, or nil.
func GetByName[T any](ctx context.Context, s *Store, meta entity.Meta, name string, scope entity.Scope) (*T, error) {
	return first[T](ctx, s, meta, "name", name, scope)
}

// FilterByOrganization returns every row of the scope's organization.
func FilterByOrganization[T any](ctx context.Context, s *Store, meta entity.Meta, scope entity.Scope) ([]T, error) {
	if !scope.HasOrganization() {
		return nil, apperror.NewForbidden("organization is required").
			WithDetail("table", meta.Table)
	}
	sql, args, err := builder().
		Select(postgres.ExtractDBColumns[T]()...).
		From(meta.Table).
		Where(sq.Eq{"organization_id": scope.OrganizationID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s organization filter: %w", meta.Table, err)
	}

	items := make([]T, 0)
	if err := pgxscan.Select(ctx, s.db.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("filter %s by organization: %w", meta.Table, err)
	}
	return items, nil
}

// GetFirstResultRawSQL runs sql and returns the first column of the last
// row, or nil when the statement yields no rows.
func (s *Store) GetFirstResultRawSQL(ctx context.Context, sql string, args ...any) (any, error) {
	rows, err := s.db.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("raw query: %w", err)
	}
	defer rows.Close()

	var result any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read raw row: %w", err)
		}
		if len(values) > 0 {
			result = values[0]
		}
	}
	return result, rows.Err()
}

// Exists reports whether a row with the given primary key is visible in scope.
func (s *Store) Exists(ctx context.Context, meta entity.Meta, rowID id.ID, scope entity.Scope) (bool, error) {
	q, err := Scoped(builder().Select("1").From(meta.Table).Where(sq.Eq{"id": rowID}), meta, scope)
	if err != nil {
		return false, err
	}
	sql, args, err := q.Prefix("SELECT EXISTS(").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("build %s exists: %w", meta.Table, err)
	}

	var exists bool
	if err := s.db.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s exists: %w", meta.Table, err)
	}
	return exists, nil
}

package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"psi/internal/core/id"
	"psi/internal/domain/enums"
	"psi/internal/infrastructure/storage/postgres"
)

// EnumValueRepo implements enums.Repository. enum_values is shared by all
// organizations.
type EnumValueRepo struct {
	db         postgres.DB
	selectCols []string
}

var _ enums.Repository = (*EnumValueRepo)(nil)

// NewEnumValueRepo creates a new enum value repository.
func NewEnumValueRepo(db postgres.DB) *EnumValueRepo {
	return &EnumValueRepo{
		db:         db,
		selectCols: postgres.ExtractDBColumns[enums.EnumValue](),
	}
}

func (r *EnumValueRepo) baseSelect() squirrel.SelectBuilder {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(r.selectCols...).
		From(enums.Meta.Table)
}

// TypeFilter lists the values of one type ordered by code.
func (r *EnumValueRepo) TypeFilter(ctx context.Context, typ string) ([]enums.EnumValue, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"type": typ}).
		OrderBy("code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	values := make([]enums.EnumValue, 0)
	if err := pgxscan.Select(ctx, r.db.GetQuerier(ctx), &values, sql, args...); err != nil {
		return nil, fmt.Errorf("list enum values of %s: %w", typ, err)
	}
	return values, nil
}

// GetByID returns nil when the value does not exist.
func (r *EnumValueRepo) GetByID(ctx context.Context, valueID id.ID) (*enums.EnumValue, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"id": valueID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var v enums.EnumValue
	if err := pgxscan.Get(ctx, r.db.GetQuerier(ctx), &v, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get enum value: %w", err)
	}
	return &v, nil
}

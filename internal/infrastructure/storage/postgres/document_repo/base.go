// Package document_repo provides PostgreSQL implementations for document repositories.
// Documents are read only within the caller's organization.
package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"psi/internal/core/apperror"
	"psi/internal/domain"
	"psi/internal/domain/filter"
	"psi/internal/infrastructure/storage/postgres"
	"psi/internal/infrastructure/storage/postgres/dbutil"
)

// BaseDocumentRepo holds what every document repository needs: the store
// and the qualified column list of the header table.
type BaseDocumentRepo struct {
	store      *dbutil.Store
	table      string
	selectCols []string
}

// NewBaseDocumentRepo creates a base repository for table, selecting cols
// qualified with the table name.
func NewBaseDocumentRepo(store *dbutil.Store, table string, cols []string) *BaseDocumentRepo {
	return &BaseDocumentRepo{
		store:      store,
		table:      table,
		selectCols: qualify(table, cols),
	}
}

func qualify(table string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = table + "." + c
	}
	return out
}

// Builder returns a new squirrel builder.
func (r *BaseDocumentRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseDocumentRepo) querier(ctx context.Context) postgres.Querier {
	return r.store.DB().GetQuerier(ctx)
}

// organization returns the caller's organization or Forbidden.
func organization(ctx context.Context) (squirrel.Eq, error) {
	scope := dbutil.ScopeFromContext(ctx)
	if !scope.HasOrganization() {
		return nil, apperror.NewForbidden("organization is required")
	}
	return squirrel.Eq{"purchase_order.organization_id": scope.OrganizationID}, nil
}

// applyFilters qualifies user filter fields with the table name, so they
// stay unambiguous next to joined tables. allowed lists unqualified columns.
func (r *BaseDocumentRepo) applyFilters(q squirrel.SelectBuilder, items []filter.Item, allowed []string) (squirrel.SelectBuilder, error) {
	prefixed := make([]filter.Item, len(items))
	for i, it := range items {
		it.Field = r.table + "." + it.Field
		prefixed[i] = it
	}
	return postgres.ApplyFilters(q, prefixed, qualify(r.table, allowed))
}

// page counts the rows of q, then orders and limits it.
func (r *BaseDocumentRepo) page(ctx context.Context, q squirrel.SelectBuilder, lf domain.ListFilter, sortable []string, fallback string) (squirrel.SelectBuilder, int64, error) {
	countSQL, countArgs, err := r.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return q, 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := r.querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return q, 0, fmt.Errorf("count %s: %w", r.table, err)
	}

	orderBy, err := postgres.ParseOrderBy(strings.TrimSpace(lf.OrderBy), sortable, fallback)
	if err != nil {
		return q, 0, err
	}
	q = q.OrderBy(orderBy)

	if lf.Limit > 0 {
		q = q.Limit(uint64(lf.Limit))
	}
	if lf.Offset > 0 {
		q = q.Offset(uint64(lf.Offset))
	}
	return q, total, nil
}

// selectAll runs q and scans every row into dst.
func (r *BaseDocumentRepo) selectAll(ctx context.Context, dst any, q squirrel.SelectBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.querier(ctx), dst, sql, args...); err != nil {
		return fmt.Errorf("select %s: %w", r.table, err)
	}
	return nil
}

// getOne runs q and scans one row into dst; no row is NotFound.
func (r *BaseDocumentRepo) getOne(ctx context.Context, dst any, q squirrel.SelectBuilder, entity, key string) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Get(ctx, r.querier(ctx), dst, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return apperror.NewNotFound(entity, key)
		}
		return fmt.Errorf("get %s: %w", r.table, err)
	}
	return nil
}

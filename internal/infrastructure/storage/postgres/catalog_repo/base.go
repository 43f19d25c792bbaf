// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
// Every read is limited to the organization of the caller.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"psi/internal/core/apperror"
	"psi/internal/core/entity"
	"psi/internal/core/id"
	"psi/internal/domain"
	"psi/internal/infrastructure/storage/postgres"
	"psi/internal/infrastructure/storage/postgres/dbutil"
)

// BaseCatalogRepo provides common CRUD operations for catalog entities.
// Embed this in specific catalog repositories. E is the model struct; all
// methods hand out *E.
type BaseCatalogRepo[E any] struct {
	store      *dbutil.Store
	meta       entity.Meta
	selectCols []string
}

// NewBaseCatalogRepo creates a new base catalog repository.
func NewBaseCatalogRepo[E any](store *dbutil.Store, meta entity.Meta) *BaseCatalogRepo[E] {
	return &BaseCatalogRepo[E]{
		store:      store,
		meta:       meta,
		selectCols: postgres.ExtractDBColumns[E](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[E]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseCatalogRepo[E]) querier(ctx context.Context) postgres.Querier {
	return r.store.DB().GetQuerier(ctx)
}

// baseSelect creates a SELECT builder limited to the caller's organization.
func (r *BaseCatalogRepo[E]) baseSelect(ctx context.Context) (squirrel.SelectBuilder, error) {
	q := r.Builder().
		Select(r.selectCols...).
		From(r.meta.Table)
	return dbutil.Scoped(q, r.meta, dbutil.ScopeFromContext(ctx))
}

// Create inserts a new entity using its "db" tags.
func (r *BaseCatalogRepo[E]) Create(ctx context.Context, e *E) error {
	cols, vals := postgres.StructToColumns(e)
	if len(cols) == 0 {
		return fmt.Errorf("no db tags found in %T", e)
	}

	sql, args, err := r.Builder().
		Insert(r.meta.Table).
		Columns(cols...).
		Values(vals...).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate(r.meta.Entity, postgres.ConstraintName(err), "").WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", r.meta.Table, err)
	}
	return nil
}

// updateQuery builds the optimistic-lock update: the row must still carry
// the version the caller read.
func (r *BaseCatalogRepo[E]) updateQuery(ctx context.Context, e *E) (squirrel.UpdateBuilder, id.ID, int, error) {
	data := postgres.StructToMap(e)
	entityID, ok := data["id"].(id.ID)
	if !ok {
		return squirrel.UpdateBuilder{}, id.Nil(), 0, fmt.Errorf("%T has no id column", e)
	}
	version, ok := data["version"].(int)
	if !ok {
		return squirrel.UpdateBuilder{}, id.Nil(), 0, fmt.Errorf("%T has no version column", e)
	}

	q := r.Builder().Update(r.meta.Table)
	for _, col := range r.selectCols {
		switch col {
		case "id", "version", "organization_id":
			continue
		}
		q = q.Set(col, data[col])
	}
	q = q.Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"version": version})

	if r.meta.OrgScoped {
		scope := dbutil.ScopeFromContext(ctx)
		if !scope.HasOrganization() {
			return q, entityID, version, apperror.NewForbidden("organization is required")
		}
		q = q.Where(squirrel.Eq{"organization_id": scope.OrganizationID})
	}
	return q, entityID, version, nil
}

// Update modifies an existing entity with optimistic locking.
func (r *BaseCatalogRepo[E]) Update(ctx context.Context, e *E) error {
	q, entityID, version, err := r.updateQuery(ctx, e)
	if err != nil {
		return err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate(r.meta.Entity, postgres.ConstraintName(err), "").WithCause(err)
		}
		return fmt.Errorf("update %s: %w", r.meta.Table, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.meta.Entity, entityID.String())
	}

	if v, ok := any(e).(interface{ SetVersion(int) }); ok {
		v.SetVersion(version + 1)
	}
	return nil
}

// GetByID retrieves entity by ID.
func (r *BaseCatalogRepo[E]) GetByID(ctx context.Context, entityID id.ID) (*E, error) {
	q, err := r.baseSelect(ctx)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, q.Where(squirrel.Eq{"id": entityID}).Limit(1), entityID.String())
}

// GetByCode retrieves entity by code.
func (r *BaseCatalogRepo[E]) GetByCode(ctx context.Context, code string) (*E, error) {
	q, err := r.baseSelect(ctx)
	if err != nil {
		return nil, err
	}
	q = q.Where(squirrel.Eq{"code": code}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)
	return r.findOne(ctx, q, code)
}

func (r *BaseCatalogRepo[E]) findOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*E, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	e := new(E)
	if err := pgxscan.Get(ctx, r.querier(ctx), e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.meta.Entity, key)
		}
		return nil, fmt.Errorf("get %s: %w", r.meta.Table, err)
	}
	return e, nil
}

// FindByName returns the first entity named name; found is false on a miss.
func (r *BaseCatalogRepo[E]) FindByName(ctx context.Context, name string) (*E, bool, error) {
	e, err := dbutil.GetByName[E](ctx, r.store, r.meta, name, dbutil.ScopeFromContext(ctx))
	return e, e != nil, err
}

// FindByExternalID returns the entity linked to externalID; found is false on a miss.
func (r *BaseCatalogRepo[E]) FindByExternalID(ctx context.Context, externalID string) (*E, bool, error) {
	e, err := dbutil.GetByExternalID[E](ctx, r.store, r.meta, externalID, dbutil.ScopeFromContext(ctx))
	return e, e != nil, err
}

// ListForOrganization returns every row of the caller's organization.
func (r *BaseCatalogRepo[E]) ListForOrganization(ctx context.Context) ([]*E, error) {
	rows, err := dbutil.FilterByOrganization[E](ctx, r.store, r.meta, dbutil.ScopeFromContext(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]*E, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

// listQuery applies the list filter, without ordering and pagination.
func (r *BaseCatalogRepo[E]) listQuery(ctx context.Context, filter domain.ListFilter) (squirrel.SelectBuilder, error) {
	q, err := r.baseSelect(ctx)
	if err != nil {
		return q, err
	}

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"mnemonic": pattern},
		})
	}

	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	return postgres.ApplyFilters(q, filter.AdvancedFilters, r.selectCols)
}

// List retrieves entities with filtering and pagination.
func (r *BaseCatalogRepo[E]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*E], error) {
	result := domain.ListResult[*E]{
		Items:  make([]*E, 0),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q, err := r.listQuery(ctx, filter)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count %s: %w", r.meta.Table, err)
	}

	orderBy, err := postgres.ParseOrderBy(filter.OrderBy, r.selectCols, "name ASC")
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", r.meta.Table, err)
	}
	return result, nil
}

// Exists checks if entity exists in the caller's organization.
func (r *BaseCatalogRepo[E]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return r.store.Exists(ctx, r.meta, entityID, dbutil.ScopeFromContext(ctx))
}

// SetDeletionMark sets or clears the deletion mark (soft delete).
func (r *BaseCatalogRepo[E]) SetDeletionMark(ctx context.Context, entityID id.ID, marked bool) error {
	q := r.Builder().
		Update(r.meta.Table).
		Set("deletion_mark", marked).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID})

	if r.meta.OrgScoped {
		scope := dbutil.ScopeFromContext(ctx)
		if !scope.HasOrganization() {
			return apperror.NewForbidden("organization is required")
		}
		q = q.Where(squirrel.Eq{"organization_id": scope.OrganizationID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set deletion mark: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set deletion mark on %s: %w", r.meta.Table, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.meta.Entity, entityID.String())
	}
	return nil
}

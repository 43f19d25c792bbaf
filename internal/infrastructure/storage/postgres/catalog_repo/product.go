package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"psi/internal/core/id"
	"psi/internal/domain/catalogs/product"
	"psi/internal/infrastructure/storage/postgres/dbutil"
)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[product.Product]
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(store *dbutil.Store) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[product.Product](store, product.Meta),
	}
}

// ListBySupplier retrieves the non-deleted products of a supplier.
func (r *ProductRepo) ListBySupplier(ctx context.Context, supplierID id.ID) ([]*product.Product, error) {
	q, err := r.baseSelect(ctx)
	if err != nil {
		return nil, err
	}

	sql, args, err := q.
		Where(squirrel.Eq{"supplier_id": supplierID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]*product.Product, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list products by supplier: %w", err)
	}
	return items, nil
}

package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"psi/internal/core/id"
	"psi/internal/domain/purchasing"
	"psi/internal/infrastructure/storage/postgres"
	"psi/internal/infrastructure/storage/postgres/dbutil"
)

// PurchaseOrderRepo implements purchasing.Repository.
type PurchaseOrderRepo struct {
	*BaseDocumentRepo
	lineCols []string
}

var _ purchasing.Repository = (*PurchaseOrderRepo)(nil)

// NewPurchaseOrderRepo creates a new purchase order repository.
func NewPurchaseOrderRepo(store *dbutil.Store) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(store, purchasing.Meta.Table, postgres.ExtractDBColumns[purchasing.PurchaseOrder]()),
		lineCols:         qualify(purchasing.LineMeta.Table, postgres.ExtractDBColumns[purchasing.PurchaseOrderLine]()),
	}
}

// GetByID returns the order header of the caller's organization.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, orderID id.ID) (*purchasing.PurchaseOrder, error) {
	org, err := organization(ctx)
	if err != nil {
		return nil, err
	}
	q := r.Builder().
		Select(r.selectCols...).
		From(r.table).
		Where(org).
		Where(squirrel.Eq{"purchase_order.id": orderID})

	var po purchasing.PurchaseOrder
	if err := r.getOne(ctx, &po, q, purchasing.Meta.Entity, orderID.String()); err != nil {
		return nil, err
	}
	return &po, nil
}

// GetLines returns the order lines in insertion order.
func (r *PurchaseOrderRepo) GetLines(ctx context.Context, orderID id.ID) ([]purchasing.PurchaseOrderLine, error) {
	q := r.Builder().
		Select(r.lineCols...).
		From(purchasing.LineMeta.Table).
		Where(squirrel.Eq{"purchase_order_line.purchase_order_id": orderID}).
		OrderBy("purchase_order_line.id")

	lines := make([]purchasing.PurchaseOrderLine, 0)
	if err := r.selectAll(ctx, &lines, q); err != nil {
		return nil, err
	}
	return lines, nil
}

// ListForOrganization returns every order header of the caller's organization.
func (r *PurchaseOrderRepo) ListForOrganization(ctx context.Context) ([]purchasing.PurchaseOrder, error) {
	return dbutil.FilterByOrganization[purchasing.PurchaseOrder](ctx, r.store, purchasing.Meta, dbutil.ScopeFromContext(ctx))
}

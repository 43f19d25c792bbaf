package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"psi/internal/core/id"
	"psi/internal/domain"
	"psi/internal/domain/receiving"
	"psi/internal/infrastructure/storage/postgres"
	"psi/internal/infrastructure/storage/postgres/dbutil"
)

// receivingFilterCols may be used in advanced filters.
var receivingFilterCols = []string{"date", "remark", "status_id", "purchase_order_id"}

// receivingSortCols may be used in orderBy.
var receivingSortCols = []string{"date", "remark", "total_amount"}

// receivingRow is a header plus its total computed in SQL.
type receivingRow struct {
	receiving.Receiving
	TotalAmount decimal.Decimal `db:"total_amount"`
}

// receivingLineRow is a line plus its product resolved in SQL.
type receivingLineRow struct {
	receiving.ReceivingLine
	ProductID *id.ID `db:"product_id"`
}

// ReceivingRepo implements receiving.Repository.
type ReceivingRepo struct {
	*BaseDocumentRepo
	lineCols []string
}

var _ receiving.Repository = (*ReceivingRepo)(nil)

// NewReceivingRepo creates a new receiving repository.
func NewReceivingRepo(store *dbutil.Store) *ReceivingRepo {
	return &ReceivingRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(store, receiving.Meta.Table, postgres.ExtractDBColumns[receiving.Receiving]()),
		lineCols:         qualify(receiving.LineMeta.Table, postgres.ExtractDBColumns[receiving.ReceivingLine]()),
	}
}

// baseSelect selects headers with their SQL total, joined to the order for
// organization scoping.
func (r *ReceivingRepo) baseSelect(ctx context.Context) (squirrel.SelectBuilder, error) {
	org, err := organization(ctx)
	if err != nil {
		return squirrel.SelectBuilder{}, err
	}
	cols := append(append([]string(nil), r.selectCols...), receiving.TotalAmountSQL+" AS total_amount")
	return r.Builder().
		Select(cols...).
		From(r.table).
		Join("purchase_order ON purchase_order.id = receiving.purchase_order_id").
		Where(org), nil
}

func toReceivings(rows []receivingRow) []*receiving.Receiving {
	out := make([]*receiving.Receiving, len(rows))
	for i := range rows {
		rec := rows[i].Receiving
		rec.LoadTotalAmount(rows[i].TotalAmount)
		out[i] = &rec
	}
	return out
}

// GetByID returns the header with its SQL total.
func (r *ReceivingRepo) GetByID(ctx context.Context, receivingID id.ID) (*receiving.Receiving, error) {
	q, err := r.baseSelect(ctx)
	if err != nil {
		return nil, err
	}

	var row receivingRow
	if err := r.getOne(ctx, &row, q.Where(squirrel.Eq{"receiving.id": receivingID}), receiving.Meta.Entity, receivingID.String()); err != nil {
		return nil, err
	}
	return toReceivings([]receivingRow{row})[0], nil
}

// GetLines returns the lines of a receiving with their products.
func (r *ReceivingRepo) GetLines(ctx context.Context, receivingID id.ID) ([]receiving.ReceivingLine, error) {
	cols := append(append([]string(nil), r.lineCols...), receiving.ProductSQL+" AS product_id")
	q := r.Builder().
		Select(cols...).
		From(receiving.LineMeta.Table).
		Where(squirrel.Eq{"receiving_line.receiving_id": receivingID}).
		OrderBy("receiving_line.id")

	var rows []receivingLineRow
	if err := r.selectAll(ctx, &rows, q); err != nil {
		return nil, err
	}

	lines := make([]receiving.ReceivingLine, len(rows))
	for i := range rows {
		lines[i] = rows[i].ReceivingLine
		if rows[i].ProductID != nil {
			lines[i].LoadProduct(*rows[i].ProductID)
		}
	}
	return lines, nil
}

// FilterByPurchaseOrder returns every receiving of an order, newest first.
func (r *ReceivingRepo) FilterByPurchaseOrder(ctx context.Context, orderID id.ID) ([]*receiving.Receiving, error) {
	q, err := r.baseSelect(ctx)
	if err != nil {
		return nil, err
	}
	q = q.Where(squirrel.Eq{"receiving.purchase_order_id": orderID}).OrderBy("receiving.date DESC")

	var rows []receivingRow
	if err := r.selectAll(ctx, &rows, q); err != nil {
		return nil, err
	}
	return toReceivings(rows), nil
}

// listQuery applies the filter, without ordering and pagination.
func (r *ReceivingRepo) listQuery(ctx context.Context, filter receiving.ListFilter) (squirrel.SelectBuilder, error) {
	q, err := r.baseSelect(ctx)
	if err != nil {
		return q, err
	}

	if filter.PurchaseOrderID != nil {
		q = q.Where(squirrel.Eq{"receiving.purchase_order_id": *filter.PurchaseOrderID})
	}
	if filter.StatusID != nil {
		q = q.Where(squirrel.Eq{"receiving.status_id": *filter.StatusID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"receiving.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"receiving.date": *filter.DateTo})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"receiving.id": filter.IDs})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"receiving.remark": pattern},
			squirrel.ILike{"purchase_order.code": pattern},
		})
	}

	return r.applyFilters(q, filter.AdvancedFilters, receivingFilterCols)
}

// List returns a page of headers with SQL totals.
func (r *ReceivingRepo) List(ctx context.Context, filter receiving.ListFilter) (domain.ListResult[*receiving.Receiving], error) {
	result := domain.ListResult[*receiving.Receiving]{
		Items:  make([]*receiving.Receiving, 0),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q, err := r.listQuery(ctx, filter)
	if err != nil {
		return result, err
	}
	q, result.TotalCount, err = r.page(ctx, q, filter.ListFilter, receivingSortCols, "date DESC")
	if err != nil {
		return result, err
	}

	var rows []receivingRow
	if err := r.selectAll(ctx, &rows, q); err != nil {
		return result, err
	}
	result.Items = toReceivings(rows)
	return result, nil
}

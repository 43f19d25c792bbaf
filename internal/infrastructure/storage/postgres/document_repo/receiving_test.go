package document_repo

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psi/internal/core/apperror"
	appctx "psi/internal/core/context"
	"psi/internal/core/id"
	"psi/internal/domain"
	"psi/internal/domain/filter"
	"psi/internal/domain/receiving"
	"psi/internal/infrastructure/storage/postgres/dbutil"
	"psi/internal/infrastructure/storage/postgres/pgtest"
)

const receivingSelect = "SELECT receiving.id, receiving.date, receiving.remark, receiving.status_id, receiving.purchase_order_id, " +
	receiving.TotalAmountSQL + " AS total_amount FROM receiving " +
	"JOIN purchase_order ON purchase_order.id = receiving.purchase_order_id " +
	"WHERE purchase_order.organization_id = $1"

func orgContext(orgID id.ID) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:         id.New().String(),
		OrganizationID: orgID,
	})
}

func TestReceivingRepo_GetByID(t *testing.T) {
	orgID, recID, orderID := id.New(), id.New(), id.New()
	db := &pgtest.DB{QueryFunc: func(string, ...any) (pgx.Rows, error) {
		return pgtest.NewRows("id", "purchase_order_id", "total_amount").
			Add(recID, orderID, decimal.RequireFromString("24.654")), nil
	}}
	repo := NewReceivingRepo(dbutil.New(db))

	rec, err := repo.GetByID(orgContext(orgID), recID)
	require.NoError(t, err)

	assert.Equal(t, recID, rec.ID)
	assert.Equal(t, orderID, rec.PurchaseOrderID)
	assert.Equal(t, "24.65", rec.TotalAmount().StringFixed(2))
	require.Len(t, db.Calls, 1)
	assert.Equal(t, receivingSelect+" AND receiving.id = $2", db.Calls[0].SQL)
	assert.Equal(t, []any{orgID.String(), recID.String()}, db.Calls[0].Args)
}

func TestReceivingRepo_GetByID_NotFound(t *testing.T) {
	db := &pgtest.DB{QueryFunc: func(string, ...any) (pgx.Rows, error) {
		return pgtest.NewRows("id"), nil
	}}

	_, err := NewReceivingRepo(dbutil.New(db)).GetByID(orgContext(id.New()), id.New())

	assert.True(t, apperror.IsNotFound(err))
}

func TestReceivingRepo_RequiresOrganization(t *testing.T) {
	db := &pgtest.DB{}
	repo := NewReceivingRepo(dbutil.New(db))

	_, err := repo.FilterByPurchaseOrder(context.Background(), id.New())

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
	assert.Empty(t, db.Calls)
}

func TestReceivingRepo_GetLines_ResolvesProduct(t *testing.T) {
	recID, lineID, productID := id.New(), id.New(), id.New()
	db := &pgtest.DB{QueryFunc: func(string, ...any) (pgx.Rows, error) {
		return pgtest.NewRows("id", "quantity", "price", "receiving_id", "product_id").
			Add(lineID, decimal.NewNullDecimal(decimal.NewFromInt(3)), decimal.RequireFromString("4.50"), recID, productID), nil
	}}

	lines, err := NewReceivingRepo(dbutil.New(db)).GetLines(orgContext(id.New()), recID)
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, lineID, lines[0].ID)
	assert.Equal(t, productID, lines[0].Product())
	assert.Equal(t, "13.50", lines[0].TotalAmount().StringFixed(2))
	assert.Equal(t, "SELECT receiving_line.id, receiving_line.quantity, receiving_line.price, receiving_line.receiving_id, "+
		"receiving_line.purchase_order_line_id, "+receiving.ProductSQL+" AS product_id FROM receiving_line "+
		"WHERE receiving_line.receiving_id = $1 ORDER BY receiving_line.id", db.Calls[0].SQL)
}

func TestReceivingRepo_FilterByPurchaseOrder(t *testing.T) {
	orgID, orderID := id.New(), id.New()
	db := &pgtest.DB{QueryFunc: func(string, ...any) (pgx.Rows, error) {
		return pgtest.NewRows("id", "purchase_order_id", "total_amount").
			Add(id.New(), orderID, decimal.NewFromInt(10)).
			Add(id.New(), orderID, decimal.Zero), nil
	}}

	recs, err := NewReceivingRepo(dbutil.New(db)).FilterByPurchaseOrder(orgContext(orgID), orderID)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, "10.00", recs[0].TotalAmount().StringFixed(2))
	assert.Equal(t, "0.00", recs[1].TotalAmount().StringFixed(2))
	assert.Equal(t, receivingSelect+" AND receiving.purchase_order_id = $2 ORDER BY receiving.date DESC", db.Calls[0].SQL)
}

func TestReceivingRepo_ListQuery(t *testing.T) {
	orgID, orderID := id.New(), id.New()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewReceivingRepo(dbutil.New(&pgtest.DB{}))

	q, err := repo.listQuery(orgContext(orgID), receiving.ListFilter{
		ListFilter: domain.ListFilter{
			Search:          "PO-7",
			AdvancedFilters: []filter.Item{{Field: "remark", Operator: filter.IsNotNull}},
		},
		PurchaseOrderID: &orderID,
		DateFrom:        &from,
	})
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, receivingSelect+" AND receiving.purchase_order_id = $2 AND receiving.date >= $3 "+
		"AND (receiving.remark ILIKE $4 OR purchase_order.code ILIKE $5) AND receiving.remark IS NOT NULL", sql)
	assert.Equal(t, []any{orgID.String(), orderID.String(), from, "%PO-7%", "%PO-7%"}, args)
}

func TestReceivingRepo_ListQuery_RejectsUnknownFilterColumn(t *testing.T) {
	repo := NewReceivingRepo(dbutil.New(&pgtest.DB{}))

	_, err := repo.listQuery(orgContext(id.New()), receiving.ListFilter{
		ListFilter: domain.ListFilter{
			AdvancedFilters: []filter.Item{{Field: "organization_id", Operator: filter.Equal, Value: "x"}},
		},
	})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReceivingRepo_List(t *testing.T) {
	db := &pgtest.DB{
		QueryRowFunc: func(string, ...any) pgx.Row {
			return &pgtest.Row{Values: []any{int64(7)}}
		},
		QueryFunc: func(string, ...any) (pgx.Rows, error) {
			return pgtest.NewRows("id", "total_amount").Add(id.New(), decimal.NewFromInt(5)), nil
		},
	}
	repo := NewReceivingRepo(dbutil.New(db))

	res, err := repo.List(orgContext(id.New()), receiving.ListFilter{
		ListFilter: domain.ListFilter{OrderBy: "-total_amount", Limit: 10, Offset: 20},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), res.TotalCount)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "5.00", res.Items[0].TotalAmount().StringFixed(2))
	require.Len(t, db.Calls, 2)
	assert.Contains(t, db.Calls[0].SQL, "SELECT COUNT(*) FROM ("+receivingSelect)
	assert.Contains(t, db.Calls[1].SQL, "ORDER BY total_amount DESC LIMIT 10 OFFSET 20")
}

func TestReceivingRepo_List_RejectsUnknownOrder(t *testing.T) {
	db := &pgtest.DB{QueryRowFunc: func(string, ...any) pgx.Row {
		return &pgtest.Row{Values: []any{int64(0)}}
	}}

	_, err := NewReceivingRepo(dbutil.New(db)).List(orgContext(id.New()), receiving.ListFilter{
		ListFilter: domain.ListFilter{OrderBy: "password"},
	})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

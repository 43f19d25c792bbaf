package report_repo

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psi/internal/core/apperror"
	"psi/internal/core/id"
	"psi/internal/domain/filter"
	"psi/internal/domain/reports"
	"psi/internal/infrastructure/storage/postgres/pgtest"
)

func salesQuery() reports.Query {
	return reports.Query{
		View:       "this_week_supplier_sales",
		Columns:    []string{"id", "name", "sales_amount"},
		Search:     "acm",
		Searchable: []string{"name", "mnemonic"},
		Filters:    []filter.Item{{Field: "sales_amount", Operator: filter.Greater, Value: 0}},
		Filterable: []string{"sales_amount"},
		OrderBy:    "sales_profit DESC",
		Limit:      20,
		Offset:     40,
	}
}

func TestReportRepo_QuerySupplierSales(t *testing.T) {
	rowID := id.New()
	db := &pgtest.DB{QueryFunc: func(string, ...any) (pgx.Rows, error) {
		return pgtest.NewRows("id", "name", "sales_amount").
			Add(rowID, "Acme", decimal.RequireFromString("120.50")), nil
	}}

	rows, err := NewReportRepo(db).QuerySupplierSales(context.Background(), salesQuery())
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, rowID, rows[0].ID)
	assert.Equal(t, "Acme", rows[0].Name)
	assert.True(t, rows[0].SalesAmount.Equal(decimal.RequireFromString("120.5")))

	require.Len(t, db.Calls, 1)
	assert.Equal(t, "SELECT id, name, sales_amount FROM this_week_supplier_sales "+
		"WHERE (name ILIKE $1 OR mnemonic ILIKE $2) AND sales_amount > $3 "+
		"ORDER BY sales_profit DESC LIMIT 20 OFFSET 40", db.Calls[0].SQL)
	assert.Equal(t, []any{"%acm%", "%acm%", 0}, db.Calls[0].Args)
}

func TestReportRepo_CountSupplierSales(t *testing.T) {
	db := &pgtest.DB{QueryRowFunc: func(string, ...any) pgx.Row {
		return &pgtest.Row{Values: []any{int64(3)}}
	}}

	n, err := NewReportRepo(db).CountSupplierSales(context.Background(), salesQuery())
	require.NoError(t, err)

	assert.Equal(t, int64(3), n)
	assert.Equal(t, "SELECT COUNT(*) FROM this_week_supplier_sales "+
		"WHERE (name ILIKE $1 OR mnemonic ILIKE $2) AND sales_amount > $3", db.Calls[0].SQL)
}

func TestReportRepo_RejectsUnknownFilterColumn(t *testing.T) {
	q := salesQuery()
	q.Filters = append(q.Filters, filter.Item{Field: "cost", Operator: filter.Equal, Value: 1})
	db := &pgtest.DB{}

	_, err := NewReportRepo(db).QuerySupplierSales(context.Background(), q)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, db.Calls)
}

package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"psi/internal/domain/reports"
)

func TestXLSX_WriteSupplierSales(t *testing.T) {
	rows := []reports.SupplierSalesRow{
		{Name: "Acme", SalesAmount: decimal.RequireFromString("120.5"), SalesProfit: decimal.NewFromInt(20)},
		{Name: "Globex", SalesAmount: decimal.NewFromInt(30), SalesProfit: decimal.NewFromInt(5)},
	}

	var buf bytes.Buffer
	require.NoError(t, XLSX{}.WriteSupplierSales(&buf, reports.SupplierSalesView, reports.ThisWeek, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"This Week"}, f.GetSheetList())

	get := func(cell string) string {
		v, err := f.GetCellValue("This Week", cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Name", get("A1"))
	assert.Equal(t, "Sales Amount", get("B1"))
	assert.Equal(t, "Sales Profit", get("C1"))
	assert.Equal(t, "Acme", get("A2"))
	assert.Equal(t, "120.5", get("B2"))
	assert.Equal(t, "Globex", get("A3"))
	assert.Equal(t, "Total", get("A4"))
	assert.Equal(t, "150.5", get("B4"))
	assert.Equal(t, "25", get("C4"))
}

func TestXLSX_ContentType(t *testing.T) {
	assert.Equal(t, XLSXContentType, XLSX{}.ContentType())
}

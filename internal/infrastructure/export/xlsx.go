// Package export renders reports as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"psi/internal/domain/reports"
)

// XLSXContentType is the MIME type of rendered workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// XLSX implements reports.Exporter with excelize.
type XLSX struct{}

var _ reports.Exporter = XLSX{}

// ContentType implements reports.Exporter.
func (XLSX) ContentType() string { return XLSXContentType }

// WriteSupplierSales writes one sheet named after the window: a bold header
// row of column labels, one row per supplier, then a totals row.
func (XLSX) WriteSupplierSales(w io.Writer, view reports.ViewConfig, window reports.Window, rows []reports.SupplierSalesRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := window.Label()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, col := range view.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, view.Label(col)); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, bold); err != nil {
			return err
		}
	}

	totals := make(map[string]decimal.Decimal)
	for r, row := range rows {
		for i, col := range view.Columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			v := row.Value(col)
			if d, ok := v.(decimal.Decimal); ok {
				totals[col] = totals[col].Add(d)
				v = d.InexactFloat64()
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	totalRow := len(rows) + 2
	for i, col := range view.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, totalRow)
		var v any
		if i == 0 {
			v = "Total"
		} else if d, ok := totals[col]; ok {
			v = d.InexactFloat64()
		} else {
			continue
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, bold); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

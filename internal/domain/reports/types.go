// Package reports provides the supplier sales report over rolling windows.
package reports

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"psi/internal/core/apperror"
	"psi/internal/core/id"
	"psi/internal/domain/filter"
)

// Window selects one of the supplier sales views.
type Window string

const (
	Overall     Window = "overall"
	Today       Window = "today"
	Yesterday   Window = "yesterday"
	ThisWeek    Window = "this_week"
	LastWeek    Window = "last_week"
	ThisMonth   Window = "this_month"
	LastMonth   Window = "last_month"
	ThisQuarter Window = "this_quarter"
	LastQuarter Window = "last_quarter"
	ThisYear    Window = "this_year"
	LastYear    Window = "last_year"
)

// Windows lists every window in display order.
var Windows = []Window{
	Overall,
	Today, Yesterday,
	ThisWeek, LastWeek,
	ThisMonth, LastMonth,
	ThisQuarter, LastQuarter,
	ThisYear, LastYear,
}

// DefaultWindow is shown when no window is requested.
const DefaultWindow = Yesterday

// ParseWindow resolves a window key; empty selects DefaultWindow.
func ParseWindow(s string) (Window, error) {
	if s == "" {
		return DefaultWindow, nil
	}
	w := Window(s)
	if !slices.Contains(Windows, w) {
		return "", apperror.NewValidation("unknown report window").WithDetail("window", s)
	}
	return w, nil
}

// View returns the database view holding the window's rows.
func (w Window) View() string {
	return string(w) + "_supplier_sales"
}

// Label returns the display title: "this_week" becomes "This Week".
func (w Window) Label() string {
	return cases.Title(language.Und).String(strings.ReplaceAll(string(w), "_", " "))
}

// SupplierSalesRow is one supplier's aggregate within a window.
type SupplierSalesRow struct {
	ID          id.ID           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Mnemonic    *string         `db:"mnemonic" json:"mnemonic,omitempty"`
	SalesAmount decimal.Decimal `db:"sales_amount" json:"salesAmount"`
	SalesProfit decimal.Decimal `db:"sales_profit" json:"salesProfit"`
	DailyAmount decimal.Decimal `db:"daily_amount" json:"dailyAmount"`
	DailyProfit decimal.Decimal `db:"daily_profit" json:"dailyProfit"`
}

// Value returns the row's value for a report column.
func (r SupplierSalesRow) Value(column string) any {
	switch column {
	case "name":
		return r.Name
	case "mnemonic":
		if r.Mnemonic == nil {
			return ""
		}
		return *r.Mnemonic
	case "sales_amount":
		return r.SalesAmount
	case "sales_profit":
		return r.SalesProfit
	case "daily_amount":
		return r.DailyAmount
	case "daily_profit":
		return r.DailyProfit
	}
	return nil
}

// SubReport is one selectable window of a report view.
type SubReport struct {
	Key   Window `json:"key"`
	Label string `json:"label"`
}

// ViewConfig describes how a report is listed, searched, filtered and sorted.
type ViewConfig struct {
	RoleIdentify  string            `json:"roleIdentify"`
	Columns       []string          `json:"columns"`
	Searchable    []string          `json:"searchable"`
	Filterable    []string          `json:"filterable"`
	Sortable      []string          `json:"sortable"`
	DefaultSort   string            `json:"defaultSort"`
	DefaultDesc   bool              `json:"defaultDesc"`
	Labels        map[string]string `json:"labels"`
	DefaultWindow Window            `json:"defaultWindow"`
	SubReports    []SubReport       `json:"subReports"`
}

// SalesReportRole grants access to the supplier sales report.
const SalesReportRole = "sales_report"

// SupplierSalesView is the supplier sales report configuration.
var SupplierSalesView = ViewConfig{
	RoleIdentify: SalesReportRole,
	Columns:      []string{"name", "sales_amount", "sales_profit", "daily_profit", "daily_amount"},
	Searchable:   []string{"name", "mnemonic"},
	Filterable:   []string{"sales_profit", "sales_amount", "daily_profit", "daily_amount"},
	Sortable:     []string{"sales_profit", "sales_amount", "daily_profit", "daily_amount"},
	DefaultSort:  "sales_profit",
	DefaultDesc:  true,
	Labels: map[string]string{
		"name":         "Name",
		"sales_amount": "Sales Amount",
		"sales_profit": "Sales Profit",
		"daily_profit": "Daily Profit",
		"daily_amount": "Daily Amount",
	},
	DefaultWindow: DefaultWindow,
	SubReports:    subReports(),
}

func subReports() []SubReport {
	out := make([]SubReport, len(Windows))
	for i, w := range Windows {
		out[i] = SubReport{Key: w, Label: w.Label()}
	}
	return out
}

// Label returns the column label, or the column itself when unlabelled.
func (v ViewConfig) Label(column string) string {
	if l, ok := v.Labels[column]; ok {
		return l
	}
	return column
}

// OrderBy turns "col" / "-col" into an ORDER BY clause over a sortable
// column. Empty input yields the default sort.
func (v ViewConfig) OrderBy(orderBy string) (string, error) {
	orderBy = strings.TrimSpace(orderBy)
	if orderBy == "" {
		if v.DefaultDesc {
			return v.DefaultSort + " DESC", nil
		}
		return v.DefaultSort + " ASC", nil
	}

	direction := "ASC"
	field := orderBy
	switch orderBy[0] {
	case '-':
		direction, field = "DESC", orderBy[1:]
	case '+':
		field = orderBy[1:]
	}
	if !slices.Contains(v.Sortable, field) {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("field", field)
	}
	return field + " " + direction, nil
}

// Filter is a request for one page of a report window.
type Filter struct {
	Window          Window
	Search          string
	AdvancedFilters []filter.Item
	OrderBy         string
	Limit           int
	Offset          int
}

// Query is a validated Filter as handed to the repository.
type Query struct {
	View       string
	Columns    []string
	Search     string
	Searchable []string
	Filters    []filter.Item
	Filterable []string
	OrderBy    string
	Limit      int
	Offset     int
}

// Page is one page of report rows.
type Page struct {
	Window     Window             `json:"window"`
	Label      string             `json:"label"`
	Items      []SupplierSalesRow `json:"items"`
	TotalCount int64              `json:"totalCount"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

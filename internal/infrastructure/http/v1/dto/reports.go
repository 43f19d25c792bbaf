package dto

import (
	"slices"

	"psi/internal/domain/reports"
)

// SupplierSalesQuery holds the query parameters of a report window.
type SupplierSalesQuery struct {
	Search  string `form:"search"`
	OrderBy string `form:"orderBy"`
	Limit   int    `form:"limit" binding:"omitempty,min=0"`
	Offset  int    `form:"offset" binding:"omitempty,min=0"`
	Filter  string `form:"filter"`
}

// ToFilter builds the domain filter for window.
func (q *SupplierSalesQuery) ToFilter(window reports.Window) (reports.Filter, error) {
	items, err := ParseFilter(q.Filter)
	if err != nil {
		return reports.Filter{}, err
	}
	return reports.Filter{
		Window:          window,
		Search:          q.Search,
		AdvancedFilters: items,
		OrderBy:         q.OrderBy,
		Limit:           q.Limit,
		Offset:          q.Offset,
	}, nil
}

// ReportColumn is a labelled column of a report view.
type ReportColumn struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Searchable bool   `json:"searchable"`
	Filterable bool   `json:"filterable"`
	Sortable   bool   `json:"sortable"`
}

// ReportViewResponse describes a report for the client.
type ReportViewResponse struct {
	RoleIdentify  string              `json:"roleIdentify"`
	Columns       []ReportColumn      `json:"columns"`
	DefaultSort   string              `json:"defaultSort"`
	DefaultDesc   bool                `json:"defaultDesc"`
	DefaultWindow string              `json:"defaultWindow"`
	SubReports    []reports.SubReport `json:"subReports"`
}

// FromViewConfig creates a response from a view configuration.
func FromViewConfig(v reports.ViewConfig) ReportViewResponse {
	resp := ReportViewResponse{
		RoleIdentify:  v.RoleIdentify,
		Columns:       make([]ReportColumn, len(v.Columns)),
		DefaultSort:   v.DefaultSort,
		DefaultDesc:   v.DefaultDesc,
		DefaultWindow: string(v.DefaultWindow),
		SubReports:    v.SubReports,
	}
	for i, col := range v.Columns {
		resp.Columns[i] = ReportColumn{
			Key:        col,
			Label:      v.Label(col),
			Searchable: slices.Contains(v.Searchable, col),
			Filterable: slices.Contains(v.Filterable, col),
			Sortable:   slices.Contains(v.Sortable, col),
		}
	}
	return resp
}

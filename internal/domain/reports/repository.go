package reports

import (
	"context"
	"io"
)

// Repository reads report views.
type Repository interface {
	// QuerySupplierSales returns the rows matching q.
	QuerySupplierSales(ctx context.Context, q Query) ([]SupplierSalesRow, error)

	// CountSupplierSales counts the rows matching q, ignoring paging.
	CountSupplierSales(ctx context.Context, q Query) (int64, error)
}

// Cache stores rendered report pages. Implementations may evict at will.
type Cache interface {
	// GetPage returns the cached page, or nil on a miss.
	GetPage(ctx context.Context, key string) (*Page, error)

	// SetPage stores page under key.
	SetPage(ctx context.Context, key string, page *Page) error
}

// Exporter renders report rows as a downloadable document.
type Exporter interface {
	// ContentType is the MIME type of the rendered document.
	ContentType() string

	// WriteSupplierSales renders rows of window to w.
	WriteSupplierSales(w io.Writer, view ViewConfig, window Window, rows []SupplierSalesRow) error
}

package product

import (
	"context"

	"psi/internal/core/id"
	"psi/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// ListBySupplier returns the non-deleted products of a supplier.
	ListBySupplier(ctx context.Context, supplierID id.ID) ([]*Product, error)
}

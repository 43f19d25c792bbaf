package catalog_repo

import (
	"psi/internal/domain/catalogs/supplier"
	"psi/internal/infrastructure/storage/postgres/dbutil"
)

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[supplier.Supplier]
}

var _ supplier.Repository = (*SupplierRepo)(nil)

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(store *dbutil.Store) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[supplier.Supplier](store, supplier.Meta),
	}
}

package handlers

import (
	"psi/internal/domain/catalogs/supplier"
	"psi/internal/infrastructure/http/v1/dto"
)

// SupplierHTTPHandler is the catalog handler of suppliers.
type SupplierHTTPHandler = CatalogHandler[*supplier.Supplier, dto.SupplierRequest, dto.SupplierRequest]

// NewSupplierHandler wires the supplier DTO mapping into a catalog handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*supplier.Supplier, dto.SupplierRequest, dto.SupplierRequest]{
		Service:    service.CatalogService,
		EntityName: "supplier",
		MapCreateDTO: func(req dto.SupplierRequest) *supplier.Supplier {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.SupplierRequest, existing *supplier.Supplier) *supplier.Supplier {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *supplier.Supplier) any {
			return dto.FromSupplier(entity)
		},
	})
}

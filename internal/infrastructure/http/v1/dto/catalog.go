package dto

import (
	"github.com/shopspring/decimal"

	"psi/internal/core/id"
	"psi/internal/domain/catalogs/product"
	"psi/internal/domain/catalogs/supplier"
)

// --- Supplier ---

// SupplierRequest creates or updates a supplier.
type SupplierRequest struct {
	CatalogRequest
	ContactPerson *string `json:"contactPerson"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Remark        *string `json:"remark"`

	// Version is required on update for optimistic locking.
	Version int `json:"version"`
}

// ToEntity converts a create request to a new supplier.
func (r SupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.NewSupplier("", r.Name)
	r.ApplyTo(s)
	return s
}

// ApplyTo copies the request onto an existing supplier.
func (r SupplierRequest) ApplyTo(s *supplier.Supplier) {
	r.CatalogRequest.ApplyTo(&s.Catalog)
	s.ContactPerson = r.ContactPerson
	s.Phone = r.Phone
	s.Email = r.Email
	s.Remark = r.Remark
	if r.Version > 0 {
		s.Version = r.Version
	}
}

// SupplierResponse represents a supplier.
type SupplierResponse struct {
	CatalogResponse
	ContactPerson *string `json:"contactPerson,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Remark        *string `json:"remark,omitempty"`
}

// FromSupplier creates a response from a supplier.
func FromSupplier(s *supplier.Supplier) SupplierResponse {
	return SupplierResponse{
		CatalogResponse: FromCatalog(s.Catalog),
		ContactPerson:   s.ContactPerson,
		Phone:           s.Phone,
		Email:           s.Email,
		Remark:          s.Remark,
	}
}

// --- Product ---

// ProductRequest creates or updates a product.
type ProductRequest struct {
	CatalogRequest
	SupplierID    *string         `json:"supplierId" binding:"omitempty,uuid"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	RetailPrice   decimal.Decimal `json:"retailPrice"`

	Version int `json:"version"`
}

// ToEntity converts a create request to a new product.
func (r ProductRequest) ToEntity() *product.Product {
	p := product.NewProduct("", r.Name)
	r.ApplyTo(p)
	return p
}

// ApplyTo copies the request onto an existing product. The supplier id has
// already been validated by the binding.
func (r ProductRequest) ApplyTo(p *product.Product) {
	r.CatalogRequest.ApplyTo(&p.Catalog)
	p.SupplierID, _ = id.ParseOptional(r.SupplierID)
	p.PurchasePrice = r.PurchasePrice
	p.RetailPrice = r.RetailPrice
	if r.Version > 0 {
		p.Version = r.Version
	}
}

// ProductResponse represents a product.
type ProductResponse struct {
	CatalogResponse
	SupplierID    *string         `json:"supplierId,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	RetailPrice   decimal.Decimal `json:"retailPrice"`
	Margin        decimal.Decimal `json:"margin"`
}

// FromProduct creates a response from a product.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		CatalogResponse: FromCatalog(p.Catalog),
		SupplierID:      optionalString(p.SupplierID),
		PurchasePrice:   p.PurchasePrice,
		RetailPrice:     p.RetailPrice,
		Margin:          p.Margin(),
	}
}

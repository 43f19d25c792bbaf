// Package product provides the Product catalog.
package product

import (
	"context"

	"github.com/shopspring/decimal"

	"psi/internal/core/apperror"
	"psi/internal/core/entity"
	"psi/internal/core/id"
)

// Meta maps Product onto product.
var Meta = entity.Meta{Table: "product", Entity: "product", OrgScoped: true}

// Product is an item that can be ordered from a supplier.
type Product struct {
	entity.Catalog

	// SupplierID is the default supplier (nullable)
	SupplierID *id.ID `db:"supplier_id" json:"supplierId,omitempty"`

	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchasePrice"`
	RetailPrice   decimal.Decimal `db:"retail_price" json:"retailPrice"`
}

// Meta implements entity.Persistable.
func (Product) Meta() entity.Meta { return Meta }

// NewProduct creates a new Product. An empty code is generated on create.
func NewProduct(code, name string) *Product {
	return &Product{Catalog: entity.NewCatalog(code, name)}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.PurchasePrice.IsNegative() {
		return apperror.NewValidation("purchase price must not be negative").
			WithDetail("field", "purchasePrice")
	}
	if p.RetailPrice.IsNegative() {
		return apperror.NewValidation("retail price must not be negative").
			WithDetail("field", "retailPrice")
	}

	return nil
}

// Margin is the retail price minus the purchase price.
func (p *Product) Margin() decimal.Decimal {
	return p.RetailPrice.Sub(p.PurchasePrice)
}

// Package purchasing provides the PurchaseOrder document.
package purchasing

import (
	"context"

	"github.com/shopspring/decimal"

	"psi/internal/core/apperror"
	"psi/internal/core/entity"
	"psi/internal/core/id"
	"psi/internal/core/types"
)

// LineMeta maps PurchaseOrderLine onto purchase_order_line.
var LineMeta = entity.Meta{Table: "purchase_order_line", Entity: "purchase order line"}

// Meta maps PurchaseOrder onto purchase_order. Deleting an order removes its
// receivings (and their lines) before its own lines, since receiving lines
// reference order lines.
var Meta = entity.Meta{
	Table:     "purchase_order",
	Entity:    "purchase order",
	OrgScoped: true,
	Children: []entity.ChildTable{
		{
			Table:      "receiving",
			ForeignKey: "purchase_order_id",
			Children: []entity.ChildTable{
				{Table: "receiving_line", ForeignKey: "receiving_id"},
			},
		},
		{Table: LineMeta.Table, ForeignKey: "purchase_order_id"},
	},
}

// PurchaseOrder is an order placed with a supplier.
type PurchaseOrder struct {
	entity.Document

	SupplierID id.ID  `db:"supplier_id" json:"supplierId"`
	StatusID   *id.ID `db:"status_id" json:"statusId,omitempty"`

	Lines []PurchaseOrderLine `db:"-" json:"lines"`
}

// PurchaseOrderLine is one ordered product.
type PurchaseOrderLine struct {
	entity.BaseEntity

	PurchaseOrderID id.ID           `db:"purchase_order_id" json:"purchaseOrderId"`
	ProductID       id.ID           `db:"product_id" json:"productId"`
	Quantity        decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price" json:"unitPrice"`
	Remark          *string         `db:"remark" json:"remark,omitempty"`
}

// Meta implements entity.Persistable.
func (PurchaseOrder) Meta() entity.Meta { return Meta }

// Meta implements entity.Persistable.
func (PurchaseOrderLine) Meta() entity.Meta { return LineMeta }

// NewPurchaseOrder creates an order for supplierID.
func NewPurchaseOrder(organizationID, supplierID id.ID) *PurchaseOrder {
	return &PurchaseOrder{
		Document:   entity.NewDocument(organizationID),
		SupplierID: supplierID,
		Lines:      make([]PurchaseOrderLine, 0),
	}
}

// AddLine appends a line for productID.
func (p *PurchaseOrder) AddLine(productID id.ID, quantity, unitPrice decimal.Decimal) *PurchaseOrderLine {
	p.Lines = append(p.Lines, PurchaseOrderLine{
		BaseEntity:      entity.NewBaseEntity(),
		PurchaseOrderID: p.ID,
		ProductID:       productID,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
	})
	return &p.Lines[len(p.Lines)-1]
}

// Line returns the line with the given ID, or nil.
func (p *PurchaseOrder) Line(lineID id.ID) *PurchaseOrderLine {
	for i := range p.Lines {
		if p.Lines[i].ID == lineID {
			return &p.Lines[i]
		}
	}
	return nil
}

// TotalAmount is the sum of quantity × unit price over the lines.
func (p *PurchaseOrder) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitPrice))
	}
	return types.FormatDecimal(total)
}

// Validate implements entity.Validatable.
func (p *PurchaseOrder) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	for i, line := range p.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price must not be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// bindLines points every line at the order and gives new lines an ID.
func (p *PurchaseOrder) bindLines() {
	for i := range p.Lines {
		p.Lines[i].EnsureID()
		p.Lines[i].PurchaseOrderID = p.ID
	}
}

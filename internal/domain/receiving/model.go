// Package receiving provides the Receiving document: goods received
// against a purchase order.
package receiving

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"psi/internal/core/apperror"
	"psi/internal/core/entity"
	"psi/internal/core/id"
	"psi/internal/core/types"
	"psi/internal/domain/enums"
	"psi/internal/domain/purchasing"
)

// numericPrecision is the total digit count of quantity and price columns.
const numericPrecision = 8

// LineMeta maps ReceivingLine onto receiving_line.
var LineMeta = entity.Meta{Table: "receiving_line", Entity: "receiving line"}

// Meta maps Receiving onto receiving. Its lines are deleted with it.
var Meta = entity.Meta{
	Table:  "receiving",
	Entity: "receiving",
	Children: []entity.ChildTable{
		{Table: LineMeta.Table, ForeignKey: "receiving_id"},
	},
}

// SQL forms of the computed values. They must stay equal to TotalAmount
// and ReceivingLine.TotalAmount: lines round to cents before summing.
const (
	// LineTotalAmountSQL is the line total over a receiving_line row.
	LineTotalAmountSQL = "ROUND(receiving_line.price * COALESCE(receiving_line.quantity, 0), 2)"

	// TotalAmountSQL sums the line totals of the current receiving row.
	TotalAmountSQL = "(SELECT COALESCE(SUM(" + LineTotalAmountSQL + "), 0) " +
		"FROM receiving_line WHERE receiving_line.receiving_id = receiving.id)"

	// ProductSQL resolves the product of a receiving_line row through its
	// purchase order line.
	ProductSQL = "(SELECT purchase_order_line.product_id FROM purchase_order_line " +
		"WHERE purchase_order_line.id = receiving_line.purchase_order_line_id)"
)

// Receiving records goods arriving for one purchase order.
type Receiving struct {
	entity.BaseEntity

	Date            time.Time `db:"date" json:"date"`
	Remark          *string   `db:"remark" json:"remark,omitempty"`
	StatusID        id.ID     `db:"status_id" json:"statusId"`
	PurchaseOrderID id.ID     `db:"purchase_order_id" json:"purchaseOrderId"`

	Lines []ReceivingLine `db:"-" json:"lines"`

	purchaseOrder *purchasing.PurchaseOrder
	storedTotal   decimal.NullDecimal
}

// ReceivingLine is one received quantity of a purchase order line.
type ReceivingLine struct {
	entity.BaseEntity

	// Quantity may be unset; it then counts as zero.
	Quantity            decimal.NullDecimal `db:"quantity" json:"quantity"`
	Price               decimal.Decimal     `db:"price" json:"price"`
	ReceivingID         id.ID               `db:"receiving_id" json:"receivingId"`
	PurchaseOrderLineID id.ID               `db:"purchase_order_line_id" json:"purchaseOrderLineId"`

	orderLine *purchasing.PurchaseOrderLine
	product   id.ID
}

// Meta implements entity.Persistable.
func (Receiving) Meta() entity.Meta { return Meta }

// Meta implements entity.Persistable.
func (ReceivingLine) Meta() entity.Meta { return LineMeta }

// NewReceiving creates a receiving for a purchase order, dated now.
func NewReceiving(purchaseOrderID, statusID id.ID) *Receiving {
	return &Receiving{
		BaseEntity:      entity.NewBaseEntity(),
		Date:            time.Now().UTC(),
		StatusID:        statusID,
		PurchaseOrderID: purchaseOrderID,
		Lines:           make([]ReceivingLine, 0),
	}
}

// AddLine appends a line for a purchase order line.
func (r *Receiving) AddLine(orderLineID id.ID, quantity decimal.NullDecimal, price decimal.Decimal) *ReceivingLine {
	r.Lines = append(r.Lines, ReceivingLine{
		BaseEntity:          entity.NewBaseEntity(),
		Quantity:            quantity,
		Price:               price,
		ReceivingID:         r.ID,
		PurchaseOrderLineID: orderLineID,
	})
	return &r.Lines[len(r.Lines)-1]
}

// TotalAmount is the sum of the line totals rounded to two places. A header
// loaded without lines (nil Lines) reports the total the database computed.
func (r *Receiving) TotalAmount() decimal.Decimal {
	if r.Lines == nil && r.storedTotal.Valid {
		return types.FormatDecimal(r.storedTotal.Decimal)
	}
	total := decimal.Zero
	for i := range r.Lines {
		total = total.Add(r.Lines[i].TotalAmount())
	}
	return types.FormatDecimal(total)
}

// SetTotalAmount ignores v; the total is always derived from the lines.
func (r *Receiving) SetTotalAmount(decimal.Decimal) {}

// LoadTotalAmount records the total computed by TotalAmountSQL.
func (r *Receiving) LoadTotalAmount(v decimal.Decimal) {
	r.storedTotal = decimal.NullDecimal{Decimal: v, Valid: true}
}

// ResetLines drops every line. The receiving then totals zero until lines
// are added again.
func (r *Receiving) ResetLines() {
	r.Lines = make([]ReceivingLine, 0)
	r.storedTotal = decimal.NullDecimal{}
}

// TransientPO returns the purchase order attached by the repository, or nil.
func (r *Receiving) TransientPO() *purchasing.PurchaseOrder {
	return r.purchaseOrder
}

// SetTransientPO ignores po; the order is fixed by PurchaseOrderID.
func (r *Receiving) SetTransientPO(*purchasing.PurchaseOrder) {}

// AttachPurchaseOrder links the loaded order and resolves the order line of
// each receiving line.
func (r *Receiving) AttachPurchaseOrder(po *purchasing.PurchaseOrder) {
	r.purchaseOrder = po
	for i := range r.Lines {
		r.Lines[i].orderLine = po.Line(r.Lines[i].PurchaseOrderLineID)
	}
}

// StatusFilter names the enum type receiving statuses are taken from.
func (r *Receiving) StatusFilter() string {
	return enums.TypeReceivingStatus
}

// bindLines points every line at the receiving and gives new lines an ID.
func (r *Receiving) bindLines() {
	if r.Lines == nil {
		r.Lines = make([]ReceivingLine, 0)
	}
	r.storedTotal = decimal.NullDecimal{}
	for i := range r.Lines {
		r.Lines[i].EnsureID()
		r.Lines[i].ReceivingID = r.ID
	}
}

// Validate implements entity.Validatable.
func (r *Receiving) Validate(ctx context.Context) error {
	if r.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if id.IsNil(r.StatusID) {
		return apperror.NewValidation("status is required").
			WithDetail("field", "statusId")
	}
	if id.IsNil(r.PurchaseOrderID) {
		return apperror.NewValidation("purchase order is required").
			WithDetail("field", "purchaseOrderId")
	}

	for i := range r.Lines {
		if err := r.Lines[i].validate(); err != nil {
			return err.WithDetail("lineNo", i+1)
		}
	}
	return nil
}

func (l *ReceivingLine) validate() *apperror.AppError {
	if id.IsNil(l.PurchaseOrderLineID) {
		return apperror.NewValidation("purchase order line is required").
			WithDetail("field", "purchaseOrderLineId")
	}
	if l.Price.IsNegative() || !types.FitsNumeric(l.Price, numericPrecision) {
		return apperror.NewValidation("price is out of range").
			WithDetail("field", "price")
	}
	if l.Quantity.Valid && (l.Quantity.Decimal.IsNegative() || !types.FitsNumeric(l.Quantity.Decimal, numericPrecision)) {
		return apperror.NewValidation("quantity is out of range").
			WithDetail("field", "quantity")
	}
	return nil
}

// TotalAmount is price × quantity rounded to two places; an unset quantity
// counts as zero.
func (l *ReceivingLine) TotalAmount() decimal.Decimal {
	return types.FormatDecimal(l.Price.Mul(types.OrZero(l.Quantity)))
}

// SetTotalAmount ignores v; the total is derived from price and quantity.
func (l *ReceivingLine) SetTotalAmount(decimal.Decimal) {}

// Product returns the product of the linked purchase order line, or the nil
// ID when neither the order line nor ProductSQL has been loaded.
func (l *ReceivingLine) Product() id.ID {
	if l.orderLine != nil {
		return l.orderLine.ProductID
	}
	return l.product
}

// LoadProduct records the product resolved by ProductSQL.
func (l *ReceivingLine) LoadProduct(productID id.ID) {
	l.product = productID
}

// SetProduct ignores productID; the product comes from the order line.
func (l *ReceivingLine) SetProduct(id.ID) {}

// OrderLine returns the linked purchase order line, or nil.
func (l *ReceivingLine) OrderLine() *purchasing.PurchaseOrderLine {
	return l.orderLine
}

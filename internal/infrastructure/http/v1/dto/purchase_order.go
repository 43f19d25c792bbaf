package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"psi/internal/core/id"
	"psi/internal/domain/purchasing"
)

// --- Request DTOs ---

// CreatePurchaseOrderRequest represents a request to create a purchase order.
type CreatePurchaseOrderRequest struct {
	Code       string                     `json:"code,omitempty" binding:"omitempty,numeric,len=6"`
	Date       *time.Time                 `json:"date"`
	SupplierID string                     `json:"supplierId" binding:"required,uuid"`
	StatusID   *string                    `json:"statusId" binding:"omitempty,uuid"`
	Remark     *string                    `json:"remark"`
	Lines      []PurchaseOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PurchaseOrderLineRequest represents a line in a create request.
type PurchaseOrderLineRequest struct {
	ProductID string          `json:"productId" binding:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Remark    *string         `json:"remark"`
}

// ToEntity converts request to domain entity. The organization is assigned
// by the service; ids have been validated by the binding.
func (r *CreatePurchaseOrderRequest) ToEntity() *purchasing.PurchaseOrder {
	supplierID, _ := id.Parse(r.SupplierID)

	po := purchasing.NewPurchaseOrder(id.Nil(), supplierID)
	po.Code = r.Code
	if r.Date != nil {
		po.Date = r.Date.UTC()
	}
	po.StatusID, _ = id.ParseOptional(r.StatusID)
	po.Remark = r.Remark

	for _, line := range r.Lines {
		productID, _ := id.Parse(line.ProductID)
		l := po.AddLine(productID, line.Quantity, line.UnitPrice)
		l.Remark = line.Remark
	}
	return po
}

// --- Response DTOs ---

// PurchaseOrderResponse represents a purchase order.
type PurchaseOrderResponse struct {
	ID             string                      `json:"id"`
	Code           string                      `json:"code"`
	Date           time.Time                   `json:"date"`
	OrganizationID string                      `json:"organizationId"`
	SupplierID     string                      `json:"supplierId"`
	StatusID       *string                     `json:"statusId,omitempty"`
	Remark         *string                     `json:"remark,omitempty"`
	TotalAmount    decimal.Decimal             `json:"totalAmount"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
	CreatedBy      string                      `json:"createdBy,omitempty"`
	Lines          []PurchaseOrderLineResponse `json:"lines,omitempty"`
}

// PurchaseOrderLineResponse represents an order line.
type PurchaseOrderLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Amount    decimal.Decimal `json:"amount"`
	Remark    *string         `json:"remark,omitempty"`
}

// FromPurchaseOrder creates a response from a purchase order.
func FromPurchaseOrder(po *purchasing.PurchaseOrder) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:             po.ID.String(),
		Code:           po.Code,
		Date:           po.Date,
		OrganizationID: po.OrganizationID.String(),
		SupplierID:     po.SupplierID.String(),
		StatusID:       optionalString(po.StatusID),
		Remark:         po.Remark,
		TotalAmount:    po.TotalAmount(),
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
		CreatedBy:      po.CreatedBy,
		Lines:          make([]PurchaseOrderLineResponse, len(po.Lines)),
	}
	for i, l := range po.Lines {
		resp.Lines[i] = PurchaseOrderLineResponse{
			ID:        l.ID.String(),
			ProductID: l.ProductID.String(),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Amount:    l.Quantity.Mul(l.UnitPrice).Round(2),
			Remark:    l.Remark,
		}
	}
	return resp
}

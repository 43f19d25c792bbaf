package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"psi/internal/core/id"
	"psi/internal/domain/receiving"
)

// --- Request DTOs ---

// ReceivingRequest creates or replaces a receiving.
type ReceivingRequest struct {
	Date            *time.Time             `json:"date"`
	Remark          *string                `json:"remark"`
	StatusID        string                 `json:"statusId" binding:"required,uuid"`
	PurchaseOrderID string                 `json:"purchaseOrderId" binding:"required,uuid"`
	Lines           []ReceivingLineRequest `json:"lines" binding:"dive"`
}

// ReceivingLineRequest represents one line. An omitted id adds a new line.
type ReceivingLineRequest struct {
	ID                  *string             `json:"id" binding:"omitempty,uuid"`
	PurchaseOrderLineID string              `json:"purchaseOrderLineId" binding:"required,uuid"`
	Quantity            decimal.NullDecimal `json:"quantity"`
	Price               decimal.Decimal     `json:"price"`
}

// ToEntity converts a create request to a new receiving.
func (r *ReceivingRequest) ToEntity() *receiving.Receiving {
	purchaseOrderID, _ := id.Parse(r.PurchaseOrderID)
	statusID, _ := id.Parse(r.StatusID)

	rec := receiving.NewReceiving(purchaseOrderID, statusID)
	r.applyHeader(rec)
	r.applyLines(rec)
	return rec
}

// ApplyTo replaces header fields and lines of an existing receiving.
func (r *ReceivingRequest) ApplyTo(rec *receiving.Receiving) {
	rec.PurchaseOrderID, _ = id.Parse(r.PurchaseOrderID)
	rec.StatusID, _ = id.Parse(r.StatusID)
	r.applyHeader(rec)
	rec.ResetLines()
	r.applyLines(rec)
}

func (r *ReceivingRequest) applyHeader(rec *receiving.Receiving) {
	if r.Date != nil {
		rec.Date = r.Date.UTC()
	}
	rec.Remark = r.Remark
}

func (r *ReceivingRequest) applyLines(rec *receiving.Receiving) {
	for _, line := range r.Lines {
		orderLineID, _ := id.Parse(line.PurchaseOrderLineID)
		l := rec.AddLine(orderLineID, line.Quantity, line.Price)
		if lineID, _ := id.ParseOptional(line.ID); lineID != nil {
			l.ID = *lineID
		}
	}
}

// --- Response DTOs ---

// ReceivingResponse represents a receiving. Lines are omitted in lists.
type ReceivingResponse struct {
	ID                string                  `json:"id"`
	Date              time.Time               `json:"date"`
	Remark            *string                 `json:"remark,omitempty"`
	StatusID          string                  `json:"statusId"`
	PurchaseOrderID   string                  `json:"purchaseOrderId"`
	PurchaseOrderCode string                  `json:"purchaseOrderCode,omitempty"`
	TotalAmount       decimal.Decimal         `json:"totalAmount"`
	Lines             []ReceivingLineResponse `json:"lines,omitempty"`
}

// ReceivingLineResponse represents one receiving line.
type ReceivingLineResponse struct {
	ID                  string              `json:"id"`
	PurchaseOrderLineID string              `json:"purchaseOrderLineId"`
	ProductID           *string             `json:"productId,omitempty"`
	Quantity            decimal.NullDecimal `json:"quantity"`
	Price               decimal.Decimal     `json:"price"`
	TotalAmount         decimal.Decimal     `json:"totalAmount"`
}

// FromReceiving creates a response from a receiving.
func FromReceiving(r *receiving.Receiving) ReceivingResponse {
	resp := ReceivingResponse{
		ID:              r.ID.String(),
		Date:            r.Date,
		Remark:          r.Remark,
		StatusID:        r.StatusID.String(),
		PurchaseOrderID: r.PurchaseOrderID.String(),
		TotalAmount:     r.TotalAmount(),
	}
	if po := r.TransientPO(); po != nil {
		resp.PurchaseOrderCode = po.Code
	}
	if len(r.Lines) > 0 {
		resp.Lines = make([]ReceivingLineResponse, len(r.Lines))
	}
	for i := range r.Lines {
		l := &r.Lines[i]
		var productID *string
		if p := l.Product(); !id.IsNil(p) {
			s := p.String()
			productID = &s
		}
		resp.Lines[i] = ReceivingLineResponse{
			ID:                  l.ID.String(),
			PurchaseOrderLineID: l.PurchaseOrderLineID.String(),
			ProductID:           productID,
			Quantity:            l.Quantity,
			Price:               l.Price,
			TotalAmount:         l.TotalAmount(),
		}
	}
	return resp
}

// ReceivingListQuery holds receiving list parameters.
type ReceivingListQuery struct {
	ListQuery
	PurchaseOrderID string     `form:"purchaseOrderId" binding:"omitempty,uuid"`
	StatusID        string     `form:"statusId" binding:"omitempty,uuid"`
	DateFrom        *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo          *time.Time `form:"dateTo" time_format:"2006-01-02"`
}

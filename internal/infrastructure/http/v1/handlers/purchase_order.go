package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"psi/internal/core/id"
	"psi/internal/domain/purchasing"
	"psi/internal/domain/receiving"
	"psi/internal/infrastructure/http/v1/dto"
)

// PurchaseOrderService is the part of purchasing.Service used by the handler.
type PurchaseOrderService interface {
	Create(ctx context.Context, po *purchasing.PurchaseOrder) error
	GetByID(ctx context.Context, orderID id.ID) (*purchasing.PurchaseOrder, error)
	ListForOrganization(ctx context.Context) ([]purchasing.PurchaseOrder, error)
	Delete(ctx context.Context, orderID id.ID) error
}

// OrderReceivings lists the receivings of a purchase order.
type OrderReceivings interface {
	ForPurchaseOrder(ctx context.Context, orderID id.ID) ([]*receiving.Receiving, error)
}

// PurchaseOrderHandler handles purchase order endpoints.
type PurchaseOrderHandler struct {
	*BaseHandler
	service    PurchaseOrderService
	receivings OrderReceivings
}

// NewPurchaseOrderHandler creates a new purchase order handler.
func NewPurchaseOrderHandler(base *BaseHandler, service PurchaseOrderService, receivings OrderReceivings) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		BaseHandler: base,
		service:     service,
		receivings:  receivings,
	}
}

// List handles GET /document/purchase-order
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	orders, err := h.service.ListForOrganization(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.PurchaseOrderResponse, len(orders))
	for i := range orders {
		items[i] = dto.FromPurchaseOrder(&orders[i])
	}
	c.JSON(http.StatusOK, dto.ItemsResponse{Items: items})
}

// Get handles GET /document/purchase-order/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	orderID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	po, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseOrder(po))
}

// Create handles POST /document/purchase-order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	po := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), po); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromPurchaseOrder(po))
}

// Delete handles DELETE /document/purchase-order/:id. Receivings of the
// order are deleted with it.
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	orderID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), orderID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Receivings handles GET /document/purchase-order/:id/receivings
func (h *PurchaseOrderHandler) Receivings(c *gin.Context) {
	orderID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	list, err := h.receivings.ForPurchaseOrder(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ReceivingResponse, len(list))
	for i, r := range list {
		items[i] = dto.FromReceiving(r)
	}
	c.JSON(http.StatusOK, dto.ItemsResponse{Items: items})
}

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"psi/internal/core/apperror"
	"psi/internal/core/id"
	"psi/internal/domain"
	"psi/internal/domain/receiving"
	"psi/internal/infrastructure/http/v1/dto"
)

// ReceivingService is the part of receiving.Service used by the handler.
type ReceivingService interface {
	Create(ctx context.Context, r *receiving.Receiving) error
	Update(ctx context.Context, r *receiving.Receiving) error
	GetByID(ctx context.Context, receivingID id.ID) (*receiving.Receiving, error)
	List(ctx context.Context, filter receiving.ListFilter) (domain.ListResult[*receiving.Receiving], error)
	Delete(ctx context.Context, receivingID id.ID) error
}

// ReceivingHandler handles receiving endpoints.
type ReceivingHandler struct {
	*BaseHandler
	service ReceivingService
}

// NewReceivingHandler creates a new receiving handler.
func NewReceivingHandler(base *BaseHandler, service ReceivingService) *ReceivingHandler {
	return &ReceivingHandler{BaseHandler: base, service: service}
}

// List handles GET /document/receiving
func (h *ReceivingHandler) List(c *gin.Context) {
	var q dto.ReceivingListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	lf, err := q.ToListFilter("")
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}
	filter := receiving.ListFilter{ListFilter: lf, DateFrom: q.DateFrom, DateTo: q.DateTo}
	if q.PurchaseOrderID != "" {
		v := id.MustParse(q.PurchaseOrderID)
		filter.PurchaseOrderID = &v
	}
	if q.StatusID != "" {
		v := id.MustParse(q.StatusID)
		filter.StatusID = &v
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]dto.ReceivingResponse, len(result.Items))
	for i, r := range result.Items {
		out[i] = dto.FromReceiving(r)
	}
	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      out,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /document/receiving/:id
func (h *ReceivingHandler) Get(c *gin.Context) {
	receivingID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), receivingID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReceiving(r))
}

// Create handles POST /document/receiving
func (h *ReceivingHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReceivingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r := req.ToEntity()
	if err := h.service.Create(ctx, r); err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.GetByID(ctx, r.ID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromReceiving(created))
}

// Update handles PUT /document/receiving/:id. The request replaces the
// header and the full set of lines.
func (h *ReceivingHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	receivingID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.ReceivingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.GetByID(ctx, receivingID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(r)

	if err := h.service.Update(ctx, r); err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.GetByID(ctx, receivingID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromReceiving(updated))
}

// Delete handles DELETE /document/receiving/:id
func (h *ReceivingHandler) Delete(c *gin.Context) {
	receivingID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), receivingID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Package handlers maps HTTP requests onto domain services.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"psi/internal/core/apperror"
	"psi/internal/core/id"
	"psi/internal/domain"
	"psi/internal/infrastructure/http/v1/dto"
)

// CatalogService is what CatalogHandler needs from a catalog service.
type CatalogService[T any] interface {
	Create(ctx context.Context, e T) error
	GetByID(ctx context.Context, id id.ID) (T, error)
	Update(ctx context.Context, e T) error
	Delete(ctx context.Context, id id.ID) error
	SetDeletionMark(ctx context.Context, id id.ID, marked bool) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error)
	FindByName(ctx context.Context, name string) (T, bool, error)
	FindByExternalID(ctx context.Context, externalID string) (T, bool, error)
	NextCode(ctx context.Context) (string, error)
}

// CatalogHandlerConfig binds a catalog service to its DTOs.
type CatalogHandlerConfig[T any, CreateDTO any, UpdateDTO any] struct {
	Service    CatalogService[T]
	EntityName string
	// MapCreateDTO builds a new entity from a create request.
	MapCreateDTO func(dto CreateDTO) T
	// MapUpdateDTO applies an update request onto the stored entity.
	MapUpdateDTO func(dto UpdateDTO, existing T) T
	MapToDTO     func(entity T) any
}

// CatalogHandler serves the CRUD, lookup and next-code routes shared by
// suppliers and products.
type CatalogHandler[T any, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO]
}

func NewCatalogHandler[T any, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO],
) *CatalogHandler[T, CreateDTO, UpdateDTO] {
	return &CatalogHandler[T, CreateDTO, UpdateDTO]{BaseHandler: base, cfg: cfg}
}

func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) respond(c *gin.Context, status int, e T) {
	c.JSON(status, h.cfg.MapToDTO(e))
}

// List handles GET /{entity}.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToListFilter("name")
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	result, err := h.cfg.Service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]any, 0, len(result.Items))
	for _, item := range result.Items {
		out = append(out, h.cfg.MapToDTO(item))
	}
	h.OK(c, dto.ListResponse{
		Items:      out,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	entityID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	entity, err := h.cfg.Service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.respond(c, http.StatusOK, entity)
}

// Lookup handles GET /{entity}/lookup. externalId wins over name when both
// are given.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Lookup(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		entity T
		found  bool
		err    error
		key    string
	)
	switch {
	case c.Query("externalId") != "":
		key = c.Query("externalId")
		entity, found, err = h.cfg.Service.FindByExternalID(ctx, key)
	case c.Query("name") != "":
		key = c.Query("name")
		entity, found, err = h.cfg.Service.FindByName(ctx, key)
	default:
		h.Error(c, apperror.NewValidation("name or externalId is required"))
		return
	}
	if err != nil {
		h.Error(c, err)
		return
	}
	if !found {
		h.Error(c, apperror.NewNotFound(h.cfg.EntityName, key))
		return
	}

	h.respond(c, http.StatusOK, entity)
}

// NextCode previews the code Create would assign.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) NextCode(c *gin.Context) {
	code, err := h.cfg.Service.NextCode(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.CodeResponse{Code: code})
}

// Create handles POST /{entity}.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	entity := h.cfg.MapCreateDTO(req)
	if err := h.cfg.Service.Create(c.Request.Context(), entity); err != nil {
		h.Error(c, err)
		return
	}

	h.respond(c, http.StatusCreated, entity)
}

// Update loads the stored entity and applies the request onto it.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.cfg.Service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated := h.cfg.MapUpdateDTO(req, existing)
	if err := h.cfg.Service.Update(ctx, updated); err != nil {
		h.Error(c, err)
		return
	}

	h.respond(c, http.StatusOK, updated)
}

// Delete handles DELETE /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	entityID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.cfg.Service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// SetDeletionMark handles POST /{entity}/:id/deletion-mark.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) SetDeletionMark(c *gin.Context) {
	entityID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.SetDeletionMarkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.cfg.Service.SetDeletionMark(c.Request.Context(), entityID, req.Marked); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "deletion mark updated")
}

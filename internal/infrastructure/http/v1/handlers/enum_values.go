package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"psi/internal/core/apperror"
	"psi/internal/domain/enums"
	"psi/internal/infrastructure/http/v1/dto"
)

// EnumValueService lists enum values by type.
type EnumValueService interface {
	TypeFilter(ctx context.Context, typ string) ([]enums.EnumValue, error)
}

// EnumValueHandler handles GET /catalog/enum-values.
type EnumValueHandler struct {
	*BaseHandler
	service EnumValueService
}

// NewEnumValueHandler creates a new enum value handler.
func NewEnumValueHandler(base *BaseHandler, service EnumValueService) *EnumValueHandler {
	return &EnumValueHandler{BaseHandler: base, service: service}
}

// List handles GET /catalog/enum-values?type=
func (h *EnumValueHandler) List(c *gin.Context) {
	typ := c.Query("type")
	if typ == "" {
		h.Error(c, apperror.NewValidation("type is required").WithDetail("field", "type"))
		return
	}

	values, err := h.service.TypeFilter(c.Request.Context(), typ)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ItemsResponse{Items: dto.FromEnumValues(values)})
}

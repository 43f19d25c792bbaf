package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"psi/internal/core/apperror"
	"psi/internal/core/id"
	"psi/internal/infrastructure/http/v1/dto"
)

// BaseHandler holds the binding and response helpers every handler embeds.
// Failures are handed to middleware.ErrorHandler, which writes the body.
type BaseHandler struct{}

func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON decodes the body into obj and reports false after registering a
// validation error.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	return h.bind(c, c.ShouldBindJSON(obj), "invalid request body")
}

// BindQuery is BindJSON for query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	return h.bind(c, c.ShouldBindQuery(obj), "invalid query parameters")
}

func (h *BaseHandler) bind(c *gin.Context, err error, message string) bool {
	if err == nil {
		return true
	}
	h.Error(c, apperror.NewValidation(message).WithDetail("error", err.Error()))
	return false
}

// ParamID parses path parameter name as an ID.
func (h *BaseHandler) ParamID(c *gin.Context, name string) (id.ID, bool) {
	v, err := id.Parse(c.Param(name))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("field", name))
		return id.Nil(), false
	}
	return v, true
}

func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func (h *BaseHandler) Created(c *gin.Context, data any) { c.JSON(http.StatusCreated, data) }

func (h *BaseHandler) OK(c *gin.Context, data any) { c.JSON(http.StatusOK, data) }

func (h *BaseHandler) NoContent(c *gin.Context) { c.Status(http.StatusNoContent) }

// Success answers 200 for operations that return no entity.
func (h *BaseHandler) Success(c *gin.Context, message string) {
	h.OK(c, dto.SuccessResponse{Success: true, Message: message})
}

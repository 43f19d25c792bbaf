package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"psi/internal/core/apperror"
	"psi/internal/domain/reports"
	"psi/internal/infrastructure/http/v1/dto"
)

// ReportService is the part of reports.Service used by ReportsHandler.
type ReportService interface {
	View() reports.ViewConfig
	Query(ctx context.Context, f reports.Filter) (*reports.Page, error)
	Count(ctx context.Context, f reports.Filter) (int64, error)
	ContentType() string
	Export(ctx context.Context, w io.Writer, f reports.Filter) error
}

// ReportsHandler handles HTTP requests for the supplier sales report.
type ReportsHandler struct {
	*BaseHandler
	service ReportService
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service ReportService) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// filter parses the :window parameter and the query string.
func (h *ReportsHandler) filter(c *gin.Context) (reports.Filter, bool) {
	window, err := reports.ParseWindow(c.Param("window"))
	if err != nil {
		h.Error(c, err)
		return reports.Filter{}, false
	}

	var q dto.SupplierSalesQuery
	if !h.BindQuery(c, &q) {
		return reports.Filter{}, false
	}
	f, err := q.ToFilter(window)
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return reports.Filter{}, false
	}
	return f, true
}

// GetView handles GET /reports/supplier-sales
func (h *ReportsHandler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FromViewConfig(h.service.View()))
}

// GetRows handles GET /reports/supplier-sales/:window
func (h *ReportsHandler) GetRows(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}

	page, err := h.service.Query(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetCount handles GET /reports/supplier-sales/:window/count
func (h *ReportsHandler) GetCount(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}

	n, err := h.service.Count(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

// Export handles GET /reports/supplier-sales/:window/export.xlsx
func (h *ReportsHandler) Export(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}

	// buffered so that a failure still produces a JSON error
	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), &buf, f); err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="supplier_sales_%s.xlsx"`, f.Window))
	c.Data(http.StatusOK, h.service.ContentType(), buf.Bytes())
}

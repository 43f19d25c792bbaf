package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"psi/internal/domain/catalogs/product"
	"psi/internal/infrastructure/http/v1/dto"
)

// ProductHTTPHandler is the catalog handler of products plus the
// products-of-a-supplier listing.
type ProductHTTPHandler struct {
	*CatalogHandler[*product.Product, dto.ProductRequest, dto.ProductRequest]
	service *product.Service
}

// NewProductHandler wires the product DTO mapping into a catalog handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHTTPHandler {
	catalog := NewCatalogHandler(base, CatalogHandlerConfig[*product.Product, dto.ProductRequest, dto.ProductRequest]{
		Service:    service.CatalogService,
		EntityName: "product",
		MapCreateDTO: func(req dto.ProductRequest) *product.Product {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.ProductRequest, existing *product.Product) *product.Product {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *product.Product) any {
			return dto.FromProduct(entity)
		},
	})
	return &ProductHTTPHandler{CatalogHandler: catalog, service: service}
}

// ListBySupplier handles GET /catalog/suppliers/:id/products
func (h *ProductHTTPHandler) ListBySupplier(c *gin.Context) {
	supplierID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	products, err := h.service.ListBySupplier(c.Request.Context(), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		items[i] = dto.FromProduct(p)
	}
	c.JSON(http.StatusOK, dto.ItemsResponse{Items: items})
}

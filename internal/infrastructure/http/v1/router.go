// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"psi/internal/domain/catalogs/product"
	"psi/internal/domain/catalogs/supplier"
	"psi/internal/domain/reports"
	"psi/internal/infrastructure/http/v1/handlers"
	"psi/internal/infrastructure/http/v1/middleware"
	"psi/pkg/logger"
)

// RouterConfig holds the services exposed over HTTP.
type RouterConfig struct {
	Logger *logger.Logger

	// Development enables gin debug mode
	Development bool

	// CORSOrigins lists allowed browser origins ("*" for any)
	CORSOrigins []string

	JWTValidator middleware.TokenValidator
	Health       *handlers.HealthHandler

	Auth           handlers.AuthService
	Suppliers      *supplier.Service
	Products       *product.Service
	EnumValues     handlers.EnumValueService
	PurchaseOrders handlers.PurchaseOrderService
	Receivings     interface {
		handlers.ReceivingService
		handlers.OrderReceivings
	}
	Reports handlers.ReportService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedExtensions([]string{".xlsx"})))

	if cfg.Health != nil {
		health := router.Group("/health")
		health.GET("/live", cfg.Health.Live)
		health.GET("/ready", cfg.Health.Ready)
		health.GET("/info", cfg.Health.Info)
	}

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected, cfg)
		registerDocumentRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Auth == nil {
		return
	}

	authHandler := handlers.NewAuthHandler(handlers.NewBaseHandler(), cfg.Auth)

	public := rg.Group("/auth")
	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(public, protected)
}

// registerCatalogRoutes registers supplier, product and enum value endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	if cfg.Suppliers != nil {
		handler := handlers.NewSupplierHandler(baseHandler, cfg.Suppliers)
		RegisterCatalogRoutes(catalogs.Group("/suppliers"), handler)
	}

	if cfg.Products != nil {
		handler := handlers.NewProductHandler(baseHandler, cfg.Products)
		RegisterCatalogRoutes(catalogs.Group("/products"), handler)
		catalogs.GET("/suppliers/:id/products", handler.ListBySupplier)
	}

	if cfg.EnumValues != nil {
		handler := handlers.NewEnumValueHandler(baseHandler, cfg.EnumValues)
		catalogs.GET("/enum-values", handler.List)
	}
}

// registerDocumentRoutes registers purchase order and receiving endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docs := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	if cfg.PurchaseOrders != nil && cfg.Receivings != nil {
		handler := handlers.NewPurchaseOrderHandler(baseHandler, cfg.PurchaseOrders, cfg.Receivings)
		group := docs.Group("/purchase-order")
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.GET("/:id", handler.Get)
		group.DELETE("/:id", handler.Delete)
		group.GET("/:id/receivings", handler.Receivings)
	}

	if cfg.Receivings != nil {
		handler := handlers.NewReceivingHandler(baseHandler, cfg.Receivings)
		group := docs.Group("/receiving")
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.GET("/:id", handler.Get)
		group.PUT("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)
	}
}

// registerReportRoutes registers supplier sales report endpoints. Every
// route requires the report's role.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Reports == nil {
		return
	}

	handler := handlers.NewReportsHandler(handlers.NewBaseHandler(), cfg.Reports)

	group := rg.Group("/reports/supplier-sales")
	group.Use(middleware.RequireRole(reports.SalesReportRole))
	group.GET("", handler.GetView)
	group.GET("/:window", handler.GetRows)
	group.GET("/:window/count", handler.GetCount)
	group.GET("/:window/export.xlsx", handler.Export)
}

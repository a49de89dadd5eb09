package v1

import (
	"github.com/gin-gonic/gin"

	"onmuhasebe/internal/domain/catalogs/counterparty"
	"onmuhasebe/internal/domain/catalogs/product"
	"onmuhasebe/internal/domain/invoice"
	"onmuhasebe/internal/domain/orders"
	"onmuhasebe/internal/domain/registers/cash"
	"onmuhasebe/internal/domain/registers/cashflow"
	"onmuhasebe/internal/domain/registers/ledger"
	"onmuhasebe/internal/domain/registers/stock"
	"onmuhasebe/internal/infrastructure/http/v1/dto"
	"onmuhasebe/internal/infrastructure/http/v1/handlers"
	"onmuhasebe/internal/infrastructure/http/v1/middleware"
	"onmuhasebe/internal/infrastructure/storage/postgres"
	"onmuhasebe/pkg/logger"
)

// RouterConfig holds the wired services the API exposes.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	Invoices       *invoice.Service
	Orders         *orders.Service
	Counterparties *counterparty.Service
	Products       *product.Service
	CashAccounts   *cash.Service
	Stock          *stock.Service
	Ledger         *ledger.Service
	Cashflow       *cashflow.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	dto.RegisterValidators()

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// API v1
	api := router.Group("/api/v1")
	{
		// --- CATALOGS ---
		catalogs := api.Group("/catalog")
		RegisterCatalogRoutes(catalogs.Group("/counterparties"),
			handlers.NewCounterpartyHandler(baseHandler, cfg.Counterparties))
		RegisterCatalogRoutes(catalogs.Group("/products"),
			handlers.NewProductHandler(baseHandler, cfg.Products))
		RegisterCatalogRoutes(catalogs.Group("/cash-accounts"),
			handlers.NewCashAccountHandler(baseHandler, cfg.CashAccounts))

		// --- INVOICES ---
		invoiceHandler := handlers.NewInvoiceHandler(baseHandler, cfg.Invoices)
		invoices := api.Group("/invoices")
		{
			invoices.GET("", invoiceHandler.List)
			invoices.POST("", invoiceHandler.Create)
			invoices.GET("/:id", invoiceHandler.Get)
			invoices.PUT("/:id", invoiceHandler.Update)
			invoices.DELETE("/:id", invoiceHandler.Delete)
			invoices.POST("/:id/return", invoiceHandler.Return)
			invoices.GET("/by-number/:number", invoiceHandler.GetByNumber)
		}

		// --- SALES ORDERS ---
		orderHandler := handlers.NewOrderHandler(baseHandler, cfg.Orders)
		ordersGroup := api.Group("/orders")
		{
			ordersGroup.GET("", orderHandler.List)
			ordersGroup.POST("", orderHandler.Create)
			ordersGroup.GET("/:id", orderHandler.Get)
			ordersGroup.POST("/:id/convert", orderHandler.Convert)
			ordersGroup.POST("/:id/cancel", orderHandler.Cancel)
		}

		// --- REGISTERS (read-only reporting) ---
		registers := api.Group("/registers")
		{
			stockHandler := handlers.NewStockHandler(baseHandler, cfg.Stock)
			registers.GET("/stock/movements", stockHandler.Movements)

			ledgerHandler := handlers.NewLedgerHandler(baseHandler, cfg.Ledger)
			registers.GET("/ledger/:counterpartyId", ledgerHandler.Statement)
			registers.GET("/ledger/:counterpartyId/balance", ledgerHandler.Balance)

			cashflowHandler := handlers.NewCashflowHandler(baseHandler, cfg.Cashflow)
			registers.GET("/cashflow", cashflowHandler.List)
		}
	}

	return router
}

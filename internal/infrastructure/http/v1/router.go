package v1

import (
	"github.com/gin-gonic/gin"

	appctx "airsolutions/internal/core/context"
	"airsolutions/internal/domain/catalogs/catalogitem"
	"airsolutions/internal/domain/catalogs/client"
	"airsolutions/internal/infrastructure/http/v1/handlers"
	"airsolutions/internal/infrastructure/http/v1/middleware"
	"airsolutions/pkg/logger"
)

// RouterConfig holds everything the router wires into handlers.
type RouterConfig struct {
	// Mode is the gin mode; empty keeps the current one
	Mode string

	Logger  *logger.Logger
	Version string

	// Tokens validates bearer tokens
	Tokens middleware.TokenValidator

	// Idempotency enables X-Idempotency-Key on admin POST endpoints when set
	Idempotency middleware.IdempotencyStore

	Database       handlers.Database
	Auth           handlers.LoginService
	Clients        handlers.CatalogService[*client.Client]
	CatalogItems   handlers.CatalogService[*catalogitem.CatalogItem]
	Quotes         handlers.QuoteService
	Invoices       handlers.InvoiceService
	FiscalVouchers handlers.FiscalVoucherService
	Assistant      handlers.Interpreter
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(cfg.Database, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(base, cfg.Auth)
	assistantHandler := handlers.NewAssistantHandler(base, cfg.Assistant)
	clientHandler := handlers.NewClientHandler(base, cfg.Clients)
	catalogItemHandler := handlers.NewCatalogItemHandler(base, cfg.CatalogItems)
	quoteHandler := handlers.NewQuoteHandler(base, cfg.Quotes)
	invoiceHandler := handlers.NewInvoiceHandler(base, cfg.Invoices)
	voucherHandler := handlers.NewFiscalVoucherHandler(base, cfg.FiscalVouchers)

	v1 := router.Group("/api/v1")

	public := v1.Group("")
	public.Use(middleware.OptionalAuth(cfg.Tokens))
	{
		public.POST("/auth/login", authHandler.Login)
		public.POST("/assistant/interpret", assistantHandler.Interpret)
	}

	authenticated := v1.Group("")
	authenticated.Use(middleware.Auth(cfg.Tokens))

	admin := authenticated.Group("")
	admin.Use(middleware.RequireRole(appctx.RoleAdmin))
	if cfg.Idempotency != nil {
		admin.Use(middleware.Idempotency(cfg.Idempotency))
	}

	RegisterCRUDRoutes(public, admin, "/catalog-items", catalogItemHandler)
	RegisterCRUDRoutes(authenticated, admin, "/clients", clientHandler)
	RegisterCRUDRoutes(authenticated, admin, "/quotes", quoteHandler)
	RegisterCRUDRoutes(authenticated, admin, "/invoices", invoiceHandler)

	authenticated.GET("/invoices/:id/history", invoiceHandler.History)
	admin.POST("/invoices/:id/payments", invoiceHandler.AddPayment)
	admin.POST("/invoices/:id/cancel", invoiceHandler.Cancel)

	authenticated.GET("/fiscal-vouchers", voucherHandler.List)
	admin.POST("/fiscal-vouchers", voucherHandler.Create)

	return router
}

package router

import (
	"time"

	"github.com/StockSmart-AI/stock-smart-backend/internal/config"
	"github.com/StockSmart-AI/stock-smart-backend/internal/handler"
	"github.com/StockSmart-AI/stock-smart-backend/internal/infra"
	"github.com/StockSmart-AI/stock-smart-backend/internal/middleware"
	"github.com/StockSmart-AI/stock-smart-backend/internal/repository"
	"github.com/StockSmart-AI/stock-smart-backend/internal/service"
	"github.com/StockSmart-AI/stock-smart-backend/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, forecastCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Prometheus())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	forecastClient := infra.NewForecastClient(cfg.ForecastSidecarURL)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	shopRepo := repository.NewShopRepository(db)
	productRepo := repository.NewProductRepository(db)
	itemRepo := repository.NewItemRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, invitationRepo, dispatcher, cfg)
	shopSvc := service.NewShopService(shopRepo, invitationRepo, dispatcher, cfg.Domain)
	productSvc := service.NewProductService(productRepo, itemRepo, shopRepo)
	ledgerSvc := service.NewLedgerService(productRepo, itemRepo)
	recorderSvc := service.NewRecorderService(transactionRepo)
	checkoutSvc := service.NewCheckoutService(ledgerSvc, recorderSvc, productRepo, shopRepo, userRepo, dispatcher)
	transactionSvc := service.NewTransactionService(transactionRepo, shopRepo, userRepo, dispatcher, cfg.ReceiptStoragePath)
	analyticsSvc := service.NewAnalyticsService(productRepo, transactionRepo, shopRepo, userRepo, forecastClient, forecastCB)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	shopsH := handler.NewShopsHandler(shopSvc)
	productsH := handler.NewProductsHandler(productSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc)
	transactionsH := handler.NewTransactionsHandler(transactionSvc)
	analyticsH := handler.NewAnalyticsHandler(analyticsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/verify", authH.VerifyOTP)
		auth.POST("/resend", authH.ResendOTP)
		auth.POST("/accept-invitation", authH.AcceptInvitation)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		anyRole := middleware.RequireRole("owner", "manager", "employee")
		managers := middleware.RequireRole("owner", "manager")

		// Checkout — every role can sell; restock needs manager or owner
		v1.POST("/sell", anyRole, checkoutH.Sell)
		v1.POST("/restock", managers, checkoutH.Restock)

		// Shops — owners only for writes
		v1.GET("/shops", anyRole, shopsH.List)
		v1.GET("/shops/:id", anyRole, shopsH.Get)
		shops := v1.Group("/shops", middleware.RequireRole("owner"))
		{
			shops.POST("", shopsH.Create)
			shops.PUT("/:id", shopsH.Update)
			shops.POST("/:id/invitations", shopsH.Invite)
			shops.GET("/:id/invitations", shopsH.ListInvitations)
		}

		// Products — all roles read, managers write
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.Get)
		v1.GET("/products/:id/items", anyRole, productsH.ListItems)
		v1.GET("/scan/:barcode", anyRole, productsH.Scan)
		products := v1.Group("/products", managers)
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		// Transactions — immutable, read-only
		v1.GET("/transactions", anyRole, transactionsH.List)
		v1.GET("/transactions/:id", anyRole, transactionsH.Get)
		v1.GET("/transactions/:id/receipt", anyRole, transactionsH.Receipt)
		v1.POST("/transactions/:id/receipt/email", anyRole, transactionsH.EmailReceipt)

		// Analytics
		analytics := v1.Group("/analytics", managers)
		{
			analytics.GET("/summary", analyticsH.Summary)
			analytics.GET("/stock-by-category", analyticsH.StockByCategory)
			analytics.GET("/sales", analyticsH.SalesSeries)
			analytics.GET("/top-selling", analyticsH.TopSelling)
			analytics.GET("/top-stocked", analyticsH.TopStocked)
			analytics.GET("/critical", analyticsH.CriticalProducts)
			analytics.GET("/forecast/:id", analyticsH.Forecast)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

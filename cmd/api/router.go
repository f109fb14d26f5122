package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"contauno/internal/config"
	"contauno/internal/events"
	"contauno/internal/handlers"
	"contauno/internal/middleware"
	"contauno/internal/services"
	"contauno/internal/validator"
)

// api bundles the HTTP handlers served under /api/v1.
type api struct {
	auth         *handlers.AuthHandler
	transactions *handlers.TransactionHandler
	products     *handlers.ProductHandler
	categories   *handlers.CategoryHandler
	templates    *handlers.TemplateHandler
	balances     *handlers.BalanceHandler
	analysis     *handlers.AnalysisHandler
}

func newAPI(db *gorm.DB, cfg *config.Config, publisher events.Publisher) *api {
	auditService := services.NewAuditService(db)
	transactionService := services.NewTransactionService(db, publisher, cfg.LowStockThreshold)

	return &api{
		auth:         handlers.NewAuthHandler(services.NewUserService(db), auditService),
		transactions: handlers.NewTransactionHandler(transactionService, auditService),
		products:     handlers.NewProductHandler(services.NewProductService(db, cfg.LowStockThreshold), auditService),
		categories:   handlers.NewCategoryHandler(services.NewCategoryService(db), auditService),
		templates:    handlers.NewTemplateHandler(services.NewTemplateService(db), transactionService, auditService),
		balances:     handlers.NewBalanceHandler(services.NewBalanceService(db)),
		analysis:     handlers.NewAnalysisHandler(services.NewAnalysisService(db, cfg.Insights)),
	}
}

func setupRouter(a *api) *gin.Engine {
	validator.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Tracing())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, traceparent")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", a.auth.Register)
	auth.POST("/login", a.auth.Login)
	auth.POST("/refresh", a.auth.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", a.auth.GetProfile)

	transactions := protected.Group("/transactions")
	transactions.POST("", a.transactions.CreateTransaction)
	transactions.GET("", a.transactions.GetUserTransactions)
	transactions.GET("/day/:date", a.transactions.GetDayTransactions)
	transactions.GET("/:id", a.transactions.GetTransactionByID)
	transactions.PUT("/:id", a.transactions.UpdateTransaction)
	transactions.DELETE("/:id", a.transactions.DeleteTransaction)

	products := protected.Group("/products")
	products.POST("", a.products.CreateProduct)
	products.GET("", a.products.GetUserProducts)
	products.GET("/categories", a.products.GetProductCategories)
	products.GET("/:id", a.products.GetProductByID)
	products.PUT("/:id", a.products.UpdateProduct)
	products.DELETE("/:id", a.products.DeleteProduct)
	products.GET("/:id/movements", a.products.GetProductMovements)
	protected.GET("/inventory/movements", a.products.GetInventoryMovements)

	categories := protected.Group("/categories")
	categories.POST("", a.categories.CreateCategory)
	categories.GET("", a.categories.GetUserCategories)
	categories.GET("/:id", a.categories.GetCategoryByID)
	categories.PUT("/:id", a.categories.RenameCategory)
	categories.DELETE("/:id", a.categories.DeleteCategory)

	templates := protected.Group("/templates")
	templates.POST("", a.templates.CreateTemplate)
	templates.GET("", a.templates.GetUserTemplates)
	templates.GET("/:id", a.templates.GetTemplateByID)
	templates.PUT("/:id", a.templates.RenameTemplate)
	templates.DELETE("/:id", a.templates.DeleteTemplate)
	templates.POST("/:id/apply", a.templates.ApplyTemplate)

	balances := protected.Group("/balances")
	balances.GET("/day/:date", a.balances.GetDayBalance)
	balances.GET("/calendar", a.balances.GetCalendar)
	balances.GET("/weekly", a.balances.GetWeeklyBalance)
	balances.GET("/monthly", a.balances.GetMonthlyBalance)
	balances.GET("/annual", a.balances.GetAnnualBalance)

	protected.GET("/reports/monthly", a.balances.GetMonthlyReport)
	protected.GET("/analysis", a.analysis.GetAnalysis)

	return router
}

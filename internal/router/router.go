// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storeapp/store-backend/internal/config"
	"github.com/storeapp/store-backend/internal/handlers"
	"github.com/storeapp/store-backend/internal/middleware"
	"github.com/storeapp/store-backend/internal/services"
	"github.com/storeapp/store-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	storageService, _ := services.NewStorageService(cfg)
	verificationService := services.NewVerificationService(db, cfg, notificationService)

	authService := services.NewAuthService(db, cfg, verificationService)
	userService := services.NewUserService(db)
	productService := services.NewProductService(db)
	basketService := services.NewBasketService(db)
	orderService := services.NewOrderService(db, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, storageService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	basketHandler := handlers.NewBasketHandler(basketService)
	orderHandler := handlers.NewOrderHandler(orderService)
	verificationHandler := handlers.NewVerificationHandler(verificationService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.GET("", userHandler.GetUsers)
			users.GET("/:id", userHandler.GetUser)
			users.POST("/avatar", middleware.UploadRateLimit(), userHandler.UploadAvatar)
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", productHandler.GetCategories)
			categories.POST("", middleware.AuthRequired(), middleware.StaffRequired(), productHandler.CreateCategory)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.GetProducts)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)

			// Authenticated routes
			protected := products.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", middleware.StaffRequired(), productHandler.CreateProduct)
				protected.PUT("/:id", productHandler.UpdateProduct)
				protected.DELETE("/:id", middleware.StaffRequired(), productHandler.DeleteProduct)
				protected.POST("/upload-images", middleware.UploadRateLimit(), productHandler.UploadProductImages)
			}
		}

		// Basket routes
		basket := v1.Group("/basket")
		basket.Use(middleware.AuthRequired())
		{
			basket.GET("", basketHandler.GetBasket)
			basket.POST("", basketHandler.AddBasketItem)
			basket.GET("/:id", basketHandler.GetBasketItem)
			basket.PUT("/:id", basketHandler.UpdateBasketItem)
			basket.DELETE("/:id", basketHandler.RemoveBasketItem)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.GET("", orderHandler.GetOrders)
			orders.POST("", middleware.CheckoutRateLimit(), orderHandler.CreateOrder)
			orders.GET("/stats", orderHandler.GetOrderStats)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id", orderHandler.UpdateOrder)
			orders.POST("/:id/pay", middleware.CheckoutRateLimit(), orderHandler.PayOrder)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)
			orders.DELETE("/:id", orderHandler.CancelOrder)
			orders.PUT("/:id/status", middleware.StaffRequired(), orderHandler.AdvanceOrderStatus)
		}

		// Verification routes
		verifications := v1.Group("/verifications")
		verifications.Use(middleware.AuthRequired())
		{
			verifications.GET("", verificationHandler.GetVerifications)
			verifications.GET("/:id", verificationHandler.GetVerification)
			verifications.POST("/:id/verify", verificationHandler.Verify)
			verifications.POST("/:id/resend", verificationHandler.Resend)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}

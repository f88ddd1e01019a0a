// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/procureflow/rfp-backend/internal/config"
	"github.com/procureflow/rfp-backend/internal/handlers"
	"github.com/procureflow/rfp-backend/internal/middleware"
	"github.com/procureflow/rfp-backend/internal/services"
	"github.com/procureflow/rfp-backend/internal/store"
	"github.com/procureflow/rfp-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	// Initialize store and services
	st := store.NewGormStore(db)

	notificationService := services.NewNotificationService(cfg, logger)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(st, cfg)
	rfpService := services.NewRFPService(st, storageService, notificationService, logger)
	responseService := services.NewResponseService(st, storageService, notificationService, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	rfpHandler := handlers.NewRFPHandler(rfpService, authService)
	responseHandler := handlers.NewResponseHandler(responseService, authService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg))
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
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Public search over published RFPs
		v1.GET("/rfps/search", middleware.OptionalAuth(), rfpHandler.Search)

		// RFP routes
		rfps := v1.Group("/rfps")
		rfps.Use(middleware.AuthRequired())
		{
			rfps.GET("", rfpHandler.List)
			rfps.GET("/:id", rfpHandler.Get)
			rfps.GET("/:id/responses", middleware.BuyerRequired(), responseHandler.ListForRFP)

			// Buyer routes
			buyer := rfps.Group("")
			buyer.Use(middleware.BuyerRequired())
			{
				buyer.POST("", rfpHandler.Create)
				buyer.PUT("/:id", rfpHandler.Update)
				buyer.PATCH("/:id/status", rfpHandler.UpdateStatus)
				buyer.PATCH("/:id/responses/:response_id/status", responseHandler.UpdateStatus)
				buyer.DELETE("/:id", rfpHandler.Delete)
				buyer.POST("/:id/document", middleware.UploadRateLimit(), rfpHandler.UploadDocument)
			}

			// Supplier routes
			rfps.POST("/:id/responses", middleware.SupplierRequired(), middleware.UploadRateLimit(), responseHandler.Submit)
		}

		// Response routes
		responses := v1.Group("/responses")
		responses.Use(middleware.AuthRequired())
		{
			responses.GET("/my", middleware.SupplierRequired(), responseHandler.ListMine)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
